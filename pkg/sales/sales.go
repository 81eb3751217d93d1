// Package sales prices a device together with the customization options and
// add-ons chosen for it, and builds the payload submitted to the remote
// catalog when the sale is made.
//
// Pricing rules:
//
//	subtotal = device base price + extra price of every selected option
//	total    = subtotal + price of every add-on that is not free
//
// An add-on is free when it has a non-negative free price and the subtotal
// reaches it.
package sales

import (
	"fmt"
	"time"

	"github.com/agentstation/techmarket/pkg/catalogs"
	"github.com/agentstation/techmarket/pkg/constants"
	"github.com/agentstation/techmarket/pkg/errors"
	"github.com/agentstation/techmarket/pkg/relation"
)

// Line is one priced item of a quote.
type Line struct {
	ID    int64   `json:"id" yaml:"id"`
	Name  string  `json:"name" yaml:"name"`
	Price float64 `json:"price" yaml:"price"`
	Free  bool    `json:"free,omitempty" yaml:"free,omitempty"`
	// Group is the customization of an option line.
	Group string `json:"group,omitempty" yaml:"group,omitempty"`
}

// Quote is the price breakdown of a device sale.
type Quote struct {
	DeviceID   int64   `json:"device_id" yaml:"device_id"`
	DeviceName string  `json:"device_name" yaml:"device_name"`
	Currency   string  `json:"currency" yaml:"currency"`
	BasePrice  float64 `json:"base_price" yaml:"base_price"`
	Options    []Line  `json:"options" yaml:"options"`
	AddOns     []Line  `json:"add_ons" yaml:"add_ons"`
	Subtotal   float64 `json:"subtotal" yaml:"subtotal"`
	Total      float64 `json:"total" yaml:"total"`
}

// NewQuote prices device with the given options and add-ons.
//
// Every option must belong to a customization of the device, with at most one
// option per customization, and every add-on must be attached to the device.
// Repeated selections count once.
func NewQuote(device *catalogs.Device, options []*catalogs.Option, addOns []*catalogs.AddOn) (*Quote, error) {
	if device == nil {
		return nil, &errors.ValidationError{Field: "device", Message: "is required"}
	}

	q := &Quote{
		DeviceID:   device.ID,
		DeviceName: device.Name,
		Currency:   device.Currency,
		BasePrice:  device.BasePrice,
		Options:    []Line{},
		AddOns:     []Line{},
	}
	if q.Currency == "" {
		q.Currency = constants.DefaultCurrency
	}

	subtotal := device.BasePrice
	chosen := make(map[int64]int64)
	for _, o := range relation.Merge[int64](nil, options) {
		cu := o.Customization
		if cu == nil || cu.Device == nil || cu.Device.ID != device.ID {
			return nil, &errors.ValidationError{
				Field:   "options",
				Value:   o.ID,
				Message: fmt.Sprintf("option %s is not offered for device %s", o.Code, device.Code),
			}
		}
		if other, dup := chosen[cu.ID]; dup {
			return nil, &errors.ValidationError{
				Field:   "options",
				Value:   o.ID,
				Message: fmt.Sprintf("options %d and %d both set customization %s", other, o.ID, cu.Name),
			}
		}
		chosen[cu.ID] = o.ID

		subtotal += o.ExtraPrice
		q.Options = append(q.Options, Line{
			ID:    o.ID,
			Name:  o.Name,
			Price: catalogs.RoundPrice(o.ExtraPrice),
			Group: cu.Name,
		})
	}
	q.Subtotal = catalogs.RoundPrice(subtotal)

	total := subtotal
	for _, a := range relation.Merge[int64](nil, addOns) {
		if !relation.Contains(device.AddOns, a.ID) {
			return nil, &errors.ValidationError{
				Field:   "add_ons",
				Value:   a.ID,
				Message: fmt.Sprintf("add-on %s is not sold with device %s", a.Name, device.Code),
			}
		}
		line := Line{ID: a.ID, Name: a.Name, Price: catalogs.RoundPrice(a.Price)}
		if a.FreeAt(subtotal) {
			line.Free = true
			line.Price = 0
		}
		total += line.Price
		q.AddOns = append(q.AddOns, line)
	}
	q.Total = catalogs.RoundPrice(total)

	return q, nil
}

// Request is the sale payload accepted by the remote catalog.
type Request struct {
	DeviceID       int64           `json:"idDispositivo"`
	Customizations []RequestOption `json:"personalizaciones"`
	AddOns         []RequestAddOn  `json:"adicionales"`
	FinalPrice     float64         `json:"precioFinal"`
	Date           time.Time       `json:"fechaVenta"`
}

// RequestOption is a selected option with the extra price charged for it.
type RequestOption struct {
	ID         int64   `json:"id"`
	ExtraPrice float64 `json:"precioAdicional"`
}

// RequestAddOn is an add-on with the price charged for it.
type RequestAddOn struct {
	ID    int64   `json:"id"`
	Price float64 `json:"precio"`
}

// Request builds the payload that submits q as a sale made at the given time.
func (q *Quote) Request(at time.Time) Request {
	req := Request{
		DeviceID:       q.DeviceID,
		Customizations: make([]RequestOption, 0, len(q.Options)),
		AddOns:         make([]RequestAddOn, 0, len(q.AddOns)),
		FinalPrice:     q.Total,
		Date:           at,
	}
	for _, o := range q.Options {
		req.Customizations = append(req.Customizations, RequestOption{ID: o.ID, ExtraPrice: o.Price})
	}
	for _, a := range q.AddOns {
		req.AddOns = append(req.AddOns, RequestAddOn{ID: a.ID, Price: a.Price})
	}
	return req
}

// Sale returns the local record of q sold to user.
func (q *Quote) Sale(id int64, user *catalogs.User, at time.Time) *catalogs.Sale {
	return &catalogs.Sale{
		ID:         id,
		Date:       at,
		FinalPrice: q.Total,
		DeviceID:   q.DeviceID,
		User:       user.Clone(),
	}
}
