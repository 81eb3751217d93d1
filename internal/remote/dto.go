package remote

import (
	"time"

	"github.com/agentstation/techmarket/pkg/catalogs"
)

// Device is a device as published by the remote catalog, with everything
// that hangs off it nested inline.
type Device struct {
	ID              int64            `json:"id"`
	Code            string           `json:"codigo"`
	Name            string           `json:"nombre"`
	Description     string           `json:"descripcion"`
	BasePrice       float64          `json:"precioBase"`
	Currency        string           `json:"moneda"`
	Characteristics []Characteristic `json:"caracteristicas"`
	Customizations  []Customization  `json:"personalizaciones"`
	AddOns          []AddOn          `json:"adicionales"`
}

// Characteristic is a remote device characteristic.
type Characteristic struct {
	ID          int64  `json:"id"`
	Name        string `json:"nombre"`
	Description string `json:"descripcion"`
}

// Customization is a remote device customization with its options.
type Customization struct {
	ID          int64    `json:"id"`
	Name        string   `json:"nombre"`
	Description string   `json:"descripcion"`
	Options     []Option `json:"opciones"`
}

// Option is a remote customization option.
type Option struct {
	ID          int64   `json:"id"`
	Code        string  `json:"codigo"`
	Name        string  `json:"nombre"`
	Description string  `json:"descripcion"`
	ExtraPrice  float64 `json:"precioAdicional"`
}

// AddOn is a remote add-on. FreePrice is -1 when the add-on is never free.
type AddOn struct {
	ID          int64    `json:"id"`
	Name        string   `json:"nombre"`
	Description string   `json:"descripcion"`
	Price       float64  `json:"precio"`
	FreePrice   *float64 `json:"precioGratis,omitempty"`
}

// Entities converts d to catalog entities. References between them are id
// stubs.
func (d Device) Entities() Entities {
	device := &catalogs.Device{
		ID:          d.ID,
		Code:        d.Code,
		Name:        d.Name,
		Description: d.Description,
		BasePrice:   d.BasePrice,
		Currency:    d.Currency,
		AddOns:      make([]*catalogs.AddOn, 0, len(d.AddOns)),
	}
	out := Entities{Device: device}
	stub := &catalogs.Device{ID: d.ID}

	for _, a := range d.AddOns {
		addOn := &catalogs.AddOn{ID: a.ID, Name: a.Name, Description: a.Description, Price: a.Price}
		if a.FreePrice != nil {
			v := *a.FreePrice
			addOn.FreePrice = &v
		}
		out.AddOns = append(out.AddOns, addOn)
		device.AddOns = append(device.AddOns, &catalogs.AddOn{ID: a.ID})
	}
	for _, c := range d.Characteristics {
		out.Characteristics = append(out.Characteristics, &catalogs.Characteristic{
			ID: c.ID, Name: c.Name, Description: c.Description, Device: stub,
		})
	}
	for _, c := range d.Customizations {
		owner := &catalogs.Customization{ID: c.ID}
		out.Customizations = append(out.Customizations, &catalogs.Customization{
			ID: c.ID, Name: c.Name, Description: c.Description, Device: stub,
		})
		for _, o := range c.Options {
			out.Options = append(out.Options, &catalogs.Option{
				ID: o.ID, Code: o.Code, Name: o.Name, Description: o.Description,
				ExtraPrice: o.ExtraPrice, Customization: owner,
			})
		}
	}
	return out
}

// Entities are the catalog entities derived from one remote device.
type Entities struct {
	Device          *catalogs.Device
	AddOns          []*catalogs.AddOn
	Characteristics []*catalogs.Characteristic
	Customizations  []*catalogs.Customization
	Options         []*catalogs.Option
}

// SaleResult is the remote catalog's record of a sale.
type SaleResult struct {
	SaleID          int64               `json:"idVenta"`
	DeviceID        int64               `json:"idDispositivo"`
	Code            string              `json:"codigo,omitempty"`
	Name            string              `json:"nombre,omitempty"`
	Description     string              `json:"descripcion,omitempty"`
	BasePrice       float64             `json:"precioBase,omitempty"`
	Currency        string              `json:"moneda,omitempty"`
	FinalPrice      float64             `json:"precioFinal,omitempty"`
	Date            time.Time           `json:"fechaVenta,omitzero"`
	Characteristics []Characteristic    `json:"catacteristicas,omitempty"`
	Customizations  []SoldCustomization `json:"personalizaciones,omitempty"`
	AddOns          []AddOn             `json:"adicionales,omitempty"`
}

// SoldCustomization is a customization with the option chosen in a sale.
type SoldCustomization struct {
	ID          int64  `json:"id"`
	Name        string `json:"nombre"`
	Description string `json:"descripcion"`
	Option      Option `json:"opcion"`
}

type authRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
}

type authResponse struct {
	IDToken string `json:"id_token"`
}
