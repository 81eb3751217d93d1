package catalogs

import (
	"slices"

	"github.com/agentstation/techmarket/pkg/errors"
	"github.com/agentstation/techmarket/pkg/relation"
)

// Catalog holds one collection per entity kind.
//
// Entities are stored flat: relationship fields only need the target id.
// The Resolve methods return copies whose relationships point at the current
// version of their targets, so an entity renamed after being referenced is
// still shown with its new name.
type Catalog struct {
	devices         *Collection[*Device]
	addOns          *Collection[*AddOn]
	characteristics *Collection[*Characteristic]
	customizations  *Collection[*Customization]
	options         *Collection[*Option]
	sales           *Collection[*Sale]
	users           *Collection[*User]
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{
		devices:         NewCollection[*Device](KindDevice),
		addOns:          NewCollection[*AddOn](KindAddOn),
		characteristics: NewCollection[*Characteristic](KindCharacteristic),
		customizations:  NewCollection[*Customization](KindCustomization),
		options:         NewCollection[*Option](KindOption),
		sales:           NewCollection[*Sale](KindSale),
		users:           NewCollection[*User](KindUser),
	}
}

// Devices returns the device collection.
func (c *Catalog) Devices() *Collection[*Device] { return c.devices }

// AddOns returns the add-on collection.
func (c *Catalog) AddOns() *Collection[*AddOn] { return c.addOns }

// Characteristics returns the characteristic collection.
func (c *Catalog) Characteristics() *Collection[*Characteristic] { return c.characteristics }

// Customizations returns the customization collection.
func (c *Catalog) Customizations() *Collection[*Customization] { return c.customizations }

// Options returns the option collection.
func (c *Catalog) Options() *Collection[*Option] { return c.options }

// Sales returns the sale collection.
func (c *Catalog) Sales() *Collection[*Sale] { return c.sales }

// Users returns the user collection.
func (c *Catalog) Users() *Collection[*User] { return c.users }

// Len returns the number of entities of the given kind.
func (c *Catalog) Len(kind Kind) int {
	switch kind {
	case KindDevice:
		return c.devices.Len()
	case KindAddOn:
		return c.addOns.Len()
	case KindCharacteristic:
		return c.characteristics.Len()
	case KindCustomization:
		return c.customizations.Len()
	case KindOption:
		return c.options.Len()
	case KindSale:
		return c.sales.Len()
	case KindUser:
		return c.users.Len()
	}
	return 0
}

// Copy returns a deep copy of the catalog.
func (c *Catalog) Copy() *Catalog {
	cp := New()
	copyInto(cp.devices, c.devices, (*Device).Clone)
	copyInto(cp.addOns, c.addOns, (*AddOn).Clone)
	copyInto(cp.characteristics, c.characteristics, (*Characteristic).Clone)
	copyInto(cp.customizations, c.customizations, (*Customization).Clone)
	copyInto(cp.options, c.options, (*Option).Clone)
	copyInto(cp.sales, c.sales, (*Sale).Clone)
	copyInto(cp.users, c.users, (*User).Clone)
	return cp
}

func copyInto[T relation.Ref[int64]](dst, src *Collection[T], clone func(T) T) {
	items := src.List()
	for i, item := range items {
		items[i] = clone(item)
	}
	_ = dst.SetBatch(items)
}

// ResolveDevice returns a copy of d with its add-ons replaced by their
// current version and its characteristics and customizations listed.
// Add-ons that no longer exist are dropped.
func (c *Catalog) ResolveDevice(d *Device) *Device {
	if d == nil {
		return nil
	}
	out := d.Ref()
	out.AddOns = make([]*AddOn, 0, len(d.AddOns))
	for _, id := range d.AddOnIDs() {
		if a, ok := c.addOns.Get(id); ok {
			out.AddOns = append(out.AddOns, a.Clone())
		}
	}
	out.Characteristics = c.CharacteristicsOf(d.ID)
	out.Customizations = c.CustomizationsOf(d.ID)
	return out
}

// ResolveCharacteristic returns a copy of ch pointing at the current device.
func (c *Catalog) ResolveCharacteristic(ch *Characteristic) *Characteristic {
	if ch == nil {
		return nil
	}
	out := *ch
	out.Device = c.deviceRef(ch.Device)
	return &out
}

// ResolveCustomization returns a copy of cu pointing at the current device
// and listing the options that currently belong to it.
func (c *Catalog) ResolveCustomization(cu *Customization) *Customization {
	if cu == nil {
		return nil
	}
	out := cu.Ref()
	out.Device = c.deviceRef(cu.Device)
	for _, o := range c.OptionsOf(cu.ID) {
		o.Customization = out.Ref()
		out.Options = append(out.Options, o)
	}
	return out
}

// ResolveOption returns a copy of o pointing at the current customization.
func (c *Catalog) ResolveOption(o *Option) *Option {
	if o == nil {
		return nil
	}
	out := *o
	out.Customization = nil
	if o.Customization != nil {
		if cu, ok := c.customizations.Get(o.Customization.ID); ok {
			ref := cu.Ref()
			ref.Device = c.deviceRef(cu.Device)
			out.Customization = ref
		}
	}
	return &out
}

// ResolveSale returns a copy of s pointing at the current user.
func (c *Catalog) ResolveSale(s *Sale) *Sale {
	if s == nil {
		return nil
	}
	out := *s
	out.User = nil
	if s.User != nil {
		if u, ok := c.users.Get(s.User.ID); ok {
			out.User = u.Clone()
		}
	}
	return &out
}

func (c *Catalog) deviceRef(d *Device) *Device {
	if d == nil {
		return nil
	}
	current, ok := c.devices.Get(d.ID)
	if !ok {
		return nil
	}
	return current.Ref()
}

// CharacteristicsOf returns the characteristics of a device ordered by id.
func (c *Catalog) CharacteristicsOf(deviceID int64) []*Characteristic {
	var out []*Characteristic
	for _, ch := range c.characteristics.List() {
		if ch.Device != nil && ch.Device.ID == deviceID {
			out = append(out, c.ResolveCharacteristic(ch))
		}
	}
	return out
}

// CustomizationsOf returns the customizations of a device ordered by id,
// each with its options.
func (c *Catalog) CustomizationsOf(deviceID int64) []*Customization {
	var out []*Customization
	for _, cu := range c.customizations.List() {
		if cu.Device != nil && cu.Device.ID == deviceID {
			out = append(out, c.ResolveCustomization(cu))
		}
	}
	return out
}

// OptionsOf returns copies of the options of a customization ordered by id.
// Their Customization field is left nil.
func (c *Catalog) OptionsOf(customizationID int64) []*Option {
	var out []*Option
	for _, o := range c.options.List() {
		if o.Customization != nil && o.Customization.ID == customizationID {
			cp := *o
			cp.Customization = nil
			out = append(out, &cp)
		}
	}
	return out
}

// AttachOptions makes options the exact option set of the customization:
// listed options are moved to it and options it had before but that are not
// listed are detached.
func (c *Catalog) AttachOptions(customizationID int64, optionIDs []int64) error {
	cu, ok := c.customizations.Get(customizationID)
	if !ok {
		return errors.NewNotFoundError(KindCustomization.String(), customizationID)
	}
	for _, id := range optionIDs {
		if !c.options.Exists(id) {
			return errors.NewNotFoundError(KindOption.String(), id)
		}
	}

	keep := make(map[int64]bool, len(optionIDs))
	for _, id := range optionIDs {
		keep[id] = true
	}

	var updated []*Option
	for _, o := range c.options.List() {
		owned := o.Customization != nil && o.Customization.ID == customizationID
		switch {
		case keep[o.ID] && !owned:
			cp := *o
			cp.Customization = &Customization{ID: cu.ID, Name: cu.Name}
			updated = append(updated, &cp)
		case !keep[o.ID] && owned:
			cp := *o
			cp.Customization = nil
			updated = append(updated, &cp)
		}
	}
	return c.options.SetBatch(updated)
}

// DevicesWithAddOn returns the ids of the devices an add-on is attached to.
func (c *Catalog) DevicesWithAddOn(addOnID int64) []int64 {
	var ids []int64
	for _, d := range c.devices.List() {
		if slices.Contains(d.AddOnIDs(), addOnID) {
			ids = append(ids, d.ID)
		}
	}
	return ids
}
