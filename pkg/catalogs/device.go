package catalogs

// Device is a sellable product. Its add-ons are a many-to-many relationship
// owned by the device.
//
// Characteristics and Customizations are the inverse side of their Device
// field. Stores fill them when reading a device and ignore them on save.
type Device struct {
	ID              int64             `json:"id" yaml:"id"`
	Code            string            `json:"code" yaml:"code"`
	Name            string            `json:"name" yaml:"name"`
	Description     string            `json:"description,omitempty" yaml:"description,omitempty"`
	BasePrice       float64           `json:"base_price" yaml:"base_price"`
	Currency        string            `json:"currency,omitempty" yaml:"currency,omitempty"`
	AddOns          []*AddOn          `json:"add_ons,omitempty" yaml:"-"`
	Characteristics []*Characteristic `json:"characteristics,omitempty" yaml:"-"`
	Customizations  []*Customization  `json:"customizations,omitempty" yaml:"-"`
}

// RefID returns the device id.
func (d *Device) RefID() int64 { return d.ID }

// Kind returns KindDevice.
func (d *Device) Kind() Kind { return KindDevice }

// Validate checks required fields and prices.
func (d *Device) Validate() error {
	return firstError(
		required("code", d.Code),
		required("name", d.Name),
		nonNegative("base_price", d.BasePrice),
	)
}

// Ref returns a shallow reference to the device, without its add-ons or
// back references.
func (d *Device) Ref() *Device {
	if d == nil {
		return nil
	}
	ref := *d
	ref.AddOns = nil
	ref.Characteristics = nil
	ref.Customizations = nil
	return &ref
}

// Clone returns a copy of the device whose relationship slices can be
// modified independently of the original.
func (d *Device) Clone() *Device {
	if d == nil {
		return nil
	}
	c := *d
	c.AddOns = cloneAll(d.AddOns, (*AddOn).Clone)
	c.Characteristics = cloneAll(d.Characteristics, (*Characteristic).Clone)
	c.Customizations = cloneAll(d.Customizations, (*Customization).Clone)
	return &c
}

func cloneAll[T any](items []T, clone func(T) T) []T {
	if items == nil {
		return nil
	}
	out := make([]T, len(items))
	for i, item := range items {
		out[i] = clone(item)
	}
	return out
}

// AddOnIDs returns the ids of the attached add-ons.
func (d *Device) AddOnIDs() []int64 {
	ids := make([]int64, 0, len(d.AddOns))
	for _, a := range d.AddOns {
		if a != nil {
			ids = append(ids, a.ID)
		}
	}
	return ids
}

// AddOn is an accessory that can be sold together with a device.
type AddOn struct {
	ID          int64   `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Price       float64 `json:"price" yaml:"price"`
	// FreePrice is the subtotal from which the add-on is given away.
	// Nil or negative means it is never free.
	FreePrice *float64 `json:"free_price,omitempty" yaml:"free_price,omitempty"`
}

// RefID returns the add-on id.
func (a *AddOn) RefID() int64 { return a.ID }

// Kind returns KindAddOn.
func (a *AddOn) Kind() Kind { return KindAddOn }

// Validate checks required fields and prices.
func (a *AddOn) Validate() error {
	return firstError(
		required("name", a.Name),
		nonNegative("price", a.Price),
	)
}

// FreeAt reports whether the add-on is free for a purchase of the given subtotal.
func (a *AddOn) FreeAt(subtotal float64) bool {
	return a.FreePrice != nil && *a.FreePrice >= 0 && subtotal >= *a.FreePrice
}

// Clone returns a copy of the add-on.
func (a *AddOn) Clone() *AddOn {
	if a == nil {
		return nil
	}
	c := *a
	if a.FreePrice != nil {
		v := *a.FreePrice
		c.FreePrice = &v
	}
	return &c
}
