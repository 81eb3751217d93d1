package catalogs

// Characteristic is a descriptive attribute of a device, such as its screen
// size or battery life.
type Characteristic struct {
	ID          int64   `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Device      *Device `json:"device,omitempty" yaml:"-"`
}

// RefID returns the characteristic id.
func (c *Characteristic) RefID() int64 { return c.ID }

// Kind returns KindCharacteristic.
func (c *Characteristic) Kind() Kind { return KindCharacteristic }

// Validate checks required fields.
func (c *Characteristic) Validate() error {
	return required("name", c.Name)
}

// Clone returns a copy of the characteristic.
func (c *Characteristic) Clone() *Characteristic {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Device = c.Device.Ref()
	return &cp
}

// Customization is a configurable aspect of a device (memory, color...).
// Options lists the choices offered for it; an option belongs to at most one
// customization.
type Customization struct {
	ID          int64     `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Device      *Device   `json:"device,omitempty" yaml:"-"`
	Options     []*Option `json:"options,omitempty" yaml:"-"`
}

// RefID returns the customization id.
func (c *Customization) RefID() int64 { return c.ID }

// Kind returns KindCustomization.
func (c *Customization) Kind() Kind { return KindCustomization }

// Validate checks required fields.
func (c *Customization) Validate() error {
	return required("name", c.Name)
}

// Ref returns a shallow reference to the customization, without options.
func (c *Customization) Ref() *Customization {
	if c == nil {
		return nil
	}
	ref := *c
	ref.Device = c.Device.Ref()
	ref.Options = nil
	return &ref
}

// Clone returns a copy of the customization whose option slice can be
// modified independently of the original.
func (c *Customization) Clone() *Customization {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Device = c.Device.Ref()
	if c.Options != nil {
		cp.Options = make([]*Option, len(c.Options))
		for i, o := range c.Options {
			cp.Options[i] = o.Clone()
		}
	}
	return &cp
}

// Option is one choice of a customization, with the price it adds to the
// device.
type Option struct {
	ID            int64          `json:"id" yaml:"id"`
	Code          string         `json:"code" yaml:"code"`
	Name          string         `json:"name" yaml:"name"`
	Description   string         `json:"description,omitempty" yaml:"description,omitempty"`
	ExtraPrice    float64        `json:"extra_price" yaml:"extra_price"`
	Customization *Customization `json:"customization,omitempty" yaml:"-"`
}

// RefID returns the option id.
func (o *Option) RefID() int64 { return o.ID }

// Kind returns KindOption.
func (o *Option) Kind() Kind { return KindOption }

// Validate checks required fields and prices.
func (o *Option) Validate() error {
	return firstError(
		required("code", o.Code),
		required("name", o.Name),
		nonNegative("extra_price", o.ExtraPrice),
	)
}

// Clone returns a copy of the option.
func (o *Option) Clone() *Option {
	if o == nil {
		return nil
	}
	cp := *o
	cp.Customization = o.Customization.Ref()
	return &cp
}
