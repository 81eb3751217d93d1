package forms

import (
	"context"

	"github.com/agentstation/techmarket/pkg/catalogs"
)

// DeviceForm edits a device and the add-ons sold with it.
type DeviceForm struct {
	AddOns *ToMany[*catalogs.AddOn]

	src    Sources
	device *catalogs.Device
}

// NewDeviceForm creates an empty device form.
func NewDeviceForm(src Sources) *DeviceForm {
	return &DeviceForm{
		AddOns: NewToMany("add_ons", catalogs.KindAddOn, addOnLabel),
		src:    src,
	}
}

// Load binds d to the form and loads the add-on candidates. A nil d starts a
// new device.
func (f *DeviceForm) Load(ctx context.Context, d *catalogs.Device) error {
	f.device = d.Clone()
	if d != nil {
		f.AddOns.Reset(d.AddOns)
	}
	return f.Refresh(ctx)
}

// Refresh reloads the add-on candidates.
func (f *DeviceForm) Refresh(ctx context.Context) error {
	return refreshAll(ctx, f.Kind(), f.ID(),
		refreshOne(f.AddOns.Name, f.AddOns, f.src.AddOns),
	)
}

// Kind returns catalogs.KindDevice.
func (f *DeviceForm) Kind() catalogs.Kind { return catalogs.KindDevice }

// ID returns the id of the device under edit.
func (f *DeviceForm) ID() int64 {
	if f.device == nil {
		return 0
	}
	return f.device.ID
}

// Entity returns the device with the add-ons currently selected.
func (f *DeviceForm) Entity() *catalogs.Device {
	d := f.device.Clone()
	if d == nil {
		d = &catalogs.Device{}
	}
	d.AddOns = f.AddOns.Values()
	return d
}

// Fields returns the add-on field.
func (f *DeviceForm) Fields() []Field {
	return []Field{f.AddOns.Field()}
}

// CharacteristicForm edits a characteristic and the device it describes.
type CharacteristicForm struct {
	Device *ToOne[*catalogs.Device]

	src            Sources
	characteristic *catalogs.Characteristic
}

// NewCharacteristicForm creates an empty characteristic form.
func NewCharacteristicForm(src Sources) *CharacteristicForm {
	return &CharacteristicForm{
		Device: NewToOne("device", catalogs.KindDevice, deviceLabel),
		src:    src,
	}
}

// Load binds c to the form and loads the device candidates.
func (f *CharacteristicForm) Load(ctx context.Context, c *catalogs.Characteristic) error {
	f.characteristic = c.Clone()
	if c != nil {
		f.Device.Reset(c.Device)
	}
	return f.Refresh(ctx)
}

// Refresh reloads the device candidates.
func (f *CharacteristicForm) Refresh(ctx context.Context) error {
	return refreshAll(ctx, f.Kind(), f.ID(),
		refreshOne(f.Device.Name, f.Device, f.src.Devices),
	)
}

// Kind returns catalogs.KindCharacteristic.
func (f *CharacteristicForm) Kind() catalogs.Kind { return catalogs.KindCharacteristic }

// ID returns the id of the characteristic under edit.
func (f *CharacteristicForm) ID() int64 {
	if f.characteristic == nil {
		return 0
	}
	return f.characteristic.ID
}

// Entity returns the characteristic with the selected device.
func (f *CharacteristicForm) Entity() *catalogs.Characteristic {
	c := f.characteristic.Clone()
	if c == nil {
		c = &catalogs.Characteristic{}
	}
	c.Device = f.Device.Value().Ref()
	return c
}

// Fields returns the device field.
func (f *CharacteristicForm) Fields() []Field {
	return []Field{f.Device.Field()}
}

// CustomizationForm edits a customization, the device it applies to and the
// options it offers.
type CustomizationForm struct {
	Device  *ToOne[*catalogs.Device]
	Options *ToMany[*catalogs.Option]

	src           Sources
	customization *catalogs.Customization
}

// NewCustomizationForm creates an empty customization form.
func NewCustomizationForm(src Sources) *CustomizationForm {
	return &CustomizationForm{
		Device:  NewToOne("device", catalogs.KindDevice, deviceLabel),
		Options: NewToMany("options", catalogs.KindOption, optionLabel),
		src:     src,
	}
}

// Load binds c to the form and loads the device and option candidates
// concurrently.
func (f *CustomizationForm) Load(ctx context.Context, c *catalogs.Customization) error {
	f.customization = c.Clone()
	if c != nil {
		f.Device.Reset(c.Device)
		f.Options.Reset(c.Options)
	}
	return f.Refresh(ctx)
}

// Refresh reloads the device and option candidates.
func (f *CustomizationForm) Refresh(ctx context.Context) error {
	return refreshAll(ctx, f.Kind(), f.ID(),
		refreshOne(f.Device.Name, f.Device, f.src.Devices),
		refreshOne(f.Options.Name, f.Options, f.src.Options),
	)
}

// Kind returns catalogs.KindCustomization.
func (f *CustomizationForm) Kind() catalogs.Kind { return catalogs.KindCustomization }

// ID returns the id of the customization under edit.
func (f *CustomizationForm) ID() int64 {
	if f.customization == nil {
		return 0
	}
	return f.customization.ID
}

// Entity returns the customization with the selected device and options.
func (f *CustomizationForm) Entity() *catalogs.Customization {
	c := f.customization.Clone()
	if c == nil {
		c = &catalogs.Customization{}
	}
	c.Device = f.Device.Value().Ref()
	c.Options = f.Options.Values()
	return c
}

// Fields returns the device and option fields.
func (f *CustomizationForm) Fields() []Field {
	return []Field{f.Device.Field(), f.Options.Field()}
}

// OptionForm edits an option and the customization it belongs to.
type OptionForm struct {
	Customization *ToOne[*catalogs.Customization]

	src    Sources
	option *catalogs.Option
}

// NewOptionForm creates an empty option form.
func NewOptionForm(src Sources) *OptionForm {
	return &OptionForm{
		Customization: NewToOne("customization", catalogs.KindCustomization, customizationLabel),
		src:           src,
	}
}

// Load binds o to the form and loads the customization candidates.
func (f *OptionForm) Load(ctx context.Context, o *catalogs.Option) error {
	f.option = o.Clone()
	if o != nil {
		f.Customization.Reset(o.Customization)
	}
	return f.Refresh(ctx)
}

// Refresh reloads the customization candidates.
func (f *OptionForm) Refresh(ctx context.Context) error {
	return refreshAll(ctx, f.Kind(), f.ID(),
		refreshOne(f.Customization.Name, f.Customization, f.src.Customizations),
	)
}

// Kind returns catalogs.KindOption.
func (f *OptionForm) Kind() catalogs.Kind { return catalogs.KindOption }

// ID returns the id of the option under edit.
func (f *OptionForm) ID() int64 {
	if f.option == nil {
		return 0
	}
	return f.option.ID
}

// Entity returns the option with the selected customization.
func (f *OptionForm) Entity() *catalogs.Option {
	o := f.option.Clone()
	if o == nil {
		o = &catalogs.Option{}
	}
	o.Customization = f.Customization.Value().Ref()
	return o
}

// Fields returns the customization field.
func (f *OptionForm) Fields() []Field {
	return []Field{f.Customization.Field()}
}

// SaleForm edits a sale and the user it is credited to.
type SaleForm struct {
	User *ToOne[*catalogs.User]

	src  Sources
	sale *catalogs.Sale
}

// NewSaleForm creates an empty sale form.
func NewSaleForm(src Sources) *SaleForm {
	return &SaleForm{
		User: NewToOne("user", catalogs.KindUser, userLabel),
		src:  src,
	}
}

// Load binds s to the form and loads the user candidates.
func (f *SaleForm) Load(ctx context.Context, s *catalogs.Sale) error {
	f.sale = s.Clone()
	if s != nil {
		f.User.Reset(s.User)
	}
	return f.Refresh(ctx)
}

// Refresh reloads the user candidates.
func (f *SaleForm) Refresh(ctx context.Context) error {
	return refreshAll(ctx, f.Kind(), f.ID(),
		refreshOne(f.User.Name, f.User, f.src.Users),
	)
}

// Kind returns catalogs.KindSale.
func (f *SaleForm) Kind() catalogs.Kind { return catalogs.KindSale }

// ID returns the id of the sale under edit.
func (f *SaleForm) ID() int64 {
	if f.sale == nil {
		return 0
	}
	return f.sale.ID
}

// Entity returns the sale credited to the selected user.
func (f *SaleForm) Entity() *catalogs.Sale {
	s := f.sale.Clone()
	if s == nil {
		s = &catalogs.Sale{}
	}
	s.User = f.User.Value().Clone()
	return s
}

// Fields returns the user field.
func (f *SaleForm) Fields() []Field {
	return []Field{f.User.Field()}
}
