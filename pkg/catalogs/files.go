package catalogs

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/techmarket/pkg/constants"
	"github.com/agentstation/techmarket/pkg/errors"
	"github.com/agentstation/techmarket/pkg/relation"
)

// On disk every kind lives in its own file and relationships are stored as ids.

type deviceRecord struct {
	Device   `yaml:",inline"`
	AddOnIDs []int64 `yaml:"add_on_ids,omitempty"`
}

type characteristicRecord struct {
	Characteristic `yaml:",inline"`
	DeviceID       int64 `yaml:"device_id,omitempty"`
}

type customizationRecord struct {
	Customization `yaml:",inline"`
	DeviceID      int64 `yaml:"device_id,omitempty"`
}

type optionRecord struct {
	Option          `yaml:",inline"`
	CustomizationID int64 `yaml:"customization_id,omitempty"`
}

type saleRecord struct {
	Sale   `yaml:",inline"`
	UserID int64 `yaml:"user_id,omitempty"`
}

// FileName returns the name of the YAML file holding entities of kind k.
func FileName(k Kind) string {
	return k.Plural() + ".yaml"
}

// Load reads every kind file found in fsys into the catalog. Missing files
// are skipped, so an empty directory yields an empty catalog.
func (c *Catalog) Load(fsys fs.FS) error {
	var users []*User
	if err := readYAML(fsys, FileName(KindUser), &users); err != nil {
		return err
	}
	if err := c.users.SetBatch(users); err != nil {
		return err
	}

	var addOns []*AddOn
	if err := readYAML(fsys, FileName(KindAddOn), &addOns); err != nil {
		return err
	}
	if err := c.addOns.SetBatch(addOns); err != nil {
		return err
	}

	var devices []deviceRecord
	if err := readYAML(fsys, FileName(KindDevice), &devices); err != nil {
		return err
	}
	for _, r := range devices {
		d := r.Device
		d.AddOns = make([]*AddOn, len(r.AddOnIDs))
		for i, id := range r.AddOnIDs {
			d.AddOns[i] = &AddOn{ID: id}
		}
		if err := c.devices.Set(&d); err != nil {
			return err
		}
	}

	var characteristics []characteristicRecord
	if err := readYAML(fsys, FileName(KindCharacteristic), &characteristics); err != nil {
		return err
	}
	for _, r := range characteristics {
		ch := r.Characteristic
		ch.Device = deviceStub(r.DeviceID)
		if err := c.characteristics.Set(&ch); err != nil {
			return err
		}
	}

	var customizations []customizationRecord
	if err := readYAML(fsys, FileName(KindCustomization), &customizations); err != nil {
		return err
	}
	for _, r := range customizations {
		cu := r.Customization
		cu.Device = deviceStub(r.DeviceID)
		if err := c.customizations.Set(&cu); err != nil {
			return err
		}
	}

	var options []optionRecord
	if err := readYAML(fsys, FileName(KindOption), &options); err != nil {
		return err
	}
	for _, r := range options {
		o := r.Option
		if r.CustomizationID != 0 {
			o.Customization = &Customization{ID: r.CustomizationID}
		}
		if err := c.options.Set(&o); err != nil {
			return err
		}
	}

	var sales []saleRecord
	if err := readYAML(fsys, FileName(KindSale), &sales); err != nil {
		return err
	}
	for _, r := range sales {
		s := r.Sale
		if r.UserID != 0 {
			s.User = &User{ID: r.UserID}
		}
		if err := c.sales.Set(&s); err != nil {
			return err
		}
	}

	return nil
}

// Save writes one YAML file per kind into dir, creating it when needed.
func (c *Catalog) Save(dir string) error {
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return errors.WrapIO("create", dir, err)
	}

	devices := make([]deviceRecord, 0, c.devices.Len())
	for _, d := range c.devices.List() {
		r := deviceRecord{Device: *d, AddOnIDs: d.AddOnIDs()}
		r.AddOns = nil
		devices = append(devices, r)
	}

	characteristics := make([]characteristicRecord, 0, c.characteristics.Len())
	for _, ch := range c.characteristics.List() {
		characteristics = append(characteristics, characteristicRecord{Characteristic: *ch, DeviceID: refID(ch.Device)})
	}

	customizations := make([]customizationRecord, 0, c.customizations.Len())
	for _, cu := range c.customizations.List() {
		customizations = append(customizations, customizationRecord{Customization: *cu, DeviceID: refID(cu.Device)})
	}

	options := make([]optionRecord, 0, c.options.Len())
	for _, o := range c.options.List() {
		options = append(options, optionRecord{Option: *o, CustomizationID: refID(o.Customization)})
	}

	sales := make([]saleRecord, 0, c.sales.Len())
	for _, s := range c.sales.List() {
		sales = append(sales, saleRecord{Sale: *s, UserID: refID(s.User)})
	}

	files := map[Kind]any{
		KindUser:           c.users.List(),
		KindAddOn:          c.addOns.List(),
		KindDevice:         devices,
		KindCharacteristic: characteristics,
		KindCustomization:  customizations,
		KindOption:         options,
		KindSale:           sales,
	}
	for _, kind := range Kinds() {
		if err := writeYAML(filepath.Join(dir, FileName(kind)), files[kind]); err != nil {
			return err
		}
	}
	return nil
}

func readYAML(fsys fs.FS, name string, v any) error {
	data, err := fs.ReadFile(fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return errors.WrapIO("read", name, err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return errors.WrapParse("yaml", name, err)
	}
	return nil
}

func writeYAML(path string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return errors.WrapParse("yaml", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, constants.FilePermissions); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}

func deviceStub(id int64) *Device {
	if id == 0 {
		return nil
	}
	return &Device{ID: id}
}

func refID[T relation.Ref[int64]](v T) int64 {
	id, _ := relation.Key[int64](v)
	return id
}
