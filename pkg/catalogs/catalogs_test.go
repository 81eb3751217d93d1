package catalogs_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/techmarket/pkg/catalogs"
	"github.com/agentstation/techmarket/pkg/errors"
	"github.com/agentstation/techmarket/pkg/relation"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want catalogs.Kind
	}{
		{"devices", catalogs.KindDevice},
		{"Dispositivo", catalogs.KindDevice},
		{"add_ons", catalogs.KindAddOn},
		{"addons", catalogs.KindAddOn},
		{"adicionales", catalogs.KindAddOn},
		{"characteristic", catalogs.KindCharacteristic},
		{" personalizaciones ", catalogs.KindCustomization},
		{"options", catalogs.KindOption},
		{"ventas", catalogs.KindSale},
		{"users", catalogs.KindUser},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := catalogs.ParseKind(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := catalogs.ParseKind("widgets")
	assert.True(t, errors.IsValidationError(err))
}

func TestKindPlural(t *testing.T) {
	assert.Equal(t, "devices", catalogs.KindDevice.Plural())
	assert.Equal(t, "add-ons", catalogs.KindAddOn.Plural())
	assert.Equal(t, "customizations", catalogs.KindCustomization.Plural())
	assert.Equal(t, "characteristics", catalogs.KindCharacteristic.Plural())
	assert.Equal(t, "options.yaml", catalogs.FileName(catalogs.KindOption))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		entity catalogs.Entity
		field  string
	}{
		{"device without code", &catalogs.Device{Name: "x"}, "code"},
		{"device with negative price", &catalogs.Device{Code: "c", Name: "x", BasePrice: -1}, "base_price"},
		{"add-on without name", &catalogs.AddOn{Price: 1}, "name"},
		{"characteristic without name", &catalogs.Characteristic{}, "name"},
		{"customization without name", &catalogs.Customization{Name: "  "}, "name"},
		{"option with negative extra", &catalogs.Option{Code: "c", Name: "n", ExtraPrice: -5}, "extra_price"},
		{"sale with negative price", &catalogs.Sale{FinalPrice: -1}, "final_price"},
		{"user without login", &catalogs.User{}, "login"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entity.Validate()
			var verr *errors.ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, tt.field, verr.Field)
		})
	}

	assert.NoError(t, (&catalogs.Device{Code: "NB", Name: "Notebook"}).Validate())
}

func TestAddOnFreeAt(t *testing.T) {
	tests := []struct {
		name      string
		freePrice *float64
		subtotal  float64
		want      bool
	}{
		{"no threshold", nil, 1e6, false},
		{"negative threshold", catalogs.FreePrice(-1), 1e6, false},
		{"below threshold", catalogs.FreePrice(1500), 1499.99, false},
		{"at threshold", catalogs.FreePrice(1500), 1500, true},
		{"zero threshold", catalogs.FreePrice(0), 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &catalogs.AddOn{Name: "Case", Price: 25, FreePrice: tt.freePrice}
			assert.Equal(t, tt.want, a.FreeAt(tt.subtotal))
		})
	}
}

func TestRoundPrice(t *testing.T) {
	assert.Equal(t, 10.01, catalogs.RoundPrice(10.0071))
	assert.Equal(t, 1540.0, catalogs.RoundPrice(1539.999))
}

func TestCollection(t *testing.T) {
	c := catalogs.NewCollection[*catalogs.AddOn](catalogs.KindAddOn)

	require.NoError(t, c.Add(&catalogs.AddOn{ID: 3, Name: "Stylus"}))
	require.NoError(t, c.Add(&catalogs.AddOn{ID: 1, Name: "Case"}))

	err := c.Add(&catalogs.AddOn{ID: 1, Name: "Other"})
	assert.True(t, errors.IsAlreadyExists(err))

	require.NoError(t, c.Set(&catalogs.AddOn{ID: 1, Name: "Case v2"}))
	got, ok := c.Get(1)
	require.True(t, ok)
	assert.Equal(t, "Case v2", got.Name)

	var none *catalogs.AddOn
	assert.True(t, errors.IsValidationError(c.Set(none)))
	assert.True(t, errors.IsValidationError(c.SetBatch([]*catalogs.AddOn{{ID: 9}, nil})))
	assert.False(t, c.Exists(9), "a failed batch stores nothing")

	assert.Equal(t, 2, c.Len())
	assert.Equal(t, int64(4), c.NextID())

	list := c.List()
	require.Len(t, list, 2)
	assert.Equal(t, int64(1), list[0].ID)
	assert.Equal(t, int64(3), list[1].ID)

	assert.True(t, errors.IsNotFound(c.Delete(42)))
	require.NoError(t, c.Delete(3))
	assert.False(t, c.Exists(3))

	c.Clear()
	assert.Zero(t, c.Len())
	assert.Equal(t, int64(1), c.NextID())
}

func TestCollectionConcurrentAccess(t *testing.T) {
	c := catalogs.NewCollection(catalogs.KindUser, catalogs.WithCapacity[*catalogs.User](64))

	var wg sync.WaitGroup
	for i := range 64 {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			_ = c.Set(&catalogs.User{ID: id, Login: "u"})
			_ = c.List()
			_, _ = c.Get(id)
		}(int64(i + 1))
	}
	wg.Wait()

	assert.Equal(t, 64, c.Len())
}

func TestResolve(t *testing.T) {
	cat := catalogs.TestCatalog(t)

	d, _ := cat.Devices().Get(1)
	resolved := cat.ResolveDevice(d)
	require.Len(t, resolved.AddOns, 2)
	assert.Equal(t, "Case", resolved.AddOns[0].Name)
	assert.Equal(t, "Charger", resolved.AddOns[1].Name)

	// renaming the add-on shows up on the next resolve
	a, _ := cat.AddOns().Get(2)
	renamed := a.Clone()
	renamed.Name = "USB-C Charger"
	require.NoError(t, cat.AddOns().Set(renamed))
	assert.Equal(t, "USB-C Charger", cat.ResolveDevice(d).AddOns[1].Name)

	// dangling add-on ids are dropped
	require.NoError(t, cat.AddOns().Delete(1))
	assert.Equal(t, []int64{2}, cat.ResolveDevice(d).AddOnIDs())

	cu, _ := cat.Customizations().Get(1)
	rc := cat.ResolveCustomization(cu)
	assert.Equal(t, "Notebook Pro", rc.Device.Name)
	assert.Nil(t, rc.Device.AddOns, "references are shallow")
	require.Len(t, rc.Options, 2)
	assert.Equal(t, "RAM-16", rc.Options[0].Code)
	assert.Equal(t, int64(1), rc.Options[0].Customization.ID)
	assert.Nil(t, rc.Options[0].Customization.Options, "no cycle back to the options")

	o, _ := cat.Options().Get(5)
	ro := cat.ResolveOption(o)
	assert.Equal(t, "Storage", ro.Customization.Name)
	assert.Equal(t, "Phone", ro.Customization.Device.Name)

	s, _ := cat.Sales().Get(1)
	assert.Equal(t, "user", cat.ResolveSale(s).User.Login)

	ch, _ := cat.Characteristics().Get(3)
	assert.Equal(t, "Phone", cat.ResolveCharacteristic(ch).Device.Name)

	// resolved graphs marshal without cycles
	_, err := json.Marshal(rc)
	assert.NoError(t, err)
}

func TestBackReferences(t *testing.T) {
	cat := catalogs.TestCatalog(t)

	chars := cat.CharacteristicsOf(1)
	require.Len(t, chars, 2)
	assert.Equal(t, "Screen", chars[0].Name)

	custs := cat.CustomizationsOf(1)
	require.Len(t, custs, 2)
	assert.Len(t, custs[1].Options, 2)

	assert.Empty(t, cat.CustomizationsOf(99))
	assert.Equal(t, []int64{1, 2}, cat.DevicesWithAddOn(2))
	assert.Empty(t, cat.DevicesWithAddOn(3))
}

func TestResolveDeviceBackReferences(t *testing.T) {
	cat := catalogs.TestCatalog(t)
	d, _ := cat.Devices().Get(1)

	resolved := cat.ResolveDevice(d)
	assert.Equal(t, []int64{1, 2}, relation.IDs[int64](resolved.Characteristics))
	assert.Equal(t, []int64{1, 2}, relation.IDs[int64](resolved.Customizations))
	assert.Equal(t, "Notebook Pro", resolved.Customizations[0].Device.Name)
	assert.Nil(t, resolved.Customizations[0].Device.Customizations, "references are shallow")

	_, err := json.Marshal(resolved)
	assert.NoError(t, err)

	assert.Nil(t, resolved.Ref().Characteristics)
	assert.Nil(t, resolved.Ref().Customizations)

	clone := resolved.Clone()
	clone.Characteristics[0].Name = "Display"
	assert.Equal(t, "Screen", resolved.Characteristics[0].Name)

	phone, _ := cat.Devices().Get(2)
	assert.Equal(t, []int64{3}, relation.IDs[int64](cat.ResolveDevice(phone).Customizations))
}

func TestAttachOptions(t *testing.T) {
	cat := catalogs.TestCatalog(t)

	// move RAM-32 away and take Silver from Color
	require.NoError(t, cat.AttachOptions(1, []int64{1, 4}))

	ids := func(opts []*catalogs.Option) []int64 {
		out := []int64{}
		for _, o := range opts {
			out = append(out, o.ID)
		}
		return out
	}
	assert.Equal(t, []int64{1, 4}, ids(cat.OptionsOf(1)))
	assert.Equal(t, []int64{3}, ids(cat.OptionsOf(2)))

	detached, _ := cat.Options().Get(2)
	assert.Nil(t, detached.Customization)

	assert.True(t, errors.IsNotFound(cat.AttachOptions(99, nil)))
	assert.True(t, errors.IsNotFound(cat.AttachOptions(1, []int64{99})))
}

func TestCopyIsDeep(t *testing.T) {
	cat := catalogs.TestCatalog(t)
	cp := cat.Copy()

	d, _ := cp.Devices().Get(1)
	d.Name = "changed"
	d.AddOns[0].ID = 3

	orig, _ := cat.Devices().Get(1)
	assert.Equal(t, "Notebook Pro", orig.Name)
	assert.Equal(t, []int64{1, 2}, orig.AddOnIDs())

	for _, kind := range catalogs.Kinds() {
		assert.Equal(t, cat.Len(kind), cp.Len(kind), kind.String())
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	cat := catalogs.TestCatalog(t)
	dir := t.TempDir()

	require.NoError(t, cat.Save(dir))
	for _, kind := range catalogs.Kinds() {
		assert.FileExists(t, filepath.Join(dir, catalogs.FileName(kind)))
	}

	loaded := catalogs.New()
	require.NoError(t, loaded.Load(os.DirFS(dir)))

	for _, kind := range catalogs.Kinds() {
		assert.Equal(t, cat.Len(kind), loaded.Len(kind), kind.String())
	}

	d, _ := loaded.Devices().Get(1)
	assert.Equal(t, []int64{1, 2}, d.AddOnIDs())
	assert.Equal(t, 1400.0, d.BasePrice)

	a, _ := loaded.AddOns().Get(1)
	require.NotNil(t, a.FreePrice)
	assert.Equal(t, 1500.0, *a.FreePrice)

	o, _ := loaded.Options().Get(5)
	assert.Equal(t, int64(3), o.Customization.ID)

	s, _ := loaded.Sales().Get(1)
	orig, _ := cat.Sales().Get(1)
	assert.True(t, orig.Date.Equal(s.Date))
	assert.Equal(t, int64(2), s.User.ID)
}

func TestLoad(t *testing.T) {
	t.Run("missing files give an empty catalog", func(t *testing.T) {
		cat := catalogs.New()
		require.NoError(t, cat.Load(fstest.MapFS{}))
		assert.Zero(t, cat.Len(catalogs.KindDevice))
	})

	t.Run("hand written files", func(t *testing.T) {
		fsys := fstest.MapFS{
			"devices.yaml": {Data: []byte(`
- id: 7
  code: TB-7
  name: Tablet
  base_price: 300
  add_on_ids: [4]
`)},
			"add-ons.yaml": {Data: []byte(`
- id: 4
  name: Keyboard
  price: 80
`)},
		}
		cat := catalogs.New()
		require.NoError(t, cat.Load(fsys))

		d, ok := cat.Devices().Get(7)
		require.True(t, ok)
		assert.Equal(t, "Keyboard", cat.ResolveDevice(d).AddOns[0].Name)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		fsys := fstest.MapFS{"users.yaml": {Data: []byte("- id: [")}}
		err := catalogs.New().Load(fsys)
		var perr *errors.ParseError
		assert.True(t, errors.As(err, &perr))
	})
}
