package catalogs

import (
	"testing"
	"time"
)

// FreePrice returns a pointer to v for use as AddOn.FreePrice.
func FreePrice(v float64) *float64 {
	return &v
}

// TestCatalog creates a small catalog with two devices and their add-ons,
// characteristics, customizations, options, plus a user with one sale.
//
// Device 1 costs 1400 and its 16 GB option adds 100, which reaches the 1500
// threshold at which the case add-on becomes free.
func TestCatalog(t testing.TB) *Catalog {
	t.Helper()

	cat := New()
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("building test catalog: %v", err)
		}
	}

	must(cat.Users().SetBatch([]*User{
		{ID: 1, Login: "admin"},
		{ID: 2, Login: "user"},
	}))

	must(cat.AddOns().SetBatch([]*AddOn{
		{ID: 1, Name: "Case", Description: "Protective case", Price: 25, FreePrice: FreePrice(1500)},
		{ID: 2, Name: "Charger", Description: "65W charger", Price: 40},
		{ID: 3, Name: "Stylus", Description: "Active pen", Price: 60, FreePrice: FreePrice(-1)},
	}))

	must(cat.Devices().SetBatch([]*Device{
		{
			ID: 1, Code: "NB-01", Name: "Notebook Pro", Description: "14 inch notebook",
			BasePrice: 1400, Currency: "USD",
			AddOns: []*AddOn{{ID: 1}, {ID: 2}},
		},
		{
			ID: 2, Code: "PH-02", Name: "Phone", Description: "6 inch phone",
			BasePrice: 800, Currency: "USD",
			AddOns: []*AddOn{{ID: 2}},
		},
	}))

	must(cat.Characteristics().SetBatch([]*Characteristic{
		{ID: 1, Name: "Screen", Description: "14 inch IPS", Device: &Device{ID: 1}},
		{ID: 2, Name: "Battery", Description: "10 hours", Device: &Device{ID: 1}},
		{ID: 3, Name: "Camera", Description: "48 MP", Device: &Device{ID: 2}},
	}))

	must(cat.Customizations().SetBatch([]*Customization{
		{ID: 1, Name: "Memory", Description: "RAM size", Device: &Device{ID: 1}},
		{ID: 2, Name: "Color", Description: "Chassis color", Device: &Device{ID: 1}},
		{ID: 3, Name: "Storage", Description: "Flash size", Device: &Device{ID: 2}},
	}))

	must(cat.Options().SetBatch([]*Option{
		{ID: 1, Code: "RAM-16", Name: "16 GB", ExtraPrice: 100, Customization: &Customization{ID: 1}},
		{ID: 2, Code: "RAM-32", Name: "32 GB", ExtraPrice: 250, Customization: &Customization{ID: 1}},
		{ID: 3, Code: "BLK", Name: "Black", ExtraPrice: 0, Customization: &Customization{ID: 2}},
		{ID: 4, Code: "SLV", Name: "Silver", ExtraPrice: 20, Customization: &Customization{ID: 2}},
		{ID: 5, Code: "S-256", Name: "256 GB", ExtraPrice: 150, Customization: &Customization{ID: 3}},
	}))

	must(cat.Sales().SetBatch([]*Sale{
		{
			ID: 1, Date: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
			FinalPrice: 1540, DeviceID: 1, User: &User{ID: 2},
		},
	}))

	return cat
}
