// Package table converts catalog data into rows for CLI table output.
package table

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/agentstation/techmarket/internal/remote"
	"github.com/agentstation/techmarket/pkg/catalogs"
	"github.com/agentstation/techmarket/pkg/forms"
	"github.com/agentstation/techmarket/pkg/sales"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents table formatting data.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional: column alignment
}

const maxDescription = 60

var titleCaser = cases.Title(language.English)

// Title turns a field or kind name such as "add_ons" into a header title.
func Title(name string) string {
	name = strings.NewReplacer("_", " ", "-", " ").Replace(name)
	return titleCaser.String(name)
}

// Entities converts a listing of one kind to table format. Wide adds the
// description column.
func Entities(kind catalogs.Kind, items []catalogs.Entity, wide bool) Data {
	var data Data
	switch kind {
	case catalogs.KindDevice:
		data = Data{
			Headers:         []string{"ID", "Code", "Name", "Base Price", "Add-ons"},
			ColumnAlignment: []Align{AlignRight, AlignLeft, AlignLeft, AlignRight, AlignLeft},
		}
	case catalogs.KindAddOn:
		data = Data{
			Headers:         []string{"ID", "Name", "Price", "Free From"},
			ColumnAlignment: []Align{AlignRight, AlignLeft, AlignRight, AlignRight},
		}
	case catalogs.KindCharacteristic:
		data = Data{Headers: []string{"ID", "Name", "Device"}}
	case catalogs.KindCustomization:
		data = Data{Headers: []string{"ID", "Name", "Device", "Options"}}
	case catalogs.KindOption:
		data = Data{
			Headers:         []string{"ID", "Code", "Name", "Extra Price", "Customization"},
			ColumnAlignment: []Align{AlignRight, AlignLeft, AlignLeft, AlignRight, AlignLeft},
		}
	case catalogs.KindSale:
		data = Data{
			Headers:         []string{"ID", "Date", "Device", "Final Price", "User"},
			ColumnAlignment: []Align{AlignRight, AlignLeft, AlignRight, AlignRight, AlignLeft},
		}
	case catalogs.KindUser:
		data = Data{Headers: []string{"ID", "Login"}}
	}

	describe := wide && kind != catalogs.KindSale && kind != catalogs.KindUser
	if describe {
		data.Headers = append(data.Headers, "Description")
		if len(data.ColumnAlignment) > 0 {
			data.ColumnAlignment = append(data.ColumnAlignment, AlignLeft)
		}
	}

	data.Rows = make([][]string, 0, len(items))
	for _, e := range items {
		row, description := entityRow(e)
		if row == nil {
			continue
		}
		if describe {
			row = append(row, Truncate(description, maxDescription))
		}
		data.Rows = append(data.Rows, row)
	}
	return data
}

func entityRow(e catalogs.Entity) ([]string, string) {
	switch v := e.(type) {
	case *catalogs.Device:
		names := make([]string, 0, len(v.AddOns))
		for _, a := range v.AddOns {
			names = append(names, a.Name)
		}
		return []string{id(v.ID), v.Code, v.Name, Price(v.BasePrice), Join(names)}, v.Description
	case *catalogs.AddOn:
		free := "-"
		if v.FreePrice != nil && *v.FreePrice >= 0 {
			free = Price(*v.FreePrice)
		}
		return []string{id(v.ID), v.Name, Price(v.Price), free}, v.Description
	case *catalogs.Characteristic:
		return []string{id(v.ID), v.Name, deviceName(v.Device)}, v.Description
	case *catalogs.Customization:
		codes := make([]string, 0, len(v.Options))
		for _, o := range v.Options {
			codes = append(codes, o.Code)
		}
		return []string{id(v.ID), v.Name, deviceName(v.Device), Join(codes)}, v.Description
	case *catalogs.Option:
		customization := "-"
		if v.Customization != nil {
			customization = v.Customization.Name
		}
		return []string{id(v.ID), v.Code, v.Name, Price(v.ExtraPrice), customization}, v.Description
	case *catalogs.Sale:
		user := "-"
		if v.User != nil {
			user = v.User.Login
		}
		return []string{id(v.ID), v.Date.Format("2006-01-02 15:04"), id(v.DeviceID), Price(v.FinalPrice), user}, ""
	case *catalogs.User:
		return []string{id(v.ID), v.Login}, ""
	}
	return nil, ""
}

// Form converts the relationship fields of a form to table format, one row
// per option. Selected options are marked with *.
func Form(f forms.Form) Data {
	data := Data{
		Headers:         []string{"Field", "ID", "Option", "Selected"},
		ColumnAlignment: []Align{AlignLeft, AlignRight, AlignLeft, AlignCenter},
	}
	for _, field := range f.Fields() {
		name := Title(field.Name)
		if len(field.Options) == 0 {
			data.Rows = append(data.Rows, []string{name, "-", "(no options)", ""})
			continue
		}
		for _, c := range field.Options {
			mark := ""
			if c.Selected {
				mark = "*"
			}
			data.Rows = append(data.Rows, []string{name, id(c.ID), c.Label, mark})
		}
	}
	return data
}

// Quote converts a price breakdown to table format.
func Quote(q *sales.Quote) Data {
	data := Data{
		Headers:         []string{"Item", "Group", "Price"},
		ColumnAlignment: []Align{AlignLeft, AlignLeft, AlignRight},
	}
	data.Rows = append(data.Rows, []string{q.DeviceName, "Device", Price(q.BasePrice)})
	for _, l := range q.Options {
		data.Rows = append(data.Rows, []string{l.Name, l.Group, Price(l.Price)})
	}
	data.Rows = append(data.Rows, []string{"Subtotal", "", Price(q.Subtotal)})
	for _, l := range q.AddOns {
		price := Price(l.Price)
		if l.Free {
			price = "free"
		}
		data.Rows = append(data.Rows, []string{l.Name, "Add-on", price})
	}
	data.Rows = append(data.Rows, []string{"Total", q.Currency, Price(q.Total)})
	return data
}

// Sync converts a sync result to a key-value table.
func Sync(r remote.SyncResult) Data {
	return Data{
		Headers:         []string{"Property", "Value"},
		ColumnAlignment: []Align{AlignLeft, AlignRight},
		Rows: [][]string{
			{Title("devices"), strconv.Itoa(r.Devices)},
			{Title("added"), strconv.Itoa(r.Added)},
			{Title("updated"), strconv.Itoa(r.Updated)},
			{Title("unchanged"), strconv.Itoa(r.Unchanged)},
		},
	}
}

// Price formats a price with two decimals.
func Price(v float64) string {
	return strconv.FormatFloat(catalogs.RoundPrice(v), 'f', 2, 64)
}

// Join joins names for a single cell, "-" when there are none.
func Join(names []string) string {
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ", ")
}

// Truncate shortens s to at most n runes, "-" when empty.
func Truncate(s string, n int) string {
	if s == "" {
		return "-"
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func id(v int64) string {
	return strconv.FormatInt(v, 10)
}

func deviceName(d *catalogs.Device) string {
	if d == nil {
		return "-"
	}
	if d.Name == "" {
		return "#" + id(d.ID)
	}
	return d.Name
}
