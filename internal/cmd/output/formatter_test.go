package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/agentstation/techmarket/internal/cmd/table"
	"github.com/agentstation/techmarket/pkg/catalogs"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"table", FormatTable, false},
		{"JSON", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"wide", FormatWide, false},
		{"", "", false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDetectFormatExplicit(t *testing.T) {
	if got := DetectFormat("YAML"); got != FormatYAML {
		t.Errorf("DetectFormat(YAML) = %q", got)
	}
}

func TestWrite(t *testing.T) {
	device := &catalogs.Device{
		ID: 1, Code: "NB-01", Name: "Notebook", BasePrice: 1400,
		AddOns: []*catalogs.AddOn{{ID: 2, Name: "Charger"}},
	}
	items := []catalogs.Entity{device}
	tab := table.Entities(catalogs.KindDevice, items, false)

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Write(&buf, FormatTable, tab, items); err != nil {
			t.Fatal(err)
		}
		out := buf.String()
		for _, want := range []string{"NB-01", "Notebook", "1400.00", "Charger"} {
			if !strings.Contains(out, want) {
				t.Errorf("table output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Write(&buf, FormatJSON, tab, items); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(buf.String(), `"base_price": 1400`) {
			t.Errorf("unexpected json:\n%s", buf.String())
		}
	})

	t.Run("yaml keeps relationships", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Write(&buf, FormatYAML, tab, items); err != nil {
			t.Fatal(err)
		}
		out := buf.String()
		if !strings.Contains(out, "add_ons:") || !strings.Contains(out, "name: Charger") {
			t.Errorf("unexpected yaml:\n%s", out)
		}
	})
}

func TestTableFormatterFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := NewFormatter(FormatTable).Format(&buf, map[string]int{"added": 2}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"added": 2`) {
		t.Errorf("unexpected output %s", buf.String())
	}
}
