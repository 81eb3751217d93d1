// Package catalogs defines the techmarket domain model: devices, the add-ons
// sold with them, their characteristics and customizations, customization
// options, sales and the users that made them.
//
// Relationship fields hold shallow references. A reference carries the
// identifier and display attributes of the target but none of the target's
// own relationships, so entity graphs never form cycles and marshal cleanly.
//
// Example usage:
//
//	cat := catalogs.New()
//	_ = cat.AddOns().Add(&catalogs.AddOn{ID: 1, Name: "Case", Price: 20})
//	_ = cat.Devices().Add(&catalogs.Device{ID: 1, Code: "NB-01", Name: "Notebook", BasePrice: 1500})
//
//	for _, d := range cat.Devices().List() {
//	    fmt.Println(d.ID, d.Name)
//	}
package catalogs

import (
	"math"
	"strings"

	"github.com/agentstation/techmarket/pkg/errors"
)

// Kind names an entity type of the catalog.
type Kind string

// Entity kinds.
const (
	KindDevice         Kind = "device"
	KindAddOn          Kind = "add-on"
	KindCharacteristic Kind = "characteristic"
	KindCustomization  Kind = "customization"
	KindOption         Kind = "option"
	KindSale           Kind = "sale"
	KindUser           Kind = "user"
)

// Kinds returns every entity kind in dependency order: a kind only references
// kinds listed before it.
func Kinds() []Kind {
	return []Kind{
		KindUser,
		KindAddOn,
		KindDevice,
		KindCharacteristic,
		KindCustomization,
		KindOption,
		KindSale,
	}
}

// Plural returns the collection name of the kind, as used in URLs and file names.
func (k Kind) Plural() string {
	switch k {
	case KindAddOn:
		return "add-ons"
	case KindCustomization:
		return "customizations"
	case KindCharacteristic:
		return "characteristics"
	default:
		return string(k) + "s"
	}
}

// String implements fmt.Stringer.
func (k Kind) String() string { return string(k) }

// ParseKind resolves a user supplied kind name. Singular and plural forms are
// accepted, as are the names used by the remote catalog.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	name = strings.ReplaceAll(name, "_", "-")
	switch name {
	case "device", "devices", "dispositivo", "dispositivos":
		return KindDevice, nil
	case "add-on", "add-ons", "addon", "addons", "adicional", "adicionales":
		return KindAddOn, nil
	case "characteristic", "characteristics", "caracteristica", "caracteristicas":
		return KindCharacteristic, nil
	case "customization", "customizations", "personalizacion", "personalizaciones":
		return KindCustomization, nil
	case "option", "options", "opcion", "opciones":
		return KindOption, nil
	case "sale", "sales", "venta", "ventas":
		return KindSale, nil
	case "user", "users":
		return KindUser, nil
	}
	return "", &errors.ValidationError{
		Field:   "kind",
		Value:   s,
		Message: "unknown entity kind",
	}
}

// Entity is implemented by every catalog entity.
type Entity interface {
	RefID() int64
	Kind() Kind
	Validate() error
}

// RoundPrice rounds a price to cents.
func RoundPrice(v float64) float64 {
	return math.Round(v*100) / 100
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &errors.ValidationError{Field: field, Value: value, Message: "is required"}
	}
	return nil
}

func nonNegative(field string, value float64) error {
	if value < 0 || math.IsNaN(value) {
		return &errors.ValidationError{Field: field, Value: value, Message: "must not be negative"}
	}
	return nil
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
