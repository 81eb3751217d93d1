// Package forms binds catalog entities under edit to their relationship
// pickers.
//
// Every form follows the same lifecycle. Load first binds the entity's current
// references to its fields, then runs one listing query per relationship
// field concurrently. Each fetched list is merged with the field's current
// selection, so a picker never loses the value already bound to the entity.
// A failed query leaves that field's previous options in place.
//
// Example usage:
//
//	form := forms.NewDeviceForm(sources)
//	if err := form.Load(ctx, device); err != nil {
//	    log.Warn().Err(err).Msg("some options could not be refreshed")
//	}
//	_ = form.AddOns.Toggle(3)
//	updated := form.Entity()
package forms

import (
	"context"
	"fmt"

	"github.com/sourcegraph/conc/pool"

	"github.com/agentstation/techmarket/pkg/catalogs"
	"github.com/agentstation/techmarket/pkg/constants"
	"github.com/agentstation/techmarket/pkg/errors"
	"github.com/agentstation/techmarket/pkg/logging"
	"github.com/agentstation/techmarket/pkg/relation"
)

// Form is the behavior shared by every entity form.
type Form interface {
	// Kind is the kind of the entity under edit.
	Kind() catalogs.Kind
	// ID is the id of the entity under edit, zero for a new one.
	ID() int64
	// Fields returns the relationship fields in display order.
	Fields() []Field
	// Refresh reloads the options of every relationship field.
	Refresh(ctx context.Context) error
}

// Sources provides the listing query of every entity kind a form can
// reference.
type Sources struct {
	Devices        Lister[*catalogs.Device]
	AddOns         Lister[*catalogs.AddOn]
	Customizations Lister[*catalogs.Customization]
	Options        Lister[*catalogs.Option]
	Users          Lister[*catalogs.User]
}

// refresher reloads one field from its lister.
type refresher struct {
	name string
	run  func(ctx context.Context) error
}

func refreshOne[T interface {
	Refresh(context.Context, Lister[E]) error
}, E any](name string, field T, lister Lister[E]) refresher {
	return refresher{
		name: name,
		run: func(ctx context.Context) error {
			if lister == nil {
				return &errors.FetchError{Relation: name, Err: errors.New("no lister configured")}
			}
			return field.Refresh(ctx, lister)
		},
	}
}

// refreshAll runs every refresher concurrently and waits for all of them. A
// failing query does not cancel the others.
func refreshAll(ctx context.Context, kind catalogs.Kind, id int64, fields ...refresher) error {
	ctx = logging.WithEntity(ctx, kind.String(), id)
	logger := logging.FromContext(ctx)

	ctx, cancel := context.WithTimeout(ctx, constants.FormLoadTimeout)
	defer cancel()

	p := pool.New().
		WithMaxGoroutines(constants.MaxConcurrentQueries).
		WithContext(ctx)
	for _, f := range fields {
		p.Go(func(ctx context.Context) error {
			err := f.run(logging.WithRelation(ctx, f.name))
			var fetchErr *errors.FetchError
			if errors.As(err, &fetchErr) {
				fetchErr.Entity = kind.String()
			}
			if err != nil {
				logger.Warn().Err(err).Str("relation", f.name).Msg("Keeping previous options")
			}
			return err
		})
	}
	return p.Wait()
}

// Load builds and loads the form of an entity by kind. A nil entity loads an
// empty form for a new entity. entity must be the pointer type of kind.
func Load(ctx context.Context, src Sources, kind catalogs.Kind, entity catalogs.Entity) (Form, error) {
	switch kind {
	case catalogs.KindDevice:
		f := NewDeviceForm(src)
		return f, f.Load(ctx, asEntity[*catalogs.Device](entity))
	case catalogs.KindCharacteristic:
		f := NewCharacteristicForm(src)
		return f, f.Load(ctx, asEntity[*catalogs.Characteristic](entity))
	case catalogs.KindCustomization:
		f := NewCustomizationForm(src)
		return f, f.Load(ctx, asEntity[*catalogs.Customization](entity))
	case catalogs.KindOption:
		f := NewOptionForm(src)
		return f, f.Load(ctx, asEntity[*catalogs.Option](entity))
	case catalogs.KindSale:
		f := NewSaleForm(src)
		return f, f.Load(ctx, asEntity[*catalogs.Sale](entity))
	case catalogs.KindAddOn, catalogs.KindUser:
		return &plainForm{kind: kind, id: entityID(entity)}, nil
	}
	return nil, &errors.ValidationError{Field: "kind", Value: kind, Message: fmt.Sprintf("no form for %q", kind)}
}

func asEntity[T catalogs.Entity](e catalogs.Entity) T {
	v, _ := e.(T)
	return v
}

func entityID(e catalogs.Entity) int64 {
	id, _ := relation.Key[int64](e)
	return id
}

// plainForm is the form of a kind without relationship fields.
type plainForm struct {
	kind catalogs.Kind
	id   int64
}

func (f *plainForm) Kind() catalogs.Kind { return f.kind }

func (f *plainForm) ID() int64 { return f.id }

func (f *plainForm) Fields() []Field { return []Field{} }

func (f *plainForm) Refresh(context.Context) error { return nil }

// Labels used by the relationship pickers.

func deviceLabel(d *catalogs.Device) string {
	return fmt.Sprintf("%s (%s)", d.Name, d.Code)
}

func addOnLabel(a *catalogs.AddOn) string { return a.Name }

func customizationLabel(c *catalogs.Customization) string { return c.Name }

func optionLabel(o *catalogs.Option) string {
	return fmt.Sprintf("%s (%s)", o.Name, o.Code)
}

func userLabel(u *catalogs.User) string { return u.Login }
