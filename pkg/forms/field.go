package forms

import (
	"context"
	"slices"
	"sync"

	"github.com/agentstation/techmarket/pkg/catalogs"
	"github.com/agentstation/techmarket/pkg/errors"
	"github.com/agentstation/techmarket/pkg/logging"
	"github.com/agentstation/techmarket/pkg/relation"
)

// Lister runs the listing query that provides a field's candidates.
type Lister[T any] interface {
	List(ctx context.Context) ([]T, error)
}

// ListerFunc adapts a function to the Lister interface.
type ListerFunc[T any] func(ctx context.Context) ([]T, error)

// List calls f.
func (f ListerFunc[T]) List(ctx context.Context) ([]T, error) {
	return f(ctx)
}

// Choice is one option of a relationship field as presented to a user.
type Choice struct {
	ID       int64  `json:"id" yaml:"id"`
	Label    string `json:"label" yaml:"label"`
	Selected bool   `json:"selected" yaml:"selected"`
}

// Field is a read only view of a relationship field.
type Field struct {
	Name     string        `json:"name" yaml:"name"`
	Target   catalogs.Kind `json:"target" yaml:"target"`
	Multiple bool          `json:"multiple" yaml:"multiple"`
	Selected []int64       `json:"selected" yaml:"selected"`
	Options  []Choice      `json:"options" yaml:"options"`
}

// ToOne is a single select relationship field.
//
// Options always contains Value once Reset or Refresh has run, even when the
// listing query did not return it.
type ToOne[T relation.Ref[int64]] struct {
	Name    string
	Target  catalogs.Kind
	Label   func(T) string
	Compare func(a, b T) bool

	mu      sync.RWMutex
	value   T
	options []T
}

// NewToOne creates a single select field. Compare is the shared id equality
// of T.
func NewToOne[T relation.Ref[int64]](name string, target catalogs.Kind, label func(T) string) *ToOne[T] {
	return &ToOne[T]{
		Name:    name,
		Target:  target,
		Label:   label,
		Compare: relation.Comparator[int64, T](),
		options: []T{},
	}
}

// Value returns the selected reference, which may be nil.
func (f *ToOne[T]) Value() T {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.value
}

// Options returns the current candidates.
func (f *ToOne[T]) Options() []T {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return slices.Clone(f.options)
}

// Reset binds current as the field value and merges it into the options
// already present.
func (f *ToOne[T]) Reset(current T) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.value = current
	f.options = relation.Merge[int64](f.options, relation.One(current))
}

// Refresh replaces the options with a fresh listing merged with the current
// value. On failure the previous options are kept.
func (f *ToOne[T]) Refresh(ctx context.Context, lister Lister[T]) error {
	fetched, err := lister.List(ctx)
	if err != nil {
		return &errors.FetchError{Relation: f.Name, Err: err}
	}

	f.mu.Lock()
	f.options = relation.Merge[int64](fetched, relation.One(f.value))
	n := len(f.options)
	f.mu.Unlock()

	logging.FromContext(ctx).Debug().
		Str("relation", f.Name).
		Int("fetched", len(fetched)).
		Int("options", n).
		Msg("Refreshed relationship options")
	return nil
}

// Select sets the value to the option with the given id.
func (f *ToOne[T]) Select(id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := relation.Find(f.options, id)
	if !ok {
		return unknownOption(f.Name, id)
	}
	f.value = v
	return nil
}

// Clear unsets the value. The options are left untouched.
func (f *ToOne[T]) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	var zero T
	f.value = zero
}

// Field returns the read only view of the field.
func (f *ToOne[T]) Field() Field {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return view(f.Name, f.Target, false, relation.One(f.value), f.options, f.Label, f.Compare)
}

// ToMany is a multi select relationship field.
//
// Options always contains every entry of Values once Reset or Refresh has run.
type ToMany[T relation.Ref[int64]] struct {
	Name    string
	Target  catalogs.Kind
	Label   func(T) string
	Compare func(a, b T) bool

	mu      sync.RWMutex
	values  []T
	options []T
}

// NewToMany creates a multi select field.
func NewToMany[T relation.Ref[int64]](name string, target catalogs.Kind, label func(T) string) *ToMany[T] {
	return &ToMany[T]{
		Name:    name,
		Target:  target,
		Label:   label,
		Compare: relation.Comparator[int64, T](),
		values:  []T{},
		options: []T{},
	}
}

// Values returns the selected references.
func (f *ToMany[T]) Values() []T {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return slices.Clone(f.values)
}

// Options returns the current candidates.
func (f *ToMany[T]) Options() []T {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return slices.Clone(f.options)
}

// Reset binds current as the selection and merges it into the options
// already present. Nil and duplicate entries of current are dropped.
func (f *ToMany[T]) Reset(current []T) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values = relation.Merge[int64](nil, current)
	f.options = relation.Merge[int64](f.options, f.values)
}

// Refresh replaces the options with a fresh listing merged with the current
// selection. On failure the previous options are kept.
func (f *ToMany[T]) Refresh(ctx context.Context, lister Lister[T]) error {
	fetched, err := lister.List(ctx)
	if err != nil {
		return &errors.FetchError{Relation: f.Name, Err: err}
	}

	f.mu.Lock()
	f.options = relation.Merge[int64](fetched, f.values)
	n := len(f.options)
	f.mu.Unlock()

	logging.FromContext(ctx).Debug().
		Str("relation", f.Name).
		Int("fetched", len(fetched)).
		Int("options", n).
		Msg("Refreshed relationship options")
	return nil
}

// Select makes the options with the given ids the exact selection, in the
// given order.
func (f *ToMany[T]) Select(ids ...int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	values := make([]T, 0, len(ids))
	for _, id := range ids {
		v, ok := relation.Find(f.options, id)
		if !ok {
			return unknownOption(f.Name, id)
		}
		values = append(values, v)
	}
	f.values = relation.Merge[int64](nil, values)
	return nil
}

// Toggle adds the option with the given id to the selection, or removes it
// when it is already selected.
func (f *ToMany[T]) Toggle(id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if i := slices.IndexFunc(f.values, func(v T) bool { return v.RefID() == id }); i >= 0 {
		f.values = slices.Delete(slices.Clone(f.values), i, i+1)
		return nil
	}
	v, ok := relation.Find(f.options, id)
	if !ok {
		return unknownOption(f.Name, id)
	}
	f.values = append(slices.Clone(f.values), v)
	return nil
}

// Field returns the read only view of the field.
func (f *ToMany[T]) Field() Field {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return view(f.Name, f.Target, true, f.values, f.options, f.Label, f.Compare)
}

func view[T relation.Ref[int64]](name string, target catalogs.Kind, multiple bool, selected, options []T, label func(T) string, compare func(a, b T) bool) Field {
	out := Field{
		Name:     name,
		Target:   target,
		Multiple: multiple,
		Selected: relation.IDs[int64](selected),
		Options:  make([]Choice, 0, len(options)),
	}
	for _, o := range options {
		c := Choice{ID: o.RefID()}
		if label != nil {
			c.Label = label(o)
		}
		c.Selected = slices.ContainsFunc(selected, func(s T) bool { return compare(s, o) })
		out.Options = append(out.Options, c)
	}
	return out
}

func unknownOption(field string, id int64) error {
	return &errors.ValidationError{
		Field:   field,
		Value:   id,
		Message: "not one of the available options",
	}
}
