package catalogs

import (
	"cmp"
	"maps"
	"slices"
	"sync"

	"github.com/agentstation/techmarket/pkg/errors"
	"github.com/agentstation/techmarket/pkg/relation"
)

// Collection is a concurrent safe set of entities keyed by id.
type Collection[T relation.Ref[int64]] struct {
	mu    sync.RWMutex
	kind  Kind
	items map[int64]T
}

// CollectionOption configures a Collection.
type CollectionOption[T relation.Ref[int64]] func(*Collection[T])

// WithCapacity sets the initial capacity of the collection.
func WithCapacity[T relation.Ref[int64]](capacity int) CollectionOption[T] {
	return func(c *Collection[T]) {
		c.items = make(map[int64]T, capacity)
	}
}

// NewCollection creates an empty collection of the given kind. The kind is
// only used in error messages.
func NewCollection[T relation.Ref[int64]](kind Kind, opts ...CollectionOption[T]) *Collection[T] {
	c := &Collection[T]{
		kind:  kind,
		items: make(map[int64]T),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns an entity by id and whether it exists.
func (c *Collection[T]) Get(id int64) (T, bool) {
	c.mu.RLock()
	item, ok := c.items[id]
	c.mu.RUnlock()
	return item, ok
}

// Set stores an entity under its id, replacing any previous value.
func (c *Collection[T]) Set(item T) error {
	id, ok := relation.Key[int64](item)
	if !ok {
		return c.nilError()
	}

	c.mu.Lock()
	c.items[id] = item
	c.mu.Unlock()
	return nil
}

// Add stores an entity, returning an error if its id is already taken.
func (c *Collection[T]) Add(item T) error {
	id, ok := relation.Key[int64](item)
	if !ok {
		return c.nilError()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[id]; exists {
		return errors.NewAlreadyExistsError(c.kind.String(), id)
	}
	c.items[id] = item
	return nil
}

// Delete removes an entity by id.
func (c *Collection[T]) Delete(id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[id]; !exists {
		return errors.NewNotFoundError(c.kind.String(), id)
	}
	delete(c.items, id)
	return nil
}

// Exists checks if an entity exists without returning it.
func (c *Collection[T]) Exists(id int64) bool {
	c.mu.RLock()
	_, exists := c.items[id]
	c.mu.RUnlock()
	return exists
}

// Len returns the number of entities.
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	n := len(c.items)
	c.mu.RUnlock()
	return n
}

// List returns every entity ordered by id.
func (c *Collection[T]) List() []T {
	c.mu.RLock()
	items := slices.Collect(maps.Values(c.items))
	c.mu.RUnlock()

	slices.SortFunc(items, func(a, b T) int {
		return cmp.Compare(a.RefID(), b.RefID())
	})
	return items
}

// Clear removes all entities.
func (c *Collection[T]) Clear() {
	c.mu.Lock()
	clear(c.items)
	c.mu.Unlock()
}

// SetBatch upserts several entities at once. Nothing is stored when any of
// them is nil.
func (c *Collection[T]) SetBatch(items []T) error {
	for _, item := range items {
		if _, ok := relation.Key[int64](item); !ok {
			return c.nilError()
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, item := range items {
		c.items[item.RefID()] = item
	}
	return nil
}

// NextID returns one more than the highest id in the collection.
func (c *Collection[T]) NextID() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var highest int64
	for id := range c.items {
		highest = max(highest, id)
	}
	return highest + 1
}

func (c *Collection[T]) nilError() error {
	return &errors.ValidationError{Field: c.kind.String(), Message: "cannot be nil"}
}
