package techmarket

import (
	"sync"

	"github.com/agentstation/techmarket/internal/remote"
	"github.com/agentstation/techmarket/pkg/catalogs"
)

// Hook function types for catalog events
type (
	// SavedHook is called after an entity is saved
	SavedHook func(e catalogs.Entity)

	// DeletedHook is called after an entity is deleted
	DeletedHook func(kind catalogs.Kind, id int64)

	// SyncedHook is called after a remote sync pass that changed the store
	SyncedHook func(result remote.SyncResult)
)

// hooks manages event callbacks for catalog changes
type hooks struct {
	mu        sync.RWMutex
	onSaved   []SavedHook
	onDeleted []DeletedHook
	onSynced  []SyncedHook
}

func newHooks() *hooks {
	return &hooks{}
}

// OnSaved registers a callback for saved entities
func (h *hooks) OnSaved(fn SavedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onSaved = append(h.onSaved, fn)
}

// OnDeleted registers a callback for deleted entities
func (h *hooks) OnDeleted(fn DeletedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onDeleted = append(h.onDeleted, fn)
}

// OnSynced registers a callback for sync passes that changed the store
func (h *hooks) OnSynced(fn SyncedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onSynced = append(h.onSynced, fn)
}

func (h *hooks) saved(e catalogs.Entity) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, fn := range h.onSaved {
		fn(e)
	}
}

func (h *hooks) deleted(kind catalogs.Kind, id int64) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, fn := range h.onDeleted {
		fn(kind, id)
	}
}

func (h *hooks) synced(result remote.SyncResult) {
	if !result.Changed() {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, fn := range h.onSynced {
		fn(result)
	}
}
