package handlers

import (
	"sync"

	"github.com/google/uuid"

	"github.com/snapmag/studio-backend/studio"
)

// Draft is one in-progress kit editing session. it is an explicit object
// owned by the registry and addressed by id, never ambient state, so several
// sessions can edit concurrently and tests can build isolated instances.
type Draft struct {
	ID     string      `json:"id"`
	TierID uint        `json:"tier_id,omitempty"`
	Kit    *studio.Kit `json:"-"`

	// OrderID is set when the draft was opened from an existing order
	// (admin re-edit); finalize then updates that order instead of placing
	// a new one
	OrderID string `json:"order_id,omitempty"`
}

// DraftRegistry holds the active editing sessions in memory. drafts are
// discarded on process exit; persisted photo item rows and object-store
// entries survive and are rebuilt into a draft on resume.
type DraftRegistry struct {
	mu     sync.Mutex
	drafts map[string]*Draft
}

func NewDraftRegistry() *DraftRegistry {
	return &DraftRegistry{drafts: make(map[string]*Draft)}
}

// Create opens a new draft around the given kit
func (dr *DraftRegistry) Create(kit *studio.Kit, tierID uint, orderID string) *Draft {
	draft := &Draft{
		ID:      uuid.NewString(),
		TierID:  tierID,
		Kit:     kit,
		OrderID: orderID,
	}
	dr.mu.Lock()
	dr.drafts[draft.ID] = draft
	dr.mu.Unlock()
	return draft
}

// Get returns the draft with the given id
func (dr *DraftRegistry) Get(id string) (*Draft, bool) {
	dr.mu.Lock()
	defer dr.mu.Unlock()
	draft, ok := dr.drafts[id]
	return draft, ok
}

// Remove drops a draft, e.g. after finalize or cancel
func (dr *DraftRegistry) Remove(id string) {
	dr.mu.Lock()
	delete(dr.drafts, id)
	dr.mu.Unlock()
}
