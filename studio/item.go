package studio

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/snapmag/studio-backend/blobstore"
	"github.com/snapmag/studio-backend/filter"
	"github.com/snapmag/studio-backend/utils"
)

// RefKind says where a source reference's bytes live
type RefKind string

const (
	// RefNone is an unset reference
	RefNone RefKind = ""
	// RefBlob points into the binary object store by key
	RefBlob RefKind = "blob"
	// RefInline carries the bytes directly. an inline original is the
	// low-fidelity marker that triggers rehydration on session resume
	RefInline RefKind = "inline"
)

// SourceRef is one resolvable reference to encoded image bytes
type SourceRef struct {
	Kind RefKind `json:"kind"`
	Key  string  `json:"key,omitempty"`
	Data []byte  `json:"-"`
}

// BlobRef returns a reference into the object store
func BlobRef(key string) SourceRef { return SourceRef{Kind: RefBlob, Key: key} }

// InlineRef returns a reference carrying its bytes directly
func InlineRef(data []byte) SourceRef { return SourceRef{Kind: RefInline, Data: data} }

// IsZero reports whether the reference is unset
func (r SourceRef) IsZero() bool { return r.Kind == RefNone }

// Resolve returns the referenced bytes, hitting the object store for blob
// references
func (r SourceRef) Resolve(store blobstore.Store) ([]byte, error) {
	switch r.Kind {
	case RefInline:
		if len(r.Data) == 0 {
			return nil, fmt.Errorf("inline reference has no bytes")
		}
		return r.Data, nil
	case RefBlob:
		if store == nil {
			return nil, fmt.Errorf("no object store to resolve blob key '%s'", r.Key)
		}
		return store.Get(r.Key)
	}
	return nil, fmt.Errorf("unresolvable source reference")
}

// PhotoItem is one user-submitted photograph within a kit. its id is stable
// for the item's lifetime and doubles as the object-store key for its
// working-resolution bytes.
type PhotoItem struct {
	ID    string `json:"id"`
	KitID string `json:"kit_id,omitempty"` // unset until finalized

	// source references; original preferred, then fallback, then proxy.
	// at most one is guaranteed fresh at any time, see rehydrate.go
	Original SourceRef `json:"original"`
	Proxy    SourceRef `json:"proxy"`
	Fallback SourceRef `json:"fallback"`

	Transform   Transform          `json:"transform"`
	Adjustments filter.Adjustments `json:"adjustments"`
	Preset      filter.Preset      `json:"preset"`

	// Consent records promotional-reuse authorization; set once per kit at
	// finalization and copied onto every item in the kit
	Consent bool `json:"consent"`

	FileName string         `json:"file_name,omitempty"`
	Capture  utils.Metadata `json:"capture,omitempty"`
}

// NewPhotoItem returns an item with a fresh identity and neutral edit state
func NewPhotoItem() *PhotoItem {
	return &PhotoItem{
		ID:          uuid.NewString(),
		Transform:   DefaultTransform(),
		Adjustments: filter.DefaultAdjustments(),
		Preset:      filter.PresetNone,
	}
}

// Duplicate copies the full transform and adjustment state under a new
// identity. the copy shares no mutable state with the source and belongs to
// no kit until added.
func (p *PhotoItem) Duplicate() *PhotoItem {
	dup := *p
	dup.ID = uuid.NewString()
	dup.KitID = ""
	dup.Original = p.Original.clone()
	dup.Proxy = p.Proxy.clone()
	dup.Fallback = p.Fallback.clone()
	return &dup
}

func (r SourceRef) clone() SourceRef {
	out := r
	if len(r.Data) > 0 {
		out.Data = append([]byte(nil), r.Data...)
	}
	return out
}

// Resolvable reports whether at least one image reference is set. an item
// with none is an unrecoverable-display state the UI must surface with a
// remove action.
func (p *PhotoItem) Resolvable() bool {
	return !p.Original.IsZero() || !p.Fallback.IsZero() || !p.Proxy.IsZero()
}

// ResolveSource returns the best available bytes for rendering: original
// preferred, then fallback, then proxy
func (p *PhotoItem) ResolveSource(store blobstore.Store) ([]byte, error) {
	var lastErr error
	for _, ref := range []SourceRef{p.Original, p.Fallback, p.Proxy} {
		if ref.IsZero() {
			continue
		}
		data, err := ref.Resolve(store)
		if err == nil {
			return data, nil
		}
		lastErr = err
	}
	if lastErr != nil {
		return nil, fmt.Errorf("no source resolved for item %s: %w", p.ID, lastErr)
	}
	return nil, fmt.Errorf("item %s has no source references", p.ID)
}

// Filter composes the item's preset and sliders into its composite filter
func (p *PhotoItem) Filter() filter.Filter {
	return filter.Compose(p.Preset, p.Adjustments)
}
