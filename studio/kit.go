package studio

import (
	"errors"
	"fmt"
)

// KitState is the observable lifecycle state of a kit in progress.
// filling and complete are the same underlying state distinguished only by
// item count versus target.
type KitState string

const (
	KitStateEmpty      KitState = "empty"
	KitStateFilling    KitState = "filling"
	KitStateComplete   KitState = "complete"
	KitStateFinalizing KitState = "finalizing"
	KitStateFinalized  KitState = "finalized"
)

var (
	// ErrKitFinalized rejects mutation of an already-finalized kit
	ErrKitFinalized = errors.New("kit has already been finalized")
	// ErrItemNotFound rejects operations naming an id not in the kit
	ErrItemNotFound = errors.New("photo is not part of this kit")
)

// KitFullError rejects an add or duplicate against a kit at target size
type KitFullError struct {
	Count  int
	Target int
}

func (e *KitFullError) Error() string {
	return fmt.Sprintf("kit already has %d/%d photos", e.Count, e.Target)
}

// NeedMorePhotosError signals a finalize attempt below target size. callers
// treat it as "you're not done yet" and re-trigger the add-photos action
// rather than surfacing a failure.
type NeedMorePhotosError struct {
	Missing int
	Target  int
}

func (e *NeedMorePhotosError) Error() string {
	return fmt.Sprintf("kit needs %d more photo(s) to reach %d", e.Missing, e.Target)
}

// TooManyPhotosError rejects a finalize above target size. the add-time clamp
// makes this unreachable in normal operation, but finalize checks defensively
// and tells the user exactly how many to remove.
type TooManyPhotosError struct {
	Excess int
	Target int
}

func (e *TooManyPhotosError) Error() string {
	return fmt.Sprintf("remove %d photo(s) to match the kit size of %d", e.Excess, e.Target)
}

// Kit is a target-sized collection of photo items destined for one print
// order line. the target size is fixed when the kit is started.
type Kit struct {
	TargetSize int
	Items      []*PhotoItem

	finalizing bool
	finalized  bool
}

// NewKit starts an empty kit with the given target size (from the selected
// product tier)
func NewKit(targetSize int) (*Kit, error) {
	if targetSize <= 0 {
		return nil, fmt.Errorf("kit target size must be positive, got %d", targetSize)
	}
	return &Kit{TargetSize: targetSize}, nil
}

// ResumeKit rebuilds an in-progress kit from persisted items, e.g. when
// re-editing an existing order. the target size derives from the order's kit.
func ResumeKit(targetSize int, items []*PhotoItem) (*Kit, error) {
	kit, err := NewKit(targetSize)
	if err != nil {
		return nil, err
	}
	if len(items) > targetSize {
		return nil, &TooManyPhotosError{Excess: len(items) - targetSize, Target: targetSize}
	}
	kit.Items = items
	return kit, nil
}

// State reports the kit's observable lifecycle state
func (k *Kit) State() KitState {
	switch {
	case k.finalized:
		return KitStateFinalized
	case k.finalizing:
		return KitStateFinalizing
	case len(k.Items) == 0:
		return KitStateEmpty
	case len(k.Items) >= k.TargetSize:
		return KitStateComplete
	default:
		return KitStateFilling
	}
}

// Count returns the number of items currently in the kit
func (k *Kit) Count() int { return len(k.Items) }

// Remaining returns how many more items the kit accepts
func (k *Kit) Remaining() int {
	if r := k.TargetSize - len(k.Items); r > 0 {
		return r
	}
	return 0
}

// Accept clamps a multi-file selection to the remaining capacity, returning
// how many inputs to take and how many must be skipped
func (k *Kit) Accept(n int) (accepted, skipped int) {
	remaining := k.Remaining()
	if n <= remaining {
		return n, 0
	}
	return remaining, n - remaining
}

// Add appends an item, rejecting additions past target size or after
// finalization
func (k *Kit) Add(item *PhotoItem) error {
	if k.finalized {
		return ErrKitFinalized
	}
	if len(k.Items) >= k.TargetSize {
		return &KitFullError{Count: len(k.Items), Target: k.TargetSize}
	}
	k.Items = append(k.Items, item)
	return nil
}

// Remove deletes the item with the given id. removing from a complete kit
// returns it to filling
func (k *Kit) Remove(id string) error {
	if k.finalized {
		return ErrKitFinalized
	}
	for i, item := range k.Items {
		if item.ID == id {
			k.Items = append(k.Items[:i], k.Items[i+1:]...)
			return nil
		}
	}
	return ErrItemNotFound
}

// Duplicate copies an existing item into a new slot. rejected outright when
// the kit is already at target size.
func (k *Kit) Duplicate(id string) (*PhotoItem, error) {
	if k.finalized {
		return nil, ErrKitFinalized
	}
	if len(k.Items) >= k.TargetSize {
		return nil, &KitFullError{Count: len(k.Items), Target: k.TargetSize}
	}
	src, ok := k.Get(id)
	if !ok {
		return nil, ErrItemNotFound
	}
	dup := src.Duplicate()
	k.Items = append(k.Items, dup)
	return dup, nil
}

// Move repositions the item with the given id to index. used by the gallery's
// reorder controls; display order is also render order at finalize
func (k *Kit) Move(id string, index int) error {
	if k.finalized {
		return ErrKitFinalized
	}
	from := -1
	for i, item := range k.Items {
		if item.ID == id {
			from = i
			break
		}
	}
	if from == -1 {
		return ErrItemNotFound
	}
	if index < 0 {
		index = 0
	}
	if index >= len(k.Items) {
		index = len(k.Items) - 1
	}
	item := k.Items[from]
	k.Items = append(k.Items[:from], k.Items[from+1:]...)
	k.Items = append(k.Items[:index], append([]*PhotoItem{item}, k.Items[index:]...)...)
	return nil
}

// Get returns the item with the given id
func (k *Kit) Get(id string) (*PhotoItem, bool) {
	for _, item := range k.Items {
		if item.ID == id {
			return item, true
		}
	}
	return nil, false
}

// CheckFinalize gates the finalize transition on an exact quantity match
func (k *Kit) CheckFinalize() error {
	if k.finalized {
		return ErrKitFinalized
	}
	if len(k.Items) < k.TargetSize {
		return &NeedMorePhotosError{Missing: k.TargetSize - len(k.Items), Target: k.TargetSize}
	}
	if len(k.Items) > k.TargetSize {
		return &TooManyPhotosError{Excess: len(k.Items) - k.TargetSize, Target: k.TargetSize}
	}
	return nil
}

func (k *Kit) beginFinalize() { k.finalizing = true }

func (k *Kit) completeFinalize() {
	k.finalizing = false
	k.finalized = true
}

// Clear drops the in-progress item list after the bundle is handed off
func (k *Kit) Clear() { k.Items = nil }
