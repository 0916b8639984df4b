package studio

import (
	"log"

	"github.com/snapmag/studio-backend/blobstore"
)

// NeedsRehydration reports whether an item resumed from persistence carries
// only a low-fidelity inline payload as its original reference. blob-backed
// originals are already full fidelity.
func NeedsRehydration(item *PhotoItem) bool {
	return item.Original.Kind == RefInline
}

// Rehydrate swaps an item's low-fidelity original for the true bytes in the
// object store: the working-resolution entry under the item id first, then
// the print-resolution variant under the suffixed key. returns true when a
// substitution happened. store misses and store unavailability are silent;
// the session simply continues on the inline representation.
func (s *Service) Rehydrate(item *PhotoItem) bool {
	if !NeedsRehydration(item) {
		return false
	}
	if s.store == nil {
		return false
	}

	if s.store.Has(item.ID) {
		item.Original = BlobRef(item.ID)
		log.Printf("studio: rehydrated item %s from working-resolution entry", item.ID)
		return true
	}

	printKey := blobstore.PrintKey(item.ID)
	if s.store.Has(printKey) {
		item.Original = BlobRef(printKey)
		log.Printf("studio: rehydrated item %s from print-resolution entry", item.ID)
		return true
	}
	return false
}
