package handlers

import (
	"bytes"
	"net/http"
	"time"

	"github.com/facette/natsort"
	"github.com/go-chi/chi/v5"

	"github.com/snapmag/studio-backend/blobstore"
)

// BlobHandler serves object-store entries over HTTP. working-resolution
// entries back the editing preview; print masters are fetched by the print
// fulfillment tooling.
type BlobHandler struct {
	Store blobstore.Store
}

// ServeBlob streams one blob. every entry the studio writes is JPEG-family,
// so the content type is fixed.
func (h *BlobHandler) ServeBlob(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	data, err := h.Store.Get(key)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "private, max-age=86400")
	http.ServeContent(w, r, key+".jpg", time.Time{}, bytes.NewReader(data))
}

// ListBlobs returns all stored keys in natural sort order (admin/debug).
// natural ordering keeps an item's print variant right after its original.
func (h *BlobHandler) ListBlobs(w http.ResponseWriter, r *http.Request) {
	keys, err := h.Store.Keys()
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	natsort.Sort(keys)
	writeJSON(w, http.StatusOK, map[string]interface{}{"keys": keys})
}
