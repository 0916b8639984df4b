package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/snapmag/studio-backend/database"
	"github.com/snapmag/studio-backend/filter"
	"github.com/snapmag/studio-backend/media"
	"github.com/snapmag/studio-backend/models"
	"github.com/snapmag/studio-backend/repository"
	"github.com/snapmag/studio-backend/studio"
)

// uploads above this are rejected before decode; a 2400px working image never
// needs more
const maxUploadBytes = 64 << 20

// StudioHandler exposes the kit editing flow: open a draft, upload photos,
// edit crop and adjustments, finalize into an order.
type StudioHandler struct {
	Svc     *studio.Service
	Drafts  *DraftRegistry
	Tiers   repository.ProductTierRepositoryInterface
	Items   repository.PhotoItemRepositoryInterface
	OrderDB database.Querier
}

type itemView struct {
	ID          string             `json:"id"`
	KitID       string             `json:"kit_id,omitempty"`
	Position    int                `json:"position"`
	Transform   studio.Transform   `json:"transform"`
	Adjustments filter.Adjustments `json:"adjustments"`
	Preset      filter.Preset      `json:"preset"`
	// Filter is the composite expression the client applies as its live
	// preview style; it always matches what the print renderer will use
	Filter      string `json:"filter"`
	FileName    string `json:"file_name,omitempty"`
	Resolvable  bool   `json:"resolvable"`
	DisplayData []byte `json:"display_data,omitempty"` // finalized proxy, base64 in JSON
}

func viewOf(item *studio.PhotoItem, position int) itemView {
	v := itemView{
		ID:          item.ID,
		KitID:       item.KitID,
		Position:    position,
		Transform:   item.Transform,
		Adjustments: item.Adjustments,
		Preset:      item.Preset,
		Filter:      item.Filter().String(),
		FileName:    item.FileName,
		Resolvable:  item.Resolvable(),
	}
	if item.Proxy.Kind == studio.RefInline {
		v.DisplayData = item.Proxy.Data
	}
	return v
}

type draftView struct {
	ID      string          `json:"id"`
	TierID  uint            `json:"tier_id,omitempty"`
	OrderID string          `json:"order_id,omitempty"`
	State   studio.KitState `json:"state"`
	Count   int             `json:"count"`
	Target  int             `json:"target"`
	Items   []itemView      `json:"items"`
}

func viewOfDraft(d *Draft) draftView {
	v := draftView{
		ID:      d.ID,
		TierID:  d.TierID,
		OrderID: d.OrderID,
		State:   d.Kit.State(),
		Count:   d.Kit.Count(),
		Target:  d.Kit.TargetSize,
		Items:   make([]itemView, 0, d.Kit.Count()),
	}
	for i, item := range d.Kit.Items {
		v.Items = append(v.Items, viewOf(item, i))
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// CreateDraft opens a new editing session for a product tier
func (h *StudioHandler) CreateDraft(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TierID uint `json:"tier_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_body", "request body must be JSON with a tier_id")
		return
	}

	tier, err := h.Tiers.GetByID(req.TierID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			WriteAPIError(w, http.StatusNotFound, "tier_not_found", fmt.Sprintf("no product tier %d", req.TierID))
			return
		}
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	kit, err := studio.NewKit(tier.MagnetCount)
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	draft := h.Drafts.Create(kit, tier.ID, "")
	writeJSON(w, http.StatusCreated, viewOfDraft(draft))
}

// GetDraft returns the current editing state for a draft
func (h *StudioHandler) GetDraft(w http.ResponseWriter, r *http.Request) {
	draft, ok := h.Drafts.Get(chi.URLParam(r, "draft_id"))
	if !ok {
		WriteAPIError(w, http.StatusNotFound, "draft_not_found", "no such editing session")
		return
	}
	writeJSON(w, http.StatusOK, viewOfDraft(draft))
}

// UploadPhotos ingests a multipart batch of photos into the draft's kit.
// files beyond the kit's remaining capacity are skipped and reported; a file
// that fails to decode is skipped without aborting the batch.
func (h *StudioHandler) UploadPhotos(w http.ResponseWriter, r *http.Request) {
	draft, ok := h.Drafts.Get(chi.URLParam(r, "draft_id"))
	if !ok {
		WriteAPIError(w, http.StatusNotFound, "draft_not_found", "no such editing session")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_upload", fmt.Sprintf("failed to parse multipart form: %v", err))
		return
	}

	var files []media.File
	for _, header := range r.MultipartForm.File["photos"] {
		f, err := header.Open()
		if err != nil {
			WriteAPIError(w, http.StatusBadRequest, "invalid_upload", fmt.Sprintf("failed to open uploaded file %s: %v", header.Filename, err))
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			WriteAPIError(w, http.StatusBadRequest, "invalid_upload", fmt.Sprintf("failed to read uploaded file %s: %v", header.Filename, err))
			return
		}
		files = append(files, media.File{
			Name:     header.Filename,
			MimeType: header.Header.Get("Content-Type"),
			Data:     data,
		})
	}
	if len(files) == 0 {
		WriteAPIError(w, http.StatusBadRequest, "invalid_upload", "no files in 'photos' field")
		return
	}

	result, err := h.Svc.Ingest(r.Context(), draft.Kit, files, func(current, total int, message string) {
		log.Printf("studio: draft %s ingest %d/%d: %s", draft.ID, current, total, message)
	})
	if err != nil {
		WriteStudioError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"accepted":         len(result.Items),
		"skipped_capacity": result.SkippedCapacity,
		"failed_files":     result.FailedFiles,
		"draft":            viewOfDraft(draft),
	})
}

type updateItemRequest struct {
	Transform   *studio.Transform   `json:"transform,omitempty"`
	Adjustments *filter.Adjustments `json:"adjustments,omitempty"`
	Preset      *string             `json:"preset,omitempty"`
}

// UpdateItem applies crop and adjustment changes to one photo. these updates
// are synchronous state changes; nothing is re-rendered until finalize.
func (h *StudioHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	draft, ok := h.Drafts.Get(chi.URLParam(r, "draft_id"))
	if !ok {
		WriteAPIError(w, http.StatusNotFound, "draft_not_found", "no such editing session")
		return
	}
	item, ok := draft.Kit.Get(chi.URLParam(r, "item_id"))
	if !ok {
		WriteStudioError(w, studio.ErrItemNotFound)
		return
	}

	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_body", "request body must be JSON")
		return
	}

	if req.Transform != nil {
		item.Transform = req.Transform.Normalized()
	}
	if req.Adjustments != nil {
		item.Adjustments = req.Adjustments.Clamped()
	}
	if req.Preset != nil {
		preset, err := filter.ParsePreset(*req.Preset)
		if err != nil {
			WriteAPIError(w, http.StatusBadRequest, "invalid_preset", err.Error())
			return
		}
		item.Preset = preset
	}

	position := 0
	for i, it := range draft.Kit.Items {
		if it.ID == item.ID {
			position = i
			break
		}
	}
	writeJSON(w, http.StatusOK, viewOf(item, position))
}

// DuplicateItem copies a photo with its full edit state into a new slot
func (h *StudioHandler) DuplicateItem(w http.ResponseWriter, r *http.Request) {
	draft, ok := h.Drafts.Get(chi.URLParam(r, "draft_id"))
	if !ok {
		WriteAPIError(w, http.StatusNotFound, "draft_not_found", "no such editing session")
		return
	}
	dup, err := draft.Kit.Duplicate(chi.URLParam(r, "item_id"))
	if err != nil {
		WriteStudioError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, viewOf(dup, draft.Kit.Count()-1))
}

// DeleteItem removes a photo from the draft's kit
func (h *StudioHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	draft, ok := h.Drafts.Get(chi.URLParam(r, "draft_id"))
	if !ok {
		WriteAPIError(w, http.StatusNotFound, "draft_not_found", "no such editing session")
		return
	}
	if err := draft.Kit.Remove(chi.URLParam(r, "item_id")); err != nil {
		WriteStudioError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOfDraft(draft))
}

// ReorderItem moves a photo to a new position in the gallery
func (h *StudioHandler) ReorderItem(w http.ResponseWriter, r *http.Request) {
	draft, ok := h.Drafts.Get(chi.URLParam(r, "draft_id"))
	if !ok {
		WriteAPIError(w, http.StatusNotFound, "draft_not_found", "no such editing session")
		return
	}
	var req struct {
		Index int `json:"index"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_body", "request body must be JSON with an index")
		return
	}
	if err := draft.Kit.Move(chi.URLParam(r, "item_id"), req.Index); err != nil {
		WriteStudioError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOfDraft(draft))
}

type finalizeRequest struct {
	Consent       bool   `json:"consent"`
	CustomerEmail string `json:"customer_email"`
}

// Finalize renders the draft's kit and places the order. a kit below target
// size answers with the kit_incomplete signal the client uses to reopen the
// photo picker.
func (h *StudioHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	draft, ok := h.Drafts.Get(chi.URLParam(r, "draft_id"))
	if !ok {
		WriteAPIError(w, http.StatusNotFound, "draft_not_found", "no such editing session")
		return
	}

	var req finalizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_body", "request body must be JSON")
		return
	}

	bundle, err := h.Svc.Finalize(r.Context(), draft.Kit, req.Consent, func(current, total int, message string) {
		log.Printf("studio: draft %s finalize %d/%d: %s", draft.ID, current, total, message)
	})
	if err != nil {
		WriteStudioError(w, err)
		return
	}

	rows := make([]*models.PhotoItem, 0, len(bundle.Items))
	for i, item := range bundle.Items {
		rows = append(rows, models.PhotoItemFromDomain(item, i))
	}
	if err := h.Items.SaveBatch(rows); err != nil {
		// the renders and print masters exist; losing the rows is a
		// persistence fault the admin tooling can recover from the store
		log.Printf("studio: failed to persist finalized kit %s: %v", bundle.KitID, err)
	}

	orderID := draft.OrderID
	if orderID == "" {
		orderID = uuid.NewString()
		order := database.Order{
			ID:            orderID,
			KitID:         bundle.KitID,
			TierID:        int64(draft.TierID),
			TargetSize:    bundle.TargetSize,
			CustomerEmail: req.CustomerEmail,
			Consent:       bundle.Consent,
		}
		if err := database.InsertOrder(h.OrderDB, order); err != nil {
			log.Printf("studio: failed to insert order for kit %s: %v", bundle.KitID, err)
		}
	}

	h.Drafts.Remove(draft.ID)

	views := make([]itemView, 0, len(bundle.Items))
	for i, item := range bundle.Items {
		views = append(views, viewOf(item, i))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"kit_id":   bundle.KitID,
		"order_id": orderID,
		"consent":  bundle.Consent,
		"items":    views,
	})
}
