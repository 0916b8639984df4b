package handlers

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/snapmag/studio-backend/database"
	"github.com/snapmag/studio-backend/repository"
	"github.com/snapmag/studio-backend/studio"
	"github.com/snapmag/studio-backend/workers"
)

// OrderHandler serves placed orders and opens them for admin re-editing
type OrderHandler struct {
	DB         database.Querier
	Items      repository.PhotoItemRepositoryInterface
	Drafts     *DraftRegistry
	Rehydrator *workers.Rehydrator
}

// loadOrderItems rebuilds an order's kit items from their persisted rows and
// queues rehydration for any that came back low-fidelity. rehydration is
// fire-and-replace: the response never waits for it.
func (h *OrderHandler) loadOrderItems(kitID string) ([]*studio.PhotoItem, error) {
	rows, err := h.Items.ListByKitID(kitID)
	if err != nil {
		return nil, err
	}
	items := make([]*studio.PhotoItem, 0, len(rows))
	for i := range rows {
		item := rows[i].ToDomain()
		items = append(items, item)

		if h.Rehydrator != nil && studio.NeedsRehydration(item) {
			repo := h.Items
			h.Rehydrator.QueueJob(workers.RehydrationJob{
				Item: item,
				OnDone: func(it *studio.PhotoItem, swapped bool) {
					if !swapped {
						return
					}
					key := it.Original.Key
					if err := repo.UpdateOriginalRef(it.ID, &key, nil); err != nil {
						log.Printf("orders: failed to persist rehydrated ref for %s: %v", it.ID, err)
					}
				},
			})
		}
	}
	return items, nil
}

// GetOrder returns one order with its kit's photo items
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := database.GetOrderByID(h.DB, chi.URLParam(r, "order_id"))
	if err != nil {
		if err == sql.ErrNoRows {
			WriteAPIError(w, http.StatusNotFound, "order_not_found", "no such order")
			return
		}
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	items, err := h.loadOrderItems(order.KitID)
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	views := make([]itemView, 0, len(items))
	for i, item := range items {
		views = append(views, viewOf(item, i))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"order": order,
		"items": views,
	})
}

// ListOrders returns orders newest first, optionally filtered by ?status= and
// ?email=
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := database.ListOrders(h.DB, r.URL.Query().Get("status"), r.URL.Query().Get("email"), 200)
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// ReEditOrder opens an order's kit as a fresh draft so an admin can adjust
// crops or swap photos. finalizing the draft re-renders and overwrites the
// kit's print masters.
func (h *OrderHandler) ReEditOrder(w http.ResponseWriter, r *http.Request) {
	order, err := database.GetOrderByID(h.DB, chi.URLParam(r, "order_id"))
	if err != nil {
		if err == sql.ErrNoRows {
			WriteAPIError(w, http.StatusNotFound, "order_not_found", "no such order")
			return
		}
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	items, err := h.loadOrderItems(order.KitID)
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	kit, err := studio.ResumeKit(order.TargetSize, items)
	if err != nil {
		WriteStudioError(w, err)
		return
	}

	draft := h.Drafts.Create(kit, uint(order.TierID), order.ID)
	writeJSON(w, http.StatusCreated, viewOfDraft(draft))
}

// UpdateOrderStatus moves an order through fulfillment (admin CMS)
func (h *OrderHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Status == "" {
		WriteAPIError(w, http.StatusBadRequest, "invalid_body", "request body must be JSON with a status")
		return
	}

	err := database.UpdateOrderStatus(h.DB, chi.URLParam(r, "order_id"), req.Status)
	if err != nil {
		if err == sql.ErrNoRows {
			WriteAPIError(w, http.StatusNotFound, "order_not_found", "no such order")
			return
		}
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
