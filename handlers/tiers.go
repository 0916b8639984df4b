package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/snapmag/studio-backend/models"
	"github.com/snapmag/studio-backend/repository"
)

// TierHandler serves the purchasable kit sizes
type TierHandler struct {
	Tiers repository.ProductTierRepositoryInterface
}

// ListTiers returns the ordered set of purchasable kit sizes and prices
func (h *TierHandler) ListTiers(w http.ResponseWriter, r *http.Request) {
	tiers, err := h.Tiers.ListAll()
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, tiers)
}

// CreateTier adds a kit size (admin CMS)
func (h *TierHandler) CreateTier(w http.ResponseWriter, r *http.Request) {
	var tier models.ProductTier
	if err := json.NewDecoder(r.Body).Decode(&tier); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_body", "request body must be a product tier")
		return
	}
	if err := h.Tiers.Create(&tier); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_tier", err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, tier)
}

// DeleteTier removes a kit size (admin CMS)
func (h *TierHandler) DeleteTier(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "tier_id"), 10, 32)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "tier id must be numeric")
		return
	}
	if err := h.Tiers.Delete(uint(id)); err != nil {
		if err == gorm.ErrRecordNotFound {
			WriteAPIError(w, http.StatusNotFound, "tier_not_found", "no such product tier")
			return
		}
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
