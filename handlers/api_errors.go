package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/snapmag/studio-backend/studio"
)

// APIErrorDetail represents a single error in the standardized error response.
type APIErrorDetail struct {
	Code   string `json:"code"`
	Status string `json:"status"`
	Detail string `json:"detail"`
}

// APIErrorResponse represents the standardized error response body.
type APIErrorResponse struct {
	Errors []APIErrorDetail `json:"errors"`
}

// WriteAPIError writes a standardized error response with the given HTTP status, code, and detail.
func WriteAPIError(w http.ResponseWriter, httpStatus int, code string, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)

	resp := APIErrorResponse{
		Errors: []APIErrorDetail{
			{
				Code:   code,
				Status: strconv.Itoa(httpStatus),
				Detail: detail,
			},
		},
	}

	_ = json.NewEncoder(w).Encode(resp)
}

// WriteStudioError maps the studio's domain errors to API responses. the
// quantity-invariant violations deliberately carry instructive details: the
// client shows them inline instead of treating them as failures.
func WriteStudioError(w http.ResponseWriter, err error) {
	var kitFull *studio.KitFullError
	var needMore *studio.NeedMorePhotosError
	var tooMany *studio.TooManyPhotosError

	switch {
	case errors.As(err, &needMore):
		// "you're not done yet": the client reacts by reopening the
		// add-photos action, not by showing an error state
		WriteAPIError(w, http.StatusUnprocessableEntity, "kit_incomplete", err.Error())
	case errors.As(err, &tooMany):
		WriteAPIError(w, http.StatusUnprocessableEntity, "kit_overfull", err.Error())
	case errors.As(err, &kitFull):
		WriteAPIError(w, http.StatusConflict, "kit_full", err.Error())
	case errors.Is(err, studio.ErrKitFinalized):
		WriteAPIError(w, http.StatusConflict, "kit_finalized", err.Error())
	case errors.Is(err, studio.ErrItemNotFound):
		WriteAPIError(w, http.StatusNotFound, "item_not_found", err.Error())
	default:
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
