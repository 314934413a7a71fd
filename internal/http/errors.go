package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/andreasstove999/ecommerce-system/ui-backend-go/internal/middleware"
	"github.com/andreasstove999/ecommerce-system/ui-backend-go/internal/model"
	"github.com/andreasstove999/ecommerce-system/ui-backend-go/internal/shop"
)

// statusFor maps service errors to response codes. The three failure kinds
// of the shop are server errors; anything else came from a collaborator.
func statusFor(err error) int {
	switch {
	case errors.Is(err, shop.ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, shop.ErrInvalidUnits):
		return http.StatusBadRequest
	case errors.Is(err, shop.ErrReservationFailed),
		errors.Is(err, shop.ErrCartInteractionFailed),
		errors.Is(err, shop.ErrOrderNotPlaced):
		return http.StatusInternalServerError
	default:
		return http.StatusBadGateway
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{
		Error:         msg,
		CorrelationID: middleware.GetCorrelationID(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
