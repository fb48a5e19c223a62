package handlers

import (
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/flight-booking-api/internal/logging"
	"github.com/gdg-garage/flight-booking-api/internal/models"
)

// apiError maps domain errors onto HTTP problems. Anything unrecognised is
// logged and reported as a 500.
func apiError(err error, msg string) error {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		details := make([]error, 0, len(verr.Errors))
		for _, fe := range verr.Errors {
			details = append(details, &huma.ErrorDetail{Location: fe.Field, Message: fe.Message})
		}
		return huma.Error422UnprocessableEntity("Validation failed", details...)
	}

	var inv *models.InventoryError
	if errors.As(err, &inv) {
		loc := "select_depart"
		if inv.Leg == models.LegReturn {
			loc = "select_return"
		}
		return huma.Error422UnprocessableEntity(inv.Message(), &huma.ErrorDetail{Location: loc, Message: inv.Message()})
	}

	if errors.Is(err, models.ErrNotFound) {
		return huma.Error404NotFound(msg)
	}
	if errors.Is(err, models.ErrConflict) {
		return huma.Error409Conflict(msg)
	}

	logging.Error(msg, "error", err.Error())
	return huma.Error500InternalServerError(msg)
}
