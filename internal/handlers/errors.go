package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pearsgeorgeson22/bus-booking/internal/models"
	"github.com/pearsgeorgeson22/bus-booking/pkg/traveldate"
	"github.com/pearsgeorgeson22/bus-booking/pkg/validator"
)

// validationSentinels are the errors that mean the request itself was
// malformed: rejected with no state change.
var validationSentinels = []error{
	traveldate.ErrEmptyDate,
	traveldate.ErrInvalidDate,
	traveldate.ErrDateTooEarly,
	traveldate.ErrBeyondHorizon,
	validator.ErrEmptyUPIID,
	validator.ErrInvalidUPIID,
	validator.ErrEmptyEmail,
	validator.ErrInvalidEmail,
}

// respondError maps the service error taxonomy onto HTTP statuses.
// Anything unrecognized is a storage failure and surfaces as a 500
// without leaking the underlying error to the client.
func respondError(c *gin.Context, err error) {
	if seat, ok := models.IsSeatConflict(err); ok {
		c.JSON(http.StatusConflict, gin.H{
			"error": "seat_conflict",
			"seat":  seat,
		})
		return
	}

	switch {
	case errors.Is(err, models.ErrTripNotFound),
		errors.Is(err, models.ErrBookingNotFound),
		errors.Is(err, models.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrAlreadyCancelled):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		for _, sentinel := range validationSentinels {
			if errors.Is(err, sentinel) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
