package models

import (
	"errors"
	"fmt"
)

// Service-level errors shared across repositories, services and handlers.
// Handlers map these onto HTTP statuses; repositories wrap storage errors
// separately so a StorageFailure is never mistaken for one of these.
var (
	ErrTripNotFound     = errors.New("trip not found")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrAlreadyCancelled = errors.New("ticket is already cancelled")
)

// SeatConflictError reports the first requested seat that is already
// booked. The booking request it belongs to is rejected as a whole.
type SeatConflictError struct {
	SeatNumber string
}

func (e *SeatConflictError) Error() string {
	return fmt.Sprintf("seat %s is already booked", e.SeatNumber)
}

// IsSeatConflict reports whether err is a seat conflict and returns the
// conflicting seat number.
func IsSeatConflict(err error) (string, bool) {
	var conflict *SeatConflictError
	if errors.As(err, &conflict) {
		return conflict.SeatNumber, true
	}
	return "", false
}
