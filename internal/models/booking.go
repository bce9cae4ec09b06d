package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PaymentMethod is how the passenger chose to pay. Payment is simulated;
// a UPI id is validated syntactically and no provider is contacted.
type PaymentMethod string

const (
	PaymentMethodCard       PaymentMethod = "card"
	PaymentMethodUPI        PaymentMethod = "upi"
	PaymentMethodNetBanking PaymentMethod = "netbanking"
	PaymentMethodCash       PaymentMethod = "cash"
)

// BookingStatus represents the lifecycle state of a booking
type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// MaxSeatsPerBooking caps how many seats one request may reserve.
const MaxSeatsPerBooking = 6

// Booking is a confirmed or cancelled reservation of one or more seats
// on one bus by one user. It is created exactly once and never deleted;
// cancellation only touches the refund-related fields. The journey
// snapshot fields are frozen at booking time so later edits to the bus
// schedule cannot retroactively alter a ticket.
type Booking struct {
	ID            uuid.UUID     `json:"id" db:"id"`
	TicketID      string        `json:"ticket_id" db:"ticket_id"`
	UserID        uuid.UUID     `json:"user_id" db:"user_id"`
	BusID         uuid.UUID     `json:"bus_id" db:"bus_id"`
	TotalAmount   float64       `json:"total_amount" db:"total_amount"`
	PaymentMethod PaymentMethod `json:"payment_method" db:"payment_method"`
	UPIID         *string       `json:"upi_id,omitempty" db:"upi_id"`
	Status        BookingStatus `json:"status" db:"status"`
	IsCancelled   bool          `json:"is_cancelled" db:"is_cancelled"`
	RefundAmount  *float64      `json:"refund_amount,omitempty" db:"refund_amount"`

	CancellationDate *time.Time `json:"cancellation_date,omitempty" db:"cancellation_date"`

	// Journey snapshot, immutable after creation.
	JourneyDate           time.Time `json:"journey_date" db:"journey_date"`
	DepartureTimeSnapshot string    `json:"departure_time" db:"departure_time_snapshot"`
	ArrivalTimeSnapshot   string    `json:"arrival_time" db:"arrival_time_snapshot"`

	BookingSource string  `json:"booking_source" db:"booking_source"`
	DeviceInfo    *string `json:"-" db:"device_info"`

	BookingDate time.Time `json:"booking_date" db:"booking_date"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`

	Seats []BookingSeat `json:"seats,omitempty"`
}

// BookingSeat carries the per-seat passenger detail attached to a booking
type BookingSeat struct {
	ID             uuid.UUID `json:"id" db:"id"`
	BookingID      uuid.UUID `json:"booking_id" db:"booking_id"`
	SeatNumber     string    `json:"seat_number" db:"seat_number"`
	PassengerName  string    `json:"passenger_name" db:"passenger_name"`
	PassengerAge   int       `json:"passenger_age" db:"passenger_age"`
	PassengerEmail *string   `json:"passenger_email,omitempty" db:"passenger_email"`
}

// SeatNumbers returns the seat numbers referenced by the booking
func (b *Booking) SeatNumbers() []string {
	numbers := make([]string, 0, len(b.Seats))
	for _, seat := range b.Seats {
		numbers = append(numbers, seat.SeatNumber)
	}
	return numbers
}

// CanBeCancelled reports whether the booking is still cancellable
func (b *Booking) CanBeCancelled() bool {
	return !b.IsCancelled
}

// PassengerDetail is one requested seat with its occupant
type PassengerDetail struct {
	SeatNumber string  `json:"seat_number" binding:"required"`
	Name       string  `json:"name" binding:"required"`
	Age        int     `json:"age" binding:"required"`
	Email      *string `json:"email,omitempty"`
}

// CreateBookingRequest represents the request to book seats on a bus
type CreateBookingRequest struct {
	BusID         string            `json:"bus_id" binding:"required"`
	Passengers    []PassengerDetail `json:"passengers" binding:"required,min=1"`
	PaymentMethod PaymentMethod     `json:"payment_method" binding:"required"`
	JourneyDate   *string           `json:"journey_date,omitempty"`
	UPIID         *string           `json:"upi_id,omitempty"`
}

// SeatNumbers returns the requested seat numbers in request order
func (r *CreateBookingRequest) SeatNumbers() []string {
	numbers := make([]string, 0, len(r.Passengers))
	for _, p := range r.Passengers {
		numbers = append(numbers, p.SeatNumber)
	}
	return numbers
}

// Validate validates the create booking request
func (r *CreateBookingRequest) Validate() error {
	if len(r.Passengers) == 0 {
		return errors.New("at least one seat must be selected")
	}
	if len(r.Passengers) > MaxSeatsPerBooking {
		return fmt.Errorf("maximum %d seats can be booked at once", MaxSeatsPerBooking)
	}

	seen := make(map[string]bool, len(r.Passengers))
	for _, p := range r.Passengers {
		seatNumber := strings.TrimSpace(p.SeatNumber)
		if seatNumber == "" {
			return errors.New("seat_number is required for every passenger")
		}
		if seen[seatNumber] {
			return fmt.Errorf("seat %s is selected more than once", seatNumber)
		}
		seen[seatNumber] = true

		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("passenger name is required for seat %s", seatNumber)
		}
		if p.Age <= 0 || p.Age > 120 {
			return fmt.Errorf("invalid passenger age for seat %s", seatNumber)
		}
	}

	switch r.PaymentMethod {
	case PaymentMethodCard, PaymentMethodUPI, PaymentMethodNetBanking, PaymentMethodCash:
	default:
		return fmt.Errorf("unsupported payment method: %s", r.PaymentMethod)
	}

	if r.PaymentMethod == PaymentMethodUPI && (r.UPIID == nil || strings.TrimSpace(*r.UPIID) == "") {
		return errors.New("upi_id is required for UPI payments")
	}

	return nil
}

// CancellationResult is returned to the caller after a successful cancel
type CancellationResult struct {
	TicketID         string    `json:"ticket_id"`
	RefundAmount     float64   `json:"refund_amount"`
	CancellationDate time.Time `json:"cancellation_date"`
}
