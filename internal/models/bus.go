package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Bus represents one scheduled departure offering. A bus with a NULL
// departure date is a recurring trip offered every day; a fixed date
// restricts it to that single journey date.
type Bus struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	Name           string     `json:"name" db:"name"`
	BusNumber      string     `json:"bus_number" db:"bus_number"`
	FromLocation   string     `json:"from" db:"from_location"`
	ToLocation     string     `json:"to" db:"to_location"`
	DepartureDate  *time.Time `json:"departure_date,omitempty" db:"departure_date"`
	DepartureTime  string     `json:"departure_time" db:"departure_time"`
	ArrivalTime    string     `json:"arrival_time" db:"arrival_time"`
	Price          float64    `json:"price" db:"price"`
	AvailableSeats int        `json:"available_seats" db:"available_seats"`
	IsActive       bool       `json:"is_active" db:"is_active"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`

	// Seats is populated only for seat-map endpoints, never for search.
	Seats []Seat `json:"seats,omitempty"`
}

// IsRecurring reports whether the bus runs every day rather than on a
// fixed departure date.
func (b *Bus) IsRecurring() bool {
	return b.DepartureDate == nil
}

// Seat is a bookable unit on a bus, uniquely numbered within it.
// A seat is referenced by at most one active booking at any time.
type Seat struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	BusID      uuid.UUID  `json:"bus_id" db:"bus_id"`
	SeatNumber string     `json:"seat_number" db:"seat_number"`
	IsBooked   bool       `json:"is_booked" db:"is_booked"`
	BookedBy   *uuid.UUID `json:"booked_by,omitempty" db:"booked_by"`
}

// SearchRequest represents a passenger's trip search query
type SearchRequest struct {
	From string `json:"from" form:"from" binding:"required"`
	To   string `json:"to" form:"to" binding:"required"`
	Date string `json:"date" form:"date" binding:"required"`
}

// Validate validates the search request
func (r *SearchRequest) Validate() error {
	if strings.TrimSpace(r.From) == "" {
		return errors.New("from is required")
	}
	if strings.TrimSpace(r.To) == "" {
		return errors.New("to is required")
	}
	if strings.TrimSpace(r.Date) == "" {
		return errors.New("date is required")
	}
	return nil
}

// SuggestionDirection restricts route suggestions to one side of the route
type SuggestionDirection string

const (
	SuggestionFrom SuggestionDirection = "from"
	SuggestionTo   SuggestionDirection = "to"
	SuggestionAny  SuggestionDirection = ""
)

// TripResult is a single trip in search results. Seat-level data is
// deliberately absent.
type TripResult struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	Name           string     `json:"name" db:"name"`
	BusNumber      string     `json:"bus_number" db:"bus_number"`
	FromLocation   string     `json:"from" db:"from_location"`
	ToLocation     string     `json:"to" db:"to_location"`
	DepartureDate  *time.Time `json:"-" db:"departure_date"`
	DepartureTime  string     `json:"departure_time" db:"departure_time"`
	ArrivalTime    string     `json:"arrival_time" db:"arrival_time"`
	Price          float64    `json:"price" db:"price"`
	AvailableSeats int        `json:"available_seats" db:"available_seats"`

	// JourneyDate is the computed date-only journey string: the bus's
	// own departure date for fixed trips, the requested date otherwise.
	JourneyDate string `json:"journey_date,omitempty"`
}
