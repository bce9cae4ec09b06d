package traveldate

import (
	"errors"
	"fmt"
	"time"
)

// Validation errors
var (
	ErrEmptyDate     = errors.New("travel date is required")
	ErrInvalidDate   = errors.New("invalid travel date")
	ErrDateTooEarly  = errors.New("travel date must be after today")
	ErrBeyondHorizon = errors.New("travel date is beyond the booking window")
)

// DefaultHorizonDays is how far past tomorrow a journey may be booked.
const DefaultHorizonDays = 90

// Date is a calendar date with no time-of-day and no timezone.
// Internally it is pinned to UTC midnight so that comparisons and
// formatting never drift with the server or client timezone.
type Date struct {
	t time.Time
}

// layouts accepted by Parse, tried in order.
var layouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05.000Z",
}

// Parse parses a calendar-date string. Any time-of-day component in the
// input is discarded.
func Parse(s string) (Date, error) {
	if s == "" {
		return Date{}, ErrEmptyDate
	}

	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return FromTime(parsed), nil
		}
	}

	return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// FromTime truncates an instant to its UTC calendar date.
func FromTime(t time.Time) Date {
	utc := t.UTC()
	return Date{t: time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)}
}

// Today returns the current UTC calendar date.
func Today() Date {
	return FromTime(time.Now())
}

// AddDays returns the date n days after d.
func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

// Before reports whether d is earlier than other.
func (d Date) Before(other Date) bool {
	return d.t.Before(other.t)
}

// After reports whether d is later than other.
func (d Date) After(other Date) bool {
	return d.t.After(other.t)
}

// Equal reports whether d and other are the same calendar date.
func (d Date) Equal(other Date) bool {
	return d.t.Equal(other.t)
}

// IsZero reports whether d is the zero date.
func (d Date) IsZero() bool {
	return d.t.IsZero()
}

// Time returns the date as a time.Time at UTC midnight.
func (d Date) Time() time.Time {
	return d.t
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.t.Format("2006-01-02")
}

// ValidateBookingDate checks d against the sliding booking window:
// the closed interval [tomorrow, tomorrow+horizonDays]. Today itself is
// rejected, as is anything further out than the horizon.
func ValidateBookingDate(d Date, horizonDays int) error {
	today := Today()
	tomorrow := today.AddDays(1)
	if d.Before(tomorrow) {
		return fmt.Errorf("%w: %s", ErrDateTooEarly, d)
	}

	latest := tomorrow.AddDays(horizonDays)
	if d.After(latest) {
		return fmt.Errorf("%w: %s is after %s", ErrBeyondHorizon, d, latest)
	}

	return nil
}

// ParseBookingDate parses s and validates it against the booking window
// in one step.
func ParseBookingDate(s string, horizonDays int) (Date, error) {
	d, err := Parse(s)
	if err != nil {
		return Date{}, err
	}

	if err := ValidateBookingDate(d, horizonDays); err != nil {
		return Date{}, err
	}

	return d, nil
}
