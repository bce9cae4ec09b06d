package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pearsgeorgeson22/bus-booking/internal/models"
)

// BusRepository handles bus catalog and seat inventory operations
type BusRepository struct {
	db *sqlx.DB
}

// NewBusRepository creates a new BusRepository
func NewBusRepository(db *sqlx.DB) *BusRepository {
	return &BusRepository{db: db}
}

// GetByID retrieves a bus by id
func (r *BusRepository) GetByID(busID uuid.UUID) (*models.Bus, error) {
	bus := &models.Bus{}
	query := `
		SELECT id, name, bus_number, from_location, to_location,
		       departure_date, departure_time, arrival_time,
		       price, available_seats, is_active, created_at, updated_at
		FROM buses WHERE id = $1`

	err := r.db.Get(bus, query, busID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrTripNotFound
		}
		return nil, fmt.Errorf("failed to get bus: %w", err)
	}

	return bus, nil
}

// Search returns active trips matching the route substrings and the
// requested journey date. A trip matches the date when its fixed
// departure_date equals it, or when it has none (recurring, offered
// every day). Seat-level data is never selected here.
func (r *BusRepository) Search(from, to string, date string) ([]models.TripResult, error) {
	query := `
		SELECT id, name, bus_number, from_location, to_location,
		       departure_date, departure_time, arrival_time,
		       price, available_seats
		FROM buses
		WHERE is_active = TRUE
		  AND from_location ILIKE '%' || $1 || '%'
		  AND to_location ILIKE '%' || $2 || '%'
		  AND (departure_date IS NULL OR departure_date = $3)`

	var trips []models.TripResult
	if err := r.db.Select(&trips, query, from, to, date); err != nil {
		return nil, fmt.Errorf("failed to search trips: %w", err)
	}

	return trips, nil
}

// Suggestions returns up to limit sorted, de-duplicated location names
// of active trips matching the query substring. Direction restricts the
// match to origins or destinations; empty means both.
func (r *BusRepository) Suggestions(query string, direction models.SuggestionDirection, limit int) ([]string, error) {
	var sqlQuery string
	switch direction {
	case models.SuggestionFrom:
		sqlQuery = `
			SELECT DISTINCT from_location AS location FROM buses
			WHERE is_active = TRUE AND from_location ILIKE '%' || $1 || '%'
			ORDER BY location LIMIT $2`
	case models.SuggestionTo:
		sqlQuery = `
			SELECT DISTINCT to_location AS location FROM buses
			WHERE is_active = TRUE AND to_location ILIKE '%' || $1 || '%'
			ORDER BY location LIMIT $2`
	default:
		sqlQuery = `
			SELECT DISTINCT location FROM (
				SELECT from_location AS location FROM buses
				WHERE is_active = TRUE AND from_location ILIKE '%' || $1 || '%'
				UNION
				SELECT to_location AS location FROM buses
				WHERE is_active = TRUE AND to_location ILIKE '%' || $1 || '%'
			) locations
			ORDER BY location LIMIT $2`
	}

	var locations []string
	if err := r.db.Select(&locations, sqlQuery, query, limit); err != nil {
		return nil, fmt.Errorf("failed to get route suggestions: %w", err)
	}

	return locations, nil
}

// GetSeats returns the seat map of a bus ordered by seat number
func (r *BusRepository) GetSeats(busID uuid.UUID) ([]models.Seat, error) {
	query := `
		SELECT id, bus_id, seat_number, is_booked, booked_by
		FROM seats
		WHERE bus_id = $1
		ORDER BY seat_number`

	var seats []models.Seat
	if err := r.db.Select(&seats, query, busID); err != nil {
		return nil, fmt.Errorf("failed to get seats: %w", err)
	}

	return seats, nil
}

// CheckAvailability verifies that every requested seat exists on the bus
// and is currently unbooked. It returns the first conflicting seat in
// request order as a SeatConflictError. This is an advisory read; the
// binding check happens inside the booking transaction.
func (r *BusRepository) CheckAvailability(busID uuid.UUID, seatNumbers []string) error {
	if len(seatNumbers) == 0 {
		return nil
	}

	query, args, err := sqlx.In(`
		SELECT seat_number, is_booked FROM seats
		WHERE bus_id = ? AND seat_number IN (?)`, busID, seatNumbers)
	if err != nil {
		return fmt.Errorf("failed to build availability query: %w", err)
	}
	query = r.db.Rebind(query)

	var states []seatState
	if err := r.db.Select(&states, query, args...); err != nil {
		return fmt.Errorf("failed to check seat availability: %w", err)
	}

	return firstSeatConflict(seatNumbers, states)
}

// seatState is the slim projection used for availability checks
type seatState struct {
	SeatNumber string `db:"seat_number"`
	IsBooked   bool   `db:"is_booked"`
}

// firstSeatConflict walks the requested seats in order and reports the
// first one that is missing from the bus or already booked.
func firstSeatConflict(requested []string, states []seatState) error {
	booked := make(map[string]bool, len(states))
	for _, s := range states {
		booked[s.SeatNumber] = s.IsBooked
	}

	for _, seatNumber := range requested {
		isBooked, exists := booked[seatNumber]
		if !exists || isBooked {
			return &models.SeatConflictError{SeatNumber: seatNumber}
		}
	}

	return nil
}

// InitializeSeats populates the seat map of a bus. Idempotent: when the
// bus already has seats it is left untouched and 0 is returned. New
// seats are labeled with a zero-padded sequence (S01, S02, ...), all
// unbooked, and the availability counter is reset to match — one
// transaction so a concurrent initialize cannot double-populate.
func (r *BusRepository) InitializeSeats(busID uuid.UUID, count int) (int, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Lock the bus row so concurrent initializations serialize.
	var id uuid.UUID
	err = tx.Get(&id, `SELECT id FROM buses WHERE id = $1 FOR UPDATE`, busID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, models.ErrTripNotFound
		}
		return 0, fmt.Errorf("failed to lock bus: %w", err)
	}

	var existing int
	if err := tx.Get(&existing, `SELECT COUNT(*) FROM seats WHERE bus_id = $1`, busID); err != nil {
		return 0, fmt.Errorf("failed to count seats: %w", err)
	}
	if existing > 0 {
		return 0, nil
	}

	insertQuery := `
		INSERT INTO seats (id, bus_id, seat_number, is_booked, booked_by)
		VALUES ($1, $2, $3, FALSE, NULL)`

	for i := 1; i <= count; i++ {
		seatNumber := fmt.Sprintf("S%02d", i)
		if _, err := tx.Exec(insertQuery, uuid.New(), busID, seatNumber); err != nil {
			return 0, fmt.Errorf("failed to insert seat %s: %w", seatNumber, err)
		}
	}

	_, err = tx.Exec(`UPDATE buses SET available_seats = $1, updated_at = NOW() WHERE id = $2`, count, busID)
	if err != nil {
		return 0, fmt.Errorf("failed to update available seats: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return count, nil
}
