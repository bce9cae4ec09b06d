package database

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pearsgeorgeson22/bus-booking/internal/models"
)

// BookingRepository handles booking database operations
type BookingRepository struct {
	db *sqlx.DB
}

// NewBookingRepository creates a new BookingRepository
func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// GenerateTicketID generates a unique external-facing ticket id.
// Format: TKT-<unix-nanos-base36>-<4 byte hex>
// Example: TKT-s8k2m1q9xw-A1B2C3D4
// The id carries no seat or bus identity; uniqueness is probed against
// the bookings table with a bounded retry.
func (r *BookingRepository) GenerateTicketID() (string, error) {
	for attempts := 0; attempts < 10; attempts++ {
		randomBytes := make([]byte, 4)
		if _, err := rand.Read(randomBytes); err != nil {
			return "", fmt.Errorf("failed to generate random bytes: %w", err)
		}
		randomStr := strings.ToUpper(hex.EncodeToString(randomBytes))
		timestampStr := strconv.FormatInt(time.Now().UnixNano(), 36)

		ticketID := fmt.Sprintf("TKT-%s-%s", timestampStr, randomStr)

		var count int
		err := r.db.Get(&count, `SELECT COUNT(*) FROM bookings WHERE ticket_id = $1`, ticketID)
		if err != nil {
			return "", fmt.Errorf("failed to check ticket id uniqueness: %w", err)
		}

		if count == 0 {
			return ticketID, nil
		}
	}

	return "", fmt.Errorf("failed to generate unique ticket id after 10 attempts")
}

// Create persists a booking and reserves its seats as one unit of work.
// The seat reservation is a conditional update that only touches seats
// still unbooked at commit time; when any requested seat was taken in
// the meantime the whole transaction rolls back and the first
// conflicting seat is reported. Two requests racing for the same last
// seat therefore cannot both win, and the loser leaves no residue.
func (r *BookingRepository) Create(booking *models.Booking) error {
	if len(booking.Seats) == 0 {
		return errors.New("booking has no seats")
	}
	seatNumbers := booking.SeatNumbers()

	ticketID, err := r.GenerateTicketID()
	if err != nil {
		return err
	}
	booking.TicketID = ticketID

	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Lock the requested seat rows and re-check availability inside the
	// transaction; the advisory pre-check outside it is not binding.
	lockQuery, args, err := sqlx.In(`
		SELECT seat_number, is_booked FROM seats
		WHERE bus_id = ? AND seat_number IN (?)
		FOR UPDATE`, booking.BusID, seatNumbers)
	if err != nil {
		return fmt.Errorf("failed to build seat lock query: %w", err)
	}
	lockQuery = tx.Rebind(lockQuery)

	var states []seatState
	if err := tx.Select(&states, lockQuery, args...); err != nil {
		return fmt.Errorf("failed to lock seats: %w", err)
	}
	if err := firstSeatConflict(seatNumbers, states); err != nil {
		return err
	}

	// Conditional reservation: only seats still unbooked are touched.
	updateQuery, args, err := sqlx.In(`
		UPDATE seats
		SET is_booked = TRUE, booked_by = ?
		WHERE bus_id = ? AND seat_number IN (?) AND is_booked = FALSE`,
		booking.UserID, booking.BusID, seatNumbers)
	if err != nil {
		return fmt.Errorf("failed to build seat update query: %w", err)
	}
	updateQuery = tx.Rebind(updateQuery)

	result, err := tx.Exec(updateQuery, args...)
	if err != nil {
		return fmt.Errorf("failed to reserve seats: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if int(rowsAffected) != len(seatNumbers) {
		return &models.SeatConflictError{SeatNumber: seatNumbers[0]}
	}

	result, err = tx.Exec(`
		UPDATE buses
		SET available_seats = available_seats - $1, updated_at = NOW()
		WHERE id = $2 AND available_seats >= $1`,
		len(seatNumbers), booking.BusID)
	if err != nil {
		return fmt.Errorf("failed to update available seats: %w", err)
	}
	rowsAffected, _ = result.RowsAffected()
	if rowsAffected != 1 {
		return &models.SeatConflictError{SeatNumber: seatNumbers[0]}
	}

	bookingQuery := `
		INSERT INTO bookings (
			id, ticket_id, user_id, bus_id, total_amount,
			payment_method, upi_id, status, is_cancelled,
			journey_date, departure_time_snapshot, arrival_time_snapshot,
			booking_source, device_info
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, FALSE, $9, $10, $11, $12, $13
		) RETURNING booking_date, updated_at`

	booking.ID = uuid.New()
	booking.Status = models.BookingStatusConfirmed
	err = tx.QueryRowx(bookingQuery,
		booking.ID, booking.TicketID, booking.UserID, booking.BusID, booking.TotalAmount,
		booking.PaymentMethod, booking.UPIID, booking.Status,
		booking.JourneyDate, booking.DepartureTimeSnapshot, booking.ArrivalTimeSnapshot,
		booking.BookingSource, booking.DeviceInfo,
	).Scan(&booking.BookingDate, &booking.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	seatQuery := `
		INSERT INTO booking_seats (
			id, booking_id, seat_number, passenger_name, passenger_age, passenger_email
		) VALUES ($1, $2, $3, $4, $5, $6)`

	for i := range booking.Seats {
		booking.Seats[i].ID = uuid.New()
		booking.Seats[i].BookingID = booking.ID
		_, err := tx.Exec(seatQuery,
			booking.Seats[i].ID, booking.ID, booking.Seats[i].SeatNumber,
			booking.Seats[i].PassengerName, booking.Seats[i].PassengerAge,
			booking.Seats[i].PassengerEmail,
		)
		if err != nil {
			return fmt.Errorf("failed to create booking seat %s: %w", booking.Seats[i].SeatNumber, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

const bookingColumns = `
	id, ticket_id, user_id, bus_id, total_amount,
	payment_method, upi_id, status, is_cancelled, refund_amount,
	cancellation_date, journey_date, departure_time_snapshot,
	arrival_time_snapshot, booking_source, device_info,
	booking_date, updated_at`

// GetByTicketID retrieves a booking by ticket id scoped to its owner
func (r *BookingRepository) GetByTicketID(ticketID string, userID uuid.UUID) (*models.Booking, error) {
	booking := &models.Booking{}
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE ticket_id = $1 AND user_id = $2`

	err := r.db.Get(booking, query, ticketID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	seats, err := r.getSeats(booking.ID)
	if err != nil {
		return nil, err
	}
	booking.Seats = seats

	return booking, nil
}

// ListByUser retrieves all bookings for a user, newest booking first
func (r *BookingRepository) ListByUser(userID uuid.UUID) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = $1 ORDER BY booking_date DESC`

	var bookings []models.Booking
	if err := r.db.Select(&bookings, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	for i := range bookings {
		seats, err := r.getSeats(bookings[i].ID)
		if err != nil {
			return nil, err
		}
		bookings[i].Seats = seats
	}

	return bookings, nil
}

func (r *BookingRepository) getSeats(bookingID uuid.UUID) ([]models.BookingSeat, error) {
	query := `
		SELECT id, booking_id, seat_number, passenger_name, passenger_age, passenger_email
		FROM booking_seats
		WHERE booking_id = $1
		ORDER BY seat_number`

	var seats []models.BookingSeat
	if err := r.db.Select(&seats, query, bookingID); err != nil {
		return nil, fmt.Errorf("failed to get booking seats: %w", err)
	}

	return seats, nil
}

// Cancel cancels a booking, computes the refund and releases its seats
// back to the bus, all in one transaction. The booking row itself is
// never deleted; only the refund-related fields change. The update is
// gated on is_cancelled so a second cancel of the same ticket observes
// ErrAlreadyCancelled and leaves the refund untouched.
func (r *BookingRepository) Cancel(ticketID string, userID uuid.UUID, refundRate float64) (*models.CancellationResult, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	booking := &models.Booking{}
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE ticket_id = $1 AND user_id = $2 FOR UPDATE`
	err = tx.Get(booking, query, ticketID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.IsCancelled {
		return nil, models.ErrAlreadyCancelled
	}

	var seatNumbers []string
	err = tx.Select(&seatNumbers, `SELECT seat_number FROM booking_seats WHERE booking_id = $1`, booking.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking seats: %w", err)
	}

	refundAmount := refundRate * booking.TotalAmount

	var cancellationDate time.Time
	err = tx.QueryRowx(`
		UPDATE bookings
		SET is_cancelled = TRUE,
		    status = $1,
		    refund_amount = $2,
		    cancellation_date = NOW(),
		    updated_at = NOW()
		WHERE id = $3 AND is_cancelled = FALSE
		RETURNING cancellation_date`,
		models.BookingStatusCancelled, refundAmount, booking.ID,
	).Scan(&cancellationDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrAlreadyCancelled
		}
		return nil, fmt.Errorf("failed to cancel booking: %w", err)
	}

	if len(seatNumbers) > 0 {
		releaseQuery, args, err := sqlx.In(`
			UPDATE seats
			SET is_booked = FALSE, booked_by = NULL
			WHERE bus_id = ? AND seat_number IN (?)`,
			booking.BusID, seatNumbers)
		if err != nil {
			return nil, fmt.Errorf("failed to build seat release query: %w", err)
		}
		releaseQuery = tx.Rebind(releaseQuery)
		if _, err := tx.Exec(releaseQuery, args...); err != nil {
			return nil, fmt.Errorf("failed to release seats: %w", err)
		}

		_, err = tx.Exec(`
			UPDATE buses
			SET available_seats = available_seats + $1, updated_at = NOW()
			WHERE id = $2`,
			len(seatNumbers), booking.BusID)
		if err != nil {
			return nil, fmt.Errorf("failed to restore available seats: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.CancellationResult{
		TicketID:         ticketID,
		RefundAmount:     refundAmount,
		CancellationDate: cancellationDate,
	}, nil
}
