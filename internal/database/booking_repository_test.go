package database

import (
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pearsgeorgeson22/bus-booking/internal/models"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func seatStateRows(seatNumbers []string, booked map[string]bool) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"seat_number", "is_booked"})
	for _, seatNumber := range seatNumbers {
		rows.AddRow(seatNumber, booked[seatNumber])
	}
	return rows
}

func testBooking(userID, busID uuid.UUID) *models.Booking {
	return &models.Booking{
		UserID:                userID,
		BusID:                 busID,
		TotalAmount:           500,
		PaymentMethod:         models.PaymentMethodCard,
		JourneyDate:           time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		DepartureTimeSnapshot: "09:00 AM",
		ArrivalTimeSnapshot:   "02:30 PM",
		BookingSource:         "app",
		Seats: []models.BookingSeat{
			{SeatNumber: "S01", PassengerName: "Alice", PassengerAge: 30},
			{SeatNumber: "S02", PassengerName: "Bob", PassengerAge: 34},
		},
	}
}

func TestGenerateTicketID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)

	t.Run("Unique on first attempt", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM bookings`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		ticketID, err := repo.GenerateTicketID()
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(ticketID, "TKT-"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Retries on collision", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM bookings`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM bookings`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		ticketID, err := repo.GenerateTicketID()
		require.NoError(t, err)
		assert.NotEmpty(t, ticketID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCreateBooking_Success(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)

	userID := uuid.New()
	busID := uuid.New()
	booking := testBooking(userID, busID)
	now := time.Now()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM bookings`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT seat_number, is_booked FROM seats`).
		WillReturnRows(seatStateRows([]string{"S01", "S02"}, nil))
	mock.ExpectExec(`UPDATE seats`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`UPDATE buses`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO bookings`).
		WillReturnRows(sqlmock.NewRows([]string{"booking_date", "updated_at"}).AddRow(now, now))
	mock.ExpectExec(`INSERT INTO booking_seats`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO booking_seats`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Create(booking)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(booking.TicketID, "TKT-"))
	assert.Equal(t, models.BookingStatusConfirmed, booking.Status)
	assert.Equal(t, booking.ID, booking.Seats[0].BookingID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBooking_SeatAlreadyBooked(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)

	booking := testBooking(uuid.New(), uuid.New())

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM bookings`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT seat_number, is_booked FROM seats`).
		WillReturnRows(seatStateRows([]string{"S01", "S02"}, map[string]bool{"S02": true}))
	mock.ExpectRollback()

	err := repo.Create(booking)
	require.Error(t, err)

	seat, ok := models.IsSeatConflict(err)
	require.True(t, ok)
	assert.Equal(t, "S02", seat)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBooking_SeatMissingFromBus(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)

	booking := testBooking(uuid.New(), uuid.New())

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM bookings`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	mock.ExpectBegin()
	// S01 does not exist on this bus at all
	mock.ExpectQuery(`SELECT seat_number, is_booked FROM seats`).
		WillReturnRows(seatStateRows([]string{"S02"}, nil))
	mock.ExpectRollback()

	err := repo.Create(booking)
	require.Error(t, err)

	seat, ok := models.IsSeatConflict(err)
	require.True(t, ok)
	assert.Equal(t, "S01", seat)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBooking_LosesConditionalUpdateRace(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)

	booking := testBooking(uuid.New(), uuid.New())

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM bookings`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT seat_number, is_booked FROM seats`).
		WillReturnRows(seatStateRows([]string{"S01", "S02"}, nil))
	// Conditional update reserves fewer rows than requested: a
	// concurrent booking won the race. Whole transaction rolls back.
	mock.ExpectExec(`UPDATE seats`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	err := repo.Create(booking)
	require.Error(t, err)

	_, ok := models.IsSeatConflict(err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func cancelBookingColumns() []string {
	return []string{
		"id", "ticket_id", "user_id", "bus_id", "total_amount",
		"payment_method", "upi_id", "status", "is_cancelled", "refund_amount",
		"cancellation_date", "journey_date", "departure_time_snapshot",
		"arrival_time_snapshot", "booking_source", "device_info",
		"booking_date", "updated_at",
	}
}

func TestCancelBooking_Success(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)

	bookingID := uuid.New()
	userID := uuid.New()
	busID := uuid.New()
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE ticket_id`).
		WithArgs("TKT-ABC", userID).
		WillReturnRows(sqlmock.NewRows(cancelBookingColumns()).AddRow(
			bookingID, "TKT-ABC", userID, busID, 500.0,
			"card", nil, "confirmed", false, nil,
			nil, now, "09:00 AM",
			"02:30 PM", "app", nil,
			now, now,
		))
	mock.ExpectQuery(`SELECT seat_number FROM booking_seats`).
		WillReturnRows(sqlmock.NewRows([]string{"seat_number"}).AddRow("S01").AddRow("S02"))
	mock.ExpectQuery(`UPDATE bookings`).
		WillReturnRows(sqlmock.NewRows([]string{"cancellation_date"}).AddRow(now))
	mock.ExpectExec(`UPDATE seats`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`UPDATE buses`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	result, err := repo.Cancel("TKT-ABC", userID, 0.8)
	require.NoError(t, err)
	assert.Equal(t, 400.0, result.RefundAmount)
	assert.Equal(t, "TKT-ABC", result.TicketID)
	assert.False(t, result.CancellationDate.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelBooking_AlreadyCancelled(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)

	userID := uuid.New()
	now := time.Now()
	refund := 400.0

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE ticket_id`).
		WillReturnRows(sqlmock.NewRows(cancelBookingColumns()).AddRow(
			uuid.New(), "TKT-ABC", userID, uuid.New(), 500.0,
			"card", nil, "cancelled", true, refund,
			now, now, "09:00 AM",
			"02:30 PM", "app", nil,
			now, now,
		))
	mock.ExpectRollback()

	_, err := repo.Cancel("TKT-ABC", userID, 0.8)
	assert.ErrorIs(t, err, models.ErrAlreadyCancelled)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelBooking_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE ticket_id`).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.Cancel("TKT-MISSING", uuid.New(), 0.8)
	assert.ErrorIs(t, err, models.ErrBookingNotFound)
}

func TestGetByTicketID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)

	userID := uuid.New()
	bookingID := uuid.New()
	now := time.Now()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE ticket_id`).
			WithArgs("TKT-ABC", userID).
			WillReturnRows(sqlmock.NewRows(cancelBookingColumns()).AddRow(
				bookingID, "TKT-ABC", userID, uuid.New(), 250.0,
				"upi", "alice@upi", "confirmed", false, nil,
				nil, now, "09:00 AM",
				"02:30 PM", "app", nil,
				now, now,
			))
		mock.ExpectQuery(`SELECT (.+) FROM booking_seats`).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "booking_id", "seat_number", "passenger_name", "passenger_age", "passenger_email",
			}).AddRow(uuid.New(), bookingID, "S05", "Alice", 30, nil))

		booking, err := repo.GetByTicketID("TKT-ABC", userID)
		require.NoError(t, err)
		assert.Equal(t, 250.0, booking.TotalAmount)
		require.Len(t, booking.Seats, 1)
		assert.Equal(t, "S05", booking.Seats[0].SeatNumber)
	})

	t.Run("Not found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE ticket_id`).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByTicketID("TKT-NOPE", userID)
		assert.ErrorIs(t, err, models.ErrBookingNotFound)
	})
}
