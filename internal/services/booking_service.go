package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/pearsgeorgeson22/bus-booking/internal/database"
	"github.com/pearsgeorgeson22/bus-booking/internal/models"
	"github.com/pearsgeorgeson22/bus-booking/pkg/traveldate"
	"github.com/pearsgeorgeson22/bus-booking/pkg/validator"
	"github.com/sirupsen/logrus"
)

// BookingService orchestrates seat reservation, cancellation and refund
type BookingService struct {
	bookingRepo      *database.BookingRepository
	busRepo          *database.BusRepository
	paymentValidator *validator.PaymentValidator
	horizonDays      int
	refundRate       float64
	logger           *logrus.Logger
}

// NewBookingService creates a new booking service
func NewBookingService(
	bookingRepo *database.BookingRepository,
	busRepo *database.BusRepository,
	paymentValidator *validator.PaymentValidator,
	horizonDays int,
	refundRate float64,
	logger *logrus.Logger,
) *BookingService {
	return &BookingService{
		bookingRepo:      bookingRepo,
		busRepo:          busRepo,
		paymentValidator: paymentValidator,
		horizonDays:      horizonDays,
		refundRate:       refundRate,
		logger:           logger,
	}
}

// Book validates and atomically commits a seat reservation, producing a
// confirmed booking with its ticket id. The request is honored in full
// or not at all: the first unavailable seat rejects the whole request.
// deviceInfo is an optional audit payload recorded with the booking.
func (s *BookingService) Book(userID uuid.UUID, req *models.CreateBookingRequest, bookingSource string, deviceInfo *string) (*models.Booking, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if req.PaymentMethod == models.PaymentMethodUPI {
		sanitized, err := s.paymentValidator.ValidateUPIID(*req.UPIID)
		if err != nil {
			return nil, err
		}
		req.UPIID = &sanitized
	}

	for i, p := range req.Passengers {
		if p.Email == nil || *p.Email == "" {
			continue
		}
		sanitized, err := s.paymentValidator.ValidateEmail(*p.Email)
		if err != nil {
			return nil, fmt.Errorf("passenger %s: %w", p.SeatNumber, err)
		}
		req.Passengers[i].Email = &sanitized
	}

	busID, err := uuid.Parse(req.BusID)
	if err != nil {
		return nil, models.ErrTripNotFound
	}

	bus, err := s.busRepo.GetByID(busID)
	if err != nil {
		return nil, err
	}
	if !bus.IsActive {
		return nil, models.ErrTripNotFound
	}

	seatNumbers := req.SeatNumbers()
	if err := s.busRepo.CheckAvailability(busID, seatNumbers); err != nil {
		return nil, err
	}

	// Journey snapshot: a caller-supplied date wins over the bus's own
	// fixed departure date; a recurring trip has nothing to fall back on.
	var journeyDate traveldate.Date
	switch {
	case req.JourneyDate != nil && *req.JourneyDate != "":
		journeyDate, err = traveldate.ParseBookingDate(*req.JourneyDate, s.horizonDays)
		if err != nil {
			return nil, err
		}
	case bus.DepartureDate != nil:
		journeyDate = traveldate.FromTime(*bus.DepartureDate)
	default:
		return nil, fmt.Errorf("%w for a recurring trip", traveldate.ErrEmptyDate)
	}

	booking := &models.Booking{
		UserID:                userID,
		BusID:                 busID,
		TotalAmount:           float64(len(seatNumbers)) * bus.Price,
		PaymentMethod:         req.PaymentMethod,
		UPIID:                 req.UPIID,
		JourneyDate:           journeyDate.Time(),
		DepartureTimeSnapshot: bus.DepartureTime,
		ArrivalTimeSnapshot:   bus.ArrivalTime,
		BookingSource:         bookingSource,
		DeviceInfo:            deviceInfo,
	}
	for _, p := range req.Passengers {
		booking.Seats = append(booking.Seats, models.BookingSeat{
			SeatNumber:     p.SeatNumber,
			PassengerName:  p.Name,
			PassengerAge:   p.Age,
			PassengerEmail: p.Email,
		})
	}

	if err := s.bookingRepo.Create(booking); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"ticket_id": booking.TicketID,
		"bus_id":    busID,
		"seats":     seatNumbers,
		"amount":    booking.TotalAmount,
	}).Info("Booking confirmed")

	return booking, nil
}

// CheckAvailability verifies the requested seats exist and are unbooked
func (s *BookingService) CheckAvailability(busID uuid.UUID, seatNumbers []string) error {
	if _, err := s.busRepo.GetByID(busID); err != nil {
		return err
	}
	return s.busRepo.CheckAvailability(busID, seatNumbers)
}

// Cancel cancels the caller's booking and computes the refund under the
// fixed refund policy. Cancelling an already-cancelled ticket fails and
// leaves the original refund untouched.
func (s *BookingService) Cancel(ticketID string, userID uuid.UUID) (*models.CancellationResult, error) {
	result, err := s.bookingRepo.Cancel(ticketID, userID, s.refundRate)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"ticket_id": ticketID,
		"refund":    result.RefundAmount,
	}).Info("Booking cancelled")

	return result, nil
}

// ListBookings returns the caller's bookings, newest booking-date first
func (s *BookingService) ListBookings(userID uuid.UUID) ([]models.Booking, error) {
	bookings, err := s.bookingRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	return bookings, nil
}

// InitializeSeats populates a bus's seat map if it has none
func (s *BookingService) InitializeSeats(busID uuid.UUID, count int) (int, error) {
	created, err := s.busRepo.InitializeSeats(busID, count)
	if err != nil {
		return 0, err
	}

	if created > 0 {
		s.logger.WithFields(logrus.Fields{
			"bus_id": busID,
			"seats":  created,
		}).Info("Seat map initialized")
	}

	return created, nil
}
