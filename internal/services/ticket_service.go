package services

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pearsgeorgeson22/bus-booking/internal/database"
	"github.com/pearsgeorgeson22/bus-booking/internal/models"
	"github.com/pearsgeorgeson22/bus-booking/pkg/traveldate"
	"github.com/phpdave11/gofpdf"
	"github.com/sirupsen/logrus"
)

// TicketService renders a booking's immutable snapshot into a printable
// ticket document. Rendering never mutates booking state and is
// deterministic for a fixed snapshot.
type TicketService struct {
	bookingRepo *database.BookingRepository
	busRepo     *database.BusRepository
	userRepo    *database.UserRepository
	logger      *logrus.Logger
}

// NewTicketService creates a new ticket service
func NewTicketService(
	bookingRepo *database.BookingRepository,
	busRepo *database.BusRepository,
	userRepo *database.UserRepository,
	logger *logrus.Logger,
) *TicketService {
	return &TicketService{
		bookingRepo: bookingRepo,
		busRepo:     busRepo,
		userRepo:    userRepo,
		logger:      logger,
	}
}

// RenderTicket resolves the booking's linked bus and user and builds the
// ticket document from its journey snapshot.
func (s *TicketService) RenderTicket(ticketID string, userID uuid.UUID) (*models.TicketDocument, error) {
	booking, err := s.bookingRepo.GetByTicketID(ticketID, userID)
	if err != nil {
		return nil, err
	}

	bus, err := s.busRepo.GetByID(booking.BusID)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(booking.UserID)
	if err != nil {
		return nil, err
	}

	return BuildTicketDocument(booking, bus, user), nil
}

// RenderTicketPDF renders the ticket document as a printable PDF
func (s *TicketService) RenderTicketPDF(ticketID string, userID uuid.UUID) ([]byte, error) {
	doc, err := s.RenderTicket(ticketID, userID)
	if err != nil {
		return nil, err
	}
	return RenderPDF(doc)
}

// BuildTicketDocument is the pure transformation from a booking and its
// linked bus and user to the fixed-layout ticket document. The journey
// facts come from the booking's snapshot, not the live bus schedule.
func BuildTicketDocument(booking *models.Booking, bus *models.Bus, user *models.User) *models.TicketDocument {
	seatNumbers := make([]string, 0, len(booking.Seats))
	ages := make([]int, 0, len(booking.Seats))
	for _, seat := range booking.Seats {
		seatNumbers = append(seatNumbers, seat.SeatNumber)
		ages = append(ages, seat.PassengerAge)
	}

	payment := models.TicketPayment{
		TotalAmount: booking.TotalAmount,
		Method:      booking.PaymentMethod,
		Status:      "paid",
	}
	if booking.IsCancelled {
		payment.Status = "refunded"
		payment.RefundAmount = booking.RefundAmount
		if booking.CancellationDate != nil {
			payment.CancellationDate = booking.CancellationDate.Format("2006-01-02 15:04")
		}
	}

	return &models.TicketDocument{
		TicketID: booking.TicketID,
		Status:   booking.Status,
		Bus: models.TicketBusInfo{
			Name:        bus.Name,
			BusNumber:   bus.BusNumber,
			JourneyDate: traveldate.FromTime(booking.JourneyDate).String(),
			Departure:   booking.DepartureTimeSnapshot,
			Arrival:     booking.ArrivalTimeSnapshot,
			BookingDate: booking.BookingDate.Format("2006-01-02 15:04"),
		},
		Passenger: models.TicketPax{
			Name:        user.Name,
			SeatNumbers: seatNumbers,
			Ages:        ages,
			Mobile:      user.Mobile,
			Email:       user.Email,
		},
		Payment:      payment,
		Instructions: models.TravelInstructions,
	}
}

// RenderPDF lays the ticket document out on an A4 page
func RenderPDF(doc *models.TicketDocument) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Bus Ticket", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "BUS TICKET")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Ticket ID: %s", doc.TicketID))
	pdf.Ln(10)

	if doc.Status == models.BookingStatusCancelled {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, "*** CANCELLED ***")
		pdf.Ln(10)
	}

	ages := make([]string, len(doc.Passenger.Ages))
	for i, age := range doc.Passenger.Ages {
		ages[i] = fmt.Sprintf("%d", age)
	}

	left := []string{
		fmt.Sprintf("Bus            : %s", doc.Bus.Name),
		fmt.Sprintf("Bus Number     : %s", doc.Bus.BusNumber),
		fmt.Sprintf("Journey Date   : %s", doc.Bus.JourneyDate),
		fmt.Sprintf("Departure      : %s", doc.Bus.Departure),
		fmt.Sprintf("Arrival        : %s", doc.Bus.Arrival),
		fmt.Sprintf("Booked On      : %s", doc.Bus.BookingDate),
	}
	right := []string{
		fmt.Sprintf("Passenger      : %s", doc.Passenger.Name),
		fmt.Sprintf("Seats          : %s", strings.Join(doc.Passenger.SeatNumbers, ", ")),
		fmt.Sprintf("Ages           : %s", strings.Join(ages, ", ")),
		fmt.Sprintf("Mobile         : %s", doc.Passenger.Mobile),
		fmt.Sprintf("Email          : %s", doc.Passenger.Email),
	}

	pdf.SetFont("Courier", "", 10)
	rows := len(left)
	if len(right) > rows {
		rows = len(right)
	}
	for i := 0; i < rows; i++ {
		var l, r string
		if i < len(left) {
			l = left[i]
		}
		if i < len(right) {
			r = right[i]
		}
		pdf.Cell(95, 6, l)
		pdf.Cell(95, 6, r)
		pdf.Ln(6)
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Payment")
	pdf.Ln(8)
	pdf.SetFont("Courier", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Total Amount   : %.2f", doc.Payment.TotalAmount))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Method         : %s", doc.Payment.Method))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Status         : %s", doc.Payment.Status))
	pdf.Ln(6)
	if doc.Payment.RefundAmount != nil {
		pdf.Cell(0, 6, fmt.Sprintf("Refund Amount  : %.2f", *doc.Payment.RefundAmount))
		pdf.Ln(6)
		pdf.Cell(0, 6, fmt.Sprintf("Cancelled On   : %s", doc.Payment.CancellationDate))
		pdf.Ln(6)
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Travel Instructions")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	for _, instruction := range doc.Instructions {
		pdf.MultiCell(0, 6, "- "+instruction, "", "", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render ticket pdf: %w", err)
	}
	return buf.Bytes(), nil
}
