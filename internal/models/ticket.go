package models

// TicketDocument is the immutable, printable rendition of a booking.
// It is assembled from the booking's journey snapshot plus the linked
// bus and user display fields; rendering never mutates booking state.
type TicketDocument struct {
	TicketID  string        `json:"ticket_id"`
	Status    BookingStatus `json:"status"`
	Bus       TicketBusInfo `json:"bus"`
	Passenger TicketPax     `json:"passenger"`
	Payment   TicketPayment `json:"payment"`

	Instructions []string `json:"instructions"`
}

// TicketBusInfo is the bus-facts column of the ticket
type TicketBusInfo struct {
	Name        string `json:"name"`
	BusNumber   string `json:"bus_number"`
	JourneyDate string `json:"journey_date"`
	Departure   string `json:"departure_time"`
	Arrival     string `json:"arrival_time"`
	BookingDate string `json:"booking_date"`
}

// TicketPax is the passenger-facts column of the ticket
type TicketPax struct {
	Name        string   `json:"name"`
	SeatNumbers []string `json:"seat_numbers"`
	Ages        []int    `json:"ages"`
	Mobile      string   `json:"mobile"`
	Email       string   `json:"email"`
}

// TicketPayment is the payment summary block of the ticket
type TicketPayment struct {
	TotalAmount      float64       `json:"total_amount"`
	Method           PaymentMethod `json:"method"`
	Status           string        `json:"status"`
	RefundAmount     *float64      `json:"refund_amount,omitempty"`
	CancellationDate string        `json:"cancellation_date,omitempty"`
}

// TravelInstructions is the fixed list printed on every ticket.
var TravelInstructions = []string{
	"Arrive at the boarding point at least 15 minutes before departure.",
	"Carry a valid photo ID for every passenger.",
	"Show this ticket (printed or on your phone) to the conductor.",
	"Seats are held for 10 minutes past departure, after which they may be released.",
	"Cancellation refunds 80% of the fare; no partial-seat cancellation.",
}
