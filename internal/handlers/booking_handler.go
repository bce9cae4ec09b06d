package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pearsgeorgeson22/bus-booking/internal/middleware"
	"github.com/pearsgeorgeson22/bus-booking/internal/models"
	"github.com/pearsgeorgeson22/bus-booking/internal/services"
	"github.com/pearsgeorgeson22/bus-booking/internal/utils"
)

// BookingHandler handles seat booking operations
type BookingHandler struct {
	bookingService *services.BookingService
	seatsPerBus    int
}

// NewBookingHandler creates a new BookingHandler
func NewBookingHandler(bookingService *services.BookingService, seatsPerBus int) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
		seatsPerBus:    seatsPerBus,
	}
}

// CreateBooking handles POST /api/v1/bookings
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	deviceInfo := utils.ParseUserAgent(c.Request.UserAgent()).JSON()
	booking, err := h.bookingService.Book(userCtx.UserID, &req, "app", deviceInfo)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"ticket_id": booking.TicketID,
		"booking":   booking,
	})
}

// ListMyBookings handles GET /api/v1/bookings
func (h *BookingHandler) ListMyBookings(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	bookings, err := h.bookingService.ListBookings(userCtx.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bookings": bookings,
		"count":    len(bookings),
	})
}

// CancelBooking handles POST /api/v1/bookings/:ticketId/cancel
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.bookingService.Cancel(c.Param("ticketId"), userCtx.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// InitializeSeats handles POST /api/v1/trips/:id/seats/initialize
func (h *BookingHandler) InitializeSeats(c *gin.Context) {
	busID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid trip id"})
		return
	}

	created, err := h.bookingService.InitializeSeats(busID, h.seatsPerBus)
	if err != nil {
		respondError(c, err)
		return
	}

	if created == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "Seats already initialized"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Seats initialized", "count": created})
}
