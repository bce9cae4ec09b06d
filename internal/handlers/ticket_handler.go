package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pearsgeorgeson22/bus-booking/internal/middleware"
	"github.com/pearsgeorgeson22/bus-booking/internal/services"
)

// TicketHandler serves printable ticket documents
type TicketHandler struct {
	ticketService *services.TicketService
}

// NewTicketHandler creates a new TicketHandler
func NewTicketHandler(ticketService *services.TicketService) *TicketHandler {
	return &TicketHandler{ticketService: ticketService}
}

// RenderTicket handles GET /api/v1/tickets/:ticketId
func (h *TicketHandler) RenderTicket(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	doc, err := h.ticketService.RenderTicket(c.Param("ticketId"), userCtx.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, doc)
}

// RenderTicketPDF handles GET /api/v1/tickets/:ticketId/pdf
func (h *TicketHandler) RenderTicketPDF(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	pdfBytes, err := h.ticketService.RenderTicketPDF(c.Param("ticketId"), userCtx.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="ticket.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
