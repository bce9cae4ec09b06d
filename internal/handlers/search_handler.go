package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pearsgeorgeson22/bus-booking/internal/models"
	"github.com/pearsgeorgeson22/bus-booking/internal/services"
)

// SearchHandler handles trip search and route suggestions
type SearchHandler struct {
	searchService *services.SearchService
}

// NewSearchHandler creates a new SearchHandler
func NewSearchHandler(searchService *services.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

// SearchTrips handles GET /api/v1/trips/search
func (h *SearchHandler) SearchTrips(c *gin.Context) {
	req := models.SearchRequest{
		From: c.Query("from"),
		To:   c.Query("to"),
		Date: c.Query("date"),
	}

	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	trips, err := h.searchService.SearchTrips(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"results": trips,
		"count":   len(trips),
	})
}

// RouteSuggestions handles GET /api/v1/trips/suggestions
func (h *SearchHandler) RouteSuggestions(c *gin.Context) {
	query := c.Query("q")
	direction := models.SuggestionDirection(c.Query("direction"))

	switch direction {
	case models.SuggestionFrom, models.SuggestionTo, models.SuggestionAny:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "direction must be 'from' or 'to'"})
		return
	}

	locations, err := h.searchService.RouteSuggestions(query, direction)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"suggestions": locations})
}

// GetTrip handles GET /api/v1/trips/:id
func (h *SearchHandler) GetTrip(c *gin.Context) {
	busID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid trip id"})
		return
	}

	trip, err := h.searchService.GetTrip(busID, c.Query("date"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, trip)
}
