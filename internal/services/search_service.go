package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pearsgeorgeson22/bus-booking/internal/database"
	"github.com/pearsgeorgeson22/bus-booking/internal/models"
	"github.com/pearsgeorgeson22/bus-booking/pkg/traveldate"
	"github.com/sirupsen/logrus"
)

// maxSuggestions caps route-suggestion results
const maxSuggestions = 10

// SearchService handles business logic for trip search
type SearchService struct {
	busRepo     *database.BusRepository
	horizonDays int
	logger      *logrus.Logger
}

// NewSearchService creates a new search service
func NewSearchService(busRepo *database.BusRepository, horizonDays int, logger *logrus.Logger) *SearchService {
	return &SearchService{
		busRepo:     busRepo,
		horizonDays: horizonDays,
		logger:      logger,
	}
}

// SearchTrips returns active trips matching the route and journey date,
// sorted ascending by parsed departure time with unparsable entries
// last. A query that matches nothing is a success with an empty result.
func (s *SearchService) SearchTrips(req *models.SearchRequest) ([]models.TripResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	date, err := traveldate.ParseBookingDate(req.Date, s.horizonDays)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"from": req.From,
		"to":   req.To,
		"date": date.String(),
	}).Info("Processing trip search")

	trips, err := s.busRepo.Search(req.From, req.To, date.String())
	if err != nil {
		return nil, fmt.Errorf("trip search failed: %w", err)
	}

	for i := range trips {
		trips[i].JourneyDate = journeyDateString(trips[i].DepartureDate, date)
	}

	models.SortTripsByDeparture(trips)

	if trips == nil {
		trips = []models.TripResult{}
	}
	return trips, nil
}

// RouteSuggestions returns up to 10 sorted, de-duplicated locations of
// active trips matching the partial query.
func (s *SearchService) RouteSuggestions(query string, direction models.SuggestionDirection) ([]string, error) {
	if query == "" {
		return []string{}, nil
	}

	locations, err := s.busRepo.Suggestions(query, direction, maxSuggestions)
	if err != nil {
		return nil, fmt.Errorf("route suggestions failed: %w", err)
	}

	if locations == nil {
		locations = []string{}
	}
	return locations, nil
}

// GetTrip returns the detail of one trip with its computed date-only
// journey string. The optional date stands in for the journey date of a
// recurring trip; it is validated but a fixed departure date wins.
func (s *SearchService) GetTrip(busID uuid.UUID, dateParam string) (*models.TripResult, error) {
	bus, err := s.busRepo.GetByID(busID)
	if err != nil {
		return nil, err
	}

	var requested traveldate.Date
	if dateParam != "" {
		requested, err = traveldate.Parse(dateParam)
		if err != nil {
			return nil, err
		}
	}

	return &models.TripResult{
		ID:             bus.ID,
		Name:           bus.Name,
		BusNumber:      bus.BusNumber,
		FromLocation:   bus.FromLocation,
		ToLocation:     bus.ToLocation,
		DepartureDate:  bus.DepartureDate,
		DepartureTime:  bus.DepartureTime,
		ArrivalTime:    bus.ArrivalTime,
		Price:          bus.Price,
		AvailableSeats: bus.AvailableSeats,
		JourneyDate:    journeyDateString(bus.DepartureDate, requested),
	}, nil
}

// journeyDateString prefers the trip's own fixed departure date over
// the requested date; recurring trips take the requested one.
func journeyDateString(fixed *time.Time, requested traveldate.Date) string {
	if fixed != nil {
		return traveldate.FromTime(*fixed).String()
	}
	if requested.IsZero() {
		return ""
	}
	return requested.String()
}
