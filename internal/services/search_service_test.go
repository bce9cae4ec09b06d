package services

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pearsgeorgeson22/bus-booking/internal/database"
	"github.com/pearsgeorgeson22/bus-booking/internal/models"
	"github.com/pearsgeorgeson22/bus-booking/pkg/traveldate"
)

func newSearchService(t *testing.T) (*SearchService, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	db := sqlx.NewDb(mockDB, "sqlmock")
	return NewSearchService(database.NewBusRepository(db), 90, newTestLogger()), mock
}

func tripResultColumns() []string {
	return []string{
		"id", "name", "bus_number", "from_location", "to_location",
		"departure_date", "departure_time", "arrival_time", "price", "available_seats",
	}
}

func TestSearchTrips_RejectsBadDates(t *testing.T) {
	service, _ := newSearchService(t)

	tests := []struct {
		name string
		date string
		want error
	}{
		{"Garbage", "banana", traveldate.ErrInvalidDate},
		{"Empty", "", nil},
		{"Today", traveldate.Today().String(), traveldate.ErrDateTooEarly},
		{"Past the horizon", traveldate.Today().AddDays(92).String(), traveldate.ErrBeyondHorizon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.SearchTrips(&models.SearchRequest{
				From: "Colombo", To: "Kandy", Date: tt.date,
			})
			require.Error(t, err)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestSearchTrips_SortsByDepartureAndStampsJourneyDate(t *testing.T) {
	service, mock := newSearchService(t)

	requested := traveldate.Today().AddDays(5)
	fixedDate := requested.Time()

	mock.ExpectQuery(`SELECT (.+) FROM buses`).
		WithArgs("Colombo", "Kandy", requested.String()).
		WillReturnRows(sqlmock.NewRows(tripResultColumns()).
			AddRow(uuid.New(), "Noon Liner", "NB-2", "Colombo", "Kandy", nil, "12:30 PM", "05:00 PM", 200.0, 10).
			AddRow(uuid.New(), "Mystery Bus", "NB-4", "Colombo", "Kandy", nil, "sometime", "", 150.0, 5).
			AddRow(uuid.New(), "Dawn Express", "NB-1", "Colombo", "Kandy", fixedDate, "06:15 AM", "11:00 AM", 250.0, 20))

	trips, err := service.SearchTrips(&models.SearchRequest{
		From: "Colombo", To: "Kandy", Date: requested.String(),
	})
	require.NoError(t, err)
	require.Len(t, trips, 3)

	// Sorted by parsed departure time; the unparsable one sinks to the end.
	assert.Equal(t, "Dawn Express", trips[0].Name)
	assert.Equal(t, "Noon Liner", trips[1].Name)
	assert.Equal(t, "Mystery Bus", trips[2].Name)

	// Recurring trips take the requested date; a fixed date wins.
	assert.Equal(t, requested.String(), trips[1].JourneyDate)
	assert.Equal(t, requested.String(), trips[0].JourneyDate)
}

func TestSearchTrips_NoMatchesIsEmptyNotError(t *testing.T) {
	service, mock := newSearchService(t)
	requested := traveldate.Today().AddDays(1)

	mock.ExpectQuery(`SELECT (.+) FROM buses`).
		WillReturnRows(sqlmock.NewRows(tripResultColumns()))

	trips, err := service.SearchTrips(&models.SearchRequest{
		From: "Nowhere", To: "Nothing", Date: requested.String(),
	})
	require.NoError(t, err)
	assert.NotNil(t, trips)
	assert.Empty(t, trips)
}

func TestRouteSuggestions(t *testing.T) {
	t.Run("Empty query short-circuits", func(t *testing.T) {
		service, mock := newSearchService(t)

		locations, err := service.RouteSuggestions("", models.SuggestionAny)
		require.NoError(t, err)
		assert.Empty(t, locations)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Capped at ten", func(t *testing.T) {
		service, mock := newSearchService(t)

		mock.ExpectQuery(`SELECT DISTINCT`).
			WithArgs("col", 10).
			WillReturnRows(sqlmock.NewRows([]string{"location"}).AddRow("Colombo"))

		locations, err := service.RouteSuggestions("col", models.SuggestionFrom)
		require.NoError(t, err)
		assert.Equal(t, []string{"Colombo"}, locations)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetTrip(t *testing.T) {
	busID := uuid.New()
	now := time.Now()

	newBusRows := func(departureDate interface{}) *sqlmock.Rows {
		return sqlmock.NewRows(busRowColumns()).AddRow(
			busID, "Night Express", "NB-1234", "Colombo", "Kandy",
			departureDate, "09:00 AM", "02:30 PM",
			250.0, 38, true, now, now,
		)
	}

	t.Run("Fixed departure date wins", func(t *testing.T) {
		service, mock := newSearchService(t)
		fixed := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

		mock.ExpectQuery(`SELECT (.+) FROM buses WHERE id`).
			WillReturnRows(newBusRows(fixed))

		trip, err := service.GetTrip(busID, "2026-11-20")
		require.NoError(t, err)
		assert.Equal(t, "2026-10-01", trip.JourneyDate)
	})

	t.Run("Recurring trip takes the requested date", func(t *testing.T) {
		service, mock := newSearchService(t)

		mock.ExpectQuery(`SELECT (.+) FROM buses WHERE id`).
			WillReturnRows(newBusRows(nil))

		trip, err := service.GetTrip(busID, "2026-11-20")
		require.NoError(t, err)
		assert.Equal(t, "2026-11-20", trip.JourneyDate)
	})

	t.Run("Unknown bus", func(t *testing.T) {
		service, mock := newSearchService(t)

		mock.ExpectQuery(`SELECT (.+) FROM buses WHERE id`).
			WillReturnError(assert.AnError)

		_, err := service.GetTrip(busID, "")
		assert.Error(t, err)
	})
}
