package itinerary

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/wandermate/go-trip-planner/app/observability/metrics"
	"github.com/wandermate/go-trip-planner/internal/types"
)

// MockContentGenerator is a mock implementation of ContentGenerator
type MockContentGenerator struct {
	mock.Mock
}

func (m *MockContentGenerator) GenerateContent(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error) {
	args := m.Called(ctx, prompt, config)
	return args.String(0), args.Error(1)
}

// MockRepository is a mock implementation of Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) SaveItinerary(ctx context.Context, itinerary *types.TripItinerary) (uuid.UUID, error) {
	args := m.Called(ctx, itinerary)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockRepository) GetItinerary(ctx context.Context, id uuid.UUID) (*types.TripItinerary, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.TripItinerary), args.Error(1)
}

func promptContains(substr string) interface{} {
	return mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, substr)
	})
}

// Helper to setup service with mocks
func setupItineraryServiceTest(opts Options) (*ServiceImpl, *MockContentGenerator, *MockRepository) {
	metrics.InitAppMetrics()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mockGen := new(MockContentGenerator)
	mockRepo := new(MockRepository)
	service := NewService(mockGen, mockRepo, opts, logger)
	return service, mockGen, mockRepo
}

// testReport builds a destination report with enough variety for a 2-day trip.
// The returned place slices keep deterministic ids so generated schedules can
// reference them.
func testReport() (*types.DestinationReport, []uuid.UUID) {
	report := &types.DestinationReport{}
	var ids []uuid.UUID

	for i := 0; i < 6; i++ {
		p := landmark(fmt.Sprintf("Landmark %d", i), types.PriorityEssential)
		p.Coordinates = &types.Coordinates{Latitude: 38.71 + float64(i)*0.002, Longitude: -9.14}
		p.TypicalHoursOfStay = 1.5
		report.Landmarks = append(report.Landmarks, p)
		ids = append(ids, p.ID)
	}
	for i := 0; i < 2; i++ {
		p := restaurant(fmt.Sprintf("Restaurant %d", i), types.PriorityHigh, 20)
		p.Coordinates = &types.Coordinates{Latitude: 38.715, Longitude: -9.142 - float64(i)*0.002}
		report.Establishments = append(report.Establishments, p)
		ids = append(ids, p.ID)
	}
	h := hotel("Hotel Central", types.PriorityHigh, 80)
	h.ID = uuid.New()
	h.Coordinates = &types.Coordinates{Latitude: 38.712, Longitude: -9.141}
	report.Accommodations = append(report.Accommodations, h)

	return report, ids
}

func dayScheduleJSON(ids []uuid.UUID) string {
	return fmt.Sprintf(`{"activities": [
		{"place_id": %q, "start_time": "09:00", "duration_hours": 2},
		{"place_id": %q, "start_time": "12:00", "duration_hours": 1.5},
		{"place_id": %q, "start_time": "19:30", "duration_hours": 2}
	]}`, ids[0].String(), ids[1].String(), ids[6].String())
}

func TestServiceImpl_BuildItinerary(t *testing.T) {
	ctx := context.Background()

	t.Run("builds a complete two-day itinerary", func(t *testing.T) {
		service, mockGen, _ := setupItineraryServiceTest(Options{})
		report, ids := testReport()
		req := tripRequest(2, 1000, 2, types.TripTypeCouple, "history", "food")

		mockGen.On("GenerateContent", mock.Anything, promptContains("daily themes"), mock.Anything).
			Return(`{"themes": ["Historic Center", "Food & Markets"]}`, nil).Once()
		mockGen.On("GenerateContent", mock.Anything, promptContains("transport fares"), mock.Anything).
			Return(`{"average_public_transport_fare": 1.8, "base_taxi_fare": 3.25}`, nil).Once()
		mockGen.On("GenerateContent", mock.Anything, promptContains("activities for the entire day"), mock.Anything).
			Return(dayScheduleJSON(ids), nil).Twice()

		itinerary, err := service.BuildItinerary(ctx, req, report)
		require.NoError(t, err)
		mockGen.AssertExpectations(t)

		assert.Equal(t, req.Destination, itinerary.Destination)
		assert.Equal(t, 2, itinerary.TotalDays)
		require.Len(t, itinerary.DailyItineraries, 2)
		assert.Equal(t, "Hotel Central", itinerary.Accommodation.Name)
		assert.Positive(t, itinerary.TotalEstimatedCost)
		assert.LessOrEqual(t, itinerary.TotalEstimatedCost, req.Budget)

		day1 := itinerary.DailyItineraries[0]
		assert.Equal(t, 1, day1.DayNumber)
		assert.Equal(t, "Historic Center", day1.Theme)
		for i := 0; i+1 < len(day1.Activities); i++ {
			assert.False(t, day1.Activities[i+1].StartTime.Before(day1.Activities[i].StartTime),
				"activities must stay sorted by start time")
		}

		// The first night ends at the accommodation; the last day has no stay.
		lastDay1 := day1.Activities[len(day1.Activities)-1]
		assert.Equal(t, types.ActivityAccommodation, lastDay1.ActivityType)
		day2 := itinerary.DailyItineraries[1]
		for _, a := range day2.Activities {
			assert.NotEqual(t, types.ActivityAccommodation, a.ActivityType)
		}

		require.NotNil(t, itinerary.BudgetBreakdown)
		assert.Equal(t, 80.0*1*2, itinerary.BudgetBreakdown["accommodation"])
		assert.Positive(t, itinerary.BudgetBreakdown["total"])
	})

	t.Run("over budget keeps the cheapest plan after replans run out", func(t *testing.T) {
		service, mockGen, _ := setupItineraryServiceTest(Options{MaxReplanAttempts: 2})
		report, ids := testReport()
		req := tripRequest(2, 10, 2, types.TripTypeSolo, "history")

		mockGen.On("GenerateContent", mock.Anything, promptContains("daily themes"), mock.Anything).
			Return(`{"themes": ["Historic Center", "Food & Markets"]}`, nil)
		mockGen.On("GenerateContent", mock.Anything, promptContains("transport fares"), mock.Anything).
			Return(`{"average_public_transport_fare": 1.8, "base_taxi_fare": 3.25}`, nil)
		mockGen.On("GenerateContent", mock.Anything, promptContains("activities for the entire day"), mock.Anything).
			Return(dayScheduleJSON(ids), nil)

		itinerary, err := service.BuildItinerary(ctx, req, report)
		require.NoError(t, err)

		// The budget is impossible; the service still delivers a plan.
		assert.Greater(t, itinerary.TotalEstimatedCost, req.Budget)
		assert.Len(t, itinerary.DailyItineraries, 2)
		// Initial build plus two replans.
		mockGen.AssertNumberOfCalls(t, "GenerateContent", 1+1+3*2)
	})

	t.Run("invalid request is rejected before planning", func(t *testing.T) {
		service, _, _ := setupItineraryServiceTest(Options{})
		report, _ := testReport()
		req := tripRequest(2, 1000, 2, types.TripTypeSolo, "history")
		req.Destination = ""

		_, err := service.BuildItinerary(ctx, req, report)
		assert.ErrorContains(t, err, "invalid trip request")
	})

	t.Run("empty place pool fails fast", func(t *testing.T) {
		service, _, _ := setupItineraryServiceTest(Options{})
		req := tripRequest(2, 1000, 2, types.TripTypeSolo, "history")

		_, err := service.BuildItinerary(ctx, req, &types.DestinationReport{})
		assert.ErrorContains(t, err, "empty place pool")
	})

	t.Run("missing accommodations abort the build", func(t *testing.T) {
		service, mockGen, _ := setupItineraryServiceTest(Options{})
		report, _ := testReport()
		report.Accommodations = nil
		req := tripRequest(2, 1000, 2, types.TripTypeSolo, "history")

		mockGen.On("GenerateContent", mock.Anything, promptContains("daily themes"), mock.Anything).
			Return(`{"themes": ["Historic Center", "Food & Markets"]}`, nil).Once()

		_, err := service.BuildItinerary(ctx, req, report)
		assert.ErrorIs(t, err, ErrNoAccommodations)
	})

	t.Run("concurrent builds over a shared report all succeed", func(t *testing.T) {
		service, mockGen, _ := setupItineraryServiceTest(Options{})
		report, ids := testReport()

		mockGen.On("GenerateContent", mock.Anything, promptContains("daily themes"), mock.Anything).
			Return(`{"themes": ["Historic Center", "Food & Markets"]}`, nil)
		mockGen.On("GenerateContent", mock.Anything, promptContains("transport fares"), mock.Anything).
			Return(`{"average_public_transport_fare": 1.8, "base_taxi_fare": 3.25}`, nil)
		mockGen.On("GenerateContent", mock.Anything, promptContains("activities for the entire day"), mock.Anything).
			Return(dayScheduleJSON(ids), nil)

		// Cached reports are shared between requests, so builds run in
		// parallel against the same report. Run under -race.
		var wg sync.WaitGroup
		errs := make([]error, 8)
		for i := range errs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				req := tripRequest(2, 1000, 2, types.TripTypeCouple, "history", "food")
				_, errs[i] = service.BuildItinerary(ctx, req, report)
			}(i)
		}
		wg.Wait()

		for _, err := range errs {
			require.NoError(t, err)
		}
	})

	t.Run("theme generation failure falls back to stock themes", func(t *testing.T) {
		service, mockGen, _ := setupItineraryServiceTest(Options{GenerationRetries: 1})
		report, ids := testReport()
		req := tripRequest(2, 1000, 2, types.TripTypeSolo, "history")

		mockGen.On("GenerateContent", mock.Anything, promptContains("daily themes"), mock.Anything).
			Return("", errors.New("model unavailable")).Once()
		mockGen.On("GenerateContent", mock.Anything, promptContains("transport fares"), mock.Anything).
			Return(`{"average_public_transport_fare": 1.8, "base_taxi_fare": 3.25}`, nil).Once()
		mockGen.On("GenerateContent", mock.Anything, promptContains("activities for the entire day"), mock.Anything).
			Return(dayScheduleJSON(ids), nil).Twice()

		itinerary, err := service.BuildItinerary(ctx, req, report)
		require.NoError(t, err)

		require.Len(t, itinerary.DailyItineraries, 2)
		assert.Equal(t, fallbackThemes[0], itinerary.DailyItineraries[0].Theme)
		assert.Equal(t, fallbackThemes[1], itinerary.DailyItineraries[1].Theme)
	})
}

func TestServiceImpl_SaveAndGetItinerary(t *testing.T) {
	ctx := context.Background()

	t.Run("save delegates to the repository", func(t *testing.T) {
		service, _, mockRepo := setupItineraryServiceTest(Options{})
		itinerary := &types.TripItinerary{Destination: "Lisbon"}
		expectedID := uuid.New()

		mockRepo.On("SaveItinerary", ctx, itinerary).Return(expectedID, nil).Once()

		id, err := service.SaveItinerary(ctx, itinerary)
		require.NoError(t, err)
		assert.Equal(t, expectedID, id)
		mockRepo.AssertExpectations(t)
	})

	t.Run("get propagates not found", func(t *testing.T) {
		service, _, mockRepo := setupItineraryServiceTest(Options{})
		id := uuid.New()

		mockRepo.On("GetItinerary", ctx, id).Return(nil, ErrItineraryNotFound).Once()

		_, err := service.GetItinerary(ctx, id)
		assert.ErrorIs(t, err, ErrItineraryNotFound)
		mockRepo.AssertExpectations(t)
	})
}

func TestCleanJSONResponse(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain object", `{"a": 1}`, `{"a": 1}`},
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"bare fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"surrounding prose", `Here you go: {"a": 1} hope this helps`, `{"a": 1}`},
		{"no braces passthrough", "not json at all", "not json at all"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, cleanJSONResponse(tc.input))
		})
	}
}

// Downstream consumers rely on a stay block every night of the trip.
func TestNightOfTrip(t *testing.T) {
	req := tripRequest(3, 500, 2, types.TripTypeSolo, "history")

	assert.True(t, nightOfTrip(req, req.StartDate))
	assert.True(t, nightOfTrip(req, req.StartDate.AddDate(0, 0, 1)))
	assert.False(t, nightOfTrip(req, req.EndDate))
}

func TestCombineDayAndTime(t *testing.T) {
	day := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	t.Run("valid clock", func(t *testing.T) {
		got, err := combineDayAndTime(day, "14:30")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 10, 1, 14, 30, 0, 0, time.UTC), got)
	})

	t.Run("invalid clock errors", func(t *testing.T) {
		_, err := combineDayAndTime(day, "2pm")
		assert.Error(t, err)
	})
}
