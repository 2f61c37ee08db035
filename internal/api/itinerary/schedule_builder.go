package itinerary

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wandermate/go-trip-planner/internal/types"
)

const (
	// Schedule building replenishes sparse candidate lists up to these counts
	// before prompting the content generator.
	minLandmarkCandidates      = 5
	minEstablishmentCandidates = 4

	// The pool resets once fewer places than this remain available.
	minAvailablePlaces = 6

	defaultStayHours = 2.0
)

// activitySchedule is one entry of the generator's structured day plan.
type activitySchedule struct {
	PlaceID       uuid.UUID `json:"place_id"`
	StartTime     string    `json:"start_time"` // "HH:MM" local time
	DurationHours float64   `json:"duration_hours"`
}

type dailyActivities struct {
	Activities []activitySchedule `json:"activities"`
}

// buildDailySchedules constructs a DayItinerary per theme. Places consumed by
// a day are excluded from later days; the pool resets once it runs low so
// long trips can revisit earlier candidates.
func (s *ServiceImpl) buildDailySchedules(ctx context.Context, state *buildState) error {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "buildDailySchedules")
	defer span.End()
	span.SetAttributes(attribute.Int("days", len(state.themes)))

	state.travelOptions = s.lookupTravelOptions(ctx, state.request.Destination)

	available := append([]types.Place(nil), state.available...)
	days := make([]types.DayItinerary, 0, len(state.themes))
	currentDate := state.request.StartDate

	for dayNum, theme := range state.themes {
		dayNumber := dayNum + 1
		l := s.logger.With(slog.Int("day", dayNumber), slog.String("theme", theme))

		if len(available) < minAvailablePlaces {
			available = append([]types.Place(nil), state.selected...)
			l.InfoContext(ctx, "Place pool exhausted, resetting to full selection")
		}

		dayPlaces := assignPlacesToDay(available, theme, state.rng)
		l.InfoContext(ctx, "Assigned places to day", slog.Int("places", len(dayPlaces)))

		activities, err := s.buildDayActivities(ctx, state.selected, dayPlaces, currentDate, state.rng)
		if err != nil {
			return fmt.Errorf("day %d: %w", dayNumber, err)
		}

		if nightOfTrip(state.request, currentDate) {
			activities = append(activities, s.stayActivity(state.accommodation, currentDate, state.request.Travelers))
		}
		sort.SliceStable(activities, func(i, j int) bool {
			return activities[i].StartTime.Before(activities[j].StartTime)
		})

		days = append(days, types.DayItinerary{
			DayDate:    currentDate,
			DayNumber:  dayNumber,
			Theme:      theme,
			Activities: activities,
		})

		used := make(map[uuid.UUID]struct{}, len(dayPlaces))
		for _, p := range dayPlaces {
			used[p.ID] = struct{}{}
		}
		var remaining []types.Place
		for _, p := range available {
			if _, ok := used[p.ID]; !ok {
				remaining = append(remaining, p)
			}
		}
		available = remaining
		currentDate = currentDate.AddDate(0, 0, 1)
	}

	state.days = days
	return nil
}

// buildDayActivities delegates the activity selection and timing judgment to
// the content generator, then validates and converts the structured response.
// Entries referencing unknown places are dropped, not fatal.
func (s *ServiceImpl) buildDayActivities(ctx context.Context, allPlaces, dayPlaces []types.Place, day time.Time, rng *rand.Rand) ([]types.ItineraryActivity, error) {
	landmarks := placesOfKind(dayPlaces, types.PlaceLandmark)
	establishments := placesOfKind(dayPlaces, types.PlaceEstablishment)
	events := sameDayEvents(dayPlaces, day)

	shufflePlaces(landmarks, rng)
	shufflePlaces(establishments, rng)
	sortByPriority(landmarks)
	sortByPriority(establishments)

	// Pad sparse categories from the full pool, deduplicated by id.
	extendUniqueUntil(&landmarks, placesOfKind(allPlaces, types.PlaceLandmark), minLandmarkCandidates)
	extendUniqueUntil(&establishments, placesOfKind(allPlaces, types.PlaceEstablishment), minEstablishmentCandidates)

	prompt, err := dayActivitiesPrompt(
		capPlaces(landmarks, minLandmarkCandidates),
		capPlaces(establishments, minEstablishmentCandidates),
		events,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build day prompt: %w", err)
	}

	var resp dailyActivities
	if err := s.generateJSON(ctx, prompt, &resp); err != nil {
		return nil, err
	}

	activities := make([]types.ItineraryActivity, 0, len(resp.Activities))
	for _, entry := range resp.Activities {
		place := findPlaceByID(allPlaces, entry.PlaceID)
		if place == nil {
			s.logger.WarnContext(ctx, "Dropping activity referencing unknown place",
				slog.String("place_id", entry.PlaceID.String()))
			continue
		}
		start, err := combineDayAndTime(day, entry.StartTime)
		if err != nil {
			s.logger.WarnContext(ctx, "Dropping activity with unparseable start time",
				slog.String("start_time", entry.StartTime), slog.Any("error", err))
			continue
		}
		// The generator's requested duration is authoritative; the place's
		// typical stay backs it up when the response omits it.
		duration := entry.DurationHours
		if duration <= 0 {
			duration = place.TypicalHoursOfStay
		}
		if duration <= 0 {
			duration = defaultStayHours
		}
		activities = append(activities, activityFromPlace(place, start, duration))
	}
	if len(activities) == 0 {
		return nil, fmt.Errorf("no usable activities in generated schedule (%d entries)", len(resp.Activities))
	}
	return activities, nil
}

// activityFromPlace converts a place into a scheduled activity. The activity
// type dispatches on the place kind.
func activityFromPlace(place *types.Place, start time.Time, durationHours float64) types.ItineraryActivity {
	var activityType types.ActivityType
	switch place.Kind {
	case types.PlaceEstablishment:
		activityType = types.ActivityDining
	case types.PlaceEvent:
		activityType = types.ActivityEvent
	case types.PlaceAccommodation:
		activityType = types.ActivityAccommodation
	case types.PlaceLandmark:
		activityType = types.ActivitySightseeing
	default:
		activityType = types.ActivitySightseeing
	}

	description := place.ReasonToGo
	if place.WeatherDependent {
		description += " (Weather dependent - check forecast!)"
	}

	return types.ItineraryActivity{
		ID:              uuid.New(),
		PlaceID:         place.ID,
		ActivityType:    activityType,
		Name:            place.Name,
		Description:     description,
		StartTime:       start,
		EndTime:         start.Add(time.Duration(durationHours * float64(time.Hour))),
		EstimatedCost:   place.EstimatedCost(),
		Coordinates:     place.Coordinates,
		BookingRequired: place.BookingType == types.BookingRequired,
		BookingURL:      place.Website,
	}
}

// stayActivity is the nightly overnight block at the chosen accommodation.
func (s *ServiceImpl) stayActivity(accommodation types.Place, night time.Time, travelers int) types.ItineraryActivity {
	start := time.Date(night.Year(), night.Month(), night.Day(), 22, 0, 0, 0, night.Location())
	end := start.Add(11 * time.Hour) // next morning 09:00
	return types.ItineraryActivity{
		ID:              uuid.New(),
		PlaceID:         accommodation.ID,
		ActivityType:    types.ActivityAccommodation,
		Name:            "Stay at " + accommodation.Name,
		Description:     "Overnight accommodation",
		StartTime:       start,
		EndTime:         end,
		EstimatedCost:   accommodation.MinPriceOption() / float64(travelers),
		Coordinates:     accommodation.Coordinates,
		BookingRequired: accommodation.BookingType == types.BookingRequired,
		BookingURL:      accommodation.Website,
	}
}

func nightOfTrip(req types.TripRequest, date time.Time) bool {
	return date.Before(req.EndDate)
}

func placesOfKind(places []types.Place, kind types.PlaceKind) []types.Place {
	var out []types.Place
	for _, p := range places {
		if p.Kind == kind {
			out = append(out, p)
		}
	}
	return out
}

func sameDayEvents(places []types.Place, day time.Time) []types.Place {
	var out []types.Place
	for _, p := range places {
		if p.Kind == types.PlaceEvent && sameDate(p.DateAndTime, day) {
			out = append(out, p)
		}
	}
	return out
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func sortByPriority(places []types.Place) {
	sort.SliceStable(places, func(i, j int) bool {
		return priorityWeights[places[i].Priority] > priorityWeights[places[j].Priority]
	})
}

// extendUniqueUntil appends items from src into dest until dest reaches
// targetCount, skipping places already present by id.
func extendUniqueUntil(dest *[]types.Place, src []types.Place, targetCount int) {
	seen := make(map[uuid.UUID]struct{}, len(*dest))
	for _, p := range *dest {
		seen[p.ID] = struct{}{}
	}
	for _, p := range src {
		if len(*dest) >= targetCount {
			break
		}
		if _, ok := seen[p.ID]; ok {
			continue
		}
		*dest = append(*dest, p)
		seen[p.ID] = struct{}{}
	}
}

func findPlaceByID(places []types.Place, id uuid.UUID) *types.Place {
	for i := range places {
		if places[i].ID == id {
			return &places[i]
		}
	}
	return nil
}

func combineDayAndTime(day time.Time, clock string) (time.Time, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, day.Location()), nil
}
