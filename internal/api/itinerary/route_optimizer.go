package itinerary

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/wandermate/go-trip-planner/internal/types"
)

// travelBuffer separates consecutive activities after the route is reordered.
const travelBuffer = 30 * time.Minute

// optimizeRoutes reorders each day's geo-located activities to reduce
// backtracking, recomputes times, then derives travel segments and the day
// totals. Accommodation blocks and activities without coordinates stay out of
// the reordering and are merged back by start time.
func (s *ServiceImpl) optimizeRoutes(ctx context.Context, state *buildState) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "optimizeRoutes")
	defer span.End()

	for i := range state.days {
		day := &state.days[i]

		var routable, fixed []types.ItineraryActivity
		for _, a := range day.Activities {
			if a.Coordinates != nil && a.ActivityType != types.ActivityAccommodation {
				routable = append(routable, a)
			} else {
				fixed = append(fixed, a)
			}
		}

		if len(routable) > 2 {
			routable = optimizeActivityOrder(routable, state.selected)
		}

		merged := append(routable, fixed...)
		sort.SliceStable(merged, func(a, b int) bool {
			return merged[a].StartTime.Before(merged[b].StartTime)
		})
		day.Activities = merged

		finishDay(day, state.travelOptions)
	}
	s.logger.InfoContext(ctx, "Optimized routes", slog.Int("days", len(state.days)))
}

// optimizeActivityOrder is a nearest-neighbor tour construction: start from
// the first activity, then repeatedly hop to the closest unvisited one.
// Greedy and O(n²); fine for the 6-8 activities a day holds.
func optimizeActivityOrder(activities []types.ItineraryActivity, places []types.Place) []types.ItineraryActivity {
	if len(activities) <= 2 {
		return activities
	}

	optimized := []types.ItineraryActivity{activities[0]}
	remaining := append([]types.ItineraryActivity(nil), activities[1:]...)

	for len(remaining) > 0 {
		current := optimized[len(optimized)-1]
		nearestIdx := 0
		minDistance := haversineKm(*current.Coordinates, *remaining[0].Coordinates)
		for i := 1; i < len(remaining); i++ {
			if d := haversineKm(*current.Coordinates, *remaining[i].Coordinates); d < minDistance {
				minDistance = d
				nearestIdx = i
			}
		}
		optimized = append(optimized, remaining[nearestIdx])
		remaining = append(remaining[:nearestIdx], remaining[nearestIdx+1:]...)
	}

	retimeActivities(optimized, places)
	return optimized
}

// retimeActivities walks the reordered chain from the first activity's
// original start time: each stay lasts the place's typical hours (2h when
// unknown) and the next start follows after a fixed travel buffer.
func retimeActivities(activities []types.ItineraryActivity, places []types.Place) {
	if len(activities) == 0 {
		return
	}
	current := activities[0].StartTime
	for i := range activities {
		stayHours := defaultStayHours
		if place := findPlaceByID(places, activities[i].PlaceID); place != nil && place.TypicalHoursOfStay > 0 {
			stayHours = place.TypicalHoursOfStay
		}
		activities[i].StartTime = current
		activities[i].EndTime = current.Add(time.Duration(stayHours * float64(time.Hour)))
		current = activities[i].EndTime.Add(travelBuffer)
	}
}

// finishDay computes travel segments, the day total, highlights and the
// weather note from the day's final activity order.
func finishDay(day *types.DayItinerary, opts TravelSegmentOptions) {
	day.TravelSegments = buildTravelSegments(day.Activities, opts)

	total := 0.0
	for _, a := range day.Activities {
		total += a.EstimatedCost
	}
	for _, seg := range day.TravelSegments {
		total += seg.TotalCost
	}
	day.TotalEstimatedCost = total

	day.KeyHighlights = day.KeyHighlights[:0]
	weatherDependent := false
	for _, a := range day.Activities {
		if a.ActivityType == types.ActivitySightseeing && len(day.KeyHighlights) < 3 {
			day.KeyHighlights = append(day.KeyHighlights, a.Name)
		}
		if strings.Contains(a.Description, "Weather dependent") {
			weatherDependent = true
		}
	}
	if weatherDependent {
		day.WeatherConsiderations = "Some activities are weather dependent - check the forecast before heading out"
	} else {
		day.WeatherConsiderations = ""
	}
}
