package itinerary

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/patrickmn/go-cache"

	"github.com/wandermate/go-trip-planner/internal/types"
)

// Static fallback fares when the fare lookup fails.
const (
	defaultPublicTransportFare = 2.5
	defaultBaseTaxiFare        = 1.5
)

// TravelSegmentOptions carries destination-specific fares used to price
// travel segments.
type TravelSegmentOptions struct {
	AveragePublicTransportFare float64 `json:"average_public_transport_fare"`
	BaseTaxiFare               float64 `json:"base_taxi_fare"`
}

func defaultTravelSegmentOptions() TravelSegmentOptions {
	return TravelSegmentOptions{
		AveragePublicTransportFare: defaultPublicTransportFare,
		BaseTaxiFare:               defaultBaseTaxiFare,
	}
}

// lookupTravelOptions asks the content generator for the destination's
// transport fares, cached per destination. Failures fall back to the static
// defaults rather than failing the build.
func (s *ServiceImpl) lookupTravelOptions(ctx context.Context, destination string) TravelSegmentOptions {
	cacheKey := "travel_options:" + destination
	if cached, found := s.cache.Get(cacheKey); found {
		if opts, ok := cached.(TravelSegmentOptions); ok {
			return opts
		}
	}

	var opts TravelSegmentOptions
	if err := s.generateJSON(ctx, travelOptionsPrompt(destination), &opts); err != nil {
		s.logger.WarnContext(ctx, "Fare lookup failed, using default fares", slog.Any("error", err))
		return defaultTravelSegmentOptions()
	}
	if opts.AveragePublicTransportFare <= 0 {
		opts.AveragePublicTransportFare = defaultPublicTransportFare
	}
	if opts.BaseTaxiFare <= 0 {
		opts.BaseTaxiFare = defaultBaseTaxiFare
	}

	s.cache.Set(cacheKey, opts, cache.DefaultExpiration)
	return opts
}

// buildTravelSegments classifies the leg between each adjacent pair of
// activities that both carry coordinates. Same-instant pairs (two fixed-time
// events) are skipped.
func buildTravelSegments(activities []types.ItineraryActivity, opts TravelSegmentOptions) []types.TravelSegment {
	var segments []types.TravelSegment
	for i := 0; i+1 < len(activities); i++ {
		from, to := activities[i], activities[i+1]
		if from.Coordinates == nil || to.Coordinates == nil {
			continue
		}
		if from.StartTime.Equal(to.StartTime) {
			continue
		}
		segments = append(segments, classifyTravelSegment(from, to, opts))
	}
	return segments
}

// classifyTravelSegment picks the transport mode, duration and cost from
// distance bands: short hops are walked, mid-range legs take public
// transport, anything further goes by taxi.
func classifyTravelSegment(from, to types.ItineraryActivity, opts TravelSegmentOptions) types.TravelSegment {
	distanceKm := haversineKm(*from.Coordinates, *to.Coordinates)

	var (
		mode            types.TransportMode
		durationMinutes int
		cost            float64
		instructions    string
	)

	switch {
	case distanceKm <= 0.5:
		mode = types.TransportWalking
		durationMinutes = maxInt(5, int(distanceKm*12)) // 12 min per km walking
		cost = 0
		instructions = fmt.Sprintf("Walk %dm to %s (%d mins)", int(distanceKm*1000), to.Name, durationMinutes)
	case distanceKm <= 3:
		mode = types.TransportPublicTransport
		durationMinutes = maxInt(10, int(distanceKm*8)) // 8 min per km public transport
		cost = opts.AveragePublicTransportFare
		instructions = fmt.Sprintf("Take public transport to %s (%d mins, €%.2f)", to.Name, durationMinutes, cost)
	default:
		mode = types.TransportTaxi
		durationMinutes = maxInt(15, int(distanceKm*5)) // 5 min per km by car
		cost = opts.BaseTaxiFare + distanceKm*1.20
		instructions = fmt.Sprintf("Take taxi to %s (%d mins, ~€%.2f)", to.Name, durationMinutes, cost)
	}

	return types.TravelSegment{
		FromActivityID:  from.ID,
		ToActivityID:    to.ID,
		TransportMode:   mode,
		DurationMinutes: durationMinutes,
		TotalCost:       cost,
		Instructions:    instructions,
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
