package itinerary

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wandermate/go-trip-planner/internal/types"
)

// ErrNoAccommodations is returned when discovery produced no accommodation
// candidates for the destination.
var ErrNoAccommodations = errors.New("no accommodations available")

var accommodationPriorityWeights = map[types.Priority]float64{
	types.PriorityEssential: 3,
	types.PriorityHigh:      2,
	types.PriorityMedium:    1,
	types.PriorityLow:       0,
}

// allocateAccommodation picks the accommodation for the whole trip from the
// discovered list.
func (s *ServiceImpl) allocateAccommodation(ctx context.Context, state *buildState) error {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "allocateAccommodation")
	defer span.End()

	chosen, err := selectBestAccommodation(state.report.Accommodations, state.request)
	if err != nil {
		return err
	}
	state.accommodation = chosen

	span.SetAttributes(attribute.String("accommodation.name", chosen.Name))
	s.logger.InfoContext(ctx, "Allocated accommodation",
		slog.String("name", chosen.Name),
		slog.Float64("nightly_price", chosen.MinPriceOption()))
	return nil
}

// selectBestAccommodation filters the candidates by affordability, then ranks
// the survivors on a priority/price composite. When nothing is affordable the
// cheapest option wins.
func selectBestAccommodation(accommodations []types.Place, req types.TripRequest) (types.Place, error) {
	if len(accommodations) == 0 {
		return types.Place{}, ErrNoAccommodations
	}

	// Trips shorter than a day still book one night.
	nights := req.TotalNights()
	if nights < 1 {
		nights = 1
	}
	budgetPerNightPerPerson := req.Budget / float64(req.Travelers) / float64(nights)

	var affordable []types.Place
	for _, acc := range accommodations {
		if acc.MinPriceOption() <= budgetPerNightPerPerson*1.2 {
			affordable = append(affordable, acc)
		}
	}

	if len(affordable) == 0 {
		cheapest := accommodations[0]
		for _, acc := range accommodations[1:] {
			if acc.MinPriceOption() < cheapest.MinPriceOption() {
				cheapest = acc
			}
		}
		return cheapest, nil
	}

	minPrice := affordable[0].MinPriceOption()
	maxPrice := minPrice
	for _, acc := range affordable[1:] {
		p := acc.MinPriceOption()
		if p < minPrice {
			minPrice = p
		}
		if p > maxPrice {
			maxPrice = p
		}
	}

	best := affordable[0]
	bestScore := -1.0
	for _, acc := range affordable {
		score := accommodationPriorityWeights[acc.Priority]
		if maxPrice > minPrice {
			// Cheaper is better.
			priceScore := 1 - (acc.MinPriceOption()-minPrice)/(maxPrice-minPrice)
			score += priceScore * 2
		}
		if score > bestScore {
			bestScore = score
			best = acc
		}
	}
	return best, nil
}
