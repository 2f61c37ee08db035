package itinerary

import (
	"github.com/wandermate/go-trip-planner/internal/types"
)

// validateBudget sums every day's estimated cost and flags the result against
// the trip budget. Always computed from scratch.
func validateBudget(req types.TripRequest, days []types.DayItinerary) types.BudgetTracker {
	total := 0.0
	for _, day := range days {
		total += day.TotalEstimatedCost
	}
	return types.BudgetTracker{
		TotalEstimatedCost: total,
		IsOverBudget:       total > req.Budget,
	}
}

// budgetBreakdown splits the trip cost by category. Accommodation is priced
// per night per room and scaled by the group size; dining and event costs are
// per person; attraction and transportation costs are already trip totals.
func budgetBreakdown(accommodation types.Place, days []types.DayItinerary, travelers int) map[string]float64 {
	nights := len(days) - 1
	if nights < 1 {
		nights = 1
	}

	breakdown := map[string]float64{
		"accommodation":  accommodation.MinPriceOption() * float64(nights) * float64(travelers),
		"dining":         0,
		"attractions":    0,
		"transportation": 0,
		"events":         0,
	}

	for _, day := range days {
		for _, activity := range day.Activities {
			switch activity.ActivityType {
			case types.ActivityDining:
				breakdown["dining"] += activity.EstimatedCost * float64(travelers)
			case types.ActivityEvent:
				breakdown["events"] += activity.EstimatedCost * float64(travelers)
			case types.ActivityAccommodation:
				// Counted by the per-night formula above.
			case types.ActivitySightseeing:
				breakdown["attractions"] += activity.EstimatedCost
			}
		}
		for _, segment := range day.TravelSegments {
			breakdown["transportation"] += segment.TotalCost
		}
	}

	total := 0.0
	for _, v := range breakdown {
		total += v
	}
	breakdown["total"] = total
	return breakdown
}
