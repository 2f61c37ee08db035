package itinerary

import (
	"sort"
	"strings"

	"github.com/wandermate/go-trip-planner/internal/types"
)

// maxActivitiesPerDay caps how many selected places one trip day can consume.
const maxActivitiesPerDay = 6

// budgetSafetyFactor keeps the greedy selection below the full per-person
// budget so travel and accommodation costs have headroom.
const budgetSafetyFactor = 0.8

var priorityWeights = map[types.Priority]float64{
	types.PriorityEssential: 10.0,
	types.PriorityHigh:      7.0,
	types.PriorityMedium:    4.0,
	types.PriorityLow:       1.0,
}

var romanticKeywords = []string{"romantic", "sunset", "view", "garden", "park"}

// selectPlaces scores the candidate pool against the trip request and greedily
// admits the best places while tracking the running cost. Essential places are
// admitted regardless of budget as long as the day-count cap holds.
func selectPlaces(places []types.Place, req types.TripRequest) []types.Place {
	scored := make([]types.Place, len(places))
	copy(scored, places)

	scores := make(map[int]float64, len(scored))
	for i := range scored {
		scores[i] = placeScore(&scored[i], req)
	}
	order := make([]int, len(scored))
	for i := range order {
		order[i] = i
	}
	// Stable on ties: input order is preserved.
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	maxTotal := req.TotalDays() * maxActivitiesPerDay
	budgetPerPerson := req.Budget / float64(req.Travelers)

	var selected []types.Place
	runningCost := 0.0
	for _, idx := range order {
		place := scored[idx]
		cost := place.EstimatedCost()

		if len(selected) < maxTotal && runningCost+cost <= budgetPerPerson*budgetSafetyFactor {
			selected = append(selected, place)
			runningCost += cost
		} else if place.Priority == types.PriorityEssential && len(selected) < maxTotal {
			// Essential places go in regardless of budget.
			selected = append(selected, place)
		}
	}
	return selected
}

// placeScore computes the relevance score for a place given the trip request.
func placeScore(place *types.Place, req types.TripRequest) float64 {
	score := priorityWeights[place.Priority]

	placeText := strings.ToLower(place.Name + " " + place.ReasonToGo)
	for _, interest := range req.Interests {
		if strings.Contains(placeText, strings.ToLower(interest)) {
			score += 2.0
		}
	}

	switch req.TripType {
	case types.TripTypeFriends, types.TripTypeGroup:
		// Boost restaurants and social spots.
		if place.Kind == types.PlaceEstablishment {
			score += 1.0
		}
	case types.TripTypeCouple:
		reason := strings.ToLower(place.ReasonToGo)
		for _, keyword := range romanticKeywords {
			if strings.Contains(reason, keyword) {
				score += 1.5
				break
			}
		}
	case types.TripTypeSolo:
	}

	return score
}
