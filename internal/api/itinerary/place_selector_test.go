package itinerary

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/wandermate/go-trip-planner/internal/types"
)

func tripRequest(days int, budget float64, travelers int, tripType types.TripType, interests ...string) types.TripRequest {
	start := time.Now().AddDate(0, 1, 0).Truncate(24 * time.Hour)
	return types.TripRequest{
		Destination: "Lisbon",
		StartDate:   start,
		EndDate:     start.AddDate(0, 0, days-1),
		Budget:      budget,
		Travelers:   travelers,
		TripType:    tripType,
		Interests:   interests,
	}
}

func landmark(name string, priority types.Priority) types.Place {
	return types.Place{
		ID:         uuid.New(),
		Kind:       types.PlaceLandmark,
		Name:       name,
		Priority:   priority,
		ReasonToGo: "worth a visit",
	}
}

func restaurant(name string, priority types.Priority, avgPrice float64) types.Place {
	return types.Place{
		ID:                uuid.New(),
		Kind:              types.PlaceEstablishment,
		Name:              name,
		Priority:          priority,
		ReasonToGo:        "great local food",
		EstablishmentType: "restaurant",
		AveragePrice:      avgPrice,
	}
}

func TestSelectPlaces(t *testing.T) {
	t.Run("essential places bypass the budget cap", func(t *testing.T) {
		// 10 essential paid places plus 5 cheap low-priority ones against a
		// budget that only covers a fraction of the essentials. Essentials
		// must all survive; low-priority padding must not push past budget.
		var pool []types.Place
		for i := 0; i < 10; i++ {
			pool = append(pool, restaurant(fmt.Sprintf("Essential %d", i), types.PriorityEssential, 50))
		}
		for i := 0; i < 5; i++ {
			pool = append(pool, restaurant(fmt.Sprintf("Filler %d", i), types.PriorityLow, 200))
		}

		req := tripRequest(3, 900, 2, types.TripTypeSolo, "food")
		selected := selectPlaces(pool, req)

		assert.Len(t, selected, 10)
		for _, p := range selected {
			assert.Equal(t, types.PriorityEssential, p.Priority)
		}
	})

	t.Run("never exceeds the day-count cap", func(t *testing.T) {
		var pool []types.Place
		for i := 0; i < 40; i++ {
			pool = append(pool, landmark(fmt.Sprintf("Landmark %d", i), types.PriorityEssential))
		}

		req := tripRequest(2, 5000, 2, types.TripTypeSolo, "history")
		selected := selectPlaces(pool, req)

		assert.Len(t, selected, 2*maxActivitiesPerDay)
	})

	t.Run("free places are admitted up to the cap", func(t *testing.T) {
		var pool []types.Place
		for i := 0; i < 10; i++ {
			pool = append(pool, landmark(fmt.Sprintf("Landmark %d", i), types.PriorityMedium))
		}

		req := tripRequest(3, 100, 4, types.TripTypeSolo, "history")
		selected := selectPlaces(pool, req)

		assert.Len(t, selected, 10)
	})

	t.Run("higher scored places win under a tight budget", func(t *testing.T) {
		cheapHigh := restaurant("High Pick", types.PriorityHigh, 30)
		expensiveLow := restaurant("Low Pick", types.PriorityLow, 30)

		req := tripRequest(1, 40, 1, types.TripTypeSolo, "food")
		selected := selectPlaces([]types.Place{expensiveLow, cheapHigh}, req)

		assert.Len(t, selected, 1)
		assert.Equal(t, "High Pick", selected[0].Name)
	})
}

func TestPlaceScore(t *testing.T) {
	t.Run("priority weights", func(t *testing.T) {
		req := tripRequest(2, 500, 1, types.TripTypeSolo, "architecture")
		essential := landmark("Castle", types.PriorityEssential)
		low := landmark("Fountain", types.PriorityLow)

		assert.Equal(t, 10.0, placeScore(&essential, req))
		assert.Equal(t, 1.0, placeScore(&low, req))
	})

	t.Run("interest match adds two per interest", func(t *testing.T) {
		req := tripRequest(2, 500, 1, types.TripTypeSolo, "museum", "art")
		p := types.Place{
			Kind:       types.PlaceLandmark,
			Name:       "National Museum",
			Priority:   types.PriorityMedium,
			ReasonToGo: "renowned art collection",
		}
		assert.Equal(t, 4.0+2.0+2.0, placeScore(&p, req))
	})

	t.Run("friends trips boost establishments", func(t *testing.T) {
		req := tripRequest(2, 500, 3, types.TripTypeFriends, "nightlife")
		p := restaurant("Tapas Bar", types.PriorityMedium, 20)
		assert.Equal(t, 4.0+1.0, placeScore(&p, req))
	})

	t.Run("couple trips boost romantic spots once", func(t *testing.T) {
		req := tripRequest(2, 500, 2, types.TripTypeCouple, "wine")
		p := types.Place{
			Kind:       types.PlaceLandmark,
			Name:       "Miradouro",
			Priority:   types.PriorityMedium,
			ReasonToGo: "romantic sunset view over the garden",
		}
		// Multiple romantic keywords still count once.
		assert.Equal(t, 4.0+1.5, placeScore(&p, req))
	})
}
