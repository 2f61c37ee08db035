package itinerary

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wandermate/go-trip-planner/internal/types"
)

func TestAssignPlacesToDay(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	t.Run("balances priorities to at most eight places", func(t *testing.T) {
		var pool []types.Place
		for i := 0; i < 5; i++ {
			pool = append(pool, landmark(fmt.Sprintf("Must %d", i), types.PriorityEssential))
		}
		for i := 0; i < 5; i++ {
			pool = append(pool, landmark(fmt.Sprintf("Should %d", i), types.PriorityHigh))
		}
		for i := 0; i < 5; i++ {
			pool = append(pool, landmark(fmt.Sprintf("Nice %d", i), types.PriorityMedium))
		}

		day := assignPlacesToDay(pool, "anything goes", rng)

		assert.Len(t, day, 8)
		counts := map[types.Priority]int{}
		for _, p := range day {
			counts[p.Priority]++
		}
		assert.Equal(t, 3, counts[types.PriorityEssential])
		assert.Equal(t, 3, counts[types.PriorityHigh])
		assert.Equal(t, 2, counts[types.PriorityMedium])
	})

	t.Run("non-empty even when everything is low priority", func(t *testing.T) {
		pool := []types.Place{
			landmark("Low A", types.PriorityLow),
			landmark("Low B", types.PriorityLow),
		}
		day := assignPlacesToDay(pool, "historic", rng)
		assert.NotEmpty(t, day)
	})

	t.Run("theme filter keeps matching places", func(t *testing.T) {
		museum := types.Place{
			Kind: types.PlaceLandmark, Name: "City Museum",
			Priority: types.PriorityHigh, ReasonToGo: "famous gallery",
		}
		beach := types.Place{
			Kind: types.PlaceLandmark, Name: "Sunny Beach",
			Priority: types.PriorityHigh, ReasonToGo: "relax outdoors",
		}
		day := assignPlacesToDay([]types.Place{museum, beach}, "museum", rng)

		assert.Len(t, day, 1)
		assert.Equal(t, "City Museum", day[0].Name)
	})
}

func TestMatchesTheme(t *testing.T) {
	cases := []struct {
		name    string
		place   types.Place
		theme   string
		matches bool
	}{
		{
			name:    "historic keyword",
			place:   types.Place{Name: "Old Cathedral", ReasonToGo: "gothic architecture"},
			theme:   "historic",
			matches: true,
		},
		{
			name:    "historic miss",
			place:   types.Place{Name: "Aquarium", ReasonToGo: "sea life"},
			theme:   "historic",
			matches: false,
		},
		{
			name:    "food matches establishments by kind",
			place:   types.Place{Kind: types.PlaceEstablishment, Name: "Bistro", ReasonToGo: "lunch"},
			theme:   "food",
			matches: true,
		},
		{
			name:    "nature keyword",
			place:   types.Place{Name: "Botanical Garden", ReasonToGo: "quiet walks"},
			theme:   "park",
			matches: true,
		},
		{
			name:    "unknown theme matches everything",
			place:   types.Place{Name: "Random Spot", ReasonToGo: "no particular reason"},
			theme:   "surprises",
			matches: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.matches, matchesTheme(&tc.place, tc.theme))
		})
	}
}
