package itinerary

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wandermate/go-trip-planner/internal/types"
)

func TestHaversineKm(t *testing.T) {
	paris := types.Coordinates{Latitude: 48.8566, Longitude: 2.3522}
	london := types.Coordinates{Latitude: 51.5074, Longitude: -0.1278}

	t.Run("identical points are zero distance", func(t *testing.T) {
		assert.Zero(t, haversineKm(paris, paris))
	})

	t.Run("symmetric", func(t *testing.T) {
		assert.Equal(t, haversineKm(paris, london), haversineKm(london, paris))
	})

	t.Run("known city pair", func(t *testing.T) {
		// Paris to London is roughly 344 km great-circle.
		d := haversineKm(paris, london)
		assert.InDelta(t, 344, d, 2)
	})

	t.Run("short hop", func(t *testing.T) {
		a := types.Coordinates{Latitude: 48.8566, Longitude: 2.3522}
		b := types.Coordinates{Latitude: 48.8606, Longitude: 2.3522}
		d := haversineKm(a, b)
		assert.InDelta(t, 0.44, d, 0.02)
	})
}
