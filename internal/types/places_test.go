package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlace_EstimatedCost(t *testing.T) {
	t.Run("landmarks are free", func(t *testing.T) {
		p := Place{Kind: PlaceLandmark, Name: "Tower"}
		assert.Zero(t, p.EstimatedCost())
	})

	t.Run("establishments cost the average price", func(t *testing.T) {
		p := Place{Kind: PlaceEstablishment, Name: "Cafe", AveragePrice: 12.5}
		assert.Equal(t, 12.5, p.EstimatedCost())
	})

	t.Run("events cost the cheapest ticket tier", func(t *testing.T) {
		p := Place{Kind: PlaceEvent, Name: "Festival", PriceOptions: []float64{45, 20, 90}}
		assert.Equal(t, 20.0, p.EstimatedCost())
	})

	t.Run("events without listed prices are free", func(t *testing.T) {
		p := Place{Kind: PlaceEvent, Name: "Street Parade"}
		assert.Zero(t, p.EstimatedCost())
	})

	t.Run("accommodation nightly rates are handled separately", func(t *testing.T) {
		p := Place{Kind: PlaceAccommodation, Name: "Hotel", PriceOptions: []float64{80}}
		assert.Zero(t, p.EstimatedCost())
		assert.Equal(t, 80.0, p.MinPriceOption())
	})
}

func TestDestinationReport_AllPlaces(t *testing.T) {
	report := DestinationReport{
		Landmarks:      []Place{{Name: "A"}, {Name: "B"}},
		Establishments: []Place{{Name: "C"}},
		Events:         []Place{{Name: "D"}},
		Accommodations: []Place{{Name: "E"}},
	}

	all := report.AllPlaces()
	assert.Len(t, all, 5)
	assert.Equal(t, "A", all[0].Name)
	assert.Equal(t, "E", all[4].Name)
}
