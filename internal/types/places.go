package types

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Coordinates is an immutable latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// NewCoordinates validates the ranges before returning a value.
func NewCoordinates(lat, lon float64) (Coordinates, error) {
	if lat < -90 || lat > 90 {
		return Coordinates{}, fmt.Errorf("latitude %f out of range [-90, 90]", lat)
	}
	if lon < -180 || lon > 180 {
		return Coordinates{}, fmt.Errorf("longitude %f out of range [-180, 180]", lon)
	}
	return Coordinates{Latitude: lat, Longitude: lon}, nil
}

func (c Coordinates) String() string {
	return fmt.Sprintf("%f,%f", c.Latitude, c.Longitude)
}

// Priority ranks how important a place is to the overall trip experience.
type Priority string

const (
	PriorityEssential Priority = "Essential"
	PriorityHigh      Priority = "High"
	PriorityMedium    Priority = "Medium"
	PriorityLow       Priority = "Low"
)

// BookingType indicates whether a place requires advance booking.
type BookingType string

const (
	BookingRequired    BookingType = "Required"
	BookingRecommended BookingType = "Recommended"
	BookingNone        BookingType = "None"
)

// PlaceKind is the closed set of place variants. Cost and activity semantics
// dispatch on this tag with exhaustive switches so adding a variant fails to
// compile anywhere the new case is not handled.
type PlaceKind string

const (
	PlaceLandmark      PlaceKind = "landmark"
	PlaceEstablishment PlaceKind = "establishment"
	PlaceEvent         PlaceKind = "event"
	PlaceAccommodation PlaceKind = "accommodation"
)

// Place is a candidate point of interest produced by discovery. It is a tagged
// union over the four kinds: variant fields are only meaningful for the kind
// noted on them. Places are read-only once discovered; the planner never
// mutates them.
type Place struct {
	ID                 uuid.UUID         `json:"id"`
	Kind               PlaceKind         `json:"kind"`
	Name               string            `json:"name"`
	Coordinates        *Coordinates      `json:"coordinates,omitempty"`
	Priority           Priority          `json:"priority"`
	ReasonToGo         string            `json:"reason_to_go"`
	Website            string            `json:"website,omitempty"`
	BookingType        BookingType       `json:"booking_type"`
	TypicalHoursOfStay float64           `json:"typical_hours_of_stay"`
	WeatherDependent   bool              `json:"weather_dependent"`
	OpeningSchedule    map[string]string `json:"opening_schedule,omitempty"` // empty means open 24/7

	// Establishment only.
	EstablishmentType string  `json:"establishment_type,omitempty"`
	AveragePrice      float64 `json:"average_price,omitempty"`

	// Event only.
	DateAndTime time.Time `json:"date_and_time,omitempty"`

	// Event and Accommodation.
	PriceOptions []float64 `json:"price_options,omitempty"`
}

// EstimatedCost assumes the cheapest scenario for the place.
func (p *Place) EstimatedCost() float64 {
	switch p.Kind {
	case PlaceEstablishment:
		return p.AveragePrice
	case PlaceEvent:
		return minPriceOption(p.PriceOptions)
	case PlaceLandmark, PlaceAccommodation:
		return 0
	}
	return 0
}

// MinPriceOption returns the cheapest listed price, zero when none are listed.
func (p *Place) MinPriceOption() float64 {
	return minPriceOption(p.PriceOptions)
}

func minPriceOption(options []float64) float64 {
	if len(options) == 0 {
		return 0
	}
	min := options[0]
	for _, o := range options[1:] {
		if o < min {
			min = o
		}
	}
	return min
}

// DestinationReport is the materialized place pool for a destination, one list
// per discovery category. Discovery runs the categories independently; the
// planner only consumes the combined pool.
type DestinationReport struct {
	Landmarks      []Place `json:"landmarks"`
	Establishments []Place `json:"establishments"`
	Events         []Place `json:"events"`
	Accommodations []Place `json:"accommodations"`
}

// AllPlaces flattens the report into a single candidate pool.
func (r *DestinationReport) AllPlaces() []Place {
	all := make([]Place, 0, len(r.Landmarks)+len(r.Establishments)+len(r.Events)+len(r.Accommodations))
	all = append(all, r.Landmarks...)
	all = append(all, r.Establishments...)
	all = append(all, r.Events...)
	all = append(all, r.Accommodations...)
	return all
}
