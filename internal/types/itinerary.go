package types

import (
	"time"

	"github.com/google/uuid"
)

// ActivityType classifies a scheduled activity.
type ActivityType string

const (
	ActivitySightseeing   ActivityType = "Sightseeing"
	ActivityDining        ActivityType = "Dining"
	ActivityEvent         ActivityType = "Event"
	ActivityAccommodation ActivityType = "Accommodation"
)

// TransportMode is how to travel between two consecutive activities.
type TransportMode string

const (
	TransportWalking         TransportMode = "Walking"
	TransportPublicTransport TransportMode = "Public Transport"
	TransportTaxi            TransportMode = "Taxi"
)

// ItineraryActivity is a single scheduled activity in a day's plan.
type ItineraryActivity struct {
	ID              uuid.UUID    `json:"id"`
	PlaceID         uuid.UUID    `json:"place_id,omitempty"`
	ActivityType    ActivityType `json:"activity_type"`
	Name            string       `json:"name"`
	Description     string       `json:"description"`
	StartTime       time.Time    `json:"start_time"`
	EndTime         time.Time    `json:"end_time"`
	EstimatedCost   float64      `json:"estimated_cost"`
	Coordinates     *Coordinates `json:"coordinates,omitempty"`
	BookingRequired bool         `json:"booking_required"`
	BookingURL      string       `json:"booking_url,omitempty"`
	Notes           []string     `json:"notes,omitempty"`
}

// TravelSegment is the inferred transport leg between two consecutive
// same-day activities. Directional, exactly one adjacent pair.
type TravelSegment struct {
	FromActivityID  uuid.UUID     `json:"from_activity_id"`
	ToActivityID    uuid.UUID     `json:"to_activity_id"`
	TransportMode   TransportMode `json:"transport_mode"`
	DurationMinutes int           `json:"duration_minutes"`
	TotalCost       float64       `json:"total_cost"`
	Instructions    string        `json:"instructions"`
}

// DayItinerary is one day of the trip. Activities are kept sorted ascending
// by start time; travel segments cover adjacent geo-located pairs only.
type DayItinerary struct {
	DayDate               time.Time           `json:"day_date"`
	DayNumber             int                 `json:"day_number"`
	Theme                 string              `json:"theme,omitempty"`
	Activities            []ItineraryActivity `json:"activities"`
	TravelSegments        []TravelSegment     `json:"travel_segments,omitempty"`
	TotalEstimatedCost    float64             `json:"total_estimated_cost"`
	KeyHighlights         []string            `json:"key_highlights,omitempty"`
	WeatherConsiderations string              `json:"weather_considerations,omitempty"`
}

// BudgetTracker is the result of one budget validation pass. It is recomputed
// from scratch on every pass, never updated incrementally.
type BudgetTracker struct {
	TotalEstimatedCost float64 `json:"total_estimated_cost"`
	IsOverBudget       bool    `json:"is_over_budget"`
}

// TripItinerary is the finalized aggregate for the whole trip. It is created
// once at the end of a successful build and immutable afterwards.
type TripItinerary struct {
	ID                 uuid.UUID          `json:"id,omitempty"`
	Destination        string             `json:"destination"`
	StartDate          time.Time          `json:"start_date"`
	EndDate            time.Time          `json:"end_date"`
	TotalDays          int                `json:"total_days"`
	DailyItineraries   []DayItinerary     `json:"daily_itineraries"`
	Accommodation      Place              `json:"accommodation"`
	TotalEstimatedCost float64            `json:"total_estimated_cost"`
	BudgetBreakdown    map[string]float64 `json:"budget_breakdown"`
}
