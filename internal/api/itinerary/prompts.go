package itinerary

import (
	"encoding/json"
	"fmt"

	"github.com/wandermate/go-trip-planner/internal/types"
)

func dailyThemesPrompt(req types.TripRequest, placeCount int) string {
	return fmt.Sprintf(`Plan %d daily themes for a trip to %s.

Trip details:
%s

Available places: %d locations

Create logical themes that:
1. Group related activities/areas together
2. Consider travel logistics (don't zigzag across the city)
3. Balance must-see attractions with interests
4. Account for opening hours and booking requirements

Respond with JSON only:
{"themes": ["<theme for day 1>", "<theme for day 2>", ...]}`,
		req.TotalDays(), req.Destination, req.FormatForPrompt(), placeCount)
}

func dayActivitiesPrompt(landmarks, establishments, events []types.Place) (string, error) {
	landmarksJSON, err := json.Marshal(landmarks)
	if err != nil {
		return "", err
	}
	establishmentsJSON, err := json.Marshal(establishments)
	if err != nil {
		return "", err
	}
	eventsJSON, err := json.Marshal(events)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(`Consider the following places:
- Landmarks:
%s

- Establishments (Restaurants, Cafes, etc.):
%s

- Events:
%s

Your task is to create activities for the entire day and organize them.
Reference places by their "id" field.

Respond with JSON only:
{"activities": [{"place_id": "<uuid>", "start_time": "09:00", "duration_hours": 1.5}, ...]}`,
		landmarksJSON, establishmentsJSON, eventsJSON), nil
}

func travelOptionsPrompt(destination string) string {
	return fmt.Sprintf(`Search for trusted sources on transport fares in %s. Specifically:
- The standard public transport fare (average for buses, metro, etc.)
- The base taxi fare

Convert all currencies to EUR.

Respond with JSON only:
{"average_public_transport_fare": <number>, "base_taxi_fare": <number>}`, destination)
}
