package discovery

import (
	"fmt"

	"github.com/wandermate/go-trip-planner/internal/types"
)

const commonPlaceFields = `"name": "string",
      "coordinates": {"latitude": 0.0, "longitude": 0.0},
      "priority": "Essential|High|Medium|Low",
      "reason_to_go": "one sentence",
      "website": "string or omit",
      "booking_type": "Required|Recommended|None",
      "typical_hours_of_stay": 1.5,
      "weather_dependent": false,
      "opening_schedule": {"monday": "09:00-18:00"}`

func landmarksPrompt(req types.TripRequest) string {
	return fmt.Sprintf(`You are a local travel expert for %s.
List the 15 landmarks and attractions that best match this trip:
%s

Return ONLY valid JSON in this exact format:
{
  "report": [
    {
      %s
    }
  ]
}`, req.Destination, req.FormatForPrompt(), commonPlaceFields)
}

func establishmentsPrompt(req types.TripRequest) string {
	return fmt.Sprintf(`You are a local food and nightlife expert for %s.
List the 12 restaurants, cafes and bars that best match this trip:
%s

Return ONLY valid JSON in this exact format:
{
  "report": [
    {
      %s,
      "establishment_type": "restaurant|cafe|bar",
      "average_price": 25.0
    }
  ]
}
average_price is the expected spend per person in EUR.`, req.Destination, req.FormatForPrompt(), commonPlaceFields)
}

func eventsPrompt(req types.TripRequest) string {
	return fmt.Sprintf(`You are a local events expert for %s.
List concerts, exhibitions, festivals and shows happening between %s and %s
that match this trip:
%s

Return ONLY valid JSON in this exact format:
{
  "report": [
    {
      %s,
      "date_and_time": "2026-05-01T20:00:00Z",
      "price_options": [15.0, 30.0]
    }
  ]
}
date_and_time must be RFC 3339. price_options lists ticket tiers in EUR,
cheapest first. Omit events outside the trip dates.`,
		req.Destination,
		req.StartDate.Format("2006-01-02"), req.EndDate.Format("2006-01-02"),
		req.FormatForPrompt(), commonPlaceFields)
}

func accommodationsPrompt(req types.TripRequest) string {
	return fmt.Sprintf(`You are an accommodation expert for %s.
List 8 places to stay that match this trip:
%s

Return ONLY valid JSON in this exact format:
{
  "report": [
    {
      %s,
      "price_options": [80.0, 120.0]
    }
  ]
}
price_options lists nightly room rates in EUR, cheapest first.`,
		req.Destination, req.FormatForPrompt(), commonPlaceFields)
}
