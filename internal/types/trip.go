package types

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// TripType describes the group travelling together.
type TripType string

const (
	TripTypeSolo    TripType = "solo"
	TripTypeCouple  TripType = "couple"
	TripTypeFriends TripType = "friends"
	TripTypeGroup   TripType = "group"
)

// TripRequest is the user's initial input: where, when, who and with what budget.
type TripRequest struct {
	Destination string    `json:"destination"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Budget      float64   `json:"budget"`
	Travelers   int       `json:"travelers"`
	TripType    TripType  `json:"trip_type"`
	Interests   []string  `json:"interests"`
}

// Validate rejects malformed requests before the planning pipeline starts.
func (t *TripRequest) Validate() error {
	if strings.TrimSpace(t.Destination) == "" {
		return errors.New("destination must not be empty")
	}
	if !t.StartDate.Before(t.EndDate) {
		return errors.New("start date needs to be before end date")
	}
	if t.EndDate.Before(time.Now().Truncate(24 * time.Hour)) {
		return errors.New("cannot plan a trip in the past")
	}
	if t.Budget <= 0 {
		return errors.New("budget must be positive")
	}
	if t.Travelers <= 0 {
		return errors.New("travelers must be positive")
	}
	if len(t.Interests) == 0 {
		return errors.New("at least one interest is required")
	}
	switch t.TripType {
	case TripTypeSolo, TripTypeCouple, TripTypeFriends, TripTypeGroup:
	default:
		return fmt.Errorf("unknown trip type %q", t.TripType)
	}
	return nil
}

// TotalNights is the number of nights between the start and end dates.
func (t *TripRequest) TotalNights() int {
	return int(t.EndDate.Sub(t.StartDate).Hours() / 24)
}

// TotalDays is inclusive of both the start and end date.
func (t *TripRequest) TotalDays() int {
	return t.TotalNights() + 1
}

// FormatInterests joins the interests for use inside prompts.
func (t *TripRequest) FormatInterests() string {
	titled := make([]string, len(t.Interests))
	for i, interest := range t.Interests {
		titled[i] = strings.Title(interest) //nolint:staticcheck // prompt cosmetics only
	}
	return strings.Join(titled, ", ")
}

// FormatForPrompt renders the trip parameters the way the content generation
// prompts expect them.
func (t *TripRequest) FormatForPrompt() string {
	return fmt.Sprintf(`- Duration: %d days (%s to %s)
- Budget: %.2f EUR
- Group: %d travelers - '%s' trip
- Interests: %s`,
		t.TotalDays(),
		t.StartDate.Format("2006-01-02"),
		t.EndDate.Format("2006-01-02"),
		t.Budget,
		t.Travelers,
		t.TripType,
		t.FormatInterests())
}
