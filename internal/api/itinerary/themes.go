package itinerary

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wandermate/go-trip-planner/internal/types"
)

// fallbackThemes is used when theme generation fails outright.
var fallbackThemes = []string{
	"Historic City Center", "Museums & Culture", "Local Neighborhoods",
	"Nature & Parks", "Food & Markets", "Hidden Gems", "Relaxation Day",
}

type dailyThemesResponse struct {
	Themes []string `json:"themes"`
}

// planDailyThemes asks the content generator for one theme per trip day. A
// short response is padded with generic exploration days; a failed call falls
// back to the static rotation.
func (s *ServiceImpl) planDailyThemes(ctx context.Context, state *buildState) error {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "planDailyThemes")
	defer span.End()

	totalDays := state.request.TotalDays()
	prompt := dailyThemesPrompt(state.request, len(state.selected))

	var resp dailyThemesResponse
	if err := s.generateJSON(ctx, prompt, &resp); err != nil {
		s.logger.WarnContext(ctx, "Theme generation failed, using fallback themes", slog.Any("error", err))
		resp.Themes = nil
		for len(resp.Themes) < totalDays {
			resp.Themes = append(resp.Themes, fallbackThemes[len(resp.Themes)%len(fallbackThemes)])
		}
	}
	if len(resp.Themes) > totalDays {
		resp.Themes = resp.Themes[:totalDays]
	}
	for i := len(resp.Themes); i < totalDays; i++ {
		resp.Themes = append(resp.Themes, fmt.Sprintf("Exploration Day %d", i+1))
	}

	state.themes = resp.Themes
	span.SetAttributes(attribute.StringSlice("themes", state.themes))
	s.logger.InfoContext(ctx, "Planned daily themes", slog.Any("themes", state.themes))
	return nil
}

// assignPlacesToDay picks the places for one day by matching the theme, then
// balances them by priority: up to 3 essential, 3 high and 2 medium. Always
// returns a non-empty set when places is non-empty.
func assignPlacesToDay(places []types.Place, theme string, rng *rand.Rand) []types.Place {
	themeLower := strings.ToLower(theme)

	var dayPlaces []types.Place
	for _, p := range places {
		if matchesTheme(&p, themeLower) {
			dayPlaces = append(dayPlaces, p)
		}
	}
	if len(dayPlaces) == 0 {
		// Weak fallback: take the head of the pool in arrival order.
		dayPlaces = places
		if len(dayPlaces) > 8 {
			dayPlaces = dayPlaces[:8]
		}
	}

	var mustSee, shouldSee, niceToSee []types.Place
	for _, p := range dayPlaces {
		switch p.Priority {
		case types.PriorityEssential:
			mustSee = append(mustSee, p)
		case types.PriorityHigh:
			shouldSee = append(shouldSee, p)
		case types.PriorityMedium:
			niceToSee = append(niceToSee, p)
		case types.PriorityLow:
		}
	}

	shufflePlaces(mustSee, rng)
	shufflePlaces(shouldSee, rng)
	shufflePlaces(niceToSee, rng)

	selected := append([]types.Place(nil), capPlaces(mustSee, 3)...)
	selected = append(selected, capPlaces(shouldSee, 3)...)
	selected = append(selected, capPlaces(niceToSee, 2)...)

	if len(selected) == 0 {
		// Everything was low priority; keep the day from starving.
		selected = dayPlaces
		if len(selected) > 8 {
			selected = selected[:8]
		}
	}
	return selected
}

// matchesTheme classifies the theme into a keyword bucket and checks the
// place text against it. Unrecognized themes match everything.
func matchesTheme(place *types.Place, theme string) bool {
	placeText := strings.ToLower(place.Name + " " + place.ReasonToGo)

	switch {
	case strings.Contains(theme, "histor"):
		return containsAny(placeText, "historic", "old", "ancient", "cathedral", "palace", "monument")
	case containsAny(theme, "museum", "culture"):
		return containsAny(placeText, "museum", "gallery", "art", "cultural", "exhibition")
	case containsAny(theme, "food", "market"):
		return place.Kind == types.PlaceEstablishment || containsAny(placeText, "market", "food", "restaurant")
	case containsAny(theme, "nature", "park"):
		return containsAny(placeText, "park", "garden", "nature", "outdoor", "beach", "mountain")
	case containsAny(theme, "neighborhood", "neighbourhood", "local"):
		return containsAny(placeText, "neighborhood", "neighbourhood", "local", "district", "quarter")
	default:
		return true
	}
}

func containsAny(text string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

func capPlaces(places []types.Place, n int) []types.Place {
	if len(places) > n {
		return places[:n]
	}
	return places
}

func shufflePlaces(places []types.Place, rng *rand.Rand) {
	if rng == nil {
		return
	}
	rng.Shuffle(len(places), func(i, j int) {
		places[i], places[j] = places[j], places[i]
	})
}
