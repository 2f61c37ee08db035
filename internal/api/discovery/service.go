package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"google.golang.org/genai"

	"github.com/wandermate/go-trip-planner/internal/types"
)

const defaultRetries = 3

// ContentGenerator is the generation backend scouting places. Implemented by
// generativeAI.AIClient.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error)
}

var _ Service = (*ServiceImpl)(nil)

// Service discovers candidate places for a destination. The four categories
// are mutually independent, so the scouts run in parallel; the combined pool
// is fully materialized before it is returned.
type Service interface {
	DiscoverPlaces(ctx context.Context, req types.TripRequest) (*types.DestinationReport, error)
}

type ServiceImpl struct {
	logger    *slog.Logger
	generator ContentGenerator
	cache     *cache.Cache
	retries   int
}

func NewService(generator ContentGenerator, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:    logger,
		generator: generator,
		cache:     cache.New(24*time.Hour, 1*time.Hour),
		retries:   defaultRetries,
	}
}

func (s *ServiceImpl) DiscoverPlaces(ctx context.Context, req types.TripRequest) (*types.DestinationReport, error) {
	ctx, span := otel.Tracer("DiscoveryService").Start(ctx, "DiscoverPlaces", trace.WithAttributes(
		attribute.String("destination", req.Destination),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "DiscoverPlaces"), slog.String("destination", req.Destination))

	cacheKey := fmt.Sprintf("destination_report:%s:%s:%s",
		strings.ToLower(req.Destination),
		req.StartDate.Format("2006-01-02"),
		req.EndDate.Format("2006-01-02"))
	if cached, found := s.cache.Get(cacheKey); found {
		if report, ok := cached.(*types.DestinationReport); ok {
			l.InfoContext(ctx, "Destination report served from cache")
			return report, nil
		}
	}

	report := &types.DestinationReport{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		places, err := s.scoutCategory(gctx, types.PlaceLandmark, landmarksPrompt(req))
		report.Landmarks = places
		return err
	})
	g.Go(func() error {
		places, err := s.scoutCategory(gctx, types.PlaceEstablishment, establishmentsPrompt(req))
		report.Establishments = places
		return err
	})
	g.Go(func() error {
		places, err := s.scoutCategory(gctx, types.PlaceEvent, eventsPrompt(req))
		report.Events = places
		return err
	})
	g.Go(func() error {
		places, err := s.scoutCategory(gctx, types.PlaceAccommodation, accommodationsPrompt(req))
		report.Accommodations = places
		return err
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Place discovery failed")
		return nil, fmt.Errorf("place discovery for %s failed: %w", req.Destination, err)
	}

	span.SetAttributes(
		attribute.Int("landmarks", len(report.Landmarks)),
		attribute.Int("establishments", len(report.Establishments)),
		attribute.Int("events", len(report.Events)),
		attribute.Int("accommodations", len(report.Accommodations)),
	)
	l.InfoContext(ctx, "Destination report assembled",
		slog.Int("landmarks", len(report.Landmarks)),
		slog.Int("establishments", len(report.Establishments)),
		slog.Int("events", len(report.Events)),
		slog.Int("accommodations", len(report.Accommodations)))

	s.cache.Set(cacheKey, report, cache.DefaultExpiration)
	return report, nil
}

// scoutCategory runs one category prompt and normalizes the response: ids are
// assigned locally, the kind tag is forced, and places with out-of-range
// coordinates are dropped.
func (s *ServiceImpl) scoutCategory(ctx context.Context, kind types.PlaceKind, prompt string) ([]types.Place, error) {
	var parsed struct {
		Report []types.Place `json:"report"`
	}

	var lastErr error
	for attempt := 1; attempt <= s.retries; attempt++ {
		txt, err := s.generator.GenerateContent(ctx, prompt, &genai.GenerateContentConfig{
			Temperature: genai.Ptr[float32](0.5),
		})
		if err != nil {
			lastErr = err
			continue
		}
		if err := json.Unmarshal([]byte(cleanJSONResponse(txt)), &parsed); err != nil {
			lastErr = fmt.Errorf("failed to parse %s report: %w", kind, err)
			continue
		}
		lastErr = nil
		break
	}
	if lastErr != nil {
		return nil, fmt.Errorf("%s scout failed after %d attempts: %w", kind, s.retries, lastErr)
	}

	places := make([]types.Place, 0, len(parsed.Report))
	for _, p := range parsed.Report {
		if p.Coordinates != nil {
			if _, err := types.NewCoordinates(p.Coordinates.Latitude, p.Coordinates.Longitude); err != nil {
				s.logger.Warn("Dropping place with invalid coordinates",
					slog.String("name", p.Name), slog.Any("error", err))
				continue
			}
		}
		p.ID = uuid.New()
		p.Kind = kind
		places = append(places, p)
	}
	return places, nil
}

// cleanJSONResponse strips markdown fences and surrounding prose from a model
// response so the JSON object inside can be unmarshalled.
func cleanJSONResponse(response string) string {
	response = strings.TrimSpace(response)

	if strings.HasPrefix(response, "```json") {
		response = strings.TrimPrefix(response, "```json")
	} else if strings.HasPrefix(response, "```") {
		response = strings.TrimPrefix(response, "```")
	}
	response = strings.TrimSuffix(strings.TrimSpace(response), "```")
	response = strings.TrimSpace(response)

	firstBrace := strings.Index(response, "{")
	if firstBrace == -1 {
		return response
	}
	lastBrace := strings.LastIndex(response, "}")
	if lastBrace == -1 || lastBrace <= firstBrace {
		return response
	}
	return strings.TrimSpace(response[firstBrace : lastBrace+1])
}
