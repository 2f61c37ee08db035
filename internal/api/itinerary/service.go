package itinerary

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"

	"github.com/wandermate/go-trip-planner/app/observability/metrics"
	"github.com/wandermate/go-trip-planner/internal/types"
)

const defaultTemperature = 0.5

// ContentGenerator is the content generation collaborator. Implemented by
// generativeAI.AIClient; mocked in tests.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error)
}

// Ensure implementation satisfies the interface
var _ Service = (*ServiceImpl)(nil)

// Service defines the business logic contract for itinerary building.
type Service interface {
	BuildItinerary(ctx context.Context, req types.TripRequest, report *types.DestinationReport) (*types.TripItinerary, error)
	SaveItinerary(ctx context.Context, itinerary *types.TripItinerary) (uuid.UUID, error)
	GetItinerary(ctx context.Context, id uuid.UUID) (*types.TripItinerary, error)
}

// Options carries the planner knobs from configuration.
type Options struct {
	MaxReplanAttempts int
	GenerationRetries int
	Temperature       float32
}

func (o Options) withDefaults() Options {
	if o.MaxReplanAttempts <= 0 {
		o.MaxReplanAttempts = 5
	}
	if o.GenerationRetries <= 0 {
		o.GenerationRetries = 3
	}
	if o.Temperature <= 0 {
		o.Temperature = defaultTemperature
	}
	return o
}

// ServiceImpl drives the itinerary pipeline: place selection, theme planning,
// accommodation allocation, day schedules, route optimization and the
// budget-validation replan loop.
type ServiceImpl struct {
	logger    *slog.Logger
	generator ContentGenerator
	repo      Repository
	cache     *cache.Cache
	opts      Options
}

// NewService creates a new itinerary service instance.
func NewService(generator ContentGenerator, repo Repository, opts Options, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:    logger,
		generator: generator,
		repo:      repo,
		cache:     cache.New(24*time.Hour, 1*time.Hour),
		opts:      opts.withDefaults(),
	}
}

// buildStage names the states of the build workflow.
type buildStage string

const (
	stageFilterPlaces          buildStage = "filter_places"
	stagePlanThemes            buildStage = "plan_themes"
	stageAllocateAccommodation buildStage = "allocate_accommodation"
	stageBuildSchedules        buildStage = "build_daily_schedules"
	stageOptimizeRoutes        buildStage = "optimize_routes"
	stageValidateBudget        buildStage = "validate_budget"
	stageFinalize              buildStage = "finalize"
)

// buildState is the state object passed between workflow stages. Each build
// owns its own state, including the rng; math/rand.Rand is not safe for
// concurrent use and builds run on concurrent requests.
type buildState struct {
	request       types.TripRequest
	report        *types.DestinationReport
	rng           *rand.Rand
	selected      []types.Place
	available     []types.Place // remaining pool snapshot carried across days
	themes        []string
	accommodation types.Place
	travelOptions TravelSegmentOptions
	days          []types.DayItinerary
	budget        types.BudgetTracker
}

// BuildItinerary runs the full workflow and returns the finalized itinerary.
// When the budget check fails, day construction is re-run (without restarting
// place selection) up to Options.MaxReplanAttempts times; after that the
// cheapest itinerary seen is accepted with a warning.
func (s *ServiceImpl) BuildItinerary(ctx context.Context, req types.TripRequest, report *types.DestinationReport) (*types.TripItinerary, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "BuildItinerary", trace.WithAttributes(
		attribute.String("trip.destination", req.Destination),
		attribute.Int("trip.days", req.TotalDays()),
		attribute.Float64("trip.budget", req.Budget),
	))
	defer span.End()

	start := time.Now()
	l := s.logger.With(slog.String("method", "BuildItinerary"), slog.String("destination", req.Destination))

	if err := req.Validate(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid trip request")
		return nil, fmt.Errorf("invalid trip request: %w", err)
	}
	if report == nil || len(report.AllPlaces()) == 0 {
		err := fmt.Errorf("itinerary build failed at %s: empty place pool", stageFilterPlaces)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Empty place pool")
		return nil, err
	}

	state := &buildState{
		request: req,
		report:  report,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	var (
		bestDays []types.DayItinerary
		bestCost = -1.0
		attempt  = 0
	)

	stage := stageFilterPlaces
	for stage != stageFinalize {
		var err error
		current := stage
		switch stage {
		case stageFilterPlaces:
			err = s.filterPlaces(ctx, state)
			stage = stagePlanThemes
		case stagePlanThemes:
			err = s.planDailyThemes(ctx, state)
			stage = stageAllocateAccommodation
		case stageAllocateAccommodation:
			err = s.allocateAccommodation(ctx, state)
			stage = stageBuildSchedules
		case stageBuildSchedules:
			err = s.buildDailySchedules(ctx, state)
			stage = stageOptimizeRoutes
		case stageOptimizeRoutes:
			s.optimizeRoutes(ctx, state)
			stage = stageValidateBudget
		case stageValidateBudget:
			state.budget = validateBudget(state.request, state.days)
			if bestCost < 0 || state.budget.TotalEstimatedCost < bestCost {
				bestCost = state.budget.TotalEstimatedCost
				bestDays = state.days
			}
			if state.budget.IsOverBudget && attempt < s.opts.MaxReplanAttempts {
				attempt++
				metrics.Get().ReplanIterationsTotal.Add(ctx, 1)
				l.WarnContext(ctx, "Overshot budget with current itinerary, replanning",
					slog.Float64("total_cost", state.budget.TotalEstimatedCost),
					slog.Float64("budget", req.Budget),
					slog.Int("attempt", attempt))
				stage = stageBuildSchedules
				continue
			}
			if state.budget.IsOverBudget {
				// Retry ceiling reached: accept the cheapest plan found so far.
				l.WarnContext(ctx, "Replan attempts exhausted, accepting cheapest itinerary found",
					slog.Float64("best_cost", bestCost),
					slog.Float64("budget", req.Budget))
				state.days = bestDays
				state.budget = validateBudget(state.request, state.days)
			}
			stage = stageFinalize
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Itinerary build failed")
			return nil, fmt.Errorf("itinerary build failed at %s: %w", current, err)
		}
	}

	itinerary := s.finalizeItinerary(state)
	span.SetAttributes(
		attribute.Float64("itinerary.total_cost", itinerary.TotalEstimatedCost),
		attribute.Int("itinerary.replan_attempts", attempt),
	)
	metrics.Get().ItineraryBuildsTotal.Add(ctx, 1)
	metrics.Get().ItineraryBuildDurationSeconds.Record(ctx, time.Since(start).Seconds())
	l.InfoContext(ctx, "Itinerary build complete",
		slog.Int("days", len(itinerary.DailyItineraries)),
		slog.Float64("total_cost", itinerary.TotalEstimatedCost),
		slog.Int("replan_attempts", attempt))
	return itinerary, nil
}

func (s *ServiceImpl) filterPlaces(ctx context.Context, state *buildState) error {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "filterPlaces")
	defer span.End()

	all := state.report.AllPlaces()
	state.selected = selectPlaces(all, state.request)
	if len(state.selected) == 0 {
		return fmt.Errorf("no places selected from pool of %d", len(all))
	}
	state.available = append([]types.Place(nil), state.selected...)

	span.SetAttributes(attribute.Int("places.selected", len(state.selected)))
	s.logger.InfoContext(ctx, "Filtered and prioritized places",
		slog.Int("pool", len(all)), slog.Int("selected", len(state.selected)))
	return nil
}

func (s *ServiceImpl) finalizeItinerary(state *buildState) *types.TripItinerary {
	req := state.request
	return &types.TripItinerary{
		Destination:        req.Destination,
		StartDate:          req.StartDate,
		EndDate:            req.EndDate,
		TotalDays:          req.TotalDays(),
		DailyItineraries:   state.days,
		Accommodation:      state.accommodation,
		TotalEstimatedCost: state.budget.TotalEstimatedCost,
		BudgetBreakdown:    budgetBreakdown(state.accommodation, state.days, req.Travelers),
	}
}

// SaveItinerary persists a finalized itinerary through the repository.
func (s *ServiceImpl) SaveItinerary(ctx context.Context, itinerary *types.TripItinerary) (uuid.UUID, error) {
	return s.repo.SaveItinerary(ctx, itinerary)
}

// GetItinerary loads a previously stored itinerary.
func (s *ServiceImpl) GetItinerary(ctx context.Context, id uuid.UUID) (*types.TripItinerary, error) {
	return s.repo.GetItinerary(ctx, id)
}

func (s *ServiceImpl) genConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{Temperature: genai.Ptr[float32](s.opts.Temperature)}
}
