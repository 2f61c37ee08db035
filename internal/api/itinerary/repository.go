package itinerary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wandermate/go-trip-planner/app/observability/metrics"
	"github.com/wandermate/go-trip-planner/internal/types"
)

// ErrItineraryNotFound is returned when no stored itinerary matches the id.
var ErrItineraryNotFound = errors.New("itinerary not found")

var _ Repository = (*RepositoryImpl)(nil)

// Repository persists finalized itineraries for downstream consumers.
type Repository interface {
	SaveItinerary(ctx context.Context, itinerary *types.TripItinerary) (uuid.UUID, error)
	GetItinerary(ctx context.Context, id uuid.UUID) (*types.TripItinerary, error)
}

type RepositoryImpl struct {
	pgpool *pgxpool.Pool
	logger *slog.Logger
}

func NewRepository(pgpool *pgxpool.Pool, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		pgpool: pgpool,
		logger: logger,
	}
}

func (r *RepositoryImpl) SaveItinerary(ctx context.Context, itinerary *types.TripItinerary) (uuid.UUID, error) {
	ctx, span := otel.Tracer("ItineraryRepository").Start(ctx, "SaveItinerary", trace.WithAttributes(
		attribute.String("itinerary.destination", itinerary.Destination),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "SaveItinerary"))
	start := time.Now()

	payload, err := json.Marshal(itinerary)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to marshal itinerary")
		return uuid.Nil, fmt.Errorf("failed to marshal itinerary: %w", err)
	}

	query := `
		INSERT INTO itineraries (id, destination, start_date, end_date, total_days, total_estimated_cost, payload)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	id := uuid.New()
	err = r.pgpool.QueryRow(ctx, query,
		id,
		itinerary.Destination,
		itinerary.StartDate,
		itinerary.EndDate,
		itinerary.TotalDays,
		itinerary.TotalEstimatedCost,
		payload,
	).Scan(&id)
	metrics.Get().DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		l.ErrorContext(ctx, "Failed to insert itinerary", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Database insert failed")
		return uuid.Nil, fmt.Errorf("failed to insert itinerary: %w", err)
	}

	l.InfoContext(ctx, "Itinerary stored", slog.String("itinerary_id", id.String()))
	return id, nil
}

func (r *RepositoryImpl) GetItinerary(ctx context.Context, id uuid.UUID) (*types.TripItinerary, error) {
	ctx, span := otel.Tracer("ItineraryRepository").Start(ctx, "GetItinerary", trace.WithAttributes(
		attribute.String("itinerary_id", id.String()),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "GetItinerary"))
	start := time.Now()

	var payload []byte
	err := r.pgpool.QueryRow(ctx, `SELECT payload FROM itineraries WHERE id = $1`, id).Scan(&payload)
	metrics.Get().DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds())
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrItineraryNotFound
	}
	if err != nil {
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		l.ErrorContext(ctx, "Failed to query itinerary", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Database query failed")
		return nil, fmt.Errorf("failed to query itinerary: %w", err)
	}

	var itinerary types.TripItinerary
	if err := json.Unmarshal(payload, &itinerary); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to unmarshal stored itinerary: %w", err)
	}
	itinerary.ID = id
	return &itinerary, nil
}
