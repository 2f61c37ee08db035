package itinerary

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/wandermate/go-trip-planner/internal/api"
	"github.com/wandermate/go-trip-planner/internal/api/discovery"
	"github.com/wandermate/go-trip-planner/internal/types"
)

// PlanTripRequest is the JSON body for POST /itineraries.
type PlanTripRequest struct {
	Destination string   `json:"destination"`
	StartDate   string   `json:"start_date"` // YYYY-MM-DD
	EndDate     string   `json:"end_date"`   // YYYY-MM-DD
	Budget      float64  `json:"budget"`
	Travelers   int      `json:"travelers"`
	TripType    string   `json:"trip_type"`
	Interests   []string `json:"interests"`
}

// PlanTripResponse wraps the stored itinerary and its id.
type PlanTripResponse struct {
	ID        uuid.UUID            `json:"id"`
	Itinerary *types.TripItinerary `json:"itinerary"`
}

type HandlerImpl struct {
	itineraryService Service
	discoveryService discovery.Service
	logger           *slog.Logger
}

func NewHandler(itineraryService Service, discoveryService discovery.Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		itineraryService: itineraryService,
		discoveryService: discoveryService,
		logger:           logger,
	}
}

// PlanTrip discovers candidate places for the destination, builds the
// itinerary and stores the result.
func (h *HandlerImpl) PlanTrip(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "PlanTrip")
	defer span.End()

	l := h.logger.With(slog.String("handler", "PlanTrip"))

	var body PlanTripRequest
	if err := api.DecodeJSONBody(w, r, &body); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	req, err := body.toTripRequest()
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	span.SetAttributes(attribute.String("trip.destination", req.Destination), attribute.Int("trip.days", req.TotalDays()))

	report, err := h.discoveryService.DiscoverPlaces(ctx, req)
	if err != nil {
		l.ErrorContext(ctx, "Place discovery failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadGateway, "place discovery failed")
		return
	}

	itinerary, err := h.itineraryService.BuildItinerary(ctx, req, report)
	if err != nil {
		l.ErrorContext(ctx, "Itinerary build failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	id, err := h.itineraryService.SaveItinerary(ctx, itinerary)
	if err != nil {
		l.ErrorContext(ctx, "Failed to store itinerary", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "failed to store itinerary")
		return
	}
	itinerary.ID = id

	api.WriteJSONResponse(w, r, http.StatusCreated, PlanTripResponse{ID: id, Itinerary: itinerary})
}

// GetTrip returns a previously stored itinerary by id.
func (h *HandlerImpl) GetTrip(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "GetTrip", trace.WithAttributes(
		attribute.String("itinerary_id", chi.URLParam(r, "itineraryID")),
	))
	defer span.End()

	id, err := uuid.Parse(chi.URLParam(r, "itineraryID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "invalid itinerary id")
		return
	}

	itinerary, err := h.itineraryService.GetItinerary(ctx, id)
	if errors.Is(err, ErrItineraryNotFound) {
		api.ErrorResponse(w, r, http.StatusNotFound, "itinerary not found")
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to load itinerary", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "failed to load itinerary")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, itinerary)
}

func (b *PlanTripRequest) toTripRequest() (types.TripRequest, error) {
	start, err := time.Parse("2006-01-02", b.StartDate)
	if err != nil {
		return types.TripRequest{}, errors.New("start_date must be formatted as YYYY-MM-DD")
	}
	end, err := time.Parse("2006-01-02", b.EndDate)
	if err != nil {
		return types.TripRequest{}, errors.New("end_date must be formatted as YYYY-MM-DD")
	}
	return types.TripRequest{
		Destination: b.Destination,
		StartDate:   start,
		EndDate:     end,
		Budget:      b.Budget,
		Travelers:   b.Travelers,
		TripType:    types.TripType(b.TripType),
		Interests:   b.Interests,
	}, nil
}
