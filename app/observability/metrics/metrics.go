package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
// Make fields public so they can be accessed from other packages.
type AppMetrics struct {
	ItineraryBuildsTotal          metric.Int64Counter
	ItineraryBuildDurationSeconds metric.Float64Histogram
	ReplanIterationsTotal         metric.Int64Counter
	GenerationRequestsTotal       metric.Int64Counter
	GenerationErrorsTotal         metric.Int64Counter
	DbQueryDurationSeconds        metric.Float64Histogram
	DbQueryErrorsTotal            metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metrics instruments ONLY ONCE.
// It gets the Meter from the globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("TripPlanner")
		var err error
		m := &AppMetrics{}

		m.ItineraryBuildsTotal, err = meter.Int64Counter(
			"itinerary_builds_total",
			metric.WithDescription("Total number of itinerary builds completed"),
			metric.WithUnit("{build}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create itinerary_builds_total: %v", err)
		}

		m.ItineraryBuildDurationSeconds, err = meter.Float64Histogram(
			"itinerary_build_duration_seconds",
			metric.WithDescription("Duration of itinerary builds in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create itinerary_build_duration_seconds: %v", err)
		}

		m.ReplanIterationsTotal, err = meter.Int64Counter(
			"replan_iterations_total",
			metric.WithDescription("Total number of budget-driven replan iterations"),
			metric.WithUnit("{iteration}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create replan_iterations_total: %v", err)
		}

		m.GenerationRequestsTotal, err = meter.Int64Counter(
			"generation_requests_total",
			metric.WithDescription("Total number of content generation requests"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create generation_requests_total: %v", err)
		}

		m.GenerationErrorsTotal, err = meter.Int64Counter(
			"generation_errors_total",
			metric.WithDescription("Total number of failed or unparseable generation responses"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create generation_errors_total: %v", err)
		}

		m.DbQueryDurationSeconds, err = meter.Float64Histogram(
			"db_query_duration_seconds",
			metric.WithDescription("Duration of database queries in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create db_query_duration_seconds: %v", err)
		}

		m.DbQueryErrorsTotal, err = meter.Int64Counter(
			"db_query_errors_total",
			metric.WithDescription("Total number of database query errors"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create db_query_errors_total: %v", err)
		}

		log.Println("Application metrics instruments initialized.")
		appMetrics = m
	})
}

// Get returns the globally initialized AppMetrics instance.
// Panics if InitAppMetrics was not called first.
func Get() *AppMetrics {
	if appMetrics == nil {
		panic("metrics instruments not initialized. Call metrics.InitAppMetrics() first.")
	}
	return appMetrics
}
