package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	GatewayRequestsTotal   metric.Int64Counter
	GatewayDurationSeconds metric.Float64Histogram
	GatewayErrorsTotal     metric.Int64Counter
	MealsLoggedTotal       metric.Int64Counter
	DbQueryErrorsTotal     metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metric instruments once, using the
// globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("nutrisnap-api")
		var err error
		m := &AppMetrics{}

		m.GatewayRequestsTotal, err = meter.Int64Counter(
			"ai_gateway_requests_total",
			metric.WithDescription("Total number of AI gateway requests completed"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create ai_gateway_requests_total: %v", err)
		}

		m.GatewayDurationSeconds, err = meter.Float64Histogram(
			"ai_gateway_duration_seconds",
			metric.WithDescription("Duration of AI gateway requests in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create ai_gateway_duration_seconds: %v", err)
		}

		m.GatewayErrorsTotal, err = meter.Int64Counter(
			"ai_gateway_errors_total",
			metric.WithDescription("Total number of AI gateway failures by class"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create ai_gateway_errors_total: %v", err)
		}

		m.MealsLoggedTotal, err = meter.Int64Counter(
			"meals_logged_total",
			metric.WithDescription("Total number of meals written to the diary"),
			metric.WithUnit("{meal}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create meals_logged_total: %v", err)
		}

		m.DbQueryErrorsTotal, err = meter.Int64Counter(
			"db_query_errors_total",
			metric.WithDescription("Total number of database query errors"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create db_query_errors_total: %v", err)
		}

		appMetrics = m
	})
}

// Get returns the globally initialized AppMetrics instance. InitAppMetrics
// must have been called at startup.
func Get() *AppMetrics {
	if appMetrics == nil {
		panic("metrics.Get called before metrics.InitAppMetrics")
	}
	return appMetrics
}
