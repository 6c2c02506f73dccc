package telemetry

import (
	"context"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type AppMetrics struct {
	requestDuration    *prometheus.HistogramVec
	requestTotal       *prometheus.CounterVec
	activeConnections  prometheus.Gauge
	memoryUsage        prometheus.Gauge
	goroutines         prometheus.Gauge
	authOperations     *prometheus.CounterVec
	tokenValidations   *prometheus.CounterVec
	databaseOperations *prometheus.CounterVec
}

func NewAppMetrics(registry prometheus.Registerer) *AppMetrics {
	metrics := &AppMetrics{
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		activeConnections: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_active_connections",
				Help: "Number of active HTTP connections",
			},
		),
		memoryUsage: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "memory_usage_bytes",
				Help: "Memory usage in bytes",
			},
		),
		goroutines: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "goroutines_total",
				Help: "Number of goroutines",
			},
		),
		authOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_operations_total",
				Help: "Total number of signup and login attempts by outcome",
			},
			[]string{"operation", "outcome"},
		),
		tokenValidations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_token_validations_total",
				Help: "Total number of bearer token validations by outcome",
			},
			[]string{"outcome"},
		),
		databaseOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "database_operations_total",
				Help: "Total number of database operations",
			},
			[]string{"operation", "table"},
		),
	}

	registry.MustRegister(
		metrics.requestDuration,
		metrics.requestTotal,
		metrics.activeConnections,
		metrics.memoryUsage,
		metrics.goroutines,
		metrics.authOperations,
		metrics.tokenValidations,
		metrics.databaseOperations,
	)

	return metrics
}

func (m *AppMetrics) RecordRequest(ctx context.Context, method, path, status string, duration time.Duration) {
	m.requestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, status).Inc()
}

func (m *AppMetrics) IncrementActiveConnections(ctx context.Context) {
	m.activeConnections.Inc()
}

func (m *AppMetrics) DecrementActiveConnections(ctx context.Context) {
	m.activeConnections.Dec()
}

// RecordAuthOperation counts signup/login attempts. outcome is "success" or
// the error kind, e.g. "conflict", "not_found", "invalid_credentials".
func (m *AppMetrics) RecordAuthOperation(ctx context.Context, operation, outcome string) {
	m.authOperations.WithLabelValues(operation, outcome).Inc()
}

func (m *AppMetrics) RecordTokenValidation(ctx context.Context, outcome string) {
	m.tokenValidations.WithLabelValues(outcome).Inc()
}

func (m *AppMetrics) RecordDatabaseOperation(ctx context.Context, operation, table string) {
	m.databaseOperations.WithLabelValues(operation, table).Inc()
}

func (m *AppMetrics) StartSystemMetrics(ctx context.Context) {
	ticker := time.NewTicker(10 * time.Second)

	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				var memStats runtime.MemStats
				runtime.ReadMemStats(&memStats)
				m.memoryUsage.Set(float64(memStats.Alloc))

				m.goroutines.Set(float64(runtime.NumGoroutine()))

			case <-ctx.Done():
				return
			}
		}
	}()
}

func (m *AppMetrics) RequestTotal() *prometheus.CounterVec {
	return m.requestTotal
}

func (m *AppMetrics) AuthOperations() *prometheus.CounterVec {
	return m.authOperations
}

func (m *AppMetrics) TokenValidations() *prometheus.CounterVec {
	return m.tokenValidations
}

func (m *AppMetrics) DatabaseOperations() *prometheus.CounterVec {
	return m.databaseOperations
}
