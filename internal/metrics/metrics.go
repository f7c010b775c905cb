package metrics

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"code", "method", "path"},
	)
	httpRequestsDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current Number of HTTP requests being processed.",
		},
	)

	ledgerEntriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_entries_total",
			Help: "Ledger writes by kind and outcome.",
		},
		[]string{"kind", "outcome"},
	)

	ledgerValueTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_value_total",
			Help: "Monetary value of committed ledger entries.",
		},
		[]string{"kind"},
	)

	ledgerUnitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_units_total",
			Help: "Stock units moved by committed ledger entries.",
		},
		[]string{"kind"},
	)

	lowStockAlertsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "low_stock_alerts_total",
			Help: "Low-stock notifications by delivery outcome.",
		},
		[]string{"outcome"},
	)
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeInvalid = "invalid"
)

func RecordLedgerEntry(kind, outcome string) {
	ledgerEntriesTotal.WithLabelValues(kind, outcome).Inc()
}

// ObserveLedgerValue adds a committed entry's total and moved units. The value
// counter is a float approximation of the exact decimal total.
func ObserveLedgerValue(kind string, total decimal.Decimal, units int64) {
	ledgerValueTotal.WithLabelValues(kind).Add(total.InexactFloat64())
	ledgerUnitsTotal.WithLabelValues(kind).Add(float64(units))
}

func RecordLowStockAlert(outcome string) {
	lowStockAlertsTotal.WithLabelValues(outcome).Inc()
}

func init() {
	if err := prometheus.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		slog.Debug("ProcessCollector registration skipped (likely already registered)",
			slog.String("error", err.Error()))
	}

	if err := prometheus.Register(collectors.NewGoCollector()); err != nil {
		slog.Debug("GoCollector registration skipped (likely already registered)",
			slog.String("error", err.Error()))
	}
}

// wrapper around http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{w, http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		httpRequestsInFlight.Inc()

		rw := newResponseWriter(w)

		defer func() {
			// r.Pattern is filled in by the mux once it has matched
			pathPattern := r.Pattern
			if pathPattern == "" {
				pathPattern = "unmatched"
			}

			duration := time.Since(start)
			statusCodeStr := strconv.Itoa(rw.statusCode)

			httpRequestsTotal.WithLabelValues(statusCodeStr, r.Method, pathPattern).Inc()
			httpRequestsDuration.WithLabelValues(r.Method, pathPattern).Observe(duration.Seconds())
			httpRequestsInFlight.Dec()
		}()

		next.ServeHTTP(rw, r)
	})
}

// http.Handler for the Prometheus /metrics endpoint
func Handler() http.Handler {
	return promhttp.Handler()
}
