package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("404", http.MethodGet, "GET /api/v1/products/{id}"))

	rr := httptest.NewRecorder()
	Middleware(mux).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/products/abc", nil))

	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("404", http.MethodGet, "GET /api/v1/products/{id}"))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, before+1, after)
}

func TestLedgerCounters(t *testing.T) {
	RecordLedgerEntry("sale", OutcomeSuccess)
	assert.Equal(t, float64(1), testutil.ToFloat64(ledgerEntriesTotal.WithLabelValues("sale", OutcomeSuccess)))

	ObserveLedgerValue("purchase", decimal.RequireFromString("150.50"), 7)
	assert.InDelta(t, 150.5, testutil.ToFloat64(ledgerValueTotal.WithLabelValues("purchase")), 1e-9)
	assert.Equal(t, float64(7), testutil.ToFloat64(ledgerUnitsTotal.WithLabelValues("purchase")))

	RecordLowStockAlert(OutcomeFailure)
	assert.Equal(t, float64(1), testutil.ToFloat64(lowStockAlertsTotal.WithLabelValues(OutcomeFailure)))
}

func TestHandlerExposesLedgerMetrics(t *testing.T) {
	RecordLedgerEntry("purchase", OutcomeInvalid)

	rr := httptest.NewRecorder()
	Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.Contains(rr.Body.String(), "ledger_entries_total"))
}
