package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/sells-group/fraud-cli/internal/model"
)

func TestObserveRequest(t *testing.T) {
	counter := BackendRequestsTotal.WithLabelValues("/metrics-test", string(model.FetchTimedOut))
	before := testutil.ToFloat64(counter)

	ObserveRequest("/metrics-test", model.FetchTimedOut, 2*time.Second)

	assert.InDelta(t, before+1, testutil.ToFloat64(counter), 1e-9)
}

func TestObserveVerdict(t *testing.T) {
	counter := VerdictsTotal.WithLabelValues(string(model.SeverityCritical))
	before := testutil.ToFloat64(counter)

	ObserveVerdict(model.SeverityCritical)

	assert.InDelta(t, before+1, testutil.ToFloat64(counter), 1e-9)
}

func TestMetricsEndpoint(t *testing.T) {
	ObserveRequest("/predict", model.FetchSucceeded, 100*time.Millisecond)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	for _, name := range []string{
		"fraudcli_backend_requests_total",
		"fraudcli_backend_request_duration_seconds",
		"fraudcli_category_fallback_total",
	} {
		assert.True(t, strings.Contains(body, name), "expected metrics output to contain %s", name)
	}
}
