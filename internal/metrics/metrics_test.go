package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	t.Parallel()
	m := New()

	m.Requests.WithLabelValues("optimize", "ok").Inc()
	m.Requests.WithLabelValues("optimize", "ok").Inc()
	m.CacheLookups.WithLabelValues("hit").Inc()
	m.Improvement.Observe(72)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Requests.WithLabelValues("optimize", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("hit")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "alchemy_requests_total"))
	assert.True(t, strings.Contains(body, "alchemy_estimated_improvement_percent_bucket"))
	assert.True(t, strings.Contains(body, "go_goroutines"))
}
