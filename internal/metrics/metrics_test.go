package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_OTCCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.ObserveIssued()
	c.ObserveIssued()
	c.ObserveVerify(true)
	c.ObserveVerify(false)
	c.ObserveVerify(false)
	c.ObserveDispatchFailure()

	assert.Equal(t, 2.0, testutil.ToFloat64(c.otcIssued))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.otcVerify.WithLabelValues("true")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.otcVerify.WithLabelValues("false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.otcDispatchFail))
}

func histogramOf(t *testing.T, reg *prometheus.Registry, name string) *dto.Histogram {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == name {
			return mf.GetMetric()[0].GetHistogram()
		}
	}
	t.Fatalf("metric %s not gathered", name)
	return nil
}

func TestCollector_ObserveMatch(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.ObserveMatch("ok", 12, 40*time.Millisecond)
	c.ObserveMatch("not_found", 0, time.Millisecond)
	c.ObserveMatch("error", 0, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.matchRequests.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.matchRequests.WithLabelValues("not_found")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.matchLatency))

	latency := histogramOf(t, reg, "studybuddy_match_latency_seconds")
	assert.Equal(t, uint64(3), latency.GetSampleCount())

	candidates := histogramOf(t, reg, "studybuddy_match_candidates")
	assert.Equal(t, uint64(1), candidates.GetSampleCount(), "failed rankings are not counted")
	assert.Equal(t, 12.0, candidates.GetSampleSum())
}

func TestHandler_ServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.ObserveIssued()

	w := httptest.NewRecorder()
	Handler(reg).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	resp := w.Result()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "studybuddy_otc_issued_total 1")
}
