// Package metrics exposes Prometheus instruments for code issuance and partner matching.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// outcomeOK matches match.OutcomeOK.
const outcomeOK = "ok"

// Collector implements the recorder interfaces of the match and otc services.
type Collector struct {
	otcIssued       prometheus.Counter
	otcVerify       *prometheus.CounterVec
	otcDispatchFail prometheus.Counter
	matchRequests   *prometheus.CounterVec
	matchCandidates prometheus.Histogram
	matchLatency    prometheus.Histogram
}

// NewCollector registers all instruments on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		otcIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "studybuddy_otc_issued_total",
			Help: "One-time codes issued.",
		}),
		otcVerify: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "studybuddy_otc_verify_total",
			Help: "One-time code verification attempts by result.",
		}, []string{"result"}),
		otcDispatchFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "studybuddy_otc_dispatch_fail_total",
			Help: "One-time codes that could not be delivered or queued.",
		}),
		matchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "studybuddy_match_requests_total",
			Help: "Match requests by outcome.",
		}, []string{"outcome"}),
		matchCandidates: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "studybuddy_match_candidates",
			Help:    "Candidates scored per match request.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}),
		matchLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "studybuddy_match_latency_seconds",
			Help:    "Match request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.otcIssued,
		c.otcVerify,
		c.otcDispatchFail,
		c.matchRequests,
		c.matchCandidates,
		c.matchLatency,
	)
	return c
}

func (c *Collector) ObserveIssued() {
	c.otcIssued.Inc()
}

func (c *Collector) ObserveVerify(ok bool) {
	c.otcVerify.WithLabelValues(strconv.FormatBool(ok)).Inc()
}

func (c *Collector) ObserveDispatchFailure() {
	c.otcDispatchFail.Inc()
}

// ObserveMatch records the candidate count only for successful rankings.
func (c *Collector) ObserveMatch(outcome string, candidates int, elapsed time.Duration) {
	c.matchRequests.WithLabelValues(outcome).Inc()
	if outcome == outcomeOK {
		c.matchCandidates.Observe(float64(candidates))
	}
	c.matchLatency.Observe(elapsed.Seconds())
}

// Handler returns the scrape endpoint for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
