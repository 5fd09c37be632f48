package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Identity request results.
const (
	ResultOK                  = "ok"
	ResultResolutionFailed    = "resolution_failed"
	ResultResolverUnavailable = "resolver_unavailable"
)

type Metrics struct {
	identityRequests   *prometheus.CounterVec
	resolutionDuration prometheus.Histogram
	taskRuns           *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		identityRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "hostpulse_identity_requests_total",
			Help: "Host identity lookups served, by result",
		}, []string{"result"}),
		resolutionDuration: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "hostpulse_resolution_duration_seconds",
			Help:    "Time spent resolving the host name to an address",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
		taskRuns: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "hostpulse_task_runs_total",
			Help: "Flaky task runs, by outcome",
		}, []string{"outcome"}),
	}
}

// ObserveIdentity records one identity lookup. A nil receiver is a no-op so
// callers can run without metrics.
func (m *Metrics) ObserveIdentity(result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.identityRequests.WithLabelValues(result).Inc()
	m.resolutionDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveTaskRun(outcome string) {
	if m == nil {
		return
	}
	m.taskRuns.WithLabelValues(outcome).Inc()
}
