package plotexpr

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records compilations and samplings. A nil *Metrics records nothing.
type Metrics struct {
	compilations   *prometheus.CounterVec
	samples        *prometheus.CounterVec
	points         prometheus.Counter
	sampleDuration prometheus.Histogram
}

// NewMetrics creates metrics registered with reg. reg may be nil to create
// metrics that are not registered anywhere.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		compilations: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "plotexpr_compilations_total",
			Help: "Total number of expressions compiled to postfix.",
		}, []string{"result"}),
		samples: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "plotexpr_samples_total",
			Help: "Total number of sample ranges requested.",
		}, []string{"result"}),
		points: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "plotexpr_sample_points_total",
			Help: "Total number of points produced by successful samplings.",
		}),
		sampleDuration: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "plotexpr_sample_duration_seconds",
			Help:    "Time taken to sample a range.",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 10),
		}),
	}
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (m *Metrics) compiled(err error) {
	if m == nil {
		return
	}
	m.compilations.WithLabelValues(result(err)).Inc()
}

func (m *Metrics) sampled(n int, took time.Duration, err error) {
	if m == nil {
		return
	}
	m.samples.WithLabelValues(result(err)).Inc()
	m.sampleDuration.Observe(took.Seconds())
	if err == nil {
		m.points.Add(float64(n))
	}
}
