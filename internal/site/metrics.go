package site

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts builds and section failures. A nil *Metrics records nothing.
type Metrics struct {
	builds          *prometheus.CounterVec
	sectionFailures *prometheus.CounterVec
	buildDuration   prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		builds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portfolio",
			Name:      "builds_total",
			Help:      "Site builds by result.",
		}, []string{"result"}),
		sectionFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portfolio",
			Name:      "section_failures_total",
			Help:      "Sections whose data could not be fetched or parsed.",
		}, []string{"section"}),
		buildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "portfolio",
			Name:      "build_duration_seconds",
			Help:      "Wall time of successful builds.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}),
	}
	reg.MustRegister(m.builds, m.sectionFailures, m.buildDuration)
	return m
}

func (m *Metrics) observeBuild(d time.Duration, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.builds.WithLabelValues("error").Inc()
		return
	}
	m.builds.WithLabelValues("ok").Inc()
	m.buildDuration.Observe(d.Seconds())
}

func (m *Metrics) sectionFailed(name string) {
	if m == nil {
		return
	}
	m.sectionFailures.WithLabelValues(name).Inc()
}
