package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	phases         *prometheus.CounterVec
	warningLevels  *prometheus.CounterVec
	pipelineRuns   *prometheus.HistogramVec
	providerErrors *prometheus.CounterVec
	cacheHits      *prometheus.CounterVec
	cacheMisses    *prometheus.CounterVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		phases: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signalhub_phases_total",
				Help: "Classified market phases by label",
			},
			[]string{"phase"},
		),
		warningLevels: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signalhub_warning_levels_total",
				Help: "Main warning levels emitted",
			},
			[]string{"level"},
		),
		pipelineRuns: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "signalhub_pipeline_duration_seconds",
				Help:    "Full signal pipeline duration by response status",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"status"},
		),
		providerErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signalhub_provider_errors_total",
				Help: "Upstream provider failures",
			},
			[]string{"provider"},
		),
		cacheHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signalhub_cache_hits_total",
				Help: "Cache hits by cache name",
			},
			[]string{"cache"},
		),
		cacheMisses: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signalhub_cache_misses_total",
				Help: "Cache misses by cache name",
			},
			[]string{"cache"},
		),
	}
}

// RecordPhase records one classified phase.
func (r *Recorder) RecordPhase(phase string) {
	r.phases.WithLabelValues(phase).Inc()
}

// RecordWarningLevel records the main warning level of a report.
func (r *Recorder) RecordWarningLevel(level string) {
	r.warningLevels.WithLabelValues(level).Inc()
}

// RecordPipeline records one pipeline run.
func (r *Recorder) RecordPipeline(status string, elapsed time.Duration) {
	r.pipelineRuns.WithLabelValues(status).Observe(elapsed.Seconds())
}

// RecordProviderError records an upstream failure.
func (r *Recorder) RecordProviderError(provider string) {
	r.providerErrors.WithLabelValues(provider).Inc()
}

// RecordCacheHit records a cache hit.
func (r *Recorder) RecordCacheHit(name string) {
	r.cacheHits.WithLabelValues(name).Inc()
}

// RecordCacheMiss records a cache miss.
func (r *Recorder) RecordCacheMiss(name string) {
	r.cacheMisses.WithLabelValues(name).Inc()
}
