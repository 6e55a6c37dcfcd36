// Package monitoring exposes job and pipeline metrics for Prometheus.
package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Exporter owns the Prometheus collectors for the scheduler and the
// generation pipeline. A nil exporter is valid and records nothing, so
// components can run without metrics wired.
type Exporter struct {
	jobsSubmitted      prometheus.Counter
	jobsCompleted      prometheus.Counter
	jobsFailed         prometheus.Counter
	jobsPending        prometheus.Gauge
	generationDuration prometheus.Histogram
}

// NewExporter registers the collectors with the given registerer
func NewExporter(reg prometheus.Registerer) *Exporter {
	factory := promauto.With(reg)
	return &Exporter{
		jobsSubmitted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "assetforge",
			Name:      "jobs_submitted_total",
			Help:      "Total number of submitted generation jobs",
		}),
		jobsCompleted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "assetforge",
			Name:      "jobs_completed_total",
			Help:      "Total number of jobs that completed successfully",
		}),
		jobsFailed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "assetforge",
			Name:      "jobs_failed_total",
			Help:      "Total number of jobs that failed",
		}),
		jobsPending: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "assetforge",
			Name:      "jobs_pending",
			Help:      "Number of jobs waiting for the worker",
		}),
		generationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "assetforge",
			Name:      "generation_duration_seconds",
			Help:      "End-to-end duration of one generation pipeline run",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

// JobSubmitted records one submission
func (e *Exporter) JobSubmitted() {
	if e == nil {
		return
	}
	e.jobsSubmitted.Inc()
}

// JobFinished records one terminal job with its pipeline duration
func (e *Exporter) JobFinished(failed bool, seconds float64) {
	if e == nil {
		return
	}
	if failed {
		e.jobsFailed.Inc()
	} else {
		e.jobsCompleted.Inc()
	}
	e.generationDuration.Observe(seconds)
}

// SetPending updates the pending-queue depth gauge
func (e *Exporter) SetPending(n int) {
	if e == nil {
		return
	}
	e.jobsPending.Set(float64(n))
}
