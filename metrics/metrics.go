// Package metrics records pipeline timings and outcomes in a Prometheus
// registry and exports them in the node-exporter textfile format.
//
// A nil *Recorder is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder owns one registry and the collectors on it.
type Recorder struct {
	registry      *prometheus.Registry
	stageDuration *prometheus.HistogramVec
	obligations   *prometheus.CounterVec
	constants     prometheus.Histogram
	verdicts      *prometheus.CounterVec
	runs          *prometheus.CounterVec
}

// NewRecorder builds a Recorder on a fresh registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Recorder{
		registry: reg,
		stageDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ltlcert_stage_duration_seconds",
			Help:    "Time spent in each pipeline stage",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 1, 10, 100},
		}, []string{"stage"}),
		obligations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ltlcert_obligations_total",
			Help: "Implications emitted, by obligation kind",
		}, []string{"kind"}),
		constants: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "ltlcert_unknown_constants",
			Help:    "Unknown constants declared per problem",
			Buckets: prometheus.ExponentialBuckets(4, 4, 8),
		}),
		verdicts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ltlcert_solver_verdicts_total",
			Help: "Solver verdicts",
		}, []string{"verdict"}),
		runs: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ltlcert_runs_total",
			Help: "Finished runs, by outcome",
		}, []string{"status"}),
	}
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}

	return r.registry
}

// ObserveStage records the duration of one stage.
func (r *Recorder) ObserveStage(stage string, d time.Duration) {
	if r == nil {
		return
	}
	r.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// AddObligations counts n implications of kind.
func (r *Recorder) AddObligations(kind string, n int) {
	if r == nil || n <= 0 {
		return
	}
	r.obligations.WithLabelValues(kind).Add(float64(n))
}

// ObserveConstants records the number of declared unknowns.
func (r *Recorder) ObserveConstants(n int) {
	if r == nil {
		return
	}
	r.constants.Observe(float64(n))
}

// Verdict counts a solver verdict.
func (r *Recorder) Verdict(v string) {
	if r == nil {
		return
	}
	r.verdicts.WithLabelValues(v).Inc()
}

// RunFinished counts a run by status ("ok", "failed", "emitted").
func (r *Recorder) RunFinished(status string) {
	if r == nil {
		return
	}
	r.runs.WithLabelValues(status).Inc()
}

// WriteTextfile writes every metric to path atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}

	return prometheus.WriteToTextfile(path, r.registry)
}
