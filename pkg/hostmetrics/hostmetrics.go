// Package hostmetrics exposes the host's Prometheus metrics: process
// block counters, per-adapter-family failure counters, dropped-enqueue
// counters for node ingress queues, active-note gauges per track, and a
// spectrum publish-rate counter.
package hostmetrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder is the interface the sequencer/node/graph layers depend on,
// so tests can substitute an in-memory fake instead of a real registry.
type Recorder interface {
	RecordBlockProcessed(trackID string)
	RecordProcessFailure(adapterFamily, status string)
	RecordQueueDropped(instanceID string)
	SetActiveNotes(trackID string, count int)
	RecordSpectrumPublish(direction string)
}

// PrometheusRecorder is the production Recorder backed by
// client_golang, registered against a caller-supplied registry (or the
// default global one).
type PrometheusRecorder struct {
	blocksProcessed *prometheus.CounterVec
	processFailures *prometheus.CounterVec
	queueDropped    *prometheus.CounterVec
	activeNotes     *prometheus.GaugeVec
	spectrumPublish *prometheus.CounterVec
}

// NewPrometheusRecorder registers the host's metric families with reg. If
// reg is nil, prometheus.DefaultRegisterer is used.
func NewPrometheusRecorder(reg prometheus.Registerer) *PrometheusRecorder {
	factory := promauto.With(reg)
	return &PrometheusRecorder{
		blocksProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pluginhost", Subsystem: "sequencer", Name: "blocks_processed_total",
			Help: "Number of process blocks completed, per track.",
		}, []string{"track"}),
		processFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pluginhost", Subsystem: "adapter", Name: "process_failures_total",
			Help: "Number of Process() calls that returned a non-ok status, per adapter family and status.",
		}, []string{"family", "status"}),
		queueDropped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pluginhost", Subsystem: "node", Name: "queue_dropped_total",
			Help: "Number of UMP enqueues dropped because the per-instance SPSC queue was full.",
		}, []string{"instance"}),
		activeNotes: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "pluginhost", Subsystem: "track", Name: "active_notes",
			Help: "Current active-note refcount total per track.",
		}, []string{"track"}),
		spectrumPublish: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pluginhost", Subsystem: "sequencer", Name: "spectrum_publish_total",
			Help: "Number of spectrum buffer publishes, per direction (input/output).",
		}, []string{"direction"}),
	}
}

func (r *PrometheusRecorder) RecordBlockProcessed(trackID string) {
	r.blocksProcessed.WithLabelValues(trackID).Inc()
}

func (r *PrometheusRecorder) RecordProcessFailure(adapterFamily, status string) {
	r.processFailures.WithLabelValues(adapterFamily, status).Inc()
}

func (r *PrometheusRecorder) RecordQueueDropped(instanceID string) {
	r.queueDropped.WithLabelValues(instanceID).Inc()
}

func (r *PrometheusRecorder) SetActiveNotes(trackID string, count int) {
	r.activeNotes.WithLabelValues(trackID).Set(float64(count))
}

func (r *PrometheusRecorder) RecordSpectrumPublish(direction string) {
	r.spectrumPublish.WithLabelValues(direction).Inc()
}

// Noop is a Recorder that discards everything, used as the zero-value
// default when metrics are not wired up (e.g. in unit tests).
type Noop struct{}

func (Noop) RecordBlockProcessed(string)            {}
func (Noop) RecordProcessFailure(string, string)    {}
func (Noop) RecordQueueDropped(string)              {}
func (Noop) SetActiveNotes(string, int)             {}
func (Noop) RecordSpectrumPublish(string)           {}
