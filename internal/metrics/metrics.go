// Package metrics exposes Prometheus instrumentation for the call agent.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics contains all Prometheus metrics for the inbound call agent.
// Each instance carries its own registry so tests can construct metrics
// without collisions.
type Metrics struct {
	registry *prometheus.Registry

	// Call lifecycle
	CallsStarted   prometheus.Counter
	CallsCompleted prometheus.Counter
	ActiveCalls    prometheus.Gauge

	// Telephony stream
	FramesForwarded  prometheus.Counter
	FramesDropped    prometheus.Counter
	FrameParseErrors prometheus.Counter

	// Upstream AI session
	AudioDeltasRelayed prometheus.Counter
	TranscriptLines    *prometheus.CounterVec

	// Post-call dispatch
	DispatchSuccesses prometheus.Counter
	DispatchFailures  prometheus.Counter
}

// New creates and registers all metrics on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		CallsStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "call_agent_calls_started_total",
			Help: "Total number of inbound media stream connections accepted",
		}),
		CallsCompleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "call_agent_calls_completed_total",
			Help: "Total number of calls that reached connection close",
		}),
		ActiveCalls: factory.NewGauge(prometheus.GaugeOpts{
			Name: "call_agent_active_calls",
			Help: "Current number of live call sessions",
		}),

		FramesForwarded: factory.NewCounter(prometheus.CounterOpts{
			Name: "call_agent_media_frames_forwarded_total",
			Help: "Total number of inbound media frames forwarded upstream",
		}),
		FramesDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "call_agent_media_frames_dropped_total",
			Help: "Total number of inbound media frames dropped while upstream was closed",
		}),
		FrameParseErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "call_agent_frame_parse_errors_total",
			Help: "Total number of malformed inbound telephony frames",
		}),

		AudioDeltasRelayed: factory.NewCounter(prometheus.CounterOpts{
			Name: "call_agent_audio_deltas_relayed_total",
			Help: "Total number of upstream audio chunks relayed downstream",
		}),
		TranscriptLines: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "call_agent_transcript_lines_total",
			Help: "Total number of transcript lines appended, by speaker",
		}, []string{"speaker"}),

		DispatchSuccesses: factory.NewCounter(prometheus.CounterOpts{
			Name: "call_agent_dispatch_successes_total",
			Help: "Total number of transcript dispatches that completed",
		}),
		DispatchFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "call_agent_dispatch_failures_total",
			Help: "Total number of transcript dispatches that failed",
		}),
	}
}

// Handler serves this instance's registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordCallStarted marks one accepted media stream connection.
func (m *Metrics) RecordCallStarted() {
	m.CallsStarted.Inc()
	m.ActiveCalls.Inc()
}

// RecordCallCompleted marks one closed call.
func (m *Metrics) RecordCallCompleted() {
	m.CallsCompleted.Inc()
	m.ActiveCalls.Dec()
}

// RecordTranscriptLine counts one appended transcript line for speaker.
func (m *Metrics) RecordTranscriptLine(speaker string) {
	m.TranscriptLines.WithLabelValues(speaker).Inc()
}

// RecordDispatch counts one dispatch outcome.
func (m *Metrics) RecordDispatch(ok bool) {
	if ok {
		m.DispatchSuccesses.Inc()
	} else {
		m.DispatchFailures.Inc()
	}
}
