// Package metrics records stream lifecycle metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for finished streams.
const (
	OutcomeEnd       = "end"
	OutcomeError     = "error"
	OutcomeDestroyed = "destroyed"
)

// Recorder receives lifecycle notifications from streams.
// Implementations must be safe for concurrent use.
type Recorder interface {
	StreamStarted(binary string)
	StreamFinished(binary, outcome string, elapsed time.Duration)
	BytesIn(binary string, n int)
	BytesOut(binary string, n int)
}

// Nop returns a Recorder that discards everything.
func Nop() Recorder { return nopRecorder{} }

type nopRecorder struct{}

func (nopRecorder) StreamStarted(string)                         {}
func (nopRecorder) StreamFinished(string, string, time.Duration) {}
func (nopRecorder) BytesIn(string, int)                          {}
func (nopRecorder) BytesOut(string, int)                         {}

// Prometheus is a Recorder backed by Prometheus collectors.
type Prometheus struct {
	started  *prometheus.CounterVec
	finished *prometheus.CounterVec
	duration *prometheus.HistogramVec
	bytesIn  *prometheus.CounterVec
	bytesOut *prometheus.CounterVec
}

// Compile-time verification that Prometheus implements Recorder.
var _ Recorder = (*Prometheus)(nil)

// NewPrometheus creates the collectors and registers them with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func NewPrometheus(reg prometheus.Registerer) (*Prometheus, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	p := &Prometheus{
		started: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "procstream",
			Name:      "streams_started_total",
			Help:      "Child processes spawned by streams",
		}, []string{"binary"}),
		finished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "procstream",
			Name:      "streams_finished_total",
			Help:      "Streams that reached a terminal state",
		}, []string{"binary", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "procstream",
			Name:      "stream_duration_seconds",
			Help:      "Time from spawn to terminal state",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
		}, []string{"binary", "outcome"}),
		bytesIn: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "procstream",
			Name:      "bytes_in_total",
			Help:      "Bytes written to child stdin",
		}, []string{"binary"}),
		bytesOut: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "procstream",
			Name:      "bytes_out_total",
			Help:      "Bytes read from child stdout",
		}, []string{"binary"}),
	}

	for _, c := range []prometheus.Collector{p.started, p.finished, p.duration, p.bytesIn, p.bytesOut} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// StreamStarted implements Recorder.
func (p *Prometheus) StreamStarted(binary string) {
	p.started.WithLabelValues(binary).Inc()
}

// StreamFinished implements Recorder.
func (p *Prometheus) StreamFinished(binary, outcome string, elapsed time.Duration) {
	p.finished.WithLabelValues(binary, outcome).Inc()
	p.duration.WithLabelValues(binary, outcome).Observe(elapsed.Seconds())
}

// BytesIn implements Recorder.
func (p *Prometheus) BytesIn(binary string, n int) {
	p.bytesIn.WithLabelValues(binary).Add(float64(n))
}

// BytesOut implements Recorder.
func (p *Prometheus) BytesOut(binary string, n int) {
	p.bytesOut.WithLabelValues(binary).Add(float64(n))
}
