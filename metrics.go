package procstream

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/wagiedev/procstream-go/internal/metrics"
)

// MetricsRecorder receives stream lifecycle notifications.
type MetricsRecorder = metrics.Recorder

// NewPrometheusRecorder registers stream metrics with reg
// (prometheus.DefaultRegisterer when nil) and returns a recorder for
// WithMetrics.
func NewPrometheusRecorder(reg prometheus.Registerer) (MetricsRecorder, error) {
	return metrics.NewPrometheus(reg)
}
