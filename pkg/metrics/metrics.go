package metrics

import (
	"time"

	"github.com/penglongli/gin-metrics/ginmetrics"
	"github.com/prometheus/client_golang/prometheus"
)

// Metric status labels
const (
	StatusOK   = "ok"
	StatusFail = "fail"
)

// GetMonitor returns the gin request monitor exposing metrics on path.
func GetMonitor(path string) *ginmetrics.Monitor {
	m := ginmetrics.GetMonitor()
	m.SetMetricPath(path)
	// requests slower than this (seconds) are counted as slow
	m.SetSlowTime(1)
	// request duration buckets, used for p95 and p99
	m.SetDuration([]float64{0.05, 0.1, 0.2, 0.3, 0.5, 1, 2, 5})

	return m
}

// ClientMetrics records outbound service invocations.
type ClientMetrics struct {
	Calls    *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

// NewClientMetrics creates the client metrics and registers them with reg
// when reg is not nil.
func NewClientMetrics(reg prometheus.Registerer) *ClientMetrics {
	m := &ClientMetrics{
		Calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "service_client",
			Name:      "calls_total",
			Help:      "Number of remote service invocations by outcome.",
		}, []string{"service", "operation", "status"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "service_client",
			Name:      "call_duration_seconds",
			Help:      "Duration of remote service invocations.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"service", "operation"}),
	}

	if reg != nil {
		reg.MustRegister(m.Calls, m.Duration)
	}
	return m
}

// Observe records one invocation.
func (m *ClientMetrics) Observe(service, operation string, err error, duration time.Duration) {
	status := StatusOK
	if err != nil {
		status = StatusFail
	}
	m.Calls.WithLabelValues(service, operation, status).Inc()
	m.Duration.WithLabelValues(service, operation).Observe(duration.Seconds())
}
