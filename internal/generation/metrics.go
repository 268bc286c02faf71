package generation

import (
	"sync/atomic"
	"time"
)

// Metrics tracks generation service call metrics
type Metrics struct {
	Calls   int64 `json:"calls"`
	Errors  int64 `json:"errors"`
	latency int64 // Total latency in nanoseconds
}

var global struct {
	calls   atomic.Int64
	errors  atomic.Int64
	latency atomic.Int64
}

// GetMetrics returns the current metrics snapshot
func GetMetrics() Metrics {
	return Metrics{
		Calls:   global.calls.Load(),
		Errors:  global.errors.Load(),
		latency: global.latency.Load(),
	}
}

// ResetMetrics resets all metrics (useful for testing)
func ResetMetrics() {
	global.calls.Store(0)
	global.errors.Store(0)
	global.latency.Store(0)
}

func recordCall(duration time.Duration, err error) {
	global.calls.Add(1)
	global.latency.Add(duration.Nanoseconds())
	if err != nil {
		global.errors.Add(1)
	}
}

// AverageLatencyMs returns the average latency in milliseconds
func (m Metrics) AverageLatencyMs() float64 {
	if m.Calls == 0 {
		return 0
	}
	return float64(m.latency) / float64(m.Calls) / 1e6
}

// ErrorRate returns the error rate as a percentage
func (m Metrics) ErrorRate() float64 {
	if m.Calls == 0 {
		return 0
	}
	return float64(m.Errors) / float64(m.Calls) * 100
}
