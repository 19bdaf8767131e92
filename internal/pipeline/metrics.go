package pipeline

import (
	"sync"
	"time"
)

// StageTiming records one stage's duration.
type StageTiming struct {
	Stage    string
	Duration time.Duration
}

// Metrics tracks per-stage durations for one pipeline run.
type Metrics struct {
	mutex   sync.Mutex
	timings []StageTiming
}

// NewMetrics creates an empty metrics record.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// Record appends a stage timing.
func (m *Metrics) Record(stage string, d time.Duration) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.timings = append(m.timings, StageTiming{Stage: stage, Duration: d})
}

// Timings returns a copy of the recorded stage timings in order.
func (m *Metrics) Timings() []StageTiming {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	out := make([]StageTiming, len(m.timings))
	copy(out, m.timings)
	return out
}

// Total returns the summed duration of all recorded stages.
func (m *Metrics) Total() time.Duration {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	var total time.Duration
	for _, t := range m.timings {
		total += t.Duration
	}
	return total
}
