package logger

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Metrics tracks counters and timings for a run. All operations are thread-safe.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	mu       sync.Mutex
	counters map[string]int64
	timings  map[string][]time.Duration
}

// TimingStats summarizes the measurements recorded under one name
type TimingStats struct {
	Count   int           `json:"count"`
	Total   time.Duration `json:"total"`
	Average time.Duration `json:"average"`
	Min     time.Duration `json:"min"`
	Max     time.Duration `json:"max"`
}

// Snapshot is a deep copy of the recorded metrics
type Snapshot struct {
	Counters map[string]int64       `json:"counters"`
	Timings  map[string]TimingStats `json:"timings"`
}

// NewMetrics creates an empty tracker
func NewMetrics() *Metrics {
	return &Metrics{
		counters: make(map[string]int64),
		timings:  make(map[string][]time.Duration),
	}
}

// IncrCounter increments a counter by 1
func (m *Metrics) IncrCounter(name string) {
	m.AddCounter(name, 1)
}

// AddCounter adds delta to a counter
func (m *Metrics) AddCounter(name string, delta int64) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[name] += delta
}

// RecordTiming records one duration measurement
func (m *Metrics) RecordTiming(name string, d time.Duration) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timings[name] = append(m.timings[name], d)
}

// Snapshot returns the counters and per-name timing statistics
func (m *Metrics) Snapshot() Snapshot {
	snap := Snapshot{
		Counters: make(map[string]int64),
		Timings:  make(map[string]TimingStats),
	}
	if m == nil {
		return snap
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for k, v := range m.counters {
		snap.Counters[k] = v
	}

	for name, durations := range m.timings {
		if len(durations) == 0 {
			continue
		}
		stats := TimingStats{Count: len(durations), Min: durations[0], Max: durations[0]}
		for _, d := range durations {
			stats.Total += d
			if d < stats.Min {
				stats.Min = d
			}
			if d > stats.Max {
				stats.Max = d
			}
		}
		stats.Average = stats.Total / time.Duration(len(durations))
		snap.Timings[name] = stats
	}

	return snap
}

// Log writes the snapshot as one debug event
func (m *Metrics) Log(logger zerolog.Logger) {
	snap := m.Snapshot()

	counters := zerolog.Dict()
	for k, v := range snap.Counters {
		counters = counters.Int64(k, v)
	}
	timings := zerolog.Dict()
	for k, v := range snap.Timings {
		timings = timings.Dur(k, v.Average)
	}

	logger.Debug().Dict("counters", counters).Dict("avg_timings", timings).Msg("Run metrics")
}
