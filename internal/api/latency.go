package api

import (
	"slices"
	"sync"
	"time"
)

type timing struct {
	at time.Time
	ms int64
}

// LatencySnapshot aggregates the extraction timings still in the window.
type LatencySnapshot struct {
	Count int     `json:"count"`
	MinMs int64   `json:"min_ms"`
	MaxMs int64   `json:"max_ms"`
	AvgMs float64 `json:"avg_ms"`
	P50Ms float64 `json:"p50_ms"`
	P95Ms float64 `json:"p95_ms"`
}

// Latency keeps on-demand extraction timings for a rolling window.
type Latency struct {
	mu      sync.Mutex
	timings []timing
	window  time.Duration
}

func NewLatency(window time.Duration) *Latency {
	if window <= 0 {
		window = time.Hour
	}
	return &Latency{window: window}
}

func (l *Latency) Observe(d time.Duration) {
	ms := d.Milliseconds()
	if ms < 0 {
		ms = 0
	}
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()
	l.expire(now)
	l.timings = append(l.timings, timing{at: now, ms: ms})
}

func (l *Latency) Snapshot() LatencySnapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.expire(time.Now())
	if len(l.timings) == 0 {
		return LatencySnapshot{}
	}

	ms := make([]int64, len(l.timings))
	var sum int64
	for i, t := range l.timings {
		ms[i] = t.ms
		sum += t.ms
	}
	slices.Sort(ms)

	return LatencySnapshot{
		Count: len(ms),
		MinMs: ms[0],
		MaxMs: ms[len(ms)-1],
		AvgMs: float64(sum) / float64(len(ms)),
		P50Ms: quantile(ms, 0.50),
		P95Ms: quantile(ms, 0.95),
	}
}

func (l *Latency) expire(now time.Time) {
	cutoff := now.Add(-l.window)
	l.timings = slices.DeleteFunc(l.timings, func(t timing) bool {
		return t.at.Before(cutoff)
	})
}

// quantile interpolates linearly between the two nearest ranks of sorted.
func quantile(sorted []int64, q float64) float64 {
	pos := float64(len(sorted)-1) * q
	lo := int(pos)
	if lo+1 >= len(sorted) {
		return float64(sorted[lo])
	}
	frac := pos - float64(lo)
	return float64(sorted[lo]) + frac*float64(sorted[lo+1]-sorted[lo])
}
