package dispatch

import (
	"sync"

	"github.com/vportales/geoprobe/internal/places"
)

// Collector is an append-only, mutex-guarded outcome container. Each run owns
// its own collector, initialized empty; concurrent appends from pool workers
// never lose or duplicate records.
type Collector struct {
	mu           sync.Mutex
	outcomes     []places.Outcome
	successes    int
	failures     int
	latencies    []float64
	errorsByType map[string]int
}

func NewCollector(capacity int) *Collector {
	if capacity < 0 {
		capacity = 0
	}
	return &Collector{
		outcomes:     make([]places.Outcome, 0, capacity),
		latencies:    make([]float64, 0, capacity),
		errorsByType: make(map[string]int),
	}
}

// Append records one settled outcome.
func (c *Collector) Append(outcome places.Outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.outcomes = append(c.outcomes, outcome)
	if outcome.Success {
		c.successes++
		c.latencies = append(c.latencies, outcome.ResponseTimeMs)
		return
	}
	c.failures++
	errText := outcome.Error
	if errText == "" {
		errText = "Unknown error"
	}
	c.errorsByType[errText]++
}

// ErrorBreakdown returns a copy of the running failed-outcome histogram.
func (c *Collector) ErrorBreakdown() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := make(map[string]int, len(c.errorsByType))
	for k, v := range c.errorsByType {
		result[k] = v
	}
	return result
}

// Snapshot returns a copy of the collected outcomes.
func (c *Collector) Snapshot() []places.Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]places.Outcome(nil), c.outcomes...)
}

// Counts returns the running totals for live views.
func (c *Collector) Counts() (total, successes, failures int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.outcomes), c.successes, c.failures
}

// LatencyHistory returns up to n of the most recent successful-probe
// latencies, oldest first.
func (c *Collector) LatencyHistory(n int) []float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n <= 0 || n > len(c.latencies) {
		n = len(c.latencies)
	}
	tail := c.latencies[len(c.latencies)-n:]
	return append([]float64(nil), tail...)
}
