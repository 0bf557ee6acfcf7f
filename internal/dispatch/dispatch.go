// Package dispatch executes N probes under one of two interchangeable
// concurrency strategies and collects one outcome record per probe.
package dispatch

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/vportales/geoprobe/internal/places"
)

// Strategy names a dispatch concurrency model.
type Strategy string

const (
	// StrategyPooled bounds parallelism with a fixed worker pool pulling
	// from a task queue.
	StrategyPooled Strategy = "pooled"
	// StrategyCooperative issues every probe at once over the shared
	// session and awaits the whole batch.
	StrategyCooperative Strategy = "cooperative"
)

// Requester performs one probe for a worker index. Implementations must not
// panic or block past their own timeout; every failure is reported inside
// the returned record.
type Requester interface {
	Probe(ctx context.Context, workerID int) places.Outcome
}

// Observer is invoked once per settled probe, in completion order.
type Observer func(places.Outcome)

// Options configures a dispatcher.
type Options struct {
	// Workers is N: the number of probes to dispatch, each with a distinct
	// worker index 1..N. Under StrategyPooled it is also the pool size.
	Workers int
	// RatePerSecond paces probe issue when > 0.
	RatePerSecond int
	Requester     Requester
	Observer      Observer
	// Collector receives every outcome. When nil a private one is created.
	Collector *Collector
}

func (o *Options) normalize() {
	if o.Workers < 1 {
		o.Workers = 1
	}
	if o.Collector == nil {
		o.Collector = NewCollector(o.Workers)
	}
}

// Result is the settled output of one dispatch run.
type Result struct {
	Outcomes []places.Outcome
	Duration time.Duration
}

// Dispatcher runs a batch of probes and returns once every issued probe has
// settled. A cancelled context stops issuing new probes; already collected
// outcomes are still returned.
type Dispatcher interface {
	Dispatch(ctx context.Context) Result
}

// New selects a dispatcher implementation for the given strategy.
func New(strategy Strategy, opt Options) (Dispatcher, error) {
	if opt.Requester == nil {
		return nil, fmt.Errorf("dispatch: requester is required")
	}
	opt.normalize()
	switch strategy {
	case StrategyPooled:
		return &pooledDispatcher{opt: opt, limiter: newLimiter(opt.RatePerSecond)}, nil
	case StrategyCooperative:
		return &cooperativeDispatcher{opt: opt, limiter: newLimiter(opt.RatePerSecond)}, nil
	default:
		return nil, fmt.Errorf("dispatch: unknown strategy %q", strategy)
	}
}

func newLimiter(rps int) *rate.Limiter {
	if rps <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(rps), 1)
}

func (o Options) observe(outcome places.Outcome) {
	o.Collector.Append(outcome)
	if o.Observer != nil {
		o.Observer(outcome)
	}
}
