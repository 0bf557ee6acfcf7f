package dispatch

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/vportales/geoprobe/internal/places"
)

// cooperativeDispatcher issues the whole batch at once against the shared
// session and drains completions through a single collector loop, so no two
// goroutines ever mutate the outcome collection at the same time. One probe's
// failure is data in its own record and never cancels a sibling.
type cooperativeDispatcher struct {
	opt     Options
	limiter *rate.Limiter
}

func (d *cooperativeDispatcher) Dispatch(ctx context.Context) Result {
	start := time.Now()

	results := make(chan places.Outcome, d.opt.Workers)
	launched := 0
	for id := 1; id <= d.opt.Workers; id++ {
		if ctx.Err() != nil {
			break
		}
		if d.limiter != nil {
			if err := d.limiter.Wait(ctx); err != nil {
				break
			}
		}
		go func(id int) {
			results <- d.opt.Requester.Probe(ctx, id)
		}(id)
		launched++
	}

	// Full barrier: every launched probe settles before aggregation.
	for i := 0; i < launched; i++ {
		d.opt.observe(<-results)
	}

	return Result{
		Outcomes: d.opt.Collector.Snapshot(),
		Duration: time.Since(start),
	}
}
