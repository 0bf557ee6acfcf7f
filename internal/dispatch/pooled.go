package dispatch

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// pooledDispatcher bounds in-flight probes with a fixed-size worker pool
// pulling indices from a task queue. Completion of each probe is observed as
// it settles, not after the whole batch.
type pooledDispatcher struct {
	opt     Options
	limiter *rate.Limiter
}

func (d *pooledDispatcher) Dispatch(ctx context.Context) Result {
	start := time.Now()

	// Scheduler: feeds worker indices, serializing the pacing limiter so a
	// cancelled context stops issuing new probes.
	tasks := make(chan int)
	go func() {
		defer close(tasks)
		for id := 1; id <= d.opt.Workers; id++ {
			if ctx.Err() != nil {
				return
			}
			if d.limiter != nil {
				if err := d.limiter.Wait(ctx); err != nil {
					return
				}
			}
			select {
			case tasks <- id:
			case <-ctx.Done():
				return
			}
		}
	}()

	var wg sync.WaitGroup
	wg.Add(d.opt.Workers)
	for i := 0; i < d.opt.Workers; i++ {
		go func() {
			defer wg.Done()
			for id := range tasks {
				d.opt.observe(d.opt.Requester.Probe(ctx, id))
			}
		}()
	}
	wg.Wait()

	return Result{
		Outcomes: d.opt.Collector.Snapshot(),
		Duration: time.Since(start),
	}
}
