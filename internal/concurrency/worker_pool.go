package concurrency

import (
	"context"
	"sync"
)

// ForEach fans tasks out over a bounded pool of workers and waits for all of
// them. Task indices stop being dispatched once ctx is cancelled; tasks
// already picked up run to completion.
func ForEach(ctx context.Context, workers, tasks int, fn func(ctx context.Context, index int)) {
	if tasks <= 0 {
		return
	}
	if workers > tasks {
		workers = tasks
	}
	if workers < 1 {
		workers = 1
	}

	idx := make(chan int)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := range idx {
				fn(ctx, n)
			}
		}()
	}

dispatch:
	for i := 0; i < tasks; i++ {
		select {
		case idx <- i:
		case <-ctx.Done():
			break dispatch
		}
	}
	close(idx)
	wg.Wait()
}
