package concurrency

import (
	"context"
	"sync/atomic"
	"testing"
)

func TestForEachRunsEveryTask(t *testing.T) {
	var ran [10]int32
	ForEach(context.Background(), 3, len(ran), func(_ context.Context, i int) {
		atomic.AddInt32(&ran[i], 1)
	})
	for i, n := range ran {
		if n != 1 {
			t.Errorf("task %d ran %d times, want 1", i, n)
		}
	}
}

func TestForEachZeroTasks(t *testing.T) {
	ForEach(context.Background(), 4, 0, func(_ context.Context, i int) {
		t.Errorf("unexpected task %d", i)
	})
}

func TestForEachCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var count int32
	ForEach(ctx, 2, 1000, func(_ context.Context, _ int) {
		atomic.AddInt32(&count, 1)
	})
	// Dispatch races with cancellation; the pool must still return promptly
	// without running the full batch.
	if n := atomic.LoadInt32(&count); n >= 1000 {
		t.Errorf("ran %d tasks after cancellation, want fewer", n)
	}
}
