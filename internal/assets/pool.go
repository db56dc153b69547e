package assets

import (
	"context"
	"fmt"
	"sync"
)

type optimizeResult struct {
	data []byte
	ext  string
	err  error
}

// runPool applies fn to every asset on a bounded pool of workers. Results are
// collected by asset position so their order never depends on scheduling.
// onDone runs on the calling goroutine once per completed asset.
func runPool(ctx context.Context, workers int, items []*Asset, fn func(*Asset) optimizeResult, onDone func(*Asset)) ([]optimizeResult, error) {
	if workers < 1 {
		workers = 1
	}
	results := make([]optimizeResult, len(items))
	tasks := make(chan int)
	finished := make(chan int)

	var wg sync.WaitGroup
	worker := func() {
		defer wg.Done()
		for i := range tasks {
			if ctx.Err() != nil {
				continue
			}
			results[i] = safeApply(fn, items[i])
			finished <- i
		}
	}
	wg.Add(workers)
	for n := 0; n < workers; n++ {
		go worker()
	}

	go func() {
		defer close(tasks)
		for i := range items {
			select {
			case <-ctx.Done():
				return
			case tasks <- i:
			}
		}
	}()
	go func() {
		wg.Wait()
		close(finished)
	}()

	for i := range finished {
		onDone(items[i])
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// safeApply converts a panicking decoder into an ordinary failure.
func safeApply(fn func(*Asset) optimizeResult, a *Asset) (res optimizeResult) {
	defer func() {
		if r := recover(); r != nil {
			res = optimizeResult{err: fmt.Errorf("optimizer panic: %v", r)}
		}
	}()
	return fn(a)
}
