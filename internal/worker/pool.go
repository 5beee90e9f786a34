package worker

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
)

// Task represents a unit of work to be processed by the pool.
type Task[T any, R any] struct {
	Input  T
	Result R
	Err    error
	// Done is false when the task was never started because ctx ended.
	Done bool
}

// ProcessFunc is the function signature for processing a single task.
type ProcessFunc[T any, R any] func(ctx context.Context, input T) (R, error)

// ProgressFunc is called after each finished task with the running total.
type ProgressFunc func(done, total int)

// Pool is a generic worker pool with configurable concurrency.
type Pool[T any, R any] struct {
	workers  int
	process  ProcessFunc[T, R]
	progress ProgressFunc
}

// NewPool creates a new worker pool.
func NewPool[T any, R any](workers int, fn ProcessFunc[T, R]) *Pool[T, R] {
	if workers < 1 {
		workers = 1
	}
	return &Pool[T, R]{
		workers: workers,
		process: fn,
	}
}

// OnProgress registers fn to be called as tasks finish. fn may be called from
// several goroutines at once.
func (p *Pool[T, R]) OnProgress(fn ProgressFunc) *Pool[T, R] {
	p.progress = fn
	return p
}

// Execute runs all inputs through the worker pool and returns results in
// input order. Inputs not started before ctx ends carry ctx.Err().
func (p *Pool[T, R]) Execute(ctx context.Context, inputs []T) []Task[T, R] {
	results := make([]Task[T, R], len(inputs))
	inputCh := make(chan int, len(inputs))

	var (
		wg       sync.WaitGroup
		finished atomic.Int64
	)

	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case idx, ok := <-inputCh:
					if !ok {
						return
					}
					result, err := p.process(ctx, inputs[idx])
					results[idx] = Task[T, R]{
						Input:  inputs[idx],
						Result: result,
						Err:    err,
						Done:   true,
					}
					if err != nil {
						log.Error().Err(err).Int("worker", workerID).Int("index", idx).Msg("Task failed")
					}
					n := finished.Add(1)
					if p.progress != nil {
						p.progress(int(n), len(inputs))
					}
				}
			}
		}(w)
	}

send:
	for i := range inputs {
		select {
		case <-ctx.Done():
			break send
		case inputCh <- i:
		}
	}
	close(inputCh)

	wg.Wait()

	for i := range results {
		if !results[i].Done {
			results[i].Input = inputs[i]
			results[i].Err = ctx.Err()
		}
	}
	return results
}

// Batch splits inputs into batches and processes each batch.
func Batch[T any](items []T, batchSize int) [][]T {
	if batchSize <= 0 {
		batchSize = 1
	}
	var batches [][]T
	for i := 0; i < len(items); i += batchSize {
		end := i + batchSize
		if end > len(items) {
			end = len(items)
		}
		batches = append(batches, items[i:end])
	}
	return batches
}
