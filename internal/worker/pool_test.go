package worker_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rw-translator/internal/worker"
)

func TestPoolExecuteKeepsOrder(t *testing.T) {
	t.Parallel()

	inputs := []int{1, 2, 3, 4, 5, 6, 7, 8}
	pool := worker.NewPool[int, int](3, func(_ context.Context, n int) (int, error) {
		if n == 4 {
			return 0, errors.New("four")
		}
		return n * n, nil
	})

	var calls atomic.Int64
	pool.OnProgress(func(done, total int) {
		calls.Add(1)
		assert.Equal(t, len(inputs), total)
		assert.LessOrEqual(t, done, total)
	})

	tasks := pool.Execute(context.Background(), inputs)
	require.Len(t, tasks, len(inputs))
	for i, task := range tasks {
		assert.True(t, task.Done)
		assert.Equal(t, inputs[i], task.Input)
		if inputs[i] == 4 {
			assert.EqualError(t, task.Err, "four")
			continue
		}
		assert.NoError(t, task.Err)
		assert.Equal(t, inputs[i]*inputs[i], task.Result)
	}
	assert.Equal(t, int64(len(inputs)), calls.Load())
}

func TestPoolExecuteCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pool := worker.NewPool[int, int](2, func(_ context.Context, n int) (int, error) {
		return n, nil
	})
	tasks := pool.Execute(ctx, []int{1, 2, 3})
	require.Len(t, tasks, 3)
	for i, task := range tasks {
		assert.Equal(t, i+1, task.Input)
		if !task.Done {
			assert.ErrorIs(t, task.Err, context.Canceled)
		}
	}
}

func TestNewPoolClampsWorkers(t *testing.T) {
	t.Parallel()

	pool := worker.NewPool[string, string](0, func(_ context.Context, s string) (string, error) {
		return s + "!", nil
	})
	tasks := pool.Execute(context.Background(), []string{"a"})
	assert.Equal(t, "a!", tasks[0].Result)
}

func TestBatch(t *testing.T) {
	t.Parallel()

	assert.Equal(t, [][]int{{1, 2}, {3, 4}, {5}}, worker.Batch([]int{1, 2, 3, 4, 5}, 2))
	assert.Equal(t, [][]int{{1}, {2}}, worker.Batch([]int{1, 2}, 0))
	assert.Nil(t, worker.Batch([]int{}, 3))
}
