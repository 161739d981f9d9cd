package worker_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/projektwerk/stagehand/pkg/domain/model"
	"github.com/projektwerk/stagehand/pkg/domain/types"
	"github.com/projektwerk/stagehand/pkg/service/worker"
)

func TestRunnerRetriesTransientErrors(t *testing.T) {
	runner := worker.NewRunner(worker.WithAttempts(3), worker.WithCountdown(time.Millisecond))

	calls := 0
	err := runner.Do(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return goerr.New("rate limited", goerr.T(types.ErrTagTransient))
		}
		return nil
	})
	gt.NoError(t, err)
	gt.Number(t, calls).Equal(3)
}

func TestRunnerStopsOnTerminalError(t *testing.T) {
	runner := worker.NewRunner(worker.WithAttempts(3), worker.WithCountdown(time.Millisecond))

	calls := 0
	err := runner.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return goerr.New("name already exists", goerr.T(types.ErrTagConflict))
	})
	gt.Value(t, err).NotNil()
	gt.Number(t, calls).Equal(1)
}

func TestRunnerExhaustsAttempts(t *testing.T) {
	runner := worker.NewRunner(worker.WithAttempts(2), worker.WithCountdown(time.Millisecond))

	calls := 0
	err := runner.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return goerr.New("gateway timeout", goerr.T(types.ErrTagTransient))
	})
	gt.Value(t, err).NotNil()
	gt.Bool(t, types.IsTransient(err)).True()
	gt.Number(t, calls).Equal(2)
}

func TestRunnerHonorsContextCancellation(t *testing.T) {
	runner := worker.NewRunner(worker.WithAttempts(3), worker.WithCountdown(time.Minute))

	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	errCh := make(chan error, 1)
	go func() {
		errCh <- runner.Do(ctx, func(ctx context.Context) error {
			calls++
			return goerr.New("unreachable", goerr.T(types.ErrTagTransient))
		})
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		gt.Value(t, err).NotNil()
		gt.Number(t, calls).Equal(1)
	case <-time.After(time.Second):
		t.Fatal("runner did not return after cancellation")
	}
}

func TestPoolExecutesEnqueuedJobs(t *testing.T) {
	var mu sync.Mutex
	var handled []int64
	var wg sync.WaitGroup

	pool := worker.NewPool(func(ctx context.Context, job model.LifecycleJob) error {
		defer wg.Done()
		mu.Lock()
		defer mu.Unlock()
		handled = append(handled, job.ProjectID)
		return nil
	})

	gt.NoError(t, pool.Start(context.Background())).Required()

	wg.Add(3)
	for i := int64(1); i <= 3; i++ {
		gt.NoError(t, pool.Enqueue(model.LifecycleJob{ProjectID: i, Action: types.ActionCreate}))
	}
	wg.Wait()
	pool.Stop()

	mu.Lock()
	defer mu.Unlock()
	gt.Number(t, len(handled)).Equal(3)
}

func TestPoolDrainsQueueOnStop(t *testing.T) {
	var mu sync.Mutex
	handled := 0

	pool := worker.NewPool(func(ctx context.Context, job model.LifecycleJob) error {
		mu.Lock()
		defer mu.Unlock()
		handled++
		return nil
	}, worker.WithQueueSize(8), worker.WithConcurrency(1))

	// enqueue before starting so jobs are still queued when Stop runs
	for i := int64(1); i <= 5; i++ {
		gt.NoError(t, pool.Enqueue(model.LifecycleJob{ProjectID: i, Action: types.ActionArchive}))
	}

	gt.NoError(t, pool.Start(context.Background())).Required()
	pool.Stop()

	mu.Lock()
	defer mu.Unlock()
	gt.Number(t, handled).Equal(5)
}

func TestPoolRejectsWhenQueueFull(t *testing.T) {
	pool := worker.NewPool(func(ctx context.Context, job model.LifecycleJob) error {
		return nil
	}, worker.WithQueueSize(1))

	gt.NoError(t, pool.Enqueue(model.LifecycleJob{ProjectID: 1, Action: types.ActionCreate}))
	gt.Value(t, pool.Enqueue(model.LifecycleJob{ProjectID: 2, Action: types.ActionCreate})).NotNil()
}
