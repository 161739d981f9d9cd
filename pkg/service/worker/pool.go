package worker

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/projektwerk/stagehand/pkg/domain/model"
	"github.com/projektwerk/stagehand/pkg/utils/errutil"
	"github.com/projektwerk/stagehand/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultQueueSize is the default capacity of the job queue
	DefaultQueueSize = 64
	// DefaultConcurrency is the default number of jobs executed in
	// parallel
	DefaultConcurrency = 4
)

// Handler executes one lifecycle job
type Handler func(ctx context.Context, job model.LifecycleJob) error

// Pool executes enqueued lifecycle jobs in the background so HTTP
// handlers can return immediately. Jobs still queued when Stop is
// called are drained before shutdown completes.
//
// Architecture assumptions:
// - Single server instance (no distributed queue)
// - For horizontal scaling, replace the channel with a shared broker
type Pool struct {
	handler     Handler
	queue       chan model.LifecycleJob
	concurrency int
	stopCh      chan struct{}
	doneCh      chan struct{}
}

// PoolOption is a functional option for Pool configuration
type PoolOption func(*Pool)

// WithQueueSize sets the capacity of the job queue
func WithQueueSize(n int) PoolOption {
	return func(p *Pool) {
		p.queue = make(chan model.LifecycleJob, n)
	}
}

// WithConcurrency sets the number of jobs executed in parallel
func WithConcurrency(n int) PoolOption {
	return func(p *Pool) {
		p.concurrency = n
	}
}

// NewPool creates a worker pool for lifecycle jobs
func NewPool(handler Handler, opts ...PoolOption) *Pool {
	p := &Pool{
		handler:     handler,
		queue:       make(chan model.LifecycleJob, DefaultQueueSize),
		concurrency: DefaultConcurrency,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Enqueue submits a job for asynchronous execution. A full queue is an
// error rather than a blocked HTTP handler.
func (p *Pool) Enqueue(job model.LifecycleJob) error {
	select {
	case p.queue <- job:
		return nil
	default:
		return goerr.New("job queue is full",
			goerr.V("projectID", job.ProjectID), goerr.V("action", job.Action))
	}
}

// Start begins the job execution loop in a background goroutine
func (p *Pool) Start(ctx context.Context) error {
	logging.Default().Info("lifecycle worker pool starting",
		"concurrency", p.concurrency, "queueSize", cap(p.queue))
	go p.run(ctx)
	return nil
}

// Stop signals the pool to stop, drains the queue, and waits for
// running jobs to finish
func (p *Pool) Stop() {
	logging.Default().Info("lifecycle worker pool stopping")
	close(p.stopCh)
	<-p.doneCh
	logging.Default().Info("lifecycle worker pool stopped")
}

// run is the main pool loop (runs in goroutine)
func (p *Pool) run(ctx context.Context) {
	defer close(p.doneCh)

	eg := &errgroup.Group{}
	eg.SetLimit(p.concurrency)

	execute := func(job model.LifecycleJob) {
		eg.Go(func() error {
			if err := p.handler(ctx, job); err != nil {
				errutil.Handle(ctx, err, "lifecycle job failed")
			}
			return nil
		})
	}

	for {
		select {
		case job := <-p.queue:
			execute(job)

		case <-p.stopCh:
			p.drain(execute)
			_ = eg.Wait()
			return

		case <-ctx.Done():
			_ = eg.Wait()
			return
		}
	}
}

// drain executes jobs still queued at stop time
func (p *Pool) drain(execute func(model.LifecycleJob)) {
	for {
		select {
		case job := <-p.queue:
			execute(job)
		default:
			return
		}
	}
}
