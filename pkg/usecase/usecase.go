package usecase

import (
	"context"

	"github.com/projektwerk/stagehand/pkg/domain/interfaces"
	"github.com/projektwerk/stagehand/pkg/domain/model"
	"github.com/projektwerk/stagehand/pkg/domain/model/config"
	"github.com/projektwerk/stagehand/pkg/service/registry"
	"github.com/projektwerk/stagehand/pkg/service/worker"
)

// UseCases bundles the lifecycle operations. Triggers (HTTP handlers,
// CLI) terminate in the explicit intention methods; the fan-out itself
// runs through ExecuteLifecycle, normally via the job queue.
type UseCases struct {
	repo     interfaces.Repository
	registry *registry.Registry
	runner   *worker.Runner
	topology *config.Topology
	notifier interfaces.Notifier
	queue    interfaces.Queue
}

// Option is a functional option for UseCases configuration
type Option func(*UseCases)

// WithRunner sets the retry runner for per-connection dispatch
func WithRunner(r *worker.Runner) Option {
	return func(uc *UseCases) {
		uc.runner = r
	}
}

// WithTopology sets the service topology configuration
func WithTopology(t *config.Topology) Option {
	return func(uc *UseCases) {
		uc.topology = t
	}
}

// WithNotifier sets the notification sink for fan-out reports
func WithNotifier(n interfaces.Notifier) Option {
	return func(uc *UseCases) {
		uc.notifier = n
	}
}

// WithQueue sets the job queue for asynchronous fan-out. Without a
// queue, lifecycle jobs execute synchronously in the calling
// goroutine.
func WithQueue(q interfaces.Queue) Option {
	return func(uc *UseCases) {
		uc.queue = q
	}
}

// New creates the use case layer
func New(repo interfaces.Repository, reg *registry.Registry, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:     repo,
		registry: reg,
		runner:   worker.NewRunner(),
		topology: &config.Topology{},
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

// submit hands a lifecycle job to the queue, or executes it inline
// when no queue is configured
func (uc *UseCases) submit(ctx context.Context, job model.LifecycleJob) error {
	if uc.queue != nil {
		return uc.queue.Enqueue(job)
	}
	return uc.ExecuteLifecycle(ctx, job)
}
