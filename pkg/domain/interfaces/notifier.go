package interfaces

import (
	"context"

	"github.com/projektwerk/stagehand/pkg/domain/model"
)

// Notifier posts aggregated fan-out results and maintains the pinned
// links message in a communication channel.
type Notifier interface {
	// Post posts a message and returns its timestamp
	Post(ctx context.Context, channelID, text string) (string, error)

	// Update rewrites an existing message in place
	Update(ctx context.Context, channelID, timestamp, text string) error

	// ListPinned returns the pinned messages of a channel
	ListPinned(ctx context.Context, channelID string) ([]model.PinnedMessage, error)

	// Pin flags a message for persistent visibility
	Pin(ctx context.Context, channelID, timestamp string) error
}

// Queue submits lifecycle jobs for asynchronous at-least-once execution
type Queue interface {
	Enqueue(job model.LifecycleJob) error
}
