package slack

import (
	"context"

	"github.com/projektwerk/stagehand/pkg/domain/model"
)

// Notifier posts and maintains report messages through the Slack API
type Notifier struct {
	svc Service
}

// NewNotifier creates a Notifier backed by the given Slack service
func NewNotifier(svc Service) *Notifier {
	return &Notifier{svc: svc}
}

// Post posts a message and returns its timestamp
func (n *Notifier) Post(ctx context.Context, channelID, text string) (string, error) {
	return n.svc.PostMessage(ctx, channelID, text)
}

// Update rewrites an existing message in place
func (n *Notifier) Update(ctx context.Context, channelID, timestamp, text string) error {
	return n.svc.UpdateMessage(ctx, channelID, timestamp, text)
}

// ListPinned returns the pinned messages of a channel
func (n *Notifier) ListPinned(ctx context.Context, channelID string) ([]model.PinnedMessage, error) {
	items, err := n.svc.ListPinned(ctx, channelID)
	if err != nil {
		return nil, err
	}

	pins := make([]model.PinnedMessage, 0, len(items))
	for _, item := range items {
		pins = append(pins, model.PinnedMessage{
			Timestamp: item.Timestamp,
			Text:      item.Text,
		})
	}
	return pins, nil
}

// Pin flags a message for persistent visibility
func (n *Notifier) Pin(ctx context.Context, channelID, timestamp string) error {
	return n.svc.PinMessage(ctx, channelID, timestamp)
}
