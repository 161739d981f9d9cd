package slack

import (
	"context"
)

// Service provides the thin interface to the Slack API used by the
// channel adapter and the notifier. Implementations wrap slack-go;
// tests substitute a fake.
type Service interface {
	// CreateChannel creates a public channel with the given name and
	// returns it. A name collision surfaces as a conflict-tagged error.
	CreateChannel(ctx context.Context, name string) (*Channel, error)

	// ChannelInfo retrieves the current state of a channel, including
	// whether it is archived
	ChannelInfo(ctx context.Context, channelID string) (*Channel, error)

	// RenameChannel renames an existing channel
	RenameChannel(ctx context.Context, channelID, name string) error

	// ArchiveChannel archives a channel
	ArchiveChannel(ctx context.Context, channelID string) error

	// UnarchiveChannel restores an archived channel
	UnarchiveChannel(ctx context.Context, channelID string) error

	// InviteUsers invites users to a channel. Silently skips if userIDs
	// is empty. Users already in the channel are not an error.
	InviteUsers(ctx context.Context, channelID string, userIDs []string) error

	// UsergroupMembers retrieves the user IDs of a usergroup
	UsergroupMembers(ctx context.Context, usergroupID string) ([]string, error)

	// PostMessage posts a plain message to a channel and returns the
	// message timestamp
	PostMessage(ctx context.Context, channelID, text string) (string, error)

	// UpdateMessage rewrites an existing message identified by channel
	// and timestamp
	UpdateMessage(ctx context.Context, channelID, timestamp, text string) error

	// ListPinned retrieves the pinned messages of a channel
	ListPinned(ctx context.Context, channelID string) ([]PinnedItem, error)

	// PinMessage pins a message to a channel. Already-pinned is not an
	// error.
	PinMessage(ctx context.Context, channelID, timestamp string) error

	// TeamURL retrieves the workspace URL (e.g. "https://acme.slack.com/").
	// The result is cached for the lifetime of the service instance.
	TeamURL(ctx context.Context) (string, error)
}

// Channel represents a Slack channel
type Channel struct {
	ID         string
	Name       string
	IsArchived bool
}

// PinnedItem represents a pinned message in a channel
type PinnedItem struct {
	Timestamp string
	Text      string
}
