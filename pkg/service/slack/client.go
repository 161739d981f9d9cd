package slack

import (
	"context"
	"errors"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/projektwerk/stagehand/pkg/domain/types"
	"github.com/slack-go/slack"
)

// client implements Service interface
type client struct {
	api *slack.Client

	mu      sync.Mutex
	teamURL string
}

// New creates a new Slack service with the provided bot token
func New(token string) (Service, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}

	return &client{
		api: slack.New(token),
	}, nil
}

// wrapAPIError classifies a Slack API failure into the error taxonomy.
// Rate limits and server-side failures are transient; idempotency
// collisions (name_taken, already_archived, ...) are conflicts.
func wrapAPIError(err error, msg string, options ...goerr.Option) error {
	var rateErr *slack.RateLimitedError
	var statusErr slack.StatusCodeError
	switch {
	case errors.As(err, &rateErr):
		options = append(options, goerr.T(types.ErrTagTransient))
	case errors.As(err, &statusErr) && statusErr.Code >= 500:
		options = append(options, goerr.T(types.ErrTagTransient))
	default:
		switch err.Error() {
		case "name_taken":
			options = append(options, goerr.T(types.ErrTagConflict))
		case "already_archived", "not_archived", "already_pinned", "already_in_channel":
			options = append(options, goerr.T(types.ErrTagConflict))
		case "channel_not_found", "message_not_found":
			options = append(options, goerr.T(types.ErrTagNotFound))
		}
	}
	return goerr.Wrap(err, msg, options...)
}

// CreateChannel creates a public channel with the given name
func (c *client) CreateChannel(ctx context.Context, name string) (*Channel, error) {
	channel, err := c.api.CreateConversationContext(ctx, slack.CreateConversationParams{
		ChannelName: name,
		IsPrivate:   false,
	})
	if err != nil {
		return nil, wrapAPIError(err, "failed to create Slack channel", goerr.V("name", name))
	}
	return &Channel{ID: channel.ID, Name: channel.Name, IsArchived: channel.IsArchived}, nil
}

// ChannelInfo retrieves the current state of a channel
func (c *client) ChannelInfo(ctx context.Context, channelID string) (*Channel, error) {
	info, err := c.api.GetConversationInfoContext(ctx, &slack.GetConversationInfoInput{
		ChannelID: channelID,
	})
	if err != nil {
		return nil, wrapAPIError(err, "failed to get Slack channel info", goerr.V("channelID", channelID))
	}
	return &Channel{ID: info.ID, Name: info.Name, IsArchived: info.IsArchived}, nil
}

// RenameChannel renames an existing channel
func (c *client) RenameChannel(ctx context.Context, channelID, name string) error {
	if _, err := c.api.RenameConversationContext(ctx, channelID, name); err != nil {
		return wrapAPIError(err, "failed to rename Slack channel", goerr.V("channelID", channelID), goerr.V("name", name))
	}
	return nil
}

// ArchiveChannel archives a channel
func (c *client) ArchiveChannel(ctx context.Context, channelID string) error {
	if err := c.api.ArchiveConversationContext(ctx, channelID); err != nil {
		return wrapAPIError(err, "failed to archive Slack channel", goerr.V("channelID", channelID))
	}
	return nil
}

// UnarchiveChannel restores an archived channel
func (c *client) UnarchiveChannel(ctx context.Context, channelID string) error {
	if err := c.api.UnArchiveConversationContext(ctx, channelID); err != nil {
		return wrapAPIError(err, "failed to unarchive Slack channel", goerr.V("channelID", channelID))
	}
	return nil
}

// InviteUsers invites users to a channel
func (c *client) InviteUsers(ctx context.Context, channelID string, userIDs []string) error {
	if len(userIDs) == 0 {
		return nil
	}
	if _, err := c.api.InviteUsersToConversationContext(ctx, channelID, userIDs...); err != nil {
		// Inviting a member who is already present is not a failure
		if err.Error() == "already_in_channel" {
			return nil
		}
		return wrapAPIError(err, "failed to invite users to Slack channel", goerr.V("channelID", channelID), goerr.V("userIDs", userIDs))
	}
	return nil
}

// UsergroupMembers retrieves the user IDs of a usergroup
func (c *client) UsergroupMembers(ctx context.Context, usergroupID string) ([]string, error) {
	members, err := c.api.GetUserGroupMembersContext(ctx, usergroupID)
	if err != nil {
		return nil, wrapAPIError(err, "failed to get Slack usergroup members", goerr.V("usergroupID", usergroupID))
	}
	return members, nil
}

// PostMessage posts a plain message to a channel
func (c *client) PostMessage(ctx context.Context, channelID, text string) (string, error) {
	_, timestamp, err := c.api.PostMessageContext(ctx, channelID, slack.MsgOptionText(text, false))
	if err != nil {
		return "", wrapAPIError(err, "failed to post Slack message", goerr.V("channelID", channelID))
	}
	return timestamp, nil
}

// UpdateMessage rewrites an existing message
func (c *client) UpdateMessage(ctx context.Context, channelID, timestamp, text string) error {
	if _, _, _, err := c.api.UpdateMessageContext(ctx, channelID, timestamp, slack.MsgOptionText(text, false)); err != nil {
		return wrapAPIError(err, "failed to update Slack message", goerr.V("channelID", channelID), goerr.V("timestamp", timestamp))
	}
	return nil
}

// ListPinned retrieves the pinned messages of a channel
func (c *client) ListPinned(ctx context.Context, channelID string) ([]PinnedItem, error) {
	items, _, err := c.api.ListPinsContext(ctx, channelID)
	if err != nil {
		return nil, wrapAPIError(err, "failed to list Slack pins", goerr.V("channelID", channelID))
	}

	var pins []PinnedItem
	for _, item := range items {
		if item.Message == nil {
			continue
		}
		pins = append(pins, PinnedItem{
			Timestamp: item.Message.Timestamp,
			Text:      item.Message.Text,
		})
	}
	return pins, nil
}

// PinMessage pins a message to a channel
func (c *client) PinMessage(ctx context.Context, channelID, timestamp string) error {
	if err := c.api.AddPinContext(ctx, channelID, slack.NewRefToMessage(channelID, timestamp)); err != nil {
		if err.Error() == "already_pinned" {
			return nil
		}
		return wrapAPIError(err, "failed to pin Slack message", goerr.V("channelID", channelID), goerr.V("timestamp", timestamp))
	}
	return nil
}

// TeamURL retrieves the workspace URL with caching
func (c *client) TeamURL(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.teamURL != "" {
		return c.teamURL, nil
	}

	info, err := c.api.GetTeamInfoContext(ctx)
	if err != nil {
		return "", wrapAPIError(err, "failed to get Slack team info")
	}

	c.teamURL = "https://" + info.Domain + ".slack.com/"
	return c.teamURL, nil
}
