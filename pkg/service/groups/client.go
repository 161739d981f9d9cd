package groups

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/projektwerk/stagehand/pkg/domain/types"
	admin "google.golang.org/api/admin/directory/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/groupssettings/v1"
	"google.golang.org/api/option"
)

// client implements Service interface
type client struct {
	directory *admin.Service
	settings  *groupssettings.Service
}

// New creates a new Workspace groups service. Credentials come from
// the environment unless overridden by client options; the directory
// scope requires domain-wide delegation.
func New(ctx context.Context, opts ...option.ClientOption) (Service, error) {
	directory, err := admin.NewService(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create admin directory service")
	}
	settings, err := groupssettings.NewService(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create groupssettings service")
	}
	return &client{directory: directory, settings: settings}, nil
}

// wrapAPIError classifies a Workspace API failure into the error taxonomy
func wrapAPIError(err error, msg string, options ...goerr.Option) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == 404:
			options = append(options, goerr.T(types.ErrTagNotFound))
		case apiErr.Code == 409:
			options = append(options, goerr.T(types.ErrTagConflict))
		case apiErr.Code == 429 || apiErr.Code >= 500:
			options = append(options, goerr.T(types.ErrTagTransient))
		}
	}
	return goerr.Wrap(err, msg, options...)
}

// CreateGroup creates a group with the given email and display name
func (c *client) CreateGroup(ctx context.Context, email, name string) (*Group, error) {
	group, err := c.directory.Groups.Insert(&admin.Group{
		Email: email,
		Name:  name,
	}).Context(ctx).Do()
	if err != nil {
		return nil, wrapAPIError(err, "failed to create group", goerr.V("email", email))
	}
	return &Group{ID: group.Id, Email: group.Email, Name: group.Name}, nil
}

// GetGroup retrieves a group by its immutable ID or email
func (c *client) GetGroup(ctx context.Context, key string) (*Group, error) {
	group, err := c.directory.Groups.Get(key).Context(ctx).Do()
	if err != nil {
		return nil, wrapAPIError(err, "failed to get group", goerr.V("key", key))
	}
	return &Group{ID: group.Id, Email: group.Email, Name: group.Name}, nil
}

// UpdateGroup changes the email and display name of a group
func (c *client) UpdateGroup(ctx context.Context, key, email, name string) error {
	_, err := c.directory.Groups.Patch(key, &admin.Group{
		Email: email,
		Name:  name,
	}).Context(ctx).Do()
	if err != nil {
		return wrapAPIError(err, "failed to update group", goerr.V("key", key), goerr.V("email", email))
	}
	return nil
}

// WhoCanPostMessage retrieves the posting setting of a group
func (c *client) WhoCanPostMessage(ctx context.Context, email string) (string, error) {
	settings, err := c.settings.Groups.Get(email).Context(ctx).Do()
	if err != nil {
		return "", wrapAPIError(err, "failed to get group settings", goerr.V("email", email))
	}
	return settings.WhoCanPostMessage, nil
}

// SetWhoCanPostMessage changes the posting setting of a group
func (c *client) SetWhoCanPostMessage(ctx context.Context, email, setting string) error {
	_, err := c.settings.Groups.Patch(email, &groupssettings.Groups{
		WhoCanPostMessage: setting,
	}).Context(ctx).Do()
	if err != nil {
		return wrapAPIError(err, "failed to update group settings", goerr.V("email", email), goerr.V("setting", setting))
	}
	return nil
}
