package groups

import (
	"context"
)

// Service provides the thin interface to the Google Workspace admin
// and groupssettings APIs used by the mailing list adapter
type Service interface {
	// CreateGroup creates a group with the given email and display name
	CreateGroup(ctx context.Context, email, name string) (*Group, error)

	// GetGroup retrieves a group by its immutable ID or email
	GetGroup(ctx context.Context, key string) (*Group, error)

	// UpdateGroup changes the email and display name of a group
	UpdateGroup(ctx context.Context, key, email, name string) error

	// WhoCanPostMessage retrieves the posting setting of a group
	WhoCanPostMessage(ctx context.Context, email string) (string, error)

	// SetWhoCanPostMessage changes the posting setting of a group
	SetWhoCanPostMessage(ctx context.Context, email, setting string) error
}

// Group represents a Workspace group. ID is immutable; Email changes
// on rename.
type Group struct {
	ID    string
	Email string
	Name  string
}
