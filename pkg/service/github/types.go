package github

import (
	"context"
)

// Service provides the thin interface to the GitHub API used by the
// repository adapter
type Service interface {
	// CreateRepository creates a private repository in the configured
	// organization. A name collision surfaces as a conflict-tagged
	// error.
	CreateRepository(ctx context.Context, name string) (*Repository, error)

	// GetRepository retrieves the current state of a repository by its
	// immutable numeric ID, so renames do not lose track of it
	GetRepository(ctx context.Context, id int64) (*Repository, error)

	// RenameRepository changes the repository name
	RenameRepository(ctx context.Context, name, newName string) error

	// SetArchived sets the repository archived flag
	SetArchived(ctx context.Context, name string, archived bool) error
}

// Repository represents a GitHub repository
type Repository struct {
	ID       int64
	Name     string
	HTMLURL  string
	Archived bool
}
