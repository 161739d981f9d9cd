package drive

import (
	"context"
)

// Service provides the thin interface to the Google Drive API used by
// the folder adapter
type Service interface {
	// CreateFolder creates a folder under the given parent
	CreateFolder(ctx context.Context, name, parentID string) (*Folder, error)

	// FindFolder looks up a non-trashed folder by exact name under the
	// given parent. Returns nil without error when no folder matches.
	FindFolder(ctx context.Context, name, parentID string) (*Folder, error)

	// Metadata retrieves the current name and parents of a folder
	Metadata(ctx context.Context, folderID string) (*Folder, error)

	// Rename changes the folder name
	Rename(ctx context.Context, folderID, name string) error

	// Move reparents a folder
	Move(ctx context.Context, folderID, fromParentID, toParentID string) error
}

// Folder represents a Drive folder
type Folder struct {
	ID      string
	Name    string
	Parents []string
}
