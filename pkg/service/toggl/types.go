package toggl

import (
	"context"
)

// Service provides the thin interface to the Toggl Track API used by
// the time tracking adapter
type Service interface {
	// CreateProject creates an active project in the workspace
	CreateProject(ctx context.Context, name string) (*Project, error)

	// GetProject retrieves the current state of a project
	GetProject(ctx context.Context, projectID int64) (*Project, error)

	// RenameProject changes the project name
	RenameProject(ctx context.Context, projectID int64, name string) error

	// SetActive sets the project active flag. Inactive projects are
	// hidden from time entry pickers.
	SetActive(ctx context.Context, projectID int64, active bool) error

	// WorkspaceID returns the configured workspace
	WorkspaceID() int64
}

// Project represents a Toggl Track project
type Project struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}
