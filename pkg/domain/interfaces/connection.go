package interfaces

import (
	"context"

	"github.com/projektwerk/stagehand/pkg/domain/model"
	"github.com/projektwerk/stagehand/pkg/domain/types"
)

// ConnectionRepository defines the interface for ServiceConnection data access
type ConnectionRepository interface {
	// Create creates a new connection with a generated ID
	Create(ctx context.Context, c *model.ServiceConnection) (*model.ServiceConnection, error)

	// Get retrieves a connection by ID
	Get(ctx context.Context, id types.ConnectionID) (*model.ServiceConnection, error)

	// ListByProject retrieves all connections of one project
	ListByProject(ctx context.Context, projectID int64) ([]*model.ServiceConnection, error)

	// FindByRemote retrieves the connection of a kind holding the given
	// remote identifier. Used to resolve a trigger inside a remote
	// service (e.g. a Slack channel) back to its project.
	FindByRemote(ctx context.Context, kind types.ServiceKind, remoteID string) (*model.ServiceConnection, error)

	// Update updates an existing connection
	Update(ctx context.Context, c *model.ServiceConnection) (*model.ServiceConnection, error)

	// Delete deletes a connection by ID
	Delete(ctx context.Context, id types.ConnectionID) error

	// DeleteByProject deletes all connections of one project (cascade on
	// project deletion)
	DeleteByProject(ctx context.Context, projectID int64) error
}

// TemplateRepository stores the singleton template record
type TemplateRepository interface {
	// Get retrieves the template. Returns a not_found tagged error when
	// the template has not been bootstrapped yet.
	Get(ctx context.Context) (*model.Template, error)

	// Put stores the template, replacing any previous version
	Put(ctx context.Context, t *model.Template) error
}
