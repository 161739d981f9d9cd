package interfaces

import (
	"context"

	"github.com/projektwerk/stagehand/pkg/domain/model"
)

// ProjectRepository defines the interface for Project data access
type ProjectRepository interface {
	// Create creates a new project with the next sequential ID
	Create(ctx context.Context, p *model.Project) (*model.Project, error)

	// Get retrieves a project by ID
	Get(ctx context.Context, id int64) (*model.Project, error)

	// List retrieves all projects ordered by ID
	List(ctx context.Context) ([]*model.Project, error)

	// Update updates an existing project. The ID must not change.
	Update(ctx context.Context, p *model.Project) (*model.Project, error)

	// Delete deletes a project by ID. Callers are expected to have driven
	// the project through archive first; the use-case layer enforces this.
	Delete(ctx context.Context, id int64) error
}
