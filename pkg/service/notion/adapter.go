package notion

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/projektwerk/stagehand/pkg/domain/interfaces"
	"github.com/projektwerk/stagehand/pkg/domain/model"
	"github.com/projektwerk/stagehand/pkg/domain/types"
	"github.com/projektwerk/stagehand/pkg/service/slug"
)

// Adapter implements the lifecycle capability set for Notion pages in a
// project database. Archive state is the page's own archived flag.
type Adapter struct {
	svc  Service
	repo interfaces.Repository
	slug *slug.Formatter

	databaseID string
}

// NewAdapter creates a Notion page adapter for the given database
func NewAdapter(svc Service, repo interfaces.Repository, databaseID string) *Adapter {
	return &Adapter{
		svc:        svc,
		repo:       repo,
		slug:       slug.Notion(),
		databaseID: databaseID,
	}
}

// Kind returns the service kind this adapter serves
func (a *Adapter) Kind() types.ServiceKind {
	return types.ServiceKindNotion
}

func (a *Adapter) load(ctx context.Context, id types.ConnectionID) (*model.ServiceConnection, *model.Project, error) {
	conn, err := a.repo.Connection().Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	project, err := a.repo.Project().Get(ctx, conn.ProjectID)
	if err != nil {
		return nil, nil, err
	}
	return conn, project, nil
}

func (a *Adapter) requireLinked(conn *model.ServiceConnection) error {
	if !conn.Linked() {
		return goerr.New("page not created yet", goerr.T(types.ErrTagNotFound), goerr.V("connectionID", conn.ID))
	}
	return nil
}

// Create creates the project page in the database
func (a *Adapter) Create(ctx context.Context, id types.ConnectionID) error {
	conn, project, err := a.load(ctx, id)
	if err != nil {
		return err
	}
	if conn.Linked() {
		return nil
	}

	title := a.slug.Format(project.TypeCode, project.ID, project.Title, conn.Qualifier)
	page, err := a.svc.CreatePage(ctx, a.databaseID, title)
	if err != nil {
		return err
	}

	conn.RemoteID = page.ID
	conn.Archived = false
	conn.SetStatus(fmt.Sprintf("page %q created", title))
	if _, err := a.repo.Connection().Update(ctx, conn); err != nil {
		return err
	}
	return nil
}

// Rename updates the page title. Renaming to the current title is a
// no-op success.
func (a *Adapter) Rename(ctx context.Context, id types.ConnectionID) error {
	conn, project, err := a.load(ctx, id)
	if err != nil {
		return err
	}
	if err := a.requireLinked(conn); err != nil {
		return err
	}

	title := a.slug.Format(project.TypeCode, project.ID, project.Title, conn.Qualifier)
	page, err := a.svc.GetPage(ctx, conn.RemoteID)
	if err != nil {
		return err
	}
	if page.Title != title {
		if err := a.svc.RenamePage(ctx, conn.RemoteID, title); err != nil {
			return err
		}
	}

	conn.SetStatus(fmt.Sprintf("page renamed to %q", title))
	if _, err := a.repo.Connection().Update(ctx, conn); err != nil {
		return err
	}
	return nil
}

// Archive sets the page archived flag. An already-archived page
// succeeds without a mutation.
func (a *Adapter) Archive(ctx context.Context, id types.ConnectionID) error {
	return a.setArchived(ctx, id, true, "page %q archived")
}

// Unarchive clears the page archived flag
func (a *Adapter) Unarchive(ctx context.Context, id types.ConnectionID) error {
	return a.setArchived(ctx, id, false, "page %q restored")
}

func (a *Adapter) setArchived(ctx context.Context, id types.ConnectionID, archived bool, statusFormat string) error {
	conn, _, err := a.load(ctx, id)
	if err != nil {
		return err
	}
	if err := a.requireLinked(conn); err != nil {
		return err
	}

	page, err := a.svc.GetPage(ctx, conn.RemoteID)
	if err != nil {
		return err
	}
	if page.Archived != archived {
		if err := a.svc.SetArchived(ctx, conn.RemoteID, archived); err != nil {
			return err
		}
	}

	conn.Archived = archived
	conn.SetStatus(fmt.Sprintf(statusFormat, page.Title))
	if _, err := a.repo.Connection().Update(ctx, conn); err != nil {
		return err
	}
	return nil
}

// Link returns the deep link to the page
func (a *Adapter) Link(ctx context.Context, id types.ConnectionID) (string, error) {
	conn, err := a.repo.Connection().Get(ctx, id)
	if err != nil {
		return "", err
	}
	if err := a.requireLinked(conn); err != nil {
		return "", err
	}

	page, err := a.svc.GetPage(ctx, conn.RemoteID)
	if err != nil {
		return "", err
	}
	return page.URL, nil
}
