package github

import (
	"context"
	"fmt"
	"strconv"

	"github.com/m-mizutani/goerr/v2"
	"github.com/projektwerk/stagehand/pkg/domain/interfaces"
	"github.com/projektwerk/stagehand/pkg/domain/model"
	"github.com/projektwerk/stagehand/pkg/domain/types"
	"github.com/projektwerk/stagehand/pkg/service/slug"
)

// Adapter implements the lifecycle capability set for GitHub
// repositories in an organization
type Adapter struct {
	svc  Service
	repo interfaces.Repository
	slug *slug.Formatter
}

// NewAdapter creates a GitHub repository adapter
func NewAdapter(svc Service, repo interfaces.Repository) *Adapter {
	return &Adapter{
		svc:  svc,
		repo: repo,
		slug: slug.GitHub(),
	}
}

// Kind returns the service kind this adapter serves
func (a *Adapter) Kind() types.ServiceKind {
	return types.ServiceKindGitHub
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

// remoteID parses the connection's remote ID into the numeric
// repository ID
func remoteID(conn *model.ServiceConnection) (int64, error) {
	if !conn.Linked() {
		return 0, goerr.New("repository not created yet", goerr.T(types.ErrTagNotFound), goerr.V("connectionID", conn.ID))
	}
	id, err := strconv.ParseInt(conn.RemoteID, 10, 64)
	if err != nil {
		return 0, goerr.Wrap(err, "invalid GitHub repository ID", goerr.V("remoteID", conn.RemoteID))
	}
	return id, nil
}

// Create creates the project repository
func (a *Adapter) Create(ctx context.Context, id types.ConnectionID) error {
	conn, project, err := a.load(ctx, id)
	if err != nil {
		return err
	}
	if conn.Linked() {
		return nil
	}

	name := a.slug.Format(project.TypeCode, project.ID, project.Title, conn.Qualifier)
	created, err := a.svc.CreateRepository(ctx, name)
	if err != nil {
		return err
	}

	conn.RemoteID = strconv.FormatInt(created.ID, 10)
	conn.Archived = false
	conn.SetStatus(fmt.Sprintf("repository %s created", created.Name))
	if _, err := a.repo.Connection().Update(ctx, conn); err != nil {
		return err
	}
	return nil
}

// Rename changes the repository name. Renaming to the current name is
// a no-op success.
func (a *Adapter) Rename(ctx context.Context, id types.ConnectionID) error {
	conn, project, err := a.load(ctx, id)
	if err != nil {
		return err
	}
	rid, err := remoteID(conn)
	if err != nil {
		return err
	}

	name := a.slug.Format(project.TypeCode, project.ID, project.Title, conn.Qualifier)
	current, err := a.svc.GetRepository(ctx, rid)
	if err != nil {
		return err
	}
	if current.Name != name {
		if err := a.svc.RenameRepository(ctx, current.Name, name); err != nil {
			return err
		}
	}

	conn.SetStatus(fmt.Sprintf("repository renamed to %s", name))
	if _, err := a.repo.Connection().Update(ctx, conn); err != nil {
		return err
	}
	return nil
}

// Archive archives the repository. Already-archived succeeds without a
// mutation.
func (a *Adapter) Archive(ctx context.Context, id types.ConnectionID) error {
	return a.setArchived(ctx, id, true, "repository %s archived")
}

// Unarchive restores the repository
func (a *Adapter) Unarchive(ctx context.Context, id types.ConnectionID) error {
	return a.setArchived(ctx, id, false, "repository %s restored")
}

func (a *Adapter) setArchived(ctx context.Context, id types.ConnectionID, archived bool, statusFormat string) error {
	conn, _, err := a.load(ctx, id)
	if err != nil {
		return err
	}
	rid, err := remoteID(conn)
	if err != nil {
		return err
	}

	current, err := a.svc.GetRepository(ctx, rid)
	if err != nil {
		return err
	}
	if current.Archived != archived {
		if err := a.svc.SetArchived(ctx, current.Name, archived); err != nil {
			return err
		}
	}

	conn.Archived = archived
	conn.SetStatus(fmt.Sprintf(statusFormat, current.Name))
	if _, err := a.repo.Connection().Update(ctx, conn); err != nil {
		return err
	}
	return nil
}

// Link returns the repository HTML URL
func (a *Adapter) Link(ctx context.Context, id types.ConnectionID) (string, error) {
	conn, err := a.repo.Connection().Get(ctx, id)
	if err != nil {
		return "", err
	}
	rid, err := remoteID(conn)
	if err != nil {
		return "", err
	}

	current, err := a.svc.GetRepository(ctx, rid)
	if err != nil {
		return "", err
	}
	return current.HTMLURL, nil
}
