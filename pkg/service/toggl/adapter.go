package toggl

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

// Adapter implements the lifecycle capability set for Toggl Track
// projects. Archive state is the inverse of the project active flag.
type Adapter struct {
	svc  Service
	repo interfaces.Repository
	slug *slug.Formatter
}

// NewAdapter creates a Toggl Track project adapter
func NewAdapter(svc Service, repo interfaces.Repository) *Adapter {
	return &Adapter{
		svc:  svc,
		repo: repo,
		slug: slug.Toggl(),
	}
}

// Kind returns the service kind this adapter serves
func (a *Adapter) Kind() types.ServiceKind {
	return types.ServiceKindToggl
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

// remoteID parses the connection's remote ID into the numeric Toggl
// project ID
func remoteID(conn *model.ServiceConnection) (int64, error) {
	if !conn.Linked() {
		return 0, goerr.New("project not created yet", goerr.T(types.ErrTagNotFound), goerr.V("connectionID", conn.ID))
	}
	id, err := strconv.ParseInt(conn.RemoteID, 10, 64)
	if err != nil {
		return 0, goerr.Wrap(err, "invalid Toggl project ID", goerr.V("remoteID", conn.RemoteID))
	}
	return id, nil
}

// Create creates the tracking project in the workspace
func (a *Adapter) Create(ctx context.Context, id types.ConnectionID) error {
	conn, project, err := a.load(ctx, id)
	if err != nil {
		return err
	}
	if conn.Linked() {
		return nil
	}

	name := a.slug.Format(project.TypeCode, project.ID, project.Title, conn.Qualifier)
	created, err := a.svc.CreateProject(ctx, name)
	if err != nil {
		return err
	}

	conn.RemoteID = strconv.FormatInt(created.ID, 10)
	conn.Archived = false
	conn.SetStatus(fmt.Sprintf("tracking project %q created", created.Name))
	if _, err := a.repo.Connection().Update(ctx, conn); err != nil {
		return err
	}
	return nil
}

// Rename changes the tracking project name. Renaming to the current
// name is a no-op success.
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
	current, err := a.svc.GetProject(ctx, rid)
	if err != nil {
		return err
	}
	if current.Name != name {
		if err := a.svc.RenameProject(ctx, rid, name); err != nil {
			return err
		}
	}

	conn.SetStatus(fmt.Sprintf("tracking project renamed to %q", name))
	if _, err := a.repo.Connection().Update(ctx, conn); err != nil {
		return err
	}
	return nil
}

// Archive deactivates the tracking project. Already-inactive succeeds
// without a mutation.
func (a *Adapter) Archive(ctx context.Context, id types.ConnectionID) error {
	return a.setActive(ctx, id, false, "tracking project %q archived")
}

// Unarchive reactivates the tracking project
func (a *Adapter) Unarchive(ctx context.Context, id types.ConnectionID) error {
	return a.setActive(ctx, id, true, "tracking project %q restored")
}

func (a *Adapter) setActive(ctx context.Context, id types.ConnectionID, active bool, statusFormat string) error {
	conn, _, err := a.load(ctx, id)
	if err != nil {
		return err
	}
	rid, err := remoteID(conn)
	if err != nil {
		return err
	}

	current, err := a.svc.GetProject(ctx, rid)
	if err != nil {
		return err
	}
	if current.Active != active {
		if err := a.svc.SetActive(ctx, rid, active); err != nil {
			return err
		}
	}

	conn.Archived = !active
	conn.SetStatus(fmt.Sprintf(statusFormat, current.Name))
	if _, err := a.repo.Connection().Update(ctx, conn); err != nil {
		return err
	}
	return nil
}

// Link returns the deep link to the tracking project
func (a *Adapter) Link(ctx context.Context, id types.ConnectionID) (string, error) {
	conn, err := a.repo.Connection().Get(ctx, id)
	if err != nil {
		return "", err
	}
	rid, err := remoteID(conn)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("https://track.toggl.com/%d/projects/%d", a.svc.WorkspaceID(), rid), nil
}
