package drive

import (
	"context"
	"fmt"
	"slices"

	"github.com/m-mizutani/goerr/v2"
	"github.com/projektwerk/stagehand/pkg/domain/interfaces"
	"github.com/projektwerk/stagehand/pkg/domain/model"
	"github.com/projektwerk/stagehand/pkg/domain/types"
	"github.com/projektwerk/stagehand/pkg/service/slug"
)

// Adapter implements the lifecycle capability set for Drive folders.
// Active project folders live under the active root; archiving moves a
// folder under the archive root, so archive state is read from the
// folder's current parents.
type Adapter struct {
	svc  Service
	repo interfaces.Repository
	slug *slug.Formatter

	activeRootID  string
	archiveRootID string
}

// NewAdapter creates a Drive folder adapter rooted at the given active
// and archive folders
func NewAdapter(svc Service, repo interfaces.Repository, activeRootID, archiveRootID string) *Adapter {
	return &Adapter{
		svc:           svc,
		repo:          repo,
		slug:          slug.Drive(),
		activeRootID:  activeRootID,
		archiveRootID: archiveRootID,
	}
}

// Kind returns the service kind this adapter serves
func (a *Adapter) Kind() types.ServiceKind {
	return types.ServiceKindDrive
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
		return goerr.New("folder not created yet", goerr.T(types.ErrTagNotFound), goerr.V("connectionID", conn.ID))
	}
	return nil
}

// Create creates the project folder under the active root. A folder of
// the same name already present under the root is a conflict, not a
// resource to adopt.
func (a *Adapter) Create(ctx context.Context, id types.ConnectionID) error {
	conn, project, err := a.load(ctx, id)
	if err != nil {
		return err
	}
	if conn.Linked() {
		return nil
	}

	name := a.slug.Format(project.TypeCode, project.ID, project.Title, conn.Qualifier)

	existing, err := a.svc.FindFolder(ctx, name, a.activeRootID)
	if err != nil {
		return err
	}
	if existing != nil {
		return goerr.New("folder already exists", goerr.T(types.ErrTagConflict),
			goerr.V("name", name), goerr.V("folderID", existing.ID))
	}

	folder, err := a.svc.CreateFolder(ctx, name, a.activeRootID)
	if err != nil {
		return err
	}

	conn.RemoteID = folder.ID
	conn.Archived = false
	conn.SetStatus(fmt.Sprintf("folder %s created", folder.Name))
	if _, err := a.repo.Connection().Update(ctx, conn); err != nil {
		return err
	}
	return nil
}

// Rename renames the folder to the slug derived from current project
// state. Renaming to the current name is a no-op success.
func (a *Adapter) Rename(ctx context.Context, id types.ConnectionID) error {
	conn, project, err := a.load(ctx, id)
	if err != nil {
		return err
	}
	if err := a.requireLinked(conn); err != nil {
		return err
	}

	name := a.slug.Format(project.TypeCode, project.ID, project.Title, conn.Qualifier)
	meta, err := a.svc.Metadata(ctx, conn.RemoteID)
	if err != nil {
		return err
	}
	if meta.Name != name {
		if err := a.svc.Rename(ctx, conn.RemoteID, name); err != nil {
			return err
		}
	}

	conn.SetStatus(fmt.Sprintf("folder renamed to %s", name))
	if _, err := a.repo.Connection().Update(ctx, conn); err != nil {
		return err
	}
	return nil
}

// Archive moves the folder under the archive root. A folder already
// under the archive root succeeds without a mutation.
func (a *Adapter) Archive(ctx context.Context, id types.ConnectionID) error {
	return a.move(ctx, id, a.archiveRootID, true, "folder %s archived")
}

// Unarchive moves the folder back under the active root
func (a *Adapter) Unarchive(ctx context.Context, id types.ConnectionID) error {
	return a.move(ctx, id, a.activeRootID, false, "folder %s restored")
}

func (a *Adapter) move(ctx context.Context, id types.ConnectionID, toParentID string, archived bool, statusFormat string) error {
	conn, _, err := a.load(ctx, id)
	if err != nil {
		return err
	}
	if err := a.requireLinked(conn); err != nil {
		return err
	}

	meta, err := a.svc.Metadata(ctx, conn.RemoteID)
	if err != nil {
		return err
	}
	if !slices.Contains(meta.Parents, toParentID) {
		from := toParentID
		if len(meta.Parents) > 0 {
			from = meta.Parents[0]
		}
		if err := a.svc.Move(ctx, conn.RemoteID, from, toParentID); err != nil {
			return err
		}
	}

	conn.Archived = archived
	conn.SetStatus(fmt.Sprintf(statusFormat, meta.Name))
	if _, err := a.repo.Connection().Update(ctx, conn); err != nil {
		return err
	}
	return nil
}

// Link returns the deep link to the folder
func (a *Adapter) Link(ctx context.Context, id types.ConnectionID) (string, error) {
	conn, err := a.repo.Connection().Get(ctx, id)
	if err != nil {
		return "", err
	}
	if err := a.requireLinked(conn); err != nil {
		return "", err
	}
	return "https://drive.google.com/drive/folders/" + conn.RemoteID, nil
}
