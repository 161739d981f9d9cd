package groups

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/projektwerk/stagehand/pkg/domain/interfaces"
	"github.com/projektwerk/stagehand/pkg/domain/model"
	"github.com/projektwerk/stagehand/pkg/domain/types"
	"github.com/projektwerk/stagehand/pkg/service/slug"
)

// Posting settings used as the archive state of a mailing list. Google
// has no archive concept for groups, so an archived list is one nobody
// can post to.
const (
	archivedPosting = "NONE_CAN_POST"
	activePosting   = "ALL_MEMBERS_CAN_POST"
)

// Adapter implements the lifecycle capability set for Workspace group
// mailing lists
type Adapter struct {
	svc  Service
	repo interfaces.Repository
	slug *slug.Formatter

	domain string
}

// NewAdapter creates a mailing list adapter for the given Workspace
// domain
func NewAdapter(svc Service, repo interfaces.Repository, domain string) *Adapter {
	return &Adapter{
		svc:    svc,
		repo:   repo,
		slug:   slug.Group(),
		domain: domain,
	}
}

// Kind returns the service kind this adapter serves
func (a *Adapter) Kind() types.ServiceKind {
	return types.ServiceKindGroup
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
		return goerr.New("group not created yet", goerr.T(types.ErrTagNotFound), goerr.V("connectionID", conn.ID))
	}
	return nil
}

func (a *Adapter) email(project *model.Project, conn *model.ServiceConnection) string {
	local := a.slug.Format(project.TypeCode, project.ID, project.Title, conn.Qualifier)
	return local + "@" + a.domain
}

// Create creates the mailing list. The immutable group ID becomes the
// remote identifier so later renames can change the email address.
func (a *Adapter) Create(ctx context.Context, id types.ConnectionID) error {
	conn, project, err := a.load(ctx, id)
	if err != nil {
		return err
	}
	if conn.Linked() {
		return nil
	}

	email := a.email(project, conn)
	group, err := a.svc.CreateGroup(ctx, email, project.Title)
	if err != nil {
		return err
	}

	conn.RemoteID = group.ID
	conn.Archived = false
	conn.SetStatus(fmt.Sprintf("mailing list %s created", email))
	if _, err := a.repo.Connection().Update(ctx, conn); err != nil {
		return err
	}
	return nil
}

// Rename changes the list email and display name. Renaming to the
// current address is a no-op success.
func (a *Adapter) Rename(ctx context.Context, id types.ConnectionID) error {
	conn, project, err := a.load(ctx, id)
	if err != nil {
		return err
	}
	if err := a.requireLinked(conn); err != nil {
		return err
	}

	email := a.email(project, conn)
	group, err := a.svc.GetGroup(ctx, conn.RemoteID)
	if err != nil {
		return err
	}
	if !strings.EqualFold(group.Email, email) {
		if err := a.svc.UpdateGroup(ctx, conn.RemoteID, email, project.Title); err != nil {
			return err
		}
	}

	conn.SetStatus(fmt.Sprintf("mailing list renamed to %s", email))
	if _, err := a.repo.Connection().Update(ctx, conn); err != nil {
		return err
	}
	return nil
}

// Archive closes the list for posting. An already-closed list succeeds
// without a mutation.
func (a *Adapter) Archive(ctx context.Context, id types.ConnectionID) error {
	return a.setPosting(ctx, id, archivedPosting, true, "mailing list %s closed for posting")
}

// Unarchive reopens the list for posting
func (a *Adapter) Unarchive(ctx context.Context, id types.ConnectionID) error {
	return a.setPosting(ctx, id, activePosting, false, "mailing list %s reopened for posting")
}

func (a *Adapter) setPosting(ctx context.Context, id types.ConnectionID, setting string, archived bool, statusFormat string) error {
	conn, _, err := a.load(ctx, id)
	if err != nil {
		return err
	}
	if err := a.requireLinked(conn); err != nil {
		return err
	}

	group, err := a.svc.GetGroup(ctx, conn.RemoteID)
	if err != nil {
		return err
	}
	current, err := a.svc.WhoCanPostMessage(ctx, group.Email)
	if err != nil {
		return err
	}
	if current != setting {
		if err := a.svc.SetWhoCanPostMessage(ctx, group.Email, setting); err != nil {
			return err
		}
	}

	conn.Archived = archived
	conn.SetStatus(fmt.Sprintf(statusFormat, group.Email))
	if _, err := a.repo.Connection().Update(ctx, conn); err != nil {
		return err
	}
	return nil
}

// Link returns the deep link to the group in the Google Groups UI
func (a *Adapter) Link(ctx context.Context, id types.ConnectionID) (string, error) {
	conn, err := a.repo.Connection().Get(ctx, id)
	if err != nil {
		return "", err
	}
	if err := a.requireLinked(conn); err != nil {
		return "", err
	}

	group, err := a.svc.GetGroup(ctx, conn.RemoteID)
	if err != nil {
		return "", err
	}
	local, _, _ := strings.Cut(group.Email, "@")
	return fmt.Sprintf("https://groups.google.com/a/%s/g/%s", a.domain, local), nil
}
