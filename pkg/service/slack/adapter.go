package slack

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

// Adapter implements the lifecycle capability set for Slack channels
type Adapter struct {
	svc  Service
	repo interfaces.Repository
	slug *slug.Formatter

	botUserID   string
	usergroupID string
}

// AdapterOption is a functional option for Adapter configuration
type AdapterOption func(*Adapter)

// WithBotUser sets the bot user invited to every channel after create
// and unarchive
func WithBotUser(userID string) AdapterOption {
	return func(a *Adapter) {
		a.botUserID = userID
	}
}

// WithUsergroup sets the usergroup whose members are invited to every
// channel after create and unarchive
func WithUsergroup(usergroupID string) AdapterOption {
	return func(a *Adapter) {
		a.usergroupID = usergroupID
	}
}

// NewAdapter creates a Slack channel adapter
func NewAdapter(svc Service, repo interfaces.Repository, opts ...AdapterOption) *Adapter {
	a := &Adapter{
		svc:  svc,
		repo: repo,
		slug: slug.Slack(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Kind returns the service kind this adapter serves
func (a *Adapter) Kind() types.ServiceKind {
	return types.ServiceKindSlack
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

// Create creates the project channel. If the connection is already
// linked the call returns immediately. A name collision (usually an
// archived channel squatting the name) appends one filler and retries
// once before giving up.
func (a *Adapter) Create(ctx context.Context, id types.ConnectionID) error {
	conn, project, err := a.load(ctx, id)
	if err != nil {
		return err
	}
	if conn.Linked() {
		return nil
	}

	name := a.slug.Format(project.TypeCode, project.ID, project.Title, conn.Qualifier)
	channel, err := a.svc.CreateChannel(ctx, name)
	if err != nil && types.IsConflict(err) {
		// Keep the filler within the channel name length limit
		name = a.slug.Shorten(name, 1) + "_"
		channel, err = a.svc.CreateChannel(ctx, name)
	}
	if err != nil {
		return err
	}

	results := []string{fmt.Sprintf("channel #%s created", channel.Name)}
	results = append(results, a.inviteConfigured(ctx, channel.ID)...)

	conn.RemoteID = channel.ID
	conn.Archived = false
	conn.SetStatus(strings.Join(results, ", "))
	if _, err := a.repo.Connection().Update(ctx, conn); err != nil {
		return err
	}
	return nil
}

// inviteConfigured invites the configured bot user and usergroup
// members. Invite failures do not fail the lifecycle action; the
// channel exists, so they only show up in the status message.
func (a *Adapter) inviteConfigured(ctx context.Context, channelID string) []string {
	var results []string
	if a.botUserID != "" {
		if err := a.svc.InviteUsers(ctx, channelID, []string{a.botUserID}); err != nil {
			results = append(results, fmt.Sprintf("bot invite failed: %v", err))
		} else {
			results = append(results, "bot invited")
		}
	}
	if a.usergroupID != "" {
		members, err := a.svc.UsergroupMembers(ctx, a.usergroupID)
		if err == nil {
			err = a.svc.InviteUsers(ctx, channelID, members)
		}
		if err != nil {
			results = append(results, fmt.Sprintf("usergroup invite failed: %v", err))
		} else {
			results = append(results, fmt.Sprintf("%d usergroup members invited", len(members)))
		}
	}
	return results
}

// Rename renames the channel to the slug derived from current project
// state. Renaming to the current name is a no-op success.
func (a *Adapter) Rename(ctx context.Context, id types.ConnectionID) error {
	conn, project, err := a.load(ctx, id)
	if err != nil {
		return err
	}
	if !conn.Linked() {
		return goerr.New("channel not created yet", goerr.T(types.ErrTagNotFound), goerr.V("connectionID", id))
	}

	name := a.slug.Format(project.TypeCode, project.ID, project.Title, conn.Qualifier)
	info, err := a.svc.ChannelInfo(ctx, conn.RemoteID)
	if err != nil {
		return err
	}
	if info.Name != name {
		if err := a.svc.RenameChannel(ctx, conn.RemoteID, name); err != nil {
			return err
		}
	}

	conn.SetStatus(fmt.Sprintf("channel renamed to #%s", name))
	if _, err := a.repo.Connection().Update(ctx, conn); err != nil {
		return err
	}
	return nil
}

// Archive archives the channel. Already-archived is detected against
// the remote channel state and succeeds without a mutation.
func (a *Adapter) Archive(ctx context.Context, id types.ConnectionID) error {
	conn, _, err := a.load(ctx, id)
	if err != nil {
		return err
	}
	if !conn.Linked() {
		return goerr.New("channel not created yet", goerr.T(types.ErrTagNotFound), goerr.V("connectionID", id))
	}

	info, err := a.svc.ChannelInfo(ctx, conn.RemoteID)
	if err != nil {
		return err
	}
	if !info.IsArchived {
		if err := a.svc.ArchiveChannel(ctx, conn.RemoteID); err != nil {
			return err
		}
	}

	conn.Archived = true
	conn.SetStatus(fmt.Sprintf("channel #%s archived", info.Name))
	if _, err := a.repo.Connection().Update(ctx, conn); err != nil {
		return err
	}
	return nil
}

// Unarchive restores the channel and re-invites the configured bot and
// usergroup members
func (a *Adapter) Unarchive(ctx context.Context, id types.ConnectionID) error {
	conn, _, err := a.load(ctx, id)
	if err != nil {
		return err
	}
	if !conn.Linked() {
		return goerr.New("channel not created yet", goerr.T(types.ErrTagNotFound), goerr.V("connectionID", id))
	}

	info, err := a.svc.ChannelInfo(ctx, conn.RemoteID)
	if err != nil {
		return err
	}
	if info.IsArchived {
		if err := a.svc.UnarchiveChannel(ctx, conn.RemoteID); err != nil {
			return err
		}
	}

	results := []string{fmt.Sprintf("channel #%s restored", info.Name)}
	results = append(results, a.inviteConfigured(ctx, conn.RemoteID)...)

	conn.Archived = false
	conn.SetStatus(strings.Join(results, ", "))
	if _, err := a.repo.Connection().Update(ctx, conn); err != nil {
		return err
	}
	return nil
}

// Link returns the deep link to the channel
func (a *Adapter) Link(ctx context.Context, id types.ConnectionID) (string, error) {
	conn, err := a.repo.Connection().Get(ctx, id)
	if err != nil {
		return "", err
	}
	if !conn.Linked() {
		return "", goerr.New("channel not created yet", goerr.T(types.ErrTagNotFound), goerr.V("connectionID", id))
	}

	teamURL, err := a.svc.TeamURL(ctx)
	if err != nil {
		return "", err
	}
	return teamURL + "archives/" + conn.RemoteID, nil
}
