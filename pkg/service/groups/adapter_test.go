package groups_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/projektwerk/stagehand/pkg/domain/interfaces"
	"github.com/projektwerk/stagehand/pkg/domain/model"
	"github.com/projektwerk/stagehand/pkg/domain/types"
	"github.com/projektwerk/stagehand/pkg/repository/memory"
	"github.com/projektwerk/stagehand/pkg/service/groups"
)

type fakeService struct {
	byID    map[string]*groups.Group
	posting map[string]string
	nextID  int

	settingsCalls int
}

func newFakeService() *fakeService {
	return &fakeService{
		byID:    map[string]*groups.Group{},
		posting: map[string]string{},
	}
}

func (f *fakeService) CreateGroup(ctx context.Context, email, name string) (*groups.Group, error) {
	f.nextID++
	group := &groups.Group{ID: "G00" + email, Email: email, Name: name}
	f.byID[group.ID] = group
	f.posting[email] = "ALL_MEMBERS_CAN_POST"
	return group, nil
}

func (f *fakeService) GetGroup(ctx context.Context, key string) (*groups.Group, error) {
	return f.byID[key], nil
}

func (f *fakeService) UpdateGroup(ctx context.Context, key, email, name string) error {
	group := f.byID[key]
	delete(f.posting, group.Email)
	f.posting[email] = "ALL_MEMBERS_CAN_POST"
	group.Email = email
	group.Name = name
	return nil
}

func (f *fakeService) WhoCanPostMessage(ctx context.Context, email string) (string, error) {
	return f.posting[email], nil
}

func (f *fakeService) SetWhoCanPostMessage(ctx context.Context, email, setting string) error {
	f.settingsCalls++
	f.posting[email] = setting
	return nil
}

func setup(t *testing.T) (interfaces.Repository, *model.ServiceConnection, *fakeService, *groups.Adapter) {
	t.Helper()
	ctx := context.Background()
	repo := memory.New()

	project, err := repo.Project().Create(ctx, &model.Project{Title: "Purple Cow", TypeCode: "P"})
	gt.NoError(t, err).Required()

	conn, err := repo.Connection().Create(ctx, &model.ServiceConnection{
		ProjectID: project.ID,
		Kind:      types.ServiceKindGroup,
	})
	gt.NoError(t, err).Required()

	svc := newFakeService()
	return repo, conn, svc, groups.NewAdapter(svc, repo, "example.com")
}

func TestAdapterCreate(t *testing.T) {
	ctx := context.Background()
	repo, conn, svc, adapter := setup(t)

	gt.NoError(t, adapter.Create(ctx, conn.ID)).Required()

	updated, err := repo.Connection().Get(ctx, conn.ID)
	gt.NoError(t, err).Required()

	group := svc.byID[updated.RemoteID]
	gt.Value(t, group.Email).Equal("1-purple-cow@example.com")
	gt.Value(t, group.Name).Equal("Purple Cow")
}

func TestAdapterRenameChangesEmail(t *testing.T) {
	ctx := context.Background()
	repo, conn, svc, adapter := setup(t)

	gt.NoError(t, adapter.Create(ctx, conn.ID)).Required()

	project, err := repo.Project().Get(ctx, conn.ProjectID)
	gt.NoError(t, err).Required()
	project.Title = "Green Cow"
	_, err = repo.Project().Update(ctx, project)
	gt.NoError(t, err).Required()

	gt.NoError(t, adapter.Rename(ctx, conn.ID)).Required()

	updated, err := repo.Connection().Get(ctx, conn.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, svc.byID[updated.RemoteID].Email).Equal("1-green-cow@example.com")
}

func TestAdapterArchiveClosesPosting(t *testing.T) {
	ctx := context.Background()
	repo, conn, svc, adapter := setup(t)

	gt.NoError(t, adapter.Create(ctx, conn.ID)).Required()
	gt.NoError(t, adapter.Archive(ctx, conn.ID)).Required()

	gt.Value(t, svc.posting["1-purple-cow@example.com"]).Equal("NONE_CAN_POST")

	// already closed: no second settings call
	gt.NoError(t, adapter.Archive(ctx, conn.ID)).Required()
	gt.Number(t, svc.settingsCalls).Equal(1)

	gt.NoError(t, adapter.Unarchive(ctx, conn.ID)).Required()
	gt.Value(t, svc.posting["1-purple-cow@example.com"]).Equal("ALL_MEMBERS_CAN_POST")

	updated, err := repo.Connection().Get(ctx, conn.ID)
	gt.NoError(t, err).Required()
	gt.Bool(t, updated.Archived).False()
}

func TestAdapterLink(t *testing.T) {
	ctx := context.Background()
	_, conn, _, adapter := setup(t)

	gt.NoError(t, adapter.Create(ctx, conn.ID)).Required()

	link, err := adapter.Link(ctx, conn.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, link).Equal("https://groups.google.com/a/example.com/g/1-purple-cow")
}
