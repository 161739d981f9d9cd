package github_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/projektwerk/stagehand/pkg/domain/interfaces"
	"github.com/projektwerk/stagehand/pkg/domain/model"
	"github.com/projektwerk/stagehand/pkg/domain/types"
	"github.com/projektwerk/stagehand/pkg/repository/memory"
	"github.com/projektwerk/stagehand/pkg/service/github"
)

type fakeService struct {
	repos  map[int64]*github.Repository
	nextID int64

	createCalls []string
}

func newFakeService() *fakeService {
	return &fakeService{repos: map[int64]*github.Repository{}, nextID: 9000}
}

func (f *fakeService) CreateRepository(ctx context.Context, name string) (*github.Repository, error) {
	f.createCalls = append(f.createCalls, name)
	for _, repo := range f.repos {
		if repo.Name == name {
			return nil, goerr.New("name already exists on this account", goerr.T(types.ErrTagConflict))
		}
	}
	f.nextID++
	repo := &github.Repository{
		ID:      f.nextID,
		Name:    name,
		HTMLURL: "https://github.com/acme/" + name,
	}
	f.repos[repo.ID] = repo
	return repo, nil
}

func (f *fakeService) GetRepository(ctx context.Context, id int64) (*github.Repository, error) {
	return f.repos[id], nil
}

func (f *fakeService) RenameRepository(ctx context.Context, name, newName string) error {
	for _, repo := range f.repos {
		if repo.Name == name {
			repo.Name = newName
			repo.HTMLURL = "https://github.com/acme/" + newName
		}
	}
	return nil
}

func (f *fakeService) SetArchived(ctx context.Context, name string, archived bool) error {
	for _, repo := range f.repos {
		if repo.Name == name {
			repo.Archived = archived
		}
	}
	return nil
}

func setup(t *testing.T) (interfaces.Repository, *model.ServiceConnection, *fakeService, *github.Adapter) {
	t.Helper()
	ctx := context.Background()
	repo := memory.New()

	project, err := repo.Project().Create(ctx, &model.Project{Title: "Purple Cow", TypeCode: "P"})
	gt.NoError(t, err).Required()

	conn, err := repo.Connection().Create(ctx, &model.ServiceConnection{
		ProjectID: project.ID,
		Kind:      types.ServiceKindGitHub,
	})
	gt.NoError(t, err).Required()

	svc := newFakeService()
	return repo, conn, svc, github.NewAdapter(svc, repo)
}

func TestAdapterCreate(t *testing.T) {
	ctx := context.Background()
	repo, conn, svc, adapter := setup(t)

	gt.NoError(t, adapter.Create(ctx, conn.ID)).Required()
	gt.Array(t, svc.createCalls).Equal([]string{"P-0001-purple-cow"})

	updated, err := repo.Connection().Get(ctx, conn.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, updated.RemoteID).Equal("9001")
}

func TestAdapterCreateConflictIsNotAdopted(t *testing.T) {
	ctx := context.Background()
	repo, conn, svc, adapter := setup(t)

	_, err := svc.CreateRepository(ctx, "P-0001-purple-cow")
	gt.NoError(t, err).Required()

	err = adapter.Create(ctx, conn.ID)
	gt.Value(t, err).NotNil()
	gt.Bool(t, types.IsConflict(err)).True()

	updated, err := repo.Connection().Get(ctx, conn.ID)
	gt.NoError(t, err).Required()
	gt.Bool(t, updated.Linked()).False()
}

func TestAdapterRenameTracksByID(t *testing.T) {
	ctx := context.Background()
	repo, conn, _, adapter := setup(t)

	gt.NoError(t, adapter.Create(ctx, conn.ID)).Required()

	project, err := repo.Project().Get(ctx, conn.ProjectID)
	gt.NoError(t, err).Required()
	project.Title = "Green Cow"
	_, err = repo.Project().Update(ctx, project)
	gt.NoError(t, err).Required()

	gt.NoError(t, adapter.Rename(ctx, conn.ID)).Required()

	link, err := adapter.Link(ctx, conn.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, link).Equal("https://github.com/acme/P-0001-green-cow")
}

func TestAdapterArchiveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo, conn, svc, adapter := setup(t)

	gt.NoError(t, adapter.Create(ctx, conn.ID)).Required()
	gt.NoError(t, adapter.Archive(ctx, conn.ID)).Required()
	gt.NoError(t, adapter.Archive(ctx, conn.ID)).Required()

	gt.Bool(t, svc.repos[9001].Archived).True()

	updated, err := repo.Connection().Get(ctx, conn.ID)
	gt.NoError(t, err).Required()
	gt.Bool(t, updated.Archived).True()
}
