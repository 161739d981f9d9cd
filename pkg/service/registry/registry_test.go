package registry_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/projektwerk/stagehand/pkg/domain/interfaces"
	"github.com/projektwerk/stagehand/pkg/domain/model"
	"github.com/projektwerk/stagehand/pkg/domain/types"
	"github.com/projektwerk/stagehand/pkg/repository/memory"
	"github.com/projektwerk/stagehand/pkg/service/registry"
)

type stubAdapter struct {
	kind  types.ServiceKind
	calls []string
}

func (s *stubAdapter) Kind() types.ServiceKind { return s.kind }

func (s *stubAdapter) Create(ctx context.Context, id types.ConnectionID) error {
	s.calls = append(s.calls, "create")
	return nil
}

func (s *stubAdapter) Rename(ctx context.Context, id types.ConnectionID) error {
	s.calls = append(s.calls, "rename")
	return nil
}

func (s *stubAdapter) Archive(ctx context.Context, id types.ConnectionID) error {
	s.calls = append(s.calls, "archive")
	return nil
}

func (s *stubAdapter) Unarchive(ctx context.Context, id types.ConnectionID) error {
	s.calls = append(s.calls, "unarchive")
	return nil
}

func (s *stubAdapter) Link(ctx context.Context, id types.ConnectionID) (string, error) {
	return "https://example.com/" + id.String(), nil
}

func setup(t *testing.T, remoteID string) (interfaces.Repository, *model.ServiceConnection) {
	t.Helper()
	ctx := context.Background()
	repo := memory.New()

	project, err := repo.Project().Create(ctx, &model.Project{Title: "Purple Cow", TypeCode: "P"})
	gt.NoError(t, err).Required()

	conn, err := repo.Connection().Create(ctx, &model.ServiceConnection{
		ProjectID: project.ID,
		Kind:      types.ServiceKindSlack,
		RemoteID:  remoteID,
	})
	gt.NoError(t, err).Required()
	return repo, conn
}

func TestDispatchRoutesToAdapter(t *testing.T) {
	ctx := context.Background()
	repo, conn := setup(t, "C012345")

	adapter := &stubAdapter{kind: types.ServiceKindSlack}
	reg := registry.New(repo)
	reg.Register(adapter)

	gt.NoError(t, reg.Dispatch(ctx, types.ActionCreate, conn.ID)).Required()
	gt.NoError(t, reg.Dispatch(ctx, types.ActionRename, conn.ID)).Required()
	gt.NoError(t, reg.Dispatch(ctx, types.ActionArchive, conn.ID)).Required()
	gt.NoError(t, reg.Dispatch(ctx, types.ActionUnarchive, conn.ID)).Required()

	gt.Array(t, adapter.calls).Equal([]string{"create", "rename", "archive", "unarchive"})
}

func TestDispatchGuardsEmptyRemoteID(t *testing.T) {
	ctx := context.Background()
	repo, conn := setup(t, "")

	adapter := &stubAdapter{kind: types.ServiceKindSlack}
	reg := registry.New(repo)
	reg.Register(adapter)

	err := reg.Dispatch(ctx, types.ActionRename, conn.ID)
	gt.Value(t, err).NotNil()
	gt.Bool(t, types.IsNotFound(err)).True()
	gt.Bool(t, types.IsTransient(err)).False()
	gt.Number(t, len(adapter.calls)).Equal(0)

	// the precondition failure is visible in the connection status
	updated, err := repo.Connection().Get(ctx, conn.ID)
	gt.NoError(t, err).Required()
	gt.String(t, updated.Status).Contains("no remote resource to act on")

	// create is exempt from the guard
	gt.NoError(t, reg.Dispatch(ctx, types.ActionCreate, conn.ID)).Required()
	gt.Array(t, adapter.calls).Equal([]string{"create"})
}

type failingAdapter struct {
	stubAdapter
}

func (f *failingAdapter) Rename(ctx context.Context, id types.ConnectionID) error {
	f.calls = append(f.calls, "rename")
	return goerr.New("rate limited", goerr.T(types.ErrTagTransient))
}

func TestDispatchPersistsFailureStatus(t *testing.T) {
	ctx := context.Background()
	repo, conn := setup(t, "C012345")

	adapter := &failingAdapter{stubAdapter{kind: types.ServiceKindSlack}}
	reg := registry.New(repo)
	reg.Register(adapter)

	// the status reflects the failed attempt even before any retry runs
	err := reg.Dispatch(ctx, types.ActionRename, conn.ID)
	gt.Value(t, err).NotNil()
	gt.Bool(t, types.IsTransient(err)).True()

	updated, gerr := repo.Connection().Get(ctx, conn.ID)
	gt.NoError(t, gerr).Required()
	gt.String(t, updated.Status).Contains("rename failed")
	gt.String(t, updated.Status).Contains("rate limited")
}

func TestDispatchUnregisteredKind(t *testing.T) {
	ctx := context.Background()
	repo, conn := setup(t, "C012345")

	reg := registry.New(repo)

	err := reg.Dispatch(ctx, types.ActionCreate, conn.ID)
	gt.Value(t, err).NotNil()
	gt.Bool(t, reg.Has(types.ServiceKindSlack)).False()
}

func TestLink(t *testing.T) {
	ctx := context.Background()
	repo, conn := setup(t, "C012345")

	reg := registry.New(repo)
	reg.Register(&stubAdapter{kind: types.ServiceKindSlack})

	link, err := reg.Link(ctx, conn.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, link).Equal("https://example.com/" + conn.ID.String())
}
