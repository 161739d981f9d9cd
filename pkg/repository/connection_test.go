package repository_test

import (
	"context"
	"os"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/projektwerk/stagehand/pkg/domain/interfaces"
	"github.com/projektwerk/stagehand/pkg/domain/model"
	"github.com/projektwerk/stagehand/pkg/domain/types"
	"github.com/projektwerk/stagehand/pkg/repository/firestore"
	"github.com/projektwerk/stagehand/pkg/repository/memory"
)

func runConnectionRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create assigns an ID and empty RemoteID stays empty", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Connection().Create(ctx, &model.ServiceConnection{
			ProjectID: 42,
			Kind:      types.ServiceKindSlack,
		})
		gt.NoError(t, err).Required()

		gt.NoError(t, created.ID.Validate())
		gt.Value(t, created.ProjectID).Equal(int64(42))
		gt.Value(t, created.RemoteID).Equal("")
		gt.Bool(t, created.Linked()).False()
	})

	t.Run("Update persists remote ID and status", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Connection().Create(ctx, &model.ServiceConnection{
			ProjectID: 42,
			Kind:      types.ServiceKindSlack,
		})
		gt.NoError(t, err).Required()

		created.RemoteID = "C012345"
		created.SetStatus("channel #42-purple_cow created")

		updated, err := repo.Connection().Update(ctx, created)
		gt.NoError(t, err).Required()
		gt.Value(t, updated.RemoteID).Equal("C012345")
		gt.Bool(t, updated.Linked()).True()

		retrieved, err := repo.Connection().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, retrieved.RemoteID).Equal("C012345")
		gt.Value(t, retrieved.Status).Equal("channel #42-purple_cow created")
	})

	t.Run("ListByProject returns only matching connections", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		for _, kind := range []types.ServiceKind{types.ServiceKindSlack, types.ServiceKindDrive, types.ServiceKindNotion} {
			_, err := repo.Connection().Create(ctx, &model.ServiceConnection{
				ProjectID: 1,
				Kind:      kind,
			})
			gt.NoError(t, err).Required()
		}
		_, err := repo.Connection().Create(ctx, &model.ServiceConnection{
			ProjectID: 2,
			Kind:      types.ServiceKindSlack,
		})
		gt.NoError(t, err).Required()

		connections, err := repo.Connection().ListByProject(ctx, 1)
		gt.NoError(t, err).Required()
		gt.Number(t, len(connections)).Equal(3)
		for _, c := range connections {
			gt.Value(t, c.ProjectID).Equal(int64(1))
		}
	})

	t.Run("Qualifier distinguishes connections of the same kind", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Connection().Create(ctx, &model.ServiceConnection{
			ProjectID: 3,
			Kind:      types.ServiceKindSlack,
		})
		gt.NoError(t, err).Required()
		_, err = repo.Connection().Create(ctx, &model.ServiceConnection{
			ProjectID: 3,
			Kind:      types.ServiceKindSlack,
			Qualifier: "intern",
		})
		gt.NoError(t, err).Required()

		connections, err := repo.Connection().ListByProject(ctx, 3)
		gt.NoError(t, err).Required()
		gt.Number(t, len(connections)).Equal(2)
	})

	t.Run("FindByRemote resolves a connection by remote ID", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Connection().Create(ctx, &model.ServiceConnection{
			ProjectID: 5,
			Kind:      types.ServiceKindSlack,
		})
		gt.NoError(t, err).Required()
		created.RemoteID = "C098765"
		_, err = repo.Connection().Update(ctx, created)
		gt.NoError(t, err).Required()

		found, err := repo.Connection().FindByRemote(ctx, types.ServiceKindSlack, "C098765")
		gt.NoError(t, err).Required()
		gt.Value(t, found.ProjectID).Equal(int64(5))
		gt.Value(t, found.ID).Equal(created.ID)

		_, err = repo.Connection().FindByRemote(ctx, types.ServiceKindDrive, "C098765")
		gt.Value(t, err).NotNil()
		gt.Bool(t, types.IsNotFound(err)).True()

		_, err = repo.Connection().FindByRemote(ctx, types.ServiceKindSlack, "")
		gt.Value(t, err).NotNil()
		gt.Bool(t, types.IsNotFound(err)).True()
	})

	t.Run("Get returns not_found for missing connection", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Connection().Get(ctx, types.NewConnectionID())
		gt.Value(t, err).NotNil()
		gt.Bool(t, types.IsNotFound(err)).True()
	})

	t.Run("DeleteByProject cascades", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		for range 3 {
			_, err := repo.Connection().Create(ctx, &model.ServiceConnection{
				ProjectID: 7,
				Kind:      types.ServiceKindDrive,
			})
			gt.NoError(t, err).Required()
		}

		gt.NoError(t, repo.Connection().DeleteByProject(ctx, 7)).Required()

		connections, err := repo.Connection().ListByProject(ctx, 7)
		gt.NoError(t, err).Required()
		gt.Number(t, len(connections)).Equal(0)
	})
}

func runTemplateRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Get before Put returns not_found", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Template().Get(ctx)
		gt.Value(t, err).NotNil()
		gt.Bool(t, types.IsNotFound(err)).True()
	})

	t.Run("Put then Get round-trips", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		err := repo.Template().Put(ctx, &model.Template{
			Connections: []model.TemplateConnection{
				{Kind: types.ServiceKindSlack},
				{Kind: types.ServiceKindDrive},
				{Kind: types.ServiceKindSlack, Qualifier: "intern"},
			},
		})
		gt.NoError(t, err).Required()

		tmpl, err := repo.Template().Get(ctx)
		gt.NoError(t, err).Required()
		gt.Number(t, len(tmpl.Connections)).Equal(3)
		gt.Bool(t, tmpl.UpdatedAt.IsZero()).False()
	})

	t.Run("Put replaces the previous template", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		gt.NoError(t, repo.Template().Put(ctx, &model.Template{
			Connections: []model.TemplateConnection{{Kind: types.ServiceKindSlack}},
		})).Required()
		gt.NoError(t, repo.Template().Put(ctx, &model.Template{
			Connections: []model.TemplateConnection{{Kind: types.ServiceKindNotion}},
		})).Required()

		tmpl, err := repo.Template().Get(ctx)
		gt.NoError(t, err).Required()
		gt.Number(t, len(tmpl.Connections)).Equal(1)
		gt.Value(t, tmpl.Connections[0].Kind).Equal(types.ServiceKindNotion)
	})
}

func TestConnectionRepository_Memory(t *testing.T) {
	runConnectionRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestTemplateRepository_Memory(t *testing.T) {
	runTemplateRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestConnectionRepository_Firestore(t *testing.T) {
	projectID := os.Getenv("FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("FIRESTORE_PROJECT_ID not set")
	}

	runConnectionRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		repo, err := firestore.New(context.Background(), projectID, "")
		gt.NoError(t, err).Required()
		return repo
	})
}
