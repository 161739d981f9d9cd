package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/projektwerk/stagehand/pkg/domain/model"
	"github.com/projektwerk/stagehand/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type connectionRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newConnectionRepository(client *firestore.Client) *connectionRepository {
	return &connectionRepository{
		client: client,
	}
}

func (r *connectionRepository) connectionsCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_connections"
	}
	return "connections"
}

func (r *connectionRepository) Create(ctx context.Context, c *model.ServiceConnection) (*model.ServiceConnection, error) {
	now := time.Now().UTC()
	created := *c
	created.ID = types.NewConnectionID()
	created.CreatedAt = now
	created.UpdatedAt = now

	if _, err := r.client.Collection(r.connectionsCollection()).Doc(created.ID.String()).Set(ctx, &created); err != nil {
		return nil, goerr.Wrap(err, "failed to create connection", goerr.V("id", created.ID), goerr.V("project_id", created.ProjectID))
	}

	return &created, nil
}

func (r *connectionRepository) Get(ctx context.Context, id types.ConnectionID) (*model.ServiceConnection, error) {
	docSnap, err := r.client.Collection(r.connectionsCollection()).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.New("connection not found", goerr.V("id", id), goerr.T(types.ErrTagNotFound))
		}
		return nil, goerr.Wrap(err, "failed to get connection", goerr.V("id", id))
	}

	var c model.ServiceConnection
	if err := docSnap.DataTo(&c); err != nil {
		return nil, goerr.Wrap(err, "failed to decode connection", goerr.V("id", id))
	}

	return &c, nil
}

func (r *connectionRepository) ListByProject(ctx context.Context, projectID int64) ([]*model.ServiceConnection, error) {
	iter := r.client.Collection(r.connectionsCollection()).
		Where("ProjectID", "==", projectID).
		OrderBy("Kind", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var connections []*model.ServiceConnection
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate connections", goerr.V("project_id", projectID))
		}

		var c model.ServiceConnection
		if err := docSnap.DataTo(&c); err != nil {
			return nil, goerr.Wrap(err, "failed to decode connection", goerr.V("doc_id", docSnap.Ref.ID))
		}

		connections = append(connections, &c)
	}

	return connections, nil
}

func (r *connectionRepository) FindByRemote(ctx context.Context, kind types.ServiceKind, remoteID string) (*model.ServiceConnection, error) {
	if remoteID == "" {
		return nil, goerr.New("remote ID is required", goerr.T(types.ErrTagNotFound))
	}

	iter := r.client.Collection(r.connectionsCollection()).
		Where("Kind", "==", kind.String()).
		Where("RemoteID", "==", remoteID).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	docSnap, err := iter.Next()
	if err == iterator.Done {
		return nil, goerr.New("connection not found", goerr.V("kind", kind), goerr.V("remote_id", remoteID), goerr.T(types.ErrTagNotFound))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query connection by remote ID", goerr.V("kind", kind), goerr.V("remote_id", remoteID))
	}

	var c model.ServiceConnection
	if err := docSnap.DataTo(&c); err != nil {
		return nil, goerr.Wrap(err, "failed to decode connection", goerr.V("doc_id", docSnap.Ref.ID))
	}
	return &c, nil
}

func (r *connectionRepository) Update(ctx context.Context, c *model.ServiceConnection) (*model.ServiceConnection, error) {
	docRef := r.client.Collection(r.connectionsCollection()).Doc(c.ID.String())

	docSnap, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.New("connection not found", goerr.V("id", c.ID), goerr.T(types.ErrTagNotFound))
		}
		return nil, goerr.Wrap(err, "failed to get connection for update", goerr.V("id", c.ID))
	}

	var existing model.ServiceConnection
	if err := docSnap.DataTo(&existing); err != nil {
		return nil, goerr.Wrap(err, "failed to decode connection", goerr.V("id", c.ID))
	}

	updated := *c
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	if _, err := docRef.Set(ctx, &updated); err != nil {
		return nil, goerr.Wrap(err, "failed to update connection", goerr.V("id", c.ID))
	}

	return &updated, nil
}

func (r *connectionRepository) Delete(ctx context.Context, id types.ConnectionID) error {
	docRef := r.client.Collection(r.connectionsCollection()).Doc(id.String())

	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.New("connection not found", goerr.V("id", id), goerr.T(types.ErrTagNotFound))
		}
		return goerr.Wrap(err, "failed to get connection for delete", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete connection", goerr.V("id", id))
	}
	return nil
}

func (r *connectionRepository) DeleteByProject(ctx context.Context, projectID int64) error {
	iter := r.client.Collection(r.connectionsCollection()).
		Where("ProjectID", "==", projectID).
		Documents(ctx)
	defer iter.Stop()

	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return goerr.Wrap(err, "failed to iterate connections for delete", goerr.V("project_id", projectID))
		}

		if _, err := docSnap.Ref.Delete(ctx); err != nil {
			return goerr.Wrap(err, "failed to delete connection", goerr.V("doc_id", docSnap.Ref.ID))
		}
	}
	return nil
}
