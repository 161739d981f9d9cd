package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/projektwerk/stagehand/pkg/domain/model"
	"github.com/projektwerk/stagehand/pkg/domain/types"
)

type connectionRepository struct {
	mu          sync.RWMutex
	connections map[types.ConnectionID]*model.ServiceConnection
}

func newConnectionRepository() *connectionRepository {
	return &connectionRepository{
		connections: make(map[types.ConnectionID]*model.ServiceConnection),
	}
}

func copyConnection(c *model.ServiceConnection) *model.ServiceConnection {
	cp := *c
	return &cp
}

func (r *connectionRepository) Create(ctx context.Context, c *model.ServiceConnection) (*model.ServiceConnection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := copyConnection(c)
	created.ID = types.NewConnectionID()
	created.CreatedAt = now
	created.UpdatedAt = now

	r.connections[created.ID] = created
	return copyConnection(created), nil
}

func (r *connectionRepository) Get(ctx context.Context, id types.ConnectionID) (*model.ServiceConnection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.connections[id]
	if !ok {
		return nil, goerr.New("connection not found", goerr.V("id", id), goerr.T(types.ErrTagNotFound))
	}
	return copyConnection(c), nil
}

func (r *connectionRepository) ListByProject(ctx context.Context, projectID int64) ([]*model.ServiceConnection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var connections []*model.ServiceConnection
	for _, c := range r.connections {
		if c.ProjectID == projectID {
			connections = append(connections, copyConnection(c))
		}
	}
	sort.Slice(connections, func(i, j int) bool {
		if connections[i].Kind != connections[j].Kind {
			return connections[i].Kind < connections[j].Kind
		}
		return connections[i].Qualifier < connections[j].Qualifier
	})
	return connections, nil
}

func (r *connectionRepository) FindByRemote(ctx context.Context, kind types.ServiceKind, remoteID string) (*model.ServiceConnection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if remoteID == "" {
		return nil, goerr.New("remote ID is required", goerr.T(types.ErrTagNotFound))
	}
	for _, c := range r.connections {
		if c.Kind == kind && c.RemoteID == remoteID {
			return copyConnection(c), nil
		}
	}
	return nil, goerr.New("connection not found", goerr.V("kind", kind), goerr.V("remoteID", remoteID), goerr.T(types.ErrTagNotFound))
}

func (r *connectionRepository) Update(ctx context.Context, c *model.ServiceConnection) (*model.ServiceConnection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.connections[c.ID]
	if !ok {
		return nil, goerr.New("connection not found", goerr.V("id", c.ID), goerr.T(types.ErrTagNotFound))
	}

	updated := copyConnection(c)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.connections[c.ID] = updated
	return copyConnection(updated), nil
}

func (r *connectionRepository) Delete(ctx context.Context, id types.ConnectionID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.connections[id]; !ok {
		return goerr.New("connection not found", goerr.V("id", id), goerr.T(types.ErrTagNotFound))
	}
	delete(r.connections, id)
	return nil
}

func (r *connectionRepository) DeleteByProject(ctx context.Context, projectID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, c := range r.connections {
		if c.ProjectID == projectID {
			delete(r.connections, id)
		}
	}
	return nil
}
