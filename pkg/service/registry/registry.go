// Package registry resolves service kinds to their adapters and
// dispatches lifecycle actions onto connections.
package registry

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/projektwerk/stagehand/pkg/domain/interfaces"
	"github.com/projektwerk/stagehand/pkg/domain/types"
	"github.com/projektwerk/stagehand/pkg/utils/errutil"
)

// Registry holds the configured service adapters keyed by kind. The
// set is fixed at startup; kinds without a registered adapter are
// skipped by the orchestrator.
type Registry struct {
	adapters map[types.ServiceKind]interfaces.ServiceAdapter
	repo     interfaces.Repository
}

// New creates an empty adapter registry
func New(repo interfaces.Repository) *Registry {
	return &Registry{
		adapters: make(map[types.ServiceKind]interfaces.ServiceAdapter),
		repo:     repo,
	}
}

// Register adds an adapter for its kind, replacing any previous one
func (r *Registry) Register(adapter interfaces.ServiceAdapter) {
	r.adapters[adapter.Kind()] = adapter
}

// Has reports whether an adapter is registered for the kind
func (r *Registry) Has(kind types.ServiceKind) bool {
	_, ok := r.adapters[kind]
	return ok
}

// Lookup returns the adapter for the kind
func (r *Registry) Lookup(kind types.ServiceKind) (interfaces.ServiceAdapter, error) {
	adapter, ok := r.adapters[kind]
	if !ok {
		return nil, goerr.New("no adapter registered", goerr.V("kind", kind))
	}
	return adapter, nil
}

// Dispatch runs one lifecycle action on one connection through its
// adapter. Every failure is written to the connection status before
// the error is returned, so the status reflects the latest attempt
// even between retries. Actions other than create on a connection
// without a remote identifier fail the precondition not_found-tagged,
// so the retry runner does not retry it.
func (r *Registry) Dispatch(ctx context.Context, action types.Action, id types.ConnectionID) error {
	conn, err := r.repo.Connection().Get(ctx, id)
	if err != nil {
		return err
	}

	adapter, err := r.Lookup(conn.Kind)
	if err != nil {
		return err
	}

	if action != types.ActionCreate && !conn.Linked() {
		err := goerr.New("no remote resource to act on", goerr.T(types.ErrTagNotFound),
			goerr.V("connectionID", id), goerr.V("kind", conn.Kind), goerr.V("action", action))
		conn.SetStatus(err.Error())
		if _, uerr := r.repo.Connection().Update(ctx, conn); uerr != nil {
			return uerr
		}
		return err
	}

	var actErr error
	switch action {
	case types.ActionCreate:
		actErr = adapter.Create(ctx, id)
	case types.ActionRename:
		actErr = adapter.Rename(ctx, id)
	case types.ActionArchive:
		actErr = adapter.Archive(ctx, id)
	case types.ActionUnarchive:
		actErr = adapter.Unarchive(ctx, id)
	default:
		return goerr.New("unknown action", goerr.V("action", action))
	}
	if actErr != nil {
		if latest, gerr := r.repo.Connection().Get(ctx, id); gerr == nil {
			latest.SetStatus(fmt.Sprintf("%s failed: %v", action, actErr))
			if _, uerr := r.repo.Connection().Update(ctx, latest); uerr != nil {
				errutil.Handle(ctx, uerr, "failed to persist connection status")
			}
		}
	}
	return actErr
}

// Link returns the deep link for a connection through its adapter
func (r *Registry) Link(ctx context.Context, id types.ConnectionID) (string, error) {
	conn, err := r.repo.Connection().Get(ctx, id)
	if err != nil {
		return "", err
	}

	adapter, err := r.Lookup(conn.Kind)
	if err != nil {
		return "", err
	}
	return adapter.Link(ctx, id)
}
