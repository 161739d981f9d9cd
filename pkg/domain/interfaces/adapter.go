package interfaces

import (
	"context"

	"github.com/projektwerk/stagehand/pkg/domain/types"
)

// ServiceAdapter is the uniform lifecycle capability set implemented once
// per external service. Every operation receives a connection ID rather
// than raw project data: the adapter loads the connection and its owning
// project itself, performs the remote operation idempotently, writes the
// remote identifier and a status message back onto the connection, and
// returns a tagged error on failure (see types.ErrTag*).
type ServiceAdapter interface {
	// Kind returns the service kind this adapter serves
	Kind() types.ServiceKind

	// Create provisions the remote resource. If the connection already has
	// a remote identifier, Create returns immediately without a remote
	// call. A remote name collision with an unlinked resource raises a
	// conflict-tagged error instead of adopting the resource.
	Create(ctx context.Context, id types.ConnectionID) error

	// Rename recomputes the slug from current project state and renames
	// the remote resource. Renaming to the current name is a no-op success.
	Rename(ctx context.Context, id types.ConnectionID) error

	// Archive transitions the remote resource into its archived state.
	// Already-archived is detected against the remote state, not the local
	// flag, and returns success without a remote mutation.
	Archive(ctx context.Context, id types.ConnectionID) error

	// Unarchive reverses Archive with the same already-in-state semantics
	Unarchive(ctx context.Context, id types.ConnectionID) error

	// Link returns a deep link URL into the remote service for the
	// resource, or an empty string if the service has no linkable UI.
	Link(ctx context.Context, id types.ConnectionID) (string, error)
}
