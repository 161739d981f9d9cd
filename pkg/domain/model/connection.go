package model

import (
	"time"

	"github.com/projektwerk/stagehand/pkg/domain/types"
)

// ServiceConnection links a project to one resource on an external
// service. RemoteID is empty until the remote create operation succeeds;
// once set it is never cleared (the idempotency boundary for create).
// Status holds the last human-readable result of a lifecycle action,
// success or failure, and is overwritten on every attempt.
type ServiceConnection struct {
	ID        types.ConnectionID
	ProjectID int64
	Kind      types.ServiceKind
	// Qualifier disambiguates multiple connections of the same kind on one
	// project (e.g. a second chat channel). Usually empty.
	Qualifier string
	RemoteID  string
	Status    string
	Archived  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Linked reports whether the remote resource has been created
func (c *ServiceConnection) Linked() bool {
	return c.RemoteID != ""
}

// SetStatus overwrites the status message
func (c *ServiceConnection) SetStatus(msg string) {
	c.Status = msg
}
