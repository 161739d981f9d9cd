package types

import (
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// ConnectionID is the opaque identifier of a ServiceConnection record
type ConnectionID string

// NewConnectionID generates a new random connection ID
func NewConnectionID() ConnectionID {
	return ConnectionID(uuid.NewString())
}

// Validate checks if the ConnectionID is valid
func (c ConnectionID) Validate() error {
	if c == "" {
		return goerr.New("connection ID cannot be empty")
	}
	if _, err := uuid.Parse(string(c)); err != nil {
		return goerr.Wrap(err, "connection ID must be a UUID", goerr.V("id", c))
	}
	return nil
}

// String returns the string representation of ConnectionID
func (c ConnectionID) String() string {
	return string(c)
}
