package types

import (
	"regexp"

	"github.com/m-mizutani/goerr/v2"
)

// TypeCode is a single-character project classifier (e.g. "P" for project,
// "E" for event). The human-readable description lives in the topology
// configuration.
type TypeCode string

var typeCodePattern = regexp.MustCompile(`^[A-Z]$`)

// Validate checks if the TypeCode is a single uppercase letter
func (t TypeCode) Validate() error {
	if t == "" {
		return goerr.New("type code cannot be empty")
	}
	if !typeCodePattern.MatchString(string(t)) {
		return goerr.New("type code must be a single uppercase letter", goerr.V("code", t))
	}
	return nil
}

// String returns the string representation of TypeCode
func (t TypeCode) String() string {
	return string(t)
}
