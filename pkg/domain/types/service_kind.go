package types

import "github.com/m-mizutani/goerr/v2"

// ServiceKind identifies one class of external collaboration service a
// project can be connected to.
type ServiceKind string

const (
	ServiceKindSlack  ServiceKind = "slack"
	ServiceKindDrive  ServiceKind = "drive"
	ServiceKindNotion ServiceKind = "notion"
	ServiceKindToggl  ServiceKind = "toggl"
	ServiceKindGroup  ServiceKind = "group"
	ServiceKindGitHub ServiceKind = "github"
)

// AllServiceKinds returns all valid service kinds in their default
// dispatch order. Slack comes first so that the channel receiving status
// messages exists before other services report into it.
func AllServiceKinds() []ServiceKind {
	return []ServiceKind{
		ServiceKindSlack,
		ServiceKindDrive,
		ServiceKindNotion,
		ServiceKindToggl,
		ServiceKindGroup,
		ServiceKindGitHub,
	}
}

// IsValid checks if the service kind is one of the known kinds
func (k ServiceKind) IsValid() bool {
	switch k {
	case ServiceKindSlack,
		ServiceKindDrive,
		ServiceKindNotion,
		ServiceKindToggl,
		ServiceKindGroup,
		ServiceKindGitHub:
		return true
	default:
		return false
	}
}

// String returns the string representation of the service kind
func (k ServiceKind) String() string {
	return string(k)
}

// ParseServiceKind parses a string into a ServiceKind
func ParseServiceKind(s string) (ServiceKind, error) {
	kind := ServiceKind(s)
	if !kind.IsValid() {
		return "", goerr.New("invalid service kind", goerr.V("kind", s))
	}
	return kind, nil
}
