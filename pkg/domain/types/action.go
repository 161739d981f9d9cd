package types

import "github.com/m-mizutani/goerr/v2"

// Action is a project lifecycle action fanned out to service connections.
// The set is closed: inbound trigger payloads are mapped through
// ParseAction and never resolved dynamically.
type Action string

const (
	ActionCreate    Action = "create"
	ActionRename    Action = "rename"
	ActionArchive   Action = "archive"
	ActionUnarchive Action = "unarchive"
)

// AllActions returns all valid lifecycle actions
func AllActions() []Action {
	return []Action{
		ActionCreate,
		ActionRename,
		ActionArchive,
		ActionUnarchive,
	}
}

// IsValid checks if the action is valid
func (a Action) IsValid() bool {
	switch a {
	case ActionCreate,
		ActionRename,
		ActionArchive,
		ActionUnarchive:
		return true
	default:
		return false
	}
}

// String returns the string representation of the action
func (a Action) String() string {
	return string(a)
}

// ParseAction parses a string into an Action
func ParseAction(s string) (Action, error) {
	action := Action(s)
	if !action.IsValid() {
		return "", goerr.New("invalid lifecycle action", goerr.V("action", s))
	}
	return action, nil
}
