package model

import (
	"fmt"
	"strings"

	"github.com/projektwerk/stagehand/pkg/domain/types"
)

// ServiceResult is the outcome of one lifecycle action on one connection
type ServiceResult struct {
	Kind      types.ServiceKind
	Pretty    string
	Qualifier string
	// Link is a deep link into the remote service, set on success when the
	// service has a linkable UI.
	Link string
	// Err is the failure message, empty on success
	Err string
}

// Ok reports whether the action succeeded
func (r ServiceResult) Ok() bool {
	return r.Err == ""
}

func (r ServiceResult) label() string {
	if r.Qualifier != "" {
		return fmt.Sprintf("%s (%s)", r.Pretty, r.Qualifier)
	}
	return r.Pretty
}

// Report aggregates per-service results of one fan-out invocation.
// Successes and Failures preserve dispatch order.
type Report struct {
	Action    types.Action
	Successes []ServiceResult
	Failures  []ServiceResult
}

// Add appends a result to the matching collection
func (r *Report) Add(res ServiceResult) {
	if res.Ok() {
		r.Successes = append(r.Successes, res)
	} else {
		r.Failures = append(r.Failures, res)
	}
}

// AllOK reports whether every connection succeeded
func (r *Report) AllOK() bool {
	return len(r.Failures) == 0
}

// Render produces the user-facing status message: one checkmarked line per
// success (with a link where available) and one exclamation-marked line
// per failure. Raw errors are already reduced to single-line messages by
// the dispatcher; no stack traces reach the user.
func (r *Report) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "*%s* finished: %d ok, %d failed\n", r.Action, len(r.Successes), len(r.Failures))
	for _, res := range r.Successes {
		if res.Link != "" {
			fmt.Fprintf(&b, "✅ %s: %s\n", res.label(), res.Link)
		} else {
			fmt.Fprintf(&b, "✅ %s\n", res.label())
		}
	}
	for _, res := range r.Failures {
		fmt.Fprintf(&b, "❗ %s: %s\n", res.label(), res.Err)
	}
	return strings.TrimRight(b.String(), "\n")
}

// PinnedMessage is a channel message flagged for persistent visibility
type PinnedMessage struct {
	Text      string
	Timestamp string
}
