package model

import "github.com/projektwerk/stagehand/pkg/domain/types"

// LifecycleJob is one unit of fan-out work submitted to the task queue.
// Origin names the service kind that triggered the job, when the trigger
// came from inside one of the connected services (e.g. a Slack slash
// command); it is empty for external triggers such as the web form.
type LifecycleJob struct {
	ProjectID int64
	Action    types.Action
	Origin    types.ServiceKind
}
