package usecase

import (
	"context"
	"slices"

	"github.com/projektwerk/stagehand/pkg/domain/model"
	"github.com/projektwerk/stagehand/pkg/domain/types"
	"github.com/projektwerk/stagehand/pkg/utils/errutil"
	"github.com/projektwerk/stagehand/pkg/utils/logging"
)

// ExecuteLifecycle runs one fan-out: the job's action on every
// connection of the project, in topology order, each through the retry
// runner. One connection failing never stops the others; the aggregate
// report is posted to the project's chat channel afterwards.
//
// When the trigger came from inside the chat channel and the action is
// ARCHIVE, the channel itself is archived last, after the report has
// been posted into it.
func (uc *UseCases) ExecuteLifecycle(ctx context.Context, job model.LifecycleJob) error {
	project, err := uc.repo.Project().Get(ctx, job.ProjectID)
	if err != nil {
		return err
	}

	connections, err := uc.repo.Connection().ListByProject(ctx, job.ProjectID)
	if err != nil {
		return err
	}
	ordered := uc.orderConnections(connections)

	var deferred *model.ServiceConnection
	if job.Action == types.ActionArchive && job.Origin == types.ServiceKindSlack {
		if chat := primaryChat(ordered); chat != nil {
			deferred = chat
			ordered = slices.DeleteFunc(slices.Clone(ordered), func(c *model.ServiceConnection) bool {
				return c.ID == chat.ID
			})
		}
	}

	report := &model.Report{Action: job.Action}
	for _, conn := range ordered {
		report.Add(uc.dispatchOne(ctx, job.Action, conn))
	}

	logging.From(ctx).Info("lifecycle fan-out finished",
		"projectID", project.ID,
		"action", job.Action.String(),
		"ok", len(report.Successes),
		"failed", len(report.Failures))

	uc.postReport(ctx, connections, report)

	if job.Action == types.ActionCreate {
		if err := uc.SyncLinks(ctx, project.ID); err != nil {
			errutil.Handle(ctx, err, "failed to sync links message")
		}
	}

	if deferred != nil {
		if res := uc.dispatchOne(ctx, job.Action, deferred); !res.Ok() {
			logging.From(ctx).Error("failed to archive chat channel",
				"projectID", project.ID, "error", res.Err)
		}
	}

	return nil
}

// dispatchOne runs one action on one connection through the retry
// runner and converts the outcome into a report entry. Failures reach
// the connection status through the registry, attempt by attempt.
func (uc *UseCases) dispatchOne(ctx context.Context, action types.Action, conn *model.ServiceConnection) model.ServiceResult {
	res := model.ServiceResult{
		Kind:      conn.Kind,
		Pretty:    uc.topology.Pretty(conn.Kind),
		Qualifier: conn.Qualifier,
	}

	if !uc.registry.Has(conn.Kind) {
		res.Err = "no adapter configured"
		return res
	}

	err := uc.runner.Do(ctx, func(ctx context.Context) error {
		return uc.registry.Dispatch(ctx, action, conn.ID)
	})
	if err != nil {
		res.Err = err.Error()
		return res
	}

	if link, lerr := uc.registry.Link(ctx, conn.ID); lerr == nil {
		res.Link = link
	}
	return res
}

// orderConnections sorts connections into topology dispatch order.
// Unqualified connections come before qualified ones of the same kind;
// kinds missing from the topology go last in creation order.
func (uc *UseCases) orderConnections(connections []*model.ServiceConnection) []*model.ServiceConnection {
	order := uc.topology.Order()
	rank := func(kind types.ServiceKind) int {
		if i := slices.Index(order, kind); i >= 0 {
			return i
		}
		return len(order)
	}

	sorted := slices.Clone(connections)
	slices.SortStableFunc(sorted, func(a, b *model.ServiceConnection) int {
		if r := rank(a.Kind) - rank(b.Kind); r != 0 {
			return r
		}
		switch {
		case a.Qualifier == b.Qualifier:
			return 0
		case a.Qualifier == "":
			return -1
		case b.Qualifier == "":
			return 1
		default:
			return 0
		}
	})
	return sorted
}

// primaryChat returns the project's own chat channel: the unqualified
// slack connection
func primaryChat(connections []*model.ServiceConnection) *model.ServiceConnection {
	for _, conn := range connections {
		if conn.Kind == types.ServiceKindSlack && conn.Qualifier == "" {
			return conn
		}
	}
	return nil
}

// postReport posts the aggregated report into the project's chat
// channel. Without a notifier or a linked channel the report only goes
// to the log.
func (uc *UseCases) postReport(ctx context.Context, connections []*model.ServiceConnection, report *model.Report) {
	chat := primaryChat(connections)
	if uc.notifier == nil || chat == nil || !chat.Linked() {
		logging.From(ctx).Info("fan-out report", "report", report.Render())
		return
	}

	if _, err := uc.notifier.Post(ctx, chat.RemoteID, report.Render()); err != nil {
		errutil.Handle(ctx, err, "failed to post fan-out report")
	}
}
