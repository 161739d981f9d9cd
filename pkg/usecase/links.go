package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/projektwerk/stagehand/pkg/domain/types"
	"github.com/projektwerk/stagehand/pkg/utils/logging"
)

// LinksStub is the fixed first line of the pinned links message. The
// message is matched by this stub when updating in place, so changing
// it orphans existing pins.
const LinksStub = "📌 Project links"

// SyncLinks rebuilds the pinned links message in the project's chat
// channel: one line per linked connection with a deep link. An
// existing pinned message starting with the stub is updated in place;
// otherwise a new message is posted and pinned.
func (uc *UseCases) SyncLinks(ctx context.Context, projectID int64) error {
	if uc.notifier == nil {
		return nil
	}

	connections, err := uc.repo.Connection().ListByProject(ctx, projectID)
	if err != nil {
		return err
	}

	chat := primaryChat(connections)
	if chat == nil || !chat.Linked() {
		return goerr.New("project has no chat channel to pin links to",
			goerr.T(types.ErrTagNotFound), goerr.V("projectID", projectID))
	}

	var b strings.Builder
	b.WriteString(LinksStub)
	for _, conn := range uc.orderConnections(connections) {
		if !conn.Linked() {
			continue
		}
		link, err := uc.registry.Link(ctx, conn.ID)
		if err != nil || link == "" {
			if err != nil {
				logging.From(ctx).Warn("failed to resolve deep link",
					"connectionID", conn.ID.String(), "error", err.Error())
			}
			continue
		}
		label := uc.topology.Pretty(conn.Kind)
		if conn.Qualifier != "" {
			label = fmt.Sprintf("%s (%s)", label, conn.Qualifier)
		}
		fmt.Fprintf(&b, "\n• %s: %s", label, link)
	}
	text := b.String()

	pins, err := uc.notifier.ListPinned(ctx, chat.RemoteID)
	if err != nil {
		return err
	}
	for _, pin := range pins {
		if strings.HasPrefix(pin.Text, LinksStub) {
			return uc.notifier.Update(ctx, chat.RemoteID, pin.Timestamp, text)
		}
	}

	timestamp, err := uc.notifier.Post(ctx, chat.RemoteID, text)
	if err != nil {
		return err
	}
	return uc.notifier.Pin(ctx, chat.RemoteID, timestamp)
}
