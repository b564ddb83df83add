package services

import (
	"context"
	"time"

	"github.com/yukikurage/meeting-action-api/internal/clock"
	"github.com/yukikurage/meeting-action-api/internal/events"
	"go.uber.org/zap"
)

const publishTimeout = 2 * time.Second

// notifier publishes committed workflow events. Delivery failures are logged
// and never surface to the caller.
type notifier struct {
	publisher events.Publisher
	log       *zap.Logger
}

func newNotifier(publisher events.Publisher, log *zap.Logger) notifier {
	if log == nil {
		log = zap.NewNop()
	}
	return notifier{publisher: publisher, log: log}
}

func (n notifier) emit(ctx context.Context, event events.Event) {
	if n.publisher == nil {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = clock.Now()
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := n.publisher.Publish(ctx, event); err != nil {
		n.log.Warn("failed to publish workflow event",
			zap.String("topic", string(event.Topic)),
			zap.Uint64("action_id", event.ActionID),
			zap.Error(err),
		)
	}
}
