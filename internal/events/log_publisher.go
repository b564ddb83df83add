package events

import (
	"context"

	"go.uber.org/zap"
)

// LogPublisher writes events to the structured log. It is used when no
// Redis stream is configured.
type LogPublisher struct {
	log *zap.Logger
}

func NewLogPublisher(log *zap.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) Publish(_ context.Context, event Event) error {
	p.log.Info("workflow event",
		zap.String("topic", string(event.Topic)),
		zap.Uint64("company_id", event.CompanyID),
		zap.Uint64("actor_id", event.ActorID),
		zap.Uint64("action_id", event.ActionID),
		zap.Uint64("responsible_id", event.ResponsibleID),
		zap.Uint64("extension_request_id", event.ExtensionRequestID),
		zap.Any("attributes", event.Attributes),
		zap.Time("occurred_at", event.OccurredAt),
	)
	return nil
}
