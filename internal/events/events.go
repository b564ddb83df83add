package events

import (
	"context"
	"time"
)

type Topic string

const (
	TopicApprovalRecorded   Topic = "approval.recorded"
	TopicActionCompleted    Topic = "action.completed"
	TopicExtensionRequested Topic = "extension.requested"
	TopicExtensionResolved  Topic = "extension.resolved"
)

// Event is a committed workflow change. Publishers receive it only after the
// transaction that produced it has committed.
type Event struct {
	Topic              Topic                  `json:"topic"`
	CompanyID          uint64                 `json:"companyId"`
	ActorID            uint64                 `json:"actorId"`
	ActionID           uint64                 `json:"actionId,omitempty"`
	ResponsibleID      uint64                 `json:"responsibleId,omitempty"`
	ExtensionRequestID uint64                 `json:"extensionRequestId,omitempty"`
	Attributes         map[string]interface{} `json:"attributes,omitempty"`
	OccurredAt         time.Time              `json:"occurredAt"`
}

// Publisher delivers events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Multi fans an event out to every publisher and returns the first error.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, event Event) error {
	var first error
	for _, p := range m {
		if err := p.Publish(ctx, event); err != nil && first == nil {
			first = err
		}
	}
	return first
}
