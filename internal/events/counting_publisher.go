package events

import (
	"context"

	"github.com/yukikurage/meeting-action-api/internal/metrics"
)

// CountingPublisher records every publish attempt in the workflow metrics.
type CountingPublisher struct {
	next    Publisher
	metrics *metrics.Metrics
}

func NewCountingPublisher(next Publisher, m *metrics.Metrics) *CountingPublisher {
	return &CountingPublisher{next: next, metrics: m}
}

func (p *CountingPublisher) Publish(ctx context.Context, event Event) error {
	topic := string(event.Topic)
	if err := p.next.Publish(ctx, event); err != nil {
		p.metrics.EventPublishErrors.WithLabelValues(topic).Inc()
		return err
	}
	p.metrics.WorkflowEventsTotal.WithLabelValues(topic).Inc()
	return nil
}
