package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/support-portal/internal/events"
)

// StartAuditWorker subscribes an audit-log handler to assignment events.
// With the Kafka dispatcher the subscription is a no-op; auditing then
// happens in the downstream consumer.
func StartAuditWorker(dispatcher events.Dispatcher, logger *zap.Logger) {
	if dispatcher == nil {
		return
	}
	handler := func(_ context.Context, event events.Event) error {
		logger.Info("assignment event",
			zap.String("event_id", event.ID),
			zap.String("type", string(event.Type)),
			zap.Int("ticket_id", event.TicketID),
			zap.Any("payload", event.Payload))
		return nil
	}
	dispatcher.Subscribe(events.EventAssignmentCompleted, handler)
	dispatcher.Subscribe(events.EventAssignmentFailed, handler)
}
