package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/support-router/internal/events"
	"github.com/spec-kit/support-router/internal/observability"
)

// AuditService subscribes to pipeline events and records them to the
// structured log and metrics counters. Tickets themselves are the durable
// audit trail; this adds the operational view.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger, metrics *observability.Metrics) *AuditService {
	return &AuditService{dispatcher: dispatcher, logger: logger, metrics: metrics}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventQueryProcessed, a.handleQueryProcessed)
	a.dispatcher.Subscribe(events.EventTicketCreated, a.handleTicketCreated)
	a.dispatcher.Subscribe(events.EventTicketStatusChanged, a.handleTicketStatusChanged)
	a.dispatcher.Subscribe(events.EventNotificationResult, a.handleNotificationResult)
}

func (a *AuditService) handleQueryProcessed(ctx context.Context, event events.Event) error {
	a.logger.Info("QueryProcessed", zap.Any("payload", event.Payload))
	a.metrics.RecordQuery()
	if payload, ok := event.Payload.(events.QueryProcessedPayload); ok && payload.RoutedToSupport {
		a.metrics.RecordEscalation(string(payload.Category))
	}
	return nil
}

func (a *AuditService) handleTicketCreated(ctx context.Context, event events.Event) error {
	a.logger.Info("TicketCreated",
		zap.String("ticket_number", event.TicketNumber),
		zap.Any("payload", event.Payload))
	return nil
}

func (a *AuditService) handleTicketStatusChanged(ctx context.Context, event events.Event) error {
	a.logger.Info("TicketStatusChanged",
		zap.String("ticket_number", event.TicketNumber),
		zap.Any("payload", event.Payload))
	return nil
}

func (a *AuditService) handleNotificationResult(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.NotificationResultPayload)
	if !ok {
		return nil
	}
	if !payload.SupportNotified {
		a.metrics.RecordNotificationFailure("support")
	}
	if !payload.CustomerNotified {
		a.metrics.RecordNotificationFailure("customer")
	}
	a.logger.Info("NotificationResult",
		zap.String("ticket_number", event.TicketNumber),
		zap.Bool("support_notified", payload.SupportNotified),
		zap.Bool("customer_notified", payload.CustomerNotified))
	return nil
}
