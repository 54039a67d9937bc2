package events

import (
	"time"

	"github.com/spec-kit/support-router/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventQueryProcessed      EventType = "query_processed"
	EventTicketCreated       EventType = "ticket_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventNotificationResult  EventType = "notification_result"
)

// Event represents a domain event emitted by the routing pipeline.
type Event struct {
	ID           string      `json:"id"`
	Type         EventType   `json:"type"`
	TicketNumber string      `json:"ticket_number,omitempty"`
	Timestamp    time.Time   `json:"timestamp"`
	Payload      interface{} `json:"payload"`
}

// QueryProcessedPayload records the outcome of one classification pass.
type QueryProcessedPayload struct {
	Category        domain.Category `json:"category"`
	Confidence      float64         `json:"confidence"`
	MatcherCategory domain.Category `json:"matcher_category"`
	MatcherScore    float64         `json:"matcher_score"`
	RoutedToSupport bool            `json:"routed_to_support"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Category  domain.Category       `json:"category"`
	Priority  domain.TicketPriority `json:"priority"`
	UserEmail string                `json:"user_email"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
	ChangedBy string              `json:"changed_by,omitempty"`
}

// NotificationResultPayload records per-recipient delivery outcomes.
type NotificationResultPayload struct {
	SupportNotified  bool `json:"support_notified"`
	CustomerNotified bool `json:"customer_notified"`
}
