package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/support-router/internal/classifier"
	"github.com/spec-kit/support-router/internal/domain"
	"github.com/spec-kit/support-router/internal/events"
	"github.com/spec-kit/support-router/internal/notify"
	"github.com/spec-kit/support-router/internal/policy"
	"github.com/spec-kit/support-router/internal/repository"
)

// RouterService runs the query routing pipeline: classify, decide, persist,
// notify. Constructed once at the composition root and injected into
// handlers; it owns no global state.
type RouterService struct {
	analyzer   classifier.Classifier
	matcher    classifier.Classifier
	tickets    repository.TicketRepository
	mailer     notify.Mailer
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// RouterDependencies bundles collaborators for the router service.
type RouterDependencies struct {
	Analyzer   classifier.Classifier
	Matcher    classifier.Classifier
	TicketRepo repository.TicketRepository
	Mailer     notify.Mailer
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// QueryOutcome is the routing decision returned to the caller.
type QueryOutcome struct {
	Query           string
	Category        domain.Category
	Confidence      float64
	RoutedToSupport bool
	TicketNumber    *string
	Message         string
}

// NewRouterService constructs the service.
func NewRouterService(deps RouterDependencies) *RouterService {
	return &RouterService{
		analyzer:   deps.Analyzer,
		matcher:    deps.Matcher,
		tickets:    deps.TicketRepo,
		mailer:     deps.Mailer,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// ProcessQuery classifies the query and, when escalation is warranted,
// creates a ticket and dispatches notifications. Only persistence failures
// are returned as errors; classification and notification failures degrade.
func (s *RouterService) ProcessQuery(ctx context.Context, query, userEmail string) (*QueryOutcome, error) {
	analyzerResult := s.classifyWith(ctx, s.analyzer, query, "analyzer")
	matcherResult := s.classifyWith(ctx, s.matcher, query, "matcher")

	escalate := policy.Decide(analyzerResult, matcherResult)
	effective := effectiveResult(analyzerResult, matcherResult, escalate)

	outcome := &QueryOutcome{
		Query:      query,
		Category:   effective.Category,
		Confidence: effective.Confidence,
	}

	s.publishEvent(ctx, events.Event{
		Type: events.EventQueryProcessed,
		Payload: events.QueryProcessedPayload{
			Category:        analyzerResult.Category,
			Confidence:      analyzerResult.Confidence,
			MatcherCategory: matcherResult.Category,
			MatcherScore:    matcherResult.Confidence,
			RoutedToSupport: escalate,
		},
	})

	if !escalate {
		outcome.Message = "Query handled by AI assistant. If you need further assistance, please contact our support team."
		return outcome, nil
	}

	priority := domain.PriorityFor(effective.Category)
	ticket, err := s.tickets.Create(ctx, userEmail, query, effective.Category, priority)
	if err != nil {
		return nil, fmt.Errorf("create ticket: %w", err)
	}

	outcome.RoutedToSupport = true
	outcome.TicketNumber = &ticket.TicketNumber
	outcome.Message = fmt.Sprintf(
		"Your query has been escalated to our support team. Ticket #%s created. You will receive updates at %s",
		ticket.TicketNumber, userEmail)

	s.publishEvent(ctx, events.Event{
		Type:         events.EventTicketCreated,
		TicketNumber: ticket.TicketNumber,
		Payload: events.TicketCreatedPayload{
			Category:  ticket.Category,
			Priority:  ticket.Priority,
			UserEmail: ticket.UserEmail,
		},
	})

	supportNotified := s.mailer.NotifySupport(ctx, ticket)
	customerNotified := s.mailer.NotifyCustomer(ctx, ticket)
	if supportNotified || customerNotified {
		if err := s.tickets.MarkEmailSent(ctx, ticket.TicketNumber); err != nil {
			s.logger.Error("failed to mark email sent",
				zap.String("ticket_number", ticket.TicketNumber), zap.Error(err))
		}
	}

	s.publishEvent(ctx, events.Event{
		Type:         events.EventNotificationResult,
		TicketNumber: ticket.TicketNumber,
		Payload: events.NotificationResultPayload{
			SupportNotified:  supportNotified,
			CustomerNotified: customerNotified,
		},
	})

	return outcome, nil
}

// GetTicket fetches a ticket by number.
func (s *RouterService) GetTicket(ctx context.Context, ticketNumber string) (*domain.Ticket, error) {
	return s.tickets.GetByNumber(ctx, ticketNumber)
}

// UpdateTicketStatus transitions a ticket and publishes the change together
// with the staff user who made it.
func (s *RouterService) UpdateTicketStatus(ctx context.Context, ticketNumber string, status domain.TicketStatus, actor string) (*domain.Ticket, error) {
	before, err := s.tickets.GetByNumber(ctx, ticketNumber)
	if err != nil {
		return nil, err
	}
	if err := s.tickets.UpdateStatus(ctx, ticketNumber, status); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:         events.EventTicketStatusChanged,
		TicketNumber: ticketNumber,
		Payload: events.TicketStatusChangedPayload{
			OldStatus: before.Status,
			NewStatus: status,
			ChangedBy: actor,
		},
	})
	return s.tickets.GetByNumber(ctx, ticketNumber)
}

// TicketStats aggregates counts for the support dashboard.
type TicketStats struct {
	OpenTickets        int64
	TotalTickets       int64
	DistinctCategories int64
}

// Stats returns dashboard aggregates.
func (s *RouterService) Stats(ctx context.Context) (*TicketStats, error) {
	open, err := s.tickets.CountByStatus(ctx, domain.TicketStatusOpen)
	if err != nil {
		return nil, err
	}
	total, err := s.tickets.CountTotal(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := s.tickets.CountDistinctCategories(ctx)
	if err != nil {
		return nil, err
	}
	return &TicketStats{OpenTickets: open, TotalTickets: total, DistinctCategories: categories}, nil
}

// classifyWith normalizes classifier errors to the neutral result so the
// pipeline always has two results to weigh.
func (s *RouterService) classifyWith(ctx context.Context, c classifier.Classifier, query, name string) classifier.Result {
	result, err := c.Classify(ctx, query)
	if err != nil {
		s.logger.Warn("classifier error", zap.String("classifier", name), zap.Error(err))
		return classifier.Neutral()
	}
	return result
}

// effectiveResult picks the result the caller sees and the ticket is tagged
// with. The analyzer wins when it drove the escalation; the matcher's match
// is used when escalation happened only through the fallback path.
func effectiveResult(analyzer, matcher classifier.Result, escalated bool) classifier.Result {
	if !escalated {
		return analyzer
	}
	if analyzer.Category.IsEscalation() && analyzer.Confidence > policy.AnalyzerThreshold {
		return analyzer
	}
	return matcher
}

func (s *RouterService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handlers failed",
			zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}
