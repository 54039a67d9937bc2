package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/support-router/internal/classifier"
	"github.com/spec-kit/support-router/internal/domain"
	"github.com/spec-kit/support-router/internal/events"
	"github.com/spec-kit/support-router/internal/repository"
)

type stubClassifier struct {
	result classifier.Result
	err    error
}

func (s stubClassifier) Classify(ctx context.Context, query string) (classifier.Result, error) {
	return s.result, s.err
}

type memTicketRepo struct {
	tickets   map[string]*domain.Ticket
	seq       int
	createErr error
}

func newMemTicketRepo() *memTicketRepo {
	return &memTicketRepo{tickets: make(map[string]*domain.Ticket)}
}

func (m *memTicketRepo) Create(ctx context.Context, userEmail, userQuery string, category domain.Category, priority domain.TicketPriority) (*domain.Ticket, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.seq++
	now := time.Now()
	ticket := &domain.Ticket{
		ID:           int64(m.seq),
		TicketNumber: fmt.Sprintf("TKT-%014d", m.seq),
		UserEmail:    userEmail,
		UserQuery:    userQuery,
		Category:     category,
		Priority:     priority,
		Status:       domain.TicketStatusOpen,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	m.tickets[ticket.TicketNumber] = ticket
	copied := *ticket
	return &copied, nil
}

func (m *memTicketRepo) GetByNumber(ctx context.Context, number string) (*domain.Ticket, error) {
	ticket, ok := m.tickets[number]
	if !ok {
		return nil, repository.ErrTicketNotFound
	}
	copied := *ticket
	return &copied, nil
}

func (m *memTicketRepo) UpdateStatus(ctx context.Context, number string, status domain.TicketStatus) error {
	ticket, ok := m.tickets[number]
	if !ok {
		return repository.ErrTicketNotFound
	}
	if ticket.Status.IsTerminal() {
		return repository.ErrTicketTerminal
	}
	ticket.Status = status
	ticket.UpdatedAt = time.Now()
	return nil
}

func (m *memTicketRepo) MarkEmailSent(ctx context.Context, number string) error {
	ticket, ok := m.tickets[number]
	if !ok {
		return repository.ErrTicketNotFound
	}
	if !ticket.EmailSent {
		now := time.Now()
		ticket.EmailSent = true
		ticket.EmailSentAt = &now
	}
	return nil
}

func (m *memTicketRepo) CountByStatus(ctx context.Context, status domain.TicketStatus) (int64, error) {
	var count int64
	for _, ticket := range m.tickets {
		if ticket.Status == status {
			count++
		}
	}
	return count, nil
}

func (m *memTicketRepo) CountTotal(ctx context.Context) (int64, error) {
	return int64(len(m.tickets)), nil
}

func (m *memTicketRepo) CountDistinctCategories(ctx context.Context) (int64, error) {
	seen := map[domain.Category]struct{}{}
	for _, ticket := range m.tickets {
		seen[ticket.Category] = struct{}{}
	}
	return int64(len(seen)), nil
}

type stubMailer struct {
	supportOK  bool
	customerOK bool
	notified   []string
}

func (s *stubMailer) NotifySupport(ctx context.Context, ticket *domain.Ticket) bool {
	s.notified = append(s.notified, "support:"+ticket.TicketNumber)
	return s.supportOK
}

func (s *stubMailer) NotifyCustomer(ctx context.Context, ticket *domain.Ticket) bool {
	s.notified = append(s.notified, "customer:"+ticket.TicketNumber)
	return s.customerOK
}

func newTestService(analyzer, matcher classifier.Classifier, repo repository.TicketRepository, mailer *stubMailer) *RouterService {
	return NewRouterService(RouterDependencies{
		Analyzer:   analyzer,
		Matcher:    matcher,
		TicketRepo: repo,
		Mailer:     mailer,
		Dispatcher: events.NewInMemoryDispatcher(),
		Logger:     zap.NewNop(),
	})
}

func TestProcessQueryEscalatesOnConfidentAnalyzer(t *testing.T) {
	repo := newMemTicketRepo()
	mailer := &stubMailer{supportOK: true, customerOK: true}
	svc := newTestService(
		stubClassifier{result: classifier.Result{Category: domain.CategoryDebitCard, Confidence: 0.8}},
		stubClassifier{result: classifier.Neutral()},
		repo, mailer)

	outcome, err := svc.ProcessQuery(context.Background(), "My debit card was blocked", "jo@example.com")
	require.NoError(t, err)

	assert.True(t, outcome.RoutedToSupport)
	assert.Equal(t, domain.CategoryDebitCard, outcome.Category)
	require.NotNil(t, outcome.TicketNumber)

	ticket, err := repo.GetByNumber(context.Background(), *outcome.TicketNumber)
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryDebitCard, ticket.Category)
	assert.Equal(t, domain.TicketPriorityMedium, ticket.Priority)
	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
	assert.True(t, ticket.EmailSent)
	assert.Len(t, mailer.notified, 2)
}

func TestProcessQueryAssignsHighPriority(t *testing.T) {
	repo := newMemTicketRepo()
	svc := newTestService(
		stubClassifier{result: classifier.Result{Category: domain.CategoryKYC, Confidence: 0.9}},
		stubClassifier{result: classifier.Neutral()},
		repo, &stubMailer{})

	outcome, err := svc.ProcessQuery(context.Background(), "KYC verification failed for my account", "jo@example.com")
	require.NoError(t, err)
	require.NotNil(t, outcome.TicketNumber)

	ticket, err := repo.GetByNumber(context.Background(), *outcome.TicketNumber)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketPriorityHigh, ticket.Priority)
}

func TestProcessQueryWeakSignalsDoNotEscalate(t *testing.T) {
	repo := newMemTicketRepo()
	svc := newTestService(
		stubClassifier{result: classifier.Result{Category: domain.CategoryGeneral, Confidence: 0.1}},
		stubClassifier{result: classifier.Result{Category: domain.CategoryGeneral, Confidence: 0.05}},
		repo, &stubMailer{})

	outcome, err := svc.ProcessQuery(context.Background(), "What's the weather today?", "jo@example.com")
	require.NoError(t, err)

	assert.False(t, outcome.RoutedToSupport)
	assert.Nil(t, outcome.TicketNumber)
	assert.Empty(t, repo.tickets)
	assert.Contains(t, outcome.Message, "support team")
}

func TestProcessQueryFallsBackToMatcher(t *testing.T) {
	repo := newMemTicketRepo()
	svc := newTestService(
		stubClassifier{err: errors.New("oracle down")},
		stubClassifier{result: classifier.Result{Category: domain.CategoryCrossBorder, Confidence: 0.4}},
		repo, &stubMailer{})

	outcome, err := svc.ProcessQuery(context.Background(), "wire transfer stuck", "jo@example.com")
	require.NoError(t, err)

	assert.True(t, outcome.RoutedToSupport)
	assert.Equal(t, domain.CategoryCrossBorder, outcome.Category)
	require.NotNil(t, outcome.TicketNumber)

	ticket, err := repo.GetByNumber(context.Background(), *outcome.TicketNumber)
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryCrossBorder, ticket.Category)
	assert.Equal(t, domain.TicketPriorityMedium, ticket.Priority)
}

func TestProcessQueryNotificationFailureIsNonFatal(t *testing.T) {
	repo := newMemTicketRepo()
	svc := newTestService(
		stubClassifier{result: classifier.Result{Category: domain.CategoryBankAccount, Confidence: 0.9}},
		stubClassifier{result: classifier.Neutral()},
		repo, &stubMailer{supportOK: false, customerOK: false})

	outcome, err := svc.ProcessQuery(context.Background(), "close my account", "jo@example.com")
	require.NoError(t, err)

	assert.True(t, outcome.RoutedToSupport)
	ticket, err := repo.GetByNumber(context.Background(), *outcome.TicketNumber)
	require.NoError(t, err)
	assert.False(t, ticket.EmailSent)
	assert.Nil(t, ticket.EmailSentAt)
}

func TestProcessQueryPersistenceFailureIsFatal(t *testing.T) {
	repo := newMemTicketRepo()
	repo.createErr = errors.New("connection refused")
	svc := newTestService(
		stubClassifier{result: classifier.Result{Category: domain.CategoryKYC, Confidence: 0.9}},
		stubClassifier{result: classifier.Neutral()},
		repo, &stubMailer{})

	_, err := svc.ProcessQuery(context.Background(), "kyc failed", "jo@example.com")
	require.Error(t, err)
}

func TestMarkEmailSentIdempotent(t *testing.T) {
	repo := newMemTicketRepo()
	ticket, err := repo.Create(context.Background(), "jo@example.com", "q", domain.CategoryKYC, domain.TicketPriorityHigh)
	require.NoError(t, err)

	require.NoError(t, repo.MarkEmailSent(context.Background(), ticket.TicketNumber))
	first, err := repo.GetByNumber(context.Background(), ticket.TicketNumber)
	require.NoError(t, err)

	require.NoError(t, repo.MarkEmailSent(context.Background(), ticket.TicketNumber))
	second, err := repo.GetByNumber(context.Background(), ticket.TicketNumber)
	require.NoError(t, err)

	assert.True(t, second.EmailSent)
	assert.Equal(t, first.EmailSentAt, second.EmailSentAt)
}

func TestTicketRoundTrip(t *testing.T) {
	repo := newMemTicketRepo()
	created, err := repo.Create(context.Background(), "jo@example.com", "card blocked", domain.CategoryDebitCard, domain.TicketPriorityMedium)
	require.NoError(t, err)

	fetched, err := repo.GetByNumber(context.Background(), created.TicketNumber)
	require.NoError(t, err)

	assert.Equal(t, created.TicketNumber, fetched.TicketNumber)
	assert.Equal(t, created.UserEmail, fetched.UserEmail)
	assert.Equal(t, created.UserQuery, fetched.UserQuery)
	assert.Equal(t, created.Category, fetched.Category)
	assert.Equal(t, created.Priority, fetched.Priority)
	assert.Equal(t, created.Status, fetched.Status)
}

func TestUpdateTicketStatusRejectsTerminal(t *testing.T) {
	repo := newMemTicketRepo()
	mailer := &stubMailer{}
	svc := newTestService(stubClassifier{result: classifier.Neutral()}, stubClassifier{result: classifier.Neutral()}, repo, mailer)

	ticket, err := repo.Create(context.Background(), "jo@example.com", "q", domain.CategoryKYC, domain.TicketPriorityHigh)
	require.NoError(t, err)

	_, err = svc.UpdateTicketStatus(context.Background(), ticket.TicketNumber, domain.TicketStatusClosed, "support")
	require.NoError(t, err)

	_, err = svc.UpdateTicketStatus(context.Background(), ticket.TicketNumber, domain.TicketStatusOpen, "support")
	assert.ErrorIs(t, err, repository.ErrTicketTerminal)
}

func TestUpdateTicketStatusPublishesActor(t *testing.T) {
	repo := newMemTicketRepo()
	dispatcher := events.NewInMemoryDispatcher()
	svc := NewRouterService(RouterDependencies{
		Analyzer:   stubClassifier{result: classifier.Neutral()},
		Matcher:    stubClassifier{result: classifier.Neutral()},
		TicketRepo: repo,
		Mailer:     &stubMailer{},
		Dispatcher: dispatcher,
		Logger:     zap.NewNop(),
	})

	var captured events.TicketStatusChangedPayload
	dispatcher.Subscribe(events.EventTicketStatusChanged, func(ctx context.Context, e events.Event) error {
		captured, _ = e.Payload.(events.TicketStatusChangedPayload)
		return nil
	})

	ticket, err := repo.Create(context.Background(), "jo@example.com", "q", domain.CategoryKYC, domain.TicketPriorityHigh)
	require.NoError(t, err)

	_, err = svc.UpdateTicketStatus(context.Background(), ticket.TicketNumber, domain.TicketStatusInProgress, "support")
	require.NoError(t, err)

	assert.Equal(t, domain.TicketStatusOpen, captured.OldStatus)
	assert.Equal(t, domain.TicketStatusInProgress, captured.NewStatus)
	assert.Equal(t, "support", captured.ChangedBy)
}

func TestProcessQueryLogsFailingEventHandlers(t *testing.T) {
	repo := newMemTicketRepo()
	dispatcher := events.NewInMemoryDispatcher()
	dispatcher.Subscribe(events.EventQueryProcessed, func(ctx context.Context, e events.Event) error {
		return errors.New("audit sink unavailable")
	})

	core, logs := observer.New(zap.WarnLevel)
	svc := NewRouterService(RouterDependencies{
		Analyzer:   stubClassifier{result: classifier.Neutral()},
		Matcher:    stubClassifier{result: classifier.Neutral()},
		TicketRepo: repo,
		Mailer:     &stubMailer{},
		Dispatcher: dispatcher,
		Logger:     zap.New(core),
	})

	_, err := svc.ProcessQuery(context.Background(), "hello", "jo@example.com")
	require.NoError(t, err)

	entries := logs.FilterMessage("event handlers failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, string(events.EventQueryProcessed), entries[0].ContextMap()["event_type"])
}

func TestStats(t *testing.T) {
	repo := newMemTicketRepo()
	svc := newTestService(stubClassifier{result: classifier.Neutral()}, stubClassifier{result: classifier.Neutral()}, repo, &stubMailer{})

	_, err := repo.Create(context.Background(), "a@example.com", "q1", domain.CategoryKYC, domain.TicketPriorityHigh)
	require.NoError(t, err)
	t2, err := repo.Create(context.Background(), "b@example.com", "q2", domain.CategoryDebitCard, domain.TicketPriorityMedium)
	require.NoError(t, err)
	require.NoError(t, repo.UpdateStatus(context.Background(), t2.TicketNumber, domain.TicketStatusResolved))

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.OpenTickets)
	assert.Equal(t, int64(2), stats.TotalTickets)
	assert.Equal(t, int64(2), stats.DistinctCategories)
}
