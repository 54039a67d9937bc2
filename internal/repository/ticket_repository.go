package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/support-router/internal/domain"
)

var (
	// ErrTicketNotFound is returned when no ticket matches the given number.
	ErrTicketNotFound = errors.New("ticket not found")
	// ErrTicketTerminal is returned when updating a resolved or closed ticket.
	ErrTicketTerminal = errors.New("ticket is in a terminal status")
)

const uniqueViolation = "23505"

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, userEmail, userQuery string, category domain.Category, priority domain.TicketPriority) (*domain.Ticket, error)
	GetByNumber(ctx context.Context, ticketNumber string) (*domain.Ticket, error)
	UpdateStatus(ctx context.Context, ticketNumber string, status domain.TicketStatus) error
	MarkEmailSent(ctx context.Context, ticketNumber string) error
	CountByStatus(ctx context.Context, status domain.TicketStatus) (int64, error)
	CountTotal(ctx context.Context) (int64, error)
	CountDistinctCategories(ctx context.Context) (int64, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, ticket_number, user_email, user_query, category, priority, status,
       created_at, updated_at, assigned_to, resolution_notes, email_sent, email_sent_at`

// Create inserts a new open ticket. Ticket numbers derive from the creation
// second; a same-second collision trips the unique constraint and is retried
// with a random salt so uniqueness holds under concurrent creation.
func (r *ticketRepository) Create(ctx context.Context, userEmail, userQuery string, category domain.Category, priority domain.TicketPriority) (*domain.Ticket, error) {
	const query = `
        INSERT INTO support_tickets (ticket_number, user_email, user_query, category, priority, status)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING ` + ticketColumns

	number := GenerateTicketNumber(time.Now())
	for attempt := 0; attempt < 3; attempt++ {
		tx, err := r.pool.Begin(ctx)
		if err != nil {
			return nil, err
		}

		ticket, err := scanTicket(tx.QueryRow(ctx, query,
			number, userEmail, userQuery, category, priority, domain.TicketStatusOpen))
		if err != nil {
			_ = tx.Rollback(ctx)
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
				number = saltTicketNumber(number)
				continue
			}
			return nil, err
		}
		if err := tx.Commit(ctx); err != nil {
			return nil, err
		}
		return ticket, nil
	}
	return nil, fmt.Errorf("ticket number collision persisted after retries")
}

func (r *ticketRepository) GetByNumber(ctx context.Context, ticketNumber string) (*domain.Ticket, error) {
	const query = `SELECT ` + ticketColumns + ` FROM support_tickets WHERE ticket_number=$1`
	ticket, err := scanTicket(r.pool.QueryRow(ctx, query, ticketNumber))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTicketNotFound
	}
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

// UpdateStatus transitions the ticket inside a scoped transaction. Resolved
// and closed tickets are terminal and reject further transitions.
func (r *ticketRepository) UpdateStatus(ctx context.Context, ticketNumber string, status domain.TicketStatus) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var current domain.TicketStatus
	err = tx.QueryRow(ctx,
		`SELECT status FROM support_tickets WHERE ticket_number=$1 FOR UPDATE`,
		ticketNumber).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrTicketNotFound
	}
	if err != nil {
		return err
	}
	if current.IsTerminal() {
		return ErrTicketTerminal
	}

	if _, err := tx.Exec(ctx,
		`UPDATE support_tickets SET status=$1, updated_at=NOW() WHERE ticket_number=$2`,
		status, ticketNumber); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// MarkEmailSent records the notification send. Idempotent: a ticket already
// marked keeps its original email_sent_at.
func (r *ticketRepository) MarkEmailSent(ctx context.Context, ticketNumber string) error {
	const query = `
        UPDATE support_tickets
        SET email_sent=TRUE,
            email_sent_at=COALESCE(email_sent_at, NOW()),
            updated_at=NOW()
        WHERE ticket_number=$1`
	cmd, err := r.pool.Exec(ctx, query, ticketNumber)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrTicketNotFound
	}
	return nil
}

func (r *ticketRepository) CountByStatus(ctx context.Context, status domain.TicketStatus) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM support_tickets WHERE status=$1`, status).Scan(&count)
	return count, err
}

func (r *ticketRepository) CountTotal(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM support_tickets`).Scan(&count)
	return count, err
}

func (r *ticketRepository) CountDistinctCategories(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(DISTINCT category) FROM support_tickets`).Scan(&count)
	return count, err
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := row.Scan(
		&ticket.ID,
		&ticket.TicketNumber,
		&ticket.UserEmail,
		&ticket.UserQuery,
		&ticket.Category,
		&ticket.Priority,
		&ticket.Status,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&ticket.AssignedTo,
		&ticket.ResolutionNotes,
		&ticket.EmailSent,
		&ticket.EmailSentAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// GenerateTicketNumber formats the second-resolution creation timestamp.
func GenerateTicketNumber(at time.Time) string {
	return "TKT-" + at.Format("20060102150405")
}

func saltTicketNumber(number string) string {
	base := number
	if idx := strings.LastIndex(base, "-"); idx > 3 {
		base = base[:idx]
	}
	salt := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:4])
	return base + "-" + salt
}
