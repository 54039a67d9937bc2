package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/support-router/internal/config"
	"github.com/spec-kit/support-router/internal/domain"
)

// Mailer delivers ticket notification emails. Best effort: implementations
// report success or failure, never propagate errors to the caller.
type Mailer interface {
	NotifySupport(ctx context.Context, ticket *domain.Ticket) bool
	NotifyCustomer(ctx context.Context, ticket *domain.Ticket) bool
}

// SMTPMailer sends plain-text notifications over SMTP with STARTTLS.
type SMTPMailer struct {
	cfg    config.SMTPConfig
	logger *zap.Logger
}

// NewSMTPMailer constructs the mailer.
func NewSMTPMailer(cfg config.SMTPConfig, logger *zap.Logger) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, logger: logger}
}

// NotifySupport alerts the internal support mailbox about a new ticket.
// Unconfigured sender or support-team address short-circuits to failure
// without a network call.
func (m *SMTPMailer) NotifySupport(ctx context.Context, ticket *domain.Ticket) bool {
	if m.cfg.SenderEmail == "" || m.cfg.SupportTeamEmail == "" {
		m.logger.Warn("email credentials not configured; ticket created but support not notified",
			zap.String("ticket_number", ticket.TicketNumber))
		return false
	}

	subject := fmt.Sprintf("New Support Ticket: %s - %s",
		ticket.TicketNumber, strings.ToUpper(string(ticket.Category)))
	if err := m.send(ctx, m.cfg.SupportTeamEmail, subject, supportBody(ticket)); err != nil {
		m.logger.Error("support notification failed",
			zap.String("ticket_number", ticket.TicketNumber), zap.Error(err))
		return false
	}
	m.logger.Info("support team notified", zap.String("ticket_number", ticket.TicketNumber))
	return true
}

// NotifyCustomer sends the ticket confirmation to the customer.
func (m *SMTPMailer) NotifyCustomer(ctx context.Context, ticket *domain.Ticket) bool {
	if m.cfg.SenderEmail == "" {
		return false
	}

	subject := fmt.Sprintf("Support Ticket Created: %s", ticket.TicketNumber)
	if err := m.send(ctx, ticket.UserEmail, subject, customerBody(ticket)); err != nil {
		m.logger.Error("customer confirmation failed",
			zap.String("ticket_number", ticket.TicketNumber), zap.Error(err))
		return false
	}
	return true
}

func (m *SMTPMailer) send(ctx context.Context, to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	dialer := net.Dialer{Timeout: m.cfg.DialTimeout()}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial smtp: %w", err)
	}

	// net/smtp does not honor ctx, so the whole exchange is bounded through
	// a connection deadline; a stalled server fails the send instead of
	// blocking it.
	deadline := time.Now().Add(m.cfg.DialTimeout())
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetDeadline(deadline); err != nil {
		conn.Close()
		return fmt.Errorf("set smtp deadline: %w", err)
	}

	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: m.cfg.Host}); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}
	if m.cfg.SenderPassword != "" {
		auth := smtp.PlainAuth("", m.cfg.SenderEmail, m.cfg.SenderPassword, m.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := client.Mail(m.cfg.SenderEmail); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}
	writer, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := writer.Write([]byte(message(m.cfg.SenderEmail, to, subject, body))); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}
	return client.Quit()
}

func message(from, to, subject, body string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return b.String()
}

func supportBody(ticket *domain.Ticket) string {
	return fmt.Sprintf(`New Support Ticket Created

Ticket Number: %s
Category: %s
Priority: %s
Created: %s

Customer Email: %s

Customer Query:
%s

---
Please log in to the dashboard to review and respond to this ticket.
`,
		ticket.TicketNumber,
		ticket.Category,
		ticket.Priority,
		ticket.CreatedAt.Format("2006-01-02 15:04:05"),
		ticket.UserEmail,
		ticket.UserQuery)
}

func customerBody(ticket *domain.Ticket) string {
	return fmt.Sprintf(`Dear Customer,

Thank you for contacting us. Your support ticket has been created and assigned to our team.

Ticket Number: %s
Category: %s
Status: Open

Your query has been marked as %s priority and will be addressed shortly.
Our support team will reach out to you within 24 hours.

Best regards,
FinTech Support Team
`,
		ticket.TicketNumber,
		ticket.Category,
		ticket.Priority)
}
