package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

// IsTerminal reports whether no further status transitions are allowed.
func (s TicketStatus) IsTerminal() bool {
	return s == TicketStatusResolved || s == TicketStatusClosed
}

// ValidStatus reports whether the value is a known lifecycle state.
func ValidStatus(s TicketStatus) bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// TicketPriority enumerates urgency assigned at escalation time.
type TicketPriority string

const (
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
)

// Ticket is the durable record of an escalated customer query.
type Ticket struct {
	ID              int64
	TicketNumber    string
	UserEmail       string
	UserQuery       string
	Category        Category
	Priority        TicketPriority
	Status          TicketStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
	AssignedTo      *string
	ResolutionNotes *string
	EmailSent       bool
	EmailSentAt     *time.Time
}
