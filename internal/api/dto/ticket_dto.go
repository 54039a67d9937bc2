package dto

import "time"

// TicketResponse is the API view of a ticket.
type TicketResponse struct {
	TicketNumber    string     `json:"ticket_number"`
	UserEmail       string     `json:"user_email"`
	UserQuery       string     `json:"user_query"`
	Category        string     `json:"category"`
	Priority        string     `json:"priority"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	AssignedTo      *string    `json:"assigned_to,omitempty"`
	ResolutionNotes *string    `json:"resolution_notes,omitempty"`
	EmailSent       bool       `json:"email_sent"`
	EmailSentAt     *time.Time `json:"email_sent_at,omitempty"`
}

// UpdateTicketStatusRequest transitions a ticket's lifecycle state.
type UpdateTicketStatusRequest struct {
	Status string `json:"status"`
}

// TicketStatsResponse carries dashboard aggregates.
type TicketStatsResponse struct {
	OpenTickets        int64 `json:"open_tickets"`
	TotalTickets       int64 `json:"total_tickets"`
	DistinctCategories int64 `json:"distinct_categories"`
}
