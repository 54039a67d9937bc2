package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-router/internal/api/dto"
	"github.com/spec-kit/support-router/internal/auth"
	"github.com/spec-kit/support-router/internal/domain"
	"github.com/spec-kit/support-router/internal/repository"
	"github.com/spec-kit/support-router/internal/service"
	apperrors "github.com/spec-kit/support-router/pkg/util"
)

// TicketsHandler manages ticket lookup and staff operations.
type TicketsHandler struct {
	router *service.RouterService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(router *service.RouterService) *TicketsHandler {
	return &TicketsHandler{router: router}
}

// GetTicket GET /tickets/:number.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	ticket, err := h.router.GetTicket(c.UserContext(), c.Params("number"))
	if err != nil {
		return mapTicketError(err)
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// UpdateStatus PATCH /tickets/:number/status.
func (h *TicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.UpdateTicketStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	status := domain.TicketStatus(req.Status)
	if !domain.ValidStatus(status) {
		return apperrors.NewValidationError("status must be one of open, in_progress, resolved, closed", nil)
	}

	var actor string
	if claims, ok := auth.ClaimsFromContext(c); ok {
		actor = claims.User
	}

	ticket, err := h.router.UpdateTicketStatus(c.UserContext(), c.Params("number"), status, actor)
	if err != nil {
		return mapTicketError(err)
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// Stats GET /stats.
func (h *TicketsHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.router.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TicketStatsResponse{
		OpenTickets:        stats.OpenTickets,
		TotalTickets:       stats.TotalTickets,
		DistinctCategories: stats.DistinctCategories,
	}})
}

func mapTicketError(err error) error {
	switch {
	case errors.Is(err, repository.ErrTicketNotFound):
		return apperrors.NewNotFound("ticket", nil)
	case errors.Is(err, repository.ErrTicketTerminal):
		return apperrors.NewConflict("ticket is in a terminal status", nil)
	default:
		return err
	}
}

func ticketResponse(ticket *domain.Ticket) dto.TicketResponse {
	return dto.TicketResponse{
		TicketNumber:    ticket.TicketNumber,
		UserEmail:       ticket.UserEmail,
		UserQuery:       ticket.UserQuery,
		Category:        string(ticket.Category),
		Priority:        string(ticket.Priority),
		Status:          string(ticket.Status),
		CreatedAt:       ticket.CreatedAt,
		UpdatedAt:       ticket.UpdatedAt,
		AssignedTo:      ticket.AssignedTo,
		ResolutionNotes: ticket.ResolutionNotes,
		EmailSent:       ticket.EmailSent,
		EmailSentAt:     ticket.EmailSentAt,
	}
}
