package handlers

import (
	"net/mail"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-router/internal/api/dto"
	"github.com/spec-kit/support-router/internal/service"
	apperrors "github.com/spec-kit/support-router/pkg/util"
)

// QueriesHandler exposes the query routing pipeline.
type QueriesHandler struct {
	router *service.RouterService
}

// NewQueriesHandler constructs handler.
func NewQueriesHandler(router *service.RouterService) *QueriesHandler {
	return &QueriesHandler{router: router}
}

// ProcessQuery POST /queries.
func (h *QueriesHandler) ProcessQuery(c *fiber.Ctx) error {
	var req dto.ProcessQueryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		return apperrors.NewValidationError("query required", nil)
	}
	if req.UserEmail == "" {
		return apperrors.NewValidationError("user_email required", nil)
	}
	if _, err := mail.ParseAddress(req.UserEmail); err != nil {
		return apperrors.NewValidationError("user_email invalid", nil)
	}

	outcome, err := h.router.ProcessQuery(c.UserContext(), req.Query, req.UserEmail)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": dto.ProcessQueryResponse{
		Query:           outcome.Query,
		Category:        string(outcome.Category),
		Confidence:      outcome.Confidence,
		RoutedToSupport: outcome.RoutedToSupport,
		TicketNumber:    outcome.TicketNumber,
		Message:         outcome.Message,
	}})
}
