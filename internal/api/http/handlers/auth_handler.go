package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-router/internal/api/dto"
	"github.com/spec-kit/support-router/internal/auth"
	"github.com/spec-kit/support-router/internal/config"
	apperrors "github.com/spec-kit/support-router/pkg/util"
)

// AuthHandler issues dashboard tokens.
type AuthHandler struct {
	cfg    config.AuthConfig
	tokens *auth.TokenManager
}

// NewAuthHandler constructs handler.
func NewAuthHandler(cfg config.AuthConfig, tokens *auth.TokenManager) *AuthHandler {
	return &AuthHandler{cfg: cfg, tokens: tokens}
}

// Login POST /auth/staff/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.User == "" || req.Password == "" {
		return apperrors.NewValidationError("user and password required", nil)
	}

	if err := auth.VerifyDashboard(h.cfg, req.User, req.Password); err != nil {
		return apperrors.NewUnauthorized("invalid credentials")
	}

	token, expiresAt, err := h.tokens.GenerateToken(req.User)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	return c.JSON(fiber.Map{"data": dto.LoginResponse{Token: token, ExpiresAt: expiresAt}})
}
