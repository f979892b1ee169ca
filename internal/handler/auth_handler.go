package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jsu-events/drinktally-api/internal/dto"
	"github.com/jsu-events/drinktally-api/internal/service"
	"github.com/jsu-events/drinktally-api/internal/utils"
)

// AuthHandler exposes registration, sign-in and session endpoints.
type AuthHandler struct {
	service   service.AuthService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(service service.AuthService, validator *validator.Validate, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service:   service,
		validator: validator,
		logger:    logger.With().Str("component", "auth_handler").Logger(),
	}
}

// RegisterPublic binds the unauthenticated auth routes. The limiter throttles
// credential guessing per client.
func (h *AuthHandler) RegisterPublic(router fiber.Router, limit fiber.Handler) {
	router.Post("/signup", limit, h.signUp)
	router.Post("/signin", limit, h.signIn)
}

// RegisterProtected binds the auth routes that require a live session.
func (h *AuthHandler) RegisterProtected(router fiber.Router) {
	router.Post("/signout", h.signOut)
	router.Get("/session", h.session)
}

func (h *AuthHandler) signUp(c *fiber.Ctx) error {
	var req dto.SignUpRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "email, username and password are required")
	}

	result, err := h.service.SignUp(c.UserContext(), req)
	if err != nil {
		if errors.Is(err, service.ErrUserExists) {
			return utils.SendError(c, fiber.StatusConflict, "account already exists")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to register account")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to register account")
	}

	return utils.SendCreated(c, "account registered", result)
}

func (h *AuthHandler) signIn(c *fiber.Ctx) error {
	var req dto.SignInRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "username and password are required")
	}

	result, err := h.service.SignIn(c.UserContext(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid username or password")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to sign in")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to sign in")
	}

	return utils.SendSuccess(c, "signed in", result)
}

func (h *AuthHandler) signOut(c *fiber.Ctx) error {
	sessionID := sessionIDFromContext(c)
	if sessionID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "session expired")
	}

	if err := h.service.SignOut(c.UserContext(), sessionID); err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to sign out")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to sign out")
	}

	return utils.SendSuccess(c, "signed out", nil)
}

func (h *AuthHandler) session(c *fiber.Ctx) error {
	sessionID := sessionIDFromContext(c)
	if sessionID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "session expired")
	}

	result, err := h.service.CurrentSession(c.UserContext(), sessionID)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return utils.SendError(c, fiber.StatusUnauthorized, "session expired")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to load session")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load session")
	}

	return utils.SendSuccess(c, "session retrieved", result)
}
