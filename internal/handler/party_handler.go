package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jsu-events/drinktally-api/internal/dto"
	"github.com/jsu-events/drinktally-api/internal/service"
	"github.com/jsu-events/drinktally-api/internal/utils"
)

// PartyHandler exposes party listing and administration endpoints.
type PartyHandler struct {
	service service.PartyService
	logger  zerolog.Logger
}

// NewPartyHandler constructs the handler.
func NewPartyHandler(service service.PartyService, logger zerolog.Logger) *PartyHandler {
	return &PartyHandler{
		service: service,
		logger:  logger.With().Str("component", "party_handler").Logger(),
	}
}

// RegisterReads binds the routes available to every authenticated user.
func (h *PartyHandler) RegisterReads(router fiber.Router, guard fiber.Handler) {
	router.Get("", guard, h.list)
	router.Get("/active", guard, h.active)
}

// RegisterAdmin binds the administrator-only mutation routes.
func (h *PartyHandler) RegisterAdmin(router fiber.Router, guard fiber.Handler) {
	router.Post("", guard, h.create)
	router.Put("/:id", guard, h.update)
	router.Post("/:id/activate", guard, h.activate)
}

func (h *PartyHandler) list(c *fiber.Ctx) error {
	result, err := h.service.List(c.UserContext())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list parties")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list parties")
	}

	return utils.SendSuccess(c, "parties retrieved", result)
}

func (h *PartyHandler) active(c *fiber.Ctx) error {
	result, err := h.service.Active(c.UserContext())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to load active party")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load active party")
	}

	// No active party is a valid state, not an error.
	return utils.SendSuccess(c, "active party retrieved", result)
}

func (h *PartyHandler) create(c *fiber.Ctx) error {
	var req dto.PartyCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.Create(c.UserContext(), actorFromContext(c), req)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, "name and date are required")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to create party")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to create party")
	}

	return utils.SendCreated(c, "party created", result)
}

func (h *PartyHandler) update(c *fiber.Ctx) error {
	var req dto.PartyUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.Update(c.UserContext(), actorFromContext(c), c.Params("id"), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPartyNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "party not found")
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, "updated fields must not be empty")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to update party")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to update party")
	}

	return utils.SendSuccess(c, "party updated", result)
}

func (h *PartyHandler) activate(c *fiber.Ctx) error {
	result, err := h.service.Activate(c.UserContext(), actorFromContext(c), c.Params("id"))
	if err != nil {
		if errors.Is(err, service.ErrPartyNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "party not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to activate party")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to activate party")
	}

	return utils.SendSuccess(c, "party activated", result)
}
