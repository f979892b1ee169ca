package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jsu-events/drinktally-api/internal/dto"
	"github.com/jsu-events/drinktally-api/internal/service"
	"github.com/jsu-events/drinktally-api/internal/utils"
	"github.com/jsu-events/drinktally-api/pkg/qrcode"
)

const (
	defaultQRSize = 256
	maxQRSize     = 1024
)

// ParticipantHandler exposes participant CRUD, QR badges and drink updates.
type ParticipantHandler struct {
	participants service.ParticipantService
	drinks       service.DrinkService
	qr           *qrcode.Generator
	baseURL      string
	validator    *validator.Validate
	logger       zerolog.Logger
}

// NewParticipantHandler constructs the handler.
func NewParticipantHandler(
	participants service.ParticipantService,
	drinks service.DrinkService,
	qr *qrcode.Generator,
	baseURL string,
	validator *validator.Validate,
	logger zerolog.Logger,
) *ParticipantHandler {
	return &ParticipantHandler{
		participants: participants,
		drinks:       drinks,
		qr:           qr,
		baseURL:      strings.TrimRight(baseURL, "/"),
		validator:    validator,
		logger:       logger.With().Str("component", "participant_handler").Logger(),
	}
}

// RegisterReads binds the routes available to every authenticated user.
func (h *ParticipantHandler) RegisterReads(router fiber.Router, guard fiber.Handler) {
	router.Get("", guard, h.list)
	router.Get("/:id", guard, h.get)
	router.Get("/:id/qr", guard, h.qrBadge)
	router.Post("/:id/drinks", guard, h.updateDrinks)
}

// RegisterAdmin binds the administrator-only mutation routes.
func (h *ParticipantHandler) RegisterAdmin(router fiber.Router, guard fiber.Handler) {
	router.Post("", guard, h.create)
	router.Put("/:id", guard, h.update)
}

func (h *ParticipantHandler) list(c *fiber.Ctx) error {
	isGroupLeader, err := parseQueryBool(c, "is_group_leader")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid is_group_leader filter")
	}
	isHoused, err := parseQueryBool(c, "is_housed")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid is_housed filter")
	}

	req := dto.ParticipantListRequest{
		Search:        strings.TrimSpace(c.Query("search")),
		Faculty:       strings.TrimSpace(c.Query("faculty")),
		IsGroupLeader: isGroupLeader,
		IsHoused:      isHoused,
	}

	result, err := h.participants.List(c.UserContext(), req)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list participants")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list participants")
	}

	return utils.SendSuccess(c, "participants retrieved", result)
}

func (h *ParticipantHandler) get(c *fiber.Ctx) error {
	result, err := h.participants.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, service.ErrParticipantNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "participant not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to load participant")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load participant")
	}

	return utils.SendSuccess(c, "participant retrieved", result)
}

func (h *ParticipantHandler) create(c *fiber.Ctx) error {
	var req dto.ParticipantCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.participants.Create(c.UserContext(), req)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, "name, faculty and room number are required")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to create participant")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to create participant")
	}

	return utils.SendCreated(c, "participant created", result)
}

func (h *ParticipantHandler) update(c *fiber.Ctx) error {
	var req dto.ParticipantUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.participants.Update(c.UserContext(), c.Params("id"), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrParticipantNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "participant not found")
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, "updated fields must not be empty")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to update participant")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to update participant")
	}

	return utils.SendSuccess(c, "participant updated", result)
}

func (h *ParticipantHandler) qrBadge(c *fiber.Ctx) error {
	participant, err := h.participants.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, service.ErrParticipantNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "participant not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to load participant for qr badge")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to render qr badge")
	}

	size, err := parseQueryInt(c, "size")
	if err != nil || size < 0 || size > maxQRSize {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid size")
	}
	if size == 0 {
		size = defaultQRSize
	}

	content := fmt.Sprintf("%s/participant/%s", h.baseURL, participant.ID)
	png, err := h.qr.PNG(content, size)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to render qr badge")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to render qr badge")
	}

	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(png)
}

func (h *ParticipantHandler) updateDrinks(c *fiber.Ctx) error {
	var req dto.DrinkUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.drinks.Update(c.UserContext(), actorFromContext(c), c.Params("id"), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrParticipantNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "participant not found")
		case errors.Is(err, service.ErrNoActiveParty):
			return utils.SendError(c, fiber.StatusConflict, "no active party")
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, "delta must be +1 or -1")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to update drink count")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to update drink count")
	}

	return utils.SendSuccess(c, "drink count updated", result)
}
