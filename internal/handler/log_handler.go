package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jsu-events/drinktally-api/internal/dto"
	"github.com/jsu-events/drinktally-api/internal/service"
	"github.com/jsu-events/drinktally-api/internal/utils"
)

// LogHandler exposes the administrator audit log viewer.
type LogHandler struct {
	service service.AuditService
	logger  zerolog.Logger
}

// NewLogHandler constructs the handler.
func NewLogHandler(service service.AuditService, logger zerolog.Logger) *LogHandler {
	return &LogHandler{
		service: service,
		logger:  logger.With().Str("component", "log_handler").Logger(),
	}
}

// Register binds the audit log routes.
func (h *LogHandler) Register(router fiber.Router, guard fiber.Handler) {
	router.Get("", guard, h.list)
}

func (h *LogHandler) list(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil || page < 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	pageSize, err := parseQueryInt(c, "page_size")
	if err != nil || pageSize < 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page size")
	}

	req := dto.LogListRequest{
		Page:     page,
		PageSize: pageSize,
		Sort:     strings.TrimSpace(c.Query("sort")),
		Action:   strings.TrimSpace(c.Query("action")),
		Search:   strings.TrimSpace(c.Query("search")),
	}

	result, err := h.service.List(c.UserContext(), req)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list audit logs")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list audit logs")
	}

	return utils.SendSuccess(c, "audit logs retrieved", result)
}
