package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"

	"github.com/jsu-events/drinktally-api/internal/service"
)

// ChangefeedHandler wires the websocket change feed endpoint.
type ChangefeedHandler struct {
	service service.ChangefeedService
	logger  zerolog.Logger
}

// NewChangefeedHandler constructs the handler.
func NewChangefeedHandler(service service.ChangefeedService, logger zerolog.Logger) *ChangefeedHandler {
	return &ChangefeedHandler{
		service: service,
		logger:  logger.With().Str("component", "changefeed_handler").Logger(),
	}
}

// Register binds the websocket upgrade route. Subscribers pick collections
// with a comma-separated `collections` query parameter; omitting it
// subscribes to every collection.
func (h *ChangefeedHandler) Register(router fiber.Router, guard fiber.Handler) {
	router.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("ws_collections", splitAndTrim(c.Query("collections")))
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	router.Get("/ws", guard, websocket.New(h.handleConnection))
}

func (h *ChangefeedHandler) handleConnection(conn *websocket.Conn) {
	userID, _ := conn.Locals("user_id").(string)
	if userID == "" {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "user id missing"))
		_ = conn.Close()
		return
	}

	collections, _ := conn.Locals("ws_collections").([]string)

	h.logger.Debug().Str("user_id", userID).Strs("collections", collections).Msg("changefeed subscriber connected")

	h.service.ServeConnection(conn, service.SubscriptionOptions{
		UserID:      userID,
		Collections: collections,
	})
}
