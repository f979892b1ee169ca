package middleware

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jsu-events/drinktally-api/internal/utils"
)

// SessionChecker reports whether the persisted session behind a token is
// still live. Sign-out deletes the record, which invalidates otherwise
// unexpired tokens.
type SessionChecker interface {
	IsSessionActive(ctx context.Context, sessionID string) bool
}

// SessionRequired rejects requests whose token no longer maps to a live
// session record. Tokens without a session id fail closed.
func SessionRequired(checker SessionChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID, _ := c.Locals("session_id").(string)
		if sessionID == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "session expired")
		}

		if checker == nil || !checker.IsSessionActive(c.UserContext(), sessionID) {
			return utils.SendError(c, fiber.StatusUnauthorized, "session expired")
		}

		return c.Next()
	}
}
