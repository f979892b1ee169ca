package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jsu-events/drinktally-api/internal/models"
	"github.com/jsu-events/drinktally-api/internal/utils"
)

// Auth role constants used by WithAuth helper.
const (
	AuthRoleAny   = "any"
	AuthRoleAdmin = models.RoleAdministrator
)

// AuthOptions configures the WithAuth helper.
type AuthOptions struct {
	Role        string
	RequireUser bool
}

// WithAuth wraps a handler with the route guard. A request with no principal,
// or with a principal whose role never resolved, is unauthenticated: a 401
// carrying the requested path so the client can return the user there after
// sign-in. A resolved but mismatched role is a 403; the client falls back to
// its default view.
func WithAuth(handler fiber.Handler, opts AuthOptions) fiber.Handler {
	role := strings.ToLower(strings.TrimSpace(opts.Role))
	if role == "" {
		role = AuthRoleAny
	}

	requireUser := opts.RequireUser
	if !requireUser && role != AuthRoleAny {
		requireUser = true
	}

	return func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		currentRole := normalizeRoleValue(c.Locals("user_role"))

		if requireUser && (userID == "" || currentRole == "") {
			return unauthenticated(c)
		}

		if role == AuthRoleAny {
			if !requireUser || userID != "" {
				return handler(c)
			}
			return unauthenticated(c)
		}

		if currentRole != role {
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		}

		return handler(c)
	}
}

// RequireAuth is the middleware form of WithAuth for use in route chains.
func RequireAuth(opts AuthOptions) fiber.Handler {
	return WithAuth(func(c *fiber.Ctx) error { return c.Next() }, opts)
}

func unauthenticated(c *fiber.Ctx) error {
	c.Set("X-Requested-Path", c.OriginalURL())
	return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
}

func normalizeRoleValue(value interface{}) string {
	switch v := value.(type) {
	case string:
		return strings.ToLower(strings.TrimSpace(v))
	case fmt.Stringer:
		return strings.ToLower(strings.TrimSpace(v.String()))
	default:
		if value == nil {
			return ""
		}
		return strings.ToLower(strings.TrimSpace(fmt.Sprintf("%v", value)))
	}
}
