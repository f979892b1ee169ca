package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// RoleResolver looks up the authoritative role for an authenticated principal.
type RoleResolver interface {
	ResolveRole(ctx context.Context, userID string) (string, error)
}

// ResolveRole resolves the principal's role after authentication and binds it
// to the request. Resolution happens per request rather than at token
// issuance so role changes take effect immediately. A failed lookup leaves
// the role empty; the authorization guard treats that state as
// unauthenticated.
func ResolveRole(resolver RoleResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		if userID == "" || resolver == nil {
			return c.Next()
		}

		role, err := resolver.ResolveRole(c.UserContext(), userID)
		if err == nil {
			if role = strings.ToLower(strings.TrimSpace(role)); role != "" {
				c.Locals("user_role", role)
			}
		}

		return c.Next()
	}
}
