package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

type stubRoleResolver struct {
	roles map[string]string
	err   error
}

func (s stubRoleResolver) ResolveRole(_ context.Context, userID string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.roles[userID], nil
}

func decodeJSON(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
}

func newResolverApp(resolver RoleResolver, userID string) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if userID != "" {
			c.Locals("user_id", userID)
		}
		return c.Next()
	})
	app.Use(ResolveRole(resolver))
	app.Get("/resource", func(c *fiber.Ctx) error {
		role, _ := c.Locals("user_role").(string)
		return c.JSON(fiber.Map{"role": role})
	})
	return app
}

func TestResolveRoleBindsRole(t *testing.T) {
	resolver := stubRoleResolver{roles: map[string]string{"admin-1": "Administrator"}}
	app := newResolverApp(resolver, "admin-1")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/resource", nil))
	require.NoError(t, err)

	var body struct {
		Role string `json:"role"`
	}
	decodeJSON(t, resp, &body)
	require.Equal(t, "administrator", body.Role, "roles are normalized to lower case")
}

func TestResolveRoleLeavesRoleEmptyOnFailure(t *testing.T) {
	app := newResolverApp(stubRoleResolver{err: errors.New("store down")}, "vol-1")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/resource", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, "a failed lookup does not fail the request")

	var body struct {
		Role string `json:"role"`
	}
	decodeJSON(t, resp, &body)
	require.Empty(t, body.Role)
}

func TestResolveRoleSkipsAnonymousRequests(t *testing.T) {
	app := newResolverApp(stubRoleResolver{roles: map[string]string{}}, "")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/resource", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}
