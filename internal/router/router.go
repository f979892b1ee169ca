package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jsu-events/drinktally-api/internal/config"
	"github.com/jsu-events/drinktally-api/internal/handler"
	"github.com/jsu-events/drinktally-api/internal/middleware"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler        *handler.AuthHandler
	ParticipantHandler *handler.ParticipantHandler
	PartyHandler       *handler.PartyHandler
	LogHandler         *handler.LogHandler
	ChangefeedHandler  *handler.ChangefeedHandler
	JWTMiddleware      fiber.Handler
	SessionMiddleware  fiber.Handler
	RoleMiddleware     fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	noop := func(c *fiber.Ctx) error { return c.Next() }
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = noop
	}
	sessionMiddleware := deps.SessionMiddleware
	if sessionMiddleware == nil {
		sessionMiddleware = noop
	}
	roleMiddleware := deps.RoleMiddleware
	if roleMiddleware == nil {
		roleMiddleware = noop
	}

	// Reads and drink updates need any authenticated principal with a
	// resolved role; mutations on the roster and parties need an
	// administrator. Guards run per route because read and admin routes
	// share path prefixes.
	viewerGuard := middleware.RequireAuth(middleware.AuthOptions{Role: middleware.AuthRoleAny, RequireUser: true})
	adminGuard := middleware.RequireAuth(middleware.AuthOptions{Role: middleware.AuthRoleAdmin})

	if deps.AuthHandler != nil {
		auth := api.Group("/auth")
		deps.AuthHandler.RegisterPublic(auth, middleware.RateLimit("auth", 20, time.Minute))

		authProtected := api.Group("/auth", jwtMiddleware, sessionMiddleware, roleMiddleware)
		deps.AuthHandler.RegisterProtected(authProtected)
	}

	// Every route past this point requires a token backed by a live session.
	if deps.ParticipantHandler != nil {
		participants := api.Group("/participants", jwtMiddleware, sessionMiddleware, roleMiddleware)
		deps.ParticipantHandler.RegisterReads(participants, viewerGuard)
		deps.ParticipantHandler.RegisterAdmin(participants, adminGuard)
	}

	if deps.PartyHandler != nil {
		parties := api.Group("/parties", jwtMiddleware, sessionMiddleware, roleMiddleware)
		deps.PartyHandler.RegisterReads(parties, viewerGuard)
		deps.PartyHandler.RegisterAdmin(parties, adminGuard)
	}

	if deps.LogHandler != nil {
		logs := api.Group("/admin/logs", jwtMiddleware, sessionMiddleware, roleMiddleware)
		deps.LogHandler.Register(logs, adminGuard)
	}

	if deps.ChangefeedHandler != nil {
		changes := api.Group("/changes", jwtMiddleware, sessionMiddleware, roleMiddleware)
		deps.ChangefeedHandler.Register(changes, viewerGuard)
	}
}
