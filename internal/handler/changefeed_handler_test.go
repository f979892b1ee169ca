package handler_test

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jsu-events/drinktally-api/internal/dto"
	"github.com/jsu-events/drinktally-api/internal/handler"
	"github.com/jsu-events/drinktally-api/internal/service"
)

func newChangefeedTestApp(feed service.ChangefeedService, userID string) *fiber.App {
	app := fiber.New()
	changes := app.Group("/api/v1/changes", func(c *fiber.Ctx) error {
		if userID != "" {
			c.Locals("user_id", userID)
		}
		return c.Next()
	})

	h := handler.NewChangefeedHandler(feed, zerolog.New(io.Discard))
	h.Register(changes, func(c *fiber.Ctx) error { return c.Next() })
	return app
}

func TestChangefeedEndpointRequiresUpgrade(t *testing.T) {
	feed := service.NewChangefeedService(nil, "", nil, zerolog.New(io.Discard))
	app := newChangefeedTestApp(feed, "u-1")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/changes/ws", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUpgradeRequired, resp.StatusCode)
}

func TestChangefeedEndpointStreamsPublishedEvents(t *testing.T) {
	feed := service.NewChangefeedService(nil, "", nil, zerolog.New(io.Discard))
	app := newChangefeedTestApp(feed, "u-1")

	baseURL, shutdown := startChangefeedServer(t, app)
	defer shutdown()

	dialer := websocket.Dialer{HandshakeTimeout: 3 * time.Second}
	conn, resp, err := dialer.Dial("ws"+strings.TrimPrefix(baseURL, "http")+"/api/v1/changes/ws?collections=parties", nil)
	require.NoError(t, err)
	if resp != nil {
		_ = resp.Body.Close()
	}
	defer conn.Close()

	time.Sleep(100 * time.Millisecond)
	feed.Publish(context.Background(), "parties", dto.ChangeEventInsert, "party-3")

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var event dto.ChangeEvent
	require.NoError(t, conn.ReadJSON(&event))
	require.Equal(t, "parties", event.Collection)
	require.Equal(t, dto.ChangeEventInsert, event.Event)
	require.Equal(t, "party-3", event.RowID)
}

func TestChangefeedEndpointClosesWithoutPrincipal(t *testing.T) {
	feed := service.NewChangefeedService(nil, "", nil, zerolog.New(io.Discard))
	app := newChangefeedTestApp(feed, "")

	baseURL, shutdown := startChangefeedServer(t, app)
	defer shutdown()

	dialer := websocket.Dialer{HandshakeTimeout: 3 * time.Second}
	conn, resp, err := dialer.Dial("ws"+strings.TrimPrefix(baseURL, "http")+"/api/v1/changes/ws", nil)
	require.NoError(t, err)
	if resp != nil {
		_ = resp.Body.Close()
	}
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = conn.ReadMessage()
	var closeErr *websocket.CloseError
	require.ErrorAs(t, err, &closeErr)
	require.Equal(t, websocket.ClosePolicyViolation, closeErr.Code)
}

func startChangefeedServer(t *testing.T, app *fiber.App) (string, func()) {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		if err := app.Listener(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			t.Logf("fiber listener stopped: %v", err)
		}
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)

	shutdown := func() {
		_ = app.Shutdown()
		_ = listener.Close()
		select {
		case <-done:
		case <-time.After(100 * time.Millisecond):
		}
	}

	return "http://" + listener.Addr().String(), shutdown
}
