package handler_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jsu-events/drinktally-api/internal/dto"
	"github.com/jsu-events/drinktally-api/internal/handler"
	"github.com/jsu-events/drinktally-api/internal/service"
)

type mockAuditService struct {
	listResult dto.LogListResponse
	listErr    error
	lastReq    dto.LogListRequest
}

func (m *mockAuditService) Record(_ context.Context, _ service.AuditEntry) {}

func (m *mockAuditService) List(_ context.Context, req dto.LogListRequest) (dto.LogListResponse, error) {
	m.lastReq = req
	return m.listResult, m.listErr
}

func newLogTestApp(svc service.AuditService) *fiber.App {
	logger := zerolog.New(io.Discard)
	app := fiber.New()

	noGuard := func(c *fiber.Ctx) error { return c.Next() }
	handler.NewLogHandler(svc, logger).Register(app.Group("/api/v1/admin/logs"), noGuard)
	return app
}

func TestLogHandler_ListForwardsQuery(t *testing.T) {
	svc := &mockAuditService{listResult: dto.LogListResponse{
		Items:      []dto.LogEntryResponse{{ID: "log-1", Action: "drink_added", Target: "Anna"}},
		Pagination: dto.PaginationMeta{Page: 2, PageSize: 20, TotalItems: 45, TotalPages: 3},
	}}
	app := newLogTestApp(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/logs?page=2&page_size=20&sort=asc&action=drink_added&search=anna", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.Equal(t, 2, svc.lastReq.Page)
	require.Equal(t, 20, svc.lastReq.PageSize)
	require.Equal(t, "asc", svc.lastReq.Sort)
	require.Equal(t, "drink_added", svc.lastReq.Action)
	require.Equal(t, "anna", svc.lastReq.Search)

	var body struct {
		Data dto.LogListResponse `json:"data"`
	}
	decodeResponse(t, resp, &body)
	require.Len(t, body.Data.Items, 1)
	require.Equal(t, int64(45), body.Data.Pagination.TotalItems)
}

func TestLogHandler_InvalidPage(t *testing.T) {
	app := newLogTestApp(&mockAuditService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/logs?page=oops", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
