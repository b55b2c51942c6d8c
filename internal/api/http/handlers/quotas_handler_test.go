package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/storefront-service/internal/domain"
	"github.com/spec-kit/storefront-service/internal/quota"
	"github.com/spec-kit/storefront-service/internal/service"
)

type stubQuotaService struct {
	view      *service.QuotaView
	violation *quota.Violation
	updated   map[string]any
	message   string
	err       error

	gotQuotas *service.QuotaFieldsInput
	gotUsage  *service.UsageFieldsInput
	gotCents  int64
	gotCount  int
}

func (s *stubQuotaService) GetQuotas(_ context.Context, _ string) (*service.QuotaView, error) {
	return s.view, s.err
}

func (s *stubQuotaService) SetQuotas(_ context.Context, _ string, quotas *service.QuotaFieldsInput, usage *service.UsageFieldsInput) (map[string]any, string, error) {
	s.gotQuotas = quotas
	s.gotUsage = usage
	return s.updated, s.message, s.err
}

func (s *stubQuotaService) CheckOrder(_ context.Context, _ string, orderValueCents int64, productCount int) (*service.QuotaView, *quota.Violation, error) {
	s.gotCents = orderValueCents
	s.gotCount = productCount
	return s.view, s.violation, s.err
}

func quotaView() *service.QuotaView {
	lastOrder := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	return &service.QuotaView{
		UserID:   "u1",
		Email:    "alice@example.com",
		Username: "alice",
		Quotas:   domain.DefaultQuotas(),
		Usage:    domain.Usage{OrdersToday: 2, LastOrderDate: &lastOrder},
	}
}

func newQuotasApp(svc *stubQuotaService) *fiber.App {
	app := fiber.New()
	handler := NewQuotasHandler(svc)
	app.Get("/quotas/users/:userId", handler.Get)
	app.Put("/quotas/users/:userId", handler.Set)
	app.Post("/quotas/check-order/:userId", handler.CheckOrder)
	return app
}

func TestQuotasHandlerGet(t *testing.T) {
	app := newQuotasApp(&stubQuotaService{view: quotaView()})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/quotas/users/u1", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "u1", body["userId"])
	assert.Equal(t, "alice", body["username"])

	quotas := body["quotas"].(map[string]any)
	assert.Equal(t, float64(10), quotas["maxOrdersPerDay"])
	assert.Equal(t, float64(10000), quotas["maxTotalOrderValue"])

	usage := body["usage"].(map[string]any)
	assert.Equal(t, float64(2), usage["ordersToday"])
	assert.Equal(t, "2026-08-30", usage["lastOrderDate"])
}

func TestQuotasHandlerSet(t *testing.T) {
	svc := &stubQuotaService{
		updated: map[string]any{"quotas.maxOrdersPerDay": 5},
		message: "User quotas updated successfully",
	}
	app := newQuotasApp(svc)

	payload, _ := json.Marshal(fiber.Map{"quotas": fiber.Map{"maxOrdersPerDay": 5}})
	req := httptest.NewRequest(http.MethodPut, "/quotas/users/u1", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "User quotas updated successfully", body["message"])
	updated := body["updatedData"].(map[string]any)
	assert.Equal(t, float64(5), updated["quotas.maxOrdersPerDay"])

	require.NotNil(t, svc.gotQuotas)
	require.NotNil(t, svc.gotQuotas.MaxOrdersPerDay)
	assert.Equal(t, 5, *svc.gotQuotas.MaxOrdersPerDay)
	assert.Nil(t, svc.gotUsage)
}

func TestQuotasHandlerCheckOrderAdmits(t *testing.T) {
	svc := &stubQuotaService{view: quotaView()}
	app := newQuotasApp(svc)

	resp := postJSON(t, app, "/quotas/check-order/u1", fiber.Map{
		"orderValue":   250.50,
		"productCount": 3,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, true, body["canOrder"])
	assert.Equal(t, int64(25050), svc.gotCents)
	assert.Equal(t, 3, svc.gotCount)
}

func TestQuotasHandlerCheckOrderDailyLimit(t *testing.T) {
	svc := &stubQuotaService{
		view: quotaView(),
		violation: &quota.Violation{
			Kind:   quota.ViolationDailyLimit,
			Reason: "Daily order limit exceeded",
			Limit:  10,
			Used:   10,
		},
	}
	app := newQuotasApp(svc)

	resp := postJSON(t, app, "/quotas/check-order/u1", fiber.Map{
		"orderValue":   10,
		"productCount": 1,
	})
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "Daily order limit exceeded", body["error"])
	assert.Equal(t, float64(10), body["limit"])
	assert.Equal(t, float64(10), body["used"])
}
