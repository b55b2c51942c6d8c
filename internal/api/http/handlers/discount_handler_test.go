package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/storefront-service/internal/auth"
	"github.com/spec-kit/storefront-service/internal/domain"
)

type stubDiscountService struct {
	points        int
	applied       int
	updatedPoints int
	err           error

	gotUserID  string
	gotPercent int
}

func (s *stubDiscountService) ListTiers() []domain.DiscountTier {
	return domain.DiscountTiers()
}

func (s *stubDiscountService) CurrentPoints(_ context.Context, userID string) (int, error) {
	s.gotUserID = userID
	return s.points, s.err
}

func (s *stubDiscountService) Redeem(_ context.Context, userID string, percent int) (int, int, error) {
	s.gotUserID = userID
	s.gotPercent = percent
	if s.err != nil {
		return 0, 0, s.err
	}
	return s.applied, s.updatedPoints, nil
}

func principalMiddleware(user *domain.User) fiber.Handler {
	return func(c *fiber.Ctx) error {
		auth.SetPrincipal(c, user)
		return c.Next()
	}
}

func newDiscountApp(svc *stubDiscountService, user *domain.User) *fiber.App {
	app := fiber.New()
	handler := NewDiscountHandler(svc)
	app.Get("/discount/options", handler.Options)
	if user != nil {
		app.Use(principalMiddleware(user))
	}
	app.Get("/discount/points", handler.Points)
	app.Post("/discount/apply", handler.Apply)
	return app
}

func TestDiscountHandlerOptions(t *testing.T) {
	app := newDiscountApp(&stubDiscountService{}, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/discount/options", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var tiers []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tiers))
	require.Len(t, tiers, 4)
	assert.Equal(t, float64(20), tiers[0]["points"])
	assert.Equal(t, float64(10), tiers[0]["discount"])
}

func TestDiscountHandlerPoints(t *testing.T) {
	svc := &stubDiscountService{points: 42}
	app := newDiscountApp(svc, &domain.User{ID: "u1", Username: "alice"})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/discount/points", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, float64(42), body["points"])
	assert.Equal(t, "u1", svc.gotUserID)
}

func TestDiscountHandlerPointsUnauthenticated(t *testing.T) {
	app := newDiscountApp(&stubDiscountService{}, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/discount/points", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestDiscountHandlerApply(t *testing.T) {
	svc := &stubDiscountService{applied: 15, updatedPoints: 25}
	app := newDiscountApp(svc, &domain.User{ID: "u1", Username: "alice"})

	resp := postJSON(t, app, "/discount/apply", fiber.Map{"discount": 15})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, float64(15), body["discount"])
	assert.Equal(t, float64(25), body["updatedPoints"])
	assert.Equal(t, 15, svc.gotPercent)
}
