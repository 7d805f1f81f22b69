package middleware

import (
	"bus_booking/constants"
	"bus_booking/helper"
	"bus_booking/model"
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bearer(t *testing.T, claim model.TokenClaim) string {
	t.Helper()
	helper.ConfigureTokens("middleware-secret", time.Hour)
	token, err := helper.GenerateAccessToken(claim, time.Now())
	require.NoError(t, err)
	return "Bearer " + token.AccessToken
}

func TestProtected(t *testing.T) {
	app := fiber.New()
	app.Get("/me", Protected(), func(c *fiber.Ctx) error {
		return c.JSON(Claims(c))
	})

	t.Run("missing token", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/me", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("valid header", func(t *testing.T) {
		req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
		req.Header.Set("Authorization", bearer(t, model.TokenClaim{UserId: 8, Role: constants.ROLE_USER}))
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		body, _ := io.ReadAll(resp.Body)
		assert.Contains(t, string(body), `"userId":8`)
	})
}

func TestRequireRole(t *testing.T) {
	app := fiber.New()
	app.Get("/admin", Protected(), RequireRole(constants.ROLE_ADMIN), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	req := httptest.NewRequest(fiber.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", bearer(t, model.TokenClaim{UserId: 8, Role: constants.ROLE_USER}))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	req = httptest.NewRequest(fiber.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", bearer(t, model.TokenClaim{UserId: 1, Role: constants.ROLE_ADMIN}))
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

type memIdempotency struct {
	mu      sync.Mutex
	entries map[string]*helper.StoredResponse
	pending map[string]bool
	fail    bool
}

func newMemIdempotency() *memIdempotency {
	return &memIdempotency{entries: map[string]*helper.StoredResponse{}, pending: map[string]bool{}}
}

func (m *memIdempotency) Begin(_ context.Context, key string) (bool, *helper.StoredResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return false, nil, errors.New("redis down")
	}
	if stored, ok := m.entries[key]; ok {
		return false, stored, nil
	}
	if m.pending[key] {
		return false, nil, nil
	}
	m.pending[key] = true
	return true, nil, nil
}

func (m *memIdempotency) Complete(_ context.Context, key string, status int, body []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pending, key)
	m.entries[key] = &helper.StoredResponse{Status: status, Body: append([]byte(nil), body...)}
	return nil
}

func (m *memIdempotency) Abort(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pending, key)
	delete(m.entries, key)
	return nil
}

func idempotentApp(store IdempotencyStore, status int) (*fiber.App, *int) {
	calls := 0
	app := fiber.New()
	app.Post("/lock", Idempotent(store, "lock"), func(c *fiber.Ctx) error {
		calls++
		return c.Status(status).JSON(fiber.Map{"success": status < 300, "call": calls})
	})
	return app, &calls
}

func postWithKey(t *testing.T, app *fiber.App, key string) (int, string, string) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, "/lock", nil)
	if key != "" {
		req.Header.Set("Idempotency-Key", key)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body), resp.Header.Get("Idempotent-Replayed")
}

func TestIdempotentReplaysCompletedRequest(t *testing.T) {
	app, calls := idempotentApp(newMemIdempotency(), fiber.StatusCreated)

	status, first, _ := postWithKey(t, app, "k1")
	require.Equal(t, fiber.StatusCreated, status)

	status, second, replayed := postWithKey(t, app, "k1")
	assert.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, first, second)
	assert.Equal(t, "true", replayed)
	assert.Equal(t, 1, *calls)

	postWithKey(t, app, "k2")
	assert.Equal(t, 2, *calls)
}

func TestIdempotentWithoutKeyAlwaysRuns(t *testing.T) {
	app, calls := idempotentApp(newMemIdempotency(), fiber.StatusCreated)

	postWithKey(t, app, "")
	postWithKey(t, app, "")

	assert.Equal(t, 2, *calls)
}

func TestIdempotentInFlightConflicts(t *testing.T) {
	store := newMemIdempotency()
	store.pending["idem:lock:k1"] = true
	app, calls := idempotentApp(store, fiber.StatusCreated)

	status, _, _ := postWithKey(t, app, "k1")

	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, 0, *calls)
}

func TestIdempotentForgetsServerErrors(t *testing.T) {
	app, calls := idempotentApp(newMemIdempotency(), fiber.StatusInternalServerError)

	postWithKey(t, app, "k1")
	postWithKey(t, app, "k1")

	assert.Equal(t, 2, *calls)
}

func TestIdempotentStoreDownPassesThrough(t *testing.T) {
	store := newMemIdempotency()
	store.fail = true
	app, calls := idempotentApp(store, fiber.StatusCreated)

	status, _, _ := postWithKey(t, app, "k1")

	assert.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, 1, *calls)
}
