package middleware

import (
	"bus_booking/constants"
	"bus_booking/helper"
	"bus_booking/model"
	"bus_booking/utils"
	"context"
	"errors"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Protected requires a valid access token from the access_token cookie or
// the Authorization header and stores its claims in c.Locals("claims").
func Protected() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies("access_token")

		if token == "" {
			auth := c.Get("Authorization")
			if strings.HasPrefix(auth, "Bearer ") {
				token = strings.TrimPrefix(auth, "Bearer ")
			}
		}

		if token == "" {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Missing token", errors.New("no token"))
		}

		jwtToken, err := helper.ParseToken(token)
		if err != nil || !jwtToken.Valid {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid token", err)
		}
		claim, err := helper.ClaimFromToken(jwtToken)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid token", err)
		}

		c.Locals("claims", claim)
		return c.Next()
	}
}

// RequireRole must run after Protected.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claim, ok := c.Locals("claims").(model.TokenClaim)
		if !ok {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.ERROR_UNAUTHORIZED, errors.New("no claims"))
		}
		if !slices.Contains(roles, claim.Role) {
			return utils.ErrorResponse(c, fiber.StatusForbidden, constants.ERROR_FORBIDDEN, errors.New("role not allowed"))
		}
		return c.Next()
	}
}

// IdempotencyStore is what Idempotent needs from the key store.
type IdempotencyStore interface {
	Begin(ctx context.Context, key string) (bool, *helper.StoredResponse, error)
	Complete(ctx context.Context, key string, status int, body []byte) error
	Abort(ctx context.Context, key string) error
}

// Idempotent replays the stored response of a request carrying an
// Idempotency-Key that already completed. Requests without the header pass
// through. Keys are scoped per caller and route.
func Idempotent(store IdempotencyStore, scope string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Get("Idempotency-Key")
		if key == "" || store == nil {
			return c.Next()
		}
		if claim, ok := c.Locals("claims").(model.TokenClaim); ok {
			key = claim.Role + ":" + claimSubject(claim) + ":" + key
		}
		key = "idem:" + scope + ":" + key

		ctx := c.UserContext()
		started, stored, err := store.Begin(ctx, key)
		if err != nil {
			slog.Warn("idempotency store unavailable", "error", err)
			return c.Next()
		}
		if !started {
			if stored == nil {
				return utils.ErrorResponse(c, fiber.StatusConflict, constants.ERROR_DUPLICATE_REQUEST, errors.New("request with this key is in progress"))
			}
			c.Set("Idempotent-Replayed", "true")
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			return c.Status(stored.Status).Send(stored.Body)
		}

		if err := c.Next(); err != nil {
			_ = store.Abort(ctx, key)
			return err
		}

		// Server errors are not remembered so the client may retry.
		status := c.Response().StatusCode()
		if status >= fiber.StatusInternalServerError {
			_ = store.Abort(ctx, key)
			return nil
		}
		if err := store.Complete(ctx, key, status, c.Response().Body()); err != nil {
			slog.Warn("store idempotent response", "error", err)
			_ = store.Abort(ctx, key)
		}
		return nil
	}
}

func claimSubject(claim model.TokenClaim) string {
	return strconv.FormatUint(uint64(claim.SubjectId()), 10)
}

// Claims returns the token claims stored by Protected.
func Claims(c *fiber.Ctx) model.TokenClaim {
	claim, _ := c.Locals("claims").(model.TokenClaim)
	return claim
}
