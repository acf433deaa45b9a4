package middleware // middleware provides reusable HTTP middleware for the auth API

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/bvivek2148/cargo-shipment-tracker-sub000/internal/auth"
	"github.com/bvivek2148/cargo-shipment-tracker-sub000/internal/model"
)

// identityKey is the echo.Context key under which the authenticated
// identity is stored for downstream handlers and middleware.
const identityKey = "identity"

// Authenticate returns middleware that extracts a Bearer access token
// from the Authorization header (or the access_token cookie), verifies
// it through the session manager and stores the loaded identity in the
// request context. The
// manager collapses all token failures into a single error, so the
// response never reveals whether the signature, expiry or subject was
// at fault.
func Authenticate(m *auth.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := bearerToken(c)
			if raw == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}

			u, err := m.Authenticate(c.Request().Context(), raw)
			if err != nil {
				if errors.Is(err, auth.ErrAccountDeactivated) {
					return c.JSON(http.StatusForbidden, echo.Map{"error": "account deactivated"})
				}
				if errors.Is(err, auth.ErrInvalidToken) {
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
				}
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "authentication failed"})
			}

			c.Set(identityKey, u)
			c.Set("user_id", u.ID)
			c.Set("role", u.Role)
			return next(c)
		}
	}
}

// bearerToken pulls the raw token from the Authorization header, falling back
// to the access_token cookie for browser clients that cannot set headers.
func bearerToken(c echo.Context) string {
	if header := c.Request().Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if cookie, err := c.Cookie("access_token"); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return ""
}

// CurrentIdentity returns the identity stored by Authenticate, or nil
// when the route is not behind it.
func CurrentIdentity(c echo.Context) *model.UserIdentity {
	u, _ := c.Get(identityKey).(*model.UserIdentity)
	return u
}
