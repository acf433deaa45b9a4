package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bvivek2148/cargo-shipment-tracker-sub000/internal/auth"
)

// RequireRole enforces the exact-set semantics: the authenticated
// identity's role must be literally one of the allowed roles. The
// hierarchy does not apply: an admin is rejected by
// RequireRole(RoleManager). Use RequireMinimumRole for rank-based
// gating. Assumes Authenticate ran earlier in the chain.
func RequireRole(roles ...auth.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u := CurrentIdentity(c)
			if u == nil || !auth.Role(u.Role).OneOf(roles...) {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}

// RequireMinimumRole enforces the hierarchical semantics: the
// identity's role must outrank or equal the required role
// (user < manager < admin).
func RequireMinimumRole(required auth.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u := CurrentIdentity(c)
			if u == nil || !auth.Role(u.Role).AtLeast(required) {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "insufficient role"})
			}
			return next(c)
		}
	}
}
