package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/bvivek2148/cargo-shipment-tracker-sub000/internal/auth"
	"github.com/bvivek2148/cargo-shipment-tracker-sub000/internal/handler"
	"github.com/bvivek2148/cargo-shipment-tracker-sub000/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication.
// Currently it exposes only a health check for load balancers and
// monitoring.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication surface. Unauthenticated
// operations live under /v1/auth; protected endpoints live under /v1
// behind the Authenticate middleware. The optional rate limiter is
// applied to login only; the per-account lockout inside the manager
// stands on its own if the limiter is bypassed or misconfigured.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, m *auth.Manager, loginLimiter echo.MiddlewareFunc) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	if loginLimiter != nil {
		g.POST("/login", a.Login, loginLimiter)
	} else {
		g.POST("/login", a.Login)
	}
	g.POST("/refresh", a.Refresh)

	authed := e.Group("/v1")
	authed.Use(middleware.Authenticate(m))
	authed.GET("/me", a.Me)

	// Probe endpoints demonstrating the two authorization semantics.
	// /admin-only is an exact allow-list: a manager is rejected even
	// though it outranks user. /reports needs manager rank or better,
	// so an admin passes.
	authed.GET("/admin-only", a.Me, middleware.RequireRole(auth.RoleAdmin))
	authed.GET("/reports", a.Me, middleware.RequireMinimumRole(auth.RoleManager))
}
