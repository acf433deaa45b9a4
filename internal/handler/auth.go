package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bvivek2148/cargo-shipment-tracker-sub000/internal/auth"
	"github.com/bvivek2148/cargo-shipment-tracker-sub000/internal/middleware"
	"github.com/bvivek2148/cargo-shipment-tracker-sub000/internal/model"
	"github.com/bvivek2148/cargo-shipment-tracker-sub000/internal/repository"
)

// AuthHandler adapts HTTP requests onto the session manager. All
// authentication decisions live in the manager; this layer only
// binds, times out and maps typed errors to status codes.
type AuthHandler struct {
	Manager *auth.Manager
	Hasher  *auth.PasswordHasher
	Store   auth.CredentialStore
}

func NewAuthHandler(m *auth.Manager, h *auth.PasswordHasher, s auth.CredentialStore) *AuthHandler {
	return &AuthHandler{Manager: m, Hasher: h, Store: s}
}

// ----- DTOs -----

type registerReq struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role"` // user | manager | admin
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type userPart struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}
type authResp struct {
	User    userPart  `json:"user"`
	Access  tokenPart `json:"access"`
	Refresh tokenPart `json:"refresh"`
}

func toUserPart(u *model.UserIdentity) userPart {
	return userPart{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
}

// Register provisions an account. The plaintext is hashed here; the
// store only ever sees the hash. New accounts default to the lowest
// role unless a valid one is supplied.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = auth.NormalizeEmail(req.Email)
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}
	role, err := auth.ParseRole(strings.ToLower(strings.TrimSpace(req.Role)))
	if err != nil {
		role = auth.RoleUser
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	hash, err := h.Hasher.Hash(req.Password)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash password failed"})
	}
	u := &model.UserIdentity{
		Email:        req.Email,
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: hash,
		Role:         string(role),
		IsActive:     true,
	}
	if err := h.Store.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	user, access, refresh, err := h.Manager.Login(ctx, req.Email, req.Password)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue tokens failed"})
	}
	return c.JSON(http.StatusCreated, authResp{
		User:    toUserPart(user),
		Access:  tokenPart{Token: access.Raw, Expires: access.Exp},
		Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp},
	})
}

// Login verifies credentials and returns a new token pair. Lockout
// answers 423 so clients can distinguish "come back later" from a
// plain 401 without learning anything about the credentials.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	u, access, refresh, err := h.Manager.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		case errors.Is(err, auth.ErrAccountLocked):
			return c.JSON(http.StatusLocked, echo.Map{"error": "account temporarily locked"})
		case errors.Is(err, auth.ErrAccountDeactivated):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "account deactivated"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}

	return c.JSON(http.StatusOK, authResp{
		User:    toUserPart(u),
		Access:  tokenPart{Token: access.Raw, Expires: access.Exp},
		Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp},
	})
}

// Refresh exchanges a refresh token for a new pair. The refresh token
// rotates on every call; the one in the request is dead to the client
// after a success.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	access, refresh, err := h.Manager.Refresh(ctx, strings.TrimSpace(req.RefreshToken))
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidToken):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
		case errors.Is(err, auth.ErrAccountDeactivated):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "account deactivated"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "refresh failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"access":  tokenPart{Token: access.Raw, Expires: access.Exp},
		"refresh": tokenPart{Token: refresh.Raw, Expires: refresh.Exp},
	})
}

// Me returns the authenticated identity (protected route).
func (h *AuthHandler) Me(c echo.Context) error {
	u := middleware.CurrentIdentity(c)
	if u == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"user":       toUserPart(u),
		"last_login": u.LastLogin,
	})
}
