package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bvivek2148/cargo-shipment-tracker-sub000/internal/auth"
	"github.com/bvivek2148/cargo-shipment-tracker-sub000/internal/handler"
	"github.com/bvivek2148/cargo-shipment-tracker-sub000/internal/repository"
	"github.com/bvivek2148/cargo-shipment-tracker-sub000/internal/router"
)

// newTestServer wires the full HTTP surface over the in-memory store.
// The lockout threshold is lowered to keep bcrypt work per test small.
func newTestServer(t *testing.T) (*echo.Echo, *auth.Manager) {
	t.Helper()
	store := repository.NewMemoryStore()
	hasher := auth.NewPasswordHasher(12)
	policy := auth.LockoutPolicy{Threshold: 2, Duration: 30 * time.Minute}
	tokens := auth.NewTokenService(auth.TokenConfig{
		AccessSecret: "test-secret",
		AccessTTL:    15 * time.Minute,
		RefreshTTL:   30 * 24 * time.Hour,
	})
	manager := auth.NewManager(store, hasher, policy, tokens)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(manager, hasher, store), manager, nil)
	return e, manager
}

func doJSON(e *echo.Echo, method, path, body, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

type tokenPair struct {
	Access struct {
		Token string `json:"token"`
	} `json:"access"`
	Refresh struct {
		Token string `json:"token"`
	} `json:"refresh"`
	User struct {
		ID   string `json:"id"`
		Role string `json:"role"`
	} `json:"user"`
}

func register(t *testing.T, e *echo.Echo, email, password, role string) tokenPair {
	t.Helper()
	rec := doJSON(e, http.MethodPost, "/v1/auth/register",
		`{"email":"`+email+`","name":"Test","password":"`+password+`","role":"`+role+`"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var pair tokenPair
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pair))
	return pair
}

func TestHealth(t *testing.T) {
	e, _ := newTestServer(t)
	rec := doJSON(e, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRegisterAndLogin(t *testing.T) {
	e, _ := newTestServer(t)
	pair := register(t, e, "a@x.com", "s3cret-pass", "user")
	assert.NotEmpty(t, pair.Access.Token)
	assert.NotEmpty(t, pair.Refresh.Token)
	assert.Equal(t, "user", pair.User.Role)

	rec := doJSON(e, http.MethodPost, "/v1/auth/login", `{"email":"a@x.com","password":"s3cret-pass"}`, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodPost, "/v1/auth/login", `{"email":"a@x.com","password":"nope"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(e, http.MethodPost, "/v1/auth/register",
		`{"email":"a@x.com","name":"Dup","password":"whatever1"}`, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	e, _ := newTestServer(t)
	pair := register(t, e, "r@x.com", "s3cret-pass", "superadmin")
	assert.Equal(t, "user", pair.User.Role, "unknown roles default to user")
}

func TestLoginLockoutOverHTTP(t *testing.T) {
	e, _ := newTestServer(t)
	register(t, e, "a@x.com", "s3cret-pass", "user")

	// Threshold is 2 in the test wiring: two bad attempts lock.
	for i := 0; i < 2; i++ {
		rec := doJSON(e, http.MethodPost, "/v1/auth/login", `{"email":"a@x.com","password":"nope"}`, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}
	rec := doJSON(e, http.MethodPost, "/v1/auth/login", `{"email":"a@x.com","password":"s3cret-pass"}`, "")
	assert.Equal(t, http.StatusLocked, rec.Code, "correct password cannot bypass the lock")
}

func TestRefreshEndpoint(t *testing.T) {
	e, _ := newTestServer(t)
	pair := register(t, e, "a@x.com", "s3cret-pass", "user")

	rec := doJSON(e, http.MethodPost, "/v1/auth/refresh", `{"refresh_token":"`+pair.Refresh.Token+`"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodPost, "/v1/auth/refresh", `{"refresh_token":"`+pair.Access.Token+`"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "access token is not a refresh token")

	rec = doJSON(e, http.MethodPost, "/v1/auth/refresh", `{"refresh_token":""}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProtectedRoutes(t *testing.T) {
	e, _ := newTestServer(t)
	pair := register(t, e, "a@x.com", "s3cret-pass", "manager")

	rec := doJSON(e, http.MethodGet, "/v1/me", "", pair.Access.Token)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodGet, "/v1/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(e, http.MethodGet, "/v1/me", "", pair.Refresh.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "refresh token cannot authenticate a request")
}

func TestAuthorizationSemanticsOverHTTP(t *testing.T) {
	e, _ := newTestServer(t)
	adminPair := register(t, e, "admin@x.com", "s3cret-pass", "admin")
	managerPair := register(t, e, "mgr@x.com", "s3cret-pass", "manager")

	// Exact allow-list {admin}: manager rejected, admin accepted.
	rec := doJSON(e, http.MethodGet, "/v1/admin-only", "", managerPair.Access.Token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = doJSON(e, http.MethodGet, "/v1/admin-only", "", adminPair.Access.Token)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Minimum rank manager: both manager and admin pass.
	rec = doJSON(e, http.MethodGet, "/v1/reports", "", managerPair.Access.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(e, http.MethodGet, "/v1/reports", "", adminPair.Access.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
}
