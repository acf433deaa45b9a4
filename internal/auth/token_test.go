package auth_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bvivek2148/cargo-shipment-tracker-sub000/internal/auth"
	"github.com/bvivek2148/cargo-shipment-tracker-sub000/internal/model"
)

func testTokenConfig() auth.TokenConfig {
	return auth.TokenConfig{
		AccessSecret: "access-secret-for-tests",
		AccessTTL:    15 * time.Minute,
		RefreshTTL:   30 * 24 * time.Hour,
	}
}

func testIdentity() *model.UserIdentity {
	return &model.UserIdentity{
		ID:       "user-1",
		Email:    "a@x.com",
		Name:     "Ada",
		Role:     "user",
		IsActive: true,
	}
}

func TestIssueAndVerifyAccess(t *testing.T) {
	svc := auth.NewTokenService(testTokenConfig())
	tok, err := svc.IssueAccess(testIdentity())
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(tok.Raw, ".")+1, "expected three-part token")

	claims, err := svc.Verify(tok.Raw, auth.KindAccess)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, "Ada", claims.Name)
	assert.Equal(t, "user", claims.Role)
	assert.Equal(t, auth.KindAccess, claims.Kind)
}

func TestKindDiscriminatorIsEnforced(t *testing.T) {
	svc := auth.NewTokenService(testTokenConfig())

	access, err := svc.IssueAccess(testIdentity())
	require.NoError(t, err)
	refresh, err := svc.IssueRefresh(testIdentity())
	require.NoError(t, err)

	_, err = svc.Verify(access.Raw, auth.KindRefresh)
	assert.ErrorIs(t, err, auth.ErrInvalidToken, "access token must not verify as refresh")
	_, err = svc.Verify(refresh.Raw, auth.KindAccess)
	assert.ErrorIs(t, err, auth.ErrInvalidToken, "refresh token must not verify as access")
}

func TestRefreshTokenOmitsIdentitySummary(t *testing.T) {
	svc := auth.NewTokenService(testTokenConfig())
	tok, err := svc.IssueRefresh(testIdentity())
	require.NoError(t, err)

	claims, err := svc.Verify(tok.Raw, auth.KindRefresh)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Empty(t, claims.Email)
	assert.Empty(t, claims.Role)
}

func TestExpiredTokenIsRejected(t *testing.T) {
	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := auth.NewTokenService(testTokenConfig()).WithClock(func() time.Time { return current })

	tok, err := svc.IssueAccess(testIdentity())
	require.NoError(t, err)

	current = current.Add(14 * time.Minute)
	_, err = svc.Verify(tok.Raw, auth.KindAccess)
	assert.NoError(t, err, "still inside the TTL")

	current = current.Add(2 * time.Minute)
	_, err = svc.Verify(tok.Raw, auth.KindAccess)
	assert.ErrorIs(t, err, auth.ErrInvalidToken, "past expiry")
}

func TestTamperedTokenIsRejected(t *testing.T) {
	svc := auth.NewTokenService(testTokenConfig())
	tok, err := svc.IssueAccess(testIdentity())
	require.NoError(t, err)

	// Flip a character in the signature segment.
	parts := strings.Split(tok.Raw, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = svc.Verify(tampered, auth.KindAccess)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = svc.Verify("not-a-token", auth.KindAccess)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestDistinctRefreshSecret(t *testing.T) {
	cfg := testTokenConfig()
	cfg.RefreshSecret = "separate-refresh-secret"
	svc := auth.NewTokenService(cfg)

	refresh, err := svc.IssueRefresh(testIdentity())
	require.NoError(t, err)
	_, err = svc.Verify(refresh.Raw, auth.KindRefresh)
	assert.NoError(t, err)

	// A service configured without the refresh secret falls back to
	// the access secret and must reject tokens signed with the
	// distinct one.
	fallback := auth.NewTokenService(testTokenConfig())
	_, err = fallback.Verify(refresh.Raw, auth.KindRefresh)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
