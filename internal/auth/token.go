package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bvivek2148/cargo-shipment-tracker-sub000/internal/model"
)

// TokenKind discriminates access from refresh tokens. Every
// verification checks it, so a refresh token can never be used where
// an access token is required and vice versa.
type TokenKind string

const (
	KindAccess  TokenKind = "access"
	KindRefresh TokenKind = "refresh"
)

// TokenConfig carries everything the token service needs. It is
// constructed once at startup and passed in; the service never reads
// ambient environment state.
type TokenConfig struct {
	AccessSecret  string
	RefreshSecret string // optional; falls back to AccessSecret
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// Claims is the payload embedded in issued tokens. Access tokens
// carry the full identity summary; refresh tokens carry only the
// subject and the kind.
type Claims struct {
	Email string    `json:"email,omitempty"`
	Name  string    `json:"name,omitempty"`
	Role  string    `json:"role,omitempty"`
	Kind  TokenKind `json:"kind"`
	jwt.RegisteredClaims
}

// Token pairs a serialized JWT with its expiry so handlers can echo
// the expiry back to clients without re-parsing.
type Token struct {
	Raw string
	Exp time.Time
}

// TokenService issues and verifies signed, time-bounded HS256 tokens.
// Tokens are self-contained: verification is stateless, at the cost
// of not being able to revoke a single token before expiry.
type TokenService struct {
	cfg TokenConfig
	now func() time.Time
}

// NewTokenService builds a service from explicit configuration.
func NewTokenService(cfg TokenConfig) *TokenService {
	if cfg.RefreshSecret == "" {
		cfg.RefreshSecret = cfg.AccessSecret
	}
	return &TokenService{cfg: cfg, now: func() time.Time { return time.Now().UTC() }}
}

// WithClock replaces the service clock. Tests use this to simulate
// expiry without sleeping.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	s.now = now
	return s
}

// AccessTTL exposes the configured access-token lifetime.
func (s *TokenService) AccessTTL() time.Duration { return s.cfg.AccessTTL }

// IssueAccess signs a short-lived access token for the identity.
func (s *TokenService) IssueAccess(u *model.UserIdentity) (Token, error) {
	return s.issue(u, KindAccess, s.cfg.AccessTTL, s.cfg.AccessSecret)
}

// IssueRefresh signs a long-lived refresh token. Only the subject and
// the kind are embedded; the identity is reloaded on refresh.
func (s *TokenService) IssueRefresh(u *model.UserIdentity) (Token, error) {
	return s.issue(u, KindRefresh, s.cfg.RefreshTTL, s.cfg.RefreshSecret)
}

func (s *TokenService) issue(u *model.UserIdentity, kind TokenKind, ttl time.Duration, secret string) (Token, error) {
	now := s.now()
	exp := now.Add(ttl)
	claims := Claims{
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	if kind == KindAccess {
		claims.Email = u.Email
		claims.Name = u.Name
		claims.Role = u.Role
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return Token{}, err
	}
	return Token{Raw: signed, Exp: exp}, nil
}

// Verify parses a raw token and checks signature, expiry and kind.
// Every failure mode yields ErrInvalidToken without further detail.
func (s *TokenService) Verify(raw string, kind TokenKind) (*Claims, error) {
	secret := s.cfg.AccessSecret
	if kind == KindRefresh {
		secret = s.cfg.RefreshSecret
	}
	parsed, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || claims.Kind != kind || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
