package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bvivek2148/cargo-shipment-tracker-sub000/internal/model"
)

// EventPublisher receives security-relevant outcomes (lockout
// triggered, login succeeded/failed). Publishing is best-effort: a
// broker outage must never fail a login.
type EventPublisher interface {
	PublishAuthEvent(ctx context.Context, event string, userID, email string)
}

// Manager orchestrates the credential store, password hasher, lockout
// policy and token service into the Login, Authenticate and Refresh
// use cases. It is the only stateful orchestrator in the core, and
// its only side effects are credential-store writes on the login
// path; Authenticate and Refresh are read-only beyond the identity
// lookup.
type Manager struct {
	store  CredentialStore
	hasher *PasswordHasher
	policy LockoutPolicy
	tokens *TokenService
	events EventPublisher
	log    *slog.Logger
	now    func() time.Time
}

// NewManager wires the core together. The event publisher is optional.
func NewManager(store CredentialStore, hasher *PasswordHasher, policy LockoutPolicy, tokens *TokenService) *Manager {
	return &Manager{
		store:  store,
		hasher: hasher,
		policy: policy,
		tokens: tokens,
		log:    slog.Default(),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// WithEvents attaches a best-effort security event publisher.
func (m *Manager) WithEvents(p EventPublisher) *Manager {
	m.events = p
	return m
}

// WithClock replaces the manager clock for simulated-time tests.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

// WithLogger replaces the default slog logger.
func (m *Manager) WithLogger(l *slog.Logger) *Manager {
	m.log = l
	return m
}

// NormalizeEmail lower-cases and trims an address the same way the
// store indexes it.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Login verifies credentials and issues an access/refresh pair.
// The check order is fixed and observable through the returned
// errors: lookup, lockout, active flag, password. Lockout
// short-circuits before hash verification, so a correct password
// cannot probe a locked account.
func (m *Manager) Login(ctx context.Context, email, password string) (*model.UserIdentity, Token, Token, error) {
	email = NormalizeEmail(email)
	now := m.now()

	u, err := m.store.FindByEmail(ctx, email, true)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, Token{}, Token{}, ErrInvalidCredentials
		}
		return nil, Token{}, Token{}, fmt.Errorf("lookup user: %w", err)
	}

	if m.policy.State(u.LockUntil, now) == Locked {
		m.log.WarnContext(ctx, "login blocked by active lockout",
			"operation", "login", "outcome", "locked", "email", email, "lock_until", u.LockUntil)
		return nil, Token{}, Token{}, ErrAccountLocked
	}

	if !u.IsActive {
		return nil, Token{}, Token{}, ErrAccountDeactivated
	}

	if !m.hasher.Verify(u.PasswordHash, password) {
		if err := m.recordFailure(ctx, u, now); err != nil {
			return nil, Token{}, Token{}, err
		}
		return nil, Token{}, Token{}, ErrInvalidCredentials
	}

	if err := m.store.RecordSuccess(ctx, u.ID, now); err != nil {
		return nil, Token{}, Token{}, fmt.Errorf("reset lockout fields: %w", err)
	}
	u.LoginAttempts = 0
	u.LockUntil = nil
	u.LastLogin = &now

	access, refresh, err := m.issuePair(u)
	if err != nil {
		return nil, Token{}, Token{}, err
	}
	if m.events != nil {
		m.events.PublishAuthEvent(ctx, "auth.login.succeeded", u.ID, u.Email)
	}
	u.PasswordHash = ""
	return u, access, refresh, nil
}

// recordFailure persists one failed attempt. The store increments the
// counter atomically and returns the post-increment value; the policy
// then decides from that value whether a lock is due, so concurrent
// failures cannot race past the threshold without one of them
// setting the lock.
func (m *Manager) recordFailure(ctx context.Context, u *model.UserIdentity, now time.Time) error {
	attempts, err := m.store.RecordFailure(ctx, u.ID)
	if err != nil {
		return fmt.Errorf("record failed attempt: %w", err)
	}
	if _, until := m.policy.OnFailure(attempts-1, now); until != nil {
		if err := m.store.SetLock(ctx, u.ID, *until); err != nil {
			return fmt.Errorf("set lockout: %w", err)
		}
		m.log.WarnContext(ctx, "account lockout triggered",
			"operation", "login", "outcome", "locked", "email", u.Email, "attempts", attempts, "lock_until", until)
		if m.events != nil {
			m.events.PublishAuthEvent(ctx, "auth.lockout.triggered", u.ID, u.Email)
		}
	} else if m.events != nil {
		m.events.PublishAuthEvent(ctx, "auth.login.failed", u.ID, u.Email)
	}
	return nil
}

// Authenticate verifies a bearer access token and loads the identity
// it names. A dangling subject is indistinguishable from a bad token.
func (m *Manager) Authenticate(ctx context.Context, rawToken string) (*model.UserIdentity, error) {
	claims, err := m.tokens.Verify(rawToken, KindAccess)
	if err != nil {
		return nil, ErrInvalidToken
	}
	u, err := m.store.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("load identity: %w", err)
	}
	if !u.IsActive {
		return nil, ErrAccountDeactivated
	}
	return u, nil
}

// Refresh exchanges a valid refresh token for a fresh access/refresh
// pair. A new refresh token is minted on every call; clients must
// replace the one they sent.
func (m *Manager) Refresh(ctx context.Context, rawToken string) (Token, Token, error) {
	claims, err := m.tokens.Verify(rawToken, KindRefresh)
	if err != nil {
		return Token{}, Token{}, ErrInvalidToken
	}
	u, err := m.store.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return Token{}, Token{}, ErrInvalidToken
		}
		return Token{}, Token{}, fmt.Errorf("load identity: %w", err)
	}
	if !u.IsActive {
		return Token{}, Token{}, ErrAccountDeactivated
	}
	return m.issuePair(u)
}

// AuthorizeExact reports whether the identity's role is literally in
// the allowed set. Hierarchy does not apply here.
func (m *Manager) AuthorizeExact(u *model.UserIdentity, allowed ...Role) bool {
	return Role(u.Role).OneOf(allowed...)
}

// AuthorizeMinimum reports whether the identity's role outranks or
// equals the required role.
func (m *Manager) AuthorizeMinimum(u *model.UserIdentity, required Role) bool {
	return Role(u.Role).AtLeast(required)
}

func (m *Manager) issuePair(u *model.UserIdentity) (Token, Token, error) {
	access, err := m.tokens.IssueAccess(u)
	if err != nil {
		return Token{}, Token{}, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := m.tokens.IssueRefresh(u)
	if err != nil {
		return Token{}, Token{}, fmt.Errorf("issue refresh token: %w", err)
	}
	return access, refresh, nil
}
