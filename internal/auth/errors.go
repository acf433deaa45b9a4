package auth

import "errors"

var (
	// ErrInvalidCredentials covers both unknown email and wrong password.
	// Collapsing the two prevents account-enumeration side channels.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountLocked signals temporary lockout after repeated failures.
	// It is returned before password verification, so a correct password
	// does not bypass an active lock.
	ErrAccountLocked = errors.New("account locked")
	// ErrAccountDeactivated is returned for is_active=false accounts
	// regardless of credential correctness.
	ErrAccountDeactivated = errors.New("account deactivated")
	// ErrInvalidToken covers bad signature, expiry, wrong token kind and
	// malformed claims alike; callers get no further detail.
	ErrInvalidToken = errors.New("invalid token")
	// ErrUserNotFound is returned by credential stores on point lookups.
	// The manager translates it before it reaches any caller.
	ErrUserNotFound = errors.New("user not found")
)
