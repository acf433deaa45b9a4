package model

import "time"

// UserIdentity represents a durable user record as stored by the
// credential store (the `users` table in MySQL, or the `users`
// collection in MongoDB). Each adapter maps its own storage shape
// onto this struct. Handlers define their own response types, so no
// serialization tags appear here; the password hash in particular
// must never leak through an accidental marshal.
//
// Fields:
//  ID            – opaque unique identifier (UUID or ObjectID hex).
//  Email         – unique, lower-cased and trimmed address.
//  Name          – display name carried into access-token claims.
//  PasswordHash  – bcrypt hash; only populated when explicitly requested.
//  Role          – one of "user", "manager", "admin".
//  IsActive      – deactivated accounts fail authentication outright.
//  LoginAttempts – consecutive failures since the last success.
//  LockUntil     – account is locked while this is set and in the future.
//  LastLogin     – updated only on successful authentication.
type UserIdentity struct {
	ID            string
	Email         string
	Name          string
	PasswordHash  string
	Role          string
	IsActive      bool
	LoginAttempts int
	LockUntil     *time.Time
	LastLogin     *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Locked reports whether the record carries an unexpired lock at the
// given instant. A past-due LockUntil is treated as expired without
// being cleared; the field is only reset on the next successful login.
func (u *UserIdentity) Locked(now time.Time) bool {
	return u.LockUntil != nil && u.LockUntil.After(now)
}
