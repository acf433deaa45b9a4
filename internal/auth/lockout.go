package auth

import "time"

// Default lockout parameters: five consecutive failures lock the
// account for thirty minutes.
const (
	DefaultLockoutThreshold = 5
	DefaultLockoutDuration  = 30 * time.Minute
)

// LockoutState is the derived account state; it is never persisted,
// only computed from the stored attempt counter and lock timestamp.
type LockoutState int

const (
	// Open means login attempts are allowed.
	Open LockoutState = iota
	// Locked means attempts are denied until the lock expires.
	Locked
)

// LockoutPolicy is a pure decision function over the stored lockout
// fields. It holds no account state of its own; the threshold and
// duration are fields so tests can shrink them.
type LockoutPolicy struct {
	Threshold int
	Duration  time.Duration
}

// NewLockoutPolicy returns the production policy.
func NewLockoutPolicy() LockoutPolicy {
	return LockoutPolicy{Threshold: DefaultLockoutThreshold, Duration: DefaultLockoutDuration}
}

// State evaluates the stored fields at the given instant. A lock that
// has passed its expiry counts as Open without any field mutation;
// the record is cleaned up on the next successful login, not here.
func (p LockoutPolicy) State(lockUntil *time.Time, now time.Time) LockoutState {
	if lockUntil != nil && lockUntil.After(now) {
		return Locked
	}
	return Open
}

// OnFailure computes the transition for one more failed attempt. It
// returns the incremented counter and, when the counter reaches the
// threshold, the lock expiry to persist (nil otherwise).
func (p LockoutPolicy) OnFailure(attempts int, now time.Time) (int, *time.Time) {
	attempts++
	if attempts >= p.Threshold {
		until := now.Add(p.Duration)
		return attempts, &until
	}
	return attempts, nil
}
