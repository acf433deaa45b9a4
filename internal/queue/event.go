package queue

// AuthEvent is published for security-relevant authentication
// outcomes: successful logins, failed attempts and lockout triggers.
// It carries enough for a downstream audit consumer to log without
// querying the credential store. No credential material is ever
// included.
type AuthEvent struct {
	Event      string `json:"event"` // auth.login.succeeded | auth.login.failed | auth.lockout.triggered
	UserID     string `json:"user_id"`
	Email      string `json:"email"`
	OccurredAt string `json:"occurred_at"`
}
