package auth

import "fmt"

// Role is one of a fixed ordered set of account roles. Two distinct
// authorization semantics are built on it and must not be conflated:
// OneOf is a literal allow-list check, AtLeast is a minimum-rank
// check over the hierarchy user < manager < admin.
type Role string

const (
	RoleUser    Role = "user"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

// rank maps each role to its position in the hierarchy. Unknown roles
// rank zero, below every real role.
var rank = map[Role]int{
	RoleUser:    1,
	RoleManager: 2,
	RoleAdmin:   3,
}

// ParseRole validates a stored or requested role string.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if _, ok := rank[r]; !ok {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// AtLeast reports whether the role outranks or equals the required
// role. An admin satisfies AtLeast(manager); this is the hierarchical
// minimum-privilege check.
func (r Role) AtLeast(required Role) bool {
	return rank[r] >= rank[required] && rank[r] > 0
}

// OneOf reports whether the role is literally in the allowed set.
// Hierarchy does not apply: an admin does not pass OneOf(manager).
func (r Role) OneOf(allowed ...Role) bool {
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}
