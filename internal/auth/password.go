package auth

import "golang.org/x/crypto/bcrypt"

// MinHashCost is the lowest bcrypt cost accepted for stored credentials.
const MinHashCost = 12

// PasswordHasher computes and verifies bcrypt hashes. The salt is
// generated per call and embedded in the output, so verification
// needs only the stored hash.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher returns a hasher with the given cost, floored at
// MinHashCost so a misconfigured environment cannot weaken hashing.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < MinHashCost {
		cost = MinHashCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash returns the bcrypt hash of the plaintext.
func (h *PasswordHasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify compares a stored hash and a plaintext password. The
// comparison is bcrypt's own constant-time routine.
func (h *PasswordHasher) Verify(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
