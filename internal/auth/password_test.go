package auth_test

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bvivek2148/cargo-shipment-tracker-sub000/internal/auth"
)

const testPassword = "correct horse battery staple"

var (
	hashOnce sync.Once
	// testHash is computed once per test run; bcrypt at cost 12 is
	// deliberately slow and most tests only need a valid hash.
	testHash string
)

func passwordHash(t *testing.T) string {
	t.Helper()
	hashOnce.Do(func() {
		h, err := auth.NewPasswordHasher(12).Hash(testPassword)
		if err != nil {
			t.Fatalf("hash fixture password: %v", err)
		}
		testHash = h
	})
	return testHash
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hasher := auth.NewPasswordHasher(12)
	hash := passwordHash(t)

	assert.True(t, hasher.Verify(hash, testPassword))
	assert.False(t, hasher.Verify(hash, "wrong password"))
	assert.False(t, hasher.Verify(hash, ""))
}

func TestPasswordHashesAreSalted(t *testing.T) {
	hasher := auth.NewPasswordHasher(12)
	first := passwordHash(t)
	second, err := hasher.Hash(testPassword)
	require.NoError(t, err)

	// Per-call salt: two hashes of the same input must differ, and
	// both must still verify.
	assert.NotEqual(t, first, second)
	assert.True(t, hasher.Verify(second, testPassword))
}

func TestPasswordHasherFloorsCost(t *testing.T) {
	// A cost below the floor must be raised, not honored. bcrypt
	// encodes the cost in the output prefix, e.g. $2a$12$.
	hasher := auth.NewPasswordHasher(4)
	h, err := hasher.Hash("pw")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(h, "$2a$12$"), "expected cost 12 prefix, got %s", h[:7])
}
