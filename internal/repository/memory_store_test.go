package repository_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bvivek2148/cargo-shipment-tracker-sub000/internal/auth"
	"github.com/bvivek2148/cargo-shipment-tracker-sub000/internal/model"
	"github.com/bvivek2148/cargo-shipment-tracker-sub000/internal/repository"
)

func TestMemoryStoreLookup(t *testing.T) {
	s := repository.NewMemoryStore()
	ctx := context.Background()

	u := &model.UserIdentity{Email: " A@X.com", PasswordHash: "h", Role: "user", IsActive: true}
	require.NoError(t, s.Create(ctx, u))
	require.NotEmpty(t, u.ID, "store assigns an id")

	got, err := s.FindByEmail(ctx, "a@x.com", false)
	require.NoError(t, err)
	assert.Empty(t, got.PasswordHash, "hash excluded unless requested")

	got, err = s.FindByEmail(ctx, "a@x.com", true)
	require.NoError(t, err)
	assert.Equal(t, "h", got.PasswordHash)

	_, err = s.FindByEmail(ctx, "other@x.com", false)
	assert.ErrorIs(t, err, auth.ErrUserNotFound)
	_, err = s.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, auth.ErrUserNotFound)
}

func TestMemoryStoreDuplicateEmail(t *testing.T) {
	s := repository.NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, &model.UserIdentity{Email: "a@x.com"}))
	err := s.Create(ctx, &model.UserIdentity{Email: "A@X.COM"})
	assert.ErrorIs(t, err, repository.ErrEmailExists)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	s := repository.NewMemoryStore()
	ctx := context.Background()

	u := &model.UserIdentity{Email: "a@x.com", Role: "user"}
	require.NoError(t, s.Create(ctx, u))

	got, err := s.FindByID(ctx, u.ID)
	require.NoError(t, err)
	got.Role = "admin"

	again, err := s.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "user", again.Role, "mutating a returned record must not affect stored state")
}

func TestRecordFailureIsAtomicUnderConcurrency(t *testing.T) {
	s := repository.NewMemoryStore()
	ctx := context.Background()

	u := &model.UserIdentity{Email: "a@x.com"}
	require.NoError(t, s.Create(ctx, u))

	const workers = 50
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, _ = s.RecordFailure(ctx, u.ID)
		}()
	}
	wg.Wait()

	got, err := s.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, workers, got.LoginAttempts, "no increment may be lost")
}

func TestRecordSuccessResetsLockout(t *testing.T) {
	s := repository.NewMemoryStore()
	ctx := context.Background()

	u := &model.UserIdentity{Email: "a@x.com"}
	require.NoError(t, s.Create(ctx, u))

	for i := 0; i < 5; i++ {
		_, err := s.RecordFailure(ctx, u.ID)
		require.NoError(t, err)
	}
	until := time.Now().UTC().Add(30 * time.Minute)
	require.NoError(t, s.SetLock(ctx, u.ID, until))

	lastLogin := time.Now().UTC()
	require.NoError(t, s.RecordSuccess(ctx, u.ID, lastLogin))

	got, err := s.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Zero(t, got.LoginAttempts)
	assert.Nil(t, got.LockUntil)
	require.NotNil(t, got.LastLogin)
	assert.Equal(t, lastLogin, *got.LastLogin)
}
