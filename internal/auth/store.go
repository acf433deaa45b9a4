package auth

import (
	"context"
	"time"

	"github.com/bvivek2148/cargo-shipment-tracker-sub000/internal/model"
)

// CredentialStore abstracts durable user records. The core only ever
// issues point lookups and single-record writes; adapters live in
// internal/repository. Lookups return ErrUserNotFound when no record
// matches; any other error is treated as a store failure and
// propagated, never retried here.
type CredentialStore interface {
	// FindByEmail fetches a record by normalized email. The password
	// hash is excluded from the result unless includeHash is set; only
	// the login path asks for it.
	FindByEmail(ctx context.Context, email string, includeHash bool) (*model.UserIdentity, error)

	// FindByID fetches a record by its opaque identifier.
	FindByID(ctx context.Context, id string) (*model.UserIdentity, error)

	// Create inserts a new record. The password hash is expected to be
	// computed already; stores never see plaintext.
	Create(ctx context.Context, u *model.UserIdentity) error

	// RecordFailure increments the attempt counter and returns the
	// post-increment value. The increment must be atomic at the store
	// layer so two concurrent failures cannot lose an update.
	RecordFailure(ctx context.Context, id string) (int, error)

	// SetLock persists a lock expiry on the record.
	SetLock(ctx context.Context, id string, until time.Time) error

	// RecordSuccess resets the counter and lock and stamps last_login.
	RecordSuccess(ctx context.Context, id string, lastLogin time.Time) error
}
