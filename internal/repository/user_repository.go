package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bvivek2148/cargo-shipment-tracker-sub000/internal/auth"
	"github.com/bvivek2148/cargo-shipment-tracker-sub000/internal/model"
)

// UserRepo is the MySQL-backed credential store. It mirrors the
// 'users' table and implements auth.CredentialStore.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

var ErrEmailExists = errors.New("email already exists")

const userColumns = "id,email,name,role,is_active,login_attempts,lock_until,last_login,created_at,updated_at"

// FindByEmail fetches a user by normalized email. The password hash
// column is only selected when includeHash is set.
func (r *UserRepo) FindByEmail(ctx context.Context, email string, includeHash bool) (*model.UserIdentity, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	cols := userColumns
	if includeHash {
		cols += ",password_hash"
	}
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+cols+" FROM users WHERE email=? LIMIT 1", email)
	return scanUser(row, includeHash)
}

// FindByID fetches a user by id, without the password hash.
func (r *UserRepo) FindByID(ctx context.Context, id string) (*model.UserIdentity, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
	return scanUser(row, false)
}

// Create inserts a user with an already-computed password hash and
// assigns a fresh UUID when the record has no id.
func (r *UserRepo) Create(ctx context.Context, u *model.UserIdentity) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (id, email, name, password_hash, role, is_active) VALUES (?,?,?,?,?,?)",
		u.ID, u.Email, u.Name, u.PasswordHash, u.Role, u.IsActive)
	if err != nil {
		// 1062 = duplicate entry on the unique email index
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrEmailExists
		}
		return err
	}
	return nil
}

// RecordFailure increments login_attempts in a single UPDATE so
// concurrent failures cannot lose an update, then reads the counter
// back.
func (r *UserRepo) RecordFailure(ctx context.Context, id string) (int, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET login_attempts = login_attempts + 1 WHERE id=?", id)
	if err != nil {
		return 0, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return 0, auth.ErrUserNotFound
	}
	var attempts int
	err = r.DB.QueryRowContext(ctx,
		"SELECT login_attempts FROM users WHERE id=? LIMIT 1", id).Scan(&attempts)
	if err != nil {
		return 0, err
	}
	return attempts, nil
}

// SetLock stamps the lock expiry on the record.
func (r *UserRepo) SetLock(ctx context.Context, id string, until time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET lock_until=? WHERE id=?", until, id)
	return err
}

// RecordSuccess clears the attempt counter and lock and stamps
// last_login.
func (r *UserRepo) RecordSuccess(ctx context.Context, id string, lastLogin time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET login_attempts=0, lock_until=NULL, last_login=? WHERE id=?", lastLogin, id)
	return err
}

type rowScanner interface{ Scan(dest ...any) error }

func scanUser(row rowScanner, includeHash bool) (*model.UserIdentity, error) {
	var (
		u         model.UserIdentity
		lockUntil sql.NullTime
		lastLogin sql.NullTime
	)
	dest := []any{&u.ID, &u.Email, &u.Name, &u.Role, &u.IsActive, &u.LoginAttempts,
		&lockUntil, &lastLogin, &u.CreatedAt, &u.UpdatedAt}
	if includeHash {
		dest = append(dest, &u.PasswordHash)
	}
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auth.ErrUserNotFound
		}
		return nil, err
	}
	if lockUntil.Valid {
		t := lockUntil.Time
		u.LockUntil = &t
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLogin = &t
	}
	return &u, nil
}
