// Package repository provides the credential store adapters. The
// MySQL and MongoDB adapters back production deployments; the memory
// store backs tests and local development without external services.
package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bvivek2148/cargo-shipment-tracker-sub000/internal/auth"
	"github.com/bvivek2148/cargo-shipment-tracker-sub000/internal/model"
)

// MemoryStore is a mutex-guarded in-memory credential store. The
// attempt counter increments under the lock, so it matches the
// atomicity the SQL and Mongo adapters provide.
type MemoryStore struct {
	mu      sync.Mutex
	byID    map[string]*model.UserIdentity
	byEmail map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:    make(map[string]*model.UserIdentity),
		byEmail: make(map[string]string),
	}
}

func (s *MemoryStore) FindByEmail(_ context.Context, email string, includeHash bool) (*model.UserIdentity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	return s.clone(s.byID[id], includeHash), nil
}

func (s *MemoryStore) FindByID(_ context.Context, id string) (*model.UserIdentity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	return s.clone(u, false), nil
}

func (s *MemoryStore) Create(_ context.Context, u *model.UserIdentity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	email := strings.ToLower(strings.TrimSpace(u.Email))
	if _, exists := s.byEmail[email]; exists {
		return ErrEmailExists
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	u.Email = email
	u.CreatedAt = now
	u.UpdatedAt = now
	stored := *u
	s.byID[u.ID] = &stored
	s.byEmail[email] = u.ID
	return nil
}

func (s *MemoryStore) RecordFailure(_ context.Context, id string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return 0, auth.ErrUserNotFound
	}
	u.LoginAttempts++
	u.UpdatedAt = time.Now().UTC()
	return u.LoginAttempts, nil
}

func (s *MemoryStore) SetLock(_ context.Context, id string, until time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return auth.ErrUserNotFound
	}
	t := until
	u.LockUntil = &t
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *MemoryStore) RecordSuccess(_ context.Context, id string, lastLogin time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return auth.ErrUserNotFound
	}
	u.LoginAttempts = 0
	u.LockUntil = nil
	t := lastLogin
	u.LastLogin = &t
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// clone copies a record so callers cannot mutate stored state.
func (s *MemoryStore) clone(u *model.UserIdentity, includeHash bool) *model.UserIdentity {
	c := *u
	if !includeHash {
		c.PasswordHash = ""
	}
	if u.LockUntil != nil {
		t := *u.LockUntil
		c.LockUntil = &t
	}
	if u.LastLogin != nil {
		t := *u.LastLogin
		c.LastLogin = &t
	}
	return &c
}
