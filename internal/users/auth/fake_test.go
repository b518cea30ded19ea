// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bookshelf/internal/platform/apperr"
	"github.com/taibuivan/bookshelf/internal/platform/dberr"
	"github.com/taibuivan/bookshelf/internal/platform/sec"
	"github.com/taibuivan/bookshelf/internal/users/auth"
)

// memoryUsers is an in-memory UserRepository enforcing the same uniqueness rules as the schema.
type memoryUsers struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*auth.User
	err    error
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{byID: map[int64]*auth.User{}}
}

func (m *memoryUsers) find(match func(*auth.User) bool) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, user := range m.byID {
		if match(user) {
			clone := *user
			return &clone, nil
		}
	}
	return nil, dberr.ErrNotFound
}

func (m *memoryUsers) FindByID(_ context.Context, id int64) (*auth.User, error) {
	return m.find(func(u *auth.User) bool { return u.ID == id })
}

func (m *memoryUsers) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	return m.find(func(u *auth.User) bool { return u.Username == username })
}

func (m *memoryUsers) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	return m.find(func(u *auth.User) bool { return u.Email == email })
}

func (m *memoryUsers) Create(_ context.Context, user *auth.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.Username == user.Username {
			return apperr.Conflict(auth.MessageUsernameTaken)
		}
		if existing.Email == user.Email {
			return apperr.Conflict(auth.MessageEmailTaken)
		}
	}
	m.nextID++
	active := true
	user.ID = m.nextID
	user.IsActive = &active
	clone := *user
	m.byID[user.ID] = &clone
	return nil
}

func (m *memoryUsers) UpdateProfile(_ context.Context, id int64, email, passwordHash *string) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.byID[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	if email != nil {
		user.Email = *email
	}
	if passwordHash != nil {
		user.PasswordHash = *passwordHash
	}
	clone := *user
	return &clone, nil
}

// countingRecorder counts AuthFailure calls.
type countingRecorder struct{ failures int }

func (c *countingRecorder) AuthFailure() { c.failures++ }

func newTokens(t *testing.T, opts ...sec.TokenOption) *sec.TokenService {
	t.Helper()
	tokens, err := sec.NewTokenService("test-secret", "HS256", "bookshelf-api", opts...)
	require.NoError(t, err)
	return tokens
}

var pastClock = func() time.Time { return time.Now().Add(-time.Hour) }
