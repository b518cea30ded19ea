// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bookshelf/internal/platform/apperr"
	"github.com/taibuivan/bookshelf/internal/platform/ctxutil"
	"github.com/taibuivan/bookshelf/internal/platform/dberr"
	"github.com/taibuivan/bookshelf/internal/platform/sec"
	"github.com/taibuivan/bookshelf/internal/users/account"
	"github.com/taibuivan/bookshelf/internal/users/auth"
	"github.com/taibuivan/bookshelf/pkg/pointer"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type memoryUsers struct {
	users map[int64]*auth.User
}

func (m *memoryUsers) find(match func(*auth.User) bool) (*auth.User, error) {
	for _, user := range m.users {
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

func (m *memoryUsers) Create(context.Context, *auth.User) error { return nil }

func (m *memoryUsers) UpdateProfile(_ context.Context, id int64, email, passwordHash *string) (*auth.User, error) {
	user, ok := m.users[id]
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

func seeded() *memoryUsers {
	return &memoryUsers{users: map[int64]*auth.User{
		1: {ID: 1, Username: "alice", Email: "alice@x.com", PasswordHash: "old-hash"},
		2: {ID: 2, Username: "bob", Email: "bob@x.com", PasswordHash: "bob-hash"},
	}}
}

/*
TestService_UpdateProfile rotates the password hash and changes email under the same policy as registration.
*/
func TestService_UpdateProfile(t *testing.T) {
	users := seeded()
	service := account.NewService(users, discardLogger)
	ctx := context.Background()

	user, err := service.UpdateProfile(ctx, 1, account.UpdateProfileInput{Password: pointer.To("N3wPassword")})
	require.NoError(t, err)
	assert.Equal(t, "alice@x.com", user.Email)
	assert.True(t, sec.CheckPasswordHash("N3wPassword", users.users[1].PasswordHash))

	user, err = service.UpdateProfile(ctx, 1, account.UpdateProfileInput{Email: pointer.To("  alice@new.com ")})
	require.NoError(t, err)
	assert.Equal(t, "alice@new.com", user.Email)

	// Keeping one's own address is not a conflict.
	_, err = service.UpdateProfile(ctx, 1, account.UpdateProfileInput{Email: pointer.To("alice@new.com")})
	assert.NoError(t, err)

	_, err = service.UpdateProfile(ctx, 1, account.UpdateProfileInput{Email: pointer.To("bob@x.com")})
	assert.True(t, apperr.HasCode(err, apperr.CodeConflict))

	_, err = service.UpdateProfile(ctx, 1, account.UpdateProfileInput{Password: pointer.To("weak")})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	_, err = service.UpdateProfile(ctx, 1, account.UpdateProfileInput{Email: pointer.To("nope")})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	_, err = service.UpdateProfile(ctx, 42, account.UpdateProfileInput{Password: pointer.To("N3wPassword")})
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

func TestService_UpdateProfile_Empty(t *testing.T) {
	service := account.NewService(seeded(), discardLogger)

	user, err := service.UpdateProfile(context.Background(), 2, account.UpdateProfileInput{})
	require.NoError(t, err)
	assert.Equal(t, "bob", user.Username)
}

/*
TestHandler_Me requires a principal and renders the stored account.
*/
func TestHandler_Me(t *testing.T) {
	router := account.NewHandler(account.NewService(seeded(), discardLogger)).Routes()

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	request := httptest.NewRequest(http.MethodGet, "/me", nil)
	request = request.WithContext(ctxutil.WithPrincipal(request.Context(), &sec.Principal{UserID: 1, Username: "alice"}))
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "alice", body.Data["username"])
	assert.NotContains(t, body.Data, "hashed_password")

	request = httptest.NewRequest(http.MethodPatch, "/me", strings.NewReader(`{"email":"a@b.com"}`))
	request = request.WithContext(ctxutil.WithPrincipal(request.Context(), &sec.Principal{UserID: 1, Username: "alice"}))
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "a@b.com")
}
