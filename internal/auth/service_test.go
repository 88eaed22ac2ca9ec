// AngelaMos | 2026
// service_test.go

package auth_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelamos/artvia-backend/internal/auth"
	"github.com/angelamos/artvia-backend/internal/config"
	"github.com/angelamos/artvia-backend/internal/core"
)

type memUsers struct {
	mu        sync.Mutex
	byID      map[string]*auth.UserInfo
	updateErr error
	updates   int
}

func newMemUsers() *memUsers {
	return &memUsers{byID: make(map[string]*auth.UserInfo)}
}

func (m *memUsers) add(u auth.UserInfo) *auth.UserInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.ID == "" {
		u.ID = core.NewID()
	}
	m.byID[u.ID] = &u
	return &u
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*auth.UserInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, core.ErrNotFound
}

func (m *memUsers) GetByID(_ context.Context, id string) (*auth.UserInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (m *memUsers) Create(
	ctx context.Context,
	email, passwordHash, name string,
) (*auth.UserInfo, error) {
	if _, err := m.GetByEmail(ctx, email); err == nil {
		return nil, core.ErrDuplicateKey
	}
	return m.add(auth.UserInfo{
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		Role:         "user",
	}), nil
}

func (m *memUsers) IncrementTokenVersion(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[userID].TokenVersion++
	return nil
}

func (m *memUsers) UpdatePassword(_ context.Context, userID, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates++
	if m.updateErr != nil {
		return m.updateErr
	}
	m.byID[userID].PasswordHash = hash
	return nil
}

type memRevocations struct {
	revoked map[string]time.Time
	err     error
}

func (r *memRevocations) Revoke(_ context.Context, tokenID string, exp time.Time) error {
	r.revoked[tokenID] = exp
	return nil
}

func (r *memRevocations) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	_, ok := r.revoked[tokenID]
	return ok, nil
}

func newService(t *testing.T) (*auth.Service, *memUsers, *memRevocations) {
	t.Helper()
	jwt, err := auth.NewJWTManager(config.JWTConfig{
		Secret: "service-test-secret-value-0123456789",
		Issuer: "artvia-test",
		Expire: time.Hour,
	})
	require.NoError(t, err)

	users := newMemUsers()
	revocations := &memRevocations{revoked: map[string]time.Time{}}
	return auth.NewService(revocations, jwt, users, nil), users, revocations
}

func TestRegister(t *testing.T) {
	svc, users, _ := newService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, auth.RegisterRequest{
		Name:     "Aziz",
		Email:    "aziz@example.com",
		Password: "secret1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "user", resp.User.Role)
	assert.False(t, resp.User.IsAdmin)

	stored, err := users.GetByEmail(ctx, "aziz@example.com")
	require.NoError(t, err)
	assert.Equal(t, core.FormatArgon2id, core.DetectPasswordFormat(stored.PasswordHash))

	_, err = svc.Register(ctx, auth.RegisterRequest{
		Name:     "Aziz again",
		Email:    "aziz@example.com",
		Password: "secret2",
	})
	assert.ErrorIs(t, err, auth.ErrEmailExists)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("argon2id password", func(t *testing.T) {
		svc, users, _ := newService(t)
		hash, err := core.HashPassword("pass123")
		require.NoError(t, err)
		users.add(auth.UserInfo{Email: "a@example.com", PasswordHash: hash, Role: "user"})

		resp, err := svc.Login(ctx, auth.LoginRequest{Email: "a@example.com", Password: "pass123"})

		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		assert.Zero(t, users.updates)
	})

	t.Run("legacy plaintext is migrated", func(t *testing.T) {
		svc, users, _ := newService(t)
		u := users.add(auth.UserInfo{Email: "old@example.com", PasswordHash: "plain-pw", Role: "user"})

		_, err := svc.Login(ctx, auth.LoginRequest{Email: "old@example.com", Password: "plain-pw"})
		require.NoError(t, err)

		stored, _ := users.GetByID(ctx, u.ID)
		assert.Equal(t, core.FormatArgon2id, core.DetectPasswordFormat(stored.PasswordHash))

		_, err = svc.Login(ctx, auth.LoginRequest{Email: "old@example.com", Password: "plain-pw"})
		require.NoError(t, err, "login keeps working after the migration")
	})

	t.Run("failed migration does not block login", func(t *testing.T) {
		svc, users, _ := newService(t)
		users.add(auth.UserInfo{Email: "old@example.com", PasswordHash: "plain-pw"})
		users.updateErr = errors.New("write failed")

		resp, err := svc.Login(ctx, auth.LoginRequest{Email: "old@example.com", Password: "plain-pw"})

		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, 1, users.updates)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, users, _ := newService(t)
		users.add(auth.UserInfo{Email: "old@example.com", PasswordHash: "plain-pw"})

		_, err := svc.Login(ctx, auth.LoginRequest{Email: "old@example.com", Password: "nope"})

		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
		assert.Zero(t, users.updates)
	})

	t.Run("unknown email looks like a wrong password", func(t *testing.T) {
		svc, _, _ := newService(t)

		_, err := svc.Login(ctx, auth.LoginRequest{Email: "ghost@example.com", Password: "x"})

		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("legacy admin flag is reported", func(t *testing.T) {
		svc, users, _ := newService(t)
		hash, err := core.HashPassword("pass123")
		require.NoError(t, err)
		users.add(auth.UserInfo{
			Email:        "boss@example.com",
			PasswordHash: hash,
			Role:         "user",
			IsAdmin:      true,
		})

		resp, err := svc.Login(ctx, auth.LoginRequest{Email: "boss@example.com", Password: "pass123"})

		require.NoError(t, err)
		assert.True(t, resp.User.IsAdmin)
	})
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()

	login := func(t *testing.T, svc *auth.Service, users *memUsers, u auth.UserInfo) (string, *auth.UserInfo) {
		t.Helper()
		hash, err := core.HashPassword("pass123")
		require.NoError(t, err)
		u.PasswordHash = hash
		added := users.add(u)
		resp, err := svc.Login(ctx, auth.LoginRequest{Email: u.Email, Password: "pass123"})
		require.NoError(t, err)
		return resp.Token, added
	}

	t.Run("resolves the current user", func(t *testing.T) {
		svc, users, _ := newService(t)
		token, u := login(t, svc, users, auth.UserInfo{Email: "a@example.com", Name: "A", Role: "admin", IsAdmin: true})

		p, err := svc.Authenticate(ctx, token)

		require.NoError(t, err)
		assert.Equal(t, u.ID, p.UserID)
		assert.True(t, p.IsAdmin)
		assert.NotEmpty(t, p.TokenID)
	})

	t.Run("logout revokes the token", func(t *testing.T) {
		svc, users, revocations := newService(t)
		token, _ := login(t, svc, users, auth.UserInfo{Email: "a@example.com"})
		p, err := svc.Authenticate(ctx, token)
		require.NoError(t, err)

		require.NoError(t, svc.Logout(ctx, p))

		assert.Contains(t, revocations.revoked, p.TokenID)
		_, err = svc.Authenticate(ctx, token)
		assert.ErrorIs(t, err, core.ErrTokenRevoked)
	})

	t.Run("logout all bumps the token version", func(t *testing.T) {
		svc, users, _ := newService(t)
		token, u := login(t, svc, users, auth.UserInfo{Email: "a@example.com"})

		require.NoError(t, svc.LogoutAll(ctx, u.ID))

		_, err := svc.Authenticate(ctx, token)
		assert.ErrorIs(t, err, core.ErrTokenRevoked)
	})

	t.Run("deleted users are rejected", func(t *testing.T) {
		svc, users, _ := newService(t)
		token, u := login(t, svc, users, auth.UserInfo{Email: "a@example.com"})
		delete(users.byID, u.ID)

		_, err := svc.Authenticate(ctx, token)
		assert.ErrorIs(t, err, core.ErrTokenInvalid)
	})

	t.Run("revocation store failure fails closed", func(t *testing.T) {
		svc, users, revocations := newService(t)
		token, _ := login(t, svc, users, auth.UserInfo{Email: "a@example.com"})
		revocations.err = errors.New("redis down")

		_, err := svc.Authenticate(ctx, token)
		require.Error(t, err)
		assert.NotErrorIs(t, err, core.ErrTokenInvalid)
	})

	t.Run("garbage token", func(t *testing.T) {
		svc, _, _ := newService(t)

		_, err := svc.Authenticate(ctx, "garbage")
		assert.ErrorIs(t, err, core.ErrTokenInvalid)
	})
}

func TestChangePassword(t *testing.T) {
	svc, users, _ := newService(t)
	ctx := context.Background()
	u := users.add(auth.UserInfo{Email: "a@example.com", PasswordHash: "old-plain"})

	err := svc.ChangePassword(ctx, u.ID, auth.ChangePasswordRequest{
		CurrentPassword: "wrong",
		NewPassword:     "newpass1",
	})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	require.NoError(t, svc.ChangePassword(ctx, u.ID, auth.ChangePasswordRequest{
		CurrentPassword: "old-plain",
		NewPassword:     "newpass1",
	}))

	stored, _ := users.GetByID(ctx, u.ID)
	assert.Equal(t, 1, stored.TokenVersion)
	ok, err := core.VerifyPassword("newpass1", stored.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}
