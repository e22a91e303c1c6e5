package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"papertrade/internal/feature/auth/domain/entity"
	"papertrade/internal/shared/apperr"
)

// fakeUserRepository is an in-memory UserRepository.
type fakeUserRepository struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]*entity.User
	// findErr, when set, is returned by every lookup.
	findErr error
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: map[uint]*entity.User{}}
}

func (r *fakeUserRepository) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username {
			return ErrUsernameTaken
		}
	}
	r.nextID++
	user.ID = r.nextID
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepository) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.users {
		if u.Username == username {
			found := *u
			return &found, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *fakeUserRepository) FindByID(_ context.Context, id uint) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	found := *u
	return &found, nil
}

func (r *fakeUserRepository) UpdatePassword(_ context.Context, id uint, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return ErrUserNotFound
	}
	u.Password = passwordHash
	return nil
}

// fakeSessionRepository is an in-memory SessionRepository.
type fakeSessionRepository struct {
	mu       sync.Mutex
	sessions map[string]*entity.Session
}

func newFakeSessionRepository() *fakeSessionRepository {
	return &fakeSessionRepository{sessions: map[string]*entity.Session{}}
}

func (r *fakeSessionRepository) Create(_ context.Context, s *entity.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *s
	r.sessions[s.ID] = &stored
	return nil
}

func (r *fakeSessionRepository) FindByID(_ context.Context, id string) (*entity.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	found := *s
	return &found, nil
}

func (r *fakeSessionRepository) Revoke(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	now := time.Now()
	s.RevokedAt = &now
	return nil
}

func (r *fakeSessionRepository) DeleteExpired(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, s := range r.sessions {
		if s.IsExpired() {
			delete(r.sessions, id)
			n++
		}
	}
	return n, nil
}

// fakeTokens encodes "userID:sessionID" without signing.
type fakeTokens struct{}

func (fakeTokens) GenerateToken(userID uint, sessionID string, _ time.Time) (string, error) {
	return fmt.Sprintf("%d:%s", userID, sessionID), nil
}

func (fakeTokens) ParseToken(token string) (uint, string, error) {
	uid, sid, ok := strings.Cut(token, ":")
	if !ok {
		return 0, "", errors.New("malformed token")
	}
	id, err := strconv.ParseUint(uid, 10, 64)
	if err != nil {
		return 0, "", err
	}
	return uint(id), sid, nil
}

func newTestUsecase() (*authUsecase, *fakeUserRepository, *fakeSessionRepository) {
	users := newFakeUserRepository()
	sessions := newFakeSessionRepository()
	return NewAuthUsecase(users, sessions, fakeTokens{}, time.Hour), users, sessions
}

func assertValidation(t *testing.T, err error, want string) {
	t.Helper()
	msg, ok := apperr.Message(err)
	require.True(t, ok, "expected a validation error, got %v", err)
	assert.Equal(t, want, msg)
}

func TestNewAuthUsecase_DefaultTTL(t *testing.T) {
	t.Parallel()

	uc := NewAuthUsecase(newFakeUserRepository(), newFakeSessionRepository(), fakeTokens{}, 0)
	assert.Equal(t, 24*time.Hour, uc.sessionTTL)
}

func TestAuthUsecase_Register(t *testing.T) {
	t.Parallel()

	t.Run("successful registration hashes password and grants starting cash", func(t *testing.T) {
		t.Parallel()

		uc, users, _ := newTestUsecase()
		require.NoError(t, uc.Register(context.Background(), "  alice ", "secret", "secret"))

		u, err := users.FindByUsername(context.Background(), "alice")
		require.NoError(t, err)
		assert.NotEqual(t, "secret", u.Password)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("secret")))
		assert.True(t, u.Cash.Equal(decimal.NewFromInt(100000)), "cash = %s", u.Cash)
	})

	t.Run("username at the column limit", func(t *testing.T) {
		t.Parallel()

		uc, users, _ := newTestUsecase()
		name := strings.Repeat("a", 255)
		require.NoError(t, uc.Register(context.Background(), name, "secret", "secret"))
		_, err := users.FindByUsername(context.Background(), name)
		assert.NoError(t, err)
	})

	t.Run("duplicate username", func(t *testing.T) {
		t.Parallel()

		uc, _, _ := newTestUsecase()
		require.NoError(t, uc.Register(context.Background(), "alice", "secret", "secret"))

		err := uc.Register(context.Background(), "alice", "other", "other")
		assert.ErrorIs(t, err, ErrUsernameTaken)
	})

	tests := []struct {
		name         string
		username     string
		password     string
		confirmation string
		wantMsg      string
	}{
		{"missing username", "", "secret", "secret", "must provide username"},
		{"blank username", "   ", "secret", "secret", "must provide username"},
		{"overlong username", strings.Repeat("a", 256), "secret", "secret", "username must be at most 255 characters"},
		{"missing password", "bob", "", "secret", "must provide password/confirm password"},
		{"missing confirmation", "bob", "secret", "", "must provide password/confirm password"},
		{"mismatched confirmation", "bob", "secret", "secreT", "password and confirmation do not match"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			uc, users, _ := newTestUsecase()
			err := uc.Register(context.Background(), tt.username, tt.password, tt.confirmation)
			assertValidation(t, err, tt.wantMsg)
			assert.Empty(t, users.users, "no user should be created")
		})
	}
}

func TestAuthUsecase_Login(t *testing.T) {
	t.Parallel()

	t.Run("register then login round trip", func(t *testing.T) {
		t.Parallel()

		uc, users, sessions := newTestUsecase()
		require.NoError(t, uc.Register(context.Background(), "alice", "secret", "secret"))

		token, err := uc.Login(context.Background(), "alice", "secret", ClientInfo{UserAgent: "test-agent", IPAddress: "127.0.0.1"})
		require.NoError(t, err)
		require.NotEmpty(t, token)

		u, _ := users.FindByUsername(context.Background(), "alice")
		userID, sessionID, err := fakeTokens{}.ParseToken(token)
		require.NoError(t, err)
		assert.Equal(t, u.ID, userID)
		assert.Len(t, sessionID, 64)

		s, err := sessions.FindByID(context.Background(), sessionID)
		require.NoError(t, err)
		assert.Equal(t, "test-agent", s.UserAgent)
		assert.Equal(t, "127.0.0.1", s.IPAddress)
		assert.True(t, s.IsValid())
	})

	t.Run("wrong password and unknown user fail identically", func(t *testing.T) {
		t.Parallel()

		uc, _, sessions := newTestUsecase()
		require.NoError(t, uc.Register(context.Background(), "alice", "secret", "secret"))

		_, wrongPassErr := uc.Login(context.Background(), "alice", "wrong", ClientInfo{})
		_, unknownErr := uc.Login(context.Background(), "mallory", "secret", ClientInfo{})

		assert.ErrorIs(t, wrongPassErr, ErrInvalidCredentials)
		assert.ErrorIs(t, unknownErr, ErrInvalidCredentials)
		assert.Equal(t, wrongPassErr.Error(), unknownErr.Error())
		assert.Empty(t, sessions.sessions, "no session should be created")
	})

	t.Run("missing fields", func(t *testing.T) {
		t.Parallel()

		uc, _, _ := newTestUsecase()
		_, err := uc.Login(context.Background(), "", "secret", ClientInfo{})
		assertValidation(t, err, "must provide username")

		_, err = uc.Login(context.Background(), "alice", "", ClientInfo{})
		assertValidation(t, err, "must provide password")
	})

	t.Run("repository outage is not reported as bad credentials", func(t *testing.T) {
		t.Parallel()

		uc, users, _ := newTestUsecase()
		users.findErr = errors.New("connection refused")

		_, err := uc.Login(context.Background(), "alice", "secret", ClientInfo{})
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("second login opens a fresh session", func(t *testing.T) {
		t.Parallel()

		uc, _, _ := newTestUsecase()
		require.NoError(t, uc.Register(context.Background(), "alice", "secret", "secret"))

		first, err := uc.Login(context.Background(), "alice", "secret", ClientInfo{})
		require.NoError(t, err)
		second, err := uc.Login(context.Background(), "alice", "secret", ClientInfo{})
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
	})
}

func TestAuthUsecase_AuthenticateAndLogout(t *testing.T) {
	t.Parallel()

	uc, _, _ := newTestUsecase()
	require.NoError(t, uc.Register(context.Background(), "alice", "secret", "secret"))
	token, err := uc.Login(context.Background(), "alice", "secret", ClientInfo{})
	require.NoError(t, err)

	userID, err := uc.Authenticate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, uint(1), userID)

	uc.Logout(context.Background(), token)
	_, err = uc.Authenticate(context.Background(), token)
	assert.ErrorIs(t, err, ErrSessionInvalid)

	// Logout is idempotent and tolerates garbage.
	uc.Logout(context.Background(), token)
	uc.Logout(context.Background(), "")
	uc.Logout(context.Background(), "not-a-token")
	_, err = uc.Authenticate(context.Background(), token)
	assert.ErrorIs(t, err, ErrSessionInvalid)
}

func TestAuthUsecase_Authenticate_Rejects(t *testing.T) {
	t.Parallel()

	uc, _, sessions := newTestUsecase()
	past := time.Now().Add(-time.Hour)
	require.NoError(t, sessions.Create(context.Background(), &entity.Session{ID: "expired", UserID: 1, ExpiresAt: past}))
	require.NoError(t, sessions.Create(context.Background(), &entity.Session{ID: "alive", UserID: 1, ExpiresAt: time.Now().Add(time.Hour)}))

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{"malformed token", "garbage", ErrSessionInvalid},
		{"unknown session", "1:missing", ErrSessionNotFound},
		{"expired session", "1:expired", ErrSessionInvalid},
		{"session of another user", "2:alive", ErrSessionInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := uc.Authenticate(context.Background(), tt.token)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAuthUsecase_ChangePassword(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		uc, _, _ := newTestUsecase()
		require.NoError(t, uc.Register(context.Background(), "alice", "old-secret", "old-secret"))

		require.NoError(t, uc.ChangePassword(context.Background(), 1, "old-secret", "new-secret", "new-secret"))

		_, err := uc.Login(context.Background(), "alice", "old-secret", ClientInfo{})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		_, err = uc.Login(context.Background(), "alice", "new-secret", ClientInfo{})
		assert.NoError(t, err)
	})

	t.Run("incorrect old password", func(t *testing.T) {
		t.Parallel()

		uc, _, _ := newTestUsecase()
		require.NoError(t, uc.Register(context.Background(), "alice", "old-secret", "old-secret"))

		err := uc.ChangePassword(context.Background(), 1, "nope", "new-secret", "new-secret")
		assert.ErrorIs(t, err, ErrIncorrectPassword)
	})

	tests := []struct {
		name                  string
		oldPass, newPass, cfm string
		wantMsg               string
	}{
		{"missing old password", "", "n", "n", "must provide old password"},
		{"missing new password", "o", "", "", "must provide new password"},
		{"confirmation mismatch", "o", "n", "m", "passwords do not match"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			uc, _, _ := newTestUsecase()
			err := uc.ChangePassword(context.Background(), 1, tt.oldPass, tt.newPass, tt.cfm)
			assertValidation(t, err, tt.wantMsg)
		})
	}
}

func TestAuthUsecase_PurgeExpiredSessions(t *testing.T) {
	t.Parallel()

	uc, _, sessions := newTestUsecase()
	require.NoError(t, sessions.Create(context.Background(), &entity.Session{ID: "old", ExpiresAt: time.Now().Add(-time.Minute)}))
	require.NoError(t, sessions.Create(context.Background(), &entity.Session{ID: "new", ExpiresAt: time.Now().Add(time.Minute)}))

	n, err := uc.PurgeExpiredSessions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
