package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"papertrade/internal/feature/auth/domain/entity"
	"papertrade/internal/shared/apperr"
)

const (
	// startingCash is the balance every new account opens with, in rupees.
	startingCash = 100000

	// maxUsernameLength matches the users.username column size.
	maxUsernameLength = 255

	// sessionIDBytes yields a 64-character hex session ID.
	sessionIDBytes = 32

	// dummyHash is compared against when the user does not exist so that
	// a failed login costs the same bcrypt work either way.
	dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"
)

// UserRepository abstracts the persistence layer for user entities.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type UserRepository interface {
	// Create persists a new user. It returns ErrUsernameTaken if the username exists.
	Create(ctx context.Context, user *entity.User) error

	// FindByUsername returns ErrUserNotFound if no user has that username.
	FindByUsername(ctx context.Context, username string) (*entity.User, error)

	// FindByID returns ErrUserNotFound if no user has that ID.
	FindByID(ctx context.Context, id uint) (*entity.User, error)

	// UpdatePassword replaces the stored password hash.
	UpdatePassword(ctx context.Context, id uint, passwordHash string) error
}

// TokenManager signs and verifies the value stored in the session cookie.
type TokenManager interface {
	// GenerateToken signs a token binding userID to sessionID until expiresAt.
	GenerateToken(userID uint, sessionID string, expiresAt time.Time) (string, error)
	// ParseToken verifies the signature and expiry and returns the bound IDs.
	ParseToken(token string) (uint, string, error)
}

// ClientInfo describes the browser a session is created for.
type ClientInfo struct {
	UserAgent string
	IPAddress string
}

// authUsecase implements the authentication business logic.
type authUsecase struct {
	users      UserRepository
	sessions   SessionRepository
	tokens     TokenManager
	sessionTTL time.Duration
	now        func() time.Time
}

// NewAuthUsecase creates a new authUsecase.
func NewAuthUsecase(users UserRepository, sessions SessionRepository, tokens TokenManager, sessionTTL time.Duration) *authUsecase {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &authUsecase{
		users:      users,
		sessions:   sessions,
		tokens:     tokens,
		sessionTTL: sessionTTL,
		now:        time.Now,
	}
}

// Register creates a user with a hashed password and the starting cash balance.
func (u *authUsecase) Register(ctx context.Context, username, password, confirmation string) error {
	username = strings.TrimSpace(username)
	if err := apperr.Validate(username,
		validation.Required.Error("must provide username"),
		validation.Length(1, maxUsernameLength).Error(fmt.Sprintf("username must be at most %d characters", maxUsernameLength)),
	); err != nil {
		return err
	}
	if password == "" || confirmation == "" {
		return apperr.NewValidation("must provide password/confirm password")
	}
	if password != confirmation {
		return apperr.NewValidation("password and confirmation do not match")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user := &entity.User{
		Username: username,
		Password: string(hashed),
		Cash:     decimal.NewFromInt(startingCash),
	}
	return u.users.Create(ctx, user)
}

// Login verifies the credentials, opens a session and returns the signed cookie value.
// Unknown usernames and wrong passwords both yield ErrInvalidCredentials.
func (u *authUsecase) Login(ctx context.Context, username, password string, client ClientInfo) (string, error) {
	username = strings.TrimSpace(username)
	if err := apperr.Validate(username, validation.Required.Error("must provide username")); err != nil {
		return "", err
	}
	if err := apperr.Validate(password, validation.Required.Error("must provide password")); err != nil {
		return "", err
	}

	user, err := u.users.FindByUsername(ctx, username)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return "", fmt.Errorf("failed to find user: %w", err)
	}

	passwordHash := dummyHash
	if err == nil {
		passwordHash = user.Password
	}
	// Always compare so both failure paths take the same time.
	compareErr := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password))
	if err != nil || compareErr != nil {
		return "", ErrInvalidCredentials
	}

	return u.openSession(ctx, user.ID, client)
}

// openSession persists a new session and signs a token for it.
func (u *authUsecase) openSession(ctx context.Context, userID uint, client ClientInfo) (string, error) {
	id, err := newSessionID()
	if err != nil {
		return "", err
	}
	now := u.now()
	session := &entity.Session{
		ID:        id,
		UserID:    userID,
		UserAgent: client.UserAgent,
		IPAddress: client.IPAddress,
		CreatedAt: now,
		ExpiresAt: now.Add(u.sessionTTL),
	}
	if err := u.sessions.Create(ctx, session); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	token, err := u.tokens.GenerateToken(userID, id, session.ExpiresAt)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}

// Logout revokes the session behind token. It never fails: a missing,
// malformed or already revoked token leaves nothing to do.
func (u *authUsecase) Logout(ctx context.Context, token string) {
	if token == "" {
		return
	}
	_, sessionID, err := u.tokens.ParseToken(token)
	if err != nil {
		return
	}
	if err := u.sessions.Revoke(ctx, sessionID); err != nil && !errors.Is(err, ErrSessionNotFound) {
		slog.Warn("failed to revoke session", "error", err)
	}
}

// Authenticate returns the user ID for a cookie token whose session is still valid.
func (u *authUsecase) Authenticate(ctx context.Context, token string) (uint, error) {
	userID, sessionID, err := u.tokens.ParseToken(token)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrSessionInvalid, err)
	}
	session, err := u.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	if session.UserID != userID || !session.IsValid() {
		return 0, ErrSessionInvalid
	}
	return userID, nil
}

// ChangePassword replaces the password of userID after verifying the old one.
func (u *authUsecase) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword, confirmation string) error {
	if err := apperr.Validate(oldPassword, validation.Required.Error("must provide old password")); err != nil {
		return err
	}
	if err := apperr.Validate(newPassword, validation.Required.Error("must provide new password")); err != nil {
		return err
	}
	if newPassword != confirmation {
		return apperr.NewValidation("passwords do not match")
	}

	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return ErrIncorrectPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return u.users.UpdatePassword(ctx, userID, string(hashed))
}

// PurgeExpiredSessions deletes sessions past their expiry.
func (u *authUsecase) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	return u.sessions.DeleteExpired(ctx)
}

func newSessionID() (string, error) {
	b := make([]byte, sessionIDBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session id: %w", err)
	}
	return hex.EncodeToString(b), nil
}
