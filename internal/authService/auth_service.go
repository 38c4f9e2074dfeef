package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"auction-house/internal/auctionerrors"
	"auction-house/internal/models"
	"auction-house/internal/repository"
	"auction-house/utils"

	"golang.org/x/crypto/bcrypt"
)

// AuthService owns registration, login and cookie-session resolution
type AuthService struct {
	users    repository.UserStore
	sessions repository.SessionStore
	lifetime time.Duration
	clock    func() time.Time
}

// NewAuthService creates a new AuthService instance. lifetime controls how
// long a login session stays valid.
func NewAuthService(users repository.UserStore, sessions repository.SessionStore, lifetime time.Duration) *AuthService {
	if lifetime <= 0 {
		lifetime = 24 * time.Hour
	}
	return &AuthService{
		users:    users,
		sessions: sessions,
		lifetime: lifetime,
		clock:    func() time.Time { return time.Now().UTC() },
	}
}

// SessionLifetime returns the configured session duration, used for the
// cookie expiry.
func (s *AuthService) SessionLifetime() time.Duration {
	return s.lifetime
}

// Register creates a new account. Passwords must match their confirmation
// and usernames are unique; a duplicate surfaces as ErrUsernameTaken.
func (s *AuthService) Register(ctx context.Context, username, email, password, confirmation string) (models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return models.User{}, fmt.Errorf("service: register: %w", auctionerrors.ErrInvalidAccount)
	}
	if password != confirmation {
		return models.User{}, fmt.Errorf("service: register %q: %w", username, auctionerrors.ErrPasswordMismatch)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("service: failed to hash password for %q: %w", username, err)
	}

	user := models.User{
		Username:     username,
		Email:        strings.TrimSpace(email),
		PasswordHash: string(hash),
		CreatedAt:    s.clock(),
	}
	if err := s.users.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, auctionerrors.ErrUsernameTaken) {
			return models.User{}, fmt.Errorf("service: register %q: %w", username, auctionerrors.ErrUsernameTaken)
		}
		return models.User{}, fmt.Errorf("service: failed to register %q: %w", username, err)
	}

	user.PasswordHash = ""
	return user, nil
}

// Login verifies the credentials and creates a fresh session, dropping any
// older sessions of the same user. Unknown usernames and wrong passwords
// are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (models.Session, models.User, error) {
	user, err := s.users.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, auctionerrors.ErrUserNotFound) {
			return models.Session{}, models.User{}, auctionerrors.ErrInvalidLogin
		}
		return models.Session{}, models.User{}, fmt.Errorf("service: failed to look up %q: %w", username, err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.Session{}, models.User{}, auctionerrors.ErrInvalidLogin
	}

	if err := s.sessions.DeleteSessionsForUser(ctx, user.ID); err != nil {
		return models.Session{}, models.User{}, fmt.Errorf("service: failed to drop old sessions of user %d: %w", user.ID, err)
	}

	now := s.clock()
	session := models.Session{
		Token:     utils.GenerateID(),
		UserID:    user.ID,
		ExpiresAt: now.Add(s.lifetime),
		CreatedAt: now,
	}
	if err := s.sessions.CreateSession(ctx, session); err != nil {
		return models.Session{}, models.User{}, fmt.Errorf("service: failed to create session for user %d: %w", user.ID, err)
	}

	user.PasswordHash = ""
	return session, user, nil
}

// Logout removes the session behind a cookie token
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if err := s.sessions.DeleteSession(ctx, token); err != nil {
		return fmt.Errorf("service: failed to log out: %w", err)
	}
	return nil
}

// UserFromSession resolves a cookie token to its account. Expired sessions
// are deleted on sight and reported as ErrNoSession.
func (s *AuthService) UserFromSession(ctx context.Context, token string) (models.User, error) {
	session, err := s.sessions.GetSession(ctx, token)
	if err != nil {
		if errors.Is(err, auctionerrors.ErrNoSession) {
			return models.User{}, auctionerrors.ErrNoSession
		}
		return models.User{}, fmt.Errorf("service: failed to load session: %w", err)
	}
	if !session.ExpiresAt.After(s.clock()) {
		_ = s.sessions.DeleteSession(ctx, token)
		return models.User{}, auctionerrors.ErrNoSession
	}

	user, err := s.users.GetUserByID(ctx, session.UserID)
	if err != nil {
		return models.User{}, fmt.Errorf("service: failed to load user %d for session: %w", session.UserID, err)
	}
	user.PasswordHash = ""
	return user, nil
}
