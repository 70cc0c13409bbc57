// Package service implements authentication business logic: registration,
// session-based login, and password management.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"leadconvert/internal/auth/password"
	"leadconvert/internal/auth/repository"
	"leadconvert/internal/auth/token"
	"leadconvert/internal/events"
	"leadconvert/platform/apperr"
	"leadconvert/platform/config"
	"leadconvert/platform/logger"

	"github.com/google/uuid"
)

const sessionTokenBytes = 32

const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleAgent   = "agent"
)

// Store is the persistence surface the auth service depends on. Implemented
// by the auth repository.
type Store interface {
	CreateUser(ctx context.Context, name, email, passwordHash, role string) (repository.User, error)
	GetUserByEmail(ctx context.Context, email string) (repository.User, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (repository.User, error)
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error
	CreateSession(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) (repository.Session, error)
	GetUserBySessionToken(ctx context.Context, tokenHash string) (repository.User, error)
	DeleteSession(ctx context.Context, tokenHash string) error
	DeleteUserSessions(ctx context.Context, userID uuid.UUID) error
	DeleteExpiredSessions(ctx context.Context) (int64, error)
}

type Service struct {
	repo Store
	cfg  config.SessionConfig
	bus  events.Bus
	log  *logger.Logger
}

func New(repo Store, cfg config.SessionConfig, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, bus: bus, log: log}
}

// Register creates a new user account and opens a session for it. The role
// defaults to agent when empty. Returns the user and the plaintext session
// token for the cookie; only its hash is stored.
func (s *Service) Register(ctx context.Context, name, email, plainPassword, role string) (repository.User, string, error) {
	const op = "auth.Register"

	if role == "" {
		role = RoleAgent
	}

	hash, err := password.Hash(plainPassword)
	if err != nil {
		return repository.User{}, "", apperr.Internal("Failed to process password").WithOp(op)
	}

	user, err := s.repo.CreateUser(ctx, strings.TrimSpace(name), normalizeEmail(email), hash, role)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return repository.User{}, "", apperr.Conflict("Email already registered").WithOp(op)
		}
		return repository.User{}, "", apperr.Wrap(apperr.KindInternal, "Failed to create user", err).WithOp(op)
	}

	plainToken, err := s.openSession(ctx, user.ID)
	if err != nil {
		return repository.User{}, "", apperr.Wrap(apperr.KindInternal, "Failed to create session", err).WithOp(op)
	}

	s.bus.Publish(ctx, events.UserRegistered{
		BaseEvent: events.NewBaseEvent(),
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
	})

	s.log.AuthEvent("register", user.Email, true, "")
	return user, plainToken, nil
}

// Login verifies credentials and opens a new session. It returns the user and
// the plaintext session token for the cookie; only its hash is stored.
func (s *Service) Login(ctx context.Context, email, plainPassword string) (repository.User, string, error) {
	const op = "auth.Login"

	user, err := s.repo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.User{}, "", apperr.Unauthorized("Invalid email or password").WithOp(op)
		}
		return repository.User{}, "", apperr.Wrap(apperr.KindInternal, "Failed to look up user", err).WithOp(op)
	}

	if !password.Compare(user.PasswordHash, plainPassword) {
		return repository.User{}, "", apperr.Unauthorized("Invalid email or password").WithOp(op)
	}

	plainToken, err := s.openSession(ctx, user.ID)
	if err != nil {
		return repository.User{}, "", apperr.Wrap(apperr.KindInternal, "Failed to create session", err).WithOp(op)
	}

	s.bus.Publish(ctx, events.UserLoggedIn{
		BaseEvent: events.NewBaseEvent(),
		UserID:    user.ID,
		Email:     user.Email,
	})

	s.log.AuthEvent("login", user.Email, true, "")
	return user, plainToken, nil
}

// openSession issues a random session token and stores its hash. Expired
// rows are swept here as housekeeping; lookups already ignore them.
func (s *Service) openSession(ctx context.Context, userID uuid.UUID) (string, error) {
	if _, err := s.repo.DeleteExpiredSessions(ctx); err != nil {
		s.log.Error("failed to sweep expired sessions", "error", err)
	}

	plainToken, err := token.GenerateRandomToken(sessionTokenBytes)
	if err != nil {
		return "", err
	}
	expiresAt := time.Now().Add(s.cfg.GetSessionTTL())
	if _, err := s.repo.CreateSession(ctx, userID, token.HashSHA256(plainToken), expiresAt); err != nil {
		return "", err
	}
	return plainToken, nil
}

// Logout invalidates the session behind the given token. Unknown tokens are
// not an error; logout is idempotent.
func (s *Service) Logout(ctx context.Context, plainToken string) error {
	if plainToken == "" {
		return nil
	}
	return s.repo.DeleteSession(ctx, token.HashSHA256(plainToken))
}

// ResolveSession maps a session token to its user. Used by the auth middleware.
func (s *Service) ResolveSession(ctx context.Context, plainToken string) (repository.User, error) {
	user, err := s.repo.GetUserBySessionToken(ctx, token.HashSHA256(plainToken))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.User{}, apperr.Unauthorized("Session expired or invalid")
		}
		return repository.User{}, apperr.Wrap(apperr.KindInternal, "Failed to resolve session", err)
	}
	return user, nil
}

// GetUser loads a user profile by id.
func (s *Service) GetUser(ctx context.Context, userID uuid.UUID) (repository.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.User{}, apperr.NotFound("User not found")
		}
		return repository.User{}, apperr.Wrap(apperr.KindInternal, "Failed to load user", err)
	}
	return user, nil
}

// ChangePassword verifies the current password, stores the new hash, and
// revokes every existing session for the user.
func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	const op = "auth.ChangePassword"

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "Failed to load user", err).WithOp(op)
	}

	if !password.Compare(user.PasswordHash, current) {
		return apperr.Unauthorized("Current password is incorrect").WithOp(op)
	}

	hash, err := password.Hash(next)
	if err != nil {
		return apperr.Internal("Failed to process password").WithOp(op)
	}

	if err := s.repo.UpdatePassword(ctx, userID, hash); err != nil {
		return apperr.Wrap(apperr.KindInternal, "Failed to update password", err).WithOp(op)
	}

	if err := s.repo.DeleteUserSessions(ctx, userID); err != nil {
		s.log.Error("failed to revoke sessions after password change", "error", err, "userId", userID)
	}

	s.bus.Publish(ctx, events.PasswordChanged{
		BaseEvent: events.NewBaseEvent(),
		UserID:    userID,
	})

	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
