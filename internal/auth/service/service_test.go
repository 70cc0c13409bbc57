package service

import (
	"context"
	"testing"
	"time"

	"leadconvert/internal/auth/password"
	"leadconvert/internal/auth/repository"
	"leadconvert/internal/events"
	"leadconvert/platform/apperr"
	"leadconvert/platform/config"
	"leadconvert/platform/logger"

	"github.com/google/uuid"
)

type fakeStore struct {
	user     repository.User
	sessions []repository.Session
	sweeps   int
}

func (f *fakeStore) CreateUser(_ context.Context, name, email, passwordHash, role string) (repository.User, error) {
	if email == f.user.Email {
		return repository.User{}, repository.ErrDuplicateEmail
	}
	f.user = repository.User{ID: uuid.New(), Name: name, Email: email, PasswordHash: passwordHash, Role: role}
	return f.user, nil
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (repository.User, error) {
	if email != f.user.Email {
		return repository.User{}, repository.ErrNotFound
	}
	return f.user, nil
}

func (f *fakeStore) GetUserByID(_ context.Context, userID uuid.UUID) (repository.User, error) {
	if userID != f.user.ID {
		return repository.User{}, repository.ErrNotFound
	}
	return f.user, nil
}

func (f *fakeStore) UpdatePassword(_ context.Context, _ uuid.UUID, passwordHash string) error {
	f.user.PasswordHash = passwordHash
	return nil
}

func (f *fakeStore) CreateSession(_ context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) (repository.Session, error) {
	session := repository.Session{ID: uuid.New(), UserID: userID, TokenHash: tokenHash, ExpiresAt: expiresAt}
	f.sessions = append(f.sessions, session)
	return session, nil
}

func (f *fakeStore) GetUserBySessionToken(_ context.Context, tokenHash string) (repository.User, error) {
	for _, s := range f.sessions {
		if s.TokenHash == tokenHash {
			return f.user, nil
		}
	}
	return repository.User{}, repository.ErrNotFound
}

func (f *fakeStore) DeleteSession(_ context.Context, tokenHash string) error {
	kept := f.sessions[:0]
	for _, s := range f.sessions {
		if s.TokenHash != tokenHash {
			kept = append(kept, s)
		}
	}
	f.sessions = kept
	return nil
}

func (f *fakeStore) DeleteUserSessions(context.Context, uuid.UUID) error {
	f.sessions = nil
	return nil
}

func (f *fakeStore) DeleteExpiredSessions(context.Context) (int64, error) {
	f.sweeps++
	return 0, nil
}

type fakeBus struct {
	published []string
}

func (b *fakeBus) Publish(_ context.Context, e events.Event) {
	b.published = append(b.published, e.EventName())
}

func (b *fakeBus) Subscribe(string, events.Handler) {}

func newTestService(store *fakeStore) *Service {
	cfg := &config.Config{SessionTTL: time.Hour, SessionCookieName: "session"}
	return New(store, cfg, &fakeBus{}, logger.New("test"))
}

func seedUser(t *testing.T, email, plain string) repository.User {
	t.Helper()
	hash, err := password.Hash(plain)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return repository.User{ID: uuid.New(), Name: "Agent", Email: email, PasswordHash: hash, Role: RoleAgent}
}

func TestLogin_OpensSessionAndSweepsExpired(t *testing.T) {
	store := &fakeStore{user: seedUser(t, "agent@example.com", "hunter22")}
	svc := newTestService(store)

	user, sessionToken, err := svc.Login(context.Background(), "Agent@Example.com", "hunter22")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user.ID != store.user.ID {
		t.Errorf("unexpected user returned: %s", user.ID)
	}
	if sessionToken == "" {
		t.Error("expected a session token")
	}
	if len(store.sessions) != 1 {
		t.Fatalf("expected one session, got %d", len(store.sessions))
	}
	if store.sessions[0].TokenHash == sessionToken {
		t.Error("session must store the token hash, not the plaintext token")
	}
	if store.sweeps != 1 {
		t.Errorf("expected one expired-session sweep, got %d", store.sweeps)
	}
}

func TestLogin_WrongPasswordLeavesNoSession(t *testing.T) {
	store := &fakeStore{user: seedUser(t, "agent@example.com", "hunter22")}
	svc := newTestService(store)

	_, _, err := svc.Login(context.Background(), "agent@example.com", "wrong")
	if apperr.GetKind(err) != apperr.KindUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if len(store.sessions) != 0 {
		t.Errorf("expected no session after failed login, got %d", len(store.sessions))
	}
	if store.sweeps != 0 {
		t.Errorf("failed login must not touch the session table, got %d sweeps", store.sweeps)
	}
}

func TestRegister_OpensSessionAndSweepsExpired(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store)

	user, sessionToken, err := svc.Register(context.Background(), "New Agent", "new@example.com", "hunter22", "")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.Role != RoleAgent {
		t.Errorf("expected default role agent, got %s", user.Role)
	}
	if sessionToken == "" {
		t.Error("expected a session token")
	}
	if len(store.sessions) != 1 {
		t.Fatalf("expected one session, got %d", len(store.sessions))
	}
	if store.sweeps != 1 {
		t.Errorf("expected one expired-session sweep, got %d", store.sweeps)
	}
}
