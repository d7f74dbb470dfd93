package portal

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"course-portal/internal/domain/user"
	"course-portal/internal/infrastructure/storage"
	"course-portal/pkg/logger"
)

// AuthStorageKey is where the session survives process restarts.
const AuthStorageKey = "auth-storage"

const loginFallback = "Login failed"

// Authenticator is the identity collaborator.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*user.LoginResponse, error)
}

// SessionStatus is the coarse state of the session.
type SessionStatus int

const (
	StatusAnonymous SessionStatus = iota
	StatusAuthenticating
	StatusAuthenticated
	StatusAuthFailed
)

func (s SessionStatus) String() string {
	switch s {
	case StatusAuthenticating:
		return "authenticating"
	case StatusAuthenticated:
		return "authenticated"
	case StatusAuthFailed:
		return "auth_failed"
	default:
		return "anonymous"
	}
}

type persistedState struct {
	User  *user.User `json:"user"`
	Token *string    `json:"token"`
}

type persistedSession struct {
	State   persistedState `json:"state"`
	Version int            `json:"version"`
	SavedAt *time.Time     `json:"saved_at,omitempty"`
}

// SessionManager holds the student's identity and bearer token. Only user and
// token are persisted; loading and error are process-local.
type SessionManager struct {
	auth   Authenticator
	store  storage.KeyValueStore
	maxAge time.Duration
	now    func() time.Time

	mu      sync.RWMutex
	user    *user.User
	token   string
	loading bool
	err     string
}

type SessionOption func(*SessionManager)

// WithMaxAge makes Restore discard sessions saved longer ago than d.
// Zero keeps every persisted session.
func WithMaxAge(d time.Duration) SessionOption {
	return func(s *SessionManager) {
		s.maxAge = d
	}
}

// WithClock overrides time.Now for saved_at stamps and max-age checks.
func WithClock(now func() time.Time) SessionOption {
	return func(s *SessionManager) {
		s.now = now
	}
}

func NewSessionManager(auth Authenticator, store storage.KeyValueStore, opts ...SessionOption) *SessionManager {
	s := &SessionManager{
		auth:  auth,
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Restore loads the persisted identity. A missing entry leaves the session
// anonymous; an unreadable one is reported and ignored.
func (s *SessionManager) Restore(ctx context.Context) error {
	raw, found, err := s.store.Get(ctx, AuthStorageKey)
	if err != nil {
		return fmt.Errorf("failed to read session: %w", err)
	}
	if !found || raw == "" {
		return nil
	}

	var saved persistedSession
	if err := json.Unmarshal([]byte(raw), &saved); err != nil {
		return fmt.Errorf("failed to decode session: %w", err)
	}

	if s.maxAge > 0 && saved.SavedAt != nil && s.now().Sub(*saved.SavedAt) > s.maxAge {
		logger.WithField("saved_at", saved.SavedAt).Info("Discarding expired session")
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.token = ""
	if saved.State.User != nil {
		u := *saved.State.User
		s.user = &u
	}
	if saved.State.Token != nil {
		s.token = *saved.State.Token
	}
	return nil
}

// Login authenticates against the collaborator. On failure the previous
// identity is left untouched.
func (s *SessionManager) Login(ctx context.Context, username, password string) Result {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()

	resp, err := s.auth.Login(ctx, username, password)
	if err != nil {
		res := failure(err, loginFallback)
		s.mu.Lock()
		s.loading = false
		s.err = res.Error
		s.mu.Unlock()
		logger.WithFields(map[string]interface{}{
			"username": username,
			"kind":     res.Kind,
		}).Warn("Login failed")
		return res
	}

	u := resp.Student
	s.mu.Lock()
	s.user = &u
	s.token = resp.Token
	s.loading = false
	s.err = ""
	s.mu.Unlock()

	if err := s.persist(ctx, &u, &resp.Token); err != nil {
		logger.WithField("error", err).Warn("Session not persisted")
	}
	return ok()
}

// Logout forgets the identity. The persisted entry is overwritten with nulls
// rather than removed; the returned error only reports a failed write.
func (s *SessionManager) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.err = ""
	s.mu.Unlock()

	return s.persist(ctx, nil, nil)
}

func (s *SessionManager) persist(ctx context.Context, u *user.User, token *string) error {
	savedAt := s.now().UTC()
	data, err := json.Marshal(persistedSession{
		State:   persistedState{User: u, Token: token},
		Version: 0,
		SavedAt: &savedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := s.store.Set(ctx, AuthStorageKey, string(data)); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

func (s *SessionManager) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.token != ""
}

// User returns a copy of the current identity, or nil.
func (s *SessionManager) User() *user.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *SessionManager) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *SessionManager) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *SessionManager) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *SessionManager) ClearError() {
	s.mu.Lock()
	s.err = ""
	s.mu.Unlock()
}

// Status reports a held identity ahead of an error: a failed re-login keeps
// the previous session, so it stays Authenticated while Error is set.
func (s *SessionManager) Status() SessionStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch {
	case s.loading:
		return StatusAuthenticating
	case s.user != nil && s.token != "":
		return StatusAuthenticated
	case s.err != "":
		return StatusAuthFailed
	default:
		return StatusAnonymous
	}
}
