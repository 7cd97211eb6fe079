// Package session holds the bearer token issued at login and hands it to the
// HTTP client as an [oauth2.TokenSource].
//
// The token is the only state the client persists. Its JWT claims are decoded
// without verification; the backend remains the authority on validity.
package session

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/desertthunder/readtrack/internal/shared"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

// TokenKey is the store key the token is persisted under.
const TokenKey = "token"

// Store persists string values by key. [repositories.KVRepository] satisfies it.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

// Claims are the parts of the token the client reads.
type Claims struct {
	UserID    int64
	ExpiresAt time.Time
}

// Expired reports whether the token's exp claim is before now.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

// Session is the explicit auth header provider. Pass it to the API client
// instead of reading a token from global state.
type Session struct {
	mu     sync.Mutex
	store  Store
	token  string
	loaded bool
}

// New creates a session backed by store. The token is read lazily.
func New(store Store) *Session {
	return &Session{store: store}
}

func (s *Session) load() error {
	if s.loaded {
		return nil
	}
	token, err := s.store.Get(TokenKey)
	switch {
	case errors.Is(err, shared.ErrKeyNotFound):
		token = ""
	case err != nil:
		return fmt.Errorf("failed to read session: %w", err)
	}
	s.token = token
	s.loaded = true
	return nil
}

// Raw returns the stored token, or "" when logged out.
func (s *Session) Raw() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return "", err
	}
	return s.token, nil
}

// Authenticated reports whether a token is present.
func (s *Session) Authenticated() bool {
	token, err := s.Raw()
	return err == nil && token != ""
}

// Save persists token as the current session.
func (s *Session) Save(token string) error {
	if token == "" {
		return fmt.Errorf("%w: empty token", shared.ErrAuthFailed)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Set(TokenKey, token); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	s.token = token
	s.loaded = true
	return nil
}

// Clear removes the token (logout).
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Delete(TokenKey); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	s.token = ""
	s.loaded = true
	return nil
}

// Token implements [oauth2.TokenSource]. It fails with [shared.ErrNotAuthenticated]
// when no one is logged in. Expired tokens are still returned so the server's
// 401 message reaches the user.
func (s *Session) Token() (*oauth2.Token, error) {
	raw, err := s.Raw()
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, fmt.Errorf("%w: run `readtrack auth login` first", shared.ErrNotAuthenticated)
	}
	return &oauth2.Token{AccessToken: raw, TokenType: "Bearer"}, nil
}

// Claims decodes the stored token's user_id and exp claims.
func (s *Session) Claims() (Claims, error) {
	raw, err := s.Raw()
	if err != nil {
		return Claims{}, err
	}
	if raw == "" {
		return Claims{}, shared.ErrNotAuthenticated
	}
	return ParseClaims(raw)
}

// UserID returns the logged-in user's id, or 0 when unknown.
func (s *Session) UserID() int64 {
	c, err := s.Claims()
	if err != nil {
		return 0
	}
	return c.UserID
}

// ParseClaims reads claims from a JWT without checking its signature.
func ParseClaims(raw string) (Claims, error) {
	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, mc); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", shared.ErrMalformedToken, err)
	}

	var c Claims
	switch id := mc["user_id"].(type) {
	case float64:
		c.UserID = int64(id)
	case string:
		if n, err := strconv.ParseInt(id, 10, 64); err == nil {
			c.UserID = n
		}
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	return c, nil
}

// MemoryStore is an in-process [Store] for tests and throwaway sessions.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryStore returns an empty [MemoryStore].
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: map[string]string{}}
}

func (m *MemoryStore) Get(key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", shared.ErrKeyNotFound, key)
	}
	return v, nil
}

func (m *MemoryStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
