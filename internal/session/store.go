package session

import (
	"context"
	"sync"

	"github.com/kagwathi/movenow-dashboard/internal/observability"
)

// The two values persisted per session, always written and cleared as a
// pair. Everything else the dashboard shows is refetched from the API.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

// Store is the key-value persistence behind session state. It stands in
// for the browser storage the hosted dashboard used, so the manager is
// testable without a real backend.
type Store interface {
	Get(ctx context.Context, sid, key string) (string, bool, error)
	Set(ctx context.Context, sid, key, value string) error
	// Clear removes every key held for the session.
	Clear(ctx context.Context, sid string) error
}

// MemoryStore keeps sessions in process memory. The default for a single
// dashboard instance and for tests.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]map[string]string)}
}

func (m *MemoryStore) Get(_ context.Context, sid, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[sid]
	if !ok {
		return "", false, nil
	}
	v, ok := s[key]
	return v, ok, nil
}

func (m *MemoryStore) Set(_ context.Context, sid, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sid]
	if !ok {
		s = make(map[string]string)
		m.sessions[sid] = s
	}
	s[key] = value
	return nil
}

func (m *MemoryStore) Clear(_ context.Context, sid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sid)
	return nil
}

type ctxKey struct{}

// WithSessionID stamps the dashboard session ID onto the context so the
// shared API client can resolve the caller's bearer token per request.
func WithSessionID(ctx context.Context, sid string) context.Context {
	return context.WithValue(ctx, ctxKey{}, sid)
}

func SessionIDFromContext(ctx context.Context) (string, bool) {
	sid, ok := ctx.Value(ctxKey{}).(string)
	return sid, ok && sid != ""
}

// StoreTokenSource implements the API client's TokenSource on top of a
// Store, resolving the session from the request context.
type StoreTokenSource struct {
	Store Store
}

func (s *StoreTokenSource) Token(ctx context.Context) (string, bool) {
	sid, ok := SessionIDFromContext(ctx)
	if !ok {
		return "", false
	}
	tok, ok, err := s.Store.Get(ctx, sid, KeyToken)
	if err != nil || !ok {
		return "", false
	}
	return tok, true
}

// ClearOnUnauthorized builds the 401 hook: drop the caller's persisted
// credentials no matter which endpoint rejected them. A session that
// actually held a token releases the active-sessions gauge, so forced
// logouts are counted the same as voluntary ones.
func ClearOnUnauthorized(store Store) func(ctx context.Context) {
	return func(ctx context.Context) {
		sid, ok := SessionIDFromContext(ctx)
		if !ok {
			return
		}
		if _, had, _ := store.Get(ctx, sid, KeyToken); had {
			observability.SessionsActive.Dec()
		}
		_ = store.Clear(ctx, sid)
	}
}
