package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/kagwathi/movenow-dashboard/internal/api"
	"github.com/kagwathi/movenow-dashboard/internal/models"
	"github.com/kagwathi/movenow-dashboard/internal/observability"
)

// Phase is the auth lifecycle of one dashboard session. Initialization
// moves Unknown through Provisional (cached credentials accepted
// optimistically) to Authenticated once the profile fetch confirms them,
// or to Anonymous when it does not.
type Phase int

const (
	PhaseUnknown Phase = iota
	PhaseProvisional
	PhaseAuthenticated
	PhaseAnonymous
)

func (p Phase) String() string {
	switch p {
	case PhaseProvisional:
		return "provisional"
	case PhaseAuthenticated:
		return "authenticated"
	case PhaseAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// AuthAPI is the slice of the API client the manager needs.
type AuthAPI interface {
	Login(ctx context.Context, creds api.Credentials) (*api.AuthResponse, error)
	Register(ctx context.Context, reg api.Registration) (*api.AuthResponse, error)
	Profile(ctx context.Context) (*models.User, error)
	Logout(ctx context.Context) error
}

// Manager owns the current-user state for one dashboard session. It is
// constructed explicitly and handed to views; nothing here is package
// global. All reads of upstream state go through the injected AuthAPI.
type Manager struct {
	auth  AuthAPI
	store Store
	sid   string

	mu      sync.Mutex
	phase   Phase
	user    *models.User
	loading bool
}

func NewManager(auth AuthAPI, store Store, sid string) *Manager {
	return &Manager{auth: auth, store: store, sid: sid, phase: PhaseUnknown}
}

// Initialize restores the session from the store. Cached credentials are
// trusted provisionally, then confirmed with a profile fetch; any failure
// there clears local state without touching the server.
func (m *Manager) Initialize(ctx context.Context) error {
	m.mu.Lock()
	m.loading = true
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		m.loading = false
		m.mu.Unlock()
	}()

	ctx = WithSessionID(ctx, m.sid)

	tok, hasTok, err := m.store.Get(ctx, m.sid, KeyToken)
	if err != nil {
		return fmt.Errorf("read session token: %w", err)
	}
	rawUser, hasUser, err := m.store.Get(ctx, m.sid, KeyUser)
	if err != nil {
		return fmt.Errorf("read session user: %w", err)
	}
	if !hasTok || tok == "" || !hasUser {
		m.clearLocal(ctx)
		return nil
	}

	var cached models.User
	if err := json.Unmarshal([]byte(rawUser), &cached); err != nil {
		m.clearLocal(ctx)
		return nil
	}

	m.mu.Lock()
	m.user = &cached
	m.phase = PhaseProvisional
	m.mu.Unlock()

	fresh, err := m.auth.Profile(ctx)
	if err != nil {
		// The 401 hook has already dropped the stored pair when the token
		// was rejected; clear the in-memory mirror either way.
		m.clearLocal(ctx)
		return nil
	}

	if err := m.persistUser(ctx, fresh); err != nil {
		return err
	}
	m.mu.Lock()
	m.user = fresh
	m.phase = PhaseAuthenticated
	m.mu.Unlock()
	return nil
}

// Login exchanges credentials for a token and persists the pair.
func (m *Manager) Login(ctx context.Context, email, password string) (*models.User, error) {
	ctx = WithSessionID(ctx, m.sid)
	resp, err := m.auth.Login(ctx, api.Credentials{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	if resp.Token == "" || resp.User == nil {
		return nil, errors.New("login succeeded but the response was incomplete")
	}
	if err := m.persist(ctx, resp.Token, resp.User); err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.user = resp.User
	m.phase = PhaseAuthenticated
	m.mu.Unlock()
	observability.SessionsActive.Inc()
	return resp.User, nil
}

// Register creates an account; on success the session is established
// exactly as after login. Server-side field errors surface as one
// combined banner message, with the per-field map still reachable
// through errors.As for forms that render errors inline.
func (m *Manager) Register(ctx context.Context, reg api.Registration) (*models.User, error) {
	ctx = WithSessionID(ctx, m.sid)
	resp, err := m.auth.Register(ctx, reg)
	if err != nil {
		var apiErr *api.APIError
		if errors.As(err, &apiErr) && len(apiErr.Fields) > 0 {
			return nil, &registrationError{apiErr: apiErr}
		}
		return nil, err
	}
	if resp.Token == "" || resp.User == nil {
		return nil, errors.New("registration succeeded but the response was incomplete")
	}
	if err := m.persist(ctx, resp.Token, resp.User); err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.user = resp.User
	m.phase = PhaseAuthenticated
	m.mu.Unlock()
	observability.SessionsActive.Inc()
	return resp.User, nil
}

// registrationError reads as the combined field message while keeping
// the wrapped *api.APIError reachable for inline rendering.
type registrationError struct {
	apiErr *api.APIError
}

func (e *registrationError) Error() string { return e.apiErr.CombinedMessage() }
func (e *registrationError) Unwrap() error { return e.apiErr }

// Logout tells the server best-effort and always clears local state.
// The token is re-read after the upstream call: a 401 there means the
// hook already cleared the session and released the gauge.
func (m *Manager) Logout(ctx context.Context) {
	ctx = WithSessionID(ctx, m.sid)
	_ = m.auth.Logout(ctx) // failure is ignored on purpose
	_, hadToken, _ := m.store.Get(ctx, m.sid, KeyToken)
	m.clearLocal(ctx)
	if hadToken {
		observability.SessionsActive.Dec()
	}
}

// Peek restores the cached user without the confirming profile fetch.
// Route guards use it; pages that must be sure call Initialize.
func (m *Manager) Peek(ctx context.Context) *models.User {
	rawUser, ok, err := m.store.Get(ctx, m.sid, KeyUser)
	if err != nil || !ok {
		return nil
	}
	tok, ok, err := m.store.Get(ctx, m.sid, KeyToken)
	if err != nil || !ok || tok == "" {
		return nil
	}
	var u models.User
	if json.Unmarshal([]byte(rawUser), &u) != nil {
		return nil
	}
	m.mu.Lock()
	m.user = &u
	if m.phase == PhaseUnknown {
		m.phase = PhaseProvisional
	}
	m.mu.Unlock()
	return &u
}

func (m *Manager) CurrentUser() *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user
}

// Authenticated is true exactly when a token is held: provisional
// sessions count until the profile check says otherwise.
func (m *Manager) Authenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user != nil && (m.phase == PhaseProvisional || m.phase == PhaseAuthenticated)
}

// Loading is true only while Initialize is running.
func (m *Manager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

func (m *Manager) Phase() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase
}

func (m *Manager) SessionID() string { return m.sid }

func (m *Manager) persist(ctx context.Context, token string, u *models.User) error {
	if err := m.store.Set(ctx, m.sid, KeyToken, token); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	return m.persistUser(ctx, u)
}

func (m *Manager) persistUser(ctx context.Context, u *models.User) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := m.store.Set(ctx, m.sid, KeyUser, string(raw)); err != nil {
		return fmt.Errorf("persist user: %w", err)
	}
	return nil
}

func (m *Manager) clearLocal(ctx context.Context) {
	_ = m.store.Clear(ctx, m.sid)
	m.mu.Lock()
	m.user = nil
	m.phase = PhaseAnonymous
	m.mu.Unlock()
}
