package session

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kagwathi/movenow-dashboard/internal/api"
	"github.com/kagwathi/movenow-dashboard/internal/models"
	"github.com/kagwathi/movenow-dashboard/internal/observability"
)

type fakeAuth struct {
	loginResp    *api.AuthResponse
	loginErr     error
	registerResp *api.AuthResponse
	registerErr  error
	profileResp  *models.User
	profileErr   error
	logoutErr    error

	logoutCalls  int
	profileCalls int
}

func (f *fakeAuth) Login(context.Context, api.Credentials) (*api.AuthResponse, error) {
	return f.loginResp, f.loginErr
}

func (f *fakeAuth) Register(context.Context, api.Registration) (*api.AuthResponse, error) {
	return f.registerResp, f.registerErr
}

func (f *fakeAuth) Profile(context.Context) (*models.User, error) {
	f.profileCalls++
	return f.profileResp, f.profileErr
}

func (f *fakeAuth) Logout(context.Context) error {
	f.logoutCalls++
	return f.logoutErr
}

func storedPair(t *testing.T, store Store, sid string) (string, string, bool) {
	t.Helper()
	tok, hasTok, err := store.Get(context.Background(), sid, KeyToken)
	if err != nil {
		t.Fatal(err)
	}
	user, hasUser, err := store.Get(context.Background(), sid, KeyUser)
	if err != nil {
		t.Fatal(err)
	}
	return tok, user, hasTok && hasUser
}

func TestLoginPersistsTokenAndUser(t *testing.T) {
	auth := &fakeAuth{loginResp: &api.AuthResponse{
		Token: "tok-1",
		User:  &models.User{ID: "u1", Name: "Jane", Role: models.RoleCustomer},
	}}
	store := NewMemoryStore()
	m := NewManager(auth, store, "sid-1")

	user, err := m.Login(context.Background(), "jane@example.com", "Secret!1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.ID != "u1" {
		t.Fatalf("user = %+v", user)
	}
	if !m.Authenticated() {
		t.Fatal("expected authenticated after login")
	}
	tok, raw, ok := storedPair(t, store, "sid-1")
	if !ok || tok != "tok-1" || !strings.Contains(raw, `"u1"`) {
		t.Fatalf("stored pair = %q / %q", tok, raw)
	}
}

func TestLoginFailureLeavesAnonymous(t *testing.T) {
	auth := &fakeAuth{loginErr: &api.APIError{Status: 400, Message: "Invalid credentials"}}
	store := NewMemoryStore()
	m := NewManager(auth, store, "sid-1")

	_, err := m.Login(context.Background(), "jane@example.com", "wrong")
	if err == nil || err.Error() != "Invalid credentials" {
		t.Fatalf("expected server message, got %v", err)
	}
	if m.Authenticated() {
		t.Fatal("must stay anonymous after a failed login")
	}
	if _, _, ok := storedPair(t, store, "sid-1"); ok {
		t.Fatal("nothing may be persisted on failure")
	}
}

func TestLogoutClearsStateEvenWhenServerRejects(t *testing.T) {
	auth := &fakeAuth{
		loginResp: &api.AuthResponse{Token: "tok-1", User: &models.User{ID: "u1"}},
		logoutErr: errors.New("server unreachable"),
	}
	store := NewMemoryStore()
	m := NewManager(auth, store, "sid-1")
	if _, err := m.Login(context.Background(), "a@b.co", "x"); err != nil {
		t.Fatal(err)
	}

	m.Logout(context.Background())

	if auth.logoutCalls != 1 {
		t.Fatal("server logout must be attempted")
	}
	if m.Authenticated() {
		t.Fatal("expected anonymous after logout")
	}
	if _, _, ok := storedPair(t, store, "sid-1"); ok {
		t.Fatal("persisted storage must be empty after logout")
	}
}

func TestInitializeConfirmsCachedSession(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	store.Set(ctx, "sid-1", KeyToken, "tok-1")
	store.Set(ctx, "sid-1", KeyUser, `{"id":"u1","name":"Old Name","role":"customer"}`)

	auth := &fakeAuth{profileResp: &models.User{ID: "u1", Name: "Fresh Name", Role: models.RoleCustomer}}
	m := NewManager(auth, store, "sid-1")
	if err := m.Initialize(ctx); err != nil {
		t.Fatal(err)
	}
	if m.Phase() != PhaseAuthenticated {
		t.Fatalf("phase = %v", m.Phase())
	}
	if m.CurrentUser().Name != "Fresh Name" {
		t.Fatal("profile fetch must refresh the cached user")
	}
	if auth.profileCalls != 1 {
		t.Fatalf("profile fetched %d times", auth.profileCalls)
	}
}

func TestInitializeClearsRejectedSession(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	store.Set(ctx, "sid-1", KeyToken, "stale")
	store.Set(ctx, "sid-1", KeyUser, `{"id":"u1"}`)

	auth := &fakeAuth{profileErr: &api.APIError{Status: 401, Message: "expired"}}
	m := NewManager(auth, store, "sid-1")
	if err := m.Initialize(ctx); err != nil {
		t.Fatal(err)
	}
	if m.Phase() != PhaseAnonymous {
		t.Fatalf("phase = %v", m.Phase())
	}
	if m.Authenticated() {
		t.Fatal("rejected session must be anonymous")
	}
	if _, _, ok := storedPair(t, store, "sid-1"); ok {
		t.Fatal("rejected session must be cleared from the store")
	}
}

func TestInitializeWithoutCredentialsIsAnonymous(t *testing.T) {
	auth := &fakeAuth{}
	m := NewManager(auth, NewMemoryStore(), "sid-1")
	if err := m.Initialize(context.Background()); err != nil {
		t.Fatal(err)
	}
	if m.Phase() != PhaseAnonymous {
		t.Fatalf("phase = %v", m.Phase())
	}
	if auth.profileCalls != 0 {
		t.Fatal("no profile fetch without cached credentials")
	}
	if m.Loading() {
		t.Fatal("loading must be false once initialization finished")
	}
}

func TestRegisterAggregatesFieldErrors(t *testing.T) {
	auth := &fakeAuth{registerErr: &api.APIError{
		Status:  422,
		Message: "validation failed",
		Fields:  map[string]string{"email": "Email already taken", "phone": "Invalid phone"},
	}}
	m := NewManager(auth, NewMemoryStore(), "sid-1")

	_, err := m.Register(context.Background(), api.Registration{})
	if err == nil {
		t.Fatal("expected error")
	}
	want := "Email already taken. Invalid phone"
	if err.Error() != want {
		t.Fatalf("combined message = %q, want %q", err.Error(), want)
	}
	// The per-field map stays reachable for inline form rendering.
	fields := api.FieldErrors(err)
	if fields["email"] != "Email already taken" || fields["phone"] != "Invalid phone" {
		t.Fatalf("field errors = %v", fields)
	}
}

func TestLogoutAfterForcedClearLeavesGaugeAlone(t *testing.T) {
	auth := &fakeAuth{loginResp: &api.AuthResponse{Token: "tok-1", User: &models.User{ID: "u1"}}}
	store := NewMemoryStore()
	m := NewManager(auth, store, "sid-1")
	ctx := WithSessionID(context.Background(), "sid-1")
	if _, err := m.Login(ctx, "a@b.co", "x"); err != nil {
		t.Fatal(err)
	}

	// A 401 elsewhere already cleared the session and released the gauge.
	ClearOnUnauthorized(store)(ctx)
	before := testutil.ToFloat64(observability.SessionsActive)

	m.Logout(ctx)
	if got := testutil.ToFloat64(observability.SessionsActive); got != before {
		t.Fatalf("gauge = %v after logout of a cleared session, want %v", got, before)
	}
}

func TestPeekRestoresCachedUserWithoutNetwork(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	store.Set(ctx, "sid-1", KeyToken, "tok-1")
	store.Set(ctx, "sid-1", KeyUser, `{"id":"u1","role":"driver"}`)

	auth := &fakeAuth{}
	m := NewManager(auth, store, "sid-1")
	u := m.Peek(ctx)
	if u == nil || u.Role != models.RoleDriver {
		t.Fatalf("peek = %+v", u)
	}
	if auth.profileCalls != 0 {
		t.Fatal("peek must not call the API")
	}
	if m.Phase() != PhaseProvisional {
		t.Fatalf("phase = %v", m.Phase())
	}
}

func TestPeekWithoutTokenIsNil(t *testing.T) {
	store := NewMemoryStore()
	// A user mirror without a token violates the pair invariant and must
	// not count as authenticated.
	store.Set(context.Background(), "sid-1", KeyUser, `{"id":"u1"}`)
	m := NewManager(&fakeAuth{}, store, "sid-1")
	if m.Peek(context.Background()) != nil {
		t.Fatal("peek must require the token")
	}
}
