package session

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kagwathi/movenow-dashboard/internal/observability"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if _, ok, _ := s.Get(ctx, "sid", KeyToken); ok {
		t.Fatal("empty store must miss")
	}
	if err := s.Set(ctx, "sid", KeyToken, "tok"); err != nil {
		t.Fatal(err)
	}
	v, ok, _ := s.Get(ctx, "sid", KeyToken)
	if !ok || v != "tok" {
		t.Fatalf("got %q/%v", v, ok)
	}
	// Sessions are isolated by ID.
	if _, ok, _ := s.Get(ctx, "other", KeyToken); ok {
		t.Fatal("sessions must not leak across IDs")
	}
}

func TestMemoryStoreClearRemovesAllKeys(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	s.Set(ctx, "sid", KeyToken, "tok")
	s.Set(ctx, "sid", KeyUser, `{"id":"u1"}`)

	if err := s.Clear(ctx, "sid"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := s.Get(ctx, "sid", KeyToken); ok {
		t.Fatal("token must be gone")
	}
	if _, ok, _ := s.Get(ctx, "sid", KeyUser); ok {
		t.Fatal("user must be gone")
	}
}

func TestStoreTokenSourceResolvesFromContext(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	s.Set(ctx, "sid-9", KeyToken, "tok-9")

	ts := &StoreTokenSource{Store: s}
	if _, ok := ts.Token(ctx); ok {
		t.Fatal("no session in context means no token")
	}
	tok, ok := ts.Token(WithSessionID(ctx, "sid-9"))
	if !ok || tok != "tok-9" {
		t.Fatalf("got %q/%v", tok, ok)
	}
}

func TestClearOnUnauthorizedDropsSession(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	s.Set(ctx, "sid", KeyToken, "tok")
	s.Set(ctx, "sid", KeyUser, `{"id":"u1"}`)

	hook := ClearOnUnauthorized(s)
	hook(WithSessionID(ctx, "sid"))

	if _, ok, _ := s.Get(ctx, "sid", KeyToken); ok {
		t.Fatal("401 hook must clear the session")
	}
}

func TestClearOnUnauthorizedReleasesActiveGauge(t *testing.T) {
	s := NewMemoryStore()
	ctx := WithSessionID(context.Background(), "sid")
	s.Set(ctx, "sid", KeyToken, "tok")
	s.Set(ctx, "sid", KeyUser, `{"id":"u1"}`)
	observability.SessionsActive.Inc() // the pair above stands in for a login

	hook := ClearOnUnauthorized(s)
	before := testutil.ToFloat64(observability.SessionsActive)
	hook(ctx)
	if got := testutil.ToFloat64(observability.SessionsActive); got != before-1 {
		t.Fatalf("gauge = %v, want %v", got, before-1)
	}
	// A repeat 401 on the already-cleared session must not drift it down.
	hook(ctx)
	if got := testutil.ToFloat64(observability.SessionsActive); got != before-1 {
		t.Fatalf("gauge = %v after repeat, want %v", got, before-1)
	}
}
