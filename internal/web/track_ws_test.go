package web

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/kagwathi/movenow-dashboard/internal/api"
	"github.com/kagwathi/movenow-dashboard/internal/config"
	"github.com/kagwathi/movenow-dashboard/internal/models"
	"github.com/kagwathi/movenow-dashboard/internal/session"
)

// newTrackEnv starts the dashboard on a real listener so a websocket
// client can dial it, with a customer session already in the store. The
// poll interval is short so status changes arrive within the test.
func newTrackEnv(t *testing.T, upstream http.Handler) (*Server, string) {
	t.Helper()
	up := httptest.NewServer(upstream)
	t.Cleanup(up.Close)

	store := session.NewMemoryStore()
	ctx := context.Background()
	store.Set(ctx, "sid-track", session.KeyToken, "tok-1")
	store.Set(ctx, "sid-track", session.KeyUser, `{"id":"u1","role":"customer"}`)

	client := api.New(up.URL,
		api.WithTokenSource(&session.StoreTokenSource{Store: store}),
		api.WithUnauthorizedHook(session.ClearOnUnauthorized(store)),
	)
	cfg := config.Config{
		SessionCookie:     "movenow_session",
		SessionTTL:        time.Hour,
		TrackPollInterval: 10 * time.Millisecond,
	}
	srv := NewServer(cfg, client, store, slog.New(slog.NewTextHandler(io.Discard, nil)))
	listener := httptest.NewServer(srv)
	t.Cleanup(listener.Close)
	return srv, listener.URL
}

func dialTrack(t *testing.T, baseURL, bookingID string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(baseURL, "http") + "/ws/bookings/" + bookingID
	header := http.Header{"Cookie": {"movenow_session=sid-track"}}
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	return conn
}

func TestTrackingStreamClosesAtTerminalStatus(t *testing.T) {
	var polls int32
	upstream := http.NewServeMux()
	upstream.HandleFunc("/bookings/b1/track", func(w http.ResponseWriter, r *http.Request) {
		status := models.BookingInProgress
		if atomic.AddInt32(&polls, 1) >= 2 {
			status = models.BookingCompleted
		}
		fmt.Fprintf(w, `{"booking_id":"b1","status":%q}`, status)
	})
	_, baseURL := newTrackEnv(t, upstream)
	conn := dialTrack(t, baseURL, "b1")

	var first, second models.TrackingUpdate
	if err := conn.ReadJSON(&first); err != nil {
		t.Fatalf("first update: %v", err)
	}
	if first.Status != models.BookingInProgress {
		t.Fatalf("first status = %q", first.Status)
	}
	if err := conn.ReadJSON(&second); err != nil {
		t.Fatalf("second update: %v", err)
	}
	if second.Status != models.BookingCompleted {
		t.Fatalf("second status = %q", second.Status)
	}
	// The terminal update ends the stream server-side.
	if err := conn.ReadJSON(new(models.TrackingUpdate)); err == nil {
		t.Fatal("expected the socket to close after the terminal update")
	}
}

func TestTrackingStreamClosesOnRejectedSession(t *testing.T) {
	upstream := http.NewServeMux()
	upstream.HandleFunc("/bookings/b2/track", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"expired"}`, http.StatusUnauthorized)
	})
	_, baseURL := newTrackEnv(t, upstream)
	conn := dialTrack(t, baseURL, "b2")

	err := conn.ReadJSON(new(models.TrackingUpdate))
	if !websocket.IsCloseError(err, websocket.ClosePolicyViolation) {
		t.Fatalf("expected a policy-violation close, got %v", err)
	}
}

func TestTrackingStreamSurvivesTransientUpstreamErrors(t *testing.T) {
	var polls int32
	upstream := http.NewServeMux()
	upstream.HandleFunc("/bookings/b3/track", func(w http.ResponseWriter, r *http.Request) {
		switch atomic.AddInt32(&polls, 1) {
		case 1:
			http.Error(w, `{"message":"upstream hiccup"}`, http.StatusBadGateway)
		default:
			fmt.Fprintf(w, `{"booking_id":"b3","status":%q}`, models.BookingInProgress)
		}
	})
	_, baseURL := newTrackEnv(t, upstream)
	conn := dialTrack(t, baseURL, "b3")

	// The first poll fails; the socket must stay open and deliver the
	// next successful one.
	var first models.TrackingUpdate
	if err := conn.ReadJSON(&first); err != nil {
		t.Fatalf("stream must survive a failed poll: %v", err)
	}
	if first.Status != models.BookingInProgress {
		t.Fatalf("delivered status = %q", first.Status)
	}
	if atomic.LoadInt32(&polls) < 2 {
		t.Fatal("the failed poll must be retried")
	}
}

func TestCloseEndsLiveTrackingStreams(t *testing.T) {
	upstream := http.NewServeMux()
	upstream.HandleFunc("/bookings/b4/track", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"booking_id":"b4","status":%q}`, models.BookingDriverAssigned)
	})
	srv, baseURL := newTrackEnv(t, upstream)
	conn := dialTrack(t, baseURL, "b4")

	if err := conn.ReadJSON(new(models.TrackingUpdate)); err != nil {
		t.Fatalf("first update: %v", err)
	}
	srv.Close()
	for {
		if err := conn.ReadJSON(new(models.TrackingUpdate)); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseGoingAway) {
				t.Fatalf("expected a going-away close, got %v", err)
			}
			return
		}
	}
}
