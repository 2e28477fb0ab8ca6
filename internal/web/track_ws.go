package web

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/kagwathi/movenow-dashboard/internal/api"
	"github.com/kagwathi/movenow-dashboard/internal/models"
	"github.com/kagwathi/movenow-dashboard/internal/observability"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// trackRelay pushes live booking updates to connected pages. The browser
// holds a socket; the relay polls the upstream track endpoint on a ticker
// and forwards changes until the booking reaches a terminal status or the
// client goes away.
type trackRelay struct {
	api      *api.Client
	interval time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	streams map[*websocket.Conn]struct{}
}

func newTrackRelay(client *api.Client, interval time.Duration, logger *slog.Logger) *trackRelay {
	return &trackRelay{
		api:      client,
		interval: interval,
		logger:   logger,
		streams:  make(map[*websocket.Conn]struct{}),
	}
}

func (s *Server) handleTrackSocket(w http.ResponseWriter, r *http.Request) {
	bookingID := mux.Vars(r)["id"]
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		s.logger.Warn("ws upgrade failed", "error", err)
		return
	}
	s.tracker.run(r.Context(), conn, bookingID)
}

// closeAll ends every live stream. http.Server.Shutdown does not touch
// hijacked connections, so shutdown calls this explicitly.
func (t *trackRelay) closeAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	deadline := time.Now().Add(time.Second)
	for conn := range t.streams {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			deadline)
		_ = conn.Close()
	}
}

func (t *trackRelay) run(ctx context.Context, conn *websocket.Conn, bookingID string) {
	defer conn.Close()

	t.mu.Lock()
	t.streams[conn] = struct{}{}
	t.mu.Unlock()
	observability.TrackingStreams.Inc()
	defer func() {
		t.mu.Lock()
		delete(t.streams, conn)
		t.mu.Unlock()
		observability.TrackingStreams.Dec()
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Read pump exists only to notice the client closing the tab.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	// First update straight away, then on the ticker.
	if done := t.pushUpdate(ctx, conn, bookingID); done {
		return
	}
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if done := t.pushUpdate(ctx, conn, bookingID); done {
				return
			}
		}
	}
}

// pushUpdate polls upstream once and forwards the result. Returns true
// when the stream should end: terminal booking status, a rejected
// session, or a dead socket.
func (t *trackRelay) pushUpdate(ctx context.Context, conn *websocket.Conn, bookingID string) bool {
	update, err := t.api.TrackBooking(ctx, bookingID)
	if err != nil {
		if api.IsUnauthorized(err) {
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "session expired"),
				time.Now().Add(time.Second))
			return true
		}
		// Transient upstream trouble: keep the socket, try next tick.
		t.logger.Warn("track poll failed", "booking_id", bookingID, "error", err)
		return false
	}
	if err := conn.WriteJSON(update); err != nil {
		return true
	}
	return update.Status == models.BookingCompleted || update.Status == models.BookingCancelled
}
