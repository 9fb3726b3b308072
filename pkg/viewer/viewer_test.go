package viewer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wireEvent(id, commentary string) Event {
	return Event{
		ID:         id,
		MatchID:    "match-001",
		TeamHome:   "Lakers",
		TeamAway:   "Warriors",
		ScoreHome:  98,
		ScoreAway:  95,
		Commentary: commentary,
		IsActive:   true,
		CreatedAt:  time.Now().UTC(),
	}
}

// feedServer is a scripted stand-in for the real service. Each accepted
// connection waits for the subscribe frame, replies with the configured
// history, then relays whatever is pushed through live.
type feedServer struct {
	t        *testing.T
	upgrader websocket.Upgrader

	mu       sync.Mutex
	history  []Event
	snapshot []Event

	live      chan Event
	dropAfter chan struct{} // when non-nil, the connection closes on receive
	conns     int
}

func newFeedServer(t *testing.T) *feedServer {
	return &feedServer{t: t, live: make(chan Event, 16)}
}

func (s *feedServer) setHistory(events []Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = events
}

func (s *feedServer) setSnapshot(events []Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = events
}

func (s *feedServer) connCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conns
}

func (s *feedServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/live-commentary", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		snap := s.snapshot
		s.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(snap)
	})
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		s.mu.Lock()
		s.conns++
		history := s.history
		drop := s.dropAfter
		s.mu.Unlock()

		var sub struct {
			Type    string `json:"type"`
			Channel string `json:"channel"`
		}
		if err := conn.ReadJSON(&sub); err != nil {
			return
		}
		if sub.Type != "subscribe" || sub.Channel != "live-commentary" {
			s.t.Errorf("unexpected handshake frame: %+v", sub)
			return
		}

		if err := conn.WriteJSON(map[string]any{"type": "live-commentary-history", "data": history}); err != nil {
			return
		}

		for {
			select {
			case ev := <-s.live:
				if err := conn.WriteJSON(map[string]any{"type": "live-commentary", "data": ev}); err != nil {
					return
				}
			case <-drop:
				return
			}
		}
	})
	return mux
}

func startViewer(t *testing.T, srv *httptest.Server, opts ...Option) *Viewer {
	t.Helper()
	opts = append([]Option{WithReconnectDelay(20 * time.Millisecond)}, opts...)
	v, err := New(srv.URL, opts...)
	require.NoError(t, err)
	v.Start(context.Background())
	t.Cleanup(v.Close)
	return v
}

func TestViewerSubscribesAndReceivesHistory(t *testing.T) {
	feed := newFeedServer(t)
	feed.setHistory([]Event{wireEvent("b", "three pointer"), wireEvent("a", "tip off")})
	srv := httptest.NewServer(feed.handler())
	defer srv.Close()

	v := startViewer(t, srv)

	require.Eventually(t, func() bool {
		return v.State() == StateSubscribed
	}, 2*time.Second, 10*time.Millisecond)

	view := v.View()
	require.Len(t, view, 2)
	assert.Equal(t, "b", view[0].ID)
	assert.Equal(t, "a", view[1].ID)
}

func TestViewerPrependsLiveEventsNewestFirst(t *testing.T) {
	feed := newFeedServer(t)
	feed.setHistory([]Event{wireEvent("a", "tip off")})
	srv := httptest.NewServer(feed.handler())
	defer srv.Close()

	v := startViewer(t, srv)
	require.Eventually(t, func() bool {
		return v.State() == StateSubscribed
	}, 2*time.Second, 10*time.Millisecond)

	feed.live <- wireEvent("b", "and one")
	feed.live <- wireEvent("c", "timeout")

	require.Eventually(t, func() bool {
		return len(v.View()) == 3
	}, 2*time.Second, 10*time.Millisecond)

	view := v.View()
	assert.Equal(t, []string{"c", "b", "a"}, []string{view[0].ID, view[1].ID, view[2].ID})
}

func TestViewerTruncatesToWindow(t *testing.T) {
	feed := newFeedServer(t)
	feed.setHistory([]Event{wireEvent("c", ""), wireEvent("b", ""), wireEvent("a", "")})
	srv := httptest.NewServer(feed.handler())
	defer srv.Close()

	v := startViewer(t, srv, WithWindow(3))
	require.Eventually(t, func() bool {
		return v.State() == StateSubscribed
	}, 2*time.Second, 10*time.Millisecond)

	feed.live <- wireEvent("d", "buzzer beater")

	require.Eventually(t, func() bool {
		view := v.View()
		return len(view) == 3 && view[0].ID == "d"
	}, 2*time.Second, 10*time.Millisecond)

	view := v.View()
	assert.Equal(t, []string{"d", "c", "b"}, []string{view[0].ID, view[1].ID, view[2].ID})
}

func TestViewerReconnectsAndCatchesUp(t *testing.T) {
	feed := newFeedServer(t)
	feed.setHistory([]Event{wireEvent("a", "tip off")})
	drop := make(chan struct{})
	feed.dropAfter = drop
	srv := httptest.NewServer(feed.handler())
	defer srv.Close()

	var statesMu sync.Mutex
	var states []State
	v := startViewer(t, srv, WithStateFunc(func(s State) {
		statesMu.Lock()
		states = append(states, s)
		statesMu.Unlock()
	}))

	require.Eventually(t, func() bool {
		return v.State() == StateSubscribed
	}, 2*time.Second, 10*time.Millisecond)

	// Kill the first connection; events published while the viewer is
	// away must show up in the post-reconnect history.
	feed.setHistory([]Event{wireEvent("b", "missed while away"), wireEvent("a", "tip off")})
	feed.mu.Lock()
	feed.dropAfter = nil
	feed.mu.Unlock()
	close(drop)

	require.Eventually(t, func() bool {
		return feed.connCount() >= 2 && len(v.View()) == 2
	}, 2*time.Second, 10*time.Millisecond)

	view := v.View()
	assert.Equal(t, "b", view[0].ID)

	statesMu.Lock()
	defer statesMu.Unlock()
	assert.Contains(t, states, StateDisconnected)
	assert.Equal(t, StateSubscribed, states[len(states)-1])
}

func TestViewerLateSnapshotDoesNotOverrideHistory(t *testing.T) {
	feed := newFeedServer(t)
	feed.setHistory([]Event{wireEvent("fresh", "from handshake")})

	release := make(chan struct{})
	mux := http.NewServeMux()
	mux.HandleFunc("/api/live-commentary", func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]Event{wireEvent("stale", "from snapshot")})
	})
	mux.Handle("/ws", feed.handler())
	srv := httptest.NewServer(mux)
	defer srv.Close()

	v := startViewer(t, srv)
	require.Eventually(t, func() bool {
		return v.State() == StateSubscribed
	}, 2*time.Second, 10*time.Millisecond)
	close(release)

	// The snapshot response lands after the handshake history and must
	// be discarded, not applied.
	time.Sleep(100 * time.Millisecond)
	view := v.View()
	require.Len(t, view, 1)
	assert.Equal(t, "fresh", view[0].ID)
}

func TestViewerUpdatesChannelDeliversLiveEvents(t *testing.T) {
	feed := newFeedServer(t)
	srv := httptest.NewServer(feed.handler())
	defer srv.Close()

	v := startViewer(t, srv)
	require.Eventually(t, func() bool {
		return v.State() == StateSubscribed
	}, 2*time.Second, 10*time.Millisecond)

	feed.live <- wireEvent("x", "steal and score")

	select {
	case ev := <-v.Updates():
		assert.Equal(t, "x", ev.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("no update delivered")
	}
}
