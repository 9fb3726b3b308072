// Package viewer implements the consuming side of the live-commentary
// protocol: the initial snapshot fetch, the subscribe handshake, live
// updates, and a perpetual fixed-delay reconnect loop.
//
// The connection lifecycle is modeled as an explicit state machine
// (Disconnected -> Connecting -> Open -> Subscribed -> Disconnected) so
// callers and tests can observe where a viewer is instead of inferring it
// from side effects.
package viewer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// DefaultReconnectDelay is the fixed pause between reconnect attempts.
// Reconnection is perpetual: the feed is essential live content, so there
// is no backoff and no retry cap.
const DefaultReconnectDelay = 5 * time.Second

// DefaultWindow is the number of events the local view retains.
const DefaultWindow = 20

// State identifies where a viewer is in its connection lifecycle.
type State int

// Lifecycle states.
const (
	StateDisconnected State = iota
	StateConnecting
	StateOpen
	StateSubscribed
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateSubscribed:
		return "subscribed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Event mirrors the commentary event wire shape.
type Event struct {
	ID         string    `json:"id"`
	MatchID    string    `json:"matchId"`
	TeamHome   string    `json:"teamHome"`
	TeamAway   string    `json:"teamAway"`
	ScoreHome  int       `json:"scoreHome"`
	ScoreAway  int       `json:"scoreAway"`
	Commentary string    `json:"commentary"`
	MatchTime  *string   `json:"matchTime"`
	IsActive   bool      `json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
}

// frame is the discriminated envelope received from the server.
type frame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// subscribeFrame is the only message a viewer sends.
type subscribeFrame struct {
	Type    string `json:"type"`
	Channel string `json:"channel"`
}

// Viewer maintains a live, windowed, newest-first view of the commentary
// feed across connection failures.
type Viewer struct {
	snapshotURL    string
	wsURL          string
	window         int
	reconnectDelay time.Duration
	dialer         *websocket.Dialer
	client         *http.Client
	onState        func(State)

	mu         sync.Mutex
	view       []Event
	state      State
	gotHistory bool // history received on the current connection

	updates chan Event

	startOnce sync.Once
	cancel    context.CancelFunc
	done      chan struct{}
}

// New creates a viewer for the service at baseURL (e.g. "http://host:9080").
// The snapshot endpoint and the upgrade endpoint are derived from it.
func New(baseURL string, opts ...Option) (*Viewer, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	wsScheme := "ws"
	if u.Scheme == "https" {
		wsScheme = "wss"
	}

	v := &Viewer{
		snapshotURL:    baseURL + "/api/live-commentary",
		wsURL:          wsScheme + "://" + u.Host + "/ws",
		window:         DefaultWindow,
		reconnectDelay: DefaultReconnectDelay,
		dialer:         websocket.DefaultDialer,
		client:         http.DefaultClient,
		updates:        make(chan Event, DefaultWindow),
		done:           make(chan struct{}),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// Start launches the connection lifecycle. It returns immediately; the
// viewer keeps reconnecting until ctx is canceled or Close is called.
func (v *Viewer) Start(ctx context.Context) {
	v.startOnce.Do(func() {
		runCtx, cancel := context.WithCancel(ctx)
		v.cancel = cancel
		go v.run(runCtx)
	})
}

// Close stops the viewer and waits for its goroutine to exit.
func (v *Viewer) Close() {
	if v.cancel != nil {
		v.cancel()
		<-v.done
	}
}

// State returns the current lifecycle state.
func (v *Viewer) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// View returns a copy of the local event window, newest-first.
func (v *Viewer) View() []Event {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]Event, len(v.view))
	copy(out, v.view)
	return out
}

// Updates delivers live events as they arrive. The channel is buffered;
// when a consumer lags, events are dropped from the channel but still
// applied to the view.
func (v *Viewer) Updates() <-chan Event {
	return v.updates
}

func (v *Viewer) run(ctx context.Context) {
	defer close(v.done)
	for {
		v.setState(StateConnecting)

		conn, resp, err := v.dialer.DialContext(ctx, v.wsURL, nil)
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
		if err != nil {
			v.setState(StateDisconnected)
			if !v.pause(ctx) {
				return
			}
			continue
		}

		v.setState(StateOpen)
		v.mu.Lock()
		v.gotHistory = false
		v.mu.Unlock()

		// The snapshot fetch is independent of the handshake; it fills
		// the view while the subscribe round-trip is in flight.
		go v.fetchSnapshot(ctx)

		if err := conn.WriteJSON(subscribeFrame{Type: "subscribe", Channel: "live-commentary"}); err == nil {
			v.readLoop(ctx, conn)
		}
		_ = conn.Close()

		v.setState(StateDisconnected)
		if !v.pause(ctx) {
			return
		}
	}
}

// readLoop consumes frames until the connection drops or ctx is canceled.
// Unknown and malformed frames are ignored.
func (v *Viewer) readLoop(ctx context.Context, conn *websocket.Conn) {
	readDone := make(chan struct{})
	defer close(readDone)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close() // unblocks ReadMessage
		case <-readDone:
		}
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var f frame
		if err := json.Unmarshal(raw, &f); err != nil {
			continue
		}
		switch f.Type {
		case "live-commentary-history":
			var events []Event
			if err := json.Unmarshal(f.Data, &events); err != nil {
				continue
			}
			v.applyHistory(events)
		case "live-commentary":
			var ev Event
			if err := json.Unmarshal(f.Data, &ev); err != nil {
				continue
			}
			v.applyLive(ev)
		}
	}
}

// fetchSnapshot populates the initial view from the REST endpoint. The
// handshake history is authoritative: once it has arrived on the current
// connection, a late snapshot response is discarded rather than allowed to
// roll the view back.
func (v *Viewer) fetchSnapshot(ctx context.Context) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.snapshotURL, nil)
	if err != nil {
		return
	}
	resp, err := v.client.Do(req)
	if err != nil {
		return
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return
	}

	var events []Event
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		return
	}

	v.mu.Lock()
	if !v.gotHistory {
		v.view = truncate(events, v.window)
	}
	v.mu.Unlock()
}

func (v *Viewer) applyHistory(events []Event) {
	v.mu.Lock()
	v.view = truncate(events, v.window)
	v.gotHistory = true
	v.mu.Unlock()
	v.setState(StateSubscribed)
}

func (v *Viewer) applyLive(ev Event) {
	v.mu.Lock()
	v.view = truncate(append([]Event{ev}, v.view...), v.window)
	v.mu.Unlock()

	select {
	case v.updates <- ev:
	default:
	}
}

func (v *Viewer) setState(s State) {
	v.mu.Lock()
	changed := v.state != s
	v.state = s
	v.mu.Unlock()
	if changed && v.onState != nil {
		v.onState(s)
	}
}

// pause waits the reconnect delay. Returns false when ctx ends first.
func (v *Viewer) pause(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(v.reconnectDelay):
		return true
	}
}

func truncate(events []Event, n int) []Event {
	if len(events) > n {
		events = events[:n]
	}
	return events
}
