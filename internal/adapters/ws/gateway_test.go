package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/matchpulse/liveticker/pkg/logger"
)

// recordingService captures gateway callbacks.
type recordingService struct {
	mu           sync.Mutex
	subscribed   []Subscriber
	unsubscribed []Subscriber
}

func (r *recordingService) Subscribe(_ context.Context, sub Subscriber) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subscribed = append(r.subscribed, sub)
}

func (r *recordingService) Unsubscribe(_ context.Context, sub Subscriber) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unsubscribed = append(r.unsubscribed, sub)
}

func (r *recordingService) counts() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subscribed), len(r.unsubscribed)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func dialGateway(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	return conn
}

func TestGatewaySubscribeHandshake(t *testing.T) {
	svc := &recordingService{}
	mux := http.NewServeMux()
	NewGateway(svc, logger.Get()).Register(mux)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	conn := dialGateway(t, srv)
	defer conn.Close()

	if err := conn.WriteJSON(map[string]string{"type": "subscribe", "channel": "live-commentary"}); err != nil {
		t.Fatalf("write handshake: %v", err)
	}

	waitFor(t, func() bool {
		subs, _ := svc.counts()
		return subs == 1
	})
}

func TestGatewayIgnoresMalformedAndUnknownFrames(t *testing.T) {
	svc := &recordingService{}
	mux := http.NewServeMux()
	NewGateway(svc, logger.Get()).Register(mux)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	conn := dialGateway(t, srv)
	defer conn.Close()

	frames := []string{
		"not json at all",
		`{"type":"subscribe","channel":"some-other-channel"}`,
		`{"type":"ping"}`,
	}
	for _, frame := range frames {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
			t.Fatalf("write %q: %v", frame, err)
		}
	}

	// The connection must survive the garbage and still accept the
	// real handshake.
	if err := conn.WriteJSON(map[string]string{"type": "subscribe", "channel": "live-commentary"}); err != nil {
		t.Fatalf("write handshake: %v", err)
	}

	waitFor(t, func() bool {
		subs, _ := svc.counts()
		return subs == 1
	})
}

func TestGatewayUnsubscribesOnDisconnect(t *testing.T) {
	svc := &recordingService{}
	mux := http.NewServeMux()
	NewGateway(svc, logger.Get()).Register(mux)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	conn := dialGateway(t, srv)
	if err := conn.WriteJSON(map[string]string{"type": "subscribe", "channel": "live-commentary"}); err != nil {
		t.Fatalf("write handshake: %v", err)
	}
	waitFor(t, func() bool {
		subs, _ := svc.counts()
		return subs == 1
	})

	conn.Close()

	waitFor(t, func() bool {
		_, unsubs := svc.counts()
		return unsubs == 1
	})
}

func TestGatewaySessionDeliversEnqueuedFrames(t *testing.T) {
	svc := &recordingService{}
	mux := http.NewServeMux()
	NewGateway(svc, logger.Get()).Register(mux)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	conn := dialGateway(t, srv)
	defer conn.Close()

	if err := conn.WriteJSON(map[string]string{"type": "subscribe", "channel": "live-commentary"}); err != nil {
		t.Fatalf("write handshake: %v", err)
	}
	waitFor(t, func() bool {
		subs, _ := svc.counts()
		return subs == 1
	})

	svc.mu.Lock()
	sess := svc.subscribed[0]
	svc.mu.Unlock()

	want := [][]byte{[]byte(`{"a":1}`), []byte(`{"b":2}`), []byte(`{"c":3}`)}
	for _, payload := range want {
		if !sess.Send(payload) {
			t.Fatal("send refused on a live session")
		}
	}

	// Frames arrive in enqueue order.
	for i, payload := range want {
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, raw, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read frame %d: %v", i, err)
		}
		if string(raw) != string(payload) {
			t.Fatalf("frame %d = %q, want %q", i, raw, payload)
		}
	}
}
