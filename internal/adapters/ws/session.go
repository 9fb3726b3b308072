package ws

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/matchpulse/liveticker/pkg/logger"
	"github.com/matchpulse/liveticker/pkg/metrics"
)

// Session configuration constants.
const (
	defaultSendBuffer = 16
	writeWait         = 10 * time.Second
)

// Subscriber is the delivery target the hub fans out to. Session implements
// it over a real connection; tests substitute doubles.
type Subscriber interface {
	// Send enqueues a pre-encoded frame. Returns false when the
	// subscriber cannot accept it (buffer full or already closed).
	Send(payload []byte) bool

	// Close stops the subscriber. Safe to call more than once.
	Close()
}

// Session pairs a WebSocket connection with a buffered outbound queue
// drained by a single writer goroutine, so frames reach the peer in enqueue
// order and no caller ever blocks on a slow socket.
type Session struct {
	conn *websocket.Conn
	out  chan []byte
	log  logger.Logger

	mu     sync.Mutex
	closed bool
}

// NewSession wraps conn. The caller must run WritePump.
func NewSession(conn *websocket.Conn, sendBuffer int, log logger.Logger) *Session {
	if sendBuffer <= 0 {
		sendBuffer = defaultSendBuffer
	}
	return &Session{
		conn: conn,
		out:  make(chan []byte, sendBuffer),
		log:  log,
	}
}

// Send enqueues payload for delivery. A full buffer means the viewer is not
// keeping up; the frame is refused and the caller decides the session's fate.
func (s *Session) Send(payload []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	select {
	case s.out <- payload:
		return true
	default:
		return false
	}
}

// Close stops the outbound queue. The write pump drains what was already
// enqueued, then closes the connection.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.out)
	s.mu.Unlock()
}

// WritePump drains the outbound queue onto the connection. It exits when the
// queue is closed or a write fails, and closes the connection on the way out.
func (s *Session) WritePump(ctx context.Context) {
	defer func() {
		_ = s.conn.Close()
	}()
	for payload := range s.out {
		_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			// Half-closed peer. Expected during churn, not an error
			// worth surfacing.
			metrics.RecordDeliveryDropped()
			s.log.Debug(ctx, "session write failed", logger.Error(err))
			s.Close()
			return
		}
	}
}
