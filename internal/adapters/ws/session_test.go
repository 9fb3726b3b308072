package ws

import (
	"testing"

	"github.com/matchpulse/liveticker/pkg/logger"
)

func TestSessionSendRefusesWhenBufferFull(t *testing.T) {
	// No write pump draining, so the buffer fills.
	sess := NewSession(nil, 2, logger.Get())

	if !sess.Send([]byte("a")) || !sess.Send([]byte("b")) {
		t.Fatal("sends within buffer capacity were refused")
	}
	if sess.Send([]byte("c")) {
		t.Fatal("send into a full buffer was accepted")
	}
}

func TestSessionSendRefusesAfterClose(t *testing.T) {
	sess := NewSession(nil, 4, logger.Get())
	sess.Close()

	if sess.Send([]byte("a")) {
		t.Fatal("send after close was accepted")
	}
}

func TestSessionCloseIsIdempotent(t *testing.T) {
	sess := NewSession(nil, 4, logger.Get())
	sess.Close()
	sess.Close() // must not panic on the already-closed channel
}
