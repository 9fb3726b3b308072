package viewer

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// Option configures a Viewer.
type Option func(*Viewer)

// WithWindow sets how many events the local view retains.
func WithWindow(n int) Option {
	return func(v *Viewer) {
		if n > 0 {
			v.window = n
		}
	}
}

// WithReconnectDelay overrides the pause between reconnect attempts.
func WithReconnectDelay(d time.Duration) Option {
	return func(v *Viewer) {
		if d > 0 {
			v.reconnectDelay = d
		}
	}
}

// WithHTTPClient sets the client used for the snapshot fetch.
func WithHTTPClient(c *http.Client) Option {
	return func(v *Viewer) {
		if c != nil {
			v.client = c
		}
	}
}

// WithDialer sets the websocket dialer.
func WithDialer(d *websocket.Dialer) Option {
	return func(v *Viewer) {
		if d != nil {
			v.dialer = d
		}
	}
}

// WithStateFunc registers a callback invoked on every state transition.
func WithStateFunc(fn func(State)) Option {
	return func(v *Viewer) {
		v.onState = fn
	}
}

// WithUpdateBuffer sets the capacity of the Updates channel.
func WithUpdateBuffer(n int) Option {
	return func(v *Viewer) {
		if n > 0 {
			v.updates = make(chan Event, n)
		}
	}
}
