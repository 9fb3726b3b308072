package ws

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/matchpulse/liveticker/pkg/logger"
)

// SubscriberService is the application-side contract the gateway drives.
// Subscribe must deliver the catch-up history to sub before any event
// published after the call can reach it.
type SubscriberService interface {
	Subscribe(ctx context.Context, sub Subscriber)
	Unsubscribe(ctx context.Context, sub Subscriber)
}

// Gateway upgrades viewer connections and runs their read loops. One
// endpoint serves all viewers; there is no per-match partitioning.
type Gateway struct {
	svc        SubscriberService
	upgrader   websocket.Upgrader
	sendBuffer int
	log        logger.Logger
}

// GatewayOption applies a configuration option to the Gateway.
type GatewayOption func(*Gateway)

// WithSendBuffer sets the per-session outbound queue length.
func WithSendBuffer(n int) GatewayOption {
	return func(g *Gateway) {
		if n > 0 {
			g.sendBuffer = n
		}
	}
}

// NewGateway creates a gateway serving svc.
func NewGateway(svc SubscriberService, log logger.Logger, opts ...GatewayOption) *Gateway {
	g := &Gateway{
		svc:        svc,
		sendBuffer: defaultSendBuffer,
		log:        log,
		upgrader: websocket.Upgrader{
			// The feed is public read-only content; any origin may view it.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Register attaches the upgrade endpoint to mux.
func (g *Gateway) Register(mux *http.ServeMux) {
	mux.HandleFunc("/ws", g.HandleUpgrade)
}

// HandleUpgrade upgrades the request and services the connection until it
// closes. Closure is an expected transition: the subscription is removed and
// nothing is reported to the peer.
func (g *Gateway) HandleUpgrade(w http.ResponseWriter, r *http.Request) {
	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		g.log.Debug(r.Context(), "upgrade failed", logger.Error(err))
		return
	}

	ctx := context.Background() // session outlives the upgrade request
	sess := NewSession(conn, g.sendBuffer, g.log)
	go sess.WritePump(ctx)

	g.log.Debug(ctx, "viewer connected", logger.String("remote", conn.RemoteAddr().String()))
	g.readLoop(ctx, conn, sess)

	g.svc.Unsubscribe(ctx, sess)
	sess.Close()
	g.log.Debug(ctx, "viewer disconnected", logger.String("remote", conn.RemoteAddr().String()))
}

// readLoop consumes frames until the connection drops. Malformed frames and
// unknown message types are discarded silently; the connection stays open.
func (g *Gateway) readLoop(ctx context.Context, conn *websocket.Conn, sess *Session) {
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			continue
		}
		if msg.Type == MsgSubscribe && msg.Channel == ChannelLiveCommentary {
			g.svc.Subscribe(ctx, sess)
		}
	}
}
