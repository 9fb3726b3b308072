// Package ws implements the viewer-facing WebSocket surface: the
// subscription registry, the fan-out hub, and the connection gateway.
package ws

import "encoding/json"

// Message types exchanged with viewers. The subscribe frame is the only
// client-originated message the server recognizes.
const (
	MsgSubscribe = "subscribe"
	MsgLive      = "live-commentary"
	MsgHistory   = "live-commentary-history"

	ChannelLiveCommentary = "live-commentary"
)

// envelope is the discriminated wrapper around every server-to-client frame.
type envelope struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// clientMessage is the shape of frames read from viewers.
type clientMessage struct {
	Type    string `json:"type"`
	Channel string `json:"channel"`
}

// MarshalEnvelope encodes data in the discriminated envelope for msgType.
func MarshalEnvelope(msgType string, data any) ([]byte, error) {
	return json.Marshal(envelope{Type: msgType, Data: data})
}
