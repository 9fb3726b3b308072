package ws

import (
	"context"

	"github.com/matchpulse/liveticker/internal/domain/model"
	"github.com/matchpulse/liveticker/pkg/logger"
	"github.com/matchpulse/liveticker/pkg/metrics"
)

// Hub fans commentary events out to every registered subscriber.
//
// Delivery is fire-and-forget per subscriber: one viewer's failure never
// blocks the rest and never reaches the publisher. A subscriber that refuses
// a frame is dropped; its client reconnects and catches up from the snapshot.
type Hub struct {
	registry *Registry
	log      logger.Logger
}

// NewHub creates a hub with an empty registry.
func NewHub(log logger.Logger) *Hub {
	return &Hub{
		registry: NewRegistry(),
		log:      log,
	}
}

// Add registers a subscriber for live events.
func (h *Hub) Add(sub Subscriber) {
	h.registry.Add(sub)
	metrics.UpdateSubscriberCount(h.registry.Count())
}

// Remove deregisters a subscriber. Safe when not registered.
func (h *Hub) Remove(sub Subscriber) {
	h.registry.Remove(sub)
	metrics.UpdateSubscriberCount(h.registry.Count())
}

// Count returns the number of registered subscribers.
func (h *Hub) Count() int {
	return h.registry.Count()
}

// Publish delivers event to every registered subscriber, wrapped in the
// live-commentary envelope. The payload is encoded once so all viewers
// receive identical bytes.
func (h *Hub) Publish(ctx context.Context, event model.Event) {
	payload, err := MarshalEnvelope(MsgLive, event)
	if err != nil {
		// Events are plain data; encoding cannot realistically fail.
		h.log.Error(ctx, "encode live event", logger.Error(err))
		return
	}

	for _, sub := range h.registry.Snapshot() {
		if !sub.Send(payload) {
			metrics.RecordDeliveryDropped()
			h.log.Debug(ctx, "dropping lagging subscriber",
				logger.String("event", event.ID),
			)
			h.Remove(sub)
			sub.Close()
		}
	}
	metrics.RecordEventPublished()
}
