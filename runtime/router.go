package runtime

import (
	"context"
	"log/slog"
	"time"

	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/domain/event"
)

// Router delivers events to the connections the registry knows about.
// It snapshots the registry at call time (never cached) and isolates
// per-connection failures: a dead or slow connection is logged and skipped,
// never allowed to fail the batch.
type Router struct {
	log             *slog.Logger
	registry        contract.IRegistry
	deliveryTimeout time.Duration
}

func NewRouter(log *slog.Logger, registry contract.IRegistry, deliveryTimeout time.Duration) *Router {
	return &Router{log: log, registry: registry, deliveryTimeout: deliveryTimeout}
}

// Broadcast delivers an event to every connection currently joined to the
// room, optionally excluding the originating connection.
func (r *Router) Broadcast(ctx context.Context, roomID domain.RoomID, e event.DomainEvent, exclude contract.ConnectionID) {
	conns := r.registry.ConnectionsInRoom(roomID)
	for _, conn := range conns {
		if exclude != "" && conn.ConnID == exclude {
			continue
		}
		r.deliver(ctx, conn, e)
	}
}

// NotifyUser delivers an event to all of one user's connections, independent
// of room membership. This is the forced-eviction notification path.
func (r *Router) NotifyUser(ctx context.Context, userID domain.UserID, e event.DomainEvent) {
	for _, conn := range r.registry.ConnectionsOfUser(userID) {
		r.deliver(ctx, conn, e)
	}
}

func (r *Router) deliver(ctx context.Context, conn contract.RoomConnection, e event.DomainEvent) {
	deliveryCtx, cancel := context.WithTimeout(ctx, r.deliveryTimeout)
	defer cancel()

	if err := conn.Sink.Consume(deliveryCtx, e); err != nil {
		r.log.Warn("event delivery failed",
			"event", e.EventName(),
			"user_id", conn.UserID,
			"conn_id", conn.ConnID,
			"error", err)
	}
}
