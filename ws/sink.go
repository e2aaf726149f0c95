// Package ws is the websocket transport: it upgrades authenticated requests,
// pumps events out to clients, and feeds inbound actions to their session.
package ws

import (
	"context"
	"fmt"

	"chat-relay/domain/event"
)

// Sink buffers events bound for one connection. The write pump drains it;
// fan-out never blocks on a slow client.
type Sink struct {
	events chan event.DomainEvent
}

func NewSink(bufferSize int) *Sink {
	return &Sink{events: make(chan event.DomainEvent, bufferSize)}
}

// Events is the write pump's end of the buffer.
func (s *Sink) Events() <-chan event.DomainEvent { return s.events }

// Consume queues an event for delivery. A full buffer drops the event and
// reports it so the router can log the backpressure.
func (s *Sink) Consume(ctx context.Context, e event.DomainEvent) error {
	select {
	case s.events <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return fmt.Errorf("sink buffer full, dropping %s", e.EventName())
	}
}
