package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"chat-relay/domain"
	"chat-relay/domain/event"

	"github.com/stretchr/testify/require"
)

const testDeliveryTimeout = 50 * time.Millisecond

// recordingSink collects delivered events; failing makes Consume error out.
type recordingSink struct {
	events  []event.DomainEvent
	failing bool
}

func (s *recordingSink) Consume(_ context.Context, e event.DomainEvent) error {
	if s.failing {
		return fmt.Errorf("connection gone")
	}
	s.events = append(s.events, e)
	return nil
}

func TestRouter_Broadcast_DeliversToAllExceptExcluded(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	router := NewRouter(slog.Default(), registry, testDeliveryTimeout)
	roomID := domain.RoomID("general")

	aliceSink := &recordingSink{}
	bobSink := &recordingSink{}
	registry.RegisterConnection("alice", "alice-1", aliceSink)
	registry.RegisterConnection("bob", "bob-1", bobSink)
	registry.JoinRoom("alice", roomID)
	registry.JoinRoom("bob", roomID)

	// When alice's connection is excluded from the broadcast
	router.Broadcast(context.Background(), roomID, event.UserTyping{UserID: "alice", RoomID: "general"}, "alice-1")

	// Then only bob hears it
	req.Empty(aliceSink.events)
	req.Len(bobSink.events, 1)
	req.Equal("user_typing", bobSink.events[0].EventName())
}

func TestRouter_Broadcast_FailingSinkDoesNotStopBatch(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	router := NewRouter(slog.Default(), registry, testDeliveryTimeout)
	roomID := domain.RoomID("general")

	dead := &recordingSink{failing: true}
	live := &recordingSink{}
	registry.RegisterConnection("alice", "alice-1", dead)
	registry.RegisterConnection("bob", "bob-1", live)
	registry.JoinRoom("alice", roomID)
	registry.JoinRoom("bob", roomID)

	router.Broadcast(context.Background(), roomID, event.NewMessage{}, "")

	// The dead connection is skipped, the live one still gets the event
	req.Len(live.events, 1)
}

func TestRouter_Broadcast_MultiConnectionUserGetsEachCopy(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	router := NewRouter(slog.Default(), registry, testDeliveryTimeout)
	roomID := domain.RoomID("general")

	phone := &recordingSink{}
	laptop := &recordingSink{}
	registry.RegisterConnection("alice", "phone", phone)
	registry.RegisterConnection("alice", "laptop", laptop)
	registry.JoinRoom("alice", roomID)

	router.Broadcast(context.Background(), roomID, event.NewMessage{}, "")

	// Every connection of the joined user receives the event
	req.Len(phone.events, 1)
	req.Len(laptop.events, 1)
}

func TestRouter_NotifyUser_IgnoresRoomMembership(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	router := NewRouter(slog.Default(), registry, testDeliveryTimeout)

	sink := &recordingSink{}
	registry.RegisterConnection("alice", "alice-1", sink)
	// alice has joined no rooms

	router.NotifyUser(context.Background(), "alice", event.RemovedFromRoom{RoomID: "general"})

	req.Len(sink.events, 1)
	req.Equal("removed_from_room", sink.events[0].EventName())
}
