//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"
	"time"

	"chat-relay/domain"
	"chat-relay/domain/event"

	"github.com/google/uuid"
)

// ConnectionID identifies one live connection. A user may hold several.
type ConnectionID string

// EventSink is the delivery end of one connection. Consume must not block
// past the caller's context; slow consumers drop rather than stall fan-out.
type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}

// RoomConnection pairs a live sink with its owner, as returned by registry
// snapshots.
type RoomConnection struct {
	UserID domain.UserID
	ConnID ConnectionID
	Sink   EventSink
}

// IRegistry is the presence registry: the single source of truth for which
// connections are live and which rooms each user has joined. All operations
// are atomic with respect to each other and never perform I/O.
type IRegistry interface {
	// RegisterConnection adds a connection to the user's entry, creating the
	// entry if absent. It reports whether this was the user's first live
	// connection (the offline -> online edge). Re-registering is a no-op.
	RegisterConnection(userID domain.UserID, connID ConnectionID, sink EventSink) (first bool)
	// DeregisterConnection removes a connection and returns the remaining
	// connection count. When the count reaches zero the user's joined-set is
	// cleared and returned so the caller can emit offline notices.
	DeregisterConnection(userID domain.UserID, connID ConnectionID) (remaining int, rooms []domain.RoomID)
	// JoinRoom / LeaveRoom are idempotent per-user set operations. JoinRoom
	// is ignored for users with no live connection, so a handler racing a
	// disconnect cannot resurrect presence state.
	JoinRoom(userID domain.UserID, roomID domain.RoomID)
	LeaveRoom(userID domain.UserID, roomID domain.RoomID)
	// ConnectionsInRoom returns a consistent snapshot of every live
	// connection whose user has joined the room.
	ConnectionsInRoom(roomID domain.RoomID) []RoomConnection
	// ConnectionsOfUser returns every live connection of one user.
	ConnectionsOfUser(userID domain.UserID) []RoomConnection
	IsUserOnline(userID domain.UserID) bool
	IsJoined(userID domain.UserID, roomID domain.RoomID) bool
	RoomsOf(userID domain.UserID) []domain.RoomID
}

// IBroadcaster fans events out to room members or to one user's connections.
// Delivery is best-effort; one dead connection never fails the batch.
type IBroadcaster interface {
	Broadcast(ctx context.Context, roomID domain.RoomID, e event.DomainEvent, exclude ConnectionID)
	NotifyUser(ctx context.Context, userID domain.UserID, e event.DomainEvent)
}

// IMembershipOracle is the durable source of truth for room membership.
// Roles are re-queried on every privileged action, never cached in sessions.
type IMembershipOracle interface {
	IsMember(ctx context.Context, roomID domain.RoomID, userID domain.UserID) (bool, error)
	RoleOf(ctx context.Context, roomID domain.RoomID, userID domain.UserID) (domain.Role, bool, error)
	Capacity(ctx context.Context, roomID domain.RoomID) (current, max int, err error)
}

// IMessageGateway is the durable message store the relay writes through
// before broadcasting.
type IMessageGateway interface {
	AppendMessage(ctx context.Context, m domain.Message) (uuid.UUID, error)
	IncrementRoomMessageCount(ctx context.Context, roomID domain.RoomID) error
	GetMessage(ctx context.Context, id uuid.UUID) (domain.Message, error)
	// ToggleReaction flips the (user, emoji) pair and returns the updated
	// message plus the applied action (add or remove).
	ToggleReaction(ctx context.Context, id uuid.UUID, userID domain.UserID, emoji string) (domain.Message, string, error)
}

// IRoomDirectory exposes the room reads a session needs outside the
// authorization path.
type IRoomDirectory interface {
	GetRoom(ctx context.Context, roomID domain.RoomID) (domain.Room, error)
	RoomsOfUser(ctx context.Context, userID domain.UserID) ([]domain.RoomID, error)
	// EnsureMember adds the user as a plain member if absent, enforcing
	// capacity. Used by join_room when the store does not know the user yet.
	EnsureMember(ctx context.Context, roomID domain.RoomID, userID domain.UserID) error
}

// IUserDirectory exposes the user reads/writes the relay core performs.
type IUserDirectory interface {
	GetUser(ctx context.Context, id domain.UserID) (domain.UserIdentity, error)
	SetOnline(ctx context.Context, id domain.UserID, online bool, lastSeen time.Time) error
	Presence(ctx context.Context, id domain.UserID) (domain.PresenceInfo, error)
}

// IVerifier resolves a bearer credential to a user identity at connect time.
type IVerifier interface {
	Verify(ctx context.Context, credential string) (domain.UserIdentity, error)
}

// Worker is a supervised background task. Workers don't protect themselves;
// the supervisor recovers panics and restarts them.
type Worker interface {
	Run(ctx context.Context) error
}

// ISupervisor runs workers with panic recovery and automatic restarts.
type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Stop()
}

// GetWorkerName derives a worker's log name from its type, avoiding manual
// naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
