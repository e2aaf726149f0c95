// Package runtime owns the relay's live state: the presence registry, the
// broadcast router, and the per-connection session controllers. It carries
// no storage or transport logic of its own.
package runtime

import (
	"sync"

	"chat-relay/contract"
	"chat-relay/domain"
)

type userSet map[domain.UserID]struct{}

// presenceEntry tracks one user's live connections and joined rooms.
// A room is in the joined-set iff a join has happened without a matching
// leave while at least one connection is live. Entries exist only while the
// user has at least one connection.
type presenceEntry struct {
	sinks map[contract.ConnectionID]contract.EventSink
	rooms map[domain.RoomID]struct{}
}

// Registry is the presence registry. It is the only shared mutable structure
// in the core; every operation holds the one mutex and performs no I/O, so
// the operations are linearizable with respect to each other.
type Registry struct {
	mu          sync.RWMutex
	users       map[domain.UserID]*presenceEntry
	roomMembers map[domain.RoomID]userSet // joined users per room, for snapshot lookups
}

func NewRegistry() *Registry {
	return &Registry{
		users:       make(map[domain.UserID]*presenceEntry),
		roomMembers: make(map[domain.RoomID]userSet),
	}
}

// RegisterConnection adds a connection handle to the user's entry, creating
// the entry if absent. Re-registering the same handle is a no-op. The return
// value reports the offline -> online edge; the caller owns the store write
// and room notifications that follow it.
func (r *Registry) RegisterConnection(userID domain.UserID, connID contract.ConnectionID, sink contract.EventSink) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.users[userID]
	if !ok {
		entry = &presenceEntry{
			sinks: make(map[contract.ConnectionID]contract.EventSink),
			rooms: make(map[domain.RoomID]struct{}),
		}
		r.users[userID] = entry
	}
	if _, exists := entry.sinks[connID]; exists {
		return false
	}
	first := len(entry.sinks) == 0
	entry.sinks[connID] = sink
	return first
}

// DeregisterConnection removes a handle and returns the remaining connection
// count. On the last connection it clears the joined-set and returns the
// rooms that were in it, so the caller can emit offline notices. Calling it
// for an unknown handle is a no-op, which makes close-time cleanup idempotent.
func (r *Registry) DeregisterConnection(userID domain.UserID, connID contract.ConnectionID) (int, []domain.RoomID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.users[userID]
	if !ok {
		return 0, nil
	}
	if _, exists := entry.sinks[connID]; !exists {
		return len(entry.sinks), nil
	}
	delete(entry.sinks, connID)
	if len(entry.sinks) > 0 {
		return len(entry.sinks), nil
	}

	rooms := make([]domain.RoomID, 0, len(entry.rooms))
	for roomID := range entry.rooms {
		rooms = append(rooms, roomID)
		r.dropFromRoom(roomID, userID)
	}
	delete(r.users, userID)
	return 0, rooms
}

// JoinRoom adds the room to the user's joined-set for all of their
// connections. It is idempotent and ignored for users with no live
// connection, so an action handler finishing after a disconnect cannot
// resurrect presence state.
func (r *Registry) JoinRoom(userID domain.UserID, roomID domain.RoomID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.users[userID]
	if !ok || len(entry.sinks) == 0 {
		return
	}
	entry.rooms[roomID] = struct{}{}
	members, ok := r.roomMembers[roomID]
	if !ok {
		members = make(userSet)
		r.roomMembers[roomID] = members
	}
	members[userID] = struct{}{}
}

// LeaveRoom removes the room from the user's joined-set. Idempotent.
func (r *Registry) LeaveRoom(userID domain.UserID, roomID domain.RoomID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry, ok := r.users[userID]; ok {
		delete(entry.rooms, roomID)
	}
	r.dropFromRoom(roomID, userID)
}

// dropFromRoom removes a user from the room index, pruning empty sets so
// dead rooms don't accumulate. Caller holds the lock.
func (r *Registry) dropFromRoom(roomID domain.RoomID, userID domain.UserID) {
	members, ok := r.roomMembers[roomID]
	if !ok {
		return
	}
	delete(members, userID)
	if len(members) == 0 {
		delete(r.roomMembers, roomID)
	}
}

// ConnectionsInRoom returns a consistent snapshot of every live connection
// whose user has joined the room. The slice is owned by the caller.
func (r *Registry) ConnectionsInRoom(roomID domain.RoomID) []contract.RoomConnection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.roomMembers[roomID]
	if !ok {
		return nil
	}
	var conns []contract.RoomConnection
	for userID := range members {
		entry, ok := r.users[userID]
		if !ok {
			continue
		}
		for connID, sink := range entry.sinks {
			conns = append(conns, contract.RoomConnection{UserID: userID, ConnID: connID, Sink: sink})
		}
	}
	return conns
}

// ConnectionsOfUser returns every live connection of one user, independent
// of room membership.
func (r *Registry) ConnectionsOfUser(userID domain.UserID) []contract.RoomConnection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.users[userID]
	if !ok {
		return nil
	}
	var conns []contract.RoomConnection
	for connID, sink := range entry.sinks {
		conns = append(conns, contract.RoomConnection{UserID: userID, ConnID: connID, Sink: sink})
	}
	return conns
}

// IsUserOnline reports whether the user has at least one live connection.
func (r *Registry) IsUserOnline(userID domain.UserID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.users[userID]
	return ok && len(entry.sinks) > 0
}

// IsJoined reports whether the room is in the user's joined-set.
func (r *Registry) IsJoined(userID domain.UserID, roomID domain.RoomID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.users[userID]
	if !ok {
		return false
	}
	_, joined := entry.rooms[roomID]
	return joined
}

// RoomsOf returns the user's joined-set. The slice is owned by the caller.
func (r *Registry) RoomsOf(userID domain.UserID) []domain.RoomID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.users[userID]
	if !ok {
		return nil
	}
	rooms := make([]domain.RoomID, 0, len(entry.rooms))
	for roomID := range entry.rooms {
		rooms = append(rooms, roomID)
	}
	return rooms
}
