// Package domain contains the core concepts of the chat relay.
// No transport, storage, or UI logic should be added here.
package domain

import "time"

// UserID is the opaque stable key of a user in the store.
type UserID string

// UserIdentity is the resolved identity of an authenticated connection.
// It is immutable for the lifetime of the session.
type UserIdentity struct {
	ID       UserID
	Username string
	Avatar   string
}

// PresenceInfo is the store-side view of a user's availability.
type PresenceInfo struct {
	Online   bool
	LastSeen time.Time
}
