package domain

import (
	"time"

	"chat-relay/errors"
)

// RoomID is the opaque stable key of a room in the store.
type RoomID string

// Role is the per (room, user) permission level.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
	RoleMember    Role = "member"
)

// ParseRole validates a role name coming off the wire.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleModerator, RoleMember:
		return Role(s), nil
	default:
		return "", errors.ErrInvalidRole
	}
}

// CanModerate reports whether the role may perform moderator-level actions.
func (r Role) CanModerate() bool {
	return r == RoleAdmin || r == RoleModerator
}

// Member is one (user, role) entry of a room's membership list.
type Member struct {
	UserID   UserID
	Role     Role
	JoinedAt time.Time
}

// Room is the durable room document. Membership lives here; presence does not.
type Room struct {
	ID           RoomID
	Name         string
	Description  string
	CreatorID    UserID
	IsPrivate    bool
	MaxMembers   int
	MessageCount int64
	Members      []Member
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

const (
	MaxRoomNameLength    = 50
	MaxDescriptionLength = 200
	DefaultMaxMembers    = 100
)

// MemberByID returns the membership entry for a user, if any.
func (r *Room) MemberByID(id UserID) (Member, bool) {
	for _, m := range r.Members {
		if m.UserID == id {
			return m, true
		}
	}
	return Member{}, false
}

// IsFull reports whether the room is at capacity.
func (r *Room) IsFull() bool {
	return len(r.Members) >= r.MaxMembers
}

// RoomUpdate is a partial settings change; nil fields are untouched.
type RoomUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	IsPrivate   *bool   `json:"isPrivate,omitempty"`
	MaxMembers  *int    `json:"maxMembers,omitempty"`
}

// ChangesPrivacy reports whether the update touches the privacy flag.
func (u RoomUpdate) ChangesPrivacy() bool { return u.IsPrivate != nil }

// AuthorizeSettingsUpdate applies the role matrix for room_settings changes:
// moderators may edit name/description/capacity, only admins touch privacy.
func AuthorizeSettingsUpdate(actor Role, update RoomUpdate) error {
	if !actor.CanModerate() {
		return errors.ErrForbidden
	}
	if update.ChangesPrivacy() && actor != RoleAdmin {
		return errors.ErrForbidden
	}
	return nil
}

// AuthorizeRoleChange applies the role matrix for member_role_updated:
// moderators may only promote members to moderator; admins may not demote
// other admins; only admins may grant admin.
func AuthorizeRoleChange(actor, target, newRole Role) error {
	if !actor.CanModerate() {
		return errors.ErrForbidden
	}
	if actor == RoleModerator && (target != RoleMember || newRole == RoleAdmin) {
		return errors.ErrForbidden
	}
	if target == RoleAdmin && newRole != RoleAdmin {
		return errors.ErrForbidden
	}
	if newRole == RoleAdmin && actor != RoleAdmin {
		return errors.ErrForbidden
	}
	return nil
}

// AuthorizeRemoval applies the role matrix for member_removed: admins are
// never removable, moderators may only remove plain members.
func AuthorizeRemoval(actor, target Role) error {
	if !actor.CanModerate() {
		return errors.ErrForbidden
	}
	if target == RoleAdmin {
		return errors.ErrForbidden
	}
	if actor == RoleModerator && target != RoleMember {
		return errors.ErrForbidden
	}
	return nil
}
