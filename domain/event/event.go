// Package event defines the outbound events the relay pushes to connected
// clients. Every event carries its wire name and a JSON-ready payload.
package event

import (
	"time"

	"chat-relay/domain"

	"github.com/samber/lo"
)

// DomainEvent is anything deliverable through a connection sink.
type DomainEvent interface {
	EventName() string
}

// UserRef identifies the user an event is about or was triggered by.
type UserRef struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Avatar   string `json:"avatar,omitempty"`
}

// Ref builds a UserRef from a session identity.
func Ref(id domain.UserIdentity) UserRef {
	return UserRef{UserID: string(id.ID), Username: id.Username, Avatar: id.Avatar}
}

type AttachmentView struct {
	FileName     string `json:"filename"`
	OriginalName string `json:"originalName"`
	MimeType     string `json:"mimeType"`
	Size         int64  `json:"size"`
	URL          string `json:"url"`
}

type ReactionView struct {
	UserID    string    `json:"userId"`
	Emoji     string    `json:"emoji"`
	CreatedAt time.Time `json:"createdAt"`
}

// MessageView is the client-facing shape of a stored message.
type MessageView struct {
	ID          string           `json:"id"`
	RoomID      string           `json:"roomId"`
	Sender      UserRef          `json:"sender"`
	Content     string           `json:"content"`
	Kind        string           `json:"type"`
	Attachments []AttachmentView `json:"attachments,omitempty"`
	Reactions   []ReactionView   `json:"reactions,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
}

// ToMessageView converts a domain message into its wire representation.
func ToMessageView(m domain.Message) MessageView {
	return MessageView{
		ID:      m.ID.String(),
		RoomID:  string(m.RoomID),
		Sender:  UserRef{UserID: string(m.SenderID), Username: m.SenderName},
		Content: m.Content,
		Kind:    string(m.Kind),
		Attachments: lo.Map(m.Attachments, func(a domain.Attachment, _ int) AttachmentView {
			return AttachmentView{
				FileName:     a.FileName,
				OriginalName: a.OriginalName,
				MimeType:     a.MimeType,
				Size:         a.Size,
				URL:          a.URL,
			}
		}),
		Reactions: ToReactionViews(m.Reactions),
		CreatedAt: m.CreatedAt,
	}
}

// ToReactionViews converts a reaction list into its wire representation.
func ToReactionViews(reactions []domain.Reaction) []ReactionView {
	return lo.Map(reactions, func(r domain.Reaction, _ int) ReactionView {
		return ReactionView{UserID: string(r.UserID), Emoji: r.Emoji, CreatedAt: r.CreatedAt}
	})
}

type NewMessage struct {
	Message MessageView `json:"message"`
}

func (NewMessage) EventName() string { return "new_message" }

type JoinedRoom struct {
	RoomID  string `json:"roomId"`
	Message string `json:"message"`
}

func (JoinedRoom) EventName() string { return "joined_room" }

type LeftRoom struct {
	RoomID  string `json:"roomId"`
	Message string `json:"message"`
}

func (LeftRoom) EventName() string { return "left_room" }

type UserJoinedRoom struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Avatar   string `json:"avatar,omitempty"`
	RoomID   string `json:"roomId"`
}

func (UserJoinedRoom) EventName() string { return "user_joined_room" }

type UserLeftRoom struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	RoomID   string `json:"roomId"`
}

func (UserLeftRoom) EventName() string { return "user_left_room" }

type UserOnline struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Avatar   string `json:"avatar,omitempty"`
}

func (UserOnline) EventName() string { return "user_online" }

type UserOffline struct {
	UserID   string    `json:"userId"`
	Username string    `json:"username"`
	LastSeen time.Time `json:"lastSeen"`
}

func (UserOffline) EventName() string { return "user_offline" }

type UserTyping struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	RoomID   string `json:"roomId"`
}

func (UserTyping) EventName() string { return "user_typing" }

type UserStopTyping struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	RoomID   string `json:"roomId"`
}

func (UserStopTyping) EventName() string { return "user_stop_typing" }

type MessageReaction struct {
	MessageID string         `json:"messageId"`
	Reactions []ReactionView `json:"reactions"`
	UserID    string         `json:"userId"`
	Emoji     string         `json:"emoji"`
	Action    string         `json:"action"`
}

func (MessageReaction) EventName() string { return "message_reaction" }

type RoomSettingsUpdated struct {
	RoomID    string            `json:"roomId"`
	Updates   domain.RoomUpdate `json:"updates"`
	UpdatedBy UserRef           `json:"updatedBy"`
}

func (RoomSettingsUpdated) EventName() string { return "room_settings_updated" }

type MemberRoleChanged struct {
	RoomID    string  `json:"roomId"`
	UserID    string  `json:"userId"`
	NewRole   string  `json:"newRole"`
	UpdatedBy UserRef `json:"updatedBy"`
}

func (MemberRoleChanged) EventName() string { return "member_role_changed" }

// MemberRemovedFromRoom informs the remaining members of a removal.
type MemberRemovedFromRoom struct {
	RoomID    string  `json:"roomId"`
	UserID    string  `json:"userId"`
	RemovedBy UserRef `json:"removedBy"`
}

func (MemberRemovedFromRoom) EventName() string { return "member_removed_from_room" }

// RemovedFromRoom targets the evicted user's own connections.
type RemovedFromRoom struct {
	RoomID    string  `json:"roomId"`
	RemovedBy UserRef `json:"removedBy"`
}

func (RemovedFromRoom) EventName() string { return "removed_from_room" }

type RoomDeleted struct {
	RoomID    string  `json:"roomId"`
	DeletedBy UserRef `json:"deletedBy"`
}

func (RoomDeleted) EventName() string { return "room_deleted" }

type OnlineUser struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Avatar   string `json:"avatar,omitempty"`
	Role     string `json:"role"`
}

type OnlineUsers struct {
	RoomID string       `json:"roomId"`
	Users  []OnlineUser `json:"users"`
}

func (OnlineUsers) EventName() string { return "online_users" }

// ErrorEvent is delivered only to the connection whose action failed.
type ErrorEvent struct {
	Message string `json:"message"`
}

func (ErrorEvent) EventName() string { return "error" }
