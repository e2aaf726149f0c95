// Messages are immutable once created, except for the append-only reaction
// list which is toggled through the persistence gateway.
package domain

import (
	"strings"
	"time"

	"chat-relay/errors"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// MessageKind discriminates the message payload families.
type MessageKind string

const (
	KindText   MessageKind = "text"
	KindImage  MessageKind = "image"
	KindFile   MessageKind = "file"
	KindSystem MessageKind = "system"
)

const (
	MaxContentLength      = 2000
	MaxAttachmentByteSize = 10 << 20 // 10MB, declared size
)

// ParseMessageKind validates a kind coming off the wire. Empty defaults to text.
func ParseMessageKind(s string) (MessageKind, error) {
	switch MessageKind(s) {
	case "":
		return KindText, nil
	case KindText, KindImage, KindFile, KindSystem:
		return MessageKind(s), nil
	default:
		return "", errors.ErrValidation
	}
}

// Attachment describes an already-uploaded file referenced by a message.
// The relay validates descriptors only; upload handling happens elsewhere.
type Attachment struct {
	FileName     string
	OriginalName string
	MimeType     string
	Size         int64
	URL          string
}

// allowed non-image attachment types, mirroring the upload filter
var allowedDocTypes = []string{
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"text/plain",
}

// Validate checks the declared MIME type and size of an attachment descriptor.
func (a Attachment) Validate() error {
	if a.Size <= 0 || a.Size > MaxAttachmentByteSize {
		return errors.ErrInvalidAttachment
	}
	if strings.HasPrefix(a.MimeType, "image/") {
		return nil
	}
	if mimetype.EqualsAny(a.MimeType, allowedDocTypes...) {
		return nil
	}
	return errors.ErrInvalidAttachment
}

// Reaction is one (user, emoji) pair on a message.
type Reaction struct {
	UserID    UserID
	Emoji     string
	CreatedAt time.Time
}

// Message is an immutable chat event scoped to a room.
type Message struct {
	ID          uuid.UUID
	RoomID      RoomID
	SenderID    UserID
	SenderName  string
	Content     string
	Kind        MessageKind
	Attachments []Attachment
	Reactions   []Reaction
	Lang        string
	CreatedAt   time.Time
}

// NewMessage builds and validates a message from a send intent.
// Content is trimmed; empty or over-length content is rejected before any I/O.
func NewMessage(sender UserIdentity, roomID RoomID, content, kind string, attachments []Attachment) (Message, error) {
	k, err := ParseMessageKind(kind)
	if err != nil {
		return Message{}, err
	}
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return Message{}, errors.ErrEmptyContent
	}
	if len([]rune(trimmed)) > MaxContentLength {
		return Message{}, errors.ErrContentTooLong
	}
	for _, a := range attachments {
		if err := a.Validate(); err != nil {
			return Message{}, err
		}
	}
	return Message{
		ID:          uuid.New(),
		RoomID:      roomID,
		SenderID:    sender.ID,
		SenderName:  sender.Username,
		Content:     trimmed,
		Kind:        k,
		Attachments: attachments,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// Reaction toggle outcomes, surfaced to clients in message_reaction events.
const (
	ReactionAdded   = "add"
	ReactionRemoved = "remove"
)

// ToggleReaction adds the (user, emoji) pair if absent and removes it if
// present. Two successive toggles compose to identity.
func ToggleReaction(reactions []Reaction, user UserID, emoji string) ([]Reaction, string) {
	for i, r := range reactions {
		if r.UserID == user && r.Emoji == emoji {
			return append(reactions[:i:i], reactions[i+1:]...), ReactionRemoved
		}
	}
	return append(reactions, Reaction{UserID: user, Emoji: emoji, CreatedAt: time.Now().UTC()}), ReactionAdded
}
