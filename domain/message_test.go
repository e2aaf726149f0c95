package domain

import (
	"strings"
	"testing"

	"chat-relay/errors"

	"github.com/stretchr/testify/require"
)

var sender = UserIdentity{ID: "alice", Username: "alice"}

func TestNewMessage_TrimsAndValidatesContent(t *testing.T) {
	req := require.New(t)

	// Given content padded with whitespace
	msg, err := NewMessage(sender, "general", "  hello  ", "", nil)

	// Then it is trimmed and defaults to a text message
	req.NoError(err)
	req.Equal("hello", msg.Content)
	req.Equal(KindText, msg.Kind)
	req.Equal(sender.ID, msg.SenderID)
	req.Equal(sender.Username, msg.SenderName)
	req.NotEqual(msg.ID.String(), "00000000-0000-0000-0000-000000000000")

	// Whitespace-only content is empty content
	_, err = NewMessage(sender, "general", "   \n\t ", "", nil)
	req.ErrorIs(err, errors.ErrEmptyContent)
}

func TestNewMessage_ContentLengthLimit(t *testing.T) {
	req := require.New(t)

	// 2000 runes pass, 2001 do not. Multi-byte runes count as one.
	_, err := NewMessage(sender, "general", strings.Repeat("é", MaxContentLength), "", nil)
	req.NoError(err)

	_, err = NewMessage(sender, "general", strings.Repeat("é", MaxContentLength+1), "", nil)
	req.ErrorIs(err, errors.ErrContentTooLong)
}

func TestNewMessage_RejectsUnknownKind(t *testing.T) {
	req := require.New(t)

	_, err := NewMessage(sender, "general", "hello", "carrier-pigeon", nil)
	req.ErrorIs(err, errors.ErrValidation)

	msg, err := NewMessage(sender, "general", "hello", "image", nil)
	req.NoError(err)
	req.Equal(KindImage, msg.Kind)
}

func TestAttachment_Validate(t *testing.T) {
	tests := []struct {
		name  string
		att   Attachment
		valid bool
	}{
		{"png within size", Attachment{MimeType: "image/png", Size: 1024}, true},
		{"pdf within size", Attachment{MimeType: "application/pdf", Size: 1024}, true},
		{"plain text", Attachment{MimeType: "text/plain", Size: 10}, true},
		{"executable rejected", Attachment{MimeType: "application/x-msdownload", Size: 10}, false},
		{"zero size rejected", Attachment{MimeType: "image/png", Size: 0}, false},
		{"over declared limit", Attachment{MimeType: "image/png", Size: MaxAttachmentByteSize + 1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.att.Validate()
			if tt.valid {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, errors.ErrInvalidAttachment)
			}
		})
	}
}

func TestNewMessage_InvalidAttachmentRejectsWholeMessage(t *testing.T) {
	req := require.New(t)

	atts := []Attachment{
		{MimeType: "image/png", Size: 100},
		{MimeType: "video/mp4", Size: 100},
	}
	_, err := NewMessage(sender, "general", "see attached", "file", atts)
	req.ErrorIs(err, errors.ErrInvalidAttachment)
}

func TestToggleReaction_ComposesToIdentity(t *testing.T) {
	req := require.New(t)

	// First toggle adds
	reactions, action := ToggleReaction(nil, "alice", "👍")
	req.Equal(ReactionAdded, action)
	req.Len(reactions, 1)
	req.Equal(UserID("alice"), reactions[0].UserID)

	// A different emoji from the same user coexists
	reactions, action = ToggleReaction(reactions, "alice", "🎉")
	req.Equal(ReactionAdded, action)
	req.Len(reactions, 2)

	// Second toggle of the first pair removes it and leaves the rest
	reactions, action = ToggleReaction(reactions, "alice", "👍")
	req.Equal(ReactionRemoved, action)
	req.Len(reactions, 1)
	req.Equal("🎉", reactions[0].Emoji)
}
