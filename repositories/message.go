//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"chat-relay/domain"
	"chat-relay/errors"

	"github.com/abadojack/whatlanggo"
	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// IMessageRepository is the durable message store behind the persistence
// gateway contract, plus the history reads the API surface needs.
type IMessageRepository interface {
	AppendMessage(ctx context.Context, m domain.Message) (uuid.UUID, error)
	GetMessage(ctx context.Context, id uuid.UUID) (domain.Message, error)
	GetMessages(ctx context.Context, roomID domain.RoomID, cursor *string, limit int) ([]domain.Message, *string, error)
	ToggleReaction(ctx context.Context, id uuid.UUID, userID domain.UserID, emoji string) (domain.Message, string, error)
	IncrementRoomMessageCount(ctx context.Context, roomID domain.RoomID) error
}

type attachmentRecord struct {
	FileName     string `json:"filename"`
	OriginalName string `json:"originalName"`
	MimeType     string `json:"mimeType"`
	Size         int64  `json:"size"`
	URL          string `json:"url"`
}

type reactionRecord struct {
	UserID    string    `json:"userId"`
	Emoji     string    `json:"emoji"`
	CreatedAt time.Time `json:"createdAt"`
}

type messageRecord struct {
	ID          string             `json:"id"`
	RoomID      string             `json:"roomId"`
	SenderID    string             `json:"senderId"`
	SenderName  string             `json:"senderName"`
	Content     string             `json:"content"`
	Kind        string             `json:"type"`
	Attachments []attachmentRecord `json:"attachments,omitempty"`
	Reactions   []reactionRecord   `json:"reactions,omitempty"`
	Lang        string             `json:"lang,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
}

func toMessageRecord(m domain.Message) messageRecord {
	return messageRecord{
		ID:         m.ID.String(),
		RoomID:     string(m.RoomID),
		SenderID:   string(m.SenderID),
		SenderName: m.SenderName,
		Content:    m.Content,
		Kind:       string(m.Kind),
		Attachments: lo.Map(m.Attachments, func(a domain.Attachment, _ int) attachmentRecord {
			return attachmentRecord(a)
		}),
		Reactions: lo.Map(m.Reactions, func(r domain.Reaction, _ int) reactionRecord {
			return reactionRecord{UserID: string(r.UserID), Emoji: r.Emoji, CreatedAt: r.CreatedAt}
		}),
		Lang:      m.Lang,
		CreatedAt: m.CreatedAt,
	}
}

func (rec messageRecord) toDomain() (domain.Message, error) {
	id, err := uuid.Parse(rec.ID)
	if err != nil {
		return domain.Message{}, fmt.Errorf("corrupt message id %q: %w", rec.ID, err)
	}
	return domain.Message{
		ID:         id,
		RoomID:     domain.RoomID(rec.RoomID),
		SenderID:   domain.UserID(rec.SenderID),
		SenderName: rec.SenderName,
		Content:    rec.Content,
		Kind:       domain.MessageKind(rec.Kind),
		Attachments: lo.Map(rec.Attachments, func(a attachmentRecord, _ int) domain.Attachment {
			return domain.Attachment(a)
		}),
		Reactions: lo.Map(rec.Reactions, func(r reactionRecord, _ int) domain.Reaction {
			return domain.Reaction{UserID: domain.UserID(r.UserID), Emoji: r.Emoji, CreatedAt: r.CreatedAt}
		}),
		Lang:      rec.Lang,
		CreatedAt: rec.CreatedAt,
	}, nil
}

// messageKey orders messages chronologically per room: the 19-digit padded
// nanosecond timestamp sorts lexicographically, and the UUID suffix breaks
// same-nanosecond collisions.
func messageKey(roomID string, at time.Time, id string) []byte {
	return []byte(fmt.Sprintf("msg:%s:%019d:%s", roomID, at.UnixNano(), id))
}

func messagePrefix(roomID string) []byte { return []byte("msg:" + roomID + ":") }

func messageIdxKey(id string) []byte { return []byte("idx:msg:" + id) }

type MessageRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewMessageRepository(db *badger.DB, log *slog.Logger) *MessageRepository {
	return &MessageRepository{db: db, log: log}
}

// AppendMessage persists a message under its ordered room key plus an ID
// index for point lookups, tagging the detected content language on the way.
func (m *MessageRepository) AppendMessage(_ context.Context, msg domain.Message) (uuid.UUID, error) {
	rec := toMessageRecord(msg)
	rec.Lang = whatlanggo.LangToString(whatlanggo.Detect(msg.Content).Lang)

	data, err := json.Marshal(rec)
	if err != nil {
		return uuid.Nil, fmt.Errorf("marshal failed: %w", err)
	}
	key := messageKey(rec.RoomID, msg.CreatedAt, rec.ID)

	err = m.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(key, data); err != nil {
			return err
		}
		return txn.Set(messageIdxKey(rec.ID), key)
	})
	if err != nil {
		return uuid.Nil, err
	}
	return msg.ID, nil
}

// GetMessage resolves the ID index, then loads the ordered key.
func (m *MessageRepository) GetMessage(_ context.Context, id uuid.UUID) (domain.Message, error) {
	var rec messageRecord
	err := m.db.View(func(txn *badger.Txn) error {
		return m.loadByID(txn, id.String(), &rec)
	})
	if err != nil {
		return domain.Message{}, err
	}
	return rec.toDomain()
}

func (m *MessageRepository) loadByID(txn *badger.Txn, id string, rec *messageRecord) error {
	item, err := txn.Get(messageIdxKey(id))
	if err != nil {
		return errors.ErrMessageNotFound
	}
	var primary []byte
	if err := item.Value(func(val []byte) error {
		primary = append([]byte(nil), val...)
		return nil
	}); err != nil {
		return err
	}
	return loadJSON(txn, primary, rec, errors.ErrMessageNotFound)
}

// GetMessages pages a room's history newest-first. The cursor is the key of
// the last returned message; passing it back resumes strictly before it.
func (m *MessageRepository) GetMessages(_ context.Context, roomID domain.RoomID, cursor *string, limit int) ([]domain.Message, *string, error) {
	var messages []domain.Message
	var lastKey string

	err := m.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := messagePrefix(string(roomID))
		var seekKey []byte
		if cursor != nil {
			seekKey = []byte(*cursor)
		} else {
			// One past the largest possible key for this room.
			seekKey = append(append([]byte(nil), prefix...), 0xFF)
		}

		it.Seek(seekKey)
		if cursor != nil && it.ValidForPrefix(prefix) && bytes.Equal(it.Item().Key(), []byte(*cursor)) {
			it.Next() // the cursor itself was already delivered
		}

		for ; it.ValidForPrefix(prefix) && len(messages) < limit; it.Next() {
			var rec messageRecord
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			})
			if err != nil {
				return err
			}
			msg, err := rec.toDomain()
			if err != nil {
				m.log.Warn("skipping corrupt message", "key", string(it.Item().Key()), "error", err)
				continue
			}
			messages = append(messages, msg)
			lastKey = string(it.Item().KeyCopy(nil))
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	var next *string
	if len(messages) == limit && limit > 0 {
		next = &lastKey
	}
	return messages, next, nil
}

// ToggleReaction flips the (user, emoji) pair inside one transaction and
// reports whether it was added or removed.
func (m *MessageRepository) ToggleReaction(_ context.Context, id uuid.UUID, userID domain.UserID, emoji string) (domain.Message, string, error) {
	var updated domain.Message
	var action string

	err := m.db.Update(func(txn *badger.Txn) error {
		var rec messageRecord
		if err := m.loadByID(txn, id.String(), &rec); err != nil {
			return err
		}
		msg, err := rec.toDomain()
		if err != nil {
			return err
		}
		msg.Reactions, action = domain.ToggleReaction(msg.Reactions, userID, emoji)
		updated = msg

		key := messageKey(rec.RoomID, msg.CreatedAt, rec.ID)
		return storeJSON(txn, key, toMessageRecord(msg))
	})
	if err != nil {
		return domain.Message{}, "", err
	}
	return updated, action, nil
}

// IncrementRoomMessageCount bumps the counter on the room document.
func (m *MessageRepository) IncrementRoomMessageCount(_ context.Context, roomID domain.RoomID) error {
	return m.db.Update(func(txn *badger.Txn) error {
		var rec roomRecord
		if err := loadJSON(txn, roomKey(string(roomID)), &rec, errors.ErrRoomNotFound); err != nil {
			return err
		}
		rec.MessageCount++
		rec.UpdatedAt = time.Now().UTC()
		return storeJSON(txn, roomKey(rec.ID), rec)
	})
}

// deleteMessagesOfRoom removes every message key and ID index entry of a
// room. Caller holds the transaction.
func deleteMessagesOfRoom(txn *badger.Txn, roomID string) error {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)

	prefix := messagePrefix(roomID)
	var keys [][]byte
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	it.Close()

	for _, key := range keys {
		// Key layout is msg:{room}:{ts}:{id}; the ID is the last segment.
		parts := strings.Split(string(key), ":")
		if err := txn.Delete(messageIdxKey(parts[len(parts)-1])); err != nil {
			return err
		}
		if err := txn.Delete(key); err != nil {
			return err
		}
	}
	return nil
}
