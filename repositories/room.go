//go:generate go run go.uber.org/mock/mockgen -source=room.go -destination=../mocks/mock_room_repository.go -package=mocks
package repositories

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"chat-relay/domain"
	"chat-relay/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// IRoomRepository is the durable room store. It doubles as the membership
// oracle: IsMember/RoleOf/Capacity answer from the stored document on every
// call, so privileged checks always see the latest roles.
type IRoomRepository interface {
	CreateRoom(ctx context.Context, name, description string, isPrivate bool, maxMembers int, creator domain.UserID) (domain.Room, error)
	GetRoom(ctx context.Context, id domain.RoomID) (domain.Room, error)
	ListPublicRooms(ctx context.Context, limit int) ([]domain.Room, error)
	MemberRooms(ctx context.Context, userID domain.UserID) ([]domain.Room, error)
	RoomsOfUser(ctx context.Context, userID domain.UserID) ([]domain.RoomID, error)
	AddMember(ctx context.Context, roomID domain.RoomID, userID domain.UserID) (domain.Room, error)
	EnsureMember(ctx context.Context, roomID domain.RoomID, userID domain.UserID) error
	RemoveMember(ctx context.Context, roomID domain.RoomID, userID domain.UserID) (remaining int, err error)
	SetMemberRole(ctx context.Context, roomID domain.RoomID, userID domain.UserID, role domain.Role) (domain.Room, error)
	UpdateRoom(ctx context.Context, roomID domain.RoomID, update domain.RoomUpdate) (domain.Room, error)
	DeleteRoom(ctx context.Context, roomID domain.RoomID) error

	IsMember(ctx context.Context, roomID domain.RoomID, userID domain.UserID) (bool, error)
	RoleOf(ctx context.Context, roomID domain.RoomID, userID domain.UserID) (domain.Role, bool, error)
	Capacity(ctx context.Context, roomID domain.RoomID) (current, max int, err error)
}

type memberRecord struct {
	UserID   string    `json:"userId"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joinedAt"`
}

type roomRecord struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Description  string         `json:"description,omitempty"`
	CreatorID    string         `json:"creatorId"`
	IsPrivate    bool           `json:"isPrivate"`
	MaxMembers   int            `json:"maxMembers"`
	MessageCount int64          `json:"messageCount"`
	Members      []memberRecord `json:"members"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

func (rec roomRecord) toDomain() domain.Room {
	return domain.Room{
		ID:           domain.RoomID(rec.ID),
		Name:         rec.Name,
		Description:  rec.Description,
		CreatorID:    domain.UserID(rec.CreatorID),
		IsPrivate:    rec.IsPrivate,
		MaxMembers:   rec.MaxMembers,
		MessageCount: rec.MessageCount,
		Members: lo.Map(rec.Members, func(m memberRecord, _ int) domain.Member {
			return domain.Member{UserID: domain.UserID(m.UserID), Role: domain.Role(m.Role), JoinedAt: m.JoinedAt}
		}),
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}

func roomKey(id string) []byte { return []byte("room:" + id) }
func roomNameIdxKey(name string) []byte {
	return []byte("idx:roomname:" + strings.ToLower(strings.TrimSpace(name)))
}
func memberIdxKey(userID, roomID string) []byte {
	return []byte("idx:member:" + userID + ":" + roomID)
}
func memberIdxPrefix(userID string) []byte { return []byte("idx:member:" + userID + ":") }

type RoomRepository struct {
	db *badger.DB
}

func NewRoomRepository(db *badger.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// CreateRoom persists a room with the creator as its admin member. Name
// uniqueness is enforced through the name index inside the transaction.
func (r *RoomRepository) CreateRoom(_ context.Context, name, description string, isPrivate bool, maxMembers int, creator domain.UserID) (domain.Room, error) {
	now := time.Now().UTC()
	rec := roomRecord{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		CreatorID:   string(creator),
		IsPrivate:   isPrivate,
		MaxMembers:  maxMembers,
		Members: []memberRecord{
			{UserID: string(creator), Role: string(domain.RoleAdmin), JoinedAt: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(roomNameIdxKey(rec.Name)); err == nil {
			return errors.ErrRoomNameTaken
		}
		if err := storeJSON(txn, roomKey(rec.ID), rec); err != nil {
			return err
		}
		if err := txn.Set(roomNameIdxKey(rec.Name), []byte(rec.ID)); err != nil {
			return err
		}
		return txn.Set(memberIdxKey(string(creator), rec.ID), nil)
	})
	if err != nil {
		return domain.Room{}, err
	}
	return rec.toDomain(), nil
}

func (r *RoomRepository) GetRoom(_ context.Context, id domain.RoomID) (domain.Room, error) {
	var rec roomRecord
	err := r.db.View(func(txn *badger.Txn) error {
		return loadJSON(txn, roomKey(string(id)), &rec, errors.ErrRoomNotFound)
	})
	if err != nil {
		return domain.Room{}, err
	}
	return rec.toDomain(), nil
}

// ListPublicRooms scans the room prefix and keeps the most recently updated
// public rooms.
func (r *RoomRepository) ListPublicRooms(_ context.Context, limit int) ([]domain.Room, error) {
	var rooms []domain.Room
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte("room:")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var rec roomRecord
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			})
			if err != nil {
				return err
			}
			if !rec.IsPrivate {
				rooms = append(rooms, rec.toDomain())
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(rooms, func(i, j int) bool { return rooms[i].UpdatedAt.After(rooms[j].UpdatedAt) })
	if limit > 0 && len(rooms) > limit {
		rooms = rooms[:limit]
	}
	return rooms, nil
}

// RoomsOfUser answers from the membership index without touching room
// documents; this is the hot path on every connect.
func (r *RoomRepository) RoomsOfUser(_ context.Context, userID domain.UserID) ([]domain.RoomID, error) {
	var roomIDs []domain.RoomID
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := memberIdxPrefix(string(userID))
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			roomID := strings.TrimPrefix(string(it.Item().Key()), string(prefix))
			roomIDs = append(roomIDs, domain.RoomID(roomID))
		}
		return nil
	})
	return roomIDs, err
}

// MemberRooms loads the full room documents the user belongs to, most
// recently updated first.
func (r *RoomRepository) MemberRooms(ctx context.Context, userID domain.UserID) ([]domain.Room, error) {
	roomIDs, err := r.RoomsOfUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	rooms := make([]domain.Room, 0, len(roomIDs))
	for _, id := range roomIDs {
		room, err := r.GetRoom(ctx, id)
		if err != nil {
			if errors.Is(err, errors.ErrRoomNotFound) {
				continue // index entry outlived the room; skip
			}
			return nil, err
		}
		rooms = append(rooms, room)
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].UpdatedAt.After(rooms[j].UpdatedAt) })
	return rooms, nil
}

// AddMember adds the user as a plain member, failing on duplicates and on
// capacity. Used by the explicit join endpoint.
func (r *RoomRepository) AddMember(_ context.Context, roomID domain.RoomID, userID domain.UserID) (domain.Room, error) {
	var rec roomRecord
	err := r.db.Update(func(txn *badger.Txn) error {
		if err := loadJSON(txn, roomKey(string(roomID)), &rec, errors.ErrRoomNotFound); err != nil {
			return err
		}
		for _, m := range rec.Members {
			if m.UserID == string(userID) {
				return errors.ErrAlreadyMember
			}
		}
		if len(rec.Members) >= rec.MaxMembers {
			return errors.ErrRoomFull
		}
		rec.Members = append(rec.Members, memberRecord{
			UserID: string(userID), Role: string(domain.RoleMember), JoinedAt: time.Now().UTC(),
		})
		rec.UpdatedAt = time.Now().UTC()
		if err := storeJSON(txn, roomKey(rec.ID), rec); err != nil {
			return err
		}
		return txn.Set(memberIdxKey(string(userID), rec.ID), nil)
	})
	if err != nil {
		return domain.Room{}, err
	}
	return rec.toDomain(), nil
}

// EnsureMember is the socket-side variant: already-member is success.
func (r *RoomRepository) EnsureMember(ctx context.Context, roomID domain.RoomID, userID domain.UserID) error {
	_, err := r.AddMember(ctx, roomID, userID)
	if errors.Is(err, errors.ErrAlreadyMember) {
		return nil
	}
	return err
}

// RemoveMember drops the membership entry and index. The remaining member
// count lets the caller decide whether the room should die with the leaver.
func (r *RoomRepository) RemoveMember(_ context.Context, roomID domain.RoomID, userID domain.UserID) (int, error) {
	remaining := 0
	err := r.db.Update(func(txn *badger.Txn) error {
		var rec roomRecord
		if err := loadJSON(txn, roomKey(string(roomID)), &rec, errors.ErrRoomNotFound); err != nil {
			return err
		}
		before := len(rec.Members)
		rec.Members = lo.Filter(rec.Members, func(m memberRecord, _ int) bool {
			return m.UserID != string(userID)
		})
		if len(rec.Members) == before {
			return errors.ErrUserNotFound
		}
		remaining = len(rec.Members)
		rec.UpdatedAt = time.Now().UTC()
		if err := storeJSON(txn, roomKey(rec.ID), rec); err != nil {
			return err
		}
		return txn.Delete(memberIdxKey(string(userID), rec.ID))
	})
	return remaining, err
}

func (r *RoomRepository) SetMemberRole(_ context.Context, roomID domain.RoomID, userID domain.UserID, role domain.Role) (domain.Room, error) {
	var rec roomRecord
	err := r.db.Update(func(txn *badger.Txn) error {
		if err := loadJSON(txn, roomKey(string(roomID)), &rec, errors.ErrRoomNotFound); err != nil {
			return err
		}
		found := false
		for i := range rec.Members {
			if rec.Members[i].UserID == string(userID) {
				rec.Members[i].Role = string(role)
				found = true
				break
			}
		}
		if !found {
			return errors.ErrUserNotFound
		}
		rec.UpdatedAt = time.Now().UTC()
		return storeJSON(txn, roomKey(rec.ID), rec)
	})
	if err != nil {
		return domain.Room{}, err
	}
	return rec.toDomain(), nil
}

// UpdateRoom applies the non-nil fields of the update. A name change moves
// the name index and re-checks uniqueness.
func (r *RoomRepository) UpdateRoom(_ context.Context, roomID domain.RoomID, update domain.RoomUpdate) (domain.Room, error) {
	var rec roomRecord
	err := r.db.Update(func(txn *badger.Txn) error {
		if err := loadJSON(txn, roomKey(string(roomID)), &rec, errors.ErrRoomNotFound); err != nil {
			return err
		}
		if update.Name != nil && strings.TrimSpace(*update.Name) != rec.Name {
			newName := strings.TrimSpace(*update.Name)
			if _, err := txn.Get(roomNameIdxKey(newName)); err == nil {
				return errors.ErrRoomNameTaken
			}
			if err := txn.Delete(roomNameIdxKey(rec.Name)); err != nil {
				return err
			}
			if err := txn.Set(roomNameIdxKey(newName), []byte(rec.ID)); err != nil {
				return err
			}
			rec.Name = newName
		}
		if update.Description != nil {
			rec.Description = strings.TrimSpace(*update.Description)
		}
		if update.IsPrivate != nil {
			rec.IsPrivate = *update.IsPrivate
		}
		if update.MaxMembers != nil {
			rec.MaxMembers = *update.MaxMembers
		}
		rec.UpdatedAt = time.Now().UTC()
		return storeJSON(txn, roomKey(rec.ID), rec)
	})
	if err != nil {
		return domain.Room{}, err
	}
	return rec.toDomain(), nil
}

// DeleteRoom removes the room document, its indexes, and its messages.
func (r *RoomRepository) DeleteRoom(_ context.Context, roomID domain.RoomID) error {
	return r.db.Update(func(txn *badger.Txn) error {
		var rec roomRecord
		if err := loadJSON(txn, roomKey(string(roomID)), &rec, errors.ErrRoomNotFound); err != nil {
			return err
		}
		if err := txn.Delete(roomKey(rec.ID)); err != nil {
			return err
		}
		if err := txn.Delete(roomNameIdxKey(rec.Name)); err != nil {
			return err
		}
		for _, m := range rec.Members {
			if err := txn.Delete(memberIdxKey(m.UserID, rec.ID)); err != nil {
				return err
			}
		}
		return deleteMessagesOfRoom(txn, rec.ID)
	})
}

// IsMember answers fresh from the stored document; unknown rooms surface as
// ErrRoomNotFound so join_room can distinguish missing from not-a-member.
func (r *RoomRepository) IsMember(ctx context.Context, roomID domain.RoomID, userID domain.UserID) (bool, error) {
	room, err := r.GetRoom(ctx, roomID)
	if err != nil {
		return false, err
	}
	_, ok := room.MemberByID(userID)
	return ok, nil
}

// RoleOf never caches: every privileged action pays a fresh read.
func (r *RoomRepository) RoleOf(ctx context.Context, roomID domain.RoomID, userID domain.UserID) (domain.Role, bool, error) {
	room, err := r.GetRoom(ctx, roomID)
	if err != nil {
		return "", false, err
	}
	member, ok := room.MemberByID(userID)
	if !ok {
		return "", false, nil
	}
	return member.Role, true, nil
}

func (r *RoomRepository) Capacity(ctx context.Context, roomID domain.RoomID) (int, int, error) {
	room, err := r.GetRoom(ctx, roomID)
	if err != nil {
		return 0, 0, err
	}
	return len(room.Members), room.MaxMembers, nil
}
