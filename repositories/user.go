//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
// Package repositories persists users, rooms, and messages in BadgerDB.
// Values are JSON documents; ordered keys make room timelines scannable.
package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"chat-relay/domain"
	"chat-relay/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// IUserRepository is the durable user store.
type IUserRepository interface {
	CreateUser(ctx context.Context, username, email, passwordHash string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetUser(ctx context.Context, id domain.UserID) (domain.UserIdentity, error)
	SetOnline(ctx context.Context, id domain.UserID, online bool, lastSeen time.Time) error
	Presence(ctx context.Context, id domain.UserID) (domain.PresenceInfo, error)
}

// User is the repository-level user document, password hash included.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	Avatar       string    `json:"avatar,omitempty"`
	IsOnline     bool      `json:"isOnline"`
	LastSeen     time.Time `json:"lastSeen"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Identity strips the credential material off a user document.
func (u User) Identity() domain.UserIdentity {
	return domain.UserIdentity{ID: domain.UserID(u.ID), Username: u.Username, Avatar: u.Avatar}
}

type UserRepository struct {
	db *badger.DB
}

func NewUserRepository(db *badger.DB) *UserRepository {
	return &UserRepository{db: db}
}

func userKey(id string) []byte        { return []byte("user:" + id) }
func emailIdxKey(email string) []byte { return []byte("idx:useremail:" + strings.ToLower(email)) }
func nameIdxKey(name string) []byte   { return []byte("idx:username:" + strings.ToLower(name)) }

// CreateUser persists a new user, enforcing email and username uniqueness
// inside one transaction.
func (r *UserRepository) CreateUser(_ context.Context, username, email, passwordHash string) (User, error) {
	user := User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        strings.ToLower(email),
		PasswordHash: passwordHash,
		LastSeen:     time.Now().UTC(),
		CreatedAt:    time.Now().UTC(),
	}
	data, err := json.Marshal(user)
	if err != nil {
		return User{}, fmt.Errorf("marshal failed: %w", err)
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(emailIdxKey(email)); err == nil {
			return errors.ErrUserAlreadyExists
		}
		if _, err := txn.Get(nameIdxKey(username)); err == nil {
			return errors.ErrUserAlreadyExists
		}
		if err := txn.Set(userKey(user.ID), data); err != nil {
			return err
		}
		if err := txn.Set(emailIdxKey(email), []byte(user.ID)); err != nil {
			return err
		}
		return txn.Set(nameIdxKey(username), []byte(user.ID))
	})
	if err != nil {
		return User{}, err
	}
	return user, nil
}

// GetUserByEmail resolves the email index, then loads the document.
func (r *UserRepository) GetUserByEmail(_ context.Context, email string) (User, error) {
	var user User
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(emailIdxKey(email))
		if err != nil {
			return errors.ErrUserNotFound
		}
		var id string
		if err := item.Value(func(val []byte) error { id = string(val); return nil }); err != nil {
			return err
		}
		return loadJSON(txn, userKey(id), &user, errors.ErrUserNotFound)
	})
	return user, err
}

func (r *UserRepository) GetUser(_ context.Context, id domain.UserID) (domain.UserIdentity, error) {
	var user User
	err := r.db.View(func(txn *badger.Txn) error {
		return loadJSON(txn, userKey(string(id)), &user, errors.ErrUserNotFound)
	})
	if err != nil {
		return domain.UserIdentity{}, err
	}
	return user.Identity(), nil
}

// SetOnline records the store-side availability flag and last-seen stamp.
func (r *UserRepository) SetOnline(_ context.Context, id domain.UserID, online bool, lastSeen time.Time) error {
	return r.db.Update(func(txn *badger.Txn) error {
		var user User
		if err := loadJSON(txn, userKey(string(id)), &user, errors.ErrUserNotFound); err != nil {
			return err
		}
		user.IsOnline = online
		user.LastSeen = lastSeen
		return storeJSON(txn, userKey(string(id)), user)
	})
}

func (r *UserRepository) Presence(_ context.Context, id domain.UserID) (domain.PresenceInfo, error) {
	var user User
	err := r.db.View(func(txn *badger.Txn) error {
		return loadJSON(txn, userKey(string(id)), &user, errors.ErrUserNotFound)
	})
	if err != nil {
		return domain.PresenceInfo{}, err
	}
	return domain.PresenceInfo{Online: user.IsOnline, LastSeen: user.LastSeen}, nil
}

// loadJSON reads a key into dst, mapping a missing key to notFound.
func loadJSON(txn *badger.Txn, key []byte, dst any, notFound error) error {
	item, err := txn.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return notFound
		}
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, dst)
	})
}

func storeJSON(txn *badger.Txn, key []byte, src any) error {
	data, err := json.Marshal(src)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return txn.Set(key, data)
}
