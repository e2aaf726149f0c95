//go:generate go run go.uber.org/mock/mockgen -source=room_service.go -destination=../mocks/mock_room_service.go -package=mocks
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/domain/event"
	"chat-relay/errors"
	"chat-relay/repositories"
)

const (
	defaultHistoryPage = 50
	maxHistoryPage     = 100
)

// CreateRoomRequest carries the fields of a room creation call.
type CreateRoomRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPrivate   bool   `json:"isPrivate"`
	MaxMembers  int    `json:"maxMembers"`
}

type IRoomService interface {
	CreateRoom(ctx context.Context, creator domain.UserID, req CreateRoomRequest) (domain.Room, error)
	GetRoom(ctx context.Context, roomID domain.RoomID, requester domain.UserID) (domain.Room, error)
	ListPublic(ctx context.Context, limit int) ([]domain.Room, error)
	MemberRooms(ctx context.Context, userID domain.UserID) ([]domain.Room, error)
	JoinRoom(ctx context.Context, roomID domain.RoomID, userID domain.UserID) (domain.Room, error)
	LeaveRoom(ctx context.Context, roomID domain.RoomID, userID domain.UserID) error
	UpdateRoom(ctx context.Context, roomID domain.RoomID, actor domain.UserID, update domain.RoomUpdate) (domain.Room, error)
	SetMemberRole(ctx context.Context, roomID domain.RoomID, actor, target domain.UserID, role domain.Role) error
	RemoveMember(ctx context.Context, roomID domain.RoomID, actor, target domain.UserID) error
	DeleteRoom(ctx context.Context, roomID domain.RoomID, actor domain.UserID) error
	History(ctx context.Context, roomID domain.RoomID, requester domain.UserID, cursor *string, limit int) ([]domain.Message, *string, error)
}

// RoomService persists room mutations and pushes the matching events to the
// live relay, so clients hear about changes made over the HTTP API too.
type RoomService struct {
	log      *slog.Logger
	rooms    repositories.IRoomRepository
	messages repositories.IMessageRepository
	users    repositories.IUserRepository
	registry contract.IRegistry
	router   contract.IBroadcaster
}

func NewRoomService(
	log *slog.Logger,
	rooms repositories.IRoomRepository,
	messages repositories.IMessageRepository,
	users repositories.IUserRepository,
	registry contract.IRegistry,
	router contract.IBroadcaster,
) *RoomService {
	return &RoomService{
		log:      log,
		rooms:    rooms,
		messages: messages,
		users:    users,
		registry: registry,
		router:   router,
	}
}

func validateCreateRoom(req *CreateRoomRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Description = strings.TrimSpace(req.Description)
	if req.Name == "" {
		return fmt.Errorf("%w: room name is required", errors.ErrValidation)
	}
	if utf8.RuneCountInString(req.Name) > domain.MaxRoomNameLength {
		return fmt.Errorf("%w: room name exceeds %d characters", errors.ErrValidation, domain.MaxRoomNameLength)
	}
	if utf8.RuneCountInString(req.Description) > domain.MaxDescriptionLength {
		return fmt.Errorf("%w: description exceeds %d characters", errors.ErrValidation, domain.MaxDescriptionLength)
	}
	if req.MaxMembers <= 0 {
		req.MaxMembers = domain.DefaultMaxMembers
	}
	if req.MaxMembers < 2 {
		return fmt.Errorf("%w: maxMembers must allow at least two members", errors.ErrValidation)
	}
	return nil
}

func (s *RoomService) CreateRoom(ctx context.Context, creator domain.UserID, req CreateRoomRequest) (domain.Room, error) {
	if err := validateCreateRoom(&req); err != nil {
		return domain.Room{}, err
	}
	room, err := s.rooms.CreateRoom(ctx, req.Name, req.Description, req.IsPrivate, req.MaxMembers, creator)
	if err != nil {
		return domain.Room{}, err
	}
	s.log.Info("room created", "room_id", room.ID, "name", room.Name, "creator", creator)
	return room, nil
}

// GetRoom hides private rooms from non-members.
func (s *RoomService) GetRoom(ctx context.Context, roomID domain.RoomID, requester domain.UserID) (domain.Room, error) {
	room, err := s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return domain.Room{}, err
	}
	if room.IsPrivate {
		if _, ok := room.MemberByID(requester); !ok {
			return domain.Room{}, errors.ErrForbidden
		}
	}
	return room, nil
}

func (s *RoomService) ListPublic(ctx context.Context, limit int) ([]domain.Room, error) {
	return s.rooms.ListPublicRooms(ctx, limit)
}

func (s *RoomService) MemberRooms(ctx context.Context, userID domain.UserID) ([]domain.Room, error) {
	return s.rooms.MemberRooms(ctx, userID)
}

// JoinRoom adds the user to the membership list and tells the room. Live
// subscription still happens on the socket side via the join_room action.
func (s *RoomService) JoinRoom(ctx context.Context, roomID domain.RoomID, userID domain.UserID) (domain.Room, error) {
	room, err := s.rooms.AddMember(ctx, roomID, userID)
	if err != nil {
		return domain.Room{}, err
	}
	if user, err := s.users.GetUser(ctx, userID); err == nil {
		s.router.Broadcast(ctx, roomID, event.UserJoinedRoom{
			UserID:   string(user.ID),
			Username: user.Username,
			Avatar:   user.Avatar,
			RoomID:   string(roomID),
		}, "")
	}
	return room, nil
}

// LeaveRoom removes the membership; the last member leaving deletes the room
// outright rather than leaving an unreachable shell behind.
func (s *RoomService) LeaveRoom(ctx context.Context, roomID domain.RoomID, userID domain.UserID) error {
	remaining, err := s.rooms.RemoveMember(ctx, roomID, userID)
	if err != nil {
		return err
	}
	s.registry.LeaveRoom(userID, roomID)

	if remaining == 0 {
		if err := s.rooms.DeleteRoom(ctx, roomID); err != nil {
			s.log.Error("deleting emptied room failed", "room_id", roomID, "error", err)
		}
		return nil
	}
	if user, err := s.users.GetUser(ctx, userID); err == nil {
		s.router.Broadcast(ctx, roomID, event.UserLeftRoom{
			UserID:   string(user.ID),
			Username: user.Username,
			RoomID:   string(roomID),
		}, "")
	}
	return nil
}

// UpdateRoom applies the role matrix, persists the change, and notifies the
// room.
func (s *RoomService) UpdateRoom(ctx context.Context, roomID domain.RoomID, actor domain.UserID, update domain.RoomUpdate) (domain.Room, error) {
	if err := validateRoomUpdate(update); err != nil {
		return domain.Room{}, err
	}
	role, ok, err := s.rooms.RoleOf(ctx, roomID, actor)
	if err != nil {
		return domain.Room{}, err
	}
	if !ok {
		return domain.Room{}, errors.ErrForbidden
	}
	if err := domain.AuthorizeSettingsUpdate(role, update); err != nil {
		return domain.Room{}, err
	}

	room, err := s.rooms.UpdateRoom(ctx, roomID, update)
	if err != nil {
		return domain.Room{}, err
	}
	s.broadcastAs(ctx, actor, func(ref event.UserRef) event.DomainEvent {
		return event.RoomSettingsUpdated{RoomID: string(roomID), Updates: update, UpdatedBy: ref}
	}, roomID)
	return room, nil
}

func validateRoomUpdate(update domain.RoomUpdate) error {
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" || utf8.RuneCountInString(name) > domain.MaxRoomNameLength {
			return fmt.Errorf("%w: invalid room name", errors.ErrValidation)
		}
	}
	if update.Description != nil && utf8.RuneCountInString(*update.Description) > domain.MaxDescriptionLength {
		return fmt.Errorf("%w: description exceeds %d characters", errors.ErrValidation, domain.MaxDescriptionLength)
	}
	if update.MaxMembers != nil && *update.MaxMembers < 2 {
		return fmt.Errorf("%w: maxMembers must allow at least two members", errors.ErrValidation)
	}
	return nil
}

// SetMemberRole re-reads both roles before authorizing; stale client state
// never grants a privilege.
func (s *RoomService) SetMemberRole(ctx context.Context, roomID domain.RoomID, actor, target domain.UserID, role domain.Role) error {
	actorRole, ok, err := s.rooms.RoleOf(ctx, roomID, actor)
	if err != nil {
		return err
	}
	if !ok {
		return errors.ErrForbidden
	}
	targetRole, ok, err := s.rooms.RoleOf(ctx, roomID, target)
	if err != nil {
		return err
	}
	if !ok {
		return errors.ErrUserNotFound
	}
	if err := domain.AuthorizeRoleChange(actorRole, targetRole, role); err != nil {
		return err
	}

	if _, err := s.rooms.SetMemberRole(ctx, roomID, target, role); err != nil {
		return err
	}
	s.broadcastAs(ctx, actor, func(ref event.UserRef) event.DomainEvent {
		return event.MemberRoleChanged{
			RoomID:    string(roomID),
			UserID:    string(target),
			NewRole:   string(role),
			UpdatedBy: ref,
		}
	}, roomID)
	return nil
}

// RemoveMember evicts the target: membership first, then live subscription,
// then the target's own connections hear about it, then the room does.
func (s *RoomService) RemoveMember(ctx context.Context, roomID domain.RoomID, actor, target domain.UserID) error {
	actorRole, ok, err := s.rooms.RoleOf(ctx, roomID, actor)
	if err != nil {
		return err
	}
	if !ok {
		return errors.ErrForbidden
	}
	targetRole, ok, err := s.rooms.RoleOf(ctx, roomID, target)
	if err != nil {
		return err
	}
	if !ok {
		return errors.ErrUserNotFound
	}
	if err := domain.AuthorizeRemoval(actorRole, targetRole); err != nil {
		return err
	}

	if _, err := s.rooms.RemoveMember(ctx, roomID, target); err != nil {
		return err
	}
	s.registry.LeaveRoom(target, roomID)

	ref := s.refOf(ctx, actor)
	s.router.NotifyUser(ctx, target, event.RemovedFromRoom{RoomID: string(roomID), RemovedBy: ref})
	s.router.Broadcast(ctx, roomID, event.MemberRemovedFromRoom{
		RoomID:    string(roomID),
		UserID:    string(target),
		RemovedBy: ref,
	}, "")
	return nil
}

// DeleteRoom is admin-only. Every live subscriber hears room_deleted before
// the registry room empties out.
func (s *RoomService) DeleteRoom(ctx context.Context, roomID domain.RoomID, actor domain.UserID) error {
	role, ok, err := s.rooms.RoleOf(ctx, roomID, actor)
	if err != nil {
		return err
	}
	if !ok || role != domain.RoleAdmin {
		return errors.ErrForbidden
	}

	s.router.Broadcast(ctx, roomID, event.RoomDeleted{RoomID: string(roomID), DeletedBy: s.refOf(ctx, actor)}, "")
	if err := s.rooms.DeleteRoom(ctx, roomID); err != nil {
		return err
	}
	for _, conn := range s.registry.ConnectionsInRoom(roomID) {
		s.registry.LeaveRoom(conn.UserID, roomID)
	}
	s.log.Info("room deleted", "room_id", roomID, "deleted_by", actor)
	return nil
}

// History pages the room timeline newest-first; members only.
func (s *RoomService) History(ctx context.Context, roomID domain.RoomID, requester domain.UserID, cursor *string, limit int) ([]domain.Message, *string, error) {
	member, err := s.rooms.IsMember(ctx, roomID, requester)
	if err != nil {
		return nil, nil, err
	}
	if !member {
		return nil, nil, errors.ErrForbidden
	}
	if limit <= 0 {
		limit = defaultHistoryPage
	}
	if limit > maxHistoryPage {
		limit = maxHistoryPage
	}
	return s.messages.GetMessages(ctx, roomID, cursor, limit)
}

// refOf resolves an actor to its wire reference, degrading to a bare ID when
// the user document is unavailable.
func (s *RoomService) refOf(ctx context.Context, userID domain.UserID) event.UserRef {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return event.UserRef{UserID: string(userID)}
	}
	return event.Ref(user)
}

func (s *RoomService) broadcastAs(ctx context.Context, actor domain.UserID, build func(event.UserRef) event.DomainEvent, roomID domain.RoomID) {
	s.router.Broadcast(ctx, roomID, build(s.refOf(ctx, actor)), "")
}
