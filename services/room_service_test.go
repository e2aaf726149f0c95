package services_test

import (
	"context"
	"log/slog"
	"testing"

	"chat-relay/domain"
	"chat-relay/domain/event"
	"chat-relay/errors"
	"chat-relay/mocks"
	"chat-relay/services"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type roomServiceFixture struct {
	service  *services.RoomService
	rooms    *mocks.MockIRoomRepository
	messages *mocks.MockIMessageRepository
	users    *mocks.MockIUserRepository
	registry *mocks.MockIRegistry
	router   *mocks.MockIBroadcaster
}

func newRoomServiceFixture(t *testing.T) *roomServiceFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &roomServiceFixture{
		rooms:    mocks.NewMockIRoomRepository(ctrl),
		messages: mocks.NewMockIMessageRepository(ctrl),
		users:    mocks.NewMockIUserRepository(ctrl),
		registry: mocks.NewMockIRegistry(ctrl),
		router:   mocks.NewMockIBroadcaster(ctrl),
	}
	f.service = services.NewRoomService(slog.Default(), f.rooms, f.messages, f.users, f.registry, f.router)
	return f
}

func TestRoomService_CreateRoom_AppliesDefaults(t *testing.T) {
	req := require.New(t)
	f := newRoomServiceFixture(t)
	ctx := context.Background()

	// MaxMembers left at zero falls back to the default
	f.rooms.EXPECT().
		CreateRoom(gomock.Any(), "general", "the main room", false, domain.DefaultMaxMembers, domain.UserID("alice")).
		Return(domain.Room{ID: "r1", Name: "general"}, nil)

	room, err := f.service.CreateRoom(ctx, "alice", services.CreateRoomRequest{Name: "  general  ", Description: " the main room "})
	req.NoError(err)
	req.Equal(domain.RoomID("r1"), room.ID)
}

func TestRoomService_CreateRoom_Validation(t *testing.T) {
	req := require.New(t)
	f := newRoomServiceFixture(t)
	ctx := context.Background()

	f.rooms.EXPECT().CreateRoom(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	_, err := f.service.CreateRoom(ctx, "alice", services.CreateRoomRequest{Name: "   "})
	req.ErrorIs(err, errors.ErrValidation)

	_, err = f.service.CreateRoom(ctx, "alice", services.CreateRoomRequest{Name: "solo", MaxMembers: 1})
	req.ErrorIs(err, errors.ErrValidation)
}

func TestRoomService_GetRoom_HidesPrivateFromNonMembers(t *testing.T) {
	req := require.New(t)
	f := newRoomServiceFixture(t)
	ctx := context.Background()

	private := domain.Room{
		ID: "r1", IsPrivate: true,
		Members: []domain.Member{{UserID: "alice", Role: domain.RoleAdmin}},
	}
	f.rooms.EXPECT().GetRoom(gomock.Any(), domain.RoomID("r1")).Return(private, nil).Times(2)

	_, err := f.service.GetRoom(ctx, "r1", "stranger")
	req.ErrorIs(err, errors.ErrForbidden)

	room, err := f.service.GetRoom(ctx, "r1", "alice")
	req.NoError(err)
	req.Equal(private.ID, room.ID)
}

func TestRoomService_LeaveRoom_LastMemberDeletesRoom(t *testing.T) {
	req := require.New(t)
	f := newRoomServiceFixture(t)
	ctx := context.Background()

	f.rooms.EXPECT().RemoveMember(gomock.Any(), domain.RoomID("r1"), domain.UserID("alice")).Return(0, nil)
	f.registry.EXPECT().LeaveRoom(domain.UserID("alice"), domain.RoomID("r1"))
	f.rooms.EXPECT().DeleteRoom(gomock.Any(), domain.RoomID("r1")).Return(nil)
	// Nobody is left to notify
	f.router.EXPECT().Broadcast(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	req.NoError(f.service.LeaveRoom(ctx, "r1", "alice"))
}

func TestRoomService_LeaveRoom_RemainingMembersHearAboutIt(t *testing.T) {
	req := require.New(t)
	f := newRoomServiceFixture(t)
	ctx := context.Background()

	f.rooms.EXPECT().RemoveMember(gomock.Any(), domain.RoomID("r1"), domain.UserID("alice")).Return(2, nil)
	f.registry.EXPECT().LeaveRoom(domain.UserID("alice"), domain.RoomID("r1"))
	f.users.EXPECT().GetUser(gomock.Any(), domain.UserID("alice")).
		Return(domain.UserIdentity{ID: "alice", Username: "alice"}, nil)

	var sent event.DomainEvent
	f.router.EXPECT().
		Broadcast(gomock.Any(), domain.RoomID("r1"), gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, _ domain.RoomID, e event.DomainEvent, _ any) { sent = e })

	req.NoError(f.service.LeaveRoom(ctx, "r1", "alice"))
	req.Equal("user_left_room", sent.EventName())
}

func TestRoomService_UpdateRoom_RoleMatrix(t *testing.T) {
	req := require.New(t)
	f := newRoomServiceFixture(t)
	ctx := context.Background()
	private := true

	// A moderator cannot flip privacy; the persisted document stays untouched
	f.rooms.EXPECT().RoleOf(gomock.Any(), domain.RoomID("r1"), domain.UserID("mod")).
		Return(domain.RoleModerator, true, nil)
	f.rooms.EXPECT().UpdateRoom(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	_, err := f.service.UpdateRoom(ctx, "r1", "mod", domain.RoomUpdate{IsPrivate: &private})
	req.ErrorIs(err, errors.ErrForbidden)

	// A non-member cannot touch anything
	f.rooms.EXPECT().RoleOf(gomock.Any(), domain.RoomID("r1"), domain.UserID("stranger")).
		Return(domain.Role(""), false, nil)
	name := "renamed"
	_, err = f.service.UpdateRoom(ctx, "r1", "stranger", domain.RoomUpdate{Name: &name})
	req.ErrorIs(err, errors.ErrForbidden)
}

func TestRoomService_UpdateRoom_PersistsThenBroadcasts(t *testing.T) {
	req := require.New(t)
	f := newRoomServiceFixture(t)
	ctx := context.Background()
	name := "renamed"
	update := domain.RoomUpdate{Name: &name}

	f.rooms.EXPECT().RoleOf(gomock.Any(), domain.RoomID("r1"), domain.UserID("admin")).
		Return(domain.RoleAdmin, true, nil)
	f.rooms.EXPECT().UpdateRoom(gomock.Any(), domain.RoomID("r1"), update).
		Return(domain.Room{ID: "r1", Name: "renamed"}, nil)
	f.users.EXPECT().GetUser(gomock.Any(), domain.UserID("admin")).
		Return(domain.UserIdentity{ID: "admin", Username: "admin"}, nil)

	var sent event.DomainEvent
	f.router.EXPECT().
		Broadcast(gomock.Any(), domain.RoomID("r1"), gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, _ domain.RoomID, e event.DomainEvent, _ any) { sent = e })

	room, err := f.service.UpdateRoom(ctx, "r1", "admin", update)
	req.NoError(err)
	req.Equal("renamed", room.Name)
	req.Equal("room_settings_updated", sent.EventName())
}

func TestRoomService_SetMemberRole_ModeratorCannotGrantAdmin(t *testing.T) {
	req := require.New(t)
	f := newRoomServiceFixture(t)
	ctx := context.Background()

	f.rooms.EXPECT().RoleOf(gomock.Any(), domain.RoomID("r1"), domain.UserID("mod")).
		Return(domain.RoleModerator, true, nil)
	f.rooms.EXPECT().RoleOf(gomock.Any(), domain.RoomID("r1"), domain.UserID("bob")).
		Return(domain.RoleMember, true, nil)
	f.rooms.EXPECT().SetMemberRole(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	err := f.service.SetMemberRole(ctx, "r1", "mod", "bob", domain.RoleAdmin)
	req.ErrorIs(err, errors.ErrForbidden)
}

func TestRoomService_RemoveMember_EvictsAndNotifies(t *testing.T) {
	req := require.New(t)
	f := newRoomServiceFixture(t)
	ctx := context.Background()

	f.rooms.EXPECT().RoleOf(gomock.Any(), domain.RoomID("r1"), domain.UserID("admin")).
		Return(domain.RoleAdmin, true, nil)
	f.rooms.EXPECT().RoleOf(gomock.Any(), domain.RoomID("r1"), domain.UserID("bob")).
		Return(domain.RoleMember, true, nil)
	f.rooms.EXPECT().RemoveMember(gomock.Any(), domain.RoomID("r1"), domain.UserID("bob")).Return(3, nil)
	f.registry.EXPECT().LeaveRoom(domain.UserID("bob"), domain.RoomID("r1"))
	f.users.EXPECT().GetUser(gomock.Any(), domain.UserID("admin")).
		Return(domain.UserIdentity{ID: "admin", Username: "admin"}, nil)

	var direct, broadcast event.DomainEvent
	f.router.EXPECT().
		NotifyUser(gomock.Any(), domain.UserID("bob"), gomock.Any()).
		Do(func(_ context.Context, _ domain.UserID, e event.DomainEvent) { direct = e })
	f.router.EXPECT().
		Broadcast(gomock.Any(), domain.RoomID("r1"), gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, _ domain.RoomID, e event.DomainEvent, _ any) { broadcast = e })

	req.NoError(f.service.RemoveMember(ctx, "r1", "admin", "bob"))
	req.Equal("removed_from_room", direct.EventName())
	req.Equal("member_removed_from_room", broadcast.EventName())
}

func TestRoomService_DeleteRoom_AdminOnly(t *testing.T) {
	req := require.New(t)
	f := newRoomServiceFixture(t)
	ctx := context.Background()

	f.rooms.EXPECT().RoleOf(gomock.Any(), domain.RoomID("r1"), domain.UserID("mod")).
		Return(domain.RoleModerator, true, nil)
	f.rooms.EXPECT().DeleteRoom(gomock.Any(), gomock.Any()).Times(0)

	req.ErrorIs(f.service.DeleteRoom(ctx, "r1", "mod"), errors.ErrForbidden)
}

func TestRoomService_History(t *testing.T) {
	req := require.New(t)
	f := newRoomServiceFixture(t)
	ctx := context.Background()

	// Non-members are refused before the store is touched
	f.rooms.EXPECT().IsMember(gomock.Any(), domain.RoomID("r1"), domain.UserID("stranger")).Return(false, nil)
	f.messages.EXPECT().GetMessages(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	_, _, err := f.service.History(ctx, "r1", "stranger", nil, 10)
	req.ErrorIs(err, errors.ErrForbidden)
}

func TestRoomService_History_ClampsLimit(t *testing.T) {
	req := require.New(t)
	f := newRoomServiceFixture(t)
	ctx := context.Background()

	// Zero falls back to the default page size
	f.rooms.EXPECT().IsMember(gomock.Any(), domain.RoomID("r1"), domain.UserID("alice")).Return(true, nil)
	f.messages.EXPECT().GetMessages(gomock.Any(), domain.RoomID("r1"), nil, services.DefaultHistoryPageForTest).
		Return(nil, nil, nil)
	_, _, err := f.service.History(ctx, "r1", "alice", nil, 0)
	req.NoError(err)

	// Oversized requests are capped
	f.rooms.EXPECT().IsMember(gomock.Any(), domain.RoomID("r1"), domain.UserID("alice")).Return(true, nil)
	f.messages.EXPECT().GetMessages(gomock.Any(), domain.RoomID("r1"), nil, services.MaxHistoryPageForTest).
		Return(nil, nil, nil)
	_, _, err = f.service.History(ctx, "r1", "alice", nil, 5000)
	req.NoError(err)
}
