package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/domain/event"
	"chat-relay/errors"
	"chat-relay/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type starFilter struct{}

func (starFilter) Censor(s string) string { return strings.ReplaceAll(s, "badword", "*******") }

type sessionFixture struct {
	registry *Registry
	oracle   *mocks.MockIMembershipOracle
	gateway  *mocks.MockIMessageGateway
	rooms    *mocks.MockIRoomDirectory
	users    *mocks.MockIUserDirectory
	sink     *recordingSink
	session  *Session
}

func newSessionFixture(t *testing.T, identity domain.UserIdentity, connID contract.ConnectionID) *sessionFixture {
	ctrl := gomock.NewController(t)
	registry := NewRegistry()

	f := &sessionFixture{
		registry: registry,
		oracle:   mocks.NewMockIMembershipOracle(ctrl),
		gateway:  mocks.NewMockIMessageGateway(ctrl),
		rooms:    mocks.NewMockIRoomDirectory(ctrl),
		users:    mocks.NewMockIUserDirectory(ctrl),
		sink:     &recordingSink{},
	}
	deps := SessionDeps{
		Log:      slog.Default(),
		Registry: registry,
		Router:   NewRouter(slog.Default(), registry, testDeliveryTimeout),
		Oracle:   f.oracle,
		Gateway:  f.gateway,
		Rooms:    f.rooms,
		Users:    f.users,
		Filter:   starFilter{},
	}
	f.session = NewSession(deps, identity, connID, f.sink)
	return f
}

// joined wires the session's own connection into the registry as if Start
// had run, with the given rooms already in the joined-set.
func (f *sessionFixture) joined(rooms ...domain.RoomID) {
	f.registry.RegisterConnection(f.session.Identity().ID, f.session.ConnID(), f.sink)
	for _, roomID := range rooms {
		f.registry.JoinRoom(f.session.Identity().ID, roomID)
	}
}

func eventNames(events []event.DomainEvent) []string {
	names := make([]string, 0, len(events))
	for _, e := range events {
		names = append(names, e.EventName())
	}
	return names
}

func TestSession_Start_FirstConnectionAnnouncesOnline(t *testing.T) {
	req := require.New(t)
	alice := domain.UserIdentity{ID: "alice", Username: "alice"}
	f := newSessionFixture(t, alice, "alice-1")
	ctx := context.Background()

	// Given bob is already joined to general
	bobSink := &recordingSink{}
	f.registry.RegisterConnection("bob", "bob-1", bobSink)
	f.registry.JoinRoom("bob", "general")

	// And the store knows alice as a member of general
	f.rooms.EXPECT().RoomsOfUser(gomock.Any(), alice.ID).Return([]domain.RoomID{"general"}, nil)
	f.users.EXPECT().SetOnline(gomock.Any(), alice.ID, true, gomock.Any()).Return(nil)

	// When the session starts
	req.NoError(f.session.Start(ctx))

	// Then alice is online and joined to her stored room
	req.True(f.registry.IsUserOnline(alice.ID))
	req.True(f.registry.IsJoined(alice.ID, "general"))

	// And bob heard user_online, alice did not hear her own
	req.Equal([]string{"user_online"}, eventNames(bobSink.events))
	req.Empty(f.sink.events)
}

func TestSession_Start_SecondConnectionIsSilent(t *testing.T) {
	req := require.New(t)
	alice := domain.UserIdentity{ID: "alice", Username: "alice"}
	f := newSessionFixture(t, alice, "alice-2")
	ctx := context.Background()

	// Given alice already has a live connection joined to general
	firstSink := &recordingSink{}
	f.registry.RegisterConnection("alice", "alice-1", firstSink)
	f.registry.JoinRoom("alice", "general")

	f.rooms.EXPECT().RoomsOfUser(gomock.Any(), alice.ID).Return([]domain.RoomID{"general"}, nil)
	// No SetOnline expectation: the user never left online state.

	req.NoError(f.session.Start(ctx))

	// No user_online is emitted for an already-online user
	req.Empty(firstSink.events)
}

func TestSession_Close_LastConnectionAnnouncesOffline(t *testing.T) {
	req := require.New(t)
	alice := domain.UserIdentity{ID: "alice", Username: "alice"}
	f := newSessionFixture(t, alice, "alice-1")
	ctx := context.Background()
	f.joined("general")

	bobSink := &recordingSink{}
	f.registry.RegisterConnection("bob", "bob-1", bobSink)
	f.registry.JoinRoom("bob", "general")

	f.users.EXPECT().SetOnline(gomock.Any(), alice.ID, false, gomock.Any()).Return(nil)

	f.session.Close(ctx)

	// Alice is gone, bob heard user_offline, closing twice is safe
	req.False(f.registry.IsUserOnline(alice.ID))
	req.Equal([]string{"user_offline"}, eventNames(bobSink.events))
	f.session.Close(ctx)
	req.Equal([]string{"user_offline"}, eventNames(bobSink.events))
}

func TestSession_SendMessage_NotJoinedFailsClosed(t *testing.T) {
	req := require.New(t)
	alice := domain.UserIdentity{ID: "alice", Username: "alice"}
	f := newSessionFixture(t, alice, "alice-1")
	ctx := context.Background()
	f.joined() // connected but no rooms

	// The gateway must never be touched
	f.gateway.EXPECT().AppendMessage(gomock.Any(), gomock.Any()).Times(0)

	f.session.Handle(ctx, []byte(`{"event":"send_message","data":{"roomId":"general","content":"hi"}}`))

	// The sender alone receives the error
	req.Equal([]string{"error"}, eventNames(f.sink.events))
}

func TestSession_SendMessage_ValidationBeforePersistence(t *testing.T) {
	req := require.New(t)
	alice := domain.UserIdentity{ID: "alice", Username: "alice"}
	f := newSessionFixture(t, alice, "alice-1")
	ctx := context.Background()
	f.joined("general")

	f.gateway.EXPECT().AppendMessage(gomock.Any(), gomock.Any()).Times(0)

	// Whitespace-only content never reaches the store
	f.session.Handle(ctx, []byte(`{"event":"send_message","data":{"roomId":"general","content":"   "}}`))
	req.Equal([]string{"error"}, eventNames(f.sink.events))
}

func TestSession_SendMessage_StaleLocalJoinDropsFast(t *testing.T) {
	req := require.New(t)
	alice := domain.UserIdentity{ID: "alice", Username: "alice"}
	f := newSessionFixture(t, alice, "alice-1")
	ctx := context.Background()
	f.joined("general")

	// The store no longer considers alice a member
	f.oracle.EXPECT().IsMember(gomock.Any(), domain.RoomID("general"), alice.ID).Return(false, nil)
	f.gateway.EXPECT().AppendMessage(gomock.Any(), gomock.Any()).Times(0)

	f.session.Handle(ctx, []byte(`{"event":"send_message","data":{"roomId":"general","content":"hi"}}`))

	// The action fails and the stale local join is gone
	req.Equal([]string{"error"}, eventNames(f.sink.events))
	req.False(f.registry.IsJoined(alice.ID, "general"))
}

func TestSession_SendMessage_PersistFailureAbortsBroadcast(t *testing.T) {
	req := require.New(t)
	alice := domain.UserIdentity{ID: "alice", Username: "alice"}
	f := newSessionFixture(t, alice, "alice-1")
	ctx := context.Background()
	f.joined("general")

	bobSink := &recordingSink{}
	f.registry.RegisterConnection("bob", "bob-1", bobSink)
	f.registry.JoinRoom("bob", "general")

	f.oracle.EXPECT().IsMember(gomock.Any(), domain.RoomID("general"), alice.ID).Return(true, nil)
	f.gateway.EXPECT().AppendMessage(gomock.Any(), gomock.Any()).Return(uuid.Nil, fmt.Errorf("disk full"))

	f.session.Handle(ctx, []byte(`{"event":"send_message","data":{"roomId":"general","content":"hi"}}`))

	// Nothing reaches the room; the sender gets the error
	req.Empty(bobSink.events)
	req.Equal([]string{"error"}, eventNames(f.sink.events))
}

func TestSession_SendMessage_CensorsThenBroadcastsToAll(t *testing.T) {
	req := require.New(t)
	alice := domain.UserIdentity{ID: "alice", Username: "alice"}
	f := newSessionFixture(t, alice, "alice-1")
	ctx := context.Background()
	f.joined("general")

	bobSink := &recordingSink{}
	f.registry.RegisterConnection("bob", "bob-1", bobSink)
	f.registry.JoinRoom("bob", "general")

	f.oracle.EXPECT().IsMember(gomock.Any(), domain.RoomID("general"), alice.ID).Return(true, nil)

	var stored domain.Message
	f.gateway.EXPECT().
		AppendMessage(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, m domain.Message) (uuid.UUID, error) {
			stored = m
			return m.ID, nil
		})
	f.gateway.EXPECT().IncrementRoomMessageCount(gomock.Any(), domain.RoomID("general")).Return(nil)

	f.session.Handle(ctx, []byte(`{"event":"send_message","data":{"roomId":"general","content":"this is badword here"}}`))

	// Censored before storage, delivered to sender and bob alike
	req.Equal("this is ******* here", stored.Content)
	req.Equal([]string{"new_message"}, eventNames(f.sink.events))
	req.Equal([]string{"new_message"}, eventNames(bobSink.events))

	delivered := bobSink.events[0].(event.NewMessage)
	req.Equal("this is ******* here", delivered.Message.Content)
	req.Equal("alice", delivered.Message.Sender.UserID)
}

func TestSession_Typing_ExcludesSelfAndIgnoresOutsiders(t *testing.T) {
	req := require.New(t)
	alice := domain.UserIdentity{ID: "alice", Username: "alice"}
	f := newSessionFixture(t, alice, "alice-1")
	ctx := context.Background()
	f.joined("general")

	bobSink := &recordingSink{}
	f.registry.RegisterConnection("bob", "bob-1", bobSink)
	f.registry.JoinRoom("bob", "general")

	f.session.Handle(ctx, []byte(`{"event":"typing_start","data":{"roomId":"general"}}`))
	f.session.Handle(ctx, []byte(`{"event":"typing_stop","data":{"roomId":"general"}}`))

	// Bob sees both; alice sees neither, and gets no error either
	req.Equal([]string{"user_typing", "user_stop_typing"}, eventNames(bobSink.events))
	req.Empty(f.sink.events)

	// A room the sender never joined is silently ignored
	f.session.Handle(ctx, []byte(`{"event":"typing_start","data":{"roomId":"other"}}`))
	req.Empty(f.sink.events)
}

func TestSession_AddReaction_TogglesAndBroadcasts(t *testing.T) {
	req := require.New(t)
	alice := domain.UserIdentity{ID: "alice", Username: "alice"}
	f := newSessionFixture(t, alice, "alice-1")
	ctx := context.Background()
	f.joined("general")

	messageID := uuid.New()
	stored := domain.Message{ID: messageID, RoomID: "general", SenderID: "bob"}
	f.gateway.EXPECT().GetMessage(gomock.Any(), messageID).Return(stored, nil)
	f.oracle.EXPECT().IsMember(gomock.Any(), domain.RoomID("general"), alice.ID).Return(true, nil)

	toggled := stored
	toggled.Reactions = []domain.Reaction{{UserID: alice.ID, Emoji: "👍"}}
	f.gateway.EXPECT().ToggleReaction(gomock.Any(), messageID, alice.ID, "👍").Return(toggled, domain.ReactionAdded, nil)

	payload := fmt.Sprintf(`{"event":"add_reaction","data":{"messageId":%q,"emoji":"👍"}}`, messageID)
	f.session.Handle(ctx, []byte(payload))

	// The reaction event reaches the sender too (no exclusion)
	req.Equal([]string{"message_reaction"}, eventNames(f.sink.events))
	reaction := f.sink.events[0].(event.MessageReaction)
	req.Equal(domain.ReactionAdded, reaction.Action)
	req.Len(reaction.Reactions, 1)
}

func TestSession_AddReaction_NonMemberForbidden(t *testing.T) {
	req := require.New(t)
	alice := domain.UserIdentity{ID: "alice", Username: "alice"}
	f := newSessionFixture(t, alice, "alice-1")
	ctx := context.Background()
	f.joined()

	messageID := uuid.New()
	f.gateway.EXPECT().GetMessage(gomock.Any(), messageID).
		Return(domain.Message{ID: messageID, RoomID: "private-room"}, nil)
	f.oracle.EXPECT().IsMember(gomock.Any(), domain.RoomID("private-room"), alice.ID).Return(false, nil)
	f.gateway.EXPECT().ToggleReaction(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	payload := fmt.Sprintf(`{"event":"add_reaction","data":{"messageId":%q,"emoji":"👍"}}`, messageID)
	f.session.Handle(ctx, []byte(payload))

	req.Equal([]string{"error"}, eventNames(f.sink.events))
}

func TestSession_JoinRoom_AutoEnrollsAndAnnounces(t *testing.T) {
	req := require.New(t)
	alice := domain.UserIdentity{ID: "alice", Username: "alice"}
	f := newSessionFixture(t, alice, "alice-1")
	ctx := context.Background()
	f.joined()

	bobSink := &recordingSink{}
	f.registry.RegisterConnection("bob", "bob-1", bobSink)
	f.registry.JoinRoom("bob", "general")

	// Alice is not a member yet; the store enrolls her on the way in
	f.oracle.EXPECT().IsMember(gomock.Any(), domain.RoomID("general"), alice.ID).Return(false, nil)
	f.rooms.EXPECT().EnsureMember(gomock.Any(), domain.RoomID("general"), alice.ID).Return(nil)

	f.session.Handle(ctx, []byte(`{"event":"join_room","data":{"roomId":"general"}}`))

	req.True(f.registry.IsJoined(alice.ID, "general"))
	req.Equal([]string{"user_joined_room"}, eventNames(bobSink.events))
	req.Equal([]string{"joined_room"}, eventNames(f.sink.events))
}

func TestSession_JoinRoom_FullRoomConflict(t *testing.T) {
	req := require.New(t)
	alice := domain.UserIdentity{ID: "alice", Username: "alice"}
	f := newSessionFixture(t, alice, "alice-1")
	ctx := context.Background()
	f.joined()

	f.oracle.EXPECT().IsMember(gomock.Any(), domain.RoomID("general"), alice.ID).Return(false, nil)
	f.rooms.EXPECT().EnsureMember(gomock.Any(), domain.RoomID("general"), alice.ID).Return(errors.ErrRoomFull)

	f.session.Handle(ctx, []byte(`{"event":"join_room","data":{"roomId":"general"}}`))

	req.False(f.registry.IsJoined(alice.ID, "general"))
	req.Equal([]string{"error"}, eventNames(f.sink.events))
}

func TestSession_MemberRemoved_EvictsTargetEverywhere(t *testing.T) {
	req := require.New(t)
	admin := domain.UserIdentity{ID: "admin", Username: "admin"}
	f := newSessionFixture(t, admin, "admin-1")
	ctx := context.Background()
	f.joined("general")

	// The target is joined on two devices
	phone := &recordingSink{}
	laptop := &recordingSink{}
	f.registry.RegisterConnection("mallory", "phone", phone)
	f.registry.RegisterConnection("mallory", "laptop", laptop)
	f.registry.JoinRoom("mallory", "general")

	witness := &recordingSink{}
	f.registry.RegisterConnection("bob", "bob-1", witness)
	f.registry.JoinRoom("bob", "general")

	f.oracle.EXPECT().RoleOf(gomock.Any(), domain.RoomID("general"), admin.ID).Return(domain.RoleAdmin, true, nil)
	f.oracle.EXPECT().RoleOf(gomock.Any(), domain.RoomID("general"), domain.UserID("mallory")).Return(domain.RoleMember, true, nil)

	f.session.Handle(ctx, []byte(`{"event":"member_removed","data":{"roomId":"general","userId":"mallory"}}`))

	// The target lost the room and both devices heard removed_from_room only
	req.False(f.registry.IsJoined("mallory", "general"))
	req.Equal([]string{"removed_from_room"}, eventNames(phone.events))
	req.Equal([]string{"removed_from_room"}, eventNames(laptop.events))

	// The rest of the room heard member_removed_from_room
	req.Equal([]string{"member_removed_from_room"}, eventNames(witness.events))

	// A later send from the target fails closed
	req.False(f.registry.IsJoined("mallory", "general"))
}

func TestSession_MemberRemoved_ModeratorCannotRemoveModerator(t *testing.T) {
	req := require.New(t)
	mod := domain.UserIdentity{ID: "mod", Username: "mod"}
	f := newSessionFixture(t, mod, "mod-1")
	ctx := context.Background()
	f.joined("general")

	f.oracle.EXPECT().RoleOf(gomock.Any(), domain.RoomID("general"), mod.ID).Return(domain.RoleModerator, true, nil)
	f.oracle.EXPECT().RoleOf(gomock.Any(), domain.RoomID("general"), domain.UserID("peer")).Return(domain.RoleModerator, true, nil)

	f.session.Handle(ctx, []byte(`{"event":"member_removed","data":{"roomId":"general","userId":"peer"}}`))

	req.Equal([]string{"error"}, eventNames(f.sink.events))
}

func TestSession_RoomDeleted_NotifiesAllThenClears(t *testing.T) {
	req := require.New(t)
	admin := domain.UserIdentity{ID: "admin", Username: "admin"}
	f := newSessionFixture(t, admin, "admin-1")
	ctx := context.Background()
	f.joined("general")

	bobSink := &recordingSink{}
	f.registry.RegisterConnection("bob", "bob-1", bobSink)
	f.registry.JoinRoom("bob", "general")

	f.oracle.EXPECT().RoleOf(gomock.Any(), domain.RoomID("general"), admin.ID).Return(domain.RoleAdmin, true, nil)

	f.session.Handle(ctx, []byte(`{"event":"room_deleted","data":{"roomId":"general"}}`))

	// Everyone heard it, the caller included, and the room is empty
	req.Equal([]string{"room_deleted"}, eventNames(f.sink.events))
	req.Equal([]string{"room_deleted"}, eventNames(bobSink.events))
	req.False(f.registry.IsJoined("bob", "general"))
	req.False(f.registry.IsJoined(admin.ID, "general"))
	req.Empty(f.registry.ConnectionsInRoom("general"))
}

func TestSession_RoomUpdated_PrivacyRequiresAdmin(t *testing.T) {
	req := require.New(t)
	mod := domain.UserIdentity{ID: "mod", Username: "mod"}
	f := newSessionFixture(t, mod, "mod-1")
	ctx := context.Background()
	f.joined("general")

	bobSink := &recordingSink{}
	f.registry.RegisterConnection("bob", "bob-1", bobSink)
	f.registry.JoinRoom("bob", "general")

	// A moderator may rename
	f.oracle.EXPECT().RoleOf(gomock.Any(), domain.RoomID("general"), mod.ID).Return(domain.RoleModerator, true, nil)
	f.session.Handle(ctx, []byte(`{"event":"room_updated","data":{"roomId":"general","updates":{"name":"new name"}}}`))
	req.Equal([]string{"room_settings_updated"}, eventNames(bobSink.events))

	// But not flip privacy
	f.oracle.EXPECT().RoleOf(gomock.Any(), domain.RoomID("general"), mod.ID).Return(domain.RoleModerator, true, nil)
	f.session.Handle(ctx, []byte(`{"event":"room_updated","data":{"roomId":"general","updates":{"isPrivate":true}}}`))
	req.Equal([]string{"error"}, eventNames(f.sink.events))
	req.Equal([]string{"room_settings_updated"}, eventNames(bobSink.events))
}

func TestSession_UnknownActionRejected(t *testing.T) {
	req := require.New(t)
	alice := domain.UserIdentity{ID: "alice", Username: "alice"}
	f := newSessionFixture(t, alice, "alice-1")

	f.session.Handle(context.Background(), []byte(`{"event":"fly_to_the_moon","data":{}}`))

	req.Equal([]string{"error"}, eventNames(f.sink.events))
}

func TestSession_GetOnlineUsers_RepliesToCallerOnly(t *testing.T) {
	req := require.New(t)
	alice := domain.UserIdentity{ID: "alice", Username: "alice"}
	f := newSessionFixture(t, alice, "alice-1")
	ctx := context.Background()
	f.joined("general")

	bobSink := &recordingSink{}
	f.registry.RegisterConnection("bob", "bob-1", bobSink)
	f.registry.JoinRoom("bob", "general")

	room := domain.Room{
		ID: "general",
		Members: []domain.Member{
			{UserID: "alice", Role: domain.RoleAdmin},
			{UserID: "bob", Role: domain.RoleMember},
			{UserID: "sleeping", Role: domain.RoleMember},
		},
	}
	f.rooms.EXPECT().GetRoom(gomock.Any(), domain.RoomID("general")).Return(room, nil)
	f.users.EXPECT().GetUser(gomock.Any(), domain.UserID("alice")).Return(alice, nil)
	f.users.EXPECT().GetUser(gomock.Any(), domain.UserID("bob")).Return(domain.UserIdentity{ID: "bob", Username: "bob"}, nil)

	f.session.Handle(ctx, []byte(`{"event":"get_online_users","data":{"roomId":"general"}}`))

	// Only live members come back, only to the caller
	req.Empty(bobSink.events)
	req.Equal([]string{"online_users"}, eventNames(f.sink.events))
	reply := f.sink.events[0].(event.OnlineUsers)
	req.Len(reply.Users, 2)
}
