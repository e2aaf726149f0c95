package runtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/domain/event"
	"chat-relay/errors"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// SessionState tracks the connection lifecycle. A session object only exists
// once authentication has succeeded; the pre-auth Connecting phase lives in
// the transport handler.
type SessionState int32

const (
	StateAuthenticated SessionState = iota
	StateClosed
)

// ContentFilter censors message content before it is persisted.
type ContentFilter interface {
	Censor(string) string
}

// SessionDeps bundles the collaborators a session controller consults.
type SessionDeps struct {
	Log      *slog.Logger
	Registry contract.IRegistry
	Router   contract.IBroadcaster
	Oracle   contract.IMembershipOracle
	Gateway  contract.IMessageGateway
	Rooms    contract.IRoomDirectory
	Users    contract.IUserDirectory
	Filter   ContentFilter
}

// Session is the per-connection state machine. It owns exactly one
// connection, processes that connection's actions in arrival order, and is
// the only writer of its own lifecycle. All shared state lives behind the
// registry's atomic operations.
type Session struct {
	SessionDeps
	identity  domain.UserIdentity
	connID    contract.ConnectionID
	sink      contract.EventSink
	state     atomic.Int32
	closeOnce sync.Once
}

// NewSession wraps an authenticated connection. The caller must have run the
// identity verifier already; unauthenticated connections never get a session.
func NewSession(deps SessionDeps, identity domain.UserIdentity, connID contract.ConnectionID, sink contract.EventSink) *Session {
	s := &Session{SessionDeps: deps, identity: identity, connID: connID, sink: sink}
	s.state.Store(int32(StateAuthenticated))
	return s
}

func (s *Session) State() SessionState { return SessionState(s.state.Load()) }

func (s *Session) ConnID() contract.ConnectionID { return s.connID }

func (s *Session) Identity() domain.UserIdentity { return s.identity }

// Start registers presence, re-joins the user's stored rooms, and on the
// offline -> online edge marks the user online and notifies those rooms.
func (s *Session) Start(ctx context.Context) error {
	roomIDs, err := s.Rooms.RoomsOfUser(ctx, s.identity.ID)
	if err != nil {
		return fmt.Errorf("%w: loading rooms: %v", errors.ErrStore, err)
	}

	first := s.Registry.RegisterConnection(s.identity.ID, s.connID, s.sink)
	for _, roomID := range roomIDs {
		s.Registry.JoinRoom(s.identity.ID, roomID)
	}

	if first {
		if err := s.Users.SetOnline(ctx, s.identity.ID, true, time.Now().UTC()); err != nil {
			s.Log.Warn("mark online failed", "user_id", s.identity.ID, "error", err)
		}
		online := event.UserOnline{
			UserID:   string(s.identity.ID),
			Username: s.identity.Username,
			Avatar:   s.identity.Avatar,
		}
		for _, roomID := range roomIDs {
			s.Router.Broadcast(ctx, roomID, online, s.connID)
		}
	}

	s.Log.Info("session started", "user_id", s.identity.ID, "conn_id", s.connID, "rooms", len(roomIDs))
	return nil
}

// Close tears the session down exactly once: deregister, and on the last
// connection mark the user offline and notify every room that was in the
// joined-set. Each step is best-effort; one failure never stops the rest.
func (s *Session) Close(ctx context.Context) {
	s.closeOnce.Do(func() {
		s.state.Store(int32(StateClosed))

		remaining, rooms := s.Registry.DeregisterConnection(s.identity.ID, s.connID)
		if remaining > 0 {
			s.Log.Info("session closed", "user_id", s.identity.ID, "conn_id", s.connID, "remaining", remaining)
			return
		}

		lastSeen := time.Now().UTC()
		if err := s.Users.SetOnline(ctx, s.identity.ID, false, lastSeen); err != nil {
			s.Log.Warn("mark offline failed", "user_id", s.identity.ID, "error", err)
		}
		offline := event.UserOffline{
			UserID:   string(s.identity.ID),
			Username: s.identity.Username,
			LastSeen: lastSeen,
		}
		for _, roomID := range rooms {
			s.Router.Broadcast(ctx, roomID, offline, "")
		}
		s.Log.Info("session closed, user offline", "user_id", s.identity.ID, "conn_id", s.connID)
	})
}

type actionEnvelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type roomPayload struct {
	RoomID string `json:"roomId"`
}

type sendMessagePayload struct {
	RoomID      string              `json:"roomId"`
	Content     string              `json:"content"`
	Kind        string              `json:"type"`
	Attachments []attachmentPayload `json:"attachments"`
}

type attachmentPayload struct {
	FileName     string `json:"filename"`
	OriginalName string `json:"originalName"`
	MimeType     string `json:"mimeType"`
	Size         int64  `json:"size"`
	URL          string `json:"url"`
}

type reactionPayload struct {
	MessageID string `json:"messageId"`
	Emoji     string `json:"emoji"`
}

type roomUpdatePayload struct {
	RoomID  string            `json:"roomId"`
	Updates domain.RoomUpdate `json:"updates"`
}

type memberRolePayload struct {
	RoomID  string `json:"roomId"`
	UserID  string `json:"userId"`
	NewRole string `json:"newRole"`
}

type memberPayload struct {
	RoomID string `json:"roomId"`
	UserID string `json:"userId"`
}

// Handle dispatches one inbound frame. Handler errors are turned into an
// error event on this connection only; they never reach other connections
// and never terminate the session.
func (s *Session) Handle(ctx context.Context, raw []byte) {
	if s.State() == StateClosed {
		return
	}
	var env actionEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		s.sendError(ctx, errors.ErrValidation)
		return
	}

	var err error
	switch env.Event {
	case "join_room":
		err = s.handleJoinRoom(ctx, env.Data)
	case "leave_room":
		err = s.handleLeaveRoom(ctx, env.Data)
	case "send_message":
		err = s.handleSendMessage(ctx, env.Data)
	case "typing_start":
		err = s.handleTyping(ctx, env.Data, true)
	case "typing_stop":
		err = s.handleTyping(ctx, env.Data, false)
	case "add_reaction":
		err = s.handleAddReaction(ctx, env.Data)
	case "get_online_users":
		err = s.handleGetOnlineUsers(ctx, env.Data)
	case "room_updated":
		err = s.handleRoomUpdated(ctx, env.Data)
	case "member_role_updated":
		err = s.handleMemberRoleUpdated(ctx, env.Data)
	case "member_removed":
		err = s.handleMemberRemoved(ctx, env.Data)
	case "room_deleted":
		err = s.handleRoomDeleted(ctx, env.Data)
	default:
		err = fmt.Errorf("%w: unknown action %q", errors.ErrValidation, env.Event)
	}

	if err != nil {
		s.Log.Debug("action rejected",
			"action", env.Event, "user_id", s.identity.ID, "error", err)
		s.sendError(ctx, err)
	}
}

// handleJoinRoom admits the user to a room's live broadcast set. The oracle
// is consulted fresh: unknown rooms are NotFound, full rooms Conflict.
// A user the store does not know yet becomes a plain member on the way in.
func (s *Session) handleJoinRoom(ctx context.Context, data json.RawMessage) error {
	var p roomPayload
	if err := json.Unmarshal(data, &p); err != nil || p.RoomID == "" {
		return errors.ErrValidation
	}
	roomID := domain.RoomID(p.RoomID)

	member, err := s.Oracle.IsMember(ctx, roomID, s.identity.ID)
	if err != nil {
		return err
	}
	if !member {
		if err := s.Rooms.EnsureMember(ctx, roomID, s.identity.ID); err != nil {
			return err
		}
	}

	// Liveness check after the oracle round-trip: a handler racing the
	// connection close must not re-add presence state.
	if s.State() == StateClosed {
		return nil
	}
	s.Registry.JoinRoom(s.identity.ID, roomID)

	s.Router.Broadcast(ctx, roomID, event.UserJoinedRoom{
		UserID:   string(s.identity.ID),
		Username: s.identity.Username,
		Avatar:   s.identity.Avatar,
		RoomID:   p.RoomID,
	}, s.connID)
	s.reply(ctx, event.JoinedRoom{RoomID: p.RoomID, Message: "Successfully joined room"})
	return nil
}

// handleLeaveRoom is idempotent and never fails.
func (s *Session) handleLeaveRoom(ctx context.Context, data json.RawMessage) error {
	var p roomPayload
	if err := json.Unmarshal(data, &p); err != nil || p.RoomID == "" {
		return errors.ErrValidation
	}
	roomID := domain.RoomID(p.RoomID)

	s.Registry.LeaveRoom(s.identity.ID, roomID)
	s.Router.Broadcast(ctx, roomID, event.UserLeftRoom{
		UserID:   string(s.identity.ID),
		Username: s.identity.Username,
		RoomID:   p.RoomID,
	}, s.connID)
	s.reply(ctx, event.LeftRoom{RoomID: p.RoomID, Message: "Successfully left room"})
	return nil
}

// handleSendMessage validates, censors, persists, then broadcasts - in that
// order. Persistence failure aborts the broadcast; the error goes to the
// sender only. The local joined-set is the fast gate, the oracle the ground
// truth: a stale local join after a store-side removal fails closed.
func (s *Session) handleSendMessage(ctx context.Context, data json.RawMessage) error {
	var p sendMessagePayload
	if err := json.Unmarshal(data, &p); err != nil || p.RoomID == "" {
		return errors.ErrValidation
	}
	roomID := domain.RoomID(p.RoomID)

	if !s.Registry.IsJoined(s.identity.ID, roomID) {
		return errors.ErrNotJoined
	}

	msg, err := domain.NewMessage(s.identity, roomID, p.Content, p.Kind, toAttachments(p.Attachments))
	if err != nil {
		return err
	}

	member, err := s.Oracle.IsMember(ctx, roomID, s.identity.ID)
	if err != nil {
		return err
	}
	if !member {
		// Presence desynced from the store; drop the stale local join.
		s.Registry.LeaveRoom(s.identity.ID, roomID)
		return errors.ErrNotJoined
	}

	if s.Filter != nil {
		msg.Content = s.Filter.Censor(msg.Content)
	}

	if _, err := s.Gateway.AppendMessage(ctx, msg); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrStore, err)
	}
	// The message is durably stored; a counter failure is not worth
	// surfacing to the sender.
	if err := s.Gateway.IncrementRoomMessageCount(ctx, roomID); err != nil {
		s.Log.Warn("message count update failed", "room_id", roomID, "error", err)
	}

	s.Router.Broadcast(ctx, roomID, event.NewMessage{Message: event.ToMessageView(msg)}, "")
	return nil
}

// handleTyping is best-effort: not being joined is silently ignored.
func (s *Session) handleTyping(ctx context.Context, data json.RawMessage, start bool) error {
	var p roomPayload
	if err := json.Unmarshal(data, &p); err != nil || p.RoomID == "" {
		return nil
	}
	roomID := domain.RoomID(p.RoomID)
	if !s.Registry.IsJoined(s.identity.ID, roomID) {
		return nil
	}

	if start {
		s.Router.Broadcast(ctx, roomID, event.UserTyping{
			UserID: string(s.identity.ID), Username: s.identity.Username, RoomID: p.RoomID,
		}, s.connID)
	} else {
		s.Router.Broadcast(ctx, roomID, event.UserStopTyping{
			UserID: string(s.identity.ID), Username: s.identity.Username, RoomID: p.RoomID,
		}, s.connID)
	}
	return nil
}

// handleAddReaction toggles the (user, emoji) pair on a message and
// broadcasts the updated reaction set to the message's room.
func (s *Session) handleAddReaction(ctx context.Context, data json.RawMessage) error {
	var p reactionPayload
	if err := json.Unmarshal(data, &p); err != nil || p.Emoji == "" {
		return errors.ErrValidation
	}
	messageID, err := uuid.Parse(p.MessageID)
	if err != nil {
		return fmt.Errorf("%w: bad message id", errors.ErrValidation)
	}

	msg, err := s.Gateway.GetMessage(ctx, messageID)
	if err != nil {
		return err
	}
	member, err := s.Oracle.IsMember(ctx, msg.RoomID, s.identity.ID)
	if err != nil {
		return err
	}
	if !member {
		return errors.ErrForbidden
	}

	updated, action, err := s.Gateway.ToggleReaction(ctx, messageID, s.identity.ID, p.Emoji)
	if err != nil {
		return err
	}

	s.Router.Broadcast(ctx, updated.RoomID, event.MessageReaction{
		MessageID: p.MessageID,
		Reactions: event.ToReactionViews(updated.Reactions),
		UserID:    string(s.identity.ID),
		Emoji:     p.Emoji,
		Action:    action,
	}, "")
	return nil
}

// handleGetOnlineUsers answers with the room's store-side members that the
// registry currently considers online. Reply goes to the caller only.
func (s *Session) handleGetOnlineUsers(ctx context.Context, data json.RawMessage) error {
	var p roomPayload
	if err := json.Unmarshal(data, &p); err != nil || p.RoomID == "" {
		return errors.ErrValidation
	}
	room, err := s.Rooms.GetRoom(ctx, domain.RoomID(p.RoomID))
	if err != nil {
		return err
	}

	online := lo.Filter(room.Members, func(m domain.Member, _ int) bool {
		return s.Registry.IsUserOnline(m.UserID)
	})
	users := make([]event.OnlineUser, 0, len(online))
	for _, m := range online {
		identity, err := s.Users.GetUser(ctx, m.UserID)
		if err != nil {
			continue
		}
		users = append(users, event.OnlineUser{
			UserID:   string(m.UserID),
			Username: identity.Username,
			Avatar:   identity.Avatar,
			Role:     string(m.Role),
		})
	}

	s.reply(ctx, event.OnlineUsers{RoomID: p.RoomID, Users: users})
	return nil
}

// handleRoomUpdated relays a settings change to the room after re-checking
// the caller's role. The durable write happens on the API surface; the
// socket action is the realtime notification.
func (s *Session) handleRoomUpdated(ctx context.Context, data json.RawMessage) error {
	var p roomUpdatePayload
	if err := json.Unmarshal(data, &p); err != nil || p.RoomID == "" {
		return errors.ErrValidation
	}
	roomID := domain.RoomID(p.RoomID)

	role, ok, err := s.Oracle.RoleOf(ctx, roomID, s.identity.ID)
	if err != nil {
		return err
	}
	if !ok {
		return errors.ErrForbidden
	}
	if err := domain.AuthorizeSettingsUpdate(role, p.Updates); err != nil {
		return err
	}

	s.Router.Broadcast(ctx, roomID, event.RoomSettingsUpdated{
		RoomID:    p.RoomID,
		Updates:   p.Updates,
		UpdatedBy: event.Ref(s.identity),
	}, s.connID)
	return nil
}

// handleMemberRoleUpdated relays a role change after validating the full
// role matrix against fresh oracle reads for both caller and target.
func (s *Session) handleMemberRoleUpdated(ctx context.Context, data json.RawMessage) error {
	var p memberRolePayload
	if err := json.Unmarshal(data, &p); err != nil || p.RoomID == "" || p.UserID == "" {
		return errors.ErrValidation
	}
	newRole, err := domain.ParseRole(p.NewRole)
	if err != nil {
		return err
	}
	roomID := domain.RoomID(p.RoomID)

	actorRole, ok, err := s.Oracle.RoleOf(ctx, roomID, s.identity.ID)
	if err != nil {
		return err
	}
	if !ok {
		return errors.ErrForbidden
	}
	targetRole, ok, err := s.Oracle.RoleOf(ctx, roomID, domain.UserID(p.UserID))
	if err != nil {
		return err
	}
	if !ok {
		return errors.ErrUserNotFound
	}
	if err := domain.AuthorizeRoleChange(actorRole, targetRole, newRole); err != nil {
		return err
	}

	s.Router.Broadcast(ctx, roomID, event.MemberRoleChanged{
		RoomID:    p.RoomID,
		UserID:    p.UserID,
		NewRole:   p.NewRole,
		UpdatedBy: event.Ref(s.identity),
	}, s.connID)
	return nil
}

// handleMemberRemoved force-evicts the target: their joined-set loses the
// room, all of their connections get removed_from_room, and the remaining
// members are told. Eviction steps are best-effort once authorized.
func (s *Session) handleMemberRemoved(ctx context.Context, data json.RawMessage) error {
	var p memberPayload
	if err := json.Unmarshal(data, &p); err != nil || p.RoomID == "" || p.UserID == "" {
		return errors.ErrValidation
	}
	roomID := domain.RoomID(p.RoomID)
	target := domain.UserID(p.UserID)

	actorRole, ok, err := s.Oracle.RoleOf(ctx, roomID, s.identity.ID)
	if err != nil {
		return err
	}
	if !ok {
		return errors.ErrForbidden
	}
	targetRole, ok, err := s.Oracle.RoleOf(ctx, roomID, target)
	if err != nil {
		return err
	}
	if !ok {
		return errors.ErrUserNotFound
	}
	if err := domain.AuthorizeRemoval(actorRole, targetRole); err != nil {
		return err
	}

	s.Registry.LeaveRoom(target, roomID)
	s.Router.NotifyUser(ctx, target, event.RemovedFromRoom{
		RoomID:    p.RoomID,
		RemovedBy: event.Ref(s.identity),
	})
	s.Router.Broadcast(ctx, roomID, event.MemberRemovedFromRoom{
		RoomID:    p.RoomID,
		UserID:    p.UserID,
		RemovedBy: event.Ref(s.identity),
	}, s.connID)
	return nil
}

// handleRoomDeleted notifies every joined connection (including the caller)
// and clears the room from all joined-sets.
func (s *Session) handleRoomDeleted(ctx context.Context, data json.RawMessage) error {
	var p roomPayload
	if err := json.Unmarshal(data, &p); err != nil || p.RoomID == "" {
		return errors.ErrValidation
	}
	roomID := domain.RoomID(p.RoomID)

	actorRole, ok, err := s.Oracle.RoleOf(ctx, roomID, s.identity.ID)
	if err != nil {
		return err
	}
	if !ok || actorRole != domain.RoleAdmin {
		return errors.ErrForbidden
	}

	s.Router.Broadcast(ctx, roomID, event.RoomDeleted{
		RoomID:    p.RoomID,
		DeletedBy: event.Ref(s.identity),
	}, "")

	for _, conn := range s.Registry.ConnectionsInRoom(roomID) {
		s.Registry.LeaveRoom(conn.UserID, roomID)
	}
	return nil
}

// reply delivers an event to this session's own connection.
func (s *Session) reply(ctx context.Context, e event.DomainEvent) {
	if err := s.sink.Consume(ctx, e); err != nil {
		s.Log.Debug("reply dropped", "event", e.EventName(), "conn_id", s.connID, "error", err)
	}
}

func (s *Session) sendError(ctx context.Context, err error) {
	s.reply(ctx, event.ErrorEvent{Message: err.Error()})
}

func toAttachments(payloads []attachmentPayload) []domain.Attachment {
	return lo.Map(payloads, func(a attachmentPayload, _ int) domain.Attachment {
		return domain.Attachment{
			FileName:     a.FileName,
			OriginalName: a.OriginalName,
			MimeType:     a.MimeType,
			Size:         a.Size,
			URL:          a.URL,
		}
	})
}
