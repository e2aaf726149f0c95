package server

import (
	"net/http"
	"strconv"
	"time"

	"chat-relay/domain"
	"chat-relay/domain/event"
	"chat-relay/errors"
	"chat-relay/services"

	"github.com/samber/lo"
)

// RoomAPI serves room management and message history.
type RoomAPI struct {
	Rooms services.IRoomService
}

type memberView struct {
	UserID   string    `json:"userId"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joinedAt"`
}

type roomView struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Description  string       `json:"description,omitempty"`
	CreatorID    string       `json:"creatorId"`
	IsPrivate    bool         `json:"isPrivate"`
	MaxMembers   int          `json:"maxMembers"`
	MemberCount  int          `json:"memberCount"`
	MessageCount int64        `json:"messageCount"`
	Members      []memberView `json:"members,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

func toRoomView(room domain.Room, includeMembers bool) roomView {
	v := roomView{
		ID:           string(room.ID),
		Name:         room.Name,
		Description:  room.Description,
		CreatorID:    string(room.CreatorID),
		IsPrivate:    room.IsPrivate,
		MaxMembers:   room.MaxMembers,
		MemberCount:  len(room.Members),
		MessageCount: room.MessageCount,
		CreatedAt:    room.CreatedAt,
		UpdatedAt:    room.UpdatedAt,
	}
	if includeMembers {
		v.Members = lo.Map(room.Members, func(m domain.Member, _ int) memberView {
			return memberView{UserID: string(m.UserID), Role: string(m.Role), JoinedAt: m.JoinedAt}
		})
	}
	return v
}

func caller(r *http.Request) (domain.UserID, error) {
	identity, ok := IdentityFrom(r.Context())
	if !ok {
		return "", errors.ErrUnauthenticated
	}
	return identity.ID, nil
}

func (a *RoomAPI) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := caller(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req services.CreateRoomRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	room, err := a.Rooms.CreateRoom(r.Context(), userID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRoomView(room, true))
}

func (a *RoomAPI) ListPublic(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	rooms, err := a.Rooms.ListPublic(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lo.Map(rooms, func(room domain.Room, _ int) roomView {
		return toRoomView(room, false)
	}))
}

func (a *RoomAPI) Mine(w http.ResponseWriter, r *http.Request) {
	userID, err := caller(r)
	if err != nil {
		writeError(w, err)
		return
	}
	rooms, err := a.Rooms.MemberRooms(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lo.Map(rooms, func(room domain.Room, _ int) roomView {
		return toRoomView(room, false)
	}))
}

func (a *RoomAPI) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := caller(r)
	if err != nil {
		writeError(w, err)
		return
	}
	room, err := a.Rooms.GetRoom(r.Context(), domain.RoomID(r.PathValue("id")), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRoomView(room, true))
}

func (a *RoomAPI) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := caller(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var update domain.RoomUpdate
	if err := decodeJSON(r, &update); err != nil {
		writeError(w, err)
		return
	}
	room, err := a.Rooms.UpdateRoom(r.Context(), domain.RoomID(r.PathValue("id")), userID, update)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRoomView(room, true))
}

func (a *RoomAPI) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := caller(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := a.Rooms.DeleteRoom(r.Context(), domain.RoomID(r.PathValue("id")), userID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "room deleted"})
}

func (a *RoomAPI) Join(w http.ResponseWriter, r *http.Request) {
	userID, err := caller(r)
	if err != nil {
		writeError(w, err)
		return
	}
	room, err := a.Rooms.JoinRoom(r.Context(), domain.RoomID(r.PathValue("id")), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRoomView(room, true))
}

func (a *RoomAPI) Leave(w http.ResponseWriter, r *http.Request) {
	userID, err := caller(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := a.Rooms.LeaveRoom(r.Context(), domain.RoomID(r.PathValue("id")), userID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "left room"})
}

type setRoleRequest struct {
	Role string `json:"role"`
}

func (a *RoomAPI) SetMemberRole(w http.ResponseWriter, r *http.Request) {
	userID, err := caller(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req setRoleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		writeError(w, err)
		return
	}
	err = a.Rooms.SetMemberRole(r.Context(),
		domain.RoomID(r.PathValue("id")), userID, domain.UserID(r.PathValue("userId")), role)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "role updated"})
}

func (a *RoomAPI) RemoveMember(w http.ResponseWriter, r *http.Request) {
	userID, err := caller(r)
	if err != nil {
		writeError(w, err)
		return
	}
	err = a.Rooms.RemoveMember(r.Context(),
		domain.RoomID(r.PathValue("id")), userID, domain.UserID(r.PathValue("userId")))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "member removed"})
}

type historyResponse struct {
	Messages   []event.MessageView `json:"messages"`
	NextCursor *string             `json:"nextCursor,omitempty"`
}

// History pages messages newest-first; the cursor comes back opaque.
func (a *RoomAPI) History(w http.ResponseWriter, r *http.Request) {
	userID, err := caller(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var cursor *string
	if c := r.URL.Query().Get("cursor"); c != "" {
		cursor = &c
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	messages, next, err := a.Rooms.History(r.Context(), domain.RoomID(r.PathValue("id")), userID, cursor, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, historyResponse{
		Messages:   lo.Map(messages, func(m domain.Message, _ int) event.MessageView { return event.ToMessageView(m) }),
		NextCursor: next,
	})
}
