package server

import (
	"net/http"

	"chat-relay/contract"
	"chat-relay/observability"
)

// Deps bundles what the route table needs.
type Deps struct {
	Verifier  contract.IVerifier
	AuthAPI   *AuthAPI
	RoomAPI   *RoomAPI
	WSHandler http.Handler
	Stats     *observability.Collector
}

// NewRouter builds the route table. Method-qualified patterns keep dispatch
// in the mux instead of in handlers.
func NewRouter(deps Deps) *http.ServeMux {
	mux := http.NewServeMux()
	authed := func(h http.HandlerFunc) http.Handler {
		return RequireAuth(deps.Verifier, h)
	}

	mux.HandleFunc("POST /api/auth/register", deps.AuthAPI.Register)
	mux.HandleFunc("POST /api/auth/login", deps.AuthAPI.Login)
	mux.Handle("GET /api/auth/me", authed(deps.AuthAPI.Me))
	mux.Handle("POST /api/auth/logout", authed(deps.AuthAPI.Logout))

	mux.Handle("GET /api/rooms", authed(deps.RoomAPI.ListPublic))
	mux.Handle("POST /api/rooms", authed(deps.RoomAPI.Create))
	mux.Handle("GET /api/rooms/mine", authed(deps.RoomAPI.Mine))
	mux.Handle("GET /api/rooms/{id}", authed(deps.RoomAPI.Get))
	mux.Handle("PUT /api/rooms/{id}", authed(deps.RoomAPI.Update))
	mux.Handle("DELETE /api/rooms/{id}", authed(deps.RoomAPI.Delete))
	mux.Handle("POST /api/rooms/{id}/join", authed(deps.RoomAPI.Join))
	mux.Handle("POST /api/rooms/{id}/leave", authed(deps.RoomAPI.Leave))
	mux.Handle("PUT /api/rooms/{id}/members/{userId}/role", authed(deps.RoomAPI.SetMemberRole))
	mux.Handle("DELETE /api/rooms/{id}/members/{userId}", authed(deps.RoomAPI.RemoveMember))
	mux.Handle("GET /api/rooms/{id}/messages", authed(deps.RoomAPI.History))

	// The websocket handler authenticates itself; tokens arrive in the query.
	mux.Handle("GET /ws", deps.WSHandler)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /statsz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, deps.Stats.Snapshot())
	})

	return mux
}
