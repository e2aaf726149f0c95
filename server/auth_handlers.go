package server

import (
	"net/http"
	"time"

	"chat-relay/auth"
	"chat-relay/contract"
	"chat-relay/errors"
	"chat-relay/services"
)

// AuthAPI serves signup, login, and session introspection.
type AuthAPI struct {
	Auth  services.IAuthService
	Users contract.IUserDirectory
}

type userView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar,omitempty"`
}

type tokenResponse struct {
	Token string   `json:"token"`
	User  userView `json:"user"`
}

func (a *AuthAPI) Register(w http.ResponseWriter, r *http.Request) {
	var req auth.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	identity, token, err := a.Auth.Register(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tokenResponse{
		Token: string(token),
		User:  userView{ID: string(identity.ID), Username: identity.Username, Avatar: identity.Avatar},
	})
}

func (a *AuthAPI) Login(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	identity, token, err := a.Auth.Login(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{
		Token: string(token),
		User:  userView{ID: string(identity.ID), Username: identity.Username, Avatar: identity.Avatar},
	})
}

// Me returns the authenticated caller's profile and presence.
func (a *AuthAPI) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFrom(r.Context())
	if !ok {
		writeError(w, errors.ErrUnauthenticated)
		return
	}
	presence, err := a.Users.Presence(r.Context(), identity.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user":     userView{ID: string(identity.ID), Username: identity.Username, Avatar: identity.Avatar},
		"online":   presence.Online,
		"lastSeen": presence.LastSeen,
	})
}

// Logout marks the user offline in the store. Tokens are stateless; clients
// discard theirs.
func (a *AuthAPI) Logout(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFrom(r.Context())
	if !ok {
		writeError(w, errors.ErrUnauthenticated)
		return
	}
	if err := a.Users.SetOnline(r.Context(), identity.ID, false, time.Now().UTC()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}
