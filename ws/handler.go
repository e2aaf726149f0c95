package ws

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"chat-relay/contract"
	"chat-relay/runtime"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Handler authenticates upgrade requests and runs one session per accepted
// connection.
type Handler struct {
	log        *slog.Logger
	verifier   contract.IVerifier
	deps       runtime.SessionDeps
	bufferSize int
	upgrader   websocket.Upgrader
}

func NewHandler(log *slog.Logger, verifier contract.IVerifier, deps runtime.SessionDeps, bufferSize int) *Handler {
	return &Handler{
		log:        log,
		verifier:   verifier,
		deps:       deps,
		bufferSize: bufferSize,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// credential pulls the bearer token off the query string or the
// Authorization header. Browsers cannot set headers on websocket upgrades,
// so the query form is the common path.
func credential(r *http.Request) string {
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}
	return strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
}

// ServeHTTP verifies the credential, upgrades, and runs the session until the
// client goes away. Unauthenticated requests are rejected before the upgrade.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	identity, err := h.verifier.Verify(r.Context(), credential(r))
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	socket, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "user_id", identity.ID, "error", err)
		return
	}

	connID := contract.ConnectionID(uuid.NewString())
	sink := NewSink(h.bufferSize)
	conn := newConn(h.log, socket)
	session := runtime.NewSession(h.deps, identity, connID, sink)

	// Detached from the request context: the session outlives nothing but
	// the connection itself.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := session.Start(ctx); err != nil {
		h.log.Error("session start failed", "user_id", identity.ID, "error", err)
		conn.close()
		return
	}
	defer session.Close(ctx)

	go conn.writePump(ctx, sink.Events())

	// Actions are processed in arrival order on this goroutine; per-connection
	// ordering is what clients observe.
	conn.setupRead()
	for {
		raw, err := conn.readMessage()
		if err != nil {
			if !isExpectedCloseError(err) {
				h.log.Warn("websocket read failed", "user_id", identity.ID, "conn_id", connID, "error", err)
			}
			return
		}
		session.Handle(ctx, raw)
	}
}
