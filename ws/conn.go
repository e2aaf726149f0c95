package ws

import (
	"context"
	"log/slog"
	"time"

	"chat-relay/domain/event"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 << 10
)

// envelope is the outbound wire frame: the event name plus its payload.
type envelope struct {
	Event string            `json:"event"`
	Data  event.DomainEvent `json:"data"`
}

// Conn wraps one websocket connection. Reads happen on the handler goroutine;
// writes are owned exclusively by the write pump.
type Conn struct {
	log *slog.Logger
	ws  *websocket.Conn
}

func newConn(log *slog.Logger, ws *websocket.Conn) *Conn {
	ws.SetReadLimit(maxMessageSize)
	return &Conn{log: log, ws: ws}
}

// setupRead arms the read deadline and keeps it alive on every pong.
func (c *Conn) setupRead() {
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})
}

// readMessage blocks for the next text frame.
func (c *Conn) readMessage() ([]byte, error) {
	for {
		msgType, data, err := c.ws.ReadMessage()
		if err != nil {
			return nil, err
		}
		if msgType == websocket.TextMessage || msgType == websocket.BinaryMessage {
			return data, nil
		}
	}
}

// writePump drains the sink into the socket and keeps the connection alive
// with periodic pings. It exits when the context is cancelled or a write
// fails, closing the socket either way.
func (c *Conn) writePump(ctx context.Context, events <-chan event.DomainEvent) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()

	for {
		select {
		case e := <-events:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteJSON(envelope{Event: e.EventName(), Data: e}); err != nil {
				if !isExpectedCloseError(err) {
					c.log.Warn("websocket write failed", "event", e.EventName(), "error", err)
				}
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-ctx.Done():
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.ws.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

func (c *Conn) close() {
	_ = c.ws.Close()
}

// isExpectedCloseError filters the close codes a departing client produces in
// the normal course of events.
func isExpectedCloseError(err error) bool {
	return websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseAbnormalClosure,
		websocket.CloseNoStatusReceived)
}
