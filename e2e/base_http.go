package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gookit/color"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"
)

// BaseHTTPSuite carries the shared plumbing of the end-to-end scenarios: an
// HTTP client against the relay's API and a websocket dialer for the live
// side. The suite skips itself when no server address is configured.
type BaseHTTPSuite struct {
	suite.Suite
	Config Config
	client *http.Client
}

// SetupSuite loads the environment configuration before running tests
func (s *BaseHTTPSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
	if s.Config.ServerAddr == "" {
		s.T().Skip("SERVER_ADDR not set, skipping end-to-end suite")
	}
	s.client = &http.Client{Timeout: 10 * time.Second}
}

// Step prints a colorized header so a scenario's phases stand out in the log.
func (s *BaseHTTPSuite) Step(name string) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)
}

// Request runs one API call and decodes the JSON response into out (when out
// is non-nil), returning the status code.
func (s *BaseHTTPSuite) Request(method, path, token string, body, out any) int {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, "http://"+s.Config.ServerAddr+path, reader)
	s.Require().NoError(err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := s.client.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)

	logBuilder := strings.Builder{}
	fmt.Fprintf(&logBuilder, "HTTP %s %s [%d] in %v", method, path, resp.StatusCode, time.Since(start))
	if s.Config.DebugJSON {
		fmt.Fprintln(&logBuilder, "\nRESPONSE:")
		fmt.Fprintln(&logBuilder, string(raw))
	}
	s.T().Log(logBuilder.String())

	if out != nil && len(raw) > 0 {
		s.Require().NoError(json.Unmarshal(raw, out))
	}
	return resp.StatusCode
}

// wsEnvelope mirrors the relay's websocket frame shape in both directions.
type wsEnvelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Socket is one live connection under test.
type Socket struct {
	suite *BaseHTTPSuite
	conn  *websocket.Conn
}

// Dial opens an authenticated websocket to the relay.
func (s *BaseHTTPSuite) Dial(token string) *Socket {
	u := url.URL{Scheme: "ws", Host: s.Config.ServerAddr, Path: "/ws", RawQuery: "token=" + url.QueryEscape(token)}
	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	s.Require().NoError(err, "Failed to open websocket at "+u.String())
	return &Socket{suite: s, conn: conn}
}

func (ws *Socket) Close() { _ = ws.conn.Close() }

// Send pushes one client action frame.
func (ws *Socket) Send(event string, data any) {
	payload, err := json.Marshal(data)
	ws.suite.Require().NoError(err)
	frame := wsEnvelope{Event: event, Data: payload}
	ws.suite.Require().NoError(ws.conn.WriteJSON(frame))
}

// WaitFor reads frames until the wanted event arrives or the deadline passes,
// decoding its payload into out. Unrelated events in between are logged and
// skipped.
func (ws *Socket) WaitFor(event string, timeout time.Duration, out any) {
	deadline := time.Now().Add(timeout)
	ws.suite.Require().NoError(ws.conn.SetReadDeadline(deadline))
	for {
		var frame wsEnvelope
		err := ws.conn.ReadJSON(&frame)
		ws.suite.Require().NoError(err, "websocket closed while waiting for %q", event)

		if ws.suite.Config.DebugJSON {
			ws.suite.T().Logf("WS <- %s %s", frame.Event, string(frame.Data))
		} else {
			ws.suite.T().Logf("WS <- %s", frame.Event)
		}
		if frame.Event != event {
			ws.suite.Require().NotEqual("error", frame.Event, "relay answered with an error frame: %s", string(frame.Data))
			continue
		}
		if out != nil {
			ws.suite.Require().NoError(json.Unmarshal(frame.Data, out))
		}
		return
	}
}
