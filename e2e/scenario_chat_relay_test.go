package e2e

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type testChatRelaySuite struct {
	BaseHTTPSuite
}

func TestChatRelaySuite(t *testing.T) {
	suite.Run(t, &testChatRelaySuite{})
}

type tokenResponse struct {
	Token string `json:"token"`
	User  struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	} `json:"user"`
}

type roomResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (s *testChatRelaySuite) register(username string) tokenResponse {
	var resp tokenResponse
	status := s.Request(http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "S3cure!pass",
	}, &resp)
	s.Require().Equal(http.StatusCreated, status)
	s.Require().NotEmpty(resp.Token)
	return resp
}

func (s *testChatRelaySuite) TestFullChatFlow() {
	// Unique names keep reruns against the same database green
	run := uuid.New().String()[:8]
	roomName := "e2e-room-" + run

	var alice, bob tokenResponse
	s.Run("Step 0: Register two users", func() {
		s.Step("Registering alice and bob")
		alice = s.register("alice-" + run)
		bob = s.register("bob-" + run)
	})

	var room roomResponse
	s.Run("Step 1: Alice creates a room, bob joins over HTTP", func() {
		s.Step("Room setup")
		status := s.Request(http.MethodPost, "/api/rooms", alice.Token, map[string]any{
			"name":        roomName,
			"description": "end to end scenario room",
		}, &room)
		s.Require().Equal(http.StatusCreated, status)

		status = s.Request(http.MethodPost, fmt.Sprintf("/api/rooms/%s/join", room.ID), bob.Token, nil, nil)
		s.Require().Equal(http.StatusOK, status)
	})

	s.Run("Step 2: Live round-trip through the relay", func() {
		s.Step("Websocket message flow")
		aliceWS := s.Dial(alice.Token)
		defer aliceWS.Close()
		bobWS := s.Dial(bob.Token)
		defer bobWS.Close()

		// Both subscribe to the live room
		aliceWS.Send("join_room", map[string]string{"roomId": room.ID})
		aliceWS.WaitFor("joined_room", 5*time.Second, nil)
		bobWS.Send("join_room", map[string]string{"roomId": room.ID})
		bobWS.WaitFor("joined_room", 5*time.Second, nil)

		// Alice speaks, bob hears
		content := "hello from the e2e suite " + run
		aliceWS.Send("send_message", map[string]string{"roomId": room.ID, "content": content})

		var received struct {
			Message struct {
				Content string `json:"content"`
				Sender  struct {
					Username string `json:"username"`
				} `json:"sender"`
			} `json:"message"`
		}
		bobWS.WaitFor("new_message", 5*time.Second, &received)
		s.Require().Equal(content, received.Message.Content)
		s.Require().Equal(alice.User.Username, received.Message.Sender.Username)

		// Typing indicators reach the other side only
		aliceWS.Send("typing_start", map[string]string{"roomId": room.ID})
		bobWS.WaitFor("user_typing", 5*time.Second, nil)
	})

	s.Run("Step 3: The message landed in history", func() {
		s.Step("History over HTTP")
		var history struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		status := s.Request(http.MethodGet, fmt.Sprintf("/api/rooms/%s/messages", room.ID), bob.Token, nil, &history)
		s.Require().Equal(http.StatusOK, status)
		s.Require().NotEmpty(history.Messages)
	})

	s.Run("Step 4: Tear the room down", func() {
		s.Step("Admin deletes the room")
		status := s.Request(http.MethodDelete, "/api/rooms/"+room.ID, alice.Token, nil, nil)
		s.Require().Equal(http.StatusOK, status)

		status = s.Request(http.MethodGet, "/api/rooms/"+room.ID, alice.Token, nil, nil)
		s.Require().Equal(http.StatusNotFound, status)
	})
}
