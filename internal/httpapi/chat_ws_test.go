package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/antoniostano/ava/internal/brain"
	"github.com/antoniostano/ava/internal/protocol"
	"github.com/antoniostano/ava/internal/voice"
)

func dialChatWS(t *testing.T, env *testEnv) *websocket.Conn {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(env.ts.URL, "http") + "/v1/chat/ws"
	header := http.Header{}

	// Reuse the session cookie the jar holds for the test server origin.
	parsed, err := http.NewRequest(http.MethodGet, env.ts.URL, nil)
	if err != nil {
		t.Fatalf("build cookie request: %v", err)
	}
	for _, c := range env.client.Jar.Cookies(parsed.URL) {
		header.Add("Cookie", c.String())
	}

	conn, res, err := websocket.DefaultDialer.Dial(wsURL, header)
	if err != nil {
		status := 0
		if res != nil {
			status = res.StatusCode
		}
		t.Fatalf("dial ws error = %v (status %d)", err, status)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestChatWSRoundTrip(t *testing.T) {
	env := newTestEnv(t, brain.NewMockBrain(), voice.NewMockSynthesizer())
	env.login(t)

	conn := dialChatWS(t, env)

	err := conn.WriteJSON(protocol.ClientUtterance{Type: protocol.TypeClientUtterance, Text: "Hi over ws"})
	if err != nil {
		t.Fatalf("write utterance: %v", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read reply: %v", err)
	}

	var reply protocol.AssistantReply
	if err := json.Unmarshal(data, &reply); err != nil {
		t.Fatalf("decode reply: %v", err)
	}
	if reply.Type != protocol.TypeAssistantReply {
		t.Fatalf("reply type = %q, want %q", reply.Type, protocol.TypeAssistantReply)
	}
	if reply.Response != "I heard you: Hi over ws" {
		t.Fatalf("reply text = %q, want mock echo", reply.Response)
	}
	if reply.AudioFile != "/v1/chat/audio" {
		t.Fatalf("reply audio = %q, want artifact route", reply.AudioFile)
	}
}

func TestChatWSInvalidMessageYieldsErrorEvent(t *testing.T) {
	env := newTestEnv(t, brain.NewMockBrain(), nil)
	env.login(t)

	conn := dialChatWS(t, env)

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"mystery"}`)); err != nil {
		t.Fatalf("write invalid message: %v", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read error event: %v", err)
	}

	var event protocol.ErrorEvent
	if err := json.Unmarshal(data, &event); err != nil {
		t.Fatalf("decode error event: %v", err)
	}
	if event.Type != protocol.TypeErrorEvent || event.Code != "invalid_client_message" {
		t.Fatalf("event = %+v, want invalid_client_message error", event)
	}
}

func TestChatWSRequiresSession(t *testing.T) {
	env := newTestEnv(t, brain.NewMockBrain(), nil)

	wsURL := "ws" + strings.TrimPrefix(env.ts.URL, "http") + "/v1/chat/ws"
	_, res, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		t.Fatalf("unauthenticated ws dial succeeded, want rejection")
	}
	if res == nil || res.StatusCode != http.StatusUnauthorized {
		status := 0
		if res != nil {
			status = res.StatusCode
		}
		t.Fatalf("ws dial status = %d, want %d", status, http.StatusUnauthorized)
	}
}
