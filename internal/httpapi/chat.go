package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/antoniostano/ava/internal/audio"
	"github.com/antoniostano/ava/internal/brain"
	"github.com/antoniostano/ava/internal/protocol"
)

type messageRequest struct {
	HumanInput string `json:"human_input"`
}

type messageResponse struct {
	Response  string  `json:"response"`
	AudioFile *string `json:"audio_file"`
	TurnID    string  `json:"turn_id"`
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	input, err := readHumanInput(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	result, err := s.orchestrator.RunTurn(r.Context(), sess.Token, input)
	if err != nil {
		if brain.IsUpstream(err) {
			respondError(w, http.StatusBadGateway, "upstream_error", "language model call failed")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal", "turn failed")
		return
	}

	resp := messageResponse{Response: result.Reply, TurnID: result.TurnID}
	if result.AudioPath != "" {
		resp.AudioFile = &result.AudioPath
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAudio(w http.ResponseWriter, r *http.Request) {
	path, contentType, err := s.audioStore.Latest()
	if errors.Is(err, audio.ErrNoArtifact) {
		respondError(w, http.StatusNotFound, "no_audio", "no audio artifact has been produced yet")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal", "audio lookup failed")
		return
	}
	w.Header().Set("Content-Type", contentType)
	http.ServeFile(w, r, path)
}

func (s *Server) handleChatWS(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	s.metrics.SessionEvents.WithLabelValues("ws_connected").Inc()
	defer s.metrics.SessionEvents.WithLabelValues("ws_disconnected").Inc()

	conn.SetReadLimit(64 << 10)
	_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))
		return nil
	})

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}
		_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))

		msg, err := protocol.ParseClientMessage(data)
		if err != nil {
			s.writeWS(conn, protocol.ErrorEvent{
				Type:   protocol.TypeErrorEvent,
				Code:   "invalid_client_message",
				Detail: err.Error(),
			})
			continue
		}

		_ = s.sessions.Touch(sess.Token)
		result, err := s.orchestrator.RunTurn(r.Context(), sess.Token, msg.Text)
		if err != nil {
			code := "internal"
			if brain.IsUpstream(err) {
				code = "upstream_error"
			}
			s.writeWS(conn, protocol.ErrorEvent{
				Type:   protocol.TypeErrorEvent,
				Code:   code,
				Detail: "turn failed",
			})
			continue
		}

		s.writeWS(conn, protocol.AssistantReply{
			Type:      protocol.TypeAssistantReply,
			TurnID:    result.TurnID,
			Response:  result.Reply,
			AudioFile: result.AudioPath,
		})
	}
}

func (s *Server) writeWS(conn *websocket.Conn, v any) {
	_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	_ = conn.WriteJSON(v)
}

// readHumanInput accepts the chat field from a JSON body or an HTML form.
func readHumanInput(r *http.Request) (string, error) {
	var input string
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		var req messageRequest
		if err := decodeJSON(r, &req); err != nil {
			return "", err
		}
		input = req.HumanInput
	} else {
		if err := r.ParseForm(); err != nil {
			return "", err
		}
		input = r.PostFormValue("human_input")
	}

	input = strings.TrimSpace(input)
	if input == "" {
		return "", errors.New("human_input is required")
	}
	return input, nil
}
