package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// MessageType identifies websocket payload variants.
type MessageType string

const (
	TypeClientUtterance MessageType = "client_utterance"
	TypeAssistantReply  MessageType = "assistant_reply"
	TypeErrorEvent      MessageType = "error_event"
)

var ErrUnsupportedType = errors.New("unsupported message type")

type Envelope struct {
	Type MessageType `json:"type"`
}

// ClientUtterance carries one user input over the chat websocket.
type ClientUtterance struct {
	Type MessageType `json:"type"`
	Text string      `json:"human_input"`
}

// AssistantReply carries the completed turn back to the client. AudioFile is
// empty when no audio artifact was produced.
type AssistantReply struct {
	Type      MessageType `json:"type"`
	TurnID    string      `json:"turn_id"`
	Response  string      `json:"response"`
	AudioFile string      `json:"audio_file,omitempty"`
}

type ErrorEvent struct {
	Type   MessageType `json:"type"`
	Code   string      `json:"code"`
	Detail string      `json:"detail"`
}

func ParseClientMessage(raw []byte) (ClientUtterance, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return ClientUtterance{}, fmt.Errorf("invalid envelope: %w", err)
	}

	switch env.Type {
	case TypeClientUtterance:
		var msg ClientUtterance
		if err := json.Unmarshal(raw, &msg); err != nil {
			return ClientUtterance{}, err
		}
		if strings.TrimSpace(msg.Text) == "" {
			return ClientUtterance{}, errors.New("invalid client_utterance: empty human_input")
		}
		return msg, nil
	default:
		return ClientUtterance{}, ErrUnsupportedType
	}
}
