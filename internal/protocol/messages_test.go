package protocol

import (
	"errors"
	"testing"
)

func TestParseClientMessageUtterance(t *testing.T) {
	msg, err := ParseClientMessage([]byte(`{"type":"client_utterance","human_input":"Hi AVA"}`))
	if err != nil {
		t.Fatalf("ParseClientMessage() error = %v", err)
	}
	if msg.Text != "Hi AVA" {
		t.Fatalf("Text = %q, want %q", msg.Text, "Hi AVA")
	}
}

func TestParseClientMessageRejectsBlankText(t *testing.T) {
	if _, err := ParseClientMessage([]byte(`{"type":"client_utterance","human_input":"   "}`)); err == nil {
		t.Fatalf("ParseClientMessage() with blank text succeeded, want error")
	}
}

func TestParseClientMessageUnsupportedType(t *testing.T) {
	_, err := ParseClientMessage([]byte(`{"type":"client_audio_chunk"}`))
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("ParseClientMessage() error = %v, want ErrUnsupportedType", err)
	}
}

func TestParseClientMessageInvalidJSON(t *testing.T) {
	if _, err := ParseClientMessage([]byte(`{`)); err == nil {
		t.Fatalf("ParseClientMessage() with invalid JSON succeeded, want error")
	}
}
