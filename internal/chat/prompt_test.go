package chat

import (
	"strings"
	"testing"
)

func TestComposeEmptyHistory(t *testing.T) {
	c := NewComposer("You are AVA.")
	got := c.Compose(nil, "Hi")
	want := "You are AVA.\n\nBoyfriend: Hi\nAVA:"
	if got != want {
		t.Fatalf("Compose() = %q, want %q", got, want)
	}
}

func TestComposeRendersHistoryOldestFirst(t *testing.T) {
	c := NewComposer("persona")
	history := []Exchange{
		{User: "How are you?", Assistant: "R2"},
		{User: "Tell me a joke", Assistant: "R3"},
	}
	got := c.Compose(history, "And another?")
	want := strings.Join([]string{
		"persona",
		"",
		"Boyfriend: How are you?",
		"AVA: R2",
		"Boyfriend: Tell me a joke",
		"AVA: R3",
		"Boyfriend: And another?",
		"AVA:",
	}, "\n")
	if got != want {
		t.Fatalf("Compose() = %q, want %q", got, want)
	}
}

func TestComposePermitsEmptyInput(t *testing.T) {
	c := NewComposer("persona")
	got := c.Compose(nil, "")
	if !strings.HasSuffix(got, "Boyfriend: \nAVA:") {
		t.Fatalf("Compose(\"\") = %q, want empty utterance passed through", got)
	}
}

func TestComposeLinePairCount(t *testing.T) {
	c := NewComposer("persona")
	history := []Exchange{
		{User: "u1", Assistant: "a1"},
		{User: "u2", Assistant: "a2"},
		{User: "u3", Assistant: "a3"},
	}
	got := c.Compose(history, "now")
	if n := strings.Count(got, "Boyfriend: "); n != len(history)+1 {
		t.Fatalf("Boyfriend lines = %d, want %d", n, len(history)+1)
	}
	if n := strings.Count(got, "AVA: "); n != len(history) {
		t.Fatalf("completed AVA lines = %d, want %d", n, len(history))
	}
}
