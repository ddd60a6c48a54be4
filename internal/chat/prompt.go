package chat

import "strings"

// Role labels used when rendering history into the prompt. These are part of
// the persona's conversational framing and must match what the instruction
// text teaches the model to continue.
const (
	userRole      = "Boyfriend"
	assistantRole = "AVA"
)

// Composer renders the full prompt sent to the language model: persona text,
// the session's rolling history, then the new utterance with an open
// assistant line for the model to complete.
type Composer struct {
	persona string
}

func NewComposer(personaText string) Composer {
	return Composer{persona: personaText}
}

// Compose builds the prompt. Empty input is passed through untouched; the
// pipeline is intentionally permissive about what the user may say.
func (c Composer) Compose(history []Exchange, input string) string {
	var b strings.Builder
	b.WriteString(c.persona)
	b.WriteString("\n\n")
	for _, ex := range history {
		b.WriteString(userRole)
		b.WriteString(": ")
		b.WriteString(ex.User)
		b.WriteString("\n")
		b.WriteString(assistantRole)
		b.WriteString(": ")
		b.WriteString(ex.Assistant)
		b.WriteString("\n")
	}
	b.WriteString(userRole)
	b.WriteString(": ")
	b.WriteString(input)
	b.WriteString("\n")
	b.WriteString(assistantRole)
	b.WriteString(":")
	return b.String()
}
