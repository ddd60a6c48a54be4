package brain

import (
	"context"
	"fmt"
	"strings"
)

// MockBrain provides deterministic local replies when no API key is configured.
type MockBrain struct{}

func NewMockBrain() *MockBrain { return &MockBrain{} }

func (b *MockBrain) Complete(ctx context.Context, prompt string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	input := lastUtterance(prompt)
	if input == "" {
		return "I am listening.", nil
	}
	return fmt.Sprintf("I heard you: %s", input), nil
}

// lastUtterance pulls the newest "Boyfriend:" line out of the composed prompt
// so mock replies stay recognizably tied to the input.
func lastUtterance(prompt string) string {
	lines := strings.Split(prompt, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if rest, ok := strings.CutPrefix(line, "Boyfriend:"); ok {
			return strings.TrimSpace(rest)
		}
	}
	return ""
}
