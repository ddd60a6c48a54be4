// Package persona loads the fixed instruction text that defines the
// assistant's behavioral contract. The text is resolved once at startup and
// never mutated afterwards.
package persona

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
)

//go:embed ava.txt
var defaultSpec string

// Spec is an immutable persona instruction block.
type Spec struct {
	text string
}

// Text returns the raw instruction text.
func (s Spec) Text() string { return s.text }

// Load resolves the persona text. When path is empty the embedded default is
// used; when a path is given it must exist and contain non-blank text.
func Load(path string) (Spec, error) {
	if strings.TrimSpace(path) == "" {
		return Spec{text: strings.TrimSpace(defaultSpec)}, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Spec{}, fmt.Errorf("read persona file: %w", err)
	}
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return Spec{}, fmt.Errorf("persona file %s is empty", path)
	}
	return Spec{text: text}, nil
}
