// Package audio stores the most recent synthesized reply so it can be fetched
// through the retrieval endpoint. One artifact is kept and overwritten each
// turn; durability across restarts is not a goal.
package audio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const artifactName = "reply.mp3"

var ErrNoArtifact = errors.New("no audio artifact available")

// Store writes the latest audio artifact to a fixed path under dir.
type Store struct {
	mu          sync.RWMutex
	dir         string
	contentType string
	written     bool
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create audio dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Put replaces the stored artifact. The write goes through a temp file and a
// rename so a concurrent reader never sees a partial payload.
func (s *Store) Put(data []byte, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, artifactName+".*")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close artifact: %w", err)
	}
	if err := os.Rename(tmpName, s.path()); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("publish artifact: %w", err)
	}

	if contentType == "" {
		contentType = "audio/mpeg"
	}
	s.contentType = contentType
	s.written = true
	return nil
}

// Latest returns the artifact path and content type, or ErrNoArtifact when
// nothing has been synthesized yet this process lifetime.
func (s *Store) Latest() (string, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.written {
		return "", "", ErrNoArtifact
	}
	return s.path(), s.contentType, nil
}

func (s *Store) path() string {
	return filepath.Join(s.dir, artifactName)
}
