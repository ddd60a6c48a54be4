package users

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// Credentials for the account seeded into fresh in-memory stores, mirroring
// the mock database the service originally shipped with.
const (
	seedUsername = "expert"
	seedPassword = "expert99."
)

// NewRepository creates a postgres-backed repository when configured,
// otherwise an in-memory one seeded with the default account.
func NewRepository(ctx context.Context, databaseURL string) (Repository, error) {
	if strings.TrimSpace(databaseURL) != "" {
		return NewPostgresRepository(ctx, databaseURL)
	}

	repo := NewInMemoryRepository()
	hash, err := HashPassword(seedPassword)
	if err != nil {
		return nil, fmt.Errorf("seed user hash: %w", err)
	}
	if _, err := repo.Create(ctx, seedUsername, hash); err != nil {
		return nil, fmt.Errorf("seed user: %w", err)
	}
	log.Printf("user store: in-memory (seeded default account %q)", seedUsername)
	return repo, nil
}
