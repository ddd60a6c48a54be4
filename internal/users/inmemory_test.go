package users

import (
	"context"
	"errors"
	"testing"
)

func TestInMemoryCreateAndFind(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	created, err := repo.Create(ctx, "alex", hash)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.ID == "" {
		t.Fatalf("Create() returned empty id")
	}

	found, err := repo.FindByUsername(ctx, "alex")
	if err != nil {
		t.Fatalf("FindByUsername() error = %v", err)
	}
	if found.ID != created.ID {
		t.Fatalf("found id = %q, want %q", found.ID, created.ID)
	}
	if !found.CheckPassword("s3cret") {
		t.Fatalf("CheckPassword() = false for correct password")
	}
	if found.CheckPassword("wrong") {
		t.Fatalf("CheckPassword() = true for wrong password")
	}
}

func TestInMemoryUsernameLookupIsCaseInsensitive(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	if _, err := repo.Create(ctx, "Alex", "hash"); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := repo.FindByUsername(ctx, "alex"); err != nil {
		t.Fatalf("FindByUsername(lowercase) error = %v", err)
	}
	if _, err := repo.Create(ctx, "ALEX", "hash"); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("Create(duplicate) error = %v, want ErrUsernameTaken", err)
	}
}

func TestInMemoryFindMissingUser(t *testing.T) {
	repo := NewInMemoryRepository()
	if _, err := repo.FindByUsername(context.Background(), "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("FindByUsername(missing) error = %v, want ErrNotFound", err)
	}
}

func TestNewRepositorySeedsDefaultAccount(t *testing.T) {
	repo, err := NewRepository(context.Background(), "")
	if err != nil {
		t.Fatalf("NewRepository() error = %v", err)
	}
	defer repo.Close()

	u, err := repo.FindByUsername(context.Background(), seedUsername)
	if err != nil {
		t.Fatalf("seeded account lookup error = %v", err)
	}
	if !u.CheckPassword(seedPassword) {
		t.Fatalf("seeded account rejects its own password")
	}
}
