package repository

import (
	"context"
	"testing"
	"time"

	"powermed-api/internal/domain"

	"github.com/google/uuid"
)

func seedAdmin(t *testing.T, repo AdminRepository, email string) *domain.Admin {
	t.Helper()

	now := time.Now()
	admin := &domain.Admin{
		ID:           uuid.New(),
		FirstName:    "Dana",
		LastName:     "Reed",
		Name:         "Dana Reed",
		Email:        email,
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuvwxy.abcdefghijklmnopqrstuvwxyabc",
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := repo.Create(context.Background(), admin); err != nil {
		t.Fatalf("Create admin %s: %v", email, err)
	}
	return admin
}

func TestAdminRepository_CreateAndFind(t *testing.T) {
	truncateAll(t)
	repo := NewAdminRepository(testDB)
	ctx := context.Background()

	admin := seedAdmin(t, repo, "dana@powermed.test")

	byEmail, err := repo.FindByEmail(ctx, "dana@powermed.test")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if byEmail.ID != admin.ID || byEmail.PasswordHash != admin.PasswordHash {
		t.Errorf("FindByEmail returned a different account")
	}

	byID, err := repo.FindByID(ctx, admin.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if byID.Email != "dana@powermed.test" {
		t.Errorf("email = %q", byID.Email)
	}

	if _, err := repo.FindByID(ctx, uuid.New()); err != ErrAdminNotFound {
		t.Errorf("unknown id: got %v, want ErrAdminNotFound", err)
	}
}

func TestAdminRepository_EmailLookupIsExactMatch(t *testing.T) {
	truncateAll(t)
	repo := NewAdminRepository(testDB)
	ctx := context.Background()

	// Emails are normalized to lowercase before storage; the lookup itself
	// does not fold case.
	seedAdmin(t, repo, "dana@powermed.test")

	if _, err := repo.FindByEmail(ctx, "Dana@PowerMed.Test"); err != ErrAdminNotFound {
		t.Errorf("mixed-case lookup: got %v, want ErrAdminNotFound", err)
	}
}

func TestAdminRepository_DuplicateEmailsAreRejected(t *testing.T) {
	truncateAll(t)
	repo := NewAdminRepository(testDB)
	ctx := context.Background()

	seedAdmin(t, repo, "dana@powermed.test")

	dup := &domain.Admin{
		ID:           uuid.New(),
		FirstName:    "Other",
		LastName:     "Person",
		Name:         "Other Person",
		Email:        "dana@powermed.test",
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuvwxy.abcdefghijklmnopqrstuvwxyabc",
		IsActive:     true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := repo.Create(ctx, dup); err != ErrAdminAlreadyExists {
		t.Errorf("duplicate email: got %v, want ErrAdminAlreadyExists", err)
	}

	// The unique index folds case, so a recased duplicate is rejected too.
	dup.ID = uuid.New()
	dup.Email = "DANA@powermed.test"
	if err := repo.Create(ctx, dup); err != ErrAdminAlreadyExists {
		t.Errorf("recased duplicate: got %v, want ErrAdminAlreadyExists", err)
	}
}

func TestAdminRepository_UpdatePassword(t *testing.T) {
	truncateAll(t)
	repo := NewAdminRepository(testDB)
	ctx := context.Background()

	admin := seedAdmin(t, repo, "dana@powermed.test")

	newHash := "$2a$10$zyxwvutsrqponmlkjihgfedcba.zyxwvutsrqponmlkjihgfedcbazyx"
	if err := repo.UpdatePassword(ctx, admin.ID, newHash); err != nil {
		t.Fatalf("UpdatePassword: %v", err)
	}

	stored, err := repo.FindByID(ctx, admin.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if stored.PasswordHash != newHash {
		t.Error("password hash was not persisted")
	}

	if err := repo.UpdatePassword(ctx, uuid.New(), newHash); err != ErrAdminNotFound {
		t.Errorf("unknown id: got %v, want ErrAdminNotFound", err)
	}
}
