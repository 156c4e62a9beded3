package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_owner_store.go -package=mocks journal-ai/internal/storage OwnerStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// OwnerStore defines owner lookups used by the journal service.
type OwnerStore interface {
	// GetOrCreateByName returns the owner with the given name, creating it if needed.
	GetOrCreateByName(ctx context.Context, name string) (Owner, error)
	// GetByID returns ErrNotFound if the owner does not exist.
	GetByID(ctx context.Context, id int64) (Owner, error)
	// OwnerExists reports whether the owner id is known.
	OwnerExists(ctx context.Context, id int64) (bool, error)
}

// OwnerRepo implements OwnerStore on SQLite.
type OwnerRepo struct {
	db *sql.DB
}

// NewOwnerRepo creates a new OwnerRepo.
func NewOwnerRepo(db *sql.DB) *OwnerRepo {
	return &OwnerRepo{db: db}
}

// GetOrCreateByName gets an existing owner by name, or creates it if it doesn't exist.
func (r *OwnerRepo) GetOrCreateByName(ctx context.Context, name string) (Owner, error) {
	owner, err := r.scanOne(ctx, "SELECT id, name, created_at FROM owners WHERE name = ?", name)
	if err == nil {
		return owner, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Owner{}, err
	}

	result, err := r.db.ExecContext(ctx, "INSERT INTO owners (name) VALUES (?)", name)
	if err != nil {
		return Owner{}, fmt.Errorf("failed to insert owner: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return Owner{}, fmt.Errorf("failed to get owner id: %w", err)
	}

	return r.GetByID(ctx, id)
}

// GetByID returns the owner with the given id.
func (r *OwnerRepo) GetByID(ctx context.Context, id int64) (Owner, error) {
	return r.scanOne(ctx, "SELECT id, name, created_at FROM owners WHERE id = ?", id)
}

// OwnerExists reports whether an owner with the given id exists.
func (r *OwnerRepo) OwnerExists(ctx context.Context, id int64) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM owners WHERE id = ?", id).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check owner: %w", err)
	}
	return n > 0, nil
}

func (r *OwnerRepo) scanOne(ctx context.Context, query string, arg any) (Owner, error) {
	var owner Owner
	var createdAtStr string
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&owner.ID, &owner.Name, &createdAtStr)
	if err == sql.ErrNoRows {
		return Owner{}, ErrNotFound
	}
	if err != nil {
		return Owner{}, fmt.Errorf("failed to query owner: %w", err)
	}

	owner.CreatedAt, err = parseTimestamp(createdAtStr)
	if err != nil {
		return Owner{}, err
	}
	return owner, nil
}

// parseTimestamp parses SQLite DATETIME values, which may come back in either layout.
func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02 15:04:05", s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp %q: %w", s, err)
	}
	return t, nil
}
