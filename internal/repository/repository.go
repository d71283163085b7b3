// Package repository persists owners' ordered todo lists, session records and
// user accounts. Two implementations exist: Postgres for production and an
// in-memory store used as the dev fallback and the test harness. Domain
// failures are reported as *apperrors.Error so the boundary can map them
// without inspection.
package repository

import (
	"context"
	"strings"

	"focusdock/internal/apperrors"
	"focusdock/internal/models"
)

// Direction selects which neighbor a move swaps with.
type Direction int

const (
	MoveUp Direction = iota
	MoveDown
)

// TodoPatch is a partial update of a todo. Nil fields are left unchanged.
// Order and owner are never mutable through this path.
type TodoPatch struct {
	Text      *string
	Completed *bool
}

// MoveResult holds both items after a successful order swap.
type MoveResult struct {
	Current  models.Todo
	Neighbor models.Todo
}

// TodoStore is the ordered todo list, scoped to an owner on every call.
type TodoStore interface {
	// List returns the owner's items sorted ascending by order.
	List(ctx context.Context, ownerID string) ([]models.Todo, error)
	// Create assigns order = max existing + 1 (or 1) and enforces the
	// per-owner item cap.
	Create(ctx context.Context, ownerID, text string) (*models.Todo, error)
	Update(ctx context.Context, ownerID, id string, patch TodoPatch) (*models.Todo, error)
	// Move swaps order values with the immediate neighbor in the given
	// direction. Both writes land atomically or not at all.
	Move(ctx context.Context, ownerID, id string, dir Direction) (*MoveResult, error)
	// Delete removes the item without renumbering survivors.
	Delete(ctx context.Context, ownerID, id string) (*models.Todo, error)
}

// SessionStore is the durable append-only log of completed timer sessions.
type SessionStore interface {
	InsertSession(ctx context.Context, rec *models.SessionRecord) error
	// ListSessions returns one page, most recent first, plus the total count.
	ListSessions(ctx context.Context, ownerID string, page, limit int) ([]models.SessionRecord, int, error)
}

// UserStore persists accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// Store is the full persistence surface the server wires up.
type Store interface {
	TodoStore
	SessionStore
	UserStore
}

const (
	minTextLen = 3
	maxTextLen = 100
)

// validateText trims and checks the 3-100 character bounds shared by create
// and update.
func validateText(text string) (string, *apperrors.Error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", apperrors.Validation("text cannot be empty or whitespace")
	}
	if len(trimmed) < minTextLen || len(trimmed) > maxTextLen {
		return "", apperrors.Validation("text must be between 3 and 100 characters")
	}
	return trimmed, nil
}
