package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"focusdock/internal/apperrors"
	"focusdock/internal/models"
)

const uniqueViolation = "23505"

// createRetries bounds the retry loop when a concurrent create lands on the
// same order value and trips the (owner_id, ord) unique index.
const createRetries = 3

// PostgresStore implements Store on top of lib/pq. Moves and creates run
// inside a transaction that locks the owner's rows with FOR UPDATE, so a
// read-neighbor + swap never acts on stale order values.
type PostgresStore struct {
	db       *sql.DB
	maxTodos int
}

func NewPostgresStore(db *sql.DB, maxTodos int) *PostgresStore {
	return &PostgresStore{db: db, maxTodos: maxTodos}
}

const todoColumns = `id, text, completed, ord, owner_id, created_at, updated_at`

func scanTodo(row interface{ Scan(...interface{}) error }) (*models.Todo, error) {
	var t models.Todo
	err := row.Scan(&t.ID, &t.Text, &t.Completed, &t.Order, &t.OwnerID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *PostgresStore) List(ctx context.Context, ownerID string) ([]models.Todo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+todoColumns+` FROM todos WHERE owner_id = $1 ORDER BY ord ASC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer rows.Close()

	todos := make([]models.Todo, 0, s.maxTodos)
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		todos = append(todos, *t)
	}
	return todos, rows.Err()
}

func (s *PostgresStore) Create(ctx context.Context, ownerID, text string) (*models.Todo, error) {
	trimmed, verr := validateText(text)
	if verr != nil {
		return nil, verr
	}

	for attempt := 0; attempt < createRetries; attempt++ {
		todo, err := s.createOnce(ctx, ownerID, trimmed)
		if isUniqueViolation(err) {
			continue
		}
		return todo, err
	}
	return nil, apperrors.Conflict("order_conflict", "concurrent create collided, please retry", nil)
}

func (s *PostgresStore) createOnce(ctx context.Context, ownerID, text string) (*models.Todo, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx,
		`SELECT ord FROM todos WHERE owner_id = $1 FOR UPDATE`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("lock owner rows: %w", err)
	}
	count, maxOrder := 0, 0
	for rows.Next() {
		var ord int
		if err := rows.Scan(&ord); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan ord: %w", err)
		}
		count++
		if ord > maxOrder {
			maxOrder = ord
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if count >= s.maxTodos {
		return nil, apperrors.Capacity("task limit reached: cannot add more tasks")
	}

	now := time.Now().UTC()
	todo := &models.Todo{
		ID:        uuid.NewString(),
		Text:      text,
		Completed: false,
		Order:     maxOrder + 1,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO todos (id, text, completed, ord, owner_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		todo.ID, todo.Text, todo.Completed, todo.Order, todo.OwnerID, todo.CreatedAt, todo.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return todo, nil
}

func (s *PostgresStore) Update(ctx context.Context, ownerID, id string, patch TodoPatch) (*models.Todo, error) {
	var textArg interface{}
	if patch.Text != nil {
		trimmed, verr := validateText(*patch.Text)
		if verr != nil {
			return nil, verr
		}
		textArg = trimmed
	}
	var completedArg interface{}
	if patch.Completed != nil {
		completedArg = *patch.Completed
	}

	row := s.db.QueryRowContext(ctx,
		`UPDATE todos
		 SET text = COALESCE($1, text),
		     completed = COALESCE($2, completed),
		     updated_at = $3
		 WHERE id = $4 AND owner_id = $5
		 RETURNING `+todoColumns,
		textArg, completedArg, time.Now().UTC(), id, ownerID)
	todo, err := scanTodo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("todo not found")
	}
	if err != nil {
		return nil, fmt.Errorf("update todo: %w", err)
	}
	return todo, nil
}

func (s *PostgresStore) Move(ctx context.Context, ownerID, id string, dir Direction) (*MoveResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	// Lock every row of the owner's list up front so neighbor lookup and the
	// swap see one consistent ordering.
	if _, err := tx.ExecContext(ctx,
		`SELECT id FROM todos WHERE owner_id = $1 FOR UPDATE`, ownerID); err != nil {
		return nil, fmt.Errorf("lock owner rows: %w", err)
	}

	current, err := scanTodo(tx.QueryRowContext(ctx,
		`SELECT `+todoColumns+` FROM todos WHERE id = $1 AND owner_id = $2`, id, ownerID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("todo not found")
	}
	if err != nil {
		return nil, fmt.Errorf("load current todo: %w", err)
	}

	var neighborQuery string
	switch dir {
	case MoveUp:
		neighborQuery = `SELECT ` + todoColumns + ` FROM todos
			WHERE owner_id = $1 AND ord < $2 ORDER BY ord DESC LIMIT 1`
	case MoveDown:
		neighborQuery = `SELECT ` + todoColumns + ` FROM todos
			WHERE owner_id = $1 AND ord > $2 ORDER BY ord ASC LIMIT 1`
	}
	neighbor, err := scanTodo(tx.QueryRowContext(ctx, neighborQuery, ownerID, current.Order))
	if errors.Is(err, sql.ErrNoRows) {
		if dir == MoveUp {
			return nil, apperrors.Boundary("todo is already at the top")
		}
		return nil, apperrors.Boundary("todo is already at the bottom")
	}
	if err != nil {
		return nil, fmt.Errorf("load neighbor todo: %w", err)
	}

	// Three-step swap: the (owner_id, ord) unique index is immediate, so park
	// the current row on a negative order while the neighbor takes its slot.
	now := time.Now().UTC()
	steps := []struct {
		ord int
		id  string
	}{
		{-current.Order, current.ID},
		{current.Order, neighbor.ID},
		{neighbor.Order, current.ID},
	}
	for _, st := range steps {
		if _, err := tx.ExecContext(ctx,
			`UPDATE todos SET ord = $1, updated_at = $2 WHERE id = $3`,
			st.ord, now, st.id); err != nil {
			return nil, fmt.Errorf("swap order: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit move: %w", err)
	}

	current.Order, neighbor.Order = neighbor.Order, current.Order
	current.UpdatedAt = now
	neighbor.UpdatedAt = now
	return &MoveResult{Current: *current, Neighbor: *neighbor}, nil
}

func (s *PostgresStore) Delete(ctx context.Context, ownerID, id string) (*models.Todo, error) {
	row := s.db.QueryRowContext(ctx,
		`DELETE FROM todos WHERE id = $1 AND owner_id = $2 RETURNING `+todoColumns,
		id, ownerID)
	todo, err := scanTodo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("todo not found")
	}
	if err != nil {
		return nil, fmt.Errorf("delete todo: %w", err)
	}
	return todo, nil
}

func (s *PostgresStore) InsertSession(ctx context.Context, rec *models.SessionRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, type, duration_minutes, date, clock_time, owner_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.ID, rec.Type, rec.Duration, rec.Date, rec.Time, rec.OwnerID, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListSessions(ctx context.Context, ownerID string, page, limit int) ([]models.SessionRecord, int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sessions WHERE owner_id = $1`, ownerID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count sessions: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, type, duration_minutes, date, clock_time, owner_id, created_at
		 FROM sessions WHERE owner_id = $1
		 ORDER BY date DESC LIMIT $2 OFFSET $3`,
		ownerID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	out := make([]models.SessionRecord, 0, limit)
	for rows.Next() {
		var r models.SessionRecord
		var clock sql.NullString
		if err := rows.Scan(&r.ID, &r.Type, &r.Duration, &r.Date, &clock, &r.OwnerID, &r.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan session: %w", err)
		}
		r.Time = clock.String
		out = append(out, r)
	}
	return out, total, rows.Err()
}

func (s *PostgresStore) CreateUser(ctx context.Context, user *models.User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		user.ID, user.Email, user.PasswordHash, user.CreatedAt, user.UpdatedAt)
	if isUniqueViolation(err) {
		return apperrors.Conflict("email_exists", "email already registered", nil)
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUser(ctx, `SELECT id, email, password_hash, created_at, updated_at
		 FROM users WHERE email = $1`, email)
}

func (s *PostgresStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.getUser(ctx, `SELECT id, email, password_hash, created_at, updated_at
		 FROM users WHERE id = $1`, id)
}

func (s *PostgresStore) getUser(ctx context.Context, query, arg string) (*models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx, query, arg).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
