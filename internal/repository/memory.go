package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"focusdock/internal/apperrors"
	"focusdock/internal/models"
)

// MemoryStore keeps everything in process memory. It serves as the dev-mode
// fallback when DATABASE_URL is unset and as the test harness. A single mutex
// per owner serializes read-neighbor + swap + persist, matching the Postgres
// transaction scope.
type MemoryStore struct {
	mu       sync.Mutex
	owners   map[string]*sync.Mutex
	todos    map[string]map[string]*models.Todo // ownerID -> id -> todo
	sessions map[string][]models.SessionRecord  // ownerID -> records
	users    map[string]*models.User            // id -> user
	byEmail  map[string]string                  // email -> id
	maxTodos int
}

func NewMemoryStore(maxTodos int) *MemoryStore {
	return &MemoryStore{
		owners:   make(map[string]*sync.Mutex),
		todos:    make(map[string]map[string]*models.Todo),
		sessions: make(map[string][]models.SessionRecord),
		users:    make(map[string]*models.User),
		byEmail:  make(map[string]string),
		maxTodos: maxTodos,
	}
}

func (s *MemoryStore) ownerLock(ownerID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.owners[ownerID]
	if !ok {
		l = &sync.Mutex{}
		s.owners[ownerID] = l
	}
	return l
}

func (s *MemoryStore) ownerTodos(ownerID string) map[string]*models.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.todos[ownerID]
	if !ok {
		m = make(map[string]*models.Todo)
		s.todos[ownerID] = m
	}
	return m
}

func (s *MemoryStore) List(ctx context.Context, ownerID string) ([]models.Todo, error) {
	l := s.ownerLock(ownerID)
	l.Lock()
	defer l.Unlock()

	m := s.ownerTodos(ownerID)
	out := make([]models.Todo, 0, len(m))
	for _, t := range m {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (s *MemoryStore) Create(ctx context.Context, ownerID, text string) (*models.Todo, error) {
	trimmed, verr := validateText(text)
	if verr != nil {
		return nil, verr
	}

	l := s.ownerLock(ownerID)
	l.Lock()
	defer l.Unlock()

	m := s.ownerTodos(ownerID)
	if len(m) >= s.maxTodos {
		return nil, apperrors.Capacity("task limit reached: cannot add more tasks")
	}

	maxOrder := 0
	for _, t := range m {
		if t.Order > maxOrder {
			maxOrder = t.Order
		}
	}

	now := time.Now().UTC()
	todo := &models.Todo{
		ID:        uuid.NewString(),
		Text:      trimmed,
		Completed: false,
		Order:     maxOrder + 1,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m[todo.ID] = todo
	cp := *todo
	return &cp, nil
}

func (s *MemoryStore) Update(ctx context.Context, ownerID, id string, patch TodoPatch) (*models.Todo, error) {
	var trimmed string
	if patch.Text != nil {
		t, verr := validateText(*patch.Text)
		if verr != nil {
			return nil, verr
		}
		trimmed = t
	}

	l := s.ownerLock(ownerID)
	l.Lock()
	defer l.Unlock()

	todo, ok := s.ownerTodos(ownerID)[id]
	if !ok {
		return nil, apperrors.NotFound("todo not found")
	}
	if patch.Text != nil {
		todo.Text = trimmed
	}
	if patch.Completed != nil {
		todo.Completed = *patch.Completed
	}
	todo.UpdatedAt = time.Now().UTC()
	cp := *todo
	return &cp, nil
}

func (s *MemoryStore) Move(ctx context.Context, ownerID, id string, dir Direction) (*MoveResult, error) {
	l := s.ownerLock(ownerID)
	l.Lock()
	defer l.Unlock()

	m := s.ownerTodos(ownerID)
	current, ok := m[id]
	if !ok {
		return nil, apperrors.NotFound("todo not found")
	}

	var neighbor *models.Todo
	for _, t := range m {
		switch dir {
		case MoveUp:
			if t.Order < current.Order && (neighbor == nil || t.Order > neighbor.Order) {
				neighbor = t
			}
		case MoveDown:
			if t.Order > current.Order && (neighbor == nil || t.Order < neighbor.Order) {
				neighbor = t
			}
		}
	}
	if neighbor == nil {
		if dir == MoveUp {
			return nil, apperrors.Boundary("todo is already at the top")
		}
		return nil, apperrors.Boundary("todo is already at the bottom")
	}

	now := time.Now().UTC()
	current.Order, neighbor.Order = neighbor.Order, current.Order
	current.UpdatedAt = now
	neighbor.UpdatedAt = now
	return &MoveResult{Current: *current, Neighbor: *neighbor}, nil
}

func (s *MemoryStore) Delete(ctx context.Context, ownerID, id string) (*models.Todo, error) {
	l := s.ownerLock(ownerID)
	l.Lock()
	defer l.Unlock()

	m := s.ownerTodos(ownerID)
	todo, ok := m[id]
	if !ok {
		return nil, apperrors.NotFound("todo not found")
	}
	delete(m, id)
	cp := *todo
	return &cp, nil
}

func (s *MemoryStore) InsertSession(ctx context.Context, rec *models.SessionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	s.sessions[rec.OwnerID] = append(s.sessions[rec.OwnerID], *rec)
	return nil
}

func (s *MemoryStore) ListSessions(ctx context.Context, ownerID string, page, limit int) ([]models.SessionRecord, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := make([]models.SessionRecord, len(s.sessions[ownerID]))
	copy(all, s.sessions[ownerID])
	sort.Slice(all, func(i, j int) bool { return all[i].Date.After(all[j].Date) })

	total := len(all)
	start := (page - 1) * limit
	if start >= total {
		return []models.SessionRecord{}, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

func (s *MemoryStore) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byEmail[user.Email]; exists {
		return apperrors.Conflict("email_exists", "email already registered", nil)
	}
	cp := *user
	s.users[user.ID] = &cp
	s.byEmail[user.Email] = user.ID
	return nil
}

func (s *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byEmail[email]
	if !ok {
		return nil, apperrors.NotFound("user not found")
	}
	cp := *s.users[id]
	return &cp, nil
}

func (s *MemoryStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, apperrors.NotFound("user not found")
	}
	cp := *u
	return &cp, nil
}
