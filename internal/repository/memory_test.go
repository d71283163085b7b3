package repository

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"focusdock/internal/apperrors"
	"focusdock/internal/models"
)

func makeSession(i int) models.SessionRecord {
	return models.SessionRecord{
		Type:     models.SessionPomodoro,
		Duration: 25,
		Date:     time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Hour),
		OwnerID:  owner,
	}
}

const owner = "owner-1"

func newStore() *MemoryStore {
	return NewMemoryStore(10)
}

func mustCreate(t *testing.T, s *MemoryStore, text string) string {
	t.Helper()
	todo, err := s.Create(context.Background(), owner, text)
	if err != nil {
		t.Fatalf("create %q: %v", text, err)
	}
	return todo.ID
}

func orderValues(t *testing.T, s *MemoryStore) []int {
	t.Helper()
	todos, err := s.List(context.Background(), owner)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	out := make([]int, len(todos))
	for i, todo := range todos {
		out[i] = todo.Order
	}
	return out
}

func assertNoDuplicateOrders(t *testing.T, s *MemoryStore) {
	t.Helper()
	seen := make(map[int]bool)
	for _, ord := range orderValues(t, s) {
		if seen[ord] {
			t.Fatalf("duplicate order value %d", ord)
		}
		seen[ord] = true
	}
}

func asAppError(t *testing.T, err error) *apperrors.Error {
	t.Helper()
	appErr, ok := err.(*apperrors.Error)
	if !ok {
		t.Fatalf("expected *apperrors.Error, got %T: %v", err, err)
	}
	return appErr
}

func TestCreateAssignsDenseOrders(t *testing.T) {
	s := newStore()
	for i := 1; i <= 3; i++ {
		mustCreate(t, s, fmt.Sprintf("task number %d", i))
	}
	got := orderValues(t, s)
	for i, ord := range got {
		if ord != i+1 {
			t.Fatalf("order at index %d = %d, want %d", i, ord, i+1)
		}
	}
}

func TestCreateCapacity(t *testing.T) {
	s := newStore()
	for i := 1; i <= 10; i++ {
		mustCreate(t, s, fmt.Sprintf("task number %d", i))
	}
	// The 10th succeeded above; the 11th must fail.
	_, err := s.Create(context.Background(), owner, "one task too many")
	appErr := asAppError(t, err)
	if appErr.Code != "capacity_exceeded" {
		t.Fatalf("code = %q, want capacity_exceeded", appErr.Code)
	}
	if appErr.Status != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", appErr.Status)
	}
}

func TestCreateValidation(t *testing.T) {
	s := newStore()
	cases := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"whitespace", "   \t "},
		{"too short", "ab"},
		{"too long", strings.Repeat("x", 101)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Create(context.Background(), owner, tc.text)
			if appErr := asAppError(t, err); appErr.Code != "validation_error" {
				t.Fatalf("code = %q, want validation_error", appErr.Code)
			}
		})
	}
	// Boundary lengths are accepted.
	mustCreate(t, s, "abc")
	mustCreate(t, s, strings.Repeat("x", 100))
}

func TestUpdateRejectsWhitespaceTextUnchanged(t *testing.T) {
	s := newStore()
	id := mustCreate(t, s, "original text")

	bad := "   "
	_, err := s.Update(context.Background(), owner, id, TodoPatch{Text: &bad})
	if appErr := asAppError(t, err); appErr.Code != "validation_error" {
		t.Fatalf("code = %q, want validation_error", appErr.Code)
	}

	todos, _ := s.List(context.Background(), owner)
	if todos[0].Text != "original text" {
		t.Fatalf("text mutated to %q after rejected update", todos[0].Text)
	}
}

func TestUpdatePatchesFields(t *testing.T) {
	s := newStore()
	id := mustCreate(t, s, "original text")

	done := true
	todo, err := s.Update(context.Background(), owner, id, TodoPatch{Completed: &done})
	if err != nil {
		t.Fatalf("update completed: %v", err)
	}
	if !todo.Completed || todo.Text != "original text" {
		t.Fatalf("unexpected todo after patch: %+v", todo)
	}

	text := "  renamed task  "
	todo, err = s.Update(context.Background(), owner, id, TodoPatch{Text: &text})
	if err != nil {
		t.Fatalf("update text: %v", err)
	}
	if todo.Text != "renamed task" {
		t.Fatalf("text = %q, want trimmed", todo.Text)
	}
	if !todo.Completed {
		t.Fatal("completed flag lost on text patch")
	}
}

func TestUpdateUnknownID(t *testing.T) {
	s := newStore()
	done := true
	_, err := s.Update(context.Background(), owner, "missing", TodoPatch{Completed: &done})
	if appErr := asAppError(t, err); appErr.Status != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", appErr.Status)
	}
}

func TestMoveUpAtTopIsBoundaryNoop(t *testing.T) {
	s := newStore()
	top := mustCreate(t, s, "first task")
	mustCreate(t, s, "second task")
	before := orderValues(t, s)

	_, err := s.Move(context.Background(), owner, top, MoveUp)
	if appErr := asAppError(t, err); appErr.Code != "boundary" {
		t.Fatalf("code = %q, want boundary", appErr.Code)
	}

	after := orderValues(t, s)
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("orders mutated by failed move: %v -> %v", before, after)
		}
	}
}

func TestMoveDownAtBottomIsBoundary(t *testing.T) {
	s := newStore()
	mustCreate(t, s, "first task")
	bottom := mustCreate(t, s, "second task")

	_, err := s.Move(context.Background(), owner, bottom, MoveDown)
	if appErr := asAppError(t, err); appErr.Code != "boundary" {
		t.Fatalf("code = %q, want boundary", appErr.Code)
	}
}

func TestMoveDownThenUpRoundTrips(t *testing.T) {
	s := newStore()
	a := mustCreate(t, s, "task alpha")
	mustCreate(t, s, "task beta")
	mustCreate(t, s, "task gamma")
	before := orderValues(t, s)

	res, err := s.Move(context.Background(), owner, a, MoveDown)
	if err != nil {
		t.Fatalf("move down: %v", err)
	}
	if res.Current.Order != 2 || res.Neighbor.Order != 1 {
		t.Fatalf("unexpected swap result: current=%d neighbor=%d", res.Current.Order, res.Neighbor.Order)
	}
	assertNoDuplicateOrders(t, s)

	if _, err := s.Move(context.Background(), owner, a, MoveUp); err != nil {
		t.Fatalf("move up: %v", err)
	}
	after := orderValues(t, s)
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("round trip did not restore orders: %v -> %v", before, after)
		}
	}
}

func TestOrdersStayUniqueAcrossMixedOperations(t *testing.T) {
	s := newStore()
	ids := make([]string, 0, 6)
	for i := 1; i <= 6; i++ {
		ids = append(ids, mustCreate(t, s, fmt.Sprintf("task number %d", i)))
	}

	if _, err := s.Move(context.Background(), owner, ids[0], MoveDown); err != nil {
		t.Fatalf("move: %v", err)
	}
	if _, err := s.Delete(context.Background(), owner, ids[2]); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Move(context.Background(), owner, ids[5], MoveUp); err != nil {
		t.Fatalf("move: %v", err)
	}
	mustCreate(t, s, "late arrival")

	assertNoDuplicateOrders(t, s)
}

func TestDeleteLeavesGaps(t *testing.T) {
	s := newStore()
	mustCreate(t, s, "first task")
	mid := mustCreate(t, s, "second task")
	mustCreate(t, s, "third task")

	deleted, err := s.Delete(context.Background(), owner, mid)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted.ID != mid {
		t.Fatalf("deleted wrong item: %s", deleted.ID)
	}

	got := orderValues(t, s)
	want := []int{1, 3}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("orders after delete = %v, want %v (gaps preserved)", got, want)
	}

	// A create after the delete still goes past the old max.
	mustCreate(t, s, "fourth task")
	got = orderValues(t, s)
	if got[len(got)-1] != 4 {
		t.Fatalf("new order = %d, want 4", got[len(got)-1])
	}
}

func TestOwnersAreIsolated(t *testing.T) {
	s := newStore()
	mustCreate(t, s, "mine alone")

	other, err := s.List(context.Background(), "owner-2")
	if err != nil {
		t.Fatalf("list other owner: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("owner-2 sees %d foreign todos", len(other))
	}

	todos, _ := s.List(context.Background(), owner)
	if _, err := s.Delete(context.Background(), "owner-2", todos[0].ID); err == nil {
		t.Fatal("cross-owner delete succeeded")
	}
}

func TestSessionPagination(t *testing.T) {
	s := newStore()
	for i := 0; i < 7; i++ {
		rec := makeSession(i)
		if err := s.InsertSession(context.Background(), &rec); err != nil {
			t.Fatalf("insert session: %v", err)
		}
	}

	page1, total, err := s.ListSessions(context.Background(), owner, 1, 5)
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if total != 7 || len(page1) != 5 {
		t.Fatalf("page1 len=%d total=%d, want 5/7", len(page1), total)
	}
	// Most recent first.
	if !page1[0].Date.After(page1[1].Date) {
		t.Fatalf("sessions not sorted most-recent-first: %v then %v", page1[0].Date, page1[1].Date)
	}

	page2, _, err := s.ListSessions(context.Background(), owner, 2, 5)
	if err != nil {
		t.Fatalf("list page 2: %v", err)
	}
	if len(page2) != 2 {
		t.Fatalf("page2 len=%d, want 2", len(page2))
	}

	empty, _, err := s.ListSessions(context.Background(), owner, 3, 5)
	if err != nil {
		t.Fatalf("list page 3: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("page3 len=%d, want 0", len(empty))
	}
}
