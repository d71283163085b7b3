package shell

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

type stubModel struct{}

func (stubModel) Init() tea.Cmd                         { return nil }
func (m stubModel) Update(tea.Msg) (tea.Model, tea.Cmd) { return m, nil }
func (stubModel) View() string                          { return "" }

func stubWidget(id string) Widget {
	return Widget{ID: id, Title: id, New: func() tea.Model { return stubModel{} }}
}

func TestRegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(stubWidget("timer")); err != nil {
		t.Fatalf("register: %v", err)
	}
	w, ok := r.Lookup("timer")
	if !ok || w.ID != "timer" {
		t.Fatalf("lookup failed: %+v ok=%v", w, ok)
	}
	if _, ok := r.Lookup("missing"); ok {
		t.Fatal("lookup of unknown id succeeded")
	}
}

func TestDuplicateRegistrationRejected(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(stubWidget("music")); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := r.Register(stubWidget("music")); err == nil {
		t.Fatal("duplicate registration accepted")
	}
}

func TestRegisterValidation(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(Widget{ID: "", New: func() tea.Model { return stubModel{} }}); err == nil {
		t.Fatal("empty id accepted")
	}
	if err := r.Register(Widget{ID: "broken"}); err == nil {
		t.Fatal("nil constructor accepted")
	}
}

func TestRemoveAndIDs(t *testing.T) {
	r := NewRegistry()
	for _, id := range []string{"timer", "music", "todos"} {
		if err := r.Register(stubWidget(id)); err != nil {
			t.Fatalf("register %s: %v", id, err)
		}
	}
	got := r.IDs()
	want := []string{"music", "timer", "todos"}
	if len(got) != len(want) {
		t.Fatalf("ids = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ids = %v, want %v", got, want)
		}
	}

	r.Remove("music")
	r.Remove("music") // no-op
	if _, ok := r.Lookup("music"); ok {
		t.Fatal("removed widget still present")
	}
	if n := len(r.IDs()); n != 2 {
		t.Fatalf("len(ids) = %d, want 2", n)
	}
}
