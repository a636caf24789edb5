package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/codefionn/exprschnell/internal/history"
)

func newReadyModel(t *testing.T, opts Options) Model {
	t.Helper()
	m := NewModel(opts)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	model, ok := updated.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", updated)
	}
	return model
}

func pressEnter(t *testing.T, m Model, input string) Model {
	t.Helper()
	m.input.SetValue(input)
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	model, ok := updated.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", updated)
	}
	return model
}

func TestModelEvaluatesInput(t *testing.T) {
	m := newReadyModel(t, Options{Precision: -1})
	m = pressEnter(t, m, "2 + 3 * 4")

	if len(m.entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(m.entries))
	}
	entry := m.entries[0]
	if entry.failed {
		t.Fatalf("evaluation failed: %s", entry.result)
	}
	if entry.result != "14" {
		t.Fatalf("result = %q, want %q", entry.result, "14")
	}
	if m.lastResult != "14" {
		t.Fatalf("lastResult = %q, want %q", m.lastResult, "14")
	}
	if m.input.Value() != "" {
		t.Fatalf("input was not reset after evaluation")
	}
}

func TestModelShowsErrors(t *testing.T) {
	m := newReadyModel(t, Options{Precision: -1})
	m = pressEnter(t, m, "1 +")

	if len(m.entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(m.entries))
	}
	if !m.entries[0].failed {
		t.Fatalf("malformed input should be recorded as a failure")
	}
	if m.lastResult != "" {
		t.Fatalf("a failed evaluation must not update the last result")
	}
}

func TestModelIgnoresBlankInput(t *testing.T) {
	m := newReadyModel(t, Options{Precision: -1})
	m = pressEnter(t, m, "   ")

	if len(m.entries) != 0 {
		t.Fatalf("blank input produced %d entries", len(m.entries))
	}
}

func TestModelAppliesPrecision(t *testing.T) {
	m := newReadyModel(t, Options{Precision: 2})
	m = pressEnter(t, m, "10 / 4")

	if m.entries[0].result != "2.50" {
		t.Fatalf("result = %q, want %q", m.entries[0].result, "2.50")
	}
}

func TestModelHelpToggle(t *testing.T) {
	m := newReadyModel(t, Options{Precision: -1})

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyF1})
	m = updated.(Model)
	if !m.showHelp {
		t.Fatalf("F1 did not open help")
	}
	if !strings.Contains(m.viewport.View(), "exprschnell") {
		t.Fatalf("help view does not mention the program")
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyF1})
	m = updated.(Model)
	if m.showHelp {
		t.Fatalf("F1 did not close help")
	}
}

func TestModelQuits(t *testing.T) {
	m := newReadyModel(t, Options{Precision: -1})

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	m = updated.(Model)
	if !m.quitting {
		t.Fatalf("ctrl+c did not mark the model as quitting")
	}
	if cmd == nil {
		t.Fatalf("ctrl+c must return the quit command")
	}
}

func TestModelPreloadsHistory(t *testing.T) {
	store, err := history.NewStore(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("NewStore returned unexpected error: %v", err)
	}
	defer store.Close()

	if err := store.Add("1 + 1", "2"); err != nil {
		t.Fatalf("Add returned unexpected error: %v", err)
	}

	m := newReadyModel(t, Options{Precision: -1, Store: store})
	if len(m.entries) != 1 {
		t.Fatalf("got %d preloaded entries, want 1", len(m.entries))
	}
	if !m.entries[0].fromBefore {
		t.Fatalf("preloaded entry is not marked as history")
	}
}

func TestModelPersistsEvaluations(t *testing.T) {
	store, err := history.NewStore(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("NewStore returned unexpected error: %v", err)
	}
	defer store.Close()

	m := newReadyModel(t, Options{Precision: -1, Store: store})
	m = pressEnter(t, m, "6 * 7")

	entries, err := store.Recent(10)
	if err != nil {
		t.Fatalf("Recent returned unexpected error: %v", err)
	}
	if len(entries) != 1 || entries[0].Result != "42" {
		t.Fatalf("store contents = %v, want one entry with result 42", entries)
	}
}
