package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rnwolfe/hobbit/internal/habit"
	"github.com/rnwolfe/hobbit/internal/progress"
)

func gridDays() []time.Time {
	return progress.MonthRange(2024, time.January, time.UTC)
}

func gridToday() time.Time {
	return time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)
}

func makeHabits() []habit.Habit {
	return []habit.Habit{
		{ID: "read", Name: "Read"},
		{ID: "run", Name: "Run", Goal: 10, Unit: "km"},
		{ID: "workout", Name: "Workout", Expanded: true, Subs: []habit.SubHabit{
			{ID: "push", Name: "Pushups"},
			{ID: "crunch", Name: "Crunches", Goal: 100, Unit: "reps"},
		}},
	}
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestNewGridModel_Defaults(t *testing.T) {
	m := NewGridModel(makeHabits(), nil, gridDays(), gridToday())

	if m.cursor != 0 {
		t.Fatalf("cursor should start at 0, got %d", m.cursor)
	}
	// Three habits plus two expanded sub-habits.
	if len(m.rows) != 5 {
		t.Fatalf("rows = %d, want 5", len(m.rows))
	}
	// Cursor column starts on today (Jan 10 → index 9).
	if m.col != 9 {
		t.Fatalf("col = %d, want 9", m.col)
	}
}

func TestGridModel_Navigation(t *testing.T) {
	m := NewGridModel(makeHabits(), nil, gridDays(), gridToday())

	m.Update(keyRune('j'))
	if m.cursor != 1 {
		t.Fatalf("cursor = %d after j, want 1", m.cursor)
	}
	m.Update(keyRune('k'))
	m.Update(keyRune('k'))
	if m.cursor != 0 {
		t.Fatalf("cursor should clamp at 0, got %d", m.cursor)
	}

	m.Update(keyRune('h'))
	if m.col != 8 {
		t.Fatalf("col = %d after h, want 8", m.col)
	}
	m.Update(keyRune('t'))
	if m.col != 9 {
		t.Fatalf("col = %d after t, want 9 (back to today)", m.col)
	}
}

func TestGridModel_ToggleBinary(t *testing.T) {
	m := NewGridModel(makeHabits(), nil, gridDays(), gridToday())

	m.Update(keyRune('x'))

	if len(m.Actions) != 1 {
		t.Fatalf("actions = %d, want 1", len(m.Actions))
	}
	a := m.Actions[0]
	if a.Type != "toggle" || a.HabitID != "read" || a.Day != "2024-01-10" || !a.On {
		t.Fatalf("action = %+v", a)
	}
	if !m.recs["read"].MainDone("2024-01-10") {
		t.Error("local state should reflect the toggle immediately")
	}

	// Second press flips it back off.
	m.Update(keyRune('x'))
	if m.Actions[1].On {
		t.Error("second toggle should be off")
	}
	if m.recs["read"].MainDone("2024-01-10") {
		t.Error("local state should clear on toggle off")
	}
}

func TestGridModel_ToggleFutureIsNoop(t *testing.T) {
	m := NewGridModel(makeHabits(), nil, gridDays(), gridToday())

	m.Update(keyRune('l'))
	m.Update(keyRune('x'))

	if len(m.Actions) != 0 {
		t.Fatalf("toggling a future day must do nothing, got %+v", m.Actions)
	}
}

func TestGridModel_ParentSetAll(t *testing.T) {
	m := NewGridModel(makeHabits(), nil, gridDays(), gridToday())

	// Move to the Workout parent row.
	m.Update(keyRune('j'))
	m.Update(keyRune('j'))
	m.Update(keyRune('x'))

	if len(m.Actions) != 1 {
		t.Fatalf("actions = %d, want 1", len(m.Actions))
	}
	a := m.Actions[0]
	if a.Type != "setall" || a.HabitID != "workout" || !a.On {
		t.Fatalf("action = %+v", a)
	}

	rec := m.recs["workout"]
	if !rec.SubDone("push", "2024-01-10") {
		t.Error("binary sub should be checked locally")
	}
	if rec.SubValue("crunch", "2024-01-10") != 100 {
		t.Errorf("quant sub = %v, want filled to goal", rec.SubValue("crunch", "2024-01-10"))
	}

	// Now fully complete, so the next press clears the day.
	m.Update(keyRune('x'))
	if m.Actions[1].On {
		t.Error("second setall should clear")
	}
}

func TestGridModel_QuantitativeLogFlow(t *testing.T) {
	m := NewGridModel(makeHabits(), nil, gridDays(), gridToday())

	// Move to the Run row; x on a quantitative habit opens the value prompt.
	m.Update(keyRune('j'))
	m.Update(keyRune('x'))
	if m.mode != gridModeLog {
		t.Fatal("quantitative toggle should enter log mode")
	}

	for _, r := range "7.5" {
		m.Update(keyRune(r))
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if m.mode != gridModeNormal {
		t.Fatal("enter should leave log mode")
	}
	if len(m.Actions) != 1 {
		t.Fatalf("actions = %d, want 1", len(m.Actions))
	}
	a := m.Actions[0]
	if a.Type != "log" || a.HabitID != "run" || a.Value != 7.5 {
		t.Fatalf("action = %+v", a)
	}
	if m.recs["run"].Value("2024-01-10") != 7.5 {
		t.Error("local value missing after log")
	}
}

func TestGridModel_FoldParent(t *testing.T) {
	m := NewGridModel(makeHabits(), nil, gridDays(), gridToday())

	// Collapse Workout: its two sub rows disappear.
	m.Update(keyRune('j'))
	m.Update(keyRune('j'))
	m.Update(tea.KeyMsg{Type: tea.KeyTab})

	if len(m.rows) != 3 {
		t.Fatalf("rows after collapse = %d, want 3", len(m.rows))
	}
	if len(m.Actions) != 1 || m.Actions[0].Type != "expand" || m.Actions[0].On {
		t.Fatalf("action = %+v", m.Actions)
	}
}

func TestGridModel_ViewRenders(t *testing.T) {
	recs := map[string]habit.Record{
		"read": {Main: map[string]bool{"2024-01-10": true}},
	}
	m := NewGridModel(makeHabits(), recs, gridDays(), gridToday())

	out := m.View()
	if !strings.Contains(out, "January 2024") {
		t.Error("view should show the month title")
	}
	for _, name := range []string{"Read", "Run", "Workout", "Pushups", "Crunches"} {
		if !strings.Contains(out, name) {
			t.Errorf("view missing row %q", name)
		}
	}
}

func TestGridModel_QuitRecordsNoAction(t *testing.T) {
	m := NewGridModel(makeHabits(), nil, gridDays(), gridToday())

	_, cmd := m.Update(keyRune('q'))
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if len(m.Actions) != 0 {
		t.Errorf("quit must not record actions: %+v", m.Actions)
	}
}
