package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rnwolfe/hobbit/internal/habit"
	"github.com/rnwolfe/hobbit/internal/progress"
	"github.com/rnwolfe/hobbit/internal/ui"
)

// GridAction represents an action taken in the month-grid TUI.
type GridAction struct {
	Type    string // "toggle", "setall", "expand", "log"
	HabitID string
	SubID   string
	Day     string
	On      bool
	Value   float64
}

// gridRow is one visible line of the grid: a habit, or one of its sub-habits
// when the parent is expanded.
type gridRow struct {
	habit *habit.Habit
	sub   *habit.SubHabit
}

// GridModel is the interactive month view: habits down, days across.
type GridModel struct {
	habits []habit.Habit
	recs   map[string]habit.Record
	days   []time.Time
	today  time.Time

	rows   []gridRow
	cursor int
	col    int

	mode     gridMode
	logInput string

	width  int
	height int

	// pending actions to apply after quitting
	Actions []GridAction

	quitting bool
}

type gridMode int

const (
	gridModeNormal gridMode = iota
	gridModeLog
)

// NewGridModel creates a grid for the given month positioned on today.
func NewGridModel(habits []habit.Habit, recs map[string]habit.Record, days []time.Time, today time.Time) *GridModel {
	if recs == nil {
		recs = make(map[string]habit.Record)
	}
	m := &GridModel{
		habits: habits,
		recs:   recs,
		days:   days,
		today:  today,
		width:  80,
		height: 24,
	}
	m.rebuildRows()
	m.col = m.todayCol()
	return m
}

// RunGrid launches the interactive grid. Returns actions for the caller to apply.
func RunGrid(habits []habit.Habit, recs map[string]habit.Record, days []time.Time, today time.Time) ([]GridAction, error) {
	m := NewGridModel(habits, recs, days, today)
	prog := tea.NewProgram(m, tea.WithAltScreen())
	result, err := prog.Run()
	if err != nil {
		return nil, fmt.Errorf("grid tui: %w", err)
	}
	final := result.(*GridModel)
	return final.Actions, nil
}

func (m *GridModel) Init() tea.Cmd {
	return nil
}

func (m *GridModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.mode == gridModeLog {
			return m.handleLogKey(msg)
		}
		return m.handleNormalKey(msg)
	}
	return m, nil
}

func (m *GridModel) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		m.quitting = true
		return m, tea.Quit

	case "j", "down":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}

	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}

	case "h", "left":
		if m.col > 0 {
			m.col--
		}

	case "l", "right":
		if m.col < len(m.days)-1 {
			m.col++
		}

	case "g":
		m.cursor = 0

	case "G":
		if len(m.rows) > 0 {
			m.cursor = len(m.rows) - 1
		}

	case "t":
		m.col = m.todayCol()

	case "x", " ", "enter":
		m.toggleAtCursor()

	case "v":
		m.startLog()

	case "tab":
		m.toggleExpand()
	}
	return m, nil
}

func (m *GridModel) handleLogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = gridModeNormal
		m.logInput = ""

	case "enter":
		var value float64
		if _, err := fmt.Sscanf(strings.TrimSpace(m.logInput), "%f", &value); err == nil {
			m.applyLog(value)
		}
		m.mode = gridModeNormal
		m.logInput = ""

	case "backspace":
		if len(m.logInput) > 0 {
			runes := []rune(m.logInput)
			m.logInput = string(runes[:len(runes)-1])
		}

	default:
		if len(msg.Runes) > 0 {
			m.logInput += string(msg.Runes)
		}
	}
	return m, nil
}

// toggleAtCursor flips the cell under the cursor, recording the action and
// updating local state for immediate feedback.
func (m *GridModel) toggleAtCursor() {
	if len(m.rows) == 0 || m.futureCol(m.col) {
		return
	}
	row := m.rows[m.cursor]
	day := habit.DayKey(m.days[m.col])
	rec := m.recs[row.habit.ID]

	if row.sub != nil {
		if row.sub.Quantitative() {
			m.startLog()
			return
		}
		on := !rec.SubDone(row.sub.ID, day)
		m.Actions = append(m.Actions, GridAction{Type: "toggle", HabitID: row.habit.ID, SubID: row.sub.ID, Day: day, On: on})
		setSubDone(&rec, row.sub.ID, day, on)
		m.recs[row.habit.ID] = rec
		return
	}

	h := row.habit
	if h.Quantitative() {
		m.startLog()
		return
	}
	if h.Parent() {
		// One keypress drives the whole day: fill everything unless the day
		// is already fully complete, then clear it.
		on := progress.DayFraction(h, rec, m.days[m.col]) < 1
		m.Actions = append(m.Actions, GridAction{Type: "setall", HabitID: h.ID, Day: day, On: on})
		for i := range h.Subs {
			sub := &h.Subs[i]
			if sub.Quantitative() {
				target := 0.0
				if on {
					target = sub.Goal
				}
				setSubValue(&rec, sub.ID, day, target)
				continue
			}
			setSubDone(&rec, sub.ID, day, on)
		}
		m.recs[h.ID] = rec
		return
	}

	on := !rec.MainDone(day)
	m.Actions = append(m.Actions, GridAction{Type: "toggle", HabitID: h.ID, Day: day, On: on})
	if rec.Main == nil {
		rec.Main = make(map[string]bool)
	}
	if on {
		rec.Main[day] = true
	} else {
		delete(rec.Main, day)
	}
	m.recs[h.ID] = rec
}

func (m *GridModel) startLog() {
	if len(m.rows) == 0 || m.futureCol(m.col) {
		return
	}
	row := m.rows[m.cursor]
	quant := (row.sub != nil && row.sub.Quantitative()) ||
		(row.sub == nil && row.habit.Quantitative())
	if !quant {
		return
	}
	m.mode = gridModeLog
	m.logInput = ""
}

func (m *GridModel) applyLog(value float64) {
	row := m.rows[m.cursor]
	day := habit.DayKey(m.days[m.col])
	rec := m.recs[row.habit.ID]

	if row.sub != nil {
		m.Actions = append(m.Actions, GridAction{Type: "log", HabitID: row.habit.ID, SubID: row.sub.ID, Day: day, Value: value})
		setSubValue(&rec, row.sub.ID, day, value)
	} else {
		m.Actions = append(m.Actions, GridAction{Type: "log", HabitID: row.habit.ID, Day: day, Value: value})
		if rec.Values == nil {
			rec.Values = make(map[string]float64)
		}
		if value <= 0 {
			delete(rec.Values, day)
		} else {
			rec.Values[day] = value
		}
	}
	m.recs[row.habit.ID] = rec
}

func (m *GridModel) toggleExpand() {
	if len(m.rows) == 0 {
		return
	}
	row := m.rows[m.cursor]
	if row.sub != nil || !row.habit.Parent() {
		return
	}
	row.habit.Expanded = !row.habit.Expanded
	m.Actions = append(m.Actions, GridAction{Type: "expand", HabitID: row.habit.ID, On: row.habit.Expanded})
	m.rebuildRows()
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
}

func (m *GridModel) rebuildRows() {
	m.rows = nil
	for i := range m.habits {
		h := &m.habits[i]
		m.rows = append(m.rows, gridRow{habit: h})
		if h.Parent() && h.Expanded {
			for j := range h.Subs {
				m.rows = append(m.rows, gridRow{habit: h, sub: &h.Subs[j]})
			}
		}
	}
}

func (m *GridModel) todayCol() int {
	key := habit.DayKey(m.today)
	for i, d := range m.days {
		if habit.DayKey(d) == key {
			return i
		}
	}
	return 0
}

func (m *GridModel) futureCol(col int) bool {
	return habit.DayKey(m.days[col]) > habit.DayKey(m.today)
}

func setSubDone(rec *habit.Record, subID, day string, on bool) {
	if rec.Subs == nil {
		rec.Subs = make(map[string]map[string]bool)
	}
	if rec.Subs[subID] == nil {
		rec.Subs[subID] = make(map[string]bool)
	}
	if on {
		rec.Subs[subID][day] = true
	} else {
		delete(rec.Subs[subID], day)
	}
}

func setSubValue(rec *habit.Record, subID, day string, value float64) {
	if rec.SubValues == nil {
		rec.SubValues = make(map[string]map[string]float64)
	}
	if rec.SubValues[subID] == nil {
		rec.SubValues[subID] = make(map[string]float64)
	}
	if value <= 0 {
		delete(rec.SubValues[subID], day)
	} else {
		rec.SubValues[subID][day] = value
	}
}

const nameWidth = 18

func (m *GridModel) View() string {
	var b strings.Builder

	title := m.days[0].Format("January 2006")
	b.WriteString(ui.Title.Render("  "+ui.IconHobbit+" "+title) + "\n\n")

	b.WriteString(m.renderDayHeader() + "\n")

	for i, row := range m.rows {
		b.WriteString(m.renderRow(row, i == m.cursor) + "\n")
	}
	if len(m.rows) == 0 {
		b.WriteString("  " + ui.Muted.Render("No habits yet. Run 'hobbit add' to plant one.") + "\n")
	}

	b.WriteString("\n")

	if m.mode == gridModeLog {
		prompt := lipgloss.NewStyle().Foreground(ui.Moss).Bold(true).Render("value:")
		b.WriteString("  " + prompt + " " + m.logInput + "▌\n")
	} else if len(m.rows) > 0 {
		b.WriteString(m.renderStatus() + "\n")
	}

	var help string
	if m.mode == gridModeLog {
		help = ui.Muted.Render("  enter save · esc cancel")
	} else {
		help = ui.Muted.Render("  h/j/k/l move · x toggle · v log value · tab fold · t today · q quit")
	}
	b.WriteString(help + "\n")

	return b.String()
}

func (m *GridModel) renderDayHeader() string {
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", nameWidth+4))
	for i, d := range m.days {
		label := fmt.Sprintf("%2d", d.Day())
		switch {
		case i == m.col:
			b.WriteString(ui.Accent.Render(label))
		case habit.DayKey(d) == habit.DayKey(m.today):
			b.WriteString(ui.Info.Render(label))
		default:
			b.WriteString(ui.Muted.Render(label))
		}
	}
	return b.String()
}

func (m *GridModel) renderRow(row gridRow, selected bool) string {
	var b strings.Builder

	pointer := "  "
	if selected {
		pointer = ui.Accent.Render(ui.IconArrow + " ")
	}
	b.WriteString(pointer)

	name := row.habit.Name
	indent := ""
	if row.sub != nil {
		name = row.sub.Name
		indent = "  "
	} else if row.habit.Parent() {
		if row.habit.Expanded {
			indent = "▾ "
		} else {
			indent = "▸ "
		}
	}
	label := indent + name
	if len([]rune(label)) > nameWidth {
		label = string([]rune(label)[:nameWidth-1]) + "…"
	}
	if selected {
		b.WriteString(ui.Accent.Render(fmt.Sprintf("%-*s", nameWidth, label)))
	} else {
		b.WriteString(fmt.Sprintf("%-*s", nameWidth, label))
	}
	b.WriteString("  ")

	rec := m.recs[row.habit.ID]
	for i, d := range m.days {
		b.WriteString(m.renderCell(row, rec, d, selected && i == m.col))
	}
	return b.String()
}

func (m *GridModel) renderCell(row gridRow, rec habit.Record, d time.Time, focused bool) string {
	day := habit.DayKey(d)

	var icon string
	var style lipgloss.Style
	switch {
	case day > habit.DayKey(m.today):
		icon, style = ui.IconDot, ui.Muted
	case row.sub != nil:
		icon, style = subCell(row.habit, row.sub, rec, d)
	default:
		icon, style = habitCell(row.habit, rec, d)
	}

	cell := " " + icon
	if focused {
		return ui.Accent.Render(" " + icon)
	}
	return style.Render(cell)
}

func subCell(h *habit.Habit, sub *habit.SubHabit, rec habit.Record, d time.Time) (string, lipgloss.Style) {
	if !progress.SubScheduled(h, sub, d) {
		return ui.IconDot, ui.Muted
	}
	day := habit.DayKey(d)
	if sub.Quantitative() {
		switch v := rec.SubValue(sub.ID, day); {
		case v >= sub.Goal:
			return ui.IconFull, ui.Success
		case v > 0:
			return ui.IconPartial, ui.Warning
		default:
			return ui.IconEmpty, ui.Muted
		}
	}
	if rec.SubDone(sub.ID, day) {
		return ui.IconFull, ui.Success
	}
	return ui.IconEmpty, ui.Muted
}

func habitCell(h *habit.Habit, rec habit.Record, d time.Time) (string, lipgloss.Style) {
	if !progress.Scheduled(h.Frequency, d) {
		return ui.IconDot, ui.Muted
	}
	f := progress.DayFraction(h, rec, d)
	switch {
	case progress.Complete(f):
		return ui.IconFull, ui.Success
	case progress.Partial(f):
		return ui.IconPartial, ui.Warning
	default:
		return ui.IconEmpty, ui.Muted
	}
}

// renderStatus summarizes the selected cell: fraction, value, streak.
func (m *GridModel) renderStatus() string {
	row := m.rows[m.cursor]
	rec := m.recs[row.habit.ID]
	d := m.days[m.col]
	day := habit.DayKey(d)

	var parts []string
	parts = append(parts, d.Format("Mon Jan 2"))

	if row.sub != nil {
		if row.sub.Quantitative() {
			parts = append(parts, fmt.Sprintf("%.1f/%.1f %s", rec.SubValue(row.sub.ID, day), row.sub.Goal, row.sub.Unit))
		}
	} else {
		h := row.habit
		if h.Quantitative() {
			parts = append(parts, fmt.Sprintf("%.1f/%.1f %s", rec.Value(day), h.Goal, h.Unit))
		} else {
			parts = append(parts, fmt.Sprintf("%.0f%%", progress.DayFraction(h, rec, d)*100))
		}
		streak := progress.CurrentStreak(h, rec, m.today, 0)
		if streak > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", ui.IconFire, streak))
		}
	}
	return ui.Muted.Render("  " + strings.Join(parts, " · "))
}
