package habit

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a habit or sub-habit id doesn't exist.
var ErrNotFound = errors.New("habit not found")

// Store handles habit persistence.
type Store struct {
	db *sql.DB
}

// NewStore creates a new habit store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Add creates a top-level habit and returns it. goal == 0 creates a binary
// habit; goal > 0 a quantitative one with the given unit.
func (s *Store) Add(name string, goal float64, unit string, freq []string) (*Habit, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("habit name is required")
	}
	if goal < 0 {
		goal = 0
	}

	var pos int
	if err := s.db.QueryRow(
		`SELECT COALESCE(MAX(position), -1) + 1 FROM habits WHERE parent_id IS NULL`,
	).Scan(&pos); err != nil {
		return nil, fmt.Errorf("assigning position: %w", err)
	}

	h := &Habit{
		ID:        uuid.New().String(),
		Name:      name,
		Goal:      goal,
		Unit:      strings.TrimSpace(unit),
		Frequency: freq,
		Expanded:  true,
		Position:  pos,
		CreatedAt: time.Now(),
	}

	if _, err := s.db.Exec(
		`INSERT INTO habits (id, name, goal, unit, frequency, position, expanded) VALUES (?, ?, ?, ?, ?, ?, 1)`,
		h.ID, h.Name, h.Goal, h.Unit, joinFrequency(h.Frequency), h.Position,
	); err != nil {
		return nil, fmt.Errorf("adding habit: %w", err)
	}
	return h, nil
}

// AddSub creates a sub-habit under parentID. The sub-habit starts with the
// parent's frequency unless freq is given explicitly; afterwards the two are
// independent. When this is the parent's first sub-habit, the parent's own
// binary history is copied to the new sub-habit so prior progress survives
// the leaf-to-parent transition.
func (s *Store) AddSub(parentID, name string, goal float64, unit string, freq []string) (*SubHabit, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("sub-habit name is required")
	}
	if goal < 0 {
		goal = 0
	}

	parent, err := s.Get(parentID)
	if err != nil {
		return nil, err
	}
	if freq == nil {
		freq = parent.Frequency
	}

	sub := &SubHabit{
		ID:        uuid.New().String(),
		Name:      name,
		Goal:      goal,
		Unit:      strings.TrimSpace(unit),
		Frequency: freq,
		Position:  len(parent.Subs),
		CreatedAt: time.Now(),
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO habits (id, parent_id, name, goal, unit, frequency, position, expanded) VALUES (?, ?, ?, ?, ?, ?, ?, 1)`,
		sub.ID, parent.ID, sub.Name, sub.Goal, sub.Unit, joinFrequency(sub.Frequency), sub.Position,
	); err != nil {
		return nil, fmt.Errorf("adding sub-habit: %w", err)
	}

	if len(parent.Subs) == 0 {
		// Migrate, don't delete: the parent's binary check-ins become the
		// first sub-habit's history.
		if _, err := tx.Exec(
			`INSERT OR IGNORE INTO checkins (habit_id, sub_id, day, value)
			 SELECT habit_id, ?, day, NULL FROM checkins
			 WHERE habit_id = ? AND sub_id = '' AND value IS NULL`,
			sub.ID, parent.ID,
		); err != nil {
			return nil, fmt.Errorf("migrating habit history: %w", err)
		}
	}

	if _, err := tx.Exec(
		`UPDATE habits SET expanded = 1, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		parent.ID,
	); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return sub, nil
}

// Get returns a top-level habit with its sub-habits loaded.
func (s *Store) Get(id string) (*Habit, error) {
	row := s.db.QueryRow(
		`SELECT id, name, goal, unit, frequency, position, expanded, created_at
		 FROM habits WHERE id = ? AND parent_id IS NULL`, id,
	)
	h, err := scanHabit(row)
	if err != nil {
		return nil, err
	}

	subs, err := s.listSubs(h.ID)
	if err != nil {
		return nil, err
	}
	h.Subs = subs
	return h, nil
}

// List returns all top-level habits, sub-habits nested, in display order.
func (s *Store) List() ([]Habit, error) {
	rows, err := s.db.Query(
		`SELECT id, name, goal, unit, frequency, position, expanded, created_at
		 FROM habits WHERE parent_id IS NULL ORDER BY position ASC, created_at ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing habits: %w", err)
	}
	defer rows.Close()

	var habits []Habit
	for rows.Next() {
		h, err := scanHabitRow(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, *h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range habits {
		subs, err := s.listSubs(habits[i].ID)
		if err != nil {
			return nil, err
		}
		habits[i].Subs = subs
	}
	return habits, nil
}

// listSubs returns the sub-habits of a parent, in display order.
func (s *Store) listSubs(parentID string) ([]SubHabit, error) {
	rows, err := s.db.Query(
		`SELECT id, name, goal, unit, frequency, position, created_at
		 FROM habits WHERE parent_id = ? ORDER BY position ASC, created_at ASC`, parentID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing sub-habits: %w", err)
	}
	defer rows.Close()

	var subs []SubHabit
	for rows.Next() {
		var sub SubHabit
		var freqStr, createdStr string
		if err := rows.Scan(&sub.ID, &sub.Name, &sub.Goal, &sub.Unit, &freqStr, &sub.Position, &createdStr); err != nil {
			return nil, err
		}
		sub.Frequency = splitFrequency(freqStr)
		sub.CreatedAt, _ = time.Parse("2006-01-02 15:04:05", createdStr)
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// Update edits the configurable fields of a habit or sub-habit.
func (s *Store) Update(id, name string, goal float64, unit string, freq []string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("habit name is required")
	}
	if goal < 0 {
		goal = 0
	}

	res, err := s.db.Exec(
		`UPDATE habits SET name = ?, goal = ?, unit = ?, frequency = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		name, goal, strings.TrimSpace(unit), joinFrequency(freq), id,
	)
	if err != nil {
		return fmt.Errorf("updating habit: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a habit or sub-habit. Check-ins (and sub-habits, for a
// parent) go with it via cascade.
func (s *Store) Delete(id string) error {
	res, err := s.db.Exec(`DELETE FROM habits WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting habit: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetExpanded stores the UI expansion flag for a parent habit.
func (s *Store) SetExpanded(id string, expanded bool) error {
	e := 0
	if expanded {
		e = 1
	}
	_, err := s.db.Exec(
		`UPDATE habits SET expanded = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, e, id,
	)
	return err
}

// CollapseAll collapses every parent habit.
func (s *Store) CollapseAll() error {
	_, err := s.db.Exec(`UPDATE habits SET expanded = 0 WHERE parent_id IS NULL`)
	return err
}

// Resolve finds a top-level habit by exact name, unique name prefix, or
// unique id prefix. CLI convenience so users can type "read" instead of a
// UUID.
func (s *Store) Resolve(ref string) (*Habit, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("habit name or id is required")
	}

	habits, err := s.List()
	if err != nil {
		return nil, err
	}

	var matches []*Habit
	lower := strings.ToLower(ref)
	for i := range habits {
		h := &habits[i]
		if strings.EqualFold(h.Name, ref) || h.ID == ref {
			return h, nil
		}
		if strings.HasPrefix(strings.ToLower(h.Name), lower) || strings.HasPrefix(h.ID, ref) {
			matches = append(matches, h)
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no habit matches %q", ref)
	case 1:
		return matches[0], nil
	default:
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = m.Name
		}
		return nil, fmt.Errorf("ambiguous habit %q — matches: %s", ref, strings.Join(names, ", "))
	}
}

// ResolveSub finds a sub-habit of h by exact name, unique name prefix, or id.
func ResolveSub(h *Habit, ref string) (*SubHabit, error) {
	ref = strings.TrimSpace(ref)
	var matches []*SubHabit
	lower := strings.ToLower(ref)
	for i := range h.Subs {
		sub := &h.Subs[i]
		if strings.EqualFold(sub.Name, ref) || sub.ID == ref {
			return sub, nil
		}
		if strings.HasPrefix(strings.ToLower(sub.Name), lower) || strings.HasPrefix(sub.ID, ref) {
			matches = append(matches, sub)
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no sub-habit of %q matches %q", h.Name, ref)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("ambiguous sub-habit %q", ref)
	}
}

func scanHabit(row *sql.Row) (*Habit, error) {
	var h Habit
	var freqStr, createdStr string
	var expandedInt int
	if err := row.Scan(&h.ID, &h.Name, &h.Goal, &h.Unit, &freqStr, &h.Position, &expandedInt, &createdStr); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting habit: %w", err)
	}
	h.Frequency = splitFrequency(freqStr)
	h.Expanded = expandedInt == 1
	h.CreatedAt, _ = time.Parse("2006-01-02 15:04:05", createdStr)
	return &h, nil
}

func scanHabitRow(rows *sql.Rows) (*Habit, error) {
	var h Habit
	var freqStr, createdStr string
	var expandedInt int
	if err := rows.Scan(&h.ID, &h.Name, &h.Goal, &h.Unit, &freqStr, &h.Position, &expandedInt, &createdStr); err != nil {
		return nil, err
	}
	h.Frequency = splitFrequency(freqStr)
	h.Expanded = expandedInt == 1
	h.CreatedAt, _ = time.Parse("2006-01-02 15:04:05", createdStr)
	return &h, nil
}
