package habit

import (
	"database/sql"
	"fmt"
)

// Toggle flips a binary check-in for (habitID, subID) on day. subID is ""
// for the habit's own check-in. Returns the resulting state.
func (s *Store) Toggle(habitID, subID, day string) (bool, error) {
	var exists int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM checkins WHERE habit_id = ? AND sub_id = ? AND day = ? AND value IS NULL`,
		habitID, subID, day,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking check-in: %w", err)
	}

	if exists > 0 {
		if _, err := s.db.Exec(
			`DELETE FROM checkins WHERE habit_id = ? AND sub_id = ? AND day = ? AND value IS NULL`,
			habitID, subID, day,
		); err != nil {
			return false, fmt.Errorf("clearing check-in: %w", err)
		}
		return false, nil
	}

	if _, err := s.db.Exec(
		`INSERT OR REPLACE INTO checkins (habit_id, sub_id, day, value) VALUES (?, ?, ?, NULL)`,
		habitID, subID, day,
	); err != nil {
		return false, fmt.Errorf("recording check-in: %w", err)
	}
	return true, nil
}

// SetValue records a numeric value for a quantitative habit or sub-habit on
// day. A value <= 0 clears the entry (no data, not "zero progress").
func (s *Store) SetValue(habitID, subID, day string, value float64) error {
	if value <= 0 {
		if _, err := s.db.Exec(
			`DELETE FROM checkins WHERE habit_id = ? AND sub_id = ? AND day = ?`,
			habitID, subID, day,
		); err != nil {
			return fmt.Errorf("clearing value: %w", err)
		}
		return nil
	}

	if _, err := s.db.Exec(
		`INSERT INTO checkins (habit_id, sub_id, day, value) VALUES (?, ?, ?, ?)
		 ON CONFLICT(habit_id, sub_id, day) DO UPDATE SET value = excluded.value`,
		habitID, subID, day, value,
	); err != nil {
		return fmt.Errorf("recording value: %w", err)
	}
	return nil
}

// SetAll drives a parent habit's whole day to done or not-done: quantitative
// sub-habits are filled to their goal (or cleared), binary sub-habits are
// set to match. For a leaf binary habit it sets the single check-in. Callers
// decide the direction — typically "turn everything on" unless the day is
// already fully complete.
func (s *Store) SetAll(h *Habit, day string, on bool) error {
	if !h.Parent() {
		return s.setBinary(h.ID, "", day, on)
	}

	for i := range h.Subs {
		sub := &h.Subs[i]
		if sub.Quantitative() {
			target := 0.0
			if on {
				target = sub.Goal
			}
			if err := s.SetValue(h.ID, sub.ID, day, target); err != nil {
				return err
			}
			continue
		}
		if err := s.setBinary(h.ID, sub.ID, day, on); err != nil {
			return err
		}
	}
	return nil
}

// setBinary forces a binary check-in into the given state (idempotent).
func (s *Store) setBinary(habitID, subID, day string, on bool) error {
	if !on {
		_, err := s.db.Exec(
			`DELETE FROM checkins WHERE habit_id = ? AND sub_id = ? AND day = ? AND value IS NULL`,
			habitID, subID, day,
		)
		return err
	}
	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO checkins (habit_id, sub_id, day, value) VALUES (?, ?, ?, NULL)`,
		habitID, subID, day,
	)
	return err
}

// Records loads the full check-in history, keyed by habit id. Habits with no
// check-ins are simply absent — readers treat a missing Record as empty.
func (s *Store) Records() (map[string]Record, error) {
	rows, err := s.db.Query(`SELECT habit_id, sub_id, day, value FROM checkins`)
	if err != nil {
		return nil, fmt.Errorf("loading check-ins: %w", err)
	}
	defer rows.Close()

	recs := make(map[string]Record)
	for rows.Next() {
		var habitID, subID, day string
		var value sql.NullFloat64
		if err := rows.Scan(&habitID, &subID, &day, &value); err != nil {
			return nil, err
		}
		rec := recs[habitID]
		addEntry(&rec, subID, day, value)
		recs[habitID] = rec
	}
	return recs, rows.Err()
}

// RecordFor loads the check-in history of a single habit.
func (s *Store) RecordFor(habitID string) (Record, error) {
	rows, err := s.db.Query(
		`SELECT sub_id, day, value FROM checkins WHERE habit_id = ?`, habitID,
	)
	if err != nil {
		return Record{}, fmt.Errorf("loading check-ins: %w", err)
	}
	defer rows.Close()

	var rec Record
	for rows.Next() {
		var subID, day string
		var value sql.NullFloat64
		if err := rows.Scan(&subID, &day, &value); err != nil {
			return Record{}, err
		}
		addEntry(&rec, subID, day, value)
	}
	return rec, rows.Err()
}

// addEntry routes one check-in row into the right Record map, allocating
// lazily so untouched maps stay nil.
func addEntry(rec *Record, subID, day string, value sql.NullFloat64) {
	switch {
	case subID == "" && !value.Valid:
		if rec.Main == nil {
			rec.Main = make(map[string]bool)
		}
		rec.Main[day] = true
	case subID == "":
		if rec.Values == nil {
			rec.Values = make(map[string]float64)
		}
		rec.Values[day] = value.Float64
	case !value.Valid:
		if rec.Subs == nil {
			rec.Subs = make(map[string]map[string]bool)
		}
		if rec.Subs[subID] == nil {
			rec.Subs[subID] = make(map[string]bool)
		}
		rec.Subs[subID][day] = true
	default:
		if rec.SubValues == nil {
			rec.SubValues = make(map[string]map[string]float64)
		}
		if rec.SubValues[subID] == nil {
			rec.SubValues[subID] = make(map[string]float64)
		}
		rec.SubValues[subID][day] = value.Float64
	}
}
