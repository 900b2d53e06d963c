// Package export moves the whole habit database through a portable JSON
// snapshot, optionally encrypted with an age passphrase.
package export

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"filippo.io/age"
	"filippo.io/age/armor"
)

const snapshotVersion = 1

var (
	// ErrWrongPassphrase is returned when decryption fails due to a bad passphrase.
	ErrWrongPassphrase = errors.New("wrong passphrase")
	// ErrCorrupted is returned when snapshot data cannot be parsed.
	ErrCorrupted = errors.New("snapshot is corrupted or unreadable")
)

// Snapshot is the portable form of the database. Habits are flat rows with
// ParentID set for sub-habits, so import order is parents first.
type Snapshot struct {
	Version    int       `json:"version"`
	ExportedAt time.Time `json:"exported_at"`
	Habits     []Habit   `json:"habits"`
	Checkins   []Checkin `json:"checkins"`
}

type Habit struct {
	ID        string   `json:"id"`
	ParentID  string   `json:"parent_id,omitempty"`
	Name      string   `json:"name"`
	Goal      float64  `json:"goal,omitempty"`
	Unit      string   `json:"unit,omitempty"`
	Frequency []string `json:"frequency,omitempty"`
	Position  int      `json:"position"`
	Expanded  bool     `json:"expanded"`
}

type Checkin struct {
	HabitID string   `json:"habit_id"`
	SubID   string   `json:"sub_id,omitempty"`
	Day     string   `json:"day"`
	Value   *float64 `json:"value,omitempty"`
}

// Collect reads the full database into a snapshot.
func Collect(db *sql.DB) (*Snapshot, error) {
	snap := &Snapshot{Version: snapshotVersion, ExportedAt: time.Now().UTC()}

	rows, err := db.Query(
		`SELECT id, COALESCE(parent_id, ''), name, goal, unit, frequency, position, expanded
		 FROM habits ORDER BY parent_id IS NOT NULL, position ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("reading habits: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var h Habit
		var freq string
		var expanded int
		if err := rows.Scan(&h.ID, &h.ParentID, &h.Name, &h.Goal, &h.Unit, &freq, &h.Position, &expanded); err != nil {
			return nil, err
		}
		if freq != "" {
			h.Frequency = strings.Split(freq, ",")
		}
		h.Expanded = expanded == 1
		snap.Habits = append(snap.Habits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	crows, err := db.Query(`SELECT habit_id, sub_id, day, value FROM checkins ORDER BY day ASC`)
	if err != nil {
		return nil, fmt.Errorf("reading check-ins: %w", err)
	}
	defer crows.Close()

	for crows.Next() {
		var c Checkin
		var value sql.NullFloat64
		if err := crows.Scan(&c.HabitID, &c.SubID, &c.Day, &value); err != nil {
			return nil, err
		}
		if value.Valid {
			v := value.Float64
			c.Value = &v
		}
		snap.Checkins = append(snap.Checkins, c)
	}
	return snap, crows.Err()
}

// Restore writes a snapshot into the database. Existing habits and check-ins
// are wiped first: an import is a restore, not a merge.
func Restore(db *sql.DB, snap *Snapshot) error {
	if snap.Version > snapshotVersion {
		return fmt.Errorf("snapshot version %d is newer than this build supports", snap.Version)
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM checkins`); err != nil {
		return fmt.Errorf("clearing check-ins: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM habits`); err != nil {
		return fmt.Errorf("clearing habits: %w", err)
	}

	for _, h := range snap.Habits {
		var parent any
		if h.ParentID != "" {
			parent = h.ParentID
		}
		expanded := 0
		if h.Expanded {
			expanded = 1
		}
		if _, err := tx.Exec(
			`INSERT INTO habits (id, parent_id, name, goal, unit, frequency, position, expanded)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			h.ID, parent, h.Name, h.Goal, h.Unit, strings.Join(h.Frequency, ","), h.Position, expanded,
		); err != nil {
			return fmt.Errorf("restoring habit %q: %w", h.Name, err)
		}
	}

	for _, c := range snap.Checkins {
		var value any
		if c.Value != nil {
			value = *c.Value
		}
		if _, err := tx.Exec(
			`INSERT OR IGNORE INTO checkins (habit_id, sub_id, day, value) VALUES (?, ?, ?, ?)`,
			c.HabitID, c.SubID, c.Day, value,
		); err != nil {
			return fmt.Errorf("restoring check-in for %s: %w", c.Day, err)
		}
	}

	return tx.Commit()
}

// WriteFile writes a snapshot to path. A non-empty passphrase produces an
// age-armored file instead of plain JSON.
func WriteFile(path string, snap *Snapshot, passphrase string) error {
	payload, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	if passphrase != "" {
		payload, err = encrypt(payload, passphrase)
		if err != nil {
			return err
		}
	}
	return atomicWrite(path, payload)
}

// ReadFile reads a snapshot from path, decrypting when the file is armored.
// A passphrase is only required for encrypted files.
func ReadFile(path, passphrase string) (*Snapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if Encrypted(raw) {
		raw, err = decrypt(raw, passphrase)
		if err != nil {
			return nil, err
		}
	}

	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupted, err)
	}
	return &snap, nil
}

// Encrypted reports whether raw looks like an age-armored snapshot.
func Encrypted(raw []byte) bool {
	return bytes.HasPrefix(bytes.TrimSpace(raw), []byte(armor.Header))
}

func encrypt(payload []byte, passphrase string) ([]byte, error) {
	if strings.TrimSpace(passphrase) == "" {
		return nil, fmt.Errorf("passphrase required")
	}
	recipient, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	aw := armor.NewWriter(&buf)
	w, err := age.Encrypt(aw, recipient)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(payload); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	if err := aw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decrypt(raw []byte, passphrase string) ([]byte, error) {
	identity, err := age.NewScryptIdentity(passphrase)
	if err != nil {
		return nil, err
	}
	r, err := age.Decrypt(armor.NewReader(bytes.NewReader(raw)), identity)
	if err != nil {
		msg := err.Error()
		if strings.Contains(msg, "no identity matched") || strings.Contains(msg, "incorrect") {
			return nil, fmt.Errorf("%w: %v", ErrWrongPassphrase, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrCorrupted, err)
	}
	plaintext, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupted, err)
	}
	return plaintext, nil
}

func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".hobbit-export-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmpName)
		}
	}()
	if err := os.Chmod(tmpName, 0o600); err != nil {
		_ = tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	success = true
	return nil
}
