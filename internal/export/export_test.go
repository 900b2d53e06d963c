package export

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rnwolfe/hobbit/internal/habit"
	"github.com/rnwolfe/hobbit/internal/store"
)

func seededDB(t *testing.T) (*store.DB, *habit.Store) {
	t.Helper()
	db, err := store.OpenPath(filepath.Join(t.TempDir(), "src.db"))
	if err != nil {
		t.Fatalf("opening db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	hs := habit.NewStore(db.Conn())
	read, err := hs.Add("Read", 0, "", nil)
	if err != nil {
		t.Fatalf("seeding: %v", err)
	}
	run, _ := hs.Add("Run", 10, "km", []string{"Mon", "Wed", "Fri"})
	workout, _ := hs.Add("Workout", 0, "", nil)
	sub, _ := hs.AddSub(workout.ID, "Pushups", 0, "", nil)

	hs.Toggle(read.ID, "", "2024-01-05")
	hs.SetValue(run.ID, "", "2024-01-05", 6.5)
	hs.Toggle(workout.ID, sub.ID, "2024-01-05")
	return db, hs
}

func TestCollect(t *testing.T) {
	db, _ := seededDB(t)

	snap, err := Collect(db.Conn())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	if snap.Version != snapshotVersion {
		t.Errorf("version = %d", snap.Version)
	}
	if len(snap.Habits) != 4 {
		t.Fatalf("habits = %d, want 4 (three top-level plus one sub)", len(snap.Habits))
	}
	// Parents are ordered before sub-habits so a restore can insert in order.
	if snap.Habits[len(snap.Habits)-1].ParentID == "" {
		t.Error("sub-habit should sort last")
	}
	if len(snap.Checkins) != 3 {
		t.Errorf("checkins = %d, want 3", len(snap.Checkins))
	}
}

func TestRoundTripPlain(t *testing.T) {
	db, _ := seededDB(t)
	path := filepath.Join(t.TempDir(), "hobbit.json")

	snap, _ := Collect(db.Conn())
	if err := WriteFile(path, snap, ""); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	raw, _ := os.ReadFile(path)
	if Encrypted(raw) {
		t.Fatal("plain export must not be armored")
	}

	got, err := ReadFile(path, "")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(got.Habits) != len(snap.Habits) || len(got.Checkins) != len(snap.Checkins) {
		t.Errorf("round trip lost rows: %d/%d habits, %d/%d checkins",
			len(got.Habits), len(snap.Habits), len(got.Checkins), len(snap.Checkins))
	}
}

func TestRoundTripEncrypted(t *testing.T) {
	db, _ := seededDB(t)
	path := filepath.Join(t.TempDir(), "hobbit.json.age")

	snap, _ := Collect(db.Conn())
	if err := WriteFile(path, snap, "correct horse"); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	raw, _ := os.ReadFile(path)
	if !Encrypted(raw) {
		t.Fatal("encrypted export must be armored")
	}

	got, err := ReadFile(path, "correct horse")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(got.Habits) != len(snap.Habits) {
		t.Errorf("round trip lost habits")
	}

	if _, err := ReadFile(path, "wrong"); !errors.Is(err, ErrWrongPassphrase) {
		t.Errorf("wrong passphrase err = %v, want ErrWrongPassphrase", err)
	}
}

func TestRestoreReplaces(t *testing.T) {
	src, _ := seededDB(t)
	snap, _ := Collect(src.Conn())

	dst, err := store.OpenPath(filepath.Join(t.TempDir(), "dst.db"))
	if err != nil {
		t.Fatalf("opening dst: %v", err)
	}
	defer dst.Close()

	// Pre-existing data in the destination must not survive the restore.
	stale := habit.NewStore(dst.Conn())
	old, _ := stale.Add("Stale", 0, "", nil)
	stale.Toggle(old.ID, "", "2023-12-31")

	if err := Restore(dst.Conn(), snap); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	hs := habit.NewStore(dst.Conn())
	habits, _ := hs.List()
	if len(habits) != 3 {
		t.Fatalf("restored habits = %d, want 3", len(habits))
	}
	for _, h := range habits {
		if h.Name == "Stale" {
			t.Error("restore must replace, not merge")
		}
	}

	recs, _ := hs.Records()
	total := 0
	for _, rec := range recs {
		total += len(rec.Main) + len(rec.Values)
		for _, m := range rec.Subs {
			total += len(m)
		}
		for _, m := range rec.SubValues {
			total += len(m)
		}
	}
	if total != 3 {
		t.Errorf("restored checkins = %d, want 3", total)
	}

	// Sub-habit structure survives.
	workout, err := hs.Resolve("Workout")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(workout.Subs) != 1 || workout.Subs[0].Name != "Pushups" {
		t.Errorf("subs after restore: %+v", workout.Subs)
	}
}

func TestRestoreRejectsNewerVersion(t *testing.T) {
	dst, err := store.OpenPath(filepath.Join(t.TempDir(), "dst.db"))
	if err != nil {
		t.Fatalf("opening dst: %v", err)
	}
	defer dst.Close()

	if err := Restore(dst.Conn(), &Snapshot{Version: snapshotVersion + 1}); err == nil {
		t.Error("restore must reject snapshots from a newer build")
	}
}
