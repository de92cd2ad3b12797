package db

import (
	"testing"
	"time"

	"github.com/liemthanh24/notekeeper/pkg/note"
	"github.com/liemthanh24/notekeeper/pkg/scheduler"
)

func setupTestDB(t *testing.T) *Repository {
	t.Helper()
	database, err := NewDB(":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	if err := database.InitSchema(); err != nil {
		t.Fatalf("failed to init schema: %v", err)
	}
	return NewRepository(database)
}

func firingEvent(noteID, alarmID int64, title string, firedAt time.Time) scheduler.Event {
	return scheduler.Event{
		NoteID:         noteID,
		NoteTitle:      title,
		MissionContent: "",
		Alarm: note.Alarm{
			ID:        alarmID,
			Time:      firedAt.Add(-time.Minute),
			Recurring: true,
			Pattern:   note.Daily,
		},
		FiredAt: firedAt,
	}
}

func TestRecordAndListFirings(t *testing.T) {
	repo := setupTestDB(t)
	base := time.Date(2025, 3, 15, 9, 30, 0, 0, time.UTC)

	if err := repo.RecordFiring(firingEvent(1, 10, "Standup", base)); err != nil {
		t.Fatalf("RecordFiring failed: %v", err)
	}
	if err := repo.RecordFiring(firingEvent(2, 11, "Review", base.Add(time.Hour))); err != nil {
		t.Fatalf("RecordFiring failed: %v", err)
	}

	firings, err := repo.RecentFirings(10)
	if err != nil {
		t.Fatalf("RecentFirings failed: %v", err)
	}
	if len(firings) != 2 {
		t.Fatalf("expected 2 firings, got %d", len(firings))
	}
	if firings[0].NoteTitle != "Review" {
		t.Errorf("newest firing should come first, got %q", firings[0].NoteTitle)
	}
	if firings[0].Frequency != "DAILY" {
		t.Errorf("frequency = %q, want DAILY", firings[0].Frequency)
	}
	if firings[1].AlarmID != 10 || firings[1].NoteID != 1 {
		t.Errorf("unexpected row: %+v", firings[1])
	}
}

func TestRecentFiringsLimit(t *testing.T) {
	repo := setupTestDB(t)
	base := time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		ev := firingEvent(int64(i+1), int64(i+100), "Note", base.Add(time.Duration(i)*time.Minute))
		if err := repo.RecordFiring(ev); err != nil {
			t.Fatal(err)
		}
	}

	firings, err := repo.RecentFirings(3)
	if err != nil {
		t.Fatal(err)
	}
	if len(firings) != 3 {
		t.Errorf("limit not applied: got %d rows", len(firings))
	}
}

func TestFiringsForNote(t *testing.T) {
	repo := setupTestDB(t)
	base := time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC)

	if err := repo.RecordFiring(firingEvent(1, 10, "Mine", base)); err != nil {
		t.Fatal(err)
	}
	if err := repo.RecordFiring(firingEvent(1, 10, "Mine", base.Add(24*time.Hour))); err != nil {
		t.Fatal(err)
	}
	if err := repo.RecordFiring(firingEvent(2, 11, "Other", base)); err != nil {
		t.Fatal(err)
	}

	firings, err := repo.FiringsForNote(1)
	if err != nil {
		t.Fatalf("FiringsForNote failed: %v", err)
	}
	if len(firings) != 2 {
		t.Fatalf("expected 2 firings for note 1, got %d", len(firings))
	}
	if !firings[0].FiredAt.After(firings[1].FiredAt) {
		t.Error("firings should be newest first")
	}

	none, err := repo.FiringsForNote(99)
	if err != nil {
		t.Fatal(err)
	}
	if len(none) != 0 {
		t.Errorf("expected no firings for unknown note, got %d", len(none))
	}
}
