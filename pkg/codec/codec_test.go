package codec

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/liemthanh24/notekeeper/pkg/note"
)

func testCodec(t *testing.T) *Codec {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "notes.yaml"))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	c := testCodec(t)

	createdAt := time.Date(2025, 3, 15, 8, 0, 0, 0, time.Local)
	alarmAt := time.Date(2025, 3, 16, 9, 30, 0, 0, time.Local)

	text := &note.Note{
		ID:             1,
		Title:          "Groceries",
		Content:        "milk, eggs",
		CreatedAt:      createdAt,
		UpdatedAt:      createdAt,
		Favorite:       true,
		Mission:        true,
		MissionContent: "buy everything",
		FolderID:       2,
		Tags:           []note.Tag{{ID: 1, Name: "Errands"}},
		Alarm:          &note.Alarm{ID: 1, Time: alarmAt, Recurring: true, Pattern: note.Weekly},
		Type:           note.TypeText,
	}
	drawing := &note.Note{
		ID:          2,
		Title:       "Sketch",
		DrawingData: "base64blob",
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
		FolderID:    1,
		Type:        note.TypeDrawing,
	}
	data := &Data{
		Notes: []*note.Note{text, drawing},
		Folders: []*note.Folder{
			{ID: 1, Name: "Root"},
			{ID: 2, Name: "Errands", Favorite: true, SubFolderNames: []string{"Weekly"}},
		},
		Tags: []note.Tag{{ID: 1, Name: "Errands"}},
	}

	if err := c.Save(data); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got := c.Load()
	if len(got.Notes) != 2 || len(got.Folders) != 2 || len(got.Tags) != 1 {
		t.Fatalf("unexpected counts: %d notes, %d folders, %d tags",
			len(got.Notes), len(got.Folders), len(got.Tags))
	}

	n := got.Notes[0]
	if n.Title != "Groceries" || n.Content != "milk, eggs" || !n.Favorite {
		t.Errorf("text note fields lost: %+v", n)
	}
	if !n.Mission || n.MissionContent != "buy everything" {
		t.Errorf("mission fields lost: %+v", n)
	}
	if !n.CreatedAt.Equal(createdAt) {
		t.Errorf("createdAt = %s, want %s", n.CreatedAt, createdAt)
	}
	if n.Alarm == nil {
		t.Fatal("alarm lost in round trip")
	}
	if !n.Alarm.Time.Equal(alarmAt) || !n.Alarm.Recurring || n.Alarm.Pattern != note.Weekly {
		t.Errorf("alarm fields lost: %+v", n.Alarm)
	}
	if len(n.Tags) != 1 || n.Tags[0].Name != "Errands" {
		t.Errorf("tags lost: %+v", n.Tags)
	}

	d := got.Notes[1]
	if d.Type != note.TypeDrawing || d.DrawingData != "base64blob" {
		t.Errorf("drawing note fields lost: %+v", d)
	}
	if d.Content != "" {
		t.Errorf("drawing note should carry no content, got %q", d.Content)
	}

	f := got.Folders[1]
	if f.Name != "Errands" || !f.Favorite || len(f.SubFolderNames) != 1 {
		t.Errorf("folder fields lost: %+v", f)
	}
}

func TestLoadMissingFile(t *testing.T) {
	c := New(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	d := c.Load()
	if len(d.Notes) != 0 || len(d.Folders) != 0 || len(d.Tags) != 0 {
		t.Errorf("missing file should load empty, got %+v", d)
	}
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.yaml")
	if err := os.WriteFile(path, []byte("{{{ not yaml at all"), 0644); err != nil {
		t.Fatal(err)
	}
	d := New(path).Load()
	if len(d.Notes) != 0 || len(d.Folders) != 0 || len(d.Tags) != 0 {
		t.Errorf("corrupt file should load empty, got %+v", d)
	}
}

func TestLoadUnknownRecurrenceDisablesIt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.yaml")
	raw := `
notes:
  - id: 1
    title: Reminder
    content: ""
    createdAt: "2025-03-15T08:00:00"
    updatedAt: "2025-03-15T08:00:00"
    noteType: TEXT
    alarm:
      id: 1
      alarmTime: "2025-03-16T09:30:00"
      recurring: true
      recurrencePattern: FORTNIGHTLY
`
	if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}

	d := New(path).Load()
	if len(d.Notes) != 1 {
		t.Fatalf("expected 1 note, got %d", len(d.Notes))
	}
	a := d.Notes[0].Alarm
	if a == nil {
		t.Fatal("alarm should survive an unknown pattern")
	}
	if a.Recurring {
		t.Error("unknown pattern should disable recurrence")
	}
}

func TestLoadUnreadableAlarmTimeDropsAlarm(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.yaml")
	raw := `
notes:
  - id: 1
    title: Reminder
    content: ""
    createdAt: "2025-03-15T08:00:00"
    updatedAt: "2025-03-15T08:00:00"
    noteType: TEXT
    alarm:
      id: 1
      alarmTime: "not a timestamp"
`
	if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}

	d := New(path).Load()
	if len(d.Notes) != 1 {
		t.Fatalf("expected 1 note, got %d", len(d.Notes))
	}
	if d.Notes[0].Alarm != nil {
		t.Error("an alarm with an unreadable time should be dropped")
	}
}

func TestLoadBlankTitleDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.yaml")
	raw := `
notes:
  - id: 1
    title: ""
    content: "orphaned"
    noteType: TEXT
`
	if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}
	d := New(path).Load()
	if d.Notes[0].Title != "Untitled Note" {
		t.Errorf("blank persisted title = %q, want Untitled Note", d.Notes[0].Title)
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "notes.yaml")
	c := New(path)
	if err := c.Save(&Data{}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("data file not created: %v", err)
	}
}
