package note

import (
	"testing"
	"time"
)

func TestSetTitleDefaultsWhenBlank(t *testing.T) {
	n := NewText("", "content")
	if n.Title != "Untitled Note" {
		t.Errorf("blank title = %q, want Untitled Note", n.Title)
	}
	n.SetTitle("   ")
	if n.Title != "Untitled Note" {
		t.Errorf("whitespace title = %q, want Untitled Note", n.Title)
	}
	n.SetTitle("  Groceries  ")
	if n.Title != "Groceries" {
		t.Errorf("title not trimmed: %q", n.Title)
	}
}

func TestSetMissionContentTogglesMission(t *testing.T) {
	n := NewText("Plan", "")
	if n.Mission {
		t.Fatal("new note should not be a mission")
	}

	n.SetMissionContent("finish the report")
	if !n.Mission {
		t.Error("non-empty mission content should mark the note a mission")
	}

	n.SetMissionCompleted(true)
	n.SetMissionContent("")
	if n.Mission {
		t.Error("clearing mission content should clear the mission flag")
	}
	if n.MissionCompleted {
		t.Error("clearing mission content should clear completion")
	}
}

func TestTagAddRemove(t *testing.T) {
	n := NewText("Tagged", "")
	work := Tag{ID: 1, Name: "Work"}
	home := Tag{ID: 2, Name: "Home"}

	n.AddTag(work)
	n.AddTag(home)
	n.AddTag(work)
	if len(n.Tags) != 2 {
		t.Fatalf("expected 2 tags after duplicate add, got %d", len(n.Tags))
	}
	if !n.HasTag(1) || !n.HasTag(2) {
		t.Error("HasTag should report both tags")
	}

	if !n.RemoveTag(1) {
		t.Error("RemoveTag should report removal of a carried tag")
	}
	if n.RemoveTag(1) {
		t.Error("RemoveTag should report false for an absent tag")
	}
	if len(n.Tags) != 1 || n.Tags[0].ID != 2 {
		t.Errorf("unexpected tags after removal: %+v", n.Tags)
	}
}

func TestWordCount(t *testing.T) {
	n := NewText("Counted", "  one two\tthree\nfour  ")
	if got := n.WordCount(); got != 4 {
		t.Errorf("WordCount = %d, want 4", got)
	}

	d := NewDrawing("Sketch")
	d.Content = "should not count"
	if got := d.WordCount(); got != 0 {
		t.Errorf("drawing WordCount = %d, want 0", got)
	}
}

func TestCloneIsDeep(t *testing.T) {
	n := NewText("Original", "body")
	n.ID = 1
	n.Tags = []Tag{{ID: 1, Name: "Work"}}
	n.Alarm = NewOneShot(time.Date(2025, 3, 15, 9, 30, 0, 0, time.Local))
	n.Alarm.ID = 3

	c := n.Clone()
	c.Title = "Changed"
	c.Tags[0].Name = "Play"
	c.Alarm.ID = 99

	if n.Title != "Original" {
		t.Error("clone shares the title")
	}
	if n.Tags[0].Name != "Work" {
		t.Error("clone shares the tag slice")
	}
	if n.Alarm.ID != 3 {
		t.Error("clone shares the alarm")
	}

	var nilNote *Note
	if nilNote.Clone() != nil {
		t.Error("nil Clone should return nil")
	}
}

func TestNewTagRejectsEmpty(t *testing.T) {
	if _, err := NewTag("   "); err == nil {
		t.Error("expected error for blank tag name")
	}
	tag, err := NewTag("  Ideas  ")
	if err != nil {
		t.Fatalf("NewTag returned error: %v", err)
	}
	if tag.Name != "Ideas" {
		t.Errorf("tag name not trimmed: %q", tag.Name)
	}
}

func TestFolderMembership(t *testing.T) {
	f, err := NewFolder("Projects")
	if err != nil {
		t.Fatalf("NewFolder returned error: %v", err)
	}

	f.AddNote(1)
	f.AddNote(2)
	f.AddNote(1)
	if len(f.NoteIDs) != 2 {
		t.Fatalf("expected 2 note ids after duplicate add, got %d", len(f.NoteIDs))
	}
	f.RemoveNote(1)
	if f.HasNote(1) || !f.HasNote(2) {
		t.Errorf("unexpected membership after removal: %v", f.NoteIDs)
	}

	if _, err := NewFolder("  "); err == nil {
		t.Error("expected error for blank folder name")
	}
}

func TestFolderSubFolders(t *testing.T) {
	f, _ := NewFolder("Parent")
	f.AddSubFolder("Child")
	f.AddSubFolder("child")
	if len(f.SubFolderNames) != 1 {
		t.Fatalf("expected case-insensitive sub-folder dedup, got %v", f.SubFolderNames)
	}
	if err := f.AddSubFolder("Parent"); err == nil {
		t.Error("a folder must not be its own sub-folder")
	}
	f.RemoveSubFolder("CHILD")
	if f.HasSubFolder("Child") {
		t.Error("sub-folder should be removed case-insensitively")
	}
}
