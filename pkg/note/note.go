package note

import (
	"strings"
	"time"
)

// Type distinguishes text notes from drawing notes.
type Type string

const (
	TypeText    Type = "TEXT"
	TypeDrawing Type = "DRAWING"
)

// ParseType parses a persisted note type, defaulting to TEXT for
// unrecognised values so an edited data file never blocks a load.
func ParseType(s string) Type {
	if Type(strings.ToUpper(strings.TrimSpace(s))) == TypeDrawing {
		return TypeDrawing
	}
	return TypeText
}

// Note is a single note. ID 0 means the note has not been inserted into the
// store yet. Content is used by TEXT notes, DrawingData by DRAWING notes.
type Note struct {
	ID               int64
	Title            string
	Content          string
	DrawingData      string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	Favorite         bool
	Mission          bool
	MissionCompleted bool
	MissionContent   string
	FolderID         int64
	Tags             []Tag
	Alarm            *Alarm
	Type             Type
}

// NewText creates an unsaved text note.
func NewText(title, content string) *Note {
	now := time.Now()
	n := &Note{
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
		Type:      TypeText,
	}
	n.SetTitle(title)
	n.UpdatedAt = now
	return n
}

// NewDrawing creates an unsaved drawing note.
func NewDrawing(title string) *Note {
	now := time.Now()
	n := &Note{
		CreatedAt: now,
		UpdatedAt: now,
		Type:      TypeDrawing,
	}
	n.SetTitle(title)
	n.UpdatedAt = now
	return n
}

// SetTitle sets the title, substituting a default for blank input.
func (n *Note) SetTitle(title string) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = "Untitled Note"
	}
	n.Title = title
	n.Touch()
}

// SetContent replaces the text content.
func (n *Note) SetContent(content string) {
	n.Content = content
	n.Touch()
}

// SetDrawingData replaces the encoded drawing blob.
func (n *Note) SetDrawingData(data string) {
	n.DrawingData = data
	n.Touch()
}

// SetFavorite toggles the favorite flag.
func (n *Note) SetFavorite(fav bool) {
	n.Favorite = fav
	n.Touch()
}

// SetMissionContent replaces the mission text. A non-empty mission marks the
// note as a mission; clearing the text clears the flag and its completion.
func (n *Note) SetMissionContent(content string) {
	n.MissionContent = strings.TrimSpace(content)
	n.Mission = n.MissionContent != ""
	if !n.Mission {
		n.MissionCompleted = false
	}
	n.Touch()
}

// SetMissionCompleted marks the mission done or not done.
func (n *Note) SetMissionCompleted(done bool) {
	n.MissionCompleted = done
	n.Touch()
}

// HasTag reports whether the note carries a tag with the given id.
func (n *Note) HasTag(tagID int64) bool {
	for _, t := range n.Tags {
		if t.ID == tagID {
			return true
		}
	}
	return false
}

// AddTag appends a tag, preserving insertion order. Duplicate ids are
// ignored.
func (n *Note) AddTag(t Tag) {
	if n.HasTag(t.ID) {
		return
	}
	n.Tags = append(n.Tags, t)
	n.Touch()
}

// RemoveTag removes the tag with the given id, reporting whether the note
// carried it.
func (n *Note) RemoveTag(tagID int64) bool {
	for i, t := range n.Tags {
		if t.ID == tagID {
			n.Tags = append(n.Tags[:i], n.Tags[i+1:]...)
			n.Touch()
			return true
		}
	}
	return false
}

// WordCount counts whitespace-separated words in a text note. Drawing notes
// always report zero.
func (n *Note) WordCount() int {
	if n.Type == TypeDrawing {
		return 0
	}
	return len(strings.Fields(n.Content))
}

// Touch refreshes the modification timestamp.
func (n *Note) Touch() {
	n.UpdatedAt = time.Now()
}

// Clone returns a deep copy the caller can mutate without affecting the
// original.
func (n *Note) Clone() *Note {
	if n == nil {
		return nil
	}
	c := *n
	c.Tags = append([]Tag(nil), n.Tags...)
	if n.Alarm != nil {
		a := *n.Alarm
		c.Alarm = &a
	}
	return &c
}
