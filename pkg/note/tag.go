package note

import (
	"fmt"
	"strings"
)

// Tag is a label shared across notes. Names are unique case-insensitively
// store-wide; two notes tagged "Work" and "work" reference the same tag id.
type Tag struct {
	ID   int64
	Name string
}

// NewTag creates an unsaved tag with a trimmed name.
func NewTag(name string) (Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Tag{}, fmt.Errorf("tag name cannot be empty")
	}
	return Tag{Name: name}, nil
}

func (t Tag) String() string {
	return fmt.Sprintf("Tag{id=%d name=%q}", t.ID, t.Name)
}
