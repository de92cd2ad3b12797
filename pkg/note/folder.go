package note

import (
	"fmt"
	"strings"
)

// RootFolderName is the reserved name of the single permanent folder that is
// the default home for notes.
const RootFolderName = "Root"

// Folder groups notes. The note id membership list is maintained by the
// store and not serialized; SubFolderNames is the authoritative sub-folder
// relation.
type Folder struct {
	ID             int64
	Name           string
	Favorite       bool
	SubFolderNames []string
	NoteIDs        []int64
}

// NewFolder creates an unsaved folder.
func NewFolder(name string) (*Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("folder name cannot be empty")
	}
	return &Folder{Name: name}, nil
}

// IsRoot reports whether this is the reserved Root folder.
func (f *Folder) IsRoot() bool {
	return strings.EqualFold(f.Name, RootFolderName)
}

// HasNote reports whether the note id is in the membership list.
func (f *Folder) HasNote(noteID int64) bool {
	for _, id := range f.NoteIDs {
		if id == noteID {
			return true
		}
	}
	return false
}

// AddNote registers a note id in the membership list.
func (f *Folder) AddNote(noteID int64) {
	if f.HasNote(noteID) {
		return
	}
	f.NoteIDs = append(f.NoteIDs, noteID)
}

// RemoveNote drops a note id from the membership list.
func (f *Folder) RemoveNote(noteID int64) {
	for i, id := range f.NoteIDs {
		if id == noteID {
			f.NoteIDs = append(f.NoteIDs[:i], f.NoteIDs[i+1:]...)
			return
		}
	}
}

// HasSubFolder reports whether the named folder is a sub-folder
// (case-insensitive).
func (f *Folder) HasSubFolder(name string) bool {
	for _, n := range f.SubFolderNames {
		if strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}

// AddSubFolder records a sub-folder by name. A folder cannot be its own
// sub-folder.
func (f *Folder) AddSubFolder(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("sub-folder name cannot be empty")
	}
	if strings.EqualFold(name, f.Name) {
		return fmt.Errorf("folder %q cannot be its own sub-folder", f.Name)
	}
	if !f.HasSubFolder(name) {
		f.SubFolderNames = append(f.SubFolderNames, name)
	}
	return nil
}

// RemoveSubFolder drops a sub-folder reference by name (case-insensitive).
func (f *Folder) RemoveSubFolder(name string) {
	for i, n := range f.SubFolderNames {
		if strings.EqualFold(n, name) {
			f.SubFolderNames = append(f.SubFolderNames[:i], f.SubFolderNames[i+1:]...)
			return
		}
	}
}

// Clone returns a deep copy.
func (f *Folder) Clone() *Folder {
	if f == nil {
		return nil
	}
	c := *f
	c.SubFolderNames = append([]string(nil), f.SubFolderNames...)
	c.NoteIDs = append([]int64(nil), f.NoteIDs...)
	return &c
}
