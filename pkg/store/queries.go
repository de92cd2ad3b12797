package store

import (
	"sort"
	"strings"

	"github.com/liemthanh24/notekeeper/pkg/note"
)

// Read-only projections over the store's current state. Every query runs on
// the store goroutine and returns deep snapshots; callers can never reach
// store-owned objects.

// Notes returns all notes in insertion order.
func (s *Store) Notes() ([]*note.Note, error) {
	var out []*note.Note
	err := s.do(func() error {
		out = cloneNotes(s.notes)
		return nil
	})
	return out, err
}

// Note returns one note by id, or nil if absent.
func (s *Store) Note(id int64) (*note.Note, error) {
	var out *note.Note
	err := s.do(func() error {
		out = s.findNote(id).Clone()
		return nil
	})
	return out, err
}

// NotesInFolder returns the member notes of a folder. An unknown folder id
// yields an empty list.
func (s *Store) NotesInFolder(folderID int64) ([]*note.Note, error) {
	var out []*note.Note
	err := s.do(func() error {
		f := s.findFolder(folderID)
		if f == nil {
			return nil
		}
		for _, id := range f.NoteIDs {
			if n := s.findNote(id); n != nil {
				out = append(out, n.Clone())
			}
		}
		return nil
	})
	return out, err
}

// SortedNotes returns all notes ordered favorites-first, then most recently
// updated first.
func (s *Store) SortedNotes() ([]*note.Note, error) {
	out, err := s.Notes()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Favorite != out[j].Favorite {
			return out[i].Favorite
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

// SearchNotes filters notes whose title, content or any tag name contains
// the query, case-insensitively. An empty query returns all sorted notes.
func (s *Store) SearchNotes(query string) ([]*note.Note, error) {
	notes, err := s.SortedNotes()
	if err != nil {
		return nil, err
	}
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return notes, nil
	}
	out := notes[:0]
	for _, n := range notes {
		if noteMatches(n, query) {
			out = append(out, n)
		}
	}
	return out, nil
}

func noteMatches(n *note.Note, lowerQuery string) bool {
	if strings.Contains(strings.ToLower(n.Title), lowerQuery) {
		return true
	}
	if strings.Contains(strings.ToLower(n.Content), lowerQuery) {
		return true
	}
	for _, t := range n.Tags {
		if strings.Contains(strings.ToLower(t.Name), lowerQuery) {
			return true
		}
	}
	return false
}

// NotesByTag returns the notes carrying the given tag id, sorted like
// SortedNotes.
func (s *Store) NotesByTag(tagID int64) ([]*note.Note, error) {
	notes, err := s.SortedNotes()
	if err != nil {
		return nil, err
	}
	out := notes[:0]
	for _, n := range notes {
		if n.HasTag(tagID) {
			out = append(out, n)
		}
	}
	return out, nil
}

// Missions returns the notes with non-empty mission content, incomplete
// missions first, then most recently updated first.
func (s *Store) Missions() ([]*note.Note, error) {
	var out []*note.Note
	err := s.do(func() error {
		for _, n := range s.notes {
			if n.Mission && n.MissionContent != "" {
				out = append(out, n.Clone())
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].MissionCompleted != out[j].MissionCompleted {
			return !out[i].MissionCompleted
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

// Folders returns all folders, Root first.
func (s *Store) Folders() ([]*note.Folder, error) {
	var out []*note.Folder
	err := s.do(func() error {
		for _, f := range s.folders {
			out = append(out, f.Clone())
		}
		return nil
	})
	return out, err
}

// SortedFolders returns Root first, then the remaining folders
// favorites-first and alphabetically (case-insensitive).
func (s *Store) SortedFolders() ([]*note.Folder, error) {
	out, err := s.Folders()
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}
	rest := out[1:]
	sort.SliceStable(rest, func(i, j int) bool {
		if rest[i].Favorite != rest[j].Favorite {
			return rest[i].Favorite
		}
		return strings.ToLower(rest[i].Name) < strings.ToLower(rest[j].Name)
	})
	return out, nil
}

// RootFolder returns a snapshot of the Root folder.
func (s *Store) RootFolder() (*note.Folder, error) {
	var out *note.Folder
	err := s.do(func() error {
		out = s.root().Clone()
		return nil
	})
	return out, err
}

// Folder returns a folder by id, or nil if absent.
func (s *Store) Folder(id int64) (*note.Folder, error) {
	var out *note.Folder
	err := s.do(func() error {
		out = s.findFolder(id).Clone()
		return nil
	})
	return out, err
}

// FolderByName returns a folder by case-insensitive name, or nil.
func (s *Store) FolderByName(name string) (*note.Folder, error) {
	var out *note.Folder
	err := s.do(func() error {
		out = s.findFolderByName(name).Clone()
		return nil
	})
	return out, err
}

// Tags returns all tags.
func (s *Store) Tags() ([]note.Tag, error) {
	var out []note.Tag
	err := s.do(func() error {
		out = append([]note.Tag(nil), s.tags...)
		return nil
	})
	return out, err
}

// TagByName returns the tag matching the name case-insensitively.
func (s *Store) TagByName(name string) (note.Tag, bool, error) {
	var out note.Tag
	found := false
	err := s.do(func() error {
		name := strings.TrimSpace(name)
		for _, t := range s.tags {
			if strings.EqualFold(t.Name, name) {
				out = t
				found = true
				return nil
			}
		}
		return nil
	})
	return out, found, err
}

func cloneNotes(in []*note.Note) []*note.Note {
	out := make([]*note.Note, 0, len(in))
	for _, n := range in {
		out = append(out, n.Clone())
	}
	return out
}
