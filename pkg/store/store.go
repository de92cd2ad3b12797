// Package store is the single authoritative in-memory holder of notes,
// folders, tags and alarms. All structural mutation passes through it, and
// every successful mutation triggers a synchronous whole-file save.
//
// The store is safe for use from concurrent contexts (the UI layer and the
// alarm scheduler): every operation, reads included, runs as a closure on
// one dedicated goroutine consuming a command channel, so mutations are
// strictly serialized and reads only ever return deep snapshots.
package store

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/liemthanh24/notekeeper/pkg/codec"
	"github.com/liemthanh24/notekeeper/pkg/note"
)

// ErrClosed is returned by every operation after Close.
var ErrClosed = errors.New("store is closed")

type command struct {
	fn    func() error
	reply chan error
}

// Store owns the entity graph.
type Store struct {
	codec *codec.Codec

	notes   []*note.Note
	folders []*note.Folder
	tags    []note.Tag

	nextNoteID   int64
	nextFolderID int64
	nextTagID    int64
	nextAlarmID  int64

	cmds chan command
	stop chan struct{}
	wg   sync.WaitGroup
}

// Open loads the data file, runs the id-sanitation, Root-folder and relink
// startup passes, forces a save if any of them changed the data, and starts
// the command loop.
func Open(c *codec.Codec) *Store {
	s := &Store{
		codec:        c,
		nextNoteID:   1,
		nextFolderID: 1,
		nextTagID:    1,
		nextAlarmID:  1,
		cmds:         make(chan command),
		stop:         make(chan struct{}),
	}

	data := c.Load()
	s.notes = data.Notes
	s.folders = data.Folders
	s.tags = data.Tags

	modified := s.sanitizeIDs()
	modified = s.ensureRootFolder() || modified
	s.relink()
	if modified {
		// Sanitized ids must be durable before the scheduler or UI sees
		// them.
		s.save()
	}
	log.Printf("store: loaded %d notes, %d folders, %d tags from %s",
		len(s.notes), len(s.folders), len(s.tags), c.Path())

	s.wg.Add(1)
	go s.run()
	return s
}

// Close stops the command loop. Pending callers receive ErrClosed.
func (s *Store) Close() {
	close(s.stop)
	s.wg.Wait()
}

func (s *Store) run() {
	defer s.wg.Done()
	for {
		select {
		case cmd := <-s.cmds:
			cmd.reply <- cmd.fn()
		case <-s.stop:
			return
		}
	}
}

// do executes fn on the store goroutine and waits for its result.
func (s *Store) do(fn func() error) error {
	reply := make(chan error, 1)
	select {
	case s.cmds <- command{fn: fn, reply: reply}:
		return <-reply
	case <-s.stop:
		return ErrClosed
	}
}

// --- startup passes (run before the command loop starts) ---

// sanitizeIDs seeds the four id counters to max(loaded)+1 and assigns fresh
// ids to any loaded entity still carrying id 0. Reports whether anything
// changed.
func (s *Store) sanitizeIDs() bool {
	for _, n := range s.notes {
		if n.ID >= s.nextNoteID {
			s.nextNoteID = n.ID + 1
		}
		if n.Alarm != nil && n.Alarm.ID >= s.nextAlarmID {
			s.nextAlarmID = n.Alarm.ID + 1
		}
	}
	for _, f := range s.folders {
		if f.ID >= s.nextFolderID {
			s.nextFolderID = f.ID + 1
		}
	}
	for _, t := range s.tags {
		if t.ID >= s.nextTagID {
			s.nextTagID = t.ID + 1
		}
	}

	modified := false
	for _, f := range s.folders {
		if f.ID == 0 {
			f.ID = s.newFolderID()
			log.Printf("store: folder %q had no id, assigned %d", f.Name, f.ID)
			modified = true
		}
	}
	for i := range s.tags {
		if s.tags[i].ID == 0 {
			s.tags[i].ID = s.newTagID()
			log.Printf("store: tag %q had no id, assigned %d", s.tags[i].Name, s.tags[i].ID)
			modified = true
		}
	}
	for _, n := range s.notes {
		if n.ID == 0 {
			n.ID = s.newNoteID()
			log.Printf("store: note %q had no id, assigned %d", n.Title, n.ID)
			modified = true
		}
		if n.Alarm != nil && n.Alarm.ID == 0 {
			n.Alarm.ID = s.newAlarmID()
			log.Printf("store: alarm on note %q had no id, assigned %d", n.Title, n.Alarm.ID)
			modified = true
		}
	}
	return modified
}

// ensureRootFolder guarantees exactly one folder named "Root" exists, with a
// non-zero id, at index 0 of the folder list.
func (s *Store) ensureRootFolder() bool {
	var root *note.Folder
	idx := -1
	for i, f := range s.folders {
		if f.IsRoot() {
			root = f
			idx = i
			break
		}
	}
	modified := false
	if root == nil {
		root = &note.Folder{ID: s.newFolderID(), Name: note.RootFolderName}
		s.folders = append([]*note.Folder{root}, s.folders...)
		log.Printf("store: created Root folder with id %d", root.ID)
		return true
	}
	if root.ID == 0 {
		root.ID = s.newFolderID()
		modified = true
	}
	if idx != 0 {
		s.folders = append(s.folders[:idx], s.folders[idx+1:]...)
		s.folders = append([]*note.Folder{root}, s.folders...)
	}
	return modified
}

// relink resolves the bare id/name stubs loaded from persistence into live
// store-owned references: note→folder membership, note tag lists, and
// folder sub-folder names. Unresolvable references fall back to a safe
// default and are logged.
func (s *Store) relink() {
	root := s.root()

	for _, f := range s.folders {
		f.NoteIDs = nil
	}

	for _, n := range s.notes {
		folder := s.findFolder(n.FolderID)
		if folder == nil {
			if n.FolderID != 0 {
				log.Printf("store: note %q references missing folder %d, moving to Root", n.Title, n.FolderID)
			}
			folder = root
		}
		n.FolderID = folder.ID
		folder.AddNote(n.ID)

		resolved := make([]note.Tag, 0, len(n.Tags))
		for _, stub := range n.Tags {
			t, ok := s.resolveTagStub(stub)
			if !ok {
				log.Printf("store: note %q references unknown tag %q (id %d), dropping", n.Title, stub.Name, stub.ID)
				continue
			}
			dup := false
			for _, r := range resolved {
				if r.ID == t.ID {
					dup = true
					break
				}
			}
			if !dup {
				resolved = append(resolved, t)
			}
		}
		n.Tags = resolved
	}

	for _, f := range s.folders {
		kept := f.SubFolderNames[:0]
		for _, name := range f.SubFolderNames {
			sub := s.findFolderByName(name)
			switch {
			case sub == nil:
				log.Printf("store: folder %q references missing sub-folder %q, dropping", f.Name, name)
			case sub.ID == f.ID:
				log.Printf("store: folder %q cannot be its own sub-folder, dropping", f.Name)
			default:
				kept = append(kept, name)
			}
		}
		f.SubFolderNames = kept
	}
}

func (s *Store) resolveTagStub(stub note.Tag) (note.Tag, bool) {
	if stub.ID != 0 {
		for _, t := range s.tags {
			if t.ID == stub.ID {
				return t, true
			}
		}
	}
	if stub.Name != "" {
		for _, t := range s.tags {
			if strings.EqualFold(t.Name, stub.Name) {
				return t, true
			}
		}
	}
	return note.Tag{}, false
}

// --- id generation (store goroutine or startup only) ---

func (s *Store) newNoteID() int64   { id := s.nextNoteID; s.nextNoteID++; return id }
func (s *Store) newFolderID() int64 { id := s.nextFolderID; s.nextFolderID++; return id }
func (s *Store) newTagID() int64    { id := s.nextTagID; s.nextTagID++; return id }
func (s *Store) newAlarmID() int64  { id := s.nextAlarmID; s.nextAlarmID++; return id }

// --- lookups (store goroutine only) ---

func (s *Store) findNote(id int64) *note.Note {
	if id == 0 {
		return nil
	}
	for _, n := range s.notes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

func (s *Store) findFolder(id int64) *note.Folder {
	if id == 0 {
		return nil
	}
	for _, f := range s.folders {
		if f.ID == id {
			return f
		}
	}
	return nil
}

func (s *Store) findFolderByName(name string) *note.Folder {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	for _, f := range s.folders {
		if strings.EqualFold(f.Name, name) {
			return f
		}
	}
	return nil
}

// root returns the Root folder. The startup passes guarantee it exists at
// index 0.
func (s *Store) root() *note.Folder {
	if len(s.folders) > 0 && s.folders[0].IsRoot() {
		return s.folders[0]
	}
	// Re-establish the invariant rather than crash; this only happens if a
	// bug removed Root.
	log.Printf("store: Root folder invariant broken, re-creating")
	s.ensureRootFolder()
	return s.folders[0]
}

// save writes the whole graph. I/O failures degrade gracefully: logged,
// never propagated to the mutating caller.
func (s *Store) save() {
	if err := s.codec.Save(&codec.Data{Notes: s.notes, Folders: s.folders, Tags: s.tags}); err != nil {
		log.Printf("store: failed to persist data: %v", err)
	}
}

// --- note operations ---

// CreateNote inserts a note, assigning ids, resolving its tag and folder
// references to store-owned entities, and registering it in its folder.
// Returns a snapshot of the stored note.
func (s *Store) CreateNote(n *note.Note) (*note.Note, error) {
	if n == nil {
		return nil, fmt.Errorf("note cannot be nil")
	}
	var out *note.Note
	err := s.do(func() error {
		stored := n.Clone()
		if stored.ID == 0 {
			stored.ID = s.newNoteID()
		} else if s.findNote(stored.ID) != nil {
			if err := s.updateExisting(stored); err != nil {
				return err
			}
			out = stored.Clone()
			return nil
		}
		if err := s.resolveNoteRefs(stored); err != nil {
			return err
		}
		s.notes = append(s.notes, stored)
		s.folderOf(stored).AddNote(stored.ID)
		s.save()
		out = stored.Clone()
		return nil
	})
	return out, err
}

// UpdateNote replaces the stored note with the same id. An unknown id is a
// recoverable anomaly: the note is appended rather than dropped.
func (s *Store) UpdateNote(n *note.Note) (*note.Note, error) {
	if n == nil || n.ID == 0 {
		return nil, fmt.Errorf("note to update must not be nil and must have a valid id")
	}
	var out *note.Note
	err := s.do(func() error {
		stored := n.Clone()
		if err := s.updateExisting(stored); err != nil {
			return err
		}
		out = stored.Clone()
		return nil
	})
	return out, err
}

// updateExisting runs on the store goroutine.
func (s *Store) updateExisting(stored *note.Note) error {
	if err := s.resolveNoteRefs(stored); err != nil {
		return err
	}
	newFolder := s.folderOf(stored)

	idx := -1
	for i, existing := range s.notes {
		if existing.ID == stored.ID {
			idx = i
			break
		}
	}
	if idx == -1 {
		log.Printf("store: update for unknown note id %d, appending as new", stored.ID)
		s.notes = append(s.notes, stored)
	} else {
		old := s.notes[idx]
		if old.FolderID != stored.FolderID {
			if oldFolder := s.findFolder(old.FolderID); oldFolder != nil {
				oldFolder.RemoveNote(old.ID)
			}
		}
		s.notes[idx] = stored
	}
	newFolder.AddNote(stored.ID)
	s.save()
	return nil
}

// resolveNoteRefs applies the shared create/update resolution rules: a new
// alarm id when needed, store-owned tags, and a valid folder (falling back
// to Root when the referenced folder is gone).
func (s *Store) resolveNoteRefs(n *note.Note) error {
	if n.Alarm != nil && n.Alarm.ID == 0 {
		n.Alarm.ID = s.newAlarmID()
	}

	resolved := make([]note.Tag, 0, len(n.Tags))
	for _, t := range n.Tags {
		owned, err := s.ensureTag(t.Name)
		if err != nil {
			return err
		}
		dup := false
		for _, r := range resolved {
			if r.ID == owned.ID {
				dup = true
				break
			}
		}
		if !dup {
			resolved = append(resolved, owned)
		}
	}
	n.Tags = resolved

	if n.FolderID == 0 {
		n.FolderID = s.root().ID
	} else if s.findFolder(n.FolderID) == nil {
		log.Printf("store: folder %d for note %q not found, assigning to Root", n.FolderID, n.Title)
		n.FolderID = s.root().ID
	}
	return nil
}

func (s *Store) folderOf(n *note.Note) *note.Folder {
	if f := s.findFolder(n.FolderID); f != nil {
		return f
	}
	return s.root()
}

// DeleteNote removes a note from the store and from its folder's membership
// list. A missing id is a logged no-op.
func (s *Store) DeleteNote(id int64) error {
	return s.do(func() error {
		n := s.findNote(id)
		if n == nil {
			log.Printf("store: note %d not found for deletion", id)
			return nil
		}
		s.removeNote(n)
		s.save()
		return nil
	})
}

// removeNote runs on the store goroutine and does not save.
func (s *Store) removeNote(n *note.Note) {
	if f := s.findFolder(n.FolderID); f != nil {
		f.RemoveNote(n.ID)
	}
	for i, candidate := range s.notes {
		if candidate.ID == n.ID {
			s.notes = append(s.notes[:i], s.notes[i+1:]...)
			return
		}
	}
}

// MoveNoteToFolder re-parents a note. Moving to the current folder is a
// no-op.
func (s *Store) MoveNoteToFolder(noteID, folderID int64) error {
	if noteID == 0 || folderID == 0 {
		return fmt.Errorf("note and folder ids must be valid")
	}
	return s.do(func() error {
		n := s.findNote(noteID)
		if n == nil {
			return fmt.Errorf("note %d not found", noteID)
		}
		target := s.findFolder(folderID)
		if target == nil {
			return fmt.Errorf("folder %d not found", folderID)
		}
		if n.FolderID == target.ID {
			return nil
		}
		if old := s.findFolder(n.FolderID); old != nil {
			old.RemoveNote(n.ID)
		}
		n.FolderID = target.ID
		n.Touch()
		target.AddNote(n.ID)
		s.save()
		return nil
	})
}

// --- alarm operations ---

// SetNoteAlarm attaches an alarm to a note (assigning an alarm id when
// needed) or replaces the existing one.
func (s *Store) SetNoteAlarm(noteID int64, a *note.Alarm) error {
	if a == nil {
		return fmt.Errorf("alarm cannot be nil, use ClearNoteAlarm")
	}
	return s.do(func() error {
		n := s.findNote(noteID)
		if n == nil {
			return fmt.Errorf("note %d not found", noteID)
		}
		set := *a
		if set.ID == 0 {
			set.ID = s.newAlarmID()
		}
		n.Alarm = &set
		n.Touch()
		s.save()
		return nil
	})
}

// ClearNoteAlarm removes the note's alarm and persists.
func (s *Store) ClearNoteAlarm(noteID int64) error {
	return s.do(func() error {
		n := s.findNote(noteID)
		if n == nil {
			return fmt.Errorf("note %d not found", noteID)
		}
		n.Alarm = nil
		n.Touch()
		s.save()
		return nil
	})
}

// ConsumeAlarm marks a fired one-shot alarm as consumed so it cannot fire
// again before the follow-up clear lands. In-memory only: no save.
func (s *Store) ConsumeAlarm(noteID int64) error {
	return s.do(func() error {
		n := s.findNote(noteID)
		if n == nil || n.Alarm == nil {
			return nil
		}
		n.Alarm.State = note.AlarmConsumed
		return nil
	})
}

// --- folder operations ---

// CreateFolder inserts a folder, assigning an id. Creation is idempotent by
// name: an existing folder with the same name (case-insensitive) is
// returned unchanged.
func (s *Store) CreateFolder(f *note.Folder) (*note.Folder, error) {
	if f == nil {
		return nil, fmt.Errorf("folder cannot be nil")
	}
	if strings.TrimSpace(f.Name) == "" {
		return nil, fmt.Errorf("folder name cannot be empty")
	}
	var out *note.Folder
	err := s.do(func() error {
		if existing := s.findFolderByName(f.Name); existing != nil {
			out = existing.Clone()
			return nil
		}
		stored := f.Clone()
		if stored.ID == 0 {
			stored.ID = s.newFolderID()
		}
		stored.NoteIDs = nil
		s.folders = append(s.folders, stored)
		s.save()
		out = stored.Clone()
		return nil
	})
	return out, err
}

// UpdateFolder replaces a stored folder. Renaming any folder to "Root", or
// the Root folder away from "Root", or onto another folder's name, is
// rejected.
func (s *Store) UpdateFolder(f *note.Folder) error {
	if f == nil || f.ID == 0 {
		return fmt.Errorf("folder to update must not be nil and must have a valid id")
	}
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("folder name cannot be empty")
	}
	return s.do(func() error {
		root := s.root()
		if strings.EqualFold(f.Name, note.RootFolderName) && f.ID != root.ID {
			return fmt.Errorf("cannot rename another folder to %q", note.RootFolderName)
		}
		if f.ID == root.ID && !strings.EqualFold(f.Name, note.RootFolderName) {
			return fmt.Errorf("the Root folder cannot be renamed")
		}
		idx := -1
		for i, existing := range s.folders {
			if existing.ID == f.ID {
				idx = i
				break
			}
		}
		if idx == -1 {
			return fmt.Errorf("folder %d not found for update", f.ID)
		}
		for _, other := range s.folders {
			if other.ID != f.ID && strings.EqualFold(other.Name, f.Name) {
				return fmt.Errorf("another folder named %q already exists", f.Name)
			}
		}
		stored := f.Clone()
		// Re-apply the sub-folder rules to the caller's list so an edit can
		// never persist a folder nested inside itself.
		names := stored.SubFolderNames
		stored.SubFolderNames = nil
		for _, name := range names {
			if err := stored.AddSubFolder(name); err != nil {
				return err
			}
		}
		// Membership is store-maintained, never taken from the caller.
		stored.NoteIDs = append([]int64(nil), s.folders[idx].NoteIDs...)
		s.folders[idx] = stored
		s.save()
		return nil
	})
}

// DeleteFolder removes a non-Root folder. The affected note set is computed
// first, then applied: with moveNotesToRoot every member note is re-parented
// to Root, otherwise every member note is deleted outright.
func (s *Store) DeleteFolder(id int64, moveNotesToRoot bool) error {
	return s.do(func() error {
		f := s.findFolder(id)
		if f == nil {
			log.Printf("store: folder %d not found for deletion", id)
			return nil
		}
		if f.IsRoot() {
			return fmt.Errorf("cannot delete the Root folder")
		}

		// Phase 1: snapshot the affected notes.
		affected := make([]*note.Note, 0, len(f.NoteIDs))
		for _, noteID := range f.NoteIDs {
			if n := s.findNote(noteID); n != nil {
				affected = append(affected, n)
			}
		}

		// Phase 2: apply.
		root := s.root()
		for _, n := range affected {
			if moveNotesToRoot {
				f.RemoveNote(n.ID)
				n.FolderID = root.ID
				n.Touch()
				root.AddNote(n.ID)
			} else {
				s.removeNote(n)
			}
		}

		for i, candidate := range s.folders {
			if candidate.ID == id {
				s.folders = append(s.folders[:i], s.folders[i+1:]...)
				break
			}
		}
		for _, other := range s.folders {
			other.RemoveSubFolder(f.Name)
		}
		s.save()
		return nil
	})
}

// --- tag operations ---

// GetOrCreateTag resolves a tag name case-insensitively, creating and
// persisting a new tag when no match exists.
func (s *Store) GetOrCreateTag(name string) (note.Tag, error) {
	var out note.Tag
	err := s.do(func() error {
		t, err := s.ensureTag(name)
		if err != nil {
			return err
		}
		out = t
		return nil
	})
	return out, err
}

// ensureTag runs on the store goroutine.
func (s *Store) ensureTag(name string) (note.Tag, error) {
	t, err := note.NewTag(name)
	if err != nil {
		return note.Tag{}, err
	}
	for _, existing := range s.tags {
		if strings.EqualFold(existing.Name, t.Name) {
			return existing, nil
		}
	}
	t.ID = s.newTagID()
	s.tags = append(s.tags, t)
	s.save()
	return t, nil
}

// UpdateTag renames a tag, rejecting case-insensitive collisions, and
// propagates the new name into every note that carries it.
func (s *Store) UpdateTag(t note.Tag) error {
	if t.ID == 0 {
		return fmt.Errorf("tag to update must have a valid id")
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("tag name cannot be empty")
	}
	return s.do(func() error {
		idx := -1
		for i, existing := range s.tags {
			if existing.ID == t.ID {
				idx = i
				break
			}
		}
		if idx == -1 {
			return fmt.Errorf("tag %d not found for update", t.ID)
		}
		for _, other := range s.tags {
			if other.ID != t.ID && strings.EqualFold(other.Name, t.Name) {
				return fmt.Errorf("another tag named %q already exists", t.Name)
			}
		}
		s.tags[idx].Name = strings.TrimSpace(t.Name)
		for _, n := range s.notes {
			for i := range n.Tags {
				if n.Tags[i].ID == t.ID {
					n.Tags[i].Name = s.tags[idx].Name
				}
			}
		}
		s.save()
		return nil
	})
}

// DeleteTag removes a tag from every note that references it, then from the
// global list. A missing id is a logged no-op.
func (s *Store) DeleteTag(id int64) error {
	return s.do(func() error {
		idx := -1
		for i, existing := range s.tags {
			if existing.ID == id {
				idx = i
				break
			}
		}
		if idx == -1 {
			log.Printf("store: tag %d not found for deletion", id)
			return nil
		}
		for _, n := range s.notes {
			n.RemoveTag(id)
		}
		s.tags = append(s.tags[:idx], s.tags[idx+1:]...)
		s.save()
		return nil
	})
}

// AddTagToNote attaches a tag by name, resolving through GetOrCreateTag.
func (s *Store) AddTagToNote(noteID int64, tagName string) error {
	return s.do(func() error {
		n := s.findNote(noteID)
		if n == nil {
			return fmt.Errorf("note %d not found", noteID)
		}
		t, err := s.ensureTag(tagName)
		if err != nil {
			return err
		}
		if n.HasTag(t.ID) {
			return nil
		}
		n.AddTag(t)
		s.save()
		return nil
	})
}

// RemoveTagFromNote detaches a tag from one note; the tag itself survives.
func (s *Store) RemoveTagFromNote(noteID, tagID int64) error {
	return s.do(func() error {
		n := s.findNote(noteID)
		if n == nil {
			return fmt.Errorf("note %d not found", noteID)
		}
		if n.RemoveTag(tagID) {
			s.save()
		}
		return nil
	})
}
