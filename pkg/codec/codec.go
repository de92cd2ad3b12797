// Package codec serializes the full entity graph to a single YAML document
// and loads it back. Writes are synchronous and whole-file; the store calls
// Save after every successful mutation. A missing, empty or malformed file
// is treated as "no prior data" so the application never fails to start
// because of a corrupt data file.
package codec

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/liemthanh24/notekeeper/pkg/note"
)

// TimeLayout is the persisted date-time format: local time, second
// resolution, no zone. The application assumes a single local timezone.
const TimeLayout = "2006-01-02T15:04:05"

// Data is the loaded or to-be-saved entity graph. Alarms are embedded in
// their notes; tag and folder references inside notes are bare stubs until
// the store's relink pass resolves them.
type Data struct {
	Notes   []*note.Note
	Folders []*note.Folder
	Tags    []note.Tag
}

// Codec reads and writes one data file.
type Codec struct {
	path string
}

// New creates a codec for the given file path.
func New(path string) *Codec {
	return &Codec{path: path}
}

// Path returns the data file path.
func (c *Codec) Path() string {
	return c.path
}

type document struct {
	Notes   []noteRecord   `yaml:"notes"`
	Folders []folderRecord `yaml:"folders"`
	Tags    []tagRecord    `yaml:"tags"`
}

type noteRecord struct {
	ID               int64        `yaml:"id"`
	Title            string       `yaml:"title"`
	Content          *string      `yaml:"content,omitempty"`
	DrawingData      *string      `yaml:"drawingData,omitempty"`
	CreatedAt        string       `yaml:"createdAt"`
	UpdatedAt        string       `yaml:"updatedAt"`
	IsFavorite       bool         `yaml:"isFavorite"`
	IsMission        bool         `yaml:"isMission"`
	IsMissionDone    bool         `yaml:"isMissionCompleted"`
	MissionContent   string       `yaml:"missionContent"`
	FolderID         int64        `yaml:"folderId"`
	Tags             []tagRecord  `yaml:"tags,omitempty"`
	Alarm            *alarmRecord `yaml:"alarm,omitempty"`
	NoteType         string       `yaml:"noteType"`
}

type folderRecord struct {
	ID             int64    `yaml:"id"`
	Name           string   `yaml:"name"`
	IsFavorite     bool     `yaml:"isFavorite"`
	SubFolderNames []string `yaml:"subFolderNames,omitempty"`
}

type tagRecord struct {
	ID   int64  `yaml:"id"`
	Name string `yaml:"name"`
}

type alarmRecord struct {
	ID                int64  `yaml:"id"`
	AlarmTime         string `yaml:"alarmTime"`
	Recurring         bool   `yaml:"recurring"`
	RecurrencePattern string `yaml:"recurrencePattern,omitempty"`
}

// Save writes the whole graph to the data file.
func (c *Codec) Save(d *Data) error {
	doc := document{
		Notes:   make([]noteRecord, 0, len(d.Notes)),
		Folders: make([]folderRecord, 0, len(d.Folders)),
		Tags:    make([]tagRecord, 0, len(d.Tags)),
	}
	for _, n := range d.Notes {
		doc.Notes = append(doc.Notes, encodeNote(n))
	}
	for _, f := range d.Folders {
		doc.Folders = append(doc.Folders, folderRecord{
			ID:             f.ID,
			Name:           f.Name,
			IsFavorite:     f.Favorite,
			SubFolderNames: f.SubFolderNames,
		})
	}
	for _, t := range d.Tags {
		doc.Tags = append(doc.Tags, tagRecord{ID: t.ID, Name: t.Name})
	}

	out, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("failed to marshal data file: %w", err)
	}
	if dir := filepath.Dir(c.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
	}
	if err := os.WriteFile(c.path, out, 0644); err != nil {
		return fmt.Errorf("failed to write data file: %w", err)
	}
	return nil
}

// Load reads the data file. I/O and syntax failures are logged and yield an
// empty graph rather than an error; the store starts fresh.
func (c *Codec) Load() *Data {
	d := &Data{}
	raw, err := os.ReadFile(c.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("codec: failed to read %s, starting empty: %v", c.path, err)
		}
		return d
	}
	if len(raw) == 0 {
		return d
	}

	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		log.Printf("codec: %s is not a valid data file, starting empty: %v", c.path, err)
		return d
	}

	for _, rec := range doc.Notes {
		d.Notes = append(d.Notes, decodeNote(rec))
	}
	for _, rec := range doc.Folders {
		name := rec.Name
		if name == "" {
			name = "Unnamed Folder"
		}
		d.Folders = append(d.Folders, &note.Folder{
			ID:             rec.ID,
			Name:           name,
			Favorite:       rec.IsFavorite,
			SubFolderNames: rec.SubFolderNames,
		})
	}
	for _, rec := range doc.Tags {
		name := rec.Name
		if name == "" {
			name = "Unnamed Tag"
		}
		d.Tags = append(d.Tags, note.Tag{ID: rec.ID, Name: name})
	}
	return d
}

func encodeNote(n *note.Note) noteRecord {
	rec := noteRecord{
		ID:             n.ID,
		Title:          n.Title,
		CreatedAt:      n.CreatedAt.Format(TimeLayout),
		UpdatedAt:      n.UpdatedAt.Format(TimeLayout),
		IsFavorite:     n.Favorite,
		IsMission:      n.Mission,
		IsMissionDone:  n.MissionCompleted,
		MissionContent: n.MissionContent,
		FolderID:       n.FolderID,
		NoteType:       string(n.Type),
	}
	switch n.Type {
	case note.TypeDrawing:
		data := n.DrawingData
		rec.DrawingData = &data
	default:
		content := n.Content
		rec.Content = &content
	}
	for _, t := range n.Tags {
		rec.Tags = append(rec.Tags, tagRecord{ID: t.ID, Name: t.Name})
	}
	if n.Alarm != nil {
		a := alarmRecord{
			ID:        n.Alarm.ID,
			AlarmTime: n.Alarm.Time.Format(TimeLayout),
			Recurring: n.Alarm.Recurring,
		}
		if n.Alarm.Recurring {
			a.RecurrencePattern = n.Alarm.Pattern.String()
		}
		rec.Alarm = &a
	}
	return rec
}

func decodeNote(rec noteRecord) *note.Note {
	n := &note.Note{
		ID:               rec.ID,
		Title:            rec.Title,
		Favorite:         rec.IsFavorite,
		Mission:          rec.IsMission,
		MissionCompleted: rec.IsMissionDone,
		MissionContent:   rec.MissionContent,
		FolderID:         rec.FolderID,
		Type:             note.ParseType(rec.NoteType),
	}
	if n.Title == "" {
		n.Title = "Untitled Note"
	}

	n.CreatedAt = parseTime(rec.CreatedAt, time.Now())
	n.UpdatedAt = parseTime(rec.UpdatedAt, n.CreatedAt)

	switch n.Type {
	case note.TypeDrawing:
		if rec.DrawingData != nil {
			n.DrawingData = *rec.DrawingData
		}
	default:
		if rec.Content != nil {
			n.Content = *rec.Content
		}
	}

	for _, t := range rec.Tags {
		n.Tags = append(n.Tags, note.Tag{ID: t.ID, Name: t.Name})
	}

	if rec.Alarm != nil {
		n.Alarm = decodeAlarm(rec.Alarm, n.Title)
	}
	return n
}

func decodeAlarm(rec *alarmRecord, noteTitle string) *note.Alarm {
	at, err := time.ParseInLocation(TimeLayout, rec.AlarmTime, time.Local)
	if err != nil {
		log.Printf("codec: note %q has an unreadable alarm time %q, dropping alarm", noteTitle, rec.AlarmTime)
		return nil
	}
	a := &note.Alarm{ID: rec.ID, Time: at.Truncate(time.Minute)}
	if rec.Recurring {
		pattern, err := note.ParseRecurrence(rec.RecurrencePattern)
		if err != nil {
			// A recurring alarm with a bad pattern cannot be advanced;
			// loading it as one-shot means it fires at most once instead of
			// every tick.
			log.Printf("codec: note %q: %v, disabling recurrence", noteTitle, err)
			return a
		}
		a.Recurring = true
		a.Pattern = pattern
	}
	return a
}

func parseTime(s string, fallback time.Time) time.Time {
	if s == "" {
		return fallback
	}
	t, err := time.ParseInLocation(TimeLayout, s, time.Local)
	if err != nil {
		log.Printf("codec: unreadable timestamp %q, using fallback", s)
		return fallback
	}
	return t
}
