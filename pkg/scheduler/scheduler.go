// Package scheduler runs the periodic background check that fires due
// alarms. Each occurrence fires at most once: a short suppression window
// absorbs the tick granularity, one-shot alarms are consumed and cleared,
// and recurring alarms advance to their next occurrence.
package scheduler

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/liemthanh24/notekeeper/pkg/note"
	"github.com/liemthanh24/notekeeper/pkg/store"
)

const (
	// DefaultTick is the alarm check period.
	DefaultTick = time.Second
	// DefaultSuppression is how long a fired alarm id is ignored to avoid
	// duplicate notifications from overlapping ticks.
	DefaultSuppression = 5 * time.Second
	// DefaultStopGrace bounds how long Stop waits for the current tick.
	DefaultStopGrace = time.Second
)

// Event is the immutable snapshot delivered when an alarm fires.
type Event struct {
	NoteID         int64
	NoteTitle      string
	MissionContent string
	Alarm          note.Alarm
	FiredAt        time.Time
}

// Notifier delivers a fired-alarm event to the user-facing layer. Notify is
// invoked off the scheduler worker, so implementations may block on their
// own transport.
type Notifier interface {
	Notify(ev Event)
}

// Recorder persists firing telemetry. Failures are logged, never
// propagated.
type Recorder interface {
	RecordFiring(ev Event) error
}

// Scheduler is the background alarm checker.
type Scheduler struct {
	store    *store.Store
	notifier Notifier
	recorder Recorder

	tick        time.Duration
	suppression time.Duration
	stopGrace   time.Duration

	mu     sync.Mutex
	recent map[int64]time.Time

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New creates a scheduler. tick and suppression fall back to their defaults
// when non-positive; recorder may be nil.
func New(st *store.Store, notifier Notifier, recorder Recorder, tick, suppression time.Duration) *Scheduler {
	if tick <= 0 {
		tick = DefaultTick
	}
	if suppression <= 0 {
		suppression = DefaultSuppression
	}
	return &Scheduler{
		store:       st,
		notifier:    notifier,
		recorder:    recorder,
		tick:        tick,
		suppression: suppression,
		stopGrace:   DefaultStopGrace,
		recent:      make(map[int64]time.Time),
		stop:        make(chan struct{}),
	}
}

// Start begins the tick loop.
func (s *Scheduler) Start() {
	log.Printf("scheduler: starting alarm checker (%s interval)", s.tick)
	s.wg.Add(1)
	go s.loop()
}

// Stop asks the loop to finish its current tick and waits up to the grace
// period before giving up on it. Safe to call more than once.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		log.Printf("scheduler: stopped")
	case <-time.After(s.stopGrace):
		log.Printf("scheduler: tick did not finish within %s, abandoning it", s.stopGrace)
	}
}

func (s *Scheduler) loop() {
	defer s.wg.Done()
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	// Run one immediate check on startup.
	s.RunOnce(time.Now())

	for {
		select {
		case <-ticker.C:
			s.RunOnce(time.Now())
		case <-s.stop:
			return
		}
	}
}

// RunOnce performs a single tick at the given instant. Exposed so tests can
// drive the scheduler without waiting on the ticker.
func (s *Scheduler) RunOnce(at time.Time) {
	now := at.Truncate(time.Minute)

	notes, err := s.store.Notes()
	if err != nil {
		log.Printf("scheduler: failed to fetch notes, skipping tick: %v", err)
		return
	}

	s.pruneSuppressed(now)

	for _, n := range notes {
		if err := s.processNote(n, now); err != nil {
			log.Printf("scheduler: note %q (id %d): %v", n.Title, n.ID, err)
		}
	}
}

func (s *Scheduler) processNote(n *note.Note, now time.Time) error {
	if n.Alarm == nil {
		return nil
	}
	// A completed mission must never re-fire.
	if n.MissionCompleted {
		return nil
	}
	if s.suppressed(n.Alarm.ID) {
		return nil
	}
	if !n.Alarm.Due(now) {
		return nil
	}

	s.suppress(n.Alarm.ID, now)
	ev := Event{
		NoteID:         n.ID,
		NoteTitle:      n.Title,
		MissionContent: n.MissionContent,
		Alarm:          *n.Alarm,
		FiredAt:        now,
	}
	log.Printf("scheduler: firing alarm %d for note %q (alarm time %s)",
		ev.Alarm.ID, ev.NoteTitle, ev.Alarm.Time.Format("15:04 2006-01-02"))

	if s.recorder != nil {
		if err := s.recorder.RecordFiring(ev); err != nil {
			log.Printf("scheduler: failed to record firing of alarm %d: %v", ev.Alarm.ID, err)
		}
	}

	// User-visible delivery is delegated off the scheduler worker.
	if s.notifier != nil {
		go s.notifier.Notify(ev)
	}

	if !ev.Alarm.Recurring {
		// Mark consumed right away so a second tick inside the window
		// cannot re-fire, then request the durable clear.
		if err := s.store.ConsumeAlarm(n.ID); err != nil {
			return fmt.Errorf("consume alarm: %w", err)
		}
		go func(noteID, alarmID int64) {
			if err := s.store.ClearNoteAlarm(noteID); err != nil {
				log.Printf("scheduler: failed to clear fired alarm %d: %v", alarmID, err)
			}
		}(n.ID, ev.Alarm.ID)
		return nil
	}

	next := ev.Alarm.Advance()
	if err := s.store.SetNoteAlarm(n.ID, next); err != nil {
		return fmt.Errorf("advance recurring alarm: %w", err)
	}
	log.Printf("scheduler: recurring alarm %d on note %q advanced to %s",
		next.ID, ev.NoteTitle, next.Time.Format("2006-01-02 15:04"))
	return nil
}

// suppressed reports whether the alarm id fired within the suppression
// window. The map is the only state shared across contexts and is safe for
// concurrent insert, prune and lookup.
func (s *Scheduler) suppressed(alarmID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.recent[alarmID]
	return ok
}

func (s *Scheduler) suppress(alarmID int64, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recent[alarmID] = at
}

func (s *Scheduler) pruneSuppressed(now time.Time) {
	cutoff := now.Add(-s.suppression)
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, firedAt := range s.recent {
		if firedAt.Before(cutoff) {
			delete(s.recent, id)
		}
	}
}
