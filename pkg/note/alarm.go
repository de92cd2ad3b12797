package note

import (
	"fmt"
	"strings"
	"time"
)

// Recurrence is the calendar unit by which a recurring alarm advances.
type Recurrence int

const (
	Daily Recurrence = iota
	Weekly
	Monthly
	Yearly
)

// ParseRecurrence parses a persisted pattern string (case-insensitive).
func ParseRecurrence(s string) (Recurrence, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DAILY":
		return Daily, nil
	case "WEEKLY":
		return Weekly, nil
	case "MONTHLY":
		return Monthly, nil
	case "YEARLY":
		return Yearly, nil
	}
	return Daily, fmt.Errorf("unknown recurrence pattern %q", s)
}

func (r Recurrence) String() string {
	switch r {
	case Daily:
		return "DAILY"
	case Weekly:
		return "WEEKLY"
	case Monthly:
		return "MONTHLY"
	case Yearly:
		return "YEARLY"
	}
	return fmt.Sprintf("Recurrence(%d)", int(r))
}

// Next advances t by exactly one recurrence unit, preserving time-of-day.
func (r Recurrence) Next(t time.Time) time.Time {
	switch r {
	case Weekly:
		return t.AddDate(0, 0, 7)
	case Monthly:
		return t.AddDate(0, 1, 0)
	case Yearly:
		return t.AddDate(1, 0, 0)
	default:
		return t.AddDate(0, 0, 1)
	}
}

// AlarmState tracks an alarm between firing and the store-side clear.
type AlarmState int

const (
	// AlarmScheduled means the alarm is armed and may fire.
	AlarmScheduled AlarmState = iota
	// AlarmConsumed means a one-shot alarm already fired and is waiting for
	// the owning note's alarm to be cleared. A consumed alarm never fires
	// again.
	AlarmConsumed
)

// Alarm is a wall-clock alarm attached to a note. Time has minute
// resolution; Pattern is meaningful only while Recurring is set.
type Alarm struct {
	ID        int64
	Time      time.Time
	Recurring bool
	Pattern   Recurrence
	State     AlarmState
}

// NewOneShot creates an unsaved one-shot alarm.
func NewOneShot(at time.Time) *Alarm {
	return &Alarm{Time: at.Truncate(time.Minute)}
}

// NewRecurring creates an unsaved recurring alarm.
func NewRecurring(at time.Time, pattern Recurrence) *Alarm {
	return &Alarm{Time: at.Truncate(time.Minute), Recurring: true, Pattern: pattern}
}

// Due reports whether the alarm should fire at the given minute-truncated
// instant. Consumed alarms are never due.
func (a *Alarm) Due(now time.Time) bool {
	if a == nil || a.State != AlarmScheduled {
		return false
	}
	return !now.Before(a.Time)
}

// Advance returns a new alarm value for the next occurrence of a recurring
// alarm, keeping the id and pattern. The next time is computed from the
// current alarm time, not from the firing instant, so time-of-day is
// preserved even when a fire runs late.
func (a *Alarm) Advance() *Alarm {
	return &Alarm{
		ID:        a.ID,
		Time:      a.Pattern.Next(a.Time),
		Recurring: true,
		Pattern:   a.Pattern,
	}
}

// Frequency renders the recurrence for display: the pattern name, or "ONCE"
// for one-shot alarms.
func (a *Alarm) Frequency() string {
	if a.Recurring {
		return a.Pattern.String()
	}
	return "ONCE"
}

func (a *Alarm) String() string {
	return fmt.Sprintf("Alarm{id=%d time=%s freq=%s}", a.ID, a.Time.Format("2006-01-02 15:04"), a.Frequency())
}
