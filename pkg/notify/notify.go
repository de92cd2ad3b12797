// Package notify delivers fired-alarm events to the user-facing
// collaborators: the application log always, and optionally Telegram and
// Discord push channels.
package notify

import (
	"fmt"
	"log"
	"strings"

	"github.com/liemthanh24/notekeeper/pkg/scheduler"
)

// Message renders the user-visible notification text for a fired alarm.
func Message(ev scheduler.Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, "⏰ %s\n", ev.NoteTitle)
	if ev.MissionContent != "" {
		b.WriteString("Mission: " + ev.MissionContent + "\n")
	}
	fmt.Fprintf(&b, "Alarm time: %s (%s)", ev.Alarm.Time.Format("15:04 02/01/2006"), ev.Alarm.Frequency())
	return b.String()
}

// LogNotifier writes fired alarms to the application log. It is the default
// delivery channel and always available.
type LogNotifier struct{}

// Ensure LogNotifier implements scheduler.Notifier
var _ scheduler.Notifier = LogNotifier{}

func (LogNotifier) Notify(ev scheduler.Event) {
	log.Printf("notify: %s", strings.ReplaceAll(Message(ev), "\n", " | "))
}

// Multi fans an event out to several notifiers, each on its own goroutine so
// a slow or hung channel never delays the others.
type Multi []scheduler.Notifier

// Ensure Multi implements scheduler.Notifier
var _ scheduler.Notifier = Multi{}

func (m Multi) Notify(ev scheduler.Event) {
	for _, n := range m {
		go n.Notify(ev)
	}
}
