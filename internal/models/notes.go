package models

import (
	"fmt"
	"strings"
	"time"
)

// NoteEntry is one annotation on a payment's notes trail. The trail is
// persisted as concatenated text (one line per entry) so legacy report
// viewers keep seeing the same column, but callers build entries
// structurally and never concatenate by hand.
type NoteEntry struct {
	At      time.Time
	ActorID int64
	Text    string
}

func (n NoteEntry) render() string {
	return fmt.Sprintf("[%s] user#%d: %s", n.At.Format("2006-01-02 15:04:05"), n.ActorID, n.Text)
}

// AppendNote renders entry onto an existing notes trail.
func AppendNote(existing string, entry NoteEntry) string {
	line := entry.render()
	if strings.TrimSpace(existing) == "" {
		return line
	}
	return existing + "\n" + line
}
