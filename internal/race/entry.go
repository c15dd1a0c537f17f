package race

import (
	"fmt"
	"time"
)

// Status flags how an entry should be treated by display and export.
type Status uint8

const (
	// StatusNormal marks a cleanly resolved finish.
	StatusNormal Status = iota
	// StatusUnresolved marks an entry whose raw ID matched no roster. The
	// entry is recorded anyway; it surfaces on the invalid-IDs export.
	StatusUnresolved
	// StatusDNF marks a participant who did not finish. DNF entries sort
	// last in per-category results regardless of their instants.
	StatusDNF
	// StatusEdited marks an entry whose finish instant was corrected after
	// recording.
	StatusEdited
)

// String returns the display name for the status.
func (s Status) String() string {
	switch s {
	case StatusUnresolved:
		return "unresolved"
	case StatusDNF:
		return "DNF"
	case StatusEdited:
		return "edited"
	default:
		return "normal"
	}
}

// Entry is a single recorded finish. Seq is its ledger position, assigned
// monotonically at append time and defining "last" for undo and display.
// RowIndex points into the category's roster (-1 when the ID resolved to
// nothing); indices rather than pointers keep entries valid across
// serialization round-trips.
type Entry struct {
	ID         string    `json:"id"`
	Seq        int       `json:"seq"`
	Category   string    `json:"category"`
	RowIndex   int       `json:"row_index"`
	RawID      string    `json:"raw_id"`
	FinishedAt time.Time `json:"finished_at"`
	Status     Status    `json:"status"`
}

// Resolved reports whether the entry points at an actual roster row.
func (e Entry) Resolved() bool {
	return e.RowIndex >= 0
}

// FormatDuration renders an elapsed time as HH:MM:SS.mmm, the resolution the
// ledger guarantees. Negative durations clamp to zero.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Millisecond)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	d -= s * time.Second
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, d/time.Millisecond)
}

// FormatClock renders an elapsed time as HH:MM:SS for the live display.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}
