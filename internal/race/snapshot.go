package race

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Snapshot is a consistent point-in-time copy of a session: the logical
// schema that must round-trip through persistence. The undo stack is
// deliberately absent. Gen identifies the mutation generation the snapshot
// was taken at so autosave can tell whether anything changed after it.
type Snapshot struct {
	Name       string             `json:"session_name"`
	CreatedAt  time.Time          `json:"created_at"`
	LastActive string             `json:"last_active,omitempty"`
	Categories []CategorySnapshot `json:"categories"`
	Entries    []Entry            `json:"entries"`

	// Undo carries the pending undo commands so "undo last" keeps working
	// after a resume. Commands hold ledger positions, not object handles,
	// so they survive the round trip. Older session files without the
	// field restore with an empty stack.
	Undo []UndoCommand `json:"undo,omitempty"`

	Gen uint64 `json:"-"`
}

// UndoCommand is the serialized form of one undo stack element.
type UndoCommand struct {
	Kind       string    `json:"kind"`
	Seq        int       `json:"seq"`
	Pos        int       `json:"pos,omitempty"`
	Entry      *Entry    `json:"entry,omitempty"`
	PrevTime   time.Time `json:"prev_time"`
	PrevStatus Status    `json:"prev_status"`
}

// CategorySnapshot is a category's serialized form.
type CategorySnapshot struct {
	Name     string        `json:"name"`
	IDColumn int           `json:"id_column"`
	Rows     []Row         `json:"rows"`
	Timer    TimerSnapshot `json:"timer"`
}

// TimerSnapshot is a timer's serialized form. Instants are pointers so a
// never-started timer round-trips as null rather than the zero time.
type TimerSnapshot struct {
	State     TimerState `json:"state"`
	StartedAt *time.Time `json:"started_at,omitempty"`
	StoppedAt *time.Time `json:"stopped_at,omitempty"`
}

// Snapshot deep-copies the session under its lock. The copy never observes a
// half-applied mutation and can be serialized or exported while recording
// continues against the live session.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Name:       s.name,
		CreatedAt:  s.createdAt,
		LastActive: s.lastActive,
		Entries:    append([]Entry(nil), s.ledger...),
		Gen:        s.gen,
	}
	for _, c := range s.undo {
		snap.Undo = append(snap.Undo, marshalCommand(c))
	}
	for _, c := range s.categories {
		cs := CategorySnapshot{
			Name:     c.Name,
			IDColumn: c.IDColumn,
			Rows:     make([]Row, len(c.Rows)),
			Timer:    TimerSnapshot{State: c.Timer.State},
		}
		for i, r := range c.Rows {
			cs.Rows[i] = Row{ID: r.ID, Fields: append([]string(nil), r.Fields...)}
		}
		if c.Timer.Started() {
			t := c.Timer.StartedAt
			cs.Timer.StartedAt = &t
		}
		if c.Timer.State == TimerStopped {
			t := c.Timer.StoppedAt
			cs.Timer.StoppedAt = &t
		}
		snap.Categories = append(snap.Categories, cs)
	}
	return snap
}

// MarkSaved clears the dirty flag if no mutation landed after the snapshot
// with the given generation was taken. A save that raced with new entries
// leaves the session dirty so the next autosave tick captures them.
func (s *Session) MarkSaved(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen == s.gen {
		s.dirty = false
	}
}

// Restore rebuilds a live session from a snapshot. Inconsistent snapshots
// (duplicate category names, entries referencing unknown categories or
// out-of-range roster rows, running timers without a start instant) fail
// with ErrCorruptSession and no partial session.
func Restore(snap Snapshot) (*Session, error) {
	s := &Session{
		name:       snap.Name,
		createdAt:  snap.CreatedAt,
		lastActive: snap.LastActive,
		nextSeq:    1,
	}
	if s.createdAt.IsZero() {
		s.createdAt = time.Now()
	}

	for _, cs := range snap.Categories {
		if strings.TrimSpace(cs.Name) == "" {
			return nil, fmt.Errorf("%w: category with empty name", ErrCorruptSession)
		}
		if s.lookup(cs.Name) != nil {
			return nil, fmt.Errorf("%w: duplicate category %q", ErrCorruptSession, cs.Name)
		}
		c := &Category{Name: cs.Name, IDColumn: cs.IDColumn}
		for _, r := range cs.Rows {
			c.Rows = append(c.Rows, Row{ID: r.ID, Fields: append([]string(nil), r.Fields...)})
		}
		switch cs.Timer.State {
		case TimerNotStarted:
		case TimerRunning:
			if cs.Timer.StartedAt == nil {
				return nil, fmt.Errorf("%w: running timer without start instant in %q", ErrCorruptSession, cs.Name)
			}
			c.Timer = Timer{State: TimerRunning, StartedAt: *cs.Timer.StartedAt}
		case TimerStopped:
			if cs.Timer.StartedAt == nil || cs.Timer.StoppedAt == nil {
				return nil, fmt.Errorf("%w: stopped timer missing instants in %q", ErrCorruptSession, cs.Name)
			}
			c.Timer = Timer{State: TimerStopped, StartedAt: *cs.Timer.StartedAt, StoppedAt: *cs.Timer.StoppedAt}
		default:
			return nil, fmt.Errorf("%w: invalid timer state in %q", ErrCorruptSession, cs.Name)
		}
		s.categories = append(s.categories, c)
	}

	seen := make(map[int]bool, len(snap.Entries))
	for _, e := range snap.Entries {
		c := s.lookup(e.Category)
		if c == nil {
			return nil, fmt.Errorf("%w: entry %d references unknown category %q", ErrCorruptSession, e.Seq, e.Category)
		}
		if e.RowIndex >= len(c.Rows) {
			return nil, fmt.Errorf("%w: entry %d references row %d of %q", ErrCorruptSession, e.Seq, e.RowIndex, e.Category)
		}
		if seen[e.Seq] {
			return nil, fmt.Errorf("%w: duplicate ledger position %d", ErrCorruptSession, e.Seq)
		}
		seen[e.Seq] = true
		if e.Seq >= s.nextSeq {
			s.nextSeq = e.Seq + 1
		}
		s.ledger = append(s.ledger, e)
	}

	for _, uc := range snap.Undo {
		c, ok := unmarshalCommand(uc)
		if !ok {
			return nil, fmt.Errorf("%w: unknown undo command %q", ErrCorruptSession, uc.Kind)
		}
		s.undo = append(s.undo, c)
	}

	return s, nil
}

var timerStateNames = map[TimerState]string{
	TimerNotStarted: "not_started",
	TimerRunning:    "running",
	TimerStopped:    "stopped",
}

// MarshalJSON serializes the state by name so snapshots stay readable and
// stable across releases.
func (s TimerState) MarshalJSON() ([]byte, error) {
	name, ok := timerStateNames[s]
	if !ok {
		return nil, fmt.Errorf("invalid timer state %d", s)
	}
	return json.Marshal(name)
}

// UnmarshalJSON parses a timer state name.
func (s *TimerState) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for state, n := range timerStateNames {
		if n == name {
			*s = state
			return nil
		}
	}
	return fmt.Errorf("unknown timer state %q", name)
}

var statusNames = map[Status]string{
	StatusNormal:     "normal",
	StatusUnresolved: "unresolved",
	StatusDNF:        "dnf",
	StatusEdited:     "edited",
}

// MarshalJSON serializes the status by name.
func (s Status) MarshalJSON() ([]byte, error) {
	name, ok := statusNames[s]
	if !ok {
		return nil, fmt.Errorf("invalid entry status %d", s)
	}
	return json.Marshal(name)
}

// UnmarshalJSON parses an entry status name.
func (s *Status) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for status, n := range statusNames {
		if n == name {
			*s = status
			return nil
		}
	}
	return fmt.Errorf("unknown entry status %q", name)
}
