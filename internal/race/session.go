package race

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is the single owner of all race-day state: the category registry,
// the timer bank, the entry ledger, and the undo stack. Every mutation is
// serialized behind one mutex; reads hand out copies, never internal slices.
type Session struct {
	mu sync.Mutex

	name       string
	createdAt  time.Time
	categories []*Category
	ledger     []Entry
	nextSeq    int
	undo       []command

	// lastActive is the category that most recently started or received an
	// entry; unresolved IDs without a hint land here.
	lastActive string

	// autoResolve enables the deterministic lowest-elapsed tie-break for
	// ambiguous IDs instead of bouncing them back to the caller.
	autoResolve bool

	dirty bool
	gen   uint64
}

// New creates an empty session.
func New(name string) *Session {
	return &Session{
		name:      name,
		createdAt: time.Now(),
		nextSeq:   1,
	}
}

// Name returns the session name.
func (s *Session) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name
}

// SetName renames the session.
func (s *Session) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
	s.markDirty()
}

// CreatedAt returns the session creation timestamp.
func (s *Session) CreatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createdAt
}

// SetAutoResolve toggles automatic disambiguation of ambiguous IDs.
func (s *Session) SetAutoResolve(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.autoResolve = enabled
}

// Dirty reports whether the session has unsaved mutations.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

func (s *Session) markDirty() {
	s.dirty = true
	s.gen++
}

// AddCategory installs a new category from imported roster rows. Names are
// compared case-insensitively; a second category with the same name is
// rejected, never merged, and existing state is untouched.
func (s *Session) AddCategory(name string, rows [][]string, idColumn int) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrUnknownCategory)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lookup(name) != nil {
		return fmt.Errorf("%w: %q", ErrDuplicateCategory, name)
	}
	s.categories = append(s.categories, NewCategory(name, rows, idColumn))
	s.markDirty()
	return nil
}

// lookup finds a category by case-insensitive name. Callers hold the lock.
func (s *Session) lookup(name string) *Category {
	for _, c := range s.categories {
		if strings.EqualFold(c.Name, name) {
			return c
		}
	}
	return nil
}

// CategoryNames returns category names in load order.
func (s *Session) CategoryNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, len(s.categories))
	for i, c := range s.categories {
		names[i] = c.Name
	}
	return names
}

// FindParticipant resolves a raw ID within one category's roster.
func (s *Session) FindParticipant(category, rawID string) (Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.lookup(category)
	if c == nil {
		return Row{}, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	idx := c.Find(rawID)
	if idx < 0 {
		return Row{}, fmt.Errorf("%w: id %q in %q", ErrNoSuchEntry, rawID, category)
	}
	row := c.Rows[idx]
	row.Fields = append([]string(nil), row.Fields...)
	return row, nil
}

// StartTimer starts a category's clock. Starting an already running or
// stopped timer is a warned no-op; started reports whether the transition
// actually happened.
func (s *Session) StartTimer(category string, now time.Time) (started bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.lookup(category)
	if c == nil {
		return false, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	if !c.Timer.Start(now) {
		slog.Warn("timer start ignored", "category", c.Name, "state", c.Timer.State.String())
		return false, nil
	}
	s.lastActive = c.Name
	s.markDirty()
	return true, nil
}

// StopTimer stops a category's clock. Stopping a timer that is not running
// is a warned no-op.
func (s *Session) StopTimer(category string, now time.Time) (stopped bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.lookup(category)
	if c == nil {
		return false, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	if !c.Timer.Stop(now) {
		slog.Warn("timer stop ignored", "category", c.Name, "state", c.Timer.State.String())
		return false, nil
	}
	s.markDirty()
	return true, nil
}

// TimerElapsed returns the elapsed race time in the category at the given
// instant.
func (s *Session) TimerElapsed(category string, at time.Time) (time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.lookup(category)
	if c == nil {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	return c.Timer.ElapsedAt(at)
}

// Resolve maps a raw typed ID to a category without recording anything.
func (s *Session) Resolve(rawID string) Resolution {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolve(rawID)
}

// Record resolves the raw ID and appends a ledger entry at the given finish
// instant. A resolved ID records normally; an unknown ID still records, with
// StatusUnresolved, against the most recently active started category. An
// ambiguous ID records only when auto-resolution is enabled; otherwise no
// entry is appended and the returned Resolution carries the candidates for
// the caller to disambiguate via RecordIn.
//
// Recording fails only when no category timer has ever started.
func (s *Session) Record(rawID string, at time.Time) (Entry, Resolution, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := s.resolve(rawID)
	switch res.Kind {
	case Resolved:
		e := s.append(res.Category, res.RowIndex, rawID, at, StatusNormal)
		return e, res, nil

	case Ambiguous:
		if !s.autoResolve {
			return Entry{}, res, nil
		}
		pick := s.lowestElapsed(res.Candidates, at)
		c := s.lookup(pick)
		slog.Info("ambiguous id auto-resolved",
			"id", rawID, "picked", pick, "candidates", res.Candidates)
		e := s.append(pick, c.Find(rawID), rawID, at, StatusNormal)
		return e, res, nil

	default:
		target := s.fallbackCategory()
		if target == nil {
			return Entry{}, res, ErrCategoryNotStarted
		}
		slog.Warn("id not found in any roster, recording anyway",
			"id", rawID, "category", target.Name)
		e := s.append(target.Name, -1, rawID, at, StatusUnresolved)
		return e, res, nil
	}
}

// RecordIn appends an entry against an explicitly chosen category, used after
// the caller disambiguated an ambiguous ID or supplied a category hint. The
// category's timer must have started.
func (s *Session) RecordIn(category, rawID string, at time.Time) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.lookup(category)
	if c == nil {
		return Entry{}, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	if !c.Timer.Started() {
		return Entry{}, fmt.Errorf("%w: %q", ErrCategoryNotStarted, c.Name)
	}

	status := StatusNormal
	idx := c.Find(rawID)
	if idx < 0 {
		status = StatusUnresolved
	}
	return s.append(c.Name, idx, rawID, at, status), nil
}

// append assumes the lock is held and the category exists.
func (s *Session) append(category string, rowIndex int, rawID string, at time.Time, status Status) Entry {
	e := Entry{
		ID:         uuid.NewString(),
		Seq:        s.nextSeq,
		Category:   category,
		RowIndex:   rowIndex,
		RawID:      strings.TrimSpace(rawID),
		FinishedAt: at,
		Status:     status,
	}
	s.nextSeq++
	s.ledger = append(s.ledger, e)
	s.lastActive = category
	s.pushUndo(command{kind: cmdRemove, seq: e.Seq})
	s.markDirty()
	return e
}

// fallbackCategory picks where unresolved IDs land: the most recently active
// category if its timer started, else the first started category in load
// order.
func (s *Session) fallbackCategory() *Category {
	if c := s.lookup(s.lastActive); c != nil && c.Timer.Started() {
		return c
	}
	for _, c := range s.categories {
		if c.Timer.Started() {
			return c
		}
	}
	return nil
}

// lowestElapsed returns the candidate whose timer shows the least elapsed
// time at the instant; ties keep the earliest loaded candidate, so the pick
// is deterministic.
func (s *Session) lowestElapsed(candidates []string, at time.Time) string {
	best := candidates[0]
	bestElapsed := time.Duration(-1)
	for _, name := range candidates {
		c := s.lookup(name)
		if c == nil {
			continue
		}
		elapsed, err := c.Timer.ElapsedAt(at)
		if err != nil {
			continue
		}
		if bestElapsed < 0 || elapsed < bestElapsed {
			best = name
			bestElapsed = elapsed
		}
	}
	return best
}

// ledgerPos returns the index of the entry with the given sequence, or -1.
func (s *Session) ledgerPos(seq int) int {
	for i := range s.ledger {
		if s.ledger[i].Seq == seq {
			return i
		}
	}
	return -1
}

// EditTime corrects an entry's finish instant. The previous instant and
// status are preserved on the undo stack; a normal entry becomes Edited,
// while unresolved and DNF entries keep their flag so exports still surface
// them.
func (s *Session) EditTime(seq int, newAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos := s.ledgerPos(seq)
	if pos < 0 {
		return fmt.Errorf("%w: seq %d", ErrNoSuchEntry, seq)
	}
	e := &s.ledger[pos]
	s.pushUndo(command{kind: cmdRestoreTime, seq: seq, prevTime: e.FinishedAt, prevStatus: e.Status})
	e.FinishedAt = newAt
	if e.Status == StatusNormal {
		e.Status = StatusEdited
	}
	s.markDirty()
	return nil
}

// Delete removes an entry from the ledger. Undo re-inserts it at its old
// position with all fields intact.
func (s *Session) Delete(seq int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos := s.ledgerPos(seq)
	if pos < 0 {
		return fmt.Errorf("%w: seq %d", ErrNoSuchEntry, seq)
	}
	s.pushUndo(command{kind: cmdReinsert, seq: seq, pos: pos, entry: s.ledger[pos]})
	s.ledger = append(s.ledger[:pos], s.ledger[pos+1:]...)
	s.markDirty()
	return nil
}

// MarkDNF flags an entry as did-not-finish. Marking an entry that is already
// DNF changes nothing and pushes nothing.
func (s *Session) MarkDNF(seq int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos := s.ledgerPos(seq)
	if pos < 0 {
		return fmt.Errorf("%w: seq %d", ErrNoSuchEntry, seq)
	}
	e := &s.ledger[pos]
	if e.Status == StatusDNF {
		return nil
	}
	s.pushUndo(command{kind: cmdRestoreStatus, seq: seq, prevStatus: e.Status})
	e.Status = StatusDNF
	s.markDirty()
	return nil
}

// Undo reverses the most recent mutation. An empty stack fails with
// ErrNothingToUndo and leaves the session untouched.
func (s *Session) Undo() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.applyUndo(); err != nil {
		return err
	}
	s.markDirty()
	return nil
}

// UndoDepth reports how many mutations can currently be undone.
func (s *Session) UndoDepth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.undo)
}

// Elapsed computes an entry's race time from its category's start instant.
// It is derived on every read so a corrected timer is reflected everywhere.
func (s *Session) Elapsed(e Entry) (time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.lookup(e.Category)
	if c == nil {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, e.Category)
	}
	return c.Timer.ElapsedAt(e.FinishedAt)
}

// RecentEntries returns up to n entries, newest first.
func (s *Session) RecentEntries(n int) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n > len(s.ledger) {
		n = len(s.ledger)
	}
	out := make([]Entry, 0, n)
	for i := len(s.ledger) - 1; i >= len(s.ledger)-n; i-- {
		out = append(out, s.ledger[i])
	}
	return out
}

// AllEntries returns the full ledger in append order.
func (s *Session) AllEntries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Entry(nil), s.ledger...)
}

// EntriesForCategory returns one category's entries sorted by finish instant
// ascending, DNF entries last regardless of instant. This is the export
// order.
func (s *Session) EntriesForCategory(category string) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Entry
	for _, e := range s.ledger {
		if strings.EqualFold(e.Category, category) {
			out = append(out, e)
		}
	}
	SortForResults(out)
	return out
}

// SortForResults orders entries the way results are published: finish
// instant ascending, DNF entries last regardless of instant.
func SortForResults(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		di, dj := entries[i].Status == StatusDNF, entries[j].Status == StatusDNF
		if di != dj {
			return dj
		}
		return entries[i].FinishedAt.Before(entries[j].FinishedAt)
	})
}

// FinishedCount returns how many non-DNF entries a category has.
func (s *Session) FinishedCount(category string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, e := range s.ledger {
		if strings.EqualFold(e.Category, category) && e.Status != StatusDNF {
			n++
		}
	}
	return n
}
