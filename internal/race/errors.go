package race

import "errors"

// ErrDuplicateCategory is returned when a category name (compared
// case-insensitively) is already loaded into the session.
var ErrDuplicateCategory = errors.New("duplicate category name")

// ErrUnknownCategory indicates the caller referenced a category that is not
// part of the session.
var ErrUnknownCategory = errors.New("unknown category")

// ErrCategoryNotStarted is returned when an entry is forced onto a category
// whose timer never started.
var ErrCategoryNotStarted = errors.New("category timer not started")

// ErrTimerNotStarted is returned when an elapsed time is requested from a
// timer that never left the not-started state.
var ErrTimerNotStarted = errors.New("timer not started")

// ErrNothingToUndo indicates the undo stack is empty.
var ErrNothingToUndo = errors.New("nothing to undo")

// ErrNoSuchEntry indicates the caller referenced a ledger position that does
// not exist (or was deleted).
var ErrNoSuchEntry = errors.New("no such entry")

// ErrCorruptSession is returned when a persisted snapshot cannot be turned
// back into a consistent session.
var ErrCorruptSession = errors.New("corrupt session")
