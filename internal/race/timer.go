package race

import "time"

// TimerState expresses where a category timer is in its lifecycle.
type TimerState uint8

const (
	// TimerNotStarted means the category cannot receive finishes yet.
	TimerNotStarted TimerState = iota
	// TimerRunning means elapsed times are measured against the wall clock.
	TimerRunning
	// TimerStopped freezes elapsed times at the stop instant. A stopped
	// timer cannot be restarted.
	TimerStopped
)

// String returns the display name for the state.
func (s TimerState) String() string {
	switch s {
	case TimerRunning:
		return "running"
	case TimerStopped:
		return "stopped"
	default:
		return "not started"
	}
}

// Timer is one category's race clock. StartedAt and StoppedAt are each set
// exactly once, on their respective transitions, and never mutated after;
// readers may inspect them without holding the session lock once set.
type Timer struct {
	State     TimerState
	StartedAt time.Time
	StoppedAt time.Time
}

// Start transitions NotStarted -> Running and reports whether the transition
// happened. Starting a running or stopped timer is a no-op: restarting would
// silently corrupt elapsed times already recorded against StartedAt.
func (t *Timer) Start(now time.Time) bool {
	if t.State != TimerNotStarted {
		return false
	}
	t.State = TimerRunning
	t.StartedAt = now
	return true
}

// Stop transitions Running -> Stopped and reports whether the transition
// happened. Entries may still be recorded afterwards; their elapsed times are
// computed against the frozen start instant as usual.
func (t *Timer) Stop(now time.Time) bool {
	if t.State != TimerRunning {
		return false
	}
	t.State = TimerStopped
	t.StoppedAt = now
	return true
}

// Started reports whether the timer ever left NotStarted.
func (t *Timer) Started() bool {
	return t.State != TimerNotStarted
}

// ElapsedAt returns the elapsed race time for an event at the given instant.
func (t *Timer) ElapsedAt(at time.Time) (time.Duration, error) {
	if !t.Started() {
		return 0, ErrTimerNotStarted
	}
	d := at.Sub(t.StartedAt)
	if d < 0 {
		d = 0
	}
	return d, nil
}

// LiveElapsed returns what the display clock should show right now: time
// since start while running, the frozen stop-to-start span once stopped, and
// zero before the first start.
func (t *Timer) LiveElapsed(now time.Time) time.Duration {
	switch t.State {
	case TimerRunning:
		return now.Sub(t.StartedAt)
	case TimerStopped:
		return t.StoppedAt.Sub(t.StartedAt)
	default:
		return 0
	}
}
