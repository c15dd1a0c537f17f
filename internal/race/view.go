package race

import (
	"strings"
	"time"
)

// CategoryStatus is the read-only shape the live display polls: timer state,
// the clock to show, and finisher counts. Polling never mutates the session.
type CategoryStatus struct {
	Name     string
	State    TimerState
	Elapsed  time.Duration
	Finished int
	Total    int
}

// CategoryStatuses reports every category's status at the given instant, in
// load order.
func (s *Session) CategoryStatuses(now time.Time) []CategoryStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	finished := make(map[string]int, len(s.categories))
	for _, e := range s.ledger {
		if e.Status != StatusDNF {
			finished[strings.ToLower(e.Category)]++
		}
	}

	out := make([]CategoryStatus, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, CategoryStatus{
			Name:     c.Name,
			State:    c.Timer.State,
			Elapsed:  c.Timer.LiveElapsed(now),
			Finished: finished[strings.ToLower(c.Name)],
			Total:    len(c.Rows),
		})
	}
	return out
}
