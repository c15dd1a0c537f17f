package race

import (
	"errors"
	"testing"
	"time"
)

func TestTimerTransitions(t *testing.T) {
	var tm Timer
	t0 := time.Date(2025, time.June, 14, 9, 0, 0, 0, time.UTC)

	if tm.Started() {
		t.Fatal("fresh timer reports started")
	}
	if !tm.Start(t0) {
		t.Fatal("Start on fresh timer returned false")
	}
	if tm.State != TimerRunning || !tm.StartedAt.Equal(t0) {
		t.Fatalf("after start: state=%v startedAt=%v", tm.State, tm.StartedAt)
	}

	// Restarting a running timer must not move the start instant.
	if tm.Start(t0.Add(time.Minute)) {
		t.Fatal("Start on running timer returned true")
	}
	if !tm.StartedAt.Equal(t0) {
		t.Fatalf("start instant moved to %v", tm.StartedAt)
	}

	t1 := t0.Add(30 * time.Minute)
	if !tm.Stop(t1) {
		t.Fatal("Stop on running timer returned false")
	}
	if tm.Stop(t1.Add(time.Minute)) {
		t.Fatal("Stop on stopped timer returned true")
	}
	if tm.Start(t1.Add(time.Minute)) {
		t.Fatal("stopped timer restarted")
	}
	if tm.State != TimerStopped || !tm.StoppedAt.Equal(t1) {
		t.Fatalf("after stop: state=%v stoppedAt=%v", tm.State, tm.StoppedAt)
	}
}

func TestTimerElapsedAt(t *testing.T) {
	var tm Timer
	if _, err := tm.ElapsedAt(time.Now()); !errors.Is(err, ErrTimerNotStarted) {
		t.Fatalf("ElapsedAt on fresh timer: %v, want ErrTimerNotStarted", err)
	}

	t0 := time.Date(2025, time.June, 14, 9, 0, 0, 0, time.UTC)
	tm.Start(t0)

	at := t0.Add(5*time.Minute + 32*time.Second + 410*time.Millisecond)
	got, err := tm.ElapsedAt(at)
	if err != nil {
		t.Fatalf("ElapsedAt: %v", err)
	}
	want := 5*time.Minute + 32*time.Second + 410*time.Millisecond
	if got != want {
		t.Fatalf("elapsed = %v, want %v", got, want)
	}

	// Stopping later must not change elapsed times already derivable.
	tm.Stop(t0.Add(time.Hour))
	got, err = tm.ElapsedAt(at)
	if err != nil {
		t.Fatalf("ElapsedAt after stop: %v", err)
	}
	if got != want {
		t.Fatalf("elapsed after stop = %v, want %v", got, want)
	}
}

func TestTimerLiveElapsed(t *testing.T) {
	var tm Timer
	t0 := time.Date(2025, time.June, 14, 9, 0, 0, 0, time.UTC)

	if got := tm.LiveElapsed(t0); got != 0 {
		t.Fatalf("LiveElapsed before start = %v", got)
	}

	tm.Start(t0)
	if got := tm.LiveElapsed(t0.Add(90 * time.Second)); got != 90*time.Second {
		t.Fatalf("LiveElapsed running = %v", got)
	}

	tm.Stop(t0.Add(10 * time.Minute))
	// Frozen at the stop instant no matter how much later we poll.
	if got := tm.LiveElapsed(t0.Add(time.Hour)); got != 10*time.Minute {
		t.Fatalf("LiveElapsed stopped = %v", got)
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{0, "00:00:00.000"},
		{5*time.Minute + 32*time.Second + 410*time.Millisecond, "00:05:32.410"},
		{2*time.Hour + 3*time.Minute + 4*time.Second, "02:03:04.000"},
		{-time.Second, "00:00:00.000"},
	}
	for _, tc := range cases {
		if got := FormatDuration(tc.in); got != tc.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
	if got := FormatClock(time.Hour + 90*time.Second); got != "01:01:30" {
		t.Errorf("FormatClock = %q", got)
	}
}
