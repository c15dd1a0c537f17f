package cli

import (
	"testing"
	"time"

	"github.com/a-aigner/mtb-timetracking/internal/race"
)

func TestResolveInstantEmptyMeansNow(t *testing.T) {
	now := time.Date(2026, 5, 3, 10, 30, 0, 0, time.Local)

	got, err := resolveInstant("", now)
	if err != nil {
		t.Fatalf("resolveInstant: %v", err)
	}
	if !got.Equal(now) {
		t.Fatalf("resolveInstant(\"\") = %v, want %v", got, now)
	}
}

func TestResolveInstantAnchorsToToday(t *testing.T) {
	now := time.Date(2026, 5, 3, 10, 30, 0, 0, time.Local)

	got, err := resolveInstant("09:15:42", now)
	if err != nil {
		t.Fatalf("resolveInstant: %v", err)
	}
	want := time.Date(2026, 5, 3, 9, 15, 42, 0, time.Local)
	if !got.Equal(want) {
		t.Fatalf("resolveInstant(09:15:42) = %v, want %v", got, want)
	}
}

func TestResolveInstantMilliseconds(t *testing.T) {
	now := time.Date(2026, 5, 3, 10, 30, 0, 0, time.Local)

	got, err := resolveInstant("09:15:42.250", now)
	if err != nil {
		t.Fatalf("resolveInstant: %v", err)
	}
	if got.Nanosecond() != 250_000_000 {
		t.Fatalf("nanoseconds = %d, want 250ms", got.Nanosecond())
	}
}

func TestResolveInstantRejectsGarbage(t *testing.T) {
	if _, err := resolveInstant("9h15", time.Now()); err == nil {
		t.Fatal("resolveInstant(9h15) succeeded, want error")
	}
}

func TestParseSeq(t *testing.T) {
	if _, err := parseSeq("abc"); err == nil {
		t.Fatal("parseSeq(abc) succeeded, want error")
	}
	if _, err := parseSeq("-3"); err == nil {
		t.Fatal("parseSeq(-3) succeeded, want error")
	}
	seq, err := parseSeq("12")
	if err != nil || seq != 12 {
		t.Fatalf("parseSeq(12) = %d, %v", seq, err)
	}
}

func TestParticipantName(t *testing.T) {
	row := race.Row{ID: "101", Fields: []string{"101", "Alice", "Anders", "SV Neuhofen"}}
	if got := participantName(row); got != "Alice Anders" {
		t.Fatalf("participantName = %q, want %q", got, "Alice Anders")
	}

	bare := race.Row{ID: "7", Fields: []string{"7"}}
	if got := participantName(bare); got != "" {
		t.Fatalf("participantName(bare) = %q, want empty", got)
	}
}
