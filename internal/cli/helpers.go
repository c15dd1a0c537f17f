package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/a-aigner/mtb-timetracking/internal/race"
	"github.com/a-aigner/mtb-timetracking/internal/store"
)

// currentSession loads the most recently saved session for a one-shot
// command.
func currentSession(st *store.Store) (*race.Session, error) {
	path, err := st.Latest()
	if err != nil {
		if errors.Is(err, store.ErrNoSession) {
			return nil, fmt.Errorf("%w; run \"mtbtimer load\" first", store.ErrNoSession)
		}
		return nil, err
	}
	return st.Load(path)
}

// persist writes the session back to its slot and clears the dirty flag.
func persist(st *store.Store, sess *race.Session) error {
	snap := sess.Snapshot()
	if _, err := st.Save(snap); err != nil {
		return err
	}
	sess.MarkSaved(snap.Gen)
	return nil
}

// resolveInstant parses an optional HH:MM:SS[.mmm] flag anchored to today;
// empty means now.
func resolveInstant(flag string, now time.Time) (time.Time, error) {
	if flag == "" {
		return now, nil
	}

	layout := "15:04:05"
	if strings.Contains(flag, ".") {
		layout = "15:04:05.000"
	}
	parsed, err := time.ParseInLocation(layout, flag, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q (expected HH:MM:SS or HH:MM:SS.mmm): %w", flag, err)
	}
	return time.Date(now.Year(), now.Month(), now.Day(),
		parsed.Hour(), parsed.Minute(), parsed.Second(), parsed.Nanosecond(), now.Location()), nil
}

// formatEntryLine renders one ledger entry for terminal output.
func formatEntryLine(sess *race.Session, e race.Entry) string {
	elapsed := "--:--:--.---"
	if d, err := sess.Elapsed(e); err == nil {
		elapsed = race.FormatDuration(d)
	}

	label := e.RawID
	if row, err := sess.FindParticipant(e.Category, e.RawID); err == nil && e.Resolved() {
		if name := participantName(row); name != "" {
			label = fmt.Sprintf("%s (%s)", name, e.RawID)
		}
	}

	line := fmt.Sprintf("#%d  %s  %s  %s  %s",
		e.Seq, e.FinishedAt.Format("15:04:05"), elapsed, e.Category, label)
	if e.Status != race.StatusNormal {
		line += fmt.Sprintf("  [%s]", e.Status)
	}
	return line
}

// participantName joins the first two non-ID roster fields, which by
// convention hold the first and last name.
func participantName(row race.Row) string {
	var parts []string
	for _, f := range row.Fields {
		if f == row.ID || f == "" {
			continue
		}
		parts = append(parts, f)
		if len(parts) == 2 {
			break
		}
	}
	return strings.Join(parts, " ")
}

func printEntries(cmd *cobra.Command, sess *race.Session, entries []race.Entry) {
	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, "(no entries)")
		return
	}
	for _, e := range entries {
		fmt.Fprintln(out, formatEntryLine(sess, e))
	}
}
