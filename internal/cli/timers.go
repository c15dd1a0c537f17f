package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/a-aigner/mtb-timetracking/internal/race"
	"github.com/a-aigner/mtb-timetracking/internal/store"
)

func newStartCommand(st *store.Store) *cobra.Command {
	return &cobra.Command{
		Use:   "start <category>",
		Short: "Start a category's race clock.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := currentSession(st)
			if err != nil {
				return err
			}

			started, err := sess.StartTimer(args[0], time.Now())
			if err != nil {
				return err
			}
			if !started {
				fmt.Fprintf(cmd.OutOrStdout(), "Timer for %q already ran; start ignored\n", args[0])
				return nil
			}
			if err := persist(st, sess); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Started %q\n", args[0])
			return nil
		},
	}
}

func newStopCommand(st *store.Store) *cobra.Command {
	return &cobra.Command{
		Use:   "stop <category>",
		Short: "Stop a category's race clock.",
		Long: "stop freezes the category clock. Finishers can still be recorded\n" +
			"afterwards; their elapsed times keep using the original start instant.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := currentSession(st)
			if err != nil {
				return err
			}

			stopped, err := sess.StopTimer(args[0], time.Now())
			if err != nil {
				return err
			}
			if !stopped {
				fmt.Fprintf(cmd.OutOrStdout(), "Timer for %q is not running; stop ignored\n", args[0])
				return nil
			}
			if err := persist(st, sess); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Stopped %q\n", args[0])
			return nil
		},
	}
}

func timerSummary(status race.CategoryStatus) string {
	switch status.State {
	case race.TimerRunning:
		return fmt.Sprintf("%s  %s  %d/%d finished",
			status.Name, race.FormatClock(status.Elapsed), status.Finished, status.Total)
	case race.TimerStopped:
		return fmt.Sprintf("%s  %s (stopped)  %d/%d finished",
			status.Name, race.FormatClock(status.Elapsed), status.Finished, status.Total)
	default:
		return fmt.Sprintf("%s  not started  0/%d", status.Name, status.Total)
	}
}
