package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/a-aigner/mtb-timetracking/internal/files"
	"github.com/a-aigner/mtb-timetracking/internal/logging"
	"github.com/a-aigner/mtb-timetracking/internal/race"
	"github.com/a-aigner/mtb-timetracking/internal/store"
	"github.com/a-aigner/mtb-timetracking/internal/ui"
)

// NewRootCommand creates the top-level Cobra command hosting subcommands and
// the live timing TUI.
func NewRootCommand(ctx context.Context, manager *files.Manager, st *store.Store) *cobra.Command {
	var (
		newSession  bool
		sessionName string
		autosave    time.Duration
		autoResolve bool
	)

	cmd := &cobra.Command{
		Use:   "mtbtimer",
		Short: "Record race finish times from your terminal.",
		Long: "mtbtimer tracks finish times for multi-category races: load start\n" +
			"lists, start category timers, type IDs as riders cross the line.\n" +
			"Running it without a subcommand opens the live timing screen.",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := resumeOrCreate(st, sessionName, newSession)
			if err != nil {
				return err
			}
			sess.SetAutoResolve(autoResolve)

			// The TUI owns the terminal; background warnings would tear
			// the screen apart.
			logging.Silence(nil)

			saverCtx, cancel := context.WithCancel(ctx)
			saver := store.NewAutosaver(st, sess, autosave)
			done := make(chan struct{})
			go func() {
				saver.Run(saverCtx)
				close(done)
			}()

			m := ui.NewModel(sess)
			_, runErr := tea.NewProgram(m, tea.WithAltScreen()).Run()

			// Cancelling the autosaver triggers its final best-effort save.
			cancel()
			<-done

			if runErr != nil {
				return fmt.Errorf("run TUI: %w", runErr)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().BoolVar(&newSession, "new", false, "Start a fresh session instead of resuming the latest one")
	cmd.Flags().StringVar(&sessionName, "name", "", "Session name (default: timestamp-based)")
	cmd.Flags().DurationVar(&autosave, "autosave", store.DefaultAutosaveInterval, "Autosave interval")
	cmd.Flags().BoolVar(&autoResolve, "auto-resolve", false, "Automatically disambiguate IDs present in several categories")

	cmd.AddCommand(
		newLoadCommand(st),
		newStartCommand(st),
		newStopCommand(st),
		newRecordCommand(st),
		newUndoCommand(st),
		newEntriesCommand(st),
		newEditCommand(st),
		newDeleteCommand(st),
		newDNFCommand(st),
		newExportCommand(st),
		newSessionsCommand(st),
		newVersionCommand(),
	)

	return cmd
}

// resumeOrCreate loads the most recent session unless a fresh one was asked
// for (or none exists yet).
func resumeOrCreate(st *store.Store, name string, fresh bool) (*race.Session, error) {
	if !fresh {
		path, err := st.Latest()
		switch {
		case err == nil:
			sess, err := st.Load(path)
			if err != nil {
				return nil, fmt.Errorf("resume %s: %w", path, err)
			}
			return sess, nil
		case !errors.Is(err, store.ErrNoSession):
			return nil, err
		}
	}
	return race.New(name), nil
}

// ExecuteCommand wires default dependencies and runs the root command.
func ExecuteCommand(ctx context.Context) error {
	manager, err := files.NewManager("")
	if err != nil {
		return err
	}
	st := store.New(manager, store.DefaultRetainBackups)
	cmd := NewRootCommand(ctx, manager, st)
	return cmd.Execute()
}

// Main is a helper used by cmd/mtbtimer/main.go to keep wiring contained in
// one package.
func Main(ctx context.Context) {
	logging.Setup()
	if err := ExecuteCommand(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
