package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/a-aigner/mtb-timetracking/internal/export"
	"github.com/a-aigner/mtb-timetracking/internal/store"
	"github.com/a-aigner/mtb-timetracking/internal/version"
)

func newExportCommand(st *store.Store) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export results to an Excel workbook.",
		Long: "export writes one sheet per category (ranked, DNF last), a combined\n" +
			"sheet across categories, and a sheet of entries with unknown IDs.\n" +
			"It reads a frozen snapshot; recording can continue meanwhile.",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := currentSession(st)
			if err != nil {
				return err
			}

			snap := sess.Snapshot()
			if len(snap.Entries) == 0 {
				return fmt.Errorf("nothing to export: the ledger is empty")
			}

			path := outPath
			if path == "" {
				path = export.DefaultFilename(time.Now())
			}
			if err := export.Write(snap, path); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d entries to %s\n", len(snap.Entries), path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Workbook path (default: race_results_<timestamp>.xlsx)")

	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information.",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), version.Info())
			return nil
		},
	}
}
