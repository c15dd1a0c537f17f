package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/a-aigner/mtb-timetracking/internal/race"
	"github.com/a-aigner/mtb-timetracking/internal/store"
)

func newRecordCommand(st *store.Store) *cobra.Command {
	var (
		categoryHint string
		atFlag       string
	)

	cmd := &cobra.Command{
		Use:   "record <id>",
		Short: "Record a finish for the typed participant ID.",
		Long: "record resolves the ID against all started categories and appends a\n" +
			"ledger entry. Unknown IDs are still recorded, flagged unresolved.\n" +
			"IDs present in several categories must be pinned with --category.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := currentSession(st)
			if err != nil {
				return err
			}

			at, err := resolveInstant(atFlag, time.Now())
			if err != nil {
				return err
			}

			var entry race.Entry
			if categoryHint != "" {
				entry, err = sess.RecordIn(categoryHint, args[0], at)
				if err != nil {
					return err
				}
			} else {
				var res race.Resolution
				entry, res, err = sess.Record(args[0], at)
				if err != nil {
					return err
				}
				if res.Kind == race.Ambiguous && entry.ID == "" {
					return fmt.Errorf("id %q is in several categories (%s); rerun with --category",
						args[0], strings.Join(res.Candidates, ", "))
				}
			}

			if err := persist(st, sess); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s\n", formatEntryLine(sess, entry))
			return nil
		},
	}

	cmd.Flags().StringVar(&categoryHint, "category", "", "Force the entry into this category")
	cmd.Flags().StringVar(&atFlag, "at", "", "Finish instant as HH:MM:SS[.mmm] (default: now)")

	return cmd
}

func newUndoCommand(st *store.Store) *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Undo the most recent change to the ledger.",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := currentSession(st)
			if err != nil {
				return err
			}

			if err := sess.Undo(); err != nil {
				return err
			}
			if err := persist(st, sess); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Undone")
			return nil
		},
	}
}
