package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/a-aigner/mtb-timetracking/internal/store"
)

func newEditCommand(st *store.Store) *cobra.Command {
	var timeFlag string

	cmd := &cobra.Command{
		Use:   "edit <entry>",
		Short: "Correct an entry's finish time.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seq, err := parseSeq(args[0])
			if err != nil {
				return err
			}
			if timeFlag == "" {
				return fmt.Errorf("--time is required")
			}

			sess, err := currentSession(st)
			if err != nil {
				return err
			}
			at, err := resolveInstant(timeFlag, time.Now())
			if err != nil {
				return err
			}

			if err := sess.EditTime(seq, at); err != nil {
				return err
			}
			if err := persist(st, sess); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated entry #%d\n", seq)
			return nil
		},
	}

	cmd.Flags().StringVar(&timeFlag, "time", "", "New finish instant as HH:MM:SS[.mmm]")

	return cmd
}

func newDeleteCommand(st *store.Store) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <entry>",
		Short: "Delete an entry from the ledger.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seq, err := parseSeq(args[0])
			if err != nil {
				return err
			}

			sess, err := currentSession(st)
			if err != nil {
				return err
			}
			if err := sess.Delete(seq); err != nil {
				return err
			}
			if err := persist(st, sess); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted entry #%d\n", seq)
			return nil
		},
	}
}

func newDNFCommand(st *store.Store) *cobra.Command {
	return &cobra.Command{
		Use:   "dnf <entry>",
		Short: "Mark an entry as did-not-finish.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seq, err := parseSeq(args[0])
			if err != nil {
				return err
			}

			sess, err := currentSession(st)
			if err != nil {
				return err
			}
			if err := sess.MarkDNF(seq); err != nil {
				return err
			}
			if err := persist(st, sess); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Marked entry #%d as DNF\n", seq)
			return nil
		},
	}
}

func parseSeq(arg string) (int, error) {
	seq, err := strconv.Atoi(arg)
	if err != nil || seq < 0 {
		return 0, fmt.Errorf("invalid entry number %q", arg)
	}
	return seq, nil
}
