package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/a-aigner/mtb-timetracking/internal/store"
)

func newEntriesCommand(st *store.Store) *cobra.Command {
	var (
		limit    int
		category string
	)

	cmd := &cobra.Command{
		Use:   "entries",
		Short: "Show recorded finish entries.",
		Long: "entries lists the most recent finishes across all categories, newest\n" +
			"first. With --category it instead shows that category's result order:\n" +
			"finish time ascending, DNF entries last.",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := currentSession(st)
			if err != nil {
				return err
			}

			if category != "" {
				printEntries(cmd, sess, sess.EntriesForCategory(category))
				return nil
			}

			printEntries(cmd, sess, sess.RecentEntries(limit))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 15, "How many recent entries to show")
	cmd.Flags().StringVar(&category, "category", "", "Show one category's results instead")

	return cmd
}

func newSessionsCommand(st *store.Store) *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "List saved sessions, newest first.",
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := st.List()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(paths) == 0 {
				fmt.Fprintln(out, "(no saved sessions)")
				return nil
			}
			for _, p := range paths {
				fmt.Fprintln(out, p)
			}
			return nil
		},
	}
}
