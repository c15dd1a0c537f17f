package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/a-aigner/mtb-timetracking/internal/race"
	"github.com/a-aigner/mtb-timetracking/internal/roster"
	"github.com/a-aigner/mtb-timetracking/internal/store"
)

func newLoadCommand(st *store.Store) *cobra.Command {
	var (
		categoryName string
		idColumn     int
		sessionName  string
	)

	cmd := &cobra.Command{
		Use:   "load <roster.csv>",
		Short: "Load a category's start list into the session.",
		Long: "load imports a start-list CSV as a new category. The file needs no\n" +
			"header row; delimiters (;, , or tab) are detected automatically.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := roster.Load(args[0])
			if err != nil {
				return err
			}

			name := categoryName
			if name == "" {
				name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			}

			sess, err := currentSession(st)
			if err != nil {
				if !errors.Is(err, store.ErrNoSession) {
					return err
				}
				sess = race.New(sessionName)
			}

			if err := sess.AddCategory(name, rows, idColumn); err != nil {
				return err
			}
			if err := persist(st, sess); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Loaded %q with %d participants (ID column %s)\n",
				name, len(rows), roster.ColumnLetter(idColumn))
			return nil
		},
	}

	cmd.Flags().StringVar(&categoryName, "category", "", "Category name (default: file name)")
	cmd.Flags().IntVar(&idColumn, "id-column", 0, "Zero-based index of the participant ID column")
	cmd.Flags().StringVar(&sessionName, "session", "", "Name for the session created when none exists yet")

	return cmd
}
