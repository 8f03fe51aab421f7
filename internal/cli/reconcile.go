package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/covers"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/services"
	"github.com/mrlokans/bookshelf/internal/tasks"
)

func newReconcileCommand() *cobra.Command {
	var (
		dbPath       string
		uploadsDir   string
		removeCovers bool
	)

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Rebuild author and category back references from books",
		Long: `Runs one reconciliation pass against the catalog database and prints the report.
Books are authoritative: author and category book lists are rebuilt from them
and category ids that no longer exist are dropped from books.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := database.NewDatabase(dbPath, database.Options{})
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := cmd.Context()
			report, err := services.NewReconciler(db.DB).Run(ctx)
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))

			if !removeCovers {
				return nil
			}
			store, err := covers.NewStore(uploadsDir, 0)
			if err != nil {
				return err
			}
			referenced, err := services.NewCatalogService(db.DB).ReferencedCovers(ctx)
			if err != nil {
				return err
			}
			removed, err := store.RemoveOrphans(referenced, tasks.OrphanCoverMinAge)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d orphan cover(s)\n", removed)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", config.DefaultDatabasePath, "Path to the catalog database")
	cmd.Flags().StringVar(&uploadsDir, "uploads", config.DefaultUploadsDir, "Directory holding uploaded cover images")
	cmd.Flags().BoolVar(&removeCovers, "covers", false, "Also remove cover files no book references")

	return cmd
}
