package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/demo"
	"github.com/mrlokans/bookshelf/internal/services"
)

func newSeedCommand() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Populate the catalog with public domain demo books",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := database.NewDatabase(dbPath, database.Options{})
			if err != nil {
				return err
			}
			defer db.Close()

			result, err := demo.Seed(cmd.Context(), services.NewCatalogService(db.DB), demo.Books())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created authors: %d, categories: %d, books: %d\n",
				result.Authors, result.Categories, result.Books)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", config.DefaultDatabasePath, "Path to the catalog database")
	return cmd
}
