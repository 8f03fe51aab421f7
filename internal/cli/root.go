// Package cli defines the bookshelf command line.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/entrypoint"
)

// NewRootCommand builds the bookshelf command tree. Without a subcommand the
// HTTP server is started.
func NewRootCommand(version string) *cobra.Command {
	root := &cobra.Command{
		Use:          "bookshelf",
		Short:        "Books management API",
		Long:         "Bookshelf serves a catalog of books, authors and categories over a JSON API.",
		Version:      version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			entrypoint.Run(config.NewConfig(), version)
			return nil
		},
	}

	root.AddCommand(newServeCommand(version))
	root.AddCommand(newReconcileCommand())
	root.AddCommand(newSeedCommand())
	root.AddCommand(newHashKeyCommand())

	return root
}

func newServeCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entrypoint.Run(config.NewConfig(), version)
			return nil
		},
	}
}
