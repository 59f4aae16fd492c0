package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/db"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		Long: `Apply the embedded database schema.

Every statement is idempotent, so migrate can run on every deploy.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := connect(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer e.Close()

			if err := db.Migrate(cmd.Context(), e.pool); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema applied")
			return nil
		},
	}
}
