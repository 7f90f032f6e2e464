package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/johnquangdev/meetnotes/internal/infrastructure/database"
	"github.com/johnquangdev/meetnotes/internal/output"
)

func NewMigrateCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := output.NewFormatter(deps.Out)

			db, err := database.Open(cmd.Context(), deps.Config, deps.Logger)
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			defer database.Close(db)

			n, err := database.Migrate(db, deps.Config.Database.Driver)
			if err != nil {
				return err
			}
			formatter.Success(fmt.Sprintf("Applied %d migration(s) on %s", n, deps.Config.Database.Driver))
			return nil
		},
	}
}
