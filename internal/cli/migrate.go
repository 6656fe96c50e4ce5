package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"myworld/backend/internal/app"
	"myworld/backend/internal/db"
)

func newMigrateCommand(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:     "migrate",
		Short:   "Create or upgrade the SQLite schema",
		GroupID: groupData,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			database, err := app.OpenDatabase(env.Config)
			if err != nil {
				return err
			}
			defer database.Close()

			applied, err := db.AppliedMigrations(database)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "%s is up to date.\n", env.Config.DBPath())
			for _, name := range applied {
				_, _ = fmt.Fprintf(out, "  %s\n", name)
			}
			return nil
		},
	}
}
