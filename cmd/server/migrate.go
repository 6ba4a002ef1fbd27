package main

import (
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		Long: `Apply the embedded schema to the database named by DATABASE_URL.

The schema is idempotent and applied under a Postgres advisory lock, so
concurrent runs from several replicas are safe.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.requirePostgres("migrate"); err != nil {
				return err
			}
			return a.database.Migrate(cmd.Context())
		},
	}
}
