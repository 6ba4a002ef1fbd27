package main

import (
	"fmt"

	"github.com/lalith-99/propman/internal/db"
	"github.com/lalith-99/propman/internal/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newSeedCmd() *cobra.Command {
	var names []string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert the default job types",
		Long: `Insert job types that do not exist yet. Existing rows are left alone, so
seed can be run repeatedly. The cached job type list is dropped when
anything was added.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.requirePostgres("seed"); err != nil {
				return err
			}

			jobs := service.NewJob(a.store, a.jobTypes, nil, a.logger, a.cfg.JobNumberMaxAttempts)
			added, err := jobs.SeedTypes(cmd.Context(), names)
			if err != nil {
				return fmt.Errorf("seed job types: %w", err)
			}
			a.logger.Info("job types seeded", zap.Int("added", added), zap.Int("requested", len(names)))
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&names, "job-type", db.DefaultJobTypes, "job type name to ensure (repeatable)")
	return cmd
}
