package main

import (
	"github.com/spf13/cobra"
)

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed the course catalog and admin account, then exit",
		Long: `Seed inserts the fixed catalog when no course exists yet and creates the
admin account named by ADMIN_EMAIL / ADMIN_PASSWORD if it is missing.
Running it again is a no-op.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, log, err := loadConfig(ctx)
			if err != nil {
				return err
			}
			a, err := newApp(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.seed.Seed(ctx); err != nil {
				return err
			}
			log.Info().Msg("seed complete")
			return nil
		},
	}
}
