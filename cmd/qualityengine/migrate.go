package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMigrateCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:       "migrate [up|down|status]",
		Short:     "Apply, roll back or inspect database migrations",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"up", "down", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			action := "up"
			if len(args) == 1 {
				action = args[0]
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			log := cliLogger(cfg, cmd.ErrOrStderr())

			db, err := openDatabase(cmd.Context(), cfg.Database.Path, &log)
			if err != nil {
				return err
			}
			defer db.Close()

			switch action {
			case "up":
				if err := db.Migrate(); err != nil {
					return err
				}
			case "down":
				if err := db.MigrateDown(); err != nil {
					return err
				}
			case "status":
				if err := db.MigrationStatus(); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unknown migrate action %q", action)
			}

			version, err := db.SchemaVersion()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Schema version: %d\n", version)
			return nil
		},
	}
	return cmd
}
