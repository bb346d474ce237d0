package main

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/iota-uz/schedule-import/modules/schedule/infrastructure/persistence"
)

func newMigrateCmd(newApp func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schedule migrations to the target database",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd.Context(), newApp(), cmd.OutOrStdout())
		},
	}
}

func runMigrate(ctx context.Context, a *app, out io.Writer) error {
	dialect, err := persistence.Dialect(a.conf.Database.Driver)
	if err != nil {
		return withCode(exitUsage, err)
	}
	db, err := openDB(ctx, a.conf.Database.Driver, a.conf.Database.ConnectionString())
	if err != nil {
		return err
	}
	defer db.Close()

	if err := persistence.Migrate(ctx, db.DB, dialect, a.log); err != nil {
		return withCode(exitDB, err)
	}
	return writeJSONLine(out, map[string]string{"status": "migrated", "dialect": dialect})
}
