package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/iota-uz/schedule-import/pkg/configuration"
)

// app carries what every subcommand needs. Tests build it directly.
type app struct {
	conf *configuration.Configuration
	log  *logrus.Logger
}

func newApp() *app {
	conf := configuration.Use()
	return &app{conf: conf, log: conf.Logger()}
}

func newRootCmd(a func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "schedule-import",
		Short:         "Import academic schedules from spreadsheets or a staging database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newImportCmd(a))
	cmd.AddCommand(newStageCmd(a))
	cmd.AddCommand(newMigrateCmd(a))
	return cmd
}

func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	err := newRootCmd(newApp).ExecuteContext(ctx)
	configuration.Use().Unload()
	if err != nil {
		code := exitCode(err)
		fmt.Fprintln(os.Stderr, err.Error())
		cancel()
		os.Exit(code)
	}
}
