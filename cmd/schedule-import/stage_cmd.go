package main

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iota-uz/schedule-import/modules/schedule/importer"
	"github.com/iota-uz/schedule-import/modules/schedule/infrastructure/spreadsheet"
	"github.com/iota-uz/schedule-import/modules/schedule/infrastructure/staging"
)

type stageOptions struct {
	source  string
	sheet   string
	columns string
	table   string
}

type stageSummary struct {
	Table string `json:"table"`
	Rows  int    `json:"rows"`
}

func newStageCmd(newApp func() *app) *cobra.Command {
	var opts stageOptions
	var a *app

	cmd := &cobra.Command{
		Use:   "stage",
		Short: "Copy a spreadsheet into the staging table read by the database driver",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStage(cmd.Context(), a, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.source, "source", "", "Spreadsheet file (required)")
	cmd.Flags().StringVar(&opts.sheet, "sheet", "", "Workbook sheet name (default: first sheet)")
	cmd.Flags().StringVar(&opts.columns, "columns", "", "TOML/YAML/JSON file overriding source column names")
	cmd.Flags().StringVar(&opts.table, "table", "", "Staging table (default STAGING_TABLE)")
	_ = cmd.MarkFlagRequired("source")

	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		a = newApp()
		if !cmd.Flags().Changed("table") {
			opts.table = a.conf.Staging.Table
		}
		if strings.TrimSpace(opts.source) == "" {
			return withCode(exitUsage, errors.New("--source is required"))
		}
		return nil
	}

	return cmd
}

func runStage(ctx context.Context, a *app, opts stageOptions, out io.Writer) error {
	cols := importer.DefaultColumns()
	if opts.columns != "" {
		var err error
		if cols, err = importer.LoadColumns(opts.columns); err != nil {
			return withCode(exitUsage, err)
		}
	}

	// Online rows are staged too; the database driver drops them on import.
	d := spreadsheet.New(spreadsheet.Options{
		Path:          opts.source,
		Sheet:         opts.sheet,
		Columns:       cols,
		IncludeOnline: true,
		Decoding:      importer.DecodingOptions{TolerateLineEndings: a.conf.Import.TolerateLineEndings},
	})
	if err := d.LoadRawData(ctx); err != nil {
		return withCode(exitValidation, err)
	}
	rows := d.Rows()
	if err := staging.SplitLocations(rows); err != nil {
		return withCode(exitValidation, err)
	}

	db, err := openDB(ctx, a.conf.Staging.Driver, a.conf.Staging.DSN)
	if err != nil {
		return err
	}
	defer db.Close()
	w, err := staging.NewWriter(db, opts.table)
	if err != nil {
		return withCode(exitUsage, err)
	}

	n, err := w.Write(ctx, rows)
	if err != nil {
		return withCode(exitDBWrite, err)
	}
	a.log.WithField("table", opts.table).WithField("rows", n).Info("staging table written")
	return writeJSONLine(out, stageSummary{Table: opts.table, Rows: n})
}
