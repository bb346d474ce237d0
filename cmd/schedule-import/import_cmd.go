package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/iota-uz/schedule-import/modules/schedule/domain/entity"
	"github.com/iota-uz/schedule-import/modules/schedule/importer"
	"github.com/iota-uz/schedule-import/modules/schedule/infrastructure/persistence"
	"github.com/iota-uz/schedule-import/modules/schedule/infrastructure/spreadsheet"
	"github.com/iota-uz/schedule-import/modules/schedule/infrastructure/staging"
	"github.com/iota-uz/schedule-import/modules/schedule/services"
	"github.com/iota-uz/schedule-import/pkg/metrics"
	"github.com/iota-uz/schedule-import/pkg/tracing"
)

type importOptions struct {
	driver        string
	source        string
	sheet         string
	columns       string
	includeOnline bool
	batchSize     int
	apply         bool
	purge         bool
	outputDir     string
}

// importSummary is printed as one JSON line and optionally written to summary.json.
type importSummary struct {
	RunID       string         `json:"run_id"`
	UpdateLogID string         `json:"update_log_id,omitempty"`
	Source      string         `json:"source"`
	DryRun      bool           `json:"dry_run"`
	Purged      bool           `json:"purged"`
	Rows        int            `json:"rows"`
	Sections    int            `json:"sections"`
	Created     map[string]int `json:"created"`
	Reused      map[string]int `json:"reused"`
	Flushes     int            `json:"flushes"`
	DurationMS  int64          `json:"duration_ms"`
	Error       string         `json:"error,omitempty"`
}

func newImportCmd(newApp func() *app) *cobra.Command {
	var opts importOptions
	var a *app

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a schedule from a spreadsheet or the staging database",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), a, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.driver, "driver", "", "Source driver: spreadsheet|database (default IMPORT_DRIVER)")
	cmd.Flags().StringVar(&opts.source, "source", "", "Spreadsheet file: .xlsx, .xlsm, .xltx or .csv (default IMPORT_SOURCE)")
	cmd.Flags().StringVar(&opts.sheet, "sheet", "", "Workbook sheet name (default: first sheet)")
	cmd.Flags().StringVar(&opts.columns, "columns", "", "TOML/YAML/JSON file overriding source column names")
	cmd.Flags().BoolVar(&opts.includeOnline, "include-online", false, "Keep rows whose location is ONLINE")
	cmd.Flags().IntVar(&opts.batchSize, "batch-size", 0, "Rows per flush, 0 flushes once at the end (default IMPORT_BATCH_SIZE)")
	cmd.Flags().BoolVar(&opts.apply, "apply", false, "Write to the target database (default is dry-run)")
	cmd.Flags().BoolVar(&opts.purge, "purge", false, "Delete existing schedule data before applying, keeping update logs")
	cmd.Flags().StringVar(&opts.outputDir, "output", "", "Directory for summary.json")

	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		a = newApp()
		flags := cmd.Flags()
		imp := a.conf.Import
		if !flags.Changed("driver") {
			opts.driver = imp.Driver
		}
		if !flags.Changed("source") {
			opts.source = imp.Source
		}
		if !flags.Changed("sheet") {
			opts.sheet = imp.Sheet
		}
		if !flags.Changed("columns") {
			opts.columns = imp.ColumnsFile
		}
		if !flags.Changed("include-online") {
			opts.includeOnline = imp.IncludeOnline
		}
		if !flags.Changed("batch-size") {
			opts.batchSize = imp.BatchSize
		}
		return opts.validate()
	}

	return cmd
}

func (o *importOptions) validate() error {
	o.driver = strings.ToLower(strings.TrimSpace(o.driver))
	if !entity.SourceKind(o.driver).Valid() {
		return withCode(exitUsage, fmt.Errorf("invalid --driver %q: want spreadsheet or database", o.driver))
	}
	if entity.SourceKind(o.driver) == entity.SourceSpreadsheet && strings.TrimSpace(o.source) == "" {
		return withCode(exitUsage, errors.New("--source is required for the spreadsheet driver"))
	}
	if o.batchSize < 0 {
		return withCode(exitUsage, fmt.Errorf("invalid --batch-size %d", o.batchSize))
	}
	if o.purge && !o.apply {
		return withCode(exitUsage, errors.New("--purge requires --apply"))
	}
	return nil
}

func runImport(ctx context.Context, a *app, opts importOptions, out io.Writer) (err error) {
	runID := uuid.New()
	log := a.log.WithFields(logrus.Fields{"run_id": runID.String(), "driver": opts.driver})

	shutdown, err := tracing.Setup(ctx, tracing.Options{
		Enabled:     a.conf.OpenTelemetry.Enabled,
		Endpoint:    a.conf.OpenTelemetry.TempoURL,
		ServiceName: a.conf.OpenTelemetry.ServiceName,
	})
	if err != nil {
		return withCode(exitUsage, fmt.Errorf("setup tracing: %w", err))
	}
	defer func() {
		if serr := shutdown(context.Background()); serr != nil {
			log.WithError(serr).Warn("tracing shutdown failed")
		}
	}()

	var closers []io.Closer
	defer func() {
		for _, c := range closers {
			_ = c.Close()
		}
	}()

	cols := importer.DefaultColumns()
	if opts.columns != "" {
		if cols, err = importer.LoadColumns(opts.columns); err != nil {
			return withCode(exitUsage, err)
		}
	}

	driver, err := services.SelectDriver(entity.SourceKind(opts.driver), map[entity.SourceKind]services.DriverFactory{
		entity.SourceSpreadsheet: func() (importer.Driver, error) {
			decoding := importer.DefaultDecodingOptions()
			decoding.TolerateLineEndings = a.conf.Import.TolerateLineEndings
			return spreadsheet.New(spreadsheet.Options{
				Path:          opts.source,
				Sheet:         opts.sheet,
				Columns:       cols,
				IncludeOnline: opts.includeOnline,
				Decoding:      decoding,
			}), nil
		},
		entity.SourceDatabase: func() (importer.Driver, error) {
			db, err := openDB(ctx, a.conf.Staging.Driver, a.conf.Staging.DSN)
			if err != nil {
				return nil, err
			}
			closers = append(closers, db)
			return staging.New(db, staging.Options{
				Table:         a.conf.Staging.Table,
				OrderBy:       a.conf.Staging.OrderBy,
				Columns:       cols,
				IncludeOnline: opts.includeOnline,
			})
		},
	})
	if err != nil {
		var ce *cliError
		if !errors.As(err, &ce) {
			err = withCode(exitUsage, err)
		}
		return err
	}

	repo, carried, err := openRepository(ctx, a, opts, &closers)
	if err != nil {
		return err
	}

	res, runErr := services.Import(ctx, driver, repo, services.ImportOptions{
		BatchSize: opts.batchSize,
		Carried:   carried,
		Log:       log,
	})

	summary := newImportSummary(runID, opts, res)
	if runErr != nil {
		summary.Error = runErr.Error()
		log.WithError(runErr).Error("import failed")
	} else {
		log.WithFields(logrus.Fields{
			"rows":     summary.Rows,
			"sections": summary.Sections,
			"flushes":  summary.Flushes,
		}).Info("import finished")
	}

	pushMetrics(ctx, a, log, opts.driver)

	if err := writeJSONLine(out, summary); err != nil {
		return err
	}
	if opts.outputDir != "" {
		if err := writeJSONFile(filepath.Join(opts.outputDir, "summary.json"), summary); err != nil {
			return err
		}
	}
	return classifyRunError(runErr, opts.apply)
}

// openRepository returns the in-memory store for dry runs and the SQL store
// otherwise. With purge it returns the update logs read before purging.
func openRepository(ctx context.Context, a *app, opts importOptions, closers *[]io.Closer) (entity.Repository, []*entity.UpdateLog, error) {
	if !opts.apply {
		return persistence.NewMemoryStore(), nil, nil
	}
	db, err := openDB(ctx, a.conf.Database.Driver, a.conf.Database.ConnectionString())
	if err != nil {
		return nil, nil, err
	}
	*closers = append(*closers, db)
	store := persistence.NewSQLStore(db)
	if !opts.purge {
		return store, nil, nil
	}
	return purge(ctx, store)
}

func purge(ctx context.Context, store *persistence.SQLStore) (entity.Repository, []*entity.UpdateLog, error) {
	carried, err := store.UpdateLogs(ctx)
	if err != nil {
		return nil, nil, withCode(exitDB, err)
	}
	if err := store.Purge(ctx); err != nil {
		return nil, nil, withCode(exitDBWrite, err)
	}
	return store, carried, nil
}

func pushMetrics(ctx context.Context, a *app, log *logrus.Entry, source string) {
	pusher := metrics.NewPusher(a.conf.Prometheus.PushgatewayURL, a.conf.Prometheus.Job)
	if !pusher.Enabled() {
		return
	}
	pushCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := pusher.Push(pushCtx, map[string]string{"source": source}, services.Collectors()...); err != nil {
		log.WithError(err).Warn("push metrics failed")
	}
}

func newImportSummary(runID uuid.UUID, opts importOptions, res *services.ImportResult) importSummary {
	s := importSummary{
		RunID:   runID.String(),
		Source:  opts.driver,
		DryRun:  !opts.apply,
		Purged:  opts.purge,
		Created: map[string]int{},
		Reused:  map[string]int{},
	}
	if res == nil {
		return s
	}
	if res.UpdateLog != nil {
		s.UpdateLogID = res.UpdateLog.ID().String()
	}
	if sum := res.Summary; sum != nil {
		s.Rows = sum.Rows
		s.Sections = sum.Sections
		s.Flushes = sum.Flushes
		s.DurationMS = sum.Duration.Milliseconds()
		for k, n := range sum.Created {
			s.Created[k.String()] = n
		}
		for k, n := range sum.Reused {
			s.Reused[k.String()] = n
		}
	}
	return s
}
