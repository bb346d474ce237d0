package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/iota-uz/schedule-import/modules/schedule/domain/entity"
	"github.com/iota-uz/schedule-import/modules/schedule/importer"
)

var ErrUnknownSource = errors.New("unknown import source")

// DriverFactory builds a driver for one source variant.
type DriverFactory func() (importer.Driver, error)

// SelectDriver picks the variant registered for kind.
func SelectDriver(kind entity.SourceKind, factories map[entity.SourceKind]DriverFactory) (importer.Driver, error) {
	factory, ok := factories[kind]
	if !ok || !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, kind)
	}
	d, err := factory()
	if err != nil {
		return nil, fmt.Errorf("build %s driver: %w", kind, err)
	}
	return d, nil
}

// Bootstrap prepares a run: it records the run's update log and initializes
// the driver before the first row is processed.
type Bootstrap struct {
	repo entity.Repository
	log  *logrus.Entry
}

func NewBootstrap(repo entity.Repository, log *logrus.Entry) *Bootstrap {
	return &Bootstrap{repo: repo, log: log}
}

// Run loads rows when the driver has none, persists carried logs followed by
// a new log for the driver's source, flushes, and calls Init once.
func (b *Bootstrap) Run(ctx context.Context, driver importer.Driver, carried []*entity.UpdateLog) (ul *entity.UpdateLog, err error) {
	ctx, span := tracer.Start(ctx, "schedule.bootstrap")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if driver.Count() == 0 {
		if err := driver.LoadRawData(ctx); err != nil {
			return nil, fmt.Errorf("load rows: %w", err)
		}
	}
	span.SetAttributes(
		attribute.String("schedule.source", string(driver.Source())),
		attribute.Int("schedule.rows", driver.Count()),
	)

	for _, prev := range carried {
		if err := b.repo.Persist(ctx, prev); err != nil {
			return nil, fmt.Errorf("persist carried update log %s: %w", prev.ID(), err)
		}
	}
	ul = entity.NewUpdateLog(driver.Source())
	if err := b.repo.Persist(ctx, ul); err != nil {
		return nil, fmt.Errorf("persist update log: %w", err)
	}
	if err := b.repo.Flush(ctx); err != nil {
		return nil, fmt.Errorf("flush update logs: %w", err)
	}
	if err := driver.Init(ctx); err != nil {
		return nil, fmt.Errorf("init %s driver: %w", driver.Source(), err)
	}

	if b.log != nil {
		b.log.WithFields(logrus.Fields{
			"source":        driver.Source(),
			"rows":          driver.Count(),
			"update_log_id": ul.ID(),
		}).Info("schedule import started")
	}
	return ul, nil
}

type ImportOptions struct {
	BatchSize int
	// Carried are update logs from earlier runs to keep when the target was purged.
	Carried []*entity.UpdateLog
	Log     *logrus.Entry
}

type ImportResult struct {
	UpdateLog *entity.UpdateLog
	Summary   *Summary
}

// Import runs one full import of driver into repo with a fresh cache.
func Import(ctx context.Context, driver importer.Driver, repo entity.Repository, opts ImportOptions) (*ImportResult, error) {
	ul, err := NewBootstrap(repo, opts.Log).Run(ctx, driver, opts.Carried)
	if err != nil {
		return nil, err
	}
	builderOpts := []GraphBuilderOption{WithBatchSize(opts.BatchSize)}
	if opts.Log != nil {
		builderOpts = append(builderOpts, WithLogger(opts.Log))
	}
	sum, err := NewGraphBuilder(driver, NewCache(), repo, builderOpts...).Run(ctx)
	return &ImportResult{UpdateLog: ul, Summary: sum}, err
}
