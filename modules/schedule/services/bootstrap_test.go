package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/schedule-import/modules/schedule/domain/entity"
	"github.com/iota-uz/schedule-import/modules/schedule/importer"
	"github.com/iota-uz/schedule-import/modules/schedule/infrastructure/persistence"
	"github.com/iota-uz/schedule-import/modules/schedule/services"
)

func TestBootstrap_RecordsLogsAndInitsOnce(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := persistence.NewMemoryStore()
	d := newSliceDriver(baseRow())
	carried := []*entity.UpdateLog{
		entity.HydrateUpdateLog(uuidFor(1), entity.SourceDatabase, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)),
	}

	ul, err := services.NewBootstrap(store, nil).Run(ctx, d, carried)
	require.NoError(t, err)
	assert.Equal(t, entity.SourceSpreadsheet, ul.Source())
	assert.Equal(t, 1, d.loads, "rows loaded when the driver has none")
	assert.Equal(t, 1, d.inits)

	logs, err := store.UpdateLogs(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Same(t, carried[0], logs[0])
	assert.Same(t, ul, logs[1])
}

func TestBootstrap_SkipsLoadWhenRowsPresent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	d := newSliceDriver(baseRow())
	require.NoError(t, d.LoadRawData(ctx))

	_, err := services.NewBootstrap(persistence.NewMemoryStore(), nil).Run(ctx, d, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, d.loads)
}

func TestImport_FullRun(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := persistence.NewMemoryStore()
	d := newSliceDriver(
		rowWith(map[importer.Field]any{importer.FieldCRN: "1"}),
		rowWith(map[importer.Field]any{importer.FieldCRN: "2", importer.FieldBlock: "B"}),
		rowWith(map[importer.Field]any{importer.FieldCRN: "3", importer.FieldCampus: "NORTH", importer.FieldLocation: "N1 12"}),
	)

	res, err := services.Import(ctx, d, store, services.ImportOptions{BatchSize: 2})
	require.NoError(t, err)
	require.NotNil(t, res.UpdateLog)
	assert.Equal(t, 1, d.inits)
	assert.Equal(t, 3, res.Summary.Rows)
	assert.Equal(t, 2, res.Summary.Created[entity.KindCampus])
	assert.Equal(t, 2, res.Summary.Created[entity.KindTermBlock])
	assert.Equal(t, 1, res.Summary.Created[entity.KindTerm])
	assert.Equal(t, 2, res.Summary.Flushes)
	assert.Equal(t, 3, store.Flushes(), "bootstrap flush plus two batches")
	assert.Len(t, store.Entities(entity.KindSection), 3)
	assert.Len(t, store.Entities(entity.KindUpdateLog), 1)
}

func TestSelectDriver(t *testing.T) {
	t.Parallel()

	factories := map[entity.SourceKind]services.DriverFactory{
		entity.SourceSpreadsheet: func() (importer.Driver, error) { return newSliceDriver(), nil },
	}

	d, err := services.SelectDriver(entity.SourceSpreadsheet, factories)
	require.NoError(t, err)
	assert.Equal(t, entity.SourceSpreadsheet, d.Source())

	_, err = services.SelectDriver(entity.SourceDatabase, factories)
	require.ErrorIs(t, err, services.ErrUnknownSource)

	_, err = services.SelectDriver("ods", factories)
	require.ErrorIs(t, err, services.ErrUnknownSource)
}
