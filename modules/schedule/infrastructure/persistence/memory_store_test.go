package persistence_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/schedule-import/modules/schedule/domain/entity"
	"github.com/iota-uz/schedule-import/modules/schedule/infrastructure/persistence"
)

func TestMemoryStore_FlushCommitsPending(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := persistence.NewMemoryStore()
	campus := entity.NewCampus("MAIN", "Main")
	ul := entity.NewUpdateLog(entity.SourceSpreadsheet)

	require.NoError(t, store.Persist(ctx, ul))
	require.NoError(t, store.Persist(ctx, campus))
	assert.Equal(t, 2, store.Pending())
	assert.Empty(t, store.Entities(entity.KindCampus))

	require.NoError(t, store.Flush(ctx))
	assert.Equal(t, 0, store.Pending())
	assert.Equal(t, 1, store.Flushes())
	require.Len(t, store.Entities(entity.KindCampus), 1)
	assert.Same(t, campus, store.Entities(entity.KindCampus)[0])

	logs, err := store.UpdateLogs(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Same(t, ul, logs[0])
}

func TestMemoryStore_RejectsNil(t *testing.T) {
	t.Parallel()

	store := persistence.NewMemoryStore()
	require.Error(t, store.Persist(context.Background(), nil))
}

func TestMemoryStore_FlushHonoursContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	store := persistence.NewMemoryStore()
	require.NoError(t, store.Persist(ctx, entity.NewCampus("MAIN", "")))
	require.ErrorIs(t, store.Flush(ctx), context.Canceled)
	assert.Equal(t, 1, store.Pending())
}
