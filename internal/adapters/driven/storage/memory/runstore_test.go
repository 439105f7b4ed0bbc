package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
)

func TestRunStore_SaveGet(t *testing.T) {
	ctx := context.Background()
	store := NewRunStore()

	run := &domain.RunRecord{ID: "r1", Kind: domain.RunKindCompare, Summary: "1 pages"}
	require.NoError(t, store.Save(ctx, run))

	got, err := store.Get(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "1 pages", got.Summary)

	_, err = store.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, store.Save(ctx, &domain.RunRecord{}), domain.ErrInvalidInput)
}

func TestRunStore_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewRunStore()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, store.Save(ctx, &domain.RunRecord{ID: "a", Kind: domain.RunKindCompare, StartedAt: base}))
	require.NoError(t, store.Save(ctx, &domain.RunRecord{ID: "b", Kind: domain.RunKindLocate, StartedAt: base.Add(time.Hour)}))
	require.NoError(t, store.Save(ctx, &domain.RunRecord{ID: "c", Kind: domain.RunKindCompare, StartedAt: base.Add(2 * time.Hour)}))

	all, err := store.List(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].ID)
	assert.Equal(t, "a", all[2].ID)

	compares, err := store.List(ctx, domain.RunKindCompare, 1)
	require.NoError(t, err)
	require.Len(t, compares, 1)
	assert.Equal(t, "c", compares[0].ID)
}

func TestRunStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := NewRunStore()
	require.NoError(t, store.Save(ctx, &domain.RunRecord{ID: "a"}))

	require.NoError(t, store.Delete(ctx, "a"))
	assert.ErrorIs(t, store.Delete(ctx, "a"), domain.ErrNotFound)
}
