package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/proofcheck/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/proofcheck/internal/core/domain"
)

func TestHistoryService(t *testing.T) {
	ctx := context.Background()
	store := memory.NewRunStore()
	svc := NewHistoryService(store)

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, store.Save(ctx, &domain.RunRecord{ID: "a", Kind: domain.RunKindCompare, StartedAt: base}))
	require.NoError(t, store.Save(ctx, &domain.RunRecord{ID: "b", Kind: domain.RunKindLocate, StartedAt: base.Add(time.Minute)}))

	runs, err := svc.List(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "b", runs[0].ID)

	runs, err = svc.List(ctx, domain.RunKindCompare, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "a", runs[0].ID)

	got, err := svc.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, domain.RunKindCompare, got.Kind)

	require.NoError(t, svc.Delete(ctx, "a"))
	_, err = svc.Get(ctx, "a")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHistoryService_InvalidInput(t *testing.T) {
	ctx := context.Background()
	svc := NewHistoryService(memory.NewRunStore())

	_, err := svc.List(ctx, "sync", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = svc.List(ctx, "", -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = svc.Get(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.ErrorIs(t, svc.Delete(ctx, ""), domain.ErrInvalidInput)
}
