package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, store)
	t.Cleanup(func() { assert.NoError(t, store.Close()) })
	return store
}

func compareRecord(id string, started time.Time) *domain.RunRecord {
	return &domain.RunRecord{
		ID:         id,
		Kind:       domain.RunKindCompare,
		Left:       "master.pdf",
		Right:      "print.pdf",
		StartedAt:  started,
		FinishedAt: started.Add(3 * time.Second),
		Summary:    "2 pages, 0 skipped, 3 differences, SSIM 97.0%, text 99.0%",
		Pages: []domain.PageRecord{
			{PageNumber: 1, Regions: 3, TextRatio: 0.99, SSIM: 0.97, SSIMValid: true, Color: 1, ColorValid: true},
			{PageNumber: 2, TextRatio: 1, TextNote: "no text found in either document", Failure: "features: boom"},
		},
	}
}

func TestNewStore_ErrorHandling(t *testing.T) {
	_, err := NewStore("/invalid\x00path")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "creating data directory")
}

func TestNewStore_Success(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(dir, "history.db"), store.Path())
	assert.FileExists(t, store.Path())

	v, err := store.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestNewStore_Reopen(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.RunStore().Save(context.Background(), compareRecord("r1", time.Now())))
	require.NoError(t, store.Close())

	// Migrations are not applied twice and data survives.
	store, err = NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	_, err = store.RunStore().Get(context.Background(), "r1")
	require.NoError(t, err)
}

func TestNewStore_RefusesNewerSchema(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	_, err = store.db.Exec("INSERT INTO schema_migrations (version) VALUES (99)")
	require.NoError(t, err)
	require.NoError(t, store.Close())

	_, err = NewStore(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema version 99 is newer")
}

func TestLoadMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"002_b.up.sql":   {Data: []byte("CREATE TABLE b (id INTEGER);")},
		"001_a.up.sql":   {Data: []byte("CREATE TABLE a (id INTEGER);")},
		"001_a.down.sql": {Data: []byte("DROP TABLE a;")},
	}

	steps, err := loadMigrations(fsys)
	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.Equal(t, 1, steps[0].version)
	assert.Equal(t, "002_b.up.sql", steps[1].name)

	_, err = loadMigrations(fstest.MapFS{"x_bad.up.sql": {}})
	assert.Error(t, err)
}

func TestRunStore_SaveGet(t *testing.T) {
	ctx := context.Background()
	runs := setupTestStore(t).RunStore()
	started := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

	require.NoError(t, runs.Save(ctx, compareRecord("r1", started)))

	got, err := runs.Get(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, domain.RunKindCompare, got.Kind)
	assert.Equal(t, "master.pdf", got.Left)
	assert.True(t, got.StartedAt.Equal(started))
	assert.Equal(t, 3*time.Second, got.Duration())

	require.Len(t, got.Pages, 2)
	assert.Equal(t, 3, got.Pages[0].Regions)
	assert.True(t, got.Pages[0].SSIMValid)
	assert.InDelta(t, 0.97, got.Pages[0].SSIM, 1e-9)
	assert.False(t, got.Pages[0].FeatureOK)
	assert.False(t, got.Pages[1].SSIMValid)
	assert.Equal(t, "features: boom", got.Pages[1].Failure)
}

func TestRunStore_SaveReplaces(t *testing.T) {
	ctx := context.Background()
	runs := setupTestStore(t).RunStore()

	rec := compareRecord("r1", time.Now())
	require.NoError(t, runs.Save(ctx, rec))

	rec.Pages = rec.Pages[:1]
	rec.Summary = "updated"
	require.NoError(t, runs.Save(ctx, rec))

	got, err := runs.Get(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "updated", got.Summary)
	assert.Len(t, got.Pages, 1)
}

func TestRunStore_LocateRecord(t *testing.T) {
	ctx := context.Background()
	runs := setupTestStore(t).RunStore()

	rec := &domain.RunRecord{
		ID:        "l1",
		Kind:      domain.RunKindLocate,
		Left:      "rules.xlsx",
		Right:     "control.pdf",
		StartedAt: time.Now(),
		Summary:   "1/2 rules found",
		Rules: []domain.RuleRecord{
			{RowIndex: 2, Reference: "Dosage", Found: true, Phase: domain.PhaseExamples, MatchedText: "500 mg", PageIndex: 2},
			{RowIndex: 3, Reference: "Storage", Phase: domain.PhaseNone, PageIndex: -1},
		},
	}
	require.NoError(t, runs.Save(ctx, rec))

	got, err := runs.Get(ctx, "l1")
	require.NoError(t, err)
	require.Len(t, got.Rules, 2)
	assert.True(t, got.Rules[0].Found)
	assert.Equal(t, domain.PhaseExamples, got.Rules[0].Phase)
	assert.Equal(t, -1, got.Rules[1].PageIndex)
	assert.True(t, got.FinishedAt.IsZero())
}

func TestRunStore_List(t *testing.T) {
	ctx := context.Background()
	runs := setupTestStore(t).RunStore()
	base := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

	require.NoError(t, runs.Save(ctx, compareRecord("old", base)))
	require.NoError(t, runs.Save(ctx, compareRecord("new", base.Add(time.Hour))))
	require.NoError(t, runs.Save(ctx, &domain.RunRecord{ID: "loc", Kind: domain.RunKindLocate, StartedAt: base.Add(30 * time.Minute)}))

	all, err := runs.List(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"new", "loc", "old"}, []string{all[0].ID, all[1].ID, all[2].ID})
	assert.Empty(t, all[0].Pages, "list returns headers only")

	compares, err := runs.List(ctx, domain.RunKindCompare, 1)
	require.NoError(t, err)
	require.Len(t, compares, 1)
	assert.Equal(t, "new", compares[0].ID)
}

func TestRunStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	runs := store.RunStore()

	require.NoError(t, runs.Save(ctx, compareRecord("r1", time.Now())))
	require.NoError(t, runs.Delete(ctx, "r1"))

	_, err := runs.Get(ctx, "r1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, runs.Delete(ctx, "r1"), domain.ErrNotFound)

	var n int
	require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM page_results").Scan(&n))
	assert.Zero(t, n, "page records cascade")
}

func TestRunStore_SaveInvalid(t *testing.T) {
	runs := setupTestStore(t).RunStore()
	assert.ErrorIs(t, runs.Save(context.Background(), &domain.RunRecord{}), domain.ErrInvalidInput)
	assert.ErrorIs(t, runs.Save(context.Background(), &domain.RunRecord{ID: "x", Kind: "other"}), domain.ErrInvalidInput)
}
