package sqlite

import (
	"context"
	"database/sql"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adscope/kwc/internal/snapshot"
	"github.com/adscope/kwc/internal/types"
)

func setupTestDB(t *testing.T) *Store {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "nested", "kwc.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testSnapshot() *snapshot.Snapshot {
	return &snapshot.Snapshot{
		Keywords: []types.KeywordRecord{
			{ID: "kw-2", Keyword: "running shoes for men", MatchType: types.MatchExact, Category: "footwear"},
			{ID: "kw-1", Keyword: "running shoes", MatchType: types.MatchBroad},
		},
		Performances: []types.PerformanceRecord{
			{KeywordID: "kw-1", Keyword: "running shoes", CampaignID: "auto", Impressions: 1000, Clicks: 3, CTR: 0.3},
			{Keyword: "running shoes for men", CampaignID: "exact", Impressions: 200, Spend: 12.5, Sales: 40, ACOS: 31.25, ROAS: 3.2},
		},
		Assignments:  types.CampaignAssignments{"kw-1": "auto"},
		CampaignSets: types.CampaignSets{"kw-1": {"auto", "manual"}, "running shoes for men": {"exact"}},
	}
}

func TestImportAndLoadSnapshot(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	rec, err := store.ImportSnapshot(ctx, testSnapshot(), "export.yaml")
	require.NoError(t, err)
	assert.Equal(t, 2, rec.Keywords)
	assert.Equal(t, 2, rec.Performances)
	assert.NotZero(t, rec.ID)

	loaded, err := store.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, testSnapshot(), loaded)
}

func TestImportReplacesPreviousSnapshot(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	_, err := store.ImportSnapshot(ctx, testSnapshot(), "first.yaml")
	require.NoError(t, err)

	second := &snapshot.Snapshot{
		Keywords: []types.KeywordRecord{{Keyword: "yoga mat", MatchType: types.MatchPhrase}},
	}
	_, err = store.ImportSnapshot(ctx, second, "second.yaml")
	require.NoError(t, err)

	loaded, err := store.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.Keywords, loaded.Keywords)
	assert.Empty(t, loaded.Performances)
	assert.Nil(t, loaded.Assignments, "snapshot without assignments loads as nil")
	assert.Nil(t, loaded.CampaignSets)

	imports, err := store.ListImports(ctx, 0)
	require.NoError(t, err)
	require.Len(t, imports, 2)
	assert.Equal(t, "second.yaml", imports[0].Source)
	assert.Equal(t, "first.yaml", imports[1].Source)
	assert.Equal(t, 2, imports[1].Keywords)

	latest, err := store.ListImports(ctx, 1)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, "second.yaml", latest[0].Source)
}

func TestExplicitEmptyMapsSurviveReload(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	snap := &snapshot.Snapshot{
		Keywords:     []types.KeywordRecord{{Keyword: "yoga mat", MatchType: types.MatchExact}},
		Performances: []types.PerformanceRecord{{Keyword: "yoga mat", CampaignID: "campaign-a"}},
		Assignments:  types.CampaignAssignments{},
		CampaignSets: types.CampaignSets{},
	}
	rec, err := store.ImportSnapshot(ctx, snap, "empty-maps.yaml")
	require.NoError(t, err)
	assert.True(t, rec.HasAssignments)
	assert.True(t, rec.HasCampaignSets)

	loaded, err := store.LoadSnapshot(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded.Assignments)
	require.NotNil(t, loaded.CampaignSets)
	assert.Empty(t, loaded.Assignments)
	assert.Empty(t, loaded.CampaignSets)

	imports, err := store.ListImports(ctx, 1)
	require.NoError(t, err)
	require.Len(t, imports, 1)
	assert.True(t, imports[0].HasAssignments)

	// A later import without maps goes back to nil
	_, err = store.ImportSnapshot(ctx, &snapshot.Snapshot{Keywords: snap.Keywords}, "no-maps.yaml")
	require.NoError(t, err)
	loaded, err = store.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Nil(t, loaded.Assignments)
	assert.Nil(t, loaded.CampaignSets)
}

func TestNewMigratesImportFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.db")
	db, err := sql.Open("sqlite3", "file:"+path)
	require.NoError(t, err)
	_, err = db.Exec(`
		CREATE TABLE imports (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source TEXT NOT NULL DEFAULT '',
			imported_at TEXT NOT NULL,
			keywords INTEGER NOT NULL DEFAULT 0,
			performances INTEGER NOT NULL DEFAULT 0,
			assignments INTEGER NOT NULL DEFAULT 0,
			campaign_sets INTEGER NOT NULL DEFAULT 0
		)
	`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	store, err := New(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	_, err = store.ImportSnapshot(context.Background(), testSnapshot(), "export.yaml")
	require.NoError(t, err)
	loaded, err := store.LoadSnapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testSnapshot().Assignments, loaded.Assignments)
}

func TestLoadSnapshotEmptyDatabase(t *testing.T) {
	store := setupTestDB(t)

	loaded, err := store.LoadSnapshot(context.Background())
	require.NoError(t, err)
	assert.Empty(t, loaded.Keywords)
	assert.Empty(t, loaded.Performances)
}

func TestNaNMetricsSurviveStorage(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	snap := &snapshot.Snapshot{
		Performances: []types.PerformanceRecord{{Keyword: "x", ACOS: math.NaN()}},
	}
	_, err := store.ImportSnapshot(ctx, snap, "nan.yaml")
	require.NoError(t, err)

	loaded, err := store.LoadSnapshot(ctx)
	require.NoError(t, err)
	require.Len(t, loaded.Performances, 1)
	assert.True(t, math.IsNaN(loaded.Performances[0].ACOS))
}

func TestImportCancelledContext(t *testing.T) {
	store := setupTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.ImportSnapshot(ctx, testSnapshot(), "export.yaml")
	require.Error(t, err)

	loaded, err := store.LoadSnapshot(context.Background())
	require.NoError(t, err)
	assert.Empty(t, loaded.Keywords, "failed import must not leave partial data")
}
