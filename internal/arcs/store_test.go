package arcs

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arclinker/internal/health"
	"arclinker/pkg/database"
	"arclinker/pkg/models"
)

const testSlot = "mla-data-v1"

func newTestSnapshots(t *testing.T) *database.SnapshotStore {
	t.Helper()
	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "data.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(db))
	return database.NewSnapshotStore(db)
}

func TestLoadSeedsSampleAndPersists(t *testing.T) {
	ctx := context.Background()
	snaps := newTestSnapshots(t)
	store := NewStore(snaps, testSlot)

	root := store.Load(ctx)
	require.Len(t, root.Series, 2)
	assert.Equal(t, "series-chronicles", root.Series[0].ID)
	assert.Equal(t, "series-moonforge", root.Series[1].ID)

	body, err := snaps.Read(ctx, testSlot)
	require.NoError(t, err)
	require.NotNil(t, body, "fallback dataset must be persisted immediately")

	persisted, err := models.DecodeRoot(body)
	require.NoError(t, err)
	assert.Equal(t, root, persisted)
}

func TestLoadPrefersExistingSnapshot(t *testing.T) {
	ctx := context.Background()
	snaps := newTestSnapshots(t)

	custom := &models.Root{Series: []*models.Series{
		{ID: "series-mine", Name: "Mine", Arcs: []*models.Arc{}},
	}}
	body, err := models.EncodeRoot(custom)
	require.NoError(t, err)
	require.NoError(t, snaps.Write(ctx, testSlot, body))

	store := NewStore(snaps, testSlot)
	root := store.Load(ctx)
	require.Len(t, root.Series, 1)
	assert.Equal(t, "series-mine", root.Series[0].ID)
}

func TestLoadFallsBackOnMalformedSnapshot(t *testing.T) {
	ctx := context.Background()

	for name, payload := range map[string]string{
		"not json":       "{{{",
		"missing series": `{"foo": 1}`,
		"series scalar":  `{"series": "nope"}`,
	} {
		t.Run(name, func(t *testing.T) {
			snaps := newTestSnapshots(t)
			require.NoError(t, snaps.Write(ctx, testSlot, []byte(payload)))

			store := NewStore(snaps, testSlot)
			root := store.Load(ctx)
			require.Len(t, root.Series, 2, "sample dataset expected")

			// bad snapshot is replaced by a good one
			body, err := snaps.Read(ctx, testSlot)
			require.NoError(t, err)
			_, err = models.DecodeRoot(body)
			assert.NoError(t, err)
		})
	}
}

func TestSampleArcHealth(t *testing.T) {
	root := SampleRoot()
	arc := root.FindSeries("series-chronicles").FindArc("arc-aether-prologue")
	require.NotNil(t, arc)
	require.Len(t, arc.Mappings, 2)

	got := health.ComputeArcHealth(arc)
	assert.Equal(t, health.StatusGaps, got.Status)
	assert.Equal(t, 1, got.MissingCount)
}

func TestAddSeriesRequiresName(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newTestSnapshots(t), testSlot)

	_, err := store.AddSeries(ctx, "   ")
	assert.ErrorIs(t, err, ErrNameRequired)

	series, err := store.AddSeries(ctx, "  New Saga  ")
	require.NoError(t, err)
	assert.Equal(t, "New Saga", series.Name)
	assert.NotEmpty(t, series.ID)
}

func TestClampRating(t *testing.T) {
	assert.Equal(t, 1, ClampRating(0))
	assert.Equal(t, 5, ClampRating(7))
	assert.Equal(t, 1, ClampRating(-3))
	assert.Equal(t, 5, ClampRating(4.6))
	assert.Equal(t, 4, ClampRating(4.4))
	assert.Equal(t, 3, ClampRating(3))
}

func TestAddArcRatingRules(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newTestSnapshots(t), testSlot)

	series, err := store.AddSeries(ctx, "Saga")
	require.NoError(t, err)

	arc, err := store.AddArc(ctx, series.ID, "Default", "", nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultRating, arc.Rating)

	low := 0.0
	arc, err = store.AddArc(ctx, series.ID, "Low", "", &low)
	require.NoError(t, err)
	assert.Equal(t, 1, arc.Rating)

	high := 7.0
	arc, err = store.AddArc(ctx, series.ID, "High", "", &high)
	require.NoError(t, err)
	assert.Equal(t, 5, arc.Rating)

	_, err = store.AddArc(ctx, series.ID, "  ", "", nil)
	assert.ErrorIs(t, err, ErrTitleRequired)

	_, err = store.AddArc(ctx, "series-missing", "Title", "", nil)
	assert.ErrorIs(t, err, ErrSeriesNotFound)
}

func TestUpdateArcClampsRating(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newTestSnapshots(t), testSlot)

	series, _ := store.AddSeries(ctx, "Saga")
	arc, _ := store.AddArc(ctx, series.ID, "Arc", "", nil)

	zero := 0.0
	updated, err := store.UpdateArc(ctx, series.ID, arc.ID, ArcUpdate{Rating: &zero})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Rating)

	empty := "  "
	_, err = store.UpdateArc(ctx, series.ID, arc.ID, ArcUpdate{Title: &empty})
	assert.ErrorIs(t, err, ErrTitleRequired)

	title := " Renamed "
	summary := "New summary"
	updated, err = store.UpdateArc(ctx, series.ID, arc.ID, ArcUpdate{Title: &title, Summary: &summary})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, "New summary", updated.Summary)
}

func TestMutationsSurviveReload(t *testing.T) {
	ctx := context.Background()
	snaps := newTestSnapshots(t)
	store := NewStore(snaps, testSlot)

	series, err := store.AddSeries(ctx, "Persisted Saga")
	require.NoError(t, err)
	arc, err := store.AddArc(ctx, series.ID, "Arc One", "summary", nil)
	require.NoError(t, err)
	m, err := store.AddMapping(ctx, series.ID, arc.ID, MappingFields{Label: "Beat", Manga: "Ch. 1"})
	require.NoError(t, err)

	// fresh store, same slot: the session state must come back
	reloaded := NewStore(snaps, testSlot).Load(ctx)
	found := reloaded.FindSeries(series.ID)
	require.NotNil(t, found)
	foundArc := found.FindArc(arc.ID)
	require.NotNil(t, foundArc)
	require.Len(t, foundArc.Mappings, 1)
	assert.Equal(t, m.ID, foundArc.Mappings[0].ID)
	assert.Equal(t, "Beat", foundArc.Mappings[0].Label)
}

func TestMappingLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newTestSnapshots(t), testSlot)

	series, _ := store.AddSeries(ctx, "Saga")
	arc, _ := store.AddArc(ctx, series.ID, "Arc", "", nil)

	m, err := store.AddMapping(ctx, series.ID, arc.ID, MappingFields{})
	require.NoError(t, err)
	assert.Empty(t, m.Manga, "a fresh row starts unmapped")

	manga := "Chapter 3"
	updated, err := store.UpdateMapping(ctx, series.ID, arc.ID, m.ID, MappingPatch{Manga: &manga})
	require.NoError(t, err)
	assert.Equal(t, "Chapter 3", updated.Manga)
	assert.Empty(t, updated.Anime, "untouched fields keep their value")

	require.NoError(t, store.RemoveMapping(ctx, series.ID, arc.ID, m.ID))
	assert.ErrorIs(t, store.RemoveMapping(ctx, series.ID, arc.ID, m.ID), ErrMappingNotFound)

	got, err := store.FindArc(ctx, series.ID, arc.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Mappings)
}

func TestReplaceSwapsTree(t *testing.T) {
	ctx := context.Background()
	snaps := newTestSnapshots(t)
	store := NewStore(snaps, testSlot)
	store.Load(ctx)

	next := &models.Root{Series: []*models.Series{
		{ID: "series-next", Name: "Next", Arcs: []*models.Arc{}},
	}}
	store.Replace(ctx, next)

	root := store.Load(ctx)
	require.Len(t, root.Series, 1)
	assert.Equal(t, "series-next", root.Series[0].ID)

	reloaded := NewStore(snaps, testSlot).Load(ctx)
	require.Len(t, reloaded.Series, 1)
	assert.Equal(t, "series-next", reloaded.Series[0].ID)
}

func TestLoadReturnsDetachedCopy(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newTestSnapshots(t), testSlot)

	root := store.Load(ctx)
	root.Series[0].Name = "scribbled"
	root.Series[0].Arcs = nil

	fresh := store.Load(ctx)
	assert.Equal(t, "Chronicles of Aether", fresh.Series[0].Name)
	assert.NotEmpty(t, fresh.Series[0].Arcs)
}

func TestConcurrentReadsAndEdits(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newTestSnapshots(t), testSlot)

	series, err := store.AddSeries(ctx, "Busy Saga")
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			_, err := json.Marshal(store.Load(ctx))
			assert.NoError(t, err)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			_, err := store.AddArc(ctx, series.ID, "Arc", "", nil)
			assert.NoError(t, err)
		}
	}()
	wg.Wait()

	got, err := store.FindSeries(ctx, series.ID)
	require.NoError(t, err)
	assert.Len(t, got.Arcs, 50)
}

func TestPersistFailureKeepsMemoryAuthoritative(t *testing.T) {
	ctx := context.Background()
	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "data.db")})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	store := NewStore(database.NewSnapshotStore(db), testSlot)
	store.Load(ctx)

	require.NoError(t, db.Close())

	series, err := store.AddSeries(ctx, "Unsaved Saga")
	require.NoError(t, err, "a failed snapshot write must not fail the edit")

	root := store.Load(ctx)
	assert.NotNil(t, root.FindSeries(series.ID))
}

func TestRemoveSeriesAndArc(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newTestSnapshots(t), testSlot)

	series, _ := store.AddSeries(ctx, "Saga")
	arc, _ := store.AddArc(ctx, series.ID, "Arc", "", nil)

	require.NoError(t, store.RemoveArc(ctx, series.ID, arc.ID))
	assert.ErrorIs(t, store.RemoveArc(ctx, series.ID, arc.ID), ErrArcNotFound)

	require.NoError(t, store.RemoveSeries(ctx, series.ID))
	assert.ErrorIs(t, store.RemoveSeries(ctx, series.ID), ErrSeriesNotFound)
}
