package archive

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-app/inkwell/backend/internal/canvas"
)

func setupStore(t *testing.T) *Store {
	t.Helper()

	store, err := New(filepath.Join(t.TempDir(), "archive.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func someShapes() []canvas.Shape {
	w := 30.0
	return []canvas.Shape{
		{ID: "s1", Kind: canvas.KindFreehand, Points: []canvas.Point{{X: 1, Y: 2}}, StrokeColor: "#000", StrokeWidth: 2, OwnerID: "a"},
		{ID: "s2", Kind: canvas.KindRectangle, Width: &w, StrokeColor: "#fff", StrokeWidth: 1, OwnerID: "b"},
	}
}

func TestSaveAndLoadSnapshot(t *testing.T) {
	store := setupStore(t)

	require.NoError(t, store.SaveSnapshot("studio", "Studio", someShapes()))

	shapes, err := store.LoadSnapshot("studio")
	require.NoError(t, err)
	require.Len(t, shapes, 2)
	assert.Equal(t, "s1", shapes[0].ID)
	assert.Equal(t, canvas.KindFreehand, shapes[0].Kind)
	assert.Equal(t, []canvas.Point{{X: 1, Y: 2}}, shapes[0].Points)
	require.NotNil(t, shapes[1].Width)
	assert.Equal(t, 30.0, *shapes[1].Width)
}

func TestLoadMissingSnapshotReturnsNil(t *testing.T) {
	store := setupStore(t)

	shapes, err := store.LoadSnapshot("never-seen")
	require.NoError(t, err)
	assert.Nil(t, shapes)
}

func TestSaveSnapshotOverwrites(t *testing.T) {
	store := setupStore(t)

	require.NoError(t, store.SaveSnapshot("studio", "Studio", someShapes()))
	require.NoError(t, store.SaveSnapshot("studio", "Studio", []canvas.Shape{{ID: "only"}}))

	shapes, err := store.LoadSnapshot("studio")
	require.NoError(t, err)
	require.Len(t, shapes, 1)
	assert.Equal(t, "only", shapes[0].ID)

	rooms, err := store.ListRooms(10, 0)
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, 1, rooms[0].ShapeCount)
}

func TestDeleteSnapshot(t *testing.T) {
	store := setupStore(t)

	require.NoError(t, store.SaveSnapshot("studio", "Studio", someShapes()))
	require.NoError(t, store.DeleteSnapshot("studio"))

	shapes, err := store.LoadSnapshot("studio")
	require.NoError(t, err)
	assert.Nil(t, shapes)
}

func TestListRoomsAndStats(t *testing.T) {
	store := setupStore(t)

	require.NoError(t, store.SaveSnapshot("one", "One", someShapes()))
	require.NoError(t, store.SaveSnapshot("two", "Two", nil))

	rooms, err := store.ListRooms(10, 0)
	require.NoError(t, err)
	assert.Len(t, rooms, 2)

	stats, err := store.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats["archived_rooms"])
	assert.Equal(t, 2, stats["archived_shapes"])
}

func TestDeleteOlderThan(t *testing.T) {
	store := setupStore(t)

	require.NoError(t, store.SaveSnapshot("stale", "Stale", nil))
	require.NoError(t, store.SaveSnapshot("fresh", "Fresh", nil))

	// a cutoff in the past prunes nothing
	pruned, err := store.DeleteOlderThan(time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Zero(t, pruned)

	// a cutoff in the future prunes everything
	pruned, err = store.DeleteOlderThan(time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 2, pruned)

	rooms, err := store.ListRooms(10, 0)
	require.NoError(t, err)
	assert.Empty(t, rooms)
}

func TestSweeperPrunesStaleRooms(t *testing.T) {
	store := setupStore(t)
	require.NoError(t, store.SaveSnapshot("studio", "Studio", nil))

	sweeper := NewSweeper(store, SweeperConfig{Interval: time.Hour, Retention: -time.Minute})
	sweeper.SweepNow()

	rooms, err := store.ListRooms(10, 0)
	require.NoError(t, err)
	assert.Empty(t, rooms)
}
