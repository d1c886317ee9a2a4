package layoutdb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venue-designer/internal/project"
	"venue-designer/internal/shape"
	"venue-designer/pkg/geometry"
)

func openLibrary(t *testing.T) *Library {
	lib, err := Open(context.Background(), filepath.Join(t.TempDir(), "lib", "library.db"))
	require.NoError(t, err)
	t.Cleanup(func() { lib.Close() })
	return lib
}

func hallDoc() *project.Document {
	doc := project.New("Main Hall")
	area := &shape.Polygon{
		Base:   shape.NewBase("area-1", 0, 0),
		Points: []geometry.Point2D{{}, {X: 100}, {X: 100, Y: 100}},
		Closed: true,
		Area:   shape.NewArea(geometry.NewPoint2D(66, 33)),
	}
	area.Rows = []shape.Row{{ID: "row-1", Name: "A", Area: "area-1", Seats: []shape.Seat{
		{ID: "seat-1", Row: "A", Number: 1, Visible: true},
		{ID: "seat-2", Row: "A", Number: 2, Visible: true},
	}}}
	doc.Shapes = shape.List{area}
	return doc
}

func TestSaveLoad(t *testing.T) {
	ctx := context.Background()
	lib := openLibrary(t)

	doc := hallDoc()
	id, err := lib.Save(ctx, doc)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, doc.ID)

	loaded, err := lib.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Main Hall", loaded.Name)
	assert.Equal(t, []shape.Shape(doc.Shapes), []shape.Shape(loaded.Shapes))
}

func TestSaveReplaces(t *testing.T) {
	ctx := context.Background()
	lib := openLibrary(t)

	doc := hallDoc()
	id, err := lib.Save(ctx, doc)
	require.NoError(t, err)

	doc.Name = "Renamed"
	again, err := lib.Save(ctx, doc)
	require.NoError(t, err)
	assert.Equal(t, id, again)

	entries, err := lib.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Renamed", entries[0].Name)
	assert.Equal(t, 2, entries[0].Seats)
	assert.False(t, entries[0].Modified.IsZero())
}

func TestNotFound(t *testing.T) {
	ctx := context.Background()
	lib := openLibrary(t)

	_, err := lib.Load(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, lib.Delete(ctx, "nope"), ErrNotFound)

	id, err := lib.Save(ctx, hallDoc())
	require.NoError(t, err)
	require.NoError(t, lib.Delete(ctx, id))
	entries, err := lib.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
