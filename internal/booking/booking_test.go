package booking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venue-designer/internal/shape"
	"venue-designer/pkg/geometry"
)

func seatedArea() *shape.Polygon {
	p := &shape.Polygon{
		Base:   shape.NewBase("area-1", 0, 0),
		Points: []geometry.Point2D{{}, {X: 100}, {X: 100, Y: 100}, {Y: 100}},
		Closed: true,
		Area:   shape.NewArea(geometry.NewPoint2D(50, 50)),
	}
	p.Rows = []shape.Row{{ID: "row-1", Name: "A", Area: "area-1", Seats: []shape.Seat{
		{ID: "s1", Number: 1, Row: "A", Visible: true},
		{ID: "s2", Number: 2, Row: "A", Visible: true},
		{ID: "s3", Number: 3, Row: "A", Visible: true},
	}}}
	return p
}

func TestApplyStatus(t *testing.T) {
	area := seatedArea()
	stage := &shape.Rect{Base: shape.NewBase("stage", 0, 200), Width: 100, Height: 20}
	shapes := []shape.Shape{stage, area}

	src := NewStaticSource()
	src.Set("hall", "s1", shape.SeatSold)
	src.Set("hall", "s3", shape.SeatHeld)
	src.Set("other", "s2", shape.SeatSold)

	statuses, err := src.Statuses(context.Background(), "hall")
	require.NoError(t, err)

	out := ApplyStatus(shapes, statuses)
	require.Len(t, out, 2)
	assert.Same(t, stage, out[0])

	got := out[1].(*shape.Polygon)
	assert.Equal(t, shape.SeatSold, got.Rows[0].Seats[0].Status)
	assert.Equal(t, shape.SeatAvailable, got.Rows[0].Seats[1].Status)
	assert.Equal(t, shape.SeatHeld, got.Rows[0].Seats[2].Status)

	// Input untouched.
	assert.Empty(t, area.Rows[0].Seats[0].Status)

	assert.Equal(t, map[shape.SeatStatus]int{
		shape.SeatSold:      1,
		shape.SeatHeld:      1,
		shape.SeatAvailable: 1,
	}, Counts(out))
}

func TestParseStatus(t *testing.T) {
	st, ok := ParseStatus("held")
	assert.True(t, ok)
	assert.Equal(t, shape.SeatHeld, st)

	_, ok = ParseStatus("reserved")
	assert.False(t, ok)
}

func TestSeatsKey(t *testing.T) {
	assert.Equal(t, "venue:abc:seats", SeatsKey("abc"))
}

func TestRedisUnreachable(t *testing.T) {
	_, err := NewRedisSource(context.Background(), "127.0.0.1:1", "", 0)
	assert.Error(t, err)
}

func TestStaticSourceStore(t *testing.T) {
	var store Store = NewStaticSource()
	ctx := context.Background()
	require.NoError(t, store.SetStatus(ctx, "hall", "s1", shape.SeatHeld))

	got, err := store.Statuses(ctx, "hall")
	require.NoError(t, err)
	assert.Equal(t, map[string]shape.SeatStatus{"s1": shape.SeatHeld}, got)

	got["s1"] = shape.SeatSold
	again, _ := store.Statuses(ctx, "hall")
	assert.Equal(t, shape.SeatHeld, again["s1"], "callers get a copy")

	other, err := store.Statuses(ctx, "other")
	require.NoError(t, err)
	assert.Empty(t, other)
}
