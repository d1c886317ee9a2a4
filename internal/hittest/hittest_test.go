package hittest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venue-designer/internal/shape"
	"venue-designer/pkg/geometry"
)

func pt(x, y float64) geometry.Point2D { return geometry.NewPoint2D(x, y) }

func TestRectRegion(t *testing.T) {
	r := &shape.Rect{Base: shape.NewBase("r", 0, 0), Width: 100, Height: 50}
	assert.True(t, Contains(r, pt(50, 25)))
	assert.True(t, Contains(r, pt(2, 2)))
	assert.False(t, Contains(r, pt(150, 25)))

	r.CornerRadius = 20
	assert.False(t, Contains(r, pt(2, 2)), "outside the rounded corner")
	assert.True(t, Contains(r, pt(50, 2)))
}

func TestRotatedRect(t *testing.T) {
	r := &shape.Rect{Base: shape.NewBase("r", 0, 0), Width: 100, Height: 50}
	r.Rotation = 90
	assert.True(t, Contains(r, pt(-25, 50)))
	assert.False(t, Contains(r, pt(50, 25)))
}

func TestScaledShapesHitInCanvasUnits(t *testing.T) {
	r := &shape.Rect{Base: shape.NewBase("r", 0, 0), Width: 1, Height: 1}
	r.ScaleX, r.ScaleY = 20, 20
	assert.True(t, Contains(r, pt(1, 1)))
	assert.True(t, Contains(r, pt(19, 19)))
	assert.False(t, Contains(r, pt(21, 10)))

	c := &shape.Circle{Base: shape.NewBase("c", 0, 0), Radius: 1}
	c.ScaleX, c.ScaleY = 10, 10
	assert.True(t, Contains(c, pt(6, 6)))
	assert.False(t, Contains(c, pt(8, 8)))
}

func TestOpenPolygonFill(t *testing.T) {
	square := &shape.Polygon{
		Base:   shape.NewBase("p", 0, 0),
		Points: []geometry.Point2D{{}, {X: 100}, {X: 100, Y: 100}, {Y: 100}},
	}
	assert.True(t, Contains(square, pt(50, 50)))
	square.Closed = true
	assert.True(t, Contains(square, pt(50, 50)))
}

func TestCircleRegion(t *testing.T) {
	c := &shape.Circle{Base: shape.NewBase("c", 100, 100), Radius: 10}
	assert.True(t, Contains(c, pt(105, 105)))
	assert.False(t, Contains(c, pt(108, 108)))

	c.Radius = 0
	assert.False(t, Contains(c, pt(100, 100)))
}

func TestPolygonRegion(t *testing.T) {
	tri := &shape.Polygon{
		Base:   shape.NewBase("p", 10, 10),
		Points: []geometry.Point2D{{X: 0, Y: 0}, {X: 40, Y: 0}, {X: 0, Y: 40}},
		Closed: true,
	}
	assert.True(t, Contains(tri, pt(20, 20)))
	assert.False(t, Contains(tri, pt(45, 45)))

	tri.Closed = false
	assert.True(t, Contains(tri, pt(20, 20)), "fill still covers an open path")

	tri.Points = tri.Points[:1]
	assert.False(t, Contains(tri, pt(10, 10)))
}

func TestPolygonStroke(t *testing.T) {
	line := &shape.Polygon{
		Base:        shape.NewBase("l", 0, 0),
		Points:      []geometry.Point2D{{X: 0, Y: 0}, {X: 100, Y: 0}},
		StrokeWidth: 6,
	}
	assert.True(t, Contains(line, pt(50, 2)))
	assert.False(t, Contains(line, pt(50, 5)))
}

func TestTextRegion(t *testing.T) {
	txt := &shape.Text{Base: shape.NewBase("t", 0, 0), Text: "abc", FontSize: 10}
	assert.True(t, Contains(txt, pt(10, 6)))
	assert.False(t, Contains(txt, pt(20, 6)))

	txt.Width = 40
	assert.True(t, Contains(txt, pt(30, 6)))

	txt.Text, txt.Width = "", 0
	assert.False(t, Contains(txt, pt(0.5, 0.5)))
}

func TestInvisibleNeverHit(t *testing.T) {
	r := &shape.Rect{Base: shape.NewBase("r", 0, 0), Width: 10, Height: 10}
	r.Visible = false
	assert.False(t, Contains(r, pt(5, 5)))
}

func TestTopmostAt(t *testing.T) {
	back := &shape.Rect{Base: shape.NewBase("back", 0, 0), Width: 100, Height: 100}
	front := &shape.Rect{Base: shape.NewBase("front", 50, 50), Width: 100, Height: 100}
	shapes := []shape.Shape{back, front}

	assert.Equal(t, front, TopmostAt(shapes, pt(75, 75), nil))
	assert.Equal(t, back, TopmostAt(shapes, pt(25, 25), nil))
	assert.Nil(t, TopmostAt(shapes, pt(500, 500), nil))

	onlyBack := func(s shape.Shape) bool { return shape.ID(s) == "back" }
	assert.Equal(t, back, TopmostAt(shapes, pt(75, 75), onlyBack))
}

func TestSeatAt(t *testing.T) {
	area := &shape.Polygon{
		Base:   shape.NewBase("a", 100, 100),
		Points: []geometry.Point2D{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 100}, {X: 0, Y: 100}},
		Closed: true,
		Area:   shape.NewArea(pt(50, 50)),
	}
	area.Rows = []shape.Row{{
		ID: "row", Name: "A", Area: "a",
		Seats: []shape.Seat{
			{ID: "s1", X: -20, Y: 0, Radius: 8, Row: "A", Visible: true},
			{ID: "s2", X: 0, Y: 0, Radius: 8, Row: "A", Visible: true},
		},
	}}

	ref, ok := SeatAt(area, pt(150, 150))
	require.True(t, ok)
	assert.Equal(t, SeatRef{Row: 0, Seat: 1}, ref)

	ref, ok = SeatAt(area, pt(131, 150))
	require.True(t, ok)
	assert.Equal(t, 0, ref.Seat)

	_, ok = SeatAt(area, pt(150, 170))
	assert.False(t, ok)

	_, ok = SeatAt(nil, pt(0, 0))
	assert.False(t, ok)
}

func TestRecorderBounds(t *testing.T) {
	var rec Recorder
	RoundedRect(&rec, 30, 20, 4)
	assert.Equal(t, geometry.NewRect(0, 0, 30, 20), rec.Bounds())

	var empty Recorder
	RoundedRect(&empty, 0, 20, 0)
	assert.True(t, empty.Empty())
}
