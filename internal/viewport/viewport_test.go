package viewport

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"venue-designer/pkg/geometry"
)

func TestScreenCanvasRoundTrip(t *testing.T) {
	v := Viewport{Width: 800, Height: 600, Zoom: 2.5, Pan: geometry.NewPoint2D(-120, 40)}
	p := geometry.NewPoint2D(333, 71)

	c := v.ScreenToCanvas(p)
	assert.InDelta(t, (333+120)/2.5, c.X, 1e-9)
	assert.InDelta(t, (71-40)/2.5, c.Y, 1e-9)

	back := v.CanvasToScreen(c)
	assert.InDelta(t, p.X, back.X, 1e-9)
	assert.InDelta(t, p.Y, back.Y, 1e-9)
}

func TestZoomAtKeepsCursorFixed(t *testing.T) {
	v := New(800, 600)
	cursor := geometry.NewPoint2D(200, 150)
	before := v.ScreenToCanvas(cursor)

	v = v.ZoomAt(ZoomStep, cursor)
	after := v.ScreenToCanvas(cursor)
	assert.InDelta(t, before.X, after.X, 1e-9)
	assert.InDelta(t, before.Y, after.Y, 1e-9)

	v = v.ZoomAt(1000, cursor)
	assert.Equal(t, MaxZoom, v.Zoom)
	v = v.ZoomAt(1e-6, cursor)
	assert.Equal(t, MinZoom, v.Zoom)
}

func TestFitAreaBounds(t *testing.T) {
	v := New(800, 600)
	bounds := geometry.NewRect(50, 70, 200, 200)

	v = v.Fit(bounds, 100, 2.4)
	assert.InDelta(t, 2, v.Zoom, 1e-9)

	center := v.CanvasToScreen(bounds.Center())
	assert.InDelta(t, 400, center.X, 1e-9)
	assert.InDelta(t, 300, center.Y, 1e-9)
}

func TestFitCapsZoom(t *testing.T) {
	v := New(800, 600).Fit(geometry.NewRect(0, 0, 10, 10), 100, 2.4)
	assert.InDelta(t, 2.4, v.Zoom, 1e-9)

	// A horizontal line only constrains the width.
	v = New(800, 600).Fit(geometry.NewRect(0, 0, 300, 0), 100, 2.4)
	assert.InDelta(t, 2, v.Zoom, 1e-9)
}

func TestVisibleRect(t *testing.T) {
	v := Viewport{Width: 100, Height: 50, Zoom: 2, Pan: geometry.NewPoint2D(10, 10)}
	assert.Equal(t, geometry.NewRect(-5, -5, 50, 25), v.VisibleRect())
}

func TestTransformMatchesCanvasToScreen(t *testing.T) {
	v := New(800, 600).ZoomAt(1.5, geometry.NewPoint2D(120, 80)).PanBy(geometry.NewPoint2D(-30, 12))
	p := geometry.NewPoint2D(42, -7)

	want := v.CanvasToScreen(p)
	got := v.Transform().Apply(p)
	assert.InDelta(t, want.X, got.X, 1e-9)
	assert.InDelta(t, want.Y, got.Y, 1e-9)
}
