package editor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venue-designer/internal/app"
	"venue-designer/internal/shape"
	"venue-designer/internal/textmeasure"
	"venue-designer/pkg/geometry"
)

func pt(x, y float64) geometry.Point2D { return geometry.NewPoint2D(x, y) }

type harness struct {
	t     *testing.T
	d     *Dispatcher
	store *app.State
	clock time.Time
}

func newHarness(t *testing.T) *harness {
	store := app.NewState(0)
	store.SetViewportSize(800, 600)
	h := &harness{t: t, store: store, clock: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	h.d = NewDispatcher(store, DefaultOptions(), textmeasure.Approx{}, shape.SequentialIDs())
	h.d.SetClock(func() time.Time { return h.clock })
	return h
}

// screen maps a canvas point through the current viewport.
func (h *harness) screen(p geometry.Point2D) geometry.Point2D {
	return h.store.Viewport().CanvasToScreen(p)
}

func (h *harness) down(p geometry.Point2D, mods Modifier) {
	h.d.PointerDown(PointerEvent{Screen: h.screen(p), Mods: mods, Time: h.clock})
}

func (h *harness) move(p geometry.Point2D) {
	h.clock = h.clock.Add(20 * time.Millisecond)
	h.d.PointerMove(PointerEvent{Screen: h.screen(p), Time: h.clock})
}

func (h *harness) up(p geometry.Point2D) {
	h.d.PointerUp(PointerEvent{Screen: h.screen(p), Time: h.clock})
}

// click presses and releases at p, one second after the previous event.
func (h *harness) click(p geometry.Point2D) {
	h.clock = h.clock.Add(time.Second)
	h.down(p, 0)
	h.up(p)
}

func (h *harness) drag(from, to geometry.Point2D) {
	h.clock = h.clock.Add(time.Second)
	h.down(from, 0)
	h.move(to)
	h.up(to)
}

func addRect(store *app.State, id string, x, y, w, hgt float64) {
	store.AddShape(&shape.Rect{Base: shape.NewBase(id, x, y), Width: w, Height: hgt})
}

func addArea(store *app.State, id string) {
	store.AddShape(&shape.Polygon{
		Base:   shape.NewBase(id, 0, 0),
		Points: []geometry.Point2D{{}, {X: 200}, {X: 200, Y: 200}, {Y: 200}},
		Closed: true,
		Area:   shape.NewArea(pt(100, 100)),
	})
}

func TestDrawRect(t *testing.T) {
	h := newHarness(t)
	h.store.SetTool(app.ToolRect)

	h.clock = h.clock.Add(time.Second)
	h.down(pt(10, 10), 0)
	h.move(pt(60, 40))
	assert.Equal(t, DrawingShape, h.d.State())
	pv := h.d.Preview()
	require.NotNil(t, pv.Shape)
	assert.Equal(t, 50.0, pv.Shape.(*shape.Rect).Width)
	h.up(pt(60, 40))

	shapes := h.store.Shapes()
	require.Len(t, shapes, 1)
	r := shapes[0].(*shape.Rect)
	assert.Equal(t, pt(10, 10), r.Position())
	assert.Equal(t, 50.0, r.Width)
	assert.Equal(t, 30.0, r.Height)
	assert.Equal(t, []string{r.ID}, h.store.Selected())
	assert.True(t, h.store.CanUndo())
	assert.Equal(t, Idle, h.d.State())
}

func TestDrawBelowMinimumIsDiscarded(t *testing.T) {
	h := newHarness(t)
	h.store.SetTool(app.ToolRect)
	h.drag(pt(10, 10), pt(14, 13))
	assert.Empty(t, h.store.Shapes())
	assert.False(t, h.store.CanUndo())
}

func TestDrawCircle(t *testing.T) {
	h := newHarness(t)
	h.store.SetTool(app.ToolCircle)
	h.drag(pt(0, 0), pt(40, 20))

	shapes := h.store.Shapes()
	require.Len(t, shapes, 1)
	c := shapes[0].(*shape.Circle)
	assert.Equal(t, pt(20, 10), c.Position())
	assert.Equal(t, 20.0, c.Radius)
}

func TestPlaceText(t *testing.T) {
	h := newHarness(t)
	h.store.SetTool(app.ToolText)
	h.click(pt(30, 40))

	shapes := h.store.Shapes()
	require.Len(t, shapes, 1)
	txt := shapes[0].(*shape.Text)
	assert.Equal(t, DefaultText, txt.Text)
	assert.InDelta(t, textmeasure.ApproxWidth(DefaultText, DefaultFontSize), txt.Width, 1e-9)
	assert.Equal(t, pt(30, 40), txt.Position())
}

func TestPolygonCloses(t *testing.T) {
	h := newHarness(t)
	h.store.SetTool(app.ToolPolygon)

	h.click(pt(0, 0))
	h.click(pt(100, 0))
	h.click(pt(100, 100))
	assert.Equal(t, DrawingPolygon, h.d.State())
	assert.Empty(t, h.store.Shapes(), "nothing committed before closing")

	h.move(pt(6, 4))
	assert.True(t, h.d.Preview().Closing)

	h.click(pt(5, 5))
	assert.Equal(t, Idle, h.d.State())

	shapes := h.store.Shapes()
	require.Len(t, shapes, 1)
	p := shapes[0].(*shape.Polygon)
	assert.True(t, p.Closed)
	require.True(t, p.IsArea())
	assert.Empty(t, p.Rows)
	require.Len(t, p.Points, 3)
	assert.InDelta(t, 100, p.Points[2].X, 1e-9)
	assert.InDelta(t, 100.0/3*2, p.Center.X, 1e-9)
	assert.InDelta(t, 100.0/3, p.Center.Y, 1e-9)
}

func TestPolygonWithTwoPointsIsNotClosed(t *testing.T) {
	h := newHarness(t)
	h.store.SetTool(app.ToolPolygon)

	h.click(pt(0, 0))
	h.click(pt(100, 0))
	h.click(pt(5, 5))
	assert.Empty(t, h.store.Shapes())
	assert.Equal(t, Idle, h.d.State())
}

func TestPolygonEscapeAndEnter(t *testing.T) {
	h := newHarness(t)
	h.store.SetTool(app.ToolPolygon)

	h.click(pt(0, 0))
	h.click(pt(100, 0))
	assert.True(t, h.d.KeyDown(KeyEvent{Key: KeyEscape}))
	assert.Equal(t, Idle, h.d.State())
	assert.Empty(t, h.store.Shapes())

	h.click(pt(0, 0))
	h.click(pt(100, 0))
	h.click(pt(100, 80))
	assert.True(t, h.d.KeyDown(KeyEvent{Key: KeyEnter}))
	assert.Len(t, h.store.Shapes(), 1)
}

func TestToolChangeCancelsGesture(t *testing.T) {
	h := newHarness(t)
	h.store.SetTool(app.ToolPolygon)
	h.click(pt(0, 0))
	h.click(pt(50, 0))
	h.store.SetTool(app.ToolSelect)
	assert.Equal(t, Idle, h.d.State())
	assert.Nil(t, h.d.Preview().Polygon)
}

func TestRigidGroupDrag(t *testing.T) {
	h := newHarness(t)
	addRect(h.store, "a", 0, 0, 10, 10)
	addRect(h.store, "b", 37.5, 12.25, 10, 10)
	addRect(h.store, "c", 100.1, -3.3, 10, 10)
	h.store.SelectMultipleShapes([]string{"a", "b", "c"})
	starts := map[string]geometry.Point2D{}
	for _, s := range h.store.Shapes() {
		starts[shape.ID(s)] = s.Common().Position()
	}

	anchor := pt(5, 5)
	h.clock = h.clock.Add(time.Second)
	h.down(anchor, 0)
	for _, p := range []geometry.Point2D{pt(12, 9), pt(-33.3, 7.7), pt(45.5, 20.25)} {
		h.move(p)
	}
	final := pt(45.5, 20.25)
	h.up(final)

	delta := final.Sub(anchor)
	for _, s := range h.store.Shapes() {
		id := shape.ID(s)
		assert.Equal(t, starts[id].Add(delta), s.Common().Position(), id)
	}
	assert.Equal(t, []string{"a", "b", "c"}, h.store.Selected())
	assert.True(t, h.store.CanUndo())
}

func TestClickWithoutMoveRecordsNoHistory(t *testing.T) {
	h := newHarness(t)
	addRect(h.store, "a", 0, 0, 10, 10)
	h.click(pt(5, 5))
	assert.Equal(t, []string{"a"}, h.store.Selected())
	assert.False(t, h.store.CanUndo())
}

func TestStageClickClearsSelection(t *testing.T) {
	h := newHarness(t)
	addRect(h.store, "a", 0, 0, 10, 10)
	h.store.SelectShape("a", false)

	h.clock = h.clock.Add(time.Second)
	h.down(pt(300, 300), ModShift)
	h.up(pt(300, 300))
	assert.Equal(t, []string{"a"}, h.store.Selected(), "modifier keeps the selection")

	h.click(pt(300, 300))
	assert.Empty(t, h.store.Selected())
}

func TestShiftClickToggles(t *testing.T) {
	h := newHarness(t)
	addRect(h.store, "a", 0, 0, 10, 10)
	addRect(h.store, "b", 50, 0, 10, 10)

	h.click(pt(5, 5))
	h.clock = h.clock.Add(time.Second)
	h.down(pt(55, 5), ModShift)
	h.up(pt(55, 5))
	assert.Equal(t, []string{"a", "b"}, h.store.Selected())

	h.clock = h.clock.Add(time.Second)
	h.down(pt(5, 5), ModShift)
	h.up(pt(5, 5))
	assert.Equal(t, []string{"b"}, h.store.Selected())
}

func TestRubberBand(t *testing.T) {
	h := newHarness(t)
	addRect(h.store, "near", 0, 0, 10, 10)
	addRect(h.store, "far", 100, 100, 10, 10)

	h.drag(pt(-5, -5), pt(25, 25))
	assert.Equal(t, []string{"near"}, h.store.Selected())
	assert.Equal(t, Idle, h.d.State())
	assert.Nil(t, h.d.Preview().Band)
}

func TestDoubleClickEntersAreaMode(t *testing.T) {
	h := newHarness(t)
	addArea(h.store, "hall")

	h.click(pt(50, 50))
	h.clock = h.clock.Add(400 * time.Millisecond)
	h.down(pt(50, 50), 0)
	h.up(pt(50, 50))
	assert.False(t, h.store.Mode().Active(), "too slow for a double click")

	h.clock = h.clock.Add(200 * time.Millisecond)
	h.down(pt(50, 50), 0)
	h.up(pt(50, 50))
	require.True(t, h.store.Mode().Active())
	assert.Equal(t, "hall", h.store.Mode().AreaID)
	assert.InDelta(t, 2, h.store.Viewport().Zoom, 1e-9)

	assert.True(t, h.d.KeyDown(KeyEvent{Key: KeyEscape}))
	assert.False(t, h.store.Mode().Active())
}

func TestDoubleClickNeedsSameTarget(t *testing.T) {
	h := newHarness(t)
	addArea(h.store, "hall")
	h.click(pt(300, 300))
	h.clock = h.clock.Add(100 * time.Millisecond)
	h.down(pt(50, 50), 0)
	h.up(pt(50, 50))
	assert.False(t, h.store.Mode().Active())
}

func enterArea(t *testing.T, h *harness) {
	addArea(h.store, "hall")
	require.True(t, h.d.EnterArea("hall"))
}

func TestSeatRowGesture(t *testing.T) {
	h := newHarness(t)
	enterArea(t, h)
	require.True(t, h.store.SetTool(app.ToolSeatRow))

	h.click(pt(20, 100))
	assert.Equal(t, DrawingSeatRow, h.d.State())
	h.move(pt(130, 100))
	pv := h.d.Preview()
	assert.Len(t, pv.Seats, 5)
	assert.Equal(t, 8.0, pv.SeatRadius)

	h.click(pt(130, 100))
	assert.Equal(t, Idle, h.d.State())

	area := h.store.ZoomedArea()
	require.NotNil(t, area)
	require.Len(t, area.Rows, 1)
	row := area.Rows[0]
	assert.Equal(t, "A", row.Name)
	assert.Equal(t, "hall", row.Area)
	require.Len(t, row.Seats, 5)
	assert.InDelta(t, -80, row.Seats[0].X, 1e-6)
	assert.InDelta(t, 0, row.Seats[0].Y, 1e-6)
	assert.Equal(t, 1, row.Seats[0].Number)
	assert.Equal(t, 5, row.Seats[4].Number)
	assert.Len(t, h.store.Mode().SelectedSeatIDs, 5)
	assert.True(t, h.store.CanUndo())

	// A second row with the same label merges into row A.
	h.click(pt(20, 140))
	h.click(pt(70, 140))
	area = h.store.ZoomedArea()
	require.Len(t, area.Rows, 1)
	assert.Len(t, area.Rows[0].Seats, 7)
}

func TestSeatGridGesture(t *testing.T) {
	h := newHarness(t)
	enterArea(t, h)
	require.True(t, h.store.SetTool(app.ToolSeatGrid))

	h.click(pt(20, 20))
	h.click(pt(125, 20))
	assert.Equal(t, DrawingSeatGrid, h.d.State())
	h.click(pt(20, 85))

	area := h.store.ZoomedArea()
	require.NotNil(t, area)
	require.Len(t, area.Rows, 2)
	assert.Equal(t, "A", area.Rows[0].Name)
	assert.Equal(t, "B", area.Rows[1].Name)
	assert.Equal(t, 10, area.SeatCount())
	assert.Empty(t, shape.Validate(h.store.Shapes()))
}

func TestSeatGestureIgnoredOutsideArea(t *testing.T) {
	h := newHarness(t)
	assert.False(t, h.store.SetTool(app.ToolSeatRow))
	h.click(pt(10, 10))
	assert.Equal(t, Idle, h.d.State())
}

func TestSeatSelectDragAndDelete(t *testing.T) {
	h := newHarness(t)
	enterArea(t, h)
	h.store.SetTool(app.ToolSeatRow)
	h.click(pt(20, 100))
	h.click(pt(130, 100))
	h.store.SetTool(app.ToolSelect)
	require.Len(t, h.store.Mode().SelectedSeatIDs, 5, "new seats start selected")

	// Clear, click the first seat, then drag it.
	h.click(pt(100, 300))
	assert.Empty(t, h.store.Mode().SelectedSeatIDs)
	h.click(pt(20, 100))
	mode := h.store.Mode()
	require.Len(t, mode.SelectedSeatIDs, 1)
	seatID := mode.SelectedSeatIDs[0]

	h.drag(pt(20, 100), pt(20, 110))
	area := h.store.ZoomedArea()
	assert.InDelta(t, 10, area.Rows[0].Seats[0].Y, 1e-6)

	assert.True(t, h.d.KeyDown(KeyEvent{Key: KeyDelete}))
	area = h.store.ZoomedArea()
	require.Len(t, area.Rows, 1)
	assert.Len(t, area.Rows[0].Seats, 4)
	for _, s := range area.Rows[0].Seats {
		assert.NotEqual(t, seatID, s.ID)
	}
	assert.Empty(t, h.store.Mode().SelectedSeatIDs)
}

func TestSeatRubberBand(t *testing.T) {
	h := newHarness(t)
	enterArea(t, h)
	h.store.SetTool(app.ToolSeatRow)
	h.click(pt(20, 100))
	h.click(pt(130, 100))
	h.store.SetTool(app.ToolSelect)
	h.click(pt(150, 180))

	h.drag(pt(10, 90), pt(50, 110))
	assert.Len(t, h.store.Mode().SelectedSeatIDs, 2)
}

func TestSeatGestureStartsInsideArea(t *testing.T) {
	h := newHarness(t)
	enterArea(t, h)
	require.True(t, h.store.SetTool(app.ToolSeatRow))

	h.click(pt(250, 100))
	assert.Equal(t, Idle, h.d.State())
	h.click(pt(300, 100))
	assert.Empty(t, h.store.ZoomedArea().Rows)

	h.click(pt(20, 100))
	assert.Equal(t, DrawingSeatRow, h.d.State())
	h.click(pt(250, 100))
	assert.NotEmpty(t, h.store.ZoomedArea().Rows, "later anchors may leave the outline")
}

func TestRotateHandle(t *testing.T) {
	h := newHarness(t)
	addRect(h.store, "r", 0, 0, 100, 50)
	h.store.SelectShape("r", false)

	h.clock = h.clock.Add(time.Second)
	h.down(pt(50, -20), 0)
	require.Equal(t, Transforming, h.d.State())
	h.move(pt(95, 25))
	h.up(pt(95, 25))

	r := h.store.Shape("r").(*shape.Rect)
	assert.InDelta(t, 90, r.Rotation, 1e-9)
	c := visualCenter(r)
	assert.InDelta(t, 50, c.X, 1e-9)
	assert.InDelta(t, 25, c.Y, 1e-9)
	assert.True(t, h.store.CanUndo())
}

func TestResizeHandle(t *testing.T) {
	h := newHarness(t)
	addRect(h.store, "r", 0, 0, 100, 50)
	h.store.SelectShape("r", false)

	h.drag(pt(100, 50), pt(120, 70))
	r := h.store.Shape("r").(*shape.Rect)
	assert.InDelta(t, 120, r.Width, 1e-9)
	assert.InDelta(t, 70, r.Height, 1e-9)

	h.drag(pt(0, 0), pt(200, 10))
	r = h.store.Shape("r").(*shape.Rect)
	assert.InDelta(t, DefaultOptions().MinShapeSize, r.Width, 1e-9)
	assert.InDelta(t, 115, r.X, 1e-9)
}

func TestNormalizeDegrees(t *testing.T) {
	assert.Equal(t, 90.0, normalizeDegrees(450))
	assert.Equal(t, 180.0, normalizeDegrees(-180))
	assert.Equal(t, -90.0, normalizeDegrees(270))
}

func TestDeleteAndUndoKeys(t *testing.T) {
	h := newHarness(t)
	h.store.SetTool(app.ToolRect)
	h.drag(pt(0, 0), pt(50, 50))
	require.Len(t, h.store.Shapes(), 1)

	assert.True(t, h.d.KeyDown(KeyEvent{Key: KeyDelete}))
	assert.Empty(t, h.store.Shapes())

	assert.True(t, h.d.KeyDown(KeyEvent{Key: KeyZ, Mods: ModCtrl}))
	assert.Len(t, h.store.Shapes(), 1)
	assert.True(t, h.d.KeyDown(KeyEvent{Key: KeyZ, Mods: ModCtrl | ModShift}))
	assert.Empty(t, h.store.Shapes())
	assert.True(t, h.d.KeyDown(KeyEvent{Key: KeyZ, Mods: ModCtrl}))
	assert.True(t, h.d.KeyDown(KeyEvent{Key: KeyZ, Mods: ModCtrl}))
	assert.Empty(t, h.store.Shapes())
	assert.True(t, h.d.KeyDown(KeyEvent{Key: KeyY, Mods: ModCtrl}))
	assert.Len(t, h.store.Shapes(), 1)
}

func TestWheelAndPan(t *testing.T) {
	h := newHarness(t)
	cursor := pt(200, 100)
	before := h.store.Viewport().ScreenToCanvas(cursor)
	h.d.Wheel(WheelEvent{Screen: cursor, DY: 1})
	v := h.store.Viewport()
	assert.Greater(t, v.Zoom, 1.0)
	after := v.ScreenToCanvas(cursor)
	assert.InDelta(t, before.X, after.X, 1e-9)
	assert.InDelta(t, before.Y, after.Y, 1e-9)

	h.store.SetViewport(h.store.Viewport().ZoomAt(1/v.Zoom, cursor))
	pan := h.store.Viewport().Pan
	h.d.PointerDown(PointerEvent{Screen: pt(0, 0), Button: ButtonMiddle})
	h.d.PointerMove(PointerEvent{Screen: pt(30, 40), Button: ButtonMiddle})
	h.d.PointerUp(PointerEvent{Screen: pt(30, 40), Button: ButtonMiddle})
	assert.Equal(t, pan.Add(pt(30, 40)), h.store.Viewport().Pan)
	assert.Equal(t, Idle, h.d.State())
}

func TestPanResumesPolygon(t *testing.T) {
	h := newHarness(t)
	h.store.SetTool(app.ToolPolygon)
	h.click(pt(0, 0))
	h.d.PointerDown(PointerEvent{Screen: pt(0, 0), Button: ButtonMiddle})
	assert.Equal(t, Panning, h.d.State())
	h.d.PointerUp(PointerEvent{Screen: pt(0, 0), Button: ButtonMiddle})
	assert.Equal(t, DrawingPolygon, h.d.State())
}

func TestInsertShape(t *testing.T) {
	h := newHarness(t)
	addRect(h.store, "img", 0, 0, 10, 10)

	id, ok := h.d.InsertShape(&shape.Rect{Base: shape.NewBase("img", 0, 0), Width: 40, Height: 30}, pt(200, 150))
	require.True(t, ok)
	assert.NotEqual(t, "img", id)
	assert.Equal(t, pt(200, 150), h.store.Shape(id).Common().Position())
	assert.Equal(t, []string{id}, h.store.Selected())

	_, ok = h.d.InsertShape(nil, pt(0, 0))
	assert.False(t, ok)
}

func TestInsertAreaCopyKeepsIDsUnique(t *testing.T) {
	h := newHarness(t)
	area := &shape.Polygon{
		Base:   shape.NewBase("a1", 0, 0),
		Points: []geometry.Point2D{{}, {X: 200}, {X: 200, Y: 200}, {Y: 200}},
		Closed: true,
		Area:   shape.NewArea(pt(100, 100)),
	}
	area.Rows = []shape.Row{{ID: "row-x", Name: "A", Area: "a1", Seats: []shape.Seat{
		{ID: "seat-x", Radius: 8, Row: "A", Number: 1, Visible: true},
	}}}
	require.True(t, h.store.AddShape(area))

	id, ok := h.d.InsertShape(area, pt(400, 0))
	require.True(t, ok)
	assert.Empty(t, shape.Validate(h.store.Shapes()))

	inserted := h.store.Shape(id).(*shape.Polygon)
	require.Len(t, inserted.Rows, 1)
	assert.Equal(t, id, inserted.Rows[0].Area)
	assert.NotEqual(t, "row-x", inserted.Rows[0].ID)
	assert.NotEqual(t, "seat-x", inserted.Rows[0].Seats[0].ID)
	assert.Equal(t, "row-x", area.Rows[0].ID, "the source shape is untouched")
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "drawing-seat-grid", DrawingSeatGrid.String())
	assert.Equal(t, "unknown", State(99).String())
}
