package canvas

import (
	"image"
	"image/color"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venue-designer/internal/app"
	"venue-designer/internal/editor"
	"venue-designer/internal/floorplan"
	"venue-designer/internal/shape"
	"venue-designer/internal/viewport"
	"venue-designer/pkg/geometry"
	"venue-designer/ui/render"
)

func newTestCanvas(t *testing.T) (*EditorCanvas, *app.State) {
	test.NewApp()
	st := app.NewState(0)
	disp := editor.NewDispatcher(st, editor.DefaultOptions(), nil, shape.SequentialIDs())
	ec := NewEditorCanvas(st, disp, render.NewPainter(nil))
	ec.Resize(fyne.NewSize(800, 600))
	return ec, st
}

func mouse(x, y float32, b desktop.MouseButton, mods fyne.KeyModifier) *desktop.MouseEvent {
	return &desktop.MouseEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)},
		Button:     b,
		Modifier:   mods,
	}
}

func TestResizeUpdatesViewport(t *testing.T) {
	_, st := newTestCanvas(t)
	vp := st.Viewport()
	assert.Equal(t, 800.0, vp.Width)
	assert.Equal(t, 600.0, vp.Height)
}

func TestDrawRectWithMouse(t *testing.T) {
	ec, st := newTestCanvas(t)
	require.True(t, st.SetTool(app.ToolRect))

	ec.MouseDown(mouse(100, 100, desktop.MouseButtonPrimary, 0))
	ec.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(150, 140)}})
	ec.MouseUp(mouse(150, 140, desktop.MouseButtonPrimary, 0))

	shapes := st.Shapes()
	require.Len(t, shapes, 1)
	r := shapes[0].(*shape.Rect)
	assert.InDelta(t, 100, r.X, 1e-9)
	assert.InDelta(t, 50, r.Width, 1e-9)
	assert.InDelta(t, 40, r.Height, 1e-9)
}

func TestDragEndFinishesGesture(t *testing.T) {
	ec, st := newTestCanvas(t)
	require.True(t, st.SetTool(app.ToolRect))

	ec.MouseDown(mouse(10, 10, desktop.MouseButtonPrimary, 0))
	ec.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(60, 60)}})
	ec.DragEnd()
	assert.Len(t, st.Shapes(), 1)

	// The late MouseUp is ignored.
	ec.MouseUp(mouse(60, 60, desktop.MouseButtonPrimary, 0))
	assert.Len(t, st.Shapes(), 1)
}

func TestWheelZooms(t *testing.T) {
	ec, st := newTestCanvas(t)
	ec.Scrolled(&fyne.ScrollEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(400, 300)},
		Scrolled:   fyne.NewDelta(0, 1),
	})
	assert.InDelta(t, viewport.ZoomStep, st.Viewport().Zoom, 1e-9)
}

func TestEscapeClearsSelection(t *testing.T) {
	ec, st := newTestCanvas(t)
	require.True(t, st.AddShape(&shape.Rect{Base: shape.NewBase("r", 0, 0), Width: 10, Height: 10}))
	st.SelectShape("r", false)

	ec.TypedKey(&fyne.KeyEvent{Name: fyne.KeyEscape})
	assert.Empty(t, st.Selected())
}

func TestCustomerModeTapsOnlyAvailableSeats(t *testing.T) {
	ec, st := newTestCanvas(t)
	area := &shape.Polygon{
		Base:   shape.NewBase("area", 0, 0),
		Points: []geometry.Point2D{{}, {X: 100}, {X: 100, Y: 100}, {Y: 100}},
		Closed: true,
		Area:   shape.NewArea(geometry.NewPoint2D(50, 50)),
	}
	area.Rows = []shape.Row{{ID: "row", Name: "A", Area: "area", Seats: []shape.Seat{
		{ID: "free", X: -20, Radius: 8, Row: "A", Number: 1, Visible: true},
		{ID: "sold", X: 20, Radius: 8, Row: "A", Number: 2, Visible: true},
	}}}
	require.True(t, st.AddShape(area))

	var tapped []string
	ec.OnSeatTapped(func(id string) { tapped = append(tapped, id) })
	ec.SetMode(render.ModeCustomer)
	ec.SetStatuses(map[string]shape.SeatStatus{"sold": shape.SeatSold})

	ec.MouseDown(mouse(30, 50, desktop.MouseButtonPrimary, 0))
	ec.MouseUp(mouse(30, 50, desktop.MouseButtonPrimary, 0))
	ec.MouseDown(mouse(70, 50, desktop.MouseButtonPrimary, 0))
	ec.MouseUp(mouse(70, 50, desktop.MouseButtonPrimary, 0))

	assert.Equal(t, []string{"free"}, tapped)
	assert.Empty(t, st.Selected(), "customer taps never select")
}

func TestDrawFrame(t *testing.T) {
	ec, st := newTestCanvas(t)
	require.True(t, st.AddShape(&shape.Rect{Base: shape.NewBase("r", 10, 10), Width: 20, Height: 20, Fill: "#ff0000"}))

	img := ec.draw(800, 600)
	assert.Equal(t, 800, img.Bounds().Dx())
}

func TestToModifier(t *testing.T) {
	m := toModifier(fyne.KeyModifierShift | fyne.KeyModifierAlt)
	assert.True(t, m.Has(editor.ModShift))
	assert.True(t, m.Has(editor.ModAlt))
	assert.False(t, m.Has(editor.ModCtrl))

	_, ok := toButton(desktop.MouseButtonTertiary)
	assert.True(t, ok)
}

func TestScaleViewport(t *testing.T) {
	vp := viewport.Viewport{Width: 100, Height: 50, Zoom: 2, Pan: geometry.NewPoint2D(10, 5)}
	s := scaleViewport(vp, 2)
	p := geometry.NewPoint2D(3, 4)
	assert.Equal(t, vp.CanvasToScreen(p).Scale(2), s.CanvasToScreen(p))
}

func TestFloorPlanDrawnBeneathShapes(t *testing.T) {
	ec, st := newTestCanvas(t)
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for i := range src.Pix {
		src.Pix[i] = 0xff // white
	}
	plan := floorplan.NewLayer()
	plan.Image = src
	plan.Opacity = 1
	plan.Scale = 25
	ec.SetFloorPlan(plan)
	assert.Same(t, plan, ec.FloorPlan())

	require.True(t, st.AddShape(&shape.Rect{Base: shape.NewBase("r", 0, 0), Width: 20, Height: 20, Fill: "#ff0000"}))
	img := ec.draw(800, 600).(*image.RGBA)
	assert.Equal(t, color.RGBA{R: 255, A: 255}, img.RGBAAt(10, 10), "shapes cover the plan")
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, img.RGBAAt(50, 50))

	ec.SetFloorPlan(nil)
	img = ec.draw(800, 600).(*image.RGBA)
	assert.NotEqual(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, img.RGBAAt(50, 50))
}
