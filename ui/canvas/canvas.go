// Package canvas provides the editor canvas widget: it paints the layout and
// forwards mouse, wheel and key input to the gesture dispatcher.
package canvas

import (
	"image"
	"sync"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"venue-designer/internal/app"
	"venue-designer/internal/booking"
	"venue-designer/internal/editor"
	"venue-designer/internal/floorplan"
	"venue-designer/internal/hittest"
	"venue-designer/internal/selection"
	"venue-designer/internal/shape"
	"venue-designer/internal/viewport"
	"venue-designer/pkg/geometry"
	"venue-designer/ui/render"
)

// EditorCanvas displays the layout with pan, zoom and the editing gestures.
type EditorCanvas struct {
	widget.BaseWidget

	state   *app.State
	painter *render.Painter
	raster  *fynecanvas.Raster

	// mu serializes dispatcher access between input events and painting.
	mu   sync.Mutex
	disp *editor.Dispatcher

	viewMu    sync.RWMutex
	mode      render.Mode
	statuses  map[string]shape.SeatStatus
	floorPlan *floorplan.Layer

	pressed bool
	last    geometry.Point2D

	// Callbacks
	onCursor     func(p geometry.Point2D)
	onSeatTapped func(seatID string)
}

// NewEditorCanvas creates a canvas over state driven by disp.
func NewEditorCanvas(state *app.State, disp *editor.Dispatcher, painter *render.Painter) *EditorCanvas {
	ec := &EditorCanvas{
		state:   state,
		disp:    disp,
		painter: painter,
	}
	ec.raster = fynecanvas.NewRaster(ec.draw)
	ec.raster.ScaleMode = fynecanvas.ImageScalePixels

	for _, ev := range []app.EventType{
		app.EventShapesChanged,
		app.EventSelectionChanged,
		app.EventViewportChanged,
		app.EventAreaModeChanged,
		app.EventProjectLoaded,
	} {
		state.On(ev, func(interface{}) { ec.Refresh() })
	}

	ec.ExtendBaseWidget(ec)
	return ec
}

// SetMode switches between the editor and the read-only customer view.
func (ec *EditorCanvas) SetMode(m render.Mode) {
	ec.viewMu.Lock()
	ec.mode = m
	ec.viewMu.Unlock()
	if m == render.ModeCustomer {
		ec.withDispatcher(func(d *editor.Dispatcher) { d.Cancel() })
	}
	ec.Refresh()
}

// Mode returns the current view mode.
func (ec *EditorCanvas) Mode() render.Mode {
	ec.viewMu.RLock()
	defer ec.viewMu.RUnlock()
	return ec.mode
}

// SetStatuses replaces the seat booking statuses shown in customer mode.
func (ec *EditorCanvas) SetStatuses(st map[string]shape.SeatStatus) {
	ec.viewMu.Lock()
	ec.statuses = st
	ec.viewMu.Unlock()
	ec.Refresh()
}

// SetFloorPlan replaces the image drawn beneath the shapes. Nil removes it.
func (ec *EditorCanvas) SetFloorPlan(l *floorplan.Layer) {
	ec.viewMu.Lock()
	ec.floorPlan = l
	ec.viewMu.Unlock()
	ec.Refresh()
}

// FloorPlan returns the current floor plan, or nil.
func (ec *EditorCanvas) FloorPlan() *floorplan.Layer {
	ec.viewMu.RLock()
	defer ec.viewMu.RUnlock()
	return ec.floorPlan
}

// OnCursor sets a callback receiving the canvas position under the mouse.
func (ec *EditorCanvas) OnCursor(callback func(p geometry.Point2D)) {
	ec.onCursor = callback
}

// OnSeatTapped sets a callback for taps on bookable seats in customer mode.
func (ec *EditorCanvas) OnSeatTapped(callback func(seatID string)) {
	ec.onSeatTapped = callback
}

// Dispatch runs fn with exclusive access to the dispatcher and repaints.
func (ec *EditorCanvas) Dispatch(fn func(d *editor.Dispatcher)) {
	ec.withDispatcher(fn)
	ec.Refresh()
}

func (ec *EditorCanvas) withDispatcher(fn func(d *editor.Dispatcher)) {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	fn(ec.disp)
}

// Resize keeps the store viewport in step with the widget size and centres
// the content on the first layout.
func (ec *EditorCanvas) Resize(size fyne.Size) {
	ec.BaseWidget.Resize(size)
	ec.state.SetViewportSize(float64(size.Width), float64(size.Height))
	ec.state.CenterContentOnce()
}

// Refresh repaints the canvas.
func (ec *EditorCanvas) Refresh() {
	ec.raster.Refresh()
}

// ZoomIn zooms about the viewport centre.
func (ec *EditorCanvas) ZoomIn() {
	vp := ec.state.Viewport()
	ec.state.SetViewport(vp.ZoomAt(viewport.ZoomStep, vp.ScreenCenter()))
}

// ZoomOut zooms out about the viewport centre.
func (ec *EditorCanvas) ZoomOut() {
	vp := ec.state.Viewport()
	ec.state.SetViewport(vp.ZoomAt(1/viewport.ZoomStep, vp.ScreenCenter()))
}

// FitToWindow fits every visible shape into the viewport.
func (ec *EditorCanvas) FitToWindow() {
	box, ok := selection.UnionBounds(ec.state.VisibleShapes())
	if !ok {
		return
	}
	ec.state.SetViewport(ec.state.Viewport().Fit(box, 40, viewport.MaxZoom))
}

// MouseDown implements desktop.Mouseable.
func (ec *EditorCanvas) MouseDown(ev *desktop.MouseEvent) {
	if a := fyne.CurrentApp(); a != nil {
		if c := a.Driver().CanvasForObject(ec); c != nil {
			c.Focus(ec)
		}
	}
	btn, ok := toButton(ev.Button)
	if !ok {
		return
	}
	pe := ec.pointer(ev.Position, btn, ev.Modifier)
	ec.pressed = true

	if ec.Mode() == render.ModeCustomer && btn == editor.ButtonPrimary {
		ec.customerTap(pe.Screen)
		return
	}
	ec.Dispatch(func(d *editor.Dispatcher) { d.PointerDown(pe) })
}

// MouseUp implements desktop.Mouseable.
func (ec *EditorCanvas) MouseUp(ev *desktop.MouseEvent) {
	btn, ok := toButton(ev.Button)
	if !ok || !ec.pressed {
		return
	}
	ec.pressed = false
	pe := ec.pointer(ev.Position, btn, ev.Modifier)
	ec.Dispatch(func(d *editor.Dispatcher) { d.PointerUp(pe) })
}

// MouseIn implements desktop.Hoverable.
func (ec *EditorCanvas) MouseIn(*desktop.MouseEvent) {}

// MouseMoved implements desktop.Hoverable.
func (ec *EditorCanvas) MouseMoved(ev *desktop.MouseEvent) {
	ec.move(ev.Position, ev.Modifier)
}

// MouseOut implements desktop.Hoverable.
func (ec *EditorCanvas) MouseOut() {}

// Dragged implements fyne.Draggable. Motion with a button held arrives here
// rather than in MouseMoved.
func (ec *EditorCanvas) Dragged(ev *fyne.DragEvent) {
	ec.move(ev.Position, 0)
}

// DragEnd implements fyne.Draggable. A release outside the widget never
// reaches MouseUp, so the gesture is finished here.
func (ec *EditorCanvas) DragEnd() {
	if !ec.pressed {
		return
	}
	ec.pressed = false
	pe := editor.PointerEvent{Screen: ec.last, Button: editor.ButtonPrimary}
	ec.Dispatch(func(d *editor.Dispatcher) { d.PointerUp(pe) })
}

func (ec *EditorCanvas) move(pos fyne.Position, mods fyne.KeyModifier) {
	pe := ec.pointer(pos, editor.ButtonPrimary, mods)
	if ec.onCursor != nil {
		ec.onCursor(ec.state.Viewport().ScreenToCanvas(pe.Screen))
	}
	customer := ec.Mode() == render.ModeCustomer
	ec.Dispatch(func(d *editor.Dispatcher) {
		if customer && d.State() != editor.Panning {
			return
		}
		d.PointerMove(pe)
	})
}

// Scrolled implements fyne.Scrollable: the wheel zooms about the pointer.
func (ec *EditorCanvas) Scrolled(ev *fyne.ScrollEvent) {
	we := editor.WheelEvent{Screen: toPoint(ev.Position), DY: float64(ev.Scrolled.DY)}
	ec.Dispatch(func(d *editor.Dispatcher) { d.Wheel(we) })
}

// FocusGained implements fyne.Focusable.
func (ec *EditorCanvas) FocusGained() {}

// FocusLost implements fyne.Focusable.
func (ec *EditorCanvas) FocusLost() {}

// TypedRune implements fyne.Focusable.
func (ec *EditorCanvas) TypedRune(rune) {}

// TypedKey implements fyne.Focusable. Modified keys arrive as window
// shortcuts instead.
func (ec *EditorCanvas) TypedKey(ev *fyne.KeyEvent) {
	if ec.Mode() == render.ModeCustomer {
		return
	}
	ke := editor.KeyEvent{Key: editor.Key(ev.Name)}
	ec.Dispatch(func(d *editor.Dispatcher) { d.KeyDown(ke) })
}

// customerTap reports a tap on a bookable seat of any area.
func (ec *EditorCanvas) customerTap(screen geometry.Point2D) {
	if ec.onSeatTapped == nil {
		return
	}
	p := ec.state.Viewport().ScreenToCanvas(screen)
	hit := hittest.TopmostAt(ec.state.VisibleShapes(), p, func(s shape.Shape) bool {
		poly, ok := s.(*shape.Polygon)
		return ok && poly.IsArea()
	})
	if hit == nil {
		return
	}
	area := hit.(*shape.Polygon)
	ref, ok := hittest.SeatAt(area, p)
	if !ok {
		return
	}
	seat := area.Rows[ref.Row].Seats[ref.Seat]

	ec.viewMu.RLock()
	st := ec.statuses[seat.ID]
	ec.viewMu.RUnlock()
	if st == "" || st == shape.SeatAvailable {
		ec.onSeatTapped(seat.ID)
	}
}

func (ec *EditorCanvas) pointer(pos fyne.Position, btn editor.Button, mods fyne.KeyModifier) editor.PointerEvent {
	ec.last = toPoint(pos)
	return editor.PointerEvent{Screen: ec.last, Button: btn, Mods: toModifier(mods)}
}

// draw is the raster drawing function.
func (ec *EditorCanvas) draw(w, h int) image.Image {
	output := image.NewRGBA(image.Rect(0, 0, w, h))
	ec.painter.Clear(output)

	vp := ec.state.Viewport()
	if size := ec.Size(); size.Width > 0 {
		vp = scaleViewport(vp, float64(w)/float64(size.Width))
	}

	mode := ec.state.Mode()
	shapes := ec.state.VisibleShapes()

	ec.viewMu.RLock()
	viewMode, statuses, plan := ec.mode, ec.statuses, ec.floorPlan
	ec.viewMu.RUnlock()
	ec.painter.PaintFloorPlan(output, plan, vp)

	opts := render.Options{
		Mode:         viewMode,
		Focus:        ec.state.FocusStyle,
		SeatSelected: mode.SeatSelected,
		RowSelected:  mode.RowSelected,
	}
	if viewMode == render.ModeCustomer {
		shapes = booking.ApplyStatus(shapes, statuses)
	} else {
		opts.ShapeSelected = ec.state.IsSelected
	}
	ec.painter.Paint(output, render.Build(shapes, opts), vp)

	if viewMode == render.ModeCustomer {
		return output
	}
	if !mode.Active() {
		if o, ok := selection.BuildOverlay(ec.state.SelectedShapes()); ok {
			ec.painter.PaintSelection(output, o, vp)
		}
	}

	ec.mu.Lock()
	preview := ec.disp.Preview()
	ec.mu.Unlock()
	ec.painter.PaintPreview(output, preview, vp)
	return output
}

// scaleViewport maps a viewport in widget units onto raster pixels.
func scaleViewport(vp viewport.Viewport, scale float64) viewport.Viewport {
	if scale <= 0 || scale == 1 {
		return vp
	}
	vp.Width *= scale
	vp.Height *= scale
	vp.Zoom *= scale
	vp.Pan = vp.Pan.Scale(scale)
	return vp
}

func toPoint(pos fyne.Position) geometry.Point2D {
	return geometry.Point2D{X: float64(pos.X), Y: float64(pos.Y)}
}

func toButton(b desktop.MouseButton) (editor.Button, bool) {
	switch b {
	case desktop.MouseButtonPrimary:
		return editor.ButtonPrimary, true
	case desktop.MouseButtonSecondary:
		return editor.ButtonSecondary, true
	case desktop.MouseButtonTertiary:
		return editor.ButtonMiddle, true
	}
	return 0, false
}

func toModifier(m fyne.KeyModifier) editor.Modifier {
	var out editor.Modifier
	if m&fyne.KeyModifierShift != 0 {
		out |= editor.ModShift
	}
	if m&fyne.KeyModifierControl != 0 {
		out |= editor.ModCtrl
	}
	if m&fyne.KeyModifierAlt != 0 {
		out |= editor.ModAlt
	}
	if m&fyne.KeyModifierSuper != 0 {
		out |= editor.ModSuper
	}
	return out
}

// CreateRenderer implements fyne.Widget.
func (ec *EditorCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &editorCanvasRenderer{canvas: ec}
}

type editorCanvasRenderer struct {
	canvas *EditorCanvas
}

func (r *editorCanvasRenderer) Layout(size fyne.Size) {
	r.canvas.raster.Resize(size)
}

func (r *editorCanvasRenderer) MinSize() fyne.Size {
	return fyne.NewSize(100, 100)
}

func (r *editorCanvasRenderer) Refresh() {
	r.canvas.raster.Refresh()
}

func (r *editorCanvasRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.canvas.raster}
}

func (r *editorCanvasRenderer) Destroy() {}
