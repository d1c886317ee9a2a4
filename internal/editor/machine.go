// Package editor turns pointer, wheel and key events into canvas store
// mutations. A Dispatcher routes every event to exactly one gesture handler
// chosen by the current tool, the gesture in progress and what lies under the
// pointer.
package editor

import (
	"log"
	"time"

	"venue-designer/internal/app"
	"venue-designer/internal/guides"
	"venue-designer/internal/shape"
	"venue-designer/internal/textmeasure"
	"venue-designer/pkg/geometry"
)

// State is the gesture state of a Dispatcher.
//
// Transitions (tool, event → state):
//
//	Idle             select, down on a handle       → Transforming
//	Idle             select, down on shape or seat  → Dragging
//	Idle             select, down on the stage      → Selecting
//	Idle             rect/circle, down              → DrawingShape
//	Idle             text, down                     → Idle (text committed)
//	Idle             polygon, down                  → DrawingPolygon
//	Idle             seat-row, down                 → DrawingSeatRow
//	Idle             seat-grid, down                → DrawingSeatGrid
//	Idle/Drawing*    middle down                    → Panning
//	Panning          middle up                      → previous state
//	DrawingShape     up                             → Idle (commit or discard)
//	DrawingPolygon   down near the first vertex     → Idle (close or discard)
//	DrawingPolygon   down elsewhere                 → DrawingPolygon
//	DrawingPolygon   Enter                          → Idle (close or discard)
//	DrawingSeatRow   second down                    → Idle (commit)
//	DrawingSeatGrid  third down                     → Idle (commit)
//	Selecting        up                             → Idle
//	Dragging         up                             → Idle
//	Transforming     up                             → Idle
//	any              Escape, tool or mode change    → Idle
type State int

const (
	Idle State = iota
	DrawingShape
	DrawingPolygon
	DrawingSeatRow
	DrawingSeatGrid
	Selecting
	Dragging
	Transforming
	Panning
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case DrawingShape:
		return "drawing-shape"
	case DrawingPolygon:
		return "drawing-polygon"
	case DrawingSeatRow:
		return "drawing-seat-row"
	case DrawingSeatGrid:
		return "drawing-seat-grid"
	case Selecting:
		return "selecting"
	case Dragging:
		return "dragging"
	case Transforming:
		return "transforming"
	case Panning:
		return "panning"
	default:
		return "unknown"
	}
}

// Options are the gesture thresholds. Distances are in canvas units except
// HandleRadius, which is in screen pixels.
type Options struct {
	MinShapeSize      float64
	CloseThreshold    float64
	DoubleClickWindow time.Duration
	HandleRadius      float64
	Guides            guides.Options
}

// DefaultOptions returns the editor defaults.
func DefaultOptions() Options {
	return Options{
		MinShapeSize:      5,
		CloseThreshold:    15,
		DoubleClickWindow: 300 * time.Millisecond,
		HandleRadius:      8,
		Guides:            guides.DefaultOptions(),
	}
}

// Dispatcher is the gesture state machine. It is driven from the UI thread
// and is not safe for concurrent use.
type Dispatcher struct {
	store   *app.State
	opts    Options
	guides  *guides.Engine
	measure textmeasure.Measurer
	newID   shape.IDFunc
	now     func() time.Time

	// SnapEnabled turns guide-line snapping for polygon vertices on or off.
	SnapEnabled bool

	// Seat generation overrides. Empty or zero values use "A" and 1.
	SeatLabel  string
	SeatNumber int

	state  State
	clicks clickTracker

	anchor   geometry.Point2D
	current  geometry.Point2D
	moved    bool
	additive bool

	draft    shape.Shape
	vertices []geometry.Point2D
	seatPts  []geometry.Point2D
	guide    guides.Result
	band     geometry.Rect

	drag  dragState
	xform transformState
	pan   panState
}

// NewDispatcher creates a dispatcher for store. A nil measure falls back to
// the approximate text metrics and a nil newID to random ids.
func NewDispatcher(store *app.State, opts Options, measure textmeasure.Measurer, newID shape.IDFunc) *Dispatcher {
	if measure == nil {
		measure = textmeasure.Approx{}
	}
	if newID == nil {
		newID = shape.NewID
	}
	d := &Dispatcher{
		store:       store,
		opts:        opts,
		guides:      guides.NewEngine(opts.Guides),
		measure:     measure,
		newID:       newID,
		now:         time.Now,
		SnapEnabled: true,
	}

	store.On(app.EventShapesChanged, func(interface{}) { d.guides.Invalidate() })
	store.On(app.EventToolChanged, func(interface{}) { d.Cancel() })
	store.On(app.EventAreaModeChanged, func(interface{}) { d.Cancel() })
	return d
}

// SetClock replaces the time source for double clicks and snap throttling.
func (d *Dispatcher) SetClock(now func() time.Time) {
	d.now = now
	d.guides.SetClock(now)
}

// State returns the current gesture state.
func (d *Dispatcher) State() State { return d.state }

// Store returns the canvas store the dispatcher mutates.
func (d *Dispatcher) Store() *app.State { return d.store }

func (d *Dispatcher) canvasPoint(screen geometry.Point2D) geometry.Point2D {
	return d.store.Viewport().ScreenToCanvas(screen)
}

func (d *Dispatcher) eventTime(ev PointerEvent) time.Time {
	if ev.Time.IsZero() {
		return d.now()
	}
	return ev.Time
}

// PointerDown handles a button press.
func (d *Dispatcher) PointerDown(ev PointerEvent) {
	if ev.Button == ButtonMiddle {
		d.beginPan(ev.Screen)
		return
	}
	if ev.Button != ButtonPrimary {
		return
	}

	p := d.canvasPoint(ev.Screen)
	switch d.state {
	case DrawingPolygon:
		d.polygonClick(p)
		return
	case DrawingSeatRow, DrawingSeatGrid:
		d.seatClick(p)
		return
	case Idle:
	default:
		return
	}

	inArea := d.store.Mode().Active()
	switch d.store.Tool() {
	case app.ToolSelect:
		d.selectDown(p, ev)
	case app.ToolRect, app.ToolCircle:
		if !inArea {
			d.beginShape(p)
		}
	case app.ToolText:
		if !inArea {
			d.placeText(p)
		}
	case app.ToolPolygon:
		if !inArea {
			d.polygonClick(p)
		}
	case app.ToolSeatRow, app.ToolSeatGrid:
		d.seatClick(p)
	}
}

// PointerMove handles pointer motion with or without a button held.
func (d *Dispatcher) PointerMove(ev PointerEvent) {
	if d.state == Panning {
		d.panTo(ev.Screen)
		return
	}

	p := d.canvasPoint(ev.Screen)
	switch d.state {
	case DrawingShape:
		d.current = p
		d.draft = d.shapeFrom(d.anchor, p)
	case DrawingPolygon:
		d.polygonMove(p)
	case DrawingSeatRow, DrawingSeatGrid:
		d.current = p
	case Selecting:
		d.current = p
		d.band = geometry.RectFromPoints(d.anchor, p)
	case Dragging:
		d.dragTo(p)
	case Transforming:
		d.transformTo(p)
	}
}

// PointerUp handles a button release.
func (d *Dispatcher) PointerUp(ev PointerEvent) {
	if d.state == Panning {
		if ev.Button == ButtonMiddle {
			d.state = d.pan.resume
		}
		return
	}
	if ev.Button != ButtonPrimary {
		return
	}

	p := d.canvasPoint(ev.Screen)
	switch d.state {
	case DrawingShape:
		d.finishShape(p)
	case Selecting:
		d.band = geometry.RectFromPoints(d.anchor, p)
		d.finishBand()
	case Dragging:
		d.finishDrag()
	case Transforming:
		d.finishTransform()
	}
}

// Cancel aborts the gesture in progress. Uncommitted drawing state is
// discarded; a drag or transform already applied is kept and recorded.
func (d *Dispatcher) Cancel() {
	switch d.state {
	case Idle:
		return
	case Dragging:
		d.finishDrag()
		return
	case Transforming:
		d.finishTransform()
		return
	case Panning:
		d.state = d.pan.resume
		if d.state == Idle {
			return
		}
	}
	log.Printf("Gesture: cancelled %s", d.state)
	d.reset()
}

// reset discards all transient gesture state.
func (d *Dispatcher) reset() {
	d.state = Idle
	d.moved = false
	d.additive = false
	d.draft = nil
	d.vertices = nil
	d.seatPts = nil
	d.guide = guides.Result{}
	d.band = geometry.Rect{}
	d.drag = dragState{}
	d.xform = transformState{}
	d.guides.Reset()
}

// commit adds a finished shape, records the step and selects it.
func (d *Dispatcher) commit(s shape.Shape) bool {
	if !d.store.AddShape(s) {
		return false
	}
	id := shape.ID(s)
	d.store.SaveToHistory()
	d.store.SelectShape(id, false)
	log.Printf("Draw: created %s %s", s.Kind(), id)
	return true
}
