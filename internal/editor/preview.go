package editor

import (
	"venue-designer/internal/guides"
	"venue-designer/internal/shape"
	"venue-designer/pkg/geometry"
)

// Preview is the transient, uncommitted state the renderer draws on top of
// the shapes. All coordinates are in canvas space.
type Preview struct {
	State State

	// Shape is the rect or circle being dragged out.
	Shape shape.Shape

	// Polygon holds the placed vertices followed by the cursor position.
	Polygon []geometry.Point2D
	// Closing is set when a click at the cursor would close the polygon.
	Closing bool

	// Seats are the planned seat centers of a seat gesture.
	Seats      []geometry.Point2D
	SeatRadius float64

	Guide guides.Result
	Band  *geometry.Rect
}

// Preview returns what the gesture in progress would produce.
func (d *Dispatcher) Preview() Preview {
	pv := Preview{State: d.state}
	switch d.state {
	case DrawingShape:
		if d.draft != nil {
			pv.Shape = d.draft.Clone()
		}
	case DrawingPolygon:
		pv.Polygon = append(append([]geometry.Point2D(nil), d.vertices...), d.current)
		pv.Closing = len(d.vertices) >= 3 && d.current.Distance(d.vertices[0]) <= d.opts.CloseThreshold
		pv.Guide = d.guide
	case DrawingSeatRow, DrawingSeatGrid:
		pv.Seats, pv.SeatRadius = d.seatPreview()
	case Selecting:
		band := d.band
		pv.Band = &band
	}
	return pv
}

// InsertShape places a shape produced elsewhere (for example an imported
// image) at a canvas position. The shape gets a fresh id when it has none or
// its id is taken; the rows and seats of an area always get fresh ids. It is
// refused in area mode.
func (d *Dispatcher) InsertShape(s shape.Shape, at geometry.Point2D) (string, bool) {
	if s == nil || d.store.Mode().Active() {
		return "", false
	}
	c := s.Clone()
	b := c.Common()
	if b.ID == "" || d.store.Shape(b.ID) != nil {
		b.ID = d.newID(string(c.Kind()))
	}
	if p, ok := c.(*shape.Polygon); ok && p.IsArea() {
		for i := range p.Rows {
			row := &p.Rows[i]
			row.ID = d.newID("row")
			row.Area = b.ID
			for j := range row.Seats {
				row.Seats[j].ID = d.newID("seat")
			}
		}
	}
	b.X, b.Y = at.X, at.Y
	if !d.commit(c) {
		return "", false
	}
	return b.ID, true
}
