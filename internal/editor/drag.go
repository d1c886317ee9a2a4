package editor

import (
	"log"

	"venue-designer/internal/shape"
	"venue-designer/pkg/geometry"
)

// dragState holds the start positions captured when a drag begins. Every
// move writes start + delta, so a group moves rigidly however many moves are
// delivered.
type dragState struct {
	order  []string
	starts map[string]geometry.Point2D

	// Seat drags inside area mode, in seat space.
	areaID     string
	seatAnchor geometry.Point2D
	seatStarts map[string]geometry.Point2D
}

type panState struct {
	start  geometry.Point2D
	origin geometry.Point2D
	resume State
}

// beginDrag captures the selected draggable shapes.
func (d *Dispatcher) beginDrag(p geometry.Point2D) {
	ds := dragState{starts: make(map[string]geometry.Point2D)}
	for _, s := range d.store.SelectedShapes() {
		b := s.Common()
		if !b.Draggable {
			continue
		}
		ds.order = append(ds.order, b.ID)
		ds.starts[b.ID] = b.Position()
	}
	if len(ds.order) == 0 {
		return
	}
	d.state = Dragging
	d.anchor = p
	d.moved = false
	d.drag = ds
}

// beginSeatDrag captures the selected seats of area.
func (d *Dispatcher) beginSeatDrag(p geometry.Point2D, area *shape.Polygon) {
	anchor, ok := area.CanvasToSeat(p)
	if !ok {
		return
	}
	mode := d.store.Mode()
	ds := dragState{areaID: area.ID, seatAnchor: anchor, seatStarts: make(map[string]geometry.Point2D)}
	for _, r := range area.Rows {
		for _, s := range r.Seats {
			if mode.SeatSelected(s.ID) {
				ds.seatStarts[s.ID] = s.Position()
			}
		}
	}
	d.state = Dragging
	d.anchor = p
	d.moved = false
	d.drag = ds
}

func (d *Dispatcher) dragTo(p geometry.Point2D) {
	if d.drag.areaID != "" {
		d.dragSeatsTo(p)
		return
	}

	delta := p.Sub(d.anchor)
	updates := make([]shape.Update, len(d.drag.order))
	for i, id := range d.drag.order {
		updates[i] = shape.Update{ID: id, Patch: shape.MoveTo(d.drag.starts[id].Add(delta))}
	}
	if d.store.UpdateMultipleShapes(updates) > 0 {
		d.moved = true
	}
}

func (d *Dispatcher) dragSeatsTo(p geometry.Point2D) {
	area := d.store.ZoomedArea()
	if area == nil || area.ID != d.drag.areaID {
		return
	}
	local, ok := area.CanvasToSeat(p)
	if !ok {
		return
	}
	delta := local.Sub(d.drag.seatAnchor)
	starts := d.drag.seatStarts
	d.store.UpdateShapeWith(area.ID, func(s shape.Shape) {
		poly, ok := s.(*shape.Polygon)
		if !ok || !poly.IsArea() {
			return
		}
		for ri := range poly.Rows {
			seats := poly.Rows[ri].Seats
			for si := range seats {
				if start, ok := starts[seats[si].ID]; ok {
					pos := start.Add(delta)
					seats[si].X, seats[si].Y = pos.X, pos.Y
				}
			}
		}
	})
	d.moved = true
}

func (d *Dispatcher) finishDrag() {
	moved := d.moved
	n := len(d.drag.order) + len(d.drag.seatStarts)
	d.reset()
	if !moved {
		return
	}
	d.store.SaveToHistory()
	log.Printf("Drag: moved %d items", n)
}

// beginPan starts a middle-button pan. Panning may interrupt a multi-click
// gesture, which resumes afterwards.
func (d *Dispatcher) beginPan(screen geometry.Point2D) {
	switch d.state {
	case Idle, DrawingPolygon, DrawingSeatRow, DrawingSeatGrid:
	default:
		return
	}
	d.pan = panState{start: screen, origin: d.store.Viewport().Pan, resume: d.state}
	d.state = Panning
}

func (d *Dispatcher) panTo(screen geometry.Point2D) {
	v := d.store.Viewport()
	v.Pan = d.pan.origin.Add(screen.Sub(d.pan.start))
	d.store.SetViewport(v)
}
