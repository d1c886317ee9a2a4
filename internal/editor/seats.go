package editor

import (
	"log"

	"venue-designer/internal/app"
	"venue-designer/internal/seating"
	"venue-designer/internal/shape"
	"venue-designer/pkg/geometry"
)

// seatConfig returns the generation settings for area.
func (d *Dispatcher) seatConfig(area *shape.Polygon) seating.Config {
	cfg := seating.ConfigFromArea(area.Area)
	if d.SeatLabel != "" {
		cfg.StartLabel = d.SeatLabel
	}
	if d.SeatNumber > 0 {
		cfg.StartNumber = d.SeatNumber
	}
	return cfg
}

// seatClick collects the anchors of a seat-row (two clicks) or seat-grid
// (three clicks) gesture and commits on the last one. The first anchor must
// lie inside the area outline.
func (d *Dispatcher) seatClick(p geometry.Point2D) {
	area := d.store.ZoomedArea()
	if area == nil {
		d.reset()
		return
	}

	need := 2
	state := DrawingSeatRow
	if d.store.Tool() == app.ToolSeatGrid {
		need = 3
		state = DrawingSeatGrid
	}
	if d.state != state {
		d.reset()
		if !insideArea(area, p) {
			return
		}
		d.state = state
	}
	d.seatPts = append(d.seatPts, p)
	d.current = p
	if len(d.seatPts) < need {
		return
	}
	d.commitSeats(area)
}

// insideArea reports whether the canvas point lies within the outline of area.
func insideArea(area *shape.Polygon, p geometry.Point2D) bool {
	inv, ok := shape.Transform(area).Inverse()
	return ok && geometry.PointInPolygon(inv.Apply(p), area.Points)
}

// seatPlan builds the plan for the given canvas anchors in the area's seat
// space. Two anchors make a row, three a grid.
func (d *Dispatcher) seatPlan(area *shape.Polygon, anchors []geometry.Point2D) (seating.Plan, seating.Config, bool) {
	cfg := d.seatConfig(area)
	local := make([]geometry.Point2D, len(anchors))
	for i, a := range anchors {
		l, ok := area.CanvasToSeat(a)
		if !ok {
			return seating.Plan{}, cfg, false
		}
		local[i] = l
	}
	switch len(local) {
	case 2:
		return seating.RowPlan(local[0], local[1], cfg), cfg, true
	case 3:
		return seating.GridPlan(local[0], local[1], local[2], cfg), cfg, true
	}
	return seating.Plan{}, cfg, false
}

func (d *Dispatcher) commitSeats(area *shape.Polygon) {
	anchors := d.seatPts
	kind := d.state
	d.reset()

	plan, cfg, ok := d.seatPlan(area, anchors)
	if !ok {
		log.Printf("Seats: discarded %s gesture in %s", kind, area.ID)
		return
	}

	var added []string
	d.store.UpdateShapeWith(area.ID, func(s shape.Shape) {
		if p, ok := s.(*shape.Polygon); ok && p.IsArea() {
			added = seating.Apply(p.Area, p.ID, plan, cfg, d.newID)
		}
	})
	if len(added) == 0 {
		return
	}
	d.store.SaveToHistory()
	d.store.SelectSeats(added, false)
	log.Printf("Seats: added %d seats in %d rows to %s", len(added), len(plan.Rows), area.ID)
}

// seatPreview returns the planned seat positions in canvas space for the
// gesture in progress, using the cursor as the next anchor.
func (d *Dispatcher) seatPreview() ([]geometry.Point2D, float64) {
	area := d.store.ZoomedArea()
	if area == nil || len(d.seatPts) == 0 {
		return nil, 0
	}
	anchors := append(append([]geometry.Point2D(nil), d.seatPts...), d.current)
	if len(anchors) > 3 {
		anchors = anchors[:3]
	}
	plan, cfg, ok := d.seatPlan(area, anchors)
	if !ok {
		return nil, 0
	}
	var out []geometry.Point2D
	for _, r := range plan.Rows {
		for _, s := range r.Seats {
			out = append(out, area.SeatToCanvas(s.Pos))
		}
	}
	return out, cfg.SeatRadius
}

// deleteSubSelection removes the selected rows and seats from the zoomed
// area. Rows left without seats are removed too.
func (d *Dispatcher) deleteSubSelection() bool {
	mode := d.store.Mode()
	area := d.store.ZoomedArea()
	if area == nil || (len(mode.SelectedRowIDs) == 0 && len(mode.SelectedSeatIDs) == 0) {
		return false
	}

	removed := 0
	d.store.UpdateShapeWith(area.ID, func(s shape.Shape) {
		p, ok := s.(*shape.Polygon)
		if !ok || !p.IsArea() {
			return
		}
		rows := p.Rows[:0]
		for _, r := range p.Rows {
			if mode.RowSelected(r.ID) {
				removed += len(r.Seats)
				continue
			}
			seats := r.Seats[:0]
			for _, seat := range r.Seats {
				if mode.SeatSelected(seat.ID) {
					removed++
					continue
				}
				seats = append(seats, seat)
			}
			if len(seats) == 0 && len(r.Seats) > 0 {
				continue
			}
			r.Seats = seats
			rows = append(rows, r)
		}
		p.Rows = rows
	})
	d.store.SaveToHistory()
	log.Printf("Seats: deleted %d seats from %s", removed, area.ID)
	return true
}
