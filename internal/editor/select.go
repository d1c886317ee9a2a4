package editor

import (
	"log"
	"slices"

	"venue-designer/internal/hittest"
	"venue-designer/internal/selection"
	"venue-designer/internal/shape"
	"venue-designer/pkg/geometry"
)

// selectDown resolves a select-tool press: a transform handle, a shape or
// the empty stage.
func (d *Dispatcher) selectDown(p geometry.Point2D, ev PointerEvent) {
	if d.store.Mode().Active() {
		d.areaSelectDown(p, ev)
		return
	}
	if d.beginTransform(p) {
		d.clicks.forget()
		return
	}

	hit := hittest.TopmostAt(d.store.VisibleShapes(), p, nil)
	target := ""
	if hit != nil {
		target = shape.ID(hit)
	}
	if d.clicks.click(target, d.eventTime(ev), d.opts.DoubleClickWindow) && d.doubleClick(hit) {
		return
	}

	if hit == nil {
		if !ev.Mods.Multi() {
			d.store.ClearSelection()
		}
		d.beginBand(p, ev.Mods.Multi())
		return
	}

	id := shape.ID(hit)
	switch {
	case ev.Mods.Multi():
		d.store.SelectShape(id, true)
	case !d.store.IsSelected(id):
		d.store.SelectShape(id, false)
	}
	if d.store.IsSelected(id) {
		d.beginDrag(p)
	}
}

// areaSelectDown resolves a press in area mode, where only the seats and rows
// of the zoomed area can be selected. Alt selects a seat's whole row.
func (d *Dispatcher) areaSelectDown(p geometry.Point2D, ev PointerEvent) {
	area := d.store.ZoomedArea()
	if area == nil {
		return
	}

	ref, ok := hittest.SeatAt(area, p)
	if !ok {
		if !ev.Mods.Multi() {
			d.store.ClearSelection()
		}
		d.beginBand(p, ev.Mods.Multi())
		return
	}

	row := area.Rows[ref.Row]
	seatID := row.Seats[ref.Seat].ID
	switch {
	case ev.Mods.Has(ModAlt):
		ids := make([]string, len(row.Seats))
		for i, s := range row.Seats {
			ids[i] = s.ID
		}
		d.store.SelectRows([]string{row.ID})
		d.store.SelectSeats(ids, false)
	case ev.Mods.Multi():
		d.store.SelectSeats([]string{seatID}, true)
	case !d.store.Mode().SeatSelected(seatID):
		d.store.SelectRows(nil)
		d.store.SelectSeats([]string{seatID}, false)
	}
	if d.store.Mode().SeatSelected(seatID) {
		d.beginSeatDrag(p, area)
	}
}

func (d *Dispatcher) beginBand(p geometry.Point2D, additive bool) {
	d.state = Selecting
	d.anchor = p
	d.current = p
	d.band = geometry.RectFromPoints(p, p)
	d.additive = additive
}

// finishBand selects what the rubber band touches: shapes whose bounds
// intersect it, or in area mode seats whose centers fall inside it.
func (d *Dispatcher) finishBand() {
	box, additive := d.band, d.additive
	d.reset()
	if box.Width == 0 && box.Height == 0 {
		return
	}

	if area := d.store.ZoomedArea(); area != nil {
		ids := selection.SeatsInRect(area, box)
		if additive {
			ids = union(d.store.Mode().SelectedSeatIDs, ids)
		}
		d.store.SelectSeats(ids, false)
		log.Printf("Select: %d seats in box", len(ids))
		return
	}

	ids := selection.ShapesInRect(d.store.VisibleShapes(), box, nil)
	if additive {
		ids = union(d.store.Selected(), ids)
	}
	d.store.SelectMultipleShapes(ids)
	log.Printf("Select: %d shapes in box", len(ids))
}

func union(a, b []string) []string {
	out := slices.Clone(a)
	for _, id := range b {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
