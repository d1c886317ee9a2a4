package editor

import (
	"log"

	"venue-designer/internal/viewport"
)

// KeyDown handles a key press and reports whether it was consumed.
//
//	Escape               cancel the gesture, else leave area mode, else clear the selection
//	Enter                close the polygon being drawn
//	Delete, Backspace    delete the selection (seats and rows in area mode)
//	Ctrl+Z               undo
//	Ctrl+Shift+Z, Ctrl+Y redo
func (d *Dispatcher) KeyDown(ev KeyEvent) bool {
	ctrl := ev.Mods.Has(ModCtrl) || ev.Mods.Has(ModSuper)

	switch {
	case ev.Key == KeyEscape:
		d.escape()
		return true
	case ev.Key == KeyEnter || ev.Key == KeyKeypadEnter:
		if d.state != DrawingPolygon {
			return false
		}
		d.closePolygon()
		return true
	case ev.Key == KeyDelete || ev.Key == KeyBackspace:
		if d.state != Idle {
			return false
		}
		return d.deleteSelection()
	case ctrl && ev.Key == KeyZ && ev.Mods.Has(ModShift), ctrl && ev.Key == KeyY:
		d.Cancel()
		return d.store.Redo()
	case ctrl && ev.Key == KeyZ:
		d.Cancel()
		return d.store.Undo()
	}
	return false
}

func (d *Dispatcher) escape() {
	switch {
	case d.state != Idle:
		d.Cancel()
	case d.store.Mode().Active():
		d.ExitArea()
	default:
		d.store.ClearSelection()
	}
}

// deleteSelection removes the selected shapes, or in area mode the selected
// seats and rows.
func (d *Dispatcher) deleteSelection() bool {
	if d.store.Mode().Active() {
		return d.deleteSubSelection()
	}
	ids := d.store.Selected()
	if len(ids) == 0 {
		return false
	}
	n := d.store.DeleteShapes(ids)
	d.store.SaveToHistory()
	log.Printf("Delete: removed %d shapes", n)
	return true
}

// Wheel zooms about the pointer.
func (d *Dispatcher) Wheel(ev WheelEvent) {
	if ev.DY == 0 {
		return
	}
	factor := viewport.ZoomStep
	if ev.DY < 0 {
		factor = 1 / factor
	}
	d.store.SetViewport(d.store.Viewport().ZoomAt(factor, ev.Screen))
}
