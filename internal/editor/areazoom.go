package editor

import "venue-designer/internal/shape"

// doubleClick enters area mode when hit is an area polygon.
func (d *Dispatcher) doubleClick(hit shape.Shape) bool {
	p, ok := hit.(*shape.Polygon)
	if !ok || !p.IsArea() {
		return false
	}
	return d.EnterArea(p.ID)
}

// EnterArea discards any gesture and zooms into the area with the given id.
func (d *Dispatcher) EnterArea(id string) bool {
	d.reset()
	d.clicks.forget()
	return d.store.EnterAreaMode(id)
}

// ExitArea discards any gesture and leaves area mode.
func (d *Dispatcher) ExitArea() bool {
	d.reset()
	d.clicks.forget()
	return d.store.ExitAreaMode()
}
