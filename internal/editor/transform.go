package editor

import (
	"log"
	"math"

	"venue-designer/internal/hittest"
	"venue-designer/internal/selection"
	"venue-designer/internal/shape"
	"venue-designer/pkg/geometry"
)

type transformState struct {
	handle     selection.HandleKind
	start      shape.Shape
	pivot      geometry.Point2D
	startAngle float64
}

// transformable reports whether s has resize and rotate handles that act.
// Polygons only move.
func transformable(s shape.Shape) bool {
	switch s.(type) {
	case *shape.Rect, *shape.Circle, *shape.Text:
		return true
	}
	return false
}

// beginTransform starts a rotate or resize when p is on a handle of a single
// selected shape.
func (d *Dispatcher) beginTransform(p geometry.Point2D) bool {
	sel := d.store.SelectedShapes()
	if len(sel) != 1 || !transformable(sel[0]) {
		return false
	}
	overlay, ok := selection.BuildOverlay(sel)
	if !ok {
		return false
	}
	radius := d.opts.HandleRadius
	if z := d.store.Viewport().Zoom; z > 0 {
		radius /= z
	}
	h, ok := overlay.HandleAt(p, radius)
	if !ok {
		return false
	}

	s := sel[0]
	pivot := visualCenter(s)
	d.xform = transformState{
		handle:     h.Kind,
		start:      s.Clone(),
		pivot:      pivot,
		startAngle: p.Sub(pivot).Angle(),
	}
	d.state = Transforming
	d.anchor = p
	d.moved = false
	return true
}

// visualCenter returns the canvas position of the middle of a shape.
func visualCenter(s shape.Shape) geometry.Point2D {
	t := shape.Transform(s)
	switch v := s.(type) {
	case *shape.Rect:
		return t.Apply(geometry.Point2D{X: v.Width / 2, Y: v.Height / 2})
	case *shape.Text:
		w, h := hittest.TextSize(v)
		return t.Apply(geometry.Point2D{X: w / 2, Y: h / 2})
	}
	return s.Common().Position()
}

func (d *Dispatcher) transformTo(p geometry.Point2D) {
	x := d.xform
	id := shape.ID(x.start)

	var patch shape.Patch
	if x.handle == selection.HandleRotate {
		patch = rotatePatch(x.start, x.pivot, p.Sub(x.pivot).Angle()-x.startAngle)
	} else {
		var ok bool
		patch, ok = resizePatch(x.start, x.handle, p, d.opts.MinShapeSize)
		if !ok {
			return
		}
	}
	if d.store.UpdateShape(id, patch) {
		d.moved = true
	}
}

func (d *Dispatcher) finishTransform() {
	x, moved := d.xform, d.moved
	d.reset()
	if !moved || x.start == nil {
		return
	}
	d.store.SaveToHistory()
	log.Printf("Transform: %s on %s", x.handle, shape.ID(x.start))
}

// rotatePatch turns s by delta degrees about pivot. The origin moves with the
// rotation so the shape spins in place.
func rotatePatch(s shape.Shape, pivot geometry.Point2D, delta float64) shape.Patch {
	b := s.Common()
	pos := b.Position().RotateAround(pivot, delta)
	return shape.Patch{
		X:        shape.Ptr(pos.X),
		Y:        shape.Ptr(pos.Y),
		Rotation: shape.Ptr(normalizeDegrees(b.Rotation + delta)),
	}
}

// normalizeDegrees maps a to (-180, 180].
func normalizeDegrees(a float64) float64 {
	a = math.Mod(a, 360)
	switch {
	case a > 180:
		a -= 360
	case a <= -180:
		a += 360
	}
	return a
}

// resizePatch drags the handle of s to canvas point p. The edges opposite the
// handle stay put and no side shrinks below minSize.
func resizePatch(s shape.Shape, h selection.HandleKind, p geometry.Point2D, minSize float64) (shape.Patch, bool) {
	t := shape.Transform(s)
	inv, ok := t.Inverse()
	if !ok {
		return shape.Patch{}, false
	}
	lp := inv.Apply(p)

	switch v := s.(type) {
	case *shape.Circle:
		var r float64
		switch h {
		case selection.HandleLeft, selection.HandleRight:
			r = math.Abs(lp.X)
		case selection.HandleTop, selection.HandleBottom:
			r = math.Abs(lp.Y)
		default:
			r = math.Max(math.Abs(lp.X), math.Abs(lp.Y))
		}
		return shape.Patch{Radius: shape.Ptr(math.Max(r, minSize/2))}, true

	case *shape.Rect:
		x0, y0, x1, y1 := resizeBox(h, lp, v.Width, v.Height, minSize)
		origin := t.Apply(geometry.Point2D{X: x0, Y: y0})
		return shape.Patch{
			X:      shape.Ptr(origin.X),
			Y:      shape.Ptr(origin.Y),
			Width:  shape.Ptr(x1 - x0),
			Height: shape.Ptr(y1 - y0),
		}, true

	case *shape.Text:
		w, hgt := hittest.TextSize(v)
		x0, _, x1, _ := resizeBox(h, lp, w, hgt, minSize)
		origin := t.Apply(geometry.Point2D{X: x0})
		return shape.Patch{
			X:     shape.Ptr(origin.X),
			Y:     shape.Ptr(origin.Y),
			Width: shape.Ptr(x1 - x0),
		}, true
	}
	return shape.Patch{}, false
}

// resizeBox moves the sides of the local box [0,w]×[0,h] that belong to
// handle h to the local point lp.
func resizeBox(h selection.HandleKind, lp geometry.Point2D, w, hgt, minSize float64) (x0, y0, x1, y1 float64) {
	x0, y0, x1, y1 = 0, 0, w, hgt
	switch h {
	case selection.HandleTopLeft, selection.HandleBottomLeft, selection.HandleLeft:
		x0 = math.Min(lp.X, x1-minSize)
	case selection.HandleTopRight, selection.HandleBottomRight, selection.HandleRight:
		x1 = math.Max(lp.X, x0+minSize)
	}
	switch h {
	case selection.HandleTopLeft, selection.HandleTopRight, selection.HandleTop:
		y0 = math.Min(lp.Y, y1-minSize)
	case selection.HandleBottomLeft, selection.HandleBottomRight, selection.HandleBottom:
		y1 = math.Max(lp.Y, y0+minSize)
	}
	return x0, y0, x1, y1
}
