// Package hittest resolves pointer positions to shapes and seats using the
// visual outline of each shape rather than its bounding box.
package hittest

import (
	"math"

	"venue-designer/internal/shape"
	"venue-designer/internal/textmeasure"
	"venue-designer/pkg/geometry"
)

// Path receives outline drawing commands in shape-local coordinates.
type Path interface {
	MoveTo(p geometry.Point2D)
	LineTo(p geometry.Point2D)
	QuadTo(ctrl, p geometry.Point2D)
	ClosePath()
}

// Region draws the hit region of s into path, in shape-local space. Degenerate
// shapes (zero size, polygons with fewer than two points, empty text) draw
// nothing and therefore cannot be hit.
func Region(s shape.Shape, path Path) {
	switch v := s.(type) {
	case *shape.Rect:
		RoundedRect(path, v.Width, v.Height, v.CornerRadius)
	case *shape.Circle:
		Circle(path, geometry.Point2D{}, v.Radius)
	case *shape.Text:
		w, h := TextSize(v)
		RoundedRect(path, w, h, 0)
	case *shape.Polygon:
		if len(v.Points) < 2 {
			return
		}
		path.MoveTo(v.Points[0])
		for _, p := range v.Points[1:] {
			path.LineTo(p)
		}
		if v.Closed {
			path.ClosePath()
		}
	}
}

// TextSize is the hit box of a text shape: its fixed width when set, else an
// estimate from the rune count.
func TextSize(t *shape.Text) (float64, float64) {
	w := t.Width
	if w <= 0 {
		w = textmeasure.ApproxWidth(t.Text, t.FontSize)
	}
	return w, t.FontSize * textmeasure.LineHeight
}

// RoundedRect draws a w×h rectangle from the origin with quadratic corners of
// radius r (clamped to half the shorter side).
func RoundedRect(path Path, w, h, r float64) {
	if w <= 0 || h <= 0 {
		return
	}
	r = math.Max(0, math.Min(r, math.Min(w, h)/2))
	pt := geometry.NewPoint2D
	if r == 0 {
		path.MoveTo(pt(0, 0))
		path.LineTo(pt(w, 0))
		path.LineTo(pt(w, h))
		path.LineTo(pt(0, h))
		path.ClosePath()
		return
	}
	path.MoveTo(pt(r, 0))
	path.LineTo(pt(w-r, 0))
	path.QuadTo(pt(w, 0), pt(w, r))
	path.LineTo(pt(w, h-r))
	path.QuadTo(pt(w, h), pt(w-r, h))
	path.LineTo(pt(r, h))
	path.QuadTo(pt(0, h), pt(0, h-r))
	path.LineTo(pt(0, r))
	path.QuadTo(pt(0, 0), pt(r, 0))
	path.ClosePath()
}

// Circle draws a full circle as eight quadratic arcs.
func Circle(path Path, c geometry.Point2D, r float64) {
	if r <= 0 {
		return
	}
	const segments = 8
	step := 2 * math.Pi / segments
	ctrlR := r / math.Cos(step/2)
	at := func(radius, a float64) geometry.Point2D {
		return geometry.Point2D{X: c.X + radius*math.Cos(a), Y: c.Y + radius*math.Sin(a)}
	}
	path.MoveTo(at(r, 0))
	for i := 0; i < segments; i++ {
		a := float64(i) * step
		path.QuadTo(at(ctrlR, a+step/2), at(r, a+step))
	}
	path.ClosePath()
}

// Transformed returns a Path that maps every point through t before passing
// it on.
func Transformed(path Path, t geometry.AffineTransform) Path {
	return &transformedPath{dst: path, t: t}
}

type transformedPath struct {
	dst Path
	t   geometry.AffineTransform
}

func (p *transformedPath) MoveTo(pt geometry.Point2D) { p.dst.MoveTo(p.t.Apply(pt)) }
func (p *transformedPath) LineTo(pt geometry.Point2D) { p.dst.LineTo(p.t.Apply(pt)) }
func (p *transformedPath) QuadTo(ctrl, pt geometry.Point2D) {
	p.dst.QuadTo(p.t.Apply(ctrl), p.t.Apply(pt))
}
func (p *transformedPath) ClosePath() { p.dst.ClosePath() }

type opKind uint8

const (
	opMove opKind = iota
	opLine
	opQuad
	opClose
)

type op struct {
	kind opKind
	pts  [2]geometry.Point2D
}

// Recorder is a Path that stores commands for later replay.
type Recorder struct {
	ops []op
}

func (r *Recorder) MoveTo(p geometry.Point2D) {
	r.ops = append(r.ops, op{kind: opMove, pts: [2]geometry.Point2D{p}})
}
func (r *Recorder) LineTo(p geometry.Point2D) {
	r.ops = append(r.ops, op{kind: opLine, pts: [2]geometry.Point2D{p}})
}
func (r *Recorder) QuadTo(ctrl, p geometry.Point2D) {
	r.ops = append(r.ops, op{kind: opQuad, pts: [2]geometry.Point2D{ctrl, p}})
}
func (r *Recorder) ClosePath() { r.ops = append(r.ops, op{kind: opClose}) }

// Empty reports whether nothing was drawn.
func (r *Recorder) Empty() bool { return len(r.ops) == 0 }

// Bounds returns the bounding box of every recorded point, control points
// included.
func (r *Recorder) Bounds() geometry.Rect {
	var pts []geometry.Point2D
	for _, o := range r.ops {
		switch o.kind {
		case opMove, opLine:
			pts = append(pts, o.pts[0])
		case opQuad:
			pts = append(pts, o.pts[0], o.pts[1])
		}
	}
	return geometry.BoundingBox(pts)
}

// Replay sends the recorded commands to path.
func (r *Recorder) Replay(path Path) {
	for _, o := range r.ops {
		switch o.kind {
		case opMove:
			path.MoveTo(o.pts[0])
		case opLine:
			path.LineTo(o.pts[0])
		case opQuad:
			path.QuadTo(o.pts[0], o.pts[1])
		case opClose:
			path.ClosePath()
		}
	}
}
