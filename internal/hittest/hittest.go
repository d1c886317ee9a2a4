package hittest

import (
	"image"

	"golang.org/x/image/vector"

	"venue-designer/internal/shape"
	"venue-designer/pkg/geometry"
)

// Coverage at or above this alpha counts as inside.
const coverageThreshold = 0x80

// Contains reports whether the canvas point lies on the visible region of s.
func Contains(s shape.Shape, p geometry.Point2D) bool {
	if !s.Common().Visible {
		return false
	}
	t := shape.Transform(s)
	inv, ok := t.Inverse()
	if !ok {
		return false
	}

	var rec Recorder
	Region(s, &rec)
	if rec.Empty() {
		return false
	}
	if poly, ok := s.(*shape.Polygon); ok && poly.StrokeWidth > 0 && onOutline(poly, inv.Apply(p)) {
		return true
	}
	corners := rec.Bounds().Corners()
	for i := range corners {
		corners[i] = t.Apply(corners[i])
	}
	if !geometry.BoundingBox(corners[:]).Inset(-1).Contains(p) {
		return false
	}
	return covered(&rec, t, p)
}

// covered rasterizes the recorded region, mapped to canvas space by t, into a
// single canvas-unit pixel centred on p.
func covered(rec *Recorder, t geometry.AffineTransform, p geometry.Point2D) bool {
	z := vector.NewRasterizer(1, 1)
	Fill(z, rec, geometry.Translation(0.5-p.X, 0.5-p.Y).Compose(t))
	dst := image.NewAlpha(image.Rect(0, 0, 1, 1))
	z.Draw(dst, dst.Bounds(), image.Opaque, image.Point{})
	return dst.Pix[0] >= coverageThreshold
}

func onOutline(p *shape.Polygon, local geometry.Point2D) bool {
	half := p.StrokeWidth / 2
	for _, e := range geometry.Edges(p.Points, p.Closed) {
		if q, ok := e.ClosestPoint(local); ok && q.Distance(local) <= half {
			return true
		}
	}
	return false
}

// rasterPath feeds a vector.Rasterizer. Open subpaths are closed before the
// next MoveTo, as a fill would.
type rasterPath struct {
	z    *vector.Rasterizer
	open bool
}

func xy(p geometry.Point2D) (float32, float32) { return float32(p.X), float32(p.Y) }

func (r *rasterPath) MoveTo(p geometry.Point2D) {
	r.closeOpen()
	r.z.MoveTo(xy(p))
	r.open = true
}

func (r *rasterPath) LineTo(p geometry.Point2D) { r.z.LineTo(xy(p)) }

func (r *rasterPath) QuadTo(ctrl, p geometry.Point2D) {
	cx, cy := xy(ctrl)
	x, y := xy(p)
	r.z.QuadTo(cx, cy, x, y)
}

func (r *rasterPath) ClosePath() {
	r.z.ClosePath()
	r.open = false
}

func (r *rasterPath) closeOpen() {
	if r.open {
		r.ClosePath()
	}
}

// Fill replays rec into z after mapping points through t. Every subpath is
// closed, so open polygons fill like closed ones.
func Fill(z *vector.Rasterizer, rec *Recorder, t geometry.AffineTransform) {
	rp := &rasterPath{z: z}
	rec.Replay(Transformed(rp, t))
	rp.closeOpen()
}

// TopmostAt returns the last (front-most) shape containing p for which accept
// returns true, or nil. A nil accept accepts every shape.
func TopmostAt(shapes []shape.Shape, p geometry.Point2D, accept func(shape.Shape) bool) shape.Shape {
	for i := len(shapes) - 1; i >= 0; i-- {
		s := shapes[i]
		if accept != nil && !accept(s) {
			continue
		}
		if Contains(s, p) {
			return s
		}
	}
	return nil
}

// SeatRef locates a seat inside an area by row and seat index.
type SeatRef struct {
	Row  int
	Seat int
}

// SeatAt returns the front-most visible seat of area under the canvas point.
func SeatAt(area *shape.Polygon, p geometry.Point2D) (SeatRef, bool) {
	if area == nil || area.Area == nil {
		return SeatRef{}, false
	}
	local, ok := area.CanvasToSeat(p)
	if !ok {
		return SeatRef{}, false
	}
	for ri := len(area.Rows) - 1; ri >= 0; ri-- {
		seats := area.Rows[ri].Seats
		for si := len(seats) - 1; si >= 0; si-- {
			s := seats[si]
			if s.Visible && s.Position().Distance(local) <= s.Radius {
				return SeatRef{Row: ri, Seat: si}, true
			}
		}
	}
	return SeatRef{}, false
}

// RowAt returns the index of the row whose seat is under the canvas point.
func RowAt(area *shape.Polygon, p geometry.Point2D) (int, bool) {
	ref, ok := SeatAt(area, p)
	return ref.Row, ok
}
