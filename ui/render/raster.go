package render

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/vector"

	"venue-designer/internal/hittest"
	"venue-designer/pkg/geometry"
)

// Segments per quadratic curve when flattening outlines for stroking.
const quadSteps = 8

// fillPath fills a screen-space path recorded in rec.
func fillPath(dst *image.RGBA, rec *hittest.Recorder, col color.NRGBA) {
	if rec.Empty() || col.A == 0 {
		return
	}
	r, ok := clipRect(dst, rec.Bounds(), 1)
	if !ok {
		return
	}
	z := vector.NewRasterizer(r.Dx(), r.Dy())
	hittest.Fill(z, rec, geometry.Translation(-float64(r.Min.X), -float64(r.Min.Y)))
	z.Draw(dst, r, image.NewUniform(col), image.Point{})
}

// strokePath strokes a screen-space path with a line of the given width.
func strokePath(dst *image.RGBA, rec *hittest.Recorder, width float64, col color.NRGBA) {
	if rec.Empty() || col.A == 0 || width <= 0 {
		return
	}
	var fl flattener
	rec.Replay(&fl)
	fl.flush()

	var out hittest.Recorder
	for _, poly := range fl.polys {
		strokePolyline(&out, poly, width)
	}
	fillPath(dst, &out, col)
}

// strokeLine strokes a single segment.
func strokeLine(dst *image.RGBA, a, b geometry.Point2D, width float64, col color.NRGBA) {
	var out hittest.Recorder
	strokePolyline(&out, []geometry.Point2D{a, b}, width)
	fillPath(dst, &out, col)
}

// fillCircle fills a screen-space circle.
func fillCircle(dst *image.RGBA, c geometry.Point2D, r float64, col color.NRGBA) {
	var rec hittest.Recorder
	hittest.Circle(&rec, c, r)
	fillPath(dst, &rec, col)
}

// strokeCircle draws a ring of the given width centred on radius r.
func strokeCircle(dst *image.RGBA, c geometry.Point2D, r, width float64, col color.NRGBA) {
	var rec hittest.Recorder
	hittest.Circle(&rec, c, r)
	strokePath(dst, &rec, width, col)
}

// strokeRect outlines an axis-aligned screen rectangle.
func strokeRect(dst *image.RGBA, box geometry.Rect, width float64, col color.NRGBA) {
	c := box.Corners()
	var rec hittest.Recorder
	rec.MoveTo(c[0])
	for _, p := range c[1:] {
		rec.LineTo(p)
	}
	rec.ClosePath()
	strokePath(dst, &rec, width, col)
}

// fillRect fills an axis-aligned screen rectangle.
func fillRect(dst *image.RGBA, box geometry.Rect, col color.NRGBA) {
	var rec hittest.Recorder
	hittest.RoundedRect(hittest.Transformed(&rec, geometry.Translation(box.X, box.Y)), box.Width, box.Height, 0)
	fillPath(dst, &rec, col)
}

// strokePolyline emits one quad per segment plus a round join at every
// vertex. All pieces share the same winding so overlaps do not cancel.
func strokePolyline(out *hittest.Recorder, pts []geometry.Point2D, width float64) {
	half := width / 2
	for i := 0; i+1 < len(pts); i++ {
		a, b := pts[i], pts[i+1]
		d, ok := b.Sub(a).Unit()
		if !ok {
			continue
		}
		n := geometry.Point2D{X: -d.Y, Y: d.X}.Scale(half)
		out.MoveTo(a.Add(n))
		out.LineTo(a.Sub(n))
		out.LineTo(b.Sub(n))
		out.LineTo(b.Add(n))
		out.ClosePath()
	}
	if half < 1 {
		return
	}
	for _, p := range pts {
		hittest.Circle(out, p, half)
	}
}

// clipRect converts a float bounding box, grown by pad, into a pixel
// rectangle inside dst.
func clipRect(dst *image.RGBA, b geometry.Rect, pad float64) (image.Rectangle, bool) {
	r := image.Rect(
		int(math.Floor(b.X-pad)), int(math.Floor(b.Y-pad)),
		int(math.Ceil(b.X+b.Width+pad)), int(math.Ceil(b.Y+b.Height+pad)),
	).Intersect(dst.Bounds())
	return r, !r.Empty()
}

// flattener is a hittest.Path that turns curves into polylines.
type flattener struct {
	polys [][]geometry.Point2D
	cur   []geometry.Point2D
}

func (f *flattener) flush() {
	if len(f.cur) > 1 {
		f.polys = append(f.polys, f.cur)
	}
	f.cur = nil
}

func (f *flattener) last() geometry.Point2D {
	if len(f.cur) == 0 {
		return geometry.Point2D{}
	}
	return f.cur[len(f.cur)-1]
}

func (f *flattener) MoveTo(p geometry.Point2D) {
	f.flush()
	f.cur = []geometry.Point2D{p}
}

func (f *flattener) LineTo(p geometry.Point2D) {
	f.cur = append(f.cur, p)
}

func (f *flattener) QuadTo(ctrl, p geometry.Point2D) {
	start := f.last()
	for i := 1; i <= quadSteps; i++ {
		t := float64(i) / quadSteps
		u := 1 - t
		f.cur = append(f.cur, geometry.Point2D{
			X: u*u*start.X + 2*u*t*ctrl.X + t*t*p.X,
			Y: u*u*start.Y + 2*u*t*ctrl.Y + t*t*p.Y,
		})
	}
}

func (f *flattener) ClosePath() {
	if len(f.cur) > 1 {
		f.cur = append(f.cur, f.cur[0])
	}
	f.flush()
}
