package render

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"venue-designer/internal/floorplan"
	"venue-designer/internal/viewport"
	"venue-designer/pkg/geometry"
)

// PaintFloorPlan draws a floor plan image through the viewport. It is painted
// before the shapes.
func (p *Painter) PaintFloorPlan(dst *image.RGBA, l *floorplan.Layer, vp viewport.Viewport) {
	if l == nil || l.Image == nil || !l.Visible || l.Opacity <= 0 {
		return
	}
	src := l.Image.Bounds()
	t := vp.Transform().
		Compose(l.Transform()).
		Compose(geometry.Translation(-float64(src.Min.X), -float64(src.Min.Y)))
	s2d := f64.Aff3{t.A, t.B, t.TX, t.C, t.D, t.TY}

	var opts *xdraw.Options
	if l.Opacity < 1 {
		opts = &xdraw.Options{SrcMask: image.NewUniform(color.Alpha{A: uint8(l.Opacity * 255)})}
	}
	xdraw.ApproxBiLinear.Transform(dst, s2d, l.Image, src, xdraw.Over, opts)
}
