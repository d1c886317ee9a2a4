// Package viewport maps between screen pixels and canvas coordinates.
package viewport

import (
	"math"

	"venue-designer/pkg/geometry"
)

// Zoom limits shared by wheel zoom and fitting.
const (
	MinZoom  = 0.1
	MaxZoom  = 10.0
	ZoomStep = 1.1
)

// Viewport is the visible window onto the canvas: canvas = (screen - pan) / zoom.
type Viewport struct {
	Width  float64          `json:"width"`
	Height float64          `json:"height"`
	Zoom   float64          `json:"zoom"`
	Pan    geometry.Point2D `json:"pan"`
}

// New returns a viewport of the given size at zoom 1 with no pan.
func New(width, height float64) Viewport {
	return Viewport{Width: width, Height: height, Zoom: 1}
}

func (v Viewport) zoom() float64 {
	if v.Zoom <= 0 {
		return 1
	}
	return v.Zoom
}

// ScreenToCanvas converts a screen position to canvas coordinates.
func (v Viewport) ScreenToCanvas(p geometry.Point2D) geometry.Point2D {
	return p.Sub(v.Pan).Scale(1 / v.zoom())
}

// CanvasToScreen converts a canvas position to screen coordinates.
func (v Viewport) CanvasToScreen(p geometry.Point2D) geometry.Point2D {
	return p.Scale(v.zoom()).Add(v.Pan)
}

// Transform returns the canvas-to-screen mapping as an affine transform.
func (v Viewport) Transform() geometry.AffineTransform {
	z := v.zoom()
	return geometry.Translation(v.Pan.X, v.Pan.Y).Compose(geometry.Scale(z, z))
}

// ScreenCenter returns the middle of the viewport in screen pixels.
func (v Viewport) ScreenCenter() geometry.Point2D {
	return geometry.Point2D{X: v.Width / 2, Y: v.Height / 2}
}

// VisibleRect returns the canvas region currently on screen.
func (v Viewport) VisibleRect() geometry.Rect {
	return geometry.RectFromPoints(
		v.ScreenToCanvas(geometry.Point2D{}),
		v.ScreenToCanvas(geometry.Point2D{X: v.Width, Y: v.Height}),
	)
}

// ZoomAt multiplies the zoom by factor, clamped to [MinZoom, MaxZoom],
// keeping the canvas point under the screen position fixed.
func (v Viewport) ZoomAt(factor float64, screen geometry.Point2D) Viewport {
	anchor := v.ScreenToCanvas(screen)
	v.Zoom = ClampZoom(v.zoom() * factor)
	v.Pan = screen.Sub(anchor.Scale(v.Zoom))
	return v
}

// PanBy shifts the view by a screen-space delta.
func (v Viewport) PanBy(d geometry.Point2D) Viewport {
	v.Pan = v.Pan.Add(d)
	return v
}

// CenterOn pans so that the canvas point lands at the viewport center.
func (v Viewport) CenterOn(p geometry.Point2D) Viewport {
	v.Pan = v.ScreenCenter().Sub(p.Scale(v.zoom()))
	return v
}

// Fit zooms and pans so that bounds fills the viewport minus padding on each
// side, never exceeding maxZoom. A zero-sized bounds dimension does not
// constrain the zoom.
func (v Viewport) Fit(bounds geometry.Rect, padding, maxZoom float64) Viewport {
	zx := ratio(v.Width-2*padding, bounds.Width)
	zy := ratio(v.Height-2*padding, bounds.Height)
	v.Zoom = math.Max(MinZoom, math.Min(math.Min(zx, zy), maxZoom))
	return v.CenterOn(bounds.Center())
}

func ratio(avail, size float64) float64 {
	if size <= geometry.Epsilon {
		return math.Inf(1)
	}
	return avail / size
}

// ClampZoom limits z to [MinZoom, MaxZoom].
func ClampZoom(z float64) float64 {
	return math.Max(MinZoom, math.Min(MaxZoom, z))
}
