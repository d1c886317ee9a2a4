package render

import (
	"image"
	"image/color"
	"image/draw"
	"strconv"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"venue-designer/internal/editor"
	"venue-designer/internal/hittest"
	"venue-designer/internal/selection"
	"venue-designer/internal/shape"
	"venue-designer/internal/textmeasure"
	"venue-designer/internal/viewport"
	"venue-designer/pkg/colorutil"
	"venue-designer/pkg/geometry"
)

// Screen sizes of overlay decorations, in pixels.
const (
	handleSize      = 8
	overlayStroke   = 1
	previewStroke   = 2
	badgeRadius     = 10
	minLabelRadius  = 7 // seats smaller than this on screen get no number
	snapshotPadding = 20
)

var (
	canvasBackground = color.NRGBA{R: 0xf8, G: 0xfa, B: 0xfc, A: 255}
	guideColor       = color.NRGBA{R: 0xec, G: 0x48, B: 0x99, A: 255}
	bandFill         = colorutil.WithOpacity(colorutil.Blue, 0.1)
	previewFill      = colorutil.WithOpacity(colorutil.Blue, 0.25)
)

// Painter rasterizes props into RGBA frames. Text is drawn only when fonts
// are available.
type Painter struct {
	Background color.NRGBA

	mu    sync.Mutex // guards font faces
	fonts *textmeasure.Fonts
}

// NewPainter returns a Painter using fonts for text (nil draws no glyphs).
func NewPainter(fonts *textmeasure.Fonts) *Painter {
	return &Painter{Background: canvasBackground, fonts: fonts}
}

// Clear fills dst with the background color.
func (p *Painter) Clear(dst *image.RGBA) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(p.Background), image.Point{}, draw.Src)
}

// Paint draws props in order through the viewport.
func (p *Painter) Paint(dst *image.RGBA, props []Props, vp viewport.Viewport) {
	view := vp.Transform()
	zoom := vp.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	for _, pr := range props {
		if pr.Text != nil {
			p.paintText(dst, pr, view, zoom)
			continue
		}

		var rec hittest.Recorder
		hittest.Region(pr.Shape, hittest.Transformed(&rec, view.Compose(pr.Transform)))
		if poly, ok := pr.Shape.(*shape.Polygon); !ok || poly.Closed {
			fillPath(dst, &rec, pr.Fill)
		}
		strokePath(dst, &rec, pr.StrokeWidth*zoom*transformScale(pr.Transform), pr.Stroke)

		for _, s := range pr.Seats {
			p.paintSeat(dst, s, view, zoom)
		}
	}
}

func (p *Painter) paintSeat(dst *image.RGBA, s SeatProps, view geometry.AffineTransform, zoom float64) {
	c := view.Apply(s.Center)
	r := s.Radius * zoom
	fillCircle(dst, c, r, s.Fill)
	width := 1.0
	if s.Selected {
		width = 2
	}
	strokeCircle(dst, c, r, width, s.Stroke)

	if r >= minLabelRadius {
		p.drawLabel(dst, strconv.Itoa(s.Number), c, r*0.9, colorutil.White)
	}
}

func (p *Painter) paintText(dst *image.RGBA, pr Props, view geometry.AffineTransform, zoom float64) {
	t := pr.Text
	if p.fonts == nil || t.Text == "" || t.FontSize <= 0 || pr.Fill.A == 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	face, err := p.fonts.Face(t.FontStyle, t.FontSize*zoom)
	if err != nil {
		return
	}
	origin := view.Apply(pr.Transform.Apply(geometry.Point2D{}))
	if t.Width > 0 && t.Align != "" && t.Align != "left" {
		slack := t.Width*zoom - float64(font.MeasureString(face, t.Text))/64
		if t.Align == "center" {
			slack /= 2
		}
		origin.X += slack
	}
	// Glyphs are drawn upright at the rotated origin.
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(pr.Fill),
		Face: face,
		Dot:  fixed.Point26_6{X: toFixed(origin.X), Y: toFixed(origin.Y) + face.Metrics().Ascent},
	}
	d.DrawString(t.Text)
}

// drawLabel centres a short string on c at the given pixel size.
func (p *Painter) drawLabel(dst *image.RGBA, text string, c geometry.Point2D, size float64, col color.NRGBA) {
	if p.fonts == nil || text == "" {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	face, err := p.fonts.Face("bold", size)
	if err != nil {
		return
	}
	m := face.Metrics()
	w := font.MeasureString(face, text)
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: face,
		Dot: fixed.Point26_6{
			X: toFixed(c.X) - w/2,
			Y: toFixed(c.Y) + (m.Ascent-m.Descent)/2,
		},
	}
	d.DrawString(text)
}

// PaintSelection draws the selection box, its handles, the rotation guide and
// the count badge.
func (p *Painter) PaintSelection(dst *image.RGBA, o selection.Overlay, vp viewport.Viewport) {
	view := vp.Transform()
	tl := view.Apply(o.Box.TopLeft())
	br := view.Apply(o.Box.BottomRight())
	strokeRect(dst, geometry.RectFromPoints(tl, br), overlayStroke, colorutil.Blue)

	if o.HasRotate {
		strokeLine(dst, view.Apply(o.RotateLine.A), view.Apply(o.RotateLine.B), overlayStroke, colorutil.Blue)
	}
	for _, h := range o.Handles {
		c := view.Apply(h.Pos)
		if h.Kind == selection.HandleRotate {
			fillCircle(dst, c, handleSize/2, colorutil.White)
			strokeCircle(dst, c, handleSize/2, overlayStroke, colorutil.Blue)
			continue
		}
		box := geometry.NewRect(c.X-handleSize/2, c.Y-handleSize/2, handleSize, handleSize)
		fillRect(dst, box, colorutil.White)
		strokeRect(dst, box, overlayStroke, colorutil.Blue)
	}

	if o.RotationLabel != "" {
		p.drawLabel(dst, o.RotationLabel, geometry.Point2D{X: (tl.X + br.X) / 2, Y: br.Y + 12}, 11, colorutil.Blue)
	}
	if o.Badge != "" {
		c := view.Apply(o.BadgePos)
		fillCircle(dst, c, badgeRadius, colorutil.Blue)
		p.drawLabel(dst, o.Badge, c, 11, colorutil.White)
	}
}

// PaintPreview draws the uncommitted gesture state.
func (p *Painter) PaintPreview(dst *image.RGBA, pv editor.Preview, vp viewport.Viewport) {
	view := vp.Transform()
	zoom := vp.Zoom
	if zoom <= 0 {
		zoom = 1
	}

	if pv.Shape != nil {
		props := Build([]shape.Shape{pv.Shape}, Options{})
		for i := range props {
			props[i].Fill = colorutil.WithOpacity(props[i].Fill, 0.6)
		}
		p.Paint(dst, props, vp)
	}

	if len(pv.Polygon) > 0 {
		var rec hittest.Recorder
		path := hittest.Transformed(&rec, view)
		path.MoveTo(pv.Polygon[0])
		for _, pt := range pv.Polygon[1:] {
			path.LineTo(pt)
		}
		strokePath(dst, &rec, previewStroke, colorutil.Blue)

		for _, pt := range pv.Polygon[:len(pv.Polygon)-1] {
			fillCircle(dst, view.Apply(pt), 3, colorutil.Blue)
		}
		if pv.Closing {
			strokeCircle(dst, view.Apply(pv.Polygon[0]), 8, previewStroke, colorutil.Green)
		}
	}

	for _, s := range pv.Seats {
		fillCircle(dst, view.Apply(s), pv.SeatRadius*zoom, previewFill)
	}

	if pv.Guide.Snapped() {
		strokeLine(dst, view.Apply(pv.Guide.Line.A), view.Apply(pv.Guide.Line.B), overlayStroke, guideColor)
		fillCircle(dst, view.Apply(pv.Guide.Point), 3, guideColor)
	}

	if pv.Band != nil {
		box := geometry.RectFromPoints(view.Apply(pv.Band.TopLeft()), view.Apply(pv.Band.BottomRight()))
		fillRect(dst, box, bandFill)
		strokeRect(dst, box, overlayStroke, colorutil.Blue)
	}
}

// Snapshot renders shapes fitted into a w×h image on the background color.
func (p *Painter) Snapshot(shapes []shape.Shape, w, h int, opts Options) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	p.Clear(dst)

	vp := viewport.New(float64(w), float64(h))
	if box, ok := selection.UnionBounds(shapes); ok {
		vp = vp.Fit(box, snapshotPadding, viewport.MaxZoom)
	}
	p.Paint(dst, Build(shapes, opts), vp)
	return dst
}

func toFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}
