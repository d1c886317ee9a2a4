package editor

import (
	"log"
	"math"

	"venue-designer/internal/app"
	"venue-designer/internal/shape"
	"venue-designer/pkg/geometry"
)

// Styles for newly drawn shapes.
const (
	DefaultFill        = "#cbd5e1"
	DefaultStroke      = "#475569"
	DefaultStrokeWidth = 2
	DefaultTextFill    = "#111827"
	DefaultText        = "New Text"
	DefaultFontSize    = 18
	DefaultFontFamily  = "Go"
)

func (d *Dispatcher) beginShape(p geometry.Point2D) {
	d.state = DrawingShape
	d.anchor = p
	d.current = p
	d.draft = d.shapeFrom(p, p)
}

// shapeFrom builds the rect or circle spanned by the drag from a to b. A
// circle is centered between the two points with half the larger side as
// radius.
func (d *Dispatcher) shapeFrom(a, b geometry.Point2D) shape.Shape {
	box := geometry.RectFromPoints(a, b)
	if d.store.Tool() == app.ToolCircle {
		c := box.Center()
		return &shape.Circle{
			Base:        shape.NewBase("", c.X, c.Y),
			Radius:      math.Max(box.Width, box.Height) / 2,
			Fill:        DefaultFill,
			Stroke:      DefaultStroke,
			StrokeWidth: DefaultStrokeWidth,
		}
	}
	return &shape.Rect{
		Base:        shape.NewBase("", box.X, box.Y),
		Width:       box.Width,
		Height:      box.Height,
		Fill:        DefaultFill,
		Stroke:      DefaultStroke,
		StrokeWidth: DefaultStrokeWidth,
	}
}

func (d *Dispatcher) finishShape(p geometry.Point2D) {
	box := geometry.RectFromPoints(d.anchor, p)
	s := d.shapeFrom(d.anchor, p)
	d.reset()

	if math.Max(box.Width, box.Height) < d.opts.MinShapeSize {
		log.Printf("Draw: discarded %s smaller than %.0f", s.Kind(), d.opts.MinShapeSize)
		return
	}
	s.Common().ID = d.newID(string(s.Kind()))
	d.commit(s)
}

// placeText creates a text label at p sized by the measurer.
func (d *Dispatcher) placeText(p geometry.Point2D) {
	w, _ := d.measure.Measure(DefaultText, DefaultFontSize, "normal")
	t := &shape.Text{
		Base:       shape.NewBase(d.newID("text"), p.X, p.Y),
		Text:       DefaultText,
		FontSize:   DefaultFontSize,
		FontFamily: DefaultFontFamily,
		FontStyle:  "normal",
		Align:      "left",
		Width:      w,
		Fill:       DefaultTextFill,
	}
	d.commit(t)
}
