// Package render turns the shape tree into draw properties and paints them
// into an RGBA frame. The same code drives the editor canvas, the read-only
// customer view and PNG snapshots.
package render

import (
	"image/color"
	"math"

	"venue-designer/internal/shape"
	"venue-designer/pkg/colorutil"
	"venue-designer/pkg/geometry"
)

// Mode selects which surface the props are built for.
type Mode int

const (
	// ModeEditor makes every visible shape interactive.
	ModeEditor Mode = iota
	// ModeCustomer is the read-only booking view: only seating areas and
	// their bookable seats listen for pointer events.
	ModeCustomer
)

// Seat status colors for the customer view.
var (
	HeldColor     = colorutil.Amber
	SoldColor     = colorutil.Gray
	SelectedColor = colorutil.Blue
)

// Props are the resolved draw properties of one shape.
type Props struct {
	ID        string
	Shape     shape.Shape
	Transform geometry.AffineTransform // local to canvas

	Fill        color.NRGBA
	Stroke      color.NRGBA
	StrokeWidth float64 // canvas units

	Listening bool
	Selected  bool

	// Text is set for text shapes.
	Text *TextProps

	// Seats of a seating area, in canvas space.
	Seats []SeatProps
}

// TextProps describe a text run.
type TextProps struct {
	Text      string
	FontSize  float64
	FontStyle string
	Align     string
	Width     float64
}

// SeatProps are the resolved draw properties of one seat.
type SeatProps struct {
	ID     string
	Row    string
	Number int
	Center geometry.Point2D // canvas
	Radius float64          // canvas

	Fill   color.NRGBA
	Stroke color.NRGBA
	Status shape.SeatStatus

	Selected  bool
	Listening bool
}

// Options control how props are built.
type Options struct {
	Mode Mode

	// Focus returns an override style for a shape, as State.FocusStyle does
	// for the zoomed area.
	Focus func(id string) (fill, stroke string, ok bool)

	ShapeSelected func(id string) bool
	SeatSelected  func(id string) bool
	RowSelected   func(id string) bool
}

func (o Options) is(fn func(string) bool, id string) bool {
	return fn != nil && fn(id)
}

// Build resolves draw props for shapes in paint order. Invisible shapes are
// skipped.
func Build(shapes []shape.Shape, opts Options) []Props {
	out := make([]Props, 0, len(shapes))
	for _, s := range shapes {
		b := s.Common()
		if !b.Visible {
			continue
		}
		p := Props{
			ID:        b.ID,
			Shape:     s,
			Transform: shape.Transform(s),
			Selected:  opts.is(opts.ShapeSelected, b.ID),
			Listening: opts.Mode == ModeEditor,
		}

		var fill, stroke string
		switch v := s.(type) {
		case *shape.Rect:
			fill, stroke, p.StrokeWidth = v.Fill, v.Stroke, v.StrokeWidth
		case *shape.Circle:
			fill, stroke, p.StrokeWidth = v.Fill, v.Stroke, v.StrokeWidth
		case *shape.Text:
			fill = v.Fill
			if fill == "" {
				fill = "#000000"
			}
			p.Text = &TextProps{
				Text:      v.Text,
				FontSize:  v.FontSize,
				FontStyle: v.FontStyle,
				Align:     v.Align,
				Width:     v.Width,
			}
		case *shape.Polygon:
			fill, stroke, p.StrokeWidth = v.Fill, v.Stroke, v.StrokeWidth
			if v.IsArea() {
				p.Listening = true
				p.Seats = buildSeats(v, opts)
			}
		}
		if opts.Focus != nil {
			if f, st, ok := opts.Focus(b.ID); ok {
				fill, stroke = f, st
			}
		}

		p.Fill = colorutil.WithOpacity(colorutil.ParseOr(fill, colorutil.Transparent), b.Opacity)
		p.Stroke = colorutil.WithOpacity(colorutil.ParseOr(stroke, colorutil.Transparent), b.Opacity)
		if p.Stroke.A == 0 {
			p.StrokeWidth = 0
		} else if p.StrokeWidth <= 0 {
			p.StrokeWidth = 1
		}
		out = append(out, p)
	}
	return out
}

func buildSeats(area *shape.Polygon, opts Options) []SeatProps {
	scale := transformScale(shape.Transform(area))
	var seats []SeatProps
	for _, row := range area.Rows {
		rowSelected := opts.is(opts.RowSelected, row.ID)
		for _, s := range row.Seats {
			if !s.Visible {
				continue
			}
			sp := SeatProps{
				ID:       s.ID,
				Row:      s.Row,
				Number:   s.Number,
				Center:   area.SeatToCanvas(s.Position()),
				Radius:   s.Radius * scale,
				Status:   s.Status,
				Selected: rowSelected || opts.is(opts.SeatSelected, s.ID),
			}
			if sp.Status == "" {
				sp.Status = shape.SeatAvailable
			}

			fill := firstNonEmpty(s.Fill, row.Fill, area.DefaultColor, shape.DefaultSeatColor)
			sp.Fill = colorutil.ParseOr(fill, colorutil.Blue)
			sp.Stroke = colorutil.ParseOr(firstNonEmpty(s.Stroke, row.Stroke), colorutil.White)

			switch opts.Mode {
			case ModeCustomer:
				switch sp.Status {
				case shape.SeatHeld:
					sp.Fill = HeldColor
				case shape.SeatSold:
					sp.Fill = SoldColor
				}
				sp.Listening = sp.Status == shape.SeatAvailable
			default:
				sp.Listening = true
			}
			if sp.Selected {
				sp.Stroke = SelectedColor
			}
			seats = append(seats, sp)
		}
	}
	return seats
}

// transformScale is the average linear scale of t, used for radii.
func transformScale(t geometry.AffineTransform) float64 {
	return math.Sqrt(math.Abs(t.A*t.D - t.B*t.C))
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
