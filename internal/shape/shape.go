// Package shape defines the venue layout data model: a closed set of shape
// variants (rect, circle, text, polygon) where a polygon can carry seating as
// an Area with rows and seats.
package shape

import (
	"venue-designer/pkg/geometry"
)

// Kind discriminates shape variants. It is the "type" field in persisted JSON.
type Kind string

const (
	KindRect    Kind = "rect"
	KindCircle  Kind = "circle"
	KindText    Kind = "text"
	KindPolygon Kind = "polygon"
)

// Shape is implemented only by *Rect, *Circle, *Text and *Polygon.
type Shape interface {
	// Kind returns the variant discriminator.
	Kind() Kind

	// Common returns the fields shared by every variant.
	Common() *Base

	// Clone returns a deep copy.
	Clone() Shape

	sealed()
}

// Base holds the fields common to every shape.
type Base struct {
	ID        string  `json:"id"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Rotation  float64 `json:"rotation"` // degrees, clockwise
	ScaleX    float64 `json:"scaleX"`
	ScaleY    float64 `json:"scaleY"`
	Visible   bool    `json:"visible"`
	Opacity   float64 `json:"opacity"`
	Draggable bool    `json:"draggable"`
	Name      string  `json:"name,omitempty"`
}

// NewBase returns a Base with editor defaults.
func NewBase(id string, x, y float64) Base {
	return Base{
		ID:        id,
		X:         x,
		Y:         y,
		ScaleX:    1,
		ScaleY:    1,
		Visible:   true,
		Opacity:   1,
		Draggable: true,
	}
}

// Common implements Shape.
func (b *Base) Common() *Base { return b }

func (b *Base) sealed() {}

// Position returns the shape origin.
func (b *Base) Position() geometry.Point2D {
	return geometry.Point2D{X: b.X, Y: b.Y}
}

// Rect is an axis-aligned (before rotation) rectangle with its origin at the
// top-left corner.
type Rect struct {
	Base
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	CornerRadius float64 `json:"cornerRadius"`
	Fill         string  `json:"fill,omitempty"`
	Stroke       string  `json:"stroke,omitempty"`
	StrokeWidth  float64 `json:"strokeWidth,omitempty"`
}

func (r *Rect) Kind() Kind { return KindRect }

func (r *Rect) Clone() Shape {
	c := *r
	return &c
}

// Circle has its origin at the center.
type Circle struct {
	Base
	Radius      float64 `json:"radius"`
	Fill        string  `json:"fill,omitempty"`
	Stroke      string  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"strokeWidth,omitempty"`
}

func (c *Circle) Kind() Kind { return KindCircle }

func (c *Circle) Clone() Shape {
	cp := *c
	return &cp
}

// Text is a label with its origin at the top-left corner.
type Text struct {
	Base
	Text       string  `json:"text"`
	FontSize   float64 `json:"fontSize"`
	FontFamily string  `json:"fontFamily,omitempty"`
	FontStyle  string  `json:"fontStyle,omitempty"` // "normal", "bold", "italic", "bold italic"
	Align      string  `json:"align,omitempty"`
	Width      float64 `json:"width,omitempty"`
	Fill       string  `json:"fill,omitempty"`
}

func (t *Text) Kind() Kind { return KindText }

func (t *Text) Clone() Shape {
	c := *t
	return &c
}

// Polygon is a point path in shape-local space. A polygon with a non-nil
// Area is a seating area; the Area fields are inlined in JSON.
type Polygon struct {
	Base
	Points      []geometry.Point2D `json:"points"`
	Closed      bool               `json:"closed"`
	Fill        string             `json:"fill,omitempty"`
	Stroke      string             `json:"stroke,omitempty"`
	StrokeWidth float64            `json:"strokeWidth,omitempty"`
	*Area
}

func (p *Polygon) Kind() Kind { return KindPolygon }

func (p *Polygon) Clone() Shape {
	c := *p
	c.Points = append([]geometry.Point2D(nil), p.Points...)
	if p.Area != nil {
		c.Area = p.Area.clone()
	}
	return &c
}

// IsArea reports whether the polygon carries seating.
func (p *Polygon) IsArea() bool { return p.Area != nil }

// TranslatedPoints returns the points offset by the polygon position,
// ignoring rotation and scale.
func (p *Polygon) TranslatedPoints() []geometry.Point2D {
	return geometry.Translate(p.Points, p.Position())
}

// CanvasPoints returns the points mapped through the full shape transform.
func (p *Polygon) CanvasPoints() []geometry.Point2D {
	t := Transform(p)
	out := make([]geometry.Point2D, len(p.Points))
	for i, pt := range p.Points {
		out[i] = t.Apply(pt)
	}
	return out
}

// SeatToCanvas maps a seat-space point (relative to the area center) to
// canvas space.
func (p *Polygon) SeatToCanvas(rel geometry.Point2D) geometry.Point2D {
	var center geometry.Point2D
	if p.Area != nil {
		center = p.Center
	}
	return Transform(p).Apply(center.Add(rel))
}

// CanvasToSeat maps a canvas point into seat space. It fails only for a
// degenerate (zero-scale) transform.
func (p *Polygon) CanvasToSeat(pt geometry.Point2D) (geometry.Point2D, bool) {
	inv, ok := Transform(p).Inverse()
	if !ok {
		return geometry.Point2D{}, false
	}
	local := inv.Apply(pt)
	if p.Area != nil {
		local = local.Sub(p.Center)
	}
	return local, true
}

// Area holds the seating configuration of a polygon.
type Area struct {
	Center             geometry.Point2D `json:"center"`
	DefaultSeatRadius  float64          `json:"defaultSeatRadius"`
	DefaultSeatSpacing float64          `json:"defaultSeatSpacing"`
	DefaultRowSpacing  float64          `json:"defaultRowSpacing"`
	DefaultCategory    string           `json:"defaultCategory"`
	DefaultColor       string           `json:"defaultColor"`
	DefaultPrice       float64          `json:"defaultPrice"`
	Rows               []Row            `json:"rows"`
}

// Seating defaults applied to new areas.
const (
	DefaultSeatRadius  = 8
	DefaultSeatSpacing = 20
	DefaultRowSpacing  = 25
	DefaultCategory    = "standard"
	DefaultSeatColor   = "#3b82f6"
)

// NewArea returns an Area centered at center with default seating settings.
func NewArea(center geometry.Point2D) *Area {
	return &Area{
		Center:             center,
		DefaultSeatRadius:  DefaultSeatRadius,
		DefaultSeatSpacing: DefaultSeatSpacing,
		DefaultRowSpacing:  DefaultRowSpacing,
		DefaultCategory:    DefaultCategory,
		DefaultColor:       DefaultSeatColor,
		Rows:               []Row{},
	}
}

func (a *Area) clone() *Area {
	c := *a
	if a.Rows != nil {
		c.Rows = make([]Row, len(a.Rows))
		for i, r := range a.Rows {
			c.Rows[i] = r.Clone()
		}
	}
	return &c
}

// RowByName returns the index of the row with the given name, or -1.
func (a *Area) RowByName(name string) int {
	for i := range a.Rows {
		if a.Rows[i].Name == name {
			return i
		}
	}
	return -1
}

// RowByID returns the index of the row with the given id, or -1.
func (a *Area) RowByID(id string) int {
	for i := range a.Rows {
		if a.Rows[i].ID == id {
			return i
		}
	}
	return -1
}

// SeatCount returns the number of seats across all rows.
func (a *Area) SeatCount() int {
	n := 0
	for _, r := range a.Rows {
		n += len(r.Seats)
	}
	return n
}

// Row is a named line of seats inside an area.
type Row struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	StartX      float64 `json:"startX"`
	StartY      float64 `json:"startY"`
	SeatRadius  float64 `json:"seatRadius"`
	SeatSpacing float64 `json:"seatSpacing"`
	Rotation    float64 `json:"rotation"`
	Area        string  `json:"area"`
	Seats       []Seat  `json:"seats"`
	Fill        string  `json:"fill,omitempty"`
	Stroke      string  `json:"stroke,omitempty"`
}

// Clone returns a deep copy of the row.
func (r Row) Clone() Row {
	if r.Seats != nil {
		r.Seats = append([]Seat(nil), r.Seats...)
	}
	return r
}

// SeatStatus is the booking state of a seat. It is supplied at render time by
// the booking service and never persisted by the layout codec.
type SeatStatus string

const (
	SeatAvailable SeatStatus = "available"
	SeatHeld      SeatStatus = "held"
	SeatSold      SeatStatus = "sold"
)

// Seat is a bookable unit. X/Y are relative to the owning polygon's center.
type Seat struct {
	ID       string     `json:"id"`
	X        float64    `json:"x"`
	Y        float64    `json:"y"`
	Radius   float64    `json:"radius"`
	Fill     string     `json:"fill,omitempty"`
	Stroke   string     `json:"stroke,omitempty"`
	Number   int        `json:"number"`
	Row      string     `json:"row"`
	Category string     `json:"category,omitempty"`
	Status   SeatStatus `json:"-"`
	Price    float64    `json:"price"`
	Visible  bool       `json:"visible"`
}

// Position returns the seat position in seat space.
func (s Seat) Position() geometry.Point2D {
	return geometry.Point2D{X: s.X, Y: s.Y}
}

// Transform returns the local-to-canvas transform of a shape:
// translate(x, y) * rotate(rotation) * scale(scaleX, scaleY).
func Transform(s Shape) geometry.AffineTransform {
	b := s.Common()
	return geometry.Translation(b.X, b.Y).
		Compose(geometry.Rotation(geometry.DegToRad(b.Rotation))).
		Compose(geometry.Scale(b.ScaleX, b.ScaleY))
}

// ID is shorthand for s.Common().ID.
func ID(s Shape) string { return s.Common().ID }

// Find returns the shape with the given id and its index, or nil and -1.
func Find(shapes []Shape, id string) (Shape, int) {
	for i, s := range shapes {
		if ID(s) == id {
			return s, i
		}
	}
	return nil, -1
}

// CloneAll deep-copies a shape list.
func CloneAll(shapes []Shape) []Shape {
	out := make([]Shape, len(shapes))
	for i, s := range shapes {
		out[i] = s.Clone()
	}
	return out
}
