package shape

import "venue-designer/pkg/geometry"

// Patch is a partial update. Nil fields are left unchanged; fields that do not
// exist on the target variant are ignored.
type Patch struct {
	X         *float64
	Y         *float64
	Rotation  *float64
	ScaleX    *float64
	ScaleY    *float64
	Opacity   *float64
	Visible   *bool
	Draggable *bool
	Name      *string

	Fill        *string
	Stroke      *string
	StrokeWidth *float64

	Width        *float64
	Height       *float64
	CornerRadius *float64
	Radius       *float64

	Text     *string
	FontSize *float64

	Points []geometry.Point2D
	Closed *bool
}

// Update pairs a shape id with a patch for batch updates.
type Update struct {
	ID    string
	Patch Patch
}

// Ptr returns a pointer to v, for building patches.
func Ptr[T any](v T) *T { return &v }

// MoveTo is a patch setting the shape origin.
func MoveTo(p geometry.Point2D) Patch {
	return Patch{X: Ptr(p.X), Y: Ptr(p.Y)}
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.X == nil && p.Y == nil && p.Rotation == nil && p.ScaleX == nil &&
		p.ScaleY == nil && p.Opacity == nil && p.Visible == nil &&
		p.Draggable == nil && p.Name == nil && p.Fill == nil && p.Stroke == nil &&
		p.StrokeWidth == nil && p.Width == nil && p.Height == nil &&
		p.CornerRadius == nil && p.Radius == nil && p.Text == nil &&
		p.FontSize == nil && p.Points == nil && p.Closed == nil
}

// Apply writes the patch into s.
func (p Patch) Apply(s Shape) {
	b := s.Common()
	set(&b.X, p.X)
	set(&b.Y, p.Y)
	set(&b.Rotation, p.Rotation)
	set(&b.ScaleX, p.ScaleX)
	set(&b.ScaleY, p.ScaleY)
	set(&b.Opacity, p.Opacity)
	set(&b.Visible, p.Visible)
	set(&b.Draggable, p.Draggable)
	set(&b.Name, p.Name)

	switch v := s.(type) {
	case *Rect:
		set(&v.Width, p.Width)
		set(&v.Height, p.Height)
		set(&v.CornerRadius, p.CornerRadius)
		set(&v.Fill, p.Fill)
		set(&v.Stroke, p.Stroke)
		set(&v.StrokeWidth, p.StrokeWidth)
	case *Circle:
		set(&v.Radius, p.Radius)
		set(&v.Fill, p.Fill)
		set(&v.Stroke, p.Stroke)
		set(&v.StrokeWidth, p.StrokeWidth)
	case *Text:
		set(&v.Text, p.Text)
		set(&v.FontSize, p.FontSize)
		set(&v.Width, p.Width)
		set(&v.Fill, p.Fill)
	case *Polygon:
		if p.Points != nil {
			v.Points = append([]geometry.Point2D(nil), p.Points...)
		}
		set(&v.Closed, p.Closed)
		set(&v.Fill, p.Fill)
		set(&v.Stroke, p.Stroke)
		set(&v.StrokeWidth, p.StrokeWidth)
	}
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
