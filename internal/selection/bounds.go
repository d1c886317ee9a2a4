// Package selection computes rotation-aware selection bounds, the transform
// overlay drawn around selected shapes and rubber-band selection.
package selection

import (
	"venue-designer/internal/hittest"
	"venue-designer/internal/shape"
	"venue-designer/pkg/geometry"
)

// Bounds returns the axis-aligned box enclosing s on the canvas.
//
// Rects and text rotate about their top-left origin, circles about their
// center. Polygons use x,y plus each point without rotation.
func Bounds(s shape.Shape) geometry.Rect {
	var local [4]geometry.Point2D
	switch v := s.(type) {
	case *shape.Rect:
		local = geometry.NewRect(0, 0, v.Width, v.Height).Corners()
	case *shape.Text:
		w, h := hittest.TextSize(v)
		local = geometry.NewRect(0, 0, w, h).Corners()
	case *shape.Circle:
		local = geometry.NewRect(-v.Radius, -v.Radius, 2*v.Radius, 2*v.Radius).Corners()
	case *shape.Polygon:
		if len(v.Points) == 0 {
			return geometry.NewRect(v.X, v.Y, 0, 0)
		}
		return geometry.BoundingBox(v.TranslatedPoints())
	default:
		return geometry.Rect{}
	}

	t := shape.Transform(s)
	pts := make([]geometry.Point2D, len(local))
	for i, c := range local {
		pts[i] = t.Apply(c)
	}
	return geometry.BoundingBox(pts)
}

// UnionBounds returns the box enclosing every shape. The second return is
// false for an empty list.
func UnionBounds(shapes []shape.Shape) (geometry.Rect, bool) {
	if len(shapes) == 0 {
		return geometry.Rect{}, false
	}
	box := Bounds(shapes[0])
	for _, s := range shapes[1:] {
		box = box.Union(Bounds(s))
	}
	return box, true
}

// ShapesInRect returns the ids of shapes whose bounds intersect box, in
// drawing order. A nil accept accepts every shape.
func ShapesInRect(shapes []shape.Shape, box geometry.Rect, accept func(shape.Shape) bool) []string {
	var ids []string
	for _, s := range shapes {
		if !s.Common().Visible || (accept != nil && !accept(s)) {
			continue
		}
		if box.Intersects(Bounds(s)) {
			ids = append(ids, shape.ID(s))
		}
	}
	return ids
}

// SeatsInRect returns the ids of the visible seats of area whose centers fall
// inside the canvas box.
func SeatsInRect(area *shape.Polygon, box geometry.Rect) []string {
	if area == nil || area.Area == nil {
		return nil
	}
	var ids []string
	for _, r := range area.Rows {
		for _, s := range r.Seats {
			if s.Visible && box.Contains(area.SeatToCanvas(s.Position())) {
				ids = append(ids, s.ID)
			}
		}
	}
	return ids
}
