package geometry

import "math"

// PointInPolygon tests if a point is inside a polygon using ray casting.
func PointInPolygon(p Point2D, polygon []Point2D) bool {
	if len(polygon) < 3 {
		return false
	}

	inside := false
	n := len(polygon)

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		pi, pj := polygon[i], polygon[j]

		// Check if ray from p going right intersects edge pi-pj
		if ((pi.Y > p.Y) != (pj.Y > p.Y)) &&
			(p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X) {
			inside = !inside
		}
	}

	return inside
}

// SignedArea returns the shoelace area of a polygon. The sign depends on the
// winding order.
func SignedArea(polygon []Point2D) float64 {
	if len(polygon) < 3 {
		return 0
	}
	var sum float64
	n := len(polygon)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += crossProduct(Point2D{}, polygon[i], polygon[j])
	}
	return sum / 2
}

// PolygonCentroid returns the area-weighted centroid of a simple polygon.
// Degenerate (zero-area) polygons fall back to the vertex average.
func PolygonCentroid(polygon []Point2D) Point2D {
	area := SignedArea(polygon)
	if math.Abs(area) < Epsilon {
		return Centroid(polygon)
	}

	var cx, cy float64
	n := len(polygon)
	for i := 0; i < n; i++ {
		a, b := polygon[i], polygon[(i+1)%n]
		f := a.X*b.Y - b.X*a.Y
		cx += (a.X + b.X) * f
		cy += (a.Y + b.Y) * f
	}
	return Point2D{X: cx / (6 * area), Y: cy / (6 * area)}
}

// Segment is a line segment between two points.
type Segment struct {
	A Point2D `json:"a"`
	B Point2D `json:"b"`
}

// Length returns the segment length.
func (s Segment) Length() float64 {
	return s.A.Distance(s.B)
}

// ClosestPoint returns the point on the segment nearest to p.
// For a zero-length segment the second return is false.
func (s Segment) ClosestPoint(p Point2D) (Point2D, bool) {
	d := s.B.Sub(s.A)
	lenSq := d.Dot(d)
	if lenSq < Epsilon {
		return Point2D{}, false
	}
	t := p.Sub(s.A).Dot(d) / lenSq
	t = math.Max(0, math.Min(1, t))
	return s.A.Add(d.Scale(t)), true
}

// Extend returns the segment lengthened by amount beyond both endpoints.
func (s Segment) Extend(amount float64) Segment {
	u, ok := s.B.Sub(s.A).Unit()
	if !ok {
		return s
	}
	return Segment{A: s.A.Sub(u.Scale(amount)), B: s.B.Add(u.Scale(amount))}
}

// Edges returns the edges of a point path. A closed path includes the edge from
// the last point back to the first.
func Edges(points []Point2D, closed bool) []Segment {
	if len(points) < 2 {
		return nil
	}
	edges := make([]Segment, 0, len(points))
	for i := 0; i+1 < len(points); i++ {
		edges = append(edges, Segment{A: points[i], B: points[i+1]})
	}
	if closed && len(points) > 2 {
		edges = append(edges, Segment{A: points[len(points)-1], B: points[0]})
	}
	return edges
}

// crossProduct computes the cross product of vectors OA and OB.
func crossProduct(o, a, b Point2D) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}
