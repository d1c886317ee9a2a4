package editor

import (
	"fmt"
	"log"

	"venue-designer/internal/guides"
	"venue-designer/internal/shape"
	"venue-designer/pkg/geometry"
)

// Styles for new areas.
const (
	AreaFill        = "rgba(59,130,246,0.05)"
	AreaStroke      = "#3b82f6"
	AreaStrokeWidth = 2
)

// snap adjusts p with the guide engine. Clicks evaluate immediately, moves go
// through the throttle.
func (d *Dispatcher) snap(p geometry.Point2D, ref *geometry.Point2D, click bool) guides.Result {
	if !d.SnapEnabled {
		return guides.Result{Point: p}
	}
	shapes := d.store.VisibleShapes()
	rev := d.store.Revision()
	if click {
		return d.guides.SnapNow(p, ref, rev, shapes)
	}
	return d.guides.Snap(p, ref, rev, shapes)
}

func (d *Dispatcher) lastVertex() *geometry.Point2D {
	if len(d.vertices) == 0 {
		return nil
	}
	last := d.vertices[len(d.vertices)-1]
	return &last
}

// polygonClick starts a polygon, appends a vertex or closes the polygon when
// the snapped click lands near the first vertex.
func (d *Dispatcher) polygonClick(p geometry.Point2D) {
	g := d.snap(p, d.lastVertex(), true)
	pt := g.Point

	if d.state != DrawingPolygon {
		d.state = DrawingPolygon
		d.vertices = []geometry.Point2D{pt}
		d.current = pt
		d.guide = guides.Result{}
		log.Printf("Polygon: started at (%.1f, %.1f)", pt.X, pt.Y)
		return
	}

	if pt.Distance(d.vertices[0]) <= d.opts.CloseThreshold {
		d.closePolygon()
		return
	}
	d.vertices = append(d.vertices, pt)
	d.current = pt
	d.guide = g
}

func (d *Dispatcher) polygonMove(p geometry.Point2D) {
	g := d.snap(p, d.lastVertex(), false)
	d.current = g.Point
	d.guide = g
}

// closePolygon commits the vertices as a closed area. Fewer than three
// vertices discard the gesture.
func (d *Dispatcher) closePolygon() bool {
	verts := d.vertices
	d.reset()

	if len(verts) < 3 {
		log.Printf("Polygon: discarded with %d points", len(verts))
		return false
	}

	origin := geometry.BoundingBox(verts).TopLeft()
	local := geometry.Translate(verts, origin.Scale(-1))
	poly := &shape.Polygon{
		Base:        shape.NewBase(d.newID("area"), origin.X, origin.Y),
		Points:      local,
		Closed:      true,
		Fill:        AreaFill,
		Stroke:      AreaStroke,
		StrokeWidth: AreaStrokeWidth,
		Area:        shape.NewArea(geometry.Centroid(local)),
	}
	poly.Name = fmt.Sprintf("Area %d", d.areaCount()+1)
	return d.commit(poly)
}

func (d *Dispatcher) areaCount() int {
	n := 0
	for _, s := range d.store.Shapes() {
		if p, ok := s.(*shape.Polygon); ok && p.IsArea() {
			n++
		}
	}
	return n
}
