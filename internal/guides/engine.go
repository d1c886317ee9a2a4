package guides

import (
	"time"

	"venue-designer/internal/shape"
	"venue-designer/pkg/geometry"
)

// Rate limits for pointer-move snapping.
const (
	DefaultInterval = 16 * time.Millisecond
	DefaultMinMove  = 0.5
)

// Engine wraps Compute with a shape-edge cache keyed by the store revision and
// a per-frame throttle for pointer moves. It is not safe for concurrent use.
type Engine struct {
	Options  Options
	Interval time.Duration
	MinMove  float64

	now func() time.Time

	edges      []geometry.Segment
	edgesRev   uint64
	edgesValid bool

	last      Result
	lastAt    time.Time
	lastPt    geometry.Point2D
	lastRef   *geometry.Point2D
	lastValid bool
}

// NewEngine returns an engine with default throttling.
func NewEngine(opts Options) *Engine {
	return &Engine{
		Options:  opts,
		Interval: DefaultInterval,
		MinMove:  DefaultMinMove,
		now:      time.Now,
	}
}

// SetClock replaces the time source.
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
}

// Invalidate drops the cached shape edges and the last result.
func (e *Engine) Invalidate() {
	e.edges = nil
	e.edgesValid = false
	e.lastValid = false
}

// Edges returns the snapping edges of shapes, recomputing only when rev
// differs from the cached revision or after Invalidate.
func (e *Engine) Edges(rev uint64, shapes []shape.Shape) []geometry.Segment {
	if e.edgesValid && e.edgesRev == rev {
		return e.edges
	}
	e.edges = ExtractEdges(shapes)
	e.edgesRev = rev
	e.edgesValid = true
	return e.edges
}

// Snap is the pointer-move entry point. Within Interval of the previous
// evaluation, or when the cursor moved less than MinMove with the same
// reference, it returns the previous result unchanged.
func (e *Engine) Snap(cursor geometry.Point2D, ref *geometry.Point2D, rev uint64, shapes []shape.Shape) Result {
	now := e.now()
	if e.lastValid && sameRef(e.lastRef, ref) {
		if now.Sub(e.lastAt) < e.Interval || cursor.Distance(e.lastPt) < e.MinMove {
			return e.last
		}
	}
	return e.evaluate(now, cursor, ref, rev, shapes)
}

// SnapNow evaluates immediately, bypassing the throttle. Clicks use it so a
// committed vertex always reflects the exact click position.
func (e *Engine) SnapNow(cursor geometry.Point2D, ref *geometry.Point2D, rev uint64, shapes []shape.Shape) Result {
	return e.evaluate(e.now(), cursor, ref, rev, shapes)
}

// Reset forgets the last result so the next Snap evaluates.
func (e *Engine) Reset() {
	e.lastValid = false
}

func (e *Engine) evaluate(now time.Time, cursor geometry.Point2D, ref *geometry.Point2D, rev uint64, shapes []shape.Shape) Result {
	r := Compute(cursor, ref, e.Edges(rev, shapes), e.Options)
	e.last, e.lastAt, e.lastPt, e.lastValid = r, now, cursor, true
	if ref != nil {
		cp := *ref
		e.lastRef = &cp
	} else {
		e.lastRef = nil
	}
	return r
}

func sameRef(a, b *geometry.Point2D) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// ExtractEdges returns snapping segments in canvas space: the four sides of
// each rect, each polygon edge, and the four axis-aligned tangents of each
// circle. Hidden shapes and text contribute nothing.
func ExtractEdges(shapes []shape.Shape) []geometry.Segment {
	var edges []geometry.Segment
	for _, s := range shapes {
		if !s.Common().Visible {
			continue
		}
		switch v := s.(type) {
		case *shape.Rect:
			t := shape.Transform(v)
			c := geometry.NewRect(0, 0, v.Width, v.Height).Corners()
			for i := range c {
				c[i] = t.Apply(c[i])
			}
			edges = append(edges, geometry.Edges(c[:], true)...)
		case *shape.Polygon:
			edges = append(edges, geometry.Edges(v.CanvasPoints(), v.Closed)...)
		case *shape.Circle:
			r := v.Radius * v.ScaleX
			if r <= 0 {
				continue
			}
			cx, cy := v.X, v.Y
			edges = append(edges,
				geometry.Segment{A: geometry.Point2D{X: cx - r, Y: cy - r}, B: geometry.Point2D{X: cx + r, Y: cy - r}},
				geometry.Segment{A: geometry.Point2D{X: cx + r, Y: cy - r}, B: geometry.Point2D{X: cx + r, Y: cy + r}},
				geometry.Segment{A: geometry.Point2D{X: cx - r, Y: cy + r}, B: geometry.Point2D{X: cx + r, Y: cy + r}},
				geometry.Segment{A: geometry.Point2D{X: cx - r, Y: cy - r}, B: geometry.Point2D{X: cx - r, Y: cy + r}},
			)
		}
	}
	return edges
}
