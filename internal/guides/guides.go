// Package guides finds alignment snaps for a cursor while drawing: horizontal,
// vertical and 45° alignment with a reference point, then the nearest edge of
// an existing shape. The Engine adds edge caching and rate limiting on top of
// the pure Compute function.
package guides

import (
	"math"

	"venue-designer/pkg/geometry"
)

// Kind identifies which alignment produced a snap.
type Kind int

const (
	None Kind = iota
	Horizontal
	Vertical
	Diagonal
	Edge
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	case Diagonal:
		return "diagonal"
	case Edge:
		return "edge"
	default:
		return "none"
	}
}

// Options controls snapping. All distances are canvas units.
type Options struct {
	Threshold      float64
	AxisExtend     float64 // guide overshoot for axis and edge guides
	DiagonalExtend float64 // guide overshoot for diagonal guides
}

// DefaultOptions returns the editor defaults.
func DefaultOptions() Options {
	return Options{
		Threshold:      10,
		AxisExtend:     300,
		DiagonalExtend: 500,
	}
}

// Result is a snapped point and the guide line to draw for it. Kind is None
// when no alignment was within the threshold; Point is then the cursor.
type Result struct {
	Point geometry.Point2D
	Kind  Kind
	Line  geometry.Segment
}

// Snapped reports whether an alignment was applied.
func (r Result) Snapped() bool { return r.Kind != None }

var diagonals = [2]geometry.Point2D{
	{X: math.Sqrt2 / 2, Y: math.Sqrt2 / 2},
	{X: math.Sqrt2 / 2, Y: -math.Sqrt2 / 2},
}

// Compute snaps cursor. With a reference point it tries horizontal, vertical
// then diagonal alignment through ref, then the nearest edge. Without one only
// edges are considered. A candidate whose guide would have zero length is
// skipped.
//
// Compute is idempotent: feeding its output point back in returns the same
// point. An edge snap that would land on an axis alignment of ref is rejected
// to keep that property.
func Compute(cursor geometry.Point2D, ref *geometry.Point2D, edges []geometry.Segment, opts Options) Result {
	if ref != nil {
		if r, ok := alignTo(cursor, *ref, opts); ok {
			return r
		}
	}

	r, ok := nearestEdge(cursor, edges, opts)
	if !ok {
		return Result{Point: cursor}
	}
	if ref != nil {
		if _, aligned := alignTo(r.Point, *ref, opts); aligned {
			return Result{Point: cursor}
		}
	}
	return r
}

func alignTo(cursor, ref geometry.Point2D, opts Options) (Result, bool) {
	th := opts.Threshold

	if math.Abs(cursor.Y-ref.Y) <= th {
		p := geometry.Point2D{X: cursor.X, Y: ref.Y}
		if r, ok := guideResult(p, ref, Horizontal, opts.AxisExtend); ok {
			return r, true
		}
	}
	if math.Abs(cursor.X-ref.X) <= th {
		p := geometry.Point2D{X: ref.X, Y: cursor.Y}
		if r, ok := guideResult(p, ref, Vertical, opts.AxisExtend); ok {
			return r, true
		}
	}

	best, bestDist := geometry.Point2D{}, math.Inf(1)
	rel := cursor.Sub(ref)
	for _, dir := range diagonals {
		proj := dir.Scale(rel.Dot(dir))
		if d := proj.Distance(rel); d <= th && d < bestDist {
			best, bestDist = ref.Add(proj), d
		}
	}
	if !math.IsInf(bestDist, 1) {
		if r, ok := guideResult(best, ref, Diagonal, opts.DiagonalExtend); ok {
			return r, true
		}
	}
	return Result{}, false
}

func guideResult(p, ref geometry.Point2D, kind Kind, extend float64) (Result, bool) {
	seg := geometry.Segment{A: ref, B: p}
	if seg.Length() < geometry.Epsilon {
		return Result{}, false
	}
	return Result{Point: p, Kind: kind, Line: seg.Extend(extend)}, true
}

func nearestEdge(cursor geometry.Point2D, edges []geometry.Segment, opts Options) (Result, bool) {
	var best Result
	bestDist := math.Inf(1)
	for _, e := range edges {
		q, ok := e.ClosestPoint(cursor)
		if !ok {
			continue
		}
		if d := q.Distance(cursor); d <= opts.Threshold && d < bestDist {
			bestDist = d
			best = Result{Point: q, Kind: Edge, Line: e.Extend(opts.AxisExtend)}
		}
	}
	return best, !math.IsInf(bestDist, 1)
}
