package selection

import (
	"fmt"
	"strconv"

	"venue-designer/internal/shape"
	"venue-designer/pkg/geometry"
)

// RotateHandleOffset is the distance of the rotation handle above the box.
const RotateHandleOffset = 20

// HandleKind identifies a transform handle.
type HandleKind int

const (
	HandleTopLeft HandleKind = iota
	HandleTopRight
	HandleBottomRight
	HandleBottomLeft
	HandleTop
	HandleRight
	HandleBottom
	HandleLeft
	HandleRotate
)

// String returns the handle name.
func (k HandleKind) String() string {
	switch k {
	case HandleTopLeft:
		return "top-left"
	case HandleTopRight:
		return "top-right"
	case HandleBottomRight:
		return "bottom-right"
	case HandleBottomLeft:
		return "bottom-left"
	case HandleTop:
		return "top"
	case HandleRight:
		return "right"
	case HandleBottom:
		return "bottom"
	case HandleLeft:
		return "left"
	case HandleRotate:
		return "rotate"
	default:
		return "unknown"
	}
}

// IsCorner reports whether k is one of the four corner handles.
func (k HandleKind) IsCorner() bool { return k <= HandleBottomLeft }

// Handle is a draggable transform control.
type Handle struct {
	Kind HandleKind
	Pos  geometry.Point2D
}

// Overlay describes everything drawn around the current selection.
type Overlay struct {
	Box     geometry.Rect
	Handles []Handle

	// RotateLine connects the top-center of the box to the rotation handle.
	// Zero when there is no rotation handle.
	RotateLine geometry.Segment
	HasRotate  bool

	// RotationLabel shows a single shape's non-zero rotation.
	RotationLabel string

	// Badge is the selection count for multi-selection, "" otherwise.
	Badge    string
	BadgePos geometry.Point2D
}

// BuildOverlay computes the overlay for the selected shapes. It returns false
// when nothing is selected.
func BuildOverlay(selected []shape.Shape) (Overlay, bool) {
	box, ok := UnionBounds(selected)
	if !ok {
		return Overlay{}, false
	}
	o := Overlay{Box: box}

	corners := box.Corners()
	for i, c := range corners {
		o.Handles = append(o.Handles, Handle{Kind: HandleKind(i), Pos: c})
	}

	single := len(selected) == 1
	if single {
		mid := func(a, b geometry.Point2D) geometry.Point2D { return a.Add(b).Scale(0.5) }
		o.Handles = append(o.Handles,
			Handle{Kind: HandleTop, Pos: mid(corners[0], corners[1])},
			Handle{Kind: HandleRight, Pos: mid(corners[1], corners[2])},
			Handle{Kind: HandleBottom, Pos: mid(corners[2], corners[3])},
			Handle{Kind: HandleLeft, Pos: mid(corners[3], corners[0])},
		)

		s := selected[0]
		if s.Kind() != shape.KindPolygon {
			top := geometry.Point2D{X: box.X + box.Width/2, Y: box.Y}
			knob := geometry.Point2D{X: top.X, Y: top.Y - RotateHandleOffset}
			o.Handles = append(o.Handles, Handle{Kind: HandleRotate, Pos: knob})
			o.RotateLine = geometry.Segment{A: top, B: knob}
			o.HasRotate = true
		}
		if r := s.Common().Rotation; r != 0 {
			o.RotationLabel = fmt.Sprintf("%.1f°", r)
		}
	} else {
		o.Badge = strconv.Itoa(len(selected))
		o.BadgePos = corners[1]
	}
	return o, true
}

// HandleAt returns the handle within radius of p. The rotation handle wins
// over overlapping corner handles.
func (o Overlay) HandleAt(p geometry.Point2D, radius float64) (Handle, bool) {
	var best Handle
	found := false
	bestDist := radius
	for i := len(o.Handles) - 1; i >= 0; i-- {
		h := o.Handles[i]
		if d := h.Pos.Distance(p); d <= bestDist {
			best, bestDist, found = h, d, true
			if h.Kind == HandleRotate {
				return best, true
			}
		}
	}
	return best, found
}
