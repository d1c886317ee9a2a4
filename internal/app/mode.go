package app

import (
	"slices"

	"venue-designer/internal/shape"
	"venue-designer/internal/viewport"
	"venue-designer/pkg/geometry"
)

// Area zoom defaults.
const (
	DefaultAreaPadding = 100
	DefaultAreaMaxZoom = 2.4
	FocusFill          = "rgba(59,130,246,0.1)"
	FocusStroke        = "#3b82f6"
)

// AreaMode is the area-zoom editing mode. The zero value is idle; while
// AreaID is set only that polygon and its rows and seats are visible and
// interactive.
type AreaMode struct {
	AreaID        string
	SavedViewport viewport.Viewport

	SelectedRowIDs  []string
	SelectedSeatIDs []string
}

// Active reports whether an area is zoomed.
func (m AreaMode) Active() bool { return m.AreaID != "" }

// SeatSelected reports whether the seat id is in the sub-selection.
func (m AreaMode) SeatSelected(id string) bool {
	return slices.Contains(m.SelectedSeatIDs, id)
}

// RowSelected reports whether the row id is in the sub-selection.
func (m AreaMode) RowSelected(id string) bool {
	return slices.Contains(m.SelectedRowIDs, id)
}

func (m AreaMode) clone() AreaMode {
	m.SelectedRowIDs = slices.Clone(m.SelectedRowIDs)
	m.SelectedSeatIDs = slices.Clone(m.SelectedSeatIDs)
	return m
}

// AreaZoom configures entering area mode.
type AreaZoom struct {
	Padding     float64
	MaxZoom     float64
	FocusFill   string
	FocusStroke string
}

// DefaultAreaZoom returns the editor defaults: 100 units of padding on each
// side and a 2.4× zoom cap.
func DefaultAreaZoom() AreaZoom {
	return AreaZoom{
		Padding:     DefaultAreaPadding,
		MaxZoom:     DefaultAreaMaxZoom,
		FocusFill:   FocusFill,
		FocusStroke: FocusStroke,
	}
}

// AreaBounds returns the axis-aligned bounds of the polygon points offset by
// its position.
func AreaBounds(p *shape.Polygon) geometry.Rect {
	return geometry.BoundingBox(p.TranslatedPoints())
}

// FitArea returns v zoomed and panned so that the area fills the viewport:
// zoom = min((W-2·pad)/bw, (H-2·pad)/bh, maxZoom), bounds center at the
// viewport center.
func FitArea(v viewport.Viewport, p *shape.Polygon, cfg AreaZoom) viewport.Viewport {
	return v.Fit(AreaBounds(p), cfg.Padding, cfg.MaxZoom)
}

// pruneArea drops sub-selected ids that no longer exist in the area.
func (m AreaMode) pruneArea(area *shape.Polygon) AreaMode {
	rows := make(map[string]bool)
	seats := make(map[string]bool)
	if area != nil && area.Area != nil {
		for _, r := range area.Rows {
			rows[r.ID] = true
			for _, s := range r.Seats {
				seats[s.ID] = true
			}
		}
	}
	m.SelectedRowIDs = slices.DeleteFunc(slices.Clone(m.SelectedRowIDs), func(id string) bool { return !rows[id] })
	m.SelectedSeatIDs = slices.DeleteFunc(slices.Clone(m.SelectedSeatIDs), func(id string) bool { return !seats[id] })
	return m
}
