// Package seating generates seat rows and grids from gesture anchor points and
// merges them into an area.
//
// All points are in seat space: relative to the owning area's center, before
// the polygon transform. Callers convert canvas anchors with
// (*shape.Polygon).CanvasToSeat first.
package seating

import (
	"math"
	"strconv"
	"unicode/utf8"

	"venue-designer/internal/shape"
	"venue-designer/pkg/geometry"
)

// Config holds the settings for one generation gesture.
type Config struct {
	SeatSpacing float64
	RowSpacing  float64
	SeatRadius  float64
	StartLabel  string
	StartNumber int
	Category    string
	Fill        string
	Price       float64
}

// ConfigFromArea returns a Config seeded with the area defaults, starting at
// row "A", seat 1.
func ConfigFromArea(a *shape.Area) Config {
	return Config{
		SeatSpacing: a.DefaultSeatSpacing,
		RowSpacing:  a.DefaultRowSpacing,
		SeatRadius:  a.DefaultSeatRadius,
		StartLabel:  "A",
		StartNumber: 1,
		Category:    a.DefaultCategory,
		Fill:        a.DefaultColor,
		Price:       a.DefaultPrice,
	}
}

// PlannedSeat is a seat position before ids are assigned.
type PlannedSeat struct {
	Number int
	Pos    geometry.Point2D
}

// PlannedRow is one labelled row of a plan.
type PlannedRow struct {
	Name     string
	Start    geometry.Point2D
	Rotation float64 // degrees
	Seats    []PlannedSeat
}

// Plan is the output of a generation gesture.
type Plan struct {
	Rows []PlannedRow
}

// SeatCount returns the total number of planned seats.
func (p Plan) SeatCount() int {
	n := 0
	for _, r := range p.Rows {
		n += len(r.Seats)
	}
	return n
}

// count is max(1, floor(length/spacing)).
func count(length, spacing float64) int {
	if spacing <= 0 {
		return 1
	}
	n := int(math.Floor(length / spacing))
	if n < 1 {
		return 1
	}
	return n
}

// direction returns the unit vector and length of d, using fallback for a
// zero vector.
func direction(d, fallback geometry.Point2D) (geometry.Point2D, float64) {
	u, ok := d.Unit()
	if !ok {
		return fallback, 0
	}
	return u, d.Length()
}

// RowPlan lays out a single row from start towards end: seats every
// SeatSpacing along the drag, at least one, labelled StartLabel.
func RowPlan(start, end geometry.Point2D, cfg Config) Plan {
	d := end.Sub(start)
	u, length := direction(d, geometry.Point2D{X: 1})
	n := count(length, cfg.SeatSpacing)

	row := PlannedRow{Name: cfg.StartLabel, Start: start, Seats: make([]PlannedSeat, n)}
	if length > 0 {
		row.Rotation = d.Angle()
	}
	for i := 0; i < n; i++ {
		row.Seats[i] = PlannedSeat{
			Number: cfg.StartNumber + i,
			Pos:    start.Add(u.Scale(float64(i) * cfg.SeatSpacing)),
		}
	}
	return Plan{Rows: []PlannedRow{row}}
}

// GridPlan lays out rows of seats. start→second sets the row direction and
// the number of seats per row; start→end sets the column direction and the
// number of rows.
func GridPlan(start, second, end geometry.Point2D, cfg Config) Plan {
	rowVec := second.Sub(start)
	rowUnit, rowLength := direction(rowVec, geometry.Point2D{X: 1})
	colUnit, colLength := direction(end.Sub(start), geometry.Point2D{X: -rowUnit.Y, Y: rowUnit.X})

	rowCount := count(colLength, cfg.RowSpacing)
	colCount := count(rowLength, cfg.SeatSpacing)
	rotation := 0.0
	if rowLength > 0 {
		rotation = rowVec.Angle()
	}

	plan := Plan{Rows: make([]PlannedRow, rowCount)}
	for r := 0; r < rowCount; r++ {
		rowStart := start.Add(colUnit.Scale(float64(r) * cfg.RowSpacing))
		row := PlannedRow{
			Name:     NextLabel(cfg.StartLabel, r),
			Start:    rowStart,
			Rotation: rotation,
			Seats:    make([]PlannedSeat, colCount),
		}
		for c := 0; c < colCount; c++ {
			row.Seats[c] = PlannedSeat{
				Number: cfg.StartNumber + c,
				Pos:    rowStart.Add(rowUnit.Scale(float64(c) * cfg.SeatSpacing)),
			}
		}
		plan.Rows[r] = row
	}
	return plan
}

// NextLabel returns the label offset rows after start. Numeric labels count
// ("9" → "10"); otherwise the last character's code is advanced ("A" → "B").
func NextLabel(start string, offset int) string {
	if offset == 0 {
		return start
	}
	if n, err := strconv.Atoi(start); err == nil {
		return strconv.Itoa(n + offset)
	}
	if start == "" {
		start = "A"
		offset--
	}
	last, size := utf8.DecodeLastRuneInString(start)
	return start[:len(start)-size] + string(last+rune(offset))
}

// Apply inserts plan into the area owned by areaID. Seats are grouped by row
// name: a row that already exists receives the new seats, otherwise the row is
// created first. It returns the ids of the new seats.
func Apply(area *shape.Area, areaID string, plan Plan, cfg Config, newID shape.IDFunc) []string {
	if area == nil {
		return nil
	}
	var added []string
	for _, pr := range plan.Rows {
		idx := area.RowByName(pr.Name)
		if idx < 0 {
			area.Rows = append(area.Rows, shape.Row{
				ID:          newID("row"),
				Name:        pr.Name,
				StartX:      pr.Start.X,
				StartY:      pr.Start.Y,
				SeatRadius:  cfg.SeatRadius,
				SeatSpacing: cfg.SeatSpacing,
				Rotation:    pr.Rotation,
				Area:        areaID,
				Seats:       []shape.Seat{},
				Fill:        cfg.Fill,
			})
			idx = len(area.Rows) - 1
		}

		row := &area.Rows[idx]
		for _, ps := range pr.Seats {
			seat := shape.Seat{
				ID:       newID("seat"),
				X:        ps.Pos.X,
				Y:        ps.Pos.Y,
				Radius:   cfg.SeatRadius,
				Fill:     cfg.Fill,
				Number:   ps.Number,
				Row:      pr.Name,
				Category: cfg.Category,
				Price:    cfg.Price,
				Visible:  true,
			}
			row.Seats = append(row.Seats, seat)
			added = append(added, seat.ID)
		}
	}
	return added
}
