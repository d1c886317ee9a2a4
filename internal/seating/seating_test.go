package seating

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venue-designer/internal/shape"
	"venue-designer/pkg/geometry"
)

func pt(x, y float64) geometry.Point2D { return geometry.NewPoint2D(x, y) }

func testConfig() Config {
	return Config{SeatSpacing: 20, RowSpacing: 30, SeatRadius: 8, StartLabel: "A", StartNumber: 1, Category: "standard"}
}

func TestGridPlanCounts(t *testing.T) {
	plan := GridPlan(pt(0, 0), pt(100, 0), pt(0, 60), testConfig())

	require.Len(t, plan.Rows, 2)
	assert.Equal(t, 10, plan.SeatCount())
	assert.Equal(t, "A", plan.Rows[0].Name)
	assert.Equal(t, "B", plan.Rows[1].Name)
	for _, r := range plan.Rows {
		assert.Len(t, r.Seats, 5)
		assert.Equal(t, 0.0, r.Rotation)
	}

	last := plan.Rows[1].Seats[4]
	assert.Equal(t, 5, last.Number)
	assert.InDelta(t, 80, last.Pos.X, 1e-9)
	assert.InDelta(t, 30, last.Pos.Y, 1e-9)
}

func TestGridPlanRotatedRows(t *testing.T) {
	plan := GridPlan(pt(0, 0), pt(0, 100), pt(-60, 0), testConfig())
	require.Len(t, plan.Rows, 2)
	assert.InDelta(t, 90, plan.Rows[0].Rotation, 1e-9)

	s := plan.Rows[1].Seats[2]
	assert.InDelta(t, -30, s.Pos.X, 1e-9)
	assert.InDelta(t, 40, s.Pos.Y, 1e-9)
}

func TestGridPlanDegenerateDrag(t *testing.T) {
	plan := GridPlan(pt(5, 5), pt(5, 5), pt(5, 5), testConfig())
	require.Len(t, plan.Rows, 1)
	require.Len(t, plan.Rows[0].Seats, 1)
	assert.Equal(t, pt(5, 5), plan.Rows[0].Seats[0].Pos)
}

func TestRowPlan(t *testing.T) {
	plan := RowPlan(pt(0, 0), pt(0, 70), testConfig())
	require.Len(t, plan.Rows, 1)
	row := plan.Rows[0]
	assert.Equal(t, "A", row.Name)
	assert.InDelta(t, 90, row.Rotation, 1e-9)
	require.Len(t, row.Seats, 3)
	assert.InDelta(t, 40, row.Seats[2].Pos.Y, 1e-9)
	assert.Equal(t, 3, row.Seats[2].Number)
}

func TestRowPlanMinimumOneSeat(t *testing.T) {
	cfg := testConfig()
	cfg.SeatSpacing = 50
	plan := RowPlan(pt(10, 10), pt(40, 10), cfg)
	assert.Equal(t, 1, plan.SeatCount())
	assert.Equal(t, pt(10, 10), plan.Rows[0].Seats[0].Pos)

	plan = RowPlan(pt(10, 10), pt(10, 10), cfg)
	assert.Equal(t, 1, plan.SeatCount())
	assert.Equal(t, 0.0, plan.Rows[0].Rotation)
}

func TestNextLabel(t *testing.T) {
	assert.Equal(t, "A", NextLabel("A", 0))
	assert.Equal(t, "C", NextLabel("A", 2))
	assert.Equal(t, "AB", NextLabel("AA", 1))
	assert.Equal(t, "10", NextLabel("9", 1))
	assert.Equal(t, "B", NextLabel("", 2))
}

func TestApplyMergesRowsByName(t *testing.T) {
	area := shape.NewArea(geometry.Point2D{})
	ids := shape.SequentialIDs()
	cfg := testConfig()

	added := Apply(area, "area-1", GridPlan(pt(0, 0), pt(100, 0), pt(0, 60), cfg), cfg, ids)
	assert.Len(t, added, 10)
	require.Len(t, area.Rows, 2)
	rowA := area.Rows[0].ID

	added = Apply(area, "area-1", RowPlan(pt(0, 100), pt(40, 100), cfg), cfg, ids)
	assert.Len(t, added, 2)
	require.Len(t, area.Rows, 2, "row A reused")
	assert.Equal(t, rowA, area.Rows[0].ID)
	assert.Len(t, area.Rows[0].Seats, 7)

	cfg.StartLabel = "C"
	Apply(area, "area-1", RowPlan(pt(0, 200), pt(40, 200), cfg), cfg, ids)
	require.Len(t, area.Rows, 3)
	assert.Equal(t, "C", area.Rows[2].Name)
	assert.Equal(t, "area-1", area.Rows[2].Area)

	poly := &shape.Polygon{Base: shape.NewBase("area-1", 0, 0), Area: area}
	assert.Empty(t, shape.Validate([]shape.Shape{poly}))
}

func TestConfigFromArea(t *testing.T) {
	a := shape.NewArea(geometry.Point2D{})
	a.DefaultPrice = 30
	cfg := ConfigFromArea(a)
	assert.Equal(t, float64(shape.DefaultSeatSpacing), cfg.SeatSpacing)
	assert.Equal(t, "A", cfg.StartLabel)
	assert.Equal(t, 1, cfg.StartNumber)
	assert.Equal(t, 30.0, cfg.Price)
}
