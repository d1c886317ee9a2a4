package shape

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venue-designer/pkg/geometry"
)

func sampleArea() *Polygon {
	p := &Polygon{
		Base:   NewBase("area-1", 100, 50),
		Points: []geometry.Point2D{{X: 0, Y: 0}, {X: 200, Y: 0}, {X: 200, Y: 120}, {X: 0, Y: 120}},
		Closed: true,
		Fill:   "#e5e7eb",
		Stroke: "#6b7280",
		Area:   NewArea(geometry.NewPoint2D(100, 60)),
	}
	p.Rows = []Row{
		{
			ID: "row-1", Name: "A", StartX: -60, StartY: -40, SeatRadius: 8, SeatSpacing: 20,
			Area: "area-1",
			Seats: []Seat{
				{ID: "seat-1", X: -60, Y: -40, Radius: 8, Number: 1, Row: "A", Category: "vip", Price: 45, Visible: true},
				{ID: "seat-2", X: -40, Y: -40, Radius: 8, Number: 2, Row: "A", Category: "vip", Price: 45, Visible: true},
			},
		},
		{
			ID: "row-2", Name: "B", StartX: -60, StartY: -15, SeatRadius: 8, SeatSpacing: 20,
			Rotation: 12.5, Area: "area-1", Fill: "#22c55e",
			Seats: []Seat{
				{ID: "seat-3", X: -60, Y: -15, Radius: 8, Number: 1, Row: "B", Visible: true},
			},
		},
	}
	return p
}

func TestRoundTripPreservesTree(t *testing.T) {
	shapes := []Shape{
		&Rect{Base: NewBase("rect-1", 10, 20), Width: 300, Height: 40, CornerRadius: 6, Fill: "#111827"},
		&Circle{Base: NewBase("circle-1", -5, 7.25), Radius: 12},
		&Text{Base: NewBase("text-1", 40, 40), Text: "STAGE", FontSize: 24, FontStyle: "bold", Align: "center"},
		&Polygon{Base: NewBase("walkway", 0, 0), Points: []geometry.Point2D{{X: 1, Y: 2}, {X: 3, Y: 4}}},
		sampleArea(),
	}

	data, err := MarshalList(shapes)
	require.NoError(t, err)

	decoded, err := UnmarshalList(data)
	require.NoError(t, err)
	assert.Equal(t, shapes, decoded)

	walkway := decoded[3].(*Polygon)
	assert.False(t, walkway.IsArea())
	assert.True(t, decoded[4].(*Polygon).IsArea())
}

func TestMarshalInlinesAreaFields(t *testing.T) {
	data, err := json.Marshal(sampleArea())
	require.NoError(t, err)

	var obj map[string]any
	require.NoError(t, json.Unmarshal(data, &obj))
	assert.Equal(t, "polygon", obj["type"])
	assert.Contains(t, obj, "center")
	assert.Contains(t, obj, "defaultSeatSpacing")
	assert.Contains(t, obj, "rows")
	assert.NotContains(t, obj, "Area")

	rows := obj["rows"].([]any)
	seat := rows[0].(map[string]any)["seats"].([]any)[0].(map[string]any)
	assert.NotContains(t, seat, "status")
}

func TestSeatStatusIsNotPersisted(t *testing.T) {
	p := sampleArea()
	p.Rows[0].Seats[0].Status = SeatSold

	data, err := MarshalList([]Shape{p})
	require.NoError(t, err)
	decoded, err := UnmarshalList(data)
	require.NoError(t, err)
	assert.Equal(t, SeatStatus(""), decoded[0].(*Polygon).Rows[0].Seats[0].Status)
}

func TestDecodeDefaultsAndErrors(t *testing.T) {
	s, err := Decode([]byte(`{"type":"rect","id":"r","width":5,"height":5}`))
	require.NoError(t, err)
	b := s.Common()
	assert.Equal(t, 1.0, b.ScaleX)
	assert.True(t, b.Visible)
	assert.Equal(t, 1.0, b.Opacity)

	_, err = Decode([]byte(`{"type":"star"}`))
	assert.Error(t, err)

	_, err = UnmarshalList([]byte(`{"type":"rect"}`))
	assert.Error(t, err)
}

func TestCloneIsDeep(t *testing.T) {
	orig := sampleArea()
	c := orig.Clone().(*Polygon)
	c.Points[0].X = 999
	c.Rows[0].Seats[0].X = 999
	c.Rows = append(c.Rows, Row{ID: "row-3"})

	assert.Equal(t, 0.0, orig.Points[0].X)
	assert.Equal(t, -60.0, orig.Rows[0].Seats[0].X)
	assert.Len(t, orig.Rows, 2)
}

func TestPatchApply(t *testing.T) {
	r := &Rect{Base: NewBase("r", 0, 0), Width: 10, Height: 10}
	Patch{X: Ptr(5.0), Width: Ptr(30.0), Radius: Ptr(4.0)}.Apply(r)
	assert.Equal(t, 5.0, r.X)
	assert.Equal(t, 0.0, r.Y)
	assert.Equal(t, 30.0, r.Width)

	c := &Circle{Base: NewBase("c", 0, 0), Radius: 1}
	MoveTo(geometry.NewPoint2D(3, 4)).Apply(c)
	assert.Equal(t, geometry.NewPoint2D(3, 4), c.Position())
	assert.True(t, Patch{}.Empty())
}

func TestSeatSpaceConversion(t *testing.T) {
	p := sampleArea()
	p.Rotation = 30

	canvas := p.SeatToCanvas(geometry.NewPoint2D(-60, -40))
	back, ok := p.CanvasToSeat(canvas)
	require.True(t, ok)
	assert.InDelta(t, -60, back.X, 1e-9)
	assert.InDelta(t, -40, back.Y, 1e-9)

	p.Rotation = 0
	assert.Equal(t, geometry.NewPoint2D(200, 110), p.SeatToCanvas(geometry.Point2D{}))
}

func TestValidate(t *testing.T) {
	assert.Empty(t, Validate([]Shape{sampleArea()}))

	bad := sampleArea()
	bad.Rows[1].Area = "elsewhere"
	bad.Rows[1].Seats[0].Row = "Z"
	bad.Rows[0].Seats[1].ID = "seat-1"
	open := &Polygon{Base: NewBase("p", 0, 0), Points: []geometry.Point2D{{}, {X: 1}}, Closed: true}
	dup := &Rect{Base: NewBase("area-1", 0, 0)}

	errs := Validate([]Shape{bad, open, dup})
	assert.Len(t, errs, 5)
	for _, err := range errs {
		assert.ErrorIs(t, err, ErrInvalidLayout)
	}
}

func TestSequentialIDs(t *testing.T) {
	next := SequentialIDs()
	assert.Equal(t, "row-1", next("row"))
	assert.Equal(t, "seat-2", next("seat"))
	assert.NotEqual(t, NewID("x"), NewID("x"))
}
