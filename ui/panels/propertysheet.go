package panels

import (
	"fmt"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"venue-designer/internal/app"
	"venue-designer/internal/shape"
	"venue-designer/pkg/colorutil"
	"venue-designer/ui/prefs"
)

// PropertySheet edits the common properties of the single selected shape and
// the seating defaults of a selected area.
type PropertySheet struct {
	state *app.State
	prefs *prefs.Prefs
	box   *fyne.Container

	shapeID string

	title        *widget.Label
	nameEntry    *widget.Entry
	xEntry       *widget.Entry
	yEntry       *widget.Entry
	rotEntry     *widget.Entry
	opacityEntry *widget.Entry
	fillEntry    *widget.Entry
	strokeEntry  *widget.Entry
	widthEntry   *widget.Entry
	visibleCheck *widget.Check

	textBox       *fyne.Container
	textEntry     *widget.Entry
	fontSizeEntry *widget.Entry

	areaBox           *fyne.Container
	seatRadiusEntry   *widget.Entry
	seatSpacingEntry  *widget.Entry
	rowSpacingEntry   *widget.Entry
	categoryEntry     *widget.Entry
	seatColorEntry    *widget.Entry
	priceEntry        *widget.Entry
	areaStats         *widget.Label
	applyDefaultsBtn  *widget.Button
	editing           []fyne.Disableable
	suppressCallbacks bool
}

// NewPropertySheet creates the property sheet and subscribes it to selection
// and shape changes.
func NewPropertySheet(state *app.State, p *prefs.Prefs) *PropertySheet {
	ps := &PropertySheet{state: state, prefs: p}
	ps.buildUI()
	ps.refresh()

	state.On(app.EventSelectionChanged, func(_ interface{}) { ps.refresh() })
	state.On(app.EventShapesChanged, func(_ interface{}) { ps.refresh() })
	state.On(app.EventProjectLoaded, func(_ interface{}) { ps.refresh() })
	return ps
}

// Container returns the panel for embedding.
func (ps *PropertySheet) Container() fyne.CanvasObject {
	return container.NewVScroll(ps.box)
}

func (ps *PropertySheet) buildUI() {
	ps.title = widget.NewLabelWithStyle("No selection", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})

	ps.nameEntry = ps.textField(func(v string) shape.Patch { return shape.Patch{Name: &v} })
	ps.xEntry = ps.floatField(func(v float64) shape.Patch { return shape.Patch{X: &v} })
	ps.yEntry = ps.floatField(func(v float64) shape.Patch { return shape.Patch{Y: &v} })
	ps.rotEntry = ps.floatField(func(v float64) shape.Patch { return shape.Patch{Rotation: &v} })
	ps.opacityEntry = ps.floatField(func(v float64) shape.Patch {
		v = min(max(v, 0), 1)
		return shape.Patch{Opacity: &v}
	})
	ps.fillEntry = ps.colorField(func(v string) shape.Patch { return shape.Patch{Fill: &v} })
	ps.strokeEntry = ps.colorField(func(v string) shape.Patch { return shape.Patch{Stroke: &v} })
	ps.widthEntry = ps.floatField(func(v float64) shape.Patch {
		v = max(v, 0)
		return shape.Patch{StrokeWidth: &v}
	})
	ps.visibleCheck = widget.NewCheck("Visible", func(on bool) {
		if !ps.suppressCallbacks {
			ps.apply(shape.Patch{Visible: &on})
		}
	})

	ps.textEntry = ps.textField(func(v string) shape.Patch { return shape.Patch{Text: &v} })
	ps.fontSizeEntry = ps.floatField(func(v float64) shape.Patch {
		if v <= 0 {
			return shape.Patch{}
		}
		return shape.Patch{FontSize: &v}
	})
	ps.textBox = container.NewVBox(
		labeledRow("Text", ps.textEntry),
		labeledRow("Font size", ps.fontSizeEntry),
	)

	ps.seatRadiusEntry = ps.areaField(func(a *shape.Area, s string) bool {
		v, ok := parseFloat(s)
		if ok && v > 0 {
			a.DefaultSeatRadius = v
			ps.prefs.SetFloat(prefs.KeySeatRadius, v)
		}
		return ok && v > 0
	})
	ps.seatSpacingEntry = ps.areaField(func(a *shape.Area, s string) bool {
		v, ok := parseFloat(s)
		if ok && v > 0 {
			a.DefaultSeatSpacing = v
			ps.prefs.SetFloat(prefs.KeySeatSpacing, v)
		}
		return ok && v > 0
	})
	ps.rowSpacingEntry = ps.areaField(func(a *shape.Area, s string) bool {
		v, ok := parseFloat(s)
		if ok && v > 0 {
			a.DefaultRowSpacing = v
		}
		return ok && v > 0
	})
	ps.categoryEntry = ps.areaField(func(a *shape.Area, s string) bool {
		a.DefaultCategory = s
		return true
	})
	ps.seatColorEntry = ps.areaField(func(a *shape.Area, s string) bool {
		if _, ok := colorutil.Parse(s); !ok {
			return false
		}
		a.DefaultColor = s
		return true
	})
	ps.priceEntry = ps.areaField(func(a *shape.Area, s string) bool {
		v, ok := parseFloat(s)
		if ok && v >= 0 {
			a.DefaultPrice = v
		}
		return ok && v >= 0
	})
	ps.areaStats = widget.NewLabel("")
	ps.applyDefaultsBtn = widget.NewButton("Use Saved Seat Defaults", ps.applySavedDefaults)

	ps.areaBox = container.NewVBox(
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Seating", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		labeledRow("Seat radius", ps.seatRadiusEntry),
		labeledRow("Seat spacing", ps.seatSpacingEntry),
		labeledRow("Row spacing", ps.rowSpacingEntry),
		labeledRow("Category", ps.categoryEntry),
		labeledRow("Seat color", ps.seatColorEntry),
		labeledRow("Price", ps.priceEntry),
		ps.applyDefaultsBtn,
		ps.areaStats,
	)

	ps.editing = []fyne.Disableable{
		ps.nameEntry, ps.xEntry, ps.yEntry, ps.rotEntry, ps.opacityEntry,
		ps.fillEntry, ps.strokeEntry, ps.widthEntry, ps.visibleCheck,
	}

	ps.box = container.NewVBox(
		ps.title,
		labeledRow("Name", ps.nameEntry),
		labeledRow("X", ps.xEntry),
		labeledRow("Y", ps.yEntry),
		labeledRow("Rotation", ps.rotEntry),
		labeledRow("Opacity", ps.opacityEntry),
		labeledRow("Fill", ps.fillEntry),
		labeledRow("Stroke", ps.strokeEntry),
		labeledRow("Stroke width", ps.widthEntry),
		ps.visibleCheck,
		ps.textBox,
		ps.areaBox,
	)
}

// textField creates an entry that applies its text on Enter.
func (ps *PropertySheet) textField(patch func(string) shape.Patch) *widget.Entry {
	e := widget.NewEntry()
	e.OnSubmitted = func(s string) { ps.apply(patch(s)) }
	return e
}

// floatField creates an entry that applies a number on Enter. Invalid input
// restores the current value.
func (ps *PropertySheet) floatField(patch func(float64) shape.Patch) *widget.Entry {
	e := widget.NewEntry()
	e.OnSubmitted = func(s string) {
		v, ok := parseFloat(s)
		if !ok {
			ps.refresh()
			return
		}
		ps.apply(patch(v))
	}
	return e
}

// colorField creates an entry accepting any color the renderer can parse,
// or empty for none.
func (ps *PropertySheet) colorField(patch func(string) shape.Patch) *widget.Entry {
	e := widget.NewEntry()
	e.SetPlaceHolder("#rrggbb")
	e.OnSubmitted = func(s string) {
		if _, ok := colorutil.Parse(s); s != "" && !ok {
			ps.refresh()
			return
		}
		ps.apply(patch(s))
	}
	return e
}

// areaField creates an entry that edits the selected area's seating defaults.
func (ps *PropertySheet) areaField(set func(a *shape.Area, s string) bool) *widget.Entry {
	e := widget.NewEntry()
	e.OnSubmitted = func(s string) {
		ok := true
		changed := ps.state.UpdateShapeWith(ps.shapeID, func(sh shape.Shape) {
			if p, isPoly := sh.(*shape.Polygon); isPoly && p.Area != nil {
				ok = set(p.Area, s)
			}
		})
		if !ok {
			ps.refresh()
		}
		if changed && ok {
			ps.state.SaveToHistory()
		}
	}
	return e
}

func (ps *PropertySheet) apply(patch shape.Patch) {
	if ps.shapeID == "" || patch.Empty() {
		return
	}
	if ps.state.UpdateShape(ps.shapeID, patch) {
		ps.state.SaveToHistory()
	}
}

// applySavedDefaults copies the remembered seat radius and spacing onto the
// selected area.
func (ps *PropertySheet) applySavedDefaults() {
	radius := ps.prefs.FloatWithFallback(prefs.KeySeatRadius, shape.DefaultSeatRadius)
	spacing := ps.prefs.FloatWithFallback(prefs.KeySeatSpacing, shape.DefaultSeatSpacing)
	changed := ps.state.UpdateShapeWith(ps.shapeID, func(sh shape.Shape) {
		if p, ok := sh.(*shape.Polygon); ok && p.Area != nil {
			p.Area.DefaultSeatRadius = radius
			p.Area.DefaultSeatSpacing = spacing
		}
	})
	if changed {
		log.Printf("PropertySheet: applied seat defaults r=%g spacing=%g to %s", radius, spacing, ps.shapeID)
		ps.state.SaveToHistory()
	}
}

// refresh shows the single selected shape, or disables the form.
func (ps *PropertySheet) refresh() {
	ps.suppressCallbacks = true
	defer func() { ps.suppressCallbacks = false }()

	sel := ps.state.SelectedShapes()
	if len(sel) != 1 {
		ps.shapeID = ""
		if len(sel) == 0 {
			ps.title.SetText("No selection")
		} else {
			ps.title.SetText(fmt.Sprintf("%d shapes selected", len(sel)))
		}
		for _, w := range ps.editing {
			w.Disable()
		}
		ps.textBox.Hide()
		ps.areaBox.Hide()
		return
	}

	s := sel[0]
	b := s.Common()
	ps.shapeID = b.ID
	for _, w := range ps.editing {
		w.Enable()
	}
	ps.title.SetText(fmt.Sprintf("%s %s", s.Kind(), b.ID))
	setEntry(ps.nameEntry, b.Name)
	setEntry(ps.xEntry, formatFloat(b.X))
	setEntry(ps.yEntry, formatFloat(b.Y))
	setEntry(ps.rotEntry, formatFloat(b.Rotation))
	setEntry(ps.opacityEntry, formatFloat(b.Opacity))
	ps.visibleCheck.SetChecked(b.Visible)

	fill, stroke, width := paintOf(s)
	setEntry(ps.fillEntry, fill)
	setEntry(ps.strokeEntry, stroke)
	setEntry(ps.widthEntry, formatFloat(width))
	if t, isText := s.(*shape.Text); isText {
		ps.strokeEntry.Disable()
		ps.widthEntry.Disable()
		setEntry(ps.textEntry, t.Text)
		setEntry(ps.fontSizeEntry, formatFloat(t.FontSize))
		ps.textBox.Show()
	} else {
		ps.textBox.Hide()
	}

	p, ok := s.(*shape.Polygon)
	if !ok || p.Area == nil {
		ps.areaBox.Hide()
		return
	}
	a := p.Area
	setEntry(ps.seatRadiusEntry, formatFloat(a.DefaultSeatRadius))
	setEntry(ps.seatSpacingEntry, formatFloat(a.DefaultSeatSpacing))
	setEntry(ps.rowSpacingEntry, formatFloat(a.DefaultRowSpacing))
	setEntry(ps.categoryEntry, a.DefaultCategory)
	setEntry(ps.seatColorEntry, a.DefaultColor)
	setEntry(ps.priceEntry, formatFloat(a.DefaultPrice))
	ps.areaStats.SetText(fmt.Sprintf("%d rows, %d seats", len(a.Rows), a.SeatCount()))
	ps.areaBox.Show()
}

func paintOf(s shape.Shape) (fill, stroke string, width float64) {
	switch v := s.(type) {
	case *shape.Rect:
		return v.Fill, v.Stroke, v.StrokeWidth
	case *shape.Circle:
		return v.Fill, v.Stroke, v.StrokeWidth
	case *shape.Polygon:
		return v.Fill, v.Stroke, v.StrokeWidth
	case *shape.Text:
		return v.Fill, "", 0
	}
	return "", "", 0
}
