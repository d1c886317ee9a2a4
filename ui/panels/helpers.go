package panels

import (
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// formatFloat renders v without trailing zeros.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// parseFloat reads a number typed into an entry.
func parseFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return v, err == nil
}

// labeledRow lays out a right-aligned label next to obj.
func labeledRow(label string, obj fyne.CanvasObject) fyne.CanvasObject {
	lbl := widget.NewLabelWithStyle(label, fyne.TextAlignTrailing, fyne.TextStyle{})
	return container.New(layout.NewFormLayout(), lbl, obj)
}

// setEntry replaces the entry text when it differs.
func setEntry(e *widget.Entry, text string) {
	if e.Text != text {
		e.SetText(text)
	}
}
