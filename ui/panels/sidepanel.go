// Package panels provides the side panels of the main window.
package panels

import (
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"

	"venue-designer/internal/app"
	"venue-designer/internal/booking"
	"venue-designer/internal/layoutdb"
	"venue-designer/ui/canvas"
	"venue-designer/ui/prefs"
)

// SidePanel hosts the property, library and booking tabs.
type SidePanel struct {
	Properties *PropertySheet
	Library    *LibraryPanel
	Booking    *BookingPanel

	tabs *container.AppTabs
}

// NewSidePanel creates the side panel.
func NewSidePanel(state *app.State, cv *canvas.EditorCanvas, p *prefs.Prefs, lib *layoutdb.Library, source booking.Source, poll time.Duration) *SidePanel {
	sp := &SidePanel{
		Properties: NewPropertySheet(state, p),
		Library:    NewLibraryPanel(state, lib),
		Booking:    NewBookingPanel(state, cv, source, poll),
	}
	sp.tabs = container.NewAppTabs(
		container.NewTabItem("Properties", sp.Properties.Container()),
		container.NewTabItem("Library", sp.Library.Container()),
		container.NewTabItem("Booking", sp.Booking.Container()),
	)
	return sp
}

// SetWindow sets the parent window for dialogs.
func (sp *SidePanel) SetWindow(w fyne.Window) {
	sp.Library.SetWindow(w)
}

// Container returns the panel for embedding.
func (sp *SidePanel) Container() fyne.CanvasObject {
	return sp.tabs
}
