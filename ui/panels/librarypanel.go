package panels

import (
	"context"
	"fmt"
	"log"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"venue-designer/internal/app"
	"venue-designer/internal/layoutdb"
)

const libraryTimeout = 5 * time.Second

// LibraryPanel lists layouts stored in the SQLite library and saves, opens
// and deletes them.
type LibraryPanel struct {
	state *app.State
	lib   *layoutdb.Library
	win   fyne.Window
	box   *fyne.Container

	list     *widget.List
	entries  []layoutdb.Entry
	selected int
	status   *widget.Label
}

// NewLibraryPanel creates a library panel. A nil lib shows a disabled panel.
func NewLibraryPanel(state *app.State, lib *layoutdb.Library) *LibraryPanel {
	lp := &LibraryPanel{state: state, lib: lib, selected: -1}

	lp.status = widget.NewLabel("")
	lp.list = widget.NewList(
		func() int { return len(lp.entries) },
		func() fyne.CanvasObject { return widget.NewLabel("layout name (000 seats)") },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id < len(lp.entries) {
				e := lp.entries[id]
				obj.(*widget.Label).SetText(fmt.Sprintf("%s (%d seats)", e.Name, e.Seats))
			}
		},
	)
	lp.list.OnSelected = func(id widget.ListItemID) { lp.selected = id }
	lp.list.OnUnselected = func(widget.ListItemID) { lp.selected = -1 }

	saveBtn := widget.NewButton("Save Current", lp.SaveCurrent)
	openBtn := widget.NewButton("Open", lp.OpenSelected)
	deleteBtn := widget.NewButton("Delete", lp.confirmDelete)
	refreshBtn := widget.NewButton("Refresh", lp.Reload)

	if lib == nil {
		for _, b := range []*widget.Button{saveBtn, openBtn, deleteBtn, refreshBtn} {
			b.Disable()
		}
		lp.status.SetText("Library disabled")
	}

	lp.box = container.NewBorder(
		container.NewGridWithColumns(2, saveBtn, openBtn, deleteBtn, refreshBtn),
		lp.status,
		nil, nil,
		lp.list,
	)

	state.On(app.EventProjectSaved, func(_ interface{}) { lp.Reload() })
	lp.Reload()
	return lp
}

// SetWindow sets the parent window for dialogs.
func (lp *LibraryPanel) SetWindow(w fyne.Window) {
	lp.win = w
}

// Container returns the panel for embedding.
func (lp *LibraryPanel) Container() fyne.CanvasObject {
	return lp.box
}

// Entries returns the layouts currently listed.
func (lp *LibraryPanel) Entries() []layoutdb.Entry {
	return lp.entries
}

// Reload re-reads the library listing.
func (lp *LibraryPanel) Reload() {
	if lp.lib == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), libraryTimeout)
	defer cancel()

	entries, err := lp.lib.List(ctx)
	if err != nil {
		log.Printf("Library: list failed: %v", err)
		lp.status.SetText("List failed")
		return
	}
	lp.entries = entries
	lp.selected = -1
	lp.list.UnselectAll()
	lp.list.Refresh()
	lp.status.SetText(fmt.Sprintf("%d layouts", len(entries)))
}

// SaveCurrent stores the current layout, reusing its library id.
func (lp *LibraryPanel) SaveCurrent() {
	if lp.lib == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), libraryTimeout)
	defer cancel()

	doc := lp.state.Snapshot()
	id, err := lp.lib.Save(ctx, doc)
	if err != nil {
		lp.showError(err)
		return
	}
	lp.state.SetDocumentID(id)
	log.Printf("Library: saved %q as %s", doc.Name, id)
	lp.Reload()
}

// OpenSelected replaces the editor contents with the selected layout.
func (lp *LibraryPanel) OpenSelected() {
	if lp.lib == nil || lp.selected < 0 || lp.selected >= len(lp.entries) {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), libraryTimeout)
	defer cancel()

	e := lp.entries[lp.selected]
	doc, err := lp.lib.Load(ctx, e.ID)
	if err != nil {
		lp.showError(err)
		return
	}
	lp.state.LoadDocument(doc, "")
	lp.status.SetText("Opened " + e.Name)
}

func (lp *LibraryPanel) confirmDelete() {
	if lp.lib == nil || lp.selected < 0 || lp.selected >= len(lp.entries) {
		return
	}
	e := lp.entries[lp.selected]
	if lp.win == nil {
		lp.delete(e.ID)
		return
	}
	dialog.ShowConfirm("Delete Layout", fmt.Sprintf("Delete %q from the library?", e.Name), func(ok bool) {
		if ok {
			lp.delete(e.ID)
		}
	}, lp.win)
}

func (lp *LibraryPanel) delete(id string) {
	ctx, cancel := context.WithTimeout(context.Background(), libraryTimeout)
	defer cancel()
	if err := lp.lib.Delete(ctx, id); err != nil {
		lp.showError(err)
		return
	}
	lp.Reload()
}

func (lp *LibraryPanel) showError(err error) {
	log.Printf("Library: %v", err)
	if lp.win != nil {
		dialog.ShowError(err, lp.win)
	}
	lp.status.SetText("Error: " + err.Error())
}
