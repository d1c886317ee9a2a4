// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"image/png"
	"log"
	"path/filepath"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"venue-designer/internal/app"
	"venue-designer/internal/booking"
	"venue-designer/internal/editor"
	"venue-designer/internal/floorplan"
	"venue-designer/internal/layoutdb"
	"venue-designer/internal/project"
	"venue-designer/internal/selection"
	"venue-designer/internal/version"
	"venue-designer/pkg/geometry"
	"venue-designer/ui/canvas"
	"venue-designer/ui/panels"
	"venue-designer/ui/prefs"
	"venue-designer/ui/render"
)

const (
	defaultWidth  = 1280
	defaultHeight = 800
	exportWidth   = 1600
	exportHeight  = 1200
	watchInterval = 2 * time.Second
)

var toolLabels = map[app.Tool]string{
	app.ToolSelect:   "Select",
	app.ToolRect:     "Rect",
	app.ToolCircle:   "Circle",
	app.ToolPolygon:  "Area",
	app.ToolText:     "Text",
	app.ToolSeatGrid: "Seat Grid",
	app.ToolSeatRow:  "Seat Row",
}

// Options carries the optional services of the main window.
type Options struct {
	Prefs       *prefs.Prefs
	Library     *layoutdb.Library // nil disables the library tab
	Booking     booking.Source    // nil disables live statuses
	BookingPoll time.Duration
}

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app     fyne.App
	state   *app.State
	prefs   *prefs.Prefs
	painter *render.Painter
	canvas  *canvas.EditorCanvas

	sidePanel *panels.SidePanel
	statusBar *widget.Label
	cursor    geometry.Point2D

	toolButtons map[app.Tool]*widget.Button
	exitAreaBtn *widget.Button

	snapItem     *fyne.MenuItem
	customerItem *fyne.MenuItem

	watcher *app.FileWatcher
}

// New creates a new main window.
func New(fyneApp fyne.App, state *app.State, disp *editor.Dispatcher, painter *render.Painter, opts Options) *MainWindow {
	win := fyneApp.NewWindow(version.Name)
	if opts.Prefs == nil {
		opts.Prefs = prefs.Load()
	}

	mw := &MainWindow{
		Window:  win,
		app:     fyneApp,
		state:   state,
		prefs:   opts.Prefs,
		painter: painter,
		canvas:  canvas.NewEditorCanvas(state, disp, painter),
	}

	mw.setupUI(opts)
	mw.setupMenus()
	mw.setupShortcuts()
	mw.setupEventHandlers()

	mw.Resize(fyne.NewSize(
		float32(mw.prefs.FloatWithFallback(prefs.KeyWindowWidth, defaultWidth)),
		float32(mw.prefs.FloatWithFallback(prefs.KeyWindowHeight, defaultHeight)),
	))
	mw.SetCloseIntercept(mw.onClose)
	mw.updateTitle()
	mw.updateStatus()

	if mw.prefs.Bool(prefs.KeyCustomerView, false) {
		mw.sidePanel.Booking.SetCustomerView(true)
	}
	return mw
}

// EditorCanvas returns the editor canvas.
func (mw *MainWindow) EditorCanvas() *canvas.EditorCanvas {
	return mw.canvas
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI(opts Options) {
	mw.sidePanel = panels.NewSidePanel(mw.state, mw.canvas, mw.prefs, opts.Library, opts.Booking, opts.BookingPoll)
	mw.sidePanel.SetWindow(mw.Window)

	mw.statusBar = widget.NewLabel("Ready")
	mw.canvas.OnCursor(func(p geometry.Point2D) {
		mw.cursor = p
		mw.updateStatus()
	})

	canvasArea := container.NewBorder(
		mw.createToolbar(), // top
		nil,                // bottom
		nil,                // left
		nil,                // right
		mw.canvas,          // center
	)

	split := container.NewHSplit(mw.sidePanel.Container(), canvasArea)
	split.SetOffset(0.22)

	mw.SetContent(container.NewBorder(
		nil,
		container.NewPadded(mw.statusBar),
		nil,
		nil,
		split,
	))
}

// createToolbar creates the tool buttons, the area exit button and the zoom
// controls.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	mw.toolButtons = make(map[app.Tool]*widget.Button)
	items := []fyne.CanvasObject{}
	for _, t := range app.Tools() {
		btn := widget.NewButton(toolLabels[t], func() { mw.selectTool(t) })
		mw.toolButtons[t] = btn
		items = append(items, btn)
	}

	mw.exitAreaBtn = widget.NewButton("Exit Area", func() {
		mw.canvas.Dispatch(func(d *editor.Dispatcher) { d.ExitArea() })
	})

	items = append(items,
		widget.NewSeparator(),
		mw.exitAreaBtn,
		widget.NewSeparator(),
		widget.NewButton("Undo", mw.onUndo),
		widget.NewButton("Redo", mw.onRedo),
		widget.NewSeparator(),
		widget.NewLabel("Zoom:"),
		widget.NewButton("-", mw.canvas.ZoomOut),
		widget.NewButton("+", mw.canvas.ZoomIn),
		widget.NewButton("Fit", mw.canvas.FitToWindow),
	)
	mw.syncToolbar()
	return container.NewHBox(items...)
}

func (mw *MainWindow) selectTool(t app.Tool) {
	mw.canvas.Dispatch(func(d *editor.Dispatcher) {
		d.Cancel()
		if !mw.state.SetTool(t) {
			log.Printf("Toolbar: %s needs an area to be open", t)
		}
	})
}

// syncToolbar highlights the current tool and enables seat tools only inside
// an area.
func (mw *MainWindow) syncToolbar() {
	current := mw.state.Tool()
	inArea := mw.state.Mode().Active()
	for t, btn := range mw.toolButtons {
		if t == current {
			btn.Importance = widget.HighImportance
		} else {
			btn.Importance = widget.MediumImportance
		}
		if t.IsSeatTool() && !inArea {
			btn.Disable()
		} else {
			btn.Enable()
		}
		btn.Refresh()
	}
	if inArea {
		mw.exitAreaBtn.Show()
	} else {
		mw.exitAreaBtn.Hide()
	}
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("New Layout", mw.onNewProject),
		fyne.NewMenuItem("Open Layout...", mw.onOpenProject),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save", mw.onSaveProject),
		fyne.NewMenuItem("Save As...", mw.onSaveProjectAs),
		fyne.NewMenuItem("Save to Library", mw.sidePanel.Library.SaveCurrent),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Set Floor Plan...", mw.onSetFloorPlan),
		fyne.NewMenuItem("Clear Floor Plan", mw.onClearFloorPlan),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export PNG...", mw.onExportPNG),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", mw.onUndo),
		fyne.NewMenuItem("Redo", mw.onRedo),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Delete", func() { mw.keyDown(editor.KeyDelete, 0) }),
		fyne.NewMenuItem("Deselect", func() { mw.state.ClearSelection() }),
	)

	mw.snapItem = fyne.NewMenuItem("Snap to Guides", mw.onToggleSnap)
	mw.snapItem.Checked = mw.state.Settings().SnapEnabled
	mw.customerItem = fyne.NewMenuItem("Customer View", func() {
		mw.sidePanel.Booking.SetCustomerView(!mw.sidePanel.Booking.CustomerView())
	})
	mw.sidePanel.Booking.OnToggle(func(bool) { mw.syncViewMenu() })

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", mw.canvas.ZoomIn),
		fyne.NewMenuItem("Zoom Out", mw.canvas.ZoomOut),
		fyne.NewMenuItem("Fit to Window", mw.canvas.FitToWindow),
		fyne.NewMenuItemSeparator(),
		mw.snapItem,
		mw.customerItem,
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, viewMenu, helpMenu))
}

// setupShortcuts routes modified keys to the editor. The canvas only sees
// plain keys.
func (mw *MainWindow) setupShortcuts() {
	c := mw.Window.Canvas()
	mod := fyne.KeyModifierShortcutDefault
	add := func(key fyne.KeyName, m fyne.KeyModifier, fn func()) {
		c.AddShortcut(&desktop.CustomShortcut{KeyName: key, Modifier: m}, func(fyne.Shortcut) { fn() })
	}

	add(fyne.KeyZ, mod, mw.onUndo)
	add(fyne.KeyZ, mod|fyne.KeyModifierShift, mw.onRedo)
	add(fyne.KeyY, mod, mw.onRedo)
	add(fyne.KeyS, mod, mw.onSaveProject)
	add(fyne.KeyO, mod, mw.onOpenProject)
	add(fyne.KeyN, mod, mw.onNewProject)
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventProjectLoaded, func(data interface{}) {
		path, _ := data.(string)
		on := mw.state.Settings().SnapEnabled
		mw.canvas.Dispatch(func(d *editor.Dispatcher) { d.SnapEnabled = on })
		mw.syncViewMenu()
		mw.loadFloorPlan()
		mw.watch(path)
		if path != "" {
			mw.prefs.SetString(prefs.KeyLastProject, path)
		}
		mw.updateTitle()
	})
	mw.state.On(app.EventProjectSaved, func(data interface{}) {
		path, _ := data.(string)
		if mw.watcher == nil || mw.watcher.Path() != path {
			mw.watch(path)
		} else {
			mw.watcher.ResetBaseline()
		}
		mw.updateTitle()
	})
	mw.state.On(app.EventModified, func(_ interface{}) { mw.updateTitle() })

	refreshBar := func(_ interface{}) {
		mw.syncToolbar()
		mw.updateStatus()
	}
	mw.state.On(app.EventToolChanged, refreshBar)
	mw.state.On(app.EventAreaModeChanged, refreshBar)
	mw.state.On(app.EventSelectionChanged, refreshBar)
	mw.state.On(app.EventViewportChanged, func(_ interface{}) { mw.updateStatus() })
}

// watch follows external changes to the layout file at path.
func (mw *MainWindow) watch(path string) {
	if mw.watcher != nil {
		mw.watcher.Stop()
		mw.watcher = nil
	}
	if path == "" {
		return
	}
	w := app.NewFileWatcher(path, watchInterval)
	if w == nil {
		return
	}
	w.OnChange(mw.onExternalChange)
	w.Start()
	mw.watcher = w
}

func (mw *MainWindow) onExternalChange(path string) {
	log.Printf("FileWatch: %s changed on disk", path)
	if !mw.state.Modified {
		if err := mw.state.LoadProject(path); err != nil {
			log.Printf("FileWatch: reload failed: %v", err)
		}
		return
	}
	dialog.ShowConfirm("Layout Changed",
		filepath.Base(path)+" was changed by another program.\nReload and discard your edits?",
		func(ok bool) {
			if !ok {
				return
			}
			if err := mw.state.LoadProject(path); err != nil {
				dialog.ShowError(err, mw.Window)
			}
		}, mw.Window)
}

func (mw *MainWindow) keyDown(k editor.Key, mods editor.Modifier) {
	mw.canvas.Dispatch(func(d *editor.Dispatcher) {
		d.KeyDown(editor.KeyEvent{Key: k, Mods: mods})
	})
}

// updateTitle shows the layout name and a modified marker.
func (mw *MainWindow) updateTitle() {
	name := "New Layout"
	if mw.state.ProjectPath != "" {
		name = filepath.Base(mw.state.ProjectPath)
	} else if doc := mw.state.Document; doc != nil && doc.Name != "" {
		name = doc.Name
	}
	title := version.Name + " - " + name
	if mw.state.Modified {
		title += " *"
	}
	mw.SetTitle(title)
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus() {
	vp := mw.state.Viewport()
	parts := []string{
		"Tool: " + mw.state.Tool().String(),
		fmt.Sprintf("Zoom: %.0f%%", vp.Zoom*100),
		fmt.Sprintf("%.0f, %.0f", mw.cursor.X, mw.cursor.Y),
	}
	if n := len(mw.state.Selected()); n > 0 {
		parts = append(parts, fmt.Sprintf("%d selected", n))
	}
	if area := mw.state.ZoomedArea(); area != nil {
		name := area.Name
		if name == "" {
			name = area.ID
		}
		mode := mw.state.Mode()
		parts = append(parts, fmt.Sprintf("Area: %s (%d seats, %d rows selected)",
			name, len(mode.SelectedSeatIDs), len(mode.SelectedRowIDs)))
	}
	if mw.canvas.Mode() == render.ModeCustomer {
		parts = append(parts, "Customer view")
	}
	mw.statusBar.SetText(strings.Join(parts, "  |  "))
}

func (mw *MainWindow) syncViewMenu() {
	mw.snapItem.Checked = mw.state.Settings().SnapEnabled
	mw.customerItem.Checked = mw.sidePanel.Booking.CustomerView()
	if menu := mw.MainMenu(); menu != nil {
		menu.Refresh()
	}
	mw.updateStatus()
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.prefs.String(prefs.KeyLastDir)
	if path == "" {
		return nil
	}
	listable, err := storage.ListerForURI(storage.NewFileURI(path))
	if err != nil {
		return nil
	}
	return listable
}

// saveLastDir saves the directory of the given file path.
func (mw *MainWindow) saveLastDir(filePath string) {
	mw.prefs.SetString(prefs.KeyLastDir, filepath.Dir(filePath))
}

// Menu action handlers

func (mw *MainWindow) onNewProject() {
	mw.confirmDiscard(func() {
		mw.canvas.Dispatch(func(d *editor.Dispatcher) { d.Cancel() })
		mw.state.LoadDocument(project.New("Untitled"), "")
	})
}

func (mw *MainWindow) onOpenProject() {
	mw.confirmDiscard(func() {
		fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
			if err != nil || reader == nil {
				return
			}
			reader.Close()
			path := reader.URI().Path()
			mw.saveLastDir(path)
			mw.canvas.Dispatch(func(d *editor.Dispatcher) { d.Cancel() })
			if err := mw.state.LoadProject(path); err != nil {
				dialog.ShowError(err, mw.Window)
			}
		}, mw.Window)
		fd.SetFilter(storage.NewExtensionFileFilter([]string{".json"}))
		if loc := mw.getLastDir(); loc != nil {
			fd.SetLocation(loc)
		}
		fd.Show()
	})
}

// OpenFile loads a layout given on the command line.
func (mw *MainWindow) OpenFile(path string) error {
	if err := mw.state.LoadProject(path); err != nil {
		return err
	}
	mw.saveLastDir(path)
	return nil
}

func (mw *MainWindow) onSaveProject() {
	if mw.state.ProjectPath == "" {
		mw.onSaveProjectAs()
		return
	}
	if err := mw.state.SaveProject(mw.state.ProjectPath); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

func (mw *MainWindow) onSaveProjectAs() {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if !strings.HasSuffix(path, project.Extension) {
			path = strings.TrimSuffix(path, filepath.Ext(path)) + project.Extension
		}
		mw.saveLastDir(path)
		if err := mw.state.SaveProject(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFileName("layout" + project.Extension)
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onExportPNG() {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()

		opts := render.Options{Mode: mw.canvas.Mode()}
		img := mw.painter.Snapshot(mw.state.VisibleShapes(), exportWidth, exportHeight, opts)
		if err := png.Encode(writer, img); err != nil {
			dialog.ShowError(fmt.Errorf("failed to export PNG: %w", err), mw.Window)
			return
		}
		mw.saveLastDir(writer.URI().Path())
		log.Printf("Export: wrote %s", writer.URI().Path())
	}, mw.Window)
	fd.SetFileName("layout.png")
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".png"}))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

// loadFloorPlan shows the document's floor plan fitted to the content.
func (mw *MainWindow) loadFloorPlan() {
	path := mw.state.BackgroundImage()
	if path == "" {
		mw.canvas.SetFloorPlan(nil)
		return
	}
	l, err := floorplan.Load(path)
	if err != nil {
		log.Printf("FloorPlan: %v", err)
		mw.canvas.SetFloorPlan(nil)
		return
	}
	mw.placeFloorPlan(l)
	mw.canvas.SetFloorPlan(l)
}

func (mw *MainWindow) placeFloorPlan(l *floorplan.Layer) {
	if box, ok := selection.UnionBounds(mw.state.Shapes()); ok {
		l.FitTo(box)
	}
}

func (mw *MainWindow) onSetFloorPlan() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)

		l, err := floorplan.Load(path)
		if err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.placeFloorPlan(l)
		mw.state.SetBackgroundImage(path)
		mw.canvas.SetFloorPlan(l)
		if l.DPI > 0 {
			log.Printf("FloorPlan: %s (%dx%d, %.0f dpi)", path, l.Width(), l.Height(), l.DPI)
		}
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter(floorplan.SupportedFormats()))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onClearFloorPlan() {
	if mw.canvas.FloorPlan() == nil {
		return
	}
	mw.state.SetBackgroundImage("")
	mw.canvas.SetFloorPlan(nil)
}

func (mw *MainWindow) onUndo() {
	mw.keyDown(editor.KeyZ, editor.ModCtrl)
}

func (mw *MainWindow) onRedo() {
	mw.keyDown(editor.KeyZ, editor.ModCtrl|editor.ModShift)
}

func (mw *MainWindow) onToggleSnap() {
	on := !mw.state.Settings().SnapEnabled
	mw.state.SetSnapEnabled(on)
	mw.canvas.Dispatch(func(d *editor.Dispatcher) { d.SnapEnabled = on })
	mw.syncViewMenu()
}

// confirmDiscard runs fn directly, or after confirmation when there are
// unsaved edits.
func (mw *MainWindow) confirmDiscard(fn func()) {
	if !mw.state.Modified {
		fn()
		return
	}
	dialog.ShowConfirm("Unsaved Changes", "Discard the changes to the current layout?", func(ok bool) {
		if ok {
			fn()
		}
	}, mw.Window)
}

func (mw *MainWindow) onClose() {
	mw.confirmDiscard(func() {
		mw.SavePreferences()
		mw.sidePanel.Booking.Stop()
		if mw.watcher != nil {
			mw.watcher.Stop()
		}
		mw.Close()
	})
}

// SavePreferences stores the window size and view mode.
func (mw *MainWindow) SavePreferences() {
	size := mw.Window.Canvas().Size()
	mw.prefs.SetFloat(prefs.KeyWindowWidth, float64(size.Width))
	mw.prefs.SetFloat(prefs.KeyWindowHeight, float64(size.Height))
	mw.prefs.SetBool(prefs.KeyCustomerView, mw.sidePanel.Booking.CustomerView())
	if !mw.prefs.Changed() {
		return
	}
	if err := mw.prefs.Save(); err != nil {
		log.Printf("Prefs: save failed: %v", err)
	}
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About "+version.Name,
		fmt.Sprintf("%s v%s\n\n"+
			"A venue seating layout designer.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			version.Name, version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}
