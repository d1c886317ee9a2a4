package mainwindow

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venue-designer/internal/app"
	"venue-designer/internal/booking"
	"venue-designer/internal/editor"
	"venue-designer/internal/shape"
	"venue-designer/ui/prefs"
	"venue-designer/ui/render"
)

func newTestWindow(t *testing.T) (*MainWindow, *app.State, *prefs.Prefs) {
	a := test.NewApp()
	st := app.NewState(0)
	disp := editor.NewDispatcher(st, editor.DefaultOptions(), nil, shape.SequentialIDs())
	p := prefs.LoadFrom(filepath.Join(t.TempDir(), "preferences.json"))
	mw := New(a, st, disp, render.NewPainter(nil), Options{Prefs: p, Booking: booking.NewStaticSource()})
	t.Cleanup(func() {
		mw.sidePanel.Booking.Stop()
		if mw.watcher != nil {
			mw.watcher.Stop()
		}
	})
	return mw, st, p
}

func TestTitleTracksModified(t *testing.T) {
	mw, st, _ := newTestWindow(t)
	assert.Equal(t, "Venue Designer - Untitled", mw.Title())

	require.True(t, st.AddShape(&shape.Rect{Base: shape.NewBase("r", 0, 0), Width: 10, Height: 10}))
	assert.True(t, strings.HasSuffix(mw.Title(), " *"))

	path := filepath.Join(t.TempDir(), "hall"+".venue.json")
	require.NoError(t, st.SaveProject(path))
	assert.Equal(t, "Venue Designer - hall.venue.json", mw.Title())
	require.NotNil(t, mw.watcher)
	assert.Equal(t, path, mw.watcher.Path())
}

func TestToolbarFollowsAreaMode(t *testing.T) {
	mw, st, _ := newTestWindow(t)
	assert.True(t, mw.toolButtons[app.ToolSeatGrid].Disabled())
	assert.False(t, mw.exitAreaBtn.Visible())

	mw.selectTool(app.ToolRect)
	assert.Equal(t, app.ToolRect, st.Tool())

	mw.selectTool(app.ToolSeatRow)
	assert.Equal(t, app.ToolRect, st.Tool(), "seat tools need an open area")
}

func TestStatusBar(t *testing.T) {
	mw, st, _ := newTestWindow(t)
	require.True(t, st.AddShape(&shape.Rect{Base: shape.NewBase("r", 0, 0), Width: 10, Height: 10}))
	st.SelectShape("r", false)
	assert.Contains(t, mw.statusBar.Text, "Tool: select")
	assert.Contains(t, mw.statusBar.Text, "1 selected")

	mw.sidePanel.Booking.SetCustomerView(true)
	assert.Contains(t, mw.statusBar.Text, "Customer view")
	assert.True(t, mw.customerItem.Checked)
}

func TestToggleSnap(t *testing.T) {
	mw, st, _ := newTestWindow(t)
	require.True(t, mw.snapItem.Checked)
	mw.onToggleSnap()
	assert.False(t, st.Settings().SnapEnabled)
	assert.False(t, mw.snapItem.Checked)
}

func TestUndoThroughWindow(t *testing.T) {
	mw, st, _ := newTestWindow(t)
	require.True(t, st.AddShape(&shape.Rect{Base: shape.NewBase("r", 0, 0), Width: 10, Height: 10}))
	st.SaveToHistory()
	mw.onUndo()
	assert.Empty(t, st.Shapes())
	mw.onRedo()
	assert.Len(t, st.Shapes(), 1)
}

func TestSavePreferences(t *testing.T) {
	mw, _, p := newTestWindow(t)
	mw.SavePreferences()
	_, err := os.Stat(p.Path())
	require.NoError(t, err)
	assert.False(t, p.Changed())
	assert.False(t, prefs.LoadFrom(p.Path()).Bool(prefs.KeyCustomerView, true))
}

func TestOpenFile(t *testing.T) {
	mw, st, p := newTestWindow(t)
	require.True(t, st.AddShape(&shape.Circle{Base: shape.NewBase("c", 5, 5), Radius: 4}))
	path := filepath.Join(t.TempDir(), "stage.venue.json")
	require.NoError(t, st.SaveProject(path))

	require.NoError(t, mw.OpenFile(path))
	assert.Equal(t, filepath.Dir(path), p.String(prefs.KeyLastDir))
	assert.Equal(t, path, p.String(prefs.KeyLastProject))
	assert.Error(t, mw.OpenFile(filepath.Join(t.TempDir(), "missing.venue.json")))
}

func TestFloorPlanFollowsDocument(t *testing.T) {
	mw, st, _ := newTestWindow(t)
	dir := t.TempDir()
	img := image.NewRGBA(image.Rect(0, 0, 8, 4))
	planPath := filepath.Join(dir, "plan.png")
	f, err := os.Create(planPath)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	require.True(t, st.AddShape(&shape.Rect{Base: shape.NewBase("r", 0, 0), Width: 80, Height: 40}))
	st.SetBackgroundImage(planPath)
	layoutPath := filepath.Join(dir, "hall.venue.json")
	require.NoError(t, st.SaveProject(layoutPath))

	require.NoError(t, mw.OpenFile(layoutPath))
	plan := mw.EditorCanvas().FloorPlan()
	require.NotNil(t, plan)
	assert.InDelta(t, 10, plan.Scale, 1e-9)

	mw.onClearFloorPlan()
	assert.Nil(t, mw.EditorCanvas().FloorPlan())
	assert.Empty(t, st.BackgroundImage())
}
