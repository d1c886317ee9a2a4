// Package app provides the canvas store: the single source of truth for the
// shape tree, selection, viewport, current tool, area mode and undo history.
package app

import (
	"fmt"
	"log"
	"slices"
	"sync"

	"venue-designer/internal/project"
	"venue-designer/internal/selection"
	"venue-designer/internal/shape"
	"venue-designer/internal/viewport"
)

// State holds the editor state. Every change to the shape tree goes through
// its entry points; shapes returned by accessors are shared and must be
// treated as read-only.
type State struct {
	mu sync.RWMutex

	// Document
	ProjectPath string
	Modified    bool
	Document    *project.Document

	shapes   []shape.Shape
	selected []string
	view     viewport.Viewport
	tool     Tool
	mode     AreaMode
	zoomCfg  AreaZoom
	revision uint64
	history  *History
	centered bool

	// Event listeners
	listeners map[EventType][]EventListener
}

// EventType identifies different application events.
type EventType int

const (
	EventShapesChanged EventType = iota
	EventSelectionChanged
	EventViewportChanged
	EventToolChanged
	EventAreaModeChanged
	EventHistoryChanged
	EventProjectLoaded
	EventProjectSaved
	EventModified
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// NewState creates an empty editor state with the given history bound.
func NewState(historyLimit int) *State {
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	return &State{
		Document:  project.New("Untitled"),
		view:      viewport.New(0, 0),
		zoomCfg:   DefaultAreaZoom(),
		history:   NewHistory(historyLimit),
		listeners: make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

func (s *State) emitAll(events ...EventType) {
	for _, e := range events {
		s.Emit(e, nil)
	}
}

// SetAreaZoom replaces the area zoom settings.
func (s *State) SetAreaZoom(cfg AreaZoom) {
	s.mu.Lock()
	s.zoomCfg = cfg
	s.mu.Unlock()
}

// AreaZoom returns the area zoom settings.
func (s *State) AreaZoom() AreaZoom {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.zoomCfg
}

// --- Shapes ---

// Shapes returns the shapes in drawing order.
func (s *State) Shapes() []shape.Shape {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.shapes)
}

// Shape returns the shape with the given id, or nil.
func (s *State) Shape(id string) shape.Shape {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sh, _ := shape.Find(s.shapes, id)
	return sh
}

// Revision increases on every change to the shape tree.
func (s *State) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// changedLocked records a shape tree change. Caller holds the write lock.
func (s *State) changedLocked() {
	s.revision++
	s.Modified = true
}

// AddShape appends a copy of sh. Shapes with an empty or duplicate id are
// rejected.
func (s *State) AddShape(sh shape.Shape) bool {
	id := shape.ID(sh)
	s.mu.Lock()
	if id == "" {
		s.mu.Unlock()
		log.Printf("AddShape: rejected %s with empty id", sh.Kind())
		return false
	}
	if existing, _ := shape.Find(s.shapes, id); existing != nil {
		s.mu.Unlock()
		log.Printf("AddShape: rejected duplicate id %s", id)
		return false
	}
	s.shapes = append(slices.Clone(s.shapes), sh.Clone())
	s.changedLocked()
	s.mu.Unlock()

	s.emitAll(EventShapesChanged, EventModified)
	return true
}

// UpdateShape applies a partial update to one shape.
func (s *State) UpdateShape(id string, patch shape.Patch) bool {
	return s.UpdateShapeWith(id, patch.Apply)
}

// UpdateShapeWith replaces the shape with a clone modified by fn.
func (s *State) UpdateShapeWith(id string, fn func(shape.Shape)) bool {
	s.mu.Lock()
	_, i := shape.Find(s.shapes, id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	updated := s.shapes[i].Clone()
	fn(updated)
	s.shapes = slices.Clone(s.shapes)
	s.shapes[i] = updated
	s.changedLocked()
	s.pruneModeLocked()
	s.mu.Unlock()

	s.emitAll(EventShapesChanged, EventModified)
	return true
}

// UpdateMultipleShapes applies several patches as one change. Unknown ids
// are skipped. It returns the number of shapes updated.
func (s *State) UpdateMultipleShapes(updates []shape.Update) int {
	s.mu.Lock()
	next := slices.Clone(s.shapes)
	n := 0
	for _, u := range updates {
		_, i := shape.Find(next, u.ID)
		if i < 0 {
			continue
		}
		updated := next[i].Clone()
		u.Patch.Apply(updated)
		next[i] = updated
		n++
	}
	if n > 0 {
		s.shapes = next
		s.changedLocked()
	}
	s.mu.Unlock()

	if n > 0 {
		s.emitAll(EventShapesChanged, EventModified)
	}
	return n
}

// DeleteShapes removes shapes by id, dropping them from the selection.
// Deleting the zoomed area leaves area mode.
func (s *State) DeleteShapes(ids []string) int {
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}

	s.mu.Lock()
	before := len(s.shapes)
	s.shapes = slices.DeleteFunc(slices.Clone(s.shapes), func(sh shape.Shape) bool {
		return drop[shape.ID(sh)]
	})
	n := before - len(s.shapes)
	if n == 0 {
		s.mu.Unlock()
		return 0
	}
	s.changedLocked()
	selChanged := s.pruneSelectionLocked()
	modeChanged := s.mode.Active() && drop[s.mode.AreaID]
	if modeChanged {
		s.exitAreaModeLocked()
	}
	s.mu.Unlock()

	s.emitAll(EventShapesChanged, EventModified)
	if selChanged {
		s.Emit(EventSelectionChanged, nil)
	}
	if modeChanged {
		s.emitAll(EventAreaModeChanged, EventViewportChanged, EventToolChanged)
	}
	return n
}

// VisibleShapes returns the shapes that are shown and interactive: all of
// them normally, only the zoomed area in area mode.
func (s *State) VisibleShapes() []shape.Shape {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.mode.Active() {
		return slices.Clone(s.shapes)
	}
	if area, _ := shape.Find(s.shapes, s.mode.AreaID); area != nil {
		return []shape.Shape{area}
	}
	return nil
}

// --- Selection ---

// Selected returns the selected shape ids in selection order.
func (s *State) Selected() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.selected)
}

// SelectedShapes returns the selected shapes in selection order.
func (s *State) SelectedShapes() []shape.Shape {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]shape.Shape, 0, len(s.selected))
	for _, id := range s.selected {
		if sh, _ := shape.Find(s.shapes, id); sh != nil {
			out = append(out, sh)
		}
	}
	return out
}

// IsSelected reports whether the shape id is selected.
func (s *State) IsSelected(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Contains(s.selected, id)
}

// SelectShape selects one shape. With multi the shape is toggled in the
// current selection instead of replacing it.
func (s *State) SelectShape(id string, multi bool) bool {
	s.mu.Lock()
	if sh, _ := shape.Find(s.shapes, id); sh == nil {
		s.mu.Unlock()
		return false
	}
	switch {
	case !multi:
		s.selected = []string{id}
	case slices.Contains(s.selected, id):
		s.selected = slices.DeleteFunc(slices.Clone(s.selected), func(x string) bool { return x == id })
	default:
		s.selected = append(slices.Clone(s.selected), id)
	}
	s.mu.Unlock()

	s.Emit(EventSelectionChanged, id)
	return true
}

// SelectMultipleShapes replaces the selection. Unknown ids are dropped.
func (s *State) SelectMultipleShapes(ids []string) {
	s.mu.Lock()
	sel := make([]string, 0, len(ids))
	for _, id := range ids {
		if sh, _ := shape.Find(s.shapes, id); sh != nil && !slices.Contains(sel, id) {
			sel = append(sel, id)
		}
	}
	s.selected = sel
	s.mu.Unlock()

	s.Emit(EventSelectionChanged, nil)
}

// ClearSelection empties the shape selection and the area sub-selection.
func (s *State) ClearSelection() {
	s.mu.Lock()
	s.selected = nil
	s.mode.SelectedRowIDs = nil
	s.mode.SelectedSeatIDs = nil
	s.mu.Unlock()

	s.Emit(EventSelectionChanged, nil)
}

// pruneSelectionLocked drops selected ids that no longer exist.
func (s *State) pruneSelectionLocked() bool {
	before := len(s.selected)
	s.selected = slices.DeleteFunc(slices.Clone(s.selected), func(id string) bool {
		sh, _ := shape.Find(s.shapes, id)
		return sh == nil
	})
	return len(s.selected) != before
}

// --- Viewport & tool ---

// Viewport returns the current viewport.
func (s *State) Viewport() viewport.Viewport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view
}

// SetViewport replaces the viewport (zoom and pan).
func (s *State) SetViewport(v viewport.Viewport) {
	s.mu.Lock()
	s.view = v
	s.mu.Unlock()
	s.Emit(EventViewportChanged, v)
}

// SetViewportSize records new host dimensions. Zoom and pan are kept; the
// view is not recentered.
func (s *State) SetViewportSize(width, height float64) {
	s.mu.Lock()
	s.view.Width, s.view.Height = width, height
	v := s.view
	s.mu.Unlock()
	s.Emit(EventViewportChanged, v)
}

// CenterContentOnce pans so the content bounds are centered, the first time
// it is called with a non-empty viewport. It reports whether it panned.
func (s *State) CenterContentOnce() bool {
	s.mu.Lock()
	if s.centered || s.view.Width <= 0 || s.view.Height <= 0 {
		s.mu.Unlock()
		return false
	}
	s.centered = true
	box, ok := selection.UnionBounds(s.shapes)
	if !ok {
		s.mu.Unlock()
		return false
	}
	s.view = s.view.CenterOn(box.Center())
	v := s.view
	s.mu.Unlock()

	s.Emit(EventViewportChanged, v)
	return true
}

// Tool returns the current tool.
func (s *State) Tool() Tool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tool
}

// SetTool changes the current tool. Seat tools are refused outside area mode.
func (s *State) SetTool(t Tool) bool {
	s.mu.Lock()
	if t.IsSeatTool() && !s.mode.Active() {
		s.mu.Unlock()
		return false
	}
	changed := s.tool != t
	s.tool = t
	s.mu.Unlock()

	if changed {
		s.Emit(EventToolChanged, t)
	}
	return true
}

// --- History ---

// SaveToHistory records the current shapes as an undo step. Called once per
// completed gesture.
func (s *State) SaveToHistory() {
	s.mu.Lock()
	pushed := s.history.Push(s.shapes)
	s.mu.Unlock()
	if pushed {
		s.Emit(EventHistoryChanged, nil)
	}
}

// Undo restores the previous snapshot.
func (s *State) Undo() bool {
	return s.restore((*History).Undo)
}

// Redo restores the next snapshot.
func (s *State) Redo() bool {
	return s.restore((*History).Redo)
}

func (s *State) restore(step func(*History) ([]shape.Shape, bool)) bool {
	s.mu.Lock()
	snap, ok := step(s.history)
	if !ok {
		s.mu.Unlock()
		return false
	}
	s.shapes = snap
	s.changedLocked()
	s.pruneSelectionLocked()
	modeChanged := false
	if s.mode.Active() {
		area, _ := shape.Find(s.shapes, s.mode.AreaID)
		if p, isPoly := area.(*shape.Polygon); !isPoly || !p.IsArea() {
			s.exitAreaModeLocked()
			modeChanged = true
		} else {
			s.mode = s.mode.pruneArea(p)
		}
	}
	s.mu.Unlock()

	s.emitAll(EventShapesChanged, EventSelectionChanged, EventHistoryChanged, EventModified)
	if modeChanged {
		s.emitAll(EventAreaModeChanged, EventViewportChanged, EventToolChanged)
	}
	return true
}

// CanUndo reports whether there is a step to undo.
func (s *State) CanUndo() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.history.CanUndo()
}

// CanRedo reports whether there is a step to redo.
func (s *State) CanRedo() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.history.CanRedo()
}

// --- Area mode ---

// Mode returns a copy of the area mode.
func (s *State) Mode() AreaMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode.clone()
}

// ZoomedArea returns the polygon being edited in area mode, or nil.
func (s *State) ZoomedArea() *shape.Polygon {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.zoomedAreaLocked()
}

func (s *State) zoomedAreaLocked() *shape.Polygon {
	if !s.mode.Active() {
		return nil
	}
	sh, _ := shape.Find(s.shapes, s.mode.AreaID)
	p, _ := sh.(*shape.Polygon)
	return p
}

// EnterAreaMode zooms into the area polygon with the given id: the current
// viewport is saved, the area bounds are fitted to the viewport and the shape
// selection is cleared.
func (s *State) EnterAreaMode(id string) bool {
	s.mu.Lock()
	sh, _ := shape.Find(s.shapes, id)
	p, ok := sh.(*shape.Polygon)
	if !ok || !p.IsArea() || s.mode.AreaID == id {
		s.mu.Unlock()
		return false
	}
	saved := s.view
	if s.mode.Active() {
		saved = s.mode.SavedViewport
	}
	s.mode = AreaMode{AreaID: id, SavedViewport: saved}
	s.view = FitArea(s.view, p, s.zoomCfg)
	s.selected = nil
	v := s.view
	s.mu.Unlock()

	log.Printf("Area zoom: entered %s (zoom %.2f)", id, v.Zoom)
	s.emitAll(EventAreaModeChanged, EventSelectionChanged)
	s.Emit(EventViewportChanged, v)
	return true
}

// ExitAreaMode restores the saved viewport and resets the tool to select.
func (s *State) ExitAreaMode() bool {
	s.mu.Lock()
	if !s.mode.Active() {
		s.mu.Unlock()
		return false
	}
	id := s.mode.AreaID
	s.exitAreaModeLocked()
	s.mu.Unlock()

	log.Printf("Area zoom: exited %s", id)
	s.emitAll(EventAreaModeChanged, EventSelectionChanged, EventViewportChanged, EventToolChanged)
	return true
}

func (s *State) exitAreaModeLocked() {
	s.view = s.mode.SavedViewport
	s.mode = AreaMode{}
	s.tool = ToolSelect
}

// FocusStyle returns the fill and stroke to draw for shape id: the focus
// style for the zoomed area, ok=false for everything else.
func (s *State) FocusStyle(id string) (fill, stroke string, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.mode.Active() || s.mode.AreaID != id {
		return "", "", false
	}
	return s.zoomCfg.FocusFill, s.zoomCfg.FocusStroke, true
}

// SelectSeats sets the seat sub-selection. With multi each id is toggled.
// Ids that are not seats of the zoomed area are ignored.
func (s *State) SelectSeats(ids []string, multi bool) {
	s.mu.Lock()
	area := s.zoomedAreaLocked()
	if area == nil {
		s.mu.Unlock()
		return
	}
	if !multi {
		s.mode.SelectedSeatIDs = nil
	}
	for _, id := range ids {
		if slices.Contains(s.mode.SelectedSeatIDs, id) {
			if multi {
				s.mode.SelectedSeatIDs = slices.DeleteFunc(slices.Clone(s.mode.SelectedSeatIDs), func(x string) bool { return x == id })
			}
			continue
		}
		s.mode.SelectedSeatIDs = append(slices.Clone(s.mode.SelectedSeatIDs), id)
	}
	s.mode = s.mode.pruneArea(area)
	s.mu.Unlock()

	s.Emit(EventSelectionChanged, nil)
}

// SelectRows sets the row sub-selection.
func (s *State) SelectRows(ids []string) {
	s.mu.Lock()
	area := s.zoomedAreaLocked()
	if area == nil {
		s.mu.Unlock()
		return
	}
	s.mode.SelectedRowIDs = slices.Clone(ids)
	s.mode = s.mode.pruneArea(area)
	s.mu.Unlock()

	s.Emit(EventSelectionChanged, nil)
}

// pruneModeLocked keeps the area sub-selection consistent with the shapes.
func (s *State) pruneModeLocked() {
	if area := s.zoomedAreaLocked(); area != nil {
		s.mode = s.mode.pruneArea(area)
	}
}

// --- Documents ---

// LoadDocument replaces the editor contents with doc. History restarts from
// the loaded shapes and the next CenterContentOnce will recenter.
func (s *State) LoadDocument(doc *project.Document, path string) {
	shapes := shape.CloneAll(doc.Shapes)

	s.mu.Lock()
	s.Document = doc
	s.ProjectPath = path
	s.Modified = false
	s.shapes = shapes
	s.selected = nil
	s.mode = AreaMode{}
	s.tool = ToolSelect
	s.revision++
	s.history.Reset(shapes)
	s.centered = false
	s.mu.Unlock()

	s.emitAll(EventShapesChanged, EventSelectionChanged, EventAreaModeChanged,
		EventToolChanged, EventHistoryChanged)
	s.Emit(EventProjectLoaded, path)
}

// LoadProject loads a layout file.
func (s *State) LoadProject(path string) error {
	doc, err := project.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	if errs := shape.Validate(doc.Shapes); len(errs) > 0 {
		for _, e := range errs {
			log.Printf("LoadProject: %v", e)
		}
	}
	s.LoadDocument(doc, path)
	return nil
}

// Snapshot returns the current document with the live shapes.
func (s *State) Snapshot() *project.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc := *s.Document
	doc.Shapes = shape.CloneAll(s.shapes)
	return &doc
}

// DocumentID returns the library id of the current document, or its name
// when it has never been stored.
func (s *State) DocumentID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Document.ID != "" {
		return s.Document.ID
	}
	return s.Document.Name
}

// Settings returns the per-layout editor settings.
func (s *State) Settings() project.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Document.Settings
}

// SetSnapEnabled stores the guide snapping preference in the document.
func (s *State) SetSnapEnabled(on bool) {
	s.mu.Lock()
	changed := s.Document.Settings.SnapEnabled != on
	s.Document.Settings.SnapEnabled = on
	if changed {
		s.Modified = true
	}
	s.mu.Unlock()
	if changed {
		s.Emit(EventModified, nil)
	}
}

// SetBackgroundImage stores the floor plan path, relative to the layout file
// when it has one. An empty path removes the floor plan.
func (s *State) SetBackgroundImage(imagePath string) {
	s.mu.Lock()
	if imagePath == "" {
		s.Document.BackgroundImagePath = ""
	} else {
		s.Document.SetBackgroundImage(s.ProjectPath, imagePath)
	}
	s.Modified = true
	s.mu.Unlock()
	s.Emit(EventModified, nil)
}

// BackgroundImage returns the absolute floor plan path, or "".
func (s *State) BackgroundImage() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Document.GetBackgroundImagePath(s.ProjectPath)
}

// SetDocumentID records the library id assigned to the current document.
func (s *State) SetDocumentID(id string) {
	s.mu.Lock()
	s.Document.ID = id
	s.mu.Unlock()
}

// SaveProject saves the layout to path.
func (s *State) SaveProject(path string) error {
	s.mu.Lock()
	if s.ProjectPath != path {
		// Keep the floor plan reachable from the new location.
		if bg := s.Document.GetBackgroundImagePath(s.ProjectPath); bg != "" {
			s.Document.SetBackgroundImage(path, bg)
		}
	}
	s.mu.Unlock()

	doc := s.Snapshot()
	if err := doc.Save(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}

	s.mu.Lock()
	s.Document.Modified = doc.Modified
	s.ProjectPath = path
	s.Modified = false
	s.mu.Unlock()

	s.Emit(EventProjectSaved, path)
	return nil
}
