package app

import (
	"os"
	"sync"
	"time"
)

// FileWatcher polls a layout file and calls back when it is modified on disk
// by another program (for example a layoutcheck import). The callback runs on
// the watcher goroutine; UI code must hand it to the main thread.
type FileWatcher struct {
	mu       sync.Mutex
	path     string
	baseline time.Time
	interval time.Duration
	stopCh   chan struct{}
	onChange func(path string)
}

// NewFileWatcher creates a watcher for path. It returns nil if the file does
// not exist.
func NewFileWatcher(path string, interval time.Duration) *FileWatcher {
	info, err := os.Stat(path)
	if err != nil {
		return nil
	}
	return &FileWatcher{
		path:     path,
		baseline: info.ModTime(),
		interval: interval,
	}
}

// OnChange sets the callback invoked when the file changes.
func (w *FileWatcher) OnChange(callback func(path string)) {
	w.mu.Lock()
	w.onChange = callback
	w.mu.Unlock()
}

// Start begins polling in a background goroutine.
func (w *FileWatcher) Start() {
	w.mu.Lock()
	w.stopCh = make(chan struct{})
	stop := w.stopCh
	w.mu.Unlock()
	go w.watchLoop(stop)
}

// Stop ends polling. It is safe to call on a stopped watcher.
func (w *FileWatcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopCh != nil {
		close(w.stopCh)
		w.stopCh = nil
	}
}

func (w *FileWatcher) watchLoop(stop chan struct{}) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if !w.Changed() {
				continue
			}
			w.mu.Lock()
			cb := w.onChange
			w.mu.Unlock()
			if cb != nil {
				cb(w.path)
			}
			// Report each change once
			w.ResetBaseline()
		}
	}
}

// Changed reports whether the file was modified after the baseline.
func (w *FileWatcher) Changed() bool {
	info, err := os.Stat(w.path)
	if err != nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return info.ModTime().After(w.baseline)
}

// ResetBaseline adopts the file's current modification time. Call it after
// saving so the editor's own writes are not reported.
func (w *FileWatcher) ResetBaseline() {
	if info, err := os.Stat(w.path); err == nil {
		w.mu.Lock()
		w.baseline = info.ModTime()
		w.mu.Unlock()
	}
}

// Path returns the watched file.
func (w *FileWatcher) Path() string {
	return w.path
}
