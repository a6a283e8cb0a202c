package app

import (
	"os"
	"time"
)

// ConfigWatcher watches the loaded configuration file for changes and
// triggers a callback when it is rewritten outside the application, so an
// externally edited floor plan shows up without a restart.
type ConfigWatcher struct {
	path          string
	baseline      time.Time
	checkInterval time.Duration
	stopCh        chan struct{}
	onChange      func()
}

// NewConfigWatcher creates a watcher for the given file. Returns nil if the
// file cannot be stat'ed.
func NewConfigWatcher(path string, checkInterval time.Duration) *ConfigWatcher {
	info, err := os.Stat(path)
	if err != nil {
		return nil
	}

	return &ConfigWatcher{
		path:          path,
		baseline:      info.ModTime(),
		checkInterval: checkInterval,
		stopCh:        make(chan struct{}),
	}
}

// OnChange sets the callback to invoke when the file changes. The callback
// runs on a background goroutine; marshal back onto the UI thread before
// touching widgets.
func (w *ConfigWatcher) OnChange(callback func()) {
	w.onChange = callback
}

// Start begins watching in a background goroutine.
func (w *ConfigWatcher) Start() {
	w.stopCh = make(chan struct{})
	go w.watchLoop()
}

// Stop stops the watcher goroutine.
func (w *ConfigWatcher) Stop() {
	close(w.stopCh)
}

func (w *ConfigWatcher) watchLoop() {
	ticker := time.NewTicker(w.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			if w.checkForUpdate() && w.onChange != nil {
				w.onChange()
			}
		}
	}
}

// checkForUpdate reports whether the file changed since the baseline and
// advances the baseline so each rewrite fires once.
func (w *ConfigWatcher) checkForUpdate() bool {
	info, err := os.Stat(w.path)
	if err != nil {
		return false
	}
	if !info.ModTime().After(w.baseline) {
		return false
	}
	w.baseline = info.ModTime()
	return true
}

// ResetBaseline updates the baseline to the file's current mod time. Call
// this after the application itself saves, so its own write doesn't fire
// the callback.
func (w *ConfigWatcher) ResetBaseline() {
	if info, err := os.Stat(w.path); err == nil {
		w.baseline = info.ModTime()
	}
}
