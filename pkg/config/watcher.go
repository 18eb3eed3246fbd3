package config

import (
	"os"
	"sync"
	"time"
)

// WatchInterval is the default poll interval for file watching.
const WatchInterval = 2 * time.Second

// WatchEvent signals that the watched file changed on disk.
type WatchEvent struct {
	Path string
}

// Watcher polls a single file's modification time and publishes an event
// when it changes. Watching happens off the request path; consumers react
// to events on the returned channel.
type Watcher struct {
	path     string
	interval time.Duration
	modTime  time.Time

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
	eventCh chan WatchEvent
}

// NewWatcher creates a watcher for the given file, polling at the given
// interval (WatchInterval when zero or negative). The file may not exist
// yet; its appearance counts as a change.
func NewWatcher(path string, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = WatchInterval
	}
	w := &Watcher{
		path:     path,
		interval: interval,
		eventCh:  make(chan WatchEvent, 10),
	}
	if info, err := os.Stat(path); err == nil {
		w.modTime = info.ModTime()
	}
	return w
}

// Start begins polling and returns the event channel. Calling Start on a
// running watcher returns the same channel.
func (w *Watcher) Start() <-chan WatchEvent {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return w.eventCh
	}

	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.running = true

	stopCh := w.stopCh
	doneCh := w.doneCh
	go w.watchLoop(stopCh, doneCh)

	return w.eventCh
}

// Stop halts polling and waits for the watch goroutine to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	close(w.stopCh)
	w.running = false
	doneCh := w.doneCh
	w.mu.Unlock()

	<-doneCh
}

func (w *Watcher) watchLoop(stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			info, err := os.Stat(w.path)
			if err != nil {
				// File missing or unreadable mid-save; try again next tick.
				continue
			}
			if info.ModTime().After(w.modTime) {
				w.modTime = info.ModTime()
				select {
				case w.eventCh <- WatchEvent{Path: w.path}:
				default:
					// Consumer is behind; the pending event already covers this change.
				}
			}
		}
	}
}
