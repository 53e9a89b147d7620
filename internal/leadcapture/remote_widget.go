package leadcapture

import (
	"sync"
	"time"
)

// InitDirective tells the page to run the scheduling widget's inline init.
type InitDirective struct {
	Seq       int       `json:"seq"`
	URL       string    `json:"url"`
	Container string    `json:"container"`
	IssuedAt  time.Time `json:"issuedAt"`
}

// RemoteWidget stands in for a widget living in the visitor's browser. The
// page reports when the widget script has loaded and picks up the init
// directives the session issues.
type RemoteWidget struct {
	mu         sync.Mutex
	ready      bool
	directives []InitDirective
}

func NewRemoteWidget() *RemoteWidget {
	return &RemoteWidget{}
}

// MarkReady records that the page has the widget's global available.
func (w *RemoteWidget) MarkReady() {
	w.mu.Lock()
	w.ready = true
	w.mu.Unlock()
}

func (w *RemoteWidget) IsReady() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.ready
}

// Init queues a directive for the page.
func (w *RemoteWidget) Init(container string, cfg SchedulerConfig) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.directives = append(w.directives, InitDirective{
		Seq:       len(w.directives) + 1,
		URL:       cfg.URL,
		Container: container,
		IssuedAt:  time.Now(),
	})
	return nil
}

// Latest returns the most recent directive, if any.
func (w *RemoteWidget) Latest() (InitDirective, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.directives) == 0 {
		return InitDirective{}, false
	}
	return w.directives[len(w.directives)-1], true
}

func (w *RemoteWidget) InitCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.directives)
}
