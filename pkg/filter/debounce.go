package filter

import (
	"sync"
	"time"
)

// DefaultDebounce is the quiescence window for free-text input. Discrete
// selections commit immediately; only the text draft goes through here.
const DefaultDebounce = 300 * time.Millisecond

// Debouncer separates the presentation-local draft of the search text from
// the committed value: the commit fires once the draft has been quiet for
// the whole window, with reset-on-edit semantics.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	timer   *time.Timer
	pending string
	has     bool
	closed  bool
	commit  func(string)
}

func NewDebouncer(delay time.Duration, commit func(string)) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{delay: delay, commit: commit}
}

// Edit records a new draft value and restarts the quiescence window.
func (d *Debouncer) Edit(value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.pending = value
	d.has = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.fire)
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	if d.closed || !d.has {
		d.mu.Unlock()
		return
	}
	value := d.pending
	d.has = false
	d.mu.Unlock()
	d.commit(value)
}

// Flush commits any pending draft immediately.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.mu.Unlock()
	d.fire()
}

// Close cancels without committing; further edits are ignored.
func (d *Debouncer) Close() {
	d.mu.Lock()
	d.closed = true
	d.has = false
	if d.timer != nil {
		d.timer.Stop()
	}
	d.mu.Unlock()
}
