package filter

import (
	"sync"
	"testing"
	"time"
)

type commitRecorder struct {
	mu     sync.Mutex
	values []string
}

func (c *commitRecorder) commit(v string) {
	c.mu.Lock()
	c.values = append(c.values, v)
	c.mu.Unlock()
}

func (c *commitRecorder) snapshot() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.values))
	copy(out, c.values)
	return out
}

func TestDebouncerCommitsOnlyLastDraft(t *testing.T) {
	rec := &commitRecorder{}
	d := NewDebouncer(30*time.Millisecond, rec.commit)
	defer d.Close()

	d.Edit("w")
	d.Edit("wh")
	d.Edit("wheel")
	time.Sleep(120 * time.Millisecond)

	got := rec.snapshot()
	if len(got) != 1 || got[0] != "wheel" {
		t.Errorf("expected one commit of the final draft, got %v", got)
	}
}

func TestDebouncerResetOnEdit(t *testing.T) {
	rec := &commitRecorder{}
	d := NewDebouncer(60*time.Millisecond, rec.commit)
	defer d.Close()

	d.Edit("a")
	time.Sleep(40 * time.Millisecond)
	d.Edit("ab")
	time.Sleep(40 * time.Millisecond)
	if len(rec.snapshot()) != 0 {
		t.Errorf("window must restart on every edit")
	}
	time.Sleep(60 * time.Millisecond)
	if got := rec.snapshot(); len(got) != 1 || got[0] != "ab" {
		t.Errorf("expected ab after quiescence, got %v", got)
	}
}

func TestDebouncerFlush(t *testing.T) {
	rec := &commitRecorder{}
	d := NewDebouncer(time.Hour, rec.commit)
	defer d.Close()

	d.Edit("now")
	d.Flush()
	if got := rec.snapshot(); len(got) != 1 || got[0] != "now" {
		t.Errorf("flush must commit immediately, got %v", got)
	}
	d.Flush()
	if len(rec.snapshot()) != 1 {
		t.Errorf("flush without a pending draft must not re-commit")
	}
}

func TestDebouncerCloseCancels(t *testing.T) {
	rec := &commitRecorder{}
	d := NewDebouncer(20*time.Millisecond, rec.commit)
	d.Edit("dropped")
	d.Close()
	time.Sleep(60 * time.Millisecond)
	if len(rec.snapshot()) != 0 {
		t.Errorf("close must cancel without committing")
	}
	d.Edit("ignored")
	time.Sleep(40 * time.Millisecond)
	if len(rec.snapshot()) != 0 {
		t.Errorf("edits after close are ignored")
	}
}
