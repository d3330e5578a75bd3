package asynchook

import (
	"errors"
	"sync"
	"testing"

	"github.com/unkn0wn-root/tabsettings"
)

type recHooks struct {
	tabsettings.NopHooks
	mu       sync.Mutex
	rejected []tabsettings.Key
	toggled  []bool
	gate     chan struct{}
}

func (r *recHooks) SettingRejected(k tabsettings.Key, _ error) {
	if r.gate != nil {
		<-r.gate
	}
	r.mu.Lock()
	r.rejected = append(r.rejected, k)
	r.mu.Unlock()
}

func (r *recHooks) SyncToggled(on bool) {
	r.mu.Lock()
	r.toggled = append(r.toggled, on)
	r.mu.Unlock()
}

func TestHooks_DeliversBeforeClose(t *testing.T) {
	rec := &recHooks{}
	h := New(rec, 1, 16)
	h.SettingRejected(tabsettings.KeyMinTabs, errors.New("bad"))
	h.SyncToggled(false)
	h.Close()

	if len(rec.rejected) != 1 || rec.rejected[0] != tabsettings.KeyMinTabs {
		t.Fatalf("rejected=%v", rec.rejected)
	}
	if len(rec.toggled) != 1 || rec.toggled[0] {
		t.Fatalf("toggled=%v", rec.toggled)
	}
}

func TestHooks_DropsWhenFull(t *testing.T) {
	rec := &recHooks{gate: make(chan struct{})}
	h := New(rec, 1, 1)

	// one event blocks the worker, one fills the queue, the rest drop
	for i := 0; i < 10; i++ {
		h.SettingRejected(tabsettings.KeyWhitelist, nil)
	}
	close(rec.gate)
	h.Close()

	if n := len(rec.rejected); n < 1 || n > 2 {
		t.Fatalf("delivered=%d want 1 or 2", n)
	}
}

func TestHooks_AfterCloseIsNoop(t *testing.T) {
	rec := &recHooks{}
	h := New(rec, 2, 4)
	h.Close()
	h.Close()
	h.SyncToggled(true) // must not panic on closed channel
	if len(rec.toggled) != 0 {
		t.Fatalf("toggled=%v", rec.toggled)
	}
}
