// usage:
//
// import (
//
//	"log/slog"
//
//	"github.com/unkn0wn-root/tabsettings"
//	"github.com/unkn0wn-root/tabsettings/hooks/async"
//	"github.com/unkn0wn-root/tabsettings/sloghooks"
//
// )
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{
//	    IgnoredEvery:  50, // sample logs: ~every 50th ignored notification
//	    RejectedEvery: 1,  // log every rejected Set
//	})
//
// hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
// defer hooks.Close()
//
//	settings, _ := tabsettings.New(tabsettings.Options{
//	    Backend: backend,
//	    Hooks:   hooks, // or `raw` if you don’t want async
//	})
package asynchook

import (
	"sync"

	"github.com/unkn0wn-root/tabsettings"
)

type Hooks struct {
	inner tabsettings.Hooks
	q     chan func()
	wg    sync.WaitGroup
	once  sync.Once
	mu    sync.RWMutex
	done  bool
}

var _ tabsettings.Hooks = (*Hooks)(nil)

func New(inner tabsettings.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

// Close stops accepting events and waits for queued ones to run.
func (h *Hooks) Close() {
	h.once.Do(func() {
		h.mu.Lock()
		h.done = true
		close(h.q)
		h.mu.Unlock()
		h.wg.Wait()
	})
}

func (h *Hooks) try(f func()) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.done {
		return
	}
	select {
	case h.q <- f:
	default: // drop
	}
}

func (h *Hooks) PersistFailed(err *tabsettings.PersistError) {
	h.try(func() { h.inner.PersistFailed(err) })
}
func (h *Hooks) ExternalChangeIgnored(area string, n int, r string) {
	h.try(func() { h.inner.ExternalChangeIgnored(area, n, r) })
}
func (h *Hooks) SettingRejected(k tabsettings.Key, err error) {
	h.try(func() { h.inner.SettingRejected(k, err) })
}
func (h *Hooks) SyncToggled(on bool) { h.try(func() { h.inner.SyncToggled(on) }) }
