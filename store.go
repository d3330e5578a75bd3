package tabsettings

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/unkn0wn-root/tabsettings/internal/queue"
	"github.com/unkn0wn-root/tabsettings/internal/util"
	"github.com/unkn0wn-root/tabsettings/storage"
)

type setterFunc func(s *store, value any) error
type getterFunc func(s *store) any

type store struct {
	backend    Backend
	scheduler  Scheduler
	indicator  Indicator
	log        Logger
	hooks      Hooks
	icon       string
	pausedIcon string

	mu          sync.RWMutex
	cache       map[Key]any
	inflight    map[Key]int // queued writes per key
	paused      bool
	syncEnabled bool
	closed      bool

	setters map[Key]setterFunc
	getters map[Key]getterFunc

	writes      *queue.Queue
	unsubscribe func()
}

func newStore(opts Options) (*store, error) {
	if opts.Backend == nil {
		return nil, fmt.Errorf("tabsettings: backend is required")
	}

	s := &store{
		backend:     opts.Backend,
		cache:       make(map[Key]any),
		inflight:    make(map[Key]int),
		paused:      defaultPaused,
		syncEnabled: defaultEnableSync,
		setters:     setterTable(),
		getters:     getterTable(),
	}

	// defaults
	s.scheduler = coalesce[Scheduler](opts.Scheduler, NopScheduler{})
	s.indicator = coalesce[Indicator](opts.Indicator, NopIndicator{})
	s.log = coalesce[Logger](opts.Logger, NopLogger{})
	s.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})
	s.icon = coalesce(opts.Icon, DefaultIcon)
	s.pausedIcon = coalesce(opts.PausedIcon, DefaultPausedIcon)

	s.writes = queue.New(opts.WriteTimeout)
	s.unsubscribe = s.backend.Subscribe(s.OnExternalChange)
	return s, nil
}

func (s *store) Init(ctx context.Context) error {
	s.mu.RLock()
	flagDefaults := map[string]any{
		string(KeyEnableSync): s.syncEnabled,
		string(KeyPaused):     s.paused,
	}
	s.mu.RUnlock()

	flags, err := s.backend.Get(ctx, storage.Local, flagDefaults)
	if err != nil {
		return fmt.Errorf("tabsettings: init: read flags: %w", err)
	}

	syncEnabled, ok := coerceBool(flags[string(KeyEnableSync)])
	if !ok {
		syncEnabled = defaultEnableSync
	}
	s.mu.Lock()
	s.syncEnabled = syncEnabled
	s.mu.Unlock()

	// through the setter so icon and scheduler follow a restored pause
	if err := s.setPaused(flags[string(KeyPaused)]); err != nil {
		s.log.Warn("ignoring stored paused flag", Fields{"value": flags[string(KeyPaused)], "err": err})
	}

	return s.load(ctx, areaFor(syncEnabled))
}

// load merges the settings table of area into the cache. Flags are not
// touched; the caller decides which area is current.
func (s *store) load(ctx context.Context, area storage.Area) error {
	items, err := s.backend.Get(ctx, area, defaultsForStorage())
	if err != nil {
		return fmt.Errorf("tabsettings: load %s settings: %w", area, err)
	}

	s.mu.Lock()
	for k, v := range items {
		if s.inflight[Key(k)] > 0 {
			continue
		}
		s.cache[Key(k)] = normalize(Key(k), v)
	}
	s.mu.Unlock()

	s.log.Debug("settings loaded", Fields{"area": area, "keys": len(items)})
	return nil
}

func (s *store) OnExternalChange(changes map[string]storage.Change, area storage.Area) {
	s.mu.Lock()
	if area != storage.Shared || !s.syncEnabled {
		s.mu.Unlock()
		reason := "local_area"
		if area == storage.Shared {
			reason = "sync_disabled"
		}
		s.hooks.ExternalChangeIgnored(string(area), len(changes), reason)
		return
	}
	for k, ch := range changes {
		// our own queued write lands after this one; it wins
		if s.inflight[Key(k)] > 0 {
			continue
		}
		if ch.NewValue == nil {
			delete(s.cache, Key(k))
			continue
		}
		s.cache[Key(k)] = normalize(Key(k), ch.NewValue)
	}
	s.mu.Unlock()
	s.log.Debug("applied shared change", Fields{"keys": len(changes)})
}

func (s *store) Set(key Key, value any) error {
	err := s.set(key, value)
	if err != nil {
		s.hooks.SettingRejected(key, err)
	}
	return err
}

func (s *store) set(key Key, value any) error {
	if s.isClosed() {
		return ErrClosed
	}
	if fn, ok := s.setters[key]; ok {
		return fn(s, value)
	}
	kind, ok := KindOf(key)
	if !ok {
		return unknownKey(key)
	}
	v, err := coerce(key, kind, value)
	if err != nil {
		return err
	}
	s.setValue(key, v)
	return nil
}

func (s *store) Get(key Key) any {
	if fn, ok := s.getters[key]; ok {
		return fn(s)
	}
	return cloneValue(s.cached(key))
}

func (s *store) Int(key Key) (int, bool) { return parseInt(s.Get(key)) }

func (s *store) Bool(key Key) bool {
	b, _ := coerceBool(s.Get(key))
	return b
}

func (s *store) Strings(key Key) []string {
	l, ok := coerceStrings(s.Get(key))
	if !ok {
		return nil
	}
	return l
}

func (s *store) AddWhitelistEntry(pattern string) error {
	current, _ := coerceStrings(s.cached(KeyWhitelist))
	return s.Set(KeyWhitelist, append(current, pattern))
}

func (s *store) RemoveWhitelistEntryByIndex(index int) error {
	current, _ := coerceStrings(s.cached(KeyWhitelist))
	if index < 0 || index >= len(current) {
		err := fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfRange, index, len(current))
		s.hooks.SettingRejected(KeyWhitelist, err)
		return err
	}
	next := append(current[:index:index], current[index+1:]...)
	return s.Set(KeyWhitelist, next)
}

func (s *store) Paused() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.paused
}

func (s *store) SyncEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.syncEnabled
}

func (s *store) Flush(ctx context.Context) error { return s.writes.Flush(ctx) }

func (s *store) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return s.writes.Close(ctx)
	}
	s.closed = true
	s.mu.Unlock()

	if s.unsubscribe != nil {
		s.unsubscribe()
	}
	return s.writes.Close(ctx)
}

func (s *store) isClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

// setValue is the default write path: cache first, then persist to the tier
// sync currently selects. The tier is chosen per call.
//
// Until the write has run, reads from storage and change notifications for
// key leave the cache alone, so the echo of an older write cannot undo a
// newer Set.
func (s *store) setValue(key Key, value any) {
	s.mu.Lock()
	s.cache[key] = value
	s.inflight[key]++
	area := areaFor(s.syncEnabled)
	s.mu.Unlock()

	s.log.Debug("setting updated", Fields{"key": key, "area": area})
	s.persist(area, map[string]any{string(key): cloneValue(value)}, func(context.Context) {
		s.mu.Lock()
		if s.inflight[key]--; s.inflight[key] <= 0 {
			delete(s.inflight, key)
		}
		s.mu.Unlock()
	})
}

// persist queues a write. then, if set, runs after the write on the queue
// worker whether or not the write succeeded.
func (s *store) persist(area storage.Area, items map[string]any, then func(ctx context.Context)) {
	job := func(ctx context.Context) {
		s.report(area, items, s.backend.Set(ctx, area, items))
		if then != nil {
			then(ctx)
		}
	}
	if !s.writes.Enqueue(job) {
		s.report(area, items, ErrClosed)
	}
}

func (s *store) report(area storage.Area, items map[string]any, err error) {
	if err == nil {
		return
	}
	perr := &PersistError{Area: area, Keys: util.SortedKeys(items), Err: err}
	s.log.Warn("persist failed", Fields{"area": area, "keys": perr.Keys, "err": err})
	s.hooks.PersistFailed(perr)
}

func (s *store) cached(key Key) any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cache[key]
}

// snapshot copies the cache for a whole-table write.
func (s *store) snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]any, len(s.cache))
	for k, v := range s.cache {
		out[string(k)] = cloneValue(v)
	}
	return out
}

func areaFor(syncEnabled bool) storage.Area {
	if syncEnabled {
		return storage.Shared
	}
	return storage.Local
}

// coerce converts value to kind's canonical type or explains why it cannot.
func coerce(key Key, kind Kind, value any) (any, error) {
	switch kind {
	case KindBool:
		b, ok := coerceBool(value)
		if !ok {
			return nil, &InvalidSettingError{Key: key, Value: value, Reason: "must be a boolean"}
		}
		return b, nil
	case KindStrings:
		l, ok := coerceStrings(value)
		if !ok {
			return nil, &InvalidSettingError{Key: key, Value: value, Reason: "must be a list of strings"}
		}
		return l, nil
	case KindInt:
		n, ok := parseInt(value)
		if !ok {
			return nil, &InvalidSettingError{Key: key, Value: value, Reason: "must be an integer"}
		}
		return n, nil
	default:
		return nil, errors.New("tabsettings: unsupported kind " + kind.String())
	}
}
