package tabsettings

import (
	"context"
	"time"

	"github.com/unkn0wn-root/tabsettings/storage"
)

// Backend is the persistent key/value store behind the settings.
// *storage.Storage implements it.
type Backend interface {
	// Get reads the keys of defaults from area; absent keys keep their default.
	Get(ctx context.Context, area storage.Area, defaults map[string]any) (map[string]any, error)
	// Set persists items to area.
	Set(ctx context.Context, area storage.Area, items map[string]any) error
	// Subscribe delivers every change to either area, including from peers.
	Subscribe(fn func(changes map[string]storage.Change, area storage.Area)) (cancel func())
}

var _ Backend = (*storage.Storage)(nil)

// Settings is the settings store: an in-memory cache kept in step with two
// storage tiers, with per-key validation and scheduler side effects.
type Settings interface {
	// Init loads enableSync and paused from the local tier, then the settings
	// table from whichever tier sync selects. Until it returns, Get may
	// report nil for keys not loaded yet.
	Init(ctx context.Context) error

	Get(key Key) any
	Set(key Key, value any) error

	// Typed reads. Int parses like the setters do.
	Int(key Key) (int, bool)
	Bool(key Key) bool
	Strings(key Key) []string

	AddWhitelistEntry(pattern string) error
	RemoveWhitelistEntryByIndex(index int) error

	Paused() bool
	SyncEnabled() bool

	// OnExternalChange applies a storage change notification. New subscribes
	// it to the Backend; call it directly only when wiring a custom feed.
	// Only shared-tier changes apply, and only while sync is enabled. A key
	// with a Set still waiting to be persisted keeps its cached value: that
	// write lands after the change and replaces it in storage too.
	OnExternalChange(changes map[string]storage.Change, area storage.Area)

	// Flush waits for queued persistence to finish.
	Flush(ctx context.Context) error
	// Close unsubscribes from the Backend and drains queued persistence.
	// The Backend itself is left open.
	Close(ctx context.Context) error
}

// Options configure the settings store. Only Backend is required.
type Options struct {
	Backend Backend

	Scheduler  Scheduler // nil => NopScheduler
	Indicator  Indicator // nil => NopIndicator
	Logger     Logger    // nil => NopLogger
	Hooks      Hooks     // nil => NopHooks
	Icon       string    // "" => DefaultIcon
	PausedIcon string    // "" => DefaultPausedIcon

	// WriteTimeout bounds each background write; 0 => no deadline.
	WriteTimeout time.Duration
}

func New(opts Options) (Settings, error) {
	return newStore(opts)
}
