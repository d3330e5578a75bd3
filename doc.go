// Package tabsettings is the settings store of a tab-closing browser
// extension. It keeps an in-memory cache of every setting in step with two
// storage tiers: a shared tier that follows the user across machines and a
// local tier that stays on this one.
//
// Components:
//   - Settings: the cache. Reads are synchronous; writes update the cache
//     first and persist in the background, in order, on a single worker.
//   - Backend: the two tiers and their change feed (see package storage).
//   - Scheduler, Indicator: the tab manager and toolbar, told about changes
//     that affect which tabs close and how the badge looks.
//
// Keys:
//
//	enableSync, paused  - local tier only
//	everything else     - shared tier when sync is on, local otherwise
//
// Writes to the shared tier made elsewhere arrive through Backend.Subscribe
// and replace cached values; local-tier notifications are ignored.
//
// Typical use:
//
//	st, _ := storage.New(storage.Options{Shared: p1, Local: p2})
//	s, _ := tabsettings.New(tabsettings.Options{Backend: st, Scheduler: tabs})
//	_ = s.Init(ctx)
//	_ = s.Set(tabsettings.KeyMinTabs, "7")
package tabsettings
