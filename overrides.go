package tabsettings

import (
	"context"

	"github.com/unkn0wn-root/tabsettings/storage"
)

// setterTable maps keys whose writes validate or trigger side effects. Each
// entry replaces the default write path for its key.
func setterTable() map[Key]setterFunc {
	return map[Key]setterFunc{
		KeyEnableSync:      (*store).setEnableSync,
		KeyPaused:          (*store).setPaused,
		KeyMinutesInactive: (*store).setMinutesInactive,
		KeyMinTabs:         (*store).setMinTabs,
		KeyMaxExceededTime: (*store).setMaxExceededTime,
		KeyShowBadgeCount:  (*store).setShowBadgeCount,
		KeyWhitelist:       (*store).setWhitelist,
		KeyCountPerWindow:  (*store).setCountPerWindow,
	}
}

// getterTable maps derived and flag keys to their readers.
func getterTable() map[Key]getterFunc {
	return map[Key]getterFunc{
		KeyStayOpen: func(s *store) any {
			return minutesToMillis(s.cached(KeyMinutesInactive))
		},
		KeyMaxExceededTimeMilliseconds: func(s *store) any {
			return minutesToMillis(s.cached(KeyMaxExceededTime))
		},
		KeyEnableSync: func(s *store) any { return s.SyncEnabled() },
		KeyPaused:     func(s *store) any { return s.Paused() },
	}
}

// setEnableSync flips which tier backs the cache. The flag itself only lives
// in the local tier. Turning sync on reloads the table from the shared tier
// (the in-memory flag stays authoritative); turning it off copies the cache
// into the local tier, where writes now go.
func (s *store) setEnableSync(value any) error {
	enabled, ok := coerceBool(value)
	if !ok {
		return &InvalidSettingError{Key: KeyEnableSync, Value: value, Reason: "must be a boolean"}
	}

	s.mu.Lock()
	if s.syncEnabled == enabled {
		s.mu.Unlock()
		return nil
	}
	s.syncEnabled = enabled
	s.mu.Unlock()

	s.log.Info("sync toggled", Fields{"enabled": enabled})
	s.hooks.SyncToggled(enabled)

	s.persist(storage.Local, map[string]any{string(KeyEnableSync): enabled}, func(ctx context.Context) {
		if enabled {
			// a later Set may have turned sync off again while this was queued
			if !s.SyncEnabled() {
				return
			}
			if err := s.load(ctx, storage.Shared); err != nil {
				s.log.Error("reload after enabling sync failed", Fields{"err": err})
			}
			return
		}
		snap := s.snapshot()
		s.report(storage.Local, snap, s.backend.Set(ctx, storage.Local, snap))
	})
	return nil
}

func (s *store) setPaused(value any) error {
	paused, ok := coerceBool(value)
	if !ok {
		return &InvalidSettingError{Key: KeyPaused, Value: value, Reason: "must be a boolean"}
	}

	s.mu.Lock()
	if s.paused == paused {
		s.mu.Unlock()
		return nil
	}
	s.paused = paused
	s.mu.Unlock()

	s.log.Info("pause toggled", Fields{"paused": paused})

	s.persist(storage.Local, map[string]any{string(KeyPaused): paused}, func(context.Context) {
		if paused {
			s.scheduler.UnscheduleAllTabs()
			s.indicator.SetIcon(s.pausedIcon)
		} else {
			s.scheduler.ResetMaxExceededTime()
			s.indicator.SetIcon(s.icon)
		}
	})
	return nil
}

func (s *store) setMinutesInactive(value any) error {
	n, ok := parseInt(value)
	if !ok || n < 0 {
		return &InvalidSettingError{Key: KeyMinutesInactive, Value: value, Reason: "must be at least 0"}
	}
	s.setValue(KeyMinutesInactive, n)

	// every scheduled close time was computed from the old value
	s.scheduler.RescheduleAllTabs()
	return nil
}

func (s *store) setMinTabs(value any) error {
	n, ok := parseInt(value)
	if !ok || n < 1 {
		return &InvalidSettingError{Key: KeyMinTabs, Value: value, Reason: "must be a number greater than 0"}
	}
	old, hadOld := parseInt(s.cached(KeyMinTabs))
	s.setValue(KeyMinTabs, n)

	// a higher floor can invalidate closes that are already scheduled
	if hadOld && n > old {
		s.scheduler.UnscheduleAllTabs()
	}
	s.scheduler.ScheduleNextClose()
	return nil
}

func (s *store) setMaxExceededTime(value any) error {
	n, ok := parseInt(value)
	if !ok || n < 0 {
		return &InvalidSettingError{Key: KeyMaxExceededTime, Value: value, Reason: "must be at least 0"}
	}
	s.setValue(KeyMaxExceededTime, n)
	s.scheduler.RescheduleAllTabs()
	return nil
}

func (s *store) setShowBadgeCount(value any) error {
	show, ok := coerceBool(value)
	if !ok {
		return &InvalidSettingError{Key: KeyShowBadgeCount, Value: value, Reason: "must be a boolean"}
	}
	if !show {
		s.indicator.SetBadgeText("")
	}
	s.setValue(KeyShowBadgeCount, show)
	return nil
}

func (s *store) setWhitelist(value any) error {
	patterns, ok := coerceStrings(value)
	if !ok {
		return &InvalidSettingError{Key: KeyWhitelist, Value: value, Reason: "must be a list of strings"}
	}
	s.setValue(KeyWhitelist, patterns)

	// membership decides which tabs may be scheduled at all
	s.scheduler.RescheduleAllTabs()
	return nil
}

func (s *store) setCountPerWindow(value any) error {
	perWindow, ok := coerceBool(value)
	if !ok {
		return &InvalidSettingError{Key: KeyCountPerWindow, Value: value, Reason: "must be a boolean"}
	}
	s.setValue(KeyCountPerWindow, perWindow)
	s.scheduler.RescheduleAllTabs()
	return nil
}
