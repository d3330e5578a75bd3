package sloghooks

import (
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/tabsettings"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	IgnoredEvery  uint64
	RejectedEvery uint64
	// Optional value redactor for rejected settings. Whitelist patterns can
	// carry private hostnames; defaults to dropping the value.
	Redact func(tabsettings.Key, any) any
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	ignoredCtr  atomic.Uint64
	rejectedCtr atomic.Uint64
}

var _ tabsettings.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) PersistFailed(err *tabsettings.PersistError) {
	if h.l == nil || err == nil {
		return
	}
	h.l.Warn("tabsettings.persist_failed",
		"area", string(err.Area),
		"keys", err.Keys,
		"err", err.Err)
}

func (h *Hooks) ExternalChangeIgnored(area string, keys int, reason string) {
	if h.l == nil || !sample(h.opts.IgnoredEvery, &h.ignoredCtr) {
		return
	}
	h.l.Debug("tabsettings.external_change_ignored",
		"area", area,
		"keys", keys,
		"reason", reason)
}

func (h *Hooks) SettingRejected(key tabsettings.Key, err error) {
	if h.l == nil || !sample(h.opts.RejectedEvery, &h.rejectedCtr) {
		return
	}
	h.l.Info("tabsettings.setting_rejected",
		"key", string(key),
		"err", h.errText(key, err))
}

func (h *Hooks) SyncToggled(enabled bool) {
	if h.l == nil {
		return
	}
	h.l.Info("tabsettings.sync_toggled", "enabled", enabled)
}

// errText keeps the rejected value out of logs unless Redact says otherwise.
func (h *Hooks) errText(key tabsettings.Key, err error) string {
	var inv *tabsettings.InvalidSettingError
	if !errors.As(err, &inv) {
		if err == nil {
			return ""
		}
		return err.Error()
	}
	red := *inv
	if h.opts.Redact != nil {
		red.Value = h.opts.Redact(key, inv.Value)
	} else {
		red.Value = "<redacted>"
	}
	return red.Error()
}
