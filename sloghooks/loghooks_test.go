package sloghooks

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/unkn0wn-root/tabsettings"
	"github.com/unkn0wn-root/tabsettings/storage"
)

func newLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestSettingRejected_RedactsValue(t *testing.T) {
	var buf bytes.Buffer
	h := New(newLogger(&buf), Options{})

	h.SettingRejected(tabsettings.KeyWhitelist, &tabsettings.InvalidSettingError{
		Key: tabsettings.KeyWhitelist, Value: "intranet.corp", Reason: "must be a list of strings",
	})
	out := buf.String()
	if strings.Contains(out, "intranet.corp") {
		t.Fatalf("value leaked: %s", out)
	}
	if !strings.Contains(out, "<redacted>") || !strings.Contains(out, "key=whitelist") {
		t.Fatalf("unexpected log: %s", out)
	}
}

func TestSettingRejected_CustomRedact(t *testing.T) {
	var buf bytes.Buffer
	h := New(newLogger(&buf), Options{Redact: func(_ tabsettings.Key, v any) any { return v }})

	h.SettingRejected(tabsettings.KeyMinTabs, &tabsettings.InvalidSettingError{
		Key: tabsettings.KeyMinTabs, Value: "0", Reason: "must be a number greater than 0",
	})
	if !strings.Contains(buf.String(), `\"0\"`) {
		t.Fatalf("want raw value kept: %s", buf.String())
	}
}

func TestExternalChangeIgnored_Sampled(t *testing.T) {
	var buf bytes.Buffer
	h := New(newLogger(&buf), Options{IgnoredEvery: 3})
	for i := 0; i < 9; i++ {
		h.ExternalChangeIgnored("local", 1, "local_area")
	}
	if n := strings.Count(buf.String(), "external_change_ignored"); n != 3 {
		t.Fatalf("logged %d times, want 3", n)
	}
}

func TestPersistFailed_Logs(t *testing.T) {
	var buf bytes.Buffer
	h := New(newLogger(&buf), Options{})
	h.PersistFailed(&tabsettings.PersistError{Area: storage.Shared, Keys: []string{"minTabs"}, Err: errors.New("quota")})
	h.PersistFailed(nil)

	out := buf.String()
	if strings.Count(out, "persist_failed") != 1 || !strings.Contains(out, "err=quota") {
		t.Fatalf("unexpected log: %s", out)
	}
}

func TestNilLogger(t *testing.T) {
	h := New(nil, Options{})
	h.SyncToggled(true)
	h.SettingRejected(tabsettings.KeyMinTabs, nil)
}
