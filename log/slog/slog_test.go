//go:build go1.21

package slog

import (
	"bytes"
	stdslog "log/slog"
	"strings"
	"testing"

	"github.com/unkn0wn-root/tabsettings"
)

func TestLogger_SortedAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := stdslog.NewTextHandler(&buf, &stdslog.HandlerOptions{
		Level: stdslog.LevelDebug,
		ReplaceAttr: func(_ []string, a stdslog.Attr) stdslog.Attr {
			if a.Key == stdslog.TimeKey {
				return stdslog.Attr{}
			}
			return a
		},
	})
	l := Logger{L: stdslog.New(h)}

	l.Debug("setting updated", tabsettings.Fields{"key": "minTabs", "area": "shared"})

	got := strings.TrimSpace(buf.String())
	want := `level=DEBUG msg="setting updated" area=shared key=minTabs`
	if got != want {
		t.Fatalf("got %q\nwant %q", got, want)
	}
}
