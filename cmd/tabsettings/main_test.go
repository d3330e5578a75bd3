package main

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/unkn0wn-root/tabsettings"
)

type cli struct {
	t    *testing.T
	base []string
}

func newCLI(t *testing.T, extra ...string) *cli {
	t.Helper()
	db := filepath.Join(t.TempDir(), "settings.db")
	base := []string{
		"--db", db,
		"--redis", "",
		"--namespace", "test",
		"--codec", "json",
		"--local", "sqlite",
		"--logger", "slog",
	}
	return &cli{t: t, base: append(base, extra...)}
}

func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(append(append([]string{}, c.base...), args...))
	defer rootCmd.SetArgs(nil)
	err := rootCmd.Execute()
	return out.String(), err
}

func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	if err != nil {
		c.t.Fatalf("%v: %v", args, err)
	}
	return out
}

func TestSetThenGetAcrossRuns(t *testing.T) {
	c := newCLI(t)
	if out := c.mustRun("set", "minTabs", "7"); out != "minTabs=7\n" {
		t.Fatalf("set output=%q", out)
	}
	if out := c.mustRun("get", "minTabs", "stayOpen"); out != "minTabs=7\nstayOpen=1200000\n" {
		t.Fatalf("get output=%q", out)
	}
}

func TestGetAllPrintsDefaults(t *testing.T) {
	c := newCLI(t)
	want := "minutesInactive=20\nminTabs=5\nmaxExceededTime=5\npurgeClosedTabs=false\n" +
		"showBadgeCount=true\nremoveCorralDupes=true\ncountPerWindow=true\nwhitelist=\n" +
		"enableSync=true\npaused=false\nstayOpen=1200000\nmaxExceededTimeMilliseconds=300000\n"
	if out := c.mustRun("get"); out != want {
		t.Fatalf("get output=%q", out)
	}
}

func TestSetRejectsInvalid(t *testing.T) {
	c := newCLI(t)
	if _, err := c.run("set", "minTabs", "0"); !errors.Is(err, tabsettings.ErrInvalidSetting) {
		t.Fatalf("err=%v", err)
	}
	if _, err := c.run("set", "stayOpen", "1"); !errors.Is(err, tabsettings.ErrUnknownKey) {
		t.Fatalf("err=%v", err)
	}
	if _, err := c.run("get", "nope"); !errors.Is(err, tabsettings.ErrUnknownKey) {
		t.Fatalf("err=%v", err)
	}
}

func TestWhitelistCommands(t *testing.T) {
	c := newCLI(t)
	c.mustRun("whitelist", "add", "a.com")
	c.mustRun("whitelist", "add", "b.com")
	c.mustRun("whitelist", "rm", "0")
	if out := c.mustRun("whitelist", "ls"); out != "0\tb.com\n" {
		t.Fatalf("ls=%q", out)
	}
	if _, err := c.run("whitelist", "rm", "3"); !errors.Is(err, tabsettings.ErrIndexOutOfRange) {
		t.Fatalf("err=%v", err)
	}
}

func TestSyncOffKeepsSeparateTables(t *testing.T) {
	c := newCLI(t)
	c.mustRun("set", "minTabs", "7")
	c.mustRun("sync", "off")
	c.mustRun("set", "minTabs", "3")
	if out := c.mustRun("get", "minTabs", "enableSync"); out != "minTabs=3\nenableSync=false\n" {
		t.Fatalf("sync off: %q", out)
	}
	c.mustRun("sync", "on")
	if out := c.mustRun("get", "minTabs"); out != "minTabs=7\n" {
		t.Fatalf("sync on should read the shared table again: %q", out)
	}
	if _, err := c.run("sync", "maybe"); err == nil {
		t.Fatalf("expected invalid arg error")
	}
}

func TestPauseResume(t *testing.T) {
	c := newCLI(t)
	c.mustRun("pause")
	if out := c.mustRun("get", "paused"); out != "paused=true\n" {
		t.Fatalf("pause: %q", out)
	}
	c.mustRun("resume")
	if out := c.mustRun("get", "paused"); out != "paused=false\n" {
		t.Fatalf("resume: %q", out)
	}
}

func TestCodecsAndLocalTiers(t *testing.T) {
	for _, tc := range [][]string{
		{"--codec", "cbor", "--local", "ristretto"},
		{"--codec", "msgpack", "--local", "bigcache"},
		{"--codec", "proto", "--logger", "zap"},
		{"--codec", "json", "--logger", "logrus"},
	} {
		c := newCLI(t, tc...)
		c.mustRun("set", "whitelist", "x.org,y.org")
		c.mustRun("set", "minutesInactive", "45")
		if out := c.mustRun("get", "whitelist", "minutesInactive"); out != "whitelist=x.org,y.org\nminutesInactive=45\n" {
			t.Fatalf("%v: %q", tc, out)
		}
	}
}

func TestUnknownFlagValues(t *testing.T) {
	for _, tc := range [][]string{
		{"--codec", "xml"},
		{"--local", "tape"},
		{"--logger", "print"},
	} {
		c := newCLI(t, tc...)
		if _, err := c.run("get"); err == nil {
			t.Fatalf("%v: expected error", tc)
		}
	}
}
