package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/unkn0wn-root/tabsettings"
	"github.com/unkn0wn-root/tabsettings/storage"
)

const closeTimeout = 10 * time.Second

// withApp opens the store for one command and always closes it, so queued
// writes reach storage before the process exits.
func withApp(fn func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := openApp(ctx, cfg, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		runErr := fn(ctx, cmd, a, args)

		closeCtx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()
		return errors.Join(runErr, a.close(closeCtx))
	}
}

// readable keys in display order
func displayKeys() []tabsettings.Key {
	keys := tabsettings.Keys()
	return append(keys,
		tabsettings.KeyEnableSync,
		tabsettings.KeyPaused,
		tabsettings.KeyStayOpen,
		tabsettings.KeyMaxExceededTimeMilliseconds,
	)
}

func printValue(w io.Writer, key tabsettings.Key, v any) {
	switch t := v.(type) {
	case []string:
		fmt.Fprintf(w, "%s=%s\n", key, strings.Join(t, ","))
	case float64:
		fmt.Fprintf(w, "%s=%s\n", key, strconv.FormatFloat(t, 'f', -1, 64))
	default:
		fmt.Fprintf(w, "%s=%v\n", key, v)
	}
}

// --- get ---

var getCmd = &cobra.Command{
	Use:   "get [key...]",
	Short: "Print settings (all when no key is given)",
	RunE: withApp(func(_ context.Context, cmd *cobra.Command, a *app, args []string) error {
		keys := displayKeys()
		if len(args) > 0 {
			keys = keys[:0:0]
			for _, k := range args {
				keys = append(keys, tabsettings.Key(k))
			}
		}
		known := make(map[tabsettings.Key]bool)
		for _, k := range displayKeys() {
			known[k] = true
		}
		for _, k := range keys {
			if !known[k] {
				return fmt.Errorf("%w: %q", tabsettings.ErrUnknownKey, string(k))
			}
			printValue(cmd.OutOrStdout(), k, a.settings.Get(k))
		}
		return nil
	}),
}

// --- set ---

var setCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Long: `Change a setting.

Whitelists are comma separated. Numbers are parsed like the options page
does, so "20min" sets 20.

Examples:
  tabsettings set minutesInactive 30
  tabsettings set showBadgeCount false
  tabsettings set whitelist "mail.example.com,docs.example.com"`,
	Args: cobra.ExactArgs(2),
	RunE: withApp(func(_ context.Context, cmd *cobra.Command, a *app, args []string) error {
		key := tabsettings.Key(args[0])
		v, err := tabsettings.ParseValue(key, args[1])
		if err != nil {
			return err
		}
		if err := a.settings.Set(key, v); err != nil {
			return err
		}
		printValue(cmd.OutOrStdout(), key, a.settings.Get(key))
		return nil
	}),
}

// --- whitelist ---

var whitelistCmd = &cobra.Command{
	Use:   "whitelist",
	Short: "Manage URL patterns that are never closed",
}

var whitelistAddCmd = &cobra.Command{
	Use:   "add <pattern>",
	Short: "Append a pattern",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(_ context.Context, cmd *cobra.Command, a *app, args []string) error {
		return a.settings.AddWhitelistEntry(args[0])
	}),
}

var whitelistRmCmd = &cobra.Command{
	Use:     "rm <index>",
	Aliases: []string{"remove"},
	Short:   "Remove the pattern at index (see ls)",
	Args:    cobra.ExactArgs(1),
	RunE: withApp(func(_ context.Context, cmd *cobra.Command, a *app, args []string) error {
		i, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("index %q: %w", args[0], err)
		}
		return a.settings.RemoveWhitelistEntryByIndex(i)
	}),
}

var whitelistLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List patterns with their index",
	Args:  cobra.NoArgs,
	RunE: withApp(func(_ context.Context, cmd *cobra.Command, a *app, _ []string) error {
		for i, p := range a.settings.Strings(tabsettings.KeyWhitelist) {
			fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", i, p)
		}
		return nil
	}),
}

// --- sync / pause ---

var syncCmd = &cobra.Command{
	Use:       "sync <on|off>",
	Short:     "Read and write settings through the shared tier, or stop",
	ValidArgs: []string{"on", "off"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: withApp(func(_ context.Context, cmd *cobra.Command, a *app, args []string) error {
		return a.settings.Set(tabsettings.KeyEnableSync, args[0] == "on")
	}),
}

var pauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Stop closing tabs",
	Args:  cobra.NoArgs,
	RunE: withApp(func(_ context.Context, _ *cobra.Command, a *app, _ []string) error {
		return a.settings.Set(tabsettings.KeyPaused, true)
	}),
}

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Resume closing tabs",
	Args:  cobra.NoArgs,
	RunE: withApp(func(_ context.Context, _ *cobra.Command, a *app, _ []string) error {
		return a.settings.Set(tabsettings.KeyPaused, false)
	}),
}

// --- watch ---

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print setting changes as they arrive until interrupted",
	Long: `Print setting changes as they arrive until interrupted.

With --redis, changes written by other processes on the same namespace
are printed too.`,
	Args: cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app, _ []string) error {
		out := cmd.OutOrStdout()
		cancel := a.backend.Subscribe(func(changes map[string]storage.Change, area storage.Area) {
			keys := make([]string, 0, len(changes))
			for k := range changes {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				ch := changes[k]
				fmt.Fprintf(out, "%s %s: %v -> %v\n", area, k, ch.OldValue, ch.NewValue)
			}
		})
		defer cancel()
		<-ctx.Done()
		return nil
	}),
}

func init() {
	whitelistCmd.AddCommand(whitelistAddCmd)
	whitelistCmd.AddCommand(whitelistRmCmd)
	whitelistCmd.AddCommand(whitelistLsCmd)

	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(whitelistCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(pauseCmd)
	rootCmd.AddCommand(resumeCmd)
	rootCmd.AddCommand(watchCmd)
}
