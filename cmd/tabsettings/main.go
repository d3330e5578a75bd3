package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "tabsettings",
	Short: "Inspect and change tab closing settings",
	Long: `Inspect and change tab closing settings.

Settings live in two tiers: a shared one (Redis when --redis is set) and a
local one on this machine. enableSync picks which tier the table is read from
and written to; enableSync and paused themselves always stay local.

Examples:
  tabsettings get
  tabsettings set minTabs 7
  tabsettings whitelist add example.com
  tabsettings --redis localhost:6379 watch`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
