package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mastoarchiver",
	Short: "Incremental archiver for Mastodon favourites and bookmarks",
	Long: `mastoarchiver keeps a local, self-contained archive of the posts you
have favourited or bookmarked on Mastodon.

Each run fetches only the posts added since the previous run, downloads
their media and writes one JSON record per post. A sqlite ledger keeps
runs idempotent, so the tool is safe to schedule from cron as often as
you like.

Features:
  - Incremental sync with a persistent dedup ledger
  - Media downloads with retry and rate limiting
  - Secure token storage using the system keychain
  - Survives interrupted runs without losing or duplicating posts`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is .mastoarchiver.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.SetVersionTemplate(`mastoarchiver {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
