package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mastoarchiver/pkg/archive"
	"mastoarchiver/pkg/auth"
	"mastoarchiver/pkg/config"
	"mastoarchiver/pkg/ledger"
	"mastoarchiver/pkg/logger"
	"mastoarchiver/pkg/mastodon"
	"mastoarchiver/pkg/storage"
)

var (
	// Run command flags
	baseURL    string
	archiveDir string
	concurrent int
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Archive new favourites and bookmarks",
	Long: `Fetch favourites and bookmarks added since the last run and archive
them locally.

The access token is resolved in order from:
  - The MASTODON_ACCESS_TOKEN environment variable
  - The configuration file
  - Stored credentials (use 'mastoarchiver auth login' to store)

The command is idempotent: running it again immediately archives
nothing. It is intended to be scheduled from cron.`,
	Example: `  # Archive using environment configuration
  MASTODON_BASE_URL=https://mastodon.social \
  MASTODON_ACCESS_TOKEN=... \
  mastoarchiver run

  # Archive into a specific directory
  mastoarchiver run --archive-dir ~/mastodon-archive

  # Typical crontab entry, every 6 hours
  0 */6 * * * /usr/local/bin/mastoarchiver run --archive-dir /srv/archive`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		runArchive(cmd, args)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&baseURL, "base-url", "", "Mastodon instance URL (e.g. https://mastodon.social)")
	runCmd.Flags().StringVarP(&archiveDir, "archive-dir", "d", "", "root directory of the archive")
	runCmd.Flags().IntVar(&concurrent, "concurrent", 0, "number of concurrent media downloads")
}

func runArchive(cmd *cobra.Command, args []string) {
	// Build flags map from command line
	flags := make(map[string]interface{})
	if baseURL != "" {
		flags["base-url"] = baseURL
	}
	if archiveDir != "" {
		flags["archive-dir"] = archiveDir
	}
	if concurrent > 0 {
		flags["concurrent"] = concurrent
	}
	if logLevel != "" {
		flags["log-level"] = logLevel
	}

	resolveStoredToken(flags)

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load configuration:", err)
		os.Exit(1)
	}

	store, err := storage.NewManager(cfg.Archive.RootDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to set up archive directory:", err)
		os.Exit(1)
	}

	// Default the log file into the archive so cron output is self-contained
	if cfg.Logging.File == "" {
		cfg.Logging.File = store.LogPath()
	}
	if err := logger.Initialize(&cfg.Logging); err != nil {
		fmt.Fprintln(os.Stderr, "Failed to initialize logger:", err)
		os.Exit(1)
	}
	log := logger.GetLogger()
	log.WithField("version", version).Info("mastoarchiver starting")

	ldg, err := ledger.Open(store.LedgerPath())
	if err != nil {
		log.ErrorWithFields("failed to open ledger", map[string]interface{}{
			"path":  store.LedgerPath(),
			"error": err.Error(),
		})
		os.Exit(1)
	}
	defer ldg.Close()

	client := mastodon.NewClient(
		cfg.Mastodon.BaseURL,
		cfg.Mastodon.AccessToken,
		cfg.Mastodon.UserAgent,
		cfg.Download.DownloadTimeout,
		log,
	)

	engine := archive.New(cfg, client, ldg, store, log)

	summary, err := engine.Run()
	if err != nil {
		log.WithError(err).Error("archival run failed")
		os.Exit(1)
	}

	// Failed posts stay uncommitted and are retried next run; a completed
	// run exits zero either way so cron does not flag routine hiccups
	for _, result := range summary.Results {
		fmt.Printf("%s: %d archived, %d failed\n", result.Category, result.Archived, result.Failed)
	}
}

// resolveStoredToken fills in the access token from the credential stores
// when neither the environment, the config file nor the flags carry one
func resolveStoredToken(flags map[string]interface{}) {
	probe := config.DefaultConfig()
	_ = probe.LoadFromFile(configFile)
	_ = probe.LoadFromEnv()
	probe.MergeCommandLineFlags(flags)

	if probe.Mastodon.AccessToken != "" {
		return
	}

	manager, err := auth.NewManager()
	if err != nil {
		return
	}

	cred, err := manager.Retrieve(probe.Mastodon.BaseURL)
	if err != nil {
		return
	}
	flags["access-token"] = cred.AccessToken
	if probe.Mastodon.BaseURL == "" {
		flags["base-url"] = "https://" + cred.Instance
	}
}
