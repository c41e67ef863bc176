package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mastoarchiver/pkg/config"
	"mastoarchiver/pkg/ledger"
	"mastoarchiver/pkg/storage"
)

var statusArchiveDir string

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show archive statistics",
	Long: `Show how many posts the archive holds per category.

Only the local ledger is consulted; no network access is needed.`,
	Args: cobra.NoArgs,
	Run:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().StringVarP(&statusArchiveDir, "archive-dir", "d", "", "root directory of the archive")
}

func runStatus(cmd *cobra.Command, args []string) {
	cfg := config.DefaultConfig()
	if err := cfg.LoadFromFile(configFile); err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load config file:", err)
		os.Exit(1)
	}
	if err := cfg.LoadFromEnv(); err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load environment:", err)
		os.Exit(1)
	}
	if statusArchiveDir != "" {
		cfg.Archive.RootDir = statusArchiveDir
	}

	ledgerPath := storage.LedgerPathIn(cfg.Archive.RootDir)
	if _, err := os.Stat(ledgerPath); err != nil {
		fmt.Fprintf(os.Stderr, "No archive found at %s\n", cfg.Archive.RootDir)
		os.Exit(1)
	}

	ldg, err := ledger.Open(ledgerPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to open ledger:", err)
		os.Exit(1)
	}
	defer ldg.Close()

	fmt.Println("Archive:", cfg.Archive.RootDir)
	total := 0
	for _, category := range ledger.Categories {
		count, err := ldg.Count(category)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Failed to count posts:", err)
			os.Exit(1)
		}
		fmt.Printf("  %-10s %d\n", category+"s:", count)
		total += count
	}
	fmt.Printf("  %-10s %d\n", "total:", total)
}
