package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"mastoarchiver/pkg/config"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage mastoarchiver configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables
  - Configuration file
  - Default values (lowest priority)`,
}

// configInitCmd represents the config init command
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with all available options.

The file is created as '.mastoarchiver.yaml' in the current directory
unless a different path is given with the --config flag.`,
	Run: runConfigInit,
}

// configShowCmd represents the config show command
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Show the effective configuration merged from all sources.

The access token is masked.`,
	Run: runConfigShow,
}

// configValidateCmd represents the config validate command
var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	Run:   runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) {
	path := configFile
	if path == "" {
		path = ".mastoarchiver.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		fmt.Fprintf(os.Stderr, "Config file already exists: %s\n", path)
		os.Exit(1)
	}

	cfg := config.DefaultConfig()
	cfg.Mastodon.BaseURL = "https://mastodon.social"
	cfg.Archive.RootDir = "~/mastodon-archive"

	data, err := yaml.Marshal(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to generate config:", err)
		os.Exit(1)
	}

	header := []byte("# mastoarchiver configuration\n" +
		"# Put the access token in MASTODON_ACCESS_TOKEN or the keychain\n" +
		"# rather than in this file.\n\n")
	if err := os.WriteFile(path, append(header, data...), 0600); err != nil {
		fmt.Fprintln(os.Stderr, "Failed to write config file:", err)
		os.Exit(1)
	}

	fmt.Println("Created", path)
}

func runConfigShow(cmd *cobra.Command, args []string) {
	cfg := config.DefaultConfig()
	if err := cfg.LoadFromFile(configFile); err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load config file:", err)
		os.Exit(1)
	}
	if err := cfg.LoadFromEnv(); err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load environment:", err)
		os.Exit(1)
	}

	if cfg.Mastodon.AccessToken != "" {
		cfg.Mastodon.AccessToken = "****"
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to render config:", err)
		os.Exit(1)
	}
	os.Stdout.Write(data)
}

func runConfigValidate(cmd *cobra.Command, args []string) {
	if _, err := config.Load(configFile, nil); err != nil {
		fmt.Fprintln(os.Stderr, "Configuration invalid:", err)
		os.Exit(1)
	}
	fmt.Println("Configuration is valid")
}
