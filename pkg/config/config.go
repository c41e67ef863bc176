package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the Mastodon archiver
type Config struct {
	// Mastodon instance and credentials
	Mastodon MastodonConfig `yaml:"mastodon" json:"mastodon"`

	// Archive storage settings
	Archive ArchiveConfig `yaml:"archive" json:"archive"`

	// Feed pagination settings
	Pagination PaginationConfig `yaml:"pagination" json:"pagination"`

	// Media download settings
	Download DownloadConfig `yaml:"download" json:"download"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// MastodonConfig holds instance URL and credentials
type MastodonConfig struct {
	BaseURL     string `yaml:"base_url" json:"base_url"`
	AccessToken string `yaml:"access_token" json:"access_token"`
	UserAgent   string `yaml:"user_agent" json:"user_agent"`
}

// ArchiveConfig holds the on-disk archive layout configuration
type ArchiveConfig struct {
	RootDir string `yaml:"root_dir" json:"root_dir"`
}

// PaginationConfig holds feed-walking configuration
type PaginationConfig struct {
	PageSize  int           `yaml:"page_size" json:"page_size"`
	MaxPages  int           `yaml:"max_pages" json:"max_pages"`
	PageDelay time.Duration `yaml:"page_delay" json:"page_delay"`
}

// DownloadConfig holds media download configuration
type DownloadConfig struct {
	ConcurrentDownloads int           `yaml:"concurrent_downloads" json:"concurrent_downloads"`
	DownloadTimeout     time.Duration `yaml:"download_timeout" json:"download_timeout"`
	RetryAttempts       int           `yaml:"retry_attempts" json:"retry_attempts"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Mastodon: MastodonConfig{
			UserAgent: "mastodon-personal-archiver/1.0",
		},
		Archive: ArchiveConfig{
			RootDir: "/archive",
		},
		Pagination: PaginationConfig{
			PageSize:  40, // max allowed by the Mastodon API
			MaxPages:  100,
			PageDelay: 500 * time.Millisecond,
		},
		Download: DownloadConfig{
			ConcurrentDownloads: 3,
			DownloadTimeout:     30 * time.Second,
			RetryAttempts:       3,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if baseURL := os.Getenv("MASTODON_BASE_URL"); baseURL != "" {
		c.Mastodon.BaseURL = baseURL
	}
	if token := os.Getenv("MASTODON_ACCESS_TOKEN"); token != "" {
		c.Mastodon.AccessToken = token
	}
	if userAgent := os.Getenv("MASTODON_USER_AGENT"); userAgent != "" {
		c.Mastodon.UserAgent = userAgent
	}

	if archiveDir := os.Getenv("ARCHIVE_DIR"); archiveDir != "" {
		c.Archive.RootDir = archiveDir
	}

	if pageSize := os.Getenv("MASTOARCH_PAGE_SIZE"); pageSize != "" {
		var val int
		fmt.Sscanf(pageSize, "%d", &val)
		if val > 0 {
			c.Pagination.PageSize = val
		}
	}

	if concurrent := os.Getenv("MASTOARCH_CONCURRENT_DOWNLOADS"); concurrent != "" {
		var val int
		fmt.Sscanf(concurrent, "%d", &val)
		if val > 0 {
			c.Download.ConcurrentDownloads = val
		}
	}

	if logLevel := os.Getenv("MASTOARCH_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	locations := []string{
		".mastoarchiver.yaml",
		".mastoarchiver.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "mastoarchiver", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "mastoarchiver", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".mastoarchiver.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Mastodon.BaseURL == "" {
		errs = append(errs, errors.New("Mastodon base URL is required"))
	}
	if c.Mastodon.AccessToken == "" {
		errs = append(errs, errors.New("Mastodon access token is required"))
	}

	if c.Archive.RootDir == "" {
		errs = append(errs, errors.New("archive root directory is required"))
	}

	if c.Pagination.PageSize <= 0 {
		errs = append(errs, errors.New("page size must be positive"))
	}
	if c.Pagination.PageSize > 40 {
		errs = append(errs, errors.New("page size cannot exceed 40"))
	}
	if c.Pagination.MaxPages <= 0 {
		errs = append(errs, errors.New("max pages must be positive"))
	}

	if c.Download.ConcurrentDownloads <= 0 {
		errs = append(errs, errors.New("concurrent downloads must be positive"))
	}
	if c.Download.ConcurrentDownloads > 10 {
		errs = append(errs, errors.New("concurrent downloads should not exceed 10"))
	}
	if c.Download.DownloadTimeout <= 0 {
		errs = append(errs, errors.New("download timeout must be positive"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if baseURL, ok := flags["base-url"].(string); ok && baseURL != "" {
		c.Mastodon.BaseURL = baseURL
	}
	if token, ok := flags["access-token"].(string); ok && token != "" {
		c.Mastodon.AccessToken = token
	}
	if archiveDir, ok := flags["archive-dir"].(string); ok && archiveDir != "" {
		c.Archive.RootDir = archiveDir
	}
	if concurrent, ok := flags["concurrent"].(int); ok && concurrent > 0 {
		c.Download.ConcurrentDownloads = concurrent
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence.
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".mastoarchiver.env"))

	// Start with defaults
	config := DefaultConfig()

	// Load from config file
	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	// Override with environment variables (includes values from .env)
	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Override with command line flags
	config.MergeCommandLineFlags(flags)

	// Validate final configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
