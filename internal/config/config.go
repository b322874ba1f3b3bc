// Package config provides configuration types and defaults for armature.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ehartline/armature/internal/log"
)

// Config holds all configuration options for armature.
type Config struct {
	Namespace NamespaceConfig `mapstructure:"namespace"`
	UI        UIConfig        `mapstructure:"ui"`
	Nav       NavConfig       `mapstructure:"nav"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
	Watch     WatchConfig     `mapstructure:"watch"`
}

// NamespaceConfig holds registry settings.
type NamespaceConfig struct {
	// Root is the name of the registry's root container. All
	// fully-qualified paths start with it. Must be a single segment
	// (no dots).
	Root string `mapstructure:"root"`
}

// UIConfig holds user interface configuration options.
type UIConfig struct {
	ShowStatusBar bool   `mapstructure:"show_status_bar"`
	MarkdownStyle string `mapstructure:"markdown_style"` // "dark" (default) or "light"
}

// NavConfig holds navigation rail configuration.
type NavConfig struct {
	// Breakpoint is the terminal width below which the rail
	// auto-collapses to icons.
	Breakpoint int `mapstructure:"breakpoint"`

	// StartCollapsed starts the rail collapsed regardless of width.
	StartCollapsed bool `mapstructure:"start_collapsed"`

	// Items are the rail entries, in display order.
	Items []NavItemConfig `mapstructure:"items"`
}

// NavItemConfig defines a single navigation rail entry.
type NavItemConfig struct {
	ID    string `mapstructure:"id"`    // screen identifier, e.g. "home"
	Label string `mapstructure:"label"` // text shown when expanded
	Icon  string `mapstructure:"icon"`  // glyph shown when collapsed
}

// AnalyticsConfig holds the usage tracker configuration.
type AnalyticsConfig struct {
	// Enabled controls whether usage tracking is active.
	// Default: false
	Enabled bool `mapstructure:"enabled"`

	// Domain identifies the deployment the events belong to.
	// Required when enabled.
	Domain string `mapstructure:"domain"`

	// AccountID is the numeric account the events are billed to.
	AccountID int64 `mapstructure:"account_id"`

	// Exporter selects the event export backend.
	// Options: "none", "file", "stdout", "otlp"
	// Default: "file"
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output file for the "file" exporter.
	// Default: ~/.config/armature/analytics/events.jsonl
	FilePath string `mapstructure:"file_path"`

	// OTLPEndpoint is the collector endpoint for the "otlp" exporter.
	// Default: "localhost:4317"
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate controls event sampling (0.0 to 1.0).
	// 1.0 = all events, 0.1 = 10% of events
	// Default: 1.0
	SampleRate float64 `mapstructure:"sample_rate"`
}

// WatchConfig holds config file watcher settings.
type WatchConfig struct {
	// Enabled controls whether the config file is watched for live
	// reloads. Default: true
	Enabled bool `mapstructure:"enabled"`

	// DebounceMS coalesces bursts of file events into one reload.
	// Default: 250
	DebounceMS int `mapstructure:"debounce_ms"`
}

// Debounce returns the debounce window as a duration.
func (w WatchConfig) Debounce() time.Duration {
	return time.Duration(w.DebounceMS) * time.Millisecond
}

// DefaultAnalyticsFilePath returns the default path for analytics file export.
// Returns ~/.config/armature/analytics/events.jsonl or empty string if home dir unavailable.
func DefaultAnalyticsFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "armature", "analytics", "events.jsonl")
}

// DefaultNavItems returns the default navigation rail entries.
func DefaultNavItems() []NavItemConfig {
	return []NavItemConfig{
		{ID: "home", Label: "Home", Icon: "⌂"},
		{ID: "search", Label: "Search", Icon: "⌕"},
	}
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Namespace: NamespaceConfig{
			Root: "app",
		},
		UI: UIConfig{
			ShowStatusBar: true,
			MarkdownStyle: "dark",
		},
		Nav: NavConfig{
			Breakpoint:     80,
			StartCollapsed: false,
			Items:          DefaultNavItems(),
		},
		Analytics: AnalyticsConfig{
			Enabled:      false,
			Domain:       "",
			AccountID:    0,
			Exporter:     "file",
			FilePath:     "", // Derived from config dir at runtime
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
		Watch: WatchConfig{
			Enabled:    true,
			DebounceMS: 250,
		},
	}
}

// Validate checks the whole configuration for errors.
func Validate(cfg Config) error {
	if err := ValidateNamespace(cfg.Namespace); err != nil {
		return err
	}
	if err := ValidateUI(cfg.UI); err != nil {
		return err
	}
	if err := ValidateNav(cfg.Nav); err != nil {
		return err
	}
	if err := ValidateAnalytics(cfg.Analytics); err != nil {
		return err
	}
	if err := ValidateWatch(cfg.Watch); err != nil {
		return err
	}
	return nil
}

// ValidateNamespace checks registry settings for errors.
// Returns nil if the root is empty (will use defaults).
func ValidateNamespace(ns NamespaceConfig) error {
	if ns.Root == "" {
		return nil // Will use defaults
	}
	for _, r := range ns.Root {
		if r == '.' {
			return fmt.Errorf("namespace.root must be a single segment (no dots), got %q", ns.Root)
		}
	}
	return nil
}

// ValidateUI checks UI settings for errors.
func ValidateUI(ui UIConfig) error {
	switch ui.MarkdownStyle {
	case "", "dark", "light":
		return nil
	default:
		return fmt.Errorf("ui.markdown_style must be \"dark\" or \"light\", got %q", ui.MarkdownStyle)
	}
}

// ValidateNav checks navigation rail settings for errors.
// Returns nil if items are empty (will use defaults).
func ValidateNav(nav NavConfig) error {
	if nav.Breakpoint < 0 {
		return fmt.Errorf("nav.breakpoint must be >= 0, got %d", nav.Breakpoint)
	}

	seen := make(map[string]bool, len(nav.Items))
	for i, item := range nav.Items {
		if item.ID == "" {
			return fmt.Errorf("nav item %d: id is required", i)
		}
		if item.Label == "" {
			return fmt.Errorf("nav item %d (%s): label is required", i, item.ID)
		}
		if seen[item.ID] {
			return fmt.Errorf("nav item %d: duplicate id %q", i, item.ID)
		}
		seen[item.ID] = true
	}
	return nil
}

// ValidateAnalytics checks usage tracker settings for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateAnalytics(a AnalyticsConfig) error {
	// Validate SampleRate is in range [0.0, 1.0]
	if a.SampleRate < 0.0 || a.SampleRate > 1.0 {
		return fmt.Errorf("analytics.sample_rate must be between 0.0 and 1.0, got %v", a.SampleRate)
	}

	// Validate Exporter is a valid option
	if a.Exporter != "" {
		switch a.Exporter {
		case "none", "file", "stdout", "otlp":
			// Valid
		default:
			return fmt.Errorf("analytics.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", a.Exporter)
		}
	}

	if a.AccountID < 0 {
		return fmt.Errorf("analytics.account_id must be >= 0, got %d", a.AccountID)
	}

	// Only validate wiring requirements when tracking is enabled
	if a.Enabled {
		if a.Domain == "" {
			return fmt.Errorf("analytics.domain is required when analytics is enabled")
		}
		if a.Exporter == "otlp" && a.OTLPEndpoint == "" {
			return fmt.Errorf("analytics.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}

	return nil
}

// ValidateWatch checks watcher settings for errors.
func ValidateWatch(w WatchConfig) error {
	if w.DebounceMS < 0 {
		return fmt.Errorf("watch.debounce_ms must be >= 0, got %d", w.DebounceMS)
	}
	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Armature Configuration

# Namespace registry settings
namespace:
  root: app    # Root container name; fully-qualified paths start with it

# UI settings
ui:
  show_status_bar: true   # Show status bar at bottom
  # markdown_style: dark  # Markdown rendering style: "dark" (default) or "light"

# Navigation rail
nav:
  breakpoint: 80          # Collapse to icons below this terminal width
  start_collapsed: false  # Start collapsed regardless of width
  items:
    - id: home
      label: Home
      icon: "⌂"
    - id: search
      label: Search
      icon: "⌕"

# Usage analytics
# Events are recorded as spans and exported through the configured backend.
analytics:
  enabled: false           # Enable/disable usage tracking (default: false)
  # domain: example.org    # Deployment identifier (required when enabled)
  # account_id: 183623246  # Numeric account id attached to every event
  # exporter: file         # Export backend: none, file, stdout, otlp (default: file)
  # file_path: ~/.config/armature/analytics/events.jsonl  # Output file for file exporter
  # otlp_endpoint: localhost:4317  # OTLP collector endpoint (for otlp exporter)
  # sample_rate: 1.0       # Event sampling rate 0.0-1.0 (default: 1.0)
  #
  # Example: track usage for a deployment into a local file
  # analytics:
  #   enabled: true
  #   domain: example.org
  #   account_id: 183623246
  #   exporter: file

# Config file watching
watch:
  enabled: true      # Reload the config live when the file changes
  debounce_ms: 250   # Coalesce bursts of file events into one reload
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	// Create parent directory if needed
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	// Write the template
	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
