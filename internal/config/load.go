package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// LocalConfigPath is the project-local config file, checked before the
// user config.
const LocalConfigPath = ".armature/config.yaml"

// UserConfigPath returns the user-level config file,
// ~/.config/armature/config.yaml. Empty when the home directory is
// unavailable.
func UserConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "armature", "config.yaml")
}

// Resolve picks the config file to load. An explicit path wins; then
// the project-local file, then the user config. ok is false when none
// of them exists.
func Resolve(explicit string) (path string, ok bool) {
	if explicit != "" {
		return explicit, true
	}
	if _, err := os.Stat(LocalConfigPath); err == nil {
		return LocalConfigPath, true
	}
	if user := UserConfigPath(); user != "" {
		if _, err := os.Stat(user); err == nil {
			return user, true
		}
	}
	return LocalConfigPath, false
}

// Load reads the YAML file at path into a Config. Defaults fill unset
// keys and the result is validated. The watcher's reload path uses
// this too, so it builds a fresh viper instance every call.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if len(cfg.Nav.Items) == 0 {
		cfg.Nav.Items = DefaultNavItems()
	}
	if cfg.Namespace.Root == "" {
		cfg.Namespace.Root = Defaults().Namespace.Root
	}
	if err := Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("validating config %s: %w", path, err)
	}
	return cfg, nil
}

// setDefaults seeds a viper instance with the Defaults() values so a
// sparse config file still unmarshals to a complete Config. Nav items
// are defaulted after unmarshal; slice defaults do not merge well.
func setDefaults(v *viper.Viper) {
	defaults := Defaults()
	v.SetDefault("namespace.root", defaults.Namespace.Root)
	v.SetDefault("ui.show_status_bar", defaults.UI.ShowStatusBar)
	v.SetDefault("ui.markdown_style", defaults.UI.MarkdownStyle)
	v.SetDefault("nav.breakpoint", defaults.Nav.Breakpoint)
	v.SetDefault("nav.start_collapsed", defaults.Nav.StartCollapsed)
	v.SetDefault("analytics.enabled", defaults.Analytics.Enabled)
	v.SetDefault("analytics.exporter", defaults.Analytics.Exporter)
	v.SetDefault("analytics.otlp_endpoint", defaults.Analytics.OTLPEndpoint)
	v.SetDefault("analytics.sample_rate", defaults.Analytics.SampleRate)
	v.SetDefault("watch.enabled", defaults.Watch.Enabled)
	v.SetDefault("watch.debounce_ms", defaults.Watch.DebounceMS)
}
