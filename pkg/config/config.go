// Package config loads tandem settings from the config file, TANDEM_*
// environment variables and flags through viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/viper"
	"github.com/stefanpenner/tandem/pkg/store"
)

// EnvPrefix is prepended to every environment override, e.g. TANDEM_STORAGE_BACKEND.
const EnvPrefix = "TANDEM"

// Config is the full set of tandem settings.
type Config struct {
	DataDir string        `mapstructure:"data_dir"`
	Storage StorageConfig `mapstructure:"storage"`
	Logging LoggingConfig `mapstructure:"logging"`
	TUI     TUIConfig     `mapstructure:"tui"`
	Roadmap RoadmapConfig `mapstructure:"roadmap"`
}

// StorageConfig selects where the basket snapshot lives.
type StorageConfig struct {
	Backend string `mapstructure:"backend"`
	Key     string `mapstructure:"key"`
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TUIConfig controls the terminal UI.
type TUIConfig struct {
	Watch bool `mapstructure:"watch"`
}

// RoadmapConfig controls roadmap export.
type RoadmapConfig struct {
	Dir string `mapstructure:"dir"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{Backend: store.BackendFile, Key: "goalBasket"},
		Logging: LoggingConfig{Level: "info", Format: "console"},
		TUI:     TUIConfig{Watch: true},
	}
}

// SetDefaults registers the built-in settings with v.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("data_dir", d.DataDir)
	v.SetDefault("storage.backend", d.Storage.Backend)
	v.SetDefault("storage.key", d.Storage.Key)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("tui.watch", d.TUI.Watch)
	v.SetDefault("roadmap.dir", d.Roadmap.Dir)
}

// Init prepares v: defaults, the config file (cfgFile if set, otherwise
// config.yaml in Dir()) and environment overrides. A missing config file is
// not an error.
func Init(v *viper.Viper, cfgFile string) error {
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(Dir())
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

// Load unmarshals and validates the settings held by v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, errs
	}
	return &cfg, nil
}

// ValidLogLevels lists the accepted logging.level values.
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// ValidLogFormats lists the accepted logging.format values.
func ValidLogFormats() []string {
	return []string{"console", "json"}
}

// ValidBackends lists the accepted storage.backend values.
func ValidBackends() []string {
	return []string{store.BackendFile, store.BackendSQLite, store.BackendMemory}
}

// Validate returns every problem found in c.
func (c *Config) Validate() store.ValidationErrors {
	var errs store.ValidationErrors

	if !slices.Contains(ValidBackends(), c.Storage.Backend) {
		errs = append(errs, store.ValidationError{
			Field:   "storage.backend",
			Value:   c.Storage.Backend,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidBackends(), ", ")),
		})
	}
	if err := store.CheckKey(c.Storage.Key); err != nil {
		errs = append(errs, store.ValidationError{
			Field:   "storage.key",
			Value:   c.Storage.Key,
			Message: "must start with a letter or digit and contain only letters, digits, '.', '_' or '-'",
		})
	}
	if !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errs = append(errs, store.ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}
	if !slices.Contains(ValidLogFormats(), strings.ToLower(c.Logging.Format)) {
		errs = append(errs, store.ValidationError{
			Field:   "logging.format",
			Value:   c.Logging.Format,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogFormats(), ", ")),
		})
	}
	return errs
}

// ResolvedDataDir applies TANDEM_DIR and the OS default to DataDir.
func (c *Config) ResolvedDataDir() string {
	return store.ResolveDataDir(c.DataDir)
}

// RoadmapDir is where roadmaps are exported: roadmap.dir, or <data dir>/roadmap.
func (c *Config) RoadmapDir() string {
	if c.Roadmap.Dir != "" {
		return c.Roadmap.Dir
	}
	return filepath.Join(c.ResolvedDataDir(), "roadmap")
}

// Dir returns the tandem config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "tandem")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tandem"
	}
	return filepath.Join(home, ".config", "tandem")
}
