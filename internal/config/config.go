// Package config loads patchdash settings from defaults, an optional config file,
// PATCHDASH_* environment variables and command-line flags, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is the environment variable prefix.
const EnvPrefix = "PATCHDASH"

// ConfigName is the config file name without extension.
const ConfigName = "patchdash"

// Config is the resolved configuration.
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	DB      DBConfig      `mapstructure:"db"`
	Log     LogConfig     `mapstructure:"log"`
	UI      UIConfig      `mapstructure:"ui"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

type APIConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	File        string `mapstructure:"file"`
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

type UIConfig struct {
	Locale  string `mapstructure:"locale"`
	Refresh string `mapstructure:"refresh"`
	Day     int    `mapstructure:"day"`
}

type CacheConfig struct {
	BestHourTTL time.Duration `mapstructure:"best_hour_ttl"`
}

type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// Dir returns the per-user patchdash directory.
func Dir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".patchdash")
}

// New returns a viper instance with defaults, env binding and the search path configured.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("api.url", "http://localhost:5000/api")
	v.SetDefault("api.timeout", 15*time.Second)
	v.SetDefault("db.path", filepath.Join(Dir(), "annotations.db"))
	v.SetDefault("log.file", filepath.Join(Dir(), "patchdash.log"))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
	v.SetDefault("ui.locale", "en_US")
	v.SetDefault("ui.refresh", "")
	v.SetDefault("ui.day", 0)
	v.SetDefault("cache.best_hour_ttl", 5*time.Minute)
	v.SetDefault("metrics.addr", "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName(ConfigName)
	v.AddConfigPath(".")
	v.AddConfigPath(Dir())
	return v
}

// FlagBindings maps config keys to flag names.
var FlagBindings = map[string]string{
	"api.url":      "api",
	"db.path":      "db",
	"log.file":     "log-file",
	"log.level":    "log-level",
	"ui.locale":    "locale",
	"metrics.addr": "metrics-addr",
}

// BindFlags binds any flags from FlagBindings present in fs.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for key, name := range FlagBindings {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// Load reads the config file (explicit path or search path) and decodes the result.
// A missing config file is not an error.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail later in less obvious ways.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.API.URL) == "" {
		return errors.New("config: api.url is required")
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("config: api.timeout must be positive, got %s", c.API.Timeout)
	}
	if c.UI.Day < 0 || c.UI.Day > 6 {
		return fmt.Errorf("config: ui.day must be 0-6, got %d", c.UI.Day)
	}
	c.API.URL = strings.TrimRight(c.API.URL, "/")
	return nil
}
