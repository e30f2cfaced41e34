// Package config loads fhirres command line settings from defaults, an
// optional config file, FHIRRES_* environment variables and flags, in
// increasing order of precedence.
package config

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/gofhir/resources/pkg/logger"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "FHIRRES"

// Output formats.
const (
	OutputText = "text"
	OutputJSON = "json"
)

// Store drivers.
const (
	StoreMemory   = "memory"
	StoreBolt     = "bolt"
	StorePostgres = "postgres"
)

type Config struct {
	LogLevel     string `mapstructure:"LOG_LEVEL"`
	Output       string `mapstructure:"OUTPUT"`
	Indent       bool   `mapstructure:"INDENT"`
	Strict       bool   `mapstructure:"STRICT"`
	Workers      int    `mapstructure:"WORKERS"`
	Terminology  bool   `mapstructure:"TERMINOLOGY"`
	Definitions  string `mapstructure:"DEFINITIONS"`
	StoreDriver  string `mapstructure:"STORE_DRIVER"`
	StorePath    string `mapstructure:"STORE_PATH"`
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	MaxLineBytes int    `mapstructure:"MAX_LINE_BYTES"`
	MetricsFile  string `mapstructure:"METRICS_FILE"`
}

// flagKeys maps command line flag names to config keys.
var flagKeys = map[string]string{
	"log-level":      "LOG_LEVEL",
	"output":         "OUTPUT",
	"indent":         "INDENT",
	"strict":         "STRICT",
	"workers":        "WORKERS",
	"terminology":    "TERMINOLOGY",
	"definitions":    "DEFINITIONS",
	"store":          "STORE_DRIVER",
	"store-path":     "STORE_PATH",
	"database-url":   "DATABASE_URL",
	"max-line-bytes": "MAX_LINE_BYTES",
	"metrics":        "METRICS_FILE",
}

// Load reads the configuration. path names an optional config file (any
// format viper understands); an empty path skips it, a missing file is an
// error. Flags that were set on fs override everything else.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("OUTPUT", OutputText)
	v.SetDefault("INDENT", true)
	v.SetDefault("STRICT", false)
	v.SetDefault("WORKERS", runtime.NumCPU())
	v.SetDefault("TERMINOLOGY", true)
	v.SetDefault("DEFINITIONS", "")
	v.SetDefault("STORE_DRIVER", StoreMemory)
	v.SetDefault("STORE_PATH", "fhirres.db")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("MAX_LINE_BYTES", 16<<20)
	v.SetDefault("METRICS_FILE", "")

	for _, key := range flagKeys {
		_ = v.BindEnv(key)
	}

	if fs != nil {
		for name, key := range flagKeys {
			f := fs.Lookup(name)
			if f == nil || !f.Changed {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Output = strings.ToLower(strings.TrimSpace(cfg.Output))
	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the settings can be used together.
func (c *Config) Validate() error {
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}
	switch c.Output {
	case OutputText, OutputJSON:
	default:
		return fmt.Errorf("OUTPUT must be %q or %q, got %q", OutputText, OutputJSON, c.Output)
	}
	if c.Workers < 0 {
		return fmt.Errorf("WORKERS must not be negative, got %d", c.Workers)
	}
	if c.MaxLineBytes <= 0 {
		return fmt.Errorf("MAX_LINE_BYTES must be positive, got %d", c.MaxLineBytes)
	}

	switch c.StoreDriver {
	case StoreMemory:
	case StoreBolt:
		if c.StorePath == "" {
			return fmt.Errorf("STORE_PATH is required when STORE_DRIVER is %q", StoreBolt)
		}
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORE_DRIVER is %q", StorePostgres)
		}
	default:
		return fmt.Errorf("STORE_DRIVER must be %q, %q or %q, got %q",
			StoreMemory, StoreBolt, StorePostgres, c.StoreDriver)
	}
	return nil
}

// Level returns the parsed log level.
func (c *Config) Level() logger.Level {
	l, _ := logger.ParseLevel(c.LogLevel)
	return l
}

// IsJSON reports whether output should be JSON.
func (c *Config) IsJSON() bool {
	return c.Output == OutputJSON
}
