package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/thesavant42/quakewatch/internal/api"
	"github.com/thesavant42/quakewatch/internal/models"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no --config flag is given; it may be absent
const DefaultPath = "quakewatch.yaml"

// Config holds all application settings
type Config struct {
	Endpoint            string        `yaml:"endpoint"`
	RequestTimeout      time.Duration `yaml:"request_timeout"`
	ConnectivityTimeout time.Duration `yaml:"connectivity_timeout"`
	DBPath              string        `yaml:"db_path"`
	LogFile             string        `yaml:"log_file"`
	LogLevel            string        `yaml:"log_level"`
	MetricsAddr         string        `yaml:"metrics_addr"` // empty disables the metrics listener
	Defaults            FilterConfig  `yaml:"defaults"`
}

// FilterConfig is the filter used until the user saves preferences
type FilterConfig struct {
	OrderBy      string `yaml:"orderby"`
	MinMagnitude string `yaml:"minmag"`
	Limit        string `yaml:"limit"`
}

// Filter converts the configured defaults to a models.Filter
func (f FilterConfig) Filter() models.Filter {
	return models.Filter{
		OrderBy:      models.SortOrder(f.OrderBy),
		MinMagnitude: f.MinMagnitude,
		Limit:        f.Limit,
	}
}

// Default returns the built-in configuration
func Default() Config {
	d := models.DefaultFilter()
	return Config{
		Endpoint:            api.DefaultEndpoint,
		RequestTimeout:      15 * time.Second,
		ConnectivityTimeout: 3 * time.Second,
		DBPath:              "quakewatch.db",
		LogFile:             "quakewatch.log",
		LogLevel:            "info",
		Defaults: FilterConfig{
			OrderBy:      string(d.OrderBy),
			MinMagnitude: d.MinMagnitude,
			Limit:        d.Limit,
		},
	}
}

// Load builds the configuration from defaults, the YAML file at path and
// QUAKEWATCH_* environment variables, in that order. A missing file is only
// an error when required is true.
func Load(path string, required bool) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case err == nil:
			expanded := os.ExpandEnv(string(raw))
			if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
				return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist) && !required:
		default:
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	setDuration := func(key string, dst *time.Duration) error {
		v, ok := os.LookupEnv(key)
		if !ok {
			return nil
		}
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = d
		return nil
	}

	setString("QUAKEWATCH_ENDPOINT", &c.Endpoint)
	setString("QUAKEWATCH_DB", &c.DBPath)
	setString("QUAKEWATCH_LOG_FILE", &c.LogFile)
	setString("QUAKEWATCH_LOG_LEVEL", &c.LogLevel)
	setString("QUAKEWATCH_METRICS_ADDR", &c.MetricsAddr)
	setString("QUAKEWATCH_ORDERBY", &c.Defaults.OrderBy)
	setString("QUAKEWATCH_MINMAG", &c.Defaults.MinMagnitude)
	setString("QUAKEWATCH_LIMIT", &c.Defaults.Limit)

	if err := setDuration("QUAKEWATCH_REQUEST_TIMEOUT", &c.RequestTimeout); err != nil {
		return err
	}
	return setDuration("QUAKEWATCH_CONNECTIVITY_TIMEOUT", &c.ConnectivityTimeout)
}

// Validate checks settings the app can't run without
func (c Config) Validate() error {
	if strings.TrimSpace(c.Endpoint) == "" {
		return errors.New("endpoint is required")
	}
	if c.RequestTimeout <= 0 {
		return errors.New("request_timeout must be > 0")
	}
	if c.ConnectivityTimeout <= 0 {
		return errors.New("connectivity_timeout must be > 0")
	}
	if strings.TrimSpace(c.DBPath) == "" {
		return errors.New("db_path is required")
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	return nil
}
