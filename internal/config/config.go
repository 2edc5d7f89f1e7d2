package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrInvalidConfig  = errors.New("invalid config")
)

const (
	// DefaultServiceURL is the analysis service used when none is configured.
	DefaultServiceURL = "http://localhost:8000"

	OutputHuman = "human"
	OutputJSON  = "json"

	EnvServiceURL = "DETECTIVE_SERVICE_URL"
	EnvLogLevel   = "DETECTIVE_LOG_LEVEL"
)

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Config represents the client configuration.
type Config struct {
	ServiceURL string `yaml:"service_url" json:"service_url"`
	// RequestTimeout is a Go duration string. Empty means no deadline.
	RequestTimeout string `yaml:"request_timeout" json:"request_timeout"`
	LogLevel       string `yaml:"log_level" json:"log_level"`
	Output         string `yaml:"output" json:"output"`

	timeout time.Duration
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ServiceURL: DefaultServiceURL,
		LogLevel:   "info",
		Output:     OutputHuman,
	}
}

// DefaultPath returns ~/.commitdetective/config.yaml.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".commitdetective", "config.yaml"), nil
}

// Load loads the configuration from path, then applies environment
// overrides. With an empty path the default location is used, and a missing
// default file yields the built-in defaults. An explicit path must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := decode(data, filepath.Ext(path), cfg); err != nil {
			return nil, err
		}
	case os.IsNotExist(err) && !explicit:
		// defaults
	case os.IsNotExist(err):
		return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg.applyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(data []byte, ext string, cfg *Config) error {
	var err error
	if strings.EqualFold(ext, ".json") {
		err = json.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv(EnvServiceURL); v != "" {
		c.ServiceURL = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
}

// Validate checks the configuration and fills in derived values.
func (c *Config) Validate() error {
	if c.ServiceURL == "" {
		c.ServiceURL = DefaultServiceURL
	}
	u, err := url.Parse(c.ServiceURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: service_url must be an absolute http(s) URL, got %q", ErrInvalidConfig, c.ServiceURL)
	}

	c.timeout = 0
	if c.RequestTimeout != "" {
		d, err := time.ParseDuration(c.RequestTimeout)
		if err != nil || d < 0 {
			return fmt.Errorf("%w: request_timeout %q is not a valid duration", ErrInvalidConfig, c.RequestTimeout)
		}
		c.timeout = d
	}

	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	c.LogLevel = strings.ToLower(c.LogLevel)
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("%w: unknown log_level %q", ErrInvalidConfig, c.LogLevel)
	}

	if c.Output == "" {
		c.Output = OutputHuman
	}
	if c.Output != OutputHuman && c.Output != OutputJSON {
		return fmt.Errorf("%w: output must be %q or %q, got %q", ErrInvalidConfig, OutputHuman, OutputJSON, c.Output)
	}
	return nil
}

// Timeout returns the parsed request timeout. Zero means none.
func (c *Config) Timeout() time.Duration {
	return c.timeout
}
