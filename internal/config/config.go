// Package config loads server settings from defaults, an optional YAML file,
// a .env file and the process environment, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const (
	envPort            = "PORT"
	envConfigFile      = "CONFIG_FILE"
	envAPIBaseURL      = "QUESTIONS_API_BASE_URL"
	envAPITimeout      = "QUESTIONS_API_TIMEOUT"
	envAPIDemo         = "QUESTIONS_API_DEMO"
	envLogLevel        = "LOG_LEVEL"
	envShutdownTimeout = "SHUTDOWN_TIMEOUT"
)

// projectIDEnv lists the variables that may carry the Google Cloud project
// used for trace correlation, highest priority first.
var projectIDEnv = []string{"GOOGLE_CLOUD_PROJECT", "GCP_PROJECT", "GCLOUD_PROJECT", "PROJECT_ID"}

// Duration is a time.Duration that reads Go duration strings from YAML.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Config holds runtime settings.
type Config struct {
	Port            int       `yaml:"port"`
	LogLevel        string    `yaml:"log_level"`
	ProjectID       string    `yaml:"project_id"`
	ShutdownTimeout Duration  `yaml:"shutdown_timeout"`
	QuestionsAPI    APIConfig `yaml:"questions_api"`
}

// APIConfig describes the remote listing API. With Demo set the server
// renders a built-in page and never calls BaseURL.
type APIConfig struct {
	BaseURL string   `yaml:"base_url"`
	Timeout Duration `yaml:"timeout"`
	Demo    bool     `yaml:"demo"`
}

// Addr returns the listen address for Port.
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Port:            3000,
		LogLevel:        "info",
		ShutdownTimeout: Duration(10 * time.Second),
		QuestionsAPI: APIConfig{
			BaseURL: "http://localhost:8080",
			Timeout: Duration(10 * time.Second),
		},
	}
}

// Load builds the configuration. A missing .env file is ignored; a
// CONFIG_FILE that cannot be read is an error.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg := Default()
	if path := os.Getenv(envConfigFile); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.UnmarshalStrict(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv(envPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", envPort, err)
		}
		c.Port = port
	}
	if v := getenv(envAPIBaseURL); v != "" {
		c.QuestionsAPI.BaseURL = v
	}
	if v := getenv(envAPITimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", envAPITimeout, err)
		}
		c.QuestionsAPI.Timeout = Duration(d)
	}
	if v := getenv(envAPIDemo); v != "" {
		demo, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", envAPIDemo, err)
		}
		c.QuestionsAPI.Demo = demo
	}
	if v := getenv(envShutdownTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", envShutdownTimeout, err)
		}
		c.ShutdownTimeout = Duration(d)
	}
	if v := getenv(envLogLevel); v != "" {
		c.LogLevel = v
	}
	for _, key := range projectIDEnv {
		if v := getenv(key); v != "" {
			c.ProjectID = v
			break
		}
	}
	return nil
}

// Validate checks that the settings are usable.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	u, err := url.Parse(c.QuestionsAPI.BaseURL)
	if err != nil {
		return fmt.Errorf("questions api base url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("questions api base url %q must be an absolute http(s) URL", c.QuestionsAPI.BaseURL)
	}
	if c.QuestionsAPI.Timeout < 0 {
		return errors.New("questions api timeout must not be negative")
	}
	return nil
}
