package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all plannerd configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// LLM configuration
	LLM LLMConfig `yaml:"llm"`

	// Rules store
	Rules RulesConfig `yaml:"rules"`

	// MCP server
	Server ServerConfig `yaml:"server"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// LLMConfig configures the generation backend.
type LLMConfig struct {
	Provider string `yaml:"provider"` // gemini
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
	Timeout  string `yaml:"timeout"`
}

// RulesConfig configures where rules documents live.
type RulesConfig struct {
	Dir           string `yaml:"dir"`
	Watch         bool   `yaml:"watch"`
	WatchDebounce string `yaml:"watch_debounce"` // settle window for rapid saves
}

// ServerConfig configures the MCP transport.
type ServerConfig struct {
	Transport string `yaml:"transport"` // stdio, sse, http
	Addr      string `yaml:"addr"`
	BaseURL   string `yaml:"base_url"` // advertised SSE base URL
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level      string          `yaml:"level"`  // debug, info, warn, error
	Format     string          `yaml:"format"` // json, console
	File       string          `yaml:"file"`
	MaxSizeMB  int             `yaml:"max_size_mb"`
	MaxBackups int             `yaml:"max_backups"`
	MaxAgeDays int             `yaml:"max_age_days"`
	Compress   bool            `yaml:"compress"`
	Categories map[string]bool `yaml:"categories"`
}

// Transports lists the supported MCP transports.
var Transports = []string{"stdio", "sse", "http"}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "GeminiPlanningAssistant",
		Version: "0.1.1",

		LLM: LLMConfig{
			Provider: "gemini",
			Model:    "gemini-1.5-flash",
			Timeout:  "120s",
		},

		Rules: RulesConfig{
			Dir:           "rules",
			WatchDebounce: "300ms",
		},

		Server: ServerConfig{
			Transport: "stdio",
			Addr:      ":8080",
		},

		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			MaxSizeMB:  10,
			MaxBackups: 5,
			MaxAgeDays: 30,
		},
	}
}

// LoadDotEnv loads KEY=VALUE pairs from the given env files into the process
// environment. Variables already set in the environment are kept. Missing
// files are skipped.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load env file %s: %w", p, err)
		}
	}
	return nil
}

// Load loads configuration from a YAML file and applies environment
// overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.LLM.APIKey = key
		c.LLM.Provider = "gemini"
	}
	if model := os.Getenv("GEMINI_MODEL_NAME"); model != "" {
		c.LLM.Model = model
	}

	if dir := os.Getenv("PLANNERD_RULES_DIR"); dir != "" {
		c.Rules.Dir = dir
	}
	if transport := os.Getenv("PLANNERD_TRANSPORT"); transport != "" {
		c.Server.Transport = strings.ToLower(transport)
	}
	if addr := os.Getenv("PLANNERD_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
	if level := os.Getenv("PLANNERD_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

// GetLLMTimeout returns the LLM timeout as a duration.
func (c *Config) GetLLMTimeout() time.Duration {
	d, err := time.ParseDuration(c.LLM.Timeout)
	if err != nil || d <= 0 {
		return 120 * time.Second
	}
	return d
}

// GetWatchDebounce returns the rules watcher debounce as a duration.
func (c *Config) GetWatchDebounce() time.Duration {
	d, err := time.ParseDuration(c.Rules.WatchDebounce)
	if err != nil || d <= 0 {
		return 300 * time.Millisecond
	}
	return d
}

// ValidateServer checks the transport settings only.
func (c *Config) ValidateServer() error {
	for _, t := range Transports {
		if c.Server.Transport == t {
			if t != "stdio" && c.Server.Addr == "" {
				return fmt.Errorf("transport %s requires a listen address", t)
			}
			return nil
		}
	}
	return fmt.Errorf("invalid transport: %s (valid: %v)", c.Server.Transport, Transports)
}

// Validate validates the configuration needed to talk to the generation API.
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return fmt.Errorf("LLM API key not configured (set GEMINI_API_KEY or llm.api_key)")
	}
	if c.LLM.Provider != "gemini" {
		return fmt.Errorf("invalid LLM provider: %s (valid: [gemini])", c.LLM.Provider)
	}
	if strings.TrimSpace(c.LLM.Model) == "" {
		return fmt.Errorf("LLM model not configured (set GEMINI_MODEL_NAME or llm.model)")
	}
	return c.ValidateServer()
}
