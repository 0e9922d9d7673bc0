package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

// AppName names the config directory and the default log file
const AppName = "vibe_studio"

// Themes lists the catppuccin flavors the shell can render with
var Themes = []string{"mocha", "macchiato", "frappe", "latte"}

// BackendConfig describes the code-generation service the shell talks to
type BackendConfig struct {
	// URL is the backend origin, e.g. http://localhost:8000
	URL string `yaml:"url"`

	// Timeout bounds each request. Zero means no timeout.
	Timeout time.Duration `yaml:"timeout"`
}

// DefaultsConfig seeds a fresh session
type DefaultsConfig struct {
	Prompt  string `yaml:"prompt"`
	RootDir string `yaml:"root_dir"`
}

// ServerConfig configures the `serve` command
type ServerConfig struct {
	// Address is the listen address, e.g. :8000
	Address string `yaml:"address"`

	// OllamaHost is the model server origin
	OllamaHost string `yaml:"ollama_host"`

	// Model is the model name passed to the chat completion API
	Model string `yaml:"model"`

	Temperature float32 `yaml:"temperature"`

	// APIKey is sent as the bearer token. Ollama ignores it.
	APIKey string `yaml:"api_key"`
}

// LogConfig controls the logrus logger
type LogConfig struct {
	// Level is any logrus level name (debug, info, warn, error)
	Level string `yaml:"level"`

	// File receives terminal UI logs. Empty means the temp dir default.
	File string `yaml:"file"`
}

// Config holds the application configuration
type Config struct {
	// Theme is the color theme to use (mocha, macchiato, frappe, latte)
	Theme string `yaml:"theme"`

	Backend  BackendConfig  `yaml:"backend"`
	Defaults DefaultsConfig `yaml:"defaults"`
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Theme: "mocha",
		Backend: BackendConfig{
			URL: "http://localhost:8000",
		},
		Defaults: DefaultsConfig{
			Prompt:  "Create a simple todo app with FastAPI and React",
			RootDir: "generated_project",
		},
		Server: ServerConfig{
			Address:     ":8000",
			OllamaHost:  "http://localhost:11434",
			Model:       "llama3.2",
			Temperature: 0.2,
			APIKey:      "ollama",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate reports settings the program cannot run with
func (c *Config) Validate() error {
	if !slices.Contains(Themes, c.Theme) {
		return fmt.Errorf("unknown theme %q", c.Theme)
	}
	if c.Backend.URL == "" {
		return fmt.Errorf("backend.url is required")
	}
	if c.Backend.Timeout < 0 {
		return fmt.Errorf("backend.timeout must not be negative")
	}
	return nil
}

// LogFile returns the terminal UI log path
func (c *Config) LogFile() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	return filepath.Join(os.TempDir(), AppName+".log")
}

// Load reads the config from a YAML file, falling back to defaults
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath) //nolint:gosec // config path from known locations
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Use defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", cleanPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", cleanPath, err)
	}

	return cfg, nil
}

// SearchPaths lists the config locations in lookup order
func SearchPaths() []string {
	// Check in order: current dir, ~/.config/vibe_studio/, XDG_CONFIG_HOME
	paths := []string{
		"config.yaml",
		filepath.Join(os.Getenv("HOME"), ".config", AppName, "config.yaml"),
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, AppName, "config.yaml"))
	}

	return paths
}

// DefaultPath returns the first config file that exists, or "" if none do
func DefaultPath() string {
	for _, path := range SearchPaths() {
		cleanPath := filepath.Clean(path)
		if _, err := os.Stat(cleanPath); err == nil { //nolint:gosec // config path from known locations
			return cleanPath
		}
	}
	return ""
}

// LoadFromDefaultPath attempts to load config from standard locations
func LoadFromDefaultPath() (*Config, error) {
	if path := DefaultPath(); path != "" {
		return Load(path)
	}
	return DefaultConfig(), nil
}

// global config instance
var globalConfig *Config

// Global returns the global config instance, loading it if necessary
func Global() *Config {
	if globalConfig == nil {
		cfg, err := LoadFromDefaultPath()
		if err != nil {
			cfg = DefaultConfig()
		}
		globalConfig = ApplyEnv(cfg)
	}
	return globalConfig
}

// SetGlobal sets the global config instance (useful for testing)
func SetGlobal(cfg *Config) {
	globalConfig = cfg
}
