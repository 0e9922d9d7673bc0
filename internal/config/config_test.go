package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Theme != "mocha" {
		t.Errorf("expected theme mocha, got %q", cfg.Theme)
	}
	if cfg.Backend.URL != "http://localhost:8000" {
		t.Errorf("unexpected backend url %q", cfg.Backend.URL)
	}
	if cfg.Backend.Timeout != 0 {
		t.Errorf("expected no default timeout, got %v", cfg.Backend.Timeout)
	}
	if cfg.Defaults.Prompt != "Create a simple todo app with FastAPI and React" {
		t.Errorf("unexpected default prompt %q", cfg.Defaults.Prompt)
	}
	if cfg.Defaults.RootDir != "generated_project" {
		t.Errorf("unexpected default root dir %q", cfg.Defaults.RootDir)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"latte", func(c *Config) { c.Theme = "latte" }, false},
		{"unknown theme", func(c *Config) { c.Theme = "solarized" }, true},
		{"empty backend", func(c *Config) { c.Backend.URL = "" }, true},
		{"negative timeout", func(c *Config) { c.Backend.Timeout = -time.Second }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadNonExistent(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("Load should not error for nonexistent file: %v", err)
	}
	if cfg.Backend.URL != DefaultConfig().Backend.URL {
		t.Error("Load should return defaults for nonexistent file")
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `
theme: frappe
backend:
  url: http://gen.internal:9000
  timeout: 45s
defaults:
  root_dir: out
server:
  model: qwen2.5-coder
`
	if err := os.WriteFile(configPath, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Theme != "frappe" {
		t.Errorf("expected theme frappe, got %q", cfg.Theme)
	}
	if cfg.Backend.URL != "http://gen.internal:9000" {
		t.Errorf("unexpected backend url %q", cfg.Backend.URL)
	}
	if cfg.Backend.Timeout != 45*time.Second {
		t.Errorf("expected 45s timeout, got %v", cfg.Backend.Timeout)
	}
	if cfg.Defaults.RootDir != "out" {
		t.Errorf("expected root dir out, got %q", cfg.Defaults.RootDir)
	}
	// Keys missing from the file keep their defaults
	if cfg.Defaults.Prompt != DefaultConfig().Defaults.Prompt {
		t.Errorf("expected default prompt to survive, got %q", cfg.Defaults.Prompt)
	}
	if cfg.Server.Model != "qwen2.5-coder" {
		t.Errorf("expected model qwen2.5-coder, got %q", cfg.Server.Model)
	}
	if cfg.Server.OllamaHost != "http://localhost:11434" {
		t.Errorf("expected default ollama host, got %q", cfg.Server.OllamaHost)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed yaml", "theme: [unterminated"},
		{"bad theme", "theme: neon"},
		{"bad duration", "backend:\n  timeout: soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o600); err != nil {
				t.Fatalf("failed to write test config: %v", err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLogFile(t *testing.T) {
	cfg := DefaultConfig()
	if got, want := cfg.LogFile(), filepath.Join(os.TempDir(), "vibe_studio.log"); got != want {
		t.Errorf("LogFile() = %q, want %q", got, want)
	}

	cfg.Log.File = "/var/log/vibe.log"
	if got := cfg.LogFile(); got != "/var/log/vibe.log" {
		t.Errorf("LogFile() = %q", got)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("VIBE_BACKEND_URL", "http://env:1234")
	t.Setenv("VIBE_BACKEND_TIMEOUT", "2s")
	t.Setenv("OLLAMA_HOST", "http://gpu-box:11434")
	t.Setenv("MODEL_NAME", "codellama")

	cfg := ApplyEnv(DefaultConfig())

	if cfg.Backend.URL != "http://env:1234" {
		t.Errorf("expected env backend url, got %q", cfg.Backend.URL)
	}
	if cfg.Backend.Timeout != 2*time.Second {
		t.Errorf("expected 2s timeout, got %v", cfg.Backend.Timeout)
	}
	if cfg.Server.OllamaHost != "http://gpu-box:11434" {
		t.Errorf("expected OLLAMA_HOST to apply, got %q", cfg.Server.OllamaHost)
	}
	if cfg.Server.Model != "codellama" {
		t.Errorf("expected MODEL_NAME to apply, got %q", cfg.Server.Model)
	}
	if cfg.Defaults.RootDir != "generated_project" {
		t.Errorf("unset keys should keep file values, got %q", cfg.Defaults.RootDir)
	}
}

func TestApplyEnvPrefixWins(t *testing.T) {
	t.Setenv("VIBE_SERVER_MODEL", "preferred")
	t.Setenv("MODEL_NAME", "fallback")

	cfg := ApplyEnv(DefaultConfig())
	if cfg.Server.Model != "preferred" {
		t.Errorf("expected VIBE_SERVER_MODEL to win, got %q", cfg.Server.Model)
	}
}

func TestApplyEnvDoesNotMutate(t *testing.T) {
	t.Setenv("VIBE_THEME", "latte")

	base := DefaultConfig()
	out := ApplyEnv(base)
	if base.Theme != "mocha" {
		t.Errorf("input config was modified: %q", base.Theme)
	}
	if out.Theme != "latte" {
		t.Errorf("expected latte, got %q", out.Theme)
	}
}

func TestGlobal(t *testing.T) {
	// Reset global state
	SetGlobal(nil)
	defer SetGlobal(nil)

	custom := DefaultConfig()
	custom.Theme = "latte"
	SetGlobal(custom)

	if Global() != custom {
		t.Error("Global() should return the config set by SetGlobal")
	}
}
