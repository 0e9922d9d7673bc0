package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"vibe_studio/internal/config"
)

func TestLoadConfigAndFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "backend:\n  url: http://from-file:8000\ndefaults:\n  root_dir: from_file\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { config.SetGlobal(nil) })

	cfg, watched, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if watched != path {
		t.Errorf("expected %s to be watched, got %q", path, watched)
	}
	if cfg.Backend.URL != "http://from-file:8000" {
		t.Errorf("unexpected backend %q", cfg.Backend.URL)
	}
	if config.Global() != cfg {
		t.Error("loaded config should become the global config")
	}

	shellFlags{backendURL: "http://flag:1"}.apply(cfg)
	if cfg.Backend.URL != "http://flag:1" {
		t.Errorf("flag should override the backend, got %q", cfg.Backend.URL)
	}
	if cfg.Defaults.RootDir != "from_file" {
		t.Errorf("empty flag must not override, got %q", cfg.Defaults.RootDir)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("theme: neon\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, _, err := loadConfig(path); err == nil {
		t.Error("expected an invalid theme to fail")
	}
}

func TestRootCommandFlags(t *testing.T) {
	cmd := rootCmd()
	for _, name := range []string{"backend", "root-dir"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("missing --%s", name)
		}
	}
	if cmd.PersistentFlags().Lookup("config") == nil {
		t.Error("missing --config")
	}

	serve, _, err := cmd.Find([]string{"serve"})
	if err != nil || serve.Name() != "serve" {
		t.Fatalf("serve subcommand not found: %v", err)
	}
	if serve.Flags().Lookup("addr") == nil {
		t.Error("serve is missing --addr")
	}
}

func TestBackendFlagSurvivesReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("backend:\n  url: http://file:8000\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { config.SetGlobal(nil) })

	flags := shellFlags{backendURL: "http://flag:9000", rootDir: "flag_dir"}
	cfg, _, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	flags.apply(cfg)

	w, err := config.NewWatcher(path, config.WithOverride(flags.apply))
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	w.Start()
	defer func() { _ = w.Stop() }()

	content := "theme: latte\nbackend:\n  url: http://file:8000\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(5 * time.Second)
	for {
		select {
		case reloaded := <-w.Events:
			if reloaded.Theme != "latte" {
				// A partial write may surface first
				continue
			}
			if reloaded.Backend.URL != "http://flag:9000" {
				t.Errorf("--backend lost on reload, got %q", reloaded.Backend.URL)
			}
			if reloaded.Defaults.RootDir != "flag_dir" {
				t.Errorf("--root-dir lost on reload, got %q", reloaded.Defaults.RootDir)
			}
			return
		case <-w.Errors:
		case <-deadline:
			t.Fatal("timed out waiting for reload")
		}
	}
}
