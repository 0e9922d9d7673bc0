package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"vibe_studio/internal/config"
	"vibe_studio/internal/gateway"
	"vibe_studio/internal/logging"
	"vibe_studio/internal/tui"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// shellFlags are the root command's overrides on top of the config file
type shellFlags struct {
	configPath string
	backendURL string
	rootDir    string
}

func rootCmd() *cobra.Command {
	var flags shellFlags

	cmd := &cobra.Command{
		Use:   config.AppName,
		Short: "Generate projects from a prompt and review them in the terminal",
		Long: `Vibe Coding Studio sends a prompt to a code-generation backend, lists the
files it returns with a highlighted preview, and asks the backend to write
them under a root directory.

Examples:
  vibe_studio                                  # Use config.yaml and env
  vibe_studio --backend http://gpu-box:8000    # Point at another backend
  vibe_studio serve --addr :9000               # Run the backend`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(flags)
		},
	}

	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default: first of ./config.yaml, ~/.config/vibe_studio/config.yaml)")
	cmd.Flags().StringVar(&flags.backendURL, "backend", "", "backend base URL")
	cmd.Flags().StringVar(&flags.rootDir, "root-dir", "", "initial root directory for written files")

	cmd.AddCommand(serveCmd(&flags.configPath))

	return cmd
}

// loadConfig reads the config file, overlays the environment and installs
// the result as the global config. It returns the path worth watching.
func loadConfig(path string) (*config.Config, string, error) {
	if path == "" {
		path = config.DefaultPath()
	}

	cfg := config.DefaultConfig()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, "", err
		}
		cfg = loaded
	}

	cfg = config.ApplyEnv(cfg)
	config.SetGlobal(cfg)
	return cfg, path, nil
}

// apply copies non-empty flag values over cfg
func (f shellFlags) apply(cfg *config.Config) {
	if f.backendURL != "" {
		cfg.Backend.URL = f.backendURL
	}
	if f.rootDir != "" {
		cfg.Defaults.RootDir = f.rootDir
	}
}

func runShell(flags shellFlags) error {
	cfg, path, err := loadConfig(flags.configPath)
	if err != nil {
		return err
	}
	flags.apply(cfg)

	// The terminal belongs to the UI, so logs go to a file
	log, closer, err := logging.OpenFile(cfg.Log, cfg.LogFile())
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	opts := tui.ModelOptions{
		Config:  cfg,
		Backend: gateway.New(cfg.Backend.URL, gateway.WithTimeout(cfg.Backend.Timeout)),
		Logger:  log,
	}

	if path != "" {
		w, err := config.NewWatcher(path, config.WithOverride(flags.apply))
		if err != nil {
			log.WithError(err).Warn("config reload disabled")
		} else {
			w.Start()
			defer func() { _ = w.Stop() }()
			opts.Watcher = w
		}
	}

	m := tui.NewModel(opts)
	defer m.Close()

	log.WithField("backend", cfg.Backend.URL).Info("shell started")

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}
