package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"vibe_studio/internal/logging"
	"vibe_studio/internal/server"
)

// serveFlags override the server section of the config
type serveFlags struct {
	addr  string
	model string
}

func serveCmd(configPath *string) *cobra.Command {
	var flags serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the code-generation backend",
		Long: `Serve POST /api/generate and POST /api/write backed by an Ollama model.

A .env file in the working directory is loaded first. OLLAMA_HOST and
MODEL_NAME are honored, as are VIBE_SERVER_* overrides.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, *configPath, flags)
		},
	}

	cmd.Flags().StringVar(&flags.addr, "addr", "", "listen address (default from config, :8000)")
	cmd.Flags().StringVar(&flags.model, "model", "", "Ollama model name")

	return cmd
}

func runServe(ctx context.Context, configPath string, flags serveFlags) error {
	// .env must be in the environment before the overlay reads it
	envErr := godotenv.Load()

	cfg, _, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if flags.addr != "" {
		cfg.Server.Address = flags.addr
	}
	if flags.model != "" {
		cfg.Server.Model = flags.model
	}

	log := logging.New(cfg.Log, os.Stderr)
	switch {
	case envErr == nil:
		log.Info("loaded environment from .env")
	case os.IsNotExist(envErr):
		log.Debug(".env not found, using process environment")
	default:
		log.WithError(envErr).Warn("could not load .env")
	}

	log.WithFields(logrus.Fields{
		"ollama": cfg.Server.OllamaHost,
		"model":  cfg.Server.Model,
	}).Info("using model")

	srv := server.New(cfg.Server, server.NewGenerator(cfg.Server, log), log)
	return srv.Run(ctx)
}
