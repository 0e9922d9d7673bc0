package config

import (
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. VIBE_BACKEND_URL
const EnvPrefix = "VIBE"

// legacyEnv maps keys onto the variable names the Ollama tooling uses
var legacyEnv = map[string]string{
	"server.ollama_host": "OLLAMA_HOST",
	"server.model":       "MODEL_NAME",
}

// ApplyEnv overlays environment variables onto a copy of cfg.
// File values act as defaults; a set variable always wins.
func ApplyEnv(cfg *Config) *Config {
	out := *cfg

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("theme", out.Theme)
	v.SetDefault("backend.url", out.Backend.URL)
	v.SetDefault("backend.timeout", out.Backend.Timeout)
	v.SetDefault("defaults.prompt", out.Defaults.Prompt)
	v.SetDefault("defaults.root_dir", out.Defaults.RootDir)
	v.SetDefault("server.address", out.Server.Address)
	v.SetDefault("server.ollama_host", out.Server.OllamaHost)
	v.SetDefault("server.model", out.Server.Model)
	v.SetDefault("server.temperature", out.Server.Temperature)
	v.SetDefault("server.api_key", out.Server.APIKey)
	v.SetDefault("log.level", out.Log.Level)
	v.SetDefault("log.file", out.Log.File)

	for key, name := range legacyEnv {
		_ = v.BindEnv(key, envName(key), name)
	}

	out.Theme = v.GetString("theme")
	out.Backend.URL = v.GetString("backend.url")
	out.Backend.Timeout = v.GetDuration("backend.timeout")
	out.Defaults.Prompt = v.GetString("defaults.prompt")
	out.Defaults.RootDir = v.GetString("defaults.root_dir")
	out.Server.Address = v.GetString("server.address")
	out.Server.OllamaHost = v.GetString("server.ollama_host")
	out.Server.Model = v.GetString("server.model")
	out.Server.Temperature = float32(v.GetFloat64("server.temperature"))
	out.Server.APIKey = v.GetString("server.api_key")
	out.Log.Level = v.GetString("log.level")
	out.Log.File = v.GetString("log.file")

	return &out
}

// envName returns the prefixed variable name for a config key
func envName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}
