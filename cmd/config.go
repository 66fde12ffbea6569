package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/abhisek/devpath/internal/llm"
	"github.com/abhisek/devpath/internal/roadmap"
)

// settings is the resolved configuration for one invocation.
type settings struct {
	Port         int
	DBPath       string
	HoursPerWeek int
	StaticDir    string
	LLM          llm.Config
}

// envAliases maps config keys to the environment variables that set them,
// highest priority first.
var envAliases = map[string][]string{
	"port":               {"DEVPATH_PORT", "PORT"},
	"db":                 {"DEVPATH_DB"},
	"gemini.api_key":     {"DEVPATH_GEMINI_API_KEY", "GEMINI_API_KEY"},
	"openai.api_key":     {"DEVPATH_OPENAI_API_KEY", "OPENAI_API_KEY"},
	"anthropic.api_key":  {"DEVPATH_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY"},
	"openrouter.api_key": {"DEVPATH_OPENROUTER_API_KEY", "OPENROUTER_API_KEY"},
}

// newViper returns a viper instance with defaults, environment bindings
// and the optional config file applied. Flags are bound by the caller.
func newViper(cfgFile string) (*viper.Viper, error) {
	v := viper.New()

	def := llm.DefaultConfig()
	v.SetDefault("port", 3001)
	v.SetDefault("hours_per_week", roadmap.DefaultHoursPerWeek)
	v.SetDefault("static_dir", "")
	v.SetDefault("llm.provider", "")
	v.SetDefault("llm.timeout", def.Timeout)
	v.SetDefault("llm.max_attempts", def.Retry.MaxAttempts)
	v.SetDefault("gemini.model", def.Gemini.Model)
	v.SetDefault("openai.model", def.OpenAI.Model)
	v.SetDefault("openai.base_url", "")
	v.SetDefault("anthropic.model", def.Anthropic.Model)
	v.SetDefault("openrouter.model", def.OpenRouter.Model)
	v.SetDefault("openrouter.base_url", "")

	v.SetEnvPrefix("DEVPATH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, envs := range envAliases {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, err
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := configDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

func configDir() (string, error) {
	if d := os.Getenv("XDG_CONFIG_HOME"); d != "" {
		return filepath.Join(d, "devpath"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".config", "devpath"), nil
}

// loadSettings resolves flags > environment > config file > defaults.
func loadSettings(cmd *cobra.Command, cfgFile string) (settings, error) {
	v, err := newViper(cfgFile)
	if err != nil {
		return settings{}, err
	}

	bindings := map[string]string{
		"db":             "db",
		"hours_per_week": "hours",
		"port":           "port",
		"static_dir":     "static",
	}
	for key, flag := range bindings {
		if f := cmd.Flags().Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return settings{}, err
			}
		}
	}
	return settingsFrom(v), nil
}

func settingsFrom(v *viper.Viper) settings {
	cfg := llm.DefaultConfig()
	cfg.Provider = v.GetString("llm.provider")
	cfg.Timeout = v.GetDuration("llm.timeout")
	cfg.Retry.MaxAttempts = min(max(v.GetInt("llm.max_attempts"), 1), llm.MaxAttempts)
	cfg.Gemini = llm.GeminiConfig{
		APIKey: v.GetString("gemini.api_key"),
		Model:  v.GetString("gemini.model"),
	}
	cfg.OpenAI = llm.OpenAIConfig{
		APIKey:  v.GetString("openai.api_key"),
		Model:   v.GetString("openai.model"),
		BaseURL: v.GetString("openai.base_url"),
	}
	cfg.Anthropic = llm.AnthropicConfig{
		APIKey: v.GetString("anthropic.api_key"),
		Model:  v.GetString("anthropic.model"),
	}
	cfg.OpenRouter = llm.OpenRouterConfig{
		APIKey:  v.GetString("openrouter.api_key"),
		Model:   v.GetString("openrouter.model"),
		BaseURL: v.GetString("openrouter.base_url"),
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}

	hours := v.GetInt("hours_per_week")
	if hours <= 0 {
		hours = roadmap.DefaultHoursPerWeek
	}

	return settings{
		Port:         v.GetInt("port"),
		DBPath:       v.GetString("db"),
		HoursPerWeek: hours,
		StaticDir:    v.GetString("static_dir"),
		LLM:          cfg,
	}
}
