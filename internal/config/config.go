package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/set-night/mindcli/internal/domain"
)

type Config struct {
	// Storage
	DBPath string `env:"MIND_DB_PATH" envDefault:"~/.mind/mind.db"`

	// Model provider
	OpenRouterKey string `env:"OPENROUTER_API_KEY"`
	OpenRouterURL string `env:"OPENROUTER_BASE_URL" envDefault:"https://openrouter.ai/api/v1"`

	// Chat defaults
	DefaultModel        string   `env:"MIND_DEFAULT_MODEL" envDefault:"deepseek/deepseek-chat-v3-0324:free"`
	DefaultSystemPrompt string   `env:"MIND_DEFAULT_SYSTEM_PROMPT" envDefault:"You are a helpful assistant. Answer concisely."`
	DefaultChat         string   `env:"MIND_DEFAULT_CHAT" envDefault:"Default"`
	Models              []string `env:"MIND_MODELS" envSeparator:","`

	// Output
	Stream         bool `env:"MIND_STREAM" envDefault:"true"`
	RenderMarkdown bool `env:"MIND_RENDER_MARKDOWN" envDefault:"true"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"warn"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
}

// Load reads optional .env files and parses the environment.
func Load() (*Config, error) {
	if err := loadDotEnv(".env", filepath.Join(DataDir, ".env")); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	path, err := homedir.Expand(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("expand db path: %w", err)
	}
	cfg.DBPath = path

	if len(cfg.Models) == 0 {
		cfg.Models = slices.Clone(DefaultModels)
	}
	if !slices.Contains(cfg.Models, cfg.DefaultModel) {
		cfg.Models = append([]string{cfg.DefaultModel}, cfg.Models...)
	}
	return cfg, nil
}

func loadDotEnv(paths ...string) error {
	for _, p := range paths {
		path, err := homedir.Expand(p)
		if err != nil {
			return fmt.Errorf("expand %s: %w", p, err)
		}
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", path, err)
		}
	}
	return nil
}

// ChatDefaults returns the settings applied to newly created chats.
func (c *Config) ChatDefaults() domain.ChatDefaults {
	return domain.ChatDefaults{
		SystemPrompt:      c.DefaultSystemPrompt,
		ModelID:           c.DefaultModel,
		ContextWindowSize: DefaultContextWindowSize,
	}
}

// IsAllowedModel reports whether id is on the configured allow-list.
func (c *Config) IsAllowedModel(id string) bool {
	return slices.Contains(c.Models, strings.TrimSpace(id))
}

// RequireAPIKey fails when no provider key is configured.
func (c *Config) RequireAPIKey() error {
	if c.OpenRouterKey == "" {
		return fmt.Errorf("%w (export it or add it to %s)", domain.ErrMissingAPIKey, filepath.Join(DataDir, ".env"))
	}
	return nil
}

// EnsureDataDir creates the directory holding the database file.
func (c *Config) EnsureDataDir() error {
	if err := os.MkdirAll(filepath.Dir(c.DBPath), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	return nil
}
