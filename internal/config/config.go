// Load envs from .env
// Load YAML config
// Validate config
// Provide default values

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultConfigPath = "configs/config.yaml"
	defaultModel      = "gemini-2.5-flash"
	defaultLogLevel   = "info"
)

type Config struct {
	TelegramToken string  `yaml:"telegram_token"`
	GeminiAPIKey  string  `yaml:"gemini_api_key"`
	GeminiModel   string  `yaml:"gemini_model"`
	AllowedUsers  []int64 `yaml:"allowed_users"`
	//Paths
	SourcesPath string `yaml:"sources_path"`
	//Logging
	LogLevel string `yaml:"log_level"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		GeminiModel: defaultModel,
		LogLevel:    defaultLogLevel,
	}

	path := defaultConfigPath
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		path = p
	}

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	//Override with env vars
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		cfg.TelegramToken = token
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		cfg.GeminiAPIKey = key
	}
	if model := os.Getenv("GEMINI_MODEL"); model != "" {
		cfg.GeminiModel = model
	}
	if users := os.Getenv("ALLOWED_USERS"); users != "" {
		ids, err := parseUserIDs(users)
		if err != nil {
			return nil, fmt.Errorf("invalid ALLOWED_USERS: %w", err)
		}
		cfg.AllowedUsers = ids
	}
	if path := os.Getenv("SOURCES_PATH"); path != "" {
		cfg.SourcesPath = path
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}

	//Validate required fields
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if len(cfg.AllowedUsers) == 0 {
		return nil, fmt.Errorf("at least one allowed user is required")
	}

	return cfg, nil
}

// Allowed reports whether the Telegram user is on the allow-list.
func (c *Config) Allowed(userID int64) bool {
	for _, id := range c.AllowedUsers {
		if id == userID {
			return true
		}
	}
	return false
}

func parseUserIDs(raw string) ([]int64, error) {
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("user id %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
