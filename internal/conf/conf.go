// Package conf loads application configuration: a YAML file for groups and
// scheduling, environment variables for secrets.
package conf

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Shadow-sword/tg-tldr/internal/biz/domain"
	"github.com/Shadow-sword/tg-tldr/internal/biz/usecase"
)

// GroupConfig describes one monitored group.
type GroupConfig struct {
	Name      string             `yaml:"name"`
	ID        int64              `yaml:"id"`
	SummaryTo int64              `yaml:"summary_to"`
	Prompt    string             `yaml:"prompt"`
	Filters   domain.FilterRules `yaml:"filters"`
}

// SummaryConfig controls daily summary generation.
type SummaryConfig struct {
	Schedule      string `yaml:"schedule"` // "HH:MM"
	Timezone      string `yaml:"timezone"`
	DefaultSendTo int64  `yaml:"default_send_to"`
	Model         string `yaml:"model"`
	Prompt        string `yaml:"prompt"`
}

// TelegramConfig holds the bot credentials (environment only).
type TelegramConfig struct {
	BotToken string
}

// LLMConfig holds the summarization model credentials (environment only).
type LLMConfig struct {
	APIKey  string
	BaseURL string
}

// Config is the main application configuration.
type Config struct {
	Telegram TelegramConfig
	LLM      LLMConfig
	Groups   []GroupConfig `yaml:"groups"`
	Summary  SummaryConfig `yaml:"summary"`
	DataDir  string        `yaml:"data_dir"`
}

// Load reads the YAML config file and overlays environment variables.
// Call godotenv.Load beforehand when a .env file should contribute.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w (copy config.example.yaml to config.yaml and fill in your settings)", path, err)
	}

	cfg := &Config{
		Summary: SummaryConfig{
			Schedule: "09:00",
			Timezone: "Asia/Shanghai",
		},
		DataDir: "data",
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	cfg.Telegram.BotToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	cfg.LLM.APIKey = os.Getenv("LLM_API_KEY")
	cfg.LLM.BaseURL = os.Getenv("LLM_BASE_URL")

	if cfg.Summary.Prompt == "" {
		cfg.Summary.Prompt = DefaultSummaryPrompt
	}
	return cfg, nil
}

// Validate checks the fields every command needs.
func (c *Config) Validate() error {
	if len(c.Groups) == 0 {
		return &ConfigError{Field: "groups", Message: "at least one group required"}
	}
	for _, g := range c.Groups {
		if g.ID == 0 {
			return &ConfigError{Field: "groups", Message: fmt.Sprintf("group %q has no id", g.Name)}
		}
	}
	return nil
}

// ValidateDaemon additionally checks the credentials the daemon needs.
func (c *Config) ValidateDaemon() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Telegram.BotToken == "" {
		return &ConfigError{Field: "TELEGRAM_BOT_TOKEN", Message: "required"}
	}
	if c.LLM.APIKey == "" {
		return &ConfigError{Field: "LLM_API_KEY", Message: "required"}
	}
	return nil
}

// DBPath returns the SQLite database location under the data directory.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "messages.db")
}

// GroupByID finds a group config by chat id.
func (c *Config) GroupByID(id int64) *GroupConfig {
	for i := range c.Groups {
		if c.Groups[i].ID == id {
			return &c.Groups[i]
		}
	}
	return nil
}

// GroupByName finds a group config by display name.
func (c *Config) GroupByName(name string) *GroupConfig {
	for i := range c.Groups {
		if c.Groups[i].Name == name {
			return &c.Groups[i]
		}
	}
	return nil
}

// SummaryTarget returns the chat a group's summary is delivered to,
// falling back to the global default. Zero means "do not deliver".
func (c *Config) SummaryTarget(g *GroupConfig) int64 {
	if g.SummaryTo != 0 {
		return g.SummaryTo
	}
	return c.Summary.DefaultSendTo
}

// GroupInfo converts a group config for the summarize usecase.
func (g *GroupConfig) GroupInfo() usecase.GroupInfo {
	return usecase.GroupInfo{
		ID:     g.ID,
		Name:   g.Name,
		Prompt: g.Prompt,
	}
}

// ConfigError reports an invalid or missing configuration value.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
