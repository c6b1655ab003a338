package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

var (
	exeDirCache string
)

// getExecutableDir returns the directory where the executable is located
func getExecutableDir() string {
	if exeDirCache != "" {
		return exeDirCache
	}
	execPath, err := os.Executable()
	if err != nil {
		exeDirCache = "."
		return exeDirCache
	}
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		exeDirCache = "."
		return exeDirCache
	}
	exeDirCache = filepath.Dir(execPath)
	return exeDirCache
}

type Config struct {
	Agency      AgencyConfig      `yaml:"agency,omitempty"`
	AI          AIConfig          `yaml:"ai,omitempty"`
	Storage     StorageConfig     `yaml:"storage,omitempty"`
	Maintenance MaintenanceConfig `yaml:"maintenance,omitempty"`
	Logging     LoggingConfig     `yaml:"logging"`
	Platforms   PlatformConfig    `yaml:"platforms,omitempty"`
	Web         WebConfig         `yaml:"web,omitempty"`
}

// AgencyConfig holds the agency identity used in assistant replies
type AgencyConfig struct {
	Name            string `yaml:"name,omitempty"`
	AssistantName   string `yaml:"assistant_name,omitempty"`
	SubmissionEmail string `yaml:"submission_email,omitempty"`
}

// AIConfig selects the optional reply-phrasing provider.
// When no API key is available the assistant runs fully scripted.
type AIConfig struct {
	Provider   string `yaml:"provider,omitempty"` // "openai", "anthropic" or "" (scripted)
	APIKey     string `yaml:"api_key,omitempty"`
	BaseURL    string `yaml:"base_url,omitempty"`
	Model      string `yaml:"model,omitempty"`
	MaxRetries int    `yaml:"max_retries,omitempty"`
}

type StorageConfig struct {
	DBPath        string `yaml:"db_path,omitempty"`
	ExportDir     string `yaml:"export_dir,omitempty"`
	RetentionDays int    `yaml:"retention_days,omitempty"`
}

type MaintenanceConfig struct {
	CleanupSchedule  string `yaml:"cleanup_schedule,omitempty"`
	ReminderSchedule string `yaml:"reminder_schedule,omitempty"`
}

type PlatformConfig struct {
	Telegram TelegramConfig `yaml:"telegram,omitempty"`
	Discord  DiscordConfig  `yaml:"discord,omitempty"`
}

type TelegramConfig struct {
	Token string `yaml:"token,omitempty"`
}

type DiscordConfig struct {
	Token string `yaml:"token,omitempty"`
}

type WebConfig struct {
	Port int `yaml:"port,omitempty"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

func DefaultConfig() *Config {
	return &Config{
		Agency: AgencyConfig{
			Name:            "TDH Agency",
			AssistantName:   "Emily",
			SubmissionEmail: "info@tdhagency.com",
		},
		AI: AIConfig{
			MaxRetries: 3,
		},
		Storage: StorageConfig{
			DBPath:        filepath.Join(ConfigDir(), "applications.db"),
			ExportDir:     filepath.Join(ConfigDir(), "exports"),
			RetentionDays: 30,
		},
		Maintenance: MaintenanceConfig{
			CleanupSchedule:  "0 0 4 * * *",
			ReminderSchedule: "0 0 9 * * 1",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Web: WebConfig{
			Port: 8686,
		},
	}
}

func ConfigDir() string {
	exeDir := getExecutableDir()
	return filepath.Join(exeDir, ".emily")
}

func ConfigPath() string {
	exeDir := getExecutableDir()
	return filepath.Join(exeDir, ".emily.yaml")
}

func Load() (*Config, error) {
	return LoadFromPath(ConfigPath())
}

// LoadFromPath loads the config from an explicit path, falling back to
// defaults when the file does not exist.
func LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnv()
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv fills in credentials from the environment when the config
// file leaves them empty.
func (c *Config) applyEnv() {
	if c.AI.APIKey == "" {
		switch c.AI.Provider {
		case "anthropic":
			c.AI.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		case "openai":
			c.AI.APIKey = os.Getenv("OPENAI_API_KEY")
		}
	}
	if c.Platforms.Telegram.Token == "" {
		c.Platforms.Telegram.Token = os.Getenv("TELEGRAM_BOT_TOKEN")
	}
	if c.Platforms.Discord.Token == "" {
		c.Platforms.Discord.Token = os.Getenv("DISCORD_BOT_TOKEN")
	}
}

func (c *Config) Save() error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(ConfigPath(), data, 0600)
}
