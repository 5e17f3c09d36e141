package configs

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// DevJWTSecret is used when JWT_SECRET is not set
const DevJWTSecret = "fallback-secret-key"

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Auth     AuthConfig     `yaml:"auth"`
	Storage  StorageConfig  `yaml:"storage"`
	Chat     ChatConfig     `yaml:"chat"`
	Flask    FlaskConfig    `yaml:"flask"`
	Signals  SignalsConfig  `yaml:"signals"`
	Telegram TelegramConfig `yaml:"telegram"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port       string `yaml:"port"`
	OpsPort    string `yaml:"ops_port"`
	Env        string `yaml:"env"`
	CORSOrigin string `yaml:"cors_origin"`
}

// AuthConfig holds token signing configuration
type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

// StorageConfig selects the user store
type StorageConfig struct {
	UsersFile   string `yaml:"users_file"`
	DatabaseURL string `yaml:"database_url"`
}

// ChatConfig holds the Evo AI agent configuration
type ChatConfig struct {
	AgentBaseURL string        `yaml:"agent_base_url"`
	APIKey       string        `yaml:"api_key"`
	Timeout      time.Duration `yaml:"timeout"`
}

// FlaskConfig holds the Python signal service configuration
type FlaskConfig struct {
	Port string `yaml:"port"`
	URL  string `yaml:"url"`
}

// SignalsConfig holds signal feed settings
type SignalsConfig struct {
	CacheTTL        time.Duration `yaml:"cache_ttl"`
	RefreshSchedule string        `yaml:"refresh_schedule"`
}

// TelegramConfig holds Telegram notification settings
type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	ChatID   string `yaml:"chat_id"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load loads configuration from an optional YAML file and environment variables.
// Environment variables take precedence over the file.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if cfg.Flask.URL == "" {
		cfg.Flask.URL = fmt.Sprintf("http://localhost:%s", cfg.Flask.Port)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:       "5002",
			OpsPort:    "9090",
			Env:        "development",
			CORSOrigin: "http://localhost:5173",
		},
		Auth: AuthConfig{
			JWTSecret: DevJWTSecret,
			TokenTTL:  time.Hour,
		},
		Storage: StorageConfig{
			UsersFile: "users.json",
		},
		Chat: ChatConfig{
			Timeout: 60 * time.Second,
		},
		Flask: FlaskConfig{
			Port: "5000",
		},
		Signals: SignalsConfig{
			CacheTTL:        30 * time.Second,
			RefreshSchedule: "@every 30s",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

func applyEnv(cfg *Config) error {
	cfg.Server.Port = getEnv("PORT", cfg.Server.Port)
	cfg.Server.OpsPort = getEnv("OPS_PORT", cfg.Server.OpsPort)
	cfg.Server.Env = getEnv("GO_ENV", cfg.Server.Env)
	cfg.Server.CORSOrigin = getEnv("CORS_ORIGIN", cfg.Server.CORSOrigin)

	cfg.Auth.JWTSecret = getEnv("JWT_SECRET", cfg.Auth.JWTSecret)

	cfg.Storage.UsersFile = getEnv("USERS_FILE", cfg.Storage.UsersFile)
	cfg.Storage.DatabaseURL = getEnv("DATABASE_URL", cfg.Storage.DatabaseURL)

	cfg.Chat.AgentBaseURL = getEnv("EVO_AI_AGENT_BASE_URL", cfg.Chat.AgentBaseURL)
	cfg.Chat.APIKey = getEnv("EVO_AI_API_KEY", cfg.Chat.APIKey)

	cfg.Flask.Port = getEnv("FLASK_PORT", cfg.Flask.Port)
	cfg.Flask.URL = getEnv("FLASK_URL", cfg.Flask.URL)

	cfg.Signals.RefreshSchedule = getEnv("SIGNALS_REFRESH_SCHEDULE", cfg.Signals.RefreshSchedule)

	cfg.Telegram.BotToken = getEnv("TELEGRAM_BOT_TOKEN", cfg.Telegram.BotToken)
	cfg.Telegram.ChatID = getEnv("TELEGRAM_CHAT_ID", cfg.Telegram.ChatID)

	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("LOG_FORMAT", cfg.Log.Format)

	var err error
	if cfg.Chat.Timeout, err = getDuration("CHAT_TIMEOUT", cfg.Chat.Timeout); err != nil {
		return err
	}
	if cfg.Signals.CacheTTL, err = getDuration("SIGNALS_CACHE_TTL", cfg.Signals.CacheTTL); err != nil {
		return err
	}

	return nil
}

// Validate checks values that would otherwise fail at startup
func (c *Config) Validate() error {
	for name, port := range map[string]string{"PORT": c.Server.Port, "OPS_PORT": c.Server.OpsPort, "FLASK_PORT": c.Flask.Port} {
		if n, err := strconv.Atoi(port); err != nil || n <= 0 || n > 65535 {
			return fmt.Errorf("invalid %s: %q", name, port)
		}
	}

	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("token TTL must be positive")
	}

	if _, err := cron.ParseStandard(c.Signals.RefreshSchedule); err != nil {
		return fmt.Errorf("invalid SIGNALS_REFRESH_SCHEDULE: %w", err)
	}

	return nil
}

// IsProduction reports whether GO_ENV is production
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// UsesDevSecret reports whether tokens are signed with the development fallback secret
func (c *Config) UsesDevSecret() bool {
	return c.Auth.JWTSecret == DevJWTSecret
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
