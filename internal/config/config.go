package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const DefaultSystemPrompt = "You are a professional squash coach with 20 years of experience. " +
	"Provide helpful, specific advice for improving squash skills, fitness, and strategy. " +
	"Keep responses concise but informative."

type Config struct {
	AppPort  int    `mapstructure:"APP_PORT" validate:"gt=0,lte=65535"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	OpenAIBaseURL     string        `mapstructure:"OPENAI_BASE_URL" validate:"required,url"`
	OpenAIModel       string        `mapstructure:"OPENAI_MODEL" validate:"required"`
	ConnectTimeout    time.Duration `mapstructure:"CONNECT_TIMEOUT" validate:"gt=0"`
	ReadTimeout       time.Duration `mapstructure:"READ_TIMEOUT" validate:"gt=0"`
	WriteTimeout      time.Duration `mapstructure:"WRITE_TIMEOUT" validate:"gt=0"`
	RequestsPerMinute int           `mapstructure:"REQUESTS_PER_MINUTE" validate:"gte=0"`

	MaxTokens    int     `mapstructure:"MAX_TOKENS" validate:"gt=0"`
	Temperature  float64 `mapstructure:"TEMPERATURE" validate:"gte=0,lte=1"`
	HistoryLimit int     `mapstructure:"HISTORY_LIMIT" validate:"gt=0"`
	SystemPrompt string  `mapstructure:"SYSTEM_PROMPT" validate:"required"`

	CredentialsBackend string `mapstructure:"CREDENTIALS_BACKEND" validate:"oneof=sqlite redis"`
	DatabasePath       string `mapstructure:"DATABASE_PATH"`
	RedisAddr          string `mapstructure:"REDIS_ADDR"`
	MasterKeyPath      string `mapstructure:"MASTER_KEY_PATH" validate:"required"`
	MasterPassphrase   string `mapstructure:"MASTER_PASSPHRASE"`
}

func LoadConfig() (*Config, error) {
	viper.SetDefault("APP_PORT", 8000)
	viper.SetDefault("LOG_LEVEL", "INFO")
	viper.SetDefault("OPENAI_BASE_URL", "https://api.openai.com/v1")
	viper.SetDefault("OPENAI_MODEL", "gpt-3.5-turbo")
	viper.SetDefault("CONNECT_TIMEOUT", 30*time.Second)
	viper.SetDefault("READ_TIMEOUT", 30*time.Second)
	viper.SetDefault("WRITE_TIMEOUT", 30*time.Second)
	viper.SetDefault("REQUESTS_PER_MINUTE", 0)
	viper.SetDefault("MAX_TOKENS", 500)
	viper.SetDefault("TEMPERATURE", 0.7)
	viper.SetDefault("HISTORY_LIMIT", 10)
	viper.SetDefault("SYSTEM_PROMPT", DefaultSystemPrompt)
	viper.SetDefault("CREDENTIALS_BACKEND", "sqlite")
	viper.SetDefault("DATABASE_PATH", "/data/coach.db")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("MASTER_KEY_PATH", "/data/master.key")
	viper.SetDefault("MASTER_PASSPHRASE", "")

	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./backend")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.CredentialsBackend = strings.ToLower(strings.TrimSpace(cfg.CredentialsBackend))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	switch c.CredentialsBackend {
	case "sqlite":
		if c.DatabasePath == "" {
			return fmt.Errorf("invalid configuration: DATABASE_PATH is required for the sqlite backend")
		}
	case "redis":
		if c.RedisAddr == "" {
			return fmt.Errorf("invalid configuration: REDIS_ADDR is required for the redis backend")
		}
	}
	return nil
}
