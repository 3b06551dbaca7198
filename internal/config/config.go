package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	ServerPort string `envconfig:"SERVER_PORT" default:"8080"`

	// SelfContained runs against the in-memory store instead of postgres.
	SelfContained bool `envconfig:"SELF_CONTAINED" default:"false"`

	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     string `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"haven"`
	DBPassword string `envconfig:"DB_PASSWORD" default:"haven_dev_password"`
	DBName     string `envconfig:"DB_NAME" default:"haven"`

	JWTSecret string `envconfig:"JWT_SECRET" default:"dev-secret-change-me"`

	ModerationURL       string `envconfig:"MODERATION_URL" default:"https://api.groq.com/openai/v1/chat/completions"`
	ModerationAPIKey    string `envconfig:"MODERATION_API_KEY"`
	ModerationModel     string `envconfig:"MODERATION_MODEL" default:"llama-guard-3-8b"`
	ModerationQueueSize int    `envconfig:"MODERATION_QUEUE_SIZE" default:"256"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return &cfg, nil
}
