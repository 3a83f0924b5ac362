package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds all runtime settings for the sharing server.
type Config struct {
	ListenAddr  string `env:"LISTEN_ADDR" envDefault:":8184"`
	DataDir     string `env:"DATA_DIR" envDefault:"./data/drawings"`
	APIKey      string `env:"API_KEY"`
	BaseURL     string `env:"BASE_URL" envDefault:"http://localhost:8184"`
	MaxUploadMB int    `env:"MAX_UPLOAD_MB" envDefault:"50"`
	FrontendDir string `env:"FRONTEND_DIR" envDefault:"./frontend/dist"`
}

// Load reads configuration from the environment. The API key has no
// default; upload and delete would otherwise be open to everyone.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API_KEY must be set")
	}
	if cfg.MaxUploadMB <= 0 {
		return nil, fmt.Errorf("MAX_UPLOAD_MB must be positive, got %d", cfg.MaxUploadMB)
	}
	return cfg, nil
}
