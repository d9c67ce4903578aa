// Package config содержит логику чтения конфигурации сервиса SwipeRight.
package config

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config содержит параметры конфигурации сервиса SwipeRight.
type Config struct {
	RunAddress     string `env:"RUN_ADDRESS"`
	DatabaseURI    string `env:"DATABASE_URI"`
	AuthSecret     string `env:"AUTH_SECRET"`
	ChatAPIAddress string `env:"CHAT_API_ADDRESS"`
	ChatAPIKey     string `env:"CHAT_API_KEY"`
	CardAPIAddress string `env:"CARD_API_ADDRESS"`
	CardAPIKey     string `env:"CARD_API_KEY"`
}

// Parse считывает конфигурацию из флагов командной строки и переменных окружения.
// Значения переменных окружения имеют приоритет над флагами.
func Parse() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envRunAddress := cfg.RunAddress
	envDatabaseURI := cfg.DatabaseURI
	envAuthSecret := cfg.AuthSecret
	envChatAddress := cfg.ChatAPIAddress
	envCardAddress := cfg.CardAPIAddress

	flag.StringVar(&cfg.RunAddress, "a", "localhost:8080", "address and port for HTTP server")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "database URI")
	flag.StringVar(&cfg.AuthSecret, "s", "", "secret key for signing session tokens")
	flag.StringVar(&cfg.ChatAPIAddress, "c", "https://api.deepseek.com", "chat completion API address")
	flag.StringVar(&cfg.CardAPIAddress, "m", "", "card metadata API address")

	flag.Parse()

	if envRunAddress != "" {
		cfg.RunAddress = envRunAddress
	}
	if envDatabaseURI != "" {
		cfg.DatabaseURI = envDatabaseURI
	}
	if envAuthSecret != "" {
		cfg.AuthSecret = envAuthSecret
	}
	if envChatAddress != "" {
		cfg.ChatAPIAddress = envChatAddress
	}
	if envCardAddress != "" {
		cfg.CardAPIAddress = envCardAddress
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = "localhost:8080"
	}
	if cfg.AuthSecret == "" {
		cfg.AuthSecret = "swiperight-secret"
	}

	return cfg, nil
}
