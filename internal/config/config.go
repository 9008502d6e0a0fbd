// Package config содержит логику чтения конфигурации сервиса краудфандинга.
package config

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config содержит параметры конфигурации сервиса краудфандинга.
type Config struct {
	RunAddress        string `env:"RUN_ADDRESS"`
	DatabaseURI       string `env:"DATABASE_URI"`
	StripeAPIAddress  string `env:"STRIPE_API_ADDRESS"`
	StripeSecretKey   string `env:"STRIPE_SECRET_KEY"`
	AuthSecret        string `env:"AUTH_SECRET"`
	CheckoutReturnURL string `env:"CHECKOUT_RETURN_URL"`
}

// Parse считывает конфигурацию из флагов командной строки и переменных окружения.
func Parse() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envRunAddress := cfg.RunAddress
	envDatabaseURI := cfg.DatabaseURI
	envStripeAddress := cfg.StripeAPIAddress
	envStripeKey := cfg.StripeSecretKey
	envAuthSecret := cfg.AuthSecret
	envReturnURL := cfg.CheckoutReturnURL

	flag.StringVar(&cfg.RunAddress, "a", "localhost:8080", "address and port for HTTP server")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "database URI")
	flag.StringVar(&cfg.StripeAPIAddress, "s", "", "payment provider API address")
	flag.StringVar(&cfg.StripeSecretKey, "sk", "", "payment provider secret key")
	flag.StringVar(&cfg.AuthSecret, "k", "", "token signing secret")
	flag.StringVar(&cfg.CheckoutReturnURL, "u", "http://localhost:3000/donation/result", "checkout return URL")

	flag.Parse()

	if envRunAddress != "" {
		cfg.RunAddress = envRunAddress
	}
	if envDatabaseURI != "" {
		cfg.DatabaseURI = envDatabaseURI
	}
	if envStripeAddress != "" {
		cfg.StripeAPIAddress = envStripeAddress
	}
	if envStripeKey != "" {
		cfg.StripeSecretKey = envStripeKey
	}
	if envAuthSecret != "" {
		cfg.AuthSecret = envAuthSecret
	}
	if envReturnURL != "" {
		cfg.CheckoutReturnURL = envReturnURL
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = "localhost:8080"
	}

	return cfg, nil
}
