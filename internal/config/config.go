package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	productionBaseURL  = "https://filmosphere.onrender.com/api"
	developmentBaseURL = "http://127.0.0.1:8000/api"
)

// Config represents the client configuration structure
type Config struct {
	Environment string `split_words:"true" default:"development"`
	BaseURL     string `split_words:"true"`
	TokenPath   string `split_words:"true"`
}

// LoadFromEnv loads a new configuration structure using environment variables and an optional .env file
func LoadFromEnv() (*Config, error) {
	// Load a .env file if it exists
	_ = godotenv.Overload()

	// Load a new configuration structure using environment variables
	config := new(Config)
	if err := envconfig.Process("fs", config); err != nil {
		return nil, err
	}

	// The base URL is resolved exactly once here, never per call
	if config.BaseURL == "" {
		if config.IsEnvProduction() {
			config.BaseURL = productionBaseURL
		} else {
			config.BaseURL = developmentBaseURL
		}
	}
	if config.TokenPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		config.TokenPath = filepath.Join(home, ".filmosphere", "session.json")
	}
	return config, nil
}

// IsEnvProduction returns whether the client is configured to talk to the production backend
func (c *Config) IsEnvProduction() bool {
	return c.Environment == "production"
}
