package main

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// serverConfig holds everything the HTTP binary reads from the environment.
type serverConfig struct {
	Port         string
	DBPath       string
	OpenAIAPIKey string
	Model        string
	SessionTTL   time.Duration
}

func loadConfig() (serverConfig, error) {
	cfg := serverConfig{
		Port:       getEnv("PORT", "8080"),
		DBPath:     getEnv("DB_PATH", "./data/futurewindow.db"),
		Model:      getEnv("OPENAI_MODEL", "gpt-4.1"),
		SessionTTL: time.Duration(getEnvInt("SESSION_TTL_MINUTES", 60)) * time.Minute,

		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
	}

	if cfg.Port == "" {
		return cfg, fmt.Errorf("PORT cannot be empty")
	}
	if cfg.OpenAIAPIKey == "" {
		return cfg, fmt.Errorf("OPENAI_API_KEY is required")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
