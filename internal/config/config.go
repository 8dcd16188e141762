// Package config loads process configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
)

const (
	defaultPort          = "5050"
	defaultRealtimeModel = "gpt-4o-realtime-preview-2024-10-01"
	defaultSummaryModel  = "gpt-4o"
	defaultVoice         = "alloy"
	defaultTemperature   = 0.8

	defaultSystemMessage = "You are a helpful and bubbly AI assistant who loves to chat about " +
		"anything the user is interested in and is prepared to offer them facts. " +
		"You have a penchant for dad jokes, owl jokes, and rickrolling - subtly. " +
		"Always stay positive, but work in a joke when appropriate."
)

// Config holds all process configuration. The only required value is the
// OpenAI API key; a missing key is fatal at startup.
type Config struct {
	OpenAIAPIKey  string
	WebhookURL    string
	Port          string
	RealtimeModel string
	SummaryModel  string
	Voice         string
	SystemMessage string
	Temperature   float64
}

// Load reads configuration from the environment and applies defaults.
func Load() (*Config, error) {
	cfg := &Config{
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		WebhookURL:    os.Getenv("WEBHOOK_URL"),
		Port:          getEnvOrDefault("PORT", defaultPort),
		RealtimeModel: getEnvOrDefault("REALTIME_MODEL", defaultRealtimeModel),
		SummaryModel:  getEnvOrDefault("SUMMARY_MODEL", defaultSummaryModel),
		Voice:         getEnvOrDefault("VOICE", defaultVoice),
		SystemMessage: getEnvOrDefault("SYSTEM_MESSAGE", defaultSystemMessage),
		Temperature:   defaultTemperature,
	}

	if cfg.OpenAIAPIKey == "" {
		return nil, errors.New("OPENAI_API_KEY is required")
	}

	if raw := os.Getenv("TEMPERATURE"); raw != "" {
		temperature, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing TEMPERATURE: %w", err)
		}
		cfg.Temperature = temperature
	}

	return cfg, nil
}

func getEnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
