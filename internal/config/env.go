package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

func init() {
	// Load .env file if it exists (silently ignore if not found)
	_ = godotenv.Load()
}

type Config struct {
	// Required
	DiscordBotToken string
	OpenAIAPIKey    string

	// Optional with defaults
	BindChannelName string
	OpenAIModel     string
	RequestTimeout  time.Duration

	// Optional Google Calendar mirror
	GoogleCredentialsFile string
	GoogleTokenFile       string
	GoogleCalendarID      string

	// Optional email notification on publish
	ResendAPIKey string
	EmailFrom    string
	EmailTo      string
}

func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		// Required
		DiscordBotToken: os.Getenv("EVENTBOT_DISCORD_TOKEN"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),

		// Optional with defaults
		BindChannelName: getEnvOrDefault("EVENTBOT_CHANNEL_NAME", "eventbot"),
		OpenAIModel:     getEnvOrDefault("EVENTBOT_OPENAI_MODEL", "gpt-4o-mini"),
		RequestTimeout:  getEnvAsDurationOrDefault("EVENTBOT_REQUEST_TIMEOUT", 60*time.Second),

		GoogleCredentialsFile: os.Getenv("GOOGLE_CREDENTIALS_FILE"),
		GoogleTokenFile:       getEnvOrDefault("GOOGLE_TOKEN_FILE", "./token.json"),
		GoogleCalendarID:      getEnvOrDefault("EVENTBOT_GOOGLE_CALENDAR_ID", "primary"),

		ResendAPIKey: os.Getenv("RESEND_API_KEY"),
		EmailFrom:    os.Getenv("EVENTBOT_EMAIL_FROM"),
		EmailTo:      os.Getenv("EVENTBOT_EMAIL_TO"),
	}

	if cfg.DiscordBotToken == "" {
		return nil, fmt.Errorf("EVENTBOT_DISCORD_TOKEN is required")
	}
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}

	return cfg, nil
}

// MirrorEnabled reports whether confirmed events should also be written to
// Google Calendar.
func (c *Config) MirrorEnabled() bool {
	return c.GoogleCredentialsFile != "" || os.Getenv("GOOGLE_CREDENTIALS_JSON") != ""
}

// NotifyEnabled reports whether publish notifications should be emailed.
func (c *Config) NotifyEnabled() bool {
	return c.ResendAPIKey != "" && c.EmailFrom != "" && c.EmailTo != ""
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
