package config

import (
	"fmt"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort int    `env:"SERVER_PORT" envDefault:"8000"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
	LogMode    string `env:"LOG_MODE" envDefault:"development"`

	// Database configuration. When DATABASE_URL is empty the app falls back
	// to a local SQLite file, which keeps development setups zero-config.
	DatabaseURL string `env:"DATABASE_URL"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"bazaar_radar.db"`

	// Redis configuration (optional; caching is disabled when unreachable)
	RedisHost     string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     string `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	// External provider credentials. A missing key disables that source;
	// the pipeline keeps running on whatever signals remain.
	OpenWeatherAPIKey  string `env:"OPENWEATHER_API_KEY"`
	CalendarificAPIKey string `env:"CALENDARIFIC_API_KEY"`
	NewsAPIKey         string `env:"NEWSAPI_API_KEY"`

	// Pipeline configuration
	AlertCheckIntervalMinutes int    `env:"ALERT_CHECK_INTERVAL_MINUTES" envDefault:"30"`
	SourceTimeoutSeconds      int    `env:"SOURCE_TIMEOUT_SECONDS" envDefault:"10"`
	ModelPath                 string `env:"ML_MODEL_PATH" envDefault:"ml/model.json"`
}

// Load reads configuration from the environment, loading a .env file first
// if one exists.
func Load() (*Config, error) {
	// .env is optional; real deployments set variables directly
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}
