package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	Server struct {
		Port         string        `validate:"required"`
		ReadTimeout  time.Duration `validate:"gt=0"`
		WriteTimeout time.Duration `validate:"gt=0"`
		LogLevel     string
	}

	OpenMeteo struct {
		ForecastURL  string        `validate:"required,url"`
		GeocodingURL string        `validate:"required,url"`
		Timeout      time.Duration `validate:"gt=0"`
		HourlyHours  int           `validate:"gt=0"`
		ForecastDays int           `validate:"gt=0,lte=16"`
	}

	CircuitBreaker struct {
		Threshold int           `validate:"gt=0"`
		Timeout   time.Duration `validate:"gt=0"`
	}

	Cache struct {
		Dir string        `validate:"required"`
		TTL time.Duration `validate:"gt=0"`
	}

	Settings struct {
		File string
	}

	Locale struct {
		Language        string
		LanguageDir     string
		TemperatureUnit string
		SpeedUnit       string
		TimeFormat      string
		ShortDateFormat string
		LongDateFormat  string
	}

	Scheduler struct {
		Schedule string        `validate:"required"`
		Timeout  time.Duration `validate:"gt=0"`
	}
}

func LoadConfig() (*Config, error) {
	// Load .env file if exists
	if err := godotenv.Load(); err != nil {
		zap.L().Info("No .env file found, using environment variables")
	}

	cfg := &Config{}

	cfg.Server.Port = getEnv("FIBER_PORT", "8080")
	cfg.Server.ReadTimeout = parseDuration(getEnv("FIBER_READ_TIMEOUT", "10s"))
	cfg.Server.WriteTimeout = parseDuration(getEnv("FIBER_WRITE_TIMEOUT", "10s"))
	cfg.Server.LogLevel = getEnv("LOG_LEVEL", "info")

	cfg.OpenMeteo.ForecastURL = getEnv("OPENMETEO_FORECAST_URL", "https://api.open-meteo.com/v1/forecast")
	cfg.OpenMeteo.GeocodingURL = getEnv("OPENMETEO_GEOCODING_URL", "https://geocoding-api.open-meteo.com/v1/search")
	cfg.OpenMeteo.Timeout = parseDuration(getEnv("HTTP_TIMEOUT", "10s"))
	cfg.OpenMeteo.HourlyHours = parseInt(getEnv("HOURLY_HOURS", "24"))
	cfg.OpenMeteo.ForecastDays = parseInt(getEnv("FORECAST_DAYS", "10"))

	cfg.CircuitBreaker.Threshold = parseInt(getEnv("CIRCUIT_BREAKER_THRESHOLD", "3"))
	cfg.CircuitBreaker.Timeout = parseDuration(getEnv("CIRCUIT_BREAKER_TIMEOUT", "30s"))

	cfg.Cache.Dir = getEnv("CACHE_DIR", "./data/cache")
	cfg.Cache.TTL = parseDuration(getEnv("CACHE_TTL", "60m"))

	cfg.Settings.File = getEnv("SETTINGS_FILE", "./data/settings.yaml")

	// Layouts use Go reference time; the defaults match Kodi's en_gb region.
	cfg.Locale.Language = getEnv("LANGUAGE", "en_gb")
	cfg.Locale.LanguageDir = getEnv("LANGUAGE_DIR", "")
	cfg.Locale.TemperatureUnit = getEnv("TEMPERATURE_UNIT", "°C")
	cfg.Locale.SpeedUnit = getEnv("SPEED_UNIT", "km/h")
	cfg.Locale.TimeFormat = getEnv("TIME_FORMAT", "15:04")
	cfg.Locale.ShortDateFormat = getEnv("SHORT_DATE_FORMAT", "02/01/2006")
	cfg.Locale.LongDateFormat = getEnv("LONG_DATE_FORMAT", "Monday, 2 January 2006")

	cfg.Scheduler.Schedule = getEnv("REFRESH_SCHEDULE", "@every 30m")
	cfg.Scheduler.Timeout = parseDuration(getEnv("REFRESH_TIMEOUT", "60s"))

	// unparsable durations and ints come back as 0
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// ZapLevel maps LOG_LEVEL onto a zap level, defaulting to info.
func (c *Config) ZapLevel() zap.AtomicLevel {
	level, err := zap.ParseAtomicLevel(c.Server.LogLevel)
	if err != nil {
		zap.L().Warn("Unknown log level", zap.String("value", c.Server.LogLevel))
		return zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return level
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(value string) time.Duration {
	duration, err := time.ParseDuration(value)
	if err != nil {
		zap.L().Warn("Failed to parse duration", zap.String("value", value), zap.Error(err))
		return 0
	}
	return duration
}

func parseInt(value string) int {
	intValue, err := strconv.Atoi(value)
	if err != nil {
		zap.L().Warn("Failed to parse int", zap.String("value", value), zap.Error(err))
		return 0
	}
	return intValue
}
