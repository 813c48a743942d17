// Package config содержит загрузку и валидацию конфигурации.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config представляет конфигурацию приложения
type Config struct {
	// Discord
	BotToken       string
	GuildID        string
	OperatorRoleID string

	// Каналы
	AdminChannelID    string
	BirthdayChannelID string
	QuoteChannelID    string
	PosterChannelID   string

	// Хранилище
	DataDir string

	// Таймзона расписаний
	Timezone string

	// Расписания по умолчанию
	BirthdayDefaults ScheduleDefaults
	QuoteDefaults    ScheduleDefaults

	// Интерактивные команды
	ConfirmTimeout time.Duration
	LotteryMax     int

	// HTTP клиент (CDN, скрейпер)
	HTTPClientConfig HTTPClientConfig

	// Скрейпер
	ScraperConfig ScraperConfig

	// Logging
	LogLevel string
}

// ScheduleDefaults представляет настройки расписания по умолчанию для фичи
type ScheduleDefaults struct {
	Enabled bool
	Days    int
	Hour    int
	Minute  int
}

// HTTPClientConfig представляет конфигурацию HTTP клиента
type HTTPClientConfig struct {
	Timeout               time.Duration
	MaxIdleConns          int
	MaxIdleConnsPerHost   int
	IdleConnTimeout       time.Duration
	ResponseHeaderTimeout time.Duration
}

// ScraperConfig представляет конфигурацию скрейпера страниц персонажей
type ScraperConfig struct {
	BaseURL      string
	MaxRetries   int
	RequestDelay time.Duration
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	// Загружаем .env файл если он существует
	_ = godotenv.Load()

	config := &Config{
		BotToken:          getEnv("DISCORD_TOKEN", ""),
		GuildID:           getEnv("GUILD_ID", ""),
		OperatorRoleID:    getEnv("OPERATOR_ROLE_ID", ""),
		AdminChannelID:    getEnv("ADMIN_CHANNEL_ID", ""),
		BirthdayChannelID: getEnv("BIRTHDAY_CHANNEL_ID", ""),
		QuoteChannelID:    getEnv("QUOTE_CHANNEL_ID", ""),
		PosterChannelID:   getEnv("POSTER_CHANNEL_ID", ""),
		DataDir:           getEnv("APP_DATA_DIR", "./data"),
		Timezone:          getEnv("TIMEZONE", "Asia/Tokyo"),
		BirthdayDefaults: ScheduleDefaults{
			Enabled: getEnvBool("BIRTHDAY_DEFAULT_ENABLED", true),
			Days:    getEnvInt("BIRTHDAY_DEFAULT_DAYS", 1),
			Hour:    getEnvInt("BIRTHDAY_DEFAULT_HOUR", 9),
			Minute:  getEnvInt("BIRTHDAY_DEFAULT_MINUTE", 0),
		},
		QuoteDefaults: ScheduleDefaults{
			Enabled: getEnvBool("QUOTE_DEFAULT_ENABLED", true),
			Days:    getEnvInt("QUOTE_DEFAULT_DAYS", 1),
			Hour:    getEnvInt("QUOTE_DEFAULT_HOUR", 9),
			Minute:  getEnvInt("QUOTE_DEFAULT_MINUTE", 0),
		},
		ConfirmTimeout: getEnvDuration("CONFIRM_TIMEOUT", 30*time.Second),
		LotteryMax:     getEnvInt("LOTTERY_MAX", 50),
		HTTPClientConfig: HTTPClientConfig{
			Timeout:               getEnvDuration("HTTP_TIMEOUT", 30*time.Second),
			MaxIdleConns:          getEnvInt("HTTP_MAX_IDLE_CONNS", 100),
			MaxIdleConnsPerHost:   getEnvInt("HTTP_MAX_IDLE_CONNS_PER_HOST", 10),
			IdleConnTimeout:       getEnvDuration("HTTP_IDLE_CONN_TIMEOUT", 90*time.Second),
			ResponseHeaderTimeout: getEnvDuration("HTTP_RESPONSE_HEADER_TIMEOUT", 30*time.Second),
		},
		ScraperConfig: ScraperConfig{
			BaseURL:      getEnv("CHARACTER_BASE_URL", "https://zircon.konami.net/nft/character"),
			MaxRetries:   getEnvInt("SCRAPER_MAX_RETRIES", 3),
			RequestDelay: getEnvDuration("SCRAPER_REQUEST_DELAY", 2*time.Second),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate проверяет обязательные поля и диапазоны
func (c *Config) Validate() error {
	if c.BotToken == "" {
		return fmt.Errorf("DISCORD_TOKEN is required")
	}
	if c.DataDir == "" {
		return fmt.Errorf("APP_DATA_DIR cannot be empty")
	}
	if err := c.BirthdayDefaults.validate("birthday"); err != nil {
		return err
	}
	if err := c.QuoteDefaults.validate("quote"); err != nil {
		return err
	}
	if c.LotteryMax < 1 {
		return fmt.Errorf("LOTTERY_MAX must be at least 1")
	}
	if c.ConfirmTimeout <= 0 {
		return fmt.Errorf("CONFIRM_TIMEOUT must be positive")
	}
	return nil
}

// validate проверяет диапазоны расписания по умолчанию
func (d ScheduleDefaults) validate(feature string) error {
	if d.Days < 1 {
		return fmt.Errorf("%s default days must be at least 1", feature)
	}
	if d.Hour < 0 || d.Hour > 23 {
		return fmt.Errorf("%s default hour must be in range 0-23", feature)
	}
	if d.Minute < 0 || d.Minute > 59 {
		return fmt.Errorf("%s default minute must be in range 0-59", feature)
	}
	return nil
}

// Location возвращает таймзону расписаний с фолбэком на UTC+9
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.FixedZone("JST", 9*60*60)
	}
	return loc
}

// getEnv получает строковую переменную окружения со значением по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt получает целочисленную переменную окружения со значением по умолчанию
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvBool получает булеву переменную окружения со значением по умолчанию
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvDuration получает duration-переменную окружения со значением по умолчанию
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
