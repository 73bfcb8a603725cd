package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Defaults for the batch pipeline. The 50-of-70 stage completion policy
// is tunable through the environment.
const (
	DefaultChunkSize        = 50
	DefaultConcurrency      = 5
	DefaultStageTarget      = 50
	DefaultStageItemBudget  = 70
	DefaultScheduleHour     = 22
	DefaultScheduleMinute   = 0
	DefaultTimezone         = "Asia/Seoul"
	DefaultOllamaBaseURL    = "http://localhost:11434"
	DefaultOllamaModel      = "gemma"
	DefaultOllamaTimeoutSec = 30
	DefaultHTTPPort         = "8000"
)

// Database holds connection settings for the relational store.
type Database struct {
	Type     string // "postgres" or "sqlite"
	Host     string
	Port     int
	Name     string
	User     string
	Password string
	Path     string // sqlite file path
}

// Ollama holds settings for the text-generation service.
type Ollama struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Batch holds the orchestrator knobs. ChunkSize bounds batch granularity,
// Concurrency bounds simultaneous text-generation calls.
type Batch struct {
	ChunkSize   int
	Concurrency int
	Timezone    string
}

// Progress holds the stage completion policy.
type Progress struct {
	StageTarget     int // cumulative correct answers to complete a stage
	StageItemBudget int // items per stage
}

// Schedule holds the daily feedback job trigger.
type Schedule struct {
	Enabled bool
	Hour    int
	Minute  int
}

// Config is the full application configuration, loaded from the
// environment with an optional .env file.
type Config struct {
	Database      Database
	Ollama        Ollama
	Batch         Batch
	Progress      Progress
	Schedule      Schedule
	HTTPPort      string
	TelegramToken string
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present.
func Load() (*Config, error) {
	// Missing .env is fine; env vars may come from the process environment.
	_ = godotenv.Load()

	cfg := &Config{
		Database: Database{
			Type:     getEnv("DB_TYPE", "postgres"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			Name:     getEnv("DB_NAME", "lingofeed"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Path:     getEnv("DB_PATH", "data/lingofeed.db"),
		},
		Ollama: Ollama{
			BaseURL: getEnv("OLLAMA_BASE_URL", DefaultOllamaBaseURL),
			Model:   getEnv("OLLAMA_MODEL", DefaultOllamaModel),
			Timeout: time.Duration(getEnvInt("OLLAMA_TIMEOUT_SECONDS", DefaultOllamaTimeoutSec)) * time.Second,
		},
		Batch: Batch{
			ChunkSize:   getEnvInt("BATCH_CHUNK_SIZE", DefaultChunkSize),
			Concurrency: getEnvInt("BATCH_CONCURRENCY", DefaultConcurrency),
			Timezone:    getEnv("BATCH_TIMEZONE", DefaultTimezone),
		},
		Progress: Progress{
			StageTarget:     getEnvInt("STAGE_CORRECT_TARGET", DefaultStageTarget),
			StageItemBudget: getEnvInt("STAGE_ITEM_BUDGET", DefaultStageItemBudget),
		},
		Schedule: Schedule{
			Enabled: getEnvBool("SCHEDULE_ENABLED", true),
			Hour:    getEnvInt("SCHEDULE_HOUR", DefaultScheduleHour),
			Minute:  getEnvInt("SCHEDULE_MINUTE", DefaultScheduleMinute),
		},
		HTTPPort:      getEnv("HTTP_PORT", DefaultHTTPPort),
		TelegramToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
	}

	if cfg.Batch.ChunkSize <= 0 {
		return nil, fmt.Errorf("BATCH_CHUNK_SIZE must be positive, got %d", cfg.Batch.ChunkSize)
	}
	if cfg.Batch.Concurrency <= 0 {
		return nil, fmt.Errorf("BATCH_CONCURRENCY must be positive, got %d", cfg.Batch.Concurrency)
	}
	if cfg.Schedule.Hour < 0 || cfg.Schedule.Hour > 23 || cfg.Schedule.Minute < 0 || cfg.Schedule.Minute > 59 {
		return nil, fmt.Errorf("invalid schedule time %02d:%02d", cfg.Schedule.Hour, cfg.Schedule.Minute)
	}
	if _, err := time.LoadLocation(cfg.Batch.Timezone); err != nil {
		return nil, fmt.Errorf("invalid BATCH_TIMEZONE %q: %v", cfg.Batch.Timezone, err)
	}
	return cfg, nil
}

// Location resolves the configured batch timezone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Batch.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}
