package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
	log "github.com/sirupsen/logrus"
)

const (
	StoreSQLite   = "sqlite"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
	StoreMemory   = "memory"

	DefaultGenerationTimeout = 60 * time.Second
	DefaultCalorieTarget     = 2000
	DefaultGenerationAPIURL  = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent"
)

type Config struct {
	Environment string `toml:"environment"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStderr   bool   `toml:"log_to_stderr"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// persistence
	Store          string `toml:"store"`
	SQLitePath     string `toml:"sqlite_path"`
	RedisHost      string `toml:"redis_host"`
	RedisPort      string `toml:"redis_port"`
	RedisKeyPrefix string `toml:"redis_key_prefix"`
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`
	PostgresUser   string `toml:"postgres_user"`

	// generation
	GenerationAPIURL         string   `toml:"generation_api_url"`
	GenerationTimeout        Duration `toml:"generation_timeout"`
	GenerationRatePerMinute  int      `toml:"generation_rate_per_minute"`
	NutritionCacheSizeMB     int      `toml:"nutrition_cache_size_mb"`
	NutritionCacheTTLSeconds int      `toml:"nutrition_cache_ttl_seconds"`

	// tracker
	DailyCalorieTarget int    `toml:"daily_calorie_target"`
	Timezone           string `toml:"timezone"`

	// telemetry
	HoneycombEnabled bool   `toml:"honeycomb_enabled"`
	PushgatewayURL   string `toml:"pushgateway_url"`

	// backups
	BackupDir         string `toml:"backup_dir"`
	GDriveFolderName  string `toml:"gdrive_folder_name"`
	GDriveBackupsOn   bool   `toml:"gdrive_backups_enabled"`
	GDriveShareWith   string `toml:"gdrive_share_with"`

	Secrets Secrets `toml:"-"`
}

// Secrets never live in the TOML file.
type Secrets struct {
	GeminiAPIKey      string `env:"FITDIET_GEMINI_API_KEY"`
	RedisPassword     string `env:"FITDIET_REDIS_PASS"`
	PostgresPassword  string `env:"FITDIET_POSTGRES_PASS"`
	SentryDSN         string `env:"SENTRY_DSN"`
	GDriveCredentials string `env:"FITDIET_GDRIVE_CREDENTIALS"`
}

// Duration lets TOML carry values like "45s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", text, err)
	}
	d.Duration = parsed
	return nil
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

// Load reads the env section of the TOML file at path, fills defaults and
// resolves secrets from the environment (and an optional .env file).
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("config section for env [%s] missing", env)
	}

	if cfg.Environment == "" {
		cfg.Environment = strings.ToLower(env)
	}
	cfg.applyDefaults()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warnf("load .env file: %s", err)
	}

	if err := envconfig.Process(context.Background(), &cfg.Secrets); err != nil {
		return nil, fmt.Errorf("process env secrets: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Store == "" {
		c.Store = StoreSQLite
	}
	if c.SQLitePath == "" {
		c.SQLitePath = "./fitdiet.db"
	}
	if c.RedisPort == "" {
		c.RedisPort = "6379"
	}
	if c.PostgresPort == "" {
		c.PostgresPort = "5432"
	}
	if c.PostgresDBName == "" {
		c.PostgresDBName = "fitdiet"
	}
	if c.GenerationAPIURL == "" {
		c.GenerationAPIURL = DefaultGenerationAPIURL
	}
	if c.GenerationTimeout.Duration == 0 {
		c.GenerationTimeout.Duration = DefaultGenerationTimeout
	}
	if c.NutritionCacheSizeMB <= 0 {
		c.NutritionCacheSizeMB = 10
	}
	if c.NutritionCacheTTLSeconds <= 0 {
		c.NutritionCacheTTLSeconds = 60 * 60
	}
	if c.DailyCalorieTarget <= 0 {
		c.DailyCalorieTarget = DefaultCalorieTarget
	}
	if c.BackupDir == "" {
		c.BackupDir = "./backups"
	}
	if c.GDriveFolderName == "" {
		c.GDriveFolderName = "fitdiet-backup"
	}
}

func (c *Config) Validate() error {
	switch c.Store {
	case StoreSQLite, StoreRedis, StorePostgres, StoreMemory:
	default:
		return fmt.Errorf("unknown store type: %s", c.Store)
	}
	if c.Timezone != "" {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
		}
	}
	return nil
}

// Location is the zone used to decide which entries belong to "today".
func (c *Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
