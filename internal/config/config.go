package config

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	ErrMissingEnvironmentVariables = errors.New("missing required environment variables")
	ErrUnknownStorageDriver        = errors.New("unknown storage driver")
	ErrInvalidConfig               = errors.New("invalid configuration value")
)

// Storage drivers.
const (
	StoragePostgres = "postgres"
	StorageFile     = "file"
	StorageMemory   = "memory"
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string    `mapstructure:"env"`                // current application environment (local, dev, production etc)
	TelegramAPIToken string    `mapstructure:"-"`                  // Telegram API token loaded from environment
	ChaptersJSONPath string    `mapstructure:"chapters_json_path"` // path to JSON file with the 114 chapters metadata
	QuranAPI         QuranAPI  `mapstructure:"quran_api"`          // remote Quran API section
	Storage          Storage   `mapstructure:"storage"`            // key-value persistence section
	DB               DB        `mapstructure:"database"`           // database configuration section
	Reminders        Reminders `mapstructure:"reminders"`          // reading reminders section
}

// QuranAPI contains the remote content endpoints.
type QuranAPI struct {
	BaseURL           string        `mapstructure:"base_url"`
	AudioCDNURL       string        `mapstructure:"audio_cdn_url"`
	AudioBitrate      int           `mapstructure:"audio_bitrate"`
	TextEdition       string        `mapstructure:"text_edition"`
	CommentaryEdition string        `mapstructure:"commentary_edition"`
	Timeout           time.Duration `mapstructure:"timeout"`
}

// Storage selects where settings and reading progress are kept.
type Storage struct {
	Driver   string `mapstructure:"driver"`    // postgres, file or memory
	FilePath string `mapstructure:"file_path"` // JSON file used by the file driver
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// Reminders configures "continue reading" reminders.
type Reminders struct {
	Schedule  string        `mapstructure:"schedule"`   // cron expression, UTC
	IdleAfter time.Duration `mapstructure:"idle_after"` // time since the last read before a reminder
	StartHour int           `mapstructure:"start_hour"` // first hour (UTC) reminders may be sent
	EndHour   int           `mapstructure:"end_hour"`   // reminders are not sent from this hour (UTC) on
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

// Load reads configuration from .env, config files and environment variables.
func Load() (*Config, error) {
	// A missing .env file is fine, variables may come from the environment.
	_ = godotenv.Load()

	// Initialize Viper instance and base config options.
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	// Set default values for configuration keys.
	v.SetDefault("env", "local")
	v.SetDefault("chapters_json_path", "assets/data/chapters.json")
	v.SetDefault("quran_api.base_url", "https://api.alquran.cloud/v1")
	v.SetDefault("quran_api.audio_cdn_url", "https://cdn.islamic.network/quran/audio")
	v.SetDefault("quran_api.audio_bitrate", 128)
	v.SetDefault("quran_api.text_edition", "quran-uthmani")
	v.SetDefault("quran_api.commentary_edition", "ar.muyassar")
	v.SetDefault("quran_api.timeout", "30s")
	v.SetDefault("storage.driver", StoragePostgres)
	v.SetDefault("storage.file_path", "data/state.json")
	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30s")
	v.SetDefault("reminders.schedule", "0 * * * *")
	v.SetDefault("reminders.idle_after", "24h")
	v.SetDefault("reminders.start_hour", 8)
	v.SetDefault("reminders.end_hour", 20)

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("env", "APP_ENV")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	// Unmarshal configuration into strongly typed struct.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	if cfg.TelegramAPIToken == "" {
		return nil, fmt.Errorf("%w: TELEGRAM_API_TOKEN", ErrMissingEnvironmentVariables)
	}

	if cfg.DB.MaxConnections < 0 || cfg.DB.MaxConnections > math.MaxInt32 {
		return nil, fmt.Errorf("%w: database.max_connections=%d", ErrInvalidConfig, cfg.DB.MaxConnections)
	}

	switch cfg.Storage.Driver {
	case StoragePostgres:
		cfg.DB.URL = v.GetString("database_url")
		if cfg.DB.URL == "" {
			return nil, fmt.Errorf("%w: DATABASE_URL", ErrMissingEnvironmentVariables)
		}
	case StorageFile, StorageMemory:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStorageDriver, cfg.Storage.Driver)
	}

	return &cfg, nil
}
