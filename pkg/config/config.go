package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Redis    RedisConfig
	CORS     CORSConfig
	Log      LogConfig
	Editor   EditorConfig
	Notifier NotifierConfig
	Events   EventsConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// EditorConfig fixes the week grid geometry and the edit mode.
type EditorConfig struct {
	WeekDays     int
	DayStartHour int
	SlotCount    int
	SlotMinutes  int
	ReadOnly     bool
}

// NotifierConfig tunes deferred conflict dispatch.
type NotifierConfig struct {
	Workers    int
	BufferSize int
}

// EventsConfig controls Redis event publishing for host dashboards.
type EventsConfig struct {
	Enabled        bool
	ConflictPrefix string
	WeekPrefix     string
	PublishTimeout time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Editor = EditorConfig{
		WeekDays:     v.GetInt("EDITOR_WEEK_DAYS"),
		DayStartHour: v.GetInt("EDITOR_DAY_START_HOUR"),
		SlotCount:    v.GetInt("EDITOR_SLOT_COUNT"),
		SlotMinutes:  v.GetInt("EDITOR_SLOT_MINUTES"),
		ReadOnly:     v.GetBool("EDITOR_READ_ONLY"),
	}

	cfg.Notifier = NotifierConfig{
		Workers:    v.GetInt("NOTIFIER_WORKERS"),
		BufferSize: v.GetInt("NOTIFIER_BUFFER_SIZE"),
	}

	cfg.Events = EventsConfig{
		Enabled:        v.GetBool("ENABLE_EVENTS"),
		ConflictPrefix: v.GetString("EVENTS_CONFLICT_PREFIX"),
		WeekPrefix:     v.GetString("EVENTS_WEEK_PREFIX"),
		PublishTimeout: parseDuration(v.GetString("EVENTS_PUBLISH_TIMEOUT"), 2*time.Second),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "oapet_schedule")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("EDITOR_WEEK_DAYS", 6)
	v.SetDefault("EDITOR_DAY_START_HOUR", 7)
	v.SetDefault("EDITOR_SLOT_COUNT", 14)
	v.SetDefault("EDITOR_SLOT_MINUTES", 60)
	v.SetDefault("EDITOR_READ_ONLY", false)

	v.SetDefault("NOTIFIER_WORKERS", 1)
	v.SetDefault("NOTIFIER_BUFFER_SIZE", 16)

	v.SetDefault("ENABLE_EVENTS", false)
	v.SetDefault("EVENTS_CONFLICT_PREFIX", "schedule:conflicts:")
	v.SetDefault("EVENTS_WEEK_PREFIX", "schedule:week:")
	v.SetDefault("EVENTS_PUBLISH_TIMEOUT", "2s")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
