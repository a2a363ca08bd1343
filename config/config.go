package config

import (
	"errors"
	"os"
	"path/filepath"
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
	Env  string
	Port int

	Database DatabaseConfig
	Ingest   IngestConfig
	Stats    StatsConfig
	TBA      TBAConfig
	Log      LogConfig
	CORS     CORSConfig
}

type DatabaseConfig struct {
	// Path is the SQLite file. When the Railway volume variable is set the
	// file lives on the mounted volume instead.
	Path string
}

type IngestConfig struct {
	UploadDir     string
	ReloadOnStart bool
	Concurrency   int
}

// StatsConfig tunes the roster aggregate cache.
type StatsConfig struct {
	CacheTTL time.Duration
}

// TBAConfig points the schedule importer at The Blue Alliance. Fetching is
// disabled when AuthKey is empty.
type TBAConfig struct {
	BaseURL  string
	AuthKey  string
	CacheTTL time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

type CORSConfig struct {
	AllowedOrigins []string
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
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{
		Env:  v.GetString("ENV"),
		Port: v.GetInt("PORT"),
	}

	dbPath := v.GetString("DATABASE_PATH")
	if mount := v.GetString("RAILWAY_VOLUME_MOUNT_PATH"); mount != "" {
		dbPath = filepath.Join(mount, filepath.Base(dbPath))
	}
	cfg.Database = DatabaseConfig{Path: dbPath}

	concurrency := v.GetInt("INGEST_CONCURRENCY")
	if concurrency <= 0 {
		concurrency = 1
	}
	cfg.Ingest = IngestConfig{
		UploadDir:     v.GetString("UPLOAD_DIR"),
		ReloadOnStart: v.GetBool("RELOAD_ON_START"),
		Concurrency:   concurrency,
	}

	cfg.Stats = StatsConfig{
		CacheTTL: parseDuration(v.GetString("STATS_CACHE_TTL"), time.Minute),
	}

	cfg.TBA = TBAConfig{
		BaseURL:  strings.TrimRight(v.GetString("TBA_BASE_URL"), "/"),
		AuthKey:  v.GetString("TBA_AUTH_KEY"),
		CacheTTL: parseDuration(v.GetString("TBA_CACHE_TTL"), 10*time.Minute),
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 5000)

	v.SetDefault("DATABASE_PATH", "matches.db")
	v.SetDefault("RAILWAY_VOLUME_MOUNT_PATH", "")

	v.SetDefault("UPLOAD_DIR", "uploads")
	v.SetDefault("RELOAD_ON_START", true)
	v.SetDefault("INGEST_CONCURRENCY", 4)

	v.SetDefault("STATS_CACHE_TTL", "1m")

	v.SetDefault("TBA_BASE_URL", "https://www.thebluealliance.com/api/v3")
	v.SetDefault("TBA_AUTH_KEY", "")
	v.SetDefault("TBA_CACHE_TTL", "10m")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("ALLOWED_ORIGINS", "")
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
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
