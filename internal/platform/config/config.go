package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"staffdir/internal/platform/database"
	"staffdir/pkg/platform/validation"
)

// Server captures process level configuration.
type Server struct {
	Addr           string
	Environment    string
	LogLevel       string
	MaxUploadBytes int64
	RequestTimeout time.Duration
	Database       database.Config
	Kafka          Kafka
}

// Kafka configures upload event publishing. Empty Brokers disables it.
type Kafka struct {
	Brokers      string
	UploadsTopic string
}

const (
	DefaultAddr           = ":8080"
	DefaultRequestTimeout = 30 * time.Second
	DefaultUploadsTopic   = "staffdir.uploads"
)

// FromEnv builds a Server config from environment variables so main stays lean.
// Unparseable numeric or duration values fall back to their defaults.
func FromEnv() Server {
	db := database.DefaultConfig()
	db.URL = os.Getenv("DATABASE_URL")
	db.MaxOpenConns = envInt("DB_MAX_OPEN_CONNS", db.MaxOpenConns)
	db.MaxIdleConns = envInt("DB_MAX_IDLE_CONNS", db.MaxIdleConns)
	db.ConnMaxLifetime = envDuration("DB_CONN_MAX_LIFETIME", db.ConnMaxLifetime)

	return Server{
		Addr:           envString("STAFFDIR_ADDR", DefaultAddr),
		Environment:    envString("ENVIRONMENT", "dev"),
		LogLevel:       envString("LOG_LEVEL", "info"),
		MaxUploadBytes: int64(envInt("MAX_UPLOAD_BYTES", validation.DefaultMaxUploadBytes)),
		RequestTimeout: envDuration("REQUEST_TIMEOUT", DefaultRequestTimeout),
		Database:       db,
		Kafka: Kafka{
			Brokers:      strings.TrimSpace(os.Getenv("KAFKA_BROKERS")),
			UploadsTopic: envString("KAFKA_UPLOADS_TOPIC", DefaultUploadsTopic),
		},
	}
}

func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func envDuration(key string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(strings.TrimSpace(os.Getenv(key)))
	if err != nil || v <= 0 {
		return def
	}
	return v
}
