package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageDriverLocal = "local"
	StorageDriverS3    = "s3"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	Port    string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string
	StoreTimeout time.Duration // Upper bound for a single request's store and storage calls

	// Security
	JWTSecret   string
	CORSOrigins []string

	// Uploads
	StorageDriver       string // "local" or "s3"
	UploadDir           string // Root directory for the local driver
	MaxUploadSize       int64
	UploadRatePerMinute int // Per owner, 0 disables limiting

	// Observability (optional)
	SentryDSN string
	LogFile   string // Rotating JSON log file, in addition to stdout

	// Storage (S3-compatible: MinIO, AWS S3, Cloudflare R2, DigitalOcean Spaces, etc.)
	S3Region        string
	S3Bucket        string
	S3AccessKey     string
	S3SecretKey     string
	S3Endpoint      string        // Optional: for S3-compatible services (MinIO, DO Spaces, R2, etc.)
	S3PresignExpiry time.Duration // Expiry of presigned download URLs
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName: envString("APP_NAME", "Image Folders"),
		AppEnv:  envRequired("APP_ENV"), // Required: 'development' or 'production'
		Port:    envString("PORT", "5000"),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/images.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"),
		StoreTimeout: envDuration("STORE_TIMEOUT", 10*time.Second),

		// Security
		JWTSecret:   envRequired("JWT_SECRET"),
		CORSOrigins: envList("CORS_ORIGINS", []string{"http://localhost:3000", "http://localhost:3001", "http://localhost:3002"}),

		// Uploads
		StorageDriver:       envString("STORAGE_DRIVER", StorageDriverLocal),
		UploadDir:           envString("UPLOAD_DIR", "uploads/images"),
		MaxUploadSize:       int64(envInt("MAX_UPLOAD_SIZE", 10<<20)), // 10MB
		UploadRatePerMinute: envInt("UPLOAD_RATE_PER_MINUTE", 30),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),
		LogFile:   envString("LOG_FILE", ""),

		// Storage (only read when STORAGE_DRIVER=s3)
		S3Region:        envString("S3_REGION", "us-east-1"),
		S3Bucket:        envString("S3_BUCKET", ""),
		S3AccessKey:     envString("S3_ACCESS_KEY", ""),
		S3SecretKey:     envString("S3_SECRET_KEY", ""),
		S3Endpoint:      envString("S3_ENDPOINT", ""),
		S3PresignExpiry: envDuration("S3_PRESIGN_EXPIRY", 1*time.Hour),
	}

	validate(cfg)

	return cfg
}

// validate exits when a selected backend is missing its settings
func validate(cfg *Config) {
	switch cfg.StorageDriver {
	case StorageDriverLocal:
	case StorageDriverS3:
		if cfg.S3Bucket == "" {
			slog.Error("STORAGE_DRIVER=s3 requires S3_BUCKET")
			os.Exit(1)
		}
	default:
		slog.Error("config unknown storage driver", "driver", cfg.StorageDriver)
		os.Exit(1)
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return i
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

// envList reads a comma separated list
func envList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
