package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Resolver ResolverConfig
	Valkey   ValkeyConfig
	Media    MediaConfig
	Metrics  MetricsConfig
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type JWTConfig struct {
	Secret string
	Expiry string
}

// ResolverConfig controls the live-status refresh loop. The poll interval
// is a backstop for missed change notifications, not the primary trigger.
type ResolverConfig struct {
	PollInterval time.Duration
	ViewerMin    int
	ViewerMax    int
}

type ValkeyConfig struct {
	Addr    string
	Enabled bool
}

type MediaConfig struct {
	UploadPath string
	PublicPath string
}

type MetricsConfig struct {
	Port string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "trafkin"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
			Expiry: getEnv("JWT_EXPIRY", "24h"),
		},
		Resolver: ResolverConfig{
			PollInterval: getEnvDuration("RESOLVER_POLL_INTERVAL", 15*time.Second),
			ViewerMin:    getEnvInt("RESOLVER_VIEWER_MIN", 50),
			ViewerMax:    getEnvInt("RESOLVER_VIEWER_MAX", 550),
		},
		Valkey: ValkeyConfig{
			Addr:    getEnv("VALKEY_ADDR", "localhost:6379"),
			Enabled: getEnv("VALKEY_ENABLED", "false") == "true",
		},
		Media: MediaConfig{
			UploadPath: getEnv("MEDIA_UPLOAD_PATH", "./media_uploads"),
			PublicPath: getEnv("MEDIA_PUBLIC_PATH", "/media"),
		},
		Metrics: MetricsConfig{
			Port: getEnv("METRICS_PORT", "9091"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
