package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	OAuth      OAuthConfig
	Cloudinary CloudinaryConfig
	Firebase   FirebaseConfig
	Tracking   TrackingConfig
	Queue      QueueConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	Issuer        string
}

type OAuthConfig struct {
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

type FirebaseConfig struct {
	ServiceAccountPath string
}

type TrackingConfig struct {
	MapUpdateIntervalSec int
	StatusRefreshPeriod  time.Duration
	TraceMaxWindow       time.Duration // largest analytics window a client may request
}

// QueueConfig configures the RabbitMQ geofence-alert exchange. Empty URL
// disables publishing.
type QueueConfig struct {
	URL      string
	Exchange string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         env("PORT", "8088"),
			Env:          env("APP_ENV", "development"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:             env("DATABASE_DSN", "fieldforce:fieldforce@tcp(localhost:3306)/fieldforce?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: time.Hour,
		},
		JWT: JWTConfig{
			AccessSecret:  env("JWT_ACCESS_SECRET", "change-me-in-production"),
			RefreshSecret: env("JWT_REFRESH_SECRET", "change-me-refresh"),
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 168 * time.Hour,
			Issuer:        "fieldforce",
		},
		OAuth: OAuthConfig{
			GoogleClientID:     env("GOOGLE_CLIENT_ID", ""),
			GoogleClientSecret: env("GOOGLE_CLIENT_SECRET", ""),
			GoogleRedirectURL:  env("GOOGLE_REDIRECT_URL", ""),
		},
		Cloudinary: CloudinaryConfig{
			CloudName: env("CLOUDINARY_CLOUD_NAME", ""),
			APIKey:    env("CLOUDINARY_API_KEY", ""),
			APISecret: env("CLOUDINARY_API_SECRET", ""),
		},
		Firebase: FirebaseConfig{
			ServiceAccountPath: env("FIREBASE_SERVICE_ACCOUNT_PATH", ""),
		},
		Tracking: TrackingConfig{
			MapUpdateIntervalSec: envInt("MAP_UPDATE_INTERVAL_SEC", 5),
			StatusRefreshPeriod:  time.Minute,
			TraceMaxWindow:       31 * 24 * time.Hour,
		},
		Queue: QueueConfig{
			URL:      env("RABBITMQ_URL", ""),
			Exchange: env("RABBITMQ_EXCHANGE", "geofence.alerts"),
		},
	}
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
