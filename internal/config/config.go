package config

import (
	"errors"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds everything the process needs, constructed once at startup
// and passed by reference into the components that use it. There is no
// package-level mutable state.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Storage  StorageConfig
	CORS     CORSConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	// URL is the Postgres connection string. Required: the process refuses
	// to start without it.
	URL string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	ExpiryDays int
}

// StorageConfig configures the external image-hosting collaborator.
// Missing credentials disable uploads but do not prevent startup.
type StorageConfig struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	// PublicBaseURL is the base under which uploaded objects are publicly
	// reachable, e.g. a CDN or bucket website endpoint.
	PublicBaseURL string
}

type CORSConfig struct {
	AllowedOrigin string
}

// Enabled reports whether the storage collaborator is fully configured.
func (c StorageConfig) Enabled() bool {
	return c.Bucket != "" && c.AccessKey != "" && c.SecretKey != ""
}

// ErrMissingDatabaseURL is returned when no database connection string is
// configured. This is the only configuration error fatal at startup.
var ErrMissingDatabaseURL = errors.New("DATABASE_URL is required")

// Load reads configuration from .env and the environment.
func Load() (*Config, error) {
	// godotenv first so plain os.Getenv consumers (goose, tests) agree
	// with viper about what the environment looks like.
	_ = godotenv.Load()

	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "5001")
	viper.SetDefault("SERVER_ENV", "development")
	viper.SetDefault("JWT_EXPIRY_DAYS", 30)
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("S3_REGION", "us-east-1")
	viper.SetDefault("CORS_ORIGIN", "http://localhost:5173")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Could not read config file: %v", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
			Env:  viper.GetString("SERVER_ENV"),
		},
		Database: DatabaseConfig{
			URL: viper.GetString("DATABASE_URL"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:     viper.GetString("JWT_SECRET"),
			ExpiryDays: viper.GetInt("JWT_EXPIRY_DAYS"),
		},
		Storage: StorageConfig{
			Bucket:        viper.GetString("S3_BUCKET"),
			Region:        viper.GetString("S3_REGION"),
			Endpoint:      viper.GetString("S3_ENDPOINT"),
			AccessKey:     viper.GetString("S3_ACCESS_KEY"),
			SecretKey:     viper.GetString("S3_SECRET_KEY"),
			PublicBaseURL: viper.GetString("S3_PUBLIC_URL"),
		},
		CORS: CORSConfig{
			AllowedOrigin: viper.GetString("CORS_ORIGIN"),
		},
	}

	if cfg.Database.URL == "" {
		return nil, ErrMissingDatabaseURL
	}

	if cfg.JWT.Secret == "" {
		log.Printf("Warning: JWT_SECRET not set, using insecure development default")
		cfg.JWT.Secret = "powermed_secret_key_change_in_production"
	}

	return cfg, nil
}
