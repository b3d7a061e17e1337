package config

import (
	"errors"
	"log"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	// Server Settings
	AppName string `env:"APP_NAME" env-default:"FURIMA"`
	HOST    string `env:"HOST" env-default:"0.0.0.0"`
	AppPort string `env:"PORT" env-default:"3000"`

	// Database Settings
	DBDriver    string `env:"DB_DRIVER" env-default:"sqlite"`
	DatabaseURL string `env:"DATABASE_URL" env-default:"fleamarket.db"`
	ResetDB     bool   `env:"DB_RESET" env-default:"false"`

	// Session Settings
	SessionSecret string        `env:"SESSION_SECRET"`
	SessionTTL    time.Duration `env:"SESSION_TTL" env-default:"72h"`
	SecureCookie  bool          `env:"SECURE_COOKIE" env-default:"false"`

	Storage StorageConfig
	Redis   RedisConfig
	NATS    NATSConfig
	Logger  LoggerConfig

	SeedDemoUsers bool `env:"SEED_DEMO_USERS" env-default:"false"`
}

type StorageConfig struct {
	Driver         string `env:"STORAGE_DRIVER" env-default:"local"`
	UploadDir      string `env:"UPLOAD_DIR" env-default:"./uploads"`
	URLPrefix      string `env:"UPLOAD_URL_PREFIX" env-default:"/uploads"`
	MinIOEndpoint  string `env:"MINIO_ENDPOINT" env-default:"localhost:9000"`
	MinIOAccessKey string `env:"MINIO_ACCESS_KEY" env-default:"minioadmin"`
	MinIOSecretKey string `env:"MINIO_SECRET_KEY" env-default:"minioadmin"`
	MinIOBucket    string `env:"MINIO_BUCKET" env-default:"item-images"`
	MinIOUseSSL    bool   `env:"MINIO_USE_SSL" env-default:"false"`
}

type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB" env-default:"0"`
	TTL      time.Duration `env:"CACHE_TTL" env-default:"10m"`
}

type NATSConfig struct {
	URL string `env:"NATS_URL"`
}

type LoggerConfig struct {
	Level    string `env:"LOG_LEVEL" env-default:"info"`
	Encoding string `env:"LOG_ENCODING" env-default:"json"`
}

var ErrMissingSessionSecret = errors.New("SESSION_SECRET is not set")

// LoadConfig reads an optional .env file and then the process environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, err
	}
	if cfg.SessionSecret == "" {
		return nil, ErrMissingSessionSecret
	}
	return &cfg, nil
}
