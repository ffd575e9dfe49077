package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port           string `env:"PORT,            default=8080"`
	Env            string `env:"ENV,             default=development"`
	JWTSecret      string `env:"JWT_SECRET"`
	ResetJWTSecret string `env:"RESET_JWT_SECRET"`
	LogLevel       string `env:"LOG_LEVEL,       default=info"`

	// Per-IP request cap on the /auth endpoints, per minute.
	AuthRateLimit int64 `env:"AUTH_RATE_LIMIT, default=30"`

	// Background workers delivering best-effort mail.
	MailWorkers int `env:"MAIL_WORKERS, default=4"`

	Mongo MongoConfig
	Redis RedisConfig
	SMTP  SMTPConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=artisan_avenue"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// SMTPConfig selects the mail transport: when Host, Username, and Password
// are all present the real SMTP notifier is used, otherwise the sandbox.
type SMTPConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT, default=587"`
	Username string `env:"SMTP_USER"`
	Password string `env:"SMTP_PASS"`
	From     string `env:"SMTP_FROM"`
}

// IsProduction reports whether the service runs with production settings;
// it controls the Secure attribute on the session cookie.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
