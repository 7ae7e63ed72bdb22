package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration read from the environment (and .env).
type Config struct {
	AppEnv    string        `envconfig:"APP_ENV" default:"development"`
	Port      string        `envconfig:"PORT" default:"5000"`
	Timezone  string        `envconfig:"APP_TIMEZONE" default:"Local"`
	DBTimeout time.Duration `envconfig:"APP_DB_TIMEOUT" default:"10s"`
	LogFormat string        `envconfig:"LOG_FORMAT" default:"text"`

	MongoURI          string `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
	MongoDatabase     string `envconfig:"MONGO_DATABASE" default:"casri"`
	MongoTransactions bool   `envconfig:"MONGO_TRANSACTIONS" default:"false"`

	JWTSecret string        `envconfig:"JWT_SECRET" required:"true"`
	JWTTTL    time.Duration `envconfig:"JWT_TTL" default:"24h"`

	CORSOrigins  []string `envconfig:"CORS_ORIGINS" default:"http://localhost:5173"`
	MetricsAllow []string `envconfig:"METRICS_ALLOW" default:"127.0.0.1"`

	AdminUsername string `envconfig:"ADMIN_USERNAME"`
	AdminPassword string `envconfig:"ADMIN_PASSWORD"`

	ReportAt    string `envconfig:"REPORT_AT" default:"23:50"`
	ReportEmail string `envconfig:"REPORT_EMAIL"`

	SMTPHost     string `envconfig:"SMTP_HOST"`
	SMTPPort     int    `envconfig:"SMTP_PORT" default:"465"`
	SMTPUser     string `envconfig:"SMTP_USER"`
	SMTPPassword string `envconfig:"SMTP_PASSWORD"`
	SMTPFrom     string `envconfig:"SMTP_FROM"`
}

// Load reads an optional .env file and decodes the environment into Config.
func Load() (*Config, error) {
	// a missing .env is fine outside development
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return nil, errors.New("config: JWT_SECRET must be provided")
	}
	if _, err := time.Parse("15:04", cfg.ReportAt); err != nil {
		return nil, fmt.Errorf("config: REPORT_AT must be HH:MM: %w", err)
	}
	return &cfg, nil
}

// Location resolves the configured time zone used for day boundaries.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}

// MailEnabled reports whether SMTP settings are complete enough to send mail.
func (c *Config) MailEnabled() bool {
	return c.SMTPHost != "" && c.SMTPFrom != "" && c.ReportEmail != ""
}
