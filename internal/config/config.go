// internal/config/config.go
package config

import (
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	DriverJSON     = "json"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Port            int           `env:"PORT" envDefault:"3001"`
	CORSOrigin      string        `env:"CORS_ORIGIN" envDefault:"*"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	StoreDriver string `env:"STORE_DRIVER" envDefault:"json"`
	DBFile      string `env:"DB_FILE" envDefault:"db.json"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"contacts.sqlite"`
	DB          Postgres

	AMQPURL string `env:"AMQP_URL"`

	// AuditFile receives one JSON line per contact event handled in-process.
	AuditFile string `env:"AUDIT_FILE"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
	LogFile   string `env:"LOG_FILE"`
}

type Postgres struct {
	User     string `env:"DB_USER"`
	Password string `env:"DB_PASSWORD"`
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	Name     string `env:"DB_NAME" envDefault:"contacts"`
}

// DSN returns the lib/pq connection URL with user and password escaped.
func (p Postgres) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.User, p.Password),
		Host:     net.JoinHostPort(p.Host, p.Port),
		Path:     "/" + p.Name,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// LoadDotEnv loads a .env file into the process environment. A missing file
// is reported through the returned error and is not fatal for callers.
func LoadDotEnv(files ...string) error {
	return godotenv.Load(files...)
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses Config from the environment and checks the store driver.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return cfg, err
	}
	switch cfg.StoreDriver {
	case DriverJSON, DriverPostgres, DriverSQLite:
	default:
		return cfg, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
	return cfg, nil
}
