package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"

	"authapi/internal/core/domain"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type (
	AppConfig struct {
		HTTP
		JWT
		Database
		Telemetry

		BcryptCost     int
		ConcealAccount bool
		EnforceHTTPS   bool
		Environment    string
	}

	HTTP struct {
		Port            string
		ReadTimeout     time.Duration
		WriteTimeout    time.Duration
		ShutdownTimeout time.Duration
	}

	JWT struct {
		Secret    string
		ExpiresIn time.Duration
		Algorithm string
		Issuer    string
	}

	Database struct {
		Driver      string
		Path        string
		URL         string
		SQLLogLevel string
	}

	Telemetry struct {
		ServiceName  string
		OTLPEndpoint string
		MetricsPort  string
		LokiURL      string
	}
)

// GetDefaultConfig returns every default with no secret set.
func GetDefaultConfig() *AppConfig {
	return &AppConfig{
		HTTP: HTTP{
			Port:            "8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		JWT: JWT{
			ExpiresIn: time.Hour,
			Algorithm: "HS256",
			Issuer:    "authapi",
		},
		Database: Database{
			Driver:      DriverSQLite,
			Path:        "database.db",
			SQLLogLevel: "error",
		},
		Telemetry: Telemetry{
			ServiceName: "authapi",
			MetricsPort: "9091",
		},
		BcryptCost:  bcrypt.DefaultCost,
		Environment: "development",
	}
}

// Load reads an optional .env file, then the environment. A missing
// JWT_SECRET or any other unusable value fails with domain.ErrMisconfigured.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: read .env: %w", domain.ErrMisconfigured, err)
	}

	return FromViper(newViper())
}

func newViper() *viper.Viper {
	defaults := GetDefaultConfig()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("port", defaults.Port)
	v.SetDefault("http_read_timeout", defaults.ReadTimeout.String())
	v.SetDefault("http_write_timeout", defaults.WriteTimeout.String())
	v.SetDefault("shutdown_timeout", defaults.ShutdownTimeout.String())

	v.SetDefault("jwt_secret", "")
	v.SetDefault("jwt_expires_in", defaults.ExpiresIn.String())
	v.SetDefault("jwt_algorithm", defaults.Algorithm)
	v.SetDefault("jwt_issuer", defaults.Issuer)
	v.SetDefault("bcrypt_cost", defaults.BcryptCost)

	v.SetDefault("database_driver", defaults.Driver)
	v.SetDefault("database_path", defaults.Path)
	v.SetDefault("database_url", "")
	v.SetDefault("sql_log_level", defaults.SQLLogLevel)

	v.SetDefault("service_name", defaults.ServiceName)
	v.SetDefault("otlp_endpoint", "")
	v.SetDefault("metrics_port", defaults.MetricsPort)
	v.SetDefault("loki_url", "")

	v.SetDefault("environment", defaults.Environment)
	v.SetDefault("gin_mode", "")
	v.SetDefault("enforce_https", false)
	v.SetDefault("auth_conceal_accounts", false)

	return v
}

func FromViper(v *viper.Viper) (*AppConfig, error) {
	environment := v.GetString("ENVIRONMENT")

	if v.GetString("GIN_MODE") == "release" {
		environment = "production"
	}

	expiresIn, err := parseExpiry(v.GetString("JWT_EXPIRES_IN"))

	if err != nil {
		return nil, err
	}

	cfg := &AppConfig{
		HTTP: HTTP{
			Port:            v.GetString("PORT"),
			ReadTimeout:     v.GetDuration("HTTP_READ_TIMEOUT"),
			WriteTimeout:    v.GetDuration("HTTP_WRITE_TIMEOUT"),
			ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
		},
		JWT: JWT{
			Secret:    v.GetString("JWT_SECRET"),
			ExpiresIn: expiresIn,
			Algorithm: strings.ToUpper(v.GetString("JWT_ALGORITHM")),
			Issuer:    v.GetString("JWT_ISSUER"),
		},
		Database: Database{
			Driver:      strings.ToLower(v.GetString("DATABASE_DRIVER")),
			Path:        v.GetString("DATABASE_PATH"),
			URL:         v.GetString("DATABASE_URL"),
			SQLLogLevel: v.GetString("SQL_LOG_LEVEL"),
		},
		Telemetry: Telemetry{
			ServiceName:  v.GetString("SERVICE_NAME"),
			OTLPEndpoint: v.GetString("OTLP_ENDPOINT"),
			MetricsPort:  v.GetString("METRICS_PORT"),
			LokiURL:      v.GetString("LOKI_URL"),
		},
		BcryptCost:     v.GetInt("BCRYPT_COST"),
		ConcealAccount: v.GetBool("AUTH_CONCEAL_ACCOUNTS"),
		EnforceHTTPS:   v.GetBool("ENFORCE_HTTPS") || environment == "production",
		Environment:    environment,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// parseExpiry reads a Go duration ("15m", "1h") or a bare number of seconds.
func parseExpiry(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)

	if seconds, err := strconv.Atoi(raw); err == nil {
		return time.Duration(seconds) * time.Second, nil
	}

	d, err := time.ParseDuration(raw)

	if err != nil {
		return 0, fmt.Errorf("%w: JWT_EXPIRES_IN %q is not a duration", domain.ErrMisconfigured, raw)
	}

	return d, nil
}

func (c *AppConfig) Validate() error {
	if c.Secret == "" {
		return fmt.Errorf("%w: missing jwt secret key", domain.ErrMisconfigured)
	}

	switch c.Algorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("%w: unsupported JWT_ALGORITHM %q", domain.ErrMisconfigured, c.Algorithm)
	}

	if c.ExpiresIn <= 0 {
		return fmt.Errorf("%w: JWT_EXPIRES_IN must be positive", domain.ErrMisconfigured)
	}

	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("%w: BCRYPT_COST must be between %d and %d", domain.ErrMisconfigured, bcrypt.MinCost, bcrypt.MaxCost)
	}

	switch c.Driver {
	case DriverSQLite, DriverMemory:
	case DriverPostgres:
		if c.URL == "" {
			return fmt.Errorf("%w: DATABASE_URL is required for postgres", domain.ErrMisconfigured)
		}
	default:
		return fmt.Errorf("%w: unknown DATABASE_DRIVER %q", domain.ErrMisconfigured, c.Driver)
	}

	return nil
}

func (c *AppConfig) IsProduction() bool {
	return c.Environment == "production"
}
