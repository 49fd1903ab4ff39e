package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const minSecretLength = 32

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth  AuthConfig
	Mongo MongoConfig
	Redis RedisConfig
	Admin AdminConfig

	AuditWorkers int `env:"AUDIT_WORKERS, default=4"`
}

type AuthConfig struct {
	JWTSecret  string        `env:"JWT_SECRET, required"`
	TokenTTL   time.Duration `env:"TOKEN_TTL,   default=168h"`
	BcryptCost int           `env:"BCRYPT_COST, default=10"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=turismo"`
}

type RedisConfig struct {
	Addr         string        `env:"REDIS_ADDR,     default=localhost:6379"`
	Password     string        `env:"REDIS_PASSWORD"`
	DB           int           `env:"REDIS_DB,       default=0"`
	RoleCacheTTL time.Duration `env:"ROLE_CACHE_TTL, default=10m"`
}

// AdminConfig is the account seeded on first start. An empty password skips it.
type AdminConfig struct {
	Email    string `env:"ADMIN_EMAIL, default=admin@example.com"`
	Password string `env:"ADMIN_PASSWORD"`
}

// IsProduction reports whether ENV is "production".
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration through l and validates it.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if len(c.Auth.JWTSecret) < minSecretLength {
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d bytes", minSecretLength))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		errs = append(errs, errors.New("BCRYPT_COST must be between 4 and 31"))
	}
	if c.AuditWorkers <= 0 {
		errs = append(errs, errors.New("AUDIT_WORKERS must be positive"))
	}
	return errors.Join(errs...)
}
