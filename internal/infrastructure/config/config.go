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
	Port            string        `env:"PORT,             default=8080"`
	Env             string        `env:"ENV,              default=development"`
	LogLevel        string        `env:"LOG_LEVEL,        default=info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s"`

	Auth  AuthConfig
	Store StoreConfig
	Mongo MongoConfig
	Redis RedisConfig
}

type AuthConfig struct {
	JWTSecret       string        `env:"JWT_SECRET"`
	JWTAlgorithm    string        `env:"JWT_ALGORITHM,     default=HS256"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL,  default=30m"`
	DefaultTokenTTL time.Duration `env:"DEFAULT_TOKEN_TTL, default=15m"`
	PasswordScheme  string        `env:"PASSWORD_SCHEME,   default=bcrypt"`
	BcryptCost      int           `env:"BCRYPT_COST,       default=12"`
	RehashWorkers   int           `env:"REHASH_WORKERS,    default=2"`
}

type StoreConfig struct {
	Backend       string `env:"STORE_BACKEND,   default=memory"`
	SeedUsersFile string `env:"SEED_USERS_FILE"`
	MenuFile      string `env:"MENU_FILE,       default=menu.json"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=menu_api"`
}

// RedisConfig is optional; an empty Addr disables idempotency keys.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

// Load reads configuration from environment variables using go-envconfig and
// validates it. A service must not start on a returned error.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

// LoadFrom is Load with an explicit source, used by tests.
func LoadFrom(ctx context.Context, env map[string]string) (*Config, error) {
	return load(ctx, envconfig.MapLookuper(env))
}

func load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// Validate rejects configurations the service cannot run safely with.
func (c *Config) Validate() error {
	var errs []error

	switch {
	case c.Auth.JWTSecret == "":
		errs = append(errs, errors.New("JWT_SECRET is required"))
	case len(c.Auth.JWTSecret) < minSecretLength:
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d bytes", minSecretLength))
	}

	switch c.Auth.JWTAlgorithm {
	case "HS256", "HS384", "HS512":
	default:
		errs = append(errs, fmt.Errorf("JWT_ALGORITHM %q is not supported", c.Auth.JWTAlgorithm))
	}

	if c.Auth.AccessTokenTTL <= 0 {
		errs = append(errs, errors.New("ACCESS_TOKEN_TTL must be positive"))
	}
	if c.Auth.DefaultTokenTTL <= 0 {
		errs = append(errs, errors.New("DEFAULT_TOKEN_TTL must be positive"))
	}

	switch c.Auth.PasswordScheme {
	case "bcrypt", "argon2id":
	default:
		errs = append(errs, fmt.Errorf("PASSWORD_SCHEME %q is not supported", c.Auth.PasswordScheme))
	}

	switch c.Store.Backend {
	case "memory", "mongo":
	default:
		errs = append(errs, fmt.Errorf("STORE_BACKEND %q is not supported", c.Store.Backend))
	}

	return errors.Join(errs...)
}
