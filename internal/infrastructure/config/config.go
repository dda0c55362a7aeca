package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	CacheBackendRedis  = "redis"
	CacheBackendMemory = "memory"
)

type Config struct {
	Port            string        `env:"PORT,             default=8080"`
	Env             string        `env:"ENV,              default=development"`
	LogLevel        string        `env:"LOG_LEVEL,        default=info"`
	JWTSecret       string        `env:"JWT_SECRET,       required"`
	JWTTTL          time.Duration `env:"JWT_TTL,          default=1h"`
	BcryptCost      int           `env:"BCRYPT_COST,      default=12"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s"`
	ResetDB         bool          `env:"RESET_DB,         default=false"`
	LoginRate       float64       `env:"LOGIN_RATE,       default=1"`
	LoginBurst      int           `env:"LOGIN_BURST,      default=5"`

	Cache CacheConfig
	Mongo MongoConfig
	Redis RedisConfig
}

type CacheConfig struct {
	// Backend is "redis" or "memory". The memory backend also switches the
	// owner lock to an in-process one, so it only suits a single instance.
	Backend string        `env:"CACHE_BACKEND,        default=redis"`
	TTL     time.Duration `env:"CACHE_TTL,            default=0s"`
	Workers int           `env:"INVALIDATION_WORKERS, default=4"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=bilemo"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// IsProduction reports whether ENV is "production".
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadFrom(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadFrom reads configuration through lookuper and validates it.
func LoadFrom(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, err
	}
	switch cfg.Cache.Backend {
	case CacheBackendRedis, CacheBackendMemory:
	default:
		return nil, fmt.Errorf("unknown CACHE_BACKEND %q", cfg.Cache.Backend)
	}
	return &cfg, nil
}
