package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Store backends for the client session store.
const (
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendMemory = "memory"
)

type Config struct {
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	API     APIConfig
	Store   StoreConfig
	Mongo   MongoConfig
	Redis   RedisConfig
	Sandbox SandboxConfig
}

// APIConfig configures the remote API client.
type APIConfig struct {
	BaseURL   string        `env:"API_BASE_URL,   default=http://localhost:8080/"`
	Timeout   time.Duration `env:"API_TIMEOUT,    default=30s"`
	RateLimit float64       `env:"API_RATE_LIMIT, default=10"`
	RateBurst int           `env:"API_RATE_BURST, default=20"`
}

// StoreConfig selects the preference medium of the session store.
type StoreConfig struct {
	Backend   string `env:"STORE_BACKEND,   default=redis"`
	Namespace string `env:"STORE_NAMESPACE, default=auth_prefs"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=reparafacil"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// SandboxConfig configures the development backend.
type SandboxConfig struct {
	Port        string        `env:"SANDBOX_PORT,        default=8080"`
	JWTSecret   string        `env:"JWT_SECRET,          default=sandbox-secret"`
	TokenTTL    time.Duration `env:"SANDBOX_TOKEN_TTL,   default=24h"`
	Storage     string        `env:"SANDBOX_STORAGE,     default=memory"`
	EmbedUser   bool          `env:"SANDBOX_EMBED_USER,  default=false"`
	Idempotency bool          `env:"SANDBOX_IDEMPOTENCY, default=true"`
	Workers     int           `env:"SANDBOX_WORKERS,     default=4"`
}

// IsDevelopment reports whether the process runs in a development environment.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith reads configuration from the given lookuper and validates it.
func LoadWith(l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(context.Background(), &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Backend {
	case BackendRedis, BackendMongo, BackendMemory:
	default:
		return fmt.Errorf("STORE_BACKEND must be one of redis, mongo, memory; got %q", c.Store.Backend)
	}
	switch c.Sandbox.Storage {
	case BackendMongo, BackendMemory:
	default:
		return fmt.Errorf("SANDBOX_STORAGE must be one of mongo, memory; got %q", c.Sandbox.Storage)
	}
	if c.API.RateLimit <= 0 || c.API.RateBurst <= 0 {
		return fmt.Errorf("API_RATE_LIMIT and API_RATE_BURST must be positive")
	}
	return nil
}
