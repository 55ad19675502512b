package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers understood by the api process.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config captures the api runtime parameters.
type Config struct {
	HTTPAddress         string         `mapstructure:"http_address"`
	LogLevel            string         `mapstructure:"log_level"`
	ShutdownGracePeriod time.Duration  `mapstructure:"shutdown_grace_period"`
	Storage             StorageConfig  `mapstructure:"storage"`
	Database            DatabaseConfig `mapstructure:"database"`
	Redis               RedisConfig    `mapstructure:"redis"`
	Auth                AuthConfig     `mapstructure:"auth"`
	Queue               QueueConfig    `mapstructure:"queue"`
	Cache               CacheConfig    `mapstructure:"cache"`
	Realtime            RealtimeConfig `mapstructure:"realtime"`
	Metrics             MetricsConfig  `mapstructure:"metrics"`
}

type StorageConfig struct {
	Driver string `mapstructure:"driver"`
}

type DatabaseConfig struct {
	URL      string `mapstructure:"url"`
	MaxConns int32  `mapstructure:"max_conns"`
	Migrate  bool   `mapstructure:"migrate"`
}

// RedisConfig is optional; an empty URL disables the actor cache and the task queue.
type RedisConfig struct {
	URL string `mapstructure:"url"`
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

type QueueConfig struct {
	Concurrency int    `mapstructure:"concurrency"`
	Queues      string `mapstructure:"queues"`
}

type CacheConfig struct {
	ActorTTL time.Duration `mapstructure:"actor_ttl"`
}

type RealtimeConfig struct {
	SendBuffer int `mapstructure:"send_buffer"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

const (
	defaultHTTPAddress         = ":8080"
	defaultLogLevel            = "info"
	defaultShutdownGracePeriod = 10 * time.Second
	defaultStorageDriver       = DriverPostgres
	defaultQueueConcurrency    = 10
	defaultQueues              = "default=1,chat=1"
	defaultActorTTL            = 5 * time.Minute
	defaultSendBuffer          = 128
)

// Load reads configuration from an optional .env file, an optional config file
// and the environment. Environment variables are prefixed with MATCHMATE_; the
// unprefixed DB_URL, REDIS_URL, JWT_SECRET, ASYNQ_CONCURRENCY and ASYNQ_QUEUES
// names are honored as well.
func Load(path string) (Config, error) {
	if err := loadDotenv(); err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.SetEnvPrefix("MATCHMATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("http_address", defaultHTTPAddress)
	v.SetDefault("log_level", defaultLogLevel)
	v.SetDefault("shutdown_grace_period", defaultShutdownGracePeriod.String())
	v.SetDefault("storage.driver", defaultStorageDriver)
	v.SetDefault("database.url", "")
	v.SetDefault("database.max_conns", 0)
	v.SetDefault("database.migrate", true)
	v.SetDefault("redis.url", "")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("queue.concurrency", defaultQueueConcurrency)
	v.SetDefault("queue.queues", defaultQueues)
	v.SetDefault("cache.actor_ttl", defaultActorTTL.String())
	v.SetDefault("realtime.send_buffer", defaultSendBuffer)
	v.SetDefault("metrics.enabled", true)

	legacy := map[string]string{
		"database.url":      "DB_URL",
		"redis.url":         "REDIS_URL",
		"auth.jwt_secret":   "JWT_SECRET",
		"queue.concurrency": "ASYNQ_CONCURRENCY",
		"queue.queues":      "ASYNQ_QUEUES",
	}
	for key, env := range legacy {
		envKey := "MATCHMATE_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, envKey, env); err != nil {
			return Config{}, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	grace, err := parseDuration(v, "shutdown_grace_period", defaultShutdownGracePeriod)
	if err != nil {
		return Config{}, err
	}
	cfg.ShutdownGracePeriod = grace

	ttl, err := parseDuration(v, "cache.actor_ttl", defaultActorTTL)
	if err != nil {
		return Config{}, err
	}
	cfg.Cache.ActorTTL = ttl

	cfg.applyDefaults()
	return cfg, nil
}

// Validate reports settings the api process cannot start without.
func (c Config) Validate() error {
	switch c.Storage.Driver {
	case DriverPostgres:
		if c.Database.URL == "" {
			return errors.New("database.url (DB_URL) is required for the postgres driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret (JWT_SECRET) is required")
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.HTTPAddress == "" {
		c.HTTPAddress = defaultHTTPAddress
	}
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	if c.Storage.Driver == "" {
		c.Storage.Driver = defaultStorageDriver
	}
	c.Database.URL = strings.TrimSpace(c.Database.URL)
	// Zero leaves the pool size to pool_max_conns in the DSN or the pool default.
	if c.Database.MaxConns < 0 {
		c.Database.MaxConns = 0
	}
	c.Redis.URL = strings.TrimSpace(c.Redis.URL)
	if c.Queue.Concurrency <= 0 {
		c.Queue.Concurrency = defaultQueueConcurrency
	}
	if strings.TrimSpace(c.Queue.Queues) == "" {
		c.Queue.Queues = defaultQueues
	}
	if c.Cache.ActorTTL <= 0 {
		c.Cache.ActorTTL = defaultActorTTL
	}
	if c.Realtime.SendBuffer <= 0 {
		c.Realtime.SendBuffer = defaultSendBuffer
	}
}

// Viper leaves durations from env and files as strings; normalize them here.
func parseDuration(v *viper.Viper, key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		return fallback, nil
	}
	dur, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return dur, nil
}

func loadDotenv() error {
	name := getenv("MATCHMATE_DOTENV")
	if name == "" {
		name = ".env"
	}
	if err := godotenv.Load(name); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", name, err)
	}
	return nil
}

// split out for testing.
var getenv = os.Getenv
