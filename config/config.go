// Package config loads salonctl and devserver settings from the environment,
// optionally layered over a YAML file named by SALON_CONFIG_PATH.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/octabyte/salon-gommon/api"
	redisdb "github.com/octabyte/salon-gommon/db/redis"
	"github.com/octabyte/salon-gommon/enums"
	salonotel "github.com/octabyte/salon-gommon/otel"
	"github.com/octabyte/salon-gommon/session"
	"github.com/octabyte/salon-gommon/utils/logger"
)

const configPathEnv = "SALON_CONFIG_PATH"

type Config struct {
	Env      string        `yaml:"env" env:"SALON_ENV" env-default:"local"`
	LogLevel string        `yaml:"log_level" env:"SALON_LOG_LEVEL" env-default:"info" validate:"oneof=debug info warn error dpanic panic fatal"`
	API      APIConfig     `yaml:"api"`
	Session  SessionConfig `yaml:"session"`
	Storage  StorageConfig `yaml:"storage"`
	Redis    RedisConfig   `yaml:"redis"`
	Otel     OtelConfig    `yaml:"otel"`
}

type APIConfig struct {
	BaseURL string        `yaml:"base_url" env:"SALON_API_BASE_URL" env-required:"true" validate:"required,url"`
	Timeout time.Duration `yaml:"timeout" env:"SALON_API_TIMEOUT" env-default:"30s" validate:"gt=0"`
}

type SessionConfig struct {
	RefreshInterval time.Duration `yaml:"refresh_interval" env:"SALON_REFRESH_INTERVAL" env-default:"5m" validate:"gt=0"`
	NearExpiry      time.Duration `yaml:"near_expiry" env:"SALON_NEAR_EXPIRY" env-default:"300s" validate:"gt=0"`
}

type StorageConfig struct {
	Driver string `yaml:"driver" env:"SALON_STORAGE_DRIVER" env-default:"file" validate:"oneof=file redis memory"`
	// Path defaults to $HOME/.salonctl/session.json.
	Path string `yaml:"path" env:"SALON_STORAGE_PATH"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" env:"SALON_REDIS_ADDR" env-default:"localhost:6379"`
	Password string `yaml:"password" env:"SALON_REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"SALON_REDIS_DB" env-default:"0"`
}

type OtelConfig struct {
	Enabled    bool    `yaml:"enabled" env:"SALON_OTEL_ENABLED" env-default:"false"`
	Endpoint   string  `yaml:"endpoint" env:"SALON_OTEL_ENDPOINT"`
	SampleRate float64 `yaml:"sample_rate" env:"SALON_OTEL_SAMPLE_RATE" env-default:"1" validate:"gte=0,lte=1"`
}

// Load reads the configuration and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := read(&cfg); err != nil {
		return nil, err
	}

	if cfg.Storage.Path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		cfg.Storage.Path = filepath.Join(home, ".salonctl", "session.json")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// read fills cfg from SALON_CONFIG_PATH when set, environment variables
// taking precedence, or from the environment alone.
func read(cfg any) error {
	path := os.Getenv(configPathEnv)
	if path == "" {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return fmt.Errorf("read environment: %w", err)
		}
		return nil
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("config file does not exist: %s", path)
	}
	if err := cleanenv.ReadConfig(path, cfg); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	return nil
}

func (cfg *Config) Validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.Storage.Driver == enums.StorageDriverRedis {
		redisCfg := cfg.RedisClientConfig()
		if err := redisCfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
	}
	if cfg.Otel.Enabled && cfg.Otel.Endpoint == "" {
		return errors.New("invalid configuration: SALON_OTEL_ENDPOINT is required when tracing is enabled")
	}
	return nil
}

func (cfg *Config) APIClientConfig(serviceName string) api.Config {
	return api.Config{
		BaseURL:     cfg.API.BaseURL,
		Timeout:     cfg.API.Timeout,
		ServiceName: serviceName,
	}
}

func (cfg *Config) SessionConfig() session.Config {
	return session.Config{
		RefreshInterval: cfg.Session.RefreshInterval,
		NearExpiry:      cfg.Session.NearExpiry,
	}
}

func (cfg *Config) RedisClientConfig() redisdb.Config {
	return redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
}

func (cfg *Config) LoggerConfig(serviceName string) *logger.Config {
	return &logger.Config{
		Level:       cfg.LogLevel,
		Env:         cfg.Env,
		ServiceName: serviceName,
	}
}

func (cfg *Config) OpenTelemetryConfig(serviceName string) salonotel.OtelConfig {
	return salonotel.OtelConfig{
		Enabled:     cfg.Otel.Enabled,
		Endpoint:    cfg.Otel.Endpoint,
		ServiceName: serviceName,
		Environment: cfg.Env,
		SampleRate:  cfg.Otel.SampleRate,
	}
}
