package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// DevServer configures the local mock backend.
type DevServer struct {
	Env       string        `yaml:"env" env:"SALON_ENV" env-default:"local"`
	LogLevel  string        `yaml:"log_level" env:"SALON_LOG_LEVEL" env-default:"info"`
	Addr      string        `yaml:"addr" env:"DEVSERVER_ADDR" env-default:":8080" validate:"required"`
	JWTSecret string        `yaml:"jwt_secret" env:"DEVSERVER_JWT_SECRET" env-default:"dev-secret-change-me" validate:"min=8"`
	AccessTTL time.Duration `yaml:"access_ttl" env:"DEVSERVER_ACCESS_TTL" env-default:"15m" validate:"gt=0"`
	// RefreshTTL must outlive AccessTTL.
	RefreshTTL time.Duration `yaml:"refresh_ttl" env:"DEVSERVER_REFRESH_TTL" env-default:"168h" validate:"gtfield=AccessTTL"`
	Otel       OtelConfig    `yaml:"otel"`
}

func LoadDevServer() (*DevServer, error) {
	var cfg DevServer
	if err := read(&cfg); err != nil {
		return nil, err
	}
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid devserver configuration: %w", err)
	}
	return &cfg, nil
}
