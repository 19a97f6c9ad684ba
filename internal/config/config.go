package config

import (
	"errors"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

var ErrPingPeriod = errors.New("WS_PING_PERIOD must be shorter than WS_PONG_WAIT")

type Config struct {
	HttpServerPort uint16 `env:"HTTP_SERVER_PORT" envDefault:"8080" validate:"min=1000,max=65535"`
	// Proxies whose X-Forwarded-For is believed. Empty means the peer address is the client.
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:"," validate:"dive,ip|cidr"`

	WsReadLimit    int64         `env:"WS_READ_LIMIT"    envDefault:"4096" validate:"min=1"`
	WsWriteTimeout time.Duration `env:"WS_WRITE_TIMEOUT" envDefault:"10s"  validate:"gt=0"`
	WsPongWait     time.Duration `env:"WS_PONG_WAIT"     envDefault:"60s"  validate:"gt=0"`
	WsPingPeriod   time.Duration `env:"WS_PING_PERIOD"   envDefault:"30s"  validate:"gt=0"`

	// Empty host disables every Redis backed feature.
	RedisHost string `env:"REDIS_HOST" envDefault:""`
	RedisPort uint16 `env:"REDIS_PORT" envDefault:"6379" validate:"min=1000,max=65535"`

	TriggerRateLimit  int64         `env:"TRIGGER_RATE_LIMIT"  envDefault:"0"  validate:"min=0"`
	TriggerRateWindow time.Duration `env:"TRIGGER_RATE_WINDOW" envDefault:"1m" validate:"gt=0"`
}

// RateLimitEnabled reports whether the trigger endpoint should be throttled.
func (c *Config) RateLimitEnabled() bool {
	return c.RedisHost != "" && c.TriggerRateLimit > 0
}

func LoadConfig() (*Config, error) {
	// Load environment variables from .env file
	err := godotenv.Load(".env")
	if err != nil {
		zap.L().Debug(".env file not found", zap.Error(err))
	}

	cfg := &Config{}
	// Parse config from environment variables
	if err = env.Parse(cfg); err != nil {
		zap.L().Error("config_load_failed", zap.Error(err))
		return nil, err
	}

	if err = Validate(cfg); err != nil {
		zap.L().Error("config_validation_failed", zap.Error(err))
		return nil, err
	}
	return cfg, nil
}

// Validate checks struct tags and the cross-field websocket timing rule.
func Validate(cfg *Config) error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return err
	}
	if cfg.WsPingPeriod >= cfg.WsPongWait {
		return ErrPingPeriod
	}
	return nil
}
