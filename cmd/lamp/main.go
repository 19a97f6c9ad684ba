// Command lamp is the demo's "smart lamp": it follows the relay and logs every
// color broadcast to it.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"globorelay/internal/lamp"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type config struct {
	RelayURL          string        `env:"LAMP_RELAY_URL"          envDefault:"ws://localhost:8080/ws"`
	ReconnectInterval time.Duration `env:"LAMP_RECONNECT_INTERVAL" envDefault:"2s"`
}

func main() {
	log, _ := zap.NewDevelopment()
	defer log.Sync()
	zap.ReplaceGlobals(log)

	if err := godotenv.Load(".env"); err != nil {
		log.Debug(".env file not found", zap.Error(err))
	}
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	l := lamp.NewListener(cfg.RelayURL, cfg.ReconnectInterval, func(c lamp.Color) {
		log.Info("lamp.color", zap.Stringer("color", c))
	})
	if err := l.Run(ctx); err != nil {
		log.Fatal("lamp stopped", zap.Error(err))
	}
}
