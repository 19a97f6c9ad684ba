package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"globorelay/internal/config"
	"globorelay/internal/http/http_server"
	"globorelay/internal/redis/redis_client"
	"globorelay/internal/redis/triggerlimit"
	"globorelay/internal/ws"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	Log, _ = zap.NewDevelopment()
)

func main() {
	defer Log.Sync()
	zap.ReplaceGlobals(Log)

	// 1. Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		Log.Fatal("Failed to load configuration", zap.Error(err))
	}
	Log.Debug("Configuration loaded successfully", zap.Any("config", cfg))

	// 2. Context with signal handling
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGINT, syscall.SIGTERM,
	)
	defer stop()

	// 3. Optional Redis backed trigger throttling
	var triggerMids []gin.HandlerFunc
	if cfg.RateLimitEnabled() {
		redisClient, err := redis_client.NewRedisClient(cfg.RedisHost, int(cfg.RedisPort))
		if err != nil {
			Log.Fatal("Failed to create Redis client", zap.Error(err))
		}
		defer redisClient.Close()
		Log.Debug("Redis client created successfully")

		limiter := triggerlimit.New(redisClient, cfg.TriggerRateLimit, cfg.TriggerRateWindow)
		triggerMids = append(triggerMids, limiter.Middleware())
	}

	// 4. Registry + dispatcher, shared by the websocket and trigger paths
	registry := ws.NewRegistry()
	dispatcher := ws.NewDispatcher(registry)

	// 5. Initialize the WS server
	wsSrv := ws.NewWsServer(registry, dispatcher, ws.Options{
		ReadLimit:  cfg.WsReadLimit,
		WriteWait:  cfg.WsWriteTimeout,
		PongWait:   cfg.WsPongWait,
		PingPeriod: cfg.WsPingPeriod,
	})

	// 6. HTTP + WS server
	httpServer, err := http_server.NewHttpServer(ctx, cfg.HttpServerPort, wsSrv, registry, dispatcher,
		cfg.TrustedProxies, triggerMids...)
	if err != nil {
		Log.Fatal("Failed to build HTTP server", zap.Error(err))
	}

	disposed := make(chan struct{})
	go func() {
		defer close(disposed)
		<-ctx.Done()
		Log.Info("Shutting down")
		_ = httpServer.Dispose()
	}()

	if err := httpServer.Start(); err != nil {
		Log.Fatal("Failed to start HTTP server", zap.Error(err))
	}
	<-disposed
}
