package main

import (
	"context"
	"errors"
	"log"
	"time"

	"stream-alerts/config"
	"stream-alerts/internal/handler"
	natsclient "stream-alerts/internal/nats"
	"stream-alerts/internal/redis"
	"stream-alerts/internal/server"
	"stream-alerts/internal/services"
	"stream-alerts/internal/websocket"
	"stream-alerts/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()

	logMode := logger.DevelopmentMode
	if cfg.AppMode == server.ReleaseMode {
		logMode = logger.ProductionMode
	}
	l := logger.New(logMode)
	logger.SetGlobalLogger(l)
	defer l.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var deps services.SinkDeps
	if cfg.UsesRedis() {
		deps.Redis = redis.NewClient(redis.Config{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer deps.Redis.Close()
		if err := redis.Ping(ctx, deps.Redis); err != nil {
			l.Warnf("Redis not reachable at startup: %v", err)
		}
	}
	if cfg.SinkDriver == config.DriverNATS {
		nc, err := natsclient.NewClient(natsclient.DefaultConfig(cfg.NATSURL), l)
		if err != nil {
			log.Fatalf("Failed to connect to NATS: %v", err)
		}
		defer nc.Close()
		deps.NATS = nc
	}

	sink, err := services.NewSink(cfg, deps)
	if err != nil {
		log.Fatalf("Failed to create %s sink: %v", cfg.SinkDriver, err)
	}
	publisher := services.NewEventPublisher(sink, cfg.EventsTopic, cfg.SinkDriver, l)

	handlers := &server.Handlers{
		Events: handler.NewEventHandler(publisher),
		Health: func(ctx context.Context) error { return services.SinkHealth(ctx, cfg, deps) },
	}
	if cfg.RateLimitPerMinute > 0 && deps.Redis != nil {
		handlers.RateLimiter = redis.NewRateLimiter(deps.Redis, redis.DefaultRateLimitConfig(cfg.RateLimitPerMinute))
	}

	if source := services.NewRelaySource(cfg, deps); source != nil {
		hub := websocket.NewHub(websocket.NewLogger(l.Logger))
		go hub.Run(ctx)
		go runRelay(ctx, websocket.NewBridge(source, hub), publisher.Topic(), l)
		handlers.Relay = websocket.NewHandler(hub, cfg.CORSAllowedOrigins)
	}

	srv := server.New(cfg, l)
	srv.SetupRoutes(handlers)
	if err := srv.Start(); err != nil {
		l.Errorf("Server shutdown error: %v", err)
	}
}

// runRelay resubscribes after a failed subscription until ctx is done.
func runRelay(ctx context.Context, bridge *websocket.Bridge, topic string, l *logger.Logger) {
	for {
		err := bridge.Run(ctx, topic)
		if ctx.Err() != nil {
			return
		}
		if err != nil && !errors.Is(err, context.Canceled) {
			l.Logger.Error("relay subscription failed", zap.String("topic", topic), zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(2 * time.Second):
		}
	}
}
