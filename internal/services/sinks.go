package services

import (
	"context"
	"fmt"

	"stream-alerts/config"
	"stream-alerts/internal/events"
	"stream-alerts/internal/mercure"
	natsclient "stream-alerts/internal/nats"
	"stream-alerts/internal/redis"
	alerts_errors "stream-alerts/pkg/errors"

	goredis "github.com/redis/go-redis/v9"
)

// SinkDeps holds the broker connections a sink driver may need. Only the
// connection for the configured driver has to be set.
type SinkDeps struct {
	Redis *goredis.Client
	NATS  *natsclient.Client
}

// NewSink builds the publisher selected by cfg.SinkDriver.
func NewSink(cfg *config.Config, deps SinkDeps) (events.Publisher, error) {
	switch cfg.SinkDriver {
	case config.DriverMercure:
		p, err := mercure.NewPublisher(mercure.Config{
			HubURL:    cfg.MercureHubURL,
			JWTSecret: cfg.MercureJWTSecret,
		})
		if err != nil {
			return nil, err
		}
		return p, nil
	case config.DriverRedis:
		if deps.Redis == nil {
			return nil, fmt.Errorf("%s sink: redis client not configured", cfg.SinkDriver)
		}
		return redis.NewPublisher(deps.Redis), nil
	case config.DriverRedisStream:
		if deps.Redis == nil {
			return nil, fmt.Errorf("%s sink: redis client not configured", cfg.SinkDriver)
		}
		return redis.NewStreamPublisher(deps.Redis, cfg.RedisStreamMaxLen), nil
	case config.DriverNATS:
		if deps.NATS == nil {
			return nil, fmt.Errorf("%s sink: nats client not configured", cfg.SinkDriver)
		}
		return deps.NATS, nil
	default:
		return nil, fmt.Errorf("%w: %q", alerts_errors.ErrUnsupportedDriver, cfg.SinkDriver)
	}
}

// NewRelaySource returns the subscriber feeding the websocket relay, or nil
// when the driver has no relay.
func NewRelaySource(cfg *config.Config, deps SinkDeps) events.Subscriber {
	if !cfg.RelayActive() {
		return nil
	}
	switch cfg.SinkDriver {
	case config.DriverRedis:
		if deps.Redis != nil {
			return redis.NewSubscriber(deps.Redis)
		}
	case config.DriverNATS:
		if deps.NATS != nil {
			return deps.NATS
		}
	}
	return nil
}

// SinkHealth checks the broker behind the configured driver. The Mercure hub
// has no cheap health probe and always reports healthy.
func SinkHealth(ctx context.Context, cfg *config.Config, deps SinkDeps) error {
	switch cfg.SinkDriver {
	case config.DriverRedis, config.DriverRedisStream:
		if deps.Redis == nil {
			return alerts_errors.ErrServiceUnavailable
		}
		return redis.Ping(ctx, deps.Redis)
	case config.DriverNATS:
		if deps.NATS == nil || !deps.NATS.IsConnected() {
			return fmt.Errorf("nats: %w", alerts_errors.ErrServiceUnavailable)
		}
	}
	return nil
}
