package services

import (
	"context"
	"fmt"
	"time"

	"stream-alerts/internal/events"
	"stream-alerts/internal/metrics"
	alerts_errors "stream-alerts/pkg/errors"
	"stream-alerts/pkg/logger"

	"go.uber.org/zap"
)

// EventPublisher encodes envelopes and hands them to the sink on one fixed topic
type EventPublisher struct {
	sink   events.Publisher
	topic  string
	driver string
	logger *logger.Logger
}

func NewEventPublisher(sink events.Publisher, topic, driver string, l *logger.Logger) *EventPublisher {
	if topic == "" {
		topic = events.DefaultTopic
	}
	if l == nil {
		l = logger.NewNop()
	}
	return &EventPublisher{sink: sink, topic: topic, driver: driver, logger: l}
}

// Topic returns the topic every event is published on
func (p *EventPublisher) Topic() string {
	return p.topic
}

// Publish performs exactly one sink call and returns the sink's message id
func (p *EventPublisher) Publish(ctx context.Context, e events.Envelope) (string, error) {
	payload, err := events.Encode(e)
	if err != nil {
		return "", err
	}

	log := p.logger.WithContext(ctx).With(zap.String("type", string(e.Type())))

	start := time.Now()
	id, err := p.sink.Publish(ctx, p.topic, payload)
	metrics.PublishDuration.WithLabelValues(p.driver).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.EventsPublished.WithLabelValues(string(e.Type()), metrics.StatusError).Inc()
		log.Error("event publish failed", zap.String("topic", p.topic), zap.Error(err))
		return "", fmt.Errorf("%w: %s event: %w", alerts_errors.ErrPublishFailed, e.Type(), err)
	}

	metrics.EventsPublished.WithLabelValues(string(e.Type()), metrics.StatusSuccess).Inc()
	log.Info("event published", zap.String("message_id", id))
	return id, nil
}

// PublishFollow publishes a new follower notification
func (p *EventPublisher) PublishFollow(ctx context.Context, e events.FollowEvent) (string, error) {
	return p.Publish(ctx, e)
}

// PublishSubscribe publishes a subscription or gifted subscription
func (p *EventPublisher) PublishSubscribe(ctx context.Context, e events.SubscribeEvent) (string, error) {
	return p.Publish(ctx, e)
}

// PublishDonation publishes a donation
func (p *EventPublisher) PublishDonation(ctx context.Context, e events.DonationEvent) (string, error) {
	return p.Publish(ctx, e)
}

// PublishRaid publishes an incoming raid
func (p *EventPublisher) PublishRaid(ctx context.Context, e events.RaidEvent) (string, error) {
	return p.Publish(ctx, e)
}

// PublishMusic publishes a now-playing update
func (p *EventPublisher) PublishMusic(ctx context.Context, e events.MusicEvent) (string, error) {
	return p.Publish(ctx, e)
}
