package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"rental-booking/internal/data/entity"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Publisher is the slice of *redis.Client the notifier needs.
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisNotifier publishes intents as JSON on a pub/sub channel for the
// notification service to deliver.
type RedisNotifier struct {
	client  Publisher
	channel string
	log     *zap.Logger
}

func NewRedisNotifier(client Publisher, channel string, log *zap.Logger) *RedisNotifier {
	return &RedisNotifier{
		client:  client,
		channel: channel,
		log:     log.With(zap.String("notifier", "redis")),
	}
}

func (n *RedisNotifier) Notify(ctx context.Context, intent entity.NotificationIntent) error {
	payload, err := json.Marshal(intent)
	if err != nil {
		return fmt.Errorf("encode notification intent: %w", err)
	}

	receivers, err := n.client.Publish(ctx, n.channel, payload).Result()
	if err != nil {
		return fmt.Errorf("publish %s to %s: %w", intent.EventType, n.channel, err)
	}

	n.log.Debug("Notification intent published",
		zap.String("event", string(intent.EventType)),
		zap.String("reservation_id", intent.ReservationID.String()),
		zap.Int64("receivers", receivers),
	)
	return nil
}
