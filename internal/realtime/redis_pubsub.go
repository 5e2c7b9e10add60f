package realtime

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const publishTimeout = 2 * time.Second

// redisPayload is the message published to Redis.
type redisPayload struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
	At    int64           `json:"at"`
}

// RedisPubSub publishes console events to a Redis channel.
type RedisPubSub struct {
	client  *redis.Client
	channel string
	logger  *zap.Logger
}

// NewRedisPubSub creates a publisher for channel.
func NewRedisPubSub(client *redis.Client, channel string, logger *zap.Logger) *RedisPubSub {
	return &RedisPubSub{client: client, channel: channel, logger: logger}
}

// PublishConsoleEvent publishes one event.
func (r *RedisPubSub) PublishConsoleEvent(event string, payload []byte) error {
	body, err := json.Marshal(redisPayload{Event: event, Data: payload, At: time.Now().Unix()})
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	return r.client.Publish(ctx, r.channel, body).Err()
}
