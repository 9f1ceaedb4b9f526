package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"bilingual-chat-demo/backend/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// Bus fans chat messages out across server instances over a single redis
// pub/sub channel. Every instance publishes saved messages here and
// subscribes to deliver them to its own websocket clients.
type Bus struct {
	client  *redis.Client
	channel string
	log     *logger.Logger
}

// envelope is the wire shape on the pub/sub channel
type envelope struct {
	RoomID  string          `json:"roomId"`
	Payload json.RawMessage `json:"payload"`
}

// NewBus connects to redis. channel names the pub/sub channel shared by all
// instances.
func NewBus(addr, password string, db int, channel string, log *logger.Logger) *Bus {
	if log == nil {
		log = logger.GetGlobal()
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &Bus{
		client:  client,
		channel: channel,
		log:     log,
	}
}

// Ping verifies the connection
func (b *Bus) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}

// Publish sends one room-scoped payload to every subscribed instance
func (b *Bus) Publish(ctx context.Context, roomID string, payload []byte) error {
	data, err := json.Marshal(envelope{RoomID: roomID, Payload: payload})
	if err != nil {
		return fmt.Errorf("encoding envelope: %w", err)
	}
	return b.client.Publish(ctx, b.channel, data).Err()
}

// Subscribe blocks, invoking handler for every message on the channel until
// ctx is cancelled. Malformed envelopes are logged and skipped.
func (b *Bus) Subscribe(ctx context.Context, handler func(roomID string, payload []byte)) error {
	sub := b.client.Subscribe(ctx, b.channel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var env envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				b.log.Warn("dropping malformed pub/sub envelope", "error", err.Error())
				continue
			}
			handler(env.RoomID, env.Payload)
		}
	}
}

// Close releases the underlying connection
func (b *Bus) Close() error {
	return b.client.Close()
}
