package events

import (
	"context"       // Context for Redis operations
	"encoding/json" // JSON encoding
	"fmt"           // Error wrapping
	"time"          // Publish timestamps

	"github.com/redis/go-redis/v9" // Redis client

	"ledger_system/internal/domain" // Importing domain models
)

// EventTransactionRecorded is the event name carried by every published message
const EventTransactionRecorded = "transaction.recorded"

// RedisClient is the subset of the Redis client used for publishing
type RedisClient interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

// TransactionEvent is the JSON payload published for a recorded transaction
type TransactionEvent struct {
	Event       string             `json:"event"`       // Event name
	Transaction domain.Transaction `json:"transaction"` // The recorded transaction
	PublishedAt time.Time          `json:"publishedAt"` // Time the event was published
}

// RedisPublisher publishes recorded transactions on a Redis pub/sub channel
type RedisPublisher struct {
	client  RedisClient      // Redis client
	channel string           // Target channel
	now     func() time.Time // Clock for PublishedAt
}

// NewRedisPublisher creates a publisher for the given channel
func NewRedisPublisher(client RedisClient, channel string) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel, now: time.Now}
}

// Publish marshals tx to JSON and publishes it
func (p *RedisPublisher) Publish(ctx context.Context, tx domain.Transaction) error {
	b, err := json.Marshal(TransactionEvent{
		Event:       EventTransactionRecorded, // Event name
		Transaction: tx,                       // Transaction payload
		PublishedAt: p.now().UTC(),            // Publish time
	})
	if err != nil {
		return fmt.Errorf("encode transaction event: %w", err) // Return error if marshaling fails
	}
	if err := p.client.Publish(ctx, p.channel, b).Err(); err != nil {
		return fmt.Errorf("publish transaction %s: %w", tx.ID, err) // Redis error
	}
	return nil
}
