package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fortuna/trendboard/internal/store"
)

// RunStream receives one entry per aggregation run.
const RunStream = "trendboard.runs"

// streamMaxLen caps the stream; old entries are trimmed approximately.
const streamMaxLen = 1000

// RedisPublisher publishes run summaries to a Redis stream.
type RedisPublisher struct {
	client *redis.Client
	stream string
}

// NewRedisStreamPublisher creates a publisher from an existing client.
func NewRedisStreamPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{
		client: client,
		stream: RunStream,
	}
}

// NewRedisPublisher connects to redisURL and pings it.
func NewRedisPublisher(ctx context.Context, redisURL string) (*RedisPublisher, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return NewRedisStreamPublisher(client), nil
}

// Close closes the Redis connection
func (rp *RedisPublisher) Close() error {
	return rp.client.Close()
}

// PublishRun appends a run summary to the stream and returns the entry id.
func (rp *RedisPublisher) PublishRun(ctx context.Context, run *store.Run) (string, error) {
	data, err := json.Marshal(run)
	if err != nil {
		return "", err
	}

	id, err := rp.client.XAdd(ctx, &redis.XAddArgs{
		Stream: rp.stream,
		MaxLen: streamMaxLen,
		Approx: true,
		Values: map[string]interface{}{
			"data":      string(data),
			"teams":     run.Teams,
			"failed":    run.StatsFailed,
			"timestamp": run.StartedAt.Unix(),
		},
	}).Result()
	if err != nil {
		return "", fmt.Errorf("xadd %s: %w", rp.stream, err)
	}
	return id, nil
}
