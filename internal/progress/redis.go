package progress

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"silhouette/internal/jobs"
	"silhouette/internal/logging"
)

// Publisher is the subset of the Redis client used by RedisSink.
type Publisher interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

// Event is the JSON message published for each snapshot.
type Event struct {
	Type        string         `json:"type"`
	Stats       jobs.Stats     `json:"stats"`
	Jobs        []jobs.Summary `json:"jobs"`
	PublishedAt time.Time      `json:"published_at"`
}

// RedisSink publishes snapshots as JSON on a Redis pub/sub channel.
// Publishing failures are logged and never interrupt the batch.
type RedisSink struct {
	client  Publisher
	channel string
	logger  *slog.Logger
}

// NewRedisClient connects to the Redis server at redisURL and verifies it responds.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// NewRedisSink builds a sink publishing on channel.
func NewRedisSink(client Publisher, channel string, logger *slog.Logger) *RedisSink {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &RedisSink{client: client, channel: channel, logger: logger}
}

func (s *RedisSink) Publish(ctx context.Context, snapshot []jobs.Job) {
	event := Event{
		Type:        "snapshot",
		Stats:       jobs.Summarize(snapshot),
		Jobs:        jobs.Summaries(snapshot),
		PublishedAt: time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Warn("encode progress event failed", logging.Error(err))
		return
	}
	if err := s.client.Publish(ctx, s.channel, payload).Err(); err != nil {
		s.logger.Warn("publish progress event failed",
			logging.String("channel", s.channel),
			logging.String(logging.FieldEventType, "progress_publish_failed"),
			logging.Error(err),
		)
	}
}
