package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"mediaPipeline/worker/models"
)

const (
	statusKeyPrefix = "job:status:"
	statusTTL       = 10 * time.Minute
)

// StatusCache mirrors job status into Redis so the application side can
// poll progress without hitting the job table. Best-effort only: the
// pipeline never fails because of it.
type StatusCache struct {
	client *redis.Client
}

func NewStatusCache(client *redis.Client) *StatusCache {
	return &StatusCache{client: client}
}

func (c *StatusCache) Set(ctx context.Context, jobID string, status models.JobStatus) error {
	return c.client.Set(ctx, statusKeyPrefix+jobID, string(status), statusTTL).Err()
}

func (c *StatusCache) Get(ctx context.Context, jobID string) (models.JobStatus, error) {
	value, err := c.client.Get(ctx, statusKeyPrefix+jobID).Result()
	if err != nil {
		return "", err
	}
	return models.JobStatus(value), nil
}

// ConnectCache dials Redis and verifies the connection.
func ConnectCache(addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		PoolSize:     10,
		MinIdleConns: 2,
		PoolTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return client, nil
}
