package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// RedisClient holds the Redis client connection
var redisClient *redis.Client

// ErrMiss is returned by ResponseCache.Get when the key is absent or expired
var ErrMiss = errors.New("cache miss")

const opTimeout = 5 * time.Second

// Init initializes the Redis connection and sets the global RedisClient variable
func Init(redisURL string) *redis.Client {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatalf("Failed to parse Redis URL: %v", err)
	}

	client := redis.NewClient(opts)

	// Test the connection
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err = client.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	log.Println("Successfully connected to Redis")
	redisClient = client

	return client
}

// GetClient returns the global Redis client connection
func GetClient() *redis.Client {
	return redisClient
}

// Close closes the Redis client connection
func Close() error {
	if redisClient != nil {
		log.Println("Closing Redis connection...")
		return redisClient.Close()
	}
	return nil
}

// ResponseCache stores rendered grid responses under a common key prefix.
type ResponseCache struct {
	client *redis.Client
	prefix string
}

// NewResponseCache wraps a client. Keys are stored as prefix + ":" + key.
func NewResponseCache(client *redis.Client, prefix string) *ResponseCache {
	return &ResponseCache{client: client, prefix: prefix}
}

// Key returns the full redis key for a cache key
func (c *ResponseCache) Key(key string) string {
	if c.prefix == "" {
		return key
	}
	return c.prefix + ":" + key
}

// Get retrieves a cached payload
func (c *ResponseCache) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	b, err := c.client.Get(ctx, c.Key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	return b, err
}

// Set stores a payload with the given expiration
func (c *ResponseCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	return c.client.Set(ctx, c.Key(key), value, ttl).Err()
}

// Flush removes every key under the cache prefix
func (c *ResponseCache) Flush(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	iter := c.client.Scan(ctx, 0, c.Key("*"), 256).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}
