package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestKey(t *testing.T) {
	c := NewResponseCache(nil, "mgrs")
	if got := c.Key("grid/abc"); got != "mgrs:grid/abc" {
		t.Errorf("Key = %q", got)
	}
	if got := NewResponseCache(nil, "").Key("x"); got != "x" {
		t.Errorf("Key without prefix = %q", got)
	}
}

func TestUnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	c := NewResponseCache(client, "mgrs")
	_, err := c.Get(context.Background(), "k")
	if err == nil || errors.Is(err, ErrMiss) {
		t.Errorf("Get against closed port = %v, want dial error", err)
	}
}
