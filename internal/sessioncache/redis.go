package sessioncache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/communityarts/raffle-service/internal/models"
	"github.com/redis/go-redis/v9"
)

// Cache keeps pending payment sessions in Redis so the verify/webhook path
// avoids a database read in the common case. The database remains the
// source of truth; cache misses and errors fall back to it.
type Cache struct {
	client *redis.Client
}

func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

func New(client *redis.Client) *Cache {
	return &Cache{client: client}
}

func (c *Cache) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

func sessionKey(id string) string {
	return fmt.Sprintf("payment_session:%s", id)
}

func (c *Cache) Store(ctx context.Context, session *models.PaymentSession, ttl time.Duration) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal payment session: %w", err)
	}

	if err := c.client.Set(ctx, sessionKey(session.ID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set payment session in redis: %w", err)
	}
	return nil
}

// Get returns (nil, nil) on a cache miss.
func (c *Cache) Get(ctx context.Context, id string) (*models.PaymentSession, error) {
	val, err := c.client.Get(ctx, sessionKey(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get payment session from redis: %w", err)
	}

	var session models.PaymentSession
	if err := json.Unmarshal([]byte(val), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payment session from redis: %w", err)
	}
	return &session, nil
}

func (c *Cache) Delete(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("failed to delete payment session from redis: %w", err)
	}
	return nil
}
