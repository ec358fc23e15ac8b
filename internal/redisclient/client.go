package redisclient

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

//go:embed scripts/set_availability.lua
var setAvailabilityScript string

//go:embed scripts/release_lock.lua
var releaseLockScript string

// Availability is the cached stock snapshot of one book
type Availability struct {
	Quantity int
	Status   string
	Version  int
}

type Client struct {
	rdb                *redis.Client
	availabilityScript *redis.Script
	unlockScript       *redis.Script
}

// NewClient creates a new Redis client with Lua scripts loaded
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{
		rdb:                rdb,
		availabilityScript: redis.NewScript(setAvailabilityScript),
		unlockScript:       redis.NewScript(releaseLockScript),
	}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

func availabilityKey(bookID int64) string {
	return fmt.Sprintf("availability:%d", bookID)
}

func idempotencyKey(userID int64, key string) string {
	return fmt.Sprintf("idempotency:%d:%s", userID, key)
}

func lockKey(key string) string {
	return fmt.Sprintf("lock:%s", key)
}

// SetAvailability caches a book's stock state. Older versions never
// overwrite newer ones, so out-of-order events are harmless.
func (c *Client) SetAvailability(ctx context.Context, bookID int64, a Availability) (bool, error) {
	result, err := c.availabilityScript.Run(ctx, c.rdb,
		[]string{availabilityKey(bookID)}, a.Quantity, a.Status, a.Version).Result()
	if err != nil {
		return false, fmt.Errorf("set availability script failed: %w", err)
	}

	written, ok := result.(int64)
	if !ok {
		return false, fmt.Errorf("unexpected script result type")
	}
	return written == 1, nil
}

// GetAvailability retrieves a cached stock state; ok is false on a cache miss
func (c *Client) GetAvailability(ctx context.Context, bookID int64) (a Availability, ok bool, err error) {
	result, err := c.rdb.HGetAll(ctx, availabilityKey(bookID)).Result()
	if err != nil {
		return Availability{}, false, err
	}
	if len(result) == 0 {
		return Availability{}, false, nil
	}

	a, err = parseAvailability(result)
	if err != nil {
		return Availability{}, false, fmt.Errorf("corrupt availability for book %d: %w", bookID, err)
	}
	return a, true, nil
}

func parseAvailability(fields map[string]string) (Availability, error) {
	quantity, err := strconv.Atoi(fields["quantity"])
	if err != nil {
		return Availability{}, err
	}
	version, err := strconv.Atoi(fields["version"])
	if err != nil {
		return Availability{}, err
	}
	return Availability{Quantity: quantity, Status: fields["status"], Version: version}, nil
}

// SetIdempotencyKey remembers the transaction produced for a user's request key
func (c *Client) SetIdempotencyKey(ctx context.Context, userID int64, key string, transactionID int64, ttl time.Duration) error {
	return c.rdb.Set(ctx, idempotencyKey(userID, key), transactionID, ttl).Err()
}

// GetIdempotencyKey returns the transaction recorded for a request key; ok is false when unseen
func (c *Client) GetIdempotencyKey(ctx context.Context, userID int64, key string) (transactionID int64, ok bool, err error) {
	transactionID, err = c.rdb.Get(ctx, idempotencyKey(userID, key)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return transactionID, true, nil
}

// AcquireLock acquires a distributed lock owned by token
func (c *Client) AcquireLock(ctx context.Context, key, token string, ttl time.Duration) (bool, error) {
	return c.rdb.SetNX(ctx, lockKey(key), token, ttl).Result()
}

// ReleaseLock releases a distributed lock if token still owns it
func (c *Client) ReleaseLock(ctx context.Context, key, token string) error {
	_, err := c.unlockScript.Run(ctx, c.rdb, []string{lockKey(key)}, token).Result()
	if err != nil {
		return fmt.Errorf("release lock script failed: %w", err)
	}
	return nil
}
