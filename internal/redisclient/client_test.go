package redisclient

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAvailability(t *testing.T) {
	a, err := parseAvailability(map[string]string{"quantity": "3", "status": "available", "version": "7"})
	require.NoError(t, err)
	assert.Equal(t, Availability{Quantity: 3, Status: "available", Version: 7}, a)

	_, err = parseAvailability(map[string]string{"quantity": "x", "version": "1"})
	assert.Error(t, err)
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "availability:42", availabilityKey(42))
	assert.Equal(t, "idempotency:7:abc", idempotencyKey(7, "abc"))
	assert.Equal(t, "lock:abc", lockKey("abc"))
}

func openTestClient(t *testing.T) *Client {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("Integration test - requires redis")
	}
	client, err := NewClient(addr, "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func TestSetAvailabilityIgnoresStaleVersions(t *testing.T) {
	client := openTestClient(t)
	ctx := context.Background()
	bookID := time.Now().UnixNano()
	defer client.GetClient().Del(ctx, availabilityKey(bookID))

	written, err := client.SetAvailability(ctx, bookID, Availability{Quantity: 1, Status: "available", Version: 3})
	require.NoError(t, err)
	assert.True(t, written)

	written, err = client.SetAvailability(ctx, bookID, Availability{Quantity: 2, Status: "available", Version: 2})
	require.NoError(t, err)
	assert.False(t, written)

	a, ok, err := client.GetAvailability(ctx, bookID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, a.Quantity)
}

func TestLockOwnership(t *testing.T) {
	client := openTestClient(t)
	ctx := context.Background()
	key := uuid.New().String()

	ok, err := client.AcquireLock(ctx, key, "owner", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = client.AcquireLock(ctx, key, "other", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, client.ReleaseLock(ctx, key, "other"))
	ok, err = client.AcquireLock(ctx, key, "other", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, client.ReleaseLock(ctx, key, "owner"))
	ok, err = client.AcquireLock(ctx, key, "other", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, client.ReleaseLock(ctx, key, "other"))
}
