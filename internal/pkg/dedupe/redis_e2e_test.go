//go:build e2e

package dedupe

import (
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStrategy_Exists(t *testing.T) {
	t.Parallel()

	ctx := t.Context()

	client := redis.NewClient(&redis.Options{
		Addr: "127.0.0.1:6379",
	})
	key := TriggerKey(1001, 2002, "completed")
	defer func() {
		client.Del(ctx, "dedupe:trigger:"+key)
		_ = client.Close()
	}()

	strategy := NewRedisStrategy(client, time.Second)

	exists, err := strategy.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)

	// 窗口内重复触发
	exists, err = strategy.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)

	// 窗口过期后重新放行
	time.Sleep(time.Second)
	exists, err = strategy.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)
}
