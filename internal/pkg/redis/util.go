package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// HSetWithExpiration 写入哈希并设置过期时间
func HSetWithExpiration(ctx context.Context, key string, values map[string]interface{}, expiration time.Duration) error {
	pipe := Rdb.TxPipeline()
	pipe.HSet(ctx, key, values)
	if expiration > 0 {
		pipe.Expire(ctx, key, expiration)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// GetRdbClient 获取redis客户端
func GetRdbClient() *redis.Client {
	return Rdb
}
