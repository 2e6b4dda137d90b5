package redis

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
)

// scanBatch is the COUNT hint passed to SCAN
const scanBatch = 200

// Set 设置键值（expiration 为 0 表示不过期）
func (c *Client) Set(ctx context.Context, key string, value []byte, expiration time.Duration) error {
	err := c.rdb.Set(ctx, c.key(key), value, expiration).Err()
	if err != nil {
		c.logger.Error("redis set failed", zap.String("key", key), zap.Error(err))
	}
	return err
}

// Get 获取键值，键不存在时返回 ErrNil
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.rdb.Get(ctx, c.key(key)).Bytes()
	if err != nil && !IsNil(err) {
		c.logger.Error("redis get failed", zap.String("key", key), zap.Error(err))
	}
	return val, err
}

// Del 删除键
func (c *Client) Del(ctx context.Context, keys ...string) (int64, error) {
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.key(k)
	}
	n, err := c.rdb.Del(ctx, full...).Result()
	if err != nil {
		c.logger.Error("redis del failed", zap.Strings("keys", keys), zap.Error(err))
	}
	return n, err
}

// Exists 检查键是否存在
func (c *Client) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.rdb.Exists(ctx, c.key(key)).Result()
	if err != nil {
		c.logger.Error("redis exists failed", zap.String("key", key), zap.Error(err))
	}
	return n > 0, err
}

// KeysWithPrefix 用 SCAN 遍历前缀下的所有键，返回值不含 KeyPrefix
func (c *Client) KeysWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	match := escapeGlob(c.key(prefix)) + "*"
	keys := make([]string, 0)

	iter := c.rdb.Scan(ctx, 0, match, scanBatch).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, strings.TrimPrefix(iter.Val(), c.config.KeyPrefix))
	}
	if err := iter.Err(); err != nil {
		c.logger.Error("redis scan failed", zap.String("match", match), zap.Error(err))
		return nil, err
	}
	return keys, nil
}

// escapeGlob quotes the SCAN MATCH metacharacters in s
func escapeGlob(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)
	return r.Replace(s)
}
