package report

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/elvic-group/Automat/task"
)

// RedisReporter 通过 Redis Pub/Sub 发布执行结果.
//
// Key 名称规范:
//   - {channel}                 -> 结果频道 (Pub/Sub)，消息体为 JSON 编码的 task.Result
//   - {prefix}:latest:{task}    -> 任务最近一次结果 (Hash, 带 TTL)，仅在 latestTTL > 0 时写入
type RedisReporter struct {
	client    redis.UniversalClient
	channel   string
	keyPrefix string
	latestTTL time.Duration
}

// RedisOption Redis 汇报器配置选项.
type RedisOption func(*RedisReporter)

// WithChannel 设置发布频道，默认 "automat:results".
func WithChannel(channel string) RedisOption {
	return func(r *RedisReporter) {
		r.channel = channel
	}
}

// WithKeyPrefix 设置 key 前缀，默认 "automat".
func WithKeyPrefix(prefix string) RedisOption {
	return func(r *RedisReporter) {
		r.keyPrefix = prefix
	}
}

// WithLatestTTL 同时把最近一次结果写入 Hash 并设置过期时间.
//
// 便于看板类消费者直接读取，默认 0 不写入.
func WithLatestTTL(ttl time.Duration) RedisOption {
	return func(r *RedisReporter) {
		r.latestTTL = ttl
	}
}

// NewRedisReporter 创建 Redis 汇报器.
func NewRedisReporter(client redis.UniversalClient, opts ...RedisOption) *RedisReporter {
	if client == nil {
		panic("report: redis 客户端不能为空")
	}

	r := &RedisReporter{
		client:    client,
		channel:   "automat:results",
		keyPrefix: "automat",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *RedisReporter) latestKey(name string) string {
	return fmt.Sprintf("%s:latest:%s", r.keyPrefix, name)
}

// Report 发布执行结果.
func (r *RedisReporter) Report(ctx context.Context, res task.Result) error {
	payload, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("report: encode result: %w", err)
	}

	if r.latestTTL <= 0 {
		return r.client.Publish(ctx, r.channel, payload).Err()
	}

	key := r.latestKey(res.Task)
	pipe := r.client.Pipeline()
	pipe.Publish(ctx, r.channel, payload)
	pipe.HSet(ctx, key, map[string]any{
		"id":        res.ID,
		"status":    string(res.Status),
		"message":   res.Message,
		"error":     res.Error,
		"run":       res.Run,
		"timestamp": res.Timestamp.Format(time.RFC3339Nano),
	})
	pipe.Expire(ctx, key, r.latestTTL)
	_, err = pipe.Exec(ctx)
	return err
}
