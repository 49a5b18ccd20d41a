package history

import (
	"context"
	"fmt"
	"time"

	"github.com/Malowking/edugo/pkg/schema"
	"github.com/bytedance/sonic"
	"github.com/gogf/gf/v2/frame/g"
	"github.com/redis/go-redis/v9"
)

const historyKeyPrefix = "edugo:history:"

// RedisStore 基于Redis列表的历史存储，多实例共享
type RedisStore struct {
	client      *redis.Client
	ttl         time.Duration
	maxMessages int
}

// NewRedisStore ttl<=0 时不过期
func NewRedisStore(client *redis.Client, ttl time.Duration, maxMessages int) *RedisStore {
	return &RedisStore{client: client, ttl: ttl, maxMessages: maxMessages}
}

func historyKey(sessionID string) string {
	return historyKeyPrefix + sessionID
}

func (s *RedisStore) Load(ctx context.Context, sessionID string) ([]*schema.Message, error) {
	items, err := s.client.LRange(ctx, historyKey(sessionID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	messages := make([]*schema.Message, 0, len(items))
	for _, item := range items {
		var m schema.Message
		if err := sonic.UnmarshalString(item, &m); err != nil {
			g.Log().Warningf(ctx, "[history] 跳过无法解析的历史消息: session=%s, err=%v", sessionID, err)
			continue
		}
		messages = append(messages, &m)
	}
	return messages, nil
}

func (s *RedisStore) Append(ctx context.Context, sessionID string, messages ...*schema.Message) error {
	valid := validMessages(messages)
	if len(valid) == 0 {
		return nil
	}

	values := make([]interface{}, 0, len(valid))
	for _, m := range valid {
		encoded, err := sonic.MarshalString(m)
		if err != nil {
			return fmt.Errorf("encode history message: %w", err)
		}
		values = append(values, encoded)
	}

	key := historyKey(sessionID)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, values...)
		if s.maxMessages > 0 {
			pipe.LTrim(ctx, key, int64(-s.maxMessages), -1)
		}
		if s.ttl > 0 {
			pipe.Expire(ctx, key, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, historyKey(sessionID)).Err()
}
