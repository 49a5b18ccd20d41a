package history

import (
	"context"
	"fmt"
	"strings"

	"github.com/Malowking/edugo/core/config"
	"github.com/Malowking/edugo/pkg/schema"
	"github.com/gogf/gf/v2/frame/g"
	"github.com/redis/go-redis/v9"
)

// Store 会话历史存储
// 每个会话最多保留 MaxMessages 条消息，超出时丢弃最早的
type Store interface {
	// Load 按时间顺序返回会话消息，会话不存在时返回空切片
	Load(ctx context.Context, sessionID string) ([]*schema.Message, error)
	// Append 追加消息并刷新会话过期时间
	Append(ctx context.Context, sessionID string, messages ...*schema.Message) error
	// Clear 删除会话
	Clear(ctx context.Context, sessionID string) error
}

// NewStore 按配置创建历史存储；redis 后端需要传入已连接的客户端
func NewStore(ctx context.Context, cfg config.HistoryConfig, client *redis.Client) (Store, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", "memory":
		g.Log().Infof(ctx, "会话历史使用内存存储: capacity=%d, ttl=%s, maxMessages=%d", cfg.Capacity, cfg.TTL, cfg.MaxMessages)
		return NewMemoryStore(cfg.Capacity, cfg.TTL, cfg.MaxMessages), nil
	case "redis":
		if client == nil {
			return nil, fmt.Errorf("history backend redis requires a redis client")
		}
		g.Log().Infof(ctx, "会话历史使用Redis存储: ttl=%s, maxMessages=%d", cfg.TTL, cfg.MaxMessages)
		return NewRedisStore(client, cfg.TTL, cfg.MaxMessages), nil
	default:
		return nil, fmt.Errorf("unsupported history backend: %s", cfg.Backend)
	}
}

// validMessages 过滤空消息和非法角色
func validMessages(messages []*schema.Message) []*schema.Message {
	out := make([]*schema.Message, 0, len(messages))
	for _, m := range messages {
		if m == nil || !schema.IsValidRole(m.Role) {
			continue
		}
		out = append(out, &schema.Message{Role: m.Role, Content: m.Content})
	}
	return out
}

// keepLast 只保留最后 max 条，max<=0 表示不限制
func keepLast(messages []*schema.Message, max int) []*schema.Message {
	if max <= 0 || len(messages) <= max {
		return messages
	}
	return messages[len(messages)-max:]
}
