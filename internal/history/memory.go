package history

import (
	"context"
	"sync"
	"time"

	"github.com/Malowking/edugo/pkg/schema"
	"github.com/gogf/gf/v2/os/gcache"
)

// MemoryStore 进程内历史存储，按会话数做LRU淘汰
type MemoryStore struct {
	mu          sync.Mutex
	cache       *gcache.Cache
	ttl         time.Duration
	maxMessages int
}

// NewMemoryStore capacity<=0 时不限制会话数，ttl<=0 时不过期
func NewMemoryStore(capacity int, ttl time.Duration, maxMessages int) *MemoryStore {
	var c *gcache.Cache
	if capacity > 0 {
		c = gcache.New(capacity)
	} else {
		c = gcache.New()
	}
	if ttl < 0 {
		ttl = 0
	}
	return &MemoryStore{cache: c, ttl: ttl, maxMessages: maxMessages}
}

func (s *MemoryStore) Load(ctx context.Context, sessionID string) ([]*schema.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	out := make([]*schema.Message, len(stored))
	for i, m := range stored {
		out[i] = &schema.Message{Role: m.Role, Content: m.Content}
	}
	return out, nil
}

func (s *MemoryStore) Append(ctx context.Context, sessionID string, messages ...*schema.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.get(ctx, sessionID)
	if err != nil {
		return err
	}
	merged := make([]*schema.Message, 0, len(stored)+len(messages))
	merged = append(merged, stored...)
	merged = append(merged, validMessages(messages)...)
	return s.cache.Set(ctx, sessionID, keepLast(merged, s.maxMessages), s.ttl)
}

func (s *MemoryStore) Clear(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.cache.Remove(ctx, sessionID)
	return err
}

// Close 停止LRU后台清理
func (s *MemoryStore) Close(ctx context.Context) error {
	return s.cache.Close(ctx)
}

func (s *MemoryStore) get(ctx context.Context, sessionID string) ([]*schema.Message, error) {
	v, err := s.cache.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if v == nil || v.IsNil() {
		return nil, nil
	}
	messages, _ := v.Val().([]*schema.Message)
	return messages, nil
}
