package cache

import (
	"sync"
	"time"
)

type ttlEntry[V any] struct {
	value    V
	expireAt time.Time
}

// TTL 是插入后固定时长过期的并发安全映射，与访问频率无关。
// 过期条目在下一次 Get/Set 时惰性清理，不额外起后台 goroutine。
type TTL[V any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]ttlEntry[V]
}

// NewTTL 创建固定过期窗口的缓存。
func NewTTL[V any](ttl time.Duration) *TTL[V] {
	return &TTL[V]{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]ttlEntry[V]),
	}
}

// Get 返回未过期的缓存值；过期条目被删除并视为未命中。
func (c *TTL[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	if !c.now().Before(entry.expireAt) {
		delete(c.entries, key)
		var zero V
		return zero, false
	}
	return entry.value, true
}

// Set 写入缓存并重置该 key 的过期时间。
func (c *TTL[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = ttlEntry[V]{
		value:    value,
		expireAt: c.now().Add(c.ttl),
	}
}
