package cache

import "sync"

// Memo 是进程生命周期内的 get-or-compute 映射。一旦某个 key 计算成功，
// 结果（包括表示“不存在”的值）将被永久复用；计算失败不会写入，
// 下一个调用方会重新计算。
type Memo[V any] struct {
	mu      sync.RWMutex
	entries map[string]V
}

// NewMemo 创建空的 Memo。
func NewMemo[V any]() *Memo[V] {
	return &Memo[V]{entries: make(map[string]V)}
}

// Get 返回已缓存的值。
func (m *Memo[V]) Get(key string) (V, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.entries[key]
	return value, ok
}

// GetOrCompute 返回缓存值，缺失时调用 compute。并发首次访问允许重复计算，
// 但只有第一个写入者的结果会被保留，保证后续读取一致。
func (m *Memo[V]) GetOrCompute(key string, compute func() (V, error)) (V, error) {
	if value, ok := m.Get(key); ok {
		return value, nil
	}

	// compute 在锁外执行，避免慢速上游阻塞其他 key 的读取。
	value, err := compute()
	if err != nil {
		var zero V
		return zero, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.entries[key]; ok {
		return existing, nil
	}
	m.entries[key] = value
	return value, nil
}

// Len 返回当前缓存条目数，供诊断输出使用。
func (m *Memo[V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
