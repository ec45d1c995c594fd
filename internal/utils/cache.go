package utils

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CacheItem 包装实际的数据，增加过期时间
type CacheItem[T any] struct {
	Value     T
	ExpiredAt time.Time
}

// TTLCache 带过期时间的 LRU 缓存
type TTLCache[T any] struct {
	storage *lru.Cache[string, CacheItem[T]]
	ttl     time.Duration
}

// NewTTLCache 初始化，size 是最大缓存条数，ttl 是数据有效期
func NewTTLCache[T any](size int, ttl time.Duration) *TTLCache[T] {
	if size <= 0 {
		size = 1
	}
	// lru.New 是线程安全的，size > 0 时不会返回错误
	c, _ := lru.New[string, CacheItem[T]](size)
	return &TTLCache[T]{
		storage: c,
		ttl:     ttl,
	}
}

// Set 新增或更新，同时刷新在 LRU 中的位置
func (c *TTLCache[T]) Set(key string, value T) {
	c.storage.Add(key, CacheItem[T]{
		Value:     value,
		ExpiredAt: time.Now().Add(c.ttl),
	})
}

// Recent 按最近写入顺序返回最多 n 个未过期的 key
func (c *TTLCache[T]) Recent(n int) []string {
	keys := c.storage.Keys()
	now := time.Now()
	out := make([]string, 0, n)
	for i := len(keys) - 1; i >= 0 && len(out) < n; i-- {
		item, ok := c.storage.Peek(keys[i])
		if !ok || now.After(item.ExpiredAt) {
			continue
		}
		out = append(out, keys[i])
	}
	return out
}
