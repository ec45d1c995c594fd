package service

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/user/moviepager/internal/model"
	"github.com/user/moviepager/internal/paging"
)

// ErrTooManySessions 会话数达到上限
var ErrTooManySessions = errors.New("too many paging sessions")

// SessionKind 会话类型
type SessionKind string

const (
	SessionPopular SessionKind = "popular"
	SessionSearch  SessionKind = "search"
)

// Session 一个分页会话
type Session struct {
	ID        string
	Kind      SessionKind
	Query     string
	Pager     *paging.Pager[model.Movie]
	CreatedAt time.Time
}

// SessionRegistry 按 ID 保存分页会话，空闲超过 TTL 自动关闭
type SessionRegistry struct {
	mu    sync.Mutex
	store *cache.Cache
	max   int
}

// NewSessionRegistry 创建会话注册表，max <= 0 表示不限数量
func NewSessionRegistry(ttl time.Duration, max int) *SessionRegistry {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	cleanup := ttl / 2
	if cleanup > 5*time.Minute {
		cleanup = 5 * time.Minute
	}
	store := cache.New(ttl, cleanup)
	store.OnEvicted(func(_ string, v interface{}) {
		if s, ok := v.(*Session); ok {
			s.Pager.Close()
		}
	})
	return &SessionRegistry{store: store, max: max}
}

// Create 注册新会话
func (r *SessionRegistry) Create(kind SessionKind, query string, pager *paging.Pager[model.Movie]) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.max > 0 && r.store.ItemCount() >= r.max {
		r.store.DeleteExpired()
		if r.store.ItemCount() >= r.max {
			return nil, ErrTooManySessions
		}
	}

	s := &Session{
		ID:        uuid.NewString(),
		Kind:      kind,
		Query:     query,
		Pager:     pager,
		CreatedAt: time.Now(),
	}
	r.store.Set(s.ID, s, cache.DefaultExpiration)
	return s, nil
}

// Get 取会话并续期
func (r *SessionRegistry) Get(id string) (*Session, bool) {
	v, ok := r.store.Get(id)
	if !ok {
		return nil, false
	}
	s := v.(*Session)
	r.store.Set(id, s, cache.DefaultExpiration)
	return s, true
}

// Close 关闭并移除会话
func (r *SessionRegistry) Close(id string) bool {
	if _, ok := r.store.Get(id); !ok {
		return false
	}
	r.store.Delete(id)
	return true
}

// Len 当前会话数（含尚未清理的过期会话）
func (r *SessionRegistry) Len() int {
	return r.store.ItemCount()
}

// CloseAll 关闭全部会话
func (r *SessionRegistry) CloseAll() {
	for id := range r.store.Items() {
		r.store.Delete(id)
	}
}
