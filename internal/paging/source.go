// Package paging 提供分页加载框架：分页数据源、远程协调器以及驱动二者的 Pager。
package paging

import "context"

// LoadType 加载方向
type LoadType int

const (
	// Refresh 从头重新加载
	Refresh LoadType = iota
	// Prepend 向前加载
	Prepend
	// Append 向后加载
	Append
)

func (t LoadType) String() string {
	switch t {
	case Refresh:
		return "REFRESH"
	case Prepend:
		return "PREPEND"
	case Append:
		return "APPEND"
	}
	return "UNKNOWN"
}

// Config 分页参数
type Config struct {
	PageSize         int
	InitialLoadSize  int
	PrefetchDistance int
}

// LoadParams 单次加载参数，Key 为 nil 表示首页
type LoadParams struct {
	Key      *int
	LoadSize int
	LoadType LoadType
}

// LoadResult 单页加载结果，PrevKey/NextKey 为 nil 表示该方向没有更多数据
type LoadResult[T any] struct {
	Data    []T
	PrevKey *int
	NextKey *int
}

// Source 分页数据源
type Source[T any] interface {
	Load(ctx context.Context, params LoadParams) (*LoadResult[T], error)
	// RefreshKey 数据源失效重建时，根据当前可见位置计算重新加载的 key
	RefreshKey(state State) *int
}

// Invalidatable 由可被其他写入方改动的数据源实现。
// Invalid 返回 true 后该数据源不再可信，Pager 会换用新的数据源。
type Invalidatable interface {
	Invalid() bool
}

func sourceInvalid[T any](s Source[T]) bool {
	inv, ok := s.(Invalidatable)
	return ok && inv.Invalid()
}

// PageInfo 已加载页的 key 与条数
type PageInfo struct {
	PrevKey *int
	NextKey *int
	Count   int
}

// State 当前分页状态快照
type State struct {
	Pages          []PageInfo
	AnchorPosition *int
	Config         Config
}

// ClosestPageToPosition 返回包含 position 的页，越界时返回最近的一页
func (s State) ClosestPageToPosition(position int) *PageInfo {
	if len(s.Pages) == 0 {
		return nil
	}
	offset := 0
	for i := range s.Pages {
		if position < offset+s.Pages[i].Count {
			return &s.Pages[i]
		}
		offset += s.Pages[i].Count
	}
	return &s.Pages[len(s.Pages)-1]
}

// Key 返回 n 的指针，便于构造 key
func Key(n int) *int {
	return &n
}

type mapSource[A, B any] struct {
	src Source[A]
	fn  func(A) B
}

// MapSource 将 Source[A] 的每一项转换为 B
func MapSource[A, B any](src Source[A], fn func(A) B) Source[B] {
	return &mapSource[A, B]{src: src, fn: fn}
}

func (m *mapSource[A, B]) Load(ctx context.Context, params LoadParams) (*LoadResult[B], error) {
	res, err := m.src.Load(ctx, params)
	if err != nil {
		return nil, err
	}
	data := make([]B, 0, len(res.Data))
	for _, item := range res.Data {
		data = append(data, m.fn(item))
	}
	return &LoadResult[B]{Data: data, PrevKey: res.PrevKey, NextKey: res.NextKey}, nil
}

func (m *mapSource[A, B]) RefreshKey(state State) *int {
	return m.src.RefreshKey(state)
}

func (m *mapSource[A, B]) Invalid() bool {
	return sourceInvalid(m.src)
}
