package paging

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrSessionClosed 会话已关闭
var ErrSessionClosed = errors.New("paging: session closed")

type loadedPage[T any] struct {
	data    []T
	prevKey *int
	nextKey *int
}

// Pager 驱动一个分页会话：同一时间只执行一次加载。
// 数据源在尾部读空后，由协调器追加数据并在新建的数据源上从读空处继续读取。
// 数据源被其他写入方改动而失效时，先让协调器按缓存现状重新对齐，再换用新的数据源。
type Pager[T any] struct {
	mu       sync.Mutex
	config   Config
	mediator RemoteMediator
	factory  func() Source[T]

	source      Source[T]
	pages       []loadedPage[T]
	started     bool
	initialized bool
	closed      bool

	appendKey    *int
	prependKey   *int
	resumeKey    *int
	mediatorEnd  bool
	mediatorHead bool
}

// NewPager 创建分页会话，mediator 可以为 nil
func NewPager[T any](config Config, mediator RemoteMediator, factory func() Source[T]) *Pager[T] {
	if config.PageSize <= 0 {
		config.PageSize = 20
	}
	if config.InitialLoadSize <= 0 {
		config.InitialLoadSize = config.PageSize
	}
	return &Pager[T]{
		config:   config,
		mediator: mediator,
		factory:  factory,
	}
}

// Config 返回分页参数
func (p *Pager[T]) Config() Config {
	return p.config
}

// Refresh 从第一页重新加载。首次调用时先询问协调器是否需要初始刷新，之后每次调用都会触发远程刷新。
func (p *Pager[T]) Refresh(ctx context.Context) ([]T, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, ErrSessionClosed
	}
	if err := p.startLocked(ctx); err != nil {
		return nil, err
	}
	return p.pages[0].data, nil
}

func (p *Pager[T]) startLocked(ctx context.Context) error {
	runMediator := p.mediator != nil
	if p.mediator != nil && !p.initialized {
		action, err := p.mediator.Initialize(ctx)
		if err != nil {
			return fmt.Errorf("initialize mediator: %w", err)
		}
		p.initialized = true
		runMediator = action == LaunchInitialRefresh
	}
	return p.refreshLocked(ctx, nil, runMediator)
}

// Invalidate 丢弃当前数据源，并以 anchor 附近的 key 在新数据源上重新加载
func (p *Pager[T]) Invalidate(ctx context.Context, anchor int) ([]T, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, ErrSessionClosed
	}

	var key *int
	if p.started {
		state := p.stateLocked()
		state.AnchorPosition = &anchor
		key = p.source.RefreshKey(state)
	}
	if err := p.refreshLocked(ctx, key, false); err != nil {
		return nil, err
	}
	return p.pages[0].data, nil
}

func (p *Pager[T]) refreshLocked(ctx context.Context, key *int, runMediator bool) error {
	if runMediator {
		res, err := p.mediator.Load(ctx, Refresh)
		if err != nil {
			return fmt.Errorf("remote refresh: %w", err)
		}
		p.mediatorEnd = res.EndOfPaginationReached
		p.mediatorHead = false
	}

	source := p.factory()
	res, err := source.Load(ctx, LoadParams{Key: key, LoadSize: p.config.InitialLoadSize, LoadType: Refresh})
	if err != nil {
		return err
	}

	p.source = source
	p.pages = []loadedPage[T]{{data: res.Data, prevKey: res.PrevKey, nextKey: res.NextKey}}
	p.appendKey = res.NextKey
	p.prependKey = res.PrevKey
	p.resumeKey = nil
	p.started = true
	if len(res.Data) == 0 && res.NextKey == nil {
		p.resumeKey = key
		if p.resumeKey == nil {
			p.resumeKey = Key(0)
		}
	}
	return nil
}

// LoadNext 加载下一页。返回空切片且 error 为 nil 表示已到末尾。
func (p *Pager[T]) LoadNext(ctx context.Context) ([]T, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, ErrSessionClosed
	}
	if !p.started {
		if err := p.startLocked(ctx); err != nil {
			return nil, err
		}
		return p.pages[0].data, nil
	}
	return p.loadNextLocked(ctx)
}

func (p *Pager[T]) loadNextLocked(ctx context.Context) ([]T, error) {
	for {
		if err := p.resyncLocked(ctx); err != nil {
			return nil, err
		}
		if p.appendKey != nil {
			key := p.appendKey
			res, err := p.source.Load(ctx, LoadParams{Key: key, LoadSize: p.config.PageSize, LoadType: Append})
			if err != nil {
				return nil, err
			}
			if len(res.Data) > 0 {
				p.pages = append(p.pages, loadedPage[T]{data: res.Data, prevKey: res.PrevKey, nextKey: res.NextKey})
				p.appendKey = res.NextKey
				p.resumeKey = nil
				return res.Data, nil
			}
			p.resumeKey = key
			p.appendKey = nil
		}

		// 只有协调器报告到达末页才算结束
		if p.mediator == nil || p.mediatorEnd || p.resumeKey == nil {
			return []T{}, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		res, err := p.mediator.Load(ctx, Append)
		if err != nil {
			return nil, fmt.Errorf("remote append: %w", err)
		}
		p.mediatorEnd = res.EndOfPaginationReached
		p.source = p.factory()
		p.appendKey = p.resumeKey
	}
}

// resyncLocked 数据源失效时让协调器重新对齐并换用新的数据源，已加载的数据和读取位置保持不变
func (p *Pager[T]) resyncLocked(ctx context.Context) error {
	if !p.started || !sourceInvalid(p.source) {
		return nil
	}
	if p.mediator != nil {
		action, err := p.mediator.Initialize(ctx)
		if err != nil {
			return fmt.Errorf("initialize mediator: %w", err)
		}
		p.mediatorEnd = false
		if action == LaunchInitialRefresh {
			res, err := p.mediator.Load(ctx, Refresh)
			if err != nil {
				return fmt.Errorf("remote refresh: %w", err)
			}
			p.mediatorEnd = res.EndOfPaginationReached
		}
	}
	p.source = p.factory()
	if p.appendKey == nil && p.resumeKey != nil {
		p.appendKey = p.resumeKey
	}
	return nil
}

// LoadPrev 加载上一页。返回空切片且 error 为 nil 表示已到开头。
func (p *Pager[T]) LoadPrev(ctx context.Context) ([]T, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, ErrSessionClosed
	}
	if !p.started {
		return []T{}, nil
	}
	if err := p.resyncLocked(ctx); err != nil {
		return nil, err
	}

	if p.prependKey == nil {
		if p.mediator != nil && !p.mediatorHead {
			res, err := p.mediator.Load(ctx, Prepend)
			if err != nil {
				return nil, fmt.Errorf("remote prepend: %w", err)
			}
			p.mediatorHead = res.EndOfPaginationReached
		}
		return []T{}, nil
	}

	res, err := p.source.Load(ctx, LoadParams{Key: p.prependKey, LoadSize: p.config.PageSize, LoadType: Prepend})
	if err != nil {
		return nil, err
	}
	p.prependKey = res.PrevKey
	if len(res.Data) == 0 {
		return []T{}, nil
	}
	p.pages = append([]loadedPage[T]{{data: res.Data, prevKey: res.PrevKey, nextKey: res.NextKey}}, p.pages...)
	return res.Data, nil
}

// Window 返回 [from, from+count) 范围内的数据，按需加载直到覆盖该范围加上预取距离。
// 第二个返回值表示该范围之后已没有更多数据。
func (p *Pager[T]) Window(ctx context.Context, from, count int) ([]T, bool, error) {
	if from < 0 || count <= 0 {
		return nil, false, fmt.Errorf("invalid window [%d, +%d)", from, count)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, false, ErrSessionClosed
	}
	if !p.started {
		if err := p.startLocked(ctx); err != nil {
			return nil, false, err
		}
	}

	want := from + count + p.config.PrefetchDistance
	end := false
	for p.countLocked() < want {
		data, err := p.loadNextLocked(ctx)
		if err != nil {
			return nil, false, err
		}
		if len(data) == 0 {
			end = true
			break
		}
	}

	items := p.itemsLocked()
	if from >= len(items) {
		return []T{}, end, nil
	}
	to := from + count
	if to > len(items) {
		to = len(items)
	}
	return items[from:to], end && to == len(items), nil
}

// Exhausted 尾部确定没有更多数据：数据源没有下一页 key，且协调器（若有）已到达末页
func (p *Pager[T]) Exhausted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.started && p.appendKey == nil && (p.mediator == nil || p.mediatorEnd)
}

// Items 返回已加载的全部数据
func (p *Pager[T]) Items() []T {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.itemsLocked()
}

// State 返回当前分页状态
func (p *Pager[T]) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stateLocked()
}

// Close 结束会话，之后的加载都返回 ErrSessionClosed
func (p *Pager[T]) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	p.pages = nil
}

func (p *Pager[T]) itemsLocked() []T {
	items := make([]T, 0, p.countLocked())
	for _, pg := range p.pages {
		items = append(items, pg.data...)
	}
	return items
}

func (p *Pager[T]) countLocked() int {
	n := 0
	for _, pg := range p.pages {
		n += len(pg.data)
	}
	return n
}

func (p *Pager[T]) stateLocked() State {
	infos := make([]PageInfo, 0, len(p.pages))
	for _, pg := range p.pages {
		infos = append(infos, PageInfo{PrevKey: pg.prevKey, NextKey: pg.nextKey, Count: len(pg.data)})
	}
	return State{Pages: infos, Config: p.config}
}
