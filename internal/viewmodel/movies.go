package viewmodel

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/user/moviepager/internal/model"
	"github.com/user/moviepager/internal/paging"
)

const effectBuffer = 16

// PopularMoviesLoader 打开热门电影会话
type PopularMoviesLoader interface {
	Execute() *paging.Pager[model.Movie]
}

// SearchMoviesLoader 打开搜索会话
type SearchMoviesLoader interface {
	Execute(query string) *paging.Pager[model.Movie]
}

// MoviesViewModel 列表页 view-model。会话与加载都绑定在 view-model 的生命周期上，Close 后全部取消。
type MoviesViewModel struct {
	popular   PopularMoviesLoader
	search    SearchMoviesLoader
	debouncer *Debouncer

	ctx    context.Context
	cancel context.CancelFunc

	mu           sync.Mutex
	state        MoviesState
	pager        *paging.Pager[model.Movie]
	listing      Listing
	listingQuery string
	gen          uint64
	onState      func(MoviesState)

	effects chan MoviesEffect
}

// NewMoviesViewModel 创建列表页 view-model，debounce <= 0 时使用默认 500ms
func NewMoviesViewModel(popular PopularMoviesLoader, search SearchMoviesLoader, debounce time.Duration) *MoviesViewModel {
	if debounce <= 0 {
		debounce = SearchDebounce
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &MoviesViewModel{
		popular:   popular,
		search:    search,
		debouncer: NewDebouncer(debounce),
		ctx:       ctx,
		cancel:    cancel,
		state:     MoviesIdle{},
		effects:   make(chan MoviesEffect, effectBuffer),
	}
}

// OnStateChange 注册状态监听，回调在状态变更后调用
func (vm *MoviesViewModel) OnStateChange(fn func(MoviesState)) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.onState = fn
}

// State 当前状态
func (vm *MoviesViewModel) State() MoviesState {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.state
}

// Effects 一次性副作用
func (vm *MoviesViewModel) Effects() <-chan MoviesEffect {
	return vm.effects
}

// Dispatch 处理事件。打开会话的事件会同步完成首屏加载，返回加载错误。
func (vm *MoviesViewModel) Dispatch(event MoviesEvent) error {
	vm.mu.Lock()
	t := Reduce(vm.state, event)
	if t.CancelPending {
		vm.debouncer.Cancel()
	}

	switch t.Action {
	case ActionLoadPopular, ActionSearch:
		vm.mu.Unlock()
		return vm.open(t)
	case ActionDebounceSearch:
		notify := vm.setStateLocked(t.State)
		vm.mu.Unlock()
		notify()
		query := t.Query
		vm.debouncer.Schedule(func() {
			if err := vm.Dispatch(SearchMovies{Query: query}); err != nil {
				log.Printf("[MoviesViewModel] 搜索失败 (%s): %v", query, err)
			}
		})
		return nil
	default:
		notify := vm.setStateLocked(t.State)
		vm.mu.Unlock()
		notify()
		if t.Action == ActionEmit {
			vm.emit(t.Effect)
		}
		return nil
	}
}

func (vm *MoviesViewModel) open(t Transition) error {
	listing := ListingPopular
	if t.Action == ActionSearch {
		listing = ListingSearch
	}

	vm.mu.Lock()
	if vm.ctx.Err() != nil {
		vm.mu.Unlock()
		return paging.ErrSessionClosed
	}
	reuse := t.Reload && vm.pager != nil && vm.listing == listing && vm.listingQuery == t.Query
	if !reuse {
		if vm.pager != nil {
			vm.pager.Close()
		}
		if listing == ListingSearch {
			vm.pager = vm.search.Execute(t.Query)
		} else {
			vm.pager = vm.popular.Execute()
		}
		vm.listing = listing
		vm.listingQuery = t.Query
	}
	pager := vm.pager
	vm.gen++
	gen := vm.gen
	hadData := reuse && len(pager.Items()) > 0
	notify := func() {}
	if !hadData {
		notify = vm.setStateLocked(MoviesLoading{})
	}
	vm.mu.Unlock()
	notify()

	_, err := pager.Refresh(vm.ctx)

	vm.mu.Lock()
	if gen != vm.gen {
		// 已被更新的会话取代
		vm.mu.Unlock()
		return nil
	}
	if err != nil {
		msg := "Failed to load movies: " + err.Error()
		if hadData {
			notify = vm.setStateLocked(t.State)
		} else {
			notify = vm.setStateLocked(MoviesError{Message: msg})
		}
		vm.mu.Unlock()
		notify()
		vm.emit(ShowError{Message: msg})
		return err
	}
	notify = vm.setStateLocked(t.State)
	vm.mu.Unlock()
	notify()
	return nil
}

// LoadMore 加载下一页，返回空切片表示没有更多
func (vm *MoviesViewModel) LoadMore() ([]MovieUI, error) {
	pager := vm.currentPager()
	if pager == nil {
		return []MovieUI{}, nil
	}
	items, err := pager.LoadNext(vm.ctx)
	if err != nil {
		if !errors.Is(err, paging.ErrSessionClosed) {
			vm.emit(ShowError{Message: "Failed to load more movies: " + err.Error()})
		}
		return nil, err
	}
	return ToUIList(items), nil
}

// Visible 返回 [from, from+count) 的数据，按预取距离提前加载
func (vm *MoviesViewModel) Visible(from, count int) ([]MovieUI, bool, error) {
	pager := vm.currentPager()
	if pager == nil {
		return []MovieUI{}, false, nil
	}
	items, end, err := pager.Window(vm.ctx, from, count)
	if err != nil {
		return nil, false, err
	}
	return ToUIList(items), end, nil
}

// SearchPending 是否有尚未触发的防抖搜索
func (vm *MoviesViewModel) SearchPending() bool {
	return vm.debouncer.Pending()
}

// Items 当前会话已加载的全部电影
func (vm *MoviesViewModel) Items() []MovieUI {
	pager := vm.currentPager()
	if pager == nil {
		return []MovieUI{}
	}
	return ToUIList(pager.Items())
}

// Close 取消防抖任务和进行中的加载，关闭会话
func (vm *MoviesViewModel) Close() {
	vm.debouncer.Cancel()
	vm.cancel()

	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.pager != nil {
		vm.pager.Close()
	}
}

func (vm *MoviesViewModel) currentPager() *paging.Pager[model.Movie] {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.pager
}

// setStateLocked 更新状态，返回的函数需在释放锁之后调用以通知监听者
func (vm *MoviesViewModel) setStateLocked(state MoviesState) func() {
	vm.state = state
	fn := vm.onState
	if fn == nil {
		return func() {}
	}
	return func() { fn(state) }
}

func (vm *MoviesViewModel) emit(effect MoviesEffect) {
	select {
	case vm.effects <- effect:
	default:
		log.Printf("[MoviesViewModel] 副作用队列已满，丢弃: %#v", effect)
	}
}
