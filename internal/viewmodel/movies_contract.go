// Package viewmodel 电影列表与详情页的状态管理
package viewmodel

import "strings"

// ViewMode 列表展示方式
type ViewMode int

const (
	ListView ViewMode = iota
	GridView
)

func (m ViewMode) String() string {
	if m == GridView {
		return "grid"
	}
	return "list"
}

// Listing 当前展示的数据来源
type Listing int

const (
	ListingPopular Listing = iota
	ListingSearch
)

func (l Listing) String() string {
	if l == ListingSearch {
		return "search"
	}
	return "popular"
}

// MoviesState 列表页状态：MoviesIdle | MoviesLoading | MoviesDataLoaded | MoviesError
type MoviesState interface {
	moviesState()
}

type MoviesIdle struct{}

type MoviesLoading struct{}

// MoviesDataLoaded 已有可展示的会话。Query 是输入框内容，可能领先于 Listing。
type MoviesDataLoaded struct {
	Listing     Listing
	Query       string
	SearchQuery string
	ViewMode    ViewMode
}

type MoviesError struct {
	Message string
}

func (MoviesIdle) moviesState()       {}
func (MoviesLoading) moviesState()    {}
func (MoviesDataLoaded) moviesState() {}
func (MoviesError) moviesState()      {}

// MoviesEvent 列表页事件
type MoviesEvent interface {
	moviesEvent()
}

type LoadPopularMovies struct{}

type RefreshMovies struct{}

type SearchMovies struct {
	Query string
}

type UpdateSearchQuery struct {
	Query string
}

type ClearSearch struct{}

type ToggleViewMode struct{}

type NavigateTo struct {
	MovieID int
}

func (LoadPopularMovies) moviesEvent() {}
func (RefreshMovies) moviesEvent()     {}
func (SearchMovies) moviesEvent()      {}
func (UpdateSearchQuery) moviesEvent() {}
func (ClearSearch) moviesEvent()       {}
func (ToggleViewMode) moviesEvent()    {}
func (NavigateTo) moviesEvent()        {}

// MoviesEffect 一次性副作用
type MoviesEffect interface {
	moviesEffect()
}

type ShowError struct {
	Message string
}

type NavigateToMovieDetails struct {
	MovieID int
}

func (ShowError) moviesEffect()              {}
func (NavigateToMovieDetails) moviesEffect() {}

// Action Reduce 之后需要 view-model 执行的动作
type Action int

const (
	ActionNone Action = iota
	// ActionLoadPopular 打开热门会话
	ActionLoadPopular
	// ActionSearch 立即搜索 Transition.Query
	ActionSearch
	// ActionDebounceSearch 防抖后搜索 Transition.Query
	ActionDebounceSearch
	// ActionEmit 发出 Transition.Effect
	ActionEmit
)

// Transition Reduce 的结果
type Transition struct {
	State  MoviesState
	Action Action
	Query  string
	Effect MoviesEffect
	// Reload 当前会话与目标一致时，在原会话上执行远程刷新
	Reload bool
	// CancelPending 取消等待中的防抖搜索
	CancelPending bool
}

func viewModeOf(state MoviesState) ViewMode {
	if s, ok := state.(MoviesDataLoaded); ok {
		return s.ViewMode
	}
	return ListView
}

func popular(state MoviesState) MoviesDataLoaded {
	return MoviesDataLoaded{Listing: ListingPopular, ViewMode: viewModeOf(state)}
}

// Reduce 纯函数：根据当前状态和事件计算下一个状态与需要执行的动作
func Reduce(state MoviesState, event MoviesEvent) Transition {
	switch e := event.(type) {
	case LoadPopularMovies:
		return Transition{State: popular(state), Action: ActionLoadPopular}

	case RefreshMovies:
		if s, ok := state.(MoviesDataLoaded); ok && s.Listing == ListingSearch && s.SearchQuery != "" {
			t := Reduce(state, SearchMovies{Query: s.SearchQuery})
			t.Reload = true
			return t
		}
		return Transition{State: popular(state), Action: ActionLoadPopular, Reload: true}

	case SearchMovies:
		if strings.TrimSpace(e.Query) == "" {
			return Reduce(state, ClearSearch{})
		}
		return Transition{
			State: MoviesDataLoaded{
				Listing:     ListingSearch,
				Query:       e.Query,
				SearchQuery: e.Query,
				ViewMode:    viewModeOf(state),
			},
			Action:        ActionSearch,
			Query:         e.Query,
			CancelPending: true,
		}

	case UpdateSearchQuery:
		if e.Query == "" {
			return Reduce(state, ClearSearch{})
		}
		next := state
		if s, ok := state.(MoviesDataLoaded); ok {
			s.Query = e.Query
			next = s
		}
		return Transition{State: next, Action: ActionDebounceSearch, Query: e.Query, CancelPending: true}

	case ClearSearch:
		return Transition{State: popular(state), Action: ActionLoadPopular, CancelPending: true}

	case ToggleViewMode:
		if s, ok := state.(MoviesDataLoaded); ok {
			if s.ViewMode == ListView {
				s.ViewMode = GridView
			} else {
				s.ViewMode = ListView
			}
			return Transition{State: s}
		}
		return Transition{State: state}

	case NavigateTo:
		return Transition{State: state, Action: ActionEmit, Effect: NavigateToMovieDetails{MovieID: e.MovieID}}
	}
	return Transition{State: state}
}
