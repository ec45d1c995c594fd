package viewmodel

import (
	"context"
	"log"
	"sync"

	"github.com/user/moviepager/internal/model"
)

// DetailsErrorMessage 详情加载失败时的通用提示
const DetailsErrorMessage = "Something went wrong. Please try again."

// MovieDetailsLoader 获取电影详情，失败返回 nil
type MovieDetailsLoader interface {
	Execute(ctx context.Context, id int) *model.Movie
}

// DetailsState 详情页状态：DetailsIdle | DetailsLoading | DetailsLoaded | DetailsError
type DetailsState interface {
	detailsState()
}

type DetailsIdle struct{}

type DetailsLoading struct{}

type DetailsLoaded struct {
	Movie MovieUI
}

type DetailsError struct {
	Message string
}

func (DetailsIdle) detailsState()    {}
func (DetailsLoading) detailsState() {}
func (DetailsLoaded) detailsState()  {}
func (DetailsError) detailsState()   {}

// DetailsEvent 详情页事件
type DetailsEvent interface {
	detailsEvent()
}

type LoadMovieDetails struct {
	MovieID int
}

type NavigateBack struct{}

func (LoadMovieDetails) detailsEvent() {}
func (NavigateBack) detailsEvent()     {}

// DetailsEffect 详情页副作用
type DetailsEffect interface {
	detailsEffect()
}

type NavigateBackEffect struct{}

func (NavigateBackEffect) detailsEffect() {}

// MovieDetailsViewModel 详情页 view-model
type MovieDetailsViewModel struct {
	loader MovieDetailsLoader

	mu      sync.Mutex
	state   DetailsState
	gen     uint64
	effects chan DetailsEffect
}

// NewMovieDetailsViewModel 创建详情页 view-model
func NewMovieDetailsViewModel(loader MovieDetailsLoader) *MovieDetailsViewModel {
	return &MovieDetailsViewModel{
		loader:  loader,
		state:   DetailsIdle{},
		effects: make(chan DetailsEffect, effectBuffer),
	}
}

// State 当前状态
func (vm *MovieDetailsViewModel) State() DetailsState {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.state
}

// Effects 一次性副作用
func (vm *MovieDetailsViewModel) Effects() <-chan DetailsEffect {
	return vm.effects
}

// Dispatch 处理事件
func (vm *MovieDetailsViewModel) Dispatch(ctx context.Context, event DetailsEvent) {
	switch e := event.(type) {
	case LoadMovieDetails:
		vm.load(ctx, e.MovieID)
	case NavigateBack:
		select {
		case vm.effects <- NavigateBackEffect{}:
		default:
			log.Println("[MovieDetailsViewModel] 副作用队列已满")
		}
	}
}

func (vm *MovieDetailsViewModel) load(ctx context.Context, id int) {
	vm.mu.Lock()
	vm.gen++
	gen := vm.gen
	vm.state = DetailsLoading{}
	vm.mu.Unlock()

	movie := vm.loader.Execute(ctx, id)

	vm.mu.Lock()
	defer vm.mu.Unlock()
	if gen != vm.gen {
		return
	}
	if movie == nil {
		vm.state = DetailsError{Message: DetailsErrorMessage}
		return
	}
	vm.state = DetailsLoaded{Movie: ToUI(*movie)}
}
