package service

import (
	"context"
	"fmt"
	"log"

	"github.com/user/moviepager/internal/config"
	"github.com/user/moviepager/internal/model"
	"github.com/user/moviepager/internal/paging"
)

// MovieCacheStore 热门电影本地缓存
type MovieCacheStore interface {
	ReplaceAll(ctx context.Context, movies []model.MovieCache) error
	Append(ctx context.Context, movies []model.MovieCache) error
	Count(ctx context.Context) (int64, error)
	Exists(ctx context.Context) (bool, error)
	PagingSource() paging.Source[model.MovieCache]
}

// PopularMoviesMediator 按页从 TMDB 拉取热门电影写入本地缓存。
// 只在 Pager 内使用，Pager 保证不会并发调用 Load。
type PopularMoviesMediator struct {
	api               MoviesAPI
	cache             MovieCacheStore
	lastRequestedPage int
}

// NewPopularMoviesMediator 创建热门电影协调器
func NewPopularMoviesMediator(api MoviesAPI, cache MovieCacheStore) *PopularMoviesMediator {
	return &PopularMoviesMediator{
		api:               api,
		cache:             cache,
		lastRequestedPage: 1,
	}
}

// LastRequestedPage 最后一次成功写入缓存的页码
func (m *PopularMoviesMediator) LastRequestedPage() int {
	return m.lastRequestedPage
}

// Initialize 缓存非空时跳过初始刷新，并把 lastRequestedPage 对齐到缓存已覆盖的页数，
// 下一次 APPEND 直接请求缓存之后的一页
func (m *PopularMoviesMediator) Initialize(ctx context.Context) (paging.InitializeAction, error) {
	n, err := m.cache.Count(ctx)
	if err != nil {
		return paging.LaunchInitialRefresh, fmt.Errorf("check movie cache: %w", err)
	}
	if n == 0 {
		return paging.LaunchInitialRefresh, nil
	}
	m.lastRequestedPage = int((n + config.PageSize - 1) / config.PageSize)
	return paging.SkipInitialRefresh, nil
}

// Load 执行一次远程加载
func (m *PopularMoviesMediator) Load(ctx context.Context, loadType paging.LoadType) (paging.MediatorResult, error) {
	res, err := m.load(ctx, loadType)
	if err == nil {
		return res, nil
	}

	// 刷新失败但缓存里有数据时继续展示缓存
	if loadType == paging.Refresh {
		if exists, existsErr := m.cache.Exists(ctx); existsErr == nil && exists {
			log.Printf("[PopularMediator] 刷新失败，继续使用缓存数据: %v", err)
			return paging.MediatorResult{EndOfPaginationReached: false}, nil
		}
	}
	log.Printf("[PopularMediator] %s 加载失败: %v", loadType, err)
	return paging.MediatorResult{}, err
}

func (m *PopularMoviesMediator) load(ctx context.Context, loadType paging.LoadType) (paging.MediatorResult, error) {
	var page int
	switch loadType {
	case paging.Refresh:
		m.lastRequestedPage = 1
		page = 1
	case paging.Prepend:
		return paging.MediatorResult{EndOfPaginationReached: true}, nil
	case paging.Append:
		page = m.lastRequestedPage + 1
	default:
		return paging.MediatorResult{}, fmt.Errorf("unknown load type %v", loadType)
	}

	resp, err := m.api.PopularMovies(ctx, page)
	if err != nil {
		return paging.MediatorResult{}, fmt.Errorf("fetch popular page %d: %w", page, err)
	}

	var rows []model.MovieCache
	totalPages := 0
	if resp != nil {
		totalPages = resp.TotalPages
		rows = make([]model.MovieCache, 0, len(resp.Results))
		for _, r := range resp.Results {
			rows = append(rows, r.ToDomain().ToCache())
		}
	}
	end := len(rows) == 0 || (totalPages > 0 && page >= totalPages)

	if len(rows) > 0 {
		if loadType == paging.Refresh {
			err = m.cache.ReplaceAll(ctx, rows)
		} else {
			err = m.cache.Append(ctx, rows)
		}
		if err != nil {
			return paging.MediatorResult{}, fmt.Errorf("write popular page %d: %w", page, err)
		}
		m.lastRequestedPage = page
	}

	return paging.MediatorResult{EndOfPaginationReached: end}, nil
}
