package service

import (
	"context"
	"errors"
	"log"

	"github.com/user/moviepager/internal/config"
	"github.com/user/moviepager/internal/model"
	"github.com/user/moviepager/internal/paging"
)

// MoviesCatalog 电影数据的统一入口
type MoviesCatalog interface {
	PopularMovies() *paging.Pager[model.Movie]
	SearchMovies(query string) *paging.Pager[model.Movie]
	MovieDetails(ctx context.Context, id int) *model.Movie
}

// MoviesService 组合 TMDB 与本地缓存：热门走缓存+协调器，搜索和详情直连网络
type MoviesService struct {
	api   MoviesAPI
	cache MovieCacheStore
}

// NewMoviesService 创建电影服务
func NewMoviesService(api MoviesAPI, cache MovieCacheStore) *MoviesService {
	return &MoviesService{api: api, cache: cache}
}

// PopularMovies 热门电影分页会话，每次调用都是独立的协调器和会话
func (s *MoviesService) PopularMovies() *paging.Pager[model.Movie] {
	cfg := paging.Config{
		PageSize:         config.PageSize,
		InitialLoadSize:  config.InitialLoadSize,
		PrefetchDistance: config.PrefetchDistance,
	}
	mediator := NewPopularMoviesMediator(s.api, s.cache)
	return paging.NewPager(cfg, mediator, func() paging.Source[model.Movie] {
		return paging.MapSource(s.cache.PagingSource(), model.MovieCache.ToDomain)
	})
}

// SearchMovies 搜索分页会话，不写缓存
func (s *MoviesService) SearchMovies(query string) *paging.Pager[model.Movie] {
	cfg := paging.Config{
		PageSize:         config.PageSize,
		InitialLoadSize:  config.InitialLoadSize,
		PrefetchDistance: config.PageSize,
	}
	return paging.NewPager(cfg, nil, func() paging.Source[model.Movie] {
		return NewSearchMoviesSource(s.api, query)
	})
}

// MovieDetails 获取电影详情，任何失败都返回 nil
func (s *MoviesService) MovieDetails(ctx context.Context, id int) *model.Movie {
	resp, err := s.api.MovieDetails(ctx, id)
	if err != nil {
		if errors.Is(err, ErrMovieNotFound) {
			log.Printf("[MoviesService] 电影不存在: %d", id)
		} else {
			log.Printf("[MoviesService] 获取电影详情失败 (ID: %d): %v", id, err)
		}
		return nil
	}
	if resp == nil {
		return nil
	}
	movie := resp.ToDomain()
	return &movie
}

// RefreshCache 用新的协调器执行一次远程刷新，返回是否已到末页
func (s *MoviesService) RefreshCache(ctx context.Context) (bool, error) {
	res, err := NewPopularMoviesMediator(s.api, s.cache).Load(ctx, paging.Refresh)
	if err != nil {
		return false, err
	}
	return res.EndOfPaginationReached, nil
}

// CachedCount 缓存中的电影条数
func (s *MoviesService) CachedCount(ctx context.Context) (int64, error) {
	return s.cache.Count(ctx)
}
