package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/user/moviepager/internal/model"
	"github.com/user/moviepager/internal/paging"
	"github.com/user/moviepager/internal/utils"
)

// GetPopularMoviesPaging 热门电影分页
type GetPopularMoviesPaging struct {
	catalog MoviesCatalog
}

func NewGetPopularMoviesPaging(catalog MoviesCatalog) *GetPopularMoviesPaging {
	return &GetPopularMoviesPaging{catalog: catalog}
}

func (u *GetPopularMoviesPaging) Execute() *paging.Pager[model.Movie] {
	return u.catalog.PopularMovies()
}

// SearchLogStore 搜索日志持久化
type SearchLogStore interface {
	Log(ctx context.Context, keyword string) error
	GetTrending(ctx context.Context, since time.Time, limit int) ([]model.TrendingKeyword, error)
}

const searchLogTimeout = 2 * time.Second

// SearchMoviesPaging 搜索分页，同时记录最近搜索词和搜索日志
type SearchMoviesPaging struct {
	catalog MoviesCatalog
	recent  *utils.TTLCache[time.Time]
	logs    SearchLogStore
}

// NewSearchMoviesPaging recent 与 logs 都可以为 nil
func NewSearchMoviesPaging(catalog MoviesCatalog, recent *utils.TTLCache[time.Time], logs SearchLogStore) *SearchMoviesPaging {
	return &SearchMoviesPaging{catalog: catalog, recent: recent, logs: logs}
}

func (u *SearchMoviesPaging) Execute(query string) *paging.Pager[model.Movie] {
	if q := strings.TrimSpace(query); q != "" {
		if u.recent != nil {
			u.recent.Set(q, time.Now())
		}
		if u.logs != nil {
			ctx, cancel := context.WithTimeout(context.Background(), searchLogTimeout)
			if err := u.logs.Log(ctx, q); err != nil {
				log.Printf("[SearchMovies] 记录搜索日志失败: %v", err)
			}
			cancel()
		}
	}
	return u.catalog.SearchMovies(query)
}

// Trending 最近 window 时间内搜索最多的关键词
func (u *SearchMoviesPaging) Trending(ctx context.Context, window time.Duration, limit int) ([]model.TrendingKeyword, error) {
	if u.logs == nil {
		return []model.TrendingKeyword{}, nil
	}
	return u.logs.GetTrending(ctx, time.Now().Add(-window), limit)
}

// Recent 最近的 n 个搜索词，最新的在前
func (u *SearchMoviesPaging) Recent(n int) []string {
	if u.recent == nil {
		return []string{}
	}
	return u.recent.Recent(n)
}

// GetMovieDetails 电影详情
type GetMovieDetails struct {
	catalog MoviesCatalog
}

func NewGetMovieDetails(catalog MoviesCatalog) *GetMovieDetails {
	return &GetMovieDetails{catalog: catalog}
}

func (u *GetMovieDetails) Execute(ctx context.Context, id int) *model.Movie {
	return u.catalog.MovieDetails(ctx, id)
}
