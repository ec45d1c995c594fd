package service

import (
	"context"
	"fmt"

	"github.com/user/moviepager/internal/model"
	"github.com/user/moviepager/internal/paging"
)

// SearchMoviesSource 按页码直接从网络搜索电影，不经过本地缓存
type SearchMoviesSource struct {
	api   MoviesAPI
	query string
}

// NewSearchMoviesSource 创建搜索数据源
func NewSearchMoviesSource(api MoviesAPI, query string) *SearchMoviesSource {
	return &SearchMoviesSource{api: api, query: query}
}

// Load key 为页码，默认第 1 页
func (s *SearchMoviesSource) Load(ctx context.Context, params paging.LoadParams) (*paging.LoadResult[model.Movie], error) {
	page := 1
	if params.Key != nil {
		page = *params.Key
	}

	resp, err := s.api.SearchMovies(ctx, s.query, page)
	if err != nil {
		return nil, fmt.Errorf("failed to search movies: %w", err)
	}
	if resp == nil {
		return nil, fmt.Errorf("failed to search movies: %w", ErrEmptyResponse)
	}

	data := resp.ToDomain().Results
	res := &paging.LoadResult[model.Movie]{Data: data}
	if page > 1 {
		res.PrevKey = paging.Key(page - 1)
	}
	if page < resp.TotalPages {
		res.NextKey = paging.Key(page + 1)
	}
	return res, nil
}

// RefreshKey 取离锚点最近的页，由相邻页码推算
func (s *SearchMoviesSource) RefreshKey(state paging.State) *int {
	if state.AnchorPosition == nil {
		return nil
	}
	page := state.ClosestPageToPosition(*state.AnchorPosition)
	if page == nil {
		return nil
	}
	if page.PrevKey != nil {
		return paging.Key(*page.PrevKey + 1)
	}
	if page.NextKey != nil {
		return paging.Key(*page.NextKey - 1)
	}
	return nil
}
