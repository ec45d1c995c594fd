package viewmodel

import (
	"context"
	"fmt"
	"sync"

	"github.com/user/moviepager/internal/model"
	"github.com/user/moviepager/internal/paging"
)

// pageSource 按页码返回固定数量的电影
type pageSource struct {
	prefix  int
	pages   int
	perPage int
	err     error
}

func (s *pageSource) Load(_ context.Context, params paging.LoadParams) (*paging.LoadResult[model.Movie], error) {
	if s.err != nil {
		return nil, s.err
	}
	page := 1
	if params.Key != nil {
		page = *params.Key
	}
	data := make([]model.Movie, 0, s.perPage)
	for i := 0; i < s.perPage; i++ {
		id := s.prefix + (page-1)*s.perPage + i
		data = append(data, model.Movie{ID: id, Title: fmt.Sprintf("Movie %d", id), VoteAverage: 7})
	}
	res := &paging.LoadResult[model.Movie]{Data: data}
	if page < s.pages {
		res.NextKey = paging.Key(page + 1)
	}
	return res, nil
}

func (s *pageSource) RefreshKey(paging.State) *int { return nil }

func newTestPager(src *pageSource) *paging.Pager[model.Movie] {
	cfg := paging.Config{PageSize: src.perPage, InitialLoadSize: src.perPage, PrefetchDistance: 1}
	return paging.NewPager(cfg, nil, func() paging.Source[model.Movie] { return src })
}

type fakePopular struct {
	mu    sync.Mutex
	err   error
	calls int
}

func (f *fakePopular) Execute() *paging.Pager[model.Movie] {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return newTestPager(&pageSource{prefix: 1, pages: 2, perPage: 3, err: f.err})
}

func (f *fakePopular) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeSearch struct {
	mu      sync.Mutex
	queries []string
}

func (f *fakeSearch) Execute(query string) *paging.Pager[model.Movie] {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	return newTestPager(&pageSource{prefix: 100, pages: 1, perPage: 2})
}

func (f *fakeSearch) seen() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

type fakeDetails struct {
	movies map[int]model.Movie
}

func (f fakeDetails) Execute(_ context.Context, id int) *model.Movie {
	m, ok := f.movies[id]
	if !ok {
		return nil
	}
	return &m
}
