package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/user/moviepager/internal/model"
	"github.com/user/moviepager/internal/paging"
)

var errNetwork = errors.New("network unreachable")

// fakeAPI 按页返回预置数据
type fakeAPI struct {
	mu         sync.Mutex
	popular    map[int]*model.MoviesResponse
	search     map[string]map[int]*model.MoviesResponse
	details    map[int]*model.MovieResponse
	failPages  map[int]error
	failSearch error
	calls      []int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		popular:   map[int]*model.MoviesResponse{},
		search:    map[string]map[int]*model.MoviesResponse{},
		details:   map[int]*model.MovieResponse{},
		failPages: map[int]error{},
	}
}

func (f *fakeAPI) PopularMovies(_ context.Context, page int) (*model.MoviesResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, page)
	if err := f.failPages[page]; err != nil {
		return nil, err
	}
	if resp, ok := f.popular[page]; ok {
		return resp, nil
	}
	return &model.MoviesResponse{Page: page, Results: []model.MovieResponse{}}, nil
}

func (f *fakeAPI) SearchMovies(_ context.Context, query string, page int) (*model.MoviesResponse, error) {
	if f.failSearch != nil {
		return nil, f.failSearch
	}
	pages, ok := f.search[query]
	if !ok {
		return &model.MoviesResponse{Page: page, TotalPages: 0}, nil
	}
	return pages[page], nil
}

func (f *fakeAPI) MovieDetails(_ context.Context, id int) (*model.MovieResponse, error) {
	if d, ok := f.details[id]; ok {
		return d, nil
	}
	return nil, fmt.Errorf("details %d: %w", id, ErrMovieNotFound)
}

func (f *fakeAPI) popularCalls() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.calls...)
}

// moviesPage 生成 ID 从 firstID 起的一页
func moviesPage(page, totalPages, firstID, n int) *model.MoviesResponse {
	results := make([]model.MovieResponse, 0, n)
	for i := 0; i < n; i++ {
		id := firstID + i
		results = append(results, model.MovieResponse{
			ID:         id,
			Title:      fmt.Sprintf("Movie %d", id),
			Popularity: float64(10000 - id),
			GenreIDs:   []int{28},
		})
	}
	return &model.MoviesResponse{Page: page, Results: results, TotalPages: totalPages, TotalResults: totalPages * n}
}

// memStore 内存缓存表，按 popularity 倒序
type memStore struct {
	mu         sync.Mutex
	rows       map[int]model.MovieCache
	failWrites error
	replaces   int
	appends    int
	gen        int
}

func newMemStore(rows ...model.MovieCache) *memStore {
	s := &memStore{rows: map[int]model.MovieCache{}}
	for _, r := range rows {
		s.rows[r.ID] = r
	}
	return s
}

func (s *memStore) ReplaceAll(_ context.Context, movies []model.MovieCache) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWrites != nil {
		return s.failWrites
	}
	s.replaces++
	s.gen++
	s.rows = map[int]model.MovieCache{}
	for _, m := range movies {
		s.rows[m.ID] = m
	}
	return nil
}

func (s *memStore) Append(_ context.Context, movies []model.MovieCache) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWrites != nil {
		return s.failWrites
	}
	s.appends++
	s.gen++
	for _, m := range movies {
		s.rows[m.ID] = m
	}
	return nil
}

func (s *memStore) Count(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.rows)), nil
}

func (s *memStore) Exists(ctx context.Context) (bool, error) {
	n, err := s.Count(ctx)
	return n > 0, err
}

func (s *memStore) sorted() []model.MovieCache {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.MovieCache, 0, len(s.rows))
	for _, r := range s.rows {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Popularity != out[j].Popularity {
			return out[i].Popularity > out[j].Popularity
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *memStore) ids() []int {
	rows := s.sorted()
	out := make([]int, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ID)
	}
	return out
}

func (s *memStore) generation() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

func (s *memStore) PagingSource() paging.Source[model.MovieCache] {
	return &memSource{store: s, gen: s.generation()}
}

type memSource struct {
	store *memStore
	gen   int
}

func (m *memSource) Invalid() bool {
	return m.store.generation() != m.gen
}

func (m *memSource) Load(_ context.Context, params paging.LoadParams) (*paging.LoadResult[model.MovieCache], error) {
	rows := m.store.sorted()
	offset := 0
	if params.Key != nil {
		offset = *params.Key
	}
	if offset > len(rows) {
		offset = len(rows)
	}
	end := offset + params.LoadSize
	if end > len(rows) {
		end = len(rows)
	}
	res := &paging.LoadResult[model.MovieCache]{Data: rows[offset:end]}
	if offset > 0 {
		res.PrevKey = paging.Key(offset)
	}
	if end > offset {
		res.NextKey = paging.Key(end)
	}
	return res, nil
}

func (m *memSource) RefreshKey(paging.State) *int {
	return nil
}

func movieIDs(movies []model.Movie) []int {
	out := make([]int, 0, len(movies))
	for _, m := range movies {
		out = append(out, m.ID)
	}
	return out
}

func cacheRow(id int, popularity float64) model.MovieCache {
	return model.MovieCache{ID: id, Title: fmt.Sprintf("Cached %d", id), Popularity: popularity}
}

type memSearchLog struct {
	keywords []string
	pruned   int
}

func (m *memSearchLog) Log(_ context.Context, keyword string) error {
	m.keywords = append(m.keywords, keyword)
	return nil
}

func (m *memSearchLog) GetTrending(context.Context, time.Time, int) ([]model.TrendingKeyword, error) {
	return []model.TrendingKeyword{}, nil
}

func (m *memSearchLog) DeleteOlderThan(context.Context, time.Time) (int64, error) {
	m.pruned++
	return 0, nil
}
