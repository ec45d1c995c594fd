package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/user/moviepager/internal/model"
	"github.com/user/moviepager/internal/paging"
)

func TestMediatorInitialize(t *testing.T) {
	ctx := context.Background()

	cold := NewPopularMoviesMediator(newFakeAPI(), newMemStore())
	if action, err := cold.Initialize(ctx); err != nil || action != paging.LaunchInitialRefresh {
		t.Errorf("empty cache: %v, %v; want LAUNCH_INITIAL_REFRESH", action, err)
	}

	warm := NewPopularMoviesMediator(newFakeAPI(), newMemStore(cacheRow(1, 1)))
	if action, err := warm.Initialize(ctx); err != nil || action != paging.SkipInitialRefresh {
		t.Errorf("warm cache: %v, %v; want SKIP_INITIAL_REFRESH", action, err)
	}

	// 缓存已有 45 行，下一次 APPEND 应请求第 4 页
	var rows []model.MovieCache
	for id := 1; id <= 45; id++ {
		rows = append(rows, cacheRow(id, float64(100-id)))
	}
	deep := NewPopularMoviesMediator(newFakeAPI(), newMemStore(rows...))
	if _, err := deep.Initialize(ctx); err != nil {
		t.Fatal(err)
	}
	if deep.LastRequestedPage() != 3 {
		t.Errorf("lastRequestedPage = %d, want 3", deep.LastRequestedPage())
	}
}

func TestMediatorFirstLoadColdCache(t *testing.T) {
	api := newFakeAPI()
	api.popular[1] = moviesPage(1, 3, 1, 20)
	store := newMemStore()
	m := NewPopularMoviesMediator(api, store)

	res, err := m.Load(context.Background(), paging.Refresh)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if res.EndOfPaginationReached {
		t.Error("page 1 of 3 should not end pagination")
	}
	if n, _ := store.Count(context.Background()); n != 20 {
		t.Errorf("cache rows = %d, want 20", n)
	}
	if m.LastRequestedPage() != 1 {
		t.Errorf("lastRequestedPage = %d, want 1", m.LastRequestedPage())
	}
}

func TestMediatorRefreshReplacesCache(t *testing.T) {
	api := newFakeAPI()
	api.popular[1] = moviesPage(1, 5, 1, 3)
	store := newMemStore(cacheRow(900, 1), cacheRow(901, 2))
	m := NewPopularMoviesMediator(api, store)

	if _, err := m.Load(context.Background(), paging.Refresh); err != nil {
		t.Fatal(err)
	}
	if got := store.ids(); !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Errorf("cache = %v, want [1 2 3]", got)
	}
	for _, r := range store.sorted() {
		if r.CacheTimestamp == 0 {
			t.Errorf("row %d has no cache timestamp", r.ID)
		}
	}
}

func TestMediatorRefreshEmptyLeavesCache(t *testing.T) {
	api := newFakeAPI()
	store := newMemStore(cacheRow(7, 1))
	m := NewPopularMoviesMediator(api, store)

	res, err := m.Load(context.Background(), paging.Refresh)
	if err != nil {
		t.Fatal(err)
	}
	if !res.EndOfPaginationReached {
		t.Error("empty results should end pagination")
	}
	if store.replaces != 0 || !reflect.DeepEqual(store.ids(), []int{7}) {
		t.Errorf("cache touched: replaces=%d ids=%v", store.replaces, store.ids())
	}
}

func TestMediatorAppendAdvancesPage(t *testing.T) {
	api := newFakeAPI()
	api.popular[1] = moviesPage(1, 3, 1, 3)
	api.popular[2] = moviesPage(2, 3, 3, 3)
	store := newMemStore()
	m := NewPopularMoviesMediator(api, store)
	ctx := context.Background()

	if _, err := m.Load(ctx, paging.Refresh); err != nil {
		t.Fatal(err)
	}
	res, err := m.Load(ctx, paging.Append)
	if err != nil {
		t.Fatal(err)
	}
	if res.EndOfPaginationReached {
		t.Error("page 2 of 3 should not end pagination")
	}
	if m.LastRequestedPage() != 2 {
		t.Errorf("lastRequestedPage = %d, want 2", m.LastRequestedPage())
	}
	// 3 在两页中都出现，只保留一行
	if got := store.ids(); !reflect.DeepEqual(got, []int{1, 2, 3, 4, 5}) {
		t.Errorf("cache = %v, want [1 2 3 4 5]", got)
	}
	if !reflect.DeepEqual(api.popularCalls(), []int{1, 2}) {
		t.Errorf("pages requested = %v", api.popularCalls())
	}
}

func TestMediatorLastPageEndsPagination(t *testing.T) {
	api := newFakeAPI()
	api.popular[1] = moviesPage(1, 2, 1, 2)
	api.popular[2] = moviesPage(2, 2, 3, 2)
	m := NewPopularMoviesMediator(api, newMemStore())
	ctx := context.Background()

	if _, err := m.Load(ctx, paging.Refresh); err != nil {
		t.Fatal(err)
	}
	res, err := m.Load(ctx, paging.Append)
	if err != nil {
		t.Fatal(err)
	}
	if !res.EndOfPaginationReached {
		t.Error("page >= totalPages should end pagination")
	}
}

func TestMediatorPrependIsTerminal(t *testing.T) {
	api := newFakeAPI()
	m := NewPopularMoviesMediator(api, newMemStore())

	res, err := m.Load(context.Background(), paging.Prepend)
	if err != nil || !res.EndOfPaginationReached {
		t.Fatalf("Prepend = %+v, %v", res, err)
	}
	if len(api.popularCalls()) != 0 {
		t.Errorf("prepend hit the network: %v", api.popularCalls())
	}
}

func TestMediatorRefreshErrorWithWarmCacheIsSwallowed(t *testing.T) {
	api := newFakeAPI()
	api.failPages[1] = errNetwork
	store := newMemStore(cacheRow(1, 1))
	m := NewPopularMoviesMediator(api, store)

	res, err := m.Load(context.Background(), paging.Refresh)
	if err != nil {
		t.Fatalf("error should be swallowed, got %v", err)
	}
	if res.EndOfPaginationReached {
		t.Error("swallowed refresh should report not end of pagination")
	}
	if !reflect.DeepEqual(store.ids(), []int{1}) {
		t.Errorf("cache changed: %v", store.ids())
	}
}

func TestMediatorWriteErrorWithWarmCacheIsSwallowed(t *testing.T) {
	api := newFakeAPI()
	api.popular[1] = moviesPage(1, 1, 1, 2)
	store := newMemStore(cacheRow(50, 1))
	store.failWrites = errors.New("disk full")
	m := NewPopularMoviesMediator(api, store)

	if _, err := m.Load(context.Background(), paging.Refresh); err != nil {
		t.Fatalf("error should be swallowed, got %v", err)
	}
}

func TestMediatorRefreshErrorWithEmptyCacheSurfaces(t *testing.T) {
	api := newFakeAPI()
	api.failPages[1] = errNetwork
	m := NewPopularMoviesMediator(api, newMemStore())

	_, err := m.Load(context.Background(), paging.Refresh)
	if !errors.Is(err, errNetwork) {
		t.Fatalf("err = %v, want network error", err)
	}
}

func TestMediatorAppendErrorSurfacesWithWarmCache(t *testing.T) {
	api := newFakeAPI()
	api.failPages[2] = errNetwork
	m := NewPopularMoviesMediator(api, newMemStore(cacheRow(1, 1)))

	_, err := m.Load(context.Background(), paging.Append)
	if !errors.Is(err, errNetwork) {
		t.Fatalf("err = %v, want network error", err)
	}
	if m.LastRequestedPage() != 1 {
		t.Errorf("failed append advanced lastRequestedPage to %d", m.LastRequestedPage())
	}
}
