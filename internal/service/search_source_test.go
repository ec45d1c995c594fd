package service

import (
	"context"
	"errors"
	"testing"

	"github.com/user/moviepager/internal/model"
	"github.com/user/moviepager/internal/paging"
)

func TestSearchSourceSinglePage(t *testing.T) {
	api := newFakeAPI()
	api.search["Avengers"] = map[int]*model.MoviesResponse{1: moviesPage(1, 1, 100, 3)}
	src := NewSearchMoviesSource(api, "Avengers")

	res, err := src.Load(context.Background(), paging.LoadParams{LoadSize: 20, LoadType: paging.Refresh})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Data) != 3 || res.Data[0].ID != 100 {
		t.Errorf("data = %v", movieIDs(res.Data))
	}
	if res.PrevKey != nil || res.NextKey != nil {
		t.Errorf("keys = %v/%v, want nil/nil", res.PrevKey, res.NextKey)
	}
}

func TestSearchSourceMiddlePage(t *testing.T) {
	api := newFakeAPI()
	api.search["q"] = map[int]*model.MoviesResponse{2: moviesPage(2, 3, 1, 2)}
	src := NewSearchMoviesSource(api, "q")

	res, err := src.Load(context.Background(), paging.LoadParams{Key: paging.Key(2), LoadSize: 20, LoadType: paging.Append})
	if err != nil {
		t.Fatal(err)
	}
	if res.PrevKey == nil || *res.PrevKey != 1 || res.NextKey == nil || *res.NextKey != 3 {
		t.Errorf("keys = %v/%v, want 1/3", res.PrevKey, res.NextKey)
	}
}

func TestSearchSourceErrors(t *testing.T) {
	api := newFakeAPI()
	api.failSearch = errNetwork
	_, err := NewSearchMoviesSource(api, "q").Load(context.Background(), paging.LoadParams{LoadSize: 20})
	if !errors.Is(err, errNetwork) {
		t.Errorf("err = %v, want network error", err)
	}

	api = newFakeAPI()
	api.search["nil"] = map[int]*model.MoviesResponse{}
	_, err = NewSearchMoviesSource(api, "nil").Load(context.Background(), paging.LoadParams{LoadSize: 20})
	if !errors.Is(err, ErrEmptyResponse) {
		t.Errorf("err = %v, want ErrEmptyResponse", err)
	}
}

func TestSearchSourceRefreshKey(t *testing.T) {
	src := NewSearchMoviesSource(newFakeAPI(), "q")
	if key := src.RefreshKey(paging.State{}); key != nil {
		t.Errorf("no anchor: %v", *key)
	}

	anchor := 25
	state := paging.State{
		AnchorPosition: &anchor,
		Pages: []paging.PageInfo{
			{NextKey: paging.Key(2), Count: 20},
			{PrevKey: paging.Key(1), NextKey: paging.Key(3), Count: 20},
		},
	}
	if key := src.RefreshKey(state); key == nil || *key != 2 {
		t.Errorf("anchor in page 2 -> %v, want 2", key)
	}

	anchor = 5
	if key := src.RefreshKey(state); key == nil || *key != 1 {
		t.Errorf("anchor in page 1 -> %v, want 1", key)
	}

	single := paging.State{AnchorPosition: &anchor, Pages: []paging.PageInfo{{Count: 3}}}
	if key := src.RefreshKey(single); key != nil {
		t.Errorf("single page without neighbours -> %v, want nil", *key)
	}
}
