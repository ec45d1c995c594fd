package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/user/moviepager/internal/paging"
)

func TestSessionRegistryLifecycle(t *testing.T) {
	svc := NewMoviesService(newFakeAPI(), newMemStore(cacheRow(1, 1)))
	reg := NewSessionRegistry(time.Minute, 10)

	s, err := reg.Create(SessionPopular, "", svc.PopularMovies())
	if err != nil {
		t.Fatal(err)
	}
	if s.ID == "" || s.Kind != SessionPopular {
		t.Fatalf("session = %+v", s)
	}

	got, ok := reg.Get(s.ID)
	if !ok || got != s {
		t.Fatalf("Get(%s) = %v, %v", s.ID, got, ok)
	}
	if reg.Len() != 1 {
		t.Errorf("Len = %d", reg.Len())
	}

	if !reg.Close(s.ID) {
		t.Fatal("Close returned false")
	}
	if reg.Close(s.ID) {
		t.Error("second Close should return false")
	}
	if _, ok := reg.Get(s.ID); ok {
		t.Error("closed session still registered")
	}
	if _, err := s.Pager.Refresh(context.Background()); !errors.Is(err, paging.ErrSessionClosed) {
		t.Errorf("pager after close: %v, want ErrSessionClosed", err)
	}
}

func TestSessionRegistryLimit(t *testing.T) {
	svc := NewMoviesService(newFakeAPI(), newMemStore())
	reg := NewSessionRegistry(time.Minute, 2)

	for i := 0; i < 2; i++ {
		if _, err := reg.Create(SessionSearch, "q", svc.SearchMovies("q")); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := reg.Create(SessionSearch, "q", svc.SearchMovies("q")); !errors.Is(err, ErrTooManySessions) {
		t.Fatalf("err = %v, want ErrTooManySessions", err)
	}

	reg.CloseAll()
	if reg.Len() != 0 {
		t.Errorf("Len after CloseAll = %d", reg.Len())
	}
}

func TestSessionRegistryExpiry(t *testing.T) {
	svc := NewMoviesService(newFakeAPI(), newMemStore())
	reg := NewSessionRegistry(20*time.Millisecond, 0)

	s, err := reg.Create(SessionSearch, "q", svc.SearchMovies("q"))
	if err != nil {
		t.Fatal(err)
	}
	time.Sleep(40 * time.Millisecond)
	if _, ok := reg.Get(s.ID); ok {
		t.Error("expired session still returned")
	}
}
