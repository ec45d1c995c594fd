package service

import (
	"time"

	"github.com/user/moviepager/internal/config"
	"github.com/user/moviepager/internal/repository"
	"github.com/user/moviepager/internal/utils"
)

const (
	recentSearchSize = 50
	recentSearchTTL  = 24 * time.Hour
)

// Services 服务集合
type Services struct {
	TMDB            *TMDBClient
	Movies          *MoviesService
	PopularMovies   *GetPopularMoviesPaging
	SearchMovies    *SearchMoviesPaging
	GetMovieDetails *GetMovieDetails
	Sessions        *SessionRegistry
	Warmer          *CacheWarmer
}

// NewServices 创建所有服务
func NewServices(repos *repository.Repositories, cfg *config.Config) (*Services, error) {
	tmdb, err := NewTMDBClient(cfg)
	if err != nil {
		return nil, err
	}
	movies := NewMoviesService(tmdb, repos.MovieCache)

	return &Services{
		TMDB:            tmdb,
		Movies:          movies,
		PopularMovies:   NewGetPopularMoviesPaging(movies),
		SearchMovies:    NewSearchMoviesPaging(movies, utils.NewTTLCache[time.Time](recentSearchSize, recentSearchTTL), repos.SearchLog),
		GetMovieDetails: NewGetMovieDetails(movies),
		Sessions:        NewSessionRegistry(cfg.SessionTTL, cfg.MaxSessions),
		Warmer:          NewCacheWarmer(movies, repos.SearchLog, cfg.CacheRefreshInterval, cfg.TMDBTimeout*4),
	}, nil
}
