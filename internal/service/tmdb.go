package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/user/moviepager/internal/config"
	"github.com/user/moviepager/internal/model"
	"github.com/user/moviepager/internal/utils"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrMovieNotFound TMDB 返回 404
	ErrMovieNotFound = errors.New("movie not found")
	// ErrEmptyResponse 接口成功但没有响应体
	ErrEmptyResponse = errors.New("empty response from TMDB")
)

// APIError TMDB 返回的非 2xx 错误
type APIError struct {
	HTTPStatus int
	Code       int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("tmdb: http %d", e.HTTPStatus)
	}
	return fmt.Sprintf("tmdb: http %d: %s (code %d)", e.HTTPStatus, e.Message, e.Code)
}

// MoviesAPI 远程电影数据源
type MoviesAPI interface {
	PopularMovies(ctx context.Context, page int) (*model.MoviesResponse, error)
	SearchMovies(ctx context.Context, query string, page int) (*model.MoviesResponse, error)
	MovieDetails(ctx context.Context, id int) (*model.MovieResponse, error)
}

// TMDBClient TMDB v3 客户端
type TMDBClient struct {
	http     *utils.HTTPClient
	baseURL  *url.URL
	language string
	group    singleflight.Group
}

// NewTMDBClient 创建 TMDB 客户端
func NewTMDBClient(cfg *config.Config) (*TMDBClient, error) {
	raw := cfg.TMDBBaseURL
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid TMDB base url %q: %w", cfg.TMDBBaseURL, err)
	}

	headers := map[string]string{
		"Accept":       "application/json",
		"Content-Type": "application/json",
	}
	if cfg.TMDBToken != "" {
		headers["Authorization"] = "Bearer " + cfg.TMDBToken
	}

	return &TMDBClient{
		http:     utils.NewHTTPClient(cfg.TMDBTimeout, headers),
		baseURL:  base,
		language: cfg.TMDBLanguage,
	}, nil
}

// PopularMovies GET 3/movie/popular
func (c *TMDBClient) PopularMovies(ctx context.Context, page int) (*model.MoviesResponse, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))

	var resp *model.MoviesResponse
	if err := c.get(ctx, "3/movie/popular", q, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// SearchMovies GET 3/search/movie
func (c *TMDBClient) SearchMovies(ctx context.Context, query string, page int) (*model.MoviesResponse, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("page", strconv.Itoa(page))

	var resp *model.MoviesResponse
	if err := c.get(ctx, "3/search/movie", q, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// MovieDetails GET 3/movie/{id}，同一 id 的并发请求合并为一次。
// 合并后的请求不受单个调用方取消影响，只受客户端超时限制；每个调用方各自等待自己的 ctx。
func (c *TMDBClient) MovieDetails(ctx context.Context, id int) (*model.MovieResponse, error) {
	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(strconv.Itoa(id), func() (interface{}, error) {
		var resp *model.MovieResponse
		if err := c.get(shared, "3/movie/"+strconv.Itoa(id), url.Values{}, &resp); err != nil {
			return nil, err
		}
		return resp, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*model.MovieResponse), nil
	}
}

func (c *TMDBClient) get(ctx context.Context, path string, q url.Values, target interface{}) error {
	if c.language != "" {
		q.Set("language", c.language)
	}
	u := c.baseURL.ResolveReference(&url.URL{Path: path, RawQuery: q.Encode()})

	err := c.http.GetJSON(ctx, u.String(), target)
	if err == nil {
		return nil
	}

	var statusErr *utils.StatusError
	if !errors.As(err, &statusErr) {
		return fmt.Errorf("tmdb %s: %w", path, err)
	}
	if statusErr.StatusCode == http.StatusNotFound {
		return fmt.Errorf("tmdb %s: %w", path, ErrMovieNotFound)
	}
	apiErr := &APIError{HTTPStatus: statusErr.StatusCode}
	var body model.ErrorResponse
	if json.Unmarshal(statusErr.Body, &body) == nil {
		apiErr.Code = body.StatusCode
		apiErr.Message = body.StatusMessage
	}
	return apiErr
}
