package model

import "time"

// ToDomain 转换为领域模型
func (r MovieResponse) ToDomain() Movie {
	genres := r.GenreIDs
	if genres == nil {
		genres = []int{}
	}
	return Movie{
		ID:               r.ID,
		Title:            r.Title,
		Overview:         r.Overview,
		PosterPath:       r.PosterPath,
		BackdropPath:     r.BackdropPath,
		ReleaseDate:      r.ReleaseDate,
		VoteAverage:      r.VoteAverage,
		VoteCount:        r.VoteCount,
		Popularity:       r.Popularity,
		Adult:            r.Adult,
		OriginalLanguage: r.OriginalLanguage,
		OriginalTitle:    r.OriginalTitle,
		GenreIDs:         genres,
	}
}

// ToDomain 转换为领域分页模型
func (r MoviesResponse) ToDomain() MoviesPage {
	results := make([]Movie, 0, len(r.Results))
	for _, m := range r.Results {
		results = append(results, m.ToDomain())
	}
	return MoviesPage{
		Page:         r.Page,
		Results:      results,
		TotalPages:   r.TotalPages,
		TotalResults: r.TotalResults,
	}
}

// ToCache 转换为缓存行，类型 ID 不入库
func (m Movie) ToCache() MovieCache {
	return MovieCache{
		ID:               m.ID,
		Title:            m.Title,
		Overview:         m.Overview,
		PosterPath:       m.PosterPath,
		BackdropPath:     m.BackdropPath,
		ReleaseDate:      m.ReleaseDate,
		VoteAverage:      m.VoteAverage,
		VoteCount:        m.VoteCount,
		Popularity:       m.Popularity,
		Adult:            m.Adult,
		OriginalLanguage: m.OriginalLanguage,
		OriginalTitle:    m.OriginalTitle,
		CacheTimestamp:   time.Now().UnixMilli(),
	}
}

// ToDomain 缓存行转换为领域模型，GenreIDs 为空
func (c MovieCache) ToDomain() Movie {
	return Movie{
		ID:               c.ID,
		Title:            c.Title,
		Overview:         c.Overview,
		PosterPath:       c.PosterPath,
		BackdropPath:     c.BackdropPath,
		ReleaseDate:      c.ReleaseDate,
		VoteAverage:      c.VoteAverage,
		VoteCount:        c.VoteCount,
		Popularity:       c.Popularity,
		Adult:            c.Adult,
		OriginalLanguage: c.OriginalLanguage,
		OriginalTitle:    c.OriginalTitle,
		GenreIDs:         []int{},
	}
}
