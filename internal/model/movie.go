package model

// Movie 电影领域模型
type Movie struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	Overview         string  `json:"overview"`
	PosterPath       *string `json:"poster_path"`
	BackdropPath     *string `json:"backdrop_path"`
	ReleaseDate      string  `json:"release_date"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	Popularity       float64 `json:"popularity"`
	Adult            bool    `json:"adult"`
	OriginalLanguage string  `json:"original_language"`
	OriginalTitle    string  `json:"original_title"`
	GenreIDs         []int   `json:"genre_ids"`
}

// MoviesPage 一页电影（领域模型）
type MoviesPage struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

// MovieCache 热门电影缓存表的一行，冲突时整行替换
type MovieCache struct {
	ID               int     `gorm:"primaryKey;autoIncrement:false"`
	Title            string  `gorm:"not null"`
	Overview         string  `gorm:"type:text"`
	PosterPath       *string
	BackdropPath     *string
	ReleaseDate      string
	VoteAverage      float64
	VoteCount        int
	Popularity       float64 `gorm:"index"`
	Adult            bool
	OriginalLanguage string
	OriginalTitle    string
	// CacheTimestamp 写入时间（毫秒）
	CacheTimestamp int64
}

func (MovieCache) TableName() string {
	return "movies"
}
