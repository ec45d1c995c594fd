package viewmodel

import (
	"fmt"
	"strings"

	"github.com/user/moviepager/internal/model"
)

// PosterBaseURL 海报图片地址前缀（w780）
const PosterBaseURL = "https://image.tmdb.org/t/p/w780"

const (
	minRating = 0.0
	maxRating = 10.0
)

// MovieUI 展示用的电影
type MovieUI struct {
	ID          int
	Title       string
	PosterPath  *string
	ReleaseDate string
	Rating      float64
	Overview    string
}

// ToUI 领域模型转换为展示模型
func ToUI(m model.Movie) MovieUI {
	return MovieUI{
		ID:          m.ID,
		Title:       m.Title,
		PosterPath:  m.PosterPath,
		ReleaseDate: m.ReleaseDate,
		Rating:      m.VoteAverage,
		Overview:    m.Overview,
	}
}

// ToUIList 批量转换
func ToUIList(movies []model.Movie) []MovieUI {
	out := make([]MovieUI, 0, len(movies))
	for _, m := range movies {
		out = append(out, ToUI(m))
	}
	return out
}

// FormatRating 评分保留一位小数，超出 0-10 显示 N/A
func FormatRating(rating float64) string {
	if rating < minRating || rating > maxRating {
		return "N/A"
	}
	return fmt.Sprintf("%.1f", rating)
}

// PosterURL 完整海报地址，没有海报时返回空串
func (m MovieUI) PosterURL() string {
	if m.PosterPath == nil {
		return ""
	}
	return PosterBaseURL + *m.PosterPath
}

// DisplayTitle 标题为空时显示 Unknown Movie
func (m MovieUI) DisplayTitle() string {
	if strings.TrimSpace(m.Title) == "" {
		return "Unknown Movie"
	}
	return m.Title
}
