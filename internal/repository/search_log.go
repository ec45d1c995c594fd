package repository

import (
	"context"
	"time"

	"github.com/user/moviepager/internal/model"
	"github.com/user/moviepager/internal/utils"
	"gorm.io/gorm"
)

type SearchLogRepository struct {
	db *gorm.DB
}

func NewSearchLogRepository(db *gorm.DB) *SearchLogRepository {
	return &SearchLogRepository{db: db}
}

// Log 记录搜索日志，关键词按 NormalizeKeyword 归一化，空词忽略
func (r *SearchLogRepository) Log(ctx context.Context, keyword string) error {
	keyword = utils.NormalizeKeyword(keyword)
	if keyword == "" {
		return nil
	}
	entry := &model.SearchLog{
		Keyword:   keyword,
		CreatedAt: time.Now().UTC(),
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

// GetTrending since 之后搜索次数最多的关键词
func (r *SearchLogRepository) GetTrending(ctx context.Context, since time.Time, limit int) ([]model.TrendingKeyword, error) {
	keywords := []model.TrendingKeyword{}
	err := r.db.WithContext(ctx).
		Model(&model.SearchLog{}).
		Select("keyword, COUNT(*) AS count").
		Where("created_at > ?", since.UTC()).
		Group("keyword").
		Order("count DESC, keyword ASC").
		Limit(limit).
		Scan(&keywords).Error
	if err != nil {
		return nil, err
	}
	return keywords, nil
}

// DeleteOlderThan 清理 cutoff 之前的搜索日志
func (r *SearchLogRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff.UTC()).
		Delete(&model.SearchLog{})
	return result.RowsAffected, result.Error
}
