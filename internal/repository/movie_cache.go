package repository

import (
	"context"
	"database/sql"
	"sync/atomic"
	"time"

	"github.com/user/moviepager/internal/model"
	"github.com/user/moviepager/internal/paging"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// 批量写入时每批条数
const insertBatchSize = 100

// MovieCacheRepository 热门电影缓存表，按 popularity 降序读取。
// 每次成功写入都会递增写入代数，之前创建的分页数据源随之失效。
type MovieCacheRepository struct {
	db  *gorm.DB
	gen atomic.Uint64
}

func NewMovieCacheRepository(db *gorm.DB) *MovieCacheRepository {
	return &MovieCacheRepository{db: db}
}

// ReplaceAll 在一个事务里清空表后批量写入；movies 为空时表被清空
func (r *MovieCacheRepository) ReplaceAll(ctx context.Context, movies []model.MovieCache) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM movies").Error; err != nil {
			return err
		}
		return insertOrReplace(tx, movies)
	})
	if err != nil {
		return err
	}
	r.gen.Add(1)
	return nil
}

// Append 按主键插入或整行替换，不清空已有数据
func (r *MovieCacheRepository) Append(ctx context.Context, movies []model.MovieCache) error {
	if len(movies) == 0 {
		return nil
	}
	if err := insertOrReplace(r.db.WithContext(ctx), movies); err != nil {
		return err
	}
	r.gen.Add(1)
	return nil
}

func insertOrReplace(tx *gorm.DB, movies []model.MovieCache) error {
	if len(movies) == 0 {
		return nil
	}
	now := time.Now().UnixMilli()
	rows := make([]model.MovieCache, len(movies))
	for i, m := range movies {
		if m.CacheTimestamp == 0 {
			m.CacheTimestamp = now
		}
		rows[i] = m
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).CreateInBatches(rows, insertBatchSize).Error
}

// Count 缓存行数
func (r *MovieCacheRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.MovieCache{}).Count(&n).Error
	return n, err
}

// Exists 缓存是否非空
func (r *MovieCacheRepository) Exists(ctx context.Context) (bool, error) {
	var ids []int
	err := r.db.WithContext(ctx).Model(&model.MovieCache{}).Limit(1).Pluck("id", &ids).Error
	if err != nil {
		return false, err
	}
	return len(ids) > 0, nil
}

// Page 按 popularity 降序读取 [offset, offset+limit)
func (r *MovieCacheRepository) Page(ctx context.Context, offset, limit int) ([]model.MovieCache, error) {
	var rows []model.MovieCache
	err := r.db.WithContext(ctx).
		Order("popularity DESC").
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// Clear 清空缓存
func (r *MovieCacheRepository) Clear(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Exec("DELETE FROM movies")
	if res.Error != nil {
		return 0, res.Error
	}
	r.gen.Add(1)
	return res.RowsAffected, nil
}

// Generation 当前写入代数
func (r *MovieCacheRepository) Generation() uint64 {
	return r.gen.Load()
}

// OldestTimestamp 最早写入时间（毫秒），表为空时返回 0
func (r *MovieCacheRepository) OldestTimestamp(ctx context.Context) (int64, error) {
	var ts sql.NullInt64
	err := r.db.WithContext(ctx).Model(&model.MovieCache{}).
		Select("MIN(cache_timestamp)").
		Row().Scan(&ts)
	if err != nil {
		return 0, err
	}
	return ts.Int64, nil
}

// PagingSource 返回以行偏移为 key 的分页数据源，每次调用都从第 0 行重新查询。
// 表在数据源创建之后被写入时，数据源报告失效。
func (r *MovieCacheRepository) PagingSource() paging.Source[model.MovieCache] {
	return &movieCacheSource{repo: r, gen: r.Generation()}
}

type movieCacheSource struct {
	repo *MovieCacheRepository
	gen  uint64
}

func (s *movieCacheSource) Invalid() bool {
	return s.repo.Generation() != s.gen
}

func (s *movieCacheSource) Load(ctx context.Context, params paging.LoadParams) (*paging.LoadResult[model.MovieCache], error) {
	offset := 0
	if params.Key != nil {
		offset = *params.Key
	}
	limit := params.LoadSize

	// 向前加载时 key 是上一窗口的结束位置
	if params.LoadType == paging.Prepend {
		if limit > offset {
			limit = offset
		}
		offset -= limit
	}
	if limit <= 0 {
		return &paging.LoadResult[model.MovieCache]{}, nil
	}

	rows, err := s.repo.Page(ctx, offset, limit)
	if err != nil {
		return nil, err
	}

	res := &paging.LoadResult[model.MovieCache]{Data: rows}
	if offset > 0 {
		res.PrevKey = paging.Key(offset)
	}
	// 读空之前一直给出下一页 key，表可能被协调器追加
	if len(rows) > 0 {
		res.NextKey = paging.Key(offset + len(rows))
	}
	return res, nil
}

func (s *movieCacheSource) RefreshKey(state paging.State) *int {
	if state.AnchorPosition == nil {
		return nil
	}
	key := *state.AnchorPosition - state.Config.InitialLoadSize/2
	if key < 0 {
		key = 0
	}
	return paging.Key(key)
}
