package model

import "time"

// SearchLog 搜索日志
type SearchLog struct {
	ID        uint      `gorm:"primaryKey"`
	Keyword   string    `gorm:"size:200;not null;index"`
	CreatedAt time.Time `gorm:"index"`
}

// TrendingKeyword 热搜关键词
type TrendingKeyword struct {
	Keyword string `json:"keyword"`
	Count   int64  `json:"count"`
}
