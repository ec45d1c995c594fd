package handler

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/user/moviepager/internal/utils"
)

// ==================== 管理后台 ====================

// AdminCacheStats 缓存统计
func (h *Handler) AdminCacheStats(c *gin.Context) {
	ctx := c.Request.Context()

	count, err := h.Repos.MovieCache.Count(ctx)
	if err != nil {
		log.Printf("[Admin] 统计缓存失败: %v", err)
		utils.InternalServerError(c, "")
		return
	}
	oldest, err := h.Repos.MovieCache.OldestTimestamp(ctx)
	if err != nil {
		log.Printf("[Admin] 获取缓存时间失败: %v", err)
		utils.InternalServerError(c, "")
		return
	}

	stats := gin.H{
		"movies":   count,
		"sessions": h.Services.Sessions.Len(),
	}
	if oldest > 0 {
		stats["oldest_cached_at"] = time.UnixMilli(oldest).UTC().Format(time.RFC3339)
	}
	utils.Success(c, stats)
}

// AdminClearCache 清空热门电影缓存
func (h *Handler) AdminClearCache(c *gin.Context) {
	removed, err := h.Repos.MovieCache.Clear(c.Request.Context())
	if err != nil {
		log.Printf("[Admin] 清空缓存失败: %v", err)
		utils.InternalServerError(c, "")
		return
	}
	log.Printf("[Admin] 已清空 %d 条缓存", removed)
	utils.Success(c, gin.H{"removed": removed})
}
