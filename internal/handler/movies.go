package handler

import (
	"log"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/user/moviepager/internal/utils"
)

const (
	defaultRecentSearches = 10
	defaultTrendingLimit  = 10
	defaultTrendingHours  = 24
)

// MovieDetail 电影详情
func (h *Handler) MovieDetail(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		utils.BadRequest(c, "无效的电影 ID")
		return
	}

	movie := h.Services.GetMovieDetails.Execute(c.Request.Context(), id)
	if movie == nil {
		utils.NotFound(c, "电影未找到")
		return
	}
	utils.Success(c, movie)
}

type recentQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=50"`
}

// RecentSearches 最近搜索词
func (h *Handler) RecentSearches(c *gin.Context) {
	var q recentQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.BadRequest(c, "无效的参数")
		return
	}
	if q.Limit == 0 {
		q.Limit = defaultRecentSearches
	}
	utils.Success(c, gin.H{"queries": h.Services.SearchMovies.Recent(q.Limit)})
}

type trendingQuery struct {
	Hours int `form:"hours" binding:"omitempty,min=1,max=720"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=50"`
}

// TrendingSearches 一段时间内的热门搜索词
func (h *Handler) TrendingSearches(c *gin.Context) {
	var q trendingQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.BadRequest(c, "无效的参数")
		return
	}
	if q.Hours == 0 {
		q.Hours = defaultTrendingHours
	}
	if q.Limit == 0 {
		q.Limit = defaultTrendingLimit
	}

	keywords, err := h.Services.SearchMovies.Trending(c.Request.Context(), time.Duration(q.Hours)*time.Hour, q.Limit)
	if err != nil {
		log.Printf("[TrendingSearches] 查询热门搜索失败: %v", err)
		utils.InternalServerError(c, "查询热门搜索失败")
		return
	}
	utils.Success(c, gin.H{"keywords": keywords})
}
