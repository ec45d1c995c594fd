package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/user/moviepager/internal/handler"
	"github.com/user/moviepager/internal/middleware"
)

// RegisterRoutes 注册所有路由
func RegisterRoutes(r *gin.Engine, h *handler.Handler) {
	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ==================== API ====================
	api := r.Group("/api")
	{
		api.GET("/movies/:id", h.MovieDetail)
		api.GET("/searches/recent", h.RecentSearches)
		api.GET("/searches/trending", h.TrendingSearches)

		sessions := api.Group("/sessions")
		sessions.POST("/popular", h.CreatePopularSession)
		sessions.POST("/search", h.CreateSearchSession)
		sessions.GET("/:id/next", h.NextPage)
		sessions.GET("/:id/items", h.Items)
		sessions.POST("/:id/refresh", h.RefreshSession)
		sessions.DELETE("/:id", h.CloseSession)
	}

	// ==================== 管理后台 ====================
	admin := r.Group("/admin")
	admin.Use(middleware.RequireAdmin(h.Config.AppSecret))
	{
		admin.GET("/cache", h.AdminCacheStats)
		admin.DELETE("/cache", h.AdminClearCache)
	}
}
