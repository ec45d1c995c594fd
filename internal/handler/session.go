package handler

import (
	"errors"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/user/moviepager/internal/model"
	"github.com/user/moviepager/internal/paging"
	"github.com/user/moviepager/internal/service"
	"github.com/user/moviepager/internal/utils"
)

// SessionPage 会话中的一段数据
type SessionPage struct {
	SessionID string        `json:"session_id"`
	Kind      string        `json:"kind"`
	Query     string        `json:"query,omitempty"`
	Items     []model.Movie `json:"items"`
	Loaded    int           `json:"loaded"`
	End       bool          `json:"end"`
}

type searchRequest struct {
	Query string `json:"query" binding:"required,notblank,max=200"`
}

type windowQuery struct {
	From  int `form:"from" binding:"min=0"`
	Count int `form:"count" binding:"required,min=1,max=100"`
}

func pageOf(s *service.Session, items []model.Movie, end bool) SessionPage {
	if items == nil {
		items = []model.Movie{}
	}
	return SessionPage{
		SessionID: s.ID,
		Kind:      string(s.Kind),
		Query:     s.Query,
		Items:     items,
		Loaded:    len(s.Pager.Items()),
		End:       end,
	}
}

// CreatePopularSession 创建热门电影会话并加载首页
func (h *Handler) CreatePopularSession(c *gin.Context) {
	h.startSession(c, service.SessionPopular, "", h.Services.PopularMovies.Execute())
}

// CreateSearchSession 创建搜索会话并加载首页
func (h *Handler) CreateSearchSession(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "搜索词不能为空")
		return
	}
	h.startSession(c, service.SessionSearch, req.Query, h.Services.SearchMovies.Execute(req.Query))
}

func (h *Handler) startSession(c *gin.Context, kind service.SessionKind, query string, pager *paging.Pager[model.Movie]) {
	sess, err := h.Services.Sessions.Create(kind, query, pager)
	if err != nil {
		pager.Close()
		if errors.Is(err, service.ErrTooManySessions) {
			utils.TooManyRequests(c, "会话数量已达上限")
			return
		}
		utils.InternalServerError(c, "")
		return
	}

	items, err := pager.Refresh(c.Request.Context())
	if err != nil {
		log.Printf("[Session] %s 会话首页加载失败: %v", kind, err)
		h.Services.Sessions.Close(sess.ID)
		respondPagingError(c, err)
		return
	}
	utils.Created(c, pageOf(sess, items, pager.Exhausted()))
}

func (h *Handler) session(c *gin.Context) (*service.Session, bool) {
	sess, ok := h.Services.Sessions.Get(c.Param("id"))
	if !ok {
		utils.NotFound(c, "会话不存在或已过期")
		return nil, false
	}
	return sess, true
}

// NextPage 加载下一页，items 为空表示已到末尾
func (h *Handler) NextPage(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	items, err := sess.Pager.LoadNext(c.Request.Context())
	if err != nil {
		respondPagingError(c, err)
		return
	}
	utils.Success(c, pageOf(sess, items, len(items) == 0 || sess.Pager.Exhausted()))
}

// Items 读取 [from, from+count) 范围的数据，按需预取
func (h *Handler) Items(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var q windowQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.BadRequest(c, "无效的范围参数")
		return
	}
	items, end, err := sess.Pager.Window(c.Request.Context(), q.From, q.Count)
	if err != nil {
		respondPagingError(c, err)
		return
	}
	utils.Success(c, pageOf(sess, items, end))
}

// RefreshSession 显式刷新
func (h *Handler) RefreshSession(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	items, err := sess.Pager.Refresh(c.Request.Context())
	if err != nil {
		respondPagingError(c, err)
		return
	}
	utils.Success(c, pageOf(sess, items, sess.Pager.Exhausted()))
}

// CloseSession 关闭会话
func (h *Handler) CloseSession(c *gin.Context) {
	if !h.Services.Sessions.Close(c.Param("id")) {
		utils.NotFound(c, "会话不存在或已过期")
		return
	}
	utils.Success(c, gin.H{"closed": true})
}
