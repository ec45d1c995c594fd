package handler

import (
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/user/moviepager/internal/config"
	"github.com/user/moviepager/internal/paging"
	"github.com/user/moviepager/internal/repository"
	"github.com/user/moviepager/internal/service"
	"github.com/user/moviepager/internal/utils"
)

// Handler HTTP 处理器
type Handler struct {
	Repos    *repository.Repositories
	Services *service.Services
	Config   *config.Config
}

var registerOnce sync.Once

// NewHandler 创建处理器
func NewHandler(repos *repository.Repositories, services *service.Services, cfg *config.Config) *Handler {
	registerOnce.Do(registerValidators)
	return &Handler{
		Repos:    repos,
		Services: services,
		Config:   cfg,
	}
}

// registerValidators 注册自定义校验规则
func registerValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	if err := v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	}); err != nil {
		log.Printf("注册 notblank 校验失败: %v", err)
	}
}

// respondPagingError 分页错误统一处理
func respondPagingError(c *gin.Context, err error) {
	if errors.Is(err, paging.ErrSessionClosed) {
		utils.NotFound(c, "会话不存在或已关闭")
		return
	}
	_ = c.Error(err)
	utils.BadGateway(c, err.Error())
}
