package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // 确保在精简镜像中也能识别时区

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/user/moviepager/internal/config"
	"github.com/user/moviepager/internal/handler"
	"github.com/user/moviepager/internal/middleware"
	"github.com/user/moviepager/internal/repository"
	"github.com/user/moviepager/internal/router"
	"github.com/user/moviepager/internal/service"
)

func main() {
	issueToken := flag.String("issue-admin-token", "", "为指定名称签发管理员令牌并退出")
	tokenTTL := flag.Duration("token-ttl", 24*time.Hour, "管理员令牌有效期")
	flag.Parse()

	// 加载环境变量
	if err := godotenv.Load(); err != nil {
		log.Println("未找到 .env 文件，使用系统环境变量")
	}

	// 加载配置
	cfg := config.Load()

	if *issueToken != "" {
		token, err := middleware.GenerateToken(*issueToken, middleware.RoleAdmin, cfg.AppSecret, *tokenTTL)
		if err != nil {
			log.Fatalf("签发令牌失败: %v", err)
		}
		fmt.Println(token)
		return
	}

	if cfg.TMDBToken == "" {
		log.Println("【警告】未设置 TMDB_TOKEN，TMDB 请求将返回 401")
	}

	// 初始化数据库
	db, err := repository.InitDB(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	sqlDB, _ := db.DB()
	defer sqlDB.Close()

	// 初始化仓库与服务
	repos := repository.NewRepositories(db)
	services, err := service.NewServices(repos, cfg)
	if err != nil {
		log.Fatalf("初始化服务失败: %v", err)
	}

	// 初始化 Gin
	r := newEngine(cfg.Env)

	// 启用 gzip，默认压缩级别
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 中间件
	r.Use(middleware.Logger())

	// 初始化 Handler
	h := handler.NewHandler(repos, services, cfg)

	// 启动定时刷新缓存任务
	services.Warmer.Start()

	// 注册路由
	router.RegisterRoutes(r, h)

	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   cfg.TMDBTimeout*2 + 10*time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	// 在 goroutine 中启动服务器，这样我们就可以监听信号
	go func() {
		log.Printf("服务器启动于 http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("服务器启动失败: %v", err)
		}
	}()

	// 等待中断信号以优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("正在关闭服务器...")

	services.Warmer.Stop()

	// 5 秒超时上下文用于关闭过程
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("服务器强制关闭:", err)
	}
	services.Sessions.CloseAll()

	log.Println("服务器已退出")
}

// newEngine 开发环境用 gin.Default 自带访问日志，生产环境切到 release 模式只保留 Recovery
func newEngine(env string) *gin.Engine {
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
		r := gin.New()
		r.Use(gin.Recovery())
		return r
	}
	return gin.Default()
}
