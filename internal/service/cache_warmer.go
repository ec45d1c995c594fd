package service

import (
	"context"
	"log"
	"sync"
	"time"
)

// searchLogRetention 搜索日志保留时长
const searchLogRetention = 30 * 24 * time.Hour

// SearchLogPruner 清理过期搜索日志
type SearchLogPruner interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// CacheWarmer 定时刷新热门电影缓存，并清理过期搜索日志
type CacheWarmer struct {
	movies   *MoviesService
	logs     SearchLogPruner
	interval time.Duration
	timeout  time.Duration

	stopOnce sync.Once
	stop     chan struct{}
}

// NewCacheWarmer 创建缓存刷新服务，interval <= 0 时 Start 不做任何事
func NewCacheWarmer(movies *MoviesService, logs SearchLogPruner, interval, timeout time.Duration) *CacheWarmer {
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &CacheWarmer{
		movies:   movies,
		logs:     logs,
		interval: interval,
		timeout:  timeout,
		stop:     make(chan struct{}),
	}
}

// Start 启动定时刷新任务
func (w *CacheWarmer) Start() {
	if w.interval <= 0 {
		log.Println("[CacheWarmer] 未配置刷新间隔，跳过定时刷新")
		return
	}
	ticker := time.NewTicker(w.interval)

	go func() {
		defer ticker.Stop()
		// 启动时先运行一次
		w.runOnce()
		for {
			select {
			case <-ticker.C:
				w.runOnce()
			case <-w.stop:
				return
			}
		}
	}()
}

// Stop 停止定时任务
func (w *CacheWarmer) Stop() {
	w.stopOnce.Do(func() { close(w.stop) })
}

func (w *CacheWarmer) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()
	if err := w.RunOnce(ctx); err != nil {
		log.Printf("[CacheWarmer] 刷新热门电影缓存失败: %v", err)
	}
}

// RunOnce 刷新一次第一页热门电影
func (w *CacheWarmer) RunOnce(ctx context.Context) error {
	if w.logs != nil {
		deleted, err := w.logs.DeleteOlderThan(ctx, time.Now().Add(-searchLogRetention))
		if err != nil {
			log.Printf("[CacheWarmer] 清理搜索日志失败: %v", err)
		} else if deleted > 0 {
			log.Printf("[CacheWarmer] 清理了 %d 条过期搜索日志", deleted)
		}
	}

	log.Println("[CacheWarmer] 开始刷新热门电影缓存...")
	end, err := w.movies.RefreshCache(ctx)
	if err != nil {
		return err
	}
	n, err := w.movies.CachedCount(ctx)
	if err != nil {
		return err
	}
	log.Printf("[CacheWarmer] 刷新完成，缓存 %d 部电影，末页: %v", n, end)
	return nil
}
