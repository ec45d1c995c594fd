package paging

import "context"

// InitializeAction 会话开始前协调器给出的初始动作
type InitializeAction int

const (
	// LaunchInitialRefresh 立即发起一次远程刷新
	LaunchInitialRefresh InitializeAction = iota
	// SkipInitialRefresh 直接展示本地数据，跳过初始刷新
	SkipInitialRefresh
)

func (a InitializeAction) String() string {
	if a == SkipInitialRefresh {
		return "SKIP_INITIAL_REFRESH"
	}
	return "LAUNCH_INITIAL_REFRESH"
}

// MediatorResult 协调器一次加载的结果，失败通过 error 返回
type MediatorResult struct {
	EndOfPaginationReached bool
}

// RemoteMediator 决定何时从网络拉取数据并写入本地缓存。
// Pager 保证同一会话内不会并发调用。数据源失效时 Pager 会再次调用 Initialize，
// 协调器应在其中按本地缓存的当前内容重新对齐状态。
type RemoteMediator interface {
	Initialize(ctx context.Context) (InitializeAction, error)
	Load(ctx context.Context, loadType LoadType) (MediatorResult, error)
}
