package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/user/moviepager/internal/config"
	"github.com/user/moviepager/internal/repository"
	"github.com/user/moviepager/internal/service"
	"github.com/user/moviepager/internal/viewmodel"
)

const gridColumns = 3

const help = `命令:
  <文字>        输入搜索词（500ms 防抖）
  :more         加载下一页
  :grid         切换列表/网格
  :refresh      刷新当前列表
  :clear        清空搜索，回到热门
  :open <id>    查看电影详情
  :quit         退出`

// terminal 串行化输出，防抖搜索会在后台完成
type terminal struct {
	mu  sync.Mutex
	out io.Writer
}

func (t *terminal) printf(format string, args ...interface{}) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, format, args...)
}

func (t *terminal) listing(state viewmodel.MoviesState, items []viewmodel.MovieUI) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch s := state.(type) {
	case viewmodel.MoviesLoading:
		fmt.Fprintln(t.out, "加载中...")
	case viewmodel.MoviesError:
		fmt.Fprintf(t.out, "出错了: %s（输入 :refresh 重试）\n", s.Message)
	case viewmodel.MoviesDataLoaded:
		title := "热门电影"
		if s.Listing == viewmodel.ListingSearch {
			title = fmt.Sprintf("搜索 %q", s.SearchQuery)
		}
		fmt.Fprintf(t.out, "== %s（%d 部，%s）==\n", title, len(items), s.ViewMode)
		if len(items) == 0 {
			fmt.Fprintln(t.out, "没有结果")
			return
		}
		if s.ViewMode == viewmodel.GridView {
			for i, m := range items {
				fmt.Fprintf(t.out, "%-30.28s", fmt.Sprintf("[%d] %s", m.ID, m.DisplayTitle()))
				if (i+1)%gridColumns == 0 || i == len(items)-1 {
					fmt.Fprintln(t.out)
				}
			}
			return
		}
		for i, m := range items {
			fmt.Fprintf(t.out, "%3d. [%d] %s  %s  ★ %s\n",
				i+1, m.ID, m.DisplayTitle(), m.ReleaseDate, viewmodel.FormatRating(m.Rating))
		}
	}
}

func (t *terminal) details(state viewmodel.DetailsState) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch s := state.(type) {
	case viewmodel.DetailsLoaded:
		m := s.Movie
		fmt.Fprintf(t.out, "-- %s --\n上映: %s  评分: %s\n", m.DisplayTitle(), m.ReleaseDate, viewmodel.FormatRating(m.Rating))
		if url := m.PosterURL(); url != "" {
			fmt.Fprintf(t.out, "海报: %s\n", url)
		}
		fmt.Fprintln(t.out, m.Overview)
	case viewmodel.DetailsError:
		fmt.Fprintln(t.out, s.Message)
	}
}

func main() {
	quiet := flag.Bool("quiet", true, "不输出内部日志")
	flag.Parse()

	if *quiet {
		log.SetOutput(io.Discard)
	}
	if err := godotenv.Load(); err != nil {
		log.Println("未找到 .env 文件，使用系统环境变量")
	}
	cfg := config.Load()

	db, err := repository.InitDB(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "数据库连接失败: %v\n", err)
		os.Exit(1)
	}
	sqlDB, _ := db.DB()
	defer sqlDB.Close()

	services, err := service.NewServices(repository.NewRepositories(db), cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化服务失败: %v\n", err)
		os.Exit(1)
	}

	term := &terminal{out: os.Stdout}
	movies := viewmodel.NewMoviesViewModel(services.PopularMovies, services.SearchMovies, viewmodel.SearchDebounce)
	defer movies.Close()
	details := viewmodel.NewMovieDetailsViewModel(services.GetMovieDetails)

	movies.OnStateChange(func(s viewmodel.MoviesState) {
		if _, ok := s.(viewmodel.MoviesLoading); ok {
			return
		}
		// 输入中的搜索词只更新状态，不重绘
		if loaded, ok := s.(viewmodel.MoviesDataLoaded); ok && loaded.Query != loaded.SearchQuery && loaded.Query != "" {
			return
		}
		term.listing(s, movies.Items())
	})

	go func() {
		for eff := range movies.Effects() {
			switch e := eff.(type) {
			case viewmodel.ShowError:
				term.printf("! %s\n", e.Message)
			case viewmodel.NavigateToMovieDetails:
				ctx, cancel := context.WithTimeout(context.Background(), cfg.TMDBTimeout+5*time.Second)
				details.Dispatch(ctx, viewmodel.LoadMovieDetails{MovieID: e.MovieID})
				cancel()
				term.details(details.State())
			}
		}
	}()

	term.printf("%s\n", help)
	_ = movies.Dispatch(viewmodel.LoadPopularMovies{})

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, ":") {
			_ = movies.Dispatch(viewmodel.UpdateSearchQuery{Query: line})
			continue
		}

		cmd, arg, _ := strings.Cut(line, " ")
		switch cmd {
		case ":quit", ":q":
			return
		case ":more":
			if movies.SearchPending() {
				term.printf("搜索中，请稍候\n")
				continue
			}
			items, err := movies.LoadMore()
			if err != nil {
				continue
			}
			if len(items) == 0 {
				term.printf("没有更多了\n")
				continue
			}
			term.listing(movies.State(), movies.Items())
		case ":grid":
			_ = movies.Dispatch(viewmodel.ToggleViewMode{})
		case ":refresh":
			_ = movies.Dispatch(viewmodel.RefreshMovies{})
		case ":clear":
			_ = movies.Dispatch(viewmodel.ClearSearch{})
		case ":open":
			id, err := strconv.Atoi(strings.TrimSpace(arg))
			if err != nil {
				term.printf("用法: :open <id>\n")
				continue
			}
			_ = movies.Dispatch(viewmodel.NavigateTo{MovieID: id})
		default:
			term.printf("%s\n", help)
		}
	}
}
