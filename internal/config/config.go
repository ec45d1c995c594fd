package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// 分页参数固定，不开放配置
const (
	PageSize         = 20
	InitialLoadSize  = 20
	PrefetchDistance = 5
)

const defaultSecret = "your-secret-key-change-in-production"

// Config 应用配置
type Config struct {
	Env          string
	AppSecret    string
	DBDriver     string
	DatabaseURL  string
	Port         string
	TMDBBaseURL  string
	TMDBToken    string
	TMDBLanguage string
	TMDBTimeout  time.Duration
	SessionTTL   time.Duration
	MaxSessions  int
	// CacheRefreshInterval 为 0 时不做后台刷新
	CacheRefreshInterval time.Duration
}

// Load 加载配置
func Load() *Config {
	dbUser := getEnv("DB_USER", "postgres")
	dbPass := getEnv("DB_PASSWORD", "postgres")
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbName := getEnv("DB_NAME", "moviepager")
	dbSSL := getEnv("DB_SSLMODE", "disable")

	dbURL := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		dbUser, dbPass, dbHost, dbPort, dbName, dbSSL)

	// 本地开发可用 sqlite 文件作为缓存库
	dbDriver := getEnv("DB_DRIVER", "postgres")
	if dbDriver == "sqlite" {
		dbURL = getEnv("SQLITE_PATH", "moviepager.db")
	}

	appSecret := getEnv("APP_SECRET", defaultSecret)
	if getEnv("APP_ENV", "development") == "production" && appSecret == defaultSecret {
		fmt.Println("【严重警告】生产环境正在使用默认密钥！请立即设置 APP_SECRET 环境变量。")
	}

	return &Config{
		Env:                  getEnv("APP_ENV", "development"),
		AppSecret:            appSecret,
		DBDriver:             dbDriver,
		DatabaseURL:          dbURL,
		Port:                 getEnv("PORT", "5007"),
		TMDBBaseURL:          getEnv("TMDB_BASE_URL", "https://api.themoviedb.org/"),
		TMDBToken:            getEnv("TMDB_TOKEN", ""),
		TMDBLanguage:         getEnv("TMDB_LANGUAGE", "en-US"),
		TMDBTimeout:          time.Duration(getEnvInt("TMDB_TIMEOUT_SECONDS", 15)) * time.Second,
		SessionTTL:           time.Duration(getEnvInt("SESSION_TTL_MINUTES", 30)) * time.Minute,
		MaxSessions:          getEnvInt("MAX_SESSIONS", 1000),
		CacheRefreshInterval: time.Duration(getEnvInt("CACHE_REFRESH_MINUTES", 0)) * time.Minute,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(getEnv(key, strconv.Itoa(defaultValue)))
	if err != nil || n < 0 {
		return defaultValue
	}
	return n
}
