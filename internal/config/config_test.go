package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TMDB_TOKEN", "")
	t.Setenv("PORT", "")
	t.Setenv("CACHE_REFRESH_MINUTES", "")

	cfg := Load()
	if cfg.Port != "5007" {
		t.Errorf("Port = %q, want 5007", cfg.Port)
	}
	if cfg.TMDBBaseURL != "https://api.themoviedb.org/" {
		t.Errorf("TMDBBaseURL = %q", cfg.TMDBBaseURL)
	}
	if cfg.CacheRefreshInterval != 0 {
		t.Errorf("CacheRefreshInterval = %v, want disabled", cfg.CacheRefreshInterval)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Errorf("SessionTTL = %v", cfg.SessionTTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_NAME", "cache")
	t.Setenv("TMDB_TIMEOUT_SECONDS", "3")
	t.Setenv("MAX_SESSIONS", "not-a-number")

	cfg := Load()
	if cfg.DatabaseURL != "postgres://postgres:postgres@db:5432/cache?sslmode=disable" {
		t.Errorf("DatabaseURL = %q", cfg.DatabaseURL)
	}
	if cfg.TMDBTimeout != 3*time.Second {
		t.Errorf("TMDBTimeout = %v", cfg.TMDBTimeout)
	}
	if cfg.MaxSessions != 1000 {
		t.Errorf("MaxSessions = %d, want fallback 1000", cfg.MaxSessions)
	}
}

func TestLoadSQLiteDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/cache.db")

	cfg := Load()
	if cfg.DBDriver != "sqlite" || cfg.DatabaseURL != "/tmp/cache.db" {
		t.Errorf("driver=%q url=%q", cfg.DBDriver, cfg.DatabaseURL)
	}
}
