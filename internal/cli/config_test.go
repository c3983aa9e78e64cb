package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if cfg.Cache.Backend != CacheBackendFile {
		t.Errorf("Backend = %q, want file", cfg.Cache.Backend)
	}
	if cfg.Cache.Redis.Addr != "localhost:6379" {
		t.Errorf("Redis.Addr = %q", cfg.Cache.Redis.Addr)
	}
}

func TestLoadConfigEmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("empty path should not error: %v", err)
	}
	if cfg.Cache.Backend != CacheBackendFile {
		t.Errorf("Backend = %q, want file", cfg.Cache.Backend)
	}
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
[cache]
backend = "redis"

[cache.redis]
addr = "redis.internal:6380"
db = 2

[render]
engine = "graphviz"
width = 800.0
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.Cache.Backend != CacheBackendRedis {
		t.Errorf("Backend = %q, want redis", cfg.Cache.Backend)
	}
	if cfg.Cache.Redis.Addr != "redis.internal:6380" {
		t.Errorf("Redis.Addr = %q", cfg.Cache.Redis.Addr)
	}
	if cfg.Cache.Redis.DB != 2 {
		t.Errorf("Redis.DB = %d", cfg.Cache.Redis.DB)
	}
	if cfg.Render.Engine != "graphviz" {
		t.Errorf("Render.Engine = %q", cfg.Render.Engine)
	}
	if cfg.Render.Width != 800 {
		t.Errorf("Render.Width = %f", cfg.Render.Width)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	t.Run("BadTOML", func(t *testing.T) {
		path := writeConfig(t, "[cache\nbackend =")
		if _, err := LoadConfig(path); err == nil {
			t.Error("expected parse error")
		}
	})

	t.Run("UnknownBackend", func(t *testing.T) {
		path := writeConfig(t, "[cache]\nbackend = \"memcached\"\n")
		if _, err := LoadConfig(path); err == nil {
			t.Error("expected validation error")
		}
	})
}
