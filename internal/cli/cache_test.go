package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/kneefig/pkg/cache"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".cache", appName)
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
	if !strings.HasSuffix(dir, "kneefig") {
		t.Errorf("cacheDir() = %q, should end with 'kneefig'", dir)
	}
}

func TestCacheDirXDG(t *testing.T) {
	custom := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", custom)

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join(custom, appName); dir != want {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, want)
	}
}

func TestClearCache(t *testing.T) {
	dir := filepath.Join(t.TempDir(), appName)
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	ctx := context.Background()
	for _, key := range []string{"a", "b"} {
		if err := fc.Set(ctx, key, []byte(key), 0); err != nil {
			t.Fatalf("Set(%q): %v", key, err)
		}
	}

	if err := clearCache(dir); err != nil {
		t.Fatalf("clearCache: %v", err)
	}
	if _, ok, _ := fc.Get(ctx, "a"); ok {
		t.Error("entry survived clearCache")
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("cache dir should be recreated: %v", err)
	}
}

func TestClearCacheMissingDir(t *testing.T) {
	if err := clearCache(filepath.Join(t.TempDir(), "missing")); err != nil {
		t.Errorf("clearCache on a missing dir: %v", err)
	}
}
