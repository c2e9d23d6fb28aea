package cache

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
)

func TestCache_BasicOperations(t *testing.T) {
	cache := NewCache[string, string]()

	t.Run("Set and Get", func(t *testing.T) {
		cache.Set("test-key", "test-value")

		got, exists := cache.Get("test-key")
		if !exists {
			t.Error("Expected key to exist")
		}
		if got != "test-value" {
			t.Errorf("Expected %q, got %q", "test-value", got)
		}
	})

	t.Run("Get non-existent key", func(t *testing.T) {
		if _, exists := cache.Get("non-existent"); exists {
			t.Error("Expected key to not exist")
		}
	})

	t.Run("Overwrite existing key", func(t *testing.T) {
		cache.Set("overwrite-key", "value1")
		cache.Set("overwrite-key", "value2")

		if got, _ := cache.Get("overwrite-key"); got != "value2" {
			t.Errorf("Expected %q, got %q", "value2", got)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		cache.Set("delete-key", "v")
		cache.Delete("delete-key")
		if _, exists := cache.Get("delete-key"); exists {
			t.Error("Expected key to be deleted")
		}
		cache.Delete("never-there")
	})

	t.Run("SetTo replaces existing items", func(t *testing.T) {
		cache.SetTo(map[string]string{"new1": "a", "new2": "b"})

		if _, exists := cache.Get("test-key"); exists {
			t.Error("Expected old items to be replaced")
		}
		if cache.Len() != 2 {
			t.Errorf("Expected 2 items, got %d", cache.Len())
		}
	})

	t.Run("Clear", func(t *testing.T) {
		cache.Clear()
		if cache.Len() != 0 {
			t.Errorf("Expected empty cache, got %d items", cache.Len())
		}
	})
}

func TestCache_Concurrency(t *testing.T) {
	cache := NewCache[int, string]()
	const numGoroutines = 50
	const numOperations = 200

	var wg sync.WaitGroup
	for i := 0; i < numGoroutines; i++ {
		wg.Add(2)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < numOperations; j++ {
				cache.Set(id*numOperations+j, fmt.Sprintf("value-%d-%d", id, j))
			}
		}(i)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < numOperations; j++ {
				cache.Get(id*numOperations + j)
			}
		}(i)
	}
	wg.Wait()

	if cache.Len() != numGoroutines*numOperations {
		t.Errorf("Expected %d items, got %d", numGoroutines*numOperations, cache.Len())
	}
}

func TestList(t *testing.T) {
	ctx := context.Background()

	t.Run("Loads only while empty", func(t *testing.T) {
		calls := 0
		l := NewList(func(context.Context) ([]string, error) {
			calls++
			return []string{"a", "b"}, nil
		})

		for i := 0; i < 3; i++ {
			got, err := l.Get(ctx)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if len(got) != 2 {
				t.Fatalf("Expected 2 items, got %d", len(got))
			}
		}
		if calls != 1 {
			t.Errorf("Expected loader to run once, ran %d times", calls)
		}
	})

	t.Run("Empty result is retried", func(t *testing.T) {
		calls := 0
		l := NewList(func(context.Context) ([]int, error) {
			calls++
			return nil, nil
		})

		l.Get(ctx)
		l.Get(ctx)
		if calls != 2 {
			t.Errorf("Expected loader to run on every call while empty, ran %d times", calls)
		}
	})

	t.Run("Load error leaves cache empty", func(t *testing.T) {
		fail := true
		l := NewList(func(context.Context) ([]int, error) {
			if fail {
				return nil, errors.New("store down")
			}
			return []int{1}, nil
		})

		if _, err := l.Get(ctx); err == nil {
			t.Fatal("Expected load error")
		}
		fail = false
		got, err := l.Get(ctx)
		if err != nil || len(got) != 1 {
			t.Errorf("Expected recovery after failure, got %v, %v", got, err)
		}
	})

	t.Run("Invalidate forces reload", func(t *testing.T) {
		calls := 0
		l := NewList(func(context.Context) ([]int, error) {
			calls++
			return []int{calls}, nil
		})

		l.Get(ctx)
		l.Invalidate()
		got, _ := l.Get(ctx)
		if calls != 2 || got[0] != 2 {
			t.Errorf("Expected second load after invalidate, calls=%d got=%v", calls, got)
		}
	})

	t.Run("Returned slice is a copy", func(t *testing.T) {
		l := NewList(func(context.Context) ([]int, error) { return []int{1, 2}, nil })
		got, _ := l.Get(ctx)
		got[0] = 99

		again, _ := l.Get(ctx)
		if again[0] != 1 {
			t.Errorf("Expected cached items to be unaffected, got %v", again)
		}
	})
}

func TestRenderedMarkdownCache(t *testing.T) {
	ClearRenderedMarkdownCache()

	t.Run("Set and get rendered markdown", func(t *testing.T) {
		html := []byte("<h1>Test</h1>")
		SetRenderedMarkdown("test-hash", "github", html)

		cached, found := GetRenderedMarkdown("test-hash", "github")
		if !found {
			t.Fatal("Expected cached content to be found")
		}
		if !bytes.Equal(cached.HTML, html) {
			t.Errorf("Expected HTML %q, got %q", html, cached.HTML)
		}
	})

	t.Run("Different syntax theme creates separate entries", func(t *testing.T) {
		SetRenderedMarkdown("same-hash", "github", []byte("a"))
		if _, found := GetRenderedMarkdown("same-hash", "monokai"); found {
			t.Error("Expected no entry for a different theme")
		}
	})

	t.Run("Clear rendered markdown cache", func(t *testing.T) {
		ClearRenderedMarkdownCache()
		if _, found := GetRenderedMarkdown("test-hash", "github"); found {
			t.Error("Expected all cached content to be cleared")
		}
	})
}

func TestStaticHash(t *testing.T) {
	SetStaticHash("/static/css/style.css", "abc")
	if hash, ok := GetStaticHash("/static/css/style.css"); !ok || hash != "abc" {
		t.Errorf("Expected hash abc, got %q (found=%v)", hash, ok)
	}
}

func BenchmarkCache_Get(b *testing.B) {
	cache := NewCache[int, string]()
	for i := 0; i < 10000; i++ {
		cache.Set(i, fmt.Sprintf("value-%d", i))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cache.Get(i % 10000)
	}
}
