// Package cache provides thread-safe generic caches used by the store and the renderer.
package cache

import (
	"context"
	"sync"
)

type Cache[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]V
}

func NewCache[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{
		items: make(map[K]V),
	}
}

func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	val, ok := c.items[key]
	return val, ok
}

func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
}

func (c *Cache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[K]V)
}

func (c *Cache[K, V]) SetTo(items map[K]V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = items
}

func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// List holds one ordered slice that is loaded on demand.
// It only calls the loader while empty; Invalidate forces the next Get to reload.
type List[T any] struct {
	mu    sync.Mutex
	items []T
	load  func(context.Context) ([]T, error)
}

func NewList[T any](load func(context.Context) ([]T, error)) *List[T] {
	return &List[T]{load: load}
}

// Get returns a copy of the cached items, loading them first when the cache is empty.
// A failed load leaves the cache empty so the next call tries again.
func (l *List[T]) Get(ctx context.Context) ([]T, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.items) == 0 {
		items, err := l.load(ctx)
		if err != nil {
			return nil, err
		}
		l.items = items
	}

	out := make([]T, len(l.items))
	copy(out, l.items)
	return out, nil
}

func (l *List[T]) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = nil
}

// RenderedContent represents cached rendered markdown.
type RenderedContent struct {
	HTML []byte
}

var renderedMarkdownCache = NewCache[string, *RenderedContent]()

func GetRenderedMarkdown(contentHash, syntaxTheme string) (*RenderedContent, bool) {
	return renderedMarkdownCache.Get(contentHash + ":" + syntaxTheme)
}

func SetRenderedMarkdown(contentHash, syntaxTheme string, html []byte) {
	renderedMarkdownCache.Set(contentHash+":"+syntaxTheme, &RenderedContent{HTML: html})
}

func ClearRenderedMarkdownCache() {
	renderedMarkdownCache.Clear()
}
