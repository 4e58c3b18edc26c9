package core

import (
	"encoding/hex"
	"sync"

	"github.com/codahale/metrics"
	"github.com/golang/groupcache/lru"
	"github.com/golang/groupcache/singleflight"
	"golang.org/x/crypto/sha3"

	"github.com/engylemure/askql/core/askcode"
	"github.com/engylemure/askql/core/parser"
)

// DefaultCacheSize is the number of parsed programs a ParseCache
// keeps when created with size zero.
const DefaultCacheSize = 1000

// A ParseCache parses programs, remembering the most recently
// used results. Concurrent requests for the same source share
// one parse. Failed parses are not cached.
type ParseCache struct {
	opts []parser.Option

	mu  sync.Mutex
	lru *lru.Cache

	single singleflight.Group // for cache misses
}

// NewParseCache returns a cache holding up to size programs,
// parsed with opts.
func NewParseCache(size int, opts ...parser.Option) *ParseCache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	return &ParseCache{
		opts: opts,
		lru:  lru.New(size),
	}
}

// Parse returns the program tree for src.
func (c *ParseCache) Parse(src string) (askcode.Node, error) {
	key := cacheKey(src)
	if n, ok := c.get(key); ok {
		metrics.Counter("parse.cache.hit").Add()
		return n, nil
	}
	metrics.Counter("parse.cache.miss").Add()

	n, err := c.single.Do(key, func() (interface{}, error) {
		n, err := parser.Parse(src, c.opts...)
		if err != nil {
			return nil, err
		}
		c.add(key, n)
		return n, nil
	})
	if err != nil {
		return nil, err
	}
	return n.(askcode.Node), nil
}

// Len returns the number of cached programs.
func (c *ParseCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

func (c *ParseCache) get(key string) (askcode.Node, bool) {
	c.mu.Lock()
	n, ok := c.lru.Get(key)
	c.mu.Unlock()
	if !ok {
		return nil, false
	}
	return n.(askcode.Node), true
}

func (c *ParseCache) add(key string, n askcode.Node) {
	c.mu.Lock()
	c.lru.Add(key, n)
	c.mu.Unlock()
}

func cacheKey(src string) string {
	h := sha3.Sum256([]byte(src))
	return hex.EncodeToString(h[:])
}
