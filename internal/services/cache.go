package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

// CacheItem is one stored result, keyed by the call arguments.
type CacheItem struct {
	Timestamp int64           `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// JSONCache persists results of one named call in <dir>/<name>_cache.json.
// An entry is fresh while timestamp + ttl is after now.
type JSONCache struct {
	mu       sync.RWMutex
	path     string
	ttl      time.Duration
	items    map[string]CacheItem
	loaded   bool
	hits     int
	misses   int
	now      func() time.Time
	logger   *zap.Logger
	stopOnce sync.Once
	stop     chan struct{}
}

func NewJSONCache(dir, name string, ttl time.Duration, logger *zap.Logger) *JSONCache {
	return &JSONCache{
		path:   filepath.Join(dir, name+"_cache.json"),
		ttl:    ttl,
		now:    time.Now,
		logger: logger,
		stop:   make(chan struct{}),
	}
}

// Get decodes a fresh entry for key into dst and reports whether it did.
func (c *JSONCache) Get(key string, dst interface{}) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.load()
	item, ok := c.items[key]
	if !ok || !c.fresh(item) {
		c.misses++
		return false
	}
	if err := json.Unmarshal(item.Data, dst); err != nil {
		c.logger.Warn("Discarding undecodable cache entry",
			zap.String("file", c.path),
			zap.String("key", key),
			zap.Error(err))
		delete(c.items, key)
		c.misses++
		return false
	}
	c.hits++
	return true
}

// Set stores v under key and rewrites the cache file.
func (c *JSONCache) Set(key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.load()
	c.items[key] = CacheItem{Timestamp: c.now().Unix(), Data: data}
	if err := c.save(); err != nil {
		return err
	}

	c.logger.Debug("Cache entry stored",
		zap.String("file", c.path),
		zap.String("key", key),
		zap.Time("expires_at", c.now().Add(c.ttl)))
	return nil
}

// StartCleanup drops expired entries every interval until Stop is called.
func (c *JSONCache) StartCleanup(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				c.Cleanup()
			case <-c.stop:
				return
			}
		}
	}()
}

func (c *JSONCache) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
}

// Cleanup removes expired entries and reports how many were dropped.
func (c *JSONCache) Cleanup() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.load()
	expired := 0
	for key, item := range c.items {
		if !c.fresh(item) {
			delete(c.items, key)
			expired++
		}
	}
	if expired == 0 {
		return 0
	}
	if err := c.save(); err != nil {
		c.logger.Warn("Failed to persist cache cleanup", zap.Error(err))
	}
	c.logger.Debug("Cleaned expired cache items",
		zap.String("file", c.path),
		zap.Int("count", expired))
	return expired
}

func (c *JSONCache) GetStats() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return map[string]interface{}{
		"file":   c.path,
		"items":  len(c.items),
		"hits":   c.hits,
		"misses": c.misses,
		"ttl":    c.ttl.String(),
		"warm":   c.loaded,
	}
}

func (c *JSONCache) fresh(item CacheItem) bool {
	return time.Unix(item.Timestamp, 0).Add(c.ttl).After(c.now())
}

// load reads the file once; a missing or corrupt file is an empty cache.
// Callers hold the write lock.
func (c *JSONCache) load() {
	if c.loaded {
		return
	}
	c.loaded = true
	c.items = map[string]CacheItem{}

	data, err := os.ReadFile(c.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			c.logger.Warn("Failed to read cache file", zap.String("file", c.path), zap.Error(err))
		}
		return
	}
	if err := json.Unmarshal(data, &c.items); err != nil {
		c.logger.Warn("Ignoring corrupt cache file", zap.String("file", c.path), zap.Error(err))
		c.items = map[string]CacheItem{}
	}
}

func (c *JSONCache) save() error {
	data, err := json.Marshal(c.items)
	if err != nil {
		return fmt.Errorf("encoding cache file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("creating cache dir: %w", err)
	}
	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing cache file: %w", err)
	}
	return os.Rename(tmp, c.path)
}
