// Package asset serves the controller page through named offline caches
package asset

import (
	"errors"
	"net/http"
	"sort"
	"sync"
)

// ErrNotCached is returned by Match when no cache holds the key
var ErrNotCached = errors.New("asset: not cached")

// Entry is one cached response
type Entry struct {
	Body        []byte
	ContentType string
}

// Cache is a named key to response store
type Cache struct {
	name    string
	mu      sync.RWMutex
	entries map[string]Entry
}

func newCache(name string) *Cache {
	return &Cache{name: name, entries: make(map[string]Entry)}
}

// Name returns the cache name
func (c *Cache) Name() string { return c.name }

// Put stores e under key, replacing any previous entry
func (c *Cache) Put(key string, e Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = e
}

// Match returns the entry for key
func (c *Cache) Match(key string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	return e, ok
}

// Keys returns the cached keys in sorted order
func (c *Cache) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of entries
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// CacheStorage holds caches by name in creation order
type CacheStorage struct {
	mu     sync.RWMutex
	caches map[string]*Cache
	order  []string
}

// NewCacheStorage creates an empty storage
func NewCacheStorage() *CacheStorage {
	return &CacheStorage{caches: make(map[string]*Cache)}
}

// Open returns the named cache, creating it if absent
func (s *CacheStorage) Open(name string) *Cache {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.caches[name]; ok {
		return c
	}
	c := newCache(name)
	s.caches[name] = c
	s.order = append(s.order, name)
	return c
}

// Has reports whether the named cache exists
func (s *CacheStorage) Has(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.caches[name]
	return ok
}

// Keys returns cache names in creation order
func (s *CacheStorage) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.order...)
}

// Delete removes the named cache and reports whether it existed
func (s *CacheStorage) Delete(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.caches[name]; !ok {
		return false
	}
	delete(s.caches, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Match searches every cache in creation order
func (s *CacheStorage) Match(key string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, name := range s.order {
		if e, ok := s.caches[name].Match(key); ok {
			return e, nil
		}
	}
	return Entry{}, ErrNotCached
}

// Entries returns the total entry count across caches
func (s *CacheStorage) Entries() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, c := range s.caches {
		n += c.Len()
	}
	return n
}

// write sends an entry as an HTTP response
func (e Entry) write(w http.ResponseWriter, source string) {
	if e.ContentType != "" {
		w.Header().Set("Content-Type", e.ContentType)
	}
	w.Header().Set("X-Cache", source)
	w.WriteHeader(http.StatusOK)
	w.Write(e.Body)
}
