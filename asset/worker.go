package asset

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync/atomic"
)

// CacheName is the versioned cache the controller page is installed into
const CacheName = "tilt-game-v1"

// OfflinePage is served when neither cache nor network can answer
const OfflinePage = "./index.html"

// Manifest lists the files pre-cached at install
var Manifest = []string{
	"./",
	"./index.html",
	"./style.css",
	"./controller.js",
	"./manifest.json",
}

// Install fetches every manifest entry into the named cache
// All-or-nothing: a single failed fetch leaves the cache untouched
func Install(ctx context.Context, storage *CacheStorage, name string, manifest []string, fetch Fetcher) error {
	fetched := make(map[string]Entry, len(manifest))
	for _, key := range manifest {
		e, err := fetch.Fetch(ctx, key)
		if err != nil {
			return fmt.Errorf("install %s: %w", name, err)
		}
		fetched[key] = e
	}

	cache := storage.Open(name)
	for key, e := range fetched {
		cache.Put(key, e)
	}
	log.Printf("asset: installed %d entries into %s", len(fetched), name)
	return nil
}

// Activate deletes every cache not named keep and returns the deleted names
func Activate(storage *CacheStorage, keep string) []string {
	// Old caches keep serving until the new one has installed
	if !storage.Has(keep) {
		log.Printf("asset: activate %s skipped, cache not installed", keep)
		return nil
	}
	var deleted []string
	for _, name := range storage.Keys() {
		if name != keep && storage.Delete(name) {
			log.Printf("asset: deleted stale cache %s", name)
			deleted = append(deleted, name)
		}
	}
	return deleted
}

// Handler serves cache-first, then network, then the cached offline page
type Handler struct {
	Storage *CacheStorage
	Network Fetcher // nil means offline

	hits   atomic.Int64
	misses atomic.Int64
}

// NewHandler creates a cache-first handler
func NewHandler(storage *CacheStorage, network Fetcher) *Handler {
	return &Handler{Storage: storage, Network: network}
}

// ServeHTTP implements http.Handler
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	key := Key(r.URL.Path)
	if e, err := h.Storage.Match(key); err == nil {
		h.hits.Add(1)
		e.write(w, "hit")
		return
	}
	h.misses.Add(1)

	if h.Network != nil {
		e, err := h.Network.Fetch(r.Context(), key)
		if err == nil {
			e.write(w, "network")
			return
		}
		// The network answered; only unreachable falls back to the offline page
		var se *StatusError
		if errors.As(err, &se) {
			http.Error(w, http.StatusText(se.Status), se.Status)
			return
		}
		log.Printf("asset: network fetch %s: %v", key, err)
	}

	if e, err := h.Storage.Match(OfflinePage); err == nil {
		e.write(w, "offline")
		return
	}
	http.Error(w, "offline", http.StatusServiceUnavailable)
}

// Stats returns cache hits and misses since creation
func (h *Handler) Stats() (hits, misses int64) {
	return h.hits.Load(), h.misses.Load()
}
