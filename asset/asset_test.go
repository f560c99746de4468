package asset

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"testing/fstest"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"index.html":    {Data: []byte("<html>index</html>")},
		"style.css":     {Data: []byte("body{}")},
		"controller.js": {Data: []byte("// js")},
		"manifest.json": {Data: []byte("{}")},
	}
}

func TestKey(t *testing.T) {
	tests := map[string]string{
		"/":               "./",
		"":                "./",
		"/index.html":     "./index.html",
		"/a/../style.css": "./style.css",
	}
	for in, want := range tests {
		if got := Key(in); got != want {
			t.Errorf("Key(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestInstallPrecachesManifest(t *testing.T) {
	storage := NewCacheStorage()
	if err := Install(context.Background(), storage, CacheName, Manifest, &FSFetcher{FS: testFS()}); err != nil {
		t.Fatalf("Install: %v", err)
	}

	cache := storage.Open(CacheName)
	want := []string{"./", "./controller.js", "./index.html", "./manifest.json", "./style.css"}
	if got := cache.Keys(); !reflect.DeepEqual(got, want) {
		t.Errorf("keys = %v", got)
	}
	root, _ := cache.Match("./")
	if string(root.Body) != "<html>index</html>" {
		t.Errorf("./ body = %q", root.Body)
	}
	css, _ := cache.Match("./style.css")
	if !strings.HasPrefix(css.ContentType, "text/css") {
		t.Errorf("css content type = %q", css.ContentType)
	}
}

func TestInstallAllOrNothing(t *testing.T) {
	fsys := testFS()
	delete(fsys, "controller.js")

	storage := NewCacheStorage()
	err := Install(context.Background(), storage, CacheName, Manifest, &FSFetcher{FS: fsys})
	if err == nil {
		t.Fatal("install succeeded with a missing file")
	}
	if storage.Has(CacheName) {
		t.Error("failed install created the cache")
	}
}

func TestActivateDeletesOtherCaches(t *testing.T) {
	storage := NewCacheStorage()
	storage.Open("tilt-game-v0").Put("./", Entry{Body: []byte("old")})
	storage.Open("other").Put("./x", Entry{})
	storage.Open(CacheName).Put("./", Entry{Body: []byte("new")})

	deleted := Activate(storage, CacheName)
	if !reflect.DeepEqual(deleted, []string{"tilt-game-v0", "other"}) {
		t.Errorf("deleted = %v", deleted)
	}
	if got := storage.Keys(); !reflect.DeepEqual(got, []string{CacheName}) {
		t.Errorf("remaining = %v", got)
	}
}

func TestActivateKeepsOldCachesUntilInstalled(t *testing.T) {
	storage := NewCacheStorage()
	storage.Open("tilt-game-v0").Put("./", Entry{Body: []byte("old")})

	if deleted := Activate(storage, CacheName); deleted != nil {
		t.Errorf("deleted = %v before install", deleted)
	}
	if !storage.Has("tilt-game-v0") {
		t.Error("previous cache removed without a replacement")
	}
	if storage.Has(CacheName) {
		t.Error("activate created the cache")
	}
	t.Logf("✓ Activate is a no-op until the named cache exists")
}

func get(t *testing.T, h http.Handler, path string) (*http.Response, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	resp := rec.Result()
	body, _ := io.ReadAll(resp.Body)
	return resp, string(body)
}

func TestHandlerCacheFirst(t *testing.T) {
	storage := NewCacheStorage()
	storage.Open(CacheName).Put("./index.html", Entry{Body: []byte("cached"), ContentType: "text/html"})

	network := FetcherFunc(func(_ context.Context, key string) (Entry, error) {
		return Entry{Body: []byte("net:" + key)}, nil
	})
	h := NewHandler(storage, network)

	resp, body := get(t, h, "/index.html")
	if body != "cached" || resp.Header.Get("X-Cache") != "hit" {
		t.Errorf("cached path: %q via %s", body, resp.Header.Get("X-Cache"))
	}

	resp, body = get(t, h, "/extra.js")
	if body != "net:./extra.js" || resp.Header.Get("X-Cache") != "network" {
		t.Errorf("uncached path: %q via %s", body, resp.Header.Get("X-Cache"))
	}

	hits, misses := h.Stats()
	if hits != 1 || misses != 1 {
		t.Errorf("stats = %d/%d", hits, misses)
	}
}

func TestHandlerOfflineFallback(t *testing.T) {
	storage := NewCacheStorage()
	storage.Open(CacheName).Put(OfflinePage, Entry{Body: []byte("offline page")})

	down := FetcherFunc(func(context.Context, string) (Entry, error) {
		return Entry{}, errors.New("connection refused")
	})
	h := NewHandler(storage, down)

	resp, body := get(t, h, "/game.js")
	if resp.StatusCode != http.StatusOK || body != "offline page" {
		t.Errorf("fallback = %d %q", resp.StatusCode, body)
	}

	// The network answering 404 is not offline
	notFound := FetcherFunc(func(_ context.Context, key string) (Entry, error) {
		return Entry{}, &StatusError{Key: key, Status: http.StatusNotFound}
	})
	resp, _ = get(t, NewHandler(storage, notFound), "/missing.png")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}

	// Nothing cached and no network
	resp, _ = get(t, NewHandler(NewCacheStorage(), nil), "/")
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", resp.StatusCode)
	}
}

func TestHTTPFetcher(t *testing.T) {
	origin := httptest.NewServer(http.FileServer(http.FS(testFS())))
	defer origin.Close()

	f := &HTTPFetcher{Base: origin.URL + "/"}
	e, err := f.Fetch(context.Background(), "./style.css")
	if err != nil || string(e.Body) != "body{}" {
		t.Fatalf("Fetch = %q, %v", e.Body, err)
	}

	_, err = f.Fetch(context.Background(), "./nope.js")
	var se *StatusError
	if !errors.As(err, &se) || se.Status != http.StatusNotFound {
		t.Errorf("err = %v, want 404 StatusError", err)
	}
}

func TestEmbeddedWebInstalls(t *testing.T) {
	storage := NewCacheStorage()
	if err := Install(context.Background(), storage, CacheName, Manifest, &FSFetcher{FS: WebFS()}); err != nil {
		t.Fatalf("embedded page incomplete: %v", err)
	}
	if storage.Entries() != len(Manifest) {
		t.Errorf("entries = %d, want %d", storage.Entries(), len(Manifest))
	}
	t.Logf("✓ bundled controller page covers the manifest")
}
