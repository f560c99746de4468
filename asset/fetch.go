package asset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"path"
	"strings"
)

// StatusError is a response the network gave, as opposed to a failure to reach it
type StatusError struct {
	Key    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: status %d", e.Key, e.Status)
}

// Fetcher retrieves a resource from the network
type Fetcher interface {
	Fetch(ctx context.Context, key string) (Entry, error)
}

// FetcherFunc adapts a function to Fetcher
type FetcherFunc func(ctx context.Context, key string) (Entry, error)

func (f FetcherFunc) Fetch(ctx context.Context, key string) (Entry, error) { return f(ctx, key) }

// HTTPFetcher requests keys relative to Base
type HTTPFetcher struct {
	Client *http.Client
	Base   string // e.g. "http://host:8080/"
}

// Fetch issues a GET and returns the body on 200
func (f *HTTPFetcher) Fetch(ctx context.Context, key string) (Entry, error) {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	url := strings.TrimSuffix(f.Base, "/") + "/" + strings.TrimPrefix(strings.TrimPrefix(key, "."), "/")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Entry{}, fmt.Errorf("fetch %s: %w", key, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return Entry{}, fmt.Errorf("fetch %s: %w", key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Entry{}, &StatusError{Key: key, Status: resp.StatusCode}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Entry{}, fmt.Errorf("fetch %s: %w", key, err)
	}
	return Entry{Body: body, ContentType: resp.Header.Get("Content-Type")}, nil
}

// FSFetcher reads keys from a file system, "./" maps to index.html
type FSFetcher struct {
	FS fs.FS
}

// Fetch reads the file named by key
func (f *FSFetcher) Fetch(_ context.Context, key string) (Entry, error) {
	name := fsName(key)
	body, err := fs.ReadFile(f.FS, name)
	if errors.Is(err, fs.ErrNotExist) {
		return Entry{}, &StatusError{Key: key, Status: http.StatusNotFound}
	}
	if err != nil {
		return Entry{}, fmt.Errorf("fetch %s: %w", key, err)
	}
	return Entry{Body: body, ContentType: contentType(name)}, nil
}

// Key normalizes a request path to the manifest form "./name"
func Key(urlPath string) string {
	clean := path.Clean("/" + urlPath)
	if clean == "/" {
		return "./"
	}
	return "." + clean
}

func fsName(key string) string {
	name := strings.TrimPrefix(strings.TrimPrefix(key, "."), "/")
	if name == "" {
		return "index.html"
	}
	return name
}

func contentType(name string) string {
	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
