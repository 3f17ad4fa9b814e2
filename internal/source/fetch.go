package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// maxDocumentSize bounds any single JSON document read
const maxDocumentSize = 4 << 20

// StatusError is returned for non-2xx HTTP responses.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d fetching %s", e.Code, e.URL)
}

// Fetcher loads JSON documents from HTTP(S) URLs or from files under Root.
type Fetcher struct {
	Client *http.Client
	// Root resolves relative locations. It may be a directory or an http(s) base URL.
	Root string
	// Token is sent as a bearer token when non-empty.
	Token string
}

// NewFetcher returns a Fetcher rooted at root using http.DefaultClient.
func NewFetcher(root string) *Fetcher {
	return &Fetcher{Client: http.DefaultClient, Root: root}
}

// WithToken returns a copy of f that authenticates with token.
func (f *Fetcher) WithToken(token string) *Fetcher {
	cp := *f
	cp.Token = token
	return &cp
}

// Resolve turns a location into an absolute URL or file path.
func (f *Fetcher) Resolve(location string) string {
	if isRemote(location) || strings.HasPrefix(location, "file://") || filepath.IsAbs(location) {
		return location
	}
	if f.Root == "" {
		return location
	}
	if isRemote(f.Root) {
		base, err := url.Parse(strings.TrimSuffix(f.Root, "/") + "/")
		if err != nil {
			return location
		}
		ref, err := url.Parse(location)
		if err != nil {
			return location
		}
		return base.ResolveReference(ref).String()
	}
	return filepath.Join(f.Root, location)
}

// FetchJSON reads the document at location and decodes it into v.
func (f *Fetcher) FetchJSON(ctx context.Context, location string, v any) error {
	data, err := f.Fetch(ctx, location)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", location, err)
	}
	return nil
}

// Fetch reads the raw bytes at location, bypassing any HTTP cache.
func (f *Fetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	target := f.Resolve(location)
	if !isRemote(target) {
		return readFile(strings.TrimPrefix(target, "file://"))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json, text/html;q=0.9, */*;q=0.8")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
	if f.Token != "" {
		req.Header.Set("Authorization", "Bearer "+f.Token)
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: target, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}

func readFile(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxDocumentSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

func isRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}
