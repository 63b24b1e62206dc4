// Package fetch loads the JSON data files that back each section of the site.
// Local directories and remote hosts go through the same http.Client, the
// former by way of a file:// transport.
package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

var errTrailingData = errors.New("unexpected data after JSON value")

// StatusError reports a non-success response for a data file.
type StatusError struct {
	Path       string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("failed to load %s: %s", e.Path, e.Status)
}

// Fetcher resolves data paths against a base URL and decodes the response.
type Fetcher struct {
	client *http.Client
	base   *url.URL
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithClient replaces the default http.Client.
func WithClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.client = c
	}
}

// New returns a Fetcher that resolves paths against base, e.g.
// "https://example.com/".
func New(base string, opts ...Option) (*Fetcher, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("invalid data source %q: %w", base, err)
	}
	if u.Scheme == "" {
		return nil, fmt.Errorf("invalid data source %q: missing scheme", base)
	}

	f := &Fetcher{client: http.DefaultClient, base: u}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// NewLocal returns a Fetcher that reads paths from the directory root.
// A missing file surfaces as a 404 StatusError, same as over HTTP.
func NewLocal(root string) *Fetcher {
	transport := &http.Transport{}
	transport.RegisterProtocol("file", http.NewFileTransport(http.Dir(root)))

	return &Fetcher{
		client: &http.Client{Transport: transport},
		base:   &url.URL{Scheme: "file", Path: "/"},
	}
}

// IsRemote reports whether source is an http(s) URL rather than a directory.
func IsRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// NewFromSource returns New for http(s) sources and NewLocal otherwise.
func NewFromSource(source string, opts ...Option) (*Fetcher, error) {
	if IsRemote(source) {
		return New(source, opts...)
	}
	return NewLocal(source), nil
}

// Resolve returns the absolute URL path refers to.
func (f *Fetcher) Resolve(path string) (*url.URL, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("invalid data path %q: %w", path, err)
	}
	return f.base.ResolveReference(ref), nil
}

// Get fetches path and decodes its JSON body into v.
func (f *Fetcher) Get(ctx context.Context, path string, v any) error {
	u, err := f.Resolve(path)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Path: path, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	// The body must hold exactly one value; only whitespace may follow it.
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errTrailingData
		}
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// JSON fetches path and decodes it into a new T.
func JSON[T any](ctx context.Context, f *Fetcher, path string) (T, error) {
	var v T
	err := f.Get(ctx, path, &v)
	return v, err
}
