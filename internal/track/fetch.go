package track

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const maxTrackBytes = 16 << 20

var errTrackTooLarge = fmt.Errorf("track exceeds %d MiB", maxTrackBytes>>20)

// reads at most maxTrackBytes; a longer track is an error, never a truncation
func readTrack(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxTrackBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxTrackBytes {
		return nil, errTrackTooLarge
	}
	return data, nil
}

// HTTPFetcher downloads track text over HTTP(S).
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
}

func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPFetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: "dualsub/1.0",
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, source string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return "", &FetchError{Source: source, Err: err}
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &FetchError{Source: source, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := readTrack(resp.Body)
	if err != nil {
		return "", &FetchError{Source: source, Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(string(body))
		if len(msg) > 200 {
			msg = msg[:200] + "..."
		}
		if msg == "" {
			msg = resp.Status
		}
		return "", &FetchError{
			Source: source,
			Status: resp.StatusCode,
			Err:    errors.New(msg),
		}
	}

	return string(body), nil
}

// FileFetcher reads track text from the local filesystem. A file:// prefix
// is accepted.
type FileFetcher struct{}

func (FileFetcher) Fetch(ctx context.Context, source string) (string, error) {
	path := strings.TrimPrefix(source, "file://")
	file, err := os.Open(path)
	if err != nil {
		return "", &FetchError{Source: source, Err: err}
	}
	defer func() {
		_ = file.Close()
	}()

	data, err := readTrack(file)
	if err != nil {
		return "", &FetchError{Source: source, Err: err}
	}
	return string(data), nil
}

// Router picks a fetcher by the shape of the source.
type Router struct {
	HTTP  Fetcher
	File  Fetcher
	Media Fetcher
}

func NewRouter(timeout time.Duration) *Router {
	return &Router{
		HTTP:  NewHTTPFetcher(timeout),
		File:  FileFetcher{},
		Media: &MediaFetcher{},
	}
}

func (r *Router) Fetch(ctx context.Context, source string) (string, error) {
	switch {
	case isHTTP(source):
		return r.HTTP.Fetch(ctx, source)
	case strings.HasPrefix(source, mediaScheme):
		if r.Media == nil {
			return "", &FetchError{
				Source: source,
				Err:    fmt.Errorf("media sources are not supported"),
			}
		}
		return r.Media.Fetch(ctx, source)
	default:
		return r.File.Fetch(ctx, source)
	}
}

func isHTTP(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") ||
		strings.HasPrefix(lower, "https://")
}
