// Package tmdb shapes requests to the TMDB v3 API and caches the responses.
// It owns the discovery query construction (region, filters, streaming
// provider constraints), the cache key scheme, the cached fetch path with
// in-flight de-duplication, and the normalization of movie/TV payloads into
// the shared MediaItem shape.
package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	retry "github.com/avast/retry-go/v4"

	"reelist/internal/memo"
	"reelist/services/cache"
)

// DefaultBaseURL is the production TMDB API root.
const DefaultBaseURL = "https://api.themoviedb.org/3"

// StatusError is a non-2xx upstream response. Callers at the page-data
// boundary decide whether it maps to not-found, an empty state, or a
// retry prompt.
type StatusError struct {
	Code int
	URL  string
	Body string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("tmdb: %d from %s: %s", e.Code, e.URL, e.Body)
	}
	return fmt.Sprintf("tmdb: %d from %s", e.Code, e.URL)
}

// IsNotFound reports whether err is an upstream 404.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusNotFound
}

// Client performs cached GETs against TMDB. A nil cache store is valid and
// means every read goes upstream.
type Client struct {
	token    string
	baseURL  string
	language string
	httpc    *http.Client
	store    cache.Store

	inflightMu       sync.Mutex
	inflightRequests map[string]*inflightRequest
}

type inflightRequest struct {
	wg     sync.WaitGroup
	result []byte
	err    error
}

func NewClient(token, baseURL, language string, httpc *http.Client, store cache.Store) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpc == nil {
		httpc = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		token:            token,
		baseURL:          strings.TrimSuffix(baseURL, "/"),
		language:         language,
		httpc:            httpc,
		store:            store,
		inflightRequests: make(map[string]*inflightRequest),
	}
}

// FetchWithCache returns the response body for rawURL, consulting the
// request-scoped memo first, then the shared cache, then upstream. Concurrent
// callers for the same key share a single upstream call. Tag invalidation on
// the store makes the next access refetch regardless of remaining TTL.
func (c *Client) FetchWithCache(ctx context.Context, rawURL, key string, ttl time.Duration, tags []string) ([]byte, error) {
	v, err := memo.FromContext(ctx).Do(memo.Key("tmdb.fetch", key), func() (any, error) {
		return c.fetchShared(ctx, rawURL, key, ttl, tags)
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (c *Client) fetchShared(ctx context.Context, rawURL, key string, ttl time.Duration, tags []string) ([]byte, error) {
	if c.store != nil {
		if cached, ok := c.store.Get(ctx, key); ok {
			return cached, nil
		}
	}

	c.inflightMu.Lock()
	if inflight, exists := c.inflightRequests[key]; exists {
		c.inflightMu.Unlock()
		inflight.wg.Wait()
		return inflight.result, inflight.err
	}
	inflight := &inflightRequest{}
	inflight.wg.Add(1)
	c.inflightRequests[key] = inflight
	c.inflightMu.Unlock()

	body, err := c.fetch(ctx, rawURL)
	if err == nil && c.store != nil {
		if serr := c.store.Set(ctx, key, body, ttl, tags); serr != nil {
			log.Printf("[tmdb] cache write failed key=%s: %v", key, serr)
		}
	}
	inflight.result = body
	inflight.err = err
	inflight.wg.Done()

	c.inflightMu.Lock()
	delete(c.inflightRequests, key)
	c.inflightMu.Unlock()

	return body, err
}

// fetch performs the upstream GET with bounded retries. 429 and 5xx are
// retried with backoff; other non-2xx responses fail immediately.
func (c *Client) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	var body []byte
	err := retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			req.Header.Set("Authorization", "Bearer "+c.token)
			req.Header.Set("Accept", "application/json")
			resp, err := c.httpc.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
				serr := &StatusError{Code: resp.StatusCode, URL: rawURL, Body: strings.TrimSpace(string(snippet))}
				if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
					return serr
				}
				return retry.Unrecoverable(serr)
			}
			body, err = io.ReadAll(resp.Body)
			return err
		},
		retry.Attempts(3),
		retry.Delay(300*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) {
			return nil, se
		}
		return nil, fmt.Errorf("tmdb get %s: %w", rawURL, err)
	}
	return body, nil
}

func (c *Client) fetchInto(ctx context.Context, rawURL, key string, ttl time.Duration, tags []string, v any) error {
	body, err := c.FetchWithCache(ctx, rawURL, key, ttl, tags)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("tmdb decode %s: %w", key, err)
	}
	return nil
}
