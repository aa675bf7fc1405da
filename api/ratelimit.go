// Package api holds HTTP middleware applied in front of the handlers.
package api

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limit is the token-bucket shape for one traffic class.
type Limit struct {
	Rate  rate.Limit
	Burst int
}

// Traffic classes. Search gets its own bucket because the client issues a
// request per keystroke; mutations are throttled harder than reads.
const (
	ClassBrowse = "browse"
	ClassSearch = "search"
	ClassMutate = "mutate"
)

// DefaultLimits suit a small deployment behind a reverse proxy.
func DefaultLimits() map[string]Limit {
	return map[string]Limit{
		ClassBrowse: {Rate: 10, Burst: 30},
		ClassSearch: {Rate: 5, Burst: 15},
		ClassMutate: {Rate: 2, Burst: 10},
	}
}

type bucketKey struct {
	ip    string
	class string
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter applies per-client token buckets, one per traffic class, so a
// burst of search-as-you-type traffic cannot exhaust the budget that page
// loads draw from. Idle buckets are swept during normal acquisition rather
// than by a background goroutine.
type Limiter struct {
	mu        sync.Mutex
	buckets   map[bucketKey]*bucket
	limits    map[string]Limit
	lastSweep time.Time
}

// NewLimiter builds a limiter with the given per-class limits; nil means
// DefaultLimits.
func NewLimiter(limits map[string]Limit) *Limiter {
	if limits == nil {
		limits = DefaultLimits()
	}
	return &Limiter{
		buckets:   make(map[bucketKey]*bucket),
		limits:    limits,
		lastSweep: time.Now(),
	}
}

const (
	sweepInterval = time.Minute
	bucketIdleTTL = 10 * time.Minute
)

func (l *Limiter) allow(ip, class string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if now.Sub(l.lastSweep) > sweepInterval {
		for k, b := range l.buckets {
			if now.Sub(b.lastSeen) > bucketIdleTTL {
				delete(l.buckets, k)
			}
		}
		l.lastSweep = now
	}

	key := bucketKey{ip: ip, class: class}
	b, ok := l.buckets[key]
	if !ok {
		lim := l.limits[class]
		b = &bucket{limiter: rate.NewLimiter(lim.Rate, lim.Burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now
	return b.limiter.Allow()
}

// classify buckets a request by the traffic pattern it belongs to.
func classify(r *http.Request) string {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		return ClassMutate
	}
	if strings.HasPrefix(r.URL.Path, "/api/search") {
		return ClassSearch
	}
	return ClassBrowse
}

// clientIP resolves the real client address when the server sits behind a
// proxy. The leftmost X-Forwarded-For entry is the originating client.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Middleware enforces the per-client class limits, answering 429 with a
// JSON body when a client runs out of tokens.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.allow(clientIP(r), classify(r)) {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "10")
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]string{"error": "too many requests"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
