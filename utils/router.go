package utils

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"reelist/internal/memo"
)

// corsMiddleware allows browser requests from the configured front-end
// origins. An empty allow-list reflects any origin (development mode).
func corsMiddleware(allowed []string) mux.MiddlewareFunc {
	allowedSet := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		allowedSet[origin] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" {
				_, ok := allowedSet[origin]
				if ok || len(allowedSet) == 0 {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					w.Header().Set("Vary", "Origin")
					w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
					w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
					w.Header().Set("Access-Control-Allow-Credentials", "true")
				}
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requestIDMiddleware tags every request with an id for log correlation.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}

// memoMiddleware attaches a fresh request-scoped memo cache so repeated
// idempotent reads within one request share a single result.
func memoMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(memo.With(r.Context())))
	})
}

// NewRouter constructs the base mux router with common middleware and the
// health route.
func NewRouter(allowedOrigins []string) *mux.Router {
	r := mux.NewRouter()

	r.Use(corsMiddleware(allowedOrigins))
	r.Use(requestIDMiddleware)
	r.Use(memoMiddleware)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)
	return r
}
