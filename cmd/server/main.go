package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"reelist/api"
	"reelist/config"
	"reelist/handlers"
	"reelist/internal/database"
	"reelist/services/cache"
	"reelist/services/events"
	"reelist/services/tmdb"
	"reelist/services/watchlist"
	"reelist/utils"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("[server] config: %v", err)
	}

	if cfg.Logging.File != "" {
		log.SetOutput(io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   cfg.Logging.File,
			MaxSize:    50, // MB
			MaxBackups: 3,
			MaxAge:     28, // days
		}))
	}

	store := openCacheStore(cfg)

	db, err := database.Open(filepath.Join(cfg.Server.DataDir, "reelist.db"))
	if err != nil {
		log.Fatalf("[server] database: %v", err)
	}
	defer db.Close()

	catalog := tmdb.NewService(cfg.TMDB.Token, cfg.TMDB.BaseURL, cfg.TMDB.Language, nil, store)
	lists := watchlist.NewService(db.Watchlist)

	// Preference changes flush the listings the old preferences shaped.
	bus := events.NewBus()
	bus.Subscribe(events.RegionChanged, func(e events.Event) {
		if e.Payload == "" {
			return
		}
		if err := catalog.InvalidateTag(context.Background(), tmdb.TagRegion(e.Payload)); err != nil {
			log.Printf("[server] invalidate %s: %v", tmdb.TagRegion(e.Payload), err)
		}
	})
	bus.Subscribe(events.ProvidersChanged, func(e events.Event) {
		if e.Payload == "" {
			return
		}
		if err := catalog.InvalidateTag(context.Background(), tmdb.TagRegion(e.Payload)); err != nil {
			log.Printf("[server] invalidate %s: %v", tmdb.TagRegion(e.Payload), err)
		}
	})

	prefs := handlers.CookiePrefs(cfg.Server.SecureCookies)
	catalogH := handlers.NewCatalogHandler(catalog, prefs)
	genresH := handlers.NewGenresHandler(catalog)

	router := utils.NewRouter(cfg.Server.AllowedOrigins)
	handlers.Register(router, handlers.Deps{
		Catalog:   catalogH,
		Detail:    handlers.NewDetailHandler(catalog),
		Genres:    genresH,
		Providers: handlers.NewProvidersHandler(catalog, prefs),
		Settings:  handlers.NewSettingsHandler(prefs, bus),
		Watchlist: handlers.NewWatchlistHandler(lists),
		Links:     handlers.NewLinksHandler(catalog, catalog, prefs),
		Cache:     handlers.NewCacheHandler(catalog),
	})

	limiter := api.NewLimiter(api.DefaultLimits())

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      limiter.Middleware(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("[server] listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[server] listen: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("[server] shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[server] shutdown: %v", err)
	}
	closeCacheStore(store)
}

// openCacheStore builds the configured cache backend, degrading to the
// in-memory store when the backend cannot be reached. The cache is an
// optimization, never a dependency.
func openCacheStore(cfg *config.Config) cache.Store {
	switch cfg.Cache.Backend {
	case "redis":
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		store, err := cache.NewRedis(ctx, cfg.Cache.RedisAddr, cfg.Cache.RedisPassword)
		if err != nil {
			log.Printf("[server] redis unavailable, falling back to memory cache: %v", err)
			return cache.NewMemory()
		}
		log.Printf("[server] using redis cache at %s", cfg.Cache.RedisAddr)
		return store
	case "bolt":
		path := filepath.Join(cfg.Server.DataDir, "cache.db")
		store, err := cache.NewBolt(path)
		if err != nil {
			log.Printf("[server] bolt cache unavailable, falling back to memory cache: %v", err)
			return cache.NewMemory()
		}
		log.Printf("[server] using bolt cache at %s", path)
		return store
	default:
		return cache.NewMemory()
	}
}

func closeCacheStore(store cache.Store) {
	type closer interface{ Close() error }
	if c, ok := store.(closer); ok {
		if err := c.Close(); err != nil {
			log.Printf("[server] cache close: %v", err)
		}
	}
}
