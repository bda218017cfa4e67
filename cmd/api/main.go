package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/elhabassi/portfolio-api/internal/config"
	"github.com/elhabassi/portfolio-api/internal/domain/admin"
	"github.com/elhabassi/portfolio-api/internal/domain/description"
	"github.com/elhabassi/portfolio-api/internal/domain/gallery"
	"github.com/elhabassi/portfolio-api/internal/middleware"
	"github.com/elhabassi/portfolio-api/internal/pkg/database"
	"github.com/elhabassi/portfolio-api/internal/pkg/imaging"
	"github.com/elhabassi/portfolio-api/internal/pkg/jwt"
	"github.com/elhabassi/portfolio-api/internal/pkg/kvstore"
	"github.com/elhabassi/portfolio-api/internal/pkg/logger"
	pkgresponse "github.com/elhabassi/portfolio-api/internal/pkg/response"
	"github.com/elhabassi/portfolio-api/internal/pkg/storage"
)

func main() {
	cfg := config.Load()

	if err := logger.Init(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.IsDevelopment(),
	}); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize logger")
	}

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Str("store", cfg.StoreBackend).
		Msg("Starting El Habassi portfolio API")

	// ---------- Persisted collections ----------
	kv, closeKV, err := newKVStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.StoreBackend).Msg("Failed to open collections store")
	}
	defer closeKV()

	store := gallery.NewStore(kv)
	store.Hydrate(context.Background())

	// ---------- Media backend ----------
	media, err := newMediaStorage(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("mode", cfg.MediaMode).Msg("Failed to set up media storage")
	}

	// ---------- Services ----------
	jwtService := jwt.NewService(cfg.JWTSecret, cfg.AdminTokenTTL)

	adminService, err := admin.NewService(cfg.AdminPassword, jwtService, store)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create admin service")
	}

	processor := imaging.NewProcessor(imaging.DefaultConfig())

	descriptionClient := description.NewClient(cfg.GeminiBaseURL, cfg.GeminiAPIKey, cfg.GeminiModel, 0)

	// ---------- WebSocket hub ----------
	hub := gallery.NewHub(store, cfg.AllowedOrigins)
	go hub.Run()
	defer hub.Shutdown()

	// ---------- Handlers ----------
	galleryHandler := gallery.NewHandler(store, processor, media)
	adminHandler := admin.NewHandler(adminService)
	descriptionHandler := description.NewHandler(descriptionClient, store)

	adminMiddleware := middleware.RequireAdmin(jwtService)

	// ---------- Router ----------
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))

	// WebSocket endpoint (before Compress)
	r.Get("/ws", hub.ServeWS)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		pkgresponse.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(chimw.Compress(5))

		r.Mount("/admin", adminHandler.Routes(adminMiddleware))

		descriptionHandler.Register(r)

		r.Mount("/", galleryHandler.Routes(adminMiddleware))
	})

	// Locally stored uploads are served straight from disk
	if cfg.MediaMode == "local" {
		fs := http.StripPrefix("/media/", http.FileServer(http.Dir(cfg.MediaDir)))
		r.Get("/media/*", fs.ServeHTTP)
	}

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}

// newKVStore opens the collections backend selected by STORE_BACKEND.
// The file backend is the default and needs no external services.
func newKVStore(cfg *config.Config) (kvstore.KV, func(), error) {
	switch cfg.StoreBackend {
	case "redis":
		client, err := database.NewRedis(cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return kvstore.NewRedisStore(client), func() { database.CloseRedis(client) }, nil

	case "postgres":
		db, err := database.NewPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		kv, err := kvstore.NewPostgresStore(db)
		if err != nil {
			database.ClosePostgres(db)
			return nil, nil, err
		}
		return kv, func() { database.ClosePostgres(db) }, nil

	default:
		kv, err := kvstore.NewFileStore(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return kv, func() {}, nil
	}
}

// newMediaStorage picks where downscaled uploads live. In "inline" mode
// images are embedded as data URIs and no storage backend is needed.
func newMediaStorage(cfg *config.Config) (storage.Storage, error) {
	switch cfg.MediaMode {
	case "local":
		return storage.NewLocalStorage(cfg.MediaDir, cfg.MediaBaseURL)

	case "s3":
		return storage.NewS3Storage(storage.S3Config{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
			PublicURL: cfg.MediaBaseURL,
		})

	default:
		return nil, nil
	}
}
