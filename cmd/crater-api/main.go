package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/craterhub/crater-api/internal/cache"
	"github.com/craterhub/crater-api/internal/config"
	"github.com/craterhub/crater-api/internal/database"
	"github.com/craterhub/crater-api/internal/handlers"
	authmw "github.com/craterhub/crater-api/internal/middleware"
	"github.com/craterhub/crater-api/internal/services"
	"github.com/craterhub/crater-api/internal/storage"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/m1z23r/drift/pkg/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	redisClient, err := cache.NewClient(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer func() { _ = redisClient.Close() }()

	assets, err := storage.NewMinioStore(cfg.S3, cfg.CDNURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to object storage")
	}

	collectionCache := cache.NewCollectionCache(redisClient, cfg.CacheTTL)

	jwtService := services.NewJWTService(cfg.JWTSecret, cfg.JWTAccessExpiry, cfg.JWTRefreshExpiry)
	userService := services.NewUserService(db)
	projectService := services.NewProjectService(db)
	collectionService := services.NewCollectionService(db, collectionCache, projectService)
	iconService := services.NewIconService(db, collectionCache, assets)

	userHandler := handlers.NewUserHandler(userService)
	collectionHandler := handlers.NewCollectionHandler(collectionService, iconService)

	app := drift.New()

	if cfg.IsProduction() {
		app.SetMode(drift.ReleaseMode)
	} else {
		app.SetMode(drift.DebugMode)
	}

	app.Use(middleware.Recovery())
	app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:       86400,
	}))
	app.Use(middleware.BodyParser())

	api := app.Group("/api/v1")

	public := api.Group("")
	public.Use(authmw.OptionalAuth(jwtService))
	public.Get("/collections", collectionHandler.List)
	public.Get("/collections/:collectionId", collectionHandler.Get)

	protected := api.Group("")
	protected.Use(authmw.Auth(jwtService))
	protected.Post("/collections", collectionHandler.Create)
	protected.Patch("/collections/:collectionId", collectionHandler.Edit)
	protected.Delete("/collections/:collectionId", collectionHandler.Delete)
	protected.Patch("/collections/:collectionId/icon", collectionHandler.SetIcon)
	protected.Delete("/collections/:collectionId/icon", collectionHandler.ClearIcon)
	protected.Get("/users/me", userHandler.GetMe)
	protected.Get("/users/me/collections", collectionHandler.ListMine)

	api.Get("/health", func(c *drift.Context) {
		_ = c.JSON(200, map[string]string{"status": "ok"})
	})

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		log.Info().Str("addr", addr).Msg("server starting")
		if err := app.Run(addr); err != nil {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
}
